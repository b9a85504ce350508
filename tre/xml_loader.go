package tre

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"

	"github.com/kpfaulkner/nitf-go/nitfio"
)

// loadXML reads a <tres> document. Elements are walked token by token since
// the order of field, loop and if children is significant.
func loadXML(in io.Reader) ([]rawTre, error) {
	dec := xml.NewDecoder(in)

	var tres []rawTre
	var current *rawTre
	// stack holds the open loop/if elements inside current.
	var stack []*rawNode

	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: grammar document: %v", nitfio.ErrUnsupportedGrammarConstruct, err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			attrs := attrMap(t.Attr)
			switch t.Name.Local {
			case "tres":
			case "tre":
				if current != nil {
					return nil, fmt.Errorf("%w: nested tre element %q", nitfio.ErrUnsupportedGrammarConstruct, attrs["name"])
				}
				current = &rawTre{name: attrs["name"], longName: attrs["longname"]}
			default:
				if current == nil {
					return nil, fmt.Errorf("%w: %s element outside a tre", nitfio.ErrUnsupportedGrammarConstruct, t.Name.Local)
				}
				node := rawNode{
					kind:       t.Name.Local,
					name:       attrs["name"],
					longName:   attrs["longname"],
					length:     attrs["length"],
					lengthVar:  attrs["length_var"],
					fieldType:  attrs["type"],
					counter:    attrs["counter"],
					iterations: attrs["iterations"],
					cond:       attrs["cond"],
				}
				stack = append(stack, &node)
			}

		case xml.EndElement:
			switch t.Name.Local {
			case "tres":
			case "tre":
				if current != nil {
					tres = append(tres, *current)
				}
				current = nil
				stack = stack[:0]
			default:
				if len(stack) == 0 {
					continue
				}
				node := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				if len(stack) == 0 {
					current.nodes = append(current.nodes, *node)
				} else {
					parent := stack[len(stack)-1]
					parent.children = append(parent.children, *node)
				}
			}
		}
	}

	if current != nil {
		return nil, fmt.Errorf("%w: tre %s is not closed", nitfio.ErrUnsupportedGrammarConstruct, current.name)
	}
	return tres, nil
}

func attrMap(attrs []xml.Attr) map[string]string {
	m := make(map[string]string, len(attrs))
	for _, a := range attrs {
		m[a.Name.Local] = a.Value
	}
	return m
}
