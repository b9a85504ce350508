package tre

import (
	"fmt"
	"io"
	"strconv"

	"github.com/kpfaulkner/nitf-go/nitfio"
	"gopkg.in/yaml.v3"
)

type yamlDocument struct {
	Tres []yamlTre `yaml:"tres"`
}

type yamlTre struct {
	Name     string     `yaml:"name"`
	LongName string     `yaml:"longname"`
	Fields   []yamlNode `yaml:"fields"`
}

// yamlNode is a field when neither loop nor if is set. A field entry with
// no field key is reserved space.
type yamlNode struct {
	Field      *string    `yaml:"field"`
	LongName   string     `yaml:"longname"`
	Length     int        `yaml:"length"`
	LengthVar  string     `yaml:"length_var"`
	Type       string     `yaml:"type"`
	Loop       *string    `yaml:"loop"`
	Counter    string     `yaml:"counter"`
	Iterations string     `yaml:"iterations"`
	If         *string    `yaml:"if"`
	Fields     []yamlNode `yaml:"fields"`
}

func loadYAML(in io.Reader) ([]rawTre, error) {
	var doc yamlDocument
	dec := yaml.NewDecoder(in)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: grammar document: %v", nitfio.ErrUnsupportedGrammarConstruct, err)
	}

	tres := make([]rawTre, 0, len(doc.Tres))
	for _, t := range doc.Tres {
		tres = append(tres, rawTre{name: t.Name, longName: t.LongName, nodes: yamlNodes(t.Fields)})
	}
	return tres, nil
}

func yamlNodes(nodes []yamlNode) []rawNode {
	raws := make([]rawNode, 0, len(nodes))
	for _, n := range nodes {
		switch {
		case n.Loop != nil:
			raws = append(raws, rawNode{
				kind:       kindLoop,
				name:       *n.Loop,
				counter:    n.Counter,
				iterations: n.Iterations,
				children:   yamlNodes(n.Fields),
			})
		case n.If != nil:
			raws = append(raws, rawNode{kind: kindIf, cond: *n.If, children: yamlNodes(n.Fields)})
		default:
			raw := rawNode{
				kind:      kindField,
				longName:  n.LongName,
				lengthVar: n.LengthVar,
				fieldType: n.Type,
			}
			if n.Field != nil {
				raw.name = *n.Field
			}
			if n.Length != 0 {
				raw.length = strconv.Itoa(n.Length)
			}
			raws = append(raws, raw)
		}
	}
	return raws
}
