package tre

import (
	"fmt"
	"strconv"

	"github.com/hashicorp/go-multierror"
	"github.com/kpfaulkner/nitf-go/nitfio"
)

// rawTre and rawNode hold a grammar document as loaded, before any of it
// has been checked. Both the XML and YAML loaders produce these.
type rawTre struct {
	name     string
	longName string
	nodes    []rawNode
}

type rawNode struct {
	kind       string
	name       string
	longName   string
	length     string
	lengthVar  string
	fieldType  string
	counter    string
	iterations string
	cond       string
	children   []rawNode
}

const (
	kindField = "field"
	kindLoop  = "loop"
	kindIf    = "if"
)

// compiler turns raw documents into Definitions, collecting every problem
// instead of stopping at the first.
type compiler struct {
	errs     *multierror.Error
	tre      string
	declared map[string]bool
}

func compile(raws []rawTre) (map[string]*Definition, error) {
	c := &compiler{}
	defs := make(map[string]*Definition, len(raws))
	for _, raw := range raws {
		if raw.name == "" {
			c.fail(nitfio.ErrUnsupportedGrammarConstruct, "tre element without a name")
			continue
		}
		c.tre = raw.name
		c.declared = make(map[string]bool)
		def := &Definition{Name: raw.name, LongName: raw.longName, Nodes: c.nodes(raw.nodes)}
		defs[raw.name] = def
	}
	if err := c.errs.ErrorOrNil(); err != nil {
		return nil, err
	}
	return defs, nil
}

func (c *compiler) fail(sentinel error, detail string, args ...any) {
	msg := fmt.Sprintf(detail, args...)
	if c.tre != "" {
		msg = fmt.Sprintf("TRE %s: %s", c.tre, msg)
	}
	c.errs = multierror.Append(c.errs, fmt.Errorf("%w: %s", sentinel, msg))
}

func (c *compiler) nodes(raws []rawNode) []Node {
	nodes := make([]Node, 0, len(raws))
	for _, raw := range raws {
		var n Node
		switch raw.kind {
		case kindField:
			n = c.field(raw)
		case kindLoop:
			n = c.loop(raw)
		case kindIf:
			n = c.conditional(raw)
		default:
			c.fail(nitfio.ErrUnsupportedGrammarConstruct, "unknown element %q", raw.kind)
		}
		if n != nil {
			nodes = append(nodes, n)
		}
	}
	return nodes
}

func (c *compiler) reference(name string, from string) {
	if !c.declared[name] {
		c.fail(nitfio.ErrUnresolvedReference, "%s refers to %s before it is declared", from, name)
	}
}

func (c *compiler) field(raw rawNode) Node {
	f := &Field{Name: raw.name, LongName: raw.longName, LengthRef: raw.lengthVar, Type: TypeString}
	label := raw.name
	if label == "" {
		label = "reserved field"
	}

	switch FieldType(raw.fieldType) {
	case "":
	case TypeString, TypeInteger, TypeReal, TypeBinary:
		f.Type = FieldType(raw.fieldType)
	default:
		c.fail(nitfio.ErrUnsupportedGrammarConstruct, "%s has unknown type %q", label, raw.fieldType)
	}

	switch {
	case raw.length != "" && raw.lengthVar != "":
		c.fail(nitfio.ErrUnsupportedGrammarConstruct, "%s has both length and length_var", label)
	case raw.lengthVar != "":
		c.reference(raw.lengthVar, label)
	case raw.length != "":
		n, err := strconv.Atoi(raw.length)
		if err != nil || n <= 0 {
			c.fail(nitfio.ErrUnsupportedGrammarConstruct, "%s has bad length %q", label, raw.length)
		}
		f.Length = n
	default:
		c.fail(nitfio.ErrUnsupportedGrammarConstruct, "%s has no length", label)
	}

	if f.Name != "" {
		c.declared[f.Name] = true
	}
	return f
}

func (c *compiler) loop(raw rawNode) Node {
	l := &Loop{Name: raw.name}
	var count Count
	var err error

	switch {
	case raw.counter != "" && raw.iterations != "":
		c.fail(nitfio.ErrUnsupportedGrammarConstruct, "loop %s has both counter and iterations", raw.name)
	case raw.counter != "":
		count = Count{Ref: raw.counter}
	case raw.iterations != "":
		count, err = ParseCount(raw.iterations)
		if err != nil {
			c.fail(nitfio.ErrUnsupportedGrammarConstruct, "loop %s: %v", raw.name, err)
		}
	default:
		c.fail(nitfio.ErrUnsupportedGrammarConstruct, "loop %s has no count", raw.name)
	}

	l.Count = count
	switch {
	case count.Ref != "":
		c.reference(count.Ref, "loop "+l.EntryName())
	case count.Formula != nil:
		c.reference(count.Formula.A, "loop formula "+count.Formula.Text)
		if count.Formula.B != "" {
			c.reference(count.Formula.B, "loop formula "+count.Formula.Text)
		}
	}
	l.Nodes = c.nodes(raw.children)
	return l
}

func (c *compiler) conditional(raw rawNode) Node {
	cond, err := ParseCondition(raw.cond)
	if err != nil {
		c.errs = multierror.Append(c.errs, fmt.Errorf("TRE %s: %w", c.tre, err))
		return nil
	}
	for _, clause := range cond.Clauses {
		c.reference(clause.Name, "condition "+raw.cond)
	}
	return &Conditional{Cond: cond, Nodes: c.nodes(raw.children)}
}
