package tre

import (
	"fmt"
	"strconv"

	"github.com/kpfaulkner/nitf-go/nitfio"
)

// FieldType says how a field's text should be interpreted when another
// part of the grammar refers to it.
type FieldType string

const (
	TypeString  FieldType = "string"
	TypeInteger FieldType = "integer"
	TypeReal    FieldType = "real"
	TypeBinary  FieldType = "binary"
)

// Node is one of *Field, *Loop or *Conditional.
type Node interface {
	node()
}

// Field is a run of bytes, either a fixed length or the decoded value of an
// earlier field. A field with no name is reserved filler.
type Field struct {
	Name      string
	LongName  string
	Length    int
	LengthRef string
	Type      FieldType
}

// Loop repeats Nodes a number of times given by Count.
type Loop struct {
	Name  string
	Count Count
	Nodes []Node
}

// Conditional includes Nodes only when Cond holds.
type Conditional struct {
	Cond  *Condition
	Nodes []Node
}

func (*Field) node()       {}
func (*Loop) node()        {}
func (*Conditional) node() {}

// Definition is the grammar for a single TRE tag.
type Definition struct {
	Name     string
	LongName string
	Nodes    []Node
}

// Count is a loop repeat count. Exactly one of the three forms is used.
type Count struct {
	Literal int
	Ref     string
	Formula *Formula
}

// ParseCount interprets a loop iterations expression: a number, a field
// name, or one of the supported formulas.
func ParseCount(expr string) (Count, error) {
	if n, err := strconv.Atoi(expr); err == nil {
		if n < 0 {
			return Count{}, fmt.Errorf("%w: negative loop count %d", nitfio.ErrUnsupportedGrammarConstruct, n)
		}
		return Count{Literal: n}, nil
	}
	if namePattern.MatchString(expr) {
		return Count{Ref: expr}, nil
	}
	f, err := ParseFormula(expr)
	if err != nil {
		return Count{}, err
	}
	return Count{Formula: f}, nil
}

// Resolve works out the repeat count from bound parameters.
func (c Count) Resolve(params *Params) (int, error) {
	switch {
	case c.Formula != nil:
		return c.Formula.Evaluate(params)
	case c.Ref != "":
		return params.Int(c.Ref)
	}
	return c.Literal, nil
}

func (c Count) String() string {
	switch {
	case c.Formula != nil:
		return c.Formula.Text
	case c.Ref != "":
		return c.Ref
	}
	return strconv.Itoa(c.Literal)
}

// EntryName is the name given to the decoded loop entry.
func (l *Loop) EntryName() string {
	if l.Name != "" {
		return l.Name
	}
	if l.Count.Ref != "" {
		return l.Count.Ref + "_LOOP"
	}
	return "LOOP"
}
