package tre

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/kpfaulkner/nitf-go/nitfio"
)

type FormulaKind int

const (
	// (N+1)*(N)/2
	FormulaTriangular FormulaKind = iota
	// A*B
	FormulaProduct
	// N-1
	FormulaDecrement
)

var (
	namePattern       = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_]*$`)
	triangularPattern = regexp.MustCompile(`^\(([A-Za-z][A-Za-z0-9_]*)\+1\)\*\(([A-Za-z][A-Za-z0-9_]*)\)/2$`)
	productPattern    = regexp.MustCompile(`^([A-Za-z][A-Za-z0-9_]*)\*([A-Za-z][A-Za-z0-9_]*)$`)
	decrementPattern  = regexp.MustCompile(`^([A-Za-z][A-Za-z0-9_]*)-1$`)
)

// Formula is a loop count computed from earlier fields. Only the forms
// listed in FormulaKind are accepted.
type Formula struct {
	Kind FormulaKind
	Text string
	A    string
	B    string
}

// ParseFormula recognises a supported formula, ignoring white space.
func ParseFormula(expr string) (*Formula, error) {
	compact := strings.Join(strings.Fields(expr), "")

	if m := triangularPattern.FindStringSubmatch(compact); m != nil {
		if m[1] != m[2] {
			return nil, fmt.Errorf("%w: formula %q mixes %s and %s", nitfio.ErrUnsupportedGrammarConstruct, expr, m[1], m[2])
		}
		return &Formula{Kind: FormulaTriangular, Text: expr, A: m[1]}, nil
	}
	if m := productPattern.FindStringSubmatch(compact); m != nil {
		return &Formula{Kind: FormulaProduct, Text: expr, A: m[1], B: m[2]}, nil
	}
	if m := decrementPattern.FindStringSubmatch(compact); m != nil {
		return &Formula{Kind: FormulaDecrement, Text: expr, A: m[1]}, nil
	}
	return nil, fmt.Errorf("%w: formula %q", nitfio.ErrUnsupportedGrammarConstruct, expr)
}

func (f *Formula) Evaluate(params *Params) (int, error) {
	a, err := params.Int(f.A)
	if err != nil {
		return 0, err
	}

	switch f.Kind {
	case FormulaTriangular:
		return (a + 1) * a / 2, nil
	case FormulaProduct:
		b, err := params.Int(f.B)
		if err != nil {
			return 0, err
		}
		return a * b, nil
	case FormulaDecrement:
		if a < 1 {
			return 0, nil
		}
		return a - 1, nil
	}
	return 0, fmt.Errorf("%w: formula %q", nitfio.ErrUnsupportedGrammarConstruct, f.Text)
}
