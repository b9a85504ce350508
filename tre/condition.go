package tre

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/kpfaulkner/nitf-go/nitfio"
)

// Clause compares one bound field with a literal.
type Clause struct {
	Name   string
	Negate bool
	Value  string
}

// Condition is a conjunction of clauses, written "A=1 AND B!=".
type Condition struct {
	Text    string
	Clauses []Clause
}

func ParseCondition(text string) (*Condition, error) {
	cond := &Condition{Text: text}
	for _, part := range strings.Split(text, " AND ") {
		clause, err := parseClause(strings.TrimSpace(part))
		if err != nil {
			return nil, fmt.Errorf("%w: condition %q: %v", nitfio.ErrUnsupportedGrammarConstruct, text, err)
		}
		cond.Clauses = append(cond.Clauses, clause)
	}
	return cond, nil
}

func parseClause(part string) (Clause, error) {
	var clause Clause
	var name string
	if i := strings.Index(part, "!="); i >= 0 {
		name, clause.Value = part[:i], part[i+2:]
		clause.Negate = true
	} else if i := strings.Index(part, "="); i >= 0 {
		name, clause.Value = part[:i], part[i+1:]
	} else {
		return clause, fmt.Errorf("no comparison in %q", part)
	}

	clause.Name = strings.TrimSpace(name)
	clause.Value = strings.TrimSpace(clause.Value)
	if !namePattern.MatchString(clause.Name) {
		return clause, fmt.Errorf("bad field name %q", clause.Name)
	}
	return clause, nil
}

func (c *Condition) Evaluate(params *Params) (bool, error) {
	for _, clause := range c.Clauses {
		ok, err := clause.evaluate(params)
		if err != nil {
			return false, err
		}
		if !ok {
			return false, nil
		}
	}
	return true, nil
}

func (c Clause) evaluate(params *Params) (bool, error) {
	value, err := params.Text(c.Name)
	if err != nil {
		return false, err
	}
	value = strings.TrimSpace(value)

	equal := value == c.Value
	if a, errA := strconv.Atoi(value); errA == nil {
		if b, errB := strconv.Atoi(c.Value); errB == nil {
			equal = a == b
		}
	}

	if c.Negate {
		// "A!=" means A is not blank.
		return !equal, nil
	}
	return equal, nil
}
