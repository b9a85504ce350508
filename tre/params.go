package tre

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/elliotchance/orderedmap/v3"
	"github.com/kpfaulkner/nitf-go/nitfio"
)

type param struct {
	value     string
	fieldType FieldType
}

// Params binds field names to the values decoded so far within a single
// TRE. Later bindings of the same name replace earlier ones, which is what
// loops rely on.
type Params struct {
	values *orderedmap.OrderedMap[string, param]
}

func NewParams() *Params {
	return &Params{values: orderedmap.NewOrderedMap[string, param]()}
}

func (p *Params) Bind(name string, value string, fieldType FieldType) {
	p.values.Set(name, param{value: value, fieldType: fieldType})
}

func (p *Params) Len() int {
	return p.values.Len()
}

// Names lists bound names in first-bound order.
func (p *Params) Names() []string {
	names := make([]string, 0, p.values.Len())
	for name := range p.values.Keys() {
		names = append(names, name)
	}
	return names
}

func (p *Params) lookup(name string) (param, error) {
	v, ok := p.values.Get(name)
	if !ok {
		return param{}, fmt.Errorf("%w: %s has not been decoded", nitfio.ErrUnresolvedReference, name)
	}
	return v, nil
}

// Text returns the raw bound value of name.
func (p *Params) Text(name string) (string, error) {
	v, err := p.lookup(name)
	if err != nil {
		return "", err
	}
	if v.fieldType == TypeBinary {
		return strconv.FormatUint(binaryValue(v.value), 10), nil
	}
	return v.value, nil
}

// Int returns the bound value of name as a non-negative integer.
func (p *Params) Int(name string) (int, error) {
	v, err := p.lookup(name)
	if err != nil {
		return 0, err
	}
	if v.fieldType == TypeBinary {
		return int(binaryValue(v.value)), nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(v.value))
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%w: %s value %q is not a count", nitfio.ErrMalformedField, name, v.value)
	}
	return n, nil
}

// binaryValue reads a big endian unsigned integer from ISO-8859-1 text,
// where every rune is one byte.
func binaryValue(s string) uint64 {
	var v uint64
	for _, r := range s {
		v = v<<8 | uint64(r&0xFF)
	}
	return v
}
