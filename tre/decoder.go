package tre

import (
	"errors"

	"github.com/kpfaulkner/nitf-go/nitfio"
	log "github.com/sirupsen/logrus"
)

// Decoder walks a Definition against a reader. A Decoder is used for one
// TRE and then thrown away, since its Params belong to that TRE alone.
type Decoder struct {
	reader   *nitfio.Reader
	params   *Params
	reserved []string
}

func NewDecoder(reader *nitfio.Reader) *Decoder {
	return &Decoder{reader: reader, params: NewParams()}
}

func (d *Decoder) Params() *Params {
	return d.params
}

// Reserved returns the bytes of every unnamed field in the order they were
// read.
func (d *Decoder) Reserved() []string {
	return d.reserved
}

// Decode reads the fields of def in order and returns the entry tree.
func (d *Decoder) Decode(def *Definition) ([]*Entry, error) {
	log.Debugf("decoding TRE %s at offset %d", def.Name, d.reader.CurrentOffset())
	return d.decodeNodes(def.Nodes)
}

func (d *Decoder) decodeNodes(nodes []Node) ([]*Entry, error) {
	var entries []*Entry
	for _, n := range nodes {
		switch node := n.(type) {
		case *Field:
			entry, err := d.decodeField(node)
			if err != nil {
				return nil, err
			}
			if entry != nil {
				entries = append(entries, entry)
			}
		case *Loop:
			entry, err := d.decodeLoop(node)
			if err != nil {
				return nil, err
			}
			entries = append(entries, entry)
		case *Conditional:
			ok, err := node.Cond.Evaluate(d.params)
			if err != nil {
				return nil, d.wrap(err, node.Cond.Text)
			}
			if !ok {
				continue
			}
			nested, err := d.decodeNodes(node.Nodes)
			if err != nil {
				return nil, err
			}
			entries = append(entries, nested...)
		}
	}
	return entries, nil
}

func (d *Decoder) decodeField(f *Field) (*Entry, error) {
	length, err := fieldLength(f, d.params)
	if err != nil {
		return nil, d.wrap(err, f.Name)
	}

	value, err := d.reader.ReadText(length)
	if err != nil {
		return nil, err
	}
	if f.Name == "" {
		d.reserved = append(d.reserved, value)
		return nil, nil
	}
	d.params.Bind(f.Name, value, f.Type)
	return &Entry{Name: f.Name, Value: value}, nil
}

func (d *Decoder) decodeLoop(l *Loop) (*Entry, error) {
	count, err := l.Count.Resolve(d.params)
	if err != nil {
		return nil, d.wrap(err, l.EntryName())
	}

	entry := &Entry{Name: l.EntryName(), Loop: true, Groups: make([]*Group, 0, count)}
	for i := 0; i < count; i++ {
		nested, err := d.decodeNodes(l.Nodes)
		if err != nil {
			return nil, err
		}
		entry.Groups = append(entry.Groups, &Group{Entries: nested})
	}
	return entry, nil
}

// wrap positions err at the reader unless it already carries an offset.
func (d *Decoder) wrap(err error, field string) error {
	var pe *nitfio.ParseError
	if errors.As(err, &pe) {
		return err
	}
	return nitfio.NewParseError(err, d.reader.CurrentOffset(), field, "")
}

func fieldLength(f *Field, params *Params) (int, error) {
	if f.LengthRef == "" {
		return f.Length, nil
	}
	return params.Int(f.LengthRef)
}

// IsGrammarError reports whether err comes from a broken grammar rather than
// from the data being decoded.
func IsGrammarError(err error) bool {
	return errors.Is(err, nitfio.ErrUnresolvedReference) || errors.Is(err, nitfio.ErrUnsupportedGrammarConstruct)
}
