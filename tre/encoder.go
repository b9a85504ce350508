package tre

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/kpfaulkner/nitf-go/nitfio"
)

// Encoder writes an entry tree back out following the same Definition it
// was decoded with.
type Encoder struct {
	writer   *nitfio.Writer
	params   *Params
	reserved []string
}

func NewEncoder(writer *nitfio.Writer) *Encoder {
	return &Encoder{writer: writer, params: NewParams()}
}

// SetReserved supplies the contents of unnamed fields, in the order the
// Decoder returned them. A value whose length no longer matches its field is
// replaced by spaces, as is any field beyond the end of values.
func (e *Encoder) SetReserved(values []string) {
	e.reserved = values
}

// cursor hands out the entries of one group in order.
type cursor struct {
	entries []*Entry
	pos     int
}

func (c *cursor) next() *Entry {
	if c.pos >= len(c.entries) {
		return nil
	}
	e := c.entries[c.pos]
	c.pos++
	return e
}

func (c *cursor) remaining() int {
	return len(c.entries) - c.pos
}

func (e *Encoder) Encode(def *Definition, entries []*Entry) error {
	c := &cursor{entries: entries}
	if err := e.encodeNodes(def.Name, def.Nodes, c); err != nil {
		return err
	}
	if c.remaining() > 0 {
		return fmt.Errorf("%w: TRE %s has %d entries not described by its grammar", nitfio.ErrMalformedField, def.Name, c.remaining())
	}
	return e.writer.Err()
}

func (e *Encoder) encodeNodes(tag string, nodes []Node, c *cursor) error {
	for _, n := range nodes {
		switch node := n.(type) {
		case *Field:
			if err := e.encodeField(tag, node, c); err != nil {
				return err
			}
		case *Loop:
			if err := e.encodeLoop(tag, node, c); err != nil {
				return err
			}
		case *Conditional:
			ok, err := node.Cond.Evaluate(e.params)
			if err != nil {
				return fmt.Errorf("TRE %s condition %q: %w", tag, node.Cond.Text, err)
			}
			if !ok {
				continue
			}
			if err := e.encodeNodes(tag, node.Nodes, c); err != nil {
				return err
			}
		}
	}
	return nil
}

func (e *Encoder) encodeField(tag string, f *Field, c *cursor) error {
	length, err := fieldLength(f, e.params)
	if err != nil {
		return fmt.Errorf("TRE %s field %s: %w", tag, f.Name, err)
	}

	if f.Name == "" {
		value := strings.Repeat(" ", length)
		if len(e.reserved) > 0 {
			if utf8.RuneCountInString(e.reserved[0]) == length {
				value = e.reserved[0]
			}
			e.reserved = e.reserved[1:]
		}
		e.writer.WriteText(value, length)
		return e.writer.Err()
	}

	entry := c.next()
	if entry == nil || entry.Loop || entry.Name != f.Name {
		return fmt.Errorf("%w: TRE %s expected field %s, found %s", nitfio.ErrMalformedField, tag, f.Name, describe(entry))
	}
	e.writer.WriteText(entry.Value, length)
	e.params.Bind(f.Name, entry.Value, f.Type)
	return e.writer.Err()
}

func (e *Encoder) encodeLoop(tag string, l *Loop, c *cursor) error {
	name := l.EntryName()
	count, err := l.Count.Resolve(e.params)
	if err != nil {
		return fmt.Errorf("TRE %s loop %s: %w", tag, name, err)
	}

	entry := c.next()
	if entry == nil || !entry.Loop || entry.Name != name {
		return fmt.Errorf("%w: TRE %s expected loop %s, found %s", nitfio.ErrMalformedField, tag, name, describe(entry))
	}
	if len(entry.Groups) != count {
		return fmt.Errorf("%w: TRE %s loop %s has %d groups, count says %d", nitfio.ErrMalformedField, tag, name, len(entry.Groups), count)
	}

	for i, g := range entry.Groups {
		gc := &cursor{entries: g.Entries}
		if err := e.encodeNodes(tag, l.Nodes, gc); err != nil {
			return err
		}
		if gc.remaining() > 0 {
			return fmt.Errorf("%w: TRE %s loop %s group %d has %d extra entries", nitfio.ErrMalformedField, tag, name, i, gc.remaining())
		}
	}
	return nil
}

func describe(e *Entry) string {
	switch {
	case e == nil:
		return "nothing"
	case e.Loop:
		return "loop " + e.Name
	}
	return "field " + e.Name
}
