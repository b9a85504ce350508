package tre

import (
	"fmt"
	"strings"
)

// Tre is one tagged record from an extension section. A Tre with Raw set
// was not decoded and is carried byte for byte. Reserved holds the contents
// of the grammar's unnamed fields so they are written back as read.
type Tre struct {
	Name     string
	Entries  []*Entry
	Raw      []byte
	Reserved []string
}

// Entry is either a field value or, when Loop is set, the groups produced
// by a repeated block.
type Entry struct {
	Name   string
	Value  string
	Loop   bool
	Groups []*Group
}

// Group is the output of a single loop iteration.
type Group struct {
	Entries []*Entry
}

// Collection is the ordered list of TREs in one extension region.
type Collection []*Tre

func NewRawTre(name string, raw []byte) *Tre {
	if raw == nil {
		raw = []byte{}
	}
	return &Tre{Name: name, Raw: raw}
}

func (t *Tre) IsRaw() bool {
	return t.Raw != nil
}

// Entry returns the first top level entry called name.
func (t *Tre) Entry(name string) *Entry {
	return findEntry(t.Entries, name)
}

// Field returns the right trimmed value of the named top level field.
func (t *Tre) Field(name string) (string, bool) {
	e := t.Entry(name)
	if e == nil || e.Loop {
		return "", false
	}
	return strings.TrimRight(e.Value, " "), true
}

func (t *Tre) String() string {
	if t.IsRaw() {
		return fmt.Sprintf("%s (raw, %d bytes)", t.Name, len(t.Raw))
	}
	return fmt.Sprintf("%s (%d entries)", t.Name, len(t.Entries))
}

func (g *Group) Entry(name string) *Entry {
	return findEntry(g.Entries, name)
}

func findEntry(entries []*Entry, name string) *Entry {
	for _, e := range entries {
		if e.Name == name {
			return e
		}
	}
	return nil
}

// Find returns every TRE in the collection with the given tag.
func (c Collection) Find(name string) []*Tre {
	var found []*Tre
	for _, t := range c {
		if t.Name == name {
			found = append(found, t)
		}
	}
	return found
}
