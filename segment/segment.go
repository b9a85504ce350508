// Package segment reads and writes the NITF file header and the subheaders
// of every segment kind.
package segment

import (
	"errors"

	"github.com/kpfaulkner/nitf-go/nitfio"
	"github.com/kpfaulkner/nitf-go/storage"
)

type Kind int

const (
	KindImage Kind = iota
	KindGraphic
	KindSymbol
	KindLabel
	KindText
	KindDataExtension
)

func (k Kind) String() string {
	switch k {
	case KindImage:
		return "image"
	case KindGraphic:
		return "graphic"
	case KindSymbol:
		return "symbol"
	case KindLabel:
		return "label"
	case KindText:
		return "text"
	case KindDataExtension:
		return "data extension"
	}
	return "unknown"
}

// Common holds what every segment carries. Data is the payload that
// follows the subheader.
type Common struct {
	Identifier string
	Security   Security
	Data       storage.Payload
}

func (c *Common) common() *Common {
	return c
}

// DataLength is the payload length, or zero when there is no payload.
func (c *Common) DataLength() int64 {
	if c.Data == nil {
		return 0
	}
	return c.Data.Len()
}

// Segment is one of *Image, *Graphic, *Symbol, *Label, *Text or
// *DataExtension.
type Segment interface {
	Kind() Kind
	common() *Common
}

// CommonOf returns the shared fields of s.
func CommonOf(s Segment) *Common {
	return s.common()
}

// LengthPair is a subheader length and data length as listed in the file
// header.
type LengthPair struct {
	Subheader int
	Data      int64
}

type pairWidths struct {
	subheader int
	data      int
}

func (p pairWidths) total() int {
	return p.subheader + p.data
}

var (
	imageWidths    = pairWidths{subheader: 6, data: 10}
	graphicWidths  = pairWidths{subheader: 4, data: 6}
	symbolWidths   = pairWidths{subheader: 4, data: 6}
	labelWidths    = pairWidths{subheader: 4, data: 3}
	textWidths     = pairWidths{subheader: 4, data: 5}
	desWidths      = pairWidths{subheader: 4, data: 9}
	reservedWidths = pairWidths{subheader: 4, data: 7}
)

// fields reads a run of subheader fields. The first failure is kept, named
// after the field being read, and later reads do nothing.
type fields struct {
	r   *nitfio.Reader
	err error
}

func (f *fields) fail(err error, name string) {
	if f.err != nil {
		return
	}
	var pe *nitfio.ParseError
	if errors.As(err, &pe) && pe.Field == "" {
		pe.Field = name
	}
	f.err = err
}

func (f *fields) magic(token string) {
	if f.err != nil {
		return
	}
	if err := f.r.VerifyMagic(token); err != nil {
		f.fail(err, token)
	}
}

// text reads n characters without trimming.
func (f *fields) text(n int, name string) string {
	if f.err != nil {
		return ""
	}
	s, err := f.r.ReadText(n)
	if err != nil {
		f.fail(err, name)
	}
	return s
}

func (f *fields) trimmed(n int, name string) string {
	if f.err != nil {
		return ""
	}
	s, err := f.r.ReadTrimmed(n)
	if err != nil {
		f.fail(err, name)
	}
	return s
}

func (f *fields) int(n int, name string) int {
	if f.err != nil {
		return 0
	}
	v, err := f.r.ReadInt(n)
	if err != nil {
		f.fail(err, name)
	}
	return v
}

func (f *fields) long(n int, name string) int64 {
	if f.err != nil {
		return 0
	}
	v, err := f.r.ReadLong(n)
	if err != nil {
		f.fail(err, name)
	}
	return v
}

func (f *fields) raw(n int, name string) []byte {
	if f.err != nil {
		return nil
	}
	b, err := f.r.ReadRaw(int64(n))
	if err != nil {
		f.fail(err, name)
	}
	return b
}

func (f *fields) pairs(count int, widths pairWidths, name string) []LengthPair {
	pairs := make([]LengthPair, 0, count)
	for i := 0; i < count && f.err == nil; i++ {
		pairs = append(pairs, LengthPair{
			Subheader: f.int(widths.subheader, "L"+name+"SH"),
			Data:      f.long(widths.data, "L"+name),
		})
	}
	return pairs
}

func writePairs(w *nitfio.Writer, pairs []LengthPair, widths pairWidths) {
	w.WriteInt(len(pairs), 3)
	for _, p := range pairs {
		w.WriteInt(p.Subheader, widths.subheader)
		w.WriteLong(p.Data, widths.data)
	}
}

// writeRawField writes b, which must be exactly width bytes. A nil b is
// written as zero bytes.
func writeRawField(w *nitfio.Writer, b []byte, width int) {
	if b == nil {
		b = make([]byte, width)
	}
	if len(b) != width {
		w.Fail(nitfio.ErrMalformedField, "%d byte field given %d bytes", width, len(b))
		return
	}
	w.WriteRaw(b)
}
