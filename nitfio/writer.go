package nitfio

import (
	"bytes"
	"io"
	"unicode/utf8"

	"github.com/kpfaulkner/nitf-go/util"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
)

// Writer emits fixed width NITF fields. The first error is kept and every
// later call becomes a no-op, so a run of writes can be checked once with Err.
type Writer struct {
	out      io.Writer
	enc      *encoding.Encoder
	written  int64
	err      error
	fileType FileType
}

func NewWriter(out io.Writer) *Writer {
	return &Writer{
		out: out,
		enc: charmap.ISO8859_1.NewEncoder(),
	}
}

func (w *Writer) FileType() FileType {
	return w.fileType
}

func (w *Writer) SetFileType(ft FileType) {
	w.fileType = ft
}

// Written is the number of bytes emitted so far.
func (w *Writer) Written() int64 {
	return w.written
}

func (w *Writer) Err() error {
	return w.err
}

func (w *Writer) fail(err error, detail string, args ...any) {
	if w.err == nil {
		w.err = NewParseError(err, w.written, "", detail, args...)
	}
}

// Fail records err as the Writer's error unless one is already set.
func (w *Writer) Fail(err error, detail string, args ...any) {
	w.fail(err, detail, args...)
}

// Write lets payloads be copied straight through the Writer.
func (w *Writer) Write(p []byte) (int, error) {
	if w.err != nil {
		return 0, w.err
	}
	n, err := w.out.Write(p)
	w.written += int64(n)
	if err != nil {
		w.err = err
	}
	return n, err
}

func (w *Writer) WriteRaw(b []byte) {
	if w.err != nil {
		return
	}
	_, _ = w.Write(b)
}

// WriteMagic writes token byte for byte.
func (w *Writer) WriteMagic(token string) {
	w.WriteRaw([]byte(token))
}

// WriteText writes s space padded on the right to width characters.
func (w *Writer) WriteText(s string, width int) {
	if w.err != nil {
		return
	}
	if utf8.RuneCountInString(s) > width {
		w.fail(ErrMalformedField, "value %q longer than %d", s, width)
		return
	}
	encoded, err := w.enc.Bytes([]byte(s))
	if err != nil {
		w.fail(ErrMalformedField, "value %q is not ISO-8859-1: %v", s, err)
		return
	}
	w.WriteRaw(encoded)
	if pad := width - len(encoded); pad > 0 {
		w.WriteRaw(bytes.Repeat([]byte{' '}, pad))
	}
}

// WriteExact writes s, which must already be exactly width characters.
func (w *Writer) WriteExact(s string, width int) {
	if w.err != nil {
		return
	}
	if utf8.RuneCountInString(s) != width {
		w.fail(ErrMalformedField, "value %q is not %d characters", s, width)
		return
	}
	w.WriteText(s, width)
}

func (w *Writer) WriteInt(v int, width int) {
	w.WriteLong(int64(v), width)
}

func (w *Writer) WriteLong(v int64, width int) {
	if w.err != nil {
		return
	}
	s, ok := util.FormatUnsigned(v, width)
	if !ok {
		w.fail(ErrMalformedField, "%d does not fit in %d digits", v, width)
		return
	}
	w.WriteRaw([]byte(s))
}

func (w *Writer) WriteSignedInt(v int, width int) {
	if w.err != nil {
		return
	}
	s, ok := util.FormatSigned(v, width)
	if !ok {
		w.fail(ErrMalformedField, "%d does not fit in %d characters", v, width)
		return
	}
	w.WriteRaw([]byte(s))
}
