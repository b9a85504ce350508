package nitfio

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
)

const smallReadLimit = 64 * 1024

// Reader gives positioned access to a NITF byte source and decodes the
// fixed width ASCII fields used throughout the format.
//
// A Reader belongs to a single parse. It tracks the current offset and the
// file type of the file being read, since several layouts depend on it.
type Reader struct {
	in       io.Reader
	seeker   io.Seeker
	dec      *encoding.Decoder
	offset   int64
	size     int64
	fileType FileType
}

// NewReader wraps in. If in is also an io.Seeker the Reader supports
// seeking, otherwise it is read strictly forward through a buffer.
func NewReader(in io.Reader) *Reader {
	r := &Reader{
		dec:  charmap.ISO8859_1.NewDecoder(),
		size: -1,
	}

	if s, ok := in.(io.ReadSeeker); ok {
		r.in = s
		r.seeker = s
		if pos, err := s.Seek(0, io.SeekCurrent); err == nil {
			r.offset = pos
		}
	} else {
		r.in = bufio.NewReader(in)
	}
	return r
}

// NewBytesReader returns a seekable Reader over data.
func NewBytesReader(data []byte) *Reader {
	return NewReader(bytes.NewReader(data))
}

func (r *Reader) FileType() FileType {
	return r.fileType
}

func (r *Reader) SetFileType(ft FileType) {
	r.fileType = ft
}

func (r *Reader) CurrentOffset() int64 {
	return r.offset
}

func (r *Reader) CanSeek() bool {
	return r.seeker != nil
}

// Errorf builds a ParseError positioned at the current offset.
func (r *Reader) Errorf(err error, field string, detail string, args ...any) error {
	return NewParseError(err, r.offset, field, detail, args...)
}

// ReadRaw reads exactly n bytes.
func (r *Reader) ReadRaw(n int64) ([]byte, error) {
	if n < 0 {
		return nil, r.Errorf(ErrMalformedField, "", "negative read length %d", n)
	}
	if n == 0 {
		return []byte{}, nil
	}

	if n <= smallReadLimit {
		buffer := make([]byte, n)
		got, err := io.ReadFull(r.in, buffer)
		if err != nil {
			return nil, r.endOfData(err, n, int64(got))
		}
		r.offset += n
		return buffer, nil
	}

	// large reads grow the buffer as data arrives rather than trusting n up front.
	var buf bytes.Buffer
	got, err := io.CopyN(&buf, r.in, n)
	if err != nil {
		return nil, r.endOfData(err, n, got)
	}
	r.offset += n
	return buf.Bytes(), nil
}

func (r *Reader) endOfData(err error, wanted int64, got int64) error {
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return r.Errorf(ErrUnexpectedEndOfData, "", "wanted %d bytes, only %d available", wanted, got)
	}
	return r.Errorf(err, "", "read of %d bytes failed", wanted)
}

// ReadText reads n bytes as ISO-8859-1 text. Nothing is trimmed.
func (r *Reader) ReadText(n int) (string, error) {
	raw, err := r.ReadRaw(int64(n))
	if err != nil {
		return "", err
	}
	return r.decode(raw)
}

func (r *Reader) decode(raw []byte) (string, error) {
	text, err := r.dec.Bytes(raw)
	if err != nil {
		return "", r.Errorf(ErrMalformedField, "", "undecodable text: %v", err)
	}
	return string(text), nil
}

// ReadTrimmed reads n bytes of text and removes trailing spaces. Any other
// trailing byte is kept so the field writes back unchanged.
func (r *Reader) ReadTrimmed(n int) (string, error) {
	s, err := r.ReadText(n)
	if err != nil {
		return "", err
	}
	return strings.TrimRight(s, " "), nil
}

// ReadInt reads an n digit unsigned decimal field.
func (r *Reader) ReadInt(n int) (int, error) {
	v, err := r.ReadLong(n)
	if err != nil {
		return 0, err
	}
	return int(v), nil
}

// ReadLong reads an n digit unsigned decimal field.
func (r *Reader) ReadLong(n int) (int64, error) {
	start := r.offset
	s, err := r.ReadText(n)
	if err != nil {
		return 0, err
	}
	if !isDigits(s) {
		return 0, NewParseError(ErrMalformedField, start, "", "expected %d digits, found %q", n, s)
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, NewParseError(ErrMalformedField, start, "", "%v", err)
	}
	return v, nil
}

// ReadSignedInt reads an n character decimal field which may start with a sign.
func (r *Reader) ReadSignedInt(n int) (int, error) {
	start := r.offset
	s, err := r.ReadText(n)
	if err != nil {
		return 0, err
	}
	digits := s
	if len(s) > 1 && (s[0] == '-' || s[0] == '+') {
		digits = s[1:]
	}
	if !isDigits(digits) {
		return 0, NewParseError(ErrMalformedField, start, "", "expected signed number, found %q", s)
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, NewParseError(ErrMalformedField, start, "", "%v", err)
	}
	return v, nil
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// VerifyMagic reads len(token) bytes and checks they match token exactly.
func (r *Reader) VerifyMagic(token string) error {
	start := r.offset
	raw, err := r.ReadRaw(int64(len(token)))
	if err != nil {
		return err
	}
	if string(raw) != token {
		return NewParseError(ErrUnexpectedToken, start, "", "expected %q, found %q", token, string(raw))
	}
	return nil
}

// CopyTo copies exactly n bytes from the source to w.
func (r *Reader) CopyTo(w io.Writer, n int64) error {
	if n < 0 {
		return r.Errorf(ErrMalformedField, "", "negative copy length %d", n)
	}
	got, err := io.CopyN(w, r.in, n)
	r.offset += got
	if err != nil {
		return r.endOfData(err, n, got)
	}
	return nil
}

// Skip moves forward n bytes. Skipping past the end of the source fails.
func (r *Reader) Skip(n int64) error {
	if n < 0 {
		return r.Errorf(ErrMalformedField, "", "negative skip %d", n)
	}
	if r.seeker == nil {
		got, err := io.CopyN(io.Discard, r.in, n)
		if err != nil {
			return r.endOfData(err, n, got)
		}
		r.offset += n
		return nil
	}

	size, err := r.Size()
	if err != nil {
		return err
	}
	if r.offset+n > size {
		return r.Errorf(ErrUnexpectedEndOfData, "", "skip of %d bytes passes end of data at %d", n, size)
	}
	return r.SeekAbsolute(r.offset + n)
}

// Size returns the total length of a seekable source.
func (r *Reader) Size() (int64, error) {
	if r.seeker == nil {
		return 0, r.Errorf(errors.ErrUnsupported, "", "size of a non-seekable source")
	}
	if r.size >= 0 {
		return r.size, nil
	}
	end, err := r.seeker.Seek(0, io.SeekEnd)
	if err != nil {
		return 0, r.Errorf(err, "", "seek to end")
	}
	if _, err = r.seeker.Seek(r.offset, io.SeekStart); err != nil {
		return 0, r.Errorf(err, "", "seek back to %d", r.offset)
	}
	r.size = end
	return end, nil
}

func (r *Reader) SeekAbsolute(offset int64) error {
	if r.seeker == nil {
		return r.Errorf(errors.ErrUnsupported, "", "seek on a non-seekable source")
	}
	if offset < 0 {
		return r.Errorf(ErrMalformedField, "", "seek to negative offset %d", offset)
	}
	if _, err := r.seeker.Seek(offset, io.SeekStart); err != nil {
		return r.Errorf(err, "", "seek to %d", offset)
	}
	r.offset = offset
	return nil
}

// SeekRelative moves by delta bytes. Forward moves on a non-seekable source
// are done by skipping.
func (r *Reader) SeekRelative(delta int64) error {
	if r.seeker == nil && delta >= 0 {
		return r.Skip(delta)
	}
	return r.SeekAbsolute(r.offset + delta)
}

func (r *Reader) SeekToEnd() error {
	size, err := r.Size()
	if err != nil {
		return err
	}
	return r.SeekAbsolute(size)
}

func (r *Reader) String() string {
	return fmt.Sprintf("nitfio.Reader{offset: %d, fileType: %s}", r.offset, r.fileType)
}
