// Package storage decides where segment payloads live once they have been
// read: in memory, in a temporary file, or nowhere at all.
package storage

import (
	"bytes"
	"errors"
	"io"

	"github.com/kpfaulkner/nitf-go/nitfio"
)

// ErrSkipped is returned when the bytes of a skipped payload are asked for.
var ErrSkipped = errors.New("storage: payload was skipped")

// Payload is the data of one segment.
type Payload interface {
	// Len is the number of bytes in the payload.
	Len() int64
	// Open returns a reader over the payload bytes.
	Open() (io.ReadCloser, error)
	// WriteTo copies the payload to w.
	WriteTo(w io.Writer) (int64, error)
}

// Strategy reads a payload of length bytes from r. It must leave r exactly
// length bytes further on.
type Strategy interface {
	Handle(r *nitfio.Reader, length int64) (Payload, error)
}

// MemoryPayload holds the payload bytes directly.
type MemoryPayload struct {
	data []byte
}

func NewMemoryPayload(data []byte) *MemoryPayload {
	return &MemoryPayload{data: data}
}

func (p *MemoryPayload) Len() int64 {
	return int64(len(p.data))
}

func (p *MemoryPayload) Bytes() []byte {
	return p.data
}

func (p *MemoryPayload) Open() (io.ReadCloser, error) {
	return io.NopCloser(bytes.NewReader(p.data)), nil
}

func (p *MemoryPayload) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(p.data)
	return int64(n), err
}

// SkippedPayload remembers only how long the payload was.
type SkippedPayload struct {
	length int64
}

func (p *SkippedPayload) Len() int64 {
	return p.length
}

func (p *SkippedPayload) Open() (io.ReadCloser, error) {
	return nil, ErrSkipped
}

func (p *SkippedPayload) WriteTo(io.Writer) (int64, error) {
	return 0, ErrSkipped
}

// ReadAll returns the full contents of p.
func ReadAll(p Payload) ([]byte, error) {
	if m, ok := p.(*MemoryPayload); ok {
		return m.data, nil
	}
	rc, err := p.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

// Memory reads every payload into memory.
type Memory struct{}

func (Memory) Handle(r *nitfio.Reader, length int64) (Payload, error) {
	data, err := r.ReadRaw(length)
	if err != nil {
		return nil, err
	}
	return &MemoryPayload{data: data}, nil
}

// Skip discards payloads. Files parsed with it cannot be written back out.
type Skip struct{}

func (Skip) Handle(r *nitfio.Reader, length int64) (Payload, error) {
	if err := r.Skip(length); err != nil {
		return nil, err
	}
	return &SkippedPayload{length: length}, nil
}
