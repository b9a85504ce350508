package testcommon

import (
	"errors"
	"io"
)

// ForwardOnly hides any Seek method of the wrapped reader.
type ForwardOnly struct {
	R io.Reader
}

func (f ForwardOnly) Read(p []byte) (int, error) {
	return f.R.Read(p)
}

// ErrFakeWrite is returned by FailingWriter.
var ErrFakeWrite = errors.New("fake write failure")

// FailingWriter accepts Limit bytes and then fails every write.
type FailingWriter struct {
	Limit   int
	written int
}

func (w *FailingWriter) Write(p []byte) (int, error) {
	room := w.Limit - w.written
	if room <= 0 {
		return 0, ErrFakeWrite
	}
	if len(p) > room {
		w.written += room
		return room, ErrFakeWrite
	}
	w.written += len(p)
	return len(p), nil
}
