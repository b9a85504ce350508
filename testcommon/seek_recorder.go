package testcommon

import "io"

// SeekRecorder wraps a ReadSeeker and keeps the absolute position reached
// by every Seek call.
type SeekRecorder struct {
	SeekData []int64

	inner io.ReadSeeker
}

func NewSeekRecorder(inner io.ReadSeeker) *SeekRecorder {
	return &SeekRecorder{inner: inner}
}

func (s *SeekRecorder) Read(p []byte) (int, error) {
	return s.inner.Read(p)
}

func (s *SeekRecorder) Seek(offset int64, whence int) (int64, error) {
	pos, err := s.inner.Seek(offset, whence)
	if err != nil {
		return pos, err
	}
	s.SeekData = append(s.SeekData, pos)
	return pos, nil
}
