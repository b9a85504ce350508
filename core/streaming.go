package core

import (
	"github.com/kpfaulkner/nitf-go/nitfio"
	"github.com/kpfaulkner/nitf-go/segment"
	"github.com/kpfaulkner/nitf-go/tre"
	log "github.com/sirupsen/logrus"
)

// The streaming trailer is L1 DELIM1 header DELIM2 L2, where L1 and L2 are
// both the length of the copied header.
const (
	streamingDelimiter1  = "\x0a\x6e\x1d\x97"
	streamingDelimiter2  = "\x0e\xca\x14\xbf"
	streamingLengthWidth = 7
	delimiterWidth       = 4

	streamingTrailerOverhead = 2 * (streamingLengthWidth + delimiterWidth)
)

// readStreamingHeader reads the authoritative header from the trailer of a
// streaming file. r is left where it was, at the start of the first
// segment.
func readStreamingHeader(r *nitfio.Reader, codec *tre.Codec) (*segment.FileHeader, error) {
	if !r.CanSeek() {
		return nil, r.Errorf(nitfio.ErrStreamingUnsupported, "FL", "file length is the streaming sentinel")
	}
	dataStart := r.CurrentOffset()

	size, err := r.Size()
	if err != nil {
		return nil, err
	}
	if size-dataStart < streamingTrailerOverhead {
		return nil, r.Errorf(nitfio.ErrUnexpectedEndOfData, "FL", "no room for a streaming trailer in %d bytes", size)
	}

	if err := r.SeekAbsolute(size - delimiterWidth - streamingLengthWidth); err != nil {
		return nil, err
	}
	if err := r.VerifyMagic(streamingDelimiter2); err != nil {
		return nil, err
	}
	headerLength, err := r.ReadInt(streamingLengthWidth)
	if err != nil {
		return nil, err
	}

	back := int64(streamingTrailerOverhead + headerLength)
	if back > size-dataStart {
		return nil, r.Errorf(nitfio.ErrMalformedField, "STREAMING_FILE_HEADER", "trailer header of %d bytes does not fit", headerLength)
	}
	if err := r.SeekRelative(-back); err != nil {
		return nil, err
	}
	l1At := r.CurrentOffset()
	first, err := r.ReadInt(streamingLengthWidth)
	if err != nil {
		return nil, err
	}
	if first != headerLength {
		return nil, nitfio.NewParseError(nitfio.ErrStreamingLengthMismatch, l1At, "STREAMING_FILE_HEADER",
			"leading length %d, trailing length %d", first, headerLength)
	}
	if err := r.VerifyMagic(streamingDelimiter1); err != nil {
		return nil, err
	}

	log.Debugf("streaming header of %d bytes at %d", headerLength, r.CurrentOffset())
	header, err := segment.ParseFileHeader(r, codec)
	if err != nil {
		return nil, err
	}
	if header.IsStreaming() {
		return nil, r.Errorf(nitfio.ErrMalformedField, "FL", "streaming trailer header is itself streaming")
	}

	if err := r.SeekAbsolute(dataStart); err != nil {
		return nil, err
	}
	return header, nil
}
