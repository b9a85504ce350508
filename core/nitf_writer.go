package core

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/kpfaulkner/nitf-go/nitfio"
	"github.com/kpfaulkner/nitf-go/options"
	"github.com/kpfaulkner/nitf-go/segment"
	"github.com/kpfaulkner/nitf-go/tre"
	"github.com/kpfaulkner/nitf-go/util"
	log "github.com/sirupsen/logrus"
)

// NITFWriter assembles a DataSource into a NITF file. Every length the file
// header declares is derived from what is actually written.
type NITFWriter struct {
	options *options.NITFOptions
}

func NewNITFWriter(opts *options.NITFOptions) *NITFWriter {
	return &NITFWriter{options: options.NewNITFOptions(opts)}
}

// encodedSegment is a serialized subheader and the payload that follows it.
type encodedSegment struct {
	kind      segment.Kind
	subheader []byte
	length    int64
	write     func(w io.Writer) (int64, error)
}

func (e *encodedSegment) pair() segment.LengthPair {
	return segment.LengthPair{Subheader: len(e.subheader), Data: e.length}
}

// Write emits ds to out. The streaming header DES, if any, is dropped; the
// result is an ordinary file with its header at the front.
func (nw *NITFWriter) Write(out io.Writer, ds *DataSource) error {
	if ds == nil || ds.Header == nil {
		return errors.New("nitf: nothing to write")
	}
	codec, err := newCodec(nw.options)
	if err != nil {
		return err
	}

	ft := ds.Header.FileType
	if err := checkVersion(ft, ds); err != nil {
		return err
	}
	if err := checkStreamingPlaceholder(ds); err != nil {
		return err
	}

	header := *ds.Header
	header.ReservedCount = 0
	header.ReservedExtensions = nil

	encode := func(kind segment.Kind, n int, f func(w *nitfio.Writer) error) ([]byte, error) {
		buf := util.GetBuffer()
		defer util.PutBuffer(buf)
		w := nitfio.NewWriter(buf)
		w.SetFileType(ft)
		if err := f(w); err != nil {
			return nil, fmt.Errorf("%s %d subheader: %w", kind, n, err)
		}
		return bytes.Clone(buf.Bytes()), nil
	}

	var segs []*encodedSegment
	add := func(s segment.Segment, n int, f func(w *nitfio.Writer) error) (*encodedSegment, error) {
		sub, err := encode(s.Kind(), n, f)
		if err != nil {
			return nil, err
		}
		e := &encodedSegment{kind: s.Kind(), subheader: sub}
		if data := segment.CommonOf(s).Data; data != nil {
			e.length = data.Len()
			e.write = data.WriteTo
		}
		segs = append(segs, e)
		return e, nil
	}

	header.Images = nil
	for i, img := range ds.Images {
		added, err := add(img, i, func(w *nitfio.Writer) error { return segment.WriteImage(w, img, codec) })
		if err != nil {
			return err
		}
		header.Images = append(header.Images, added.pair())
	}

	header.Graphics = nil
	for i, g := range ds.Graphics {
		added, err := add(g, i, func(w *nitfio.Writer) error { return segment.WriteGraphic(w, g, codec) })
		if err != nil {
			return err
		}
		header.Graphics = append(header.Graphics, added.pair())
	}

	header.Symbols = nil
	for i, s := range ds.Symbols {
		added, err := add(s, i, func(w *nitfio.Writer) error { return segment.WriteSymbol(w, s, codec) })
		if err != nil {
			return err
		}
		header.Symbols = append(header.Symbols, added.pair())
	}

	header.Labels = nil
	for i, l := range ds.Labels {
		added, err := add(l, i, func(w *nitfio.Writer) error { return segment.WriteLabel(w, l, codec) })
		if err != nil {
			return err
		}
		header.Labels = append(header.Labels, added.pair())
	}

	header.Texts = nil
	for i, t := range ds.Texts {
		added, err := add(t, i, func(w *nitfio.Writer) error { return segment.WriteText(w, t, codec) })
		if err != nil {
			return err
		}
		header.Texts = append(header.Texts, added.pair())
	}

	header.DataExtensions = nil
	for i, d := range ds.DataExtensions {
		if d.StreamingPlaceholder {
			log.Debugf("dropping streaming header DES %d", i)
			continue
		}
		added, err := add(d, i, func(w *nitfio.Writer) error { return segment.WriteDataExtension(w, d) })
		if err != nil {
			return err
		}
		if d.IsOverflow() {
			body, err := codec.EncodeCollection(d.OverflowTres)
			if err != nil {
				return fmt.Errorf("%s %d overflow: %w", segment.KindDataExtension, i, err)
			}
			added.length = int64(len(body))
			added.write = func(w io.Writer) (int64, error) {
				n, err := w.Write(body)
				return int64(n), err
			}
		}
		header.DataExtensions = append(header.DataExtensions, added.pair())
	}

	udLen, err := codec.SectionLength(sectionOrEmpty(header.UserDefined))
	if err != nil {
		return fmt.Errorf("UDHD: %w", err)
	}
	xLen, err := codec.SectionLength(sectionOrEmpty(header.Extended))
	if err != nil {
		return fmt.Errorf("XHD: %w", err)
	}
	header.HeaderLength = segment.HeaderLength(&header, udLen, xLen)
	header.FileLength = int64(header.HeaderLength) + util.SumBy(segs, func(e *encodedSegment) int64 {
		return int64(len(e.subheader)) + e.length
	})
	log.Debugf("assembling %s: HL %d, FL %d, %d segments", ft, header.HeaderLength, header.FileLength, len(segs))

	w := nitfio.NewWriter(out)
	if err := segment.WriteFileHeader(w, &header, codec); err != nil {
		return fmt.Errorf("file header: %w", err)
	}
	for i, e := range segs {
		w.WriteRaw(e.subheader)
		if e.write == nil {
			continue
		}
		n, err := e.write(w)
		if err != nil {
			return fmt.Errorf("%s segment %d data: %w", e.kind, i, err)
		}
		if n != e.length {
			return fmt.Errorf("%w: %s segment %d wrote %d data bytes, declared %d", nitfio.ErrMalformedField, e.kind, i, n, e.length)
		}
	}
	if err := w.Err(); err != nil {
		return err
	}
	if w.Written() != header.FileLength {
		return fmt.Errorf("%w: wrote %d bytes, file length is %d", nitfio.ErrMalformedField, w.Written(), header.FileLength)
	}
	return nil
}

// checkVersion rejects segment kinds the file type has no place for.
func checkVersion(ft nitfio.FileType, ds *DataSource) error {
	if ft == nitfio.UNKNOWN {
		return fmt.Errorf("%w: unknown file type", nitfio.ErrMalformedField)
	}
	if ft.IsTwoZero() && len(ds.Graphics) > 0 {
		return fmt.Errorf("%w: %s has no graphic segments", nitfio.ErrMalformedField, ft)
	}
	if !ft.IsTwoZero() && (len(ds.Symbols) > 0 || len(ds.Labels) > 0) {
		return fmt.Errorf("%w: %s has no symbol or label segments", nitfio.ErrMalformedField, ft)
	}
	return nil
}

// checkStreamingPlaceholder rejects a streaming header DES followed by other
// DES. Dropping it would shift their indexes and leave overflow references
// pointing at the wrong segment.
func checkStreamingPlaceholder(ds *DataSource) error {
	for i, d := range ds.DataExtensions {
		if d.StreamingPlaceholder && i != len(ds.DataExtensions)-1 {
			return fmt.Errorf("%w: streaming header DES %d is not the last DES", nitfio.ErrMalformedField, i)
		}
	}
	return nil
}

func sectionOrEmpty(s *tre.Section) *tre.Section {
	if s == nil {
		return &tre.Section{}
	}
	return s
}
