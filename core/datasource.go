package core

import (
	"errors"

	"github.com/kpfaulkner/nitf-go/segment"
	"github.com/kpfaulkner/nitf-go/tre"
)

// DataSource is a parsed NITF file: the file header and its segments in
// file order. Payloads are held by the storage strategy that read them and
// stay valid until Cleanup. Spooled payloads are only removed by Cleanup or
// storage.CleanupAll.
type DataSource struct {
	Header         *segment.FileHeader
	Images         []*segment.Image
	Graphics       []*segment.Graphic
	Symbols        []*segment.Symbol
	Labels         []*segment.Label
	Texts          []*segment.Text
	DataExtensions []*segment.DataExtension

	cleanup []func() error
}

// Segments returns every segment in the order it appears in the file.
func (ds *DataSource) Segments() []segment.Segment {
	var segs []segment.Segment
	for _, s := range ds.Images {
		segs = append(segs, s)
	}
	for _, s := range ds.Graphics {
		segs = append(segs, s)
	}
	for _, s := range ds.Symbols {
		segs = append(segs, s)
	}
	for _, s := range ds.Labels {
		segs = append(segs, s)
	}
	for _, s := range ds.Texts {
		segs = append(segs, s)
	}
	for _, s := range ds.DataExtensions {
		segs = append(segs, s)
	}
	return segs
}

// MergedFileTres returns the file header's TREs: UDHD, then XHD, then any
// that overflowed from either into a DES.
func (ds *DataSource) MergedFileTres() tre.Collection {
	var tres tre.Collection
	if ds.Header == nil {
		return tres
	}
	if ds.Header.UserDefined != nil {
		tres = append(tres, ds.Header.UserDefined.Tres...)
	}
	if ds.Header.Extended != nil {
		tres = append(tres, ds.Header.Extended.Tres...)
	}
	for _, d := range ds.DataExtensions {
		if !d.IsOverflow() {
			continue
		}
		switch d.OverflowedHeaderType {
		case "UDHD", "XHD":
			tres = append(tres, d.OverflowTres...)
		}
	}
	return tres
}

func (ds *DataSource) onCleanup(f func() error) {
	ds.cleanup = append(ds.cleanup, f)
}

// Cleanup releases payload storage such as spooled temp files.
func (ds *DataSource) Cleanup() error {
	var errs []error
	for _, f := range ds.cleanup {
		errs = append(errs, f())
	}
	ds.cleanup = nil
	return errors.Join(errs...)
}
