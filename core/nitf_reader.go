package core

import (
	"fmt"
	"io"

	"github.com/kpfaulkner/nitf-go/nitfio"
	"github.com/kpfaulkner/nitf-go/options"
	"github.com/kpfaulkner/nitf-go/segment"
	"github.com/kpfaulkner/nitf-go/storage"
	"github.com/kpfaulkner/nitf-go/tre"
	log "github.com/sirupsen/logrus"
)

// NITFReader parses one NITF file. It owns its reader and must not be used
// for more than one parse.
type NITFReader struct {

	// input stream
	reader *nitfio.Reader

	options *options.NITFOptions
}

func NewNITFReader(in io.Reader, opts *options.NITFOptions) *NITFReader {
	return &NITFReader{
		reader:  nitfio.NewReader(in),
		options: options.NewNITFOptions(opts),
	}
}

// newCodec returns a TRE codec over the shared registry, or over a private
// registry when extra grammar documents are configured.
func newCodec(opts *options.NITFOptions) (*tre.Codec, error) {
	if len(opts.GrammarFiles) == 0 {
		reg, err := tre.SharedRegistry()
		if err != nil {
			return nil, err
		}
		return tre.NewCodec(reg, opts.StrictTres), nil
	}

	reg, err := tre.NewRegistry()
	if err != nil {
		return nil, err
	}
	for _, f := range opts.GrammarFiles {
		if err := reg.RegisterFile(f); err != nil {
			return nil, fmt.Errorf("grammar %s: %w", f, err)
		}
	}
	return tre.NewCodec(reg, opts.StrictTres), nil
}

func (nr *NITFReader) strategy(ds *DataSource) storage.Strategy {
	if nr.options.HeadersOnly {
		return storage.Skip{}
	}
	t := storage.NewThreshold(nr.options.MaxInMemoryPayload, nr.options.SpoolToDisk, nr.options.TempDir)
	ds.onCleanup(t.Cleanup)
	return t
}

// Parse reads the file header and then every segment in file order. When
// parsing fails any payloads already spooled are released.
func (nr *NITFReader) Parse() (*DataSource, error) {
	codec, err := newCodec(nr.options)
	if err != nil {
		return nil, err
	}

	ds := &DataSource{}
	if err := nr.parse(ds, codec); err != nil {
		if cerr := ds.Cleanup(); cerr != nil {
			log.Errorf("cleanup after failed parse: %v", cerr)
		}
		return nil, err
	}
	return ds, nil
}

func (nr *NITFReader) parse(ds *DataSource, codec *tre.Codec) error {
	r := nr.reader
	header, err := segment.ParseFileHeader(r, codec)
	if err != nil {
		return err
	}
	if header.IsStreaming() {
		if header, err = readStreamingHeader(r, codec); err != nil {
			return err
		}
	}
	if len(header.ReservedExtensions) > 0 {
		return r.Errorf(nitfio.ErrUnsupportedSegmentFeature, "NUMRES", "%d reserved extension segments", len(header.ReservedExtensions))
	}
	ds.Header = header
	strategy := nr.strategy(ds)

	for i, p := range header.Images {
		img, err := parseSegment(r, p, segment.KindImage, i, func() (*segment.Image, error) { return segment.ParseImage(r, codec) })
		if err != nil {
			return err
		}
		if img.Data, err = strategy.Handle(r, p.Data); err != nil {
			return fmt.Errorf("image %d data: %w", i, err)
		}
		ds.Images = append(ds.Images, img)
	}

	for i, p := range header.Graphics {
		g, err := parseSegment(r, p, segment.KindGraphic, i, func() (*segment.Graphic, error) { return segment.ParseGraphic(r, codec) })
		if err != nil {
			return err
		}
		if g.Data, err = strategy.Handle(r, p.Data); err != nil {
			return fmt.Errorf("graphic %d data: %w", i, err)
		}
		ds.Graphics = append(ds.Graphics, g)
	}

	for i, p := range header.Symbols {
		s, err := parseSegment(r, p, segment.KindSymbol, i, func() (*segment.Symbol, error) { return segment.ParseSymbol(r, codec) })
		if err != nil {
			return err
		}
		if s.Data, err = strategy.Handle(r, p.Data); err != nil {
			return fmt.Errorf("symbol %d data: %w", i, err)
		}
		ds.Symbols = append(ds.Symbols, s)
	}

	for i, p := range header.Labels {
		l, err := parseSegment(r, p, segment.KindLabel, i, func() (*segment.Label, error) { return segment.ParseLabel(r, codec) })
		if err != nil {
			return err
		}
		if l.Data, err = strategy.Handle(r, p.Data); err != nil {
			return fmt.Errorf("label %d data: %w", i, err)
		}
		ds.Labels = append(ds.Labels, l)
	}

	for i, p := range header.Texts {
		t, err := parseSegment(r, p, segment.KindText, i, func() (*segment.Text, error) { return segment.ParseText(r, codec) })
		if err != nil {
			return err
		}
		if t.Data, err = strategy.Handle(r, p.Data); err != nil {
			return fmt.Errorf("text %d data: %w", i, err)
		}
		ds.Texts = append(ds.Texts, t)
	}

	for i, p := range header.DataExtensions {
		d, err := parseSegment(r, p, segment.KindDataExtension, i, func() (*segment.DataExtension, error) { return segment.ParseDataExtension(r) })
		if err != nil {
			return err
		}
		if d.IsOverflow() {
			err = readOverflow(r, codec, d, p.Data)
		} else {
			d.Data, err = strategy.Handle(r, p.Data)
		}
		if err != nil {
			return fmt.Errorf("data extension %d data: %w", i, err)
		}
		ds.DataExtensions = append(ds.DataExtensions, d)
	}

	log.Debugf("parsed %s: %d images, %d graphics, %d symbols, %d labels, %d texts, %d data extensions",
		header.FileType, len(ds.Images), len(ds.Graphics), len(ds.Symbols), len(ds.Labels), len(ds.Texts), len(ds.DataExtensions))
	return nil
}

// parseSegment runs parse and checks it consumed exactly the subheader
// length the file header declares.
func parseSegment[S segment.Segment](r *nitfio.Reader, p segment.LengthPair, kind segment.Kind, index int, parse func() (S, error)) (S, error) {
	start := r.CurrentOffset()
	log.Debugf("%s %d subheader at %d", kind, index, start)
	seg, err := parse()
	if err != nil {
		return seg, fmt.Errorf("%s %d: %w", kind, index, err)
	}
	if read := r.CurrentOffset() - start; read != int64(p.Subheader) {
		var zero S
		return zero, fmt.Errorf("%s %d: %w", kind, index, nitfio.NewParseError(nitfio.ErrMalformedField, r.CurrentOffset(), "SUBHEADER",
			"declared %d bytes, read %d", p.Subheader, read))
	}
	return seg, nil
}

// readOverflow decodes the TREs an overflow DES carries. Its payload is
// the re-encoded collection, which matches the bytes read.
func readOverflow(r *nitfio.Reader, codec *tre.Codec, d *segment.DataExtension, length int64) error {
	tres, err := codec.ReadCollection(r, length)
	if err != nil {
		return err
	}
	encoded, err := codec.EncodeCollection(tres)
	if err != nil {
		return err
	}
	d.OverflowTres = tres
	d.Data = storage.NewMemoryPayload(encoded)
	log.Debugf("overflow DES for %s %d carries %d TREs", d.OverflowedHeaderType, d.OverflowedItem, len(tres))
	return nil
}
