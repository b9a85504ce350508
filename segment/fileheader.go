package segment

import (
	"fmt"

	"github.com/kpfaulkner/nitf-go/nitfio"
	"github.com/kpfaulkner/nitf-go/tre"
	"github.com/kpfaulkner/nitf-go/util"
	log "github.com/sirupsen/logrus"
)

const (
	// BaseHeaderLength is the size of a file header with no segments, no
	// extension data and no 2.0 downgrade event.
	BaseHeaderLength = 388

	// StreamingFileLength in FL marks a file whose real header is at the end.
	StreamingFileLength int64 = 999999999999

	markerWidth = 9
)

// FileHeader is the NITF file header. The length pair lists are what the
// header declares; Images and friends line up one to one with the segments.
type FileHeader struct {
	FileType             nitfio.FileType
	ComplexityLevel      int
	StandardType         string
	OriginatingStationID string
	DateTime             string
	Title                string
	Security             Security
	CopyNumber           int
	NumberOfCopies       int
	Encrypted            int
	// BackgroundColor is three raw bytes, 2.1 and NSIF only.
	BackgroundColor []byte
	OriginatorName  string
	OriginatorPhone string

	FileLength   int64
	HeaderLength int

	Images         []LengthPair
	Graphics       []LengthPair
	Symbols        []LengthPair
	Labels         []LengthPair
	Texts          []LengthPair
	DataExtensions []LengthPair
	// ReservedCount is NUMX in 2.1. Reserved segments cannot be read.
	ReservedCount      int
	ReservedExtensions []LengthPair

	UserDefined *tre.Section
	Extended    *tre.Section
}

// IsStreaming reports whether FL holds the streaming sentinel.
func (h *FileHeader) IsStreaming() bool {
	return h.FileLength == StreamingFileLength
}

// ParseFileHeader reads the file header at the reader's position and sets
// the reader's file type from it.
func ParseFileHeader(r *nitfio.Reader, codec *tre.Codec) (*FileHeader, error) {
	start := r.CurrentOffset()
	marker, err := r.ReadText(markerWidth)
	if err != nil {
		return nil, err
	}
	ft := nitfio.FileTypeFromMarker(marker)
	if ft == nitfio.UNKNOWN {
		return nil, nitfio.NewParseError(nitfio.ErrUnexpectedToken, start, "FHDR", "unknown file marker %q", marker)
	}
	r.SetFileType(ft)
	log.Debugf("file header at %d is %s", start, ft)

	f := &fields{r: r}
	h := &FileHeader{FileType: ft}
	h.ComplexityLevel = f.int(2, "CLEVEL")
	h.StandardType = f.trimmed(4, "STYPE")
	h.OriginatingStationID = f.trimmed(10, "OSTAID")
	h.DateTime = f.text(14, "FDT")
	h.Title = f.trimmed(80, "FTITLE")
	h.Security = readSecurity(f)
	h.CopyNumber = f.int(5, "FSCOP")
	h.NumberOfCopies = f.int(5, "FSCPYS")
	h.Encrypted = f.int(1, "ENCRYP")

	if ft.IsTwoZero() {
		h.OriginatorName = f.trimmed(27, "ONAME")
	} else {
		h.BackgroundColor = f.raw(3, "FBKGC")
		h.OriginatorName = f.trimmed(24, "ONAME")
	}
	h.OriginatorPhone = f.trimmed(18, "OPHONE")
	h.FileLength = f.long(12, "FL")
	h.HeaderLength = f.int(6, "HL")

	h.Images = f.pairs(f.int(3, "NUMI"), imageWidths, "I")
	if ft.IsTwoZero() {
		h.Symbols = f.pairs(f.int(3, "NUMS"), symbolWidths, "S")
		h.Labels = f.pairs(f.int(3, "NUML"), labelWidths, "L")
	} else {
		h.Graphics = f.pairs(f.int(3, "NUMS"), graphicWidths, "S")
		h.ReservedCount = f.int(3, "NUMX")
		if f.err == nil && h.ReservedCount != 0 {
			return nil, r.Errorf(nitfio.ErrUnsupportedSegmentFeature, "NUMX", "%d reserved segments", h.ReservedCount)
		}
	}
	h.Texts = f.pairs(f.int(3, "NUMT"), textWidths, "T")
	h.DataExtensions = f.pairs(f.int(3, "NUMDES"), desWidths, "D")
	h.ReservedExtensions = f.pairs(f.int(3, "NUMRES"), reservedWidths, "RE")
	if f.err != nil {
		return nil, f.err
	}

	if h.UserDefined, err = codec.ReadSection(r, "UDHDL"); err != nil {
		return nil, err
	}
	if h.Extended, err = codec.ReadSection(r, "XHDL"); err != nil {
		return nil, err
	}

	if !h.IsStreaming() && r.CurrentOffset()-start != int64(h.HeaderLength) {
		return nil, nitfio.NewParseError(nitfio.ErrMalformedField, r.CurrentOffset(), "HL",
			"header declares %d bytes, read %d", h.HeaderLength, r.CurrentOffset()-start)
	}
	return h, nil
}

// WriteFileHeader writes h as it stands. Lengths are not recomputed.
func WriteFileHeader(w *nitfio.Writer, h *FileHeader, codec *tre.Codec) error {
	ft := h.FileType
	w.SetFileType(ft)

	w.WriteMagic(ft.Marker())
	w.WriteInt(h.ComplexityLevel, 2)
	w.WriteText(h.StandardType, 4)
	w.WriteText(h.OriginatingStationID, 10)
	w.WriteText(h.DateTime, 14)
	w.WriteText(h.Title, 80)
	writeSecurity(w, &h.Security)
	w.WriteInt(h.CopyNumber, 5)
	w.WriteInt(h.NumberOfCopies, 5)
	w.WriteInt(h.Encrypted, 1)

	if ft.IsTwoZero() {
		w.WriteText(h.OriginatorName, 27)
	} else {
		writeRawField(w, h.BackgroundColor, 3)
		w.WriteText(h.OriginatorName, 24)
	}
	w.WriteText(h.OriginatorPhone, 18)
	w.WriteLong(h.FileLength, 12)
	w.WriteInt(h.HeaderLength, 6)

	writePairs(w, h.Images, imageWidths)
	if ft.IsTwoZero() {
		writePairs(w, h.Symbols, symbolWidths)
		writePairs(w, h.Labels, labelWidths)
	} else {
		writePairs(w, h.Graphics, graphicWidths)
		w.WriteInt(0, 3)
	}
	writePairs(w, h.Texts, textWidths)
	writePairs(w, h.DataExtensions, desWidths)
	writePairs(w, h.ReservedExtensions, reservedWidths)
	if err := w.Err(); err != nil {
		return err
	}

	if err := codec.WriteSection(w, sectionOrEmpty(h.UserDefined)); err != nil {
		return fmt.Errorf("UDHD: %w", err)
	}
	if err := codec.WriteSection(w, sectionOrEmpty(h.Extended)); err != nil {
		return fmt.Errorf("XHD: %w", err)
	}
	return w.Err()
}

// HeaderLength computes HL for h given the encoded lengths of its UDHD and
// XHD sections.
func HeaderLength(h *FileHeader, userDefinedLength int, extendedLength int) int {
	return util.Sum(
		BaseHeaderLength,
		h.Security.ExtraLength(h.FileType),
		len(h.Images)*imageWidths.total(),
		len(h.Graphics)*graphicWidths.total(),
		len(h.Symbols)*symbolWidths.total(),
		len(h.Labels)*labelWidths.total(),
		len(h.Texts)*textWidths.total(),
		len(h.DataExtensions)*desWidths.total(),
		len(h.ReservedExtensions)*reservedWidths.total(),
		userDefinedLength,
		extendedLength,
	)
}

func sectionOrEmpty(s *tre.Section) *tre.Section {
	if s == nil {
		return &tre.Section{}
	}
	return s
}
