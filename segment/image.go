package segment

import (
	"bytes"
	"fmt"

	"github.com/kpfaulkner/nitf-go/geo"
	"github.com/kpfaulkner/nitf-go/nitfio"
	"github.com/kpfaulkner/nitf-go/tre"
	log "github.com/sirupsen/logrus"
)

// Band describes one image band. LUTs holds NLUTS tables of NELUT bytes.
type Band struct {
	Representation  string
	Subcategory     string
	FilterCondition string
	FilterCode      string
	LUTs            [][]byte
}

// Image is an image subheader. The pixel data is never decoded; Data holds
// it exactly as stored, compressed or not.
type Image struct {
	Common
	DateTime           string
	TargetID           string
	Title              string
	Encrypted          int
	Source             string
	Rows               int
	Columns            int
	PixelValueType     string
	Representation     string
	Category           string
	ActualBitsPerPixel int
	Justification      string
	// CoordinateSystem is ICORDS. Geolocation holds IGEOLO verbatim and
	// Corners its decoded form.
	CoordinateSystem string
	Geolocation      string
	Corners          *geo.Corners
	Comments         []string
	Compression      string
	CompressionRate  string
	Bands            []Band
	Sync             int
	Mode             string
	BlocksPerRow     int
	BlocksPerColumn  int
	PixelsPerBlockH  int
	PixelsPerBlockV  int
	BitsPerPixel     int
	DisplayLevel     int
	AttachmentLevel  int
	Location         string
	Magnification    string
	UserDefined      *tre.Section
	Extended         *tre.Section
}

func (*Image) Kind() Kind {
	return KindImage
}

// LocationOffset splits ILOC into its row and column offsets. Each is five
// characters wide and may carry a sign.
func (img *Image) LocationOffset() (row int, col int, err error) {
	r := nitfio.NewBytesReader([]byte(img.Location))
	if row, err = r.ReadSignedInt(5); err != nil {
		return 0, 0, fmt.Errorf("ILOC row: %w", err)
	}
	if col, err = r.ReadSignedInt(5); err != nil {
		return 0, 0, fmt.Errorf("ILOC column: %w", err)
	}
	return row, col, nil
}

func (img *Image) SetLocationOffset(row int, col int) error {
	var buf bytes.Buffer
	w := nitfio.NewWriter(&buf)
	w.WriteSignedInt(row, 5)
	w.WriteSignedInt(col, 5)
	if err := w.Err(); err != nil {
		return fmt.Errorf("ILOC: %w", err)
	}
	img.Location = buf.String()
	return nil
}

// hasGeolocation reports whether IGEOLO follows ICORDS. Under NITF 2.0, N
// means no coordinates and U is MGRS.
func hasGeolocation(ft nitfio.FileType, icords string) bool {
	if ft.IsTwoZero() {
		return icords != "N" && icords != ""
	}
	return icords != ""
}

func hasCompressionRate(ic string) bool {
	return ic != "NC" && ic != "NM"
}

func ParseImage(r *nitfio.Reader, codec *tre.Codec) (*Image, error) {
	ft := r.FileType()
	f := &fields{r: r}
	img := &Image{}

	f.magic("IM")
	img.Identifier = f.trimmed(10, "IID1")
	img.DateTime = f.text(14, "IDATIM")
	img.TargetID = f.trimmed(17, "TGTID")
	img.Title = f.trimmed(80, "IID2")
	img.Security = readSecurity(f)
	img.Encrypted = f.int(1, "ENCRYP")
	img.Source = f.trimmed(42, "ISORCE")
	img.Rows = f.int(8, "NROWS")
	img.Columns = f.int(8, "NCOLS")
	img.PixelValueType = f.trimmed(3, "PVTYPE")
	img.Representation = f.trimmed(8, "IREP")
	img.Category = f.trimmed(8, "ICAT")
	img.ActualBitsPerPixel = f.int(2, "ABPP")
	img.Justification = f.trimmed(1, "PJUST")
	img.CoordinateSystem = f.trimmed(1, "ICORDS")

	if f.err == nil && hasGeolocation(ft, img.CoordinateSystem) {
		at := r.CurrentOffset()
		img.Geolocation = f.text(geo.IGEOLOLength, "IGEOLO")
		if f.err == nil {
			corners, err := decodeGeolocation(img.CoordinateSystem, img.Geolocation)
			if err != nil {
				return nil, nitfio.NewParseError(err, at, "IGEOLO", "")
			}
			img.Corners = corners
		}
	}

	comments := f.int(1, "NICOM")
	for i := 0; i < comments && f.err == nil; i++ {
		img.Comments = append(img.Comments, f.trimmed(80, fmt.Sprintf("ICOM%d", i+1)))
	}

	img.Compression = f.trimmed(2, "IC")
	if f.err == nil && hasCompressionRate(img.Compression) {
		img.CompressionRate = f.trimmed(4, "COMRAT")
	}

	bands := f.int(1, "NBANDS")
	if f.err == nil && bands == 0 && !ft.IsTwoZero() {
		bands = f.int(5, "XBANDS")
	}
	for i := 0; i < bands && f.err == nil; i++ {
		img.Bands = append(img.Bands, readBand(f, i+1))
	}

	img.Sync = f.int(1, "ISYNC")
	img.Mode = f.trimmed(1, "IMODE")
	img.BlocksPerRow = f.int(4, "NBPR")
	img.BlocksPerColumn = f.int(4, "NBPC")
	img.PixelsPerBlockH = f.int(4, "NPPBH")
	img.PixelsPerBlockV = f.int(4, "NPPBV")
	img.BitsPerPixel = f.int(2, "NBPP")
	img.DisplayLevel = f.int(3, "IDLVL")
	img.AttachmentLevel = f.int(3, "IALVL")
	img.Location = f.text(10, "ILOC")
	img.Magnification = f.trimmed(4, "IMAG")
	if f.err != nil {
		return nil, f.err
	}

	var err error
	if img.UserDefined, err = codec.ReadSection(r, "UDIDL"); err != nil {
		return nil, err
	}
	if img.Extended, err = codec.ReadSection(r, "IXSHDL"); err != nil {
		return nil, err
	}
	log.Debugf("image %q: %dx%d, %d bands, IC %s", img.Identifier, img.Columns, img.Rows, len(img.Bands), img.Compression)
	return img, nil
}

func readBand(f *fields, n int) Band {
	b := Band{
		Representation:  f.trimmed(2, fmt.Sprintf("IREPBAND%d", n)),
		Subcategory:     f.trimmed(6, fmt.Sprintf("ISUBCAT%d", n)),
		FilterCondition: f.trimmed(1, fmt.Sprintf("IFC%d", n)),
		FilterCode:      f.trimmed(3, fmt.Sprintf("IMFLT%d", n)),
	}
	luts := f.int(1, fmt.Sprintf("NLUTS%d", n))
	if luts == 0 || f.err != nil {
		return b
	}
	entries := f.int(5, fmt.Sprintf("NELUT%d", n))
	for i := 0; i < luts && f.err == nil; i++ {
		b.LUTs = append(b.LUTs, f.raw(entries, fmt.Sprintf("LUTD%d%d", n, i+1)))
	}
	return b
}

// decodeGeolocation validates IGEOLO against ICORDS.
func decodeGeolocation(icords string, igeolo string) (*geo.Corners, error) {
	corners, err := geo.DecodeIGEOLO(icords, igeolo)
	if err != nil {
		return nil, err
	}
	return &corners, nil
}

func WriteImage(w *nitfio.Writer, img *Image, codec *tre.Codec) error {
	ft := w.FileType()

	w.WriteMagic("IM")
	w.WriteText(img.Identifier, 10)
	w.WriteText(img.DateTime, 14)
	w.WriteText(img.TargetID, 17)
	w.WriteText(img.Title, 80)
	writeSecurity(w, &img.Security)
	w.WriteInt(img.Encrypted, 1)
	w.WriteText(img.Source, 42)
	w.WriteInt(img.Rows, 8)
	w.WriteInt(img.Columns, 8)
	w.WriteText(img.PixelValueType, 3)
	w.WriteText(img.Representation, 8)
	w.WriteText(img.Category, 8)
	w.WriteInt(img.ActualBitsPerPixel, 2)
	w.WriteText(img.Justification, 1)
	w.WriteText(img.CoordinateSystem, 1)
	if hasGeolocation(ft, img.CoordinateSystem) {
		w.WriteExact(img.Geolocation, geo.IGEOLOLength)
	}

	if len(img.Comments) > 9 {
		return fmt.Errorf("%w: %d image comments, at most 9 allowed", nitfio.ErrMalformedField, len(img.Comments))
	}
	w.WriteInt(len(img.Comments), 1)
	for _, c := range img.Comments {
		w.WriteText(c, 80)
	}

	w.WriteText(img.Compression, 2)
	if hasCompressionRate(img.Compression) {
		w.WriteText(img.CompressionRate, 4)
	}

	if len(img.Bands) > 9 && !ft.IsTwoZero() {
		w.WriteInt(0, 1)
		w.WriteInt(len(img.Bands), 5)
	} else {
		w.WriteInt(len(img.Bands), 1)
	}
	for i := range img.Bands {
		writeBand(w, &img.Bands[i])
	}

	w.WriteInt(img.Sync, 1)
	w.WriteText(img.Mode, 1)
	w.WriteInt(img.BlocksPerRow, 4)
	w.WriteInt(img.BlocksPerColumn, 4)
	w.WriteInt(img.PixelsPerBlockH, 4)
	w.WriteInt(img.PixelsPerBlockV, 4)
	w.WriteInt(img.BitsPerPixel, 2)
	w.WriteInt(img.DisplayLevel, 3)
	w.WriteInt(img.AttachmentLevel, 3)
	w.WriteText(img.Location, 10)
	w.WriteText(img.Magnification, 4)
	if err := w.Err(); err != nil {
		return err
	}

	if err := codec.WriteSection(w, sectionOrEmpty(img.UserDefined)); err != nil {
		return fmt.Errorf("UDID: %w", err)
	}
	if err := codec.WriteSection(w, sectionOrEmpty(img.Extended)); err != nil {
		return fmt.Errorf("IXSHD: %w", err)
	}
	return w.Err()
}

func writeBand(w *nitfio.Writer, b *Band) {
	w.WriteText(b.Representation, 2)
	w.WriteText(b.Subcategory, 6)
	w.WriteText(b.FilterCondition, 1)
	w.WriteText(b.FilterCode, 3)
	w.WriteInt(len(b.LUTs), 1)
	if len(b.LUTs) == 0 {
		return
	}
	entries := len(b.LUTs[0])
	w.WriteInt(entries, 5)
	for _, lut := range b.LUTs {
		writeRawField(w, lut, entries)
	}
}
