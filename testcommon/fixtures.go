package testcommon

import (
	"bytes"
	"fmt"

	"github.com/kpfaulkner/nitf-go/nitfio"
)

// Fields appends fixed width NITF fields. Values that do not fit panic,
// since a bad fixture is a bug in the test.
type Fields struct {
	buf bytes.Buffer
}

func NewFields() *Fields {
	return &Fields{}
}

func (f *Fields) Text(s string, width int) *Fields {
	if len(s) > width {
		panic(fmt.Sprintf("fixture value %q wider than %d", s, width))
	}
	f.buf.WriteString(s)
	f.buf.Write(bytes.Repeat([]byte{' '}, width-len(s)))
	return f
}

func (f *Fields) Int(v int64, width int) *Fields {
	return f.Text(fmt.Sprintf("%0*d", width, v), width)
}

func (f *Fields) Raw(b []byte) *Fields {
	f.buf.Write(b)
	return f
}

func (f *Fields) Bytes() []byte {
	return f.buf.Bytes()
}

// Security appends an unclassified security block.
func (f *Fields) Security(ft nitfio.FileType, downgradeEvent bool) *Fields {
	f.Text("U", 1)
	if !ft.IsTwoZero() {
		return f.Text("", 166)
	}
	f.Text("", 40).Text("", 40).Text("", 40).Text("", 20).Text("", 20)
	if downgradeEvent {
		return f.Text("999998", 6).Text("ON RELEASE", 40)
	}
	return f.Text("", 6)
}

// Section appends a length prefixed extension section. A nil body is
// written as a zero length.
func (f *Fields) Section(body []byte) *Fields {
	if body == nil {
		return f.Int(0, 5)
	}
	return f.Int(int64(len(body)), 5).Raw(body)
}

// SectionBody is an overflow index followed by TRE records.
func SectionBody(overflow int, records ...[]byte) []byte {
	f := NewFields().Int(int64(overflow), 3)
	for _, r := range records {
		f.Raw(r)
	}
	return f.Bytes()
}

// TreRecord is a tag, five digit length and body.
func TreRecord(tag string, body []byte) []byte {
	return NewFields().Text(tag, 6).Int(int64(len(body)), 5).Raw(body).Bytes()
}

type ImageOptions struct {
	ID         string
	ICORDS     string
	IGEOLO     string
	Comments   []string
	IC         string
	COMRAT     string
	Rows       int
	Columns    int
	Bands      int
	LUTs       int
	LUTEntries int
	UDID       []byte
	IXSHD      []byte
}

func noGeolocation(ft nitfio.FileType, icords string) bool {
	return icords == "" || icords == " " || (ft.IsTwoZero() && icords == "N")
}

func ImageSubheader(ft nitfio.FileType, o ImageOptions) []byte {
	if o.IC == "" {
		o.IC = "NC"
	}
	if o.Bands == 0 {
		o.Bands = 1
	}
	if o.Rows == 0 {
		o.Rows, o.Columns = 4, 4
	}

	f := NewFields().Text("IM", 2).Text(o.ID, 10).Text("20181101120000", 14).Text("TARGET", 17).Text("IMAGE TITLE", 80)
	f.Security(ft, false).Int(0, 1).Text("UNIT TEST", 42).Int(int64(o.Rows), 8).Int(int64(o.Columns), 8)
	f.Text("INT", 3).Text("MONO", 8).Text("VIS", 8).Int(8, 2).Text("R", 1).Text(o.ICORDS, 1)
	if !noGeolocation(ft, o.ICORDS) {
		f.Text(o.IGEOLO, 60)
	}
	f.Int(int64(len(o.Comments)), 1)
	for _, c := range o.Comments {
		f.Text(c, 80)
	}
	f.Text(o.IC, 2)
	if o.IC != "NC" && o.IC != "NM" {
		f.Text(o.COMRAT, 4)
	}
	if o.Bands > 9 {
		f.Int(0, 1).Int(int64(o.Bands), 5)
	} else {
		f.Int(int64(o.Bands), 1)
	}
	for b := 0; b < o.Bands; b++ {
		f.Text("M", 2).Text("", 6).Text("N", 1).Text("", 3).Int(int64(o.LUTs), 1)
		if o.LUTs > 0 {
			f.Int(int64(o.LUTEntries), 5)
			for l := 0; l < o.LUTs; l++ {
				lut := make([]byte, o.LUTEntries)
				for i := range lut {
					lut[i] = byte(i + l)
				}
				f.Raw(lut)
			}
		}
	}
	f.Int(0, 1).Text("B", 1).Int(1, 4).Int(1, 4).Int(int64(o.Columns), 4).Int(int64(o.Rows), 4)
	f.Int(8, 2).Int(1, 3).Int(0, 3).Text("0000000000", 10).Text("1.0", 4)
	return f.Section(o.UDID).Section(o.IXSHD).Bytes()
}

func GraphicSubheader(id string, sxshd []byte) []byte {
	f := NewFields().Text("SY", 2).Text(id, 10).Text("GRAPHIC", 20).Security(nitfio.NITF_TWO_ONE, false).Int(0, 1)
	f.Text("C", 1).Text("0000000000000", 13).Int(2, 3).Int(1, 3).Text("0000000000", 10)
	f.Text("0000000000", 10).Text("C", 1).Text("0010000100", 10).Text("00", 2)
	return f.Section(sxshd).Bytes()
}

func SymbolSubheader(id string, nelut int) []byte {
	f := NewFields().Text("SY", 2).Text(id, 10).Text("SYMBOL", 20).Security(nitfio.NITF_TWO_ZERO, false).Int(0, 1)
	f.Text("C", 1).Int(0, 4).Int(0, 4).Int(1, 4).Int(0, 1).Int(2, 3).Int(1, 3)
	f.Text("0000000000", 10).Text("0000000000", 10).Text("K", 1).Text("000001", 6).Int(0, 3).Int(int64(nelut), 3)
	if nelut > 0 {
		f.Raw(make([]byte, nelut*3))
	}
	return f.Section(nil).Bytes()
}

func LabelSubheader(id string) []byte {
	f := NewFields().Text("LA", 2).Text(id, 10).Security(nitfio.NITF_TWO_ZERO, false).Int(0, 1)
	f.Text("", 1).Int(0, 2).Int(0, 2).Int(3, 3).Int(1, 3).Text("0000000000", 10)
	f.Raw([]byte{0, 0, 0}).Raw([]byte{0xFF, 0xFF, 0xFF})
	return f.Section(nil).Bytes()
}

func TextSubheader(ft nitfio.FileType, id string, txshd []byte) []byte {
	f := NewFields().Text("TE", 2)
	if ft.IsTwoZero() {
		f.Text(id, 10)
	} else {
		f.Text(id, 7).Int(0, 3)
	}
	f.Text("20181101120000", 14).Text("TEXT TITLE", 80).Security(ft, false).Int(0, 1).Text("STA", 3)
	return f.Section(txshd).Bytes()
}

// DESSubheader builds a DES subheader. overflowType is only written for the
// overflow identifiers.
func DESSubheader(ft nitfio.FileType, id string, overflowType string, item int, userSubheader string) []byte {
	f := NewFields().Text("DE", 2).Text(id, 25).Int(1, 2).Security(ft, false)
	switch id {
	case "TRE_OVERFLOW", "Registered Extensions", "Controlled Extensions":
		f.Text(overflowType, 6).Int(int64(item), 3)
	}
	return f.Int(int64(len(userSubheader)), 4).Text(userSubheader, len(userSubheader)).Bytes()
}
