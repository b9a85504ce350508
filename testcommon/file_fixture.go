package testcommon

import (
	"github.com/kpfaulkner/nitf-go/nitfio"
)

const (
	baseHeaderLength    = 388
	streamingFileLength = 999999999999
	streamingDelimiter1 = "\x0a\x6e\x1d\x97"
	streamingDelimiter2 = "\x0e\xca\x14\xbf"
)

// Segment is a subheader and its data.
type Segment struct {
	Subheader []byte
	Data      []byte
}

// File describes a synthetic NITF file. Lengths in the header are derived
// from the segments.
type File struct {
	FileType       nitfio.FileType
	Images         []Segment
	Graphics       []Segment
	Symbols        []Segment
	Labels         []Segment
	Texts          []Segment
	DataExtensions []Segment
	// UserDefined and Extended are section bodies, see SectionBody.
	UserDefined    []byte
	Extended       []byte
	DowngradeEvent bool
}

func (f *File) HeaderLength() int {
	hl := baseHeaderLength + len(f.Images)*16 + len(f.Texts)*9 + len(f.DataExtensions)*13 +
		len(f.UserDefined) + len(f.Extended)
	if f.FileType.IsTwoZero() {
		hl += len(f.Symbols)*10 + len(f.Labels)*7
		if f.DowngradeEvent {
			hl += 40
		}
	} else {
		hl += len(f.Graphics) * 10
	}
	return hl
}

func (f *File) FileLength() int64 {
	total := int64(f.HeaderLength())
	for _, s := range f.ordered() {
		total += int64(len(s.Subheader) + len(s.Data))
	}
	return total
}

func (f *File) ordered() []Segment {
	var all []Segment
	all = append(all, f.Images...)
	if f.FileType.IsTwoZero() {
		all = append(all, f.Symbols...)
		all = append(all, f.Labels...)
	} else {
		all = append(all, f.Graphics...)
	}
	all = append(all, f.Texts...)
	return append(all, f.DataExtensions...)
}

// Header builds the file header with the given FL value.
func (f *File) Header(fileLength int64) []byte {
	ft := f.FileType
	h := NewFields().Raw([]byte(ft.Marker())).Int(3, 2).Text("BF01", 4).Text("STATION", 10).
		Text("20181101120000", 14).Text("FILE TITLE", 80).Security(ft, f.DowngradeEvent).
		Int(0, 5).Int(0, 5).Int(0, 1)
	if ft.IsTwoZero() {
		h.Text("ORIGINATOR", 27)
	} else {
		h.Raw([]byte{0, 0, 0}).Text("ORIGINATOR", 24)
	}
	h.Text("555 0100", 18).Int(fileLength, 12).Int(int64(f.HeaderLength()), 6)

	pairs := func(segs []Segment, sw int, dw int) {
		h.Int(int64(len(segs)), 3)
		for _, s := range segs {
			h.Int(int64(len(s.Subheader)), sw).Int(int64(len(s.Data)), dw)
		}
	}
	pairs(f.Images, 6, 10)
	if ft.IsTwoZero() {
		pairs(f.Symbols, 4, 6)
		pairs(f.Labels, 4, 3)
	} else {
		pairs(f.Graphics, 4, 6)
		h.Int(0, 3)
	}
	pairs(f.Texts, 4, 5)
	pairs(f.DataExtensions, 4, 9)
	h.Int(0, 3)
	return h.Section(f.UserDefined).Section(f.Extended).Bytes()
}

// Bytes is the complete file.
func (f *File) Bytes() []byte {
	out := NewFields().Raw(f.Header(f.FileLength()))
	for _, s := range f.ordered() {
		out.Raw(s.Subheader).Raw(s.Data)
	}
	return out.Bytes()
}

// StreamingBytes builds the file in streaming form: FL holds the sentinel
// and a STREAMING_FILE_HEADER DES at the end carries the real header.
func (f *File) StreamingBytes() []byte {
	return f.streaming(0)
}

// StreamingBytesMismatched is StreamingBytes with the first trailer length
// off by one.
func (f *File) StreamingBytesMismatched() []byte {
	return f.streaming(1)
}

func (f *File) streaming(delta int) []byte {
	full := *f
	full.DataExtensions = append(append([]Segment{}, f.DataExtensions...), Segment{
		Subheader: DESSubheader(f.FileType, "STREAMING_FILE_HEADER", "", 0, ""),
	})
	hl := full.HeaderLength()
	last := len(full.DataExtensions) - 1
	full.DataExtensions[last].Data = make([]byte, 7+4+hl+4+7)

	header := full.Header(full.FileLength())
	full.DataExtensions[last].Data = NewFields().
		Int(int64(hl+delta), 7).Raw([]byte(streamingDelimiter1)).
		Raw(header).
		Raw([]byte(streamingDelimiter2)).Int(int64(hl), 7).Bytes()

	out := NewFields().Raw(full.Header(streamingFileLength))
	for _, s := range full.ordered() {
		out.Raw(s.Subheader).Raw(s.Data)
	}
	return out.Bytes()
}
