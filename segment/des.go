package segment

import (
	"fmt"

	"github.com/kpfaulkner/nitf-go/nitfio"
	"github.com/kpfaulkner/nitf-go/tre"
	"github.com/kpfaulkner/nitf-go/util"
)

const (
	// StreamingHeaderID names the DES that carries a streaming file's header.
	StreamingHeaderID = "STREAMING_FILE_HEADER"

	overflowID           = "TRE_OVERFLOW"
	registeredOverflowID = "Registered Extensions"
	controlledOverflowID = "Controlled Extensions"
)

// DataExtension is a data extension segment subheader.
//
// Overflow DES segments carry TREs that did not fit in a header; those are
// decoded into OverflowTres and written from there. The streaming header DES
// is flagged StreamingPlaceholder and never written back.
type DataExtension struct {
	Common
	Version              int
	OverflowedHeaderType string
	OverflowedItem       int
	UserDefinedSubheader string
	OverflowTres         tre.Collection
	StreamingPlaceholder bool
}

func (*DataExtension) Kind() Kind {
	return KindDataExtension
}

// IsOverflow reports whether the DES carries overflowed TREs.
func (d *DataExtension) IsOverflow() bool {
	return isOverflowID(d.Identifier)
}

func isOverflowID(id string) bool {
	return id == overflowID || id == registeredOverflowID || id == controlledOverflowID
}

func ParseDataExtension(r *nitfio.Reader) (*DataExtension, error) {
	f := &fields{r: r}
	d := &DataExtension{}

	f.magic("DE")
	d.Identifier = f.trimmed(25, "DESID")
	d.Version = f.int(2, "DESVER")
	d.Security = readSecurity(f)
	if f.err == nil && d.IsOverflow() {
		d.OverflowedHeaderType = f.trimmed(6, "DESOFLW")
		d.OverflowedItem = f.int(3, "DESITEM")
	}
	userLength := f.int(4, "DESSHL")
	d.UserDefinedSubheader = f.text(userLength, "DESSHF")
	if f.err != nil {
		return nil, f.err
	}
	d.StreamingPlaceholder = d.Identifier == StreamingHeaderID
	return d, nil
}

func WriteDataExtension(w *nitfio.Writer, d *DataExtension) error {
	w.WriteMagic("DE")
	w.WriteText(d.Identifier, 25)
	w.WriteInt(d.Version, 2)
	writeSecurity(w, &d.Security)
	if d.IsOverflow() {
		w.WriteText(d.OverflowedHeaderType, 6)
		w.WriteInt(d.OverflowedItem, 3)
	}
	n := len([]rune(d.UserDefinedSubheader))
	if int64(n) > util.MaxForWidth(4) {
		return fmt.Errorf("%w: DES user subheader of %d characters", nitfio.ErrMalformedField, n)
	}
	w.WriteInt(n, 4)
	w.WriteText(d.UserDefinedSubheader, n)
	return w.Err()
}
