package segment

import (
	"fmt"

	"github.com/kpfaulkner/nitf-go/nitfio"
	"github.com/kpfaulkner/nitf-go/tre"
)

// Label is a NITF 2.0 label subheader. The colours are three raw bytes.
type Label struct {
	Common
	Encrypted       int
	FontStyle       string
	CellWidth       int
	CellHeight      int
	DisplayLevel    int
	AttachmentLevel int
	Location        string
	TextColor       []byte
	BackgroundColor []byte
	Extended        *tre.Section
}

func (*Label) Kind() Kind {
	return KindLabel
}

func ParseLabel(r *nitfio.Reader, codec *tre.Codec) (*Label, error) {
	f := &fields{r: r}
	l := &Label{}

	f.magic("LA")
	l.Identifier = f.trimmed(10, "LID")
	l.Security = readSecurity(f)
	l.Encrypted = f.int(1, "ENCRYP")
	l.FontStyle = f.trimmed(1, "LFS")
	l.CellWidth = f.int(2, "LCW")
	l.CellHeight = f.int(2, "LCH")
	l.DisplayLevel = f.int(3, "LDLVL")
	l.AttachmentLevel = f.int(3, "LALVL")
	l.Location = f.text(10, "LLOC")
	l.TextColor = f.raw(3, "LTC")
	l.BackgroundColor = f.raw(3, "LBC")
	if f.err != nil {
		return nil, f.err
	}

	var err error
	if l.Extended, err = codec.ReadSection(r, "LXSHDL"); err != nil {
		return nil, err
	}
	return l, nil
}

func WriteLabel(w *nitfio.Writer, l *Label, codec *tre.Codec) error {
	w.WriteMagic("LA")
	w.WriteText(l.Identifier, 10)
	writeSecurity(w, &l.Security)
	w.WriteInt(l.Encrypted, 1)
	w.WriteText(l.FontStyle, 1)
	w.WriteInt(l.CellWidth, 2)
	w.WriteInt(l.CellHeight, 2)
	w.WriteInt(l.DisplayLevel, 3)
	w.WriteInt(l.AttachmentLevel, 3)
	w.WriteText(l.Location, 10)
	writeRawField(w, l.TextColor, 3)
	writeRawField(w, l.BackgroundColor, 3)
	if err := w.Err(); err != nil {
		return err
	}
	if err := codec.WriteSection(w, sectionOrEmpty(l.Extended)); err != nil {
		return fmt.Errorf("LXSHD: %w", err)
	}
	return w.Err()
}
