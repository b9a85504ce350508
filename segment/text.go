package segment

import (
	"fmt"

	"github.com/kpfaulkner/nitf-go/nitfio"
	"github.com/kpfaulkner/nitf-go/tre"
)

// Text is a text subheader. NITF 2.0 has a ten character TEXTID and no
// attachment level.
type Text struct {
	Common
	AttachmentLevel int
	DateTime        string
	Title           string
	Encrypted       int
	Format          string
	Extended        *tre.Section
}

func (*Text) Kind() Kind {
	return KindText
}

func ParseText(r *nitfio.Reader, codec *tre.Codec) (*Text, error) {
	f := &fields{r: r}
	t := &Text{}

	f.magic("TE")
	if r.FileType().IsTwoZero() {
		t.Identifier = f.trimmed(10, "TEXTID")
	} else {
		t.Identifier = f.trimmed(7, "TEXTID")
		t.AttachmentLevel = f.int(3, "TXTALVL")
	}
	t.DateTime = f.text(14, "TXTDT")
	t.Title = f.trimmed(80, "TXTITL")
	t.Security = readSecurity(f)
	t.Encrypted = f.int(1, "ENCRYP")
	t.Format = f.trimmed(3, "TXTFMT")
	if f.err != nil {
		return nil, f.err
	}

	var err error
	if t.Extended, err = codec.ReadSection(r, "TXSHDL"); err != nil {
		return nil, err
	}
	return t, nil
}

func WriteText(w *nitfio.Writer, t *Text, codec *tre.Codec) error {
	w.WriteMagic("TE")
	if w.FileType().IsTwoZero() {
		w.WriteText(t.Identifier, 10)
	} else {
		w.WriteText(t.Identifier, 7)
		w.WriteInt(t.AttachmentLevel, 3)
	}
	w.WriteText(t.DateTime, 14)
	w.WriteText(t.Title, 80)
	writeSecurity(w, &t.Security)
	w.WriteInt(t.Encrypted, 1)
	w.WriteText(t.Format, 3)
	if err := w.Err(); err != nil {
		return err
	}
	if err := codec.WriteSection(w, sectionOrEmpty(t.Extended)); err != nil {
		return fmt.Errorf("TXSHD: %w", err)
	}
	return w.Err()
}
