package segment

import (
	"fmt"

	"github.com/kpfaulkner/nitf-go/nitfio"
	"github.com/kpfaulkner/nitf-go/tre"
)

// Graphic is a NITF 2.1 / NSIF graphic subheader. Data is CGM.
type Graphic struct {
	Common
	Name            string
	Encrypted       int
	Format          string
	Structure       string
	DisplayLevel    int
	AttachmentLevel int
	Location        string
	FirstBound      string
	Color           string
	SecondBound     string
	Reserved        string
	Extended        *tre.Section
}

func (*Graphic) Kind() Kind {
	return KindGraphic
}

func ParseGraphic(r *nitfio.Reader, codec *tre.Codec) (*Graphic, error) {
	f := &fields{r: r}
	g := &Graphic{}

	f.magic("SY")
	g.Identifier = f.trimmed(10, "SID")
	g.Name = f.trimmed(20, "SNAME")
	g.Security = readSecurity(f)
	g.Encrypted = f.int(1, "ENCRYP")
	g.Format = f.trimmed(1, "SFMT")
	g.Structure = f.text(13, "SSTRUCT")
	g.DisplayLevel = f.int(3, "SDLVL")
	g.AttachmentLevel = f.int(3, "SALVL")
	g.Location = f.text(10, "SLOC")
	g.FirstBound = f.text(10, "SBND1")
	g.Color = f.trimmed(1, "SCOLOR")
	g.SecondBound = f.text(10, "SBND2")
	g.Reserved = f.text(2, "SRES2")
	if f.err != nil {
		return nil, f.err
	}

	var err error
	if g.Extended, err = codec.ReadSection(r, "SXSHDL"); err != nil {
		return nil, err
	}
	return g, nil
}

func WriteGraphic(w *nitfio.Writer, g *Graphic, codec *tre.Codec) error {
	w.WriteMagic("SY")
	w.WriteText(g.Identifier, 10)
	w.WriteText(g.Name, 20)
	writeSecurity(w, &g.Security)
	w.WriteInt(g.Encrypted, 1)
	w.WriteText(g.Format, 1)
	w.WriteText(g.Structure, 13)
	w.WriteInt(g.DisplayLevel, 3)
	w.WriteInt(g.AttachmentLevel, 3)
	w.WriteText(g.Location, 10)
	w.WriteText(g.FirstBound, 10)
	w.WriteText(g.Color, 1)
	w.WriteText(g.SecondBound, 10)
	w.WriteText(g.Reserved, 2)
	if err := w.Err(); err != nil {
		return err
	}
	if err := codec.WriteSection(w, sectionOrEmpty(g.Extended)); err != nil {
		return fmt.Errorf("SXSHD: %w", err)
	}
	return w.Err()
}

// Symbol is a NITF 2.0 symbol subheader.
type Symbol struct {
	Common
	Name            string
	Encrypted       int
	Type            string
	LinesPerSymbol  int
	PixelsPerLine   int
	LineWidth       int
	BitsPerPixel    int
	DisplayLevel    int
	AttachmentLevel int
	Location        string
	SecondLocation  string
	Color           string
	Number          string
	Rotation        int
	Extended        *tre.Section
}

func (*Symbol) Kind() Kind {
	return KindSymbol
}

func ParseSymbol(r *nitfio.Reader, codec *tre.Codec) (*Symbol, error) {
	f := &fields{r: r}
	s := &Symbol{}

	f.magic("SY")
	s.Identifier = f.trimmed(10, "SID")
	s.Name = f.trimmed(20, "SNAME")
	s.Security = readSecurity(f)
	s.Encrypted = f.int(1, "ENCRYP")
	s.Type = f.trimmed(1, "STYPE")
	s.LinesPerSymbol = f.int(4, "NLIPS")
	s.PixelsPerLine = f.int(4, "NPIXPL")
	s.LineWidth = f.int(4, "NWDTH")
	s.BitsPerPixel = f.int(1, "NBPP")
	s.DisplayLevel = f.int(3, "SDLVL")
	s.AttachmentLevel = f.int(3, "SALVL")
	s.Location = f.text(10, "SLOC")
	s.SecondLocation = f.text(10, "SLOC2")
	s.Color = f.trimmed(1, "SCOLOR")
	s.Number = f.text(6, "SNUM")
	s.Rotation = f.int(3, "SROT")
	at := r.CurrentOffset()
	lutEntries := f.int(3, "NELUT")
	if f.err != nil {
		return nil, f.err
	}
	if lutEntries != 0 {
		return nil, nitfio.NewParseError(nitfio.ErrUnsupportedSegmentFeature, at, "NELUT", "symbol look up tables are not supported")
	}

	var err error
	if s.Extended, err = codec.ReadSection(r, "SXSHDL"); err != nil {
		return nil, err
	}
	return s, nil
}

func WriteSymbol(w *nitfio.Writer, s *Symbol, codec *tre.Codec) error {
	w.WriteMagic("SY")
	w.WriteText(s.Identifier, 10)
	w.WriteText(s.Name, 20)
	writeSecurity(w, &s.Security)
	w.WriteInt(s.Encrypted, 1)
	w.WriteText(s.Type, 1)
	w.WriteInt(s.LinesPerSymbol, 4)
	w.WriteInt(s.PixelsPerLine, 4)
	w.WriteInt(s.LineWidth, 4)
	w.WriteInt(s.BitsPerPixel, 1)
	w.WriteInt(s.DisplayLevel, 3)
	w.WriteInt(s.AttachmentLevel, 3)
	w.WriteText(s.Location, 10)
	w.WriteText(s.SecondLocation, 10)
	w.WriteText(s.Color, 1)
	w.WriteText(s.Number, 6)
	w.WriteInt(s.Rotation, 3)
	w.WriteInt(0, 3)
	if err := w.Err(); err != nil {
		return err
	}
	if err := codec.WriteSection(w, sectionOrEmpty(s.Extended)); err != nil {
		return fmt.Errorf("SXSHD: %w", err)
	}
	return w.Err()
}
