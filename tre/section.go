package tre

import (
	"fmt"

	"github.com/kpfaulkner/nitf-go/nitfio"
)

const (
	sectionLengthWidth   = 5
	overflowWidth        = 3
	maxSectionBodyLength = 99999
)

// Section is a length prefixed extension region such as UDHD, XHD, UDID or
// IXSHD. Overflow is the index of the DES carrying TREs that did not fit.
type Section struct {
	Overflow int
	Tres     Collection
}

// IsEmpty reports whether the section is written as a bare zero length.
func (s *Section) IsEmpty() bool {
	return s == nil || (s.Overflow == 0 && len(s.Tres) == 0)
}

func (c *Codec) ReadSection(r *nitfio.Reader, field string) (*Section, error) {
	length, err := r.ReadInt(sectionLengthWidth)
	if err != nil {
		return nil, err
	}
	if length == 0 {
		return &Section{}, nil
	}
	if length < overflowWidth {
		return nil, r.Errorf(nitfio.ErrMalformedField, field, "length %d leaves no room for the overflow index", length)
	}

	overflow, err := r.ReadInt(overflowWidth)
	if err != nil {
		return nil, err
	}
	tres, err := c.ReadCollection(r, int64(length-overflowWidth))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", field, err)
	}
	return &Section{Overflow: overflow, Tres: tres}, nil
}

// EncodeSection returns what follows the length field: nothing for an empty
// section, otherwise the overflow index and the TRE records.
func (c *Codec) EncodeSection(s *Section) ([]byte, error) {
	if s.IsEmpty() {
		return []byte{}, nil
	}
	if s.Overflow < 0 || s.Overflow > 999 {
		return nil, fmt.Errorf("%w: overflow index %d", nitfio.ErrMalformedField, s.Overflow)
	}
	tres, err := c.EncodeCollection(s.Tres)
	if err != nil {
		return nil, err
	}
	body := make([]byte, 0, overflowWidth+len(tres))
	body = fmt.Appendf(body, "%03d", s.Overflow)
	body = append(body, tres...)
	if len(body) > maxSectionBodyLength {
		return nil, fmt.Errorf("%w: extension section of %d bytes exceeds %d", nitfio.ErrMalformedField, len(body), maxSectionBodyLength)
	}
	return body, nil
}

// SectionLength is the value the section's length field will hold.
func (c *Codec) SectionLength(s *Section) (int, error) {
	body, err := c.EncodeSection(s)
	if err != nil {
		return 0, err
	}
	return len(body), nil
}

func (c *Codec) WriteSection(w *nitfio.Writer, s *Section) error {
	body, err := c.EncodeSection(s)
	if err != nil {
		return err
	}
	w.WriteInt(len(body), sectionLengthWidth)
	w.WriteRaw(body)
	return w.Err()
}
