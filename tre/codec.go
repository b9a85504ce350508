package tre

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/kpfaulkner/nitf-go/nitfio"
	log "github.com/sirupsen/logrus"
)

const (
	tagWidth    = 6
	lengthWidth = 5
	// MaxTreLength is the largest body a 5 digit length can describe.
	MaxTreLength = 99999
)

// Codec reads and writes TRE collections using a Registry. With Strict set,
// a registered TRE whose bytes do not match its grammar is an error rather
// than being kept raw.
type Codec struct {
	Registry *Registry
	Strict   bool
}

func NewCodec(registry *Registry, strict bool) *Codec {
	return &Codec{Registry: registry, Strict: strict}
}

// ReadCollection consumes exactly budget bytes of tag/length/body records.
func (c *Codec) ReadCollection(r *nitfio.Reader, budget int64) (Collection, error) {
	var tres Collection
	end := r.CurrentOffset() + budget

	for r.CurrentOffset() < end {
		if end-r.CurrentOffset() < tagWidth+lengthWidth {
			return nil, r.Errorf(nitfio.ErrMalformedField, "CETAG", "%d bytes left in extension region, too short for a TRE", end-r.CurrentOffset())
		}
		start := r.CurrentOffset()
		tag, err := r.ReadTrimmed(tagWidth)
		if err != nil {
			return nil, err
		}
		length, err := r.ReadInt(lengthWidth)
		if err != nil {
			return nil, err
		}
		if r.CurrentOffset()+int64(length) > end {
			return nil, r.Errorf(nitfio.ErrMalformedField, "CEL", "TRE %s length %d runs past its extension region", tag, length)
		}
		body, err := r.ReadRaw(int64(length))
		if err != nil {
			return nil, err
		}

		t, err := c.DecodeTre(tag, body, start)
		if err != nil {
			return nil, err
		}
		tres = append(tres, t)
	}
	return tres, nil
}

// DecodeTre interprets one TRE body. offset is only used in messages.
func (c *Codec) DecodeTre(tag string, body []byte, offset int64) (*Tre, error) {
	def, ok := c.Registry.Lookup(tag)
	if !ok {
		log.Debugf("no grammar for TRE %s at offset %d, keeping %d raw bytes", tag, offset, len(body))
		return NewRawTre(tag, body), nil
	}

	sub := nitfio.NewBytesReader(body)
	dec := NewDecoder(sub)
	entries, err := dec.Decode(def)
	if err == nil && sub.CurrentOffset() != int64(len(body)) {
		err = sub.Errorf(nitfio.ErrMalformedField, "", "grammar used %d of %d bytes", sub.CurrentOffset(), len(body))
	}
	if err != nil {
		if IsGrammarError(err) || c.Strict {
			return nil, fmt.Errorf("TRE %s at offset %d: %w", tag, offset, err)
		}
		log.Warnf("TRE %s at offset %d does not match its grammar, keeping it raw: %v", tag, offset, err)
		return NewRawTre(tag, body), nil
	}
	return &Tre{Name: tag, Entries: entries, Reserved: dec.Reserved()}, nil
}

// EncodeTre returns the body of t, without tag and length.
func (c *Codec) EncodeTre(t *Tre) ([]byte, error) {
	if t.IsRaw() {
		return t.Raw, nil
	}
	def, ok := c.Registry.Lookup(t.Name)
	if !ok {
		return nil, fmt.Errorf("%w: no grammar for decoded TRE %s", nitfio.ErrMalformedField, t.Name)
	}

	var buf bytes.Buffer
	enc := NewEncoder(nitfio.NewWriter(&buf))
	enc.SetReserved(t.Reserved)
	if err := enc.Encode(def, t.Entries); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// EncodeCollection returns the records of every TRE in order.
func (c *Codec) EncodeCollection(tres Collection) ([]byte, error) {
	var buf bytes.Buffer
	w := nitfio.NewWriter(&buf)
	if err := c.WriteCollection(w, tres); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (c *Codec) WriteCollection(w *nitfio.Writer, tres Collection) error {
	for _, t := range tres {
		body, err := c.EncodeTre(t)
		if err != nil {
			return err
		}
		if len(body) > MaxTreLength {
			return fmt.Errorf("%w: TRE %s body of %d bytes is too long", nitfio.ErrMalformedField, t.Name, len(body))
		}
		w.WriteText(strings.TrimRight(t.Name, " "), tagWidth)
		w.WriteInt(len(body), lengthWidth)
		w.WriteRaw(body)
		if err := w.Err(); err != nil {
			return err
		}
	}
	return nil
}
