// Package geo decodes the four corner IGEOLO strings found in image
// subheaders into latitude and longitude in decimal degrees.
package geo

import (
	"fmt"
	"strconv"

	"github.com/kpfaulkner/nitf-go/nitfio"
)

const (
	cornerWidth  = 15
	cornerCount  = 4
	IGEOLOLength = cornerWidth * cornerCount
)

// Point is a WGS84 geodetic position in decimal degrees.
type Point struct {
	Lat float64
	Lon float64
}

func (p Point) String() string {
	return fmt.Sprintf("(%.6f, %.6f)", p.Lat, p.Lon)
}

// Corners lists the image corners in IGEOLO order: first row first column,
// first row last column, last row last column, last row first column.
type Corners [cornerCount]Point

// DecodeIGEOLO converts all four corners using the coordinate system named
// by icords.
func DecodeIGEOLO(icords string, igeolo string) (Corners, error) {
	var corners Corners
	if len(igeolo) != IGEOLOLength {
		return corners, malformed("IGEOLO must be %d characters, found %d", IGEOLOLength, len(igeolo))
	}

	decode, err := decoderFor(icords)
	if err != nil {
		return corners, err
	}
	for i := 0; i < cornerCount; i++ {
		p, err := decode(igeolo[i*cornerWidth : (i+1)*cornerWidth])
		if err != nil {
			return corners, fmt.Errorf("corner %d: %w", i+1, err)
		}
		corners[i] = p
	}
	return corners, nil
}

func decoderFor(icords string) (func(string) (Point, error), error) {
	switch icords {
	case "G":
		return DecodeDMS, nil
	case "D":
		return DecodeDecimal, nil
	case "N":
		return func(s string) (Point, error) { return DecodeUTM(s, true) }, nil
	case "S":
		return func(s string) (Point, error) { return DecodeUTM(s, false) }, nil
	case "U":
		return DecodeMGRS, nil
	case "C":
		return DecodeGeocentric, nil
	}
	return nil, malformed("unknown coordinate system %q", icords)
}

func malformed(detail string, args ...any) error {
	return fmt.Errorf("%w: %s", nitfio.ErrMalformedCoordinate, fmt.Sprintf(detail, args...))
}

func checkWidth(s string) error {
	if len(s) != cornerWidth {
		return malformed("%q must be %d characters", s, cornerWidth)
	}
	return nil
}

// digits parses s, which must be entirely ASCII digits.
func digits(s string) (int, error) {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return 0, malformed("%q is not numeric", s)
		}
	}
	return strconv.Atoi(s)
}
