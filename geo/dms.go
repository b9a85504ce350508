package geo

import (
	"math"
	"strconv"
)

// DecodeDMS reads ddmmssXdddmmssY where X is N or S and Y is E or W.
func DecodeDMS(s string) (Point, error) {
	if err := checkWidth(s); err != nil {
		return Point{}, err
	}
	lat, err := dmsPart(s[0:6], s[6], 'N', 'S', 90)
	if err != nil {
		return Point{}, err
	}
	lon, err := dmsPart(s[7:14], s[14], 'E', 'W', 180)
	if err != nil {
		return Point{}, err
	}
	return Point{Lat: lat, Lon: lon}, nil
}

func dmsPart(text string, hemi byte, positive byte, negative byte, limit float64) (float64, error) {
	degWidth := len(text) - 4
	deg, err := digits(text[:degWidth])
	if err != nil {
		return 0, err
	}
	min, err := digits(text[degWidth : degWidth+2])
	if err != nil {
		return 0, err
	}
	sec, err := digits(text[degWidth+2:])
	if err != nil {
		return 0, err
	}
	if min >= 60 || sec >= 60 {
		return 0, malformed("%q has minutes or seconds out of range", text)
	}

	v := float64(deg) + float64(min)/60 + float64(sec)/3600
	if v > limit {
		return 0, malformed("%q exceeds %v degrees", text, limit)
	}
	switch hemi {
	case positive:
		return v, nil
	case negative:
		return -v, nil
	}
	return 0, malformed("hemisphere %q must be %c or %c", hemi, positive, negative)
}

// DecodeDecimal reads ±dd.ddd±ddd.ddd.
func DecodeDecimal(s string) (Point, error) {
	if err := checkWidth(s); err != nil {
		return Point{}, err
	}
	lat, err := signedDecimal(s[0:7], 90)
	if err != nil {
		return Point{}, err
	}
	lon, err := signedDecimal(s[7:15], 180)
	if err != nil {
		return Point{}, err
	}
	return Point{Lat: lat, Lon: lon}, nil
}

func signedDecimal(text string, limit float64) (float64, error) {
	if text[0] != '+' && text[0] != '-' {
		return 0, malformed("%q must start with + or -", text)
	}
	if text[len(text)-4] != '.' {
		return 0, malformed("%q must have three decimal places", text)
	}
	if _, err := digits(text[1:len(text)-4] + text[len(text)-3:]); err != nil {
		return 0, err
	}
	v, err := strconv.ParseFloat(text, 64)
	if err != nil || math.Abs(v) > limit {
		return 0, malformed("%q is not a valid coordinate", text)
	}
	return v, nil
}

// DecodeGeocentric reads the DMS form and treats the latitude as geocentric,
// returning the geodetic latitude on the WGS84 ellipsoid.
func DecodeGeocentric(s string) (Point, error) {
	p, err := DecodeDMS(s)
	if err != nil {
		return Point{}, err
	}
	p.Lat = geodeticLatitude(p.Lat)
	return p, nil
}

func geodeticLatitude(geocentric float64) float64 {
	if math.Abs(geocentric) >= 90 {
		return geocentric
	}
	phi := geocentric * math.Pi / 180
	return math.Atan(math.Tan(phi)/(1-wgs84E2)) * 180 / math.Pi
}
