package geo

import (
	"fmt"
	"math"
	"strings"

	"github.com/kpfaulkner/nitf-go/nitfio"
)

const (
	wgs84A        = 6378137.0
	wgs84F        = 1 / 298.257223563
	wgs84E2       = wgs84F * (2 - wgs84F)
	utmK0         = 0.9996
	falseEasting  = 500000.0
	falseNorthing = 10000000.0
)

// DecodeUTM reads zzeeeeeennnnnnn: a two digit zone, six digit easting and
// seven digit northing, in the northern or southern hemisphere.
func DecodeUTM(s string, north bool) (Point, error) {
	if err := checkWidth(s); err != nil {
		return Point{}, err
	}
	zone, err := digits(s[0:2])
	if err != nil {
		return Point{}, err
	}
	easting, err := digits(s[2:8])
	if err != nil {
		return Point{}, err
	}
	northing, err := digits(s[8:15])
	if err != nil {
		return Point{}, err
	}
	if zone < 1 || zone > 60 {
		return Point{}, malformed("UTM zone %d out of range", zone)
	}
	return utmToGeodetic(zone, north, float64(easting), float64(northing)), nil
}

// meridianArc is the distance along the central meridian from the equator
// to latitude phi, in metres.
func meridianArc(phi float64) float64 {
	e2 := wgs84E2
	e4 := e2 * e2
	e6 := e4 * e2
	return wgs84A * ((1-e2/4-3*e4/64-5*e6/256)*phi -
		(3*e2/8+3*e4/32+45*e6/1024)*math.Sin(2*phi) +
		(15*e4/256+45*e6/1024)*math.Sin(4*phi) -
		(35*e6/3072)*math.Sin(6*phi))
}

func utmToGeodetic(zone int, north bool, easting float64, northing float64) Point {
	e2 := wgs84E2
	ep2 := e2 / (1 - e2)

	x := easting - falseEasting
	y := northing
	if !north {
		y -= falseNorthing
	}

	m := y / utmK0
	mu := m / (wgs84A * (1 - e2/4 - 3*e2*e2/64 - 5*e2*e2*e2/256))
	e1 := (1 - math.Sqrt(1-e2)) / (1 + math.Sqrt(1-e2))

	phi1 := mu +
		(3*e1/2-27*math.Pow(e1, 3)/32)*math.Sin(2*mu) +
		(21*e1*e1/16-55*math.Pow(e1, 4)/32)*math.Sin(4*mu) +
		(151*math.Pow(e1, 3)/96)*math.Sin(6*mu) +
		(1097*math.Pow(e1, 4)/512)*math.Sin(8*mu)

	sin1, cos1, tan1 := math.Sin(phi1), math.Cos(phi1), math.Tan(phi1)
	c1 := ep2 * cos1 * cos1
	t1 := tan1 * tan1
	n1 := wgs84A / math.Sqrt(1-e2*sin1*sin1)
	r1 := wgs84A * (1 - e2) / math.Pow(1-e2*sin1*sin1, 1.5)
	d := x / (n1 * utmK0)

	lat := phi1 - (n1*tan1/r1)*(d*d/2-
		(5+3*t1+10*c1-4*c1*c1-9*ep2)*math.Pow(d, 4)/24+
		(61+90*t1+298*c1+45*t1*t1-252*ep2-3*c1*c1)*math.Pow(d, 6)/720)
	lon := (d - (1+2*t1+c1)*math.Pow(d, 3)/6 +
		(5-2*c1+28*t1-3*c1*c1+8*ep2+24*t1*t1)*math.Pow(d, 5)/120) / cos1

	lon0 := float64((zone-1)*6 - 180 + 3)
	return Point{Lat: lat * 180 / math.Pi, Lon: lon0 + lon*180/math.Pi}
}

const (
	bandLetters   = "CDEFGHJKLMNPQRSTUVWX"
	rowLetters    = "ABCDEFGHJKLMNPQRSTUV"
	hundredKm     = 100000.0
	rowCycleMetre = 2000000.0
)

var columnSets = [3]string{"STUVWXYZ", "ABCDEFGH", "JKLMNPQR"}

// DecodeMGRS reads zzBJKeeeeennnnn: zone, latitude band, the two letter
// 100 km square and five digit easting and northing. Polar (UPS) bands are
// not supported.
func DecodeMGRS(s string) (Point, error) {
	if err := checkWidth(s); err != nil {
		return Point{}, err
	}
	s = strings.ToUpper(s)

	zone, err := digits(s[0:2])
	if err != nil {
		return Point{}, err
	}
	band := s[2]
	if strings.IndexByte("ABYZ", band) >= 0 {
		return Point{}, fmt.Errorf("%w: MGRS polar band %c (UPS)", nitfio.ErrUnsupportedSegmentFeature, band)
	}
	bandIndex := strings.IndexByte(bandLetters, band)
	if zone < 1 || zone > 60 || bandIndex < 0 {
		return Point{}, malformed("MGRS zone %q band %q", s[0:2], band)
	}

	col := strings.IndexByte(columnSets[zone%3], s[3])
	row := strings.IndexByte(rowLetters, s[4])
	if col < 0 || row < 0 {
		return Point{}, malformed("MGRS square %q not valid in zone %d", s[3:5], zone)
	}
	if zone%2 == 0 {
		row = (row - 5 + len(rowLetters)) % len(rowLetters)
	}

	e, err := digits(s[5:10])
	if err != nil {
		return Point{}, err
	}
	n, err := digits(s[10:15])
	if err != nil {
		return Point{}, err
	}

	easting := float64(col+1)*hundredKm + float64(e)
	northing := float64(row)*hundredKm + float64(n)

	north := band >= 'N'
	bandSouth := float64(-80 + 8*bandIndex)
	minNorthing := utmK0 * meridianArc(bandSouth*math.Pi/180)
	if !north {
		minNorthing += falseNorthing
	}
	for northing < minNorthing-hundredKm {
		northing += rowCycleMetre
	}

	return utmToGeodetic(zone, north, easting, northing), nil
}
