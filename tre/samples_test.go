package tre

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// body builds a TRE body from fixed width values.
type body struct {
	t  *testing.T
	sb strings.Builder
}

func newBody(t *testing.T) *body {
	return &body{t: t}
}

// f appends value space padded to width.
func (b *body) f(value string, width int) *body {
	require.LessOrEqual(b.t, len(value), width, "sample value %q too wide", value)
	b.sb.WriteString(value)
	b.sb.WriteString(strings.Repeat(" ", width-len(value)))
	return b
}

// n appends a zero padded number.
func (b *body) n(v int, width int) *body {
	return b.f(fmt.Sprintf("%0*d", width, v), width)
}

func (b *body) bytes() []byte {
	return []byte(b.sb.String())
}

// sampleTres holds one valid body per bundled TRE with its expected length.
func sampleTres(t *testing.T) map[string]struct {
	body   []byte
	length int
} {
	samples := map[string]struct {
		body   []byte
		length int
	}{}
	add := func(name string, b *body, length int) {
		samples[name] = struct {
			body   []byte
			length int
		}{b.bytes(), length}
	}

	add("ACFTB", newBody(t).
		f("MSN0042", 20).f("N12345", 10).f("201811011200", 12).f("SAR", 4).f("SEN001", 6).
		f("1", 1).n(123, 6).f("20181101", 8).n(1, 6).n(42, 5).n(1, 3).
		f("473015N1221145W", 25).f("010.00", 6).n(1234, 6).f("f", 1).
		f("473115N1221045W", 25).n(1250, 6).f("045.500", 7).
		f("0001.00", 7).f("m", 1).f("0001.00", 7).f("m", 1).
		f("999.99", 6).f("SN0001", 6).f("V1.0", 7).f("20180101", 8).n(1, 4).n(0, 3), 207)

	add("AIMIDB", newBody(t).
		f("20181101120000", 14).f("M001", 4).f("MISSION01", 10).f("01", 2).n(7, 3).
		f("AA", 2).n(0, 2).f("000", 3).f("", 1).n(1, 3).n(1, 5).f("AB", 2).n(10, 3).n(900, 5).
		f("US", 2).f("", 4).f("4730N12211W", 11).f("", 13), 89)

	add("BLOCKA", newBody(t).
		n(1, 2).n(0, 5).n(1024, 5).f("---", 3).f("---", 3).f("", 16).
		f("+47.50000-122.20000", 21).f("+47.40000-122.20000", 21).
		f("+47.40000-122.30000", 21).f("+47.50000-122.30000", 21).f("010.0", 5), 123)

	add("ENGRDA", newBody(t).
		f("ENGINEERING_SOURCE", 20).n(2, 3).
		n(5, 2).f("TEMP1", 5).n(2, 4).n(1, 4).f("I", 1).n(2, 1).f("dC", 2).n(2, 8).f("12", 2).f("34", 2).
		n(3, 2).f("ABC", 3).n(1, 4).n(1, 4).f("A", 1).n(1, 1).f("NA", 2).n(1, 8).f("Z", 1), 80)

	add("HISTOA", newBody(t).
		f("SYSTEM", 20).f("NC13", 12).f("NONE", 4).f("0", 1).n(0, 2).n(1, 2).
		f("20181101120000", 14).f("SITE", 10).f("PAS", 10).n(1, 1).f("RADIOMETRIC ADJUST", 80).
		n(11, 2).f("INT", 3).f("00000", 5).f("0", 1).
		n(1, 1).f("045.0000", 8).
		n(0, 1).
		n(0, 1).
		n(1, 1).n(1, 2).n(2, 2).
		n(0, 1).
		n(1, 1).f("001.000", 7).n(10, 5).
		n(0, 1).
		f("0", 1).n(8, 2).f("INT", 3).f("00000", 5), 209)

	ichipb := newBody(t).n(0, 2).f("0001.00000", 10).n(0, 2).n(0, 2)
	for i := 0; i < 16; i++ {
		ichipb.f(fmt.Sprintf("%012.3f", float64(i*512)), 12)
	}
	add("ICHIPB", ichipb.n(4096, 8).n(4096, 8), 224)

	add("J2KLRA", newBody(t).
		n(1, 1).n(5, 2).n(3, 5).n(2, 3).
		n(0, 3).f("000.50000", 9).
		n(1, 3).f("001.00000", 9).
		n(5, 2).n(3, 5).n(2, 3), 45)

	add("MATESA", newBody(t).
		f("NGA", 42).f("EO", 16).n(10, 4).f("FILE000001", 10).n(1, 4).
		f("PARENT", 24).n(2, 4).
		f("NGA", 42).f("SAR", 16).n(5, 4).f("MATE1", 5).
		f("NGA", 42).f("IR", 16).n(3, 4).f("M02", 3), 236)

	add("NBLOCA", newBody(t).
		f("\x00\x00\x01\x00", 4).f("\x00\x00\x00\x03", 4).
		f("\x00\x00\x9c\x40", 4).f("\x00\x01\x38\x80", 4), 16)

	add("PIAIMC", newBody(t).
		n(0, 3).f("Y", 1).f("FRAMING", 12).f("SENSOR", 18).f("SOURCE", 255).n(1, 2).f("P", 1).
		f("MSN0001", 7).f("CAMERA", 32).f("OP", 2).n(1, 1).f("N", 1).f("00", 2).f("0001.00", 7).
		f("WGE", 3).f("WE", 3).f("RD", 2).f("NO", 2).f("00000000", 8), 362)

	rpc := newBody(t).
		f("1", 1).f("0000.50", 7).f("0000.50", 7).n(5000, 6).n(5000, 5).
		f("+47.5000", 8).f("-122.2000", 9).n(100, 5).n(5000, 6).n(5000, 5).
		f("+00.1000", 8).f("+000.1000", 9).n(500, 5)
	for i := 0; i < 80; i++ {
		rpc.f("+1.000000E+0", 12)
	}
	add("RPC00B", rpc, 1041)

	add("RSMECA", newBody(t).
		f("IMAGE01", 80).f("EDITION01", 40).f("TRIANGULATION01", 40).f("Y", 1).f("N", 1).
		n(2, 2).n(2, 2).n(1, 2).f("20181101", 8).
		n(2, 2).
		f("+1.00000000000000E+00", 21).f("+0.00000000000000E+00", 21).f("+1.00000000000000E+00", 21).
		n(0, 1).n(1, 1).
		f("+5.00000000000000E-01", 21).f("+1.00000000000000E+01", 21).
		f("+1.00000000000000E+00", 21).f("+0.00000000000000E+00", 21).
		f("+0.00000000000000E+00", 21).f("+1.00000000000000E+00", 21), 369)

	add("CSEXRA", newBody(t).
		f("EO", 6).f("00043200.000", 12).f("00000012.500", 12).f("001.2", 5).
		f("001.1", 5).f("001.3", 5).f("001.2", 5).f("000.0", 5).f("000.0", 5).f("000.0", 5).f("090.0", 5).
		n(2047, 5).n(12000, 7).n(8000, 5).f("045.000", 7).f("20.000", 6).f("180.000", 7).
		f("1", 1).f("0", 1).f("135.000", 7).f("045.000", 7).f("5.0", 3).f("015", 3).f("010", 3), 132)

	add("PIAPRD", newBody(t).
		f("ACCESS0001", 64).f("CONTROL", 32).f("P", 1).f("01", 2).f("NGA", 6).f("PROD0001", 20).
		f("SHORTNAME", 10).f("01", 2).f("20181101120000", 14).f("MAP0001", 40).
		n(1, 2).f("SECONDARY TITLE", 40).f("00001", 5).n(1, 3).
		n(1, 2).f("REQUESTING ORG", 64).
		n(1, 2).f("KEYWORD", 255).
		n(0, 2).
		n(0, 2), 568)

	rsmpca := newBody(t).
		f("IMAGE01", 80).f("EDITION01", 40).n(1, 3).n(1, 3).
		f("+0.00000000000000E+00", 21).f("+0.00000000000000E+00", 21)
	for i := 0; i < 10; i++ {
		rsmpca.f("+1.00000000000000E+00", 21)
	}
	for i := 0; i < 2; i++ {
		rsmpca.n(1, 1).n(0, 1).n(0, 1).n(2, 3).
			f("+1.00000000000000E+00", 21).f("+2.00000000000000E+00", 21).
			n(0, 1).n(0, 1).n(0, 1).n(1, 3).
			f("+1.00000000000000E+00", 21)
	}
	add("RSMPCA", rsmpca, 528)

	add("STDIDC", newBody(t).
		f("20181101120000", 14).f("MISSION01", 14).f("01", 2).n(7, 3).f("AA", 2).n(0, 2).
		f("000", 3).f("", 1).n(1, 3).n(1, 5).f("AB", 2).n(10, 3).n(900, 5).
		f("US", 2).f("0123", 4).f("4730N12211W", 11).f("", 5).f("", 8), 89)

	add("USE00A", newBody(t).
		n(90, 3).f("001.0", 5).f("", 1).n(2047, 5).f("", 3).f("", 1).f("", 3).
		f("010.0", 5).f("+005.0", 6).f("", 12).f("", 15).f("", 4).f("", 1).f("", 3).f("", 1).f("", 1).
		n(0, 2).n(12345, 5).n(1, 3).n(10000, 6).f("", 6).f("", 6).f("045.0", 5).f("180.0", 5), 107)

	return samples
}
