package core

import (
	"bytes"
	"testing"

	"github.com/kpfaulkner/nitf-go/nitfio"
	"github.com/kpfaulkner/nitf-go/options"
	"github.com/kpfaulkner/nitf-go/segment"
	"github.com/kpfaulkner/nitf-go/storage"
	"github.com/kpfaulkner/nitf-go/testcommon"
	"github.com/kpfaulkner/nitf-go/tre"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func write(t *testing.T, ds *DataSource) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, NewNITFWriter(nil).Write(&buf, ds))
	return buf.Bytes()
}

// checkLengths verifies FL = HL + every subheader and data length.
func checkLengths(t *testing.T, data []byte) {
	t.Helper()
	ds := parse(t, data, nil)
	h := ds.Header
	total := int64(h.HeaderLength)
	for _, pairs := range [][]segment.LengthPair{h.Images, h.Graphics, h.Symbols, h.Labels, h.Texts, h.DataExtensions} {
		for _, p := range pairs {
			total += int64(p.Subheader) + p.Data
		}
	}
	assert.Equal(t, h.FileLength, total)
	assert.Equal(t, int64(len(data)), h.FileLength)
}

func TestRoundTrip(t *testing.T) {
	overflowFile := &testcommon.File{
		FileType:    nitfio.NITF_TWO_ONE,
		UserDefined: testcommon.SectionBody(1, testcommon.TreRecord("ZZUSER", []byte("u"))),
		DataExtensions: []testcommon.Segment{
			{
				Subheader: testcommon.DESSubheader(nitfio.NITF_TWO_ONE, "TRE_OVERFLOW", "UDHD", 0, ""),
				Data:      testcommon.TreRecord("BLOCKA", []byte(blockaBody)),
			},
		},
	}
	nsif := file21()
	nsif.FileType = nitfio.NSIF_ONE_ZERO
	zeroFilled := &testcommon.File{
		FileType: nitfio.NITF_TWO_ONE,
		Extended: testcommon.SectionBody(0, testcommon.TreRecord("USE00A", bytes.Repeat([]byte("0"), 107))),
	}

	for _, tc := range []struct {
		name string
		file *testcommon.File
	}{
		{name: "empty 2.1", file: &testcommon.File{FileType: nitfio.NITF_TWO_ONE}},
		{name: "empty 2.0", file: &testcommon.File{FileType: nitfio.NITF_TWO_ZERO}},
		{name: "2.1", file: file21()},
		{name: "2.0", file: file20()},
		{name: "NSIF", file: nsif},
		{name: "overflow DES", file: overflowFile},
		{name: "zero filled reserved TRE fields", file: zeroFilled},
	} {
		t.Run(tc.name, func(t *testing.T) {
			data := tc.file.Bytes()
			out := write(t, parse(t, data, nil))
			assert.Equal(t, data, out)
			checkLengths(t, out)
		})
	}

	t.Run("spooled payloads", func(t *testing.T) {
		data := file21().Bytes()
		ds := parse(t, data, &options.NITFOptions{MaxInMemoryPayload: 4, SpoolToDisk: true, TempDir: t.TempDir()})
		assert.Equal(t, data, write(t, ds))
	})
}

func TestWriteRecomputesLengths(t *testing.T) {
	ds := parse(t, file21().Bytes(), nil)

	ds.Texts[0].Data = storage.NewMemoryPayload([]byte("a much longer body of text than before"))
	ds.Images = ds.Images[:1]
	ds.Header.UserDefined = &tre.Section{}
	ds.Header.Extended = &tre.Section{Tres: tre.Collection{tre.NewRawTre("ZZNEW", []byte("0123456789"))}}

	out := write(t, ds)
	checkLengths(t, out)

	again := parse(t, out, nil)
	assert.Len(t, again.Images, 1)
	assert.Equal(t, []byte("a much longer body of text than before"), payload(t, again.Texts[0].Data))
	assert.True(t, again.Header.UserDefined.IsEmpty())
	require.Len(t, again.Header.Extended.Tres, 1)
	assert.Equal(t, "ZZNEW", again.Header.Extended.Tres[0].Name)
}

func TestWriteHeaderLengthContributions(t *testing.T) {
	ft := nitfio.NITF_TWO_ZERO
	ds := &DataSource{
		Header:  &segment.FileHeader{FileType: ft, Security: segment.Security{Classification: "U", DowngradeCode: segment.DowngradeEventCode}},
		Images:  []*segment.Image{{Common: segment.Common{Identifier: "I"}, Compression: "NC"}},
		Symbols: []*segment.Symbol{{Common: segment.Common{Identifier: "S"}}},
		Labels:  []*segment.Label{{Common: segment.Common{Identifier: "L"}}},
		Texts:   []*segment.Text{{Common: segment.Common{Identifier: "T"}}},
		DataExtensions: []*segment.DataExtension{
			{Common: segment.Common{Identifier: "D"}},
			{Common: segment.Common{Identifier: segment.StreamingHeaderID}, StreamingPlaceholder: true},
		},
	}
	out := write(t, ds)

	back := parse(t, out, nil)
	assert.Equal(t, 388+40+16+10+7+9+13, back.Header.HeaderLength)
	assert.Len(t, back.DataExtensions, 1)
	checkLengths(t, out)
}

func TestWriteVersionMismatch(t *testing.T) {
	ds21 := parse(t, file21().Bytes(), nil)
	ds20 := parse(t, file20().Bytes(), nil)

	for _, tc := range []struct {
		name string
		ds   *DataSource
	}{
		{name: "graphics in 2.0", ds: &DataSource{Header: ds20.Header, Graphics: ds21.Graphics}},
		{name: "symbols in 2.1", ds: &DataSource{Header: ds21.Header, Symbols: ds20.Symbols}},
		{name: "labels in 2.1", ds: &DataSource{Header: ds21.Header, Labels: ds20.Labels}},
		{name: "unknown file type", ds: &DataSource{Header: &segment.FileHeader{}}},
	} {
		t.Run(tc.name, func(t *testing.T) {
			err := NewNITFWriter(nil).Write(&bytes.Buffer{}, tc.ds)
			assert.ErrorIs(t, err, nitfio.ErrMalformedField)
		})
	}

	assert.Error(t, NewNITFWriter(nil).Write(&bytes.Buffer{}, nil))
}

func TestWriteSkippedPayloadFails(t *testing.T) {
	ds := parse(t, file21().Bytes(), &options.NITFOptions{HeadersOnly: true})
	err := NewNITFWriter(nil).Write(&bytes.Buffer{}, ds)
	assert.ErrorIs(t, err, storage.ErrSkipped)
}

func TestWriteFailingOutput(t *testing.T) {
	ds := parse(t, file21().Bytes(), nil)
	err := NewNITFWriter(nil).Write(&testcommon.FailingWriter{Limit: 500}, ds)
	assert.ErrorIs(t, err, testcommon.ErrFakeWrite)
}

func TestWriteOverflowEdits(t *testing.T) {
	ds := parse(t, (&testcommon.File{
		FileType: nitfio.NITF_TWO_ONE,
		DataExtensions: []testcommon.Segment{
			{Subheader: testcommon.DESSubheader(nitfio.NITF_TWO_ONE, "TRE_OVERFLOW", "XHD", 0, ""), Data: testcommon.TreRecord("ZZONE", []byte("1"))},
		},
	}).Bytes(), nil)

	d := ds.DataExtensions[0]
	d.OverflowTres = append(d.OverflowTres, tre.NewRawTre("ZZTWO", []byte("22")))
	out := write(t, ds)
	checkLengths(t, out)

	again := parse(t, out, nil)
	require.Len(t, again.DataExtensions[0].OverflowTres, 2)
	assert.Equal(t, "ZZTWO", again.DataExtensions[0].OverflowTres[1].Name)
}
