package segment

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/kpfaulkner/nitf-go/nitfio"
	"github.com/kpfaulkner/nitf-go/testcommon"
	"github.com/kpfaulkner/nitf-go/tre"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// offsets shared by the 2.0 and 2.1 base layouts
const (
	hlOffset         = 354
	firstCountOffset = 360
)

func testCodec(t *testing.T) *tre.Codec {
	reg, err := tre.SharedRegistry()
	require.NoError(t, err)
	return tre.NewCodec(reg, false)
}

func TestParseFileHeader(t *testing.T) {
	userDefined := testcommon.SectionBody(0, testcommon.TreRecord("ZZTEST", []byte("hello")))

	for _, tc := range []struct {
		name   string
		file   testcommon.File
		images int
		texts  int
	}{
		{
			name: "empty 2.1",
			file: testcommon.File{FileType: nitfio.NITF_TWO_ONE},
		},
		{
			name: "empty NSIF",
			file: testcommon.File{FileType: nitfio.NSIF_ONE_ZERO},
		},
		{
			name: "2.1 with segments and UDHD",
			file: testcommon.File{
				FileType: nitfio.NITF_TWO_ONE,
				Images: []testcommon.Segment{
					{Subheader: testcommon.ImageSubheader(nitfio.NITF_TWO_ONE, testcommon.ImageOptions{ID: "IMG1"}), Data: make([]byte, 16)},
				},
				Graphics: []testcommon.Segment{
					{Subheader: testcommon.GraphicSubheader("G1", nil), Data: []byte("cgm")},
				},
				Texts: []testcommon.Segment{
					{Subheader: testcommon.TextSubheader(nitfio.NITF_TWO_ONE, "T1", nil), Data: []byte("some text")},
				},
				UserDefined: userDefined,
			},
			images: 1,
			texts:  1,
		},
		{
			name: "2.0 with symbols, labels and downgrade event",
			file: testcommon.File{
				FileType: nitfio.NITF_TWO_ZERO,
				Symbols: []testcommon.Segment{
					{Subheader: testcommon.SymbolSubheader("S1", 0), Data: []byte{1, 2}},
				},
				Labels: []testcommon.Segment{
					{Subheader: testcommon.LabelSubheader("L1"), Data: []byte("label")},
				},
				Extended:       userDefined,
				DowngradeEvent: true,
			},
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			data := tc.file.Bytes()
			r := nitfio.NewBytesReader(data)
			h, err := ParseFileHeader(r, testCodec(t))
			require.NoError(t, err)

			assert.Equal(t, tc.file.FileType, h.FileType)
			assert.Equal(t, tc.file.FileType, r.FileType())
			assert.Equal(t, tc.file.HeaderLength(), h.HeaderLength)
			assert.Equal(t, tc.file.FileLength(), h.FileLength)
			assert.Equal(t, int64(h.HeaderLength), r.CurrentOffset())
			assert.Len(t, h.Images, tc.images)
			assert.Len(t, h.Texts, tc.texts)
			assert.Equal(t, "STATION", h.OriginatingStationID)
			assert.Equal(t, "FILE TITLE", h.Title)
			assert.Equal(t, "U", h.Security.Classification)
			assert.False(t, h.IsStreaming())

			udLen, err := testCodec(t).SectionLength(h.UserDefined)
			require.NoError(t, err)
			xLen, err := testCodec(t).SectionLength(h.Extended)
			require.NoError(t, err)
			assert.Equal(t, h.HeaderLength, HeaderLength(h, udLen, xLen))

			var buf bytes.Buffer
			require.NoError(t, WriteFileHeader(nitfio.NewWriter(&buf), h, testCodec(t)))
			assert.Equal(t, data[:h.HeaderLength], buf.Bytes())
		})
	}
}

func TestParseFileHeaderVersionFields(t *testing.T) {
	f20 := testcommon.File{FileType: nitfio.NITF_TWO_ZERO, DowngradeEvent: true}
	h, err := ParseFileHeader(nitfio.NewBytesReader(f20.Bytes()), testCodec(t))
	require.NoError(t, err)
	assert.Equal(t, DowngradeEventCode, h.Security.DowngradeCode)
	assert.Equal(t, "ON RELEASE", h.Security.DowngradeEvent)
	assert.Equal(t, 40, h.Security.ExtraLength(h.FileType))
	assert.Nil(t, h.BackgroundColor)
	assert.Equal(t, "ORIGINATOR", h.OriginatorName)

	f21 := testcommon.File{FileType: nitfio.NITF_TWO_ONE}
	h, err = ParseFileHeader(nitfio.NewBytesReader(f21.Bytes()), testCodec(t))
	require.NoError(t, err)
	assert.Equal(t, []byte{0, 0, 0}, h.BackgroundColor)
	assert.Equal(t, 0, h.Security.ExtraLength(h.FileType))
	assert.Equal(t, "555 0100", h.OriginatorPhone)
}

func TestParseFileHeaderFromDisk(t *testing.T) {
	f := testcommon.File{FileType: nitfio.NITF_TWO_ONE}
	path := filepath.Join(t.TempDir(), "empty.ntf")
	require.NoError(t, os.WriteFile(path, f.Bytes(), 0o644))

	r := testcommon.GenerateTestReader(t, path)
	require.NotNil(t, r)
	h, err := ParseFileHeader(r, testCodec(t))
	require.NoError(t, err)
	assert.Equal(t, nitfio.NITF_TWO_ONE, h.FileType)
	assert.Equal(t, "FILE TITLE", h.Title)
	assert.Equal(t, int64(len(f.Bytes())), r.CurrentOffset())
}

func TestParseFileHeaderErrors(t *testing.T) {
	base := (&testcommon.File{FileType: nitfio.NITF_TWO_ONE}).Bytes()
	patch := func(at int, s string) []byte {
		out := bytes.Clone(base)
		copy(out[at:], s)
		return out
	}

	for _, tc := range []struct {
		name  string
		data  []byte
		err   error
		field string
	}{
		{name: "unknown marker", data: patch(0, "NITF03.00"), err: nitfio.ErrUnexpectedToken, field: "FHDR"},
		{name: "truncated", data: base[:100], err: nitfio.ErrUnexpectedEndOfData},
		{name: "non numeric HL", data: patch(hlOffset, "00A388"), err: nitfio.ErrMalformedField, field: "HL"},
		{name: "HL disagrees with content", data: patch(hlOffset, "000400"), err: nitfio.ErrMalformedField, field: "HL"},
		{name: "reserved segments", data: patch(firstCountOffset+8, "1"), err: nitfio.ErrUnsupportedSegmentFeature, field: "NUMX"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseFileHeader(nitfio.NewBytesReader(tc.data), testCodec(t))
			require.Error(t, err)
			assert.ErrorIs(t, err, tc.err)
			if tc.field != "" {
				var pe *nitfio.ParseError
				require.True(t, errors.As(err, &pe))
				assert.Equal(t, tc.field, pe.Field)
			}
		})
	}
}

func TestParseFileHeaderStreamingSkipsLengthCheck(t *testing.T) {
	f := testcommon.File{FileType: nitfio.NITF_TWO_ONE}
	data := f.StreamingBytes()
	h, err := ParseFileHeader(nitfio.NewBytesReader(data), testCodec(t))
	require.NoError(t, err)
	assert.True(t, h.IsStreaming())
	assert.Len(t, h.DataExtensions, 1)
}

func TestWriteFileHeaderRejectsBadBackground(t *testing.T) {
	f := testcommon.File{FileType: nitfio.NITF_TWO_ONE}
	h, err := ParseFileHeader(nitfio.NewBytesReader(f.Bytes()), testCodec(t))
	require.NoError(t, err)

	h.BackgroundColor = []byte{1}
	err = WriteFileHeader(nitfio.NewWriter(&bytes.Buffer{}), h, testCodec(t))
	assert.ErrorIs(t, err, nitfio.ErrMalformedField)
}
