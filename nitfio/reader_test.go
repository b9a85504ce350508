package nitfio

import (
	"bytes"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// forwardOnly hides the Seek method of the underlying reader.
type forwardOnly struct {
	r io.Reader
}

func (f forwardOnly) Read(p []byte) (int, error) {
	return f.r.Read(p)
}

func TestReadText(t *testing.T) {

	for _, tc := range []struct {
		name      string
		data      string
		n         int
		expected  string
		trimmed   string
		expectErr error
	}{
		{
			name:     "exact width",
			data:     "NITF02.10",
			n:        9,
			expected: "NITF02.10",
			trimmed:  "NITF02.10",
		},
		{
			name:     "trailing spaces kept",
			data:     "ABC   rest",
			n:        6,
			expected: "ABC   ",
			trimmed:  "ABC",
		},
		{
			name:     "non space padding kept",
			data:     "AB\x00\t\r  ",
			n:        7,
			expected: "AB\x00\t\r  ",
			trimmed:  "AB\x00\t\r",
		},
		{
			name:     "latin1 byte",
			data:     "caf\xe9",
			n:        4,
			expected: "café",
			trimmed:  "café",
		},
		{
			name:      "past end",
			data:      "AB",
			n:         3,
			expectErr: ErrUnexpectedEndOfData,
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			r := NewBytesReader([]byte(tc.data))
			s, err := r.ReadText(tc.n)
			if tc.expectErr != nil {
				require.ErrorIs(t, err, tc.expectErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expected, s)
			assert.Equal(t, int64(tc.n), r.CurrentOffset())

			r = NewBytesReader([]byte(tc.data))
			s, err = r.ReadTrimmed(tc.n)
			require.NoError(t, err)
			assert.Equal(t, tc.trimmed, s)
		})
	}
}

func TestReadInt(t *testing.T) {

	for _, tc := range []struct {
		name      string
		data      string
		n         int
		expected  int
		signed    bool
		expectErr error
	}{
		{name: "zero padded", data: "000123", n: 6, expected: 123},
		{name: "all zero", data: "000", n: 3, expected: 0},
		{name: "not numeric", data: "12A", n: 3, expectErr: ErrMalformedField},
		{name: "space padded", data: " 12", n: 3, expectErr: ErrMalformedField},
		{name: "signed negative", data: "-0010", n: 5, expected: -10, signed: true},
		{name: "signed positive", data: "+0010", n: 5, expected: 10, signed: true},
		{name: "signed bare sign", data: "-", n: 1, signed: true, expectErr: ErrMalformedField},
		{name: "truncated", data: "12", n: 5, expectErr: ErrUnexpectedEndOfData},
	} {
		t.Run(tc.name, func(t *testing.T) {
			r := NewBytesReader([]byte(tc.data))
			var v int
			var err error
			if tc.signed {
				v, err = r.ReadSignedInt(tc.n)
			} else {
				v, err = r.ReadInt(tc.n)
			}
			if tc.expectErr != nil {
				require.ErrorIs(t, err, tc.expectErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expected, v)
		})
	}
}

func TestReadLong(t *testing.T) {
	r := NewBytesReader([]byte("999999999999"))
	v, err := r.ReadLong(12)
	require.NoError(t, err)
	assert.Equal(t, int64(999999999999), v)
}

func TestMalformedFieldCarriesOffset(t *testing.T) {
	r := NewBytesReader([]byte("0000XY"))
	_, err := r.ReadInt(4)
	require.NoError(t, err)

	_, err = r.ReadInt(2)
	require.Error(t, err)

	var pe *ParseError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, int64(4), pe.Offset)
	assert.Contains(t, err.Error(), "XY")
}

func TestVerifyMagic(t *testing.T) {
	r := NewBytesReader([]byte("IMxx"))
	require.NoError(t, r.VerifyMagic("IM"))

	err := r.VerifyMagic("IM")
	require.ErrorIs(t, err, ErrUnexpectedToken)
	assert.Contains(t, err.Error(), `expected "IM", found "xx"`)
}

func TestVerifyMagicBinary(t *testing.T) {
	token := "\x0a\x6e\x1d\x97"
	r := NewBytesReader([]byte(token))
	require.NoError(t, r.VerifyMagic(token))
}

func TestReadRawLarge(t *testing.T) {
	data := bytes.Repeat([]byte{0xAB}, smallReadLimit*2+7)
	r := NewBytesReader(data)
	got, err := r.ReadRaw(int64(len(data)))
	require.NoError(t, err)
	assert.Equal(t, data, got)

	r = NewBytesReader(data)
	_, err = r.ReadRaw(int64(len(data) + 1))
	require.ErrorIs(t, err, ErrUnexpectedEndOfData)
}

func TestSeeking(t *testing.T) {
	r := NewBytesReader([]byte("0123456789"))
	assert.True(t, r.CanSeek())

	require.NoError(t, r.Skip(3))
	assert.Equal(t, int64(3), r.CurrentOffset())

	require.NoError(t, r.SeekRelative(4))
	s, err := r.ReadText(1)
	require.NoError(t, err)
	assert.Equal(t, "7", s)

	require.NoError(t, r.SeekRelative(-6))
	s, err = r.ReadText(1)
	require.NoError(t, err)
	assert.Equal(t, "2", s)

	require.NoError(t, r.SeekToEnd())
	assert.Equal(t, int64(10), r.CurrentOffset())

	require.NoError(t, r.SeekAbsolute(0))
	err = r.Skip(11)
	require.ErrorIs(t, err, ErrUnexpectedEndOfData)
}

func TestForwardOnly(t *testing.T) {
	r := NewReader(forwardOnly{r: bytes.NewReader([]byte("0123456789"))})
	assert.False(t, r.CanSeek())

	require.NoError(t, r.SeekRelative(5))
	s, err := r.ReadText(2)
	require.NoError(t, err)
	assert.Equal(t, "56", s)

	err = r.SeekRelative(-1)
	require.ErrorIs(t, err, errors.ErrUnsupported)

	err = r.SeekToEnd()
	require.ErrorIs(t, err, errors.ErrUnsupported)

	err = r.Skip(10)
	require.ErrorIs(t, err, ErrUnexpectedEndOfData)
}

func TestFileTypeSession(t *testing.T) {
	r := NewBytesReader(nil)
	assert.Equal(t, UNKNOWN, r.FileType())
	r.SetFileType(NITF_TWO_ZERO)
	assert.True(t, r.FileType().IsTwoZero())
	assert.Equal(t, NITF_TWO_ONE, FileTypeFromMarker("NITF02.10"))
	assert.Equal(t, NSIF_ONE_ZERO, FileTypeFromMarker("NSIF01.00"))
	assert.Equal(t, UNKNOWN, FileTypeFromMarker("NITF03.00"))
	assert.Equal(t, "NITF02.00", NITF_TWO_ZERO.Marker())
}

func TestCopyTo(t *testing.T) {
	r := NewBytesReader([]byte("headerPAYLOADtrailer"))
	require.NoError(t, r.Skip(6))

	var buf bytes.Buffer
	require.NoError(t, r.CopyTo(&buf, 7))
	assert.Equal(t, "PAYLOAD", buf.String())
	assert.Equal(t, int64(13), r.CurrentOffset())

	buf.Reset()
	err := r.CopyTo(&buf, 100)
	assert.ErrorIs(t, err, ErrUnexpectedEndOfData)
}
