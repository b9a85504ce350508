package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatUnsigned(t *testing.T) {

	for _, tc := range []struct {
		name     string
		value    int64
		width    int
		expected string
		ok       bool
	}{
		{name: "padded", value: 42, width: 5, expected: "00042", ok: true},
		{name: "exact", value: 99999, width: 5, expected: "99999", ok: true},
		{name: "zero", value: 0, width: 3, expected: "000", ok: true},
		{name: "too wide", value: 100000, width: 5},
		{name: "negative", value: -1, width: 5},
	} {
		t.Run(tc.name, func(t *testing.T) {
			s, ok := FormatUnsigned(tc.value, tc.width)
			assert.Equal(t, tc.ok, ok)
			assert.Equal(t, tc.expected, s)
		})
	}
}

func TestFormatSigned(t *testing.T) {

	for _, tc := range []struct {
		name     string
		value    int
		width    int
		expected string
		ok       bool
	}{
		{name: "positive", value: 7, width: 3, expected: "007", ok: true},
		{name: "negative", value: -7, width: 3, expected: "-07", ok: true},
		{name: "negative exact", value: -99, width: 3, expected: "-99", ok: true},
		{name: "negative too wide", value: -100, width: 3},
	} {
		t.Run(tc.name, func(t *testing.T) {
			s, ok := FormatSigned(tc.value, tc.width)
			assert.Equal(t, tc.ok, ok)
			assert.Equal(t, tc.expected, s)
		})
	}
}

func TestMaxForWidth(t *testing.T) {
	assert.Equal(t, int64(9), MaxForWidth(1))
	assert.Equal(t, int64(9999), MaxForWidth(4))
	assert.Equal(t, int64(999999999999), MaxForWidth(12))
}

func TestSums(t *testing.T) {
	assert.Equal(t, 10, Sum(1, 2, 3, 4))
	assert.Equal(t, 0, Sum[int]())
	assert.Equal(t, int64(6), SumBy([]string{"a", "bb", "ccc"}, func(s string) int64 { return int64(len(s)) }))
}
