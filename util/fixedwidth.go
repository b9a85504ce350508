package util

import (
	"strconv"
	"strings"

	"golang.org/x/exp/constraints"
)

// FormatUnsigned renders v as a zero padded decimal of exactly width digits.
// ok is false when v is negative or does not fit.
func FormatUnsigned[T constraints.Integer](v T, width int) (s string, ok bool) {
	if v < 0 {
		return "", false
	}
	s = strconv.FormatUint(uint64(v), 10)
	if len(s) > width {
		return "", false
	}
	return strings.Repeat("0", width-len(s)) + s, true
}

// FormatSigned renders v in width characters, zero padded after any minus sign.
func FormatSigned[T constraints.Signed](v T, width int) (s string, ok bool) {
	if v >= 0 {
		return FormatUnsigned(v, width)
	}
	digits := strconv.FormatInt(-int64(v), 10)
	if len(digits)+1 > width {
		return "", false
	}
	return "-" + strings.Repeat("0", width-len(digits)-1) + digits, true
}

// MaxForWidth is the largest unsigned value that fits in width digits.
func MaxForWidth(width int) int64 {
	max := int64(1)
	for i := 0; i < width; i++ {
		max *= 10
	}
	return max - 1
}

// Sum adds up vals.
func Sum[T constraints.Integer | constraints.Float](vals ...T) T {
	var total T
	for _, v := range vals {
		total += v
	}
	return total
}

// SumBy adds up f(item) over items.
func SumBy[E any, T constraints.Integer](items []E, f func(E) T) T {
	var total T
	for _, item := range items {
		total += f(item)
	}
	return total
}
