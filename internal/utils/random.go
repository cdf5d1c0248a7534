package utils

import (
	"math"
	"unicode/utf16"
)

// PseudoRandom maps seed to a value in [0, 1) as frac(sin(seed) * 10000).
// The result depends on seed only.
func PseudoRandom(seed int64) float64 {
	x := math.Sin(float64(seed)) * 10000
	return x - math.Floor(x)
}

// PickIndex returns floor(PseudoRandom(seed) * n), or -1 when n <= 0.
func PickIndex(seed int64, n int) int {
	if n <= 0 {
		return -1
	}
	idx := int(math.Floor(PseudoRandom(seed) * float64(n)))
	if idx >= n {
		idx = n - 1
	}
	if idx < 0 {
		idx = 0
	}
	return idx
}

// StringHash is a rolling hash over the UTF-16 code units of s:
// hash = (hash << 5) - hash + unit, truncated to a signed 32-bit integer.
func StringHash(s string) int32 {
	var hash int32
	for _, unit := range utf16.Encode([]rune(s)) {
		hash = (hash << 5) - hash + int32(unit)
	}
	return hash
}
