// Package partition implements the deterministic, content-hash-based primitives
// used to split a dataset into a training set and a test set. All decisions are
// pure functions of the content bytes: identical input always lands on the same
// side, across runs and across machines.
//
// The checksum used here is the plain IEEE CRC-32. The TFRecord framing in
// pkg/tfrecord uses the Castagnoli CRC-32C; the two must never be swapped.
package partition

import (
	"hash/crc32"
	"math"
)

// Normalize maps value into [0,1] relative to [min,max] (min-max feature
// scaling). The result is undefined when max == min; callers must guarantee
// max != min.
func Normalize(value, min, max float64) float64 {
	return (value - min) / (max - min)
}

// threshold converts an integer percentage into a cutoff on the CRC-32 value
// space. The ratio is clamped to [0,100].
func threshold(ratio int) uint32 {
	if ratio < 0 {
		ratio = 0
	}
	if ratio > 100 {
		ratio = 100
	}
	return uint32(math.Round(float64(ratio) / 100 * float64(math.MaxUint32)))
}

// Retain reports whether the content's checksum falls below the ratio cutoff.
// Retain(x, 0) is false for any content whose checksum is non-zero;
// Retain(x, 100) is true for any content whose checksum is below the maximum.
func Retain(content []byte, ratio int) bool {
	return crc32.ChecksumIEEE(content) < threshold(ratio)
}

// Split partitions items into a left and a right set, keyed on the canonical
// byte content of each item. An item goes right when its checksum is >= the
// cutoff, else left. Note this is the complement comparison of Retain, not a
// call to it. The partition is complete and order-preserving: every item is
// placed exactly once, and relative order within each side matches the input.
//
// If content fails for an item, the item goes left.
func Split[T any](items []T, ratio int, content func(T) ([]byte, error)) (left, right []T) {
	cut := threshold(ratio)
	for _, item := range items {
		data, err := content(item)
		if err == nil && crc32.ChecksumIEEE(data) >= cut {
			right = append(right, item)
		} else {
			left = append(left, item)
		}
	}
	return left, right
}
