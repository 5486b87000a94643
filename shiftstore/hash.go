/*
 * hash.go, part of vamos-hose.
 *
 * The chunk hash (spec.md §6): a 32-bit rolling hash over the UTF-16
 * code units of a HOSE key. Go strings are UTF-8, so the key is
 * re-encoded before hashing, as the spec requires of any implementation
 * that doesn't natively store UTF-16.
 */

package shiftstore

import "unicode/utf16"

// ChunkCount is the fixed number of shards the key space is partitioned
// into (spec.md §4.4).
const ChunkCount = 256

// ChunkIndex computes the chunk index for a HOSE key: a 32-bit
// two's-complement rolling hash over the key's UTF-16 code units,
// folded into 0..255 by absolute value mod 256.
func ChunkIndex(key string) int {
	units := utf16.Encode([]rune(key))
	var h uint32
	for _, c := range units {
		h = (h << 5) - h + uint32(c)
	}
	signed := int64(int32(h))
	if signed < 0 {
		signed = -signed
	}
	return int(signed % ChunkCount)
}
