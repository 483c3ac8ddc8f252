//go:build amd64

// Package scan provides the literal-scanning primitives the prefilter
// package uses to skip ahead through input before handing control to the
// bytecode interpreter.
//
// A package-level feature flag read once at init time picks the widened
// implementation when the CPU supports it, falling back to a byte-at-a-time
// scan otherwise. Unlike a hand-written AVX2 routine, the widened path here
// is a pure-Go SWAR (SIMD-within-a-register) word scan gated on SSE4.2
// availability as a proxy for "a reasonably modern amd64 core" — there is
// no assembly in this package.
package scan

import "golang.org/x/sys/cpu"

var hasWideWords = cpu.X86.HasSSE42

const wordSize = 8

// broadcast replicates b into all 8 bytes of a uint64.
func broadcast(b byte) uint64 {
	return 0x0101010101010101 * uint64(b)
}

// hasZeroByte reports whether any byte of w is zero, using the classic
// SWAR bit trick.
func hasZeroByte(w uint64) bool {
	const lo = 0x0101010101010101
	const hi = 0x8080808080808080
	return (w-lo)&^w&hi != 0
}

// IndexByte returns the index of the first occurrence of needle in
// haystack, or -1.
func IndexByte(haystack []byte, needle byte) int {
	if !hasWideWords || len(haystack) < wordSize {
		return indexByteGeneric(haystack, needle)
	}

	pattern := broadcast(needle)
	i := 0
	for ; i+wordSize <= len(haystack); i += wordSize {
		var w uint64
		for j := 0; j < wordSize; j++ {
			w |= uint64(haystack[i+j]) << (8 * j)
		}
		if hasZeroByte(w ^ pattern) {
			break
		}
	}
	if rel := indexByteGeneric(haystack[i:], needle); rel != -1 {
		return i + rel
	}
	return -1
}

// IndexAny returns the index of the first byte in haystack for which
// set[b] is true, or -1. There is no SWAR shortcut for an arbitrary table,
// so this always delegates to the generic scan; it exists alongside
// IndexByte so callers don't need to know which primitive has a fast path.
func IndexAny(haystack []byte, set *[256]bool) int {
	return indexAnyGeneric(haystack, set)
}
