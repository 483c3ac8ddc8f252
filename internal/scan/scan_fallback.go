//go:build !amd64

package scan

// IndexByte returns the index of the first occurrence of needle in
// haystack, or -1.
func IndexByte(haystack []byte, needle byte) int {
	return indexByteGeneric(haystack, needle)
}

// IndexAny returns the index of the first byte in haystack for which
// set[b] is true, or -1.
func IndexAny(haystack []byte, set *[256]bool) int {
	return indexAnyGeneric(haystack, set)
}
