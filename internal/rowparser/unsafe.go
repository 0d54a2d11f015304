package rowparser

import "unsafe"

// unsafeString converts a []byte to a string without allocation. The
// returned string shares the underlying array, so it is only safe when b is
// a subslice of a cursor's buffer that the caller guarantees will not be
// mutated before the string is done being read (i.e. before the next
// ReadRow or cursor fill).
func unsafeString(b []byte) string {
	return unsafe.String(unsafe.SliceData(b), len(b))
}
