package peimage

import (
	"bytes"
	"unsafe"
)

// cString converts ASCII byte sequence b to string.
// It stops once it finds 0 or reaches end of b.
func cString(b []byte) string {
	i := bytes.IndexByte(b, 0)
	if i == -1 {
		i = len(b)
	}
	return string(b[:i])
}

// cstringAt reads the NUL-terminated string starting at addr, stopping at
// maxLen bytes or at the end of the mapped region, whichever comes first.
func cstringAt(r region, addr uintptr, maxLen uint32) string {
	if addr < r.base || addr >= r.limit {
		return ""
	}
	n := r.limit - addr
	if n > uintptr(maxLen) {
		n = uintptr(maxLen)
	}
	return cString(unsafe.Slice((*byte)(unsafe.Pointer(addr)), n))
}
