package amx

import "unsafe"

// Number is an element type that can be moved through the register file.
type Number interface {
	~int8 | ~uint8 | ~int16 | ~uint16 | ~int32 | ~uint32 | ~int64 | ~uint64 |
		~float32 | ~float64
}

// Bytes returns the memory of s as a byte slice without copying. The
// register file is little-endian, as are all supported hosts.
func Bytes[T Number](s []T) []byte {
	if len(s) == 0 {
		return nil
	}
	var zero T
	n := len(s) * int(unsafe.Sizeof(zero))
	return unsafe.Slice((*byte)(unsafe.Pointer(unsafe.SliceData(s))), n)
}

// AlignedBuffer returns a zeroed n-byte slice whose first byte is 128-byte
// aligned, as required by the 1024-bit transfers.
func AlignedBuffer(n int) []byte {
	buf := make([]byte, n+pairAlign-1)
	skip := int(-uintptr(unsafe.Pointer(unsafe.SliceData(buf))) & (pairAlign - 1))
	return buf[skip : skip+n : skip+n]
}

func isAligned(buf []byte, align uintptr) bool {
	return uintptr(unsafe.Pointer(unsafe.SliceData(buf)))%align == 0
}
