// Package regs defines the AMX register files and the typed addresses used
// to name rows and byte offsets within them.
//
// The coprocessor state consists of three register files:
//   - X: 8 rows of 64 bytes
//   - Y: 8 rows of 64 bytes
//   - Z: 64 rows of 64 bytes
//
// Row and byte-offset addresses are distinct types per file so that a Y
// address cannot be passed where an X address is expected.
package regs

import "fmt"

// Register file geometry.
const (
	RowBytes = 64

	XRows = 8
	YRows = 8
	ZRows = 64

	// XYBytes is the size of the X or the Y file in bytes. Operand reads
	// that run past the end of the file wrap around to byte 0.
	XYBytes = XRows * RowBytes
	ZBytes  = ZRows * RowBytes
)

// File identifies one of the three register files.
type File uint8

// Register files.
const (
	FileX File = iota
	FileY
	FileZ
)

// String returns the register file name.
func (f File) String() string {
	switch f {
	case FileX:
		return "X"
	case FileY:
		return "Y"
	case FileZ:
		return "Z"
	default:
		return fmt.Sprintf("File(%d)", uint8(f))
	}
}

// Rows returns the number of rows in the register file.
func (f File) Rows() uint {
	switch f {
	case FileX:
		return XRows
	case FileY:
		return YRows
	case FileZ:
		return ZRows
	default:
		return 0
	}
}

// Row is a row address in one of the register files.
// It is implemented by XRow, YRow and ZRow.
type Row interface {
	File() File
	Index() uint
	Validate() error
}

// Offset is a byte offset within the X or the Y register file.
// It is implemented by XBytes and YBytes.
type Offset interface {
	File() File
	Bytes() uint
	Validate() error
}

// XRow is a row index into X.
type XRow uint

// YRow is a row index into Y.
type YRow uint

// ZRow is a row index into Z.
type ZRow uint

// XBytes is a byte offset into X.
type XBytes uint

// YBytes is a byte offset into Y.
type YBytes uint

func (XRow) File() File { return FileX }
func (YRow) File() File { return FileY }
func (ZRow) File() File { return FileZ }

func (r XRow) Index() uint { return uint(r) }
func (r YRow) Index() uint { return uint(r) }
func (r ZRow) Index() uint { return uint(r) }

// Validate reports whether the row lies within X.
func (r XRow) Validate() error { return validateRow(r) }

// Validate reports whether the row lies within Y.
func (r YRow) Validate() error { return validateRow(r) }

// Validate reports whether the row lies within Z.
func (r ZRow) Validate() error { return validateRow(r) }

func validateRow(r Row) error {
	if r.Index() >= r.File().Rows() {
		return fmt.Errorf("%w: %s row %d (file has %d rows)",
			ErrOutOfRange, r.File(), r.Index(), r.File().Rows())
	}
	return nil
}

func (XBytes) File() File { return FileX }
func (YBytes) File() File { return FileY }

func (b XBytes) Bytes() uint { return uint(b) }
func (b YBytes) Bytes() uint { return uint(b) }

// Validate reports whether the offset lies within X.
func (b XBytes) Validate() error { return validateOffset(b) }

// Validate reports whether the offset lies within Y.
func (b YBytes) Validate() error { return validateOffset(b) }

func validateOffset(o Offset) error {
	if o.Bytes() >= XYBytes {
		return fmt.Errorf("%w: %s byte offset %#x (file has %#x bytes)",
			ErrOutOfRange, o.File(), o.Bytes(), XYBytes)
	}
	return nil
}

// Row returns the row containing the first byte of the offset.
func (b XBytes) Row() XRow { return XRow(b / RowBytes) }

// Row returns the row containing the first byte of the offset.
func (b YBytes) Row() YRow { return YRow(b / RowBytes) }

// Start returns the byte offset of the first byte of the row.
func (r XRow) Start() XBytes { return XBytes(r * RowBytes) }

// Start returns the byte offset of the first byte of the row.
func (r YRow) Start() YBytes { return YBytes(r * RowBytes) }

// Opt is an optional operand offset. The zero value is absent.
type Opt[T XBytes | YBytes] struct {
	Value T
	Valid bool
}

// Some returns a present operand offset.
func Some[T XBytes | YBytes](v T) Opt[T] {
	return Opt[T]{Value: v, Valid: true}
}

// Absent operands for outer products.
var (
	NoX = Opt[XBytes]{}
	NoY = Opt[YBytes]{}
)

// ByteRange is a half-open range [Start, End) of register-file bytes.
type ByteRange struct {
	Start uint
	End   uint
}

// RowRange returns the byte range covered by row index i.
func RowRange(i uint) ByteRange {
	return ByteRange{Start: i * RowBytes, End: i*RowBytes + RowBytes}
}

// Shift returns the range moved by n bytes.
func (r ByteRange) Shift(n uint) ByteRange {
	return ByteRange{Start: r.Start + n, End: r.End + n}
}

// Overlaps reports whether the two ranges share at least one byte.
func (r ByteRange) Overlaps(o ByteRange) bool {
	return r.Start < o.End && r.End > o.Start
}
