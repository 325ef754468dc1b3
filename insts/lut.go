package insts

import (
	"fmt"

	"github.com/sarchlab/m2amx/regs"
)

// LutMode selects what a genlut instruction does with its source.
type LutMode uint8

// genlut modes.
const (
	// Lookup treats the source as packed indices and writes the selected
	// table elements.
	Lookup LutMode = iota
	// Generate treats the source as values and writes the packed index of
	// the bucket each value falls in (a reverse lookup).
	Generate
)

// String returns the mode name.
func (m LutMode) String() string {
	switch m {
	case Lookup:
		return "lookup"
	case Generate:
		return "generate"
	default:
		return fmt.Sprintf("LutMode(%d)", uint8(m))
	}
}

// IndexWidth is the number of bits per packed index.
type IndexWidth uint8

// Index widths.
const (
	Index2 IndexWidth = 2
	Index3 IndexWidth = 3
	Index4 IndexWidth = 4
	Index5 IndexWidth = 5
)

// ElemType is the lane format of a genlut table and of its lookup output
// (or generate input).
type ElemType uint8

// Lane formats. X types are raw bit patterns used by lookups; the typed
// formats are compared numerically by index generation.
const (
	X8 ElemType = iota
	X16
	X32
	X64
	F16
	F32
	F64
	I16
	I32
	U16
	U32
)

var elemNames = [...]string{"X8", "X16", "X32", "X64", "F16", "F32", "F64", "I16", "I32", "U16", "U32"}

// String returns the lane format name.
func (e ElemType) String() string {
	if int(e) < len(elemNames) {
		return elemNames[e]
	}
	return fmt.Sprintf("ElemType(%d)", uint8(e))
}

// Bytes returns the lane width in bytes.
func (e ElemType) Bytes() int {
	switch e {
	case X8:
		return 1
	case X16, F16, I16, U16:
		return 2
	case X32, F32, I32, U32:
		return 4
	case X64, F64:
		return 8
	default:
		return 0
	}
}

// LutType is a complete genlut configuration.
type LutType struct {
	Mode  LutMode
	Index IndexWidth
	Elem  ElemType
}

// String returns a compact description such as "lookup/i4/X8".
func (t LutType) String() string {
	return fmt.Sprintf("%v/i%d/%v", t.Mode, t.Index, t.Elem)
}

// lutTypes maps every mode code to its configuration. The codes are the
// hardware's and are not derivable from the fields.
var lutTypes = [16]LutType{
	0:  {Generate, Index4, F32},
	1:  {Generate, Index5, F16},
	2:  {Generate, Index3, F64},
	3:  {Generate, Index4, I32},
	4:  {Generate, Index5, I16},
	5:  {Generate, Index4, U32},
	6:  {Generate, Index5, U16},
	7:  {Lookup, Index2, X32},
	8:  {Lookup, Index2, X16},
	9:  {Lookup, Index2, X8},
	10: {Lookup, Index3, X64},
	11: {Lookup, Index4, X32},
	12: {Lookup, Index4, X16},
	13: {Lookup, Index4, X8},
	14: {Lookup, Index5, X16},
	15: {Lookup, Index5, X8},
}

// LutTypes returns every supported configuration in mode-code order.
func LutTypes() []LutType {
	types := make([]LutType, len(lutTypes))
	copy(types, lutTypes[:])
	return types
}

// Code returns the 4-bit mode code for the configuration.
func (t LutType) Code() (uint8, error) {
	for code, ty := range lutTypes {
		if ty == t {
			return uint8(code), nil
		}
	}
	return 0, fmt.Errorf("%w: %v", regs.ErrUnsupportedLut, t)
}

// LutTypeFromCode returns the configuration for a 4-bit mode code.
func LutTypeFromCode(code uint8) (LutType, error) {
	if int(code) >= len(lutTypes) {
		return LutType{}, fmt.Errorf("%w: mode code %d", regs.ErrUnsupportedLut, code)
	}
	return lutTypes[code], nil
}

// Lanes returns the number of elements in one 64-byte register.
func (t LutType) Lanes() int {
	return regs.RowBytes / t.Elem.Bytes()
}

// Entries returns the number of table elements an index can select.
func (t LutType) Entries() int {
	return 1 << t.Index
}

// PackedIndexBytes returns the number of bytes taken by one register's worth
// of packed indices.
func (t LutType) PackedIndexBytes() int {
	return (t.Lanes()*int(t.Index) + 7) / 8
}

// SourceBytes returns the number of source bytes the instruction reads,
// starting at the source offset.
func (t LutType) SourceBytes() int {
	if t.Mode == Generate {
		return regs.RowBytes
	}
	return t.PackedIndexBytes()
}
