// Package emu provides functional AMX emulation.
package emu

import "github.com/sarchlab/m2amx/regs"

// RegFile represents the AMX register file.
// All rows start zeroed.
type RegFile struct {
	// X holds 8 64-byte registers.
	X [regs.XRows][regs.RowBytes]byte

	// Y holds 8 64-byte registers.
	Y [regs.YRows][regs.RowBytes]byte

	// Z holds 64 64-byte registers forming the accumulator matrix.
	Z [regs.ZRows][regs.RowBytes]byte
}

// Row returns the row i of the register file. i must be in range.
func (r *RegFile) Row(file regs.File, i uint) *[regs.RowBytes]byte {
	switch file {
	case regs.FileX:
		return &r.X[i]
	case regs.FileY:
		return &r.Y[i]
	default:
		return &r.Z[i]
	}
}

// ByteAt reads byte b of X or Y, wrapping past the end of the file.
func (r *RegFile) ByteAt(file regs.File, b uint) byte {
	b %= regs.XYBytes
	return r.Row(file, b/regs.RowBytes)[b%regs.RowBytes]
}

// Operand reads 64 bytes of X or Y starting at byte offset, wrapping past
// the end of the file. This is how outer products and genlut see their
// sources.
func (r *RegFile) Operand(file regs.File, offset uint) [regs.RowBytes]byte {
	var out [regs.RowBytes]byte
	offset %= regs.XYBytes
	if offset%regs.RowBytes == 0 {
		return *r.Row(file, offset/regs.RowBytes)
	}
	for i := range out {
		out[i] = r.ByteAt(file, offset+uint(i))
	}
	return out
}
