package amx

import (
	"fmt"

	"github.com/sarchlab/m2amx/insts"
	"github.com/sarchlab/m2amx/regs"
)

// Transfer sizes.
const (
	RowBytes  = regs.RowBytes
	PairBytes = 2 * regs.RowBytes

	pairAlign = 128
)

// Load512 loads 64 bytes from src into the specified register row. src
// needs no particular alignment.
func (u *Unit) Load512(src []byte, row regs.Row) {
	mustLen(src, RowBytes)
	regs.Check(row.Validate())
	u.load(src, row.File(), row.Index())
}

// Load1024Aligned loads 128 bytes from src into the specified register row
// and the one after it. src must be aligned to 128 bytes.
func (u *Unit) Load1024Aligned(src []byte, row regs.Row) {
	mustLen(src, PairBytes)
	mustAlign(src)
	mustPair(row)
	u.load(src[:RowBytes], row.File(), row.Index())
	u.load(src[RowBytes:], row.File(), row.Index()+1)
}

// Store512 stores the contents of the specified register row to dst.
func (u *Unit) Store512(dst []byte, row regs.Row) {
	mustLen(dst, RowBytes)
	regs.Check(row.Validate())
	u.store(dst, row.File(), row.Index())
}

// Store1024Aligned stores the specified register row and the one after it
// to dst. dst must be aligned to 128 bytes.
func (u *Unit) Store1024Aligned(dst []byte, row regs.Row) {
	mustLen(dst, PairBytes)
	mustAlign(dst)
	mustPair(row)
	u.store(dst[:RowBytes], row.File(), row.Index())
	u.store(dst[RowBytes:], row.File(), row.Index()+1)
}

// Load512Interleaved loads 64 bytes from src into Z with interleaving: the
// even 32-bit words of src go to half of row&^1, the odd words to the same
// half of row|1. The half is selected by the low bit of row.
func (u *Unit) Load512Interleaved(src []byte, row regs.ZRow) {
	mustLen(src, RowBytes)
	regs.Check(row.Validate())
	u.ops.LDZI(src, memOperand(row.Index()))
}

// Store512Interleaved is the inverse of Load512Interleaved.
func (u *Unit) Store512Interleaved(dst []byte, row regs.ZRow) {
	mustLen(dst, RowBytes)
	regs.Check(row.Validate())
	u.ops.STZI(dst, memOperand(row.Index()))
}

// ReadX returns the contents of X, one row store at a time. The read is not
// atomic with respect to other users of the backend.
func (u *Unit) ReadX() [regs.XYBytes]byte {
	var out [regs.XYBytes]byte
	u.readFile(out[:], regs.FileX)
	return out
}

// ReadY returns the contents of Y.
func (u *Unit) ReadY() [regs.XYBytes]byte {
	var out [regs.XYBytes]byte
	u.readFile(out[:], regs.FileY)
	return out
}

// ReadZ returns the contents of Z.
func (u *Unit) ReadZ() [regs.ZBytes]byte {
	var out [regs.ZBytes]byte
	u.readFile(out[:], regs.FileZ)
	return out
}

func (u *Unit) readFile(out []byte, file regs.File) {
	for i := uint(0); i < file.Rows(); i++ {
		u.store(out[i*RowBytes:(i+1)*RowBytes], file, i)
	}
}

func (u *Unit) load(src []byte, file regs.File, row uint) {
	operand := memOperand(row)
	switch file {
	case regs.FileX:
		u.ops.LDX(src, operand)
	case regs.FileY:
		u.ops.LDY(src, operand)
	case regs.FileZ:
		u.ops.LDZ(src, operand)
	}
}

func (u *Unit) store(dst []byte, file regs.File, row uint) {
	operand := memOperand(row)
	switch file {
	case regs.FileX:
		u.ops.STX(dst, operand)
	case regs.FileY:
		u.ops.STY(dst, operand)
	case regs.FileZ:
		u.ops.STZ(dst, operand)
	}
}

func memOperand(row uint) uint64 {
	return insts.MemOperand{Row: uint8(row)}.Encode()
}

func mustLen(buf []byte, n int) {
	if len(buf) != n {
		panic(fmt.Errorf("%w: got %d bytes, want %d", regs.ErrBufferSize, len(buf), n))
	}
}

func mustAlign(buf []byte) {
	if !isAligned(buf, pairAlign) {
		panic(fmt.Errorf("%w: buffer at %p", regs.ErrUnaligned, buf))
	}
}

func mustPair(row regs.Row) {
	regs.Check(row.Validate())
	if row.Index()+1 >= row.File().Rows() {
		panic(fmt.Errorf("%w: %s rows %d-%d (file has %d rows)",
			regs.ErrOutOfRange, row.File(), row.Index(), row.Index()+1, row.File().Rows()))
	}
}
