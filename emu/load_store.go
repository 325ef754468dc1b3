package emu

import (
	"fmt"

	"github.com/sarchlab/m2amx/insts"
	"github.com/sarchlab/m2amx/regs"
)

// LDX loads one X row (two with the pair flag) from src.
func (e *Emulator) LDX(src []byte, operand uint64) {
	e.step(insts.OpLDX, operand)
	e.load(regs.FileX, src, operand)
}

// LDY loads one Y row (two with the pair flag) from src.
func (e *Emulator) LDY(src []byte, operand uint64) {
	e.step(insts.OpLDY, operand)
	e.load(regs.FileY, src, operand)
}

// LDZ loads one Z row (two with the pair flag) from src.
func (e *Emulator) LDZ(src []byte, operand uint64) {
	e.step(insts.OpLDZ, operand)
	e.load(regs.FileZ, src, operand)
}

// STX stores one X row (two with the pair flag) to dst.
func (e *Emulator) STX(dst []byte, operand uint64) {
	e.step(insts.OpSTX, operand)
	e.store(regs.FileX, dst, operand)
}

// STY stores one Y row (two with the pair flag) to dst.
func (e *Emulator) STY(dst []byte, operand uint64) {
	e.step(insts.OpSTY, operand)
	e.store(regs.FileY, dst, operand)
}

// STZ stores one Z row (two with the pair flag) to dst.
func (e *Emulator) STZ(dst []byte, operand uint64) {
	e.step(insts.OpSTZ, operand)
	e.store(regs.FileZ, dst, operand)
}

// LDZI loads 64 bytes into halves of a Z row pair with interleaving.
func (e *Emulator) LDZI(src []byte, operand uint64) {
	e.step(insts.OpLDZI, operand)
	checkLen(src, regs.RowBytes)
	row := e.row(regs.FileZ, insts.DecodeMem(operand))
	lanes := &zInterleave[row&1]
	base := row &^ 1
	for m, lane := range lanes {
		e.regFile.Z[base+uint(lane.odd)][lane.offset] = src[m]
	}
}

// STZI stores halves of a Z row pair to 64 bytes with interleaving.
func (e *Emulator) STZI(dst []byte, operand uint64) {
	e.step(insts.OpSTZI, operand)
	checkLen(dst, regs.RowBytes)
	row := e.row(regs.FileZ, insts.DecodeMem(operand))
	lanes := &zInterleave[row&1]
	base := row &^ 1
	for m, lane := range lanes {
		dst[m] = e.regFile.Z[base+uint(lane.odd)][lane.offset]
	}
}

func (e *Emulator) load(file regs.File, src []byte, operand uint64) {
	op := insts.DecodeMem(operand)
	n := transferRows(op)
	checkLen(src, n*regs.RowBytes)

	row := e.row(file, op)
	for i := uint(0); i < n; i++ {
		dst := e.regFile.Row(file, (row+i)%file.Rows())
		copy(dst[:], src[i*regs.RowBytes:])
	}
}

func (e *Emulator) store(file regs.File, dst []byte, operand uint64) {
	op := insts.DecodeMem(operand)
	n := transferRows(op)
	checkLen(dst, n*regs.RowBytes)

	row := e.row(file, op)
	for i := uint(0); i < n; i++ {
		src := e.regFile.Row(file, (row+i)%file.Rows())
		copy(dst[i*regs.RowBytes:], src[:])
	}
}

// row returns the register row a memory operand names. The hardware only
// decodes as many row bits as the file needs.
func (e *Emulator) row(file regs.File, op insts.MemOperand) uint {
	row := uint(op.Row)
	if row >= file.Rows() {
		if e.strict {
			panic(fmt.Errorf("%w: %s row field %d", regs.ErrOutOfRange, file, row))
		}
		row %= file.Rows()
	}
	return row
}

func transferRows(op insts.MemOperand) uint {
	if op.Pair {
		return 2
	}
	return 1
}

func checkLen(buf []byte, n uint) {
	if uint(len(buf)) != n {
		panic(fmt.Errorf("%w: got %d bytes, want %d", regs.ErrBufferSize, len(buf), n))
	}
}
