package emu

import (
	"fmt"
	"math"

	"github.com/x448/float16"

	"github.com/sarchlab/m2amx/insts"
	"github.com/sarchlab/m2amx/regs"
)

// GENLUT performs one table lookup or index generation.
//
// Lookup: output lane i is table element index[i], where the indices are
// packed little-endian starting at the source offset.
//
// Generate: output index i is the position of the largest table element
// not greater than source lane i, or 0 if there is none. The packed indices
// fill the low bytes of the destination; the rest is zeroed.
func (e *Emulator) GENLUT(operand uint64) {
	e.step(insts.OpGENLUT, operand)
	op := insts.DecodeGenlut(operand)

	ty, err := insts.LutTypeFromCode(op.Mode)
	if err != nil {
		panic(fmt.Errorf("%w: %w", regs.ErrInvalidOperand, err))
	}

	srcFile, tableFile := regs.FileX, regs.FileX
	if op.SrcY {
		srcFile = regs.FileY
	}
	if op.TableY {
		tableFile = regs.FileY
	}

	src := e.regFile.Operand(srcFile, uint(op.SrcOffset))
	table := *e.regFile.Row(tableFile, uint(op.TableRow))

	var out [regs.RowBytes]byte
	switch ty.Mode {
	case insts.Lookup:
		lookup(&out, &src, &table, ty)
	case insts.Generate:
		generate(&out, &src, &table, ty)
	}

	*e.lutDestination(op) = out
}

func (e *Emulator) lutDestination(op insts.GenlutOperand) *[regs.RowBytes]byte {
	switch {
	case op.DstZ:
		return e.regFile.Row(regs.FileZ, uint(op.DstRow))
	case op.DstY:
		return e.regFile.Row(regs.FileY, uint(op.DstRow))
	default:
		return e.regFile.Row(regs.FileX, uint(op.DstRow))
	}
}

func lookup(out, src, table *[regs.RowBytes]byte, ty insts.LutType) {
	width := ty.Elem.Bytes()
	for i := 0; i < ty.Lanes(); i++ {
		idx := extractIndex(src, i, ty.Index)
		copy(out[i*width:(i+1)*width], table[idx*width:])
	}
}

func generate(out, src, table *[regs.RowBytes]byte, ty insts.LutType) {
	width := ty.Elem.Bytes()
	for i := 0; i < ty.Lanes(); i++ {
		v := laneValue(ty.Elem, src[i*width:])
		idx := 0
		if !math.IsNaN(v) {
			for k := 0; k < ty.Entries(); k++ {
				if laneValue(ty.Elem, table[k*width:]) <= v {
					idx = k
				}
			}
		}
		packIndex(out, i, ty.Index, idx)
	}
}

// extractIndex returns packed index i, low bits first.
func extractIndex(src *[regs.RowBytes]byte, i int, width insts.IndexWidth) int {
	bit := i * int(width)
	word := uint(src[bit/8])
	if bit/8+1 < len(src) {
		word |= uint(src[bit/8+1]) << 8
	}
	return int(word>>(bit%8)) & (1<<width - 1)
}

func packIndex(out *[regs.RowBytes]byte, i int, width insts.IndexWidth, idx int) {
	bit := i * int(width)
	word := uint(idx) << (bit % 8)
	out[bit/8] |= byte(word)
	if word>>8 != 0 {
		out[bit/8+1] |= byte(word >> 8)
	}
}

// laneValue decodes a lane for comparison. Every supported lane format is
// exactly representable as a float64.
func laneValue(elem insts.ElemType, b []byte) float64 {
	switch elem {
	case insts.F16:
		return float64(float16.Frombits(le.Uint16(b)).Float32())
	case insts.F32:
		return float64(math.Float32frombits(le.Uint32(b)))
	case insts.F64:
		return math.Float64frombits(le.Uint64(b))
	case insts.I16:
		return float64(int16(le.Uint16(b)))
	case insts.I32:
		return float64(int32(le.Uint32(b)))
	case insts.U16:
		return float64(le.Uint16(b))
	case insts.U32:
		return float64(le.Uint32(b))
	default:
		return math.NaN()
	}
}
