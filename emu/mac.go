package emu

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/sarchlab/m2amx/insts"
	"github.com/sarchlab/m2amx/regs"
)

var le = binary.LittleEndian

// MAC16 accumulates the outer product of 32 int16 lanes of X and Y into
// every second Z row: z[2*j + zRow&1][i] (+)= x[i] * y[j], wrapping.
func (e *Emulator) MAC16(operand uint64) {
	e.step(insts.OpMAC16, operand)
	op, x, y := e.macOperands(operand)

	zBase := uint(op.ZRow & 1)
	for j := uint(0); j < 32; j++ {
		yv := int16(1)
		if !op.SkipY {
			yv = int16(le.Uint16(y[2*j:]))
		}
		row := &e.regFile.Z[2*j+zBase]
		for i := uint(0); i < 32; i++ {
			xv := int16(1)
			if !op.SkipX {
				xv = int16(le.Uint16(x[2*i:]))
			}
			v := xv * yv
			if !op.NoAccumulate {
				v += int16(le.Uint16(row[2*i:]))
			}
			le.PutUint16(row[2*i:], uint16(v))
		}
	}
}

// FMA32 accumulates the fused outer product of 16 float32 lanes of X and Y
// into every fourth Z row: z[4*j + zRow&3][i] (+)= x[i] * y[j].
func (e *Emulator) FMA32(operand uint64) {
	e.step(insts.OpFMA32, operand)
	op, x, y := e.macOperands(operand)

	zBase := uint(op.ZRow & 3)
	for j := uint(0); j < 16; j++ {
		yv := float32(1)
		if !op.SkipY {
			yv = math.Float32frombits(le.Uint32(y[4*j:]))
		}
		row := &e.regFile.Z[4*j+zBase]
		for i := uint(0); i < 16; i++ {
			xv := float32(1)
			if !op.SkipX {
				xv = math.Float32frombits(le.Uint32(x[4*i:]))
			}
			v := xv * yv
			if !op.NoAccumulate {
				acc := math.Float32frombits(le.Uint32(row[4*i:]))
				// The float64 product of two float32 values is exact.
				v = float32(math.FMA(float64(xv), float64(yv), float64(acc)))
			}
			le.PutUint32(row[4*i:], math.Float32bits(v))
		}
	}
}

// FMA64 accumulates the fused outer product of 8 float64 lanes of X and Y
// into every eighth Z row: z[8*j + zRow&7][i] (+)= x[i] * y[j].
func (e *Emulator) FMA64(operand uint64) {
	e.step(insts.OpFMA64, operand)
	op, x, y := e.macOperands(operand)

	zBase := uint(op.ZRow & 7)
	for j := uint(0); j < 8; j++ {
		yv := 1.0
		if !op.SkipY {
			yv = math.Float64frombits(le.Uint64(y[8*j:]))
		}
		row := &e.regFile.Z[8*j+zBase]
		for i := uint(0); i < 8; i++ {
			xv := 1.0
			if !op.SkipX {
				xv = math.Float64frombits(le.Uint64(x[8*i:]))
			}
			v := xv * yv
			if !op.NoAccumulate {
				v = math.FMA(xv, yv, math.Float64frombits(le.Uint64(row[8*i:])))
			}
			le.PutUint64(row[8*i:], math.Float64bits(v))
		}
	}
}

// macOperands decodes an outer-product operand word and reads its X and Y
// vectors.
func (e *Emulator) macOperands(operand uint64) (insts.MacOperand, [regs.RowBytes]byte, [regs.RowBytes]byte) {
	op := insts.DecodeMac(operand)
	if e.strict && !op.OffsetsInRange() {
		panic(fmt.Errorf("%w: outer product offsets x=%#x y=%#x",
			regs.ErrInvalidOperand, op.XOffset, op.YOffset))
	}

	var x, y [regs.RowBytes]byte
	if !op.SkipX {
		x = e.regFile.Operand(regs.FileX, uint(op.XOffset))
	}
	if !op.SkipY {
		y = e.regFile.Operand(regs.FileY, uint(op.YOffset))
	}
	return op, x, y
}
