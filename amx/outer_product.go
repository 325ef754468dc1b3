package amx

import (
	"fmt"

	"github.com/sarchlab/m2amx/insts"
	"github.com/sarchlab/m2amx/regs"
)

// OuterProductI16 computes the outer product of x: [32]int16 and
// y: [32]int16 and writes it to every second row of Z, so that
// z[2*j + zRow%2][i] = x[i] * y[j] (wrapping), added to the previous
// contents when accumulate is set.
//
// An absent operand is excluded from the multiplication: 1 is used in its
// place and the destination rows are still written.
//
// zRow must be in range 0..64. Only its least significant bit is taken into
// consideration; larger values alias silently.
func (u *Unit) OuterProductI16(x regs.Opt[regs.XBytes], y regs.Opt[regs.YBytes], zRow regs.ZRow, accumulate bool) {
	u.ops.MAC16(EncodeOuterProduct(x, y, zRow, accumulate))
}

// OuterProductF32 computes the fused outer product of x: [16]float32 and
// y: [16]float32 into every fourth row of Z:
// z[4*j + zRow%4][i] = x[i] * y[j] (+ z).
func (u *Unit) OuterProductF32(x regs.Opt[regs.XBytes], y regs.Opt[regs.YBytes], zRow regs.ZRow, accumulate bool) {
	u.ops.FMA32(EncodeOuterProduct(x, y, zRow, accumulate))
}

// OuterProductF64 computes the fused outer product of x: [8]float64 and
// y: [8]float64 into every eighth row of Z:
// z[8*j + zRow%8][i] = x[i] * y[j] (+ z).
func (u *Unit) OuterProductF64(x regs.Opt[regs.XBytes], y regs.Opt[regs.YBytes], zRow regs.ZRow, accumulate bool) {
	u.ops.FMA64(EncodeOuterProduct(x, y, zRow, accumulate))
}

// EncodeOuterProduct packs an outer-product operand word. It panics if an
// offset or the Z row is out of range.
func EncodeOuterProduct(x regs.Opt[regs.XBytes], y regs.Opt[regs.YBytes], zRow regs.ZRow, accumulate bool) uint64 {
	if x.Valid {
		regs.Check(x.Value.Validate())
	}
	if y.Valid {
		regs.Check(y.Value.Validate())
	}
	if err := zRow.Validate(); err != nil {
		panic(fmt.Errorf("outer product destination: %w", err))
	}

	op := insts.MacOperand{
		ZRow:         uint8(zRow),
		NoAccumulate: !accumulate,
		SkipX:        !x.Valid,
		SkipY:        !y.Valid,
	}
	if x.Valid {
		op.XOffset = uint16(x.Value)
	}
	if y.Valid {
		op.YOffset = uint16(y.Value)
	}
	return op.Encode()
}
