// Package amx provides a high-level interface to the Apple Matrix
// Coprocessor (AMX).
//
// A backend implementing Ops, either a hardware context from package native
// or the software emulator from package emu, is wrapped in a Unit:
//
//	ops := emu.NewEmulator()
//	u := amx.New(ops)
//	u.Load512(amx.Bytes(x[:]), regs.XRow(0))
//	u.Load512(amx.Bytes(y[:]), regs.YRow(0))
//	u.OuterProductI16(regs.Some(regs.XBytes(0)), regs.Some(regs.YBytes(0)), regs.ZRow(0), false)
//	z := u.ReadZ()
//
// Unit methods validate their register-file addresses and panic with an
// error wrapping one of the regs misuse errors when a precondition does not
// hold. They never touch the register file except through Ops.
package amx

// Ops is the primitive AMX instruction set. Each method issues exactly one
// instruction. Operand words follow the layouts in package insts.
//
// Memory operands carry the register row and pair flag; the buffer supplies
// the address. Buffers must be exactly 64 bytes, or 128 bytes when the pair
// flag is set.
type Ops interface {
	LDX(src []byte, operand uint64)
	LDY(src []byte, operand uint64)
	LDZ(src []byte, operand uint64)
	LDZI(src []byte, operand uint64)
	STX(dst []byte, operand uint64)
	STY(dst []byte, operand uint64)
	STZ(dst []byte, operand uint64)
	STZI(dst []byte, operand uint64)

	// FMA64 accumulates an 8x8 float64 outer product into Z.
	FMA64(operand uint64)
	// FMA32 accumulates a 16x16 float32 outer product into Z.
	FMA32(operand uint64)
	// MAC16 accumulates a 32x32 int16 outer product into Z.
	MAC16(operand uint64)
	// GENLUT performs one table lookup or index generation.
	GENLUT(operand uint64)
}

// Unit drives a backend through the load/store, outer-product and lookup
// subsystems.
type Unit struct {
	ops Ops
}

// New creates a Unit issuing instructions to ops.
func New(ops Ops) *Unit {
	return &Unit{ops: ops}
}

// Ops returns the backend the unit drives.
func (u *Unit) Ops() Ops {
	return u.ops
}
