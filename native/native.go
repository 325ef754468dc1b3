// Package native issues AMX instructions on the host coprocessor.
//
// A Context binds the calling goroutine to its OS thread and enables the
// coprocessor for that thread until Close. The register file belongs to the
// thread, so a Context must be used only from the goroutine that bound it
// and at most one Context may be live per thread.
//
//	ctx, err := native.Bind()
//	if err != nil {
//		return err
//	}
//	defer ctx.Close()
//	u := amx.New(ctx)
package native

import (
	"errors"
	"fmt"
	"os"

	"github.com/sarchlab/m2amx/insts"
	"github.com/sarchlab/m2amx/regs"
)

// DisableEnv names the environment variable that, when set to any value,
// makes Available report false.
const DisableEnv = "M2AMX_NO_NATIVE"

// Errors returned by Bind.
var (
	ErrUnavailable   = errors.New("native: AMX is not available on this host")
	ErrAlreadyBound  = errors.New("native: thread already has a bound context")
	errClosedContext = errors.New("native: use of closed context")
)

// Available reports whether the host has an AMX coprocessor this package
// can drive and it has not been disabled through DisableEnv.
func Available() bool {
	if os.Getenv(DisableEnv) != "" {
		return false
	}
	return hasAMX
}

// Words returns the instruction word the assembly stubs emit for each
// opcode, with the operand in register 0.
func Words() map[insts.Op]uint32 {
	return map[insts.Op]uint32{
		insts.OpLDX:    0x00201000,
		insts.OpLDY:    0x00201020,
		insts.OpSTX:    0x00201040,
		insts.OpSTY:    0x00201060,
		insts.OpLDZ:    0x00201080,
		insts.OpSTZ:    0x002010a0,
		insts.OpLDZI:   0x002010c0,
		insts.OpSTZI:   0x002010e0,
		insts.OpFMA64:  0x00201140,
		insts.OpFMA32:  0x00201180,
		insts.OpMAC16:  0x002011c0,
		insts.OpGENLUT: 0x002012c0,
		insts.OpSET:    0x00201220,
		insts.OpCLR:    0x00201221,
	}
}

// checkLen guards caller memory: the coprocessor itself reads or writes as
// many bytes as the operand says, whatever the slice length.
func checkLen(buf []byte, operand uint64) {
	n := regs.RowBytes
	if insts.DecodeMem(operand).Pair {
		n *= 2
	}
	if len(buf) != n {
		panic(fmt.Errorf("%w: got %d bytes, want %d", regs.ErrBufferSize, len(buf), n))
	}
}
