package emu

import (
	"fmt"

	"github.com/rs/xid"
	"github.com/sirupsen/logrus"

	"github.com/sarchlab/m2amx/insts"
)

// Emulator executes AMX instructions functionally against an in-memory
// register file. It implements amx.Ops.
//
// An Emulator is not safe for concurrent use; independent emulators share
// no state.
type Emulator struct {
	regFile *RegFile

	// Strict emulators reject operand words whose fields the hardware would
	// silently wrap or ignore.
	strict bool

	id     xid.ID
	logger *logrus.Logger

	instructionCount uint64
	opCounts         map[insts.Op]uint64
}

// EmulatorOption is a functional option for configuring the Emulator.
type EmulatorOption func(*Emulator)

// WithLogger traces every executed instruction at debug level.
func WithLogger(logger *logrus.Logger) EmulatorOption {
	return func(e *Emulator) {
		e.logger = logger
	}
}

// WithID sets the identity reported in log fields.
func WithID(id xid.ID) EmulatorOption {
	return func(e *Emulator) {
		e.id = id
	}
}

// WithStrict enables or disables operand checking. Emulators are strict
// by default.
func WithStrict(strict bool) EmulatorOption {
	return func(e *Emulator) {
		e.strict = strict
	}
}

// NewEmulator creates a new AMX emulator with a zeroed register file.
func NewEmulator(opts ...EmulatorOption) *Emulator {
	e := &Emulator{
		regFile:  &RegFile{},
		strict:   true,
		id:       xid.New(),
		opCounts: make(map[insts.Op]uint64),
	}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

// RegFile returns the emulator's register file.
func (e *Emulator) RegFile() *RegFile {
	return e.regFile
}

// ID returns the emulator's identity.
func (e *Emulator) ID() xid.ID {
	return e.id
}

// InstructionCount returns the number of instructions executed.
func (e *Emulator) InstructionCount() uint64 {
	return e.instructionCount
}

// OpCount returns the number of executed instructions with opcode op.
func (e *Emulator) OpCount(op insts.Op) uint64 {
	return e.opCounts[op]
}

// Reset zeroes the register file and the instruction counters.
func (e *Emulator) Reset() {
	e.regFile = &RegFile{}
	e.instructionCount = 0
	clear(e.opCounts)
}

// step records one instruction.
func (e *Emulator) step(op insts.Op, operand uint64) {
	e.instructionCount++
	e.opCounts[op]++

	if e.logger == nil || !e.logger.IsLevelEnabled(logrus.DebugLevel) {
		return
	}
	e.logger.WithFields(logrus.Fields{
		"backend": e.id.String(),
		"op":      op.String(),
		"operand": fmt.Sprintf("%#016x", operand),
		"count":   e.instructionCount,
	}).Debug("AMX step")
}
