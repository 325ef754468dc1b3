// Package latency provides AMX instruction timing models.
//
// The latency values are Apple M2 estimates and can be configured via
// TimingConfig.
package latency

import (
	"github.com/sarchlab/m2amx/insts"
)

// Table provides instruction latency lookups.
type Table struct {
	config *TimingConfig
}

// NewTable creates a new latency table with default M2 timing values.
func NewTable() *Table {
	return &Table{
		config: DefaultTimingConfig(),
	}
}

// NewTableWithConfig creates a new latency table with custom timing configuration.
func NewTableWithConfig(config *TimingConfig) *Table {
	return &Table{
		config: config,
	}
}

// GetLatency returns the issue latency in cycles of an instruction, not
// counting the memory hierarchy. operand is consulted for the pair flag of
// memory instructions.
func (t *Table) GetLatency(op insts.Op, operand uint64) uint64 {
	switch op {
	case insts.OpLDX, insts.OpLDY, insts.OpLDZ:
		return t.config.LoadLatency * rows(operand)
	case insts.OpSTX, insts.OpSTY, insts.OpSTZ:
		return t.config.StoreLatency * rows(operand)
	case insts.OpLDZI:
		return t.config.LoadLatency + t.config.InterleavedLatency
	case insts.OpSTZI:
		return t.config.StoreLatency + t.config.InterleavedLatency
	case insts.OpMAC16:
		return t.config.MAC16Latency
	case insts.OpFMA32:
		return t.config.FMA32Latency
	case insts.OpFMA64:
		return t.config.FMA64Latency
	case insts.OpGENLUT:
		return t.config.GenlutLatency
	default:
		return 1
	}
}

func rows(operand uint64) uint64 {
	if insts.DecodeMem(operand).Pair {
		return 2
	}
	return 1
}

// IsMemoryOp returns true if the instruction accesses memory.
func (t *Table) IsMemoryOp(op insts.Op) bool {
	return op.IsMemoryOp()
}

// IsLoadOp returns true if the instruction reads memory.
func (t *Table) IsLoadOp(op insts.Op) bool {
	return op.IsMemoryOp() && !op.IsStore()
}

// IsStoreOp returns true if the instruction writes memory.
func (t *Table) IsStoreOp(op insts.Op) bool {
	return op.IsStore()
}

// Config returns the current timing configuration.
func (t *Table) Config() *TimingConfig {
	return t.config
}
