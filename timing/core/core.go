// Package core provides a timing model of the AMX coprocessor.
// It wraps a functional backend and charges every instruction it forwards
// against the latency table and the cache hierarchy.
package core

import (
	"unsafe"

	"github.com/sarchlab/m2amx/amx"
	"github.com/sarchlab/m2amx/insts"
	"github.com/sarchlab/m2amx/timing/cache"
	"github.com/sarchlab/m2amx/timing/latency"
)

// Stats holds performance statistics for the core.
type Stats struct {
	// Cycles is the estimated number of coprocessor cycles. Instructions
	// are assumed to issue back to back without overlap.
	Cycles uint64
	// Instructions is the number of instructions issued.
	Instructions uint64
	// MemoryStalls is the number of cycles spent beyond L1 hits.
	MemoryStalls uint64
	// ByOp counts issued instructions per opcode.
	ByOp map[insts.Op]uint64
}

// Core is a timing decorator over an AMX backend. It implements amx.Ops.
type Core struct {
	backend amx.Ops
	table   *latency.Table
	l1      *cache.Cache

	stats Stats
}

// NewCore creates a Core with default M2 timing.
func NewCore(backend amx.Ops) *Core {
	return NewCoreWithConfig(backend, latency.DefaultTimingConfig())
}

// NewCoreWithConfig creates a Core with custom timing. The cache hit and
// miss latencies come from config.
func NewCoreWithConfig(backend amx.Ops, config *latency.TimingConfig) *Core {
	l1Config := cache.DefaultL1DConfig()
	l1Config.HitLatency = config.L1HitLatency
	l1Config.MissLatency = config.L2HitLatency
	l2Config := cache.DefaultL2Config()
	l2Config.HitLatency = config.L2HitLatency
	l2Config.MissLatency = config.MemoryLatency

	return &Core{
		backend: backend,
		table:   latency.NewTableWithConfig(config),
		l1:      cache.New(l1Config, cache.New(l2Config, nil)),
		stats:   Stats{ByOp: make(map[insts.Op]uint64)},
	}
}

// Backend returns the wrapped backend.
func (c *Core) Backend() amx.Ops {
	return c.backend
}

// Cache returns the L1 data cache model.
func (c *Core) Cache() *cache.Cache {
	return c.l1
}

// Stats returns performance statistics for the core.
func (c *Core) Stats() Stats {
	stats := c.stats
	stats.ByOp = make(map[insts.Op]uint64, len(c.stats.ByOp))
	for op, n := range c.stats.ByOp {
		stats.ByOp[op] = n
	}
	return stats
}

// Reset clears the statistics and the cache state. The backend is not
// touched.
func (c *Core) Reset() {
	c.stats = Stats{ByOp: make(map[insts.Op]uint64)}
	c.l1.Reset()
}

func (c *Core) issue(op insts.Op, operand uint64) {
	c.stats.Instructions++
	c.stats.ByOp[op]++
	c.stats.Cycles += c.table.GetLatency(op, operand)
}

func (c *Core) transfer(op insts.Op, buf []byte, operand uint64) {
	c.issue(op, operand)
	if !c.table.IsMemoryOp(op) || len(buf) == 0 {
		return
	}

	addr := uint64(uintptr(unsafe.Pointer(unsafe.SliceData(buf))))
	var result cache.AccessResult
	switch {
	case c.table.IsStoreOp(op):
		result = c.l1.Write(addr, len(buf))
	case c.table.IsLoadOp(op):
		result = c.l1.Read(addr, len(buf))
	}
	// A miss can be cheaper than an L1 hit when the configured latencies
	// are not monotonic.
	if hit := c.l1.Config().HitLatency; !result.Hit && result.Latency > hit {
		stall := result.Latency - hit
		c.stats.Cycles += stall
		c.stats.MemoryStalls += stall
	}
}

// LDX forwards to the backend.
func (c *Core) LDX(src []byte, operand uint64) {
	c.transfer(insts.OpLDX, src, operand)
	c.backend.LDX(src, operand)
}

// LDY forwards to the backend.
func (c *Core) LDY(src []byte, operand uint64) {
	c.transfer(insts.OpLDY, src, operand)
	c.backend.LDY(src, operand)
}

// LDZ forwards to the backend.
func (c *Core) LDZ(src []byte, operand uint64) {
	c.transfer(insts.OpLDZ, src, operand)
	c.backend.LDZ(src, operand)
}

// LDZI forwards to the backend.
func (c *Core) LDZI(src []byte, operand uint64) {
	c.transfer(insts.OpLDZI, src, operand)
	c.backend.LDZI(src, operand)
}

// STX forwards to the backend.
func (c *Core) STX(dst []byte, operand uint64) {
	c.transfer(insts.OpSTX, dst, operand)
	c.backend.STX(dst, operand)
}

// STY forwards to the backend.
func (c *Core) STY(dst []byte, operand uint64) {
	c.transfer(insts.OpSTY, dst, operand)
	c.backend.STY(dst, operand)
}

// STZ forwards to the backend.
func (c *Core) STZ(dst []byte, operand uint64) {
	c.transfer(insts.OpSTZ, dst, operand)
	c.backend.STZ(dst, operand)
}

// STZI forwards to the backend.
func (c *Core) STZI(dst []byte, operand uint64) {
	c.transfer(insts.OpSTZI, dst, operand)
	c.backend.STZI(dst, operand)
}

// FMA64 forwards to the backend.
func (c *Core) FMA64(operand uint64) {
	c.issue(insts.OpFMA64, operand)
	c.backend.FMA64(operand)
}

// FMA32 forwards to the backend.
func (c *Core) FMA32(operand uint64) {
	c.issue(insts.OpFMA32, operand)
	c.backend.FMA32(operand)
}

// MAC16 forwards to the backend.
func (c *Core) MAC16(operand uint64) {
	c.issue(insts.OpMAC16, operand)
	c.backend.MAC16(operand)
}

// GENLUT forwards to the backend.
func (c *Core) GENLUT(operand uint64) {
	c.issue(insts.OpGENLUT, operand)
	c.backend.GENLUT(operand)
}
