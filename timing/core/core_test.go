package core_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/m2amx/amx"
	"github.com/sarchlab/m2amx/emu"
	"github.com/sarchlab/m2amx/insts"
	"github.com/sarchlab/m2amx/regs"
	"github.com/sarchlab/m2amx/timing/core"
	"github.com/sarchlab/m2amx/timing/latency"
)

var _ amx.Ops = (*core.Core)(nil)

var _ = Describe("Core", func() {
	var (
		backend *emu.Emulator
		c       *core.Core
		u       *amx.Unit
	)

	BeforeEach(func() {
		backend = emu.NewEmulator()
		c = core.NewCore(backend)
		u = amx.New(c)
	})

	It("should forward instructions to the backend", func() {
		src := make([]byte, amx.RowBytes)
		src[0] = 42
		u.Load512(src, regs.XRow(2))

		Expect(backend.RegFile().X[2][0]).To(Equal(byte(42)))
		Expect(c.Backend()).To(BeIdenticalTo(backend))
	})

	It("should count instructions per opcode", func() {
		for i := 0; i < 3; i++ {
			u.OuterProductI16(regs.NoX, regs.NoY, 0, true)
		}
		u.ReadX()

		stats := c.Stats()
		Expect(stats.Instructions).To(Equal(uint64(11)))
		Expect(stats.ByOp[insts.OpMAC16]).To(Equal(uint64(3)))
		Expect(stats.ByOp[insts.OpSTX]).To(Equal(uint64(8)))
	})

	It("should charge compute latency", func() {
		u.OuterProductF32(regs.NoX, regs.NoY, 0, false)
		u.OuterProductF64(regs.NoX, regs.NoY, 0, false)
		Expect(c.Stats().Cycles).To(Equal(uint64(8)))
		Expect(c.Stats().MemoryStalls).To(BeZero())
	})

	It("should charge a memory stall on the first touch of a buffer", func() {
		buf := amx.AlignedBuffer(amx.RowBytes)
		u.Load512(buf, regs.YRow(0))
		cold := c.Stats()
		Expect(cold.MemoryStalls).To(Equal(uint64(150 - 4)))
		Expect(cold.Cycles).To(Equal(uint64(4 + 150 - 4)))

		u.Load512(buf, regs.YRow(1))
		warm := c.Stats()
		Expect(warm.Cycles - cold.Cycles).To(Equal(uint64(4)))
		Expect(warm.MemoryStalls).To(Equal(cold.MemoryStalls))
	})

	It("should not charge a stall when a miss is cheaper than an L1 hit", func() {
		config := latency.DefaultTimingConfig()
		config.L1HitLatency = 200
		slow := core.NewCoreWithConfig(emu.NewEmulator(), config)
		amx.New(slow).Load512(amx.AlignedBuffer(amx.RowBytes), regs.XRow(0))

		Expect(slow.Cache().Stats().Misses).To(Equal(uint64(1)))
		Expect(slow.Stats().MemoryStalls).To(BeZero())
		Expect(slow.Stats().Cycles).To(Equal(config.LoadLatency))
	})

	It("should model stores as cache writes", func() {
		u.Store512(amx.AlignedBuffer(amx.RowBytes), regs.ZRow(5))
		Expect(c.Cache().Stats().Writes).To(Equal(uint64(1)))
		Expect(c.Cache().Stats().Reads).To(BeZero())
	})

	It("should use a custom configuration", func() {
		config := latency.DefaultTimingConfig()
		config.GenlutLatency = 11
		custom := core.NewCoreWithConfig(emu.NewEmulator(), config)
		custom.GENLUT(0)
		Expect(custom.Stats().Cycles).To(Equal(uint64(11)))
	})

	It("should return a snapshot of the per-op counts", func() {
		u.OuterProductI16(regs.NoX, regs.NoY, 0, true)
		stats := c.Stats()
		stats.ByOp[insts.OpMAC16] = 100
		Expect(c.Stats().ByOp[insts.OpMAC16]).To(Equal(uint64(1)))
	})

	It("should reset statistics", func() {
		u.Load512(make([]byte, amx.RowBytes), regs.ZRow(0))
		c.Reset()
		Expect(c.Stats().Instructions).To(BeZero())
		Expect(c.Stats().ByOp).To(BeEmpty())
		Expect(c.Cache().Stats().Reads).To(BeZero())
	})
})
