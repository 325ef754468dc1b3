package main

import (
	"context"
	"encoding/binary"
	"fmt"
	"math"

	"github.com/sirupsen/logrus"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/sarchlab/m2amx/amx"
	"github.com/sarchlab/m2amx/benchmarks"
	"github.com/sarchlab/m2amx/emu"
	"github.com/sarchlab/m2amx/insts"
	"github.com/sarchlab/m2amx/native"
	"github.com/sarchlab/m2amx/regs"
	"github.com/sarchlab/m2amx/timing/core"
	"github.com/sarchlab/m2amx/verify"
)

// runLoads fills X and Y with 1..128 as float32, computes four float32
// outer products and prints all three files.
func runLoads(u *amx.Unit) {
	for i := uint(0); i < regs.XRows; i++ {
		x := make([]float32, 16)
		for j := range x {
			x[j] = float32(16*i + uint(j) + 1)
		}
		u.Load512(amx.Bytes(x), regs.XRow(i))
		u.Load512(amx.Bytes(x), regs.YRow(i))
	}

	for i, off := range []uint{0, 196, 128, 64} {
		u.OuterProductF32(regs.Some(regs.XBytes(off)), regs.Some(regs.YBytes(off)), regs.ZRow(i), false)
	}

	x, y := u.ReadX(), u.ReadY()
	for i := 0; i < len(x)/4; i++ {
		fmt.Printf("rx[%d]: %v, ry[%d]: %v\n", i, f32At(x[:], i), i, f32At(y[:], i))
	}
	z := u.ReadZ()
	for i := 0; i < len(z)/4; i++ {
		fmt.Printf("rz[%d]: %v\n", i, f32At(z[:], i))
	}
}

func f32At(b []byte, i int) float32 {
	return math.Float32frombits(binary.LittleEndian.Uint32(b[4*i:]))
}

// runLut looks up 4-bit indices from Y in a byte table in X row 0 and
// prints the results written to Z row 0.
func runLut(u *amx.Unit) {
	table := make([]byte, amx.RowBytes)
	for i := 0; i < 16; i++ {
		table[i] = byte(i * i)
	}
	u.Load512(table, regs.XRow(0))

	indices := make([]byte, amx.RowBytes)
	for i := range indices {
		indices[i] = byte(i&0xF) | byte(15-i&0xF)<<4
	}
	u.Load512(indices, regs.YRow(0))

	ty := insts.LutType{Mode: insts.Lookup, Index: insts.Index4, Elem: insts.X8}
	u.Lut(regs.YBytes(0), 0, regs.ZRow(0), ty)

	out := make([]byte, amx.RowBytes)
	u.Store512(out, regs.ZRow(0))
	fmt.Printf("%s: %v\n", ty, out)
}

func (d *driver) stress(ctx context.Context) error {
	cfg := benchmarks.StressConfig{
		Workers:    *threads,
		Rounds:     *rounds,
		Iterations: *iterations,
	}
	if *verbose {
		cfg.Logger = d.logger
	}

	d.logger.WithFields(logrus.Fields{
		"workers":    cfg.Workers,
		"rounds":     cfg.Rounds,
		"iterations": cfg.Iterations,
	}).Info("stress started")

	results, err := benchmarks.RunStress(ctx, cfg, d.newBackend)
	if err != nil {
		return err
	}

	p := message.NewPrinter(language.English)
	var total float64
	for _, r := range results {
		_, _ = p.Printf("worker %d (%s): %d amxmac16s per second\n", r.Worker, r.ID, int64(r.Rate()))
		total += r.Rate()
	}
	_, _ = p.Printf("total: %d amxmac16s per second\n", int64(total))

	d.logger.Info("stress stopped")
	return nil
}

// verify runs a random program on the emulator and compares every other
// backend available here against it.
func (d *driver) verify(seed uint64, n int) (err error) {
	baseline := verify.Backend{Name: "emu", Ops: emu.NewEmulator()}
	others := []verify.Backend{
		{Name: "emu+timing", Ops: core.NewCoreWithConfig(emu.NewEmulator(), d.timing)},
	}

	if d.native {
		var c *native.Context
		c, err = native.Bind()
		if err != nil {
			return err
		}
		defer func() {
			if cerr := c.Close(); err == nil {
				err = cerr
			}
		}()
		others = append(others, verify.Backend{Name: "native", Ops: c})
	}

	if err := verify.Run(verify.RandomProgram(seed, n), baseline, others...); err != nil {
		return err
	}

	d.logger.WithFields(logrus.Fields{
		"seed":     seed,
		"steps":    n,
		"backends": len(others) + 1,
	}).Info("backends agree")
	return nil
}
