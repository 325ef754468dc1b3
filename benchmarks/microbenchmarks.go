package benchmarks

import (
	"github.com/sarchlab/m2amx/amx"
	"github.com/sarchlab/m2amx/insts"
	"github.com/sarchlab/m2amx/regs"
)

// GetMicrobenchmarks returns the standard set of AMX microbenchmarks.
// Each benchmark targets a specific coprocessor characteristic.
func GetMicrobenchmarks() []Benchmark {
	return []Benchmark{
		mac16Loop(),
		fma32Tile(),
		loadsStreaming(),
		loadsReuse(),
		pairLoads(),
		interleavedStores(),
		lutLookups(),
	}
}

// GetCoreBenchmarks returns a minimal set of benchmarks for quick validation.
func GetCoreBenchmarks() []Benchmark {
	return []Benchmark{
		mac16Loop(),
		loadsStreaming(),
		lutLookups(),
	}
}

// 1. MAC16 loop - the stress kernel, compute only
func mac16Loop() Benchmark {
	return Benchmark{
		Name:        "mac16_loop",
		Description: "1024 accumulating int16 outer products alternating Z row groups",
		Program: func(u *amx.Unit) {
			MAC16Kernel(u, 1024/16)
		},
	}
}

// 2. FMA32 tile - loads X/Y then a 16x16 tile per row pair
func fma32Tile() Benchmark {
	return Benchmark{
		Name:        "fma32_tile",
		Description: "8 row loads into X and Y, 8 float32 outer products",
		Program: func(u *amx.Unit) {
			for i := uint(0); i < regs.XRows; i++ {
				x := make([]float32, 16)
				for j := range x {
					x[j] = float32(16*i + uint(j) + 1)
				}
				u.Load512(amx.Bytes(x), regs.XRow(i))
				u.Load512(amx.Bytes(x), regs.YRow(i))
			}
			for i := uint(0); i < regs.XRows; i++ {
				off := i * regs.RowBytes
				u.OuterProductF32(regs.Some(regs.XBytes(off)), regs.Some(regs.YBytes(off)), regs.ZRow(i%4), i >= 4)
			}
		},
	}
}

// 3. Streaming loads - every row from a fresh line
func loadsStreaming() Benchmark {
	return Benchmark{
		Name:        "loads_streaming",
		Description: "256 row loads from a 16KB buffer - measures miss cost",
		Program: func(u *amx.Unit) {
			buf := amx.AlignedBuffer(256 * amx.RowBytes)
			for i := 0; i < 256; i++ {
				u.Load512(buf[i*amx.RowBytes:(i+1)*amx.RowBytes], regs.ZRow(uint(i)%regs.ZRows))
			}
		},
	}
}

// 4. Reused loads - the same line over and over
func loadsReuse() Benchmark {
	return Benchmark{
		Name:        "loads_reuse",
		Description: "256 row loads from one 64B buffer - measures hit cost",
		Program: func(u *amx.Unit) {
			buf := amx.AlignedBuffer(amx.RowBytes)
			for i := 0; i < 256; i++ {
				u.Load512(buf, regs.ZRow(uint(i)%regs.ZRows))
			}
		},
	}
}

// 5. Pair loads - 1024-bit transfers
func pairLoads() Benchmark {
	return Benchmark{
		Name:        "pair_loads",
		Description: "32 aligned 128-byte loads filling Z",
		Program: func(u *amx.Unit) {
			buf := amx.AlignedBuffer(32 * amx.PairBytes)
			for i := 0; i < 32; i++ {
				u.Load1024Aligned(buf[i*amx.PairBytes:(i+1)*amx.PairBytes], regs.ZRow(uint(2*i)))
			}
		},
	}
}

// 6. Interleaved stores - ldzi/stzi round trips
func interleavedStores() Benchmark {
	return Benchmark{
		Name:        "interleaved_stores",
		Description: "64 interleaved loads and stores through Z",
		Program: func(u *amx.Unit) {
			buf := amx.AlignedBuffer(amx.RowBytes)
			for i := uint(0); i < regs.ZRows; i++ {
				u.Load512Interleaved(buf, regs.ZRow(i))
				u.Store512Interleaved(buf, regs.ZRow(i))
			}
		},
	}
}

// 7. Lookups - 4-bit byte table lookups from Y
func lutLookups() Benchmark {
	return Benchmark{
		Name:        "lut_lookups",
		Description: "256 lookup/i4/X8 table lookups into Z",
		Program: func(u *amx.Unit) {
			table := make([]byte, amx.RowBytes)
			for i := range table {
				table[i] = byte(i)
			}
			u.Load512(table, regs.XRow(0))
			for i := uint(0); i < regs.YRows; i++ {
				u.Load512(table, regs.YRow(i))
			}

			ty := insts.LutType{Mode: insts.Lookup, Index: insts.Index4, Elem: insts.X8}
			for i := uint(0); i < 256; i++ {
				u.Lut(regs.YBytes(i*7%regs.XYBytes), 0, regs.ZRow(i%regs.ZRows), ty)
			}
		},
	}
}
