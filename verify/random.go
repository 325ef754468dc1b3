package verify

import (
	"math/rand/v2"

	"github.com/sarchlab/m2amx/amx"
	"github.com/sarchlab/m2amx/insts"
	"github.com/sarchlab/m2amx/regs"
)

// RandomProgram returns a program of n random legal operations: row loads,
// interleaved loads, outer products of every width and lookups of every
// type. The operations and their data are fixed when RandomProgram
// returns, so the program issues the same sequence on every run.
func RandomProgram(seed uint64, n int) Program {
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	steps := make([]func(u *amx.Unit), 0, n)
	for len(steps) < n {
		steps = append(steps, randomStep(rng))
	}

	return func(u *amx.Unit) {
		for _, step := range steps {
			step(u)
		}
	}
}

func randomRow(rng *rand.Rand) regs.Row {
	switch rng.IntN(3) {
	case 0:
		return regs.XRow(rng.UintN(regs.XRows))
	case 1:
		return regs.YRow(rng.UintN(regs.YRows))
	default:
		return regs.ZRow(rng.UintN(regs.ZRows))
	}
}

func randomOffset(rng *rand.Rand) regs.Offset {
	if rng.IntN(2) == 0 {
		return regs.XBytes(rng.UintN(regs.XYBytes))
	}
	return regs.YBytes(rng.UintN(regs.XYBytes))
}

// randomData keeps every float lane below 2 in magnitude so that outer
// products of loaded data stay finite. Lookups write only Z, leaving X and
// Y holding loaded data.
func randomData(rng *rand.Rand) []byte {
	buf := make([]byte, regs.RowBytes)
	for i := range buf {
		buf[i] = byte(rng.UintN(256))
	}
	for i := 1; i < len(buf); i += 2 {
		buf[i] &= 0x3F
	}
	return buf
}

func randomStep(rng *rand.Rand) func(u *amx.Unit) {
	switch rng.IntN(6) {
	case 0:
		data, row := randomData(rng), randomRow(rng)
		return func(u *amx.Unit) { u.Load512(data, row) }
	case 1:
		data, row := randomData(rng), regs.ZRow(rng.UintN(regs.ZRows))
		return func(u *amx.Unit) { u.Load512Interleaved(data, row) }
	case 2, 3, 4:
		x := regs.Opt[regs.XBytes]{Value: regs.XBytes(rng.UintN(regs.XYBytes)), Valid: rng.IntN(4) != 0}
		y := regs.Opt[regs.YBytes]{Value: regs.YBytes(rng.UintN(regs.XYBytes)), Valid: rng.IntN(4) != 0}
		z := regs.ZRow(rng.UintN(regs.ZRows))
		acc := rng.IntN(2) == 0
		switch rng.IntN(3) {
		case 0:
			return func(u *amx.Unit) { u.OuterProductI16(x, y, z, acc) }
		case 1:
			return func(u *amx.Unit) { u.OuterProductF32(x, y, z, acc) }
		default:
			return func(u *amx.Unit) { u.OuterProductF64(x, y, z, acc) }
		}
	default:
		types := insts.LutTypes()
		for {
			ty := types[rng.IntN(len(types))]
			input := randomOffset(rng)
			table := regs.XRow(rng.UintN(regs.XRows))
			output := regs.ZRow(rng.UintN(regs.ZRows))
			if amx.ValidateLut(input, table, output, ty) == nil {
				return func(u *amx.Unit) { u.Lut(input, table, output, ty) }
			}
		}
	}
}
