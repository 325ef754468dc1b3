package emu_test

import (
	"encoding/binary"
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/m2amx/emu"
	"github.com/sarchlab/m2amx/insts"
	"github.com/sarchlab/m2amx/regs"
)

var le = binary.LittleEndian

func zI16(e *emu.Emulator, row, lane int) int16 {
	return int16(le.Uint16(e.RegFile().Z[row][2*lane:]))
}

func zF32(e *emu.Emulator, row, lane int) float32 {
	return math.Float32frombits(le.Uint32(e.RegFile().Z[row][4*lane:]))
}

func zF64(e *emu.Emulator, row, lane int) float64 {
	return math.Float64frombits(le.Uint64(e.RegFile().Z[row][8*lane:]))
}

var _ = Describe("Outer products", func() {
	var e *emu.Emulator

	BeforeEach(func() {
		e = emu.NewEmulator()
	})

	Describe("MAC16", func() {
		BeforeEach(func() {
			for i := 0; i < 32; i++ {
				le.PutUint16(e.RegFile().X[0][2*i:], uint16(int16(i-16)))
				le.PutUint16(e.RegFile().Y[0][2*i:], uint16(int16(3*i)))
			}
		})

		It("should write the product into every second row", func() {
			e.MAC16(insts.MacOperand{NoAccumulate: true}.Encode())

			for j := 0; j < 32; j++ {
				for i := 0; i < 32; i++ {
					Expect(zI16(e, 2*j, i)).To(Equal(int16((i - 16) * 3 * j)))
				}
				Expect(e.RegFile().Z[2*j+1]).To(BeZero())
			}
		})

		It("should select the odd rows with an odd Z row", func() {
			e.MAC16(insts.MacOperand{ZRow: 1, NoAccumulate: true}.Encode())
			Expect(e.RegFile().Z[0]).To(BeZero())
			Expect(zI16(e, 3, 0)).To(Equal(int16(-16 * 3)))
		})

		It("should accumulate", func() {
			word := insts.MacOperand{}.Encode()
			e.MAC16(word)
			e.MAC16(word)
			Expect(zI16(e, 2, 0)).To(Equal(int16(2 * -16 * 3)))
		})

		It("should wrap on overflow", func() {
			le.PutUint16(e.RegFile().X[0][0:], uint16(math.MaxInt16))
			le.PutUint16(e.RegFile().Y[0][2:], 2)
			e.MAC16(insts.MacOperand{NoAccumulate: true}.Encode())
			Expect(zI16(e, 2, 0)).To(Equal(int16(-2)))
		})

		It("should treat skipped operands as ones", func() {
			e.MAC16(insts.MacOperand{SkipY: true, NoAccumulate: true}.Encode())
			for j := 0; j < 32; j++ {
				Expect(zI16(e, 2*j, 5)).To(Equal(int16(5 - 16)))
			}

			e.MAC16(insts.MacOperand{SkipX: true, SkipY: true, NoAccumulate: true}.Encode())
			Expect(zI16(e, 62, 31)).To(Equal(int16(1)))
		})

		It("should read operands at byte offsets", func() {
			e.RegFile().X[1][0] = 7
			e.RegFile().Y[2][0] = 6
			e.MAC16(insts.MacOperand{XOffset: 64, YOffset: 128, NoAccumulate: true}.Encode())
			Expect(zI16(e, 0, 0)).To(Equal(int16(42)))
		})

		It("should reject offsets past the register file in strict mode", func() {
			word := insts.MacOperand{XOffset: 0x200}.Encode()
			Expect(func() { e.MAC16(word) }).To(PanicWith(MatchError(regs.ErrInvalidOperand)))
		})
	})

	Describe("FMA32", func() {
		BeforeEach(func() {
			for i := 0; i < 16; i++ {
				le.PutUint32(e.RegFile().X[0][4*i:], math.Float32bits(float32(i)+0.5))
				le.PutUint32(e.RegFile().Y[0][4*i:], math.Float32bits(float32(-i)))
			}
		})

		It("should write into every fourth row", func() {
			e.FMA32(insts.MacOperand{ZRow: 2, NoAccumulate: true}.Encode())
			for j := 0; j < 16; j++ {
				for i := 0; i < 16; i++ {
					Expect(zF32(e, 4*j+2, i)).To(Equal((float32(i) + 0.5) * float32(-j)))
				}
				Expect(e.RegFile().Z[4*j]).To(BeZero())
			}
		})

		It("should preserve the sign of a zero product", func() {
			le.PutUint32(e.RegFile().Y[0][0:], math.Float32bits(float32(math.Copysign(0, -1))))
			e.FMA32(insts.MacOperand{NoAccumulate: true}.Encode())
			Expect(math.Signbit(float64(zF32(e, 0, 0)))).To(BeTrue())
		})

		It("should fuse the multiply and add", func() {
			x := float32(1 + 1.0/(1<<12))
			le.PutUint32(e.RegFile().X[0][0:], math.Float32bits(x))
			le.PutUint32(e.RegFile().Y[0][0:], math.Float32bits(x))
			acc := -(1 + 2.0/(1<<12))
			le.PutUint32(e.RegFile().Z[0][0:], math.Float32bits(float32(acc)))

			e.FMA32(insts.MacOperand{}.Encode())
			Expect(zF32(e, 0, 0)).To(Equal(float32(1.0 / (1 << 24))))
		})
	})

	Describe("FMA64", func() {
		It("should accumulate into every eighth row", func() {
			for i := 0; i < 8; i++ {
				le.PutUint64(e.RegFile().X[0][8*i:], math.Float64bits(float64(i)))
				le.PutUint64(e.RegFile().Y[0][8*i:], math.Float64bits(2))
			}
			word := insts.MacOperand{ZRow: 7}.Encode()
			e.FMA64(word)
			e.FMA64(word)

			for j := 0; j < 8; j++ {
				for i := 0; i < 8; i++ {
					Expect(zF64(e, 8*j+7, i)).To(Equal(float64(4 * i)))
				}
			}
			Expect(e.OpCount(insts.OpFMA64)).To(Equal(uint64(2)))
		})
	})
})
