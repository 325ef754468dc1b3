package amx_test

import (
	"encoding/binary"
	"math"
	"math/rand/v2"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/m2amx/amx"
	"github.com/sarchlab/m2amx/emu"
	"github.com/sarchlab/m2amx/insts"
	"github.com/sarchlab/m2amx/regs"
)

func zInt16(u *amx.Unit) [64][32]int16 {
	var out [64][32]int16
	z := u.ReadZ()
	for r := range out {
		for i := range out[r] {
			out[r][i] = int16(binary.LittleEndian.Uint16(z[r*amx.RowBytes+2*i:]))
		}
	}
	return out
}

var _ = Describe("Outer product", func() {
	var (
		u    *amx.Unit
		rng  *rand.Rand
		x, y []int16
	)

	BeforeEach(func() {
		u = amx.New(emu.NewEmulator())
		rng = rand.New(rand.NewPCG(3, 4))
		x, y = make([]int16, 32), make([]int16, 32)
		for i := range x {
			x[i] = int16(rng.Uint32())
			y[i] = int16(rng.Uint32())
		}
		u.Load512(amx.Bytes(x), regs.XRow(0))
		u.Load512(amx.Bytes(y), regs.YRow(0))
	})

	It("should write x[i]*y[j] into the even rows", func() {
		u.OuterProductI16(regs.Some(regs.XBytes(0)), regs.Some(regs.YBytes(0)), 0, false)

		z := zInt16(u)
		for j := 0; j < 32; j++ {
			for i := 0; i < 32; i++ {
				Expect(z[2*j][i]).To(Equal(x[i] * y[j]))
			}
			Expect(z[2*j+1]).To(BeZero())
		}
	})

	It("should double the result when accumulating", func() {
		u.OuterProductI16(regs.Some(regs.XBytes(0)), regs.Some(regs.YBytes(0)), 0, false)
		u.OuterProductI16(regs.Some(regs.XBytes(0)), regs.Some(regs.YBytes(0)), 0, true)

		z := zInt16(u)
		for j := 0; j < 32; j++ {
			for i := 0; i < 32; i++ {
				Expect(z[2*j][i]).To(Equal(2 * x[i] * y[j]))
			}
		}
	})

	It("should overwrite when not accumulating", func() {
		u.OuterProductI16(regs.Some(regs.XBytes(0)), regs.Some(regs.YBytes(0)), 0, false)
		once := u.ReadZ()
		u.OuterProductI16(regs.Some(regs.XBytes(0)), regs.Some(regs.YBytes(0)), 0, false)
		Expect(u.ReadZ()).To(Equal(once))
	})

	It("should broadcast x into every even row when y is excluded", func() {
		u.OuterProductI16(regs.Some(regs.XBytes(0)), regs.NoY, 0, false)

		z := zInt16(u)
		for j := 0; j < 32; j++ {
			Expect(z[2*j][:]).To(Equal(x))
		}
	})

	It("should write ones when both operands are excluded", func() {
		u.OuterProductI16(regs.NoX, regs.NoY, 1, false)

		z := zInt16(u)
		Expect(z[0]).To(BeZero())
		for i := 0; i < 32; i++ {
			Expect(z[1][i]).To(Equal(int16(1)))
			Expect(z[63][i]).To(Equal(int16(1)))
		}
	})

	It("should only use the low bit of the Z row", func() {
		u.OuterProductI16(regs.Some(regs.XBytes(0)), regs.Some(regs.YBytes(0)), 1, false)
		odd := u.ReadZ()
		u.Load512(make([]byte, 64), regs.ZRow(1))
		u.OuterProductI16(regs.Some(regs.XBytes(0)), regs.Some(regs.YBytes(0)), 61, false)
		Expect(u.ReadZ()).To(Equal(odd))
	})

	It("should reject out-of-range operands", func() {
		Expect(func() {
			u.OuterProductI16(regs.Some(regs.XBytes(512)), regs.NoY, 0, false)
		}).To(PanicWith(MatchError(regs.ErrOutOfRange)))
		Expect(func() {
			u.OuterProductI16(regs.NoX, regs.NoY, 64, false)
		}).To(PanicWith(MatchError(regs.ErrOutOfRange)))
	})

	It("should encode the exclusion and accumulate flags", func() {
		op := insts.DecodeMac(amx.EncodeOuterProduct(regs.Some(regs.XBytes(130)), regs.NoY, 5, true))
		Expect(op).To(Equal(insts.MacOperand{XOffset: 130, ZRow: 5, SkipY: true}))
	})

	Context("floating point", func() {
		It("should compute the f32 outer product into every fourth row", func() {
			xf, yf := make([]float32, 16), make([]float32, 16)
			for i := range xf {
				xf[i] = float32(i) / 4
				yf[i] = float32(i) - 8
			}
			u.Load512(amx.Bytes(xf), regs.XRow(1))
			u.Load512(amx.Bytes(yf), regs.YRow(1))
			u.OuterProductF32(regs.Some(regs.XBytes(64)), regs.Some(regs.YBytes(64)), 2, false)

			z := u.ReadZ()
			for j := 0; j < 16; j++ {
				row := make([]float32, 16)
				copy(amx.Bytes(row), z[(4*j+2)*64:])
				for i := range row {
					Expect(row[i]).To(Equal(xf[i] * yf[j]))
				}
			}
		})

		It("should accumulate f64 products", func() {
			xd := []float64{1, 2, 3, 4, 5, 6, 7, 8}
			yd := []float64{0.5, 0.5, 0.5, 0.5, 0.5, 0.5, 0.5, math.Inf(1)}
			u.Load512(amx.Bytes(xd), regs.XRow(2))
			u.Load512(amx.Bytes(yd), regs.YRow(2))
			for n := 0; n < 3; n++ {
				u.OuterProductF64(regs.Some(regs.XBytes(128)), regs.Some(regs.YBytes(128)), 0, n > 0)
			}

			z := u.ReadZ()
			row := make([]float64, 8)
			copy(amx.Bytes(row), z[8*64:])
			Expect(row).To(Equal([]float64{1.5, 3, 4.5, 6, 7.5, 9, 10.5, 12}))
			copy(amx.Bytes(row), z[56*64:])
			Expect(row[0]).To(Equal(math.Inf(1)))
		})
	})
})
