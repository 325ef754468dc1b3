package emu_test

import (
	"bytes"

	"github.com/rs/xid"
	"github.com/sirupsen/logrus"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/m2amx/amx"
	"github.com/sarchlab/m2amx/emu"
	"github.com/sarchlab/m2amx/insts"
	"github.com/sarchlab/m2amx/regs"
)

var _ amx.Ops = (*emu.Emulator)(nil)

func rowOperand(row uint8) uint64 {
	return insts.MemOperand{Row: row}.Encode()
}

func pattern(n int, seed byte) []byte {
	buf := make([]byte, n)
	for i := range buf {
		buf[i] = seed + byte(i)
	}
	return buf
}

var _ = Describe("Emulator", func() {
	var e *emu.Emulator

	BeforeEach(func() {
		e = emu.NewEmulator()
	})

	Describe("Register file", func() {
		It("should start zeroed", func() {
			Expect(e.RegFile().X).To(BeZero())
			Expect(e.RegFile().Y).To(BeZero())
			Expect(e.RegFile().Z).To(BeZero())
		})

		It("should read operands across the end of X", func() {
			e.RegFile().X[7][63] = 0xAA
			e.RegFile().X[0][0] = 0xBB

			op := e.RegFile().Operand(regs.FileX, 511)
			Expect(op[0]).To(Equal(byte(0xAA)))
			Expect(op[1]).To(Equal(byte(0xBB)))
		})
	})

	Describe("Loads and stores", func() {
		It("should load and store one row of each file", func() {
			buf := make([]byte, 64)

			e.LDX(pattern(64, 1), rowOperand(3))
			e.STX(buf, rowOperand(3))
			Expect(buf).To(Equal(pattern(64, 1)))

			e.LDY(pattern(64, 2), rowOperand(7))
			e.STY(buf, rowOperand(7))
			Expect(buf).To(Equal(pattern(64, 2)))

			e.LDZ(pattern(64, 3), rowOperand(63))
			e.STZ(buf, rowOperand(63))
			Expect(buf).To(Equal(pattern(64, 3)))

			Expect(e.InstructionCount()).To(Equal(uint64(6)))
			Expect(e.OpCount(insts.OpLDZ)).To(Equal(uint64(1)))
		})

		It("should transfer two rows with the pair flag", func() {
			e.LDX(pattern(128, 0), insts.MemOperand{Row: 2, Pair: true}.Encode())
			Expect(e.RegFile().X[2][:]).To(Equal(pattern(64, 0)))
			Expect(e.RegFile().X[3][:]).To(Equal(pattern(64, 64)))
		})

		It("should wrap the second row of a pair at the end of the file", func() {
			e.LDY(pattern(128, 0), insts.MemOperand{Row: 7, Pair: true}.Encode())
			Expect(e.RegFile().Y[7][:]).To(Equal(pattern(64, 0)))
			Expect(e.RegFile().Y[0][:]).To(Equal(pattern(64, 64)))
		})

		It("should reject buffers of the wrong length", func() {
			Expect(func() { e.LDX(make([]byte, 63), rowOperand(0)) }).
				To(PanicWith(MatchError(regs.ErrBufferSize)))
			Expect(func() { e.STZ(make([]byte, 64), insts.MemOperand{Pair: true}.Encode()) }).
				To(PanicWith(MatchError(regs.ErrBufferSize)))
		})

		It("should reject rows past the file in strict mode", func() {
			Expect(func() { e.LDX(make([]byte, 64), rowOperand(8)) }).
				To(PanicWith(MatchError(regs.ErrOutOfRange)))
		})

		It("should wrap rows past the file when not strict", func() {
			lenient := emu.NewEmulator(emu.WithStrict(false))
			lenient.LDX(pattern(64, 9), rowOperand(9))
			Expect(lenient.RegFile().X[1][:]).To(Equal(pattern(64, 9)))
		})
	})

	Describe("Interleaved Z transfers", func() {
		It("should split 32-bit words between a row pair", func() {
			src := pattern(64, 0)
			e.LDZI(src, rowOperand(4))

			z := e.RegFile().Z
			for k := 0; k < 8; k++ {
				Expect(z[4][4*k : 4*k+4]).To(Equal(src[8*k : 8*k+4]))
				Expect(z[5][4*k : 4*k+4]).To(Equal(src[8*k+4 : 8*k+8]))
			}
			Expect(z[4][32:]).To(Equal(make([]byte, 32)))
		})

		It("should use the upper halves for odd rows", func() {
			e.LDZI(pattern(64, 0), rowOperand(5))
			z := e.RegFile().Z
			Expect(z[4][:32]).To(Equal(make([]byte, 32)))
			Expect(z[4][32:36]).To(Equal([]byte{0, 1, 2, 3}))
			Expect(z[5][32:36]).To(Equal([]byte{4, 5, 6, 7}))
		})

		It("should invert LDZI with STZI", func() {
			for _, row := range []uint8{0, 1, 30, 63} {
				src := pattern(64, row)
				e.LDZI(src, rowOperand(row))
				dst := make([]byte, 64)
				e.STZI(dst, rowOperand(row))
				Expect(dst).To(Equal(src))
			}
		})

		It("should map every byte of a row pair exactly once", func() {
			seen := map[[2]int]bool{}
			for _, row := range []uint8{10, 11} {
				e.Reset()
				e.LDZI(pattern(64, 1), rowOperand(row))
				z := e.RegFile().Z
				for r := 10; r <= 11; r++ {
					for b, v := range z[r] {
						if v != 0 {
							Expect(seen[[2]int{r, b}]).To(BeFalse())
							seen[[2]int{r, b}] = true
						}
					}
				}
			}
			Expect(seen).To(HaveLen(128))
		})
	})

	Describe("Options", func() {
		It("should trace instructions at debug level", func() {
			var out bytes.Buffer
			logger := logrus.New()
			logger.SetOutput(&out)
			logger.SetLevel(logrus.DebugLevel)

			id := xid.New()
			traced := emu.NewEmulator(emu.WithLogger(logger), emu.WithID(id))
			traced.MAC16(0)

			Expect(traced.ID()).To(Equal(id))
			Expect(out.String()).To(ContainSubstring("AMX step"))
			Expect(out.String()).To(ContainSubstring("op=MAC16"))
			Expect(out.String()).To(ContainSubstring(id.String()))
		})

		It("should not trace above debug level", func() {
			var out bytes.Buffer
			logger := logrus.New()
			logger.SetOutput(&out)
			logger.SetLevel(logrus.InfoLevel)

			emu.NewEmulator(emu.WithLogger(logger)).MAC16(0)
			Expect(out.Len()).To(BeZero())
		})

		It("should reset state and counters", func() {
			e.LDX(pattern(64, 1), rowOperand(0))
			e.Reset()
			Expect(e.RegFile().X).To(BeZero())
			Expect(e.InstructionCount()).To(BeZero())
			Expect(e.OpCount(insts.OpLDX)).To(BeZero())
		})
	})
})
