package insts_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/m2amx/insts"
)

var _ = Describe("Operands", func() {
	Describe("MemOperand", func() {
		It("should place the row in bits 56-61 and the pair flag in bit 62", func() {
			word := insts.MemOperand{Row: 5, Pair: true}.Encode()
			Expect(word).To(Equal(uint64(5)<<56 | uint64(1)<<62))
		})

		It("should keep the address in the low 56 bits", func() {
			word := insts.MemOperand{Addr: 0xFF12_3456_789A_BCDE, Row: 63}.Encode()
			Expect(word & insts.AddrMask).To(Equal(uint64(0x12_3456_789A_BCDE)))

			op := insts.DecodeMem(word)
			Expect(op.Row).To(Equal(uint8(63)))
			Expect(op.Pair).To(BeFalse())
			Expect(op.Addr).To(Equal(uint64(0x12_3456_789A_BCDE)))
		})
	})

	Describe("MacOperand", func() {
		It("should match the documented bit layout", func() {
			word := insts.MacOperand{
				YOffset:      0x40,
				XOffset:      0x80,
				ZRow:         1,
				NoAccumulate: true,
			}.Encode()
			Expect(word).To(Equal(uint64(0x40 | 0x80<<10 | 1<<20 | 1<<27)))
		})

		It("should set the skip flags in bits 28 and 29", func() {
			Expect(insts.MacOperand{SkipX: true}.Encode()).To(Equal(uint64(1) << 28))
			Expect(insts.MacOperand{SkipY: true}.Encode()).To(Equal(uint64(1) << 29))
		})

		It("should round trip through DecodeMac", func() {
			ops := []insts.MacOperand{
				{},
				{YOffset: 0x1FF, XOffset: 0x1FF, ZRow: 63},
				{YOffset: 196, XOffset: 196, ZRow: 1, SkipX: true},
				{ZRow: 2, NoAccumulate: true, SkipY: true},
			}
			for _, op := range ops {
				Expect(insts.DecodeMac(op.Encode())).To(Equal(op))
			}
		})

		It("should flag offsets past the X/Y files", func() {
			Expect(insts.MacOperand{XOffset: 0x1FF}.OffsetsInRange()).To(BeTrue())
			Expect(insts.DecodeMac(0x200).OffsetsInRange()).To(BeFalse())
		})
	})

	Describe("GenlutOperand", func() {
		It("should match the documented bit layout for an X destination", func() {
			word := insts.GenlutOperand{
				SrcOffset: 0x1C0,
				SrcY:      true,
				DstRow:    3,
				Mode:      13,
				TableRow:  6,
			}.Encode()
			Expect(word).To(Equal(uint64(0x1C0 | 1<<10 | 3<<20 | 13<<53 | 6<<60)))
		})

		It("should use six destination bits for Z", func() {
			word := insts.GenlutOperand{DstRow: 63, DstZ: true}.Encode()
			Expect(word).To(Equal(uint64(63<<20 | 1<<26)))

			op := insts.DecodeGenlut(word)
			Expect(op.DstZ).To(BeTrue())
			Expect(op.DstY).To(BeFalse())
			Expect(op.DstRow).To(Equal(uint8(63)))
		})

		It("should round trip through DecodeGenlut", func() {
			ops := []insts.GenlutOperand{
				{},
				{SrcOffset: 511, DstRow: 7, DstY: true, Mode: 15, TableY: true, TableRow: 7},
				{SrcOffset: 33, SrcY: true, DstRow: 40, DstZ: true, Mode: 2, TableRow: 1},
			}
			for _, op := range ops {
				Expect(insts.DecodeGenlut(op.Encode())).To(Equal(op))
			}
		})
	})
})
