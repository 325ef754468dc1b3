package regs_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/m2amx/regs"
)

var _ = Describe("Registers", func() {
	It("should report the file geometry", func() {
		Expect(regs.FileX.Rows()).To(Equal(uint(8)))
		Expect(regs.FileY.Rows()).To(Equal(uint(8)))
		Expect(regs.FileZ.Rows()).To(Equal(uint(64)))
		Expect(regs.XYBytes).To(Equal(512))
		Expect(regs.FileZ.String()).To(Equal("Z"))
	})

	It("should tag each address with its file", func() {
		rows := []regs.Row{regs.XRow(1), regs.YRow(1), regs.ZRow(1)}
		Expect(rows[0].File()).To(Equal(regs.FileX))
		Expect(rows[1].File()).To(Equal(regs.FileY))
		Expect(rows[2].File()).To(Equal(regs.FileZ))

		var off regs.Offset = regs.YBytes(100)
		Expect(off.File()).To(Equal(regs.FileY))
		Expect(off.Bytes()).To(Equal(uint(100)))
	})

	DescribeTable("should validate rows against their own file",
		func(row regs.Row, valid bool) {
			if valid {
				Expect(row.Validate()).To(Succeed())
			} else {
				Expect(row.Validate()).To(MatchError(regs.ErrOutOfRange))
			}
		},
		Entry("X7", regs.XRow(7), true),
		Entry("X8", regs.XRow(8), false),
		Entry("Y8", regs.YRow(8), false),
		Entry("Z8", regs.ZRow(8), true),
		Entry("Z63", regs.ZRow(63), true),
		Entry("Z64", regs.ZRow(64), false),
	)

	It("should validate byte offsets against 512 bytes", func() {
		Expect(regs.XBytes(511).Validate()).To(Succeed())
		Expect(regs.XBytes(512).Validate()).To(MatchError(regs.ErrOutOfRange))
		Expect(regs.YBytes(4096).Validate()).To(MatchError(regs.ErrOutOfRange))
	})

	It("should convert between rows and offsets", func() {
		Expect(regs.XBytes(130).Row()).To(Equal(regs.XRow(2)))
		Expect(regs.YRow(3).Start()).To(Equal(regs.YBytes(192)))
	})

	It("should build optional operands", func() {
		Expect(regs.NoX.Valid).To(BeFalse())
		op := regs.Some(regs.YBytes(64))
		Expect(op.Valid).To(BeTrue())
		Expect(op.Value).To(Equal(regs.YBytes(64)))
	})

	It("should detect overlapping byte ranges", func() {
		row := regs.RowRange(2)
		Expect(row).To(Equal(regs.ByteRange{Start: 128, End: 192}))
		Expect(row.Overlaps(regs.ByteRange{Start: 100, End: 129})).To(BeTrue())
		Expect(row.Overlaps(regs.ByteRange{Start: 64, End: 128})).To(BeFalse())
		Expect(row.Overlaps(regs.ByteRange{Start: 192, End: 256})).To(BeFalse())
		Expect(row.Shift(512)).To(Equal(regs.ByteRange{Start: 640, End: 704}))
	})

	It("should panic on Check with an error", func() {
		Expect(func() { regs.Check(nil) }).ToNot(Panic())
		Expect(func() { regs.Check(regs.ErrOverlap) }).To(PanicWith(MatchError(regs.ErrOverlap)))
	})
})
