package insts

// Memory operand layout (LDX, LDY, STX, STY, LDZ, STZ, LDZI, STZI).
const (
	AddrMask   uint64 = 1<<56 - 1
	memRowBit         = 56
	memRowMask uint64 = 0x3F
	memPairBit        = 62
)

// MemOperand is the operand of a load or store. The address field is set
// by the backend from the caller buffer; operands built by the core leave
// it zero.
type MemOperand struct {
	Addr uint64 // bits [55:0]
	Row  uint8  // bits [61:56]
	Pair bool   // bit 62: transfer two consecutive rows (128 bytes)
}

// Encode packs the operand into its 64-bit word.
func (o MemOperand) Encode() uint64 {
	word := o.Addr&AddrMask | (uint64(o.Row)&memRowMask)<<memRowBit
	if o.Pair {
		word |= 1 << memPairBit
	}
	return word
}

// DecodeMem unpacks a load/store operand word.
func DecodeMem(word uint64) MemOperand {
	return MemOperand{
		Addr: word & AddrMask,
		Row:  uint8((word >> memRowBit) & memRowMask),
		Pair: (word>>memPairBit)&1 == 1,
	}
}

// Outer-product operand layout (MAC16, FMA32, FMA64).
const (
	macYOffsetBit         = 0
	macXOffsetBit         = 10
	macOffsetMask  uint64 = 0x3FF
	macZRowBit            = 20
	macZRowMask    uint64 = 0x3F
	macSkipZBit           = 27
	macSkipXBit           = 28
	macSkipYBit           = 29
	macOffsetLimit        = 0x200
)

// MacOperand is the operand of an outer-product multiply-accumulate.
type MacOperand struct {
	YOffset      uint16 // bits [9:0], byte offset into Y
	XOffset      uint16 // bits [19:10], byte offset into X
	ZRow         uint8  // bits [25:20]
	NoAccumulate bool   // bit 27: ignore the existing Z contents
	SkipX        bool   // bit 28: use 1 in place of the X operand
	SkipY        bool   // bit 29: use 1 in place of the Y operand
}

// Encode packs the operand into its 64-bit word.
func (o MacOperand) Encode() uint64 {
	word := (uint64(o.YOffset)&macOffsetMask)<<macYOffsetBit |
		(uint64(o.XOffset)&macOffsetMask)<<macXOffsetBit |
		(uint64(o.ZRow)&macZRowMask)<<macZRowBit
	word |= boolBit(o.NoAccumulate, macSkipZBit)
	word |= boolBit(o.SkipX, macSkipXBit)
	word |= boolBit(o.SkipY, macSkipYBit)
	return word
}

// DecodeMac unpacks an outer-product operand word.
func DecodeMac(word uint64) MacOperand {
	return MacOperand{
		YOffset:      uint16((word >> macYOffsetBit) & macOffsetMask),
		XOffset:      uint16((word >> macXOffsetBit) & macOffsetMask),
		ZRow:         uint8((word >> macZRowBit) & macZRowMask),
		NoAccumulate: bitSet(word, macSkipZBit),
		SkipX:        bitSet(word, macSkipXBit),
		SkipY:        bitSet(word, macSkipYBit),
	}
}

// OffsetsInRange reports whether both byte offsets address the X/Y files.
// The 10-bit fields can carry values the hardware wraps silently.
func (o MacOperand) OffsetsInRange() bool {
	return o.XOffset < macOffsetLimit && o.YOffset < macOffsetLimit
}

// genlut operand layout.
const (
	lutSrcOffsetBit         = 0
	lutSrcOffsetMask uint64 = 0x1FF
	lutSrcYBit              = 10
	lutDstRowBit            = 20
	lutDstXYRowMask  uint64 = 0x7
	lutDstZRowMask   uint64 = 0x3F
	lutDstYBit              = 25
	lutDstZBit              = 26
	lutModeBit              = 53
	lutModeMask      uint64 = 0xF
	lutTableYBit            = 59
	lutTableRowBit          = 60
	lutTableRowMask  uint64 = 0x7
)

// GenlutOperand is the operand of a genlut instruction.
type GenlutOperand struct {
	SrcOffset uint16 // bits [8:0], byte offset of the index (or value) source
	SrcY      bool   // bit 10: source is Y rather than X
	DstRow    uint8  // bits [22:20] for X/Y, bits [25:20] for Z
	DstY      bool   // bit 25: destination is Y (ignored when DstZ)
	DstZ      bool   // bit 26: destination is Z
	Mode      uint8  // bits [56:53], see LutType.Code
	TableY    bool   // bit 59: table is Y rather than X
	TableRow  uint8  // bits [62:60]
}

// Encode packs the operand into its 64-bit word.
func (o GenlutOperand) Encode() uint64 {
	word := (uint64(o.SrcOffset) & lutSrcOffsetMask) << lutSrcOffsetBit
	word |= boolBit(o.SrcY, lutSrcYBit)
	if o.DstZ {
		word |= (uint64(o.DstRow) & lutDstZRowMask) << lutDstRowBit
		word |= 1 << lutDstZBit
	} else {
		word |= (uint64(o.DstRow) & lutDstXYRowMask) << lutDstRowBit
		word |= boolBit(o.DstY, lutDstYBit)
	}
	word |= (uint64(o.Mode) & lutModeMask) << lutModeBit
	word |= boolBit(o.TableY, lutTableYBit)
	word |= (uint64(o.TableRow) & lutTableRowMask) << lutTableRowBit
	return word
}

// DecodeGenlut unpacks a genlut operand word.
func DecodeGenlut(word uint64) GenlutOperand {
	o := GenlutOperand{
		SrcOffset: uint16((word >> lutSrcOffsetBit) & lutSrcOffsetMask),
		SrcY:      bitSet(word, lutSrcYBit),
		DstZ:      bitSet(word, lutDstZBit),
		Mode:      uint8((word >> lutModeBit) & lutModeMask),
		TableY:    bitSet(word, lutTableYBit),
		TableRow:  uint8((word >> lutTableRowBit) & lutTableRowMask),
	}
	if o.DstZ {
		o.DstRow = uint8((word >> lutDstRowBit) & lutDstZRowMask)
	} else {
		o.DstRow = uint8((word >> lutDstRowBit) & lutDstXYRowMask)
		o.DstY = bitSet(word, lutDstYBit)
	}
	return o
}

func boolBit(b bool, bit uint) uint64 {
	if b {
		return 1 << bit
	}
	return 0
}

func bitSet(word uint64, bit uint) bool {
	return (word>>bit)&1 == 1
}
