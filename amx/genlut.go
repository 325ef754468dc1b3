package amx

import (
	"fmt"

	"github.com/sarchlab/m2amx/insts"
	"github.com/sarchlab/m2amx/regs"
)

// Lut performs a generalized table lookup (or, in Generate mode, a reverse
// lookup) with lane format ty.
//
// input is the byte offset of the packed indices in X or Y; the indices may
// straddle a row boundary and wrap past the end of the file, in which case
// the caller must have loaded both rows. table is the X row holding the
// table. output receives one register of results.
//
// Lut panics if ValidateLut rejects the combination.
func (u *Unit) Lut(input regs.Offset, table regs.XRow, output regs.Row, ty insts.LutType) {
	operand, err := EncodeLut(input, table, output, ty)
	regs.Check(err)
	u.ops.GENLUT(operand)
}

// ValidateLut reports whether a lookup is representable: every address is
// in range, ty is supported, and the source bytes do not overlap the table
// row in either 512-byte page of the shared register file.
func ValidateLut(input regs.Offset, table regs.XRow, output regs.Row, ty insts.LutType) error {
	_, err := EncodeLut(input, table, output, ty)
	return err
}

// EncodeLut validates a lookup and packs its operand word.
func EncodeLut(input regs.Offset, table regs.XRow, output regs.Row, ty insts.LutType) (uint64, error) {
	if err := input.Validate(); err != nil {
		return 0, fmt.Errorf("lookup source: %w", err)
	}
	if err := table.Validate(); err != nil {
		return 0, fmt.Errorf("lookup table: %w", err)
	}
	if err := output.Validate(); err != nil {
		return 0, fmt.Errorf("lookup destination: %w", err)
	}

	mode, err := ty.Code()
	if err != nil {
		return 0, err
	}

	if input.File() == table.File() {
		src := regs.ByteRange{Start: input.Bytes(), End: input.Bytes() + uint(ty.SourceBytes())}
		tab := regs.RowRange(table.Index())
		if src.Overlaps(tab) || src.Overlaps(tab.Shift(regs.XYBytes)) {
			return 0, fmt.Errorf("%w: %s bytes %#x-%#x and table row %d",
				regs.ErrOverlap, input.File(), src.Start, src.End, table)
		}
	}

	op := insts.GenlutOperand{
		SrcOffset: uint16(input.Bytes()),
		SrcY:      input.File() == regs.FileY,
		DstRow:    uint8(output.Index()),
		DstY:      output.File() == regs.FileY,
		DstZ:      output.File() == regs.FileZ,
		Mode:      mode,
		TableRow:  uint8(table),
	}
	return op.Encode(), nil
}
