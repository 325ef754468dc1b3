package emu

import "github.com/sarchlab/m2amx/regs"

// zLane is the Z location of one memory byte of an interleaved transfer.
type zLane struct {
	odd    uint8 // 0 for row&^1, 1 for row|1
	offset uint8 // byte within the row
}

// zInterleave maps memory bytes of LDZI/STZI to Z, indexed by the parity of
// the row operand. Memory 32-bit word 2k is word h+k of the even row and
// memory word 2k+1 is word h+k of the odd row, where h is 8 for odd row
// operands and 0 otherwise.
var zInterleave = buildInterleave()

func buildInterleave() [2][regs.RowBytes]zLane {
	var table [2][regs.RowBytes]zLane
	for parity := 0; parity < 2; parity++ {
		half := parity * 8
		for m := 0; m < regs.RowBytes; m++ {
			word := m / 4
			table[parity][m] = zLane{
				odd:    uint8(word & 1),
				offset: uint8((half+word/2)*4 + m%4),
			}
		}
	}
	return table
}
