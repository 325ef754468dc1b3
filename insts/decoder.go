package insts

import "fmt"

// Op is an AMX opcode.
type Op uint8

// AMX opcodes. The values are the hardware opcode field, except OpCLR which
// shares opcode 17 with OpSET and is distinguished by the register field.
const (
	OpLDX    Op = 0
	OpLDY    Op = 1
	OpSTX    Op = 2
	OpSTY    Op = 3
	OpLDZ    Op = 4
	OpSTZ    Op = 5
	OpLDZI   Op = 6
	OpSTZI   Op = 7
	OpEXTRX  Op = 8
	OpEXTRY  Op = 9
	OpFMA64  Op = 10
	OpFMS64  Op = 11
	OpFMA32  Op = 12
	OpFMS32  Op = 13
	OpMAC16  Op = 14
	OpFMA16  Op = 15
	OpFMS16  Op = 16
	OpSET    Op = 17
	OpVECINT Op = 18
	OpVECFP  Op = 19
	OpMATINT Op = 20
	OpMATFP  Op = 21
	OpGENLUT Op = 22

	OpCLR     Op = 0x40
	OpUnknown Op = 0xFF
)

var opNames = map[Op]string{
	OpLDX:    "LDX",
	OpLDY:    "LDY",
	OpSTX:    "STX",
	OpSTY:    "STY",
	OpLDZ:    "LDZ",
	OpSTZ:    "STZ",
	OpLDZI:   "LDZI",
	OpSTZI:   "STZI",
	OpEXTRX:  "EXTRX",
	OpEXTRY:  "EXTRY",
	OpFMA64:  "FMA64",
	OpFMS64:  "FMS64",
	OpFMA32:  "FMA32",
	OpFMS32:  "FMS32",
	OpMAC16:  "MAC16",
	OpFMA16:  "FMA16",
	OpFMS16:  "FMS16",
	OpSET:    "SET",
	OpVECINT: "VECINT",
	OpVECFP:  "VECFP",
	OpMATINT: "MATINT",
	OpMATFP:  "MATFP",
	OpGENLUT: "GENLUT",
	OpCLR:    "CLR",
}

// String returns the mnemonic of the opcode.
func (op Op) String() string {
	if name, ok := opNames[op]; ok {
		return name
	}
	return fmt.Sprintf("Op(%d)", uint8(op))
}

// IsMemoryOp reports whether the opcode transfers data between memory and
// the register file.
func (op Op) IsMemoryOp() bool {
	return op <= OpSTZI
}

// IsStore reports whether the opcode writes memory.
func (op Op) IsStore() bool {
	switch op {
	case OpSTX, OpSTY, OpSTZ, OpSTZI:
		return true
	default:
		return false
	}
}

// Instruction word layout.
const (
	instBase   uint32 = 0x00201000
	instMask   uint32 = 0xFFFFFC00
	opShift           = 5
	opMask     uint32 = 0x1F
	regMask    uint32 = 0x1F
	maxHWOp           = OpGENLUT
	clrRegBits uint32 = 1
)

// Instruction is a decoded AMX instruction word.
type Instruction struct {
	Op  Op
	Reg uint8 // General-purpose register holding the operand (X0-X30)
}

// Encode returns the 32-bit instruction word issuing op with its operand in
// general-purpose register reg. SET and CLR take no operand; reg is ignored.
func Encode(op Op, reg uint8) (uint32, error) {
	switch {
	case op == OpSET:
		return instBase | uint32(OpSET)<<opShift, nil
	case op == OpCLR:
		return instBase | uint32(OpSET)<<opShift | clrRegBits, nil
	case op > maxHWOp:
		return 0, fmt.Errorf("cannot encode %v", op)
	case reg > 30:
		return 0, fmt.Errorf("register X%d cannot hold an AMX operand", reg)
	}
	return instBase | uint32(op)<<opShift | uint32(reg), nil
}

// Decoder decodes 32-bit words into AMX instructions.
type Decoder struct{}

// NewDecoder creates a new AMX instruction decoder.
func NewDecoder() *Decoder {
	return &Decoder{}
}

// Decode decodes a 32-bit instruction word. Words outside the AMX encoding
// space decode to OpUnknown.
func (d *Decoder) Decode(word uint32) *Instruction {
	inst := &Instruction{Op: OpUnknown}

	if word&instMask != instBase {
		return inst
	}

	op := Op((word >> opShift) & opMask) // bits [9:5]
	reg := uint8(word & regMask)         // bits [4:0]

	switch {
	case op == OpSET:
		// SET/CLR carry an immediate in the register field
		switch uint32(reg) {
		case 0:
			inst.Op = OpSET
		case clrRegBits:
			inst.Op = OpCLR
		}
	case op <= maxHWOp:
		inst.Op = op
		inst.Reg = reg
	}

	return inst
}
