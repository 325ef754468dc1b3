// Package insts provides AMX instruction definitions, encoding and decoding.
//
// AMX instructions occupy a reserved corner of the ARM64 encoding space.
// Every instruction is the word 0x00201000 | op<<5 | reg, where op is a
// 5-bit opcode and reg names the general-purpose register holding the
// 64-bit operand. The package provides:
//   - Op numbering and 32-bit instruction word encode/decode
//   - Operand word value types for loads/stores, outer products and genlut
//   - The table of genlut lane formats and their mode codes
//
// Usage:
//
//	decoder := insts.NewDecoder()
//	inst := decoder.Decode(0x002011c3) // MAC16 X3
//	fmt.Printf("Op: %v, Reg: %d\n", inst.Op, inst.Reg)
//
//	word := insts.MacOperand{ZRow: 1, NoAccumulate: true}.Encode()
package insts
