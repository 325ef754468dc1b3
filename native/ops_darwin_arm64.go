//go:build !noasm && darwin && arm64

package native

import "unsafe"

// The memory stubs merge the low 56 bits of ptr into operand.

//go:noescape
func amxLDX(ptr unsafe.Pointer, operand uint64)

//go:noescape
func amxLDY(ptr unsafe.Pointer, operand uint64)

//go:noescape
func amxSTX(ptr unsafe.Pointer, operand uint64)

//go:noescape
func amxSTY(ptr unsafe.Pointer, operand uint64)

//go:noescape
func amxLDZ(ptr unsafe.Pointer, operand uint64)

//go:noescape
func amxSTZ(ptr unsafe.Pointer, operand uint64)

//go:noescape
func amxLDZI(ptr unsafe.Pointer, operand uint64)

//go:noescape
func amxSTZI(ptr unsafe.Pointer, operand uint64)

func amxFMA64(operand uint64)

func amxFMA32(operand uint64)

func amxMAC16(operand uint64)

func amxGENLUT(operand uint64)

func amxSet()

func amxClr()
