package regs

import "errors"

// Misuse errors. Operations that detect one of these panic with an error
// wrapping it; validators return it.
var (
	// ErrOutOfRange is a row or byte offset outside its register file.
	ErrOutOfRange = errors.New("register address out of range")

	// ErrUnaligned is a 1024-bit transfer buffer not aligned to 128 bytes.
	ErrUnaligned = errors.New("buffer not aligned to 128 bytes")

	// ErrBufferSize is a transfer buffer whose length differs from the
	// transfer size.
	ErrBufferSize = errors.New("buffer length does not match transfer size")

	// ErrOverlap is a genlut index source overlapping its table row.
	ErrOverlap = errors.New("lookup index source overlaps table row")

	// ErrUnsupportedLut is a genlut mode, index width and element type
	// combination the hardware does not provide.
	ErrUnsupportedLut = errors.New("unsupported lookup type")

	// ErrInvalidOperand is a raw operand word with fields a backend cannot
	// execute.
	ErrInvalidOperand = errors.New("invalid operand word")
)

// Check panics with err if it is non-nil.
func Check(err error) {
	if err != nil {
		panic(err)
	}
}
