//go:build noasm || !(darwin && arm64)

package native

const hasAMX = false

// Context is an enabled AMX register file. It cannot be created on this
// platform.
type Context struct{}

// Bind always fails on this platform.
func Bind() (*Context, error) {
	return nil, ErrUnavailable
}

// Close is a no-op.
func (c *Context) Close() error { return nil }

func (c *Context) LDX(src []byte, operand uint64)  { panic(ErrUnavailable) }
func (c *Context) LDY(src []byte, operand uint64)  { panic(ErrUnavailable) }
func (c *Context) LDZ(src []byte, operand uint64)  { panic(ErrUnavailable) }
func (c *Context) LDZI(src []byte, operand uint64) { panic(ErrUnavailable) }
func (c *Context) STX(dst []byte, operand uint64)  { panic(ErrUnavailable) }
func (c *Context) STY(dst []byte, operand uint64)  { panic(ErrUnavailable) }
func (c *Context) STZ(dst []byte, operand uint64)  { panic(ErrUnavailable) }
func (c *Context) STZI(dst []byte, operand uint64) { panic(ErrUnavailable) }
func (c *Context) FMA64(operand uint64)            { panic(ErrUnavailable) }
func (c *Context) FMA32(operand uint64)            { panic(ErrUnavailable) }
func (c *Context) MAC16(operand uint64)            { panic(ErrUnavailable) }
func (c *Context) GENLUT(operand uint64)           { panic(ErrUnavailable) }
