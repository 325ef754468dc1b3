//go:build !noasm && darwin && arm64

package native

import (
	"fmt"
	"runtime"
	"strings"
	"sync"
	"syscall"
	"unsafe"

	"golang.org/x/sys/unix"
)

// Signal masking constants for macOS.
const (
	sigBlock   = 1  // SIG_BLOCK
	sigSetmask = 3  // SIG_SETMASK
	sigURG     = 16 // SIGURG on macOS
)

var hasAMX = detectAMX()

// detectAMX checks the CPU brand via sysctl. Every Apple M-series core
// carries the coprocessor.
func detectAMX() bool {
	brand, err := unix.Sysctl("machdep.cpu.brand_string")
	if err != nil {
		return false
	}
	return strings.HasPrefix(brand, "Apple M")
}

// bound holds the IDs of threads with a live Context.
var bound sync.Map

// Context is an enabled AMX register file on the current OS thread. It
// implements amx.Ops.
type Context struct {
	tid     uint64
	oldmask uint32
	closed  bool
}

// Bind locks the calling goroutine to its OS thread and enables AMX on it.
//
// Asynchronous preemption signals are blocked while the Context is live:
// the kernel does not save coprocessor state for user signal handlers.
func Bind() (*Context, error) {
	if !Available() {
		return nil, ErrUnavailable
	}

	runtime.LockOSThread()
	tid := threadID()
	if _, loaded := bound.LoadOrStore(tid, struct{}{}); loaded {
		runtime.UnlockOSThread()
		return nil, fmt.Errorf("%w: thread %d", ErrAlreadyBound, tid)
	}

	c := &Context{tid: tid}
	newmask := uint32(1 << (sigURG - 1))
	syscall.RawSyscall(syscall.SYS_SIGPROCMASK, sigBlock,
		uintptr(unsafe.Pointer(&newmask)),
		uintptr(unsafe.Pointer(&c.oldmask)))

	amxSet()
	return c, nil
}

// Close disables AMX, discarding the register file, and unbinds the
// thread. Close is idempotent.
func (c *Context) Close() error {
	if c.closed {
		return nil
	}
	amxClr()
	c.release()
	return nil
}

func (c *Context) release() {
	c.closed = true
	bound.Delete(c.tid)
	syscall.RawSyscall(syscall.SYS_SIGPROCMASK, sigSetmask,
		uintptr(unsafe.Pointer(&c.oldmask)), 0)
	runtime.UnlockOSThread()
}

func (c *Context) live() {
	if c.closed {
		panic(errClosedContext)
	}
}

func threadID() uint64 {
	tid, _, _ := syscall.RawSyscall(unix.SYS_THREAD_SELFID, 0, 0, 0)
	return uint64(tid)
}

// LDX loads X rows from src.
func (c *Context) LDX(src []byte, operand uint64) {
	c.live()
	checkLen(src, operand)
	amxLDX(unsafe.Pointer(unsafe.SliceData(src)), operand)
}

// LDY loads Y rows from src.
func (c *Context) LDY(src []byte, operand uint64) {
	c.live()
	checkLen(src, operand)
	amxLDY(unsafe.Pointer(unsafe.SliceData(src)), operand)
}

// LDZ loads Z rows from src.
func (c *Context) LDZ(src []byte, operand uint64) {
	c.live()
	checkLen(src, operand)
	amxLDZ(unsafe.Pointer(unsafe.SliceData(src)), operand)
}

// LDZI loads Z row halves from src with interleaving.
func (c *Context) LDZI(src []byte, operand uint64) {
	c.live()
	checkLen(src, operand)
	amxLDZI(unsafe.Pointer(unsafe.SliceData(src)), operand)
}

// STX stores X rows to dst.
func (c *Context) STX(dst []byte, operand uint64) {
	c.live()
	checkLen(dst, operand)
	amxSTX(unsafe.Pointer(unsafe.SliceData(dst)), operand)
}

// STY stores Y rows to dst.
func (c *Context) STY(dst []byte, operand uint64) {
	c.live()
	checkLen(dst, operand)
	amxSTY(unsafe.Pointer(unsafe.SliceData(dst)), operand)
}

// STZ stores Z rows to dst.
func (c *Context) STZ(dst []byte, operand uint64) {
	c.live()
	checkLen(dst, operand)
	amxSTZ(unsafe.Pointer(unsafe.SliceData(dst)), operand)
}

// STZI stores Z row halves to dst with interleaving.
func (c *Context) STZI(dst []byte, operand uint64) {
	c.live()
	checkLen(dst, operand)
	amxSTZI(unsafe.Pointer(unsafe.SliceData(dst)), operand)
}

// FMA64 issues a float64 outer product.
func (c *Context) FMA64(operand uint64) {
	c.live()
	amxFMA64(operand)
}

// FMA32 issues a float32 outer product.
func (c *Context) FMA32(operand uint64) {
	c.live()
	amxFMA32(operand)
}

// MAC16 issues an int16 outer product.
func (c *Context) MAC16(operand uint64) {
	c.live()
	amxMAC16(operand)
}

// GENLUT issues a table lookup or index generation.
func (c *Context) GENLUT(operand uint64) {
	c.live()
	amxGENLUT(operand)
}
