// Package main provides a diagnostic tool to print AMX availability and the
// CPU features detected by Go.
package main

import (
	"bytes"
	"fmt"
	"os"
	"runtime"
	"sort"

	"golang.org/x/sys/cpu"

	"github.com/sarchlab/m2amx/amx"
	"github.com/sarchlab/m2amx/insts"
	"github.com/sarchlab/m2amx/native"
	"github.com/sarchlab/m2amx/regs"
)

func main() {
	fmt.Printf("GOOS: %s\n", runtime.GOOS)
	fmt.Printf("GOARCH: %s\n", runtime.GOARCH)
	fmt.Printf("NumCPU: %d\n", runtime.NumCPU())
	fmt.Println()

	fmt.Printf("AMX available: %v\n", native.Available())
	if v, ok := os.LookupEnv(native.DisableEnv); ok {
		fmt.Printf("  %s=%q\n", native.DisableEnv, v)
	}
	if native.Available() {
		fmt.Printf("AMX self test: %s\n", selfTest())
	}
	fmt.Println()

	printWords()

	if runtime.GOARCH == "arm64" {
		fmt.Println()
		printARM64Features()
	}
}

// selfTest binds a context and round-trips one row through X.
func selfTest() string {
	c, err := native.Bind()
	if err != nil {
		return err.Error()
	}
	defer func() { _ = c.Close() }()

	in := make([]byte, amx.RowBytes)
	for i := range in {
		in[i] = byte(i + 1)
	}
	out := make([]byte, amx.RowBytes)

	u := amx.New(c)
	u.Load512(in, regs.XRow(3))
	u.Store512(out, regs.XRow(3))
	if !bytes.Equal(in, out) {
		return "row round trip mismatch"
	}
	return "ok"
}

func printWords() {
	fmt.Println("=== AMX instruction words ===")
	for _, l := range wordLines(native.Words()) {
		fmt.Println(l)
	}
}

// wordLines lists each emitted word beside its decoding, flagging words
// that decode to a different instruction.
func wordLines(words map[insts.Op]uint32) []string {
	decoder := insts.NewDecoder()
	lines := make([]string, 0, len(words))
	for op, w := range words {
		line := fmt.Sprintf("  %-6s 0x%08x", op, w)
		if inst := decoder.Decode(w); inst.Op != op || inst.Reg != 0 {
			line += fmt.Sprintf(" (decodes as %v X%d)", inst.Op, inst.Reg)
		}
		lines = append(lines, line)
	}
	sort.Strings(lines)
	return lines
}

func printARM64Features() {
	fmt.Println("=== golang.org/x/sys/cpu.ARM64 ===")
	fmt.Printf("  HasASIMD:    %v (NEON baseline)\n", cpu.ARM64.HasASIMD)
	fmt.Printf("  HasFP:       %v (Floating point)\n", cpu.ARM64.HasFP)
	fmt.Printf("  HasFPHP:     %v (FP16 scalar, ARMv8.2-A)\n", cpu.ARM64.HasFPHP)
	fmt.Printf("  HasASIMDHP:  %v (FP16 NEON, ARMv8.2-A)\n", cpu.ARM64.HasASIMDHP)
	fmt.Printf("  HasASIMDFHM: %v (FP16 FMA, ARMv8.4-A)\n", cpu.ARM64.HasASIMDFHM)
	fmt.Printf("  HasSVE:      %v (Scalable Vector Extension)\n", cpu.ARM64.HasSVE)
	fmt.Printf("  HasATOMICS:  %v (Large System Extensions)\n", cpu.ARM64.HasATOMICS)
	fmt.Printf("  HasCRC32:    %v\n", cpu.ARM64.HasCRC32)
}
