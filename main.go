// Package main provides the entry point for m2amx.
// m2amx drives the Apple Matrix Coprocessor natively or through an emulator.
//
// For the full CLI, use: go run ./cmd/amxsim
package main

import (
	"fmt"
	"os"
)

func main() {
	fmt.Println("m2amx - Apple Matrix Coprocessor driver and emulator")
	fmt.Println("")
	fmt.Println("Usage: amxsim [options]")
	fmt.Println("")
	fmt.Println("Options:")
	fmt.Println("  -backend     auto, native or emu")
	fmt.Println("  -mode        loads, lut, stress or verify")
	fmt.Println("  -threads     Stress workers")
	fmt.Println("  -timing      Wrap the backend in the timing model")
	fmt.Println("  -config      Path to timing configuration JSON or YAML file")
	fmt.Println("  -v           Verbose output")
	fmt.Println("")
	fmt.Println("Run 'go run ./cmd/amxsim' for the full CLI.")
	fmt.Println("Run 'go run ./cmd/benchmark' for timing benchmarks and 'go run ./cmd/amxinfo' for diagnostics.")

	if len(os.Args) > 1 {
		fmt.Println("\nNote: You provided arguments. Use 'go run ./cmd/amxsim' instead.")
	}
}
