// Package main provides a profiling wrapper for the m2amx emulator to identify performance bottlenecks.
package main

import (
	"flag"
	"fmt"
	"os"
	"runtime/pprof"
	"time"

	"github.com/sarchlab/m2amx/amx"
	"github.com/sarchlab/m2amx/benchmarks"
	"github.com/sarchlab/m2amx/emu"
	"github.com/sarchlab/m2amx/regs"
	"github.com/sarchlab/m2amx/timing/core"
	"github.com/sarchlab/m2amx/verify"
)

var (
	timing     = flag.Bool("timing", false, "Profile through the timing model")
	workload   = flag.String("workload", "mac16", "Workload: mac16 or random")
	cpuProfile = flag.String("cpuprofile", "", "write cpu profile to file")
	memProfile = flag.String("memprofile", "", "write memory profile to file")
	duration   = flag.Duration("duration", 30*time.Second, "max duration to run (for profiling)")
	iterations = flag.Int("iterations", 1<<14, "workload iterations (16 MAC16s or one random program each)")
)

func main() {
	flag.Parse()

	if *workload != "mac16" && *workload != "random" {
		fmt.Fprintf(os.Stderr, "Usage: profile [options]\n")
		fmt.Fprintf(os.Stderr, "\nOptions:\n")
		flag.PrintDefaults()
		os.Exit(1)
	}

	// Start CPU profiling if requested
	if *cpuProfile != "" {
		f, err := os.Create(*cpuProfile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error creating CPU profile: %v\n", err)
			os.Exit(1)
		}
		defer func() { _ = f.Close() }()

		if err := pprof.StartCPUProfile(f); err != nil {
			fmt.Fprintf(os.Stderr, "Error starting CPU profile: %v\n", err)
			os.Exit(1)
		}
		defer pprof.StopCPUProfile()
	}

	start := time.Now()

	// Set timeout
	go func() {
		time.Sleep(*duration)
		fmt.Printf("\nTimeout reached after %v - stopping execution\n", *duration)
		os.Exit(2)
	}()

	emulator := emu.NewEmulator()
	var ops amx.Ops = emulator
	var timed *core.Core
	if *timing {
		timed = core.NewCore(emulator)
		ops = timed
	}
	u := amx.New(ops)

	switch *workload {
	case "mac16":
		u.Load512(amx.Bytes(benchmarks.StressInput(0)), regs.XRow(0))
		u.Load512(amx.Bytes(benchmarks.StressInput(0)), regs.YRow(0))
		benchmarks.MAC16Kernel(u, *iterations)
	case "random":
		for i := 0; i < *iterations; i++ {
			verify.RandomProgram(uint64(i), 64)(u)
		}
	}

	elapsed := time.Since(start)

	// Write memory profile if requested
	if *memProfile != "" {
		f, err := os.Create(*memProfile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error creating memory profile: %v\n", err)
			os.Exit(1)
		}
		defer func() { _ = f.Close() }()

		if err := pprof.WriteHeapProfile(f); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing memory profile: %v\n", err)
		}
	}

	instrCount := emulator.InstructionCount()
	fmt.Printf("\nProfiling Results:\n")
	fmt.Printf("Workload: %s\n", *workload)
	fmt.Printf("Instructions executed: %d\n", instrCount)
	if timed != nil {
		fmt.Printf("Simulated cycles: %d\n", timed.Stats().Cycles)
	}
	fmt.Printf("Elapsed time: %v\n", elapsed)
	if instrCount > 0 {
		fmt.Printf("Instructions/second: %.0f\n", float64(instrCount)/elapsed.Seconds())
	}
}
