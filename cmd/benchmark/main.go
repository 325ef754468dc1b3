// Command benchmark runs the m2amx timing benchmark harness.
//
// Usage:
//
//	go run ./cmd/benchmark [flags]
//
// Flags:
//
//	-csv     Output results in CSV format (default: human-readable)
//	-json    Output results as a JSON report
//	-config  Path to a timing configuration JSON or YAML file
//
// Example:
//
//	# Run all benchmarks with human-readable output
//	go run ./cmd/benchmark
//
//	# Output CSV for spreadsheet comparison
//	go run ./cmd/benchmark -csv > results.csv
//
// The results can be compared against measurements on real hardware to
// calibrate the latency table.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/sarchlab/m2amx/benchmarks"
	"github.com/sarchlab/m2amx/timing/latency"
)

func main() {
	csvOutput := flag.Bool("csv", false, "Output results in CSV format")
	jsonOutput := flag.Bool("json", false, "Output results as a JSON report")
	configPath := flag.String("config", "", "Path to timing configuration JSON or YAML file")
	flag.Parse()

	config := benchmarks.DefaultConfig()
	config.Output = os.Stdout
	if *configPath != "" {
		timing, err := latency.LoadConfig(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading timing config: %v\n", err)
			os.Exit(1)
		}
		if err := timing.Validate(); err != nil {
			fmt.Fprintf(os.Stderr, "Invalid timing config: %v\n", err)
			os.Exit(1)
		}
		config.Timing = timing
	}

	harness := benchmarks.NewHarness(config)
	harness.AddBenchmarks(benchmarks.GetMicrobenchmarks())

	human := !*csvOutput && !*jsonOutput
	if human {
		fmt.Println("m2amx Timing Benchmark Harness")
		fmt.Println("==============================")
		fmt.Printf("Outer product latency: %d/%d/%d (mac16/fma32/fma64)\n",
			config.Timing.MAC16Latency, config.Timing.FMA32Latency, config.Timing.FMA64Latency)
		fmt.Printf("L1/L2/memory latency: %d/%d/%d\n",
			config.Timing.L1HitLatency, config.Timing.L2HitLatency, config.Timing.MemoryLatency)
		fmt.Println("")
	}

	results := harness.RunAll()

	switch {
	case *jsonOutput:
		if err := harness.PrintJSON(results); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing report: %v\n", err)
			os.Exit(1)
		}
	case *csvOutput:
		harness.PrintCSV(results)
	default:
		harness.PrintResults(results)

		fmt.Println("=== Summary ===")
		fmt.Println("")
		fmt.Println("Expected characteristics:")
		fmt.Println("- mac16_loop: compute bound, CPI equals the MAC16 latency")
		fmt.Println("- loads_streaming: one miss per row, CPI near memory latency")
		fmt.Println("- loads_reuse: one cold miss, then L1 hits")
		fmt.Println("- lut_lookups: register-only after nine table loads")
	}
}
