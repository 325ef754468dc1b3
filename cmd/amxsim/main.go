// Package main provides the amxsim command, which drives the AMX
// coprocessor through the native or the emulated backend.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"

	"github.com/sirupsen/logrus"

	"github.com/sarchlab/m2amx/amx"
	"github.com/sarchlab/m2amx/emu"
	"github.com/sarchlab/m2amx/native"
	"github.com/sarchlab/m2amx/timing/core"
	"github.com/sarchlab/m2amx/timing/latency"
)

var (
	backendName = flag.String("backend", "auto", "Backend: auto, native or emu")
	mode        = flag.String("mode", "loads", "Mode: loads, lut, stress or verify")
	threads     = flag.Int("threads", 4, "Stress workers")
	rounds      = flag.Int("rounds", 0, "Stress rounds per worker (0 runs until interrupted)")
	iterations  = flag.Int("iterations", 1<<16, "MAC16 kernel iterations per stress round")
	withTiming  = flag.Bool("timing", false, "Wrap the backend in the timing model")
	configPath  = flag.String("config", "", "Path to timing configuration JSON or YAML file")
	seed        = flag.Uint64("seed", 1, "Verify program seed")
	steps       = flag.Int("steps", 256, "Verify program length")
	verbose     = flag.Bool("v", false, "Verbose output")
)

func main() {
	flag.Parse()

	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	if *verbose {
		logger.SetLevel(logrus.DebugLevel)
	}

	timingConfig := latency.DefaultTimingConfig()
	if *configPath != "" {
		var err error
		timingConfig, err = latency.LoadConfig(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading timing config: %v\n", err)
			os.Exit(1)
		}
		if err := timingConfig.Validate(); err != nil {
			fmt.Fprintf(os.Stderr, "Invalid timing config: %v\n", err)
			os.Exit(1)
		}
	}

	d := &driver{logger: logger, timing: timingConfig, trace: *mode != "stress"}
	if err := d.selectBackend(*backendName); err != nil {
		logger.WithError(err).Fatal("no usable backend")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	var err error
	switch *mode {
	case "loads":
		err = d.single(runLoads)
	case "lut":
		err = d.single(runLut)
	case "stress":
		err = d.stress(ctx)
	case "verify":
		err = d.verify(*seed, *steps)
	default:
		fmt.Fprintf(os.Stderr, "Unknown mode %q\n\nOptions:\n", *mode)
		flag.PrintDefaults()
		os.Exit(2)
	}
	if err != nil {
		logger.WithError(err).Fatal(*mode + " failed")
	}
}

// driver hands out backends of the selected kind.
type driver struct {
	logger *logrus.Logger
	timing *latency.TimingConfig
	native bool
	// trace enables per-instruction debug logging in emulated backends.
	trace bool
}

func (d *driver) selectBackend(name string) error {
	switch name {
	case "native":
		if !native.Available() {
			return native.ErrUnavailable
		}
		d.native = true
	case "emu":
	case "auto":
		d.native = native.Available()
	default:
		return fmt.Errorf("unknown backend %q", name)
	}

	d.logger.WithField("native", d.native).Info("backend selected")
	return nil
}

// newBackend creates a backend for the calling goroutine. A native backend
// stays bound to the goroutine's thread until release is called.
func (d *driver) newBackend() (amx.Ops, func() error, error) {
	var (
		ops     amx.Ops
		release = func() error { return nil }
	)
	if d.native {
		c, err := native.Bind()
		if err != nil {
			return nil, nil, err
		}
		ops, release = c, c.Close
	} else {
		var opts []emu.EmulatorOption
		if d.trace {
			opts = append(opts, emu.WithLogger(d.logger))
		}
		ops = emu.NewEmulator(opts...)
	}

	if !*withTiming {
		return ops, release, nil
	}

	timed := core.NewCoreWithConfig(ops, d.timing)
	return timed, func() error {
		printTiming(timed.Stats())
		return release()
	}, nil
}

// single runs fn on one backend.
func (d *driver) single(fn func(u *amx.Unit)) (err error) {
	ops, release, err := d.newBackend()
	if err != nil {
		return err
	}
	defer func() {
		if rerr := release(); err == nil {
			err = rerr
		}
	}()

	fn(amx.New(ops))
	return nil
}

func printTiming(stats core.Stats) {
	fmt.Printf("\n")
	fmt.Printf("Total Instructions: %d\n", stats.Instructions)
	fmt.Printf("Total Cycles: %d\n", stats.Cycles)
	fmt.Printf("Memory stalls: %d\n", stats.MemoryStalls)
	if stats.Instructions > 0 {
		fmt.Printf("CPI: %.2f\n", float64(stats.Cycles)/float64(stats.Instructions))
	}
	for op, n := range stats.ByOp {
		fmt.Printf("  %-6s %d\n", op, n)
	}
}
