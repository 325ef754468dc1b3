package benchmarks

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/xid"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/sarchlab/m2amx/amx"
	"github.com/sarchlab/m2amx/regs"
)

// MAC16Kernel issues 16*n accumulating int16 outer products of X and Y at
// offset 0, alternating between the even and the odd Z rows.
func MAC16Kernel(u *amx.Unit, n int) {
	x, y := regs.Some(regs.XBytes(0)), regs.Some(regs.YBytes(0))
	for i := 0; i < n; i++ {
		for k := 0; k < 16; k++ {
			u.OuterProductI16(x, y, regs.ZRow(k&1), true)
		}
	}
}

// BackendFactory creates one backend for a stress worker. It is called on
// the worker's goroutine, which a hardware backend binds to its thread.
// The returned release function is called when the worker stops.
type BackendFactory func() (ops amx.Ops, release func() error, err error)

// StressConfig configures RunStress.
type StressConfig struct {
	// Workers is the number of independent backends.
	Workers int
	// Rounds is the number of timed rounds per worker; 0 runs until ctx
	// is done, with at least one round.
	Rounds int
	// Iterations is the number of MAC16Kernel iterations (16 outer
	// products each) per round.
	Iterations int
	// Logger receives per-round reports; nil disables them.
	Logger *logrus.Logger
}

// StressResult is the outcome of one stress worker.
type StressResult struct {
	Worker int
	ID     xid.ID
	// Ops is the number of outer products issued.
	Ops uint64
	// Elapsed is the time spent in the kernel.
	Elapsed time.Duration
	// Z is the worker's final Z contents.
	Z [regs.ZBytes]byte
}

// Rate returns outer products per second.
func (r StressResult) Rate() float64 {
	if r.Elapsed <= 0 {
		return 0
	}
	return float64(r.Ops) / r.Elapsed.Seconds()
}

// StressInput returns the 32 int16 lanes worker loads into both X row 0
// and Y row 0.
func StressInput(worker int) []int16 {
	in := make([]int16, 32)
	for i := range in {
		in[i] = int16(worker + 1)
	}
	return in
}

// RunStress runs cfg.Workers independent backends concurrently, each
// repeatedly issuing the MAC16 kernel with no shared memory between them.
// It returns the results in worker order, or the first error.
func RunStress(ctx context.Context, cfg StressConfig, newBackend BackendFactory) ([]StressResult, error) {
	if cfg.Workers <= 0 {
		return nil, fmt.Errorf("stress: need at least one worker, got %d", cfg.Workers)
	}
	if cfg.Iterations <= 0 {
		return nil, fmt.Errorf("stress: need at least one iteration per round, got %d", cfg.Iterations)
	}

	results := make([]StressResult, cfg.Workers)
	g, ctx := errgroup.WithContext(ctx)
	for w := 0; w < cfg.Workers; w++ {
		g.Go(func() error {
			res, err := stressWorker(ctx, cfg, w, newBackend)
			if err != nil {
				return fmt.Errorf("stress worker %d: %w", w, err)
			}
			results[w] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func stressWorker(ctx context.Context, cfg StressConfig, w int, newBackend BackendFactory) (res StressResult, err error) {
	ops, release, err := newBackend()
	if err != nil {
		return res, err
	}
	defer func() {
		if rerr := release(); err == nil {
			err = rerr
		}
	}()

	res = StressResult{Worker: w, ID: xid.New()}
	u := amx.New(ops)
	u.Load512(amx.Bytes(StressInput(w)), regs.XRow(0))
	u.Load512(amx.Bytes(StressInput(w)), regs.YRow(0))

	for round := 0; cfg.Rounds == 0 || round < cfg.Rounds; round++ {
		// Unbounded runs always complete at least one round.
		if err := ctx.Err(); err != nil {
			if cfg.Rounds == 0 && round > 0 {
				break
			}
			if cfg.Rounds > 0 {
				return res, err
			}
		}

		start := time.Now()
		MAC16Kernel(u, cfg.Iterations)
		elapsed := time.Since(start)

		res.Ops += uint64(16 * cfg.Iterations)
		res.Elapsed += elapsed
		if cfg.Logger != nil {
			cfg.Logger.WithFields(logrus.Fields{
				"worker": w,
				"id":     res.ID.String(),
				"round":  round,
				"rate":   StressResult{Ops: uint64(16 * cfg.Iterations), Elapsed: elapsed}.Rate(),
			}).Info("amxmac16s per second")
		}
	}

	res.Z = u.ReadZ()
	return res, nil
}
