// Package verify runs one AMX program against several backends and reports
// where their register files diverge.
package verify

import (
	"fmt"

	"github.com/google/go-cmp/cmp"

	"github.com/sarchlab/m2amx/amx"
	"github.com/sarchlab/m2amx/regs"
)

// Program is a sequence of operations issued through a Unit. A Program
// must be deterministic: it is run once per backend.
type Program func(u *amx.Unit)

// Backend is a named AMX backend. Each backend must start from a zeroed
// register file.
type Backend struct {
	Name string
	Ops  amx.Ops
}

// State is a snapshot of the three register files.
type State struct {
	X [regs.XYBytes]byte
	Y [regs.XYBytes]byte
	Z [regs.ZBytes]byte
}

// Snapshot reads the register files through u.
func Snapshot(u *amx.Unit) State {
	return State{X: u.ReadX(), Y: u.ReadY(), Z: u.ReadZ()}
}

// Row returns one row of the snapshot.
func (s *State) Row(file regs.File, row uint) []byte {
	start := row * regs.RowBytes
	switch file {
	case regs.FileX:
		return s.X[start : start+regs.RowBytes]
	case regs.FileY:
		return s.Y[start : start+regs.RowBytes]
	default:
		return s.Z[start : start+regs.RowBytes]
	}
}

// Divergence describes the first register row on which a backend
// disagrees with the baseline.
type Divergence struct {
	Baseline string
	Backend  string
	File     regs.File
	Row      uint
	// Diff is a go-cmp diff of the row, baseline first.
	Diff string
}

func (d *Divergence) Error() string {
	return fmt.Sprintf("backend %s diverges from %s at %s row %d:\n%s",
		d.Backend, d.Baseline, d.File, d.Row, d.Diff)
}

// Compare returns the first row that differs between two snapshots, in
// X, Y, Z order. ok is false when they are identical.
func Compare(want, got *State) (file regs.File, row uint, diff string, ok bool) {
	for _, file := range []regs.File{regs.FileX, regs.FileY, regs.FileZ} {
		for row := uint(0); row < file.Rows(); row++ {
			a, b := want.Row(file, row), got.Row(file, row)
			if d := cmp.Diff(a, b); d != "" {
				return file, row, d, true
			}
		}
	}
	return 0, 0, "", false
}

// Run runs p on the baseline and on every other backend and returns the
// first divergence as a *Divergence, or nil if all backends agree.
func Run(p Program, baseline Backend, others ...Backend) error {
	want := execute(p, baseline)
	for _, b := range others {
		got := execute(p, b)
		if file, row, diff, ok := Compare(&want, &got); ok {
			return &Divergence{
				Baseline: baseline.Name,
				Backend:  b.Name,
				File:     file,
				Row:      row,
				Diff:     diff,
			}
		}
	}
	return nil
}

func execute(p Program, b Backend) State {
	u := amx.New(b.Ops)
	p(u)
	return Snapshot(u)
}
