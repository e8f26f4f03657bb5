package optim

import (
	"context"
	"errors"
	"math"
	"runtime"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/san-kum/rodsim/internal/physics"
)

var ErrEmptyGrid = errors.New("optim: grid has no combinations")

// Grid lists the values tried for each input. Every combination is evaluated.
type Grid struct {
	InitialAngles []float64 `yaml:"initial_angles"`
	Torques       []float64 `yaml:"torques"`
	ReleaseAngles []float64 `yaml:"release_angles"`
}

func (g Grid) Size() int {
	return len(g.InitialAngles) * len(g.Torques) * len(g.ReleaseAngles)
}

// Combinations enumerates the grid with release angle varying fastest.
func (g Grid) Combinations() []physics.Inputs {
	out := make([]physics.Inputs, 0, g.Size())
	for _, ia := range g.InitialAngles {
		for _, tq := range g.Torques {
			for _, ra := range g.ReleaseAngles {
				out = append(out, physics.Inputs{InitialAngle: ia, MotorTorque: tq, ReleaseAngle: ra})
			}
		}
	}
	return out
}

// Span returns n evenly spaced values from lo to hi inclusive.
func Span(lo, hi float64, n int) []float64 {
	if n <= 0 {
		return nil
	}
	if n == 1 {
		return []float64{lo}
	}
	out := make([]float64, n)
	step := (hi - lo) / float64(n-1)
	for i := range out {
		out[i] = lo + float64(i)*step
	}
	return out
}

// Objective scores a throw; higher is better.
type Objective func(physics.Result) float64

var (
	Farthest  Objective = func(r physics.Result) float64 { return math.Abs(r.Distance) }
	Rightmost Objective = func(r physics.Result) float64 { return r.Distance }
	Leftmost  Objective = func(r physics.Result) float64 { return -r.Distance }
)

var Objectives = map[string]Objective{
	"farthest":  Farthest,
	"rightmost": Rightmost,
	"leftmost":  Leftmost,
}

type Candidate struct {
	Inputs    physics.Inputs
	Result    physics.Result
	Score     float64
	Evaluated int
}

type Sweeper struct {
	Launcher *physics.Launcher
	Workers  int
	Log      *logrus.Logger
}

func NewSweeper(l *physics.Launcher, log *logrus.Logger) *Sweeper {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Sweeper{Launcher: l, Workers: runtime.NumCPU(), Log: log}
}

// Sweep evaluates every grid combination and returns the best by objective.
// Ties go to the earliest combination in Combinations order.
func (s *Sweeper) Sweep(ctx context.Context, grid Grid, objective Objective) (*Candidate, error) {
	combos := grid.Combinations()
	if len(combos) == 0 {
		return nil, ErrEmptyGrid
	}
	if objective == nil {
		objective = Farthest
	}

	results := make([]physics.Result, len(combos))
	g, gctx := errgroup.WithContext(ctx)
	if s.Workers > 0 {
		g.SetLimit(s.Workers)
	}

	for i, in := range combos {
		if gctx.Err() != nil {
			break
		}
		i, in := i, in
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			res, err := s.Launcher.Compute(in)
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	best := -1
	bestScore := math.Inf(-1)
	for i, res := range results {
		score := objective(res)
		if math.IsNaN(score) {
			continue
		}
		if best < 0 || score > bestScore {
			best, bestScore = i, score
		}
	}
	if best < 0 {
		return nil, ErrEmptyGrid
	}

	s.Log.WithFields(logrus.Fields{
		"evaluated": len(combos),
		"score":     bestScore,
		"inputs":    combos[best],
	}).Debug("sweep finished")

	return &Candidate{
		Inputs:    combos[best],
		Result:    results[best],
		Score:     bestScore,
		Evaluated: len(combos),
	}, nil
}

// Sweep runs a grid over l with one worker per CPU.
func Sweep(ctx context.Context, l *physics.Launcher, grid Grid, objective Objective) (*Candidate, error) {
	return NewSweeper(l, nil).Sweep(ctx, grid, objective)
}
