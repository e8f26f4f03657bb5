package automation

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/rodsim/internal/config"
	"github.com/san-kum/rodsim/internal/physics"
)

var ErrEmptyScenario = errors.New("automation: scenario has no steps")

// Scenario is a scripted list of throws.
type Scenario struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Steps       []ScenarioStep `yaml:"steps"`
}

// ScenarioStep is one throw. Preset values are applied first; any of the
// explicit inputs that are set override them.
type ScenarioStep struct {
	Name         string   `yaml:"name"`
	Preset       string   `yaml:"preset"`
	InitialAngle *float64 `yaml:"initial_angle"`
	MotorTorque  *float64 `yaml:"motor_torque"`
	ReleaseAngle *float64 `yaml:"release_angle"`
	Save         bool     `yaml:"save"`
}

func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, err
	}
	if len(scenario.Steps) == 0 {
		return nil, ErrEmptyScenario
	}

	return &scenario, nil
}

// Inputs resolves the step against the fallback values.
func (s ScenarioStep) Inputs(defaults config.InputConfig) (physics.Inputs, error) {
	base := defaults
	if s.Preset != "" {
		p, ok := config.GetPreset(s.Preset)
		if !ok {
			return physics.Inputs{}, fmt.Errorf("unknown preset: %s", s.Preset)
		}
		base = p
	}
	in := physics.InputsFrom(base)
	if s.InitialAngle != nil {
		in.InitialAngle = *s.InitialAngle
	}
	if s.MotorTorque != nil {
		in.MotorTorque = *s.MotorTorque
	}
	if s.ReleaseAngle != nil {
		in.ReleaseAngle = *s.ReleaseAngle
	}
	return in, nil
}

type StepResult struct {
	Name   string
	Inputs physics.Inputs
	Result physics.Result
	Save   bool
}

// RunScenario computes every step in order and stops at the first failure,
// returning the results gathered so far.
func RunScenario(ctx context.Context, scenario *Scenario, l *physics.Launcher, defaults config.InputConfig, log *logrus.Logger) ([]StepResult, error) {
	if log == nil {
		log = logrus.StandardLogger()
	}
	results := make([]StepResult, 0, len(scenario.Steps))

	for i, step := range scenario.Steps {
		if err := ctx.Err(); err != nil {
			return results, err
		}

		name := step.Name
		if name == "" {
			name = fmt.Sprintf("step %d", i+1)
		}
		log.WithField("step", name).Debugf("running %d/%d", i+1, len(scenario.Steps))

		in, err := step.Inputs(defaults)
		if err != nil {
			return results, fmt.Errorf("step %d: %w", i+1, err)
		}
		res, err := l.Compute(in)
		if err != nil {
			return results, fmt.Errorf("step %d: %w", i+1, err)
		}

		results = append(results, StepResult{Name: name, Inputs: in, Result: res, Save: step.Save})
	}

	return results, nil
}

// MonteCarloConfig perturbs each input uniformly within +/- its spread.
type MonteCarloConfig struct {
	Base         physics.Inputs
	AngleSpread  float64
	TorqueSpread float64
	NumTrials    int
	Seed         int64
}

type MonteCarloResult struct {
	TrialID  int
	Inputs   physics.Inputs
	Distance float64
	Stalled  bool
}

type MonteCarloStats struct {
	Trials  int
	Stalled int
	Mean    float64
	StdDev  float64
	Min     float64
	Max     float64
}

// RunMonteCarlo throws NumTrials times with perturbed inputs. A zero seed
// picks one from the clock.
func RunMonteCarlo(ctx context.Context, cfg MonteCarloConfig, l *physics.Launcher) ([]MonteCarloResult, error) {
	results := make([]MonteCarloResult, 0, cfg.NumTrials)

	rng := rand.New(rand.NewSource(cfg.Seed))
	if cfg.Seed == 0 {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	jitter := func(spread float64) float64 {
		return (rng.Float64() - 0.5) * 2 * spread
	}

	for trial := 0; trial < cfg.NumTrials; trial++ {
		if err := ctx.Err(); err != nil {
			return results, err
		}

		in := physics.Inputs{
			InitialAngle: cfg.Base.InitialAngle + jitter(cfg.AngleSpread),
			MotorTorque:  cfg.Base.MotorTorque + jitter(cfg.TorqueSpread),
			ReleaseAngle: cfg.Base.ReleaseAngle + jitter(cfg.AngleSpread),
		}
		res, err := l.Compute(in)
		if err != nil {
			return results, err
		}

		results = append(results, MonteCarloResult{
			TrialID:  trial,
			Inputs:   in,
			Distance: res.Distance,
			Stalled:  res.Stalled,
		})
	}

	return results, nil
}

// Stats summarizes the landing distances of a Monte Carlo run.
func Stats(results []MonteCarloResult) MonteCarloStats {
	st := MonteCarloStats{Trials: len(results)}
	if len(results) == 0 {
		return st
	}

	st.Min, st.Max = math.Inf(1), math.Inf(-1)
	sum := 0.0
	for _, r := range results {
		if r.Stalled {
			st.Stalled++
		}
		sum += r.Distance
		st.Min = math.Min(st.Min, r.Distance)
		st.Max = math.Max(st.Max, r.Distance)
	}
	st.Mean = sum / float64(len(results))

	ss := 0.0
	for _, r := range results {
		d := r.Distance - st.Mean
		ss += d * d
	}
	st.StdDev = math.Sqrt(ss / float64(len(results)))
	return st
}
