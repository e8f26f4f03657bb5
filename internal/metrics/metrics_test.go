package metrics

import (
	"testing"

	"github.com/san-kum/rodsim/internal/config"
	"github.com/san-kum/rodsim/internal/physics"
)

func TestEvaluateSyntheticPath(t *testing.T) {
	path := []physics.Point{{X: 100, Y: 300}, {X: 90, Y: 280}, {X: 80, Y: 290}, {X: 70, Y: 620}}
	got := Evaluate(path, Defaults(600)...)

	if got["flight_frames"] != 4 {
		t.Errorf("expected 4 frames, got %f", got["flight_frames"])
	}
	if got["apex"] != 320 {
		t.Errorf("expected apex 320, got %f", got["apex"])
	}
	if got["span"] != 30 {
		t.Errorf("expected span 30, got %f", got["span"])
	}
}

func TestEvaluateEmptyPath(t *testing.T) {
	got := Evaluate(nil, Defaults(600)...)
	for name, v := range got {
		if v != 0 {
			t.Errorf("%s: expected 0 for empty path, got %f", name, v)
		}
	}
}

func TestEvaluateResets(t *testing.T) {
	ms := Defaults(600)
	first := Evaluate([]physics.Point{{X: 0, Y: 100}, {X: 50, Y: 50}}, ms...)
	second := Evaluate([]physics.Point{{X: 10, Y: 500}}, ms...)

	if first["apex"] != 550 || second["apex"] != 100 {
		t.Errorf("apex not reset: %f then %f", first["apex"], second["apex"])
	}
	if second["flight_frames"] != 1 || second["span"] != 0 {
		t.Errorf("unexpected second values: %v", second)
	}
}

func TestDefaultThrow(t *testing.T) {
	l, err := physics.NewLauncher(config.DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}
	res, err := l.Compute(physics.Inputs{InitialAngle: 0, MotorTorque: 2, ReleaseAngle: 90})
	if err != nil {
		t.Fatal(err)
	}

	got := Evaluate(res.Path, Defaults(config.DefaultScreenHeight)...)
	if got["flight_frames"] != float64(len(res.Path)) {
		t.Errorf("frames %f != path length %d", got["flight_frames"], len(res.Path))
	}
	// the ball leaves moving horizontally, so the first point is the highest
	if got["apex"] != 100 {
		t.Errorf("expected apex 100, got %f", got["apex"])
	}
	if got["span"] != 100 {
		t.Errorf("expected span 100, got %f", got["span"])
	}
}
