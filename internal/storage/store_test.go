package storage

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"

	"github.com/san-kum/rodsim/internal/config"
	"github.com/san-kum/rodsim/internal/physics"
)

func newTestStore(t *testing.T) (*Store, string) {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "runs")
	log := logrus.New()
	log.SetOutput(os.Stderr)
	log.SetLevel(logrus.WarnLevel)
	return New(dir, log), dir
}

func throw(t *testing.T, in physics.Inputs) (*physics.Launcher, physics.Result) {
	t.Helper()
	l, err := physics.NewLauncher(config.DefaultConfig())
	if err != nil {
		t.Fatalf("launcher: %v", err)
	}
	res, err := l.Compute(in)
	if err != nil {
		t.Fatalf("compute: %v", err)
	}
	return l, res
}

func TestStoreSaveLoad(t *testing.T) {
	st, dir := newTestStore(t)
	in := physics.Inputs{InitialAngle: 0, MotorTorque: 2, ReleaseAngle: 90}
	l, res := throw(t, in)

	runID, err := st.Save(l, in, res)
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if runID == "" {
		t.Fatal("expected non-empty run id")
	}

	for _, name := range []string{"metadata.json", "path.csv"} {
		if _, err := os.Stat(filepath.Join(dir, runID, name)); err != nil {
			t.Errorf("expected %s: %v", name, err)
		}
	}

	meta, err := st.Load(runID)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if meta.Inputs != in {
		t.Errorf("inputs mismatch: %+v", meta.Inputs)
	}
	if meta.Distance != res.Distance {
		t.Errorf("expected distance %f, got %f", res.Distance, meta.Distance)
	}
	if meta.SpinUpSteps != 82 {
		t.Errorf("expected 82 spin-up steps, got %d", meta.SpinUpSteps)
	}
	if meta.PathLength != len(res.Path) {
		t.Errorf("expected path length %d, got %d", len(res.Path), meta.PathLength)
	}
	if meta.RodWeight != l.RodWeight() || meta.BallWeight != l.BallWeight() {
		t.Error("weights mismatch")
	}
	if meta.Metrics["flight_frames"] != float64(len(res.Path)) {
		t.Errorf("expected flight_frames %d, got %f", len(res.Path), meta.Metrics["flight_frames"])
	}
	if meta.Metrics["apex"] != 100 {
		t.Errorf("expected apex 100, got %f", meta.Metrics["apex"])
	}

	path, err := st.LoadPath(runID)
	if err != nil {
		t.Fatalf("load path failed: %v", err)
	}
	if len(path) != len(res.Path) {
		t.Fatalf("expected %d points, got %d", len(res.Path), len(path))
	}
	for i := range path {
		if path[i] != res.Path[i] {
			t.Errorf("point %d: got %+v want %+v", i, path[i], res.Path[i])
		}
	}
}

func TestStoreList(t *testing.T) {
	st, dir := newTestStore(t)

	runs, err := st.List()
	if err != nil {
		t.Fatalf("list on missing dir: %v", err)
	}
	if len(runs) != 0 {
		t.Errorf("expected no runs, got %d", len(runs))
	}

	inputs := []physics.Inputs{
		{InitialAngle: 0, MotorTorque: 2, ReleaseAngle: 90},
		{InitialAngle: 90, MotorTorque: 4, ReleaseAngle: 160},
	}
	ids := make(map[string]bool)
	for _, in := range inputs {
		l, res := throw(t, in)
		id, err := st.Save(l, in, res)
		if err != nil {
			t.Fatalf("save failed: %v", err)
		}
		ids[id] = true
	}
	if len(ids) != len(inputs) {
		t.Fatalf("expected distinct run ids, got %v", ids)
	}

	if err := os.MkdirAll(filepath.Join(dir, "junk"), 0755); err != nil {
		t.Fatal(err)
	}

	runs, err = st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != len(inputs) {
		t.Fatalf("expected %d runs, got %d", len(inputs), len(runs))
	}
	if runs[0].Inputs != inputs[0] || runs[1].Inputs != inputs[1] {
		t.Error("expected runs oldest first")
	}
}

func TestStoreLoadMissing(t *testing.T) {
	st, _ := newTestStore(t)
	if err := st.Init(); err != nil {
		t.Fatal(err)
	}

	if _, err := st.Load("nope"); !errors.Is(err, ErrRunNotFound) {
		t.Errorf("expected ErrRunNotFound, got %v", err)
	}
	if _, err := st.LoadPath("nope"); !errors.Is(err, ErrRunNotFound) {
		t.Errorf("expected ErrRunNotFound, got %v", err)
	}
}

func TestStoreSaveFailureLeavesNoRun(t *testing.T) {
	st, dir := newTestStore(t)
	in := physics.Inputs{InitialAngle: 0, MotorTorque: 2, ReleaseAngle: 90}
	l, res := throw(t, in)

	// NaN cannot be encoded as JSON, so the metadata write fails after
	// path.csv is already on disk.
	res.Distance = math.NaN()
	if _, err := st.Save(l, in, res); err == nil {
		t.Fatal("expected save to fail")
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("expected no run directories, found %d", len(entries))
	}

	runs, err := st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 0 {
		t.Errorf("expected no runs, got %d", len(runs))
	}
}
