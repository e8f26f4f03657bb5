package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/san-kum/rodsim/internal/export"
	"github.com/san-kum/rodsim/internal/metrics"
	"github.com/san-kum/rodsim/internal/physics"
)

var ErrRunNotFound = errors.New("storage: run not found")

const (
	metadataFile = "metadata.json"
	pathFile     = "path.csv"
)

// Store archives computed throws, one directory per run.
type Store struct {
	baseDir string
	log     *logrus.Logger
}

func New(baseDir string, log *logrus.Logger) *Store {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Store{baseDir: baseDir, log: log}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID           string             `json:"id"`
	Timestamp    time.Time          `json:"timestamp"`
	Inputs       physics.Inputs     `json:"inputs"`
	Distance     float64            `json:"distance"`
	RodWeight    float64            `json:"rod_weight"`
	BallWeight   float64            `json:"ball_weight"`
	SpinUpSteps  int                `json:"spin_up_steps"`
	ReleaseSpeed float64            `json:"release_speed"`
	PathLength   int                `json:"path_length"`
	Stalled      bool               `json:"stalled,omitempty"`
	Metrics      map[string]float64 `json:"metrics"`
}

// Save writes path.csv and then metadata.json, so a run listed by List
// always has its path. A failed save leaves no run directory behind.
func (s *Store) Save(l *physics.Launcher, in physics.Inputs, res physics.Result) (string, error) {
	_, h := l.Screen()
	now := time.Now()
	runID, runDir, err := s.createRunDir(now)
	if err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:           runID,
		Timestamp:    now,
		Inputs:       in,
		Distance:     res.Distance,
		RodWeight:    l.RodWeight(),
		BallWeight:   l.BallWeight(),
		SpinUpSteps:  res.SpinUpSteps,
		ReleaseSpeed: res.ReleaseSpeed,
		PathLength:   len(res.Path),
		Stalled:      res.Stalled,
		Metrics:      metrics.Evaluate(res.Path, metrics.Defaults(int(h))...),
	}

	err = writeFile(filepath.Join(runDir, pathFile), func(w io.Writer) error {
		return export.WriteCSV(w, res.Path)
	})
	if err == nil {
		err = writeFile(filepath.Join(runDir, metadataFile), func(w io.Writer) error {
			enc := json.NewEncoder(w)
			enc.SetIndent("", "  ")
			return enc.Encode(meta)
		})
	}
	if err != nil {
		if rmErr := os.RemoveAll(runDir); rmErr != nil {
			s.log.WithError(rmErr).WithField("run", runID).Warn("failed to remove partial run")
		}
		return "", err
	}

	s.log.WithFields(logrus.Fields{
		"run":      runID,
		"points":   len(res.Path),
		"distance": res.Distance,
	}).Debug("run saved")
	return runID, nil
}

func writeFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// createRunDir picks the first unused id for t; two saves in the same
// nanosecond get consecutive suffixes.
func (s *Store) createRunDir(t time.Time) (string, string, error) {
	if err := s.Init(); err != nil {
		return "", "", err
	}
	base := fmt.Sprintf("run_%d", t.UnixNano())
	for i := 0; ; i++ {
		id := base
		if i > 0 {
			id = fmt.Sprintf("%s_%d", base, i)
		}
		dir := filepath.Join(s.baseDir, id)
		err := os.Mkdir(dir, 0755)
		if err == nil {
			return id, dir, nil
		}
		if !errors.Is(err, fs.ErrExist) {
			return "", "", err
		}
	}
}

// List returns every readable run, oldest first. Directories without valid
// metadata are skipped.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		meta, err := s.readMetadata(entry.Name())
		if err != nil {
			s.log.WithError(err).WithField("dir", entry.Name()).Debug("skipping run")
			continue
		}
		runs = append(runs, *meta)
	}

	sort.SliceStable(runs, func(i, j int) bool {
		return runs[i].Timestamp.Before(runs[j].Timestamp)
	})
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	meta, err := s.readMetadata(runID)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
		}
		return nil, err
	}
	return meta, nil
}

func (s *Store) LoadPath(runID string) ([]physics.Point, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, pathFile))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
		}
		return nil, err
	}
	defer file.Close()

	return export.ReadCSV(file)
}

func (s *Store) readMetadata(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}
