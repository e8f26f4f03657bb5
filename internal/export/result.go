package export

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"strconv"

	"github.com/san-kum/rodsim/internal/metrics"
	"github.com/san-kum/rodsim/internal/physics"
)

type ResultData struct {
	Inputs       physics.Inputs     `json:"inputs"`
	Distance     float64            `json:"distance"`
	RodWeight    float64            `json:"rod_weight"`
	BallWeight   float64            `json:"ball_weight"`
	SpinUpSteps  int                `json:"spin_up_steps"`
	AngularSpeed float64            `json:"angular_speed"`
	ReleaseSpeed float64            `json:"release_speed"`
	Release      [2]float64         `json:"release_position"`
	Stalled      bool               `json:"stalled,omitempty"`
	Metrics      map[string]float64 `json:"metrics"`
	Params       map[string]float64 `json:"params"`
	Path         []physics.Point    `json:"path"`
}

func NewResultData(l *physics.Launcher, in physics.Inputs, res physics.Result) ResultData {
	_, h := l.Screen()
	return ResultData{
		Inputs:       in,
		Distance:     res.Distance,
		RodWeight:    l.RodWeight(),
		BallWeight:   l.BallWeight(),
		SpinUpSteps:  res.SpinUpSteps,
		AngularSpeed: res.AngularSpeed,
		ReleaseSpeed: res.ReleaseSpeed,
		Release:      [2]float64{res.ReleasePosition.X(), res.ReleasePosition.Y()},
		Stalled:      res.Stalled,
		Metrics:      metrics.Evaluate(res.Path, metrics.Defaults(int(h))...),
		Params:       l.GetParams(),
		Path:         res.Path,
	}
}

func WriteJSON(w io.Writer, data ResultData) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

// WriteCSV writes one row per path point: step, x, y.
func WriteCSV(w io.Writer, path []physics.Point) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"step", "x", "y"}); err != nil {
		return err
	}
	for i, p := range path {
		row := []string{strconv.Itoa(i + 1), strconv.Itoa(p.X), strconv.Itoa(p.Y)}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReadCSV parses what WriteCSV produced. Malformed rows are skipped.
func ReadCSV(r io.Reader) ([]physics.Point, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	records, err := cr.ReadAll()
	if err != nil {
		return nil, err
	}
	path := make([]physics.Point, 0, len(records))
	for i, rec := range records {
		if i == 0 || len(rec) < 3 {
			continue
		}
		x, err := strconv.Atoi(rec[1])
		if err != nil {
			continue
		}
		y, err := strconv.Atoi(rec[2])
		if err != nil {
			continue
		}
		path = append(path, physics.Point{X: x, Y: y})
	}
	return path, nil
}
