package metrics

import (
	"math"

	"github.com/san-kum/rodsim/internal/physics"
)

// Metric accumulates a value over the points of a flight path.
type Metric interface {
	Name() string
	Observe(p physics.Point, frame int)
	Value() float64
	Reset()
}

// Defaults returns the metrics reported for every throw on a screen of the
// given height.
func Defaults(screenHeight int) []Metric {
	return []Metric{
		NewFlightFrames(),
		NewApex(screenHeight),
		NewSpan(),
	}
}

// Evaluate resets each metric, feeds it the whole path and collects the values.
func Evaluate(path []physics.Point, ms ...Metric) map[string]float64 {
	out := make(map[string]float64, len(ms))
	for _, m := range ms {
		m.Reset()
		for i, p := range path {
			m.Observe(p, i)
		}
		out[m.Name()] = m.Value()
	}
	return out
}

type FlightFrames struct {
	frames int
}

func NewFlightFrames() *FlightFrames { return &FlightFrames{} }

func (f *FlightFrames) Name() string { return "flight_frames" }

func (f *FlightFrames) Observe(p physics.Point, frame int) { f.frames = frame + 1 }

func (f *FlightFrames) Value() float64 { return float64(f.frames) }

func (f *FlightFrames) Reset() { f.frames = 0 }

// Apex is the greatest height above the bottom edge reached by the ball.
// Screen y grows downward.
type Apex struct {
	floor   int
	highest int
	seen    bool
}

func NewApex(screenHeight int) *Apex {
	return &Apex{floor: screenHeight}
}

func (a *Apex) Name() string { return "apex" }

func (a *Apex) Observe(p physics.Point, frame int) {
	if !a.seen || p.Y < a.highest {
		a.highest = p.Y
		a.seen = true
	}
}

func (a *Apex) Value() float64 {
	if !a.seen {
		return 0
	}
	return float64(a.floor - a.highest)
}

func (a *Apex) Reset() {
	a.highest = 0
	a.seen = false
}

// Span is the horizontal distance covered between the first and the
// farthest path point.
type Span struct {
	first   int
	maxDist float64
	seen    bool
}

func NewSpan() *Span { return &Span{} }

func (s *Span) Name() string { return "span" }

func (s *Span) Observe(p physics.Point, frame int) {
	if !s.seen {
		s.first = p.X
		s.seen = true
	}
	s.maxDist = math.Max(s.maxDist, math.Abs(float64(p.X-s.first)))
}

func (s *Span) Value() float64 { return s.maxDist }

func (s *Span) Reset() {
	s.first = 0
	s.maxDist = 0
	s.seen = false
}
