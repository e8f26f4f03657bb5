package scene

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/rodsim/internal/physics"
)

type Color int

const (
	White Color = iota
	Black
	Red
	Blue
)

func (c Color) Hex() string {
	switch c {
	case Black:
		return "#000000"
	case Red:
		return "#ff0000"
	case Blue:
		return "#0000ff"
	default:
		return "#ffffff"
	}
}

const (
	RodWidth     = 15
	MarkerRadius = 2
	textLeading  = 20
)

type Line struct {
	From, To physics.Point
	Width    int
	Color    Color
}

// Circle is filled unless Outline is set.
type Circle struct {
	Center  physics.Point
	Radius  float64
	Color   Color
	Outline bool
}

type Text struct {
	Pos   physics.Point
	Body  string
	Color Color
}

// Scene is everything drawn in one frame, in draw order: rods, path markers,
// balls, the reference ring, then text.
type Scene struct {
	Width, Height int
	Background    Color
	Rods          []Line
	Markers       []Circle
	Balls         []Circle
	Ring          Circle
	Texts         []Text
}

// Build lays out the primitives for inputs and the result computed from them.
func Build(l *physics.Launcher, in physics.Inputs, res physics.Result) *Scene {
	w, h := l.Screen()
	origin := toPoint(l.Origin())
	initialTip := toPoint(l.RodTip(in.InitialAngle))
	releaseTip := toPoint(l.RodTip(in.ReleaseAngle))

	s := &Scene{
		Width:      int(w),
		Height:     int(h),
		Background: White,
		Rods: []Line{
			{From: origin, To: initialTip, Width: RodWidth, Color: Black},
			{From: origin, To: releaseTip, Width: RodWidth, Color: Black},
		},
		Markers: make([]Circle, 0, len(res.Path)),
		Balls: []Circle{
			{Center: initialTip, Radius: l.BallRadius(), Color: Red},
			{Center: releaseTip, Radius: l.BallRadius(), Color: Blue},
		},
		Ring: Circle{Center: origin, Radius: l.RodLength(), Color: Black, Outline: true},
	}
	for _, p := range res.Path {
		s.Markers = append(s.Markers, Circle{Center: p, Radius: MarkerRadius, Color: Blue})
	}

	x := int(w) / 2
	for i, body := range []string{
		fmt.Sprintf("Expected Distance: %.2f cm", res.Distance),
		fmt.Sprintf("Rod Weight: %.2f grams", l.RodWeight()),
		fmt.Sprintf("Ball Weight: %.2f grams", l.BallWeight()),
	} {
		s.Texts = append(s.Texts, Text{Pos: physics.Point{X: x, Y: 10 + i*textLeading}, Body: body, Color: Black})
	}
	return s
}

func toPoint(v mgl64.Vec2) physics.Point {
	return physics.Point{X: int(v.X()), Y: int(v.Y())}
}
