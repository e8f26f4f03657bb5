package viz

import (
	"math"

	"github.com/san-kum/rodsim/internal/physics"
	"github.com/san-kum/rodsim/internal/scene"
)

// Rasterize draws s onto c, scaling screen pixels to canvas dots. Text is not
// drawn; callers render it beside the canvas.
func Rasterize(c *Canvas, s *scene.Scene) {
	c.Clear()
	if s == nil || s.Width <= 0 || s.Height <= 0 {
		return
	}
	dw, dh := c.Dots()
	sx := float64(dw) / float64(s.Width)
	sy := float64(dh) / float64(s.Height)
	at := func(p physics.Point) (int, int) {
		return int(float64(p.X) * sx), int(float64(p.Y) * sy)
	}
	radius := func(r float64) int {
		return int(math.Round(r * (sx + sy) / 2))
	}

	for _, l := range s.Rods {
		x0, y0 := at(l.From)
		x1, y1 := at(l.To)
		c.DrawLine(x0, y0, x1, y1)
	}
	for _, m := range s.Markers {
		x, y := at(m.Center)
		c.Set(x, y)
	}
	for _, b := range s.Balls {
		x, y := at(b.Center)
		c.FillCircle(x, y, radius(b.Radius))
	}
	x, y := at(s.Ring.Center)
	c.DrawCircle(x, y, radius(s.Ring.Radius))
}
