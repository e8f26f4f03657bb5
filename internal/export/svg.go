package export

import (
	"fmt"
	"html"
	"strings"

	"github.com/san-kum/rodsim/internal/scene"
)

// SceneSVG renders the scene as a standalone SVG document in screen
// coordinates, drawn in the same order as the window.
func SceneSVG(s *scene.Scene) string {
	if s == nil {
		return ""
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="%s"/>
`, s.Width, s.Height, s.Width, s.Height, s.Background.Hex()))

	sb.WriteString(`<g id="rods" stroke-linecap="butt">` + "\n")
	for _, l := range s.Rods {
		sb.WriteString(fmt.Sprintf(`<line x1="%d" y1="%d" x2="%d" y2="%d" stroke="%s" stroke-width="%d"/>`+"\n",
			l.From.X, l.From.Y, l.To.X, l.To.Y, l.Color.Hex(), l.Width))
	}
	sb.WriteString("</g>\n")

	sb.WriteString(`<g id="path">` + "\n")
	for _, m := range s.Markers {
		writeCircle(&sb, m)
	}
	sb.WriteString("</g>\n")

	sb.WriteString(`<g id="balls">` + "\n")
	for _, b := range s.Balls {
		writeCircle(&sb, b)
	}
	sb.WriteString("</g>\n")

	writeCircle(&sb, s.Ring)

	sb.WriteString(`<g id="labels" font-family="sans-serif" font-size="20" dominant-baseline="hanging">` + "\n")
	for _, t := range s.Texts {
		sb.WriteString(fmt.Sprintf(`<text x="%d" y="%d" fill="%s">%s</text>`+"\n",
			t.Pos.X, t.Pos.Y, t.Color.Hex(), html.EscapeString(t.Body)))
	}
	sb.WriteString("</g>\n</svg>\n")
	return sb.String()
}

func writeCircle(sb *strings.Builder, c scene.Circle) {
	if c.Outline {
		sb.WriteString(fmt.Sprintf(`<circle cx="%d" cy="%d" r="%g" fill="none" stroke="%s" stroke-width="1"/>`+"\n",
			c.Center.X, c.Center.Y, c.Radius, c.Color.Hex()))
		return
	}
	sb.WriteString(fmt.Sprintf(`<circle cx="%d" cy="%d" r="%g" fill="%s"/>`+"\n",
		c.Center.X, c.Center.Y, c.Radius, c.Color.Hex()))
}
