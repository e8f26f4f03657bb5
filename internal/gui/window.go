package gui

import (
	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/san-kum/rodsim/internal/config"
	"github.com/san-kum/rodsim/internal/input"
	"github.com/san-kum/rodsim/internal/physics"
	"github.com/san-kum/rodsim/internal/scene"
	"github.com/sirupsen/logrus"
)

const (
	title      = "Ball Throw Simulation with Rotating Assembly"
	fontSize   = 20
	labelWidth = 150
	boxWidth   = 100
	rowHeight  = 30
	rowGap     = 40
	margin     = 10
)

var colors = map[scene.Color]rl.Color{
	scene.White: rl.White,
	scene.Black: rl.Black,
	scene.Red:   rl.Red,
	scene.Blue:  rl.Blue,
}

// Window is the desktop frame driver. Each frame it reads the form, lets the
// scene driver recompute everything and draws the result.
type Window struct {
	driver *scene.Driver
	log    *logrus.Logger
	boxes  [input.NumFields]rl.Rectangle
}

func NewWindow(l *physics.Launcher, defaults config.InputConfig, log *logrus.Logger) *Window {
	w := &Window{
		driver: scene.NewDriver(l, input.NewForm(defaults)),
		log:    log,
	}
	for i := range w.boxes {
		y := float32(margin + i*rowGap)
		w.boxes[i] = rl.NewRectangle(margin+labelWidth, y, boxWidth, rowHeight)
	}
	return w
}

func (w *Window) Run() {
	sw, sh := w.driver.Launcher.Screen()
	rl.InitWindow(int32(sw), int32(sh), title)
	defer rl.CloseWindow()
	rl.SetTargetFPS(60)
	rl.SetExitKey(0)

	w.log.WithFields(logrus.Fields{"width": sw, "height": sh}).Info("window opened")
	for !rl.WindowShouldClose() {
		w.handleInput()

		s, _, err := w.driver.Frame()
		rl.BeginDrawing()
		rl.ClearBackground(rl.White)
		if err != nil {
			w.log.WithError(err).Debug("frame skipped")
		} else {
			w.drawScene(s)
		}
		w.drawForm()
		rl.EndDrawing()
	}
	w.log.Info("window closed")
}

func (w *Window) handleInput() {
	form := w.driver.Form
	if rl.IsMouseButtonPressed(rl.MouseLeftButton) {
		mouse := rl.GetMousePosition()
		for i, box := range w.boxes {
			if rl.CheckCollisionPointRec(mouse, box) {
				form.SetFocus(i)
			}
		}
	}
	if rl.IsKeyPressed(rl.KeyTab) {
		if rl.IsKeyDown(rl.KeyLeftShift) || rl.IsKeyDown(rl.KeyRightShift) {
			form.Prev()
		} else {
			form.Next()
		}
	}
	if rl.IsKeyPressed(rl.KeyEnter) {
		form.Next()
	}
	if rl.IsKeyPressed(rl.KeyBackspace) || rl.IsKeyPressedRepeat(rl.KeyBackspace) {
		form.Focused().Backspace()
	}
	for r := rl.GetCharPressed(); r > 0; r = rl.GetCharPressed() {
		form.Focused().Insert(rune(r))
	}
}

func (w *Window) drawScene(s *scene.Scene) {
	for _, l := range s.Rods {
		rl.DrawLineEx(vec(l.From), vec(l.To), float32(l.Width), colors[l.Color])
	}
	for _, m := range s.Markers {
		rl.DrawCircle(int32(m.Center.X), int32(m.Center.Y), float32(m.Radius), colors[m.Color])
	}
	for _, b := range s.Balls {
		rl.DrawCircle(int32(b.Center.X), int32(b.Center.Y), float32(b.Radius), colors[b.Color])
	}
	rl.DrawCircleLines(int32(s.Ring.Center.X), int32(s.Ring.Center.Y), float32(s.Ring.Radius), colors[s.Ring.Color])
	for _, t := range s.Texts {
		rl.DrawText(t.Body, int32(t.Pos.X), int32(t.Pos.Y), fontSize, colors[t.Color])
	}
}

func (w *Window) drawForm() {
	form := w.driver.Form
	for i, f := range form.Fields {
		box := w.boxes[i]
		rl.DrawText(f.Name+":", margin, int32(box.Y)+5, fontSize, rl.Black)
		rl.DrawRectangleRec(box, rl.RayWhite)
		border := rl.Gray
		if i == form.FocusIndex() {
			border = rl.DarkBlue
		}
		rl.DrawRectangleLinesEx(box, 2, border)
		text := f.Text
		if _, ok := f.Parse(); !ok {
			text += "?"
		}
		rl.DrawText(text, int32(box.X)+5, int32(box.Y)+5, fontSize, rl.Black)
	}
}

func vec(p physics.Point) rl.Vector2 {
	return rl.NewVector2(float32(p.X), float32(p.Y))
}
