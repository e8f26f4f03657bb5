package scene

import (
	"github.com/san-kum/rodsim/internal/input"
	"github.com/san-kum/rodsim/internal/physics"
)

// Driver recomputes the whole frame from the form on every call; nothing is
// carried over from the previous frame.
type Driver struct {
	Launcher *physics.Launcher
	Form     *input.Form
}

func NewDriver(l *physics.Launcher, f *input.Form) *Driver {
	return &Driver{Launcher: l, Form: f}
}

func (d *Driver) Frame() (*Scene, physics.Result, error) {
	in := d.Form.Inputs()
	res, err := d.Launcher.Compute(in)
	if err != nil {
		return nil, physics.Result{}, err
	}
	return Build(d.Launcher, in, res), res, nil
}
