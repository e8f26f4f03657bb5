package input

import (
	"github.com/san-kum/rodsim/internal/config"
	"github.com/san-kum/rodsim/internal/physics"
)

const (
	InitialAngle = iota
	MotorTorque
	ReleaseAngle
	NumFields
)

// Form groups the three fields read once per frame.
type Form struct {
	Fields [NumFields]*Field
	focus  int
}

func NewForm(defaults config.InputConfig) *Form {
	return &Form{
		Fields: [NumFields]*Field{
			InitialAngle: NewField("Initial Angle", defaults.InitialAngle),
			MotorTorque:  NewField("Motor Torque", defaults.MotorTorque),
			ReleaseAngle: NewField("Release Angle", defaults.ReleaseAngle),
		},
	}
}

// Inputs reads every field, substituting defaults for unparseable text.
func (f *Form) Inputs() physics.Inputs {
	return physics.Inputs{
		InitialAngle: f.Fields[InitialAngle].Value(),
		MotorTorque:  f.Fields[MotorTorque].Value(),
		ReleaseAngle: f.Fields[ReleaseAngle].Value(),
	}
}

// Apply overwrites the field texts, typically from a preset.
func (f *Form) Apply(in config.InputConfig) {
	f.Fields[InitialAngle].SetText(format(in.InitialAngle))
	f.Fields[MotorTorque].SetText(format(in.MotorTorque))
	f.Fields[ReleaseAngle].SetText(format(in.ReleaseAngle))
}

func (f *Form) Reset() {
	for _, fl := range f.Fields {
		fl.Reset()
	}
}

func (f *Form) Focused() *Field { return f.Fields[f.focus] }
func (f *Form) FocusIndex() int { return f.focus }

func (f *Form) SetFocus(i int) {
	if i >= 0 && i < NumFields {
		f.focus = i
	}
}

func (f *Form) Next() { f.focus = (f.focus + 1) % NumFields }
func (f *Form) Prev() { f.focus = (f.focus + NumFields - 1) % NumFields }
