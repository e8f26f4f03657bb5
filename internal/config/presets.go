package config

import "sort"

// Presets are named input combinations for the three user-editable fields.
var Presets = map[string]InputConfig{
	"default":   {InitialAngle: DefaultInitialAngle, MotorTorque: DefaultMotorTorque, ReleaseAngle: DefaultReleaseAngle},
	"drop":      {InitialAngle: 90, MotorTorque: 2, ReleaseAngle: 90},
	"underhand": {InitialAngle: 0, MotorTorque: 4, ReleaseAngle: 45},
	"overhand":  {InitialAngle: 90, MotorTorque: 4, ReleaseAngle: 160},
	"sidearm":   {InitialAngle: -90, MotorTorque: 2, ReleaseAngle: 0},
	"stalled":   {InitialAngle: 0, MotorTorque: 0, ReleaseAngle: 90},
}

func GetPreset(name string) (InputConfig, bool) {
	p, ok := Presets[name]
	return p, ok
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
