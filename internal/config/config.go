package config

import (
	"errors"
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	DefaultScreenWidth   = 800
	DefaultScreenHeight  = 600
	DefaultRodLength     = 200.0
	DefaultRodRadius     = 7.5
	DefaultRodDensity    = 7.87
	DefaultBallRadius    = 7.5
	DefaultBallDensity   = 7.87
	DefaultGravity       = 0.98
	DefaultMotorMaxSpeed = 2.0

	DefaultInitialAngle = 0.0
	DefaultMotorTorque  = 2.0
	DefaultReleaseAngle = 90.0

	DefaultLogLevel = "info"
)

// ErrInvalidConfig is returned by Validate for constants that would keep the
// spin-up or flight loops from terminating.
var ErrInvalidConfig = errors.New("config: invalid configuration")

type Config struct {
	Screen  ScreenConfig  `yaml:"screen"`
	Rod     BodyConfig    `yaml:"rod"`
	Ball    BodyConfig    `yaml:"ball"`
	Physics PhysicsConfig `yaml:"physics"`
	Inputs  InputConfig   `yaml:"inputs"`
	Log     LogConfig     `yaml:"log"`
}

type ScreenConfig struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// BodyConfig describes a rod or a ball. Length is ignored for the ball.
type BodyConfig struct {
	Length  float64 `yaml:"length,omitempty"`
	Radius  float64 `yaml:"radius"`
	Density float64 `yaml:"density"`
}

type PhysicsConfig struct {
	Gravity       float64 `yaml:"gravity"`
	MotorMaxSpeed float64 `yaml:"motor_max_speed"`
}

// InputConfig holds the fallback values used when an input field cannot be parsed.
type InputConfig struct {
	InitialAngle float64 `yaml:"initial_angle"`
	MotorTorque  float64 `yaml:"motor_torque"`
	ReleaseAngle float64 `yaml:"release_angle"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

func DefaultConfig() *Config {
	return &Config{
		Screen: ScreenConfig{
			Width:  DefaultScreenWidth,
			Height: DefaultScreenHeight,
		},
		Rod: BodyConfig{
			Length:  DefaultRodLength,
			Radius:  DefaultRodRadius,
			Density: DefaultRodDensity,
		},
		Ball: BodyConfig{
			Radius:  DefaultBallRadius,
			Density: DefaultBallDensity,
		},
		Physics: PhysicsConfig{
			Gravity:       DefaultGravity,
			MotorMaxSpeed: DefaultMotorMaxSpeed,
		},
		Inputs: InputConfig{
			InitialAngle: DefaultInitialAngle,
			MotorTorque:  DefaultMotorTorque,
			ReleaseAngle: DefaultReleaseAngle,
		},
		Log: LogConfig{Level: DefaultLogLevel},
	}
}

// Load reads a YAML file over the defaults. Keys missing from the file keep
// their default values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Screen.Width <= 0 || c.Screen.Height <= 0 {
		return fmt.Errorf("%w: screen size must be positive, got %dx%d", ErrInvalidConfig, c.Screen.Width, c.Screen.Height)
	}
	checks := []struct {
		name  string
		value float64
	}{
		{"rod length", c.Rod.Length},
		{"rod radius", c.Rod.Radius},
		{"rod density", c.Rod.Density},
		{"ball radius", c.Ball.Radius},
		{"ball density", c.Ball.Density},
		{"gravity", c.Physics.Gravity},
		{"motor max speed", c.Physics.MotorMaxSpeed},
	}
	for _, ch := range checks {
		if math.IsNaN(ch.value) || math.IsInf(ch.value, 0) || ch.value <= 0 {
			return fmt.Errorf("%w: %s must be positive and finite, got %v", ErrInvalidConfig, ch.name, ch.value)
		}
	}
	for name, v := range map[string]float64{
		"initial angle": c.Inputs.InitialAngle,
		"motor torque":  c.Inputs.MotorTorque,
		"release angle": c.Inputs.ReleaseAngle,
	} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: default %s must be finite", ErrInvalidConfig, name)
		}
	}
	return nil
}
