package physics

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/rodsim/internal/config"
)

// Inputs are the three user-editable values read every frame. Angles are in degrees.
type Inputs struct {
	InitialAngle float64 `json:"initial_angle" yaml:"initial_angle"`
	MotorTorque  float64 `json:"motor_torque" yaml:"motor_torque"`
	ReleaseAngle float64 `json:"release_angle" yaml:"release_angle"`
}

func InputsFrom(c config.InputConfig) Inputs {
	return Inputs{InitialAngle: c.InitialAngle, MotorTorque: c.MotorTorque, ReleaseAngle: c.ReleaseAngle}
}

// MaxSpinUpSteps bounds the spin-up phase. A torque too small to reach the
// release angle or the speed cap within it counts as stalled.
const MaxSpinUpSteps = 1 << 20

type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

type Result struct {
	Path     []Point
	Distance float64

	SpinUpSteps     int
	AngularSpeed    float64
	ReleaseSpeed    float64
	ReleasePosition mgl64.Vec2
	ReleaseVelocity mgl64.Vec2
	// Stalled reports a torque that cannot bring the rod to its release
	// angle: non-positive, lost to underflow, or too small to get there
	// within MaxSpinUpSteps. The ball is dropped at rest instead.
	Stalled bool
}

// Launcher holds the frozen constants of the rod and ball together with the
// values derived from them once at construction. It is read-only afterwards
// and safe for concurrent use.
type Launcher struct {
	width, height float64
	origin        mgl64.Vec2

	rodLength     float64
	gravity       float64
	motorMaxSpeed float64
	ballRadius    float64

	rodWeight  float64 // grams
	ballWeight float64 // grams
	inertia    float64
}

// NewLauncher validates cfg and derives masses and the moment of inertia.
func NewLauncher(cfg *config.Config) (*Launcher, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	l := &Launcher{
		width:         float64(cfg.Screen.Width),
		height:        float64(cfg.Screen.Height),
		origin:        mgl64.Vec2{float64(cfg.Screen.Width / 2), float64(cfg.Screen.Height / 2)},
		rodLength:     cfg.Rod.Length,
		gravity:       cfg.Physics.Gravity,
		motorMaxSpeed: cfg.Physics.MotorMaxSpeed,
		ballRadius:    cfg.Ball.Radius,
	}

	// geometry is given in mm, density in g/cm^3
	rodRadiusCm := cfg.Rod.Radius / 10
	rodLengthCm := cfg.Rod.Length / 10
	l.rodWeight = math.Pi * (rodRadiusCm * rodRadiusCm) * rodLengthCm * cfg.Rod.Density
	ballRadiusCm := cfg.Ball.Radius / 10
	l.ballWeight = ((4 * math.Pi * math.Pow(ballRadiusCm, 3)) / 3) * cfg.Ball.Density

	// Rod length enters the inertia unconverted; distances downstream depend on it.
	rodMassKg := l.rodWeight / 1000
	ballMassKg := l.ballWeight / 1000
	lengthSq := l.rodLength * l.rodLength
	iRod := (1.0 / 3.0) * rodMassKg * lengthSq
	iBall := ballMassKg * lengthSq
	l.inertia = iRod + iBall

	return l, nil
}

func (l *Launcher) RodWeight() float64       { return l.rodWeight }
func (l *Launcher) BallWeight() float64      { return l.ballWeight }
func (l *Launcher) MomentOfInertia() float64 { return l.inertia }
func (l *Launcher) Origin() mgl64.Vec2       { return l.origin }
func (l *Launcher) RodLength() float64       { return l.rodLength }
func (l *Launcher) BallRadius() float64      { return l.ballRadius }
func (l *Launcher) Screen() (float64, float64) {
	return l.width, l.height
}

// RodTip returns the rod endpoint for an angle in degrees.
func (l *Launcher) RodTip(angleDeg float64) mgl64.Vec2 {
	rad := radians(angleDeg)
	return l.origin.Add(mgl64.Vec2{math.Cos(rad), math.Sin(rad)}.Mul(l.rodLength))
}

func (l *Launcher) GetParams() map[string]float64 {
	return map[string]float64{
		"screen_width":    l.width,
		"screen_height":   l.height,
		"rod_length":      l.rodLength,
		"gravity":         l.gravity,
		"motor_max_speed": l.motorMaxSpeed,
		"rod_weight":      l.rodWeight,
		"ball_weight":     l.ballWeight,
		"inertia":         l.inertia,
	}
}

// Compute runs the spin-up, release and flight phases for one set of inputs.
// Both phases advance one frame per iteration.
func (l *Launcher) Compute(in Inputs) (Result, error) {
	for _, v := range []float64{in.InitialAngle, in.MotorTorque, in.ReleaseAngle} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return Result{}, ErrNonFiniteInput
		}
	}

	releaseRad := radians(in.ReleaseAngle)
	angle := radians(in.InitialAngle)
	speed := 0.0

	var res Result
	accel := in.MotorTorque / l.inertia
	if accel <= 0 && angle < releaseRad {
		res.Stalled = true
	} else {
		for angle < releaseRad && speed < l.motorMaxSpeed {
			nextSpeed := speed + accel
			nextAngle := angle + nextSpeed
			if (nextSpeed == speed && nextAngle == angle) || res.SpinUpSteps >= MaxSpinUpSteps {
				res.Stalled = true
				speed = 0
				break
			}
			speed, angle = nextSpeed, nextAngle
			res.SpinUpSteps++
		}
	}

	res.AngularSpeed = speed
	res.ReleaseSpeed = speed * l.rodLength
	sin, cos := math.Sin(releaseRad), math.Cos(releaseRad)
	vel := mgl64.Vec2{-res.ReleaseSpeed * sin, res.ReleaseSpeed * cos}
	pos := l.origin.Add(mgl64.Vec2{cos, sin}.Mul(l.rodLength))
	res.ReleaseVelocity = vel
	res.ReleasePosition = pos

	res.Path = make([]Point, 0, 64)
	for pos.Y() < l.height {
		vel[1] += l.gravity
		pos = pos.Add(vel)
		res.Path = append(res.Path, Point{X: int(pos.X()), Y: int(pos.Y())})
		if pos.X() >= l.width || pos.Y() >= l.height {
			break
		}
	}

	res.Distance = pos.X() - l.origin.X() - l.rodLength*cos
	return res, nil
}

func radians(deg float64) float64 {
	return deg * (math.Pi / 180)
}
