// Package physics computes the throw of a ball released from a motor-driven
// rotating rod.
//
// A [Launcher] is built once from the frozen constants in [config.Config].
// It derives the rod and ball weights and the total moment of inertia, then
// answers [Launcher.Compute] calls for any number of [Inputs]:
//
//   - spin-up: per-frame Euler integration of the rod angle under constant
//     motor torque until the release angle or the motor speed cap is reached
//   - release: tangential velocity at the rod tip
//   - flight: per-frame ballistic steps under gravity until the ball leaves
//     the screen
//
// # Example
//
//	l, _ := physics.NewLauncher(config.DefaultConfig())
//	res, _ := l.Compute(physics.Inputs{InitialAngle: 0, MotorTorque: 2, ReleaseAngle: 90})
//	fmt.Printf("%.2f cm\n", res.Distance)
//
// # Thread Safety
//
// A Launcher is immutable after construction and may be shared between
// goroutines.
package physics
