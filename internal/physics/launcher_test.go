package physics_test

import (
	"math"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/rodsim/internal/config"
	"github.com/san-kum/rodsim/internal/input"
	"github.com/san-kum/rodsim/internal/physics"
)

var _ = Describe("Launcher", func() {
	var (
		launcher *physics.Launcher
		defaults physics.Inputs
	)

	BeforeEach(func() {
		var err error
		launcher, err = physics.NewLauncher(config.DefaultConfig())
		Expect(err).NotTo(HaveOccurred())
		defaults = physics.Inputs{InitialAngle: 0, MotorTorque: 2, ReleaseAngle: 90}
	})

	Describe("construction", func() {
		It("derives the weights from geometry and density", func() {
			Expect(launcher.RodWeight()).To(BeNumerically("~", 278.1488, 1e-3))
			Expect(launcher.BallWeight()).To(BeNumerically("~", 13.9074, 1e-3))
		})

		It("sums the rod and point-mass ball inertia", func() {
			Expect(launcher.MomentOfInertia()).To(BeNumerically("~", 4264.9476, 1e-3))
		})

		It("places the origin at the screen center", func() {
			Expect(launcher.Origin().X()).To(Equal(400.0))
			Expect(launcher.Origin().Y()).To(Equal(300.0))
		})

		It("rejects invalid constants", func() {
			cfg := config.DefaultConfig()
			cfg.Physics.Gravity = 0
			_, err := physics.NewLauncher(cfg)
			Expect(err).To(MatchError(config.ErrInvalidConfig))
		})
	})

	Describe("Compute", func() {
		It("is deterministic", func() {
			for _, in := range []physics.Inputs{
				defaults,
				{InitialAngle: 90, MotorTorque: 4, ReleaseAngle: 160},
				{InitialAngle: -45, MotorTorque: 0.5, ReleaseAngle: 10},
			} {
				a, err := launcher.Compute(in)
				Expect(err).NotTo(HaveOccurred())
				b, err := launcher.Compute(in)
				Expect(err).NotTo(HaveOccurred())
				Expect(b.Path).To(Equal(a.Path))
				Expect(b.Distance).To(Equal(a.Distance))
			}
		})

		It("does not carry state between calls", func() {
			first, _ := launcher.Compute(defaults)
			_, _ = launcher.Compute(physics.Inputs{InitialAngle: -90, MotorTorque: 50, ReleaseAngle: 10})
			again, _ := launcher.Compute(defaults)
			Expect(again.Path).To(Equal(first.Path))
			Expect(again.Distance).To(Equal(first.Distance))
		})

		Context("with the default inputs", func() {
			var res physics.Result

			BeforeEach(func() {
				var err error
				res, err = launcher.Compute(defaults)
				Expect(err).NotTo(HaveOccurred())
			})

			It("spins up for a finite number of frames", func() {
				Expect(res.SpinUpSteps).To(Equal(82))
				Expect(res.AngularSpeed).To(BeNumerically("~", 0.038453, 1e-6))
				Expect(res.ReleaseSpeed).To(BeNumerically("~", res.AngularSpeed*200, 1e-12))
				Expect(res.Stalled).To(BeFalse())
			})

			It("releases at the rod tip with a tangential velocity", func() {
				Expect(res.ReleasePosition.X()).To(BeNumerically("~", 400, 1e-9))
				Expect(res.ReleasePosition.Y()).To(BeNumerically("~", 500, 1e-9))
				Expect(res.ReleaseVelocity.X()).To(BeNumerically("~", -res.ReleaseSpeed, 1e-9))
				Expect(res.ReleaseVelocity.Y()).To(BeNumerically("~", 0, 1e-9))
			})

			It("produces a non-empty path starting below the release point", func() {
				Expect(res.Path).To(HaveLen(14))
				Expect(res.Path[0]).To(Equal(physics.Point{X: 392, Y: 500}))
				Expect(float64(res.Path[0].Y)).To(BeNumerically(">=", math.Floor(res.ReleasePosition.Y())))
				Expect(res.Path[len(res.Path)-1]).To(Equal(physics.Point{X: 292, Y: 602}))
			})

			It("reports a finite distance", func() {
				Expect(math.IsNaN(res.Distance) || math.IsInf(res.Distance, 0)).To(BeFalse())
				Expect(res.Distance).To(BeNumerically("~", -107.668, 1e-3))
			})
		})

		Context("when the rod starts at or past the release angle", func() {
			It("skips the spin-up and drops the ball straight down", func() {
				res, err := launcher.Compute(physics.Inputs{InitialAngle: 90, MotorTorque: 2, ReleaseAngle: 90})
				Expect(err).NotTo(HaveOccurred())
				Expect(res.SpinUpSteps).To(BeZero())
				Expect(res.ReleaseSpeed).To(BeZero())
				Expect(res.Path).NotTo(BeEmpty())
				for _, p := range res.Path {
					Expect(p.X).To(Equal(400))
				}
				for i := 1; i < len(res.Path); i++ {
					Expect(res.Path[i].Y).To(BeNumerically(">=", res.Path[i-1].Y))
				}
				Expect(res.Distance).To(BeNumerically("~", 0, 1e-9))
			})

			It("also skips it when the initial angle is beyond the release angle", func() {
				res, err := launcher.Compute(physics.Inputs{InitialAngle: 120, MotorTorque: 2, ReleaseAngle: 0})
				Expect(err).NotTo(HaveOccurred())
				Expect(res.SpinUpSteps).To(BeZero())
				Expect(res.Path[0].X).To(Equal(600))
			})
		})

		It("terminates the spin-up for positive torque", func() {
			for _, torque := range []float64{0.01, 0.5, 2, 40, 1e4} {
				res, err := launcher.Compute(physics.Inputs{InitialAngle: -180, MotorTorque: torque, ReleaseAngle: 180})
				Expect(err).NotTo(HaveOccurred())
				Expect(res.SpinUpSteps).To(BeNumerically(">", 0))
			}
		})

		It("stops the motor at the speed cap", func() {
			res, err := launcher.Compute(physics.Inputs{InitialAngle: 0, MotorTorque: 1e5, ReleaseAngle: 3600})
			Expect(err).NotTo(HaveOccurred())
			Expect(res.AngularSpeed).To(BeNumerically(">=", config.DefaultMotorMaxSpeed))
		})

		It("drops the ball at rest for a stalled motor", func() {
			for _, torque := range []float64{0, -2} {
				res, err := launcher.Compute(physics.Inputs{InitialAngle: 0, MotorTorque: torque, ReleaseAngle: 90})
				Expect(err).NotTo(HaveOccurred())
				Expect(res.Stalled).To(BeTrue())
				Expect(res.SpinUpSteps).To(BeZero())
				Expect(res.ReleaseSpeed).To(BeZero())
				Expect(res.Path).NotTo(BeEmpty())
			}
		})

		It("drops the ball at rest when the torque underflows to zero acceleration", func() {
			field := input.NewField("Motor Torque", config.DefaultMotorTorque)
			field.SetText("1e-320")
			torque := field.Value()
			Expect(torque).To(BeNumerically(">", 0))

			done := make(chan physics.Result, 1)
			go func() {
				defer GinkgoRecover()
				res, err := launcher.Compute(physics.Inputs{InitialAngle: 0, MotorTorque: torque, ReleaseAngle: 90})
				Expect(err).NotTo(HaveOccurred())
				done <- res
			}()

			var res physics.Result
			Eventually(done, 3*time.Second).Should(Receive(&res))
			Expect(res.Stalled).To(BeTrue())
			Expect(res.SpinUpSteps).To(BeZero())
			Expect(res.ReleaseSpeed).To(BeZero())
			Expect(res.Path).NotTo(BeEmpty())
		})

		It("gives up on a torque too small to finish the spin-up", func() {
			res, err := launcher.Compute(physics.Inputs{InitialAngle: 0, MotorTorque: 1e-12, ReleaseAngle: 90})
			Expect(err).NotTo(HaveOccurred())
			Expect(res.Stalled).To(BeTrue())
			Expect(res.SpinUpSteps).To(Equal(physics.MaxSpinUpSteps))
			Expect(res.ReleaseSpeed).To(BeZero())
			for _, p := range res.Path {
				Expect(p.X).To(Equal(400))
			}
		})

		It("stops at the screen boundary", func() {
			w, h := launcher.Screen()
			for _, in := range []physics.Inputs{
				{InitialAngle: 0, MotorTorque: 100, ReleaseAngle: 90},
				{InitialAngle: 0, MotorTorque: 1e4, ReleaseAngle: 270},
				{InitialAngle: -90, MotorTorque: 1e3, ReleaseAngle: -80},
			} {
				res, err := launcher.Compute(in)
				Expect(err).NotTo(HaveOccurred())
				Expect(res.Path).NotTo(BeEmpty())
				last := res.Path[len(res.Path)-1]
				Expect(float64(last.X) >= w || float64(last.Y) >= h).To(BeTrue())
				for _, p := range res.Path[:len(res.Path)-1] {
					Expect(float64(p.X)).To(BeNumerically("<", w))
					Expect(float64(p.Y)).To(BeNumerically("<", h))
				}
			}
		})

		It("rejects non-finite inputs", func() {
			for _, in := range []physics.Inputs{
				{InitialAngle: math.NaN(), MotorTorque: 2, ReleaseAngle: 90},
				{InitialAngle: 0, MotorTorque: math.Inf(1), ReleaseAngle: 90},
				{InitialAngle: 0, MotorTorque: 2, ReleaseAngle: math.Inf(-1)},
			} {
				_, err := launcher.Compute(in)
				Expect(err).To(MatchError(physics.ErrNonFiniteInput))
			}
		})

		It("never changes the weights", func() {
			rod, ball := launcher.RodWeight(), launcher.BallWeight()
			for _, torque := range []float64{0.5, 2, 8} {
				_, _ = launcher.Compute(physics.Inputs{InitialAngle: 10, MotorTorque: torque, ReleaseAngle: 80})
			}
			Expect(launcher.RodWeight()).To(Equal(rod))
			Expect(launcher.BallWeight()).To(Equal(ball))
		})
	})

	Describe("RodTip", func() {
		It("lies on the reference circle", func() {
			for _, deg := range []float64{0, 33, 90, 180, -45} {
				tip := launcher.RodTip(deg)
				Expect(tip.Sub(launcher.Origin()).Len()).To(BeNumerically("~", launcher.RodLength(), 1e-9))
			}
		})
	})
})
