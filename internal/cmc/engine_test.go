package cmc_test

import (
	"errors"
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/spinsim/internal/cmc"
	"github.com/san-kum/spinsim/internal/material"
	"github.com/san-kum/spinsim/internal/random"
	"github.com/san-kum/spinsim/internal/spin"
	"github.com/san-kum/spinsim/internal/vmath"
)

// scriptedSource replays fixed draws, cycling when a script runs out.
type scriptedSource struct {
	uniforms  []float64
	gaussians []float64
	u, g      int
}

func (s *scriptedSource) Uniform() float64 {
	v := s.uniforms[s.u%len(s.uniforms)]
	s.u++
	return v
}

func (s *scriptedSource) Gaussian() float64 {
	v := s.gaussians[s.g%len(s.gaussians)]
	s.g++
	return v
}

type thermalSwitch struct{ calls int }

func (t *thermalSwitch) DisableThermalField() { t.calls++ }

var zeroEnergy = cmc.EnergyFunc(func(int) float64 { return 0 })

func ironTable() material.Table {
	tab, err := material.NewTable(material.Iron)
	Expect(err).NotTo(HaveOccurred())
	return tab
}

func expectUnitSpins(sys *spin.System) {
	for i := 0; i < sys.Len(); i++ {
		ExpectWithOffset(1, sys.Spin(i).Length()).To(BeNumerically("~", 1.0, 1e-9), "atom %d", i)
	}
}

// transverse is the magnetization component perpendicular to the
// constraint, measured in the constraint frame.
func transverse(sys *spin.System, f cmc.Frame) float64 {
	local := f.ToLocal(sys.Magnetization())
	return math.Hypot(local.X, local.Y)
}

var _ = Describe("Engine", func() {
	var (
		sys  *spin.System
		mats material.Table
	)

	BeforeEach(func() {
		sys = spin.New(10)
		mats = ironTable()
	})

	Describe("Initialize", func() {
		It("aligns every spin with the constraint direction", func() {
			eng := cmc.New(sys, zeroEnergy, mats, random.New(1), cmc.WithConstraint(70, 20))
			eng.Initialize()

			want := cmc.Direction(70, 20)
			for i := 0; i < sys.Len(); i++ {
				Expect(sys.Spin(i)).To(Equal(want))
			}
			Expect(eng.Initialized()).To(BeTrue())
			Expect(eng.Frame().V.Sub(want).Length()).To(BeNumerically("<", 1e-12))
		})

		It("disables the thermal field once", func() {
			ts := &thermalSwitch{}
			eng := cmc.New(sys, zeroEnergy, mats, random.New(1), cmc.WithThermalSwitch(ts))
			eng.Initialize()
			eng.Initialize()
			Expect(ts.calls).To(Equal(1))
		})

		It("is a no-op when already initialized", func() {
			eng := cmc.New(sys, zeroEnergy, mats, random.New(1), cmc.WithConstraint(90, 0))
			eng.Initialize()

			sys.SetSpin(3, vmath.Vec3{Y: 1})
			before := sys.Snapshot()
			eng.Initialize()
			Expect(sys.Snapshot()).To(Equal(before))
		})

		It("happens lazily on the first sweep", func() {
			eng := cmc.New(sys, zeroEnergy, mats, random.New(1), cmc.WithConstraint(90, 90))
			Expect(eng.Initialized()).To(BeFalse())
			Expect(eng.Sweep(300)).To(Succeed())
			Expect(eng.Initialized()).To(BeTrue())
			Expect(eng.Sweeps()).To(BeEquivalentTo(1))
		})

		It("realigns after the constraint changes", func() {
			eng := cmc.New(sys, zeroEnergy, mats, random.New(1))
			Expect(eng.Sweep(300)).To(Succeed())

			eng.SetConstraint(90, 0)
			Expect(eng.Initialized()).To(BeFalse())
			eng.Initialize()
			Expect(sys.Spin(0).Sub(vmath.Vec3{X: 1}).Length()).To(BeNumerically("<", 1e-12))
		})

		It("uses the energy oracle as thermal switch when it can", func() {
			oracle := &switchingOracle{}
			eng := cmc.New(sys, oracle, mats, random.New(1))
			eng.Initialize()
			Expect(oracle.disabled).To(BeTrue())
		})
	})

	Describe("Sweep", func() {
		It("performs one trial per atom and keeps the counters consistent", func() {
			eng := cmc.New(sys, zeroEnergy, mats, random.New(11), cmc.WithConstraint(45, 45))
			for i := 0; i < 25; i++ {
				Expect(eng.Sweep(500)).To(Succeed())
				st := eng.Stats()
				Expect(st.Total).To(BeEquivalentTo(uint64(i+1) * uint64(sys.Len())))
				Expect(st.Consistent()).To(BeTrue())
			}
			Expect(eng.Stats().Successes).To(BeNumerically(">", 0))
		})

		It("leaves every spin on the unit sphere", func() {
			sys = spin.New(5)
			oracle := cmc.EnergyFunc(func(i int) float64 { return -sys.Spin(i).Z })
			eng := cmc.New(sys, oracle, mats, random.New(5), cmc.WithConstraint(30, 10))
			for i := 0; i < 200; i++ {
				Expect(eng.Sweep(50)).To(Succeed())
				expectUnitSpins(sys)
			}
		})

		It("is reproducible under a fixed seed", func() {
			run := func() ([]vmath.Vec3, cmc.Stats) {
				s := spin.New(16)
				oracle := cmc.EnergyFunc(func(i int) float64 { return -0.5 * s.Spin(i).X * s.Spin(i).X })
				eng := cmc.New(s, oracle, mats, random.New(2024), cmc.WithConstraint(60, 30))
				for i := 0; i < 50; i++ {
					Expect(eng.Sweep(10)).To(Succeed())
				}
				return s.Snapshot(), eng.Stats()
			}

			spinsA, statsA := run()
			spinsB, statsB := run()
			Expect(spinsA).To(Equal(spinsB))
			Expect(statsA).To(Equal(statsB))
		})

		It("rejects invalid temperatures without touching state", func() {
			eng := cmc.New(sys, zeroEnergy, mats, random.New(1))
			for _, temp := range []float64{0, -5, math.NaN()} {
				Expect(eng.Sweep(temp)).To(MatchError(cmc.ErrInvalidTemperature))
			}
			Expect(eng.Initialized()).To(BeFalse())
			Expect(eng.Stats()).To(Equal(cmc.Stats{}))
		})

		It("aborts on a non-finite energy and restores the trial spins", func() {
			eng := cmc.New(sys, cmc.EnergyFunc(func(int) float64 { return math.NaN() }), mats, random.New(3))
			eng.Initialize()
			before := sys.Snapshot()

			err := eng.Sweep(300)
			Expect(err).To(MatchError(cmc.ErrNonFiniteEnergy))

			var trialErr *cmc.TrialError
			Expect(errors.As(err, &trialErr)).To(BeTrue())
			Expect(trialErr.Trial).To(Equal(0))
			Expect(sys.Snapshot()).To(Equal(before))
			Expect(eng.Stats()).To(Equal(cmc.Stats{}))
		})

		It("clears everything on Reset", func() {
			eng := cmc.New(sys, zeroEnergy, mats, random.New(9))
			Expect(eng.Sweep(300)).To(Succeed())
			eng.Reset()
			Expect(eng.Stats()).To(Equal(cmc.Stats{}))
			Expect(eng.Sweeps()).To(BeZero())
			Expect(eng.Initialized()).To(BeFalse())
		})
	})

	Describe("trial outcomes", func() {
		BeforeEach(func() {
			sys = spin.New(2)
		})

		It("rejects via the sphere path when the partner cannot absorb the move", func() {
			calls := map[int]int{}
			oracle := cmc.EnergyFunc(func(i int) float64 {
				calls[i]++
				return -1e6 * float64(calls[i])
			})
			rng := &scriptedSource{uniforms: []float64{0.1, 0.6}, gaussians: []float64{-100, 0, 0}}
			eng := cmc.New(sys, oracle, mats, rng)
			eng.Initialize()
			sys.SetSpin(1, vmath.Vec3{X: 1})

			Expect(eng.Sweep(300)).To(Succeed())

			Expect(eng.Stats()).To(Equal(cmc.Stats{Total: 2, SphereRejections: 2}))
			Expect(calls[1]).To(BeZero())
			Expect(sys.Spin(0)).To(Equal(vmath.Zhat))
			Expect(sys.Spin(1)).To(Equal(vmath.Vec3{X: 1}))
			Expect(rng.u).To(Equal(4), "no acceptance draw on sphere rejection")
		})

		It("treats a self pair as a sphere rejection", func() {
			rng := &scriptedSource{uniforms: []float64{0.1}, gaussians: []float64{0.01, 0, 0}}
			eng := cmc.New(sys, zeroEnergy, mats, rng)

			Expect(eng.Sweep(300)).To(Succeed())
			Expect(eng.Stats()).To(Equal(cmc.Stats{Total: 2, SphereRejections: 2}))
			Expect(sys.Spin(0)).To(Equal(vmath.Zhat))
		})

		It("accepts lower energy moves without an acceptance draw", func() {
			oracle := cmc.EnergyFunc(func(i int) float64 { return sys.Spin(i).Z })
			rng := &scriptedSource{uniforms: []float64{0.1, 0.6}, gaussians: []float64{1, 0, 0}}
			eng := cmc.New(sys, oracle, mats, rng)

			Expect(eng.Sweep(1e-3)).To(Succeed())

			Expect(eng.Stats()).To(Equal(cmc.Stats{Successes: 2, Total: 2}))
			Expect(rng.u).To(Equal(4))
			Expect(transverse(sys, eng.Frame())).To(BeNumerically("<", 1e-12))
			Expect(sys.Spin(0).Z).To(BeNumerically("<", 1))
			expectUnitSpins(sys)
		})

		It("rejects costly moves at low temperature and restores both spins", func() {
			oracle := cmc.EnergyFunc(func(i int) float64 { return -sys.Spin(i).Z })
			rng := &scriptedSource{uniforms: []float64{0.1, 0.6, 0.5}, gaussians: []float64{1, 0, 0}}
			eng := cmc.New(sys, oracle, mats, rng)
			eng.Initialize()
			before := sys.Snapshot()

			Expect(eng.Sweep(1e-3)).To(Succeed())

			Expect(eng.Stats()).To(Equal(cmc.Stats{Total: 2, EnergyRejections: 2}))
			Expect(sys.Snapshot()).To(Equal(before))
			Expect(rng.u).To(Equal(6))
		})

		It("sends a zero energy change through the acceptance draw", func() {
			rng := &scriptedSource{uniforms: []float64{0.1, 0.6, 0.5}, gaussians: []float64{1, 0, 0}}
			eng := cmc.New(sys, zeroEnergy, mats, rng)

			Expect(eng.Sweep(300)).To(Succeed())

			Expect(eng.Stats()).To(Equal(cmc.Stats{Successes: 2, Total: 2}))
			Expect(rng.u).To(Equal(6))
		})
	})

	Describe("degenerate acceptance ratio", func() {
		It("rejects when the old and new projections are both zero", func() {
			sys = spin.New(2)
			rng := &scriptedSource{uniforms: []float64{0.1, 0.6, 0.5}, gaussians: []float64{0, 0, 0}}
			eng := cmc.New(sys, zeroEnergy, mats, rng)
			eng.Initialize()
			sys.SetSpin(1, vmath.Vec3{Z: -1})
			before := sys.Snapshot()

			Expect(eng.Sweep(300)).To(Succeed())

			Expect(eng.Stats()).To(Equal(cmc.Stats{Total: 2, EnergyRejections: 2}))
			Expect(sys.Snapshot()).To(Equal(before))
			Expect(rng.u).To(Equal(6))
		})

		It("accepts an infinite ratio when the new projection is positive", func() {
			sys = spin.New(4)
			calls := 0
			// zero for the first trial, costly for every later one
			oracle := cmc.EnergyFunc(func(int) float64 {
				calls++
				if calls <= 4 {
					return 0
				}
				return float64(calls) * 1e3
			})
			rng := &scriptedSource{uniforms: []float64{0.3, 0.6, 0.5}, gaussians: []float64{1, 0, 0}}
			eng := cmc.New(sys, oracle, mats, rng)
			eng.Initialize()
			sys.SetSpin(1, vmath.Vec3{Z: -1})
			sys.SetSpin(2, vmath.Vec3{Z: -1})

			Expect(eng.Sweep(1e-3)).To(Succeed())

			Expect(eng.Stats()).To(Equal(cmc.Stats{Successes: 1, Total: 4, EnergyRejections: 3}))
			Expect(rng.u).To(Equal(12))
			Expect(sys.Spin(1).X).To(BeNumerically(">", 0))
			Expect(sys.Spin(1).Z).To(BeNumerically("<", 0))
			Expect(sys.Magnetization().Z).To(BeNumerically(">", 0))
			Expect(transverse(sys, eng.Frame())).To(BeNumerically("<", 1e-12))
			expectUnitSpins(sys)
		})
	})

	Describe("constraint preservation", func() {
		It("conserves the transverse magnetization of a two spin system", func() {
			sys = spin.New(2)
			eng := cmc.New(sys, zeroEnergy, mats, random.New(77), cmc.WithConstraint(0, 0))
			for i := 0; i < 500; i++ {
				Expect(eng.Sweep(1e-2)).To(Succeed())
				Expect(transverse(sys, eng.Frame())).To(BeNumerically("<", 1e-12))
			}
			st := eng.Stats()
			Expect(st.Consistent()).To(BeTrue())
			Expect(st.Successes).To(BeNumerically(">", 0))
			expectUnitSpins(sys)
		})

		It("keeps the net magnetization on the constraint direction over long runs", func() {
			sys = spin.New(100)
			eng := cmc.New(sys, zeroEnergy, mats, random.New(100), cmc.WithConstraint(35, 120))
			eng.Initialize()
			v := eng.Frame().V

			sum := 0.0
			sweeps := 1000
			for i := 0; i < sweeps; i++ {
				Expect(eng.Sweep(300)).To(Succeed())
				m := sys.Magnetization()
				sum += m.Dot(v) / m.Length()
			}

			Expect(sum / float64(sweeps)).To(BeNumerically("~", 1.0, 1e-9))
			Expect(transverse(sys, eng.Frame())).To(BeNumerically("<", 1e-8))
			Expect(sys.Magnetization().Dot(v)).To(BeNumerically(">=", 0))
			Expect(eng.Stats().Consistent()).To(BeTrue())
			expectUnitSpins(sys)
		})
	})
})

type switchingOracle struct{ disabled bool }

func (o *switchingOracle) SpinEnergy(int) float64 { return 0 }
func (o *switchingOracle) DisableThermalField()   { o.disabled = true }
