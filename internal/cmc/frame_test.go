package cmc_test

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/spinsim/internal/cmc"
	"github.com/san-kum/spinsim/internal/vmath"
)

var _ = Describe("Frame", func() {
	DescribeTable("is orthonormal with a unit constraint vector",
		func(phi, theta float64) {
			f := cmc.NewFrame(phi, theta)

			Expect(f.RT.Mul(f.R).MaxAbsDiff(vmath.Identity())).To(BeNumerically("<", 1e-10))
			Expect(f.RT).To(Equal(f.R.Transpose()))
			Expect(f.V.Length()).To(BeNumerically("~", 1.0, 1e-12))
		},
		Entry("along +z", 0.0, 0.0),
		Entry("along +x", 90.0, 0.0),
		Entry("along +y", 90.0, 90.0),
		Entry("along -z", 180.0, 0.0),
		Entry("tilted", 35.0, 110.0),
		Entry("negative azimuth", 60.0, -45.0),
	)

	It("is orthonormal over a grid of angles", func() {
		for phi := 0.0; phi <= 180; phi += 15 {
			for theta := 0.0; theta < 360; theta += 30 {
				f := cmc.NewFrame(phi, theta)
				Expect(f.RT.Mul(f.R).MaxAbsDiff(vmath.Identity())).To(BeNumerically("<", 1e-10), "phi=%v theta=%v", phi, theta)
				Expect(f.V.Length()).To(BeNumerically("~", 1.0, 1e-12))
			}
		}
	})

	It("puts the constraint vector on the angle convention", func() {
		for _, a := range [][2]float64{{0, 0}, {45, 0}, {90, 90}, {30, 200}, {120, 75}} {
			v := cmc.NewFrame(a[0], a[1]).V
			d := cmc.Direction(a[0], a[1])
			Expect(v.Sub(d).Length()).To(BeNumerically("<", 1e-12), "angles %v", a)
		}
	})

	It("rotates the constraint direction onto local z", func() {
		f := cmc.NewFrame(63, 287)
		local := f.ToLocal(f.V)
		Expect(local.X).To(BeNumerically("~", 0, 1e-12))
		Expect(local.Y).To(BeNumerically("~", 0, 1e-12))
		Expect(local.Z).To(BeNumerically("~", 1, 1e-12))

		back := f.ToLab(local)
		Expect(back.Sub(f.V).Length()).To(BeNumerically("<", 1e-12))
	})

	It("is the identity for phi=0, theta=0", func() {
		f := cmc.NewFrame(0, 0)
		Expect(f.R).To(Equal(vmath.Identity()))
		Expect(f.V).To(Equal(vmath.Zhat))
	})

	It("composes the y rotation before the z rotation", func() {
		phi, theta := 40.0, 70.0
		want := vmath.RotY(vmath.Radians(phi)).Mul(vmath.RotZ(vmath.Radians(theta)))
		Expect(cmc.NewFrame(phi, theta).R.MaxAbsDiff(want)).To(BeNumerically("<", 1e-15))

		swapped := vmath.RotZ(vmath.Radians(theta)).Mul(vmath.RotY(vmath.Radians(phi)))
		Expect(cmc.NewFrame(phi, theta).R.MaxAbsDiff(swapped)).To(BeNumerically(">", 1e-3))
	})

	It("keeps a unit direction for the polar axis", func() {
		d := cmc.Direction(180, 33)
		Expect(d.Z).To(BeNumerically("~", -1.0, 1e-15))
		Expect(math.Hypot(d.X, d.Y)).To(BeNumerically("<", 1e-15))
	})
})
