package cmc

import "github.com/san-kum/spinsim/internal/vmath"

// Frame maps the lab frame onto the constraint frame, in which the target
// magnetization lies along local z.
type Frame struct {
	// R rotates lab vectors into the constraint frame.
	R vmath.Mat3
	// RT is the transpose of R and rotates back.
	RT vmath.Mat3
	// V is the constraint direction in the lab frame.
	V vmath.Vec3
}

// NewFrame builds the frame for polar angle phi and azimuth theta, both in
// degrees, with x = sin(phi)cos(theta), y = sin(phi)sin(theta), z = cos(phi).
func NewFrame(phi, theta float64) Frame {
	// x rotation is fixed at zero and drops out of the product
	rx := vmath.RotX(0)
	ry := vmath.RotY(vmath.Radians(phi))
	rz := vmath.RotZ(vmath.Radians(theta))

	r := rx.Mul(ry.Mul(rz))
	return Frame{
		R:  r,
		RT: r.Transpose(),
		V:  r.RowMul(vmath.Zhat),
	}
}

// Direction is the unit vector for the given angles in degrees.
func Direction(phi, theta float64) vmath.Vec3 {
	return vmath.Spherical(vmath.Radians(phi), vmath.Radians(theta))
}

// ToLocal rotates a lab-frame vector into the constraint frame.
func (f Frame) ToLocal(v vmath.Vec3) vmath.Vec3 { return f.R.MulVec(v) }

// ToLab rotates a constraint-frame vector back into the lab frame.
func (f Frame) ToLab(v vmath.Vec3) vmath.Vec3 { return f.RT.MulVec(v) }
