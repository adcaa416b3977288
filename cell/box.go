/*
 * box.go, part of xtals.
 *
 * Copyright 2026 the xtals authors
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation; either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General
 * Public License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 *
 */

// Package cell implements the unit cell (Bravais lattice) of a crystal, the Box.
// A Box converts between fractional and cartesian coordinates and
// provides the reciprocal lattice vectors. Boxes are immutable: every
// operation that changes the geometry, such as Replicate, returns a new Box.
package cell

import (
	"fmt"
	"math"

	"github.com/xtalsgo/xtals/xerr"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// A cell is singular if its volume is at or below this fraction of a*b*c,
// the volume of a rectangular cell with the same edges.
const minRelVolume = 1e-10

// Box is a unit cell. Lengths are in Angstroms and angles in radians.
// The columns of the fractional-to-cartesian matrix are the lattice vectors.
type Box struct {
	a, b, c            float64
	alpha, beta, gamma float64
	volume             float64
	fToC               *mat.Dense
	cToF               *mat.Dense
	reciprocal         *mat.Dense //rows are the reciprocal lattice vectors
}

// New returns a Box from the lengths a, b, c of the unit cell edges and the
// angles alpha (between b and c), beta (between a and c) and gamma (between a and b).
// The first lattice vector lies along x and the second in the xy plane.
func New(a, b, c, alpha, beta, gamma float64) (*Box, error) {
	for i, l := range []float64{a, b, c} {
		if !(l > 0) || math.IsInf(l, 0) {
			return nil, xerr.New(xerr.InvalidGeometry, "cell.New", "edge length %c=%g must be positive", "abc"[i], l)
		}
	}
	for i, an := range []float64{alpha, beta, gamma} {
		if !(an > 0 && an < math.Pi) {
			return nil, xerr.New(xerr.InvalidGeometry, "cell.New", "angle %s=%g is outside (0, pi)", []string{"alpha", "beta", "gamma"}[i], an)
		}
	}
	ca, cb, cg := math.Cos(alpha), math.Cos(beta), math.Cos(gamma)
	sg := math.Sin(gamma)
	v2 := 1 - ca*ca - cb*cb - cg*cg + 2*ca*cb*cg
	if v2 <= 0 {
		return nil, xerr.New(xerr.InvalidGeometry, "cell.New", "angles alpha=%g beta=%g gamma=%g do not define a cell", alpha, beta, gamma)
	}
	v := math.Sqrt(v2)
	f := mat.NewDense(3, 3, []float64{
		a, b * cg, c * cb,
		0, b * sg, c * (ca - cb*cg) / sg,
		0, 0, c * v / sg,
	})
	B, err := fromParts(a, b, c, alpha, beta, gamma, f)
	if err != nil {
		return nil, xerr.Decorate(err, "cell.New")
	}
	return B, nil
}

// NewOrtho returns an orthorhombic Box, i.e. one with all angles equal to pi/2.
func NewOrtho(a, b, c float64) (*Box, error) {
	return New(a, b, c, math.Pi/2, math.Pi/2, math.Pi/2)
}

// UnitCube returns a cubic box with 1 Angstrom edges.
func UnitCube() *Box {
	B, err := NewOrtho(1, 1, 1)
	if err != nil {
		panic(err) //can't happen
	}
	return B
}

// FromMatrix returns a Box from its fractional-to-cartesian matrix, whose
// columns are the lattice vectors. The lengths and angles are obtained from
// those vectors.
func FromMatrix(fToC mat.Matrix) (*Box, error) {
	r, c := fToC.Dims()
	if r != 3 || c != 3 {
		return nil, xerr.New(xerr.DimensionMismatch, "cell.FromMatrix", "f_to_c must be 3x3, got %dx%d", r, c)
	}
	f := mat.DenseCopyOf(fToC)
	var vecs [3][]float64
	var lens [3]float64
	for i := range vecs {
		vecs[i] = mat.Col(nil, i, f)
		lens[i] = floats.Norm(vecs[i], 2)
		if !(lens[i] > 0) {
			return nil, xerr.New(xerr.InvalidGeometry, "cell.FromMatrix", "lattice vector %d has zero length", i)
		}
	}
	angle := func(i, j int) float64 {
		cos := floats.Dot(vecs[i], vecs[j]) / (lens[i] * lens[j])
		return math.Acos(math.Max(-1, math.Min(1, cos)))
	}
	B, err := fromParts(lens[0], lens[1], lens[2], angle(1, 2), angle(0, 2), angle(0, 1), f)
	if err != nil {
		return nil, xerr.Decorate(err, "cell.FromMatrix")
	}
	return B, nil
}

// fromParts completes a Box from its parameters and the f_to_c matrix f, which is
// not copied.
func fromParts(a, b, c, alpha, beta, gamma float64, f *mat.Dense) (*Box, error) {
	det := mat.Det(f)
	if math.IsNaN(det) || math.Abs(det) <= minRelVolume*a*b*c {
		return nil, xerr.New(xerr.InvalidGeometry, "fromParts", "singular unit cell (volume %g)", math.Abs(det))
	}
	inv := mat.NewDense(3, 3, nil)
	if err := inv.Inverse(f); err != nil {
		return nil, xerr.New(xerr.InvalidGeometry, "fromParts", "f_to_c can not be inverted: %s", err)
	}
	return &Box{
		a: a, b: b, c: c,
		alpha: alpha, beta: beta, gamma: gamma,
		volume:     math.Abs(det),
		fToC:       f,
		cToF:       inv,
		reciprocal: reciprocal(f),
	}, nil
}

// reciprocal returns a matrix whose rows are the reciprocal lattice vectors
// of the lattice with vectors in the columns of f, scaled by 2pi, so
// r_i·a_j = 2pi delta_ij.
func reciprocal(f *mat.Dense) *mat.Dense {
	a1, a2, a3 := colVec(f, 0), colVec(f, 1), colVec(f, 2)
	r := mat.NewDense(3, 3, nil)
	for i, p := range [3][2][3]float64{{a2, a3}, {a3, a1}, {a1, a2}} {
		cr := cross(p[0], p[1])
		var own [3]float64
		switch i {
		case 0:
			own = a1
		case 1:
			own = a2
		default:
			own = a3
		}
		scale := 2 * math.Pi / floats.Dot(own[:], cr[:])
		for j := 0; j < 3; j++ {
			r.Set(i, j, scale*cr[j])
		}
	}
	return r
}

func colVec(f mat.Matrix, i int) [3]float64 {
	return [3]float64{f.At(0, i), f.At(1, i), f.At(2, i)}
}

func cross(a, b [3]float64) [3]float64 {
	return [3]float64{
		a[1]*b[2] - a[2]*b[1],
		a[2]*b[0] - a[0]*b[2],
		a[0]*b[1] - a[1]*b[0],
	}
}

// Replicate returns the box of a supercell made of n[0] x n[1] x n[2] copies of B
// along its a, b and c directions. Fractional coordinates in the new box are
// still in [0,1). Replicate(B, [3]int{1,1,1}) equals B.
func Replicate(B *Box, n [3]int) (*Box, error) {
	for i, v := range n {
		if v < 1 {
			return nil, xerr.New(xerr.InvalidGeometry, "cell.Replicate", "replication factor %d along %c must be a positive integer", v, "abc"[i])
		}
	}
	f := mat.DenseCopyOf(B.fToC)
	for j := 0; j < 3; j++ {
		for i := 0; i < 3; i++ {
			f.Set(i, j, f.At(i, j)*float64(n[j]))
		}
	}
	R, err := fromParts(B.a*float64(n[0]), B.b*float64(n[1]), B.c*float64(n[2]), B.alpha, B.beta, B.gamma, f)
	if err != nil {
		return nil, xerr.Decorate(err, "cell.Replicate")
	}
	return R, nil
}

//Accessors. Matrices are returned as copies, a Box never changes.

func (B *Box) A() float64 { return B.a }
func (B *Box) B() float64 { return B.b }
func (B *Box) C() float64 { return B.c }
func (B *Box) Alpha() float64 { return B.alpha }
func (B *Box) Beta() float64 { return B.beta }
func (B *Box) Gamma() float64 { return B.gamma }
func (B *Box) Volume() float64 { return B.volume }

// Lengths returns a, b and c.
func (B *Box) Lengths() [3]float64 { return [3]float64{B.a, B.b, B.c} }

// Angles returns alpha, beta and gamma.
func (B *Box) Angles() [3]float64 { return [3]float64{B.alpha, B.beta, B.gamma} }

// FToC returns a copy of the fractional-to-cartesian matrix.
func (B *Box) FToC() *mat.Dense { return mat.DenseCopyOf(B.fToC) }

// CToF returns a copy of the cartesian-to-fractional matrix.
func (B *Box) CToF() *mat.Dense { return mat.DenseCopyOf(B.cToF) }

// Reciprocal returns a copy of the matrix whose rows are the reciprocal lattice
// vectors (including the 2pi factor).
func (B *Box) Reciprocal() *mat.Dense { return mat.DenseCopyOf(B.reciprocal) }

// Vector returns the i-th lattice vector (0 for a, 1 for b, 2 for c).
func (B *Box) Vector(i int) [3]float64 {
	return colVec(B.fToC, i)
}

// ToCartesian converts a single fractional point to cartesian coordinates.
func (B *Box) ToCartesian(xf [3]float64) [3]float64 {
	return mulVec(B.fToC, xf)
}

// ToFractional converts a single cartesian point to fractional coordinates.
func (B *Box) ToFractional(x [3]float64) [3]float64 {
	return mulVec(B.cToF, x)
}

// FracTransform returns the fractional-to-cartesian matrix without copying.
// It is meant for the packages of this library, which never modify it.
func (B *Box) FracTransform() mat.Matrix { return B.fToC }

// CartTransform returns the cartesian-to-fractional matrix without copying.
func (B *Box) CartTransform() mat.Matrix { return B.cToF }

func mulVec(m mat.Matrix, v [3]float64) [3]float64 {
	var r [3]float64
	for i := 0; i < 3; i++ {
		r[i] = m.At(i, 0)*v[0] + m.At(i, 1)*v[1] + m.At(i, 2)*v[2]
	}
	return r
}

// Equal returns whether the f_to_c matrices of B and O are equal within
// tol (default 0, i.e. exact equality). Since everything else in a Box
// is derived from that matrix, this compares the whole Box.
func (B *Box) Equal(O *Box, tol ...float64) bool {
	if B == O {
		return true
	}
	if B == nil || O == nil {
		return false
	}
	t := 0.0
	if len(tol) > 0 {
		t = tol[0]
	}
	if t == 0 {
		return mat.Equal(B.fToC, O.fToC)
	}
	return mat.EqualApprox(B.fToC, O.fToC, t)
}

// String returns a short description of the box.
func (B *Box) String() string {
	const r2d = 180 / math.Pi
	return fmt.Sprintf("Bravais unit cell of a crystal.\n"+
		"\tUnit cell angles alpha = %f deg. beta = %f deg. gamma = %f deg.\n"+
		"\tUnit cell dimensions a = %f A. b = %f A, c = %f A\n"+
		"\tVolume of unit cell: %f A^3",
		B.alpha*r2d, B.beta*r2d, B.gamma*r2d, B.a, B.b, B.c, B.volume)
}
