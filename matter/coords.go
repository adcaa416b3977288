/*
 * coords.go, part of xtals.
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

package matter

import (
	"fmt"
	"math"

	"github.com/xtalsgo/xtals/cell"
	v3 "github.com/xtalsgo/xtals/v3"
	"github.com/xtalsgo/xtals/xerr"
)

// Tag tells whether a set of coordinates is fractional or cartesian.
type Tag int

const (
	Fractional Tag = iota
	Cartesian
)

func (t Tag) String() string {
	if t == Fractional {
		return "Frac"
	}
	return "Cart"
}

// DefaultTol is the tolerance used by the ApproxEqual methods when none is given.
const DefaultTol = 1.4901161193847656e-08 //sqrt of the float64 machine epsilon

// Coords is a set of points, either fractional (*Frac) or cartesian (*Cart).
// No other type can implement it. The number of points and the tag of a
// Coords never change, only the values of the coordinates.
type Coords interface {
	//Len returns the number of points
	Len() int
	//Vec returns a copy of the i-th point. It panics if i is out of range.
	Vec(i int) [3]float64
	Tag() Tag
	//Coordinates returns the receiver, so any Coords is also a Located.
	Coordinates() Coords
	buffer() *v3.Matrix
}

// Tagged is the constraint for the generic particle sets. It is satisfied
// only by *Frac and *Cart, and provides the operations that keep the tag.
type Tagged[T any] interface {
	*Frac | *Cart
	Coords
	Subset(idx ...int) T
	Slice(from, to int) T
	Mask(mask []bool) (T, error)
	Concat(other T) T
	Copy() T
	ApproxEqual(other T, tol ...float64) bool
}

// points holds what is common to both kinds of coordinates.
type points struct {
	m *v3.Matrix
}

func (P *points) Len() int { return P.m.Len() }
func (P *points) Vec(i int) [3]float64 { return P.m.Vec(i) }
func (P *points) buffer() *v3.Matrix { return P.m }
func (P *points) At(i, k int) float64 { return P.m.At(i, k) }
func (P *points) Set(i, k int, v float64) { P.m.Set(i, k, v) }
func (P *points) SetVec(i int, v [3]float64) { P.m.SetVec(i, v) }

// Flat returns a copy of the coordinates, one point after the other.
func (P *points) Flat() []float64 { return P.m.Flat() }

func (P *points) String() string { return P.m.String() }

func (P *points) overwrite(src Coords, caller string) error {
	if src.Len() != P.m.Len() {
		return xerr.New(xerr.DimensionMismatch, caller, "%d points given to overwrite %d", src.Len(), P.m.Len())
	}
	P.m.CopyFrom(src.buffer())
	return nil
}

func (P *points) mask(mask []bool, caller string) ([]int, error) {
	if len(mask) != P.m.Len() {
		return nil, xerr.New(xerr.DimensionMismatch, caller, "mask of length %d for %d points", len(mask), P.m.Len())
	}
	return maskIndexes(mask), nil
}

func maskIndexes(mask []bool) []int {
	idx := make([]int, 0, len(mask))
	for i, v := range mask {
		if v {
			idx = append(idx, i)
		}
	}
	return idx
}

func rangeIndexes(from, to int) []int {
	if from < 0 || to < from {
		panic(fmt.Sprintf("matter: invalid range [%d:%d]", from, to))
	}
	idx := make([]int, 0, to-from)
	for i := from; i < to; i++ {
		idx = append(idx, i)
	}
	return idx
}

func approx(a, b *v3.Matrix, tol []float64) bool {
	t := DefaultTol
	if len(tol) > 0 {
		t = tol[0]
	}
	return a.EqualApprox(b, t)
}

// Frac holds fractional coordinates, implicitly relative to some Box.
// They are expected in [0,1) once wrapped, but this is not enforced.
type Frac struct {
	points
}

// NewFrac returns fractional coordinates from a copy of data, which holds
// the points one after the other (x1,y1,z1,x2,y2,z2...).
func NewFrac(data []float64) (*Frac, error) {
	m, err := v3.NewMatrix(data)
	if err != nil {
		return nil, xerr.Decorate(err, "matter.NewFrac")
	}
	return &Frac{points{m}}, nil
}

// FracOf returns fractional coordinates with the given points.
func FracOf(p ...[3]float64) *Frac {
	F := &Frac{points{v3.Zeros(len(p))}}
	for i, v := range p {
		F.m.SetVec(i, v)
	}
	return F
}

func (F *Frac) Tag() Tag { return Fractional }
func (F *Frac) Coordinates() Coords { return F }

// Subset returns a new set with the points of the given indexes, in that order.
func (F *Frac) Subset(idx ...int) *Frac { return &Frac{points{F.m.SomeVecs(idx)}} }

// Slice returns a new set with the points in [from, to).
func (F *Frac) Slice(from, to int) *Frac { return F.Subset(rangeIndexes(from, to)...) }

// Mask returns a new set with the points for which mask is true.
func (F *Frac) Mask(mask []bool) (*Frac, error) {
	idx, err := F.mask(mask, "Frac.Mask")
	if err != nil {
		return nil, err
	}
	return F.Subset(idx...), nil
}

// Concat returns a new set with the points of F followed by those of O.
func (F *Frac) Concat(O *Frac) *Frac { return &Frac{points{v3.Stack(F.m, O.m)}} }

// Copy returns a deep copy of F.
func (F *Frac) Copy() *Frac { return &Frac{points{F.m.Copy()}} }

// ApproxEqual compares the coordinates of F and O within tol (DefaultTol if not given).
func (F *Frac) ApproxEqual(O *Frac, tol ...float64) bool { return approx(F.m, O.m, tol) }

// Overwrite replaces all the values in F by those of src, which must have as many points as F.
func (F *Frac) Overwrite(src *Frac) error { return F.overwrite(src, "Frac.Overwrite") }

// Wrap maps, in place, every coordinate x to x-floor(x), so all of them end up in [0,1).
// Wrapping already wrapped coordinates does nothing.
func (F *Frac) Wrap() {
	F.m.Apply(wrap)
}

func wrap(x float64) float64 {
	w := x - math.Floor(x)
	if w >= 1 { //x was a tiny negative number
		return 0
	}
	return w
}

// Cart holds cartesian coordinates, in Angstroms.
type Cart struct {
	points
}

// NewCart returns cartesian coordinates from a copy of data, which holds
// the points one after the other (x1,y1,z1,x2,y2,z2...).
func NewCart(data []float64) (*Cart, error) {
	m, err := v3.NewMatrix(data)
	if err != nil {
		return nil, xerr.Decorate(err, "matter.NewCart")
	}
	return &Cart{points{m}}, nil
}

// CartOf returns cartesian coordinates with the given points.
func CartOf(p ...[3]float64) *Cart {
	C := &Cart{points{v3.Zeros(len(p))}}
	for i, v := range p {
		C.m.SetVec(i, v)
	}
	return C
}

func (C *Cart) Tag() Tag { return Cartesian }
func (C *Cart) Coordinates() Coords { return C }

// Subset returns a new set with the points of the given indexes, in that order.
func (C *Cart) Subset(idx ...int) *Cart { return &Cart{points{C.m.SomeVecs(idx)}} }

// Slice returns a new set with the points in [from, to).
func (C *Cart) Slice(from, to int) *Cart { return C.Subset(rangeIndexes(from, to)...) }

// Mask returns a new set with the points for which mask is true.
func (C *Cart) Mask(mask []bool) (*Cart, error) {
	idx, err := C.mask(mask, "Cart.Mask")
	if err != nil {
		return nil, err
	}
	return C.Subset(idx...), nil
}

// Concat returns a new set with the points of C followed by those of O.
func (C *Cart) Concat(O *Cart) *Cart { return &Cart{points{v3.Stack(C.m, O.m)}} }

// Copy returns a deep copy of C.
func (C *Cart) Copy() *Cart { return &Cart{points{C.m.Copy()}} }

// ApproxEqual compares the coordinates of C and O within tol (DefaultTol if not given).
func (C *Cart) ApproxEqual(O *Cart, tol ...float64) bool { return approx(C.m, O.m, tol) }

// Overwrite replaces all the values in C by those of src, which must have as many points as C.
func (C *Cart) Overwrite(src *Cart) error { return C.overwrite(src, "Cart.Overwrite") }

//Conversions

// ToCart returns the cartesian equivalent of F in box.
func ToCart(F *Frac, box *cell.Box) *Cart {
	return &Cart{points{F.m.Transform(box.FracTransform())}}
}

// ToFrac returns the fractional equivalent of C in box.
func ToFrac(C *Cart, box *cell.Box) *Frac {
	return &Frac{points{C.m.Transform(box.CartTransform())}}
}

// AsCart returns a cartesian copy of c. box can be nil only if c is already cartesian.
func AsCart(c Coords, box *cell.Box) (*Cart, error) {
	switch c := c.(type) {
	case *Cart:
		return c.Copy(), nil
	case *Frac:
		if box == nil {
			return nil, xerr.New(xerr.MissingBox, "matter.AsCart", "a Box is needed to convert fractional coordinates")
		}
		return ToCart(c, box), nil
	}
	panic("matter: unknown Coords type") //can't happen, Coords is closed
}

// AsFrac returns a fractional copy of c. box can be nil only if c is already fractional.
func AsFrac(c Coords, box *cell.Box) (*Frac, error) {
	switch c := c.(type) {
	case *Frac:
		return c.Copy(), nil
	case *Cart:
		if box == nil {
			return nil, xerr.New(xerr.MissingBox, "matter.AsFrac", "a Box is needed to convert cartesian coordinates")
		}
		return ToFrac(c, box), nil
	}
	panic("matter: unknown Coords type")
}

// TranslateBy adds, in place, the vector(s) dx to the coordinates c. dx can hold a
// single point, which is added to every point in c, or as many points as c, which are
// added pointwise. If c and dx have different tags, a box is needed to convert dx
// first. Periodic boundary conditions are not applied afterwards.
func TranslateBy(c Coords, dx Coords, box ...*cell.Box) error {
	if dx.Len() != 1 && dx.Len() != c.Len() {
		return xerr.New(xerr.DimensionMismatch, "matter.TranslateBy", "can't translate %d points by %d vectors", c.Len(), dx.Len())
	}
	d := dx.buffer()
	if c.Tag() != dx.Tag() {
		if len(box) == 0 || box[0] == nil {
			return xerr.New(xerr.MissingBox, "matter.TranslateBy", "translating %s coordinates by a %s vector requires a Box", c.Tag(), dx.Tag())
		}
		if dx.Tag() == Fractional {
			d = d.Transform(box[0].FracTransform())
		} else {
			d = d.Transform(box[0].CartTransform())
		}
	}
	if d.Len() == 1 {
		if c.Len() > 0 {
			c.buffer().AddVec(d.Vec(0))
		}
		return nil
	}
	c.buffer().Add(d)
	return nil
}

// Combine concatenates two sets of coordinates of the same kind, returning
// a new set. Combining fractional with cartesian coordinates is an error.
func Combine(a, b Coords) (Coords, error) {
	if a.Tag() != b.Tag() {
		return nil, xerr.New(xerr.TagMismatch, "matter.Combine", "can't combine %s with %s coordinates", a.Tag(), b.Tag())
	}
	if a.Tag() == Fractional {
		return a.(*Frac).Concat(b.(*Frac)), nil
	}
	return a.(*Cart).Concat(b.(*Cart)), nil
}
