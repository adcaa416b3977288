/*
 * atoms.go, part of xtals.
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
	"math"
	"slices"

	"github.com/xtalsgo/xtals/cell"
	"github.com/xtalsgo/xtals/xerr"
	"gonum.org/v1/gonum/floats"
)

// Located is anything with coordinates: Atoms, Charges or a Coords itself.
type Located interface {
	Coordinates() Coords
}

// Atoms is a set of atoms, each with a species label and a position.
// N always equals len(Species) and Coords.Len(). The fields are exported for reading;
// code that changes them must keep that relation.
type Atoms[T Tagged[T]] struct {
	N       int
	Species []string
	Coords  T
}

// NewAtoms returns a set of atoms with a copy of species and the given coordinates.
func NewAtoms[T Tagged[T]](species []string, coords T) (*Atoms[T], error) {
	if len(species) != coords.Len() {
		return nil, xerr.New(xerr.DimensionMismatch, "matter.NewAtoms", "%d species for %d coordinates", len(species), coords.Len())
	}
	return &Atoms[T]{N: len(species), Species: slices.Clone(species), Coords: coords}, nil
}

// Len returns the number of atoms.
func (A *Atoms[T]) Len() int { return A.N }

func (A *Atoms[T]) Coordinates() Coords { return A.Coords }

// Subset returns a new set with the atoms in idx, in that order.
func (A *Atoms[T]) Subset(idx ...int) *Atoms[T] {
	sp := make([]string, len(idx))
	for i, v := range idx {
		sp[i] = A.Species[v]
	}
	return &Atoms[T]{N: len(idx), Species: sp, Coords: A.Coords.Subset(idx...)}
}

// Slice returns a new set with the atoms in [from, to).
func (A *Atoms[T]) Slice(from, to int) *Atoms[T] {
	return A.Subset(rangeIndexes(from, to)...)
}

// Mask returns a new set with the atoms for which mask is true.
func (A *Atoms[T]) Mask(mask []bool) (*Atoms[T], error) {
	if len(mask) != A.N {
		return nil, xerr.New(xerr.DimensionMismatch, "Atoms.Mask", "mask of length %d for %d atoms", len(mask), A.N)
	}
	return A.Subset(maskIndexes(mask)...), nil
}

// Concat returns a new set with the atoms in A followed by those in O.
func (A *Atoms[T]) Concat(O *Atoms[T]) *Atoms[T] {
	return &Atoms[T]{N: A.N + O.N, Species: slices.Concat(A.Species, O.Species), Coords: A.Coords.Concat(O.Coords)}
}

// Copy returns a deep copy of A.
func (A *Atoms[T]) Copy() *Atoms[T] {
	return &Atoms[T]{N: A.N, Species: slices.Clone(A.Species), Coords: A.Coords.Copy()}
}

// ApproxEqual returns true if A and O have the same species in the same order, and
// coordinates equal within tol (DefaultTol if not given).
func (A *Atoms[T]) ApproxEqual(O *Atoms[T], tol ...float64) bool {
	return A.N == O.N && slices.Equal(A.Species, O.Species) && A.Coords.ApproxEqual(O.Coords, tol...)
}

// AtomsToCart returns the atoms in A with cartesian coordinates in box.
func AtomsToCart(A *Atoms[*Frac], box *cell.Box) *Atoms[*Cart] {
	return &Atoms[*Cart]{N: A.N, Species: slices.Clone(A.Species), Coords: ToCart(A.Coords, box)}
}

// AtomsToFrac returns the atoms in A with fractional coordinates in box.
func AtomsToFrac(A *Atoms[*Cart], box *cell.Box) *Atoms[*Frac] {
	return &Atoms[*Frac]{N: A.N, Species: slices.Clone(A.Species), Coords: ToFrac(A.Coords, box)}
}

// DefaultNeutralTol is the tolerance used by the Neutral functions when none is given.
const DefaultNeutralTol = 1e-5

// Charges is a set of point charges, each with a value (in units of the
// electron charge) and a position. N always equals len(Q) and Coords.Len().
type Charges[T Tagged[T]] struct {
	N      int
	Q      []float64
	Coords T
}

// NewCharges returns a set of charges with a copy of q and the given coordinates.
func NewCharges[T Tagged[T]](q []float64, coords T) (*Charges[T], error) {
	if len(q) != coords.Len() {
		return nil, xerr.New(xerr.DimensionMismatch, "matter.NewCharges", "%d charge values for %d coordinates", len(q), coords.Len())
	}
	return &Charges[T]{N: len(q), Q: slices.Clone(q), Coords: coords}, nil
}

// Len returns the number of charges.
func (C *Charges[T]) Len() int { return C.N }

func (C *Charges[T]) Coordinates() Coords { return C.Coords }

// Subset returns a new set with the charges in idx, in that order.
func (C *Charges[T]) Subset(idx ...int) *Charges[T] {
	q := make([]float64, len(idx))
	for i, v := range idx {
		q[i] = C.Q[v]
	}
	return &Charges[T]{N: len(idx), Q: q, Coords: C.Coords.Subset(idx...)}
}

// Slice returns a new set with the charges in [from, to).
func (C *Charges[T]) Slice(from, to int) *Charges[T] {
	return C.Subset(rangeIndexes(from, to)...)
}

// Mask returns a new set with the charges for which mask is true.
func (C *Charges[T]) Mask(mask []bool) (*Charges[T], error) {
	if len(mask) != C.N {
		return nil, xerr.New(xerr.DimensionMismatch, "Charges.Mask", "mask of length %d for %d charges", len(mask), C.N)
	}
	return C.Subset(maskIndexes(mask)...), nil
}

// Concat returns a new set with the charges in C followed by those in O.
func (C *Charges[T]) Concat(O *Charges[T]) *Charges[T] {
	return &Charges[T]{N: C.N + O.N, Q: slices.Concat(C.Q, O.Q), Coords: C.Coords.Concat(O.Coords)}
}

// Copy returns a deep copy of C.
func (C *Charges[T]) Copy() *Charges[T] {
	return &Charges[T]{N: C.N, Q: slices.Clone(C.Q), Coords: C.Coords.Copy()}
}

// ApproxEqual returns true if C and O have the same number of charges and both values
// and coordinates are equal within tol (DefaultTol if not given).
func (C *Charges[T]) ApproxEqual(O *Charges[T], tol ...float64) bool {
	if C.N != O.N {
		return false
	}
	t := DefaultTol
	if len(tol) > 0 {
		t = tol[0]
	}
	return floats.EqualApprox(C.Q, O.Q, t) && C.Coords.ApproxEqual(O.Coords, tol...)
}

// Net returns the sum of all the charges.
func (C *Charges[T]) Net() float64 { return floats.Sum(C.Q) }

// Neutral returns true if the absolute net charge is below tol (DefaultNeutralTol if not given).
func (C *Charges[T]) Neutral(tol ...float64) bool {
	return Neutral(C.Net(), tol...)
}

// Neutral returns true if |net| is below tol (DefaultNeutralTol if not given).
func Neutral(net float64, tol ...float64) bool {
	t := DefaultNeutralTol
	if len(tol) > 0 {
		t = tol[0]
	}
	return math.Abs(net) < t
}

// ChargesToCart returns the charges in C with cartesian coordinates in box.
func ChargesToCart(C *Charges[*Frac], box *cell.Box) *Charges[*Cart] {
	return &Charges[*Cart]{N: C.N, Q: slices.Clone(C.Q), Coords: ToCart(C.Coords, box)}
}

// ChargesToFrac returns the charges in C with fractional coordinates in box.
func ChargesToFrac(C *Charges[*Cart], box *cell.Box) *Charges[*Frac] {
	return &Charges[*Frac]{N: C.N, Q: slices.Clone(C.Q), Coords: ToFrac(C.Coords, box)}
}

// NetCharge returns the sum of the charges in C, or 0 if C is nil.
func NetCharge[T Tagged[T]](C *Charges[T]) float64 {
	if C == nil {
		return 0
	}
	return C.Net()
}
