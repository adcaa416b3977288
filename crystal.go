/*
 * crystal.go, part of xtals.
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

package xtals

import (
	"fmt"
	"strings"

	"github.com/xtalsgo/xtals/cell"
	"github.com/xtalsgo/xtals/matter"
	"github.com/xtalsgo/xtals/symmetry"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/mat"
)

// FracAtoms and FracCharges are the particle sets stored in a Crystal.
type (
	FracAtoms   = matter.Atoms[*matter.Frac]
	FracCharges = matter.Charges[*matter.Frac]
)

// Crystal is a periodic structure: a unit cell with atoms and point charges in it,
// the bonds among the atoms, and its symmetry. Atoms and charges are kept in
// fractional coordinates relative to the Box.
// A Crystal never changes after it has been built. Its accessors return copies,
// and operations such as Replicate or AssignCharges return new Crystals.
type Crystal struct {
	name     string
	box      *cell.Box
	atoms    *FracAtoms
	charges  *FracCharges
	bonds    *simple.UndirectedGraph
	symmetry symmetry.Info
	log      *zap.Logger
}

func (C *Crystal) Name() string { return C.name }

// Box returns the unit cell. Boxes are immutable, so it is not copied.
func (C *Crystal) Box() *cell.Box { return C.box }

// Atoms returns a copy of the atoms.
func (C *Crystal) Atoms() *FracAtoms { return C.atoms.Copy() }

// Charges returns a copy of the point charges.
func (C *Crystal) Charges() *FracCharges { return C.charges.Copy() }

// Bonds returns a copy of the bond graph.
func (C *Crystal) Bonds() *simple.UndirectedGraph { return copyBonds(C.bonds) }

// Symmetry returns a copy of the symmetry information.
func (C *Crystal) Symmetry() symmetry.Info { return C.symmetry.Copy() }

// NAtoms returns the number of atoms.
func (C *Crystal) NAtoms() int { return C.atoms.N }

// NCharges returns the number of point charges.
func (C *Crystal) NCharges() int { return C.charges.N }

// Species returns a copy of the species of the atoms.
func (C *Crystal) Species() []string { return C.Atoms().Species }

// Distance returns the distance between atoms i and j, applying the minimum image
// convention if pbc is true.
func (C *Crystal) Distance(i, j int, pbc bool) float64 {
	return matter.Distance(C.atoms, C.box, i, j, pbc)
}

// derive returns a shallow copy of C that shares the immutable parts (the box and,
// until replaced, the particle sets).
func (C *Crystal) derive() *Crystal {
	r := *C
	r.symmetry = C.symmetry.Copy()
	r.bonds = copyBonds(C.bonds)
	return &r
}

// Equal returns true if both crystals have the same name, symmetry and bonds, and boxes and
// particles equal within tol (exact equality for the box and matter.DefaultTol for
// particles, if not given).
func (C *Crystal) Equal(O *Crystal, tol ...float64) bool {
	if C.name != O.name || !C.symmetry.Equal(O.symmetry) || !C.box.Equal(O.box, tol...) {
		return false
	}
	bc, bo := BondPairs(C.bonds), BondPairs(O.bonds)
	if len(bc) != len(bo) {
		return false
	}
	for i := range bc {
		if bc[i] != bo[i] {
			return false
		}
	}
	return C.atoms.ApproxEqual(O.atoms, tol...) && C.charges.ApproxEqual(O.charges, tol...)
}

// String returns a summary of the crystal.
func (C *Crystal) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Name: %s\n", C.name)
	b.WriteString(C.box.String())
	fmt.Fprintf(&b, "\n\tNumber of atoms = %d", C.atoms.N)
	fmt.Fprintf(&b, "\n\tNumber of charges = %d", C.charges.N)
	if C.atoms.N > 0 {
		fmt.Fprintf(&b, "\n\tChemical formula: %s", FormulaString(ChemicalFormula(C)))
	}
	fmt.Fprintf(&b, "\n\tSpace group: %s", C.symmetry.SpaceGroup)
	fmt.Fprintf(&b, "\n\tSymmetry operations: %s", strings.Join(C.symmetry.Operations, "; "))
	return b.String()
}

// Record holds the raw data for a crystal as read from a structure file by some loader.
// All coordinates are fractional.
type Record struct {
	Name string
	//The cell parameters a, b, c (in A), alpha, beta and gamma (in radians).
	//Ignored if FToC is not nil.
	Cell         [6]float64
	FToC         mat.Matrix
	Species      []string
	AtomCoords   [][3]float64
	Charges      []float64
	ChargeCoords [][3]float64
	Bonds        [][2]int
	SpaceGroup   string
	//Symmetry operations such as "-x,y+1/2,-z". None means the structure is already in P1.
	Operations []string
}

// FromRecord builds the Box and particle sets described by R and assembles
// them into a Crystal, with New.
func FromRecord(R *Record, opts ...*Options) (*Crystal, error) {
	var box *cell.Box
	var err error
	if R.FToC != nil {
		box, err = cell.FromMatrix(R.FToC)
	} else {
		box, err = cell.New(R.Cell[0], R.Cell[1], R.Cell[2], R.Cell[3], R.Cell[4], R.Cell[5])
	}
	if err != nil {
		return nil, errDecorate(err, "FromRecord")
	}
	atoms, err := matter.NewAtoms(R.Species, matter.FracOf(R.AtomCoords...))
	if err != nil {
		return nil, errDecorate(err, "FromRecord")
	}
	charges, err := matter.NewCharges(R.Charges, matter.FracOf(R.ChargeCoords...))
	if err != nil {
		return nil, errDecorate(err, "FromRecord")
	}
	bonds, err := NewBondGraph(R.Bonds...)
	if err != nil {
		return nil, errDecorate(err, "FromRecord")
	}
	sym := symmetry.P1()
	if len(R.Operations) > 0 {
		sym = symmetry.Info{Operations: R.Operations}
	}
	if R.SpaceGroup != "" {
		sym.SpaceGroup = R.SpaceGroup
	}
	C, err := New(R.Name, box, atoms, charges, bonds, sym, opts...)
	if err != nil {
		return nil, errDecorate(err, "FromRecord")
	}
	return C, nil
}
