/*
 * assembly.go, part of xtals.
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
	"context"
	"math"
	"slices"

	"github.com/xtalsgo/xtals/cell"
	"github.com/xtalsgo/xtals/internal/par"
	"github.com/xtalsgo/xtals/matter"
	"github.com/xtalsgo/xtals/symmetry"
	"github.com/xtalsgo/xtals/xerr"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/graph/simple"
)

// Charges with an absolute value below this are considered zero.
const zeroCharge = 1e-12

// Two duplicate point charges must also have the same value, within this tolerance.
const chargeValueTol = 1e-8

// New assembles a Crystal from its parts, and checks it. The steps, each
// controlled by opts (DefaultOptions if not given), are, in order:
//
//  1. ConvertToP1: expand the atoms and charges with the symmetry operations in sym,
//     unless sym is already trivial. This can not be combined with
//     ReadBondsFromFile or with a non-empty bond graph.
//  2. WrapCoords: wrap all fractional coordinates into [0,1).
//  3. RemoveDuplicates: drop every atom within DuplicateTol of an earlier atom of the
//     same species, and every charge within DuplicateTol of an earlier charge with the
//     same value. Atoms can only be dropped if there are no bonds.
//  4. IncludeZeroCharges: if false, drop the charges that are zero. If true, the charges
//     must be at the very same places as the atoms, one per atom.
//  5. CheckOverlap: fail with an *xerr.OverlapError if two atoms are closer than OverlapTol.
//  6. CheckNeutrality: fail with an *xerr.NetChargeError if the net charge exceeds NetChargeTol.
//
// atoms, charges and bonds can be nil, meaning none. None of the arguments
// is modified.
func New(name string, box *cell.Box, atoms *FracAtoms, charges *FracCharges, bonds *simple.UndirectedGraph, sym symmetry.Info, opts ...*Options) (*Crystal, error) {
	o, err := options("New", opts)
	if err != nil {
		return nil, err
	}
	if box == nil {
		return nil, xerr.New(xerr.MissingBox, "New", "crystal %q has no unit cell", name)
	}
	C := &Crystal{name: name, box: box, symmetry: sym.Copy(), log: o.Logger().With(zap.String("crystal", name))}
	if atoms == nil {
		atoms, _ = matter.NewAtoms(nil, matter.FracOf())
	}
	if charges == nil {
		charges, _ = matter.NewCharges(nil, matter.FracOf())
	}
	C.atoms, C.charges, C.bonds = atoms.Copy(), charges.Copy(), copyBonds(bonds)
	if err := checkBonds(C.bonds, C.atoms.N); err != nil {
		return nil, errDecorate(err, "New")
	}
	steps := []func(*Options) error{C.toP1, C.wrap, C.removeDuplicates, C.zeroCharges, C.checkOverlap, C.checkNeutrality}
	for _, step := range steps {
		if err := step(o); err != nil {
			return nil, errDecorate(err, "New")
		}
	}
	return C, nil
}

func (C *Crystal) toP1(o *Options) error {
	if !o.ConvertToP1 || C.symmetry.Trivial() {
		return nil
	}
	if o.ReadBondsFromFile || NBonds(C.bonds) > 0 {
		return xerr.New(xerr.IncompatibleOptions, "toP1", "bonds can not be kept while converting to P1, the atom indexes change")
	}
	E, err := symmetry.NewExpander(C.symmetry.Operations, &symmetry.Options{Tol: o.SymmetryTol, Cpus: o.Cpus(), Logger: C.log})
	if err != nil {
		return errDecorate(err, "toP1")
	}
	if C.atoms, err = E.Atoms(C.atoms); err != nil {
		return errDecorate(err, "toP1")
	}
	if C.charges, err = E.Charges(C.charges); err != nil {
		return errDecorate(err, "toP1")
	}
	C.symmetry = E.Info(C.symmetry.SpaceGroup)
	return nil
}

func (C *Crystal) wrap(o *Options) error {
	if o.WrapCoords {
		C.atoms.Coords.Wrap()
		C.charges.Coords.Wrap()
	}
	return nil
}

func (C *Crystal) removeDuplicates(o *Options) error {
	if !o.RemoveDuplicates {
		return nil
	}
	ctx := context.Background()
	A := C.atoms
	dup, err := par.Duplicates(ctx, A.N, o.Cpus(), func(k, i int) bool {
		return A.Species[k] == A.Species[i] && matter.Distance(A, C.box, k, i, true) < o.DuplicateTol
	})
	if err != nil {
		return err
	}
	if nd := count(dup); nd > 0 {
		if NBonds(C.bonds) > 0 {
			return xerr.New(xerr.IncompatibleOptions, "removeDuplicates", "%d duplicate atoms can not be removed from a crystal with bonds", nd)
		}
		if C.atoms, err = A.Mask(negate(dup)); err != nil {
			return err
		}
		C.log.Debug("removed duplicate atoms", zap.Int("removed", nd), zap.Int("left", C.atoms.N))
	}
	Q := C.charges
	dup, err = par.Duplicates(ctx, Q.N, o.Cpus(), func(k, i int) bool {
		return math.Abs(Q.Q[k]-Q.Q[i]) < chargeValueTol && matter.Distance(Q, C.box, k, i, true) < o.DuplicateTol
	})
	if err != nil {
		return err
	}
	if nd := count(dup); nd > 0 {
		if C.charges, err = Q.Mask(negate(dup)); err != nil {
			return err
		}
		C.log.Debug("removed duplicate charges", zap.Int("removed", nd), zap.Int("left", C.charges.N))
	}
	return nil
}

func (C *Crystal) zeroCharges(o *Options) error {
	if o.IncludeZeroCharges {
		if C.charges.N != C.atoms.N || !C.charges.Coords.ApproxEqual(C.atoms.Coords) {
			return xerr.New(xerr.DimensionMismatch, "zeroCharges", "with zero charges included, the %d charges must be placed on the %d atoms", C.charges.N, C.atoms.N)
		}
		return nil
	}
	nonzero := make([]bool, C.charges.N)
	for i, q := range C.charges.Q {
		nonzero[i] = math.Abs(q) >= zeroCharge
	}
	if nz := count(nonzero); nz < C.charges.N {
		var err error
		if C.charges, err = C.charges.Mask(nonzero); err != nil {
			return err
		}
		C.log.Debug("dropped zero charges", zap.Int("left", nz))
	}
	return nil
}

func (C *Crystal) checkOverlap(o *Options) error {
	if !o.CheckOverlap {
		return nil
	}
	pairs, err := par.Pairs(context.Background(), C.atoms.N, o.Cpus(), func(i, j int) (float64, bool) {
		d := matter.Distance(C.atoms, C.box, i, j, true)
		return d, d < o.OverlapTol
	})
	if err != nil {
		return err
	}
	if len(pairs) == 0 {
		return nil
	}
	idx := make([][2]int, len(pairs))
	dists := make([]float64, len(pairs))
	for k, p := range pairs {
		idx[k] = [2]int{p.I, p.J}
		dists[k] = p.Value
	}
	return xerr.NewOverlap("checkOverlap", o.OverlapTol, idx, dists)
}

func (C *Crystal) checkNeutrality(o *Options) error {
	if !o.CheckNeutrality {
		return nil
	}
	if net := C.charges.Net(); math.Abs(net) > o.NetChargeTol {
		return xerr.NewNetCharge("checkNeutrality", net, o.NetChargeTol)
	}
	return nil
}

func count(b []bool) int {
	n := 0
	for _, v := range b {
		if v {
			n++
		}
	}
	return n
}

func negate(b []bool) []bool {
	r := slices.Clone(b)
	for i, v := range r {
		r[i] = !v
	}
	return r
}
