/*
 * replicate.go, part of xtals.
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
	"github.com/xtalsgo/xtals/cell"
	"github.com/xtalsgo/xtals/matter"
	"github.com/xtalsgo/xtals/xerr"
	"go.uber.org/zap"
)

// Replicate returns the supercell of C made of n[0] x n[1] x n[2] copies of its unit cell.
// The copies of the atoms and charges are ordered by offset along a, then b, then c,
// and, within each offset, as in C. C must be in P1.
// The atom indexes of the supercell do not match those of C, so the bonds are dropped.
func Replicate(C *Crystal, n [3]int) (*Crystal, error) {
	if !C.symmetry.Trivial() {
		return nil, xerr.New(xerr.IncompatibleOptions, "Replicate", "crystal %q must be converted to P1 before replicating it", C.name)
	}
	box, err := cell.Replicate(C.box, n)
	if err != nil {
		return nil, errDecorate(err, "Replicate")
	}
	R := C.derive()
	R.box = box
	R.atoms, err = matter.NewAtoms(repeat(C.atoms.Species, n), replicateCoords(C.atoms.Coords, n))
	if err != nil {
		return nil, errDecorate(err, "Replicate")
	}
	R.charges, err = matter.NewCharges(repeat(C.charges.Q, n), replicateCoords(C.charges.Coords, n))
	if err != nil {
		return nil, errDecorate(err, "Replicate")
	}
	if nb := NBonds(C.bonds); nb > 0 {
		C.log.Warn("bonds dropped on replication", zap.Int("bonds", nb), zap.Ints("factors", n[:]))
		R.bonds = copyBonds(nil)
	}
	return R, nil
}

func repeat[T any](s []T, n [3]int) []T {
	ret := make([]T, 0, len(s)*n[0]*n[1]*n[2])
	for range n[0] * n[1] * n[2] {
		ret = append(ret, s...)
	}
	return ret
}

func replicateCoords(F *matter.Frac, n [3]int) *matter.Frac {
	pts := make([][3]float64, 0, F.Len()*n[0]*n[1]*n[2])
	for i := 0; i < n[0]; i++ {
		for j := 0; j < n[1]; j++ {
			for k := 0; k < n[2]; k++ {
				off := [3]int{i, j, k}
				for p := 0; p < F.Len(); p++ {
					v := F.Vec(p)
					for c := range v {
						v[c] = (v[c] + float64(off[c])) / float64(n[c])
					}
					pts = append(pts, v)
				}
			}
		}
	}
	return matter.FracOf(pts...)
}
