/*
 * charges.go, part of xtals.
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
	"math"

	"github.com/xtalsgo/xtals/matter"
	"github.com/xtalsgo/xtals/xerr"
	"go.uber.org/zap"
)

// AssignCharges returns a copy of C with a point charge on each atom, taken from
// the species-to-charge map q. The charges already in C, if any, are replaced.
// The new charges must be neutral within tol (matter.DefaultNeutralTol if not given).
func AssignCharges(C *Crystal, q map[string]float64, tol ...float64) (*Crystal, error) {
	t := matter.DefaultNeutralTol
	if len(tol) > 0 {
		t = tol[0]
	}
	vals := make([]float64, C.atoms.N)
	for i, s := range C.atoms.Species {
		v, ok := q[s]
		if !ok {
			return nil, xerr.NewUnmappedSpecies("AssignCharges", s, "species-to-charge map")
		}
		vals[i] = v
	}
	charges, err := matter.NewCharges(vals, C.atoms.Coords.Copy())
	if err != nil {
		return nil, errDecorate(err, "AssignCharges")
	}
	if net := charges.Net(); math.Abs(net) >= t {
		return nil, xerr.NewNetCharge("AssignCharges", net, t)
	}
	if C.charges.N > 0 {
		C.log.Warn("replacing the existing charges", zap.Int("old", C.charges.N), zap.Int("new", charges.N))
	}
	R := C.derive()
	R.atoms = C.atoms.Copy()
	R.charges = charges
	return R, nil
}

// NetCharge returns the net charge of C, 0 if it has no charges.
func NetCharge(C *Crystal) float64 {
	return matter.NetCharge(C.charges)
}

// Neutral returns true if the absolute net charge of C is below tol (matter.DefaultNeutralTol
// if not given).
func Neutral(C *Crystal, tol ...float64) bool {
	return matter.Neutral(NetCharge(C), tol...)
}

// HasCharges returns true if C has at least one point charge.
func (C *Crystal) HasCharges() bool {
	return C.charges.N > 0
}
