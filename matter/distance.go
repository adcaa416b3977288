/*
 * distance.go, part of xtals.
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

	"github.com/xtalsgo/xtals/cell"
	"gonum.org/v1/gonum/floats"
)

// Distance returns the distance, in Angstroms, between the particles i and j of p.
// If pbc is true, the separation vector is reduced to the nearest periodic image
// by rounding each of its fractional components to [-0.5, 0.5]. This is exact for
// orthorhombic boxes and for cells that are not too skewed. For very skewed cells
// a closer image can exist, and Distance may miss it; the result is then still
// never larger than the distance without pbc.
// Distance(p, box, i, i, pbc) is 0 and Distance is symmetric in i and j.
// It panics if i or j are out of range.
func Distance(p Located, box *cell.Box, i, j int, pbc bool) float64 {
	c := p.Coordinates()
	vi, vj := c.Vec(i), c.Vec(j)
	if c.Tag() == Fractional {
		vi, vj = box.ToCartesian(vi), box.ToCartesian(vj)
	}
	d := sub(vj, vi)
	raw := norm(d)
	if !pbc {
		return raw
	}
	df := box.ToFractional(d)
	for k, v := range df {
		df[k] = v - math.Round(v) //Round is odd-symmetric, so d(i,j)==d(j,i)
	}
	return math.Min(raw, norm(box.ToCartesian(df)))
}

// Distances returns the distances from particle i of p to every particle in p,
// in the same order.
func Distances(p Located, box *cell.Box, i int, pbc bool) []float64 {
	n := p.Coordinates().Len()
	ret := make([]float64, n)
	for j := 0; j < n; j++ {
		ret[j] = Distance(p, box, i, j, pbc)
	}
	return ret
}

func sub(a, b [3]float64) [3]float64 {
	return [3]float64{a[0] - b[0], a[1] - b[1], a[2] - b[2]}
}

func norm(v [3]float64) float64 {
	return floats.Norm(v[:], 2)
}
