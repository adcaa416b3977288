/*
 * op.go, part of xtals.
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

package symmetry

import (
	"fmt"
	"math"
	"slices"
	"strings"
)

// Op is an affine symmetry operation acting on fractional coordinates:
// x' = Rot·x + Trans.
type Op struct {
	Rot   [3][3]float64
	Trans [3]float64
}

// Identity returns the operation x,y,z.
func Identity() Op {
	return Op{Rot: [3][3]float64{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}}}
}

// IsIdentity returns true if O maps every point to itself.
func (O Op) IsIdentity() bool {
	return O == Identity()
}

// Apply returns the image of the fractional point v under O. The result is not wrapped.
func (O Op) Apply(v [3]float64) [3]float64 {
	var r [3]float64
	for i := range r {
		r[i] = O.Rot[i][0]*v[0] + O.Rot[i][1]*v[1] + O.Rot[i][2]*v[2] + O.Trans[i]
	}
	return r
}

// String returns O in the usual notation, e.g. "-x,y+1/2,-z".
func (O Op) String() string {
	comps := make([]string, 3)
	for i := range comps {
		var b strings.Builder
		for k, name := range "xyz" {
			c := O.Rot[i][k]
			switch {
			case c == 0:
				continue
			case c == 1:
				b.WriteString("+")
			case c == -1:
				b.WriteString("-")
			default:
				b.WriteString(signed(c) + "*")
			}
			b.WriteRune(name)
		}
		if O.Trans[i] != 0 {
			b.WriteString(signed(O.Trans[i]))
		}
		s := strings.TrimPrefix(b.String(), "+")
		if s == "" {
			s = "0"
		}
		comps[i] = s
	}
	return strings.Join(comps, ",")
}

// signed formats v with an explicit sign, as a small fraction when possible.
func signed(v float64) string {
	sign := "+"
	if v < 0 {
		sign = "-"
		v = -v
	}
	for q := 1; q <= 12; q++ {
		p := math.Round(v * float64(q))
		if math.Abs(v*float64(q)-p) < 1e-9 {
			if q == 1 {
				return fmt.Sprintf("%s%d", sign, int(p))
			}
			return fmt.Sprintf("%s%d/%d", sign, int(p), q)
		}
	}
	return fmt.Sprintf("%s%g", sign, v)
}

// Info describes the symmetry of a crystal.
type Info struct {
	SpaceGroup   string   `json:"space_group"`
	Operations   []string `json:"operations"`              //the operations that still apply to the structure
	IsP1         bool     `json:"is_p1"`                   //no symmetry beyond the identity
	ExpandedFrom []string `json:"expanded_from,omitempty"` //operations applied to obtain a P1 structure
}

// P1 returns the symmetry information of a structure with no symmetry.
func P1() Info {
	return Info{SpaceGroup: "P1", Operations: []string{"x,y,z"}, IsP1: true}
}

// Copy returns a deep copy of I.
func (I Info) Copy() Info {
	I.Operations = slices.Clone(I.Operations)
	I.ExpandedFrom = slices.Clone(I.ExpandedFrom)
	return I
}

// Trivial returns true if the structure needs no expansion, i.e. it is marked P1 or
// its only operation is the identity.
func (I Info) Trivial() bool {
	if I.IsP1 || len(I.Operations) == 0 {
		return true
	}
	if len(I.Operations) == 1 {
		op, err := ParseOp(I.Operations[0])
		return err == nil && op.IsIdentity()
	}
	return false
}

// Equal compares two Info values field by field.
func (I Info) Equal(O Info) bool {
	return I.SpaceGroup == O.SpaceGroup && I.IsP1 == O.IsP1 &&
		slices.Equal(I.Operations, O.Operations) && slices.Equal(I.ExpandedFrom, O.ExpandedFrom)
}
