/*
 * properties.go, part of xtals.
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
	"sort"
	"strings"
	"unicode"

	"github.com/xtalsgo/xtals/xerr"
	"gonum.org/v1/gonum/floats"
)

// StripNumbersFromLabels returns a copy of C where each species label is cut at its
// first non-letter character, so labels such as "C12" or "Ba12A_3" become "C" and "Ba".
// Labels that don't start with a letter are kept.
func StripNumbersFromLabels(C *Crystal) *Crystal {
	R := C.derive()
	R.atoms = C.atoms.Copy()
	for i, s := range R.atoms.Species {
		R.atoms.Species[i] = stripLabel(s)
	}
	return R
}

func stripLabel(s string) string {
	end := strings.IndexFunc(s, func(r rune) bool { return !unicode.IsLetter(r) })
	if end <= 0 {
		return s
	}
	return s[:end]
}

// Masses returns the mass, in amu, of each atom of C.
func (C *Crystal) Masses() ([]float64, error) {
	m := make([]float64, C.atoms.N)
	for i, s := range C.atoms.Species {
		v, ok := symbolMass[s]
		if !ok {
			return nil, xerr.NewUnmappedSpecies("Crystal.Masses", s, "atomic masses table")
		}
		m[i] = v
	}
	return m, nil
}

// MolecularWeight returns the mass of the atoms in the unit cell of C, in amu.
func MolecularWeight(C Masser) (float64, error) {
	m, err := C.Masses()
	if err != nil {
		return 0, errDecorate(err, "MolecularWeight")
	}
	return floats.Sum(m), nil
}

// Density returns the density of C, in kg/m^3.
func Density(C *Crystal) (float64, error) {
	mw, err := MolecularWeight(C)
	if err != nil {
		return 0, errDecorate(err, "Density")
	}
	return mw / C.box.Volume() * amuPerA3ToKgPerM3, nil
}

// ChemicalFormula returns the number of atoms of each species in C, divided by
// their greatest common divisor.
func ChemicalFormula(C *Crystal) map[string]int {
	f := make(map[string]int)
	for _, s := range C.atoms.Species {
		f[s]++
	}
	g := 0
	for _, v := range f {
		g = gcd(g, v)
	}
	for k := range f {
		f[k] /= g
	}
	return f
}

func gcd(a, b int) int {
	for b != 0 {
		a, b = b, a%b
	}
	return a
}

// FormulaString writes a formula in the Hill order: carbon first, hydrogen second, and then
// everything else in alphabetical order. Without carbon, everything is alphabetical.
// Counts of 1 are omitted.
func FormulaString(f map[string]int) string {
	keys := make([]string, 0, len(f))
	for k := range f {
		keys = append(keys, k)
	}
	_, carbon := f["C"]
	rank := func(s string) int {
		switch {
		case carbon && s == "C":
			return 0
		case carbon && s == "H":
			return 1
		}
		return 2
	}
	sort.Slice(keys, func(i, j int) bool {
		ri, rj := rank(keys[i]), rank(keys[j])
		if ri != rj {
			return ri < rj
		}
		return keys[i] < keys[j]
	})
	var b strings.Builder
	for _, k := range keys {
		b.WriteString(k)
		if f[k] != 1 {
			fmt.Fprintf(&b, "%d", f[k])
		}
	}
	return b.String()
}
