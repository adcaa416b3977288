/*
 * expander.go, part of xtals.
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
	"context"
	"math"
	"runtime"
	"slices"

	"github.com/xtalsgo/xtals/internal/par"
	"github.com/xtalsgo/xtals/matter"
	"github.com/xtalsgo/xtals/xerr"
	"go.uber.org/zap"
)

// DefaultTol is the default fractional tolerance under which two generated
// particles are taken as the same one.
const DefaultTol = 1e-3

// Options for an Expander. The zero value is not useful, use DefaultOptions.
type Options struct {
	Tol    float64 //fractional, per component
	Cpus   int
	Logger *zap.Logger
}

// DefaultOptions returns the default Options, using all the CPUs available.
func DefaultOptions() *Options {
	return &Options{Tol: DefaultTol, Cpus: runtime.NumCPU(), Logger: zap.NewNop()}
}

// Expander applies a list of symmetry operations to the asymmetric unit of
// a crystal, producing the full set of particles in P1.
type Expander struct {
	ops  []Op
	src  []string
	tol  float64
	cpus int
	log  *zap.Logger
}

// NewExpander parses ops and returns an Expander for them.
func NewExpander(ops []string, opts ...*Options) (*Expander, error) {
	o := DefaultOptions()
	if len(opts) > 0 && opts[0] != nil {
		o = opts[0]
	}
	if !(o.Tol > 0) || o.Tol >= 0.5 {
		return nil, xerr.New(xerr.IncompatibleOptions, "symmetry.NewExpander", "tolerance %g must be in (0, 0.5)", o.Tol)
	}
	parsed, err := ParseOps(ops)
	if err != nil {
		return nil, xerr.Decorate(err, "symmetry.NewExpander")
	}
	log := o.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &Expander{ops: parsed, src: slices.Clone(ops), tol: o.Tol, cpus: max(o.Cpus, 1), log: log}, nil
}

// Ops returns the parsed operations.
func (E *Expander) Ops() []Op { return slices.Clone(E.ops) }

// Info returns the symmetry information of a structure expanded by E, starting
// from a structure in the space group sg.
func (E *Expander) Info(sg string) Info {
	I := P1()
	I.SpaceGroup = sg
	I.ExpandedFrom = slices.Clone(E.src)
	return I
}

// candidates returns the wrapped points of F followed by, for each operation in
// order, the wrapped images of every point of F.
func (E *Expander) candidates(F *matter.Frac) *matter.Frac {
	n := F.Len()
	pts := make([][3]float64, 0, n*(len(E.ops)+1))
	for i := 0; i < n; i++ {
		pts = append(pts, F.Vec(i))
	}
	for _, op := range E.ops {
		for i := 0; i < n; i++ {
			pts = append(pts, op.Apply(F.Vec(i)))
		}
	}
	C := matter.FracOf(pts...)
	C.Wrap()
	return C
}

// coincide reports whether the points k and i of F are the same under periodicity.
func (E *Expander) coincide(F *matter.Frac, k, i int) bool {
	a, b := F.Vec(k), F.Vec(i)
	for c := range a {
		d := b[c] - a[c]
		if math.Abs(d-math.Round(d)) >= E.tol {
			return false
		}
	}
	return true
}

func (E *Expander) keep(F *matter.Frac, same func(k, i int) bool) ([]bool, error) {
	dup, err := par.Duplicates(context.Background(), F.Len(), E.cpus, same)
	if err != nil {
		return nil, err
	}
	keep := make([]bool, len(dup))
	for i, d := range dup {
		keep[i] = !d
	}
	return keep, nil
}

// Atoms returns the atoms generated from A by the operations of E. A generated atom
// is dropped if an earlier one of the same species lies at the same place.
// A is not modified.
func (E *Expander) Atoms(A *matter.Atoms[*matter.Frac]) (*matter.Atoms[*matter.Frac], error) {
	C := E.candidates(A.Coords)
	species := make([]string, 0, C.Len())
	for range len(E.ops) + 1 {
		species = append(species, A.Species...)
	}
	keep, err := E.keep(C, func(k, i int) bool {
		return species[k] == species[i] && E.coincide(C, k, i)
	})
	if err != nil {
		return nil, xerr.Decorate(err, "Expander.Atoms")
	}
	all, err := matter.NewAtoms(species, C)
	if err != nil {
		return nil, xerr.Decorate(err, "Expander.Atoms")
	}
	ret, err := all.Mask(keep)
	if err != nil {
		return nil, xerr.Decorate(err, "Expander.Atoms")
	}
	E.log.Debug("expanded atoms",
		zap.Int("operations", len(E.ops)),
		zap.Int("asymmetric", A.N),
		zap.Int("candidates", C.Len()),
		zap.Int("kept", ret.N))
	return ret, nil
}

// Charges returns the point charges generated from Q by the operations of E. A
// generated charge is dropped if an earlier one lies at the same place, whatever
// its value. Q is not modified.
func (E *Expander) Charges(Q *matter.Charges[*matter.Frac]) (*matter.Charges[*matter.Frac], error) {
	C := E.candidates(Q.Coords)
	q := make([]float64, 0, C.Len())
	for range len(E.ops) + 1 {
		q = append(q, Q.Q...)
	}
	keep, err := E.keep(C, func(k, i int) bool {
		return E.coincide(C, k, i)
	})
	if err != nil {
		return nil, xerr.Decorate(err, "Expander.Charges")
	}
	all, err := matter.NewCharges(q, C)
	if err != nil {
		return nil, xerr.Decorate(err, "Expander.Charges")
	}
	ret, err := all.Mask(keep)
	if err != nil {
		return nil, xerr.Decorate(err, "Expander.Charges")
	}
	E.log.Debug("expanded charges",
		zap.Int("operations", len(E.ops)),
		zap.Int("asymmetric", Q.N),
		zap.Int("kept", ret.N))
	return ret, nil
}
