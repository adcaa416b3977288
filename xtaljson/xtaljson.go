/*
 * xtaljson.go, part of xtals.
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

// Package xtaljson writes and reads JSON snapshots of crystals, optionally
// compressed with zstd. A snapshot holds an already assembled crystal, so
// reading it back does not expand, wrap or filter anything.
package xtaljson

import (
	"bufio"
	"bytes"
	"encoding/json"
	"io"

	"github.com/klauspost/compress/zstd"
	"github.com/xtalsgo/xtals"
	"github.com/xtalsgo/xtals/cell"
	"github.com/xtalsgo/xtals/matter"
	"github.com/xtalsgo/xtals/symmetry"
	"github.com/xtalsgo/xtals/xerr"
	"gonum.org/v1/gonum/mat"
)

// A ready-to-serialize container for a crystal.
type Snapshot struct {
	Name         string        `json:"name"`
	FToC         [9]float64    `json:"f_to_c"` //row-major, columns are the lattice vectors
	Species      []string      `json:"species"`
	AtomCoords   []float64     `json:"atom_coords"` //fractional, x1,y1,z1,x2...
	Charges      []float64     `json:"charges"`
	ChargeCoords []float64     `json:"charge_coords"`
	Bonds        [][2]int      `json:"bonds,omitempty"`
	Symmetry     symmetry.Info `json:"symmetry"`
}

var zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}

// Snap returns a snapshot of C.
func Snap(C *xtals.Crystal) *Snapshot {
	A, Q := C.Atoms(), C.Charges()
	S := &Snapshot{
		Name:         C.Name(),
		Species:      A.Species,
		AtomCoords:   A.Coords.Flat(),
		Charges:      Q.Q,
		ChargeCoords: Q.Coords.Flat(),
		Bonds:        xtals.BondPairs(C.Bonds()),
		Symmetry:     C.Symmetry(),
	}
	f := C.Box().FToC()
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			S.FToC[3*i+j] = f.At(i, j)
		}
	}
	return S
}

// Crystal rebuilds the crystal in S. Only the logger and the number of CPUs are
// taken from opts; everything that would change or check the particles is off.
func (S *Snapshot) Crystal(opts ...*xtals.Options) (*xtals.Crystal, error) {
	box, err := cell.FromMatrix(mat.NewDense(3, 3, S.FToC[:]))
	if err != nil {
		return nil, xerr.Decorate(err, "Snapshot.Crystal")
	}
	ac, err := matter.NewFrac(S.AtomCoords)
	if err != nil {
		return nil, xerr.Decorate(err, "Snapshot.Crystal")
	}
	atoms, err := matter.NewAtoms(S.Species, ac)
	if err != nil {
		return nil, xerr.Decorate(err, "Snapshot.Crystal")
	}
	qc, err := matter.NewFrac(S.ChargeCoords)
	if err != nil {
		return nil, xerr.Decorate(err, "Snapshot.Crystal")
	}
	charges, err := matter.NewCharges(S.Charges, qc)
	if err != nil {
		return nil, xerr.Decorate(err, "Snapshot.Crystal")
	}
	bonds, err := xtals.NewBondGraph(S.Bonds...)
	if err != nil {
		return nil, xerr.Decorate(err, "Snapshot.Crystal")
	}
	o := xtals.DefaultOptions()
	if len(opts) > 0 && opts[0] != nil {
		o = opts[0].Copy()
	}
	o.ConvertToP1 = false
	o.WrapCoords = false
	o.RemoveDuplicates = false
	o.CheckOverlap = false
	o.CheckNeutrality = false
	//zero charges can only be there if the charges sit on the atoms
	o.IncludeZeroCharges = charges.N == atoms.N && charges.Coords.ApproxEqual(atoms.Coords)
	C, err := xtals.New(S.Name, box, atoms, charges, bonds, S.Symmetry, o)
	if err != nil {
		return nil, xerr.Decorate(err, "Snapshot.Crystal")
	}
	return C, nil
}

// Encode writes a JSON snapshot of C to w, compressed with zstd if compress is true.
func Encode(w io.Writer, C *xtals.Crystal, compress bool) error {
	if !compress {
		if err := json.NewEncoder(w).Encode(Snap(C)); err != nil {
			return xerr.New(xerr.Format, "xtaljson.Encode", "%s", err)
		}
		return nil
	}
	zw, err := zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedBestCompression))
	if err != nil {
		return xerr.New(xerr.Format, "xtaljson.Encode", "%s", err)
	}
	if err := json.NewEncoder(zw).Encode(Snap(C)); err != nil {
		zw.Close()
		return xerr.New(xerr.Format, "xtaljson.Encode", "%s", err)
	}
	if err := zw.Close(); err != nil {
		return xerr.New(xerr.Format, "xtaljson.Encode", "%s", err)
	}
	return nil
}

// Decode reads a snapshot, compressed or not, from r and rebuilds its crystal.
func Decode(r io.Reader, opts ...*xtals.Options) (*xtals.Crystal, error) {
	br := bufio.NewReader(r)
	var in io.Reader = br
	if magic, err := br.Peek(len(zstdMagic)); err == nil && bytes.Equal(magic, zstdMagic) {
		zr, err := zstd.NewReader(br, zstd.WithDecoderConcurrency(1))
		if err != nil {
			return nil, xerr.New(xerr.Format, "xtaljson.Decode", "%s", err)
		}
		defer zr.Close()
		in = zr
	}
	S := new(Snapshot)
	if err := json.NewDecoder(in).Decode(S); err != nil {
		return nil, xerr.New(xerr.Format, "xtaljson.Decode", "%s", err)
	}
	C, err := S.Crystal(opts...)
	if err != nil {
		return nil, xerr.Decorate(err, "xtaljson.Decode")
	}
	return C, nil
}
