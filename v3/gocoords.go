/*
 * gocoords.go, part of xtals.
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

package v3

import (
	"fmt"
	"strings"
)

//METHODS

// Vec returns a copy of the i-th vector of M.
func (M *Matrix) Vec(i int) [3]float64 {
	M.check(i)
	var r [3]float64
	copy(r[:], M.d.RawRowView(i))
	return r
}

// SetVec sets the i-th vector of M to v.
func (M *Matrix) SetVec(i int, v [3]float64) {
	M.check(i)
	copy(M.d.RawRowView(i), v[:])
}

// SomeVecs returns a new matrix containing the vectors of M with the indexes in clist,
// in the same order as clist. Indexes can be repeated.
func (M *Matrix) SomeVecs(clist []int) *Matrix {
	ret := Zeros(len(clist))
	for key, val := range clist {
		ret.SetVec(key, M.Vec(val))
	}
	return ret
}

// Stack returns a new matrix with the vectors of A followed by those of B.
func Stack(A, B *Matrix) *Matrix {
	ret := Zeros(A.n + B.n)
	for i := 0; i < A.n; i++ {
		ret.SetVec(i, A.Vec(i))
	}
	for i := 0; i < B.n; i++ {
		ret.SetVec(A.n+i, B.Vec(i))
	}
	return ret
}

// Copy returns a deep copy of M.
func (M *Matrix) Copy() *Matrix {
	ret := Zeros(M.n)
	if M.n > 0 {
		ret.d.Copy(M.d)
	}
	return ret
}

// CopyFrom overwrites the values of M with those of A, which must have
// the same number of vectors.
func (M *Matrix) CopyFrom(A *Matrix) {
	if A.n != M.n {
		panic(ErrShape)
	}
	if M.n > 0 {
		M.d.Copy(A.d)
	}
}

// Apply replaces, in place, every element x of M by f(x).
func (M *Matrix) Apply(f func(x float64) float64) {
	for i := 0; i < M.n; i++ {
		row := M.d.RawRowView(i)
		for k, v := range row {
			row[k] = f(v)
		}
	}
}

// AddVec adds vec to each vector of M, in place.
func (M *Matrix) AddVec(vec [3]float64) {
	for i := 0; i < M.n; i++ {
		row := M.d.RawRowView(i)
		row[0] += vec[0]
		row[1] += vec[1]
		row[2] += vec[2]
	}
}

// Add adds, in place, each vector of B to the corresponding vector of M.
func (M *Matrix) Add(B *Matrix) {
	if B.n != M.n {
		panic(ErrShape)
	}
	if M.n > 0 {
		M.d.Add(M.d, B.d)
	}
}

// Flat returns a copy of the elements of M, one vector after the other.
func (M *Matrix) Flat() []float64 {
	ret := make([]float64, 0, 3*M.n)
	for i := 0; i < M.n; i++ {
		ret = append(ret, M.d.RawRowView(i)...)
	}
	return ret
}

// String returns a neat string representation of a Matrix
func (M *Matrix) String() string {
	if M.n == 0 {
		return "[]"
	}
	v := make([]string, 0, M.n)
	for i := 0; i < M.n; i++ {
		row := M.d.RawRowView(i)
		v = append(v, fmt.Sprintf("%9.4f %9.4f %9.4f", row[0], row[1], row[2]))
	}
	return "[" + strings.Join(v, "\n ") + "]"
}
