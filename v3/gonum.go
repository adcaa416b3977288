/*
 * gonum.go, part of xtals.
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

//gonum.go contains what is needed for handling the gonum/mat types and facilities.

package v3

import (
	"fmt"

	"github.com/xtalsgo/xtals/xerr"
	"gonum.org/v1/gonum/mat"
)

// Matrix is a set of vectors in 3D space.
// Within the package it is understood that a "vector" is a row vector, i.e. the
// coordinates of a point in 3D space.
type Matrix struct {
	d *mat.Dense //nil if the matrix has no vectors, gonum doesn't allow zero-sized Dense.
	n int
}

// Zeros returns a zero-filled Matrix with vecs vectors.
func Zeros(vecs int) *Matrix {
	if vecs < 0 {
		panic(ErrNegative)
	}
	if vecs == 0 {
		return &Matrix{}
	}
	return &Matrix{d: mat.NewDense(vecs, 3, nil), n: vecs}
}

// NewMatrix generates and returns a Matrix with 3 columns from a copy of data,
// which holds the points one after the other (x1,y1,z1,x2,y2,z2,...).
func NewMatrix(data []float64) (*Matrix, error) {
	const cols int = 3
	l := len(data)
	if l%cols != 0 {
		return nil, xerr.New(xerr.DimensionMismatch, "v3.NewMatrix", "input slice length %d not divisible by %d", l, cols)
	}
	M := Zeros(l / cols)
	if M.n > 0 {
		copy(M.d.RawMatrix().Data, data)
	}
	return M, nil
}

// Len returns the number of vectors in M.
func (M *Matrix) Len() int {
	return M.n
}

// Dims returns the dimensions of M, for compatibility with mat.Matrix.
func (M *Matrix) Dims() (int, int) {
	return M.n, 3
}

// At returns the j-th coordinate of the i-th vector.
func (M *Matrix) At(i, j int) float64 {
	M.check(i)
	return M.d.At(i, j)
}

// Set sets the j-th coordinate of the i-th vector to v.
func (M *Matrix) Set(i, j int, v float64) {
	M.check(i)
	M.d.Set(i, j, v)
}

func (M *Matrix) check(i int) {
	if i < 0 || i >= M.n {
		panic(fmt.Sprintf("%s: vector %d requested, matrix has %d", ErrIndex, i, M.n))
	}
}

// Transform returns a new matrix where each vector v of M is replaced by T·v,
// T being a 3x3 matrix. Since vectors are rows, this is M·Tᵀ.
func (M *Matrix) Transform(T mat.Matrix) *Matrix {
	r, c := T.Dims()
	if r != 3 || c != 3 {
		panic(ErrShape)
	}
	ret := Zeros(M.n)
	if M.n == 0 {
		return ret
	}
	ret.d.Mul(M.d, T.T())
	return ret
}

// EqualApprox returns whether M and B have the same number of vectors and all their elements are equal
// within an absolute or relative tolerance tol.
func (M *Matrix) EqualApprox(B *Matrix, tol float64) bool {
	if M.n != B.n {
		return false
	}
	if M.n == 0 {
		return true
	}
	return mat.EqualApprox(M.d, B.d, tol)
}

// Equal returns whether M and B hold exactly the same values.
func (M *Matrix) Equal(B *Matrix) bool {
	if M.n != B.n {
		return false
	}
	if M.n == 0 {
		return true
	}
	return mat.Equal(M.d, B.d)
}

// Errors

// Error is a matrix error, used for panics in functions that are
// fundamental enough that a failure means the program is wrong.
type Error string

func (err Error) Error() string { return string(err) }

const (
	ErrNegative = Error("xtals/v3: negative number of vectors")
	ErrIndex    = Error("xtals/v3: vector index out of range")
	ErrShape    = Error("xtals/v3: dimension mismatch")
)
