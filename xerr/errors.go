/*
 * errors.go, part of xtals.
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

// Package xerr holds the error type shared by all the xtals packages.
// Every error carries a Kind, so callers can test for a class of failure with
// errors.Is(err, xerr.Overlap) regardless of the package that produced it.
// Errors also keep a "decoration", the list of functions they went through
// on the way up, which is added with the Decorate method.
package xerr

import (
	"fmt"
	"strings"
)

// Kind classifies an Error. A Kind is itself an error, so it can be
// used as the target of errors.Is.
type Kind int

const (
	InvalidGeometry Kind = iota + 1
	DimensionMismatch
	TagMismatch
	MissingBox
	SymmetryParse
	IncompatibleOptions
	Overlap
	NetCharge
	UnmappedSpecies
	Config //unreadable or invalid configuration files
	Format //malformed serialized data
)

var kindNames = map[Kind]string{
	InvalidGeometry:     "invalid geometry",
	DimensionMismatch:   "dimension mismatch",
	TagMismatch:         "coordinate tag mismatch",
	MissingBox:          "missing box",
	SymmetryParse:       "symmetry operation parse error",
	IncompatibleOptions: "incompatible options",
	Overlap:             "overlapping atoms",
	NetCharge:           "non-zero net charge",
	UnmappedSpecies:     "unmapped species",
	Config:              "invalid configuration",
	Format:              "malformed data",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("unknown error kind %d", int(k))
}

// Error implements the error interface.
func (k Kind) Error() string { return k.String() }

// Error is the general error of the library.
type Error struct {
	kind    Kind
	message string
	deco    []string
}

// New returns an Error of the given kind. caller is the name of the
// function where the error was detected, and becomes the first decoration.
func New(kind Kind, caller, format string, args ...interface{}) *Error {
	E := &Error{kind: kind, message: fmt.Sprintf(format, args...)}
	if caller != "" {
		E.deco = []string{caller}
	}
	return E
}

func (E *Error) Error() string {
	if len(E.deco) == 0 {
		return fmt.Sprintf("xtals: %s: %s", E.kind, E.message)
	}
	return fmt.Sprintf("xtals: %s (%s): %s", E.kind, strings.Join(E.deco, " < "), E.message)
}

// Kind returns the class of the error.
func (E *Error) Kind() Kind { return E.kind }

// Message returns the message without kind or decorations.
func (E *Error) Message() string { return E.message }

// Decorate adds deco to the list of functions the error has gone through,
// and returns the resulting list. An empty deco just returns the current list.
func (E *Error) Decorate(deco string) []string {
	if deco != "" {
		E.deco = append(E.deco, deco)
	}
	return E.deco
}

// Is reports whether target is the Kind of E, or an *Error of the same Kind.
func (E *Error) Is(target error) bool {
	switch t := target.(type) {
	case Kind:
		return E.kind == t
	case *Error:
		return t != nil && E.kind == t.kind
	}
	return false
}

// Decorate adds caller to err if err is decorable (i.e. it comes from this library)
// and returns err. Other errors are returned unchanged.
func Decorate(err error, caller string) error {
	if err == nil {
		return nil
	}
	if d, ok := err.(interface{ Decorate(string) []string }); ok {
		d.Decorate(caller)
	}
	return err
}

// detail carries the *Error of the error types with extra fields, forwarding
// its methods.
type detail struct {
	base *Error
}

func (d detail) Error() string { return d.base.Error() }
func (d detail) Kind() Kind { return d.base.Kind() }
func (d detail) Message() string { return d.base.Message() }
func (d detail) Decorate(deco string) []string { return d.base.Decorate(deco) }
func (d detail) Is(target error) bool { return d.base.Is(target) }

// Unwrap returns the underlying *Error.
func (d detail) Unwrap() error { return d.base }

// OverlapError reports the pairs of atoms found closer than the overlap tolerance.
type OverlapError struct {
	detail
	Pairs     [][2]int  //indexes of the overlapping atoms, i<j, in ascending order.
	Distances []float64 //one per pair
}

// NewOverlap returns an OverlapError for the given pairs, which must not be empty.
func NewOverlap(caller string, tol float64, pairs [][2]int, dists []float64) *OverlapError {
	shown := make([]string, 0, 3)
	for i, p := range pairs {
		if i == 3 {
			shown = append(shown, "...")
			break
		}
		shown = append(shown, fmt.Sprintf("%d-%d (%.4f A)", p[0], p[1], dists[i]))
	}
	E := New(Overlap, caller, "%d atom pair(s) closer than %g A: %s", len(pairs), tol, strings.Join(shown, ", "))
	return &OverlapError{detail: detail{E}, Pairs: pairs, Distances: dists}
}

// NetChargeError reports a set of charges that is not neutral within Tol.
type NetChargeError struct {
	detail
	Net float64
	Tol float64
}

func NewNetCharge(caller string, net, tol float64) *NetChargeError {
	E := New(NetCharge, caller, "net charge %g exceeds the tolerance %g", net, tol)
	return &NetChargeError{detail: detail{E}, Net: net, Tol: tol}
}

// UnmappedSpeciesError reports a species absent from a lookup table.
type UnmappedSpeciesError struct {
	detail
	Species string
}

func NewUnmappedSpecies(caller, species, table string) *UnmappedSpeciesError {
	E := New(UnmappedSpecies, caller, "species %q not found in the %s", species, table)
	return &UnmappedSpeciesError{detail: detail{E}, Species: species}
}
