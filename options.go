/*
 * options.go, part of xtals.
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
	"runtime"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/xtalsgo/xtals/symmetry"
	"github.com/xtalsgo/xtals/xerr"
	"go.uber.org/zap"
)

// Options controls how a Crystal is assembled and checked. Lengths are in
// Angstroms and charges in units of the electron charge.
// DuplicateTol and SymmetryTol are only required when RemoveDuplicates and
// ConvertToP1, respectively, are on, so a zero Options is valid and turns
// every step off.
type Options struct {
	CheckNeutrality    bool
	NetChargeTol       float64 `validate:"gte=0"`
	CheckOverlap       bool
	OverlapTol         float64 `validate:"gte=0"`
	ConvertToP1        bool
	ReadBondsFromFile  bool
	WrapCoords         bool
	IncludeZeroCharges bool
	RemoveDuplicates   bool
	DuplicateTol       float64 `validate:"required_if=RemoveDuplicates true,omitempty,gt=0"`
	SymmetryTol        float64 `validate:"required_if=ConvertToP1 true,omitempty,gt=0,lt=0.5"` //fractional

	cpus   int
	logger *zap.Logger
}

// DefaultOptions returns the default Options.
func DefaultOptions() *Options {
	return &Options{
		CheckNeutrality:    true,
		NetChargeTol:       1e-4,
		CheckOverlap:       true,
		OverlapTol:         0.1,
		ConvertToP1:        true,
		ReadBondsFromFile:  false,
		WrapCoords:         true,
		IncludeZeroCharges: false,
		RemoveDuplicates:   false,
		DuplicateTol:       0.01,
		SymmetryTol:        symmetry.DefaultTol,
		cpus:               runtime.NumCPU(),
	}
}

// Cpus returns the number of goroutines used for the pairwise checks and sets it, if
// a valid value is given.
func (O *Options) Cpus(cpus ...int) int {
	ret := O.cpus
	if len(cpus) > 0 && cpus[0] > 0 {
		O.cpus = cpus[0]
	}
	if ret < 1 {
		ret = 1
	}
	return ret
}

// Logger returns the logger used during assembly and sets it, if a non-nil logger
// is given. Without a logger nothing is logged.
func (O *Options) Logger(logger ...*zap.Logger) *zap.Logger {
	ret := O.logger
	if len(logger) > 0 && logger[0] != nil {
		O.logger = logger[0]
	}
	if ret == nil {
		ret = zap.NewNop()
	}
	return ret
}

// Copy returns a copy of O, sharing the logger.
func (O *Options) Copy() *Options {
	r := *O
	return &r
}

// Validate checks that the tolerances in O make sense.
func (O *Options) Validate() error {
	err := validator.New().Struct(O)
	if err == nil {
		return nil
	}
	var msgs []string
	if verrs, ok := err.(validator.ValidationErrors); ok {
		for _, fe := range verrs {
			msgs = append(msgs, fe.Field()+" must satisfy "+fe.Tag()+" "+fe.Param())
		}
	} else {
		msgs = append(msgs, err.Error())
	}
	return xerr.New(xerr.IncompatibleOptions, "Options.Validate", "%s", strings.Join(msgs, "; "))
}

// options returns a validated copy of the first element of opts, or
// the default options.
func options(caller string, opts []*Options) (*Options, error) {
	if len(opts) == 0 || opts[0] == nil {
		return DefaultOptions(), nil
	}
	if err := opts[0].Validate(); err != nil {
		return nil, errDecorate(err, caller)
	}
	return opts[0].Copy(), nil
}
