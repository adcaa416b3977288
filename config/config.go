/*
 * config.go, part of xtals.
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

// Package config reads the options used to assemble crystals, and the logging
// setup, from TOML or YAML files. Keys missing from a file keep their default
// values, see xtals.DefaultOptions. A file looks like this (in TOML):
//
//	[crystal]
//	check_overlap = true
//	overlap_tol = 0.1
//	remove_duplicates = false
//	cpus = 4
//
//	[logging]
//	level = "debug"
//	development = true
package config

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml"
	"github.com/xtalsgo/xtals"
	"github.com/xtalsgo/xtals/xerr"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// Crystal is the [crystal] section of a file. Every field is optional.
type Crystal struct {
	CheckNeutrality    *bool    `toml:"check_neutrality" yaml:"check_neutrality"`
	NetChargeTol       *float64 `toml:"net_charge_tol" yaml:"net_charge_tol"`
	CheckOverlap       *bool    `toml:"check_overlap" yaml:"check_overlap"`
	OverlapTol         *float64 `toml:"overlap_tol" yaml:"overlap_tol"`
	ConvertToP1        *bool    `toml:"convert_to_p1" yaml:"convert_to_p1"`
	ReadBondsFromFile  *bool    `toml:"read_bonds_from_file" yaml:"read_bonds_from_file"`
	WrapCoords         *bool    `toml:"wrap_coords" yaml:"wrap_coords"`
	IncludeZeroCharges *bool    `toml:"include_zero_charges" yaml:"include_zero_charges"`
	RemoveDuplicates   *bool    `toml:"remove_duplicates" yaml:"remove_duplicates"`
	DuplicateTol       *float64 `toml:"duplicate_tol" yaml:"duplicate_tol"`
	SymmetryTol        *float64 `toml:"symmetry_tol" yaml:"symmetry_tol"`
	Cpus               *int     `toml:"cpus" yaml:"cpus"`
}

// Logging is the [logging] section of a file.
type Logging struct {
	//One of debug, info, warn, error. Empty or "off" means no logging at all.
	Level       string `toml:"level" yaml:"level"`
	Development bool   `toml:"development" yaml:"development"`
}

// File is the content of a configuration file.
type File struct {
	Crystal Crystal `toml:"crystal" yaml:"crystal"`
	Logging Logging `toml:"logging" yaml:"logging"`
}

// Load reads the configuration file at path. The format is taken from
// the extension: .toml, .yaml or .yml.
func Load(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, xerr.New(xerr.Config, "config.Load", "%s", err)
	}
	defer f.Close()
	F, err := Decode(f, strings.TrimPrefix(filepath.Ext(path), "."))
	if err != nil {
		return nil, xerr.Decorate(err, "config.Load("+path+")")
	}
	return F, nil
}

// Decode reads a configuration in the given format ("toml", "yaml" or "yml") from r.
func Decode(r io.Reader, format string) (*File, error) {
	F := new(File)
	var err error
	switch strings.ToLower(format) {
	case "toml":
		err = toml.NewDecoder(r).Decode(F)
	case "yaml", "yml":
		err = yaml.NewDecoder(r).Decode(F)
		if err == io.EOF { //empty file
			err = nil
		}
	default:
		return nil, xerr.New(xerr.Config, "config.Decode", "unknown format %q", format)
	}
	if err != nil {
		return nil, xerr.New(xerr.Config, "config.Decode", "%s", err)
	}
	return F, nil
}

// Encode writes F to w in the given format.
func Encode(w io.Writer, F *File, format string) error {
	var err error
	switch strings.ToLower(format) {
	case "toml":
		err = toml.NewEncoder(w).Encode(F)
	case "yaml", "yml":
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		if err = enc.Encode(F); err == nil {
			err = enc.Close()
		}
		if err == nil {
			_, err = w.Write(buf.Bytes())
		}
	default:
		return xerr.New(xerr.Config, "config.Encode", "unknown format %q", format)
	}
	if err != nil {
		return xerr.New(xerr.Config, "config.Encode", "%s", err)
	}
	return nil
}

// FromOptions returns a File with every crystal option set to its value in o.
func FromOptions(o *xtals.Options, L Logging) *File {
	o = o.Copy()
	cpus := o.Cpus()
	return &File{
		Crystal: Crystal{
			CheckNeutrality:    &o.CheckNeutrality,
			NetChargeTol:       &o.NetChargeTol,
			CheckOverlap:       &o.CheckOverlap,
			OverlapTol:         &o.OverlapTol,
			ConvertToP1:        &o.ConvertToP1,
			ReadBondsFromFile:  &o.ReadBondsFromFile,
			WrapCoords:         &o.WrapCoords,
			IncludeZeroCharges: &o.IncludeZeroCharges,
			RemoveDuplicates:   &o.RemoveDuplicates,
			DuplicateTol:       &o.DuplicateTol,
			SymmetryTol:        &o.SymmetryTol,
			Cpus:               &cpus,
		},
		Logging: L,
	}
}

// Options returns the options in F, with the defaults for anything F doesn't set
// and a logger built from the logging section.
func (F *File) Options() (*xtals.Options, error) {
	o := DefaultOptions()
	c := F.Crystal
	setb := func(dst *bool, src *bool) {
		if src != nil {
			*dst = *src
		}
	}
	setf := func(dst *float64, src *float64) {
		if src != nil {
			*dst = *src
		}
	}
	setb(&o.CheckNeutrality, c.CheckNeutrality)
	setf(&o.NetChargeTol, c.NetChargeTol)
	setb(&o.CheckOverlap, c.CheckOverlap)
	setf(&o.OverlapTol, c.OverlapTol)
	setb(&o.ConvertToP1, c.ConvertToP1)
	setb(&o.ReadBondsFromFile, c.ReadBondsFromFile)
	setb(&o.WrapCoords, c.WrapCoords)
	setb(&o.IncludeZeroCharges, c.IncludeZeroCharges)
	setb(&o.RemoveDuplicates, c.RemoveDuplicates)
	setf(&o.DuplicateTol, c.DuplicateTol)
	setf(&o.SymmetryTol, c.SymmetryTol)
	if c.Cpus != nil {
		if *c.Cpus < 0 {
			return nil, xerr.New(xerr.Config, "File.Options", "cpus must not be negative, got %d", *c.Cpus)
		}
		o.Cpus(*c.Cpus)
	}
	if err := o.Validate(); err != nil {
		return nil, xerr.Decorate(err, "File.Options")
	}
	logger, err := F.Logging.Build()
	if err != nil {
		return nil, xerr.Decorate(err, "File.Options")
	}
	o.Logger(logger)
	return o, nil
}

// DefaultOptions is xtals.DefaultOptions, for convenience.
func DefaultOptions() *xtals.Options { return xtals.DefaultOptions() }

// Build returns a logger for L. A production (JSON) logger is built unless
// Development is set.
func (L Logging) Build() (*zap.Logger, error) {
	if L.Level == "" || strings.EqualFold(L.Level, "off") {
		return zap.NewNop(), nil
	}
	level, err := zap.ParseAtomicLevel(strings.ToLower(L.Level))
	if err != nil {
		return nil, xerr.New(xerr.Config, "Logging.Build", "%s", err)
	}
	cfg := zap.NewProductionConfig()
	if L.Development {
		cfg = zap.NewDevelopmentConfig()
	}
	cfg.Level = level
	logger, err := cfg.Build()
	if err != nil {
		return nil, xerr.New(xerr.Config, "Logging.Build", "%s", err)
	}
	return logger, nil
}
