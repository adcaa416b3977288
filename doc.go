/*
 * doc.go, part of xtals.
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

/*
Package xtals is the main package of the xtals library. It assembles periodic
structures (crystals, such as metal-organic frameworks) from the raw data
read from structure files, and checks them.

	**xtals Capabilities**

	Unit cells (package cell) built from the cell parameters or from
	the lattice vectors, with their reciprocal lattice.

	Fractional and cartesian coordinates (package matter) that can't be
	mixed up, atoms and point charges on them, and distances with the
	minimum image convention.

	Expansion of the asymmetric unit with the symmetry operations of the
	crystal (package symmetry), removing the duplicates.

	Crystals: assembly with overlap and charge neutrality checks, charge
	assignment, supercells, molecular weight, density and chemical formula.

	Options from TOML or YAML files (package config) and compressed JSON
	snapshots of crystals (package xtaljson).

Reading and writing CIF or other structure formats is left to other packages,
which pass a Record to FromRecord.
*/
package xtals
