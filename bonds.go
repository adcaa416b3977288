/*
 * bonds.go, part of xtals.
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
	"slices"

	"github.com/xtalsgo/xtals/xerr"
	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/simple"
)

// The bond graph of a crystal is an undirected graph whose node IDs are atom indexes.
// Nothing in this library infers bonds; they are kept as given, and dropped
// whenever the atom indexes they refer to would change meaning.

// NewBondGraph returns a bond graph with an edge for each pair of atom indexes.
func NewBondGraph(pairs ...[2]int) (*simple.UndirectedGraph, error) {
	g := simple.NewUndirectedGraph()
	for _, p := range pairs {
		if p[0] < 0 || p[1] < 0 {
			return nil, xerr.New(xerr.DimensionMismatch, "NewBondGraph", "negative atom index in bond %v", p)
		}
		if p[0] == p[1] {
			return nil, xerr.New(xerr.DimensionMismatch, "NewBondGraph", "atom %d bonded to itself", p[0])
		}
		g.SetEdge(g.NewEdge(simple.Node(p[0]), simple.Node(p[1])))
	}
	return g, nil
}

// BondPairs returns the bonds in g as pairs of atom indexes i<j, sorted.
// A nil g has no bonds.
func BondPairs(g *simple.UndirectedGraph) [][2]int {
	if g == nil {
		return nil
	}
	var ret [][2]int
	seen := make(map[[2]int]bool)
	nodes := g.Nodes()
	for nodes.Next() {
		u := nodes.Node().ID()
		to := g.From(u)
		for to.Next() {
			v := to.Node().ID()
			p := [2]int{int(min(u, v)), int(max(u, v))}
			if !seen[p] {
				seen[p] = true
				ret = append(ret, p)
			}
		}
	}
	slices.SortFunc(ret, func(a, b [2]int) int {
		if a[0] != b[0] {
			return a[0] - b[0]
		}
		return a[1] - b[1]
	})
	return ret
}

// NBonds returns the number of bonds in g.
func NBonds(g *simple.UndirectedGraph) int {
	return len(BondPairs(g))
}

func copyBonds(g *simple.UndirectedGraph) *simple.UndirectedGraph {
	ret := simple.NewUndirectedGraph()
	if g != nil {
		graph.Copy(ret, g)
	}
	return ret
}

// checkBonds returns an error if g refers to atoms beyond the first n.
func checkBonds(g *simple.UndirectedGraph, n int) error {
	if g == nil {
		return nil
	}
	nodes := g.Nodes()
	for nodes.Next() {
		if id := nodes.Node().ID(); id < 0 || id >= int64(n) {
			return xerr.New(xerr.DimensionMismatch, "checkBonds", "bond graph refers to atom %d, but there are %d atoms", id, n)
		}
	}
	return nil
}
