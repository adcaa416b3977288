/*
 * par.go, part of xtals.
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

// Package par holds the pairwise scans shared by the symmetry expansion and
// the crystal checks. Work is split among goroutines by index, and every
// result is written to its own slot, so the output never depends on the
// number of goroutines or on scheduling.
package par

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Below this number of items everything runs in the calling goroutine.
const minParallel = 64

// Each calls f(i) for every i in [0,n) using at most cpus goroutines.
// It stops early and returns the first error returned by f, or ctx.Err()
// if ctx is cancelled.
func Each(ctx context.Context, n, cpus int, f func(i int) error) error {
	if cpus < 1 {
		cpus = 1
	}
	if n < minParallel || cpus == 1 {
		for i := 0; i < n; i++ {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := f(i); err != nil {
				return err
			}
		}
		return nil
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cpus)
	//small chunks, since the pair scans do more work for larger i
	chunk := max(1, n/(4*cpus))
	for start := 0; start < n; start += chunk {
		end := min(start+chunk, n)
		g.Go(func() error {
			for i := start; i < end; i++ {
				if err := gctx.Err(); err != nil {
					return err
				}
				if err := f(i); err != nil {
					return err
				}
			}
			return nil
		})
	}
	return g.Wait()
}

// Duplicates returns a slice where element i is true if same(k, i) is true
// for some k < i. same(k, i) is only called with k < i.
func Duplicates(ctx context.Context, n, cpus int, same func(k, i int) bool) ([]bool, error) {
	dup := make([]bool, n)
	err := Each(ctx, n, cpus, func(i int) error {
		for k := 0; k < i; k++ {
			if same(k, i) {
				dup[i] = true
				break
			}
		}
		return nil
	})
	return dup, err
}

// Pair is a pair of indexes i<j with the value found for them.
type Pair struct {
	I, J  int
	Value float64
}

// Pairs returns every pair i<j for which test(i, j) returns true, in
// lexicographic order of (i, j), with the value returned by test.
func Pairs(ctx context.Context, n, cpus int, test func(i, j int) (float64, bool)) ([]Pair, error) {
	found := make([][]Pair, n)
	err := Each(ctx, n, cpus, func(i int) error {
		for j := i + 1; j < n; j++ {
			if v, ok := test(i, j); ok {
				found[i] = append(found[i], Pair{I: i, J: j, Value: v})
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	var ret []Pair
	for _, f := range found {
		ret = append(ret, f...)
	}
	return ret, nil
}
