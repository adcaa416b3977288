package par

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestEach(Te *testing.T) {
	for _, cpus := range []int{0, 1, 3, 16} {
		var count atomic.Int64
		seen := make([]int, 1000)
		err := Each(context.Background(), len(seen), cpus, func(i int) error {
			count.Add(1)
			seen[i]++
			return nil
		})
		require.NoError(Te, err)
		assert.EqualValues(Te, 1000, count.Load())
		for i, v := range seen {
			require.Equal(Te, 1, v, "index %d with %d cpus", i, cpus)
		}
	}
	boom := errors.New("boom")
	err := Each(context.Background(), 500, 4, func(i int) error {
		if i == 250 {
			return boom
		}
		return nil
	})
	assert.ErrorIs(Te, err, boom)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(Te, Each(ctx, 10, 1, func(int) error { return nil }), context.Canceled)
}

func TestDuplicates(Te *testing.T) {
	vals := make([]int, 300)
	for i := range vals {
		vals[i] = i % 7
	}
	want := make([]bool, len(vals))
	for i := 7; i < len(vals); i++ {
		want[i] = true
	}
	for _, cpus := range []int{1, 8} {
		dup, err := Duplicates(context.Background(), len(vals), cpus, func(k, i int) bool { return vals[k] == vals[i] })
		require.NoError(Te, err)
		assert.Equal(Te, want, dup)
	}
}

func TestPairs(Te *testing.T) {
	x := make([]float64, 200)
	for i := range x {
		x[i] = float64(i / 2) //0,0,1,1,2,2...
	}
	test := func(i, j int) (float64, bool) {
		d := x[j] - x[i]
		return d, d < 0.5
	}
	serial, err := Pairs(context.Background(), len(x), 1, test)
	require.NoError(Te, err)
	parallel, err := Pairs(context.Background(), len(x), 8, test)
	require.NoError(Te, err)
	assert.Len(Te, serial, 100)
	assert.Equal(Te, serial, parallel)
	assert.Equal(Te, Pair{I: 4, J: 5, Value: 0}, serial[2])
}
