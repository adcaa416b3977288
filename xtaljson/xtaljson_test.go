package xtaljson

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xtalsgo/xtals"
	"github.com/xtalsgo/xtals/cell"
	"github.com/xtalsgo/xtals/matter"
	"github.com/xtalsgo/xtals/symmetry"
	"github.com/xtalsgo/xtals/xerr"
	"go.uber.org/zap/zaptest"
)

func water(Te *testing.T, q []float64, opts *xtals.Options) *xtals.Crystal {
	B, err := cell.New(10, 11, 12, 1.4, 1.6, 1.5)
	require.NoError(Te, err)
	x := matter.ToFrac(matter.CartOf([3]float64{1, 1, 1}, [3]float64{1.757, 1.586, 1}, [3]float64{0.243, 1.586, 1}), B)
	A, err := matter.NewAtoms([]string{"O", "H", "H"}, x)
	require.NoError(Te, err)
	Q, err := matter.NewCharges(q, x.Copy())
	require.NoError(Te, err)
	G, err := xtals.NewBondGraph([2]int{0, 1}, [2]int{0, 2})
	require.NoError(Te, err)
	C, err := xtals.New("water", B, A, Q, G, symmetry.P1(), opts)
	require.NoError(Te, err)
	return C
}

func TestRoundTrip(Te *testing.T) {
	o := xtals.DefaultOptions()
	o.Logger(zaptest.NewLogger(Te))
	C := water(Te, []float64{-1, 0.5, 0.5}, o)
	for _, compress := range []bool{false, true} {
		var b bytes.Buffer
		require.NoError(Te, Encode(&b, C, compress))
		if compress {
			assert.Equal(Te, zstdMagic, b.Bytes()[:4])
		} else {
			assert.Contains(Te, b.String(), `"f_to_c"`)
		}
		D, err := Decode(&b, o)
		require.NoError(Te, err)
		assert.True(Te, C.Equal(D), "compressed: %t", compress)
		assert.Equal(Te, 2, xtals.NBonds(D.Bonds()))
	}
}

func TestZeroChargesKept(Te *testing.T) {
	o := xtals.DefaultOptions()
	o.IncludeZeroCharges = true
	C := water(Te, []float64{0, 0, 0}, o)
	require.Equal(Te, 3, C.NCharges())
	var b bytes.Buffer
	require.NoError(Te, Encode(&b, C, true))
	D, err := Decode(&b)
	require.NoError(Te, err)
	assert.Equal(Te, 3, D.NCharges())
	assert.True(Te, C.Equal(D))
}

func TestBadSnapshot(Te *testing.T) {
	_, err := Decode(strings.NewReader("{not json"))
	assert.True(Te, errors.Is(err, xerr.Format))
	_, err = Decode(strings.NewReader(`{"name":"x","f_to_c":[1,0,0,0,1,0,0,0,1],"species":["C"],"atom_coords":[0,0]}`))
	assert.True(Te, errors.Is(err, xerr.DimensionMismatch))
	_, err = Decode(strings.NewReader(`{"name":"x","f_to_c":[0,0,0,0,1,0,0,0,1]}`))
	assert.True(Te, errors.Is(err, xerr.InvalidGeometry))
}
