package xerr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKinds(Te *testing.T) {
	err := New(InvalidGeometry, "cell.New", "a=%g must be positive", -1.0)
	require.True(Te, errors.Is(err, InvalidGeometry))
	assert.False(Te, errors.Is(err, Overlap))
	assert.Equal(Te, InvalidGeometry, err.Kind())
	assert.Contains(Te, err.Error(), "a=-1 must be positive")
	wrapped := fmt.Errorf("loading: %w", err)
	assert.True(Te, errors.Is(wrapped, InvalidGeometry))
}

func TestDecorate(Te *testing.T) {
	err := New(SymmetryParse, "ParseOp", "bad")
	deco := err.Decorate("NewExpander")
	assert.Equal(Te, []string{"ParseOp", "NewExpander"}, deco)
	assert.Equal(Te, deco, err.Decorate(""))
	assert.Contains(Te, err.Error(), "ParseOp < NewExpander")
	plain := errors.New("plain")
	assert.Equal(Te, plain, Decorate(plain, "x"))
	assert.Nil(Te, Decorate(nil, "x"))
}

func TestDetailErrors(Te *testing.T) {
	var err error = NewOverlap("New", 0.1, [][2]int{{0, 1}, {2, 5}}, []float64{0, 0.05})
	require.True(Te, errors.Is(err, Overlap))
	var oe *OverlapError
	require.True(Te, errors.As(err, &oe))
	assert.Equal(Te, [][2]int{{0, 1}, {2, 5}}, oe.Pairs)

	err = NewNetCharge("New", 0.2, 1e-5)
	var ne *NetChargeError
	require.True(Te, errors.As(err, &ne))
	assert.InDelta(Te, 0.2, ne.Net, 1e-12)
	assert.True(Te, errors.Is(err, NetCharge))

	err = NewUnmappedSpecies("AssignCharges", "Zr", "charge map")
	var ue *UnmappedSpeciesError
	require.True(Te, errors.As(err, &ue))
	assert.Equal(Te, "Zr", ue.Species)
	assert.True(Te, errors.Is(err, UnmappedSpecies))

	//the details keep behaving as a decorable *Error
	ue.Decorate("New")
	assert.Contains(Te, err.Error(), "AssignCharges < New")
	assert.Equal(Te, UnmappedSpecies, ue.Kind())
	var base *Error
	require.True(Te, errors.As(err, &base))
	assert.Equal(Te, UnmappedSpecies, base.Kind())
	wrapped := Decorate(fmt.Errorf("reading: %w", NewOverlap("New", 0.1, [][2]int{{0, 1}}, []float64{0})), "x")
	assert.True(Te, errors.As(wrapped, &oe))
	assert.Equal(Te, []float64{0}, oe.Distances)
}
