package matter

import (
	"errors"
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xtalsgo/xtals/cell"
	"github.com/xtalsgo/xtals/xerr"
	"gonum.org/v1/gonum/mat"
)

func mof74(Te *testing.T) *cell.Box {
	B, err := cell.New(26.13173, 26.13173, 6.722028, math.Pi/2, math.Pi/2, 2*math.Pi/3)
	require.NoError(Te, err)
	return B
}

func water(Te *testing.T) (*Atoms[*Cart], *Charges[*Cart]) {
	x := CartOf([3]float64{0, 0, 0}, [3]float64{0.757, 0.586, 0}, [3]float64{-0.757, 0.586, 0})
	A, err := NewAtoms([]string{"O", "H", "H"}, x)
	require.NoError(Te, err)
	Q, err := NewCharges([]float64{-1.0, 0.5, 0.5}, x.Copy())
	require.NoError(Te, err)
	return A, Q
}

func TestNewParticles(Te *testing.T) {
	A, Q := water(Te)
	assert.Equal(Te, 3, A.Len())
	assert.Equal(Te, 3, Q.Len())
	_, err := NewAtoms([]string{"O", "H"}, CartOf([3]float64{}))
	assert.True(Te, errors.Is(err, xerr.DimensionMismatch))
	_, err = NewCharges([]float64{1}, FracOf())
	assert.True(Te, errors.Is(err, xerr.DimensionMismatch))
	_, err = NewFrac([]float64{1, 2, 3, 4})
	assert.True(Te, errors.Is(err, xerr.DimensionMismatch))

	sp := []string{"C"}
	C, err := NewAtoms(sp, FracOf([3]float64{0.1, 0.2, 0.3}))
	require.NoError(Te, err)
	sp[0] = "N"
	assert.Equal(Te, "C", C.Species[0])
}

func TestSelection(Te *testing.T) {
	A, Q := water(Te)
	joined := A.Subset(0).Concat(A.Slice(1, 3))
	assert.True(Te, joined.ApproxEqual(A))
	assert.Equal(Te, []string{"H", "O"}, A.Subset(2, 0).Species)

	m, err := Q.Mask([]bool{false, true, true})
	require.NoError(Te, err)
	assert.Equal(Te, []float64{0.5, 0.5}, m.Q)
	assert.False(Te, m.Neutral())
	_, err = A.Mask([]bool{true})
	assert.True(Te, errors.Is(err, xerr.DimensionMismatch))

	empty := A.Slice(1, 1)
	assert.Equal(Te, 0, empty.Len())
	assert.True(Te, empty.Concat(A).ApproxEqual(A))

	c := A.Copy()
	c.Coords.SetVec(0, [3]float64{9, 9, 9})
	c.Species[0] = "N"
	assert.Equal(Te, [3]float64{0, 0, 0}, A.Coords.Vec(0))
	assert.Equal(Te, "O", A.Species[0])
	assert.False(Te, c.ApproxEqual(A))
}

func TestNeutral(Te *testing.T) {
	_, Q := water(Te)
	assert.InDelta(Te, 0.0, Q.Net(), 1e-15)
	assert.True(Te, Q.Neutral())
	Q.Q[0] = -0.99
	assert.False(Te, Q.Neutral())
	assert.True(Te, Q.Neutral(0.1))
	assert.True(Te, Neutral(-5e-6))
	assert.False(Te, Neutral(1e-5))
}

func TestRoundTrip(Te *testing.T) {
	B := mof74(Te)
	r := rand.New(rand.NewSource(42))
	p := make([][3]float64, 50)
	for i := range p {
		p[i] = [3]float64{r.Float64()*4 - 2, r.Float64()*4 - 2, r.Float64()*4 - 2}
	}
	F := FracOf(p...)
	back := ToFrac(ToCart(F, B), B)
	assert.True(Te, back.ApproxEqual(F, 1e-9))

	C := CartOf(p...)
	assert.True(Te, ToCart(ToFrac(C, B), B).ApproxEqual(C, 1e-9))

	A, _ := water(Te)
	Af := AtomsToFrac(A, B)
	assert.Equal(Te, A.Species, Af.Species)
	assert.True(Te, AtomsToCart(Af, B).ApproxEqual(A, 1e-9))

	_, err := AsCart(F, nil)
	assert.True(Te, errors.Is(err, xerr.MissingBox))
	same, err := AsFrac(F, nil)
	require.NoError(Te, err)
	assert.True(Te, same.ApproxEqual(F))
}

func TestWrap(Te *testing.T) {
	F := FracOf([3]float64{1.2, -0.3, 0.9}, [3]float64{1, -1e-18, 0})
	F.Wrap()
	assert.InDeltaSlice(Te, []float64{0.2, 0.7, 0.9}, F.Flat()[:3], 1e-12)
	for _, v := range F.Flat() {
		assert.True(Te, v >= 0 && v < 1, "%g not in [0,1)", v)
	}
	before := F.Flat()
	F.Wrap()
	assert.Equal(Te, before, F.Flat())
}

func TestOverwrite(Te *testing.T) {
	F := FracOf([3]float64{0.1, 0.2, 0.3}, [3]float64{0.4, 0.5, 0.6})
	src := FracOf([3]float64{1, 2, 3}, [3]float64{4, 5, 6})
	require.NoError(Te, F.Overwrite(src))
	assert.Equal(Te, []float64{1, 2, 3, 4, 5, 6}, F.Flat())
	src.SetVec(0, [3]float64{0, 0, 0}) //F keeps its own buffer
	assert.Equal(Te, [3]float64{1, 2, 3}, F.Vec(0))
	err := F.Overwrite(FracOf([3]float64{}))
	assert.True(Te, errors.Is(err, xerr.DimensionMismatch))

	C := CartOf([3]float64{1, 1, 1})
	require.NoError(Te, C.Overwrite(CartOf([3]float64{2, 2, 2})))
	assert.Equal(Te, [3]float64{2, 2, 2}, C.Vec(0))
	assert.Equal(Te, 1, C.Len())
}

func TestTranslateBy(Te *testing.T) {
	x := CartOf([3]float64{1, 0, 0})
	dx := FracOf([3]float64{0.1, 0.2, 0.3})
	require.True(Te, errors.Is(TranslateBy(x, dx), xerr.MissingBox))
	require.NoError(Te, TranslateBy(x, dx, cell.UnitCube()))
	assert.InDeltaSlice(Te, []float64{1.1, 0.2, 0.3}, x.Flat(), 1e-12)

	F := FracOf([3]float64{0, 0, 0}, [3]float64{0.5, 0.5, 0.5})
	require.NoError(Te, TranslateBy(F, FracOf([3]float64{0.1, 0, 0}, [3]float64{0, 0.1, 0})))
	assert.InDeltaSlice(Te, []float64{0.1, 0, 0, 0.5, 0.6, 0.5}, F.Flat(), 1e-12)

	err := TranslateBy(F, FracOf([3]float64{}, [3]float64{}, [3]float64{}))
	assert.True(Te, errors.Is(err, xerr.DimensionMismatch))
}

func TestCombine(Te *testing.T) {
	_, err := Combine(FracOf([3]float64{}), CartOf([3]float64{}))
	assert.True(Te, errors.Is(err, xerr.TagMismatch))
	c, err := Combine(CartOf([3]float64{1, 2, 3}), CartOf([3]float64{4, 5, 6}))
	require.NoError(Te, err)
	assert.Equal(Te, Cartesian, c.Tag())
	assert.Equal(Te, 2, c.Len())
	assert.Equal(Te, [3]float64{4, 5, 6}, c.Vec(1))
}

func TestDistance(Te *testing.T) {
	B, err := cell.NewOrtho(10, 10, 10)
	require.NoError(Te, err)
	F := FracOf([3]float64{0.05, 0, 0}, [3]float64{0.95, 0, 0}, [3]float64{0.5, 0.5, 0.5})
	assert.InDelta(Te, 9.0, Distance(F, B, 0, 1, false), 1e-12)
	assert.InDelta(Te, 1.0, Distance(F, B, 0, 1, true), 1e-12)
	assert.Equal(Te, 0.0, Distance(F, B, 2, 2, true))
	A, err := NewAtoms([]string{"C", "C", "O"}, F)
	require.NoError(Te, err)
	assert.InDelta(Te, 1.0, Distance(A, B, 1, 0, true), 1e-12)
	assert.InDeltaSlice(Te, []float64{1, 0, Distance(A, B, 1, 2, true)}, Distances(A, B, 1, true), 1e-12)

	//random points in a triclinic cell
	T := mof74(Te)
	r := rand.New(rand.NewSource(7))
	p := make([][3]float64, 30)
	for i := range p {
		p[i] = [3]float64{r.Float64(), r.Float64(), r.Float64()}
	}
	R := FracOf(p...)
	C := ToCart(R, T)
	for i := range p {
		for j := range p {
			dij := Distance(R, T, i, j, true)
			assert.Equal(Te, dij, Distance(R, T, j, i, true))
			assert.Equal(Te, Distance(R, T, i, j, false), Distance(R, T, j, i, false))
			assert.LessOrEqual(Te, dij, Distance(R, T, i, j, false))
			assert.InDelta(Te, dij, Distance(C, T, i, j, true), 1e-9)
		}
	}
}

// In a strongly skewed cell, rounding the fractional separation can give an image
// farther away than the raw separation; the raw one is returned then. Closer images
// found only by searching neighbouring cells are not considered.
func TestSkewedDistance(Te *testing.T) {
	B, err := cell.FromMatrix(mat.NewDense(3, 3, []float64{
		1, 0.95, 0,
		0, 0.1, 0,
		0, 0, 1,
	}))
	require.NoError(Te, err)
	F := FracOf([3]float64{0.2, 0.5, 0.5}, [3]float64{0.75, 0.05, 0.5})
	raw := Distance(F, B, 0, 1, false)
	assert.InDelta(Te, 0.1305038, raw, 1e-6)
	assert.Equal(Te, raw, Distance(F, B, 0, 1, true))
	assert.Equal(Te, raw, Distance(F, B, 1, 0, true))
	//the image at (-0.45, 0.55, 0), 0.0910 A away, is missed
	assert.Greater(Te, Distance(F, B, 0, 1, true), 0.0911)
}
