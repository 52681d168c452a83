// SPDX-License-Identifier: MIT

package matrix_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/topomap/matrix"
)

func TestGroupVolume(t *testing.T) {
	t.Parallel()

	m := MustRows(t, [][]float64{
		{9, 1, 2},
		{3, 9, 4},
		{5, 6, 9},
	})
	v, err := matrix.GroupVolume(m, []int{0, 2})
	require.NoError(t, err)
	require.Equal(t, 7.0, v, "diagonal excluded, both directions counted")

	v, err = matrix.GroupVolume(m, []int{1})
	require.NoError(t, err)
	require.Zero(t, v)

	_, err = matrix.GroupVolume(m, []int{0, 3})
	require.ErrorIs(t, err, matrix.ErrOutOfRange)
}

func TestAggregate(t *testing.T) {
	t.Parallel()

	m := MustRows(t, [][]float64{
		{0, 1, 2, 3},
		{4, 0, 5, 6},
		{7, 8, 0, 9},
		{1, 2, 3, 0},
	})
	out, err := matrix.Aggregate(m, [][]int{{0, 1}, {2, 3}})
	require.NoError(t, err)
	require.Equal(t, [][]float64{
		{0, 2 + 3 + 5 + 6},
		{7 + 8 + 1 + 2, 0},
	}, out.ToRows())

	// uncovered members are ignored
	out, err = matrix.Aggregate(hide{m}, [][]int{{3}, {0}})
	require.NoError(t, err)
	require.Equal(t, [][]float64{{0, 1}, {3, 0}}, out.ToRows())
}

func TestAggregate_Errors(t *testing.T) {
	t.Parallel()

	m := BlockDiagonal(t, 4, 2, 1)
	_, err := matrix.Aggregate(m, [][]int{{0, 1}, {1, 2}})
	require.ErrorIs(t, err, matrix.ErrInvalidPermutation)
	_, err = matrix.Aggregate(m, [][]int{{0, 4}})
	require.ErrorIs(t, err, matrix.ErrOutOfRange)
	_, err = matrix.Aggregate(nil, nil)
	require.ErrorIs(t, err, matrix.ErrNilMatrix)
}

func TestAggregate_PreservesOffGroupVolume(t *testing.T) {
	t.Parallel()

	m := RandomVolumes(t, 8, 30, 7)
	groups := [][]int{{0, 1, 2, 3}, {4, 5, 6, 7}}
	agg, err := matrix.Aggregate(m, groups)
	require.NoError(t, err)

	aggOff, err := matrix.OffNodeVolume(agg, 1)
	require.NoError(t, err)
	off, err := matrix.OffNodeVolume(m, 4)
	require.NoError(t, err)
	require.Equal(t, off, aggOff)
}

func TestPad(t *testing.T) {
	t.Parallel()

	m := MustRows(t, [][]float64{{0, 1}, {2, 0}})
	out, err := matrix.Pad(m, 4)
	require.NoError(t, err)
	require.Equal(t, [][]float64{
		{0, 1, 0, 0},
		{2, 0, 0, 0},
		{0, 0, 0, 0},
		{0, 0, 0, 0},
	}, out.ToRows())

	_, err = matrix.Pad(m, 1)
	require.ErrorIs(t, err, matrix.ErrInvalidDimensions)
}

func TestAddTransfer(t *testing.T) {
	t.Parallel()

	m, err := matrix.NewSquare(2)
	require.NoError(t, err)
	require.NoError(t, matrix.AddTransfer(m, 0, 1, 3))
	require.NoError(t, matrix.AddTransfer(m, 0, 1, 4))
	v, _ := m.At(0, 1)
	require.Equal(t, 7.0, v)

	require.ErrorIs(t, matrix.AddTransfer(m, 0, 1, -1), matrix.ErrNegativeValue)
	require.ErrorIs(t, matrix.AddTransfer(m, 0, 1, math.NaN()), matrix.ErrNaNInf)
	require.ErrorIs(t, matrix.AddTransfer(m, 2, 1, 1), matrix.ErrOutOfRange)

	sym, err := matrix.Symmetrize(m)
	require.NoError(t, err)
	require.Equal(t, [][]float64{{0, 7}, {7, 0}}, sym.ToRows())
}
