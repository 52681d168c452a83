package placement_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/topomap/matrix"
	"github.com/katalvlaran/topomap/placement"
)

func TestFormatDirective(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		key  string
		perm []int
		want string
	}{
		{"three", "KEY", []int{2, 0, 1}, "KEY=0.2,1.0,2.1"},
		{"identity", "REORDERING", []int{0, 1}, "REORDERING=0.0,1.1"},
		{"single", "K", []int{0}, "K=0.0"},
		{"empty", "K", []int{}, "K="},
		{"two digits", "K", []int{10, 1, 2, 3, 4, 5, 6, 7, 8, 9, 0}, "K=0.10,1.1,2.2,3.3,4.4,5.5,6.6,7.7,8.8,9.9,10.0"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := placement.FormatDirective(tc.key, tc.perm)
			require.NoError(t, err)
			require.Equal(t, tc.want, got)
		})
	}
}

func TestFormatDirective_Errors(t *testing.T) {
	t.Parallel()

	_, err := placement.FormatDirective("", []int{0})
	require.ErrorIs(t, err, placement.ErrBadDirective)
	_, err = placement.FormatDirective("A=B", []int{0})
	require.ErrorIs(t, err, placement.ErrBadDirective)
	require.ErrorIs(t, err, placement.ErrMalformedInput)
	_, err = placement.FormatDirective("K", []int{0, 0})
	require.ErrorIs(t, err, matrix.ErrInvalidPermutation)
	_, err = placement.FormatDirective("K", []int{1, 2})
	require.ErrorIs(t, err, matrix.ErrInvalidPermutation)
}

func TestParseDirective_RoundTrip(t *testing.T) {
	t.Parallel()

	for _, perm := range [][]int{{}, {0}, {2, 0, 1}, {3, 1, 2, 0}} {
		s, err := placement.FormatDirective("REORDERING", perm)
		require.NoError(t, err)

		key, got, err := placement.ParseDirective(s)
		require.NoError(t, err)
		require.Equal(t, "REORDERING", key)
		require.Equal(t, perm, got)
	}
}

func TestParseDirective_Errors(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   string
		want error
	}{
		{"no equals sign", placement.ErrBadDirective},
		{"=0.0", placement.ErrBadDirective},
		{"K=0.0,", placement.ErrBadDirective},
		{"K=0-0", placement.ErrBadDirective},
		{"K=1.0,0.1", placement.ErrBadDirective},
		{"K=0.0,0.1", placement.ErrBadDirective},
		{"K=0.x", placement.ErrBadDirective},
		{"K=0.1,1.1", matrix.ErrInvalidPermutation},
		{"K=0.5", matrix.ErrInvalidPermutation},
	}
	for _, tc := range cases {
		_, _, err := placement.ParseDirective(tc.in)
		require.ErrorIs(t, err, tc.want, tc.in)
		require.ErrorIs(t, err, matrix.ErrMalformedInput, tc.in)
	}
}

func TestParseKind(t *testing.T) {
	t.Parallel()

	k, err := placement.ParseKind("TreeMatch")
	require.NoError(t, err)
	require.Equal(t, placement.KindTreeMatch, k)

	k, err = placement.ParseKind("qap")
	require.NoError(t, err)
	require.Equal(t, placement.KindQAP, k)
	require.Equal(t, "qap", k.String())

	_, err = placement.ParseKind("annealing")
	require.ErrorIs(t, err, placement.ErrUnknownKind)
	require.Equal(t, "Kind(9)", placement.Kind(9).String())
}
