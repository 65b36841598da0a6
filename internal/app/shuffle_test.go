package app

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestShuffleReturnsPermutationCopy(t *testing.T) {
	rnd := rand.New(rand.NewPCG(3, 5))
	in := []int{1, 2, 3, 4, 5, 6, 7, 8}

	out := shuffle(rnd, in)
	require.ElementsMatch(t, in, out)
	require.Equal(t, []int{1, 2, 3, 4, 5, 6, 7, 8}, in, "input must not be reordered")
}

func TestShuffleIsSeedDeterministic(t *testing.T) {
	in := []string{"a", "b", "c", "d", "e"}
	first := shuffle(rand.New(rand.NewPCG(9, 9)), in)
	second := shuffle(rand.New(rand.NewPCG(9, 9)), in)
	require.Equal(t, first, second)
}

func TestSelectRandomLimit(t *testing.T) {
	rnd := rand.New(rand.NewPCG(1, 1))
	in := []int{1, 2, 3, 4, 5}

	require.Len(t, selectRandom(rnd, in, 3), 3)
	require.ElementsMatch(t, in, selectRandom(rnd, in, 10))
	require.Empty(t, selectRandom(rnd, []int(nil), 3))
}

func TestPercentage(t *testing.T) {
	cases := []struct{ score, total, want int }{
		{0, 20, 0},
		{20, 20, 100},
		{13, 20, 65},
		{1, 8, 13},
		{1, 3, 33},
		{2, 3, 67},
		{0, 0, 0},
	}
	for _, c := range cases {
		require.Equal(t, c.want, percentage(c.score, c.total), "%d/%d", c.score, c.total)
	}
}
