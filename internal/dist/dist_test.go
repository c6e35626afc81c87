package dist

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/require"
)

func testRand() *rand.Rand {
	return rand.New(rand.NewPCG(42, 1024))
}

func TestNewWeightedRejectsBadInput(t *testing.T) {
	_, err := NewWeighted([]string{}, []float64{})
	require.ErrorIs(t, err, ErrInvalidWeights)

	_, err = NewWeighted([]string{"a", "b"}, []float64{1})
	require.ErrorIs(t, err, ErrInvalidWeights)

	_, err = NewWeighted([]string{"a", "b"}, []float64{1, -1})
	require.ErrorIs(t, err, ErrInvalidWeights)

	_, err = NewWeighted([]string{"a", "b"}, []float64{0, 0})
	require.ErrorIs(t, err, ErrInvalidWeights)
}

func TestMustWeightedPanics(t *testing.T) {
	require.Panics(t, func() { MustWeighted([]int{1}, nil) })
}

func TestWeightedDrawFollowsWeights(t *testing.T) {
	w := MustWeighted([]string{"admin", "member", "guest"}, []float64{5, 90, 5})
	r := testRand()

	counts := map[string]int{}
	const n = 20000
	for i := 0; i < n; i++ {
		counts[w.Draw(r)]++
	}

	require.InDelta(t, 0.90, float64(counts["member"])/n, 0.02)
	require.InDelta(t, 0.05, float64(counts["admin"])/n, 0.01)
	require.InDelta(t, 0.05, float64(counts["guest"])/n, 0.01)
}

func TestWeightedZeroWeightNeverDrawn(t *testing.T) {
	w := MustWeighted([]int{1, 2, 3}, []float64{1, 0, 1})
	r := testRand()
	for i := 0; i < 5000; i++ {
		require.NotEqual(t, 2, w.Draw(r))
	}
	require.Equal(t, 3, w.Len())
}

func TestBetween(t *testing.T) {
	r := testRand()
	seen := map[int]bool{}
	for i := 0; i < 1000; i++ {
		v := Between(r, 5, 15)
		require.GreaterOrEqual(t, v, 5)
		require.LessOrEqual(t, v, 15)
		seen[v] = true
	}
	require.Len(t, seen, 11)
	require.Equal(t, 3, Between(r, 3, 3))
}

func TestShuffledKeepsElements(t *testing.T) {
	in := []int{1, 2, 3, 4, 5, 6}
	out := Shuffled(testRand(), in)
	require.ElementsMatch(t, in, out)
	require.Equal(t, []int{1, 2, 3, 4, 5, 6}, in)
}

func TestChanceExtremes(t *testing.T) {
	r := testRand()
	for i := 0; i < 100; i++ {
		require.False(t, Chance(r, 0))
		require.True(t, Chance(r, 1))
	}
}

func TestNewRandIsReproducible(t *testing.T) {
	a, seedA := NewRand(99)
	b, seedB := NewRand(99)
	require.Equal(t, uint64(99), seedA)
	require.Equal(t, seedA, seedB)
	for i := 0; i < 10; i++ {
		require.Equal(t, a.Uint64(), b.Uint64())
	}

	_, picked := NewRand(0)
	require.NotZero(t, picked)
}
