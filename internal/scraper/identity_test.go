package scraper

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPickIdentity(t *testing.T) {
	pool := []string{"agent-a", "agent-b", "agent-c"}

	t.Run("deterministic for a fixed rng state", func(t *testing.T) {
		first := PickIdentity(pool, rand.New(rand.NewPCG(7, 11)))
		second := PickIdentity(pool, rand.New(rand.NewPCG(7, 11)))
		require.Equal(t, first, second)
		require.Contains(t, pool, first)
	})

	t.Run("single-entry pool always wins", func(t *testing.T) {
		for range 10 {
			require.Equal(t, "only", PickIdentity([]string{"only"}, nil))
		}
	})

	t.Run("empty pool falls back to defaults", func(t *testing.T) {
		require.Contains(t, DefaultIdentityPool, PickIdentity(nil, nil))
	})

	t.Run("rotation covers the pool", func(t *testing.T) {
		rng := rand.New(rand.NewPCG(1, 2))
		seen := make(map[string]struct{})
		for range 200 {
			seen[PickIdentity(pool, rng)] = struct{}{}
		}
		require.Len(t, seen, len(pool))
	})
}
