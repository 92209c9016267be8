package scraper

import "math/rand/v2"

// DefaultIdentityPool holds the browser identities rotated across fetch
// attempts when no pool is configured.
var DefaultIdentityPool = []string{
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.4 Safari/605.1.15",
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64; rv:125.0) Gecko/20100101 Firefox/125.0",
	"Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/123.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36",
}

// PickIdentity selects one client identity from pool. It is a pure
// function of its inputs: the same rng state always yields the same
// choice. A nil rng falls back to the shared generator.
func PickIdentity(pool []string, rng *rand.Rand) string {
	if len(pool) == 0 {
		pool = DefaultIdentityPool
	}
	if len(pool) == 1 {
		return pool[0]
	}
	if rng == nil {
		return pool[rand.IntN(len(pool))]
	}
	return pool[rng.IntN(len(pool))]
}
