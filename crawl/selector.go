package crawl

import (
	"math/rand/v2"
	"sync"

	"github.com/fwojciec/repocrawl"
)

// Ensure RandomSelector implements repocrawl.ProxySelector at compile time.
var _ repocrawl.ProxySelector = (*RandomSelector)(nil)

// RandomSelector picks a proxy uniformly at random.
type RandomSelector struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewRandomSelector returns a selector backed by the global random source.
func NewRandomSelector() *RandomSelector {
	return &RandomSelector{}
}

// NewSeededSelector returns a selector with a deterministic source.
func NewSeededSelector(seed1, seed2 uint64) *RandomSelector {
	return &RandomSelector{rng: rand.New(rand.NewPCG(seed1, seed2))}
}

// Select returns a member of pool, or ENOPROXY if pool is empty.
func (s *RandomSelector) Select(pool []string) (string, error) {
	if len(pool) == 0 {
		return "", repocrawl.Errorf(repocrawl.ENOPROXY, "No valid proxies available")
	}
	return pool[s.intN(len(pool))], nil
}

func (s *RandomSelector) intN(n int) int {
	if s.rng == nil {
		return rand.IntN(n)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.IntN(n)
}
