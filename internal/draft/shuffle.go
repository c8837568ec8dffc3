package draft

import (
	"math/rand/v2"
)

// Shuffler produces the base draft order. It is injected so tests can
// pin a deterministic order.
type Shuffler interface {
	Shuffle(ids []string) []string
}

type randShuffler struct{}

// NewShuffler returns a Shuffler backed by the default random source.
func NewShuffler() Shuffler {
	return randShuffler{}
}

func (randShuffler) Shuffle(ids []string) []string {
	out := make([]string, len(ids))
	copy(out, ids)
	rand.Shuffle(len(out), func(i, j int) {
		out[i], out[j] = out[j], out[i]
	})
	return out
}
