package engine

import (
	crand "crypto/rand"
	"encoding/binary"
	"math/rand"
)

// RNG is the randomness the engine consumes. Tests swap in a scripted
// implementation to force deterministic draws.
type RNG interface {
	// Roll100 returns a uniform draw in [1, 100].
	Roll100() int
	// Multiplier returns one of the payout multipliers 1.5, 2.0, 2.5.
	Multiplier() float64
	// Shuffle permutes n elements via swap, as rand.Shuffle does.
	Shuffle(n int, swap func(i, j int))
}

var multipliers = []float64{1.5, 2.0, 2.5}

type seededRNG struct {
	r *rand.Rand
}

// NewRNG returns a seeded RNG. The same seed yields the same draw sequence.
func NewRNG(seed int64) RNG {
	return &seededRNG{r: rand.New(rand.NewSource(seed))}
}

func (s *seededRNG) Roll100() int {
	return s.r.Intn(100) + 1
}

func (s *seededRNG) Multiplier() float64 {
	return multipliers[s.r.Intn(len(multipliers))]
}

func (s *seededRNG) Shuffle(n int, swap func(i, j int)) {
	s.r.Shuffle(n, swap)
}

// NewSeed draws a process seed from crypto/rand.
func NewSeed() int64 {
	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		// crypto/rand failing means the platform is broken; a zero seed
		// still produces a playable game.
		return 0
	}
	return int64(binary.LittleEndian.Uint64(b[:]))
}
