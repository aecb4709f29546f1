package chain

import "hash/maphash"

// RNG is the random source consumed by the generator. Float64 must return
// values in [0, 1). Both [*Xorshift32] and *math/rand/v2.Rand satisfy it.
type RNG interface {
	Float64() float64
}

// Xorshift32 is a small deterministic generator so that a puzzle can be
// reproduced from its seed and serial.
type Xorshift32 struct {
	state uint32
}

const fallbackSeed uint32 = 0x6d2b79f5

func NewXorshift32(seed uint32) *Xorshift32 {
	if seed == 0 {
		seed = fallbackSeed
	}
	return &Xorshift32{state: seed}
}

func (x *Xorshift32) Uint32() uint32 {
	s := x.state
	s ^= s << 13
	s ^= s >> 17
	s ^= s << 5
	x.state = s
	return s
}

func (x *Xorshift32) Float64() float64 {
	return float64(x.Uint32()) / (1 << 32)
}

// PuzzleSeed mixes a base seed with a puzzle serial.
func PuzzleSeed(seed uint32, serial int) uint32 {
	h := seed ^ (uint32(serial) * 0x9e3779b9)
	h ^= h >> 16
	h *= 0x85ebca6b
	h ^= h >> 13
	h *= 0xc2b2ae35
	h ^= h >> 16
	if h == 0 {
		h = fallbackSeed
	}
	return h
}

// EntropySeed returns a fresh non-deterministic seed.
func EntropySeed() uint32 {
	s := uint32(new(maphash.Hash).Sum64())
	if s == 0 {
		s = fallbackSeed
	}
	return s
}

func randIntN(rng RNG, n int) int {
	i := int(rng.Float64() * float64(n))
	if i >= n {
		i = n - 1
	}
	return i
}

func chance(rng RNG, p float64) bool {
	return rng.Float64() < p
}

func shuffle[T any](rng RNG, s []T) {
	for i := len(s) - 1; i > 0; i-- {
		j := randIntN(rng, i+1)
		s[i], s[j] = s[j], s[i]
	}
}
