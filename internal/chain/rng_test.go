package chain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestXorshift32Sequence(t *testing.T) {
	x := NewXorshift32(1)
	assert.Equal(t, uint32(270369), x.Uint32())
	assert.Equal(t, uint32(67634689), x.Uint32())
}

func TestXorshift32ZeroSeed(t *testing.T) {
	x := NewXorshift32(0)
	assert.NotZero(t, x.Uint32())
}

func TestXorshift32Float64Range(t *testing.T) {
	x := NewXorshift32(12345)
	for range 10000 {
		f := x.Float64()
		assert.GreaterOrEqual(t, f, 0.0)
		assert.Less(t, f, 1.0)
	}
}

func TestPuzzleSeed(t *testing.T) {
	assert.Equal(t, PuzzleSeed(10, 3), PuzzleSeed(10, 3))
	assert.NotEqual(t, PuzzleSeed(10, 3), PuzzleSeed(10, 4))
	assert.NotEqual(t, PuzzleSeed(10, 3), PuzzleSeed(11, 3))
	assert.NotZero(t, PuzzleSeed(0, 0))
}

type constRNG float64

func (c constRNG) Float64() float64 { return float64(c) }

func TestRandIntNStaysInRange(t *testing.T) {
	for _, n := range []int{1, 2, 7, 81} {
		assert.Equal(t, 0, randIntN(constRNG(0), n))
		assert.Equal(t, n-1, randIntN(constRNG(0.9999999999999999), n))
	}
}

func TestShuffleKeepsElements(t *testing.T) {
	s := []Direction{N, E, S, W}
	shuffle(NewXorshift32(3), s)
	assert.ElementsMatch(t, []Direction{N, E, S, W}, s)
}
