package chain

import (
	"fmt"
	"strings"
)

type Difficulty string

const (
	Easy   Difficulty = "easy"
	Normal Difficulty = "normal"
	Hard   Difficulty = "hard"
	Expert Difficulty = "expert"
	Master Difficulty = "master"
)

// Difficulties lists every difficulty from the smallest board to the largest.
var Difficulties = []Difficulty{Easy, Normal, Hard, Expert, Master}

var profiles = map[Difficulty]Profile{
	Easy:   {Grid: Grid{5, 5}, MaxOutDegree: 2, MaxDirs: 2, ExtraDirChance: 0.12, LeafDecoyChance: 0.84},
	Normal: {Grid: Grid{6, 6}, MaxOutDegree: 2, MaxDirs: 2, ExtraDirChance: 0.14, LeafDecoyChance: 0.80},
	Hard:   {Grid: Grid{7, 7}, MaxOutDegree: 2, MaxDirs: 2, ExtraDirChance: 0.16, LeafDecoyChance: 0.76},
	Expert: {Grid: Grid{8, 8}, MaxOutDegree: 2, MaxDirs: 2, ExtraDirChance: 0.18, LeafDecoyChance: 0.72},
	Master: {Grid: Grid{9, 9}, MaxOutDegree: 2, MaxDirs: 2, ExtraDirChance: 0.20, LeafDecoyChance: 0.68},
}

// first-puzzle seeds, so that every session opens on the same board
var defaultSeeds = map[Difficulty]uint32{
	Easy:   0x0e45_1001,
	Normal: 0x0a3b_2002,
	Hard:   0x0badc0de,
	Expert: 0x5eed_4004,
	Master: 0x7a57_5005,
}

func ParseDifficulty(s string) (Difficulty, error) {
	d := Difficulty(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := profiles[d]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownDifficulty, s)
	}
	return d, nil
}

func (d Difficulty) Valid() bool {
	_, ok := profiles[d]
	return ok
}

func (d Difficulty) Profile() (Profile, bool) {
	p, ok := profiles[d]
	return p, ok
}

// DefaultSeed is the fixed seed used for the first puzzle of a session.
func DefaultSeed(d Difficulty) uint32 {
	if seed, ok := defaultSeeds[d]; ok {
		return seed
	}
	return defaultSeeds[Normal]
}
