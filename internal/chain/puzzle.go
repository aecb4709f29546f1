package chain

import (
	"bytes"
	"encoding/gob"
	"fmt"

	"github.com/sirupsen/logrus"
)

var Log = logrus.New()

// Search policy. Both values are empirical, not part of any contract.
var (
	RetryBudget = 220
	WinnerCap   = 2
)

// Quality records which stage of the search produced a puzzle.
type Quality uint8

const (
	Accepted Quality = iota // at most WinnerCap winning starts
	Fallback                // fewest winners seen within the budget
	Degraded                // found with the degraded profile
	Trivial                 // serpentine last resort
)

var qualityNames = [...]string{"accepted", "fallback", "degraded", "trivial"}

// [Quality] implements [fmt.Stringer]
func (q Quality) String() string {
	if int(q) < len(qualityNames) {
		return qualityNames[q]
	}
	return "unknown"
}

func (q Quality) MarshalText() ([]byte, error) {
	return []byte(q.String()), nil
}

func (q *Quality) UnmarshalText(text []byte) error {
	for i, name := range qualityNames {
		if name == string(text) {
			*q = Quality(i)
			return nil
		}
	}
	return fmt.Errorf("unknown puzzle quality %q", text)
}

type PuzzleInstance struct {
	Serial          int        `json:"serial"`
	Seed            uint32     `json:"seed"`
	Difficulty      Difficulty `json:"difficulty"`
	Layout          *Layout    `json:"layout"`
	SolutionStartID int        `json:"solution_start_id"`
	Winners         int        `json:"winners"` // lower bound once above WinnerCap
	Quality         Quality    `json:"quality"`
}

func DecodePuzzleInstance(buf []byte) (*PuzzleInstance, error) {
	var p PuzzleInstance
	if err := gob.NewDecoder(bytes.NewBuffer(buf)).Decode(&p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (p PuzzleInstance) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(p); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Validate checks the layout and that SolutionStartID still clears it.
func (p *PuzzleInstance) Validate() error {
	if p.Layout == nil {
		return fmt.Errorf("%w: no layout", ErrBadLayout)
	}
	if err := p.Layout.Validate(); err != nil {
		return err
	}
	if !Simulate(p.Layout, p.SolutionStartID).Success {
		return fmt.Errorf("%w: start %d", ErrUnsolvable, p.SolutionStartID)
	}
	return nil
}

// NewPuzzle is [CreatePuzzle] driven by a [Xorshift32] derived from seed and
// serial, so the same pair always yields the same puzzle.
func NewPuzzle(difficulty Difficulty, seed uint32, serial int) *PuzzleInstance {
	p := CreatePuzzle(difficulty, NewXorshift32(PuzzleSeed(seed, serial)), serial)
	p.Seed = seed
	return p
}

type candidate struct {
	layout  *Layout
	start   int
	winners int
}

/*
CreatePuzzle generates a layout that is guaranteed to be solvable from
SolutionStartID. It never fails: when the search budget runs out it falls
back to the best layout seen, then to a degraded profile, and finally to a
serpentine layout. An unknown difficulty is treated as [Normal].
*/
func CreatePuzzle(difficulty Difficulty, rng RNG, serial int) *PuzzleInstance {
	profile, ok := difficulty.Profile()
	if !ok {
		Log.WithField("difficulty", difficulty).Warn("unknown difficulty, using normal")
		difficulty = Normal
		profile, _ = difficulty.Profile()
	}
	return generate(difficulty, profile, rng, serial)
}

// degradedProfile keeps the grid and direction cap of profile but grows
// single-child chains with no extra directions.
func degradedProfile(profile Profile) Profile {
	return Profile{Grid: profile.Grid, MaxOutDegree: 1, MaxDirs: profile.MaxDirs}
}

func generate(difficulty Difficulty, profile Profile, rng RNG, serial int) *PuzzleInstance {
	log := Log.WithFields(logrus.Fields{
		"difficulty": difficulty,
		"serial":     serial,
	})

	quality := Accepted
	best, accepted := search(profile, rng, RetryBudget, WinnerCap)
	if !accepted && best != nil {
		quality = Fallback
		log.WithField("winners", best.winners).Debug("search budget exhausted, using best layout")
	}

	if best == nil {
		quality = Degraded
		log.Warn("no solvable layout found, retrying with degraded profile")
		best, _ = search(degradedProfile(profile), rng, RetryBudget, profile.Size())
	}

	if best == nil || !Simulate(best.layout, best.start).Success {
		quality = Trivial
		log.Warn("degraded search failed, using serpentine layout")
		layout := serpentineLayout(profile.Grid)
		best = &candidate{
			layout:  layout,
			start:   layout.Blocks[0].ID,
			winners: newSimulator(layout).countWinners(WinnerCap),
		}
	}

	return &PuzzleInstance{
		Serial:          serial,
		Difficulty:      difficulty,
		Layout:          best.layout,
		SolutionStartID: best.start,
		Winners:         best.winners,
		Quality:         quality,
	}
}

// search returns the first root-solvable layout with at most winnerCap
// winning starts, or the one with the fewest winners when the budget runs out.
func search(profile Profile, rng RNG, budget, winnerCap int) (best *candidate, accepted bool) {
	for range budget {
		tree, ok := growTree(profile.Grid, profile.MaxOutDegree, rng)
		if !ok {
			continue
		}

		layout := buildLayout(tree, profile, rng)
		sim := newSimulator(layout)
		if !sim.solves(tree.Root) {
			// solvability from the root is re-verified, never assumed
			continue
		}

		winners := sim.countWinners(winnerCap)
		if best == nil || winners < best.winners {
			best = &candidate{layout: layout, start: tree.Root, winners: winners}
		}
		if winners <= winnerCap {
			return best, true
		}
	}
	return best, false
}
