package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/vancomm/chainreaction-server/internal/chain"
)

// parseSeed accepts decimal, 0x-prefixed hex or "random". An empty string
// selects the default seed of d.
func parseSeed(s string, d chain.Difficulty) (uint32, error) {
	switch strings.ToLower(s) {
	case "":
		return chain.DefaultSeed(d), nil
	case "random":
		return chain.EntropySeed(), nil
	}
	seed, err := strconv.ParseUint(s, 0, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid seed %q: %w", s, err)
	}
	return uint32(seed), nil
}

func puzzleFromFlags(cmd *cli.Command) (*chain.PuzzleInstance, error) {
	d, err := chain.ParseDifficulty(cmd.String("difficulty"))
	if err != nil {
		return nil, err
	}
	seed, err := parseSeed(cmd.String("seed"), d)
	if err != nil {
		return nil, err
	}
	serial := cmd.Int("serial")
	if serial < 0 {
		return nil, fmt.Errorf("serial must not be negative")
	}
	return chain.NewPuzzle(d, seed, serial), nil
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func printPuzzle(w io.Writer, p *chain.PuzzleInstance) error {
	_, err := fmt.Fprintf(w,
		"%s #%d seed=%d quality=%s winners=%d solution=%d\n\n%s",
		p.Difficulty, p.Serial, p.Seed, p.Quality, p.Winners, p.SolutionStartID, p.Layout,
	)
	return err
}

func printTrace(w io.Writer, sim *chain.AttemptSimulation) error {
	for i, wave := range sim.Waves {
		if _, err := fmt.Fprintf(w, "wave %d: %v -> %v\n", i+1, wave.SourceIDs(), wave.Hits()); err != nil {
			return err
		}
	}
	outcome := "cleared"
	if !sim.Success {
		outcome = fmt.Sprintf("failed, %d left", sim.Remaining)
	}
	_, err := fmt.Fprintf(w, "start %d: %s after %d waves\n", sim.StartID, outcome, len(sim.Waves))
	return err
}

func printWinners(w io.Writer, p *chain.PuzzleInstance) error {
	winners := chain.Winners(p.Layout)
	_, err := fmt.Fprintf(w, "%d of %d blocks clear the board: %v\n", len(winners), p.Layout.Len(), winners)
	return err
}
