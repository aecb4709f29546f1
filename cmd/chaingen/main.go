package main

import (
	"context"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v3"

	"github.com/vancomm/chainreaction-server/internal/chain"
	"github.com/vancomm/chainreaction-server/internal/config"
)

func puzzleFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "difficulty",
			Aliases: []string{"d"},
			Value:   string(chain.Normal),
			Usage:   "one of easy, normal, hard, expert, master",
		},
		&cli.StringFlag{
			Name:  "seed",
			Usage: `base seed, decimal or 0x hex; "random" for a fresh one (default: the difficulty's seed)`,
		},
		&cli.IntFlag{
			Name:  "serial",
			Usage: "puzzle number within the seed's sequence",
		},
	}
}

func newCommand() *cli.Command {
	return &cli.Command{
		Name:  "chaingen",
		Usage: "generate and inspect chain reaction puzzles",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "verbose",
				Aliases: []string{"v"},
				Usage:   "log generator fallbacks",
			},
		},
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			if err := config.Load(); err != nil {
				return ctx, err
			}
			if err := config.SetupEngineLog(chain.Log); err != nil {
				return ctx, err
			}
			if cmd.Bool("verbose") {
				chain.Log.SetLevel(logrus.DebugLevel)
			} else {
				chain.Log.SetLevel(logrus.WarnLevel)
			}
			return ctx, nil
		},
		Commands: []*cli.Command{
			{
				Name:  "generate",
				Usage: "print a puzzle as an arrow grid",
				Flags: append(puzzleFlags(), &cli.BoolFlag{
					Name:  "json",
					Usage: "print the puzzle instance as JSON",
				}),
				Action: func(ctx context.Context, cmd *cli.Command) error {
					p, err := puzzleFromFlags(cmd)
					if err != nil {
						return err
					}
					if cmd.Bool("json") {
						return printJSON(cmd.Root().Writer, p)
					}
					return printPuzzle(cmd.Root().Writer, p)
				},
			},
			{
				Name:  "simulate",
				Usage: "print the wave trace of an attempt",
				Flags: append(puzzleFlags(), &cli.IntFlag{
					Name:  "start",
					Value: -1,
					Usage: "block id to start from (default: the solution)",
				}),
				Action: func(ctx context.Context, cmd *cli.Command) error {
					p, err := puzzleFromFlags(cmd)
					if err != nil {
						return err
					}
					start := cmd.Int("start")
					if start < 0 {
						start = p.SolutionStartID
					}
					if _, ok := p.Layout.Block(start); !ok {
						return fmt.Errorf("no block %d on a %dx%d board", start, p.Layout.Rows, p.Layout.Cols)
					}
					return printTrace(cmd.Root().Writer, chain.Simulate(p.Layout, start))
				},
			},
			{
				Name:  "winners",
				Usage: "list every block that clears the board",
				Flags: puzzleFlags(),
				Action: func(ctx context.Context, cmd *cli.Command) error {
					p, err := puzzleFromFlags(cmd)
					if err != nil {
						return err
					}
					return printWinners(cmd.Root().Writer, p)
				},
			},
		},
	}
}

func main() {
	if err := newCommand().Run(context.Background(), os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
