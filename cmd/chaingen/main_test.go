package main

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vancomm/chainreaction-server/internal/chain"
)

func TestParseSeed(t *testing.T) {
	seed, err := parseSeed("", chain.Hard)
	require.NoError(t, err)
	assert.Equal(t, chain.DefaultSeed(chain.Hard), seed)

	seed, err = parseSeed("42", chain.Hard)
	require.NoError(t, err)
	assert.Equal(t, uint32(42), seed)

	seed, err = parseSeed("0xff", chain.Hard)
	require.NoError(t, err)
	assert.Equal(t, uint32(255), seed)

	_, err = parseSeed("RANDOM", chain.Hard)
	assert.NoError(t, err)

	_, err = parseSeed("0x1_0000_0000", chain.Hard)
	assert.Error(t, err)
	_, err = parseSeed("seedy", chain.Hard)
	assert.Error(t, err)
}

func run(t *testing.T, args ...string) string {
	t.Helper()
	t.Setenv("LOG_FILE", "")
	var out bytes.Buffer
	cmd := newCommand()
	cmd.Writer = &out
	require.NoError(t, cmd.Run(context.Background(), append([]string{"chaingen"}, args...)))
	return out.String()
}

func TestGenerate(t *testing.T) {
	out := run(t, "generate", "-d", "easy", "--serial", "3")
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2+5)
	assert.True(t, strings.HasPrefix(lines[0], "easy #3 "))
	for _, row := range lines[2:] {
		assert.Len(t, strings.Fields(row), 5)
	}
	assert.Equal(t, out, run(t, "generate", "-d", "easy", "--serial", "3"))
}

func TestSimulateSolution(t *testing.T) {
	out := run(t, "simulate", "-d", "normal", "--seed", "7")
	assert.Contains(t, out, "cleared after")
}

func TestWinners(t *testing.T) {
	out := run(t, "winners", "-d", "easy", "--seed", "7")
	p := chain.NewPuzzle(chain.Easy, 7, 0)
	assert.Contains(t, out, " of 25 blocks clear the board")
	assert.Contains(t, out, "blocks clear the board: [")
	assert.NotEmpty(t, chain.Winners(p.Layout))
}

func TestUnknownStart(t *testing.T) {
	cmd := newCommand()
	cmd.Writer = &bytes.Buffer{}
	err := cmd.Run(context.Background(), []string{"chaingen", "simulate", "--start", "999"})
	assert.Error(t, err)
}
