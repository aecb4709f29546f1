package chain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildLayoutKeepsTreeArrows(t *testing.T) {
	t.Parallel()

	for _, d := range Difficulties {
		t.Run(string(d), func(t *testing.T) {
			profile, _ := d.Profile()
			rng := NewXorshift32(DefaultSeed(d))
			for range 20 {
				tree, ok := growTree(profile.Grid, profile.MaxOutDegree, rng)
				if !ok {
					continue
				}
				layout := buildLayout(tree, profile, rng)
				require.NoError(t, layout.Validate())

				for key, b := range layout.Blocks {
					assert.Equal(t, key, b.ID)
					assert.LessOrEqual(t, len(b.Dirs), profile.MaxDirs)
					for _, child := range tree.Children[key] {
						dir, _ := directionBetween(b.Point(), profile.PointOf(child))
						assert.Contains(t, b.Dirs, dir)
					}
				}
				assert.True(t, Simulate(layout, tree.Root).Remaining < layout.Len())
			}
		})
	}
}

func TestBuildLayoutWithoutNoise(t *testing.T) {
	profile := Profile{Grid: Grid{4, 4}, MaxOutDegree: 2, MaxDirs: 2}
	rng := NewXorshift32(17)
	for range 20 {
		tree, ok := growTree(profile.Grid, profile.MaxOutDegree, rng)
		if !ok {
			continue
		}
		layout := buildLayout(tree, profile, rng)
		for key, b := range layout.Blocks {
			if n := len(tree.Children[key]); n > 0 {
				assert.Len(t, b.Dirs, n)
			} else {
				assert.Len(t, b.Dirs, 1, "leaf %d must get exactly one decoy", key)
			}
		}
		// without noise the tree edges alone carry the chain
		assert.True(t, Simulate(layout, tree.Root).Success)
	}
}

func TestBuildLayoutSingleCell(t *testing.T) {
	tree, ok := growTree(Grid{1, 1}, 2, NewXorshift32(1))
	require.True(t, ok)
	layout := buildLayout(tree, Profile{Grid: Grid{1, 1}, MaxOutDegree: 2, MaxDirs: 2}, NewXorshift32(1))
	require.NoError(t, layout.Validate())
	assert.True(t, Simulate(layout, 0).Success)
}

func TestSerpentineLayoutIsSolvable(t *testing.T) {
	for _, grid := range []Grid{{1, 1}, {1, 5}, {5, 1}, {2, 2}, {3, 4}, {9, 9}} {
		layout := serpentineLayout(grid)
		require.NoError(t, layout.Validate(), "%dx%d", grid.Rows, grid.Cols)
		assert.True(t, Simulate(layout, 0).Success, "%dx%d", grid.Rows, grid.Cols)
		for _, b := range layout.Blocks {
			assert.Len(t, b.Dirs, 1)
		}
	}
}

func TestSerpentineTailPointsBack(t *testing.T) {
	assert.Equal(t, []Direction{W}, serpentineLayout(Grid{1, 5}).Blocks[4].Dirs)
	assert.Equal(t, []Direction{N}, serpentineLayout(Grid{5, 1}).Blocks[4].Dirs)
	// 2x3 walks right, down, then left along the second row
	assert.Equal(t, []Direction{E}, serpentineLayout(Grid{2, 3}).Blocks[3].Dirs)
}

func TestLayoutValidate(t *testing.T) {
	valid := func() *Layout {
		return layoutOf(1, 2, map[Point][]Direction{{0, 0}: {E}, {0, 1}: {W}})
	}

	tests := []struct {
		name   string
		mutate func(l *Layout)
		err    error
	}{
		{"ok", func(l *Layout) {}, nil},
		{"zero rows", func(l *Layout) { l.Rows = 0 }, ErrBadDimensions},
		{"missing block", func(l *Layout) { l.Blocks = l.Blocks[:1] }, ErrBadLayout},
		{"duplicate id", func(l *Layout) { l.Blocks[1].ID = 0 }, ErrBadLayout},
		{"shared cell", func(l *Layout) { l.Blocks[1].Col = 0 }, ErrBadLayout},
		{"out of bounds", func(l *Layout) { l.Blocks[1].Row = 3 }, ErrBadLayout},
		{"no arrows", func(l *Layout) { l.Blocks[0].Dirs = nil }, ErrBadLayout},
		{"repeated arrow", func(l *Layout) { l.Blocks[0].Dirs = []Direction{E, E} }, ErrBadLayout},
		{"invalid arrow", func(l *Layout) { l.Blocks[0].Dirs = []Direction{Direction(9)} }, ErrBadLayout},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			l := valid()
			test.mutate(l)
			err := l.Validate()
			if test.err == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, test.err)
			}
		})
	}
}

func TestLayoutJSON(t *testing.T) {
	l := layoutOf(1, 2, map[Point][]Direction{{0, 0}: {E, SE}, {0, 1}: {W}})
	b, err := json.Marshal(l)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"rows": 1, "cols": 2,
		"blocks": [
			{"id": 0, "row": 0, "col": 0, "dirs": ["E", "SE"]},
			{"id": 1, "row": 0, "col": 1, "dirs": ["W"]}
		]
	}`, string(b))
}

func TestLayoutString(t *testing.T) {
	l := layoutOf(2, 2, map[Point][]Direction{
		{0, 0}: {E},
		{0, 1}: {S, W},
		{1, 0}: {N},
		{1, 1}: {W},
	})
	assert.Equal(t, "→. ↓←\n↑. ←.\n", l.String())
}
