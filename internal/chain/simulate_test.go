package chain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// layoutOf builds a layout whose block ids are the row-major cell keys.
func layoutOf(rows, cols int, dirs map[Point][]Direction) *Layout {
	grid := Grid{rows, cols}
	l := &Layout{Grid: grid, Blocks: make([]Block, grid.Size())}
	for key := range l.Blocks {
		p := grid.PointOf(key)
		l.Blocks[key] = Block{ID: key, Row: p.Row, Col: p.Col, Dirs: dirs[p]}
	}
	return l
}

func sourceIDs(sim *AttemptSimulation) [][]int {
	ids := make([][]int, len(sim.Waves))
	for i, w := range sim.Waves {
		ids[i] = w.SourceIDs()
	}
	return ids
}

func TestSimulateFourCycle(t *testing.T) {
	layout := layoutOf(2, 2, map[Point][]Direction{
		{0, 0}: {E},
		{0, 1}: {S},
		{1, 1}: {W},
		{1, 0}: {N},
	})
	require.NoError(t, layout.Validate())

	sim := Simulate(layout, 0)

	assert.True(t, sim.Success)
	assert.Equal(t, 0, sim.Remaining)
	assert.Equal(t, [][]int{{0}, {1}, {3}, {2}}, sourceIDs(sim))

	last := sim.Waves[3].Sources[0].Casts[0]
	assert.False(t, last.Hit, "the start cell is already gone")
	assert.Equal(t, -1, last.To)
	assert.Equal(t, []Point{{0, 0}}, last.Ray)
}

func TestSimulateChainWithDeadEndRay(t *testing.T) {
	layout := layoutOf(1, 3, map[Point][]Direction{
		{0, 0}: {E},
		{0, 1}: {E},
		{0, 2}: {W},
	})

	sim := Simulate(layout, 0)

	assert.True(t, sim.Success)
	assert.Equal(t, [][]int{{0}, {1}, {2}}, sourceIDs(sim))

	first := sim.Waves[0].Sources[0].Casts[0]
	assert.True(t, first.Hit)
	assert.Equal(t, 1, first.To)
	assert.Equal(t, []Point{{0, 1}}, first.Ray)

	back := sim.Waves[2].Sources[0].Casts[0]
	assert.False(t, back.Hit)
	assert.Equal(t, []Point{{0, 1}, {0, 0}}, back.Ray)
}

func TestSimulateDeadEnd(t *testing.T) {
	layout := layoutOf(1, 3, map[Point][]Direction{
		{0, 0}: {W},
		{0, 1}: {E},
		{0, 2}: {W},
	})

	sim := Simulate(layout, 0)

	assert.False(t, sim.Success)
	assert.Equal(t, 2, sim.Remaining)
	require.Len(t, sim.Waves, 1)
	assert.Empty(t, sim.Waves[0].Hits())
	assert.Empty(t, sim.Waves[0].Sources[0].Casts[0].Ray)
}

func TestSimulateSameWaveBlocksAreInvisible(t *testing.T) {
	// 0 and 2 vanish together; 0's ray must fly over 2 and reach 3
	layout := layoutOf(1, 4, map[Point][]Direction{
		{0, 0}: {E},
		{0, 1}: {W, E},
		{0, 2}: {W},
		{0, 3}: {W},
	})

	sim := Simulate(layout, 1)

	assert.True(t, sim.Success)
	assert.Equal(t, [][]int{{1}, {0, 2}, {3}}, sourceIDs(sim))

	fromZero := sim.Waves[1].Sources[0].Casts[0]
	assert.Equal(t, 3, fromZero.To)
	assert.Equal(t, []Point{{0, 1}, {0, 2}, {0, 3}}, fromZero.Ray)

	fromTwo := sim.Waves[1].Sources[1].Casts[0]
	assert.False(t, fromTwo.Hit)
}

func TestSimulateConvergingHitsVanishOnce(t *testing.T) {
	layout := layoutOf(1, 4, map[Point][]Direction{
		{0, 0}: {E},
		{0, 1}: {W, E},
		{0, 2}: {E},
		{0, 3}: {W},
	})

	sim := Simulate(layout, 1)

	assert.True(t, sim.Success)
	assert.Equal(t, [][]int{{1}, {0, 2}, {3}}, sourceIDs(sim))
	assert.Equal(t, []int{3}, sim.Waves[1].Hits())
}

func TestSimulateUnknownStart(t *testing.T) {
	layout := layoutOf(1, 2, map[Point][]Direction{
		{0, 0}: {E},
		{0, 1}: {W},
	})

	for _, id := range []int{-1, 2, 100} {
		sim := Simulate(layout, id)
		assert.Empty(t, sim.Waves)
		assert.False(t, sim.Success)
		assert.Equal(t, 2, sim.Remaining)
	}
}

func TestSimulateDoesNotMutateLayout(t *testing.T) {
	p := NewPuzzle(Hard, 7, 1)
	before, err := p.Bytes()
	require.NoError(t, err)

	for _, id := range p.Layout.IDs() {
		Simulate(p.Layout, id)
	}

	after, err := p.Bytes()
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestSimulateIsDeterministic(t *testing.T) {
	p := NewPuzzle(Expert, 42, 3)
	for _, id := range p.Layout.IDs() {
		assert.Equal(t, Simulate(p.Layout, id), Simulate(p.Layout, id))
	}
}

func TestWaveInvariants(t *testing.T) {
	for _, d := range Difficulties {
		p := NewPuzzle(d, 99, 0)
		for _, id := range p.Layout.IDs() {
			sim := Simulate(p.Layout, id)
			gone := make(map[int]bool)
			expected := []int{id}
			for i, w := range sim.Waves {
				assert.Equal(t, expected, w.SourceIDs(), "%s start %d wave %d", d, id, i)
				for _, src := range w.Sources {
					assert.False(t, gone[src.From], "block %d vanished twice", src.From)
					gone[src.From] = true
				}
				for _, src := range w.Sources {
					for _, c := range src.Casts {
						if c.Hit {
							assert.False(t, gone[c.To], "ray hit vanished block %d", c.To)
						}
					}
				}
				expected = w.Hits()
			}
			assert.Empty(t, expected, "simulation stopped with a pending frontier")
			assert.Equal(t, sim.Success, len(gone) == p.Layout.Len())
		}
	}
}

func TestWinners(t *testing.T) {
	layout := layoutOf(1, 3, map[Point][]Direction{
		{0, 0}: {E},
		{0, 1}: {E},
		{0, 2}: {W},
	})
	// from 1 the chain bounces back off 2 to 0; from 2 it stops at 1
	assert.Equal(t, []int{0, 1}, Winners(layout))
}
