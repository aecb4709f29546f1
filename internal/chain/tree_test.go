package chain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGrowTreeSpansGrid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		grid      Grid
		outDegree int
	}{
		{"1x1", Grid{1, 1}, 2},
		{"1x6", Grid{1, 6}, 1},
		{"5x5", Grid{5, 5}, 2},
		{"9x9", Grid{9, 9}, 2},
		{"4x7", Grid{4, 7}, 3},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			rng := NewXorshift32(1)
			grown := 0
			for range 50 {
				tree, ok := growTree(test.grid, test.outDegree, rng)
				if !ok {
					continue
				}
				grown++

				assert.Equal(t, -1, tree.Parent[tree.Root])
				for key := range test.grid.Size() {
					assert.LessOrEqual(t, len(tree.Children[key]), test.outDegree)
					if key == tree.Root {
						continue
					}
					parent := tree.Parent[key]
					require.GreaterOrEqual(t, parent, 0, "cell %d is not attached", key)
					_, adjacent := directionBetween(test.grid.PointOf(parent), test.grid.PointOf(key))
					assert.True(t, adjacent, "edge %d->%d is not 8-adjacent", parent, key)
					assert.Contains(t, tree.Children[parent], key)
					assert.Less(t, tree.depth(key), test.grid.Size())
				}
			}
			assert.Positive(t, grown, "no tree grown in 50 attempts")
		})
	}
}

func TestGrowTreeCanFail(t *testing.T) {
	// a path through a 3x3 grid started in the middle with out-degree 1
	// dead-ends often enough that some attempt fails
	rng := NewXorshift32(5)
	failed := false
	for range 200 {
		if _, ok := growTree(Grid{3, 3}, 1, rng); !ok {
			failed = true
			break
		}
	}
	assert.True(t, failed)
}

func TestGrowTreeRejectsZeroDegree(t *testing.T) {
	_, ok := growTree(Grid{2, 2}, 0, NewXorshift32(1))
	assert.False(t, ok)

	tree, ok := growTree(Grid{1, 1}, 0, NewXorshift32(1))
	require.True(t, ok)
	assert.Equal(t, 0, tree.Root)
}

func (t *GrowthTree) depth(key int) int {
	depth := 0
	for t.Parent[key] >= 0 {
		key = t.Parent[key]
		depth++
	}
	return depth
}
