package chain

// GrowthTree is a spanning tree over every cell of a grid. Cells are
// identified by their row-major key.
type GrowthTree struct {
	Grid
	Root     int
	Parent   []int // -1 for the root
	Children [][]int
}

/*
growTree attaches cells one at a time to a random in-tree parent that is
still under maxOutDegree and has an unassigned 8-adjacent neighbor. There is
no backtracking: when no such parent exists the attempt is abandoned and ok
is false, the caller is expected to try again with fresh randomness.
*/
func growTree(grid Grid, maxOutDegree int, rng RNG) (tree *GrowthTree, ok bool) {
	size := grid.Size()
	if size == 0 || maxOutDegree < 1 && size > 1 {
		return nil, false
	}

	tree = &GrowthTree{
		Grid:     grid,
		Root:     randIntN(rng, size),
		Parent:   make([]int, size),
		Children: make([][]int, size),
	}
	assigned := make([]bool, size)
	for i := range tree.Parent {
		tree.Parent[i] = -1
	}
	assigned[tree.Root] = true
	members := []int{tree.Root}

	free := make([]int, 0, 8)
	eligible := make([]int, 0, size)

	for len(members) < size {
		eligible = eligible[:0]
		for _, key := range members {
			if len(tree.Children[key]) >= maxOutDegree {
				continue
			}
			if len(unassignedAround(grid, assigned, key, free[:0])) > 0 {
				eligible = append(eligible, key)
			}
		}
		if len(eligible) == 0 {
			return nil, false
		}

		parent := eligible[randIntN(rng, len(eligible))]
		free = unassignedAround(grid, assigned, parent, free[:0])
		child := free[randIntN(rng, len(free))]

		assigned[child] = true
		tree.Parent[child] = parent
		tree.Children[parent] = append(tree.Children[parent], child)
		members = append(members, child)
	}

	return tree, true
}

func unassignedAround(grid Grid, assigned []bool, key int, dst []int) []int {
	p := grid.PointOf(key)
	for _, d := range Directions {
		q := p.Step(d)
		if grid.InBounds(q) && !assigned[grid.Key(q)] {
			dst = append(dst, grid.Key(q))
		}
	}
	return dst
}
