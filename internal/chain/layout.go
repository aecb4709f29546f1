package chain

import (
	"fmt"
	"slices"
	"strings"
)

// Block is a single grid occupant. Dirs order is cosmetic only.
type Block struct {
	ID   int         `json:"id"`
	Row  int         `json:"row"`
	Col  int         `json:"col"`
	Dirs []Direction `json:"dirs"`
}

func (b Block) Point() Point {
	return Point{b.Row, b.Col}
}

// Layout is the immutable definition of a puzzle: one block per cell.
type Layout struct {
	Grid
	Blocks []Block `json:"blocks"`
}

// Profile controls how a growth tree is turned into arrows.
type Profile struct {
	Grid
	MaxOutDegree    int     `json:"max_out_degree"`
	MaxDirs         int     `json:"max_dirs"`
	ExtraDirChance  float64 `json:"extra_dir_chance"`
	LeafDecoyChance float64 `json:"leaf_decoy_chance"`
}

// buildLayout emits one block per cell. Block ids are the cells' row-major keys.
func buildLayout(tree *GrowthTree, profile Profile, rng RNG) *Layout {
	grid := tree.Grid
	layout := &Layout{
		Grid:   grid,
		Blocks: make([]Block, grid.Size()),
	}

	around := make([]Direction, 0, directionCount)
	candidates := make([]Direction, 0, directionCount)

	for key := range layout.Blocks {
		p := grid.PointOf(key)
		dirs := make([]Direction, 0, max(profile.MaxDirs, 1))

		for _, child := range tree.Children[key] {
			if d, ok := directionBetween(p, grid.PointOf(child)); ok {
				dirs = append(dirs, d)
			}
		}

		around = grid.neighborDirs(around[:0], p)
		if len(around) == 0 {
			// a 1x1 board has no neighbors; any arrow will leave the grid
			around = append(around, Directions[:]...)
		}

		/* noise arrow */
		if len(dirs) < profile.MaxDirs && chance(rng, profile.ExtraDirChance) {
			candidates = candidates[:0]
			for _, d := range around {
				if !slices.Contains(dirs, d) {
					candidates = append(candidates, d)
				}
			}
			if len(candidates) > 0 {
				dirs = append(dirs, candidates[randIntN(rng, len(candidates))])
			}
		}

		/*
			leaf decoy, forced when the cell would stay empty. The roll is still
			drawn so every seed consumes the stream at the same positions; its
			outcome cannot matter since an empty cell always gets its decoy.
		*/
		if len(dirs) == 0 {
			_ = chance(rng, profile.LeafDecoyChance)
			dirs = append(dirs, around[randIntN(rng, len(around))])
		}

		shuffle(rng, dirs)

		layout.Blocks[key] = Block{
			ID:   key,
			Row:  p.Row,
			Col:  p.Col,
			Dirs: dirs,
		}
	}

	return layout
}

// serpentineLayout is always structurally valid and solvable from block 0:
// every cell points to the next cell of a boustrophedon walk and the last cell
// points back to its predecessor.
func serpentineLayout(grid Grid) *Layout {
	size := grid.Size()
	order := make([]Point, 0, size)
	for row := range grid.Rows {
		for i := range grid.Cols {
			col := i
			if row%2 == 1 {
				col = grid.Cols - 1 - i
			}
			order = append(order, Point{row, col})
		}
	}

	layout := &Layout{Grid: grid, Blocks: make([]Block, size)}
	for i, p := range order {
		var d Direction
		switch {
		case i+1 < len(order):
			d, _ = directionBetween(p, order[i+1])
		case i > 0:
			d = layout.Blocks[grid.Key(order[i-1])].Dirs[0].Opposite()
		default:
			d = N
		}
		key := grid.Key(p)
		layout.Blocks[key] = Block{ID: key, Row: p.Row, Col: p.Col, Dirs: []Direction{d}}
	}
	return layout
}

func (l *Layout) Len() int {
	return len(l.Blocks)
}

// IDs returns the ids of every block in layout order.
func (l *Layout) IDs() []int {
	ids := make([]int, len(l.Blocks))
	for i, b := range l.Blocks {
		ids[i] = b.ID
	}
	return ids
}

// Block looks a block up by id.
func (l *Layout) Block(id int) (Block, bool) {
	if 0 <= id && id < len(l.Blocks) && l.Blocks[id].ID == id {
		return l.Blocks[id], true
	}
	for _, b := range l.Blocks {
		if b.ID == id {
			return b, true
		}
	}
	return Block{}, false
}

// Validate checks the structural invariants of a layout.
func (l *Layout) Validate() error {
	if l.Rows < 1 || l.Cols < 1 {
		return fmt.Errorf("%w: %dx%d", ErrBadDimensions, l.Rows, l.Cols)
	}
	if len(l.Blocks) != l.Size() {
		return fmt.Errorf("%w: have %d blocks, want %d", ErrBadLayout, len(l.Blocks), l.Size())
	}
	ids := make(map[int]struct{}, len(l.Blocks))
	cells := make([]bool, l.Size())
	for _, b := range l.Blocks {
		if _, dup := ids[b.ID]; dup {
			return fmt.Errorf("%w: duplicate block id %d", ErrBadLayout, b.ID)
		}
		ids[b.ID] = struct{}{}

		p := b.Point()
		if !l.InBounds(p) {
			return fmt.Errorf("%w: block %d out of bounds at %s", ErrBadLayout, b.ID, p)
		}
		if cells[l.Key(p)] {
			return fmt.Errorf("%w: cell %s occupied twice", ErrBadLayout, p)
		}
		cells[l.Key(p)] = true

		if len(b.Dirs) == 0 {
			return fmt.Errorf("%w: block %d has no arrows", ErrBadLayout, b.ID)
		}
		var seen [directionCount]bool
		for _, d := range b.Dirs {
			if !d.Valid() || seen[d] {
				return fmt.Errorf("%w: block %d has bad arrow %s", ErrBadLayout, b.ID, d)
			}
			seen[d] = true
		}
	}
	return nil
}

// [Layout] implements [fmt.Stringer]. Each cell is rendered as its arrows.
func (l Layout) String() string {
	width := 1
	for _, b := range l.Blocks {
		width = max(width, len(b.Dirs))
	}
	cells := make([]string, l.Size())
	for _, b := range l.Blocks {
		if !l.InBounds(b.Point()) {
			continue
		}
		var sb strings.Builder
		for _, d := range b.Dirs {
			sb.WriteRune(d.Arrow())
		}
		cells[l.Key(b.Point())] = sb.String()
	}
	var sb strings.Builder
	for row := range l.Rows {
		for col := range l.Cols {
			if col > 0 {
				sb.WriteByte(' ')
			}
			cell := cells[row*l.Cols+col]
			sb.WriteString(cell)
			sb.WriteString(strings.Repeat(".", width-len([]rune(cell))))
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
