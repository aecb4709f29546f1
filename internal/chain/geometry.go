package chain

import "fmt"

type Point struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// [Point] implements [fmt.Stringer]
func (p Point) String() string {
	return fmt.Sprintf("%d:%d", p.Row, p.Col)
}

func (p Point) Add(q Point) Point {
	return Point{p.Row + q.Row, p.Col + q.Col}
}

// Step moves p one cell in direction d.
func (p Point) Step(d Direction) Point {
	return p.Add(d.Vector())
}

// Grid describes the dimensions of a rectangular board.
type Grid struct {
	Rows int `json:"rows"`
	Cols int `json:"cols"`
}

func (g Grid) Size() int {
	return g.Rows * g.Cols
}

func (g Grid) InBounds(p Point) bool {
	return 0 <= p.Row && p.Row < g.Rows && 0 <= p.Col && p.Col < g.Cols
}

// Key is the row-major cell index of p. p must be in bounds.
func (g Grid) Key(p Point) int {
	return p.Row*g.Cols + p.Col
}

func (g Grid) PointOf(key int) Point {
	return Point{key / g.Cols, key % g.Cols}
}

// neighborDirs appends to dst every direction whose adjacent cell is inside g.
func (g Grid) neighborDirs(dst []Direction, p Point) []Direction {
	for _, d := range Directions {
		if g.InBounds(p.Step(d)) {
			dst = append(dst, d)
		}
	}
	return dst
}
