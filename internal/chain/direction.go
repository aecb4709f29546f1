package chain

import (
	"fmt"
	"strings"
)

// Direction is one of the eight compass directions an arrow can point to.
type Direction uint8

const (
	N Direction = iota
	NE
	E
	SE
	S
	SW
	W
	NW
	directionCount
)

// Directions lists every direction in clockwise order starting from north.
var Directions = [directionCount]Direction{N, NE, E, SE, S, SW, W, NW}

var directionVectors = [directionCount]Point{
	N:  {-1, 0},
	NE: {-1, 1},
	E:  {0, 1},
	SE: {1, 1},
	S:  {1, 0},
	SW: {1, -1},
	W:  {0, -1},
	NW: {-1, -1},
}

var directionNames = [directionCount]string{"N", "NE", "E", "SE", "S", "SW", "W", "NW"}

var directionArrows = [directionCount]rune{'↑', '↗', '→', '↘', '↓', '↙', '←', '↖'}

func (d Direction) Valid() bool {
	return d < directionCount
}

// Vector returns the row/col step of d.
func (d Direction) Vector() Point {
	return directionVectors[d]
}

func (d Direction) Opposite() Direction {
	return (d + 4) % directionCount
}

func (d Direction) Arrow() rune {
	if !d.Valid() {
		return '?'
	}
	return directionArrows[d]
}

// [Direction] implements [fmt.Stringer]
func (d Direction) String() string {
	if !d.Valid() {
		return fmt.Sprintf("Direction(%d)", uint8(d))
	}
	return directionNames[d]
}

func ParseDirection(s string) (Direction, error) {
	for i, name := range directionNames {
		if strings.EqualFold(name, s) {
			return Direction(i), nil
		}
	}
	return 0, fmt.Errorf("unknown direction %q", s)
}

// [Direction] implements [encoding.TextMarshaler]
func (d Direction) MarshalText() ([]byte, error) {
	if !d.Valid() {
		return nil, fmt.Errorf("invalid direction %d", uint8(d))
	}
	return []byte(d.String()), nil
}

func (d *Direction) UnmarshalText(text []byte) error {
	v, err := ParseDirection(string(text))
	if err != nil {
		return err
	}
	*d = v
	return nil
}

// directionBetween returns the direction leading from a to the 8-adjacent b.
func directionBetween(a, b Point) (Direction, bool) {
	delta := Point{b.Row - a.Row, b.Col - a.Col}
	for _, d := range Directions {
		if directionVectors[d] == delta {
			return d, true
		}
	}
	return 0, false
}
