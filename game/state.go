// Package game defines the per-turn grid snapshot for the territory game.
//
// A Grid is built fresh from the referee input every turn. The move planner
// works on a Clone so it can claim cells without disturbing the snapshot the
// build and spawn planners read.
package game

import "fmt"

// Owner identifies who controls a cell. Values match the referee protocol.
type Owner int8

const (
	Neutral Owner = -1
	Foe     Owner = 0
	Mine    Owner = 1
)

func (o Owner) String() string {
	switch o {
	case Mine:
		return "mine"
	case Foe:
		return "foe"
	case Neutral:
		return "neutral"
	default:
		return fmt.Sprintf("owner(%d)", int8(o))
	}
}

// Valid reports whether o is one of the three protocol owners.
func (o Owner) Valid() bool {
	return o == Mine || o == Foe || o == Neutral
}

// Point is a board coordinate. X is the column, Y is the row; (0,0) is the
// top-left cell and rows grow downwards.
type Point struct {
	X int
	Y int
}

func (p Point) String() string {
	return fmt.Sprintf("(%d,%d)", p.X, p.Y)
}

// Manhattan returns the 4-neighbour distance between p and q.
func (p Point) Manhattan(q Point) int {
	return abs(p.X-q.X) + abs(p.Y-q.Y)
}

// Cell is the state of a single board square for one turn.
type Cell struct {
	Scrap            int // terrain value, 0 means grass (impassable)
	Owner            Owner
	Units            int
	Recycler         bool
	CanBuild         bool
	CanSpawn         bool
	InRangeOfRecycle bool
}

// Movable reports whether units can stand on the cell this turn and next:
// it has scrap, no recycler, and will not be eaten down to grass by an
// adjacent recycler.
func (c Cell) Movable() bool {
	if c.Scrap == 0 || c.Recycler {
		return false
	}
	return !c.InRangeOfRecycle || c.Scrap > 1
}

// Grid is the full board snapshot for one turn.
type Grid struct {
	Width     int
	Height    int
	MyMatter  int
	OppMatter int
	Cells     []Cell // row-major: Cells[y*Width + x]
}

// NewGrid allocates an all-grass grid of the given size.
func NewGrid(width, height int) *Grid {
	return &Grid{
		Width:  width,
		Height: height,
		Cells:  make([]Cell, width*height),
	}
}

// InBounds reports whether p lies on the board.
func (g *Grid) InBounds(p Point) bool {
	return p.X >= 0 && p.X < g.Width && p.Y >= 0 && p.Y < g.Height
}

// At returns the cell at p. p must be in bounds.
func (g *Grid) At(p Point) Cell {
	return g.Cells[p.Y*g.Width+p.X]
}

// Set overwrites the cell at p. p must be in bounds.
func (g *Grid) Set(p Point, c Cell) {
	g.Cells[p.Y*g.Width+p.X] = c
}

// Claim marks p as owned by us. Used by the move planner on its working copy.
func (g *Grid) Claim(p Point) {
	g.Cells[p.Y*g.Width+p.X].Owner = Mine
}

// IsMovable reports whether p is on the board and movable.
func (g *Grid) IsMovable(p Point) bool {
	return g.InBounds(p) && g.At(p).Movable()
}

// Clone performs a deep copy of the grid.
func (g *Grid) Clone() *Grid {
	if g == nil {
		return nil
	}
	out := &Grid{
		Width:     g.Width,
		Height:    g.Height,
		MyMatter:  g.MyMatter,
		OppMatter: g.OppMatter,
	}
	if len(g.Cells) > 0 {
		out.Cells = make([]Cell, len(g.Cells))
		copy(out.Cells, g.Cells)
	}
	return out
}

// Units returns one entry per unit owned by owner, scanning row-major.
// A cell holding three units appears three times.
func (g *Grid) Units(owner Owner) []Point {
	var out []Point
	for y := 0; y < g.Height; y++ {
		for x := 0; x < g.Width; x++ {
			c := g.Cells[y*g.Width+x]
			if c.Owner != owner {
				continue
			}
			for i := 0; i < c.Units; i++ {
				out = append(out, Point{X: x, Y: y})
			}
		}
	}
	return out
}

// Candidates returns the cells for which keep returns true, scanning row-major.
func (g *Grid) Candidates(keep func(Cell) bool) []Point {
	var out []Point
	for y := 0; y < g.Height; y++ {
		for x := 0; x < g.Width; x++ {
			if keep(g.Cells[y*g.Width+x]) {
				out = append(out, Point{X: x, Y: y})
			}
		}
	}
	return out
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
