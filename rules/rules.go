// Package rules holds the board traversal primitives the planners build on:
// movable-neighbour enumeration, breadth-first reachability, path extraction
// and the neighbourhood threat score.
package rules

import (
	"github.com/brensch/offgrass/game"
)

const (
	unvisited = -1
	noPred    = -2
)

// MovableNeighbors returns the orthogonal neighbours of p that units can
// step onto, in bias order. Units never move diagonally.
func MovableNeighbors(g *game.Grid, b game.Bias, p game.Point) []game.Point {
	out := make([]game.Point, 0, 4)
	for _, d := range b.Orthogonal() {
		n := game.Point{X: p.X + d.X, Y: p.Y + d.Y}
		if g.IsMovable(n) {
			out = append(out, n)
		}
	}
	return out
}

// Reach is a BFS predecessor map rooted at Start.
//
// Order lists every discovered cell in discovery order, beginning with Start.
// Because neighbours are visited in bias order, Order is deterministic for a
// given grid and bias.
type Reach struct {
	Start game.Point
	Order []game.Point

	width  int
	height int
	prev   []int // flat index of predecessor, unvisited or noPred
	depth  []int
}

func newReach(g *game.Grid, start game.Point) *Reach {
	n := g.Width * g.Height
	r := &Reach{
		Start:  start,
		Order:  make([]game.Point, 0, 16),
		width:  g.Width,
		height: g.Height,
		prev:   make([]int, n),
		depth:  make([]int, n),
	}
	for i := range r.prev {
		r.prev[i] = unvisited
	}
	return r
}

func (r *Reach) index(p game.Point) int {
	return p.Y*r.width + p.X
}

func (r *Reach) point(i int) game.Point {
	return game.Point{X: i % r.width, Y: i / r.width}
}

func (r *Reach) discover(p game.Point, from int, depth int) {
	i := r.index(p)
	r.prev[i] = from
	r.depth[i] = depth
	r.Order = append(r.Order, p)
}

// Contains reports whether p was discovered.
func (r *Reach) Contains(p game.Point) bool {
	if p.X < 0 || p.X >= r.width || p.Y < 0 || p.Y >= r.height {
		return false
	}
	return r.prev[r.index(p)] != unvisited
}

// Prev returns the BFS predecessor of p. ok is false for the start cell and
// for cells that were never discovered.
func (r *Reach) Prev(p game.Point) (prev game.Point, ok bool) {
	if !r.Contains(p) {
		return game.Point{}, false
	}
	i := r.prev[r.index(p)]
	if i == noPred {
		return game.Point{}, false
	}
	return r.point(i), true
}

// Depth returns the number of steps from Start to p, or -1 if p was not
// discovered.
func (r *Reach) Depth(p game.Point) int {
	if !r.Contains(p) {
		return -1
	}
	return r.depth[r.index(p)]
}

// Len returns the number of discovered cells, including Start.
func (r *Reach) Len() int {
	return len(r.Order)
}

// FullReach expands the whole movable component around start. The start cell
// itself is not checked for movability, only the cells expanded into.
func FullReach(g *game.Grid, b game.Bias, start game.Point) *Reach {
	_, r := bfs(g, b, start, nil)
	return r
}

// ReachUntilForeign runs the same traversal as FullReach but stops as soon as
// it discovers a cell we do not own. The returned map is partial: it holds
// valid predecessors for everything discovered so far, including the foreign
// cell, but is not the full component.
func ReachUntilForeign(g *game.Grid, b game.Bias, start game.Point) (bool, *Reach) {
	return bfs(g, b, start, func(c game.Cell) bool { return c.Owner != game.Mine })
}

func bfs(g *game.Grid, b game.Bias, start game.Point, stop func(game.Cell) bool) (bool, *Reach) {
	r := newReach(g, start)
	if !g.InBounds(start) {
		return false, r
	}
	r.discover(start, noPred, 0)

	// Order doubles as the FIFO queue.
	for head := 0; head < len(r.Order); head++ {
		cur := r.Order[head]
		ci := r.index(cur)
		for _, n := range MovableNeighbors(g, b, cur) {
			if r.prev[r.index(n)] != unvisited {
				continue
			}
			r.discover(n, ci, r.depth[ci]+1)
			if stop != nil && stop(g.At(n)) {
				return true, r
			}
		}
	}
	return false, r
}

// ExtractPath walks predecessors from goal back to start and returns the
// forward path without start. It returns nil when goal was not reached or is
// start itself; neither is an error.
func ExtractPath(start, goal game.Point, r *Reach) []game.Point {
	if r == nil || !r.Contains(goal) {
		return nil
	}
	var path []game.Point
	for cur := goal; cur != start; {
		path = append(path, cur)
		prev, ok := r.Prev(cur)
		if !ok {
			// Walked back to a different root than start.
			return nil
		}
		cur = prev
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}
