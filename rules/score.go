package rules

import (
	"github.com/brensch/offgrass/game"
)

const (
	orthogonalWeight = 2
	diagonalWeight   = 1
)

// OwnedBy returns a cell predicate matching owner o.
func OwnedBy(o game.Owner) func(game.Cell) bool {
	return func(c game.Cell) bool { return c.Owner == o }
}

// NeighborhoodScore weighs the movable cells around p that satisfy pred.
// Orthogonal neighbours count 2, diagonal neighbours count 1. A diagonal is
// only considered when one of p's movable orthogonal neighbours touches it,
// since anything standing there needs that cell to step towards p.
//
// Movability is evaluated against g as passed, not a cached set.
// The result lies in [0, 12].
func NeighborhoodScore(g *game.Grid, b game.Bias, p game.Point, pred func(game.Cell) bool) int {
	ortho := MovableNeighbors(g, b, p)
	score := 0
	for _, n := range ortho {
		if pred(g.At(n)) {
			score += orthogonalWeight
		}
	}
	for _, d := range b.Diagonal() {
		n := game.Point{X: p.X + d.X, Y: p.Y + d.Y}
		if !g.IsMovable(n) || !touchesAny(n, ortho) {
			continue
		}
		if pred(g.At(n)) {
			score += diagonalWeight
		}
	}
	return score
}

func touchesAny(p game.Point, cells []game.Point) bool {
	for _, c := range cells {
		if p.Manhattan(c) == 1 {
			return true
		}
	}
	return false
}
