package game

import (
	"errors"
	"fmt"
)

// ErrNoUnits is returned when the attack bias is requested before both sides
// have units on the board. Callers treat it as fatal.
var ErrNoUnits = errors.New("bias needs at least one friendly and one enemy unit")

// Bias is the match-long attack direction. It fixes the order in which
// neighbours are visited so that every BFS prefers stepping towards the enemy.
type Bias struct {
	TowardHighCol bool // enemy lies to the right
	TowardHighRow bool // enemy lies below
}

func (b Bias) String() string {
	h, v := "left", "up"
	if b.TowardHighCol {
		h = "right"
	}
	if b.TowardHighRow {
		v = "down"
	}
	return h + "/" + v
}

// ComputeBias derives the attack direction from the centroids of our units
// and the enemy's. Centroids use integer truncation. The vertical direction
// depends only on which half of the board our centroid sits in.
func ComputeBias(friendly, enemy []Point, height int) (Bias, error) {
	if len(friendly) == 0 || len(enemy) == 0 {
		return Bias{}, fmt.Errorf("compute bias (friendly=%d enemy=%d): %w", len(friendly), len(enemy), ErrNoUnits)
	}
	mine := centroid(friendly)
	theirs := centroid(enemy)
	return Bias{
		TowardHighCol: mine.X < theirs.X,
		TowardHighRow: 2*mine.Y < height,
	}, nil
}

func centroid(ps []Point) Point {
	var sx, sy int
	for _, p := range ps {
		sx += p.X
		sy += p.Y
	}
	return Point{X: sx / len(ps), Y: sy / len(ps)}
}

// steps returns the column and row unit steps pointing towards the enemy.
func (b Bias) steps() (dx, dy int) {
	dx, dy = -1, -1
	if b.TowardHighCol {
		dx = 1
	}
	if b.TowardHighRow {
		dy = 1
	}
	return dx, dy
}

// Orthogonal returns the four orthogonal offsets in visiting order:
// towards-enemy column, towards-enemy row, away column, away row.
func (b Bias) Orthogonal() [4]Point {
	dx, dy := b.steps()
	return [4]Point{{X: dx}, {Y: dy}, {X: -dx}, {Y: -dy}}
}

// Diagonal returns the four diagonal offsets, most enemy-facing first.
func (b Bias) Diagonal() [4]Point {
	dx, dy := b.steps()
	return [4]Point{{X: dx, Y: dy}, {X: -dx, Y: dy}, {X: dx, Y: -dy}, {X: -dx, Y: -dy}}
}

// Neighbors returns the in-bounds neighbours of p in bias order. Diagonal
// neighbours, when requested, follow the orthogonal ones.
func (g *Grid) Neighbors(p Point, b Bias, diagonals bool) []Point {
	out := make([]Point, 0, 8)
	for _, d := range b.Orthogonal() {
		if n := (Point{X: p.X + d.X, Y: p.Y + d.Y}); g.InBounds(n) {
			out = append(out, n)
		}
	}
	if !diagonals {
		return out
	}
	for _, d := range b.Diagonal() {
		if n := (Point{X: p.X + d.X, Y: p.Y + d.Y}); g.InBounds(n) {
			out = append(out, n)
		}
	}
	return out
}
