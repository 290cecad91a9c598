// Package gametest builds small boards for tests from ASCII art.
package gametest

import (
	"fmt"
	"strings"

	"github.com/brensch/offgrass/game"
)

// Board builds a grid from rows of single-character cells:
//
//	#  grass (scrap 0)
//	.  neutral
//	m  mine, no units      M  mine, one unit
//	f  foe, no units       F  foe, one unit
//	R  my recycler         r  foe recycler
//
// Every non-grass cell gets the given scrap. Referee-derived flags are filled
// in the way the referee would: cells orthogonally next to a recycler are in
// range, our empty cells can build and our non-recycler cells can spawn.
func Board(scrap int, rows ...string) *game.Grid {
	if len(rows) == 0 {
		panic("gametest: no rows")
	}
	g := game.NewGrid(len(rows[0]), len(rows))
	for y, row := range rows {
		if len(row) != g.Width {
			panic(fmt.Sprintf("gametest: row %d has width %d, want %d", y, len(row), g.Width))
		}
		for x, ch := range row {
			c := game.Cell{Scrap: scrap, Owner: game.Neutral}
			switch ch {
			case '#':
				c.Scrap = 0
			case '.':
			case 'm':
				c.Owner = game.Mine
			case 'M':
				c.Owner, c.Units = game.Mine, 1
			case 'f':
				c.Owner = game.Foe
			case 'F':
				c.Owner, c.Units = game.Foe, 1
			case 'R':
				c.Owner, c.Recycler = game.Mine, true
			case 'r':
				c.Owner, c.Recycler = game.Foe, true
			default:
				panic(fmt.Sprintf("gametest: unknown cell %q", ch))
			}
			g.Set(game.Point{X: x, Y: y}, c)
		}
	}
	Refresh(g)
	return g
}

// Refresh recomputes the referee-derived flags after a test edits cells.
func Refresh(g *game.Grid) {
	for y := 0; y < g.Height; y++ {
		for x := 0; x < g.Width; x++ {
			p := game.Point{X: x, Y: y}
			c := g.At(p)
			c.InRangeOfRecycle = false
			for _, n := range g.Neighbors(p, game.Bias{}, false) {
				if g.At(n).Recycler {
					c.InRangeOfRecycle = true
				}
			}
			c.CanBuild = c.Owner == game.Mine && c.Units == 0 && !c.Recycler
			c.CanSpawn = c.Owner == game.Mine && !c.Recycler
			g.Set(p, c)
		}
	}
}

// Dump renders g one row per line using the Board legend, with digits for
// stacks of more than one unit.
func Dump(g *game.Grid) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Size=%dx%d Matter=%d/%d\n", g.Width, g.Height, g.MyMatter, g.OppMatter)
	for y := 0; y < g.Height; y++ {
		for x := 0; x < g.Width; x++ {
			c := g.At(game.Point{X: x, Y: y})
			b.WriteByte(symbol(c))
		}
		b.WriteByte('\n')
	}
	return b.String()
}

func symbol(c game.Cell) byte {
	switch {
	case c.Scrap == 0:
		return '#'
	case c.Recycler && c.Owner == game.Foe:
		return 'r'
	case c.Recycler:
		return 'R'
	case c.Units > 1:
		if c.Units > 9 {
			return '9'
		}
		return byte('0' + c.Units)
	case c.Owner == game.Mine && c.Units == 1:
		return 'M'
	case c.Owner == game.Mine:
		return 'm'
	case c.Owner == game.Foe && c.Units == 1:
		return 'F'
	case c.Owner == game.Foe:
		return 'f'
	default:
		return '.'
	}
}
