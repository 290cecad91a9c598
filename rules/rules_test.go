package rules

import (
	"math/rand"
	"testing"

	"github.com/brensch/offgrass/game"
	"github.com/brensch/offgrass/game/gametest"
)

var allBiases = []game.Bias{
	{TowardHighCol: true, TowardHighRow: true},
	{TowardHighCol: true, TowardHighRow: false},
	{TowardHighCol: false, TowardHighRow: true},
	{TowardHighCol: false, TowardHighRow: false},
}

func logBoard(t *testing.T, name string, g *game.Grid) {
	t.Helper()
	t.Logf("=== %s ===\n%s", name, gametest.Dump(g))
}

// randomGrid builds a board with roughly a quarter grass, a few recyclers and
// mixed ownership. The seed keeps failures reproducible.
func randomGrid(seed int64, w, h int) *game.Grid {
	rng := rand.New(rand.NewSource(seed))
	g := game.NewGrid(w, h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c := game.Cell{Scrap: 1 + rng.Intn(9), Owner: game.Owner(rng.Intn(3) - 1)}
			switch r := rng.Intn(20); {
			case r < 5:
				c.Scrap = 0
				c.Owner = game.Neutral
			case r == 5:
				c.Recycler = true
			}
			if c.Owner != game.Neutral && rng.Intn(3) == 0 {
				c.Units = 1 + rng.Intn(2)
			}
			g.Set(game.Point{X: x, Y: y}, c)
		}
	}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			p := game.Point{X: x, Y: y}
			c := g.At(p)
			for _, n := range g.Neighbors(p, game.Bias{}, false) {
				if g.At(n).Recycler {
					c.InRangeOfRecycle = true
				}
			}
			g.Set(p, c)
		}
	}
	return g
}

// component is an independent flood fill used as the reference answer.
func component(g *game.Grid, start game.Point) map[game.Point]bool {
	seen := map[game.Point]bool{start: true}
	stack := []game.Point{start}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, d := range []game.Point{{X: 1}, {X: -1}, {Y: 1}, {Y: -1}} {
			n := game.Point{X: cur.X + d.X, Y: cur.Y + d.Y}
			if !seen[n] && g.IsMovable(n) {
				seen[n] = true
				stack = append(stack, n)
			}
		}
	}
	return seen
}

func TestFullReach_Closure(t *testing.T) {
	for seed := int64(1); seed <= 20; seed++ {
		g := randomGrid(seed, 9, 6)
		bias := allBiases[seed%4]
		for y := 0; y < g.Height; y++ {
			for x := 0; x < g.Width; x++ {
				start := game.Point{X: x, Y: y}
				r := FullReach(g, bias, start)
				want := component(g, start)
				if r.Len() != len(want) {
					logBoard(t, "closure", g)
					t.Fatalf("seed=%d start=%v reach len=%d want=%d", seed, start, r.Len(), len(want))
				}
				for _, p := range r.Order {
					if !want[p] {
						t.Fatalf("seed=%d start=%v reached %v outside the movable component", seed, start, p)
					}
				}
				if r.Order[0] != start {
					t.Fatalf("seed=%d first discovered=%v want start %v", seed, r.Order[0], start)
				}
			}
		}
	}
}

func TestFullReach_DoesNotCrossDiagonals(t *testing.T) {
	g := gametest.Board(1,
		"M#",
		"#.",
	)
	r := FullReach(g, allBiases[0], game.Point{X: 0, Y: 0})
	if r.Contains(game.Point{X: 1, Y: 1}) {
		logBoard(t, "diagonal", g)
		t.Fatalf("diagonal cell reached through grass corners")
	}
	if r.Len() != 1 {
		t.Fatalf("reach len=%d want=1", r.Len())
	}
}

func TestFullReach_DiscoveryOrderFollowsBias(t *testing.T) {
	g := gametest.Board(1,
		"...",
		".M.",
		"...",
	)
	start := game.Point{X: 1, Y: 1}
	r := FullReach(g, game.Bias{TowardHighCol: true, TowardHighRow: false}, start)
	want := []game.Point{start, {X: 2, Y: 1}, {X: 1, Y: 0}, {X: 0, Y: 1}, {X: 1, Y: 2}}
	for i := range want {
		if r.Order[i] != want[i] {
			t.Fatalf("order=%v want prefix=%v", r.Order, want)
		}
	}
	// Repeating the traversal gives the same order.
	again := FullReach(g, game.Bias{TowardHighCol: true, TowardHighRow: false}, start)
	for i := range r.Order {
		if again.Order[i] != r.Order[i] {
			t.Fatalf("order not deterministic: %v vs %v", r.Order, again.Order)
		}
	}
}

func TestExtractPath_ConsistentWithPredecessors(t *testing.T) {
	for seed := int64(1); seed <= 20; seed++ {
		g := randomGrid(seed, 8, 8)
		bias := allBiases[(seed+1)%4]
		start := game.Point{X: int(seed) % g.Width, Y: int(seed*3) % g.Height}
		r := FullReach(g, bias, start)

		for y := 0; y < g.Height; y++ {
			for x := 0; x < g.Width; x++ {
				goal := game.Point{X: x, Y: y}
				path := ExtractPath(start, goal, r)

				if !r.Contains(goal) {
					if len(path) != 0 {
						t.Fatalf("seed=%d path to unreached %v = %v, want empty", seed, goal, path)
					}
					continue
				}
				if len(path) != r.Depth(goal) {
					t.Fatalf("seed=%d path len=%d want depth=%d (goal %v)", seed, len(path), r.Depth(goal), goal)
				}
				if goal == start {
					continue
				}
				if path[len(path)-1] != goal {
					t.Fatalf("seed=%d path ends at %v want %v", seed, path[len(path)-1], goal)
				}
				prev := start
				for _, p := range path {
					if prev.Manhattan(p) != 1 {
						t.Fatalf("seed=%d path step %v -> %v is not adjacent", seed, prev, p)
					}
					if !g.IsMovable(p) {
						t.Fatalf("seed=%d path crosses immovable %v", seed, p)
					}
					prev = p
				}
			}
		}
	}
}

func TestExtractPath_Unreachable(t *testing.T) {
	g := gametest.Board(1, "M#.")
	r := FullReach(g, allBiases[0], game.Point{X: 0, Y: 0})
	if path := ExtractPath(game.Point{X: 0, Y: 0}, game.Point{X: 2, Y: 0}, r); len(path) != 0 {
		t.Fatalf("path=%v want empty", path)
	}
	if path := ExtractPath(game.Point{X: 0, Y: 0}, game.Point{X: 9, Y: 9}, r); len(path) != 0 {
		t.Fatalf("out-of-bounds goal path=%v want empty", path)
	}
}

func TestReachUntilForeign_Soundness(t *testing.T) {
	for seed := int64(1); seed <= 30; seed++ {
		g := randomGrid(seed, 7, 7)
		bias := allBiases[seed%4]
		for y := 0; y < g.Height; y++ {
			for x := 0; x < g.Width; x++ {
				start := game.Point{X: x, Y: y}
				found, partial := ReachUntilForeign(g, bias, start)

				full := FullReach(g, bias, start)
				anyForeign := false
				for _, p := range full.Order[1:] {
					if g.At(p).Owner != game.Mine {
						anyForeign = true
						break
					}
				}

				if found {
					last := partial.Order[len(partial.Order)-1]
					if g.At(last).Owner == game.Mine {
						t.Fatalf("seed=%d start=%v found=true but last discovered %v is ours", seed, start, last)
					}
					if partial.Len() > full.Len() {
						t.Fatalf("seed=%d partial map larger than full", seed)
					}
					for i, p := range partial.Order {
						if full.Order[i] != p {
							t.Fatalf("seed=%d partial order diverges from full at %d", seed, i)
						}
					}
				}
				if found != anyForeign {
					logBoard(t, "soundness", g)
					t.Fatalf("seed=%d start=%v found=%v but full reach foreign=%v", seed, start, found, anyForeign)
				}
			}
		}
	}
}

func TestReachUntilForeign_StopsAtFirstForeign(t *testing.T) {
	g := gametest.Board(1, "mMm.f")
	found, r := ReachUntilForeign(g, allBiases[0], game.Point{X: 1, Y: 0})
	if !found {
		t.Fatalf("found=false want true")
	}
	if r.Contains(game.Point{X: 4, Y: 0}) {
		t.Fatalf("traversal continued past first foreign cell: %v", r.Order)
	}
	path := ExtractPath(game.Point{X: 1, Y: 0}, game.Point{X: 3, Y: 0}, r)
	if len(path) != 2 {
		t.Fatalf("path=%v want 2 steps", path)
	}
}

func TestNeighborhoodScore(t *testing.T) {
	bias := allBiases[0]
	tests := []struct {
		name string
		rows []string
		at   game.Point
		pred func(game.Cell) bool
		want int
	}{
		{
			name: "all eight foe",
			rows: []string{"fff", "fmf", "fff"},
			at:   game.Point{X: 1, Y: 1},
			pred: OwnedBy(game.Foe),
			want: 12,
		},
		{
			name: "orthogonal only",
			rows: []string{"m.m", ".m.", "m.m"},
			at:   game.Point{X: 1, Y: 1},
			pred: OwnedBy(game.Neutral),
			want: 8,
		},
		{
			name: "diagonal cut off by grass corners",
			rows: []string{"f#.", "#m.", "..."},
			at:   game.Point{X: 1, Y: 1},
			pred: OwnedBy(game.Foe),
			want: 0,
		},
		{
			name: "recycler neighbours do not count",
			rows: []string{"...", "rm.", "..."},
			at:   game.Point{X: 1, Y: 1},
			pred: OwnedBy(game.Foe),
			want: 0,
		},
		{
			name: "corner cell",
			rows: []string{"m.", ".."},
			at:   game.Point{X: 0, Y: 0},
			pred: OwnedBy(game.Neutral),
			want: 5,
		},
	}
	for _, tc := range tests {
		g := gametest.Board(3, tc.rows...)
		if got := NeighborhoodScore(g, bias, tc.at, tc.pred); got != tc.want {
			logBoard(t, tc.name, g)
			t.Errorf("%s: score=%d want=%d", tc.name, got, tc.want)
		}
	}
}

func TestNeighborhoodScore_Range(t *testing.T) {
	for seed := int64(1); seed <= 20; seed++ {
		g := randomGrid(seed, 6, 6)
		for y := 0; y < g.Height; y++ {
			for x := 0; x < g.Width; x++ {
				p := game.Point{X: x, Y: y}
				for _, o := range []game.Owner{game.Mine, game.Foe, game.Neutral} {
					s := NeighborhoodScore(g, allBiases[seed%4], p, OwnedBy(o))
					if s < 0 || s > 12 {
						t.Fatalf("seed=%d p=%v owner=%v score=%d out of [0,12]", seed, p, o, s)
					}
				}
				if s := NeighborhoodScore(g, allBiases[0], p, func(game.Cell) bool { return true }); s > 12 {
					t.Fatalf("seed=%d p=%v unconditional score=%d > 12", seed, p, s)
				}
			}
		}
	}
}

func TestNeighborhoodScore_UsesCurrentState(t *testing.T) {
	g := gametest.Board(2, ".F.", "...", "...")
	p := game.Point{X: 1, Y: 1}
	before := NeighborhoodScore(g, allBiases[0], p, OwnedBy(game.Foe))
	if before != 2 {
		t.Fatalf("before=%d want=2", before)
	}

	// Scrap about to be eaten makes the foe cell unreachable.
	c := g.At(game.Point{X: 1, Y: 0})
	c.Scrap = 1
	c.InRangeOfRecycle = true
	g.Set(game.Point{X: 1, Y: 0}, c)
	if after := NeighborhoodScore(g, allBiases[0], p, OwnedBy(game.Foe)); after != 0 {
		t.Fatalf("after=%d want=0", after)
	}
}
