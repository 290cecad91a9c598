package planner

import (
	"context"

	"github.com/brensch/offgrass/game"
)

// BuildCandidate is a ranked recycler site.
type BuildCandidate struct {
	At       game.Point
	Priority int
	Attack   bool // next to enemy units
}

// RankBuilds scores every buildable cell and returns them best first, along
// with how many were attack sites.
//
// A cell with a recycler among its eight neighbours is never ranked, so
// recyclers do not cluster, but it still counts towards attackable. Attack sites (an orthogonal neighbour holds enemy
// units and the cell is not already in recycler range) get AttackPriority.
// Everything else is ranked by the scrap it would harvest: each orthogonal
// neighbour contributes min(neighbour scrap, own scrap), negated.
func RankBuilds(ctx context.Context, g *game.Grid, b game.Bias, params Params) (ranked []BuildCandidate, attackable int, truncated bool) {
	var q Queue[BuildCandidate]
	for _, p := range g.Candidates(func(c game.Cell) bool { return c.CanBuild }) {
		if ctx.Err() != nil {
			truncated = true
			break
		}
		attack := isAttackSite(g, b, p)
		if attack {
			attackable++
		}
		if nextToRecycler(g, b, p) {
			continue
		}
		if attack {
			q.Push(params.AttackPriority, BuildCandidate{At: p, Priority: params.AttackPriority, Attack: true})
			continue
		}
		prio := -harvestableScrap(g, b, p)
		q.Push(prio, BuildCandidate{At: p, Priority: prio})
	}
	return q.Drain(), attackable, truncated
}

func nextToRecycler(g *game.Grid, b game.Bias, p game.Point) bool {
	for _, n := range g.Neighbors(p, b, true) {
		if g.At(n).Recycler {
			return true
		}
	}
	return false
}

func isAttackSite(g *game.Grid, b game.Bias, p game.Point) bool {
	if g.At(p).InRangeOfRecycle {
		return false
	}
	for _, n := range g.Neighbors(p, b, false) {
		c := g.At(n)
		if c.Owner == game.Foe && c.Units > 0 {
			return true
		}
	}
	return false
}

func harvestableScrap(g *game.Grid, b game.Bias, p game.Point) int {
	own := g.At(p).Scrap
	total := 0
	for _, n := range g.Neighbors(p, b, false) {
		total += min(g.At(n).Scrap, own)
	}
	return total
}

// SelectBuilds walks the ranking and builds every candidate strictly below
// threshold that the budget covers. It returns the actions and the matter
// left over.
func SelectBuilds(ranked []BuildCandidate, threshold, matter int, params Params) ([]game.Action, int) {
	var actions []game.Action
	for _, c := range ranked {
		if c.Priority >= threshold {
			// Ranked ascending: nothing after this qualifies either.
			break
		}
		if matter < params.StructureCost {
			continue
		}
		actions = append(actions, game.Build(c.At))
		matter -= params.StructureCost
	}
	return actions, matter
}
