package planner

import (
	"context"

	"github.com/brensch/offgrass/game"
	"github.com/brensch/offgrass/rules"
)

// SpawnCandidate is a ranked spawn site.
type SpawnCandidate struct {
	At       game.Point
	Priority int
	Neutral  int
	Foe      int
}

// RankSpawns scores the spawnable cells that have something left to claim,
// best first.
//
// Reachability is memoised: the first candidate in a region runs
// ReachUntilForeign and every cell it discovered is marked resolved. Later
// candidates found in the resolved set are scored without a traversal, on
// the assumption that sharing a region means sharing its frontier. That is
// not always true (the traversal may have stopped before reaching the later
// candidate's side) and is accepted to keep the turn sub-quadratic.
func RankSpawns(ctx context.Context, g *game.Grid, b game.Bias, params Params) (ranked []SpawnCandidate, truncated bool) {
	var q Queue[SpawnCandidate]
	resolved := make([]bool, g.Width*g.Height)

	for _, p := range g.Candidates(func(c game.Cell) bool { return c.CanSpawn }) {
		if ctx.Err() != nil {
			truncated = true
			break
		}
		if !resolved[p.Y*g.Width+p.X] {
			found, r := rules.ReachUntilForeign(g, b, p)
			for _, seen := range r.Order {
				resolved[seen.Y*g.Width+seen.X] = true
			}
			if !found {
				continue
			}
		}
		c := scoreSpawn(g, b, p, params)
		q.Push(c.Priority, c)
	}
	return q.Drain(), truncated
}

func scoreSpawn(g *game.Grid, b game.Bias, p game.Point, params Params) SpawnCandidate {
	neutral := rules.NeighborhoodScore(g, b, p, rules.OwnedBy(game.Neutral))
	foe := rules.NeighborhoodScore(g, b, p, rules.OwnedBy(game.Foe))
	return SpawnCandidate{
		At:       p,
		Priority: params.SpawnBase - neutral - params.FoeWeight*foe,
		Neutral:  neutral,
		Foe:      foe,
	}
}

// SelectSpawn puts every affordable unit on the best candidate. It returns
// no action when nothing is ranked or nothing is affordable.
func SelectSpawn(ranked []SpawnCandidate, matter int, params Params) ([]game.Action, int) {
	count := matter / params.UnitCost
	if len(ranked) == 0 || count <= 0 {
		return nil, matter
	}
	return []game.Action{game.Spawn(count, ranked[0].At)}, matter - count*params.UnitCost
}
