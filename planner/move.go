package planner

import (
	"context"

	"github.com/brensch/offgrass/game"
	"github.com/brensch/offgrass/rules"
)

// PlanMoves sends every unit one step towards the closest cell we do not own.
//
// Units are handled one at a time in scan order, each unit being its own
// agent even when stacked. work is the planner's private copy of the board:
// after each move the destination is claimed in work, so later units look
// past it. The result therefore depends on unit order.
//
// Units with nothing reachable stay put. If ctx expires, the moves decided so
// far are returned with truncated set.
func PlanMoves(ctx context.Context, work *game.Grid, b game.Bias) (actions []game.Action, truncated bool) {
	for _, unit := range work.Units(game.Mine) {
		if ctx.Err() != nil {
			return actions, true
		}
		step, ok := nextStep(work, b, unit)
		if !ok {
			continue
		}
		actions = append(actions, game.Move(1, unit, step))
		work.Claim(step)
	}
	return actions, false
}

// nextStep returns the first step on the shortest path from unit to the
// earliest-discovered cell not owned by us.
func nextStep(work *game.Grid, b game.Bias, unit game.Point) (game.Point, bool) {
	r := rules.FullReach(work, b, unit)
	for _, p := range r.Order[1:] {
		if work.At(p).Owner == game.Mine {
			continue
		}
		path := rules.ExtractPath(unit, p, r)
		if len(path) == 0 {
			return game.Point{}, false
		}
		return path[0], true
	}
	return game.Point{}, false
}
