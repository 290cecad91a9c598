// Package planner turns a board snapshot into one turn of actions.
//
// A turn runs three phases in order: moves on a private copy of the board,
// then builds and spawns ranked against the untouched snapshot. The Planner
// carries the only state that survives between turns: the attack bias,
// fixed on the first turn, and the build threshold.
package planner

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/brensch/offgrass/game"
)

// Timings records wall time spent in each phase.
type Timings struct {
	Move  time.Duration
	Build time.Duration
	Spawn time.Duration
}

func (t Timings) Total() time.Duration { return t.Move + t.Build + t.Spawn }

// Turn is the outcome of planning a single turn.
type Turn struct {
	Number  int
	Actions []game.Action

	Moves   int
	Builds  int
	Spawned int

	// Threshold is the build cut-off applied this turn.
	Threshold  int
	AttackMode bool
	MatterLeft int

	// Truncated is set when the deadline cut a phase short.
	Truncated bool
	Timings   Timings
}

type Planner struct {
	params Params
	log    *slog.Logger

	bias       game.Bias
	biasSet    bool
	threshold  int
	attackMode bool
	turn       int
}

// New returns a planner for a fresh match. A nil logger uses slog.Default.
func New(params Params, logger *slog.Logger) *Planner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Planner{
		params:    params,
		log:       logger,
		threshold: params.BuildThreshold,
	}
}

// Bias returns the attack bias and whether it has been fixed yet.
func (p *Planner) Bias() (game.Bias, bool) { return p.bias, p.biasSet }

// Threshold returns the build cut-off the next turn will use, before any
// attack-mode override.
func (p *Planner) Threshold() int { return p.threshold }

// SetBias fixes the attack bias explicitly. It is a no-op once the bias is set.
func (p *Planner) SetBias(b game.Bias) {
	if p.biasSet {
		return
	}
	p.bias, p.biasSet = b, true
}

// Plan decides the actions for one turn. g is not modified.
//
// The only error is a missing bias precondition on the first turn. Running out
// of time is not an error: phases stop early and the actions decided so far
// are returned with Truncated set.
func (p *Planner) Plan(ctx context.Context, g *game.Grid) (*Turn, error) {
	p.turn++
	if !p.biasSet {
		b, err := game.ComputeBias(g.Units(game.Mine), g.Units(game.Foe), g.Height)
		if err != nil {
			return nil, fmt.Errorf("turn %d: %w", p.turn, err)
		}
		p.SetBias(b)
		p.log.Info("attack bias fixed", "bias", b.String())
	}

	t := &Turn{Number: p.turn}

	start := time.Now()
	moves, cut := PlanMoves(ctx, g.Clone(), p.bias)
	t.Actions = append(t.Actions, moves...)
	t.Moves = len(moves)
	t.Truncated = t.Truncated || cut
	t.Timings.Move = time.Since(start)

	start = time.Now()
	builds, matter, cut := p.planBuilds(ctx, g, t)
	t.Actions = append(t.Actions, builds...)
	t.Builds = len(builds)
	t.Truncated = t.Truncated || cut
	t.Timings.Build = time.Since(start)

	start = time.Now()
	ranked, cut := RankSpawns(ctx, g, p.bias, p.params)
	spawns, matter := SelectSpawn(ranked, matter, p.params)
	t.Actions = append(t.Actions, spawns...)
	for _, s := range spawns {
		t.Spawned += s.Count
	}
	t.Truncated = t.Truncated || cut
	t.Timings.Spawn = time.Since(start)
	t.MatterLeft = matter

	p.log.Debug("turn planned",
		"turn", t.Number,
		"moves", t.Moves,
		"builds", t.Builds,
		"spawned", t.Spawned,
		"spawnCandidates", len(ranked),
		"threshold", t.Threshold,
		"attackMode", t.AttackMode,
		"matterLeft", t.MatterLeft,
		"moveMs", t.Timings.Move,
		"buildMs", t.Timings.Build,
		"spawnMs", t.Timings.Spawn,
	)
	if t.Truncated {
		p.log.Warn("turn deadline hit, phases cut short", "turn", t.Number, "elapsedMs", t.Timings.Total())
	}
	return t, nil
}

// planBuilds ranks recycler sites, applies and then advances the threshold.
func (p *Planner) planBuilds(ctx context.Context, g *game.Grid, t *Turn) ([]game.Action, int, bool) {
	ranked, attackable, cut := RankBuilds(ctx, g, p.bias, p.params)

	// Once enemy units can be walled off, recyclers are only for attacking.
	if attackable > 0 {
		if !p.attackMode {
			p.log.Info("build planner switched to attack mode", "turn", t.Number, "sites", attackable)
		}
		p.attackMode = true
		p.threshold = p.params.AttackThreshold
	}
	t.Threshold = p.threshold
	t.AttackMode = p.attackMode

	actions, matter := SelectBuilds(ranked, p.threshold, g.MyMatter, p.params)
	p.threshold += p.params.ThresholdStep
	return actions, matter, cut
}
