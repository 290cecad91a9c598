// Package bot runs the referee turn loop: read a snapshot, plan under the
// turn budget, write the commands, archive the turn.
package bot

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/brensch/offgrass/config"
	"github.com/brensch/offgrass/game"
	"github.com/brensch/offgrass/planner"
	"github.com/brensch/offgrass/protocol"
)

// Recorder archives planned turns. *store.Recorder implements it.
type Recorder interface {
	Record(g *game.Grid, bias game.Bias, t *planner.Turn) error
}

type Bot struct {
	planner *planner.Planner
	timing  config.Timing
	message string
	rec     Recorder
	log     *slog.Logger
}

// New builds a bot for one match. rec may be nil.
func New(cfg config.Config, rec Recorder, logger *slog.Logger) *Bot {
	if logger == nil {
		logger = slog.Default()
	}
	return &Bot{
		planner: planner.New(cfg.Heuristics, logger),
		timing:  cfg.Timing,
		message: cfg.Message,
		rec:     rec,
		log:     logger,
	}
}

// Run plays until the referee input ends, which is a clean return. Malformed
// input and a first turn without units on both sides are errors.
func (b *Bot) Run(ctx context.Context, in io.Reader, out io.Writer) error {
	r := protocol.NewReader(in)
	width, height, err := r.Dimensions()
	if err != nil {
		return err
	}
	b.log.Info("match started", "width", width, "height", height)

	for turn := 1; ; turn++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		g, err := r.Turn(width, height)
		if errors.Is(err, io.EOF) {
			b.log.Info("match over", "turns", turn-1, "lines", r.Line())
			return nil
		}
		if err != nil {
			return fmt.Errorf("turn %d: %w", turn, err)
		}
		if err := b.playTurn(ctx, turn, g, out); err != nil {
			return err
		}
	}
}

func (b *Bot) playTurn(ctx context.Context, turn int, g *game.Grid, out io.Writer) error {
	start := time.Now()
	budget := b.timing.Budget(turn)
	turnCtx, cancel := context.WithTimeout(ctx, budget)
	t, err := b.planner.Plan(turnCtx, g)
	cancel()
	if err != nil {
		return err
	}

	if err := protocol.WriteTurn(out, t.Actions, b.message); err != nil {
		return fmt.Errorf("turn %d: write commands: %w", turn, err)
	}
	elapsed := time.Since(start)
	b.log.Info("turn played",
		"turn", turn,
		"myMatter", g.MyMatter,
		"oppMatter", g.OppMatter,
		"actions", len(t.Actions),
		"elapsedMs", elapsed,
		"budgetMs", budget,
	)
	b.log.Debug("commands", "turn", turn, "line", protocol.FormatTurn(t.Actions, b.message))

	if b.rec != nil {
		bias, _ := b.planner.Bias()
		if err := b.rec.Record(g, bias, t); err != nil {
			// Archiving is best effort; the match goes on.
			b.log.Warn("failed to record turn", "turn", turn, "err", err)
		}
	}
	return nil
}
