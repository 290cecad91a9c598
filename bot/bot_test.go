package bot

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/brensch/offgrass/config"
	"github.com/brensch/offgrass/game"
	"github.com/brensch/offgrass/game/gametest"
	"github.com/brensch/offgrass/planner"
	"github.com/brensch/offgrass/protocol"
)

type memRecorder struct {
	turns []*planner.Turn
	fail  bool
}

func (m *memRecorder) Record(g *game.Grid, bias game.Bias, t *planner.Turn) error {
	if m.fail {
		return errors.New("disk full")
	}
	m.turns = append(m.turns, t)
	return nil
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// match renders a header and one snapshot per board.
func match(t *testing.T, boards ...*game.Grid) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "%d %d\n", boards[0].Width, boards[0].Height)
	for _, g := range boards {
		if err := protocol.WriteSnapshot(&buf, g); err != nil {
			t.Fatalf("write snapshot: %v", err)
		}
	}
	return &buf
}

func TestRun_PlaysUntilInputEnds(t *testing.T) {
	first := gametest.Board(1, "M..F")
	second := gametest.Board(1, "mM.F")
	in := match(t, first, second)

	rec := &memRecorder{}
	var out bytes.Buffer
	b := New(config.Default(), rec, quietLogger())
	if err := b.Run(context.Background(), in, &out); err != nil {
		t.Fatalf("run: %v", err)
	}

	want := "MOVE 1 0 0 1 0;MESSAGE Yeet\nMOVE 1 1 0 2 0;MESSAGE Yeet\n"
	if out.String() != want {
		t.Fatalf("output=%q want=%q", out.String(), want)
	}
	if len(rec.turns) != 2 || rec.turns[1].Number != 2 {
		t.Fatalf("recorded %d turns", len(rec.turns))
	}
}

func TestRun_WaitsWhenNothingToDo(t *testing.T) {
	in := match(t, gametest.Board(1, "M#F"))
	cfg := config.Default()
	cfg.Message = "gl hf"

	var out bytes.Buffer
	if err := New(cfg, nil, quietLogger()).Run(context.Background(), in, &out); err != nil {
		t.Fatalf("run: %v", err)
	}
	if out.String() != "WAIT;MESSAGE gl hf\n" {
		t.Fatalf("output=%q", out.String())
	}
}

func TestRun_RecorderFailureIsNotFatal(t *testing.T) {
	in := match(t, gametest.Board(1, "M..F"))
	var out bytes.Buffer
	if err := New(config.Default(), &memRecorder{fail: true}, quietLogger()).Run(context.Background(), in, &out); err != nil {
		t.Fatalf("run: %v", err)
	}
	if !strings.HasPrefix(out.String(), "MOVE") {
		t.Fatalf("output=%q", out.String())
	}
}

func TestRun_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  error
	}{
		{"empty input", "", protocol.ErrShape},
		{"garbage cell", "1 1\n0 0\nfoo\n", protocol.ErrShape},
		{"no units on first turn", "2 1\n0 0\n8 1 0 0 1 1 0\n8 0 0 0 0 0 0\n", game.ErrNoUnits},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := New(config.Default(), nil, quietLogger()).Run(context.Background(), strings.NewReader(tt.input), io.Discard)
			if !errors.Is(err, tt.want) {
				t.Fatalf("err=%v want %v", err, tt.want)
			}
		})
	}
}

func TestRun_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	in := match(t, gametest.Board(1, "M..F"))
	if err := New(config.Default(), nil, quietLogger()).Run(ctx, in, io.Discard); !errors.Is(err, context.Canceled) {
		t.Fatalf("err=%v want context.Canceled", err)
	}
}
