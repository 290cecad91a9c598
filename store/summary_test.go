package store

import (
	"strings"
	"testing"
	"time"
)

func TestSummarize(t *testing.T) {
	rows := []TurnRow{
		{MatchID: "m", Turn: 1, Actions: []string{"MOVE 1 0 0 1 0", "SPAWN 2 0 1"}, MoveMicros: 400, SpawnMicros: 200},
		{MatchID: "m", Turn: 2, Actions: []string{"BUILD 3 3", "MOVE 1 1 0 2 0"}, BuildMicros: 1000, Truncated: true},
		{MatchID: "m", Turn: 3, AttackMode: true, MoveMicros: 200, MyMatter: 14, OppMatter: 31},
		{MatchID: "m", Turn: 4, AttackMode: true, MyMatter: 4, OppMatter: 20},
	}
	s := Summarize(rows)

	want := MatchSummary{
		MatchID:         "m",
		Turns:           4,
		Moves:           2,
		Builds:          1,
		Spawns:          1,
		FirstAttackTurn: 3,
		TruncatedTurns:  1,
		MaxPlan:         time.Millisecond,
		MeanPlan:        450 * time.Microsecond,
		FinalMyMatter:   4,
		FinalOppMatter:  20,
	}
	if s != want {
		t.Fatalf("summary=%+v\nwant=%+v", s, want)
	}
	if !strings.Contains(s.String(), "attack turn 3") {
		t.Fatalf("string=%q", s.String())
	}
}

func TestSummarize_Empty(t *testing.T) {
	if s := Summarize(nil); s != (MatchSummary{}) {
		t.Fatalf("summary=%+v want zero", s)
	}
}
