package store

import (
	"fmt"
	"time"
)

// MatchSummary condenses an archived match.
type MatchSummary struct {
	MatchID string
	Turns   int

	Moves, Builds, Spawns int

	// FirstAttackTurn is the turn the build planner first went into attack
	// mode, or 0 if it never did.
	FirstAttackTurn int
	TruncatedTurns  int

	MaxPlan  time.Duration
	MeanPlan time.Duration

	FinalMyMatter  int
	FinalOppMatter int
}

// Summarize condenses rows of one match, as returned by ReadMatch.
func Summarize(rows []TurnRow) MatchSummary {
	var s MatchSummary
	if len(rows) == 0 {
		return s
	}
	s.MatchID = rows[0].MatchID
	s.Turns = len(rows)

	var total time.Duration
	for _, r := range rows {
		for _, a := range r.Actions {
			switch {
			case hasVerb(a, "MOVE"):
				s.Moves++
			case hasVerb(a, "BUILD"):
				s.Builds++
			case hasVerb(a, "SPAWN"):
				s.Spawns++
			}
		}
		if r.AttackMode && s.FirstAttackTurn == 0 {
			s.FirstAttackTurn = int(r.Turn)
		}
		if r.Truncated {
			s.TruncatedTurns++
		}
		plan := time.Duration(r.MoveMicros+r.BuildMicros+r.SpawnMicros) * time.Microsecond
		total += plan
		s.MaxPlan = max(s.MaxPlan, plan)
	}
	s.MeanPlan = total / time.Duration(len(rows))

	last := rows[len(rows)-1]
	s.FinalMyMatter, s.FinalOppMatter = int(last.MyMatter), int(last.OppMatter)
	return s
}

func hasVerb(action, verb string) bool {
	return len(action) > len(verb) && action[:len(verb)] == verb && action[len(verb)] == ' '
}

func (s MatchSummary) String() string {
	attack := "never"
	if s.FirstAttackTurn > 0 {
		attack = fmt.Sprintf("turn %d", s.FirstAttackTurn)
	}
	return fmt.Sprintf("%s: %d turns, %d moves, %d builds, %d spawns, attack %s, truncated %d, plan mean %s max %s, final matter %d vs %d",
		s.MatchID, s.Turns, s.Moves, s.Builds, s.Spawns, attack, s.TruncatedTurns,
		s.MeanPlan, s.MaxPlan, s.FinalMyMatter, s.FinalOppMatter)
}
