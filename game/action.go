package game

import "fmt"

// ActionKind enumerates the commands the referee accepts.
type ActionKind uint8

const (
	ActionMove ActionKind = iota
	ActionBuild
	ActionSpawn
	ActionWait
	ActionMessage
)

// Action is a single referee command. Fields not used by Kind are zero.
type Action struct {
	Kind  ActionKind
	Count int
	From  Point
	To    Point // target for moves, location for build/spawn
	Text  string
}

// Move sends count units from one cell towards another.
func Move(count int, from, to Point) Action {
	return Action{Kind: ActionMove, Count: count, From: from, To: to}
}

// Build places a recycler at at.
func Build(at Point) Action {
	return Action{Kind: ActionBuild, To: at}
}

// Spawn creates count units on at.
func Spawn(count int, at Point) Action {
	return Action{Kind: ActionSpawn, Count: count, To: at}
}

// Wait does nothing this turn.
func Wait() Action {
	return Action{Kind: ActionWait}
}

// Message shows text next to our side in the viewer.
func Message(text string) Action {
	return Action{Kind: ActionMessage, Text: text}
}

// String renders the action in referee syntax, without the separator.
func (a Action) String() string {
	switch a.Kind {
	case ActionMove:
		return fmt.Sprintf("MOVE %d %d %d %d %d", a.Count, a.From.X, a.From.Y, a.To.X, a.To.Y)
	case ActionBuild:
		return fmt.Sprintf("BUILD %d %d", a.To.X, a.To.Y)
	case ActionSpawn:
		return fmt.Sprintf("SPAWN %d %d %d", a.Count, a.To.X, a.To.Y)
	case ActionWait:
		return "WAIT"
	case ActionMessage:
		return "MESSAGE " + a.Text
	default:
		return fmt.Sprintf("UNKNOWN(%d)", a.Kind)
	}
}
