// Package replay is a terminal viewer for archived matches.
package replay

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/brensch/offgrass/game"
	"github.com/brensch/offgrass/store"
)

// Model steps through the turns of one match.
type Model struct {
	rows    []store.TurnRow
	idx     int
	playing bool
	speed   time.Duration
}

func NewModel(rows []store.TurnRow, speed time.Duration) Model {
	if speed <= 0 {
		speed = 300 * time.Millisecond
	}
	return Model{rows: rows, speed: speed}
}

// Turn returns the index of the turn on screen.
func (m Model) Turn() int { return m.idx }

func (m Model) Playing() bool { return m.playing }

type TickMsg time.Time

func (m Model) tickCmd() tea.Cmd {
	return tea.Tick(m.speed, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

func (m Model) Init() tea.Cmd { return nil }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "right", "l", "n":
			m.step(1)
		case "left", "h", "p":
			m.step(-1)
		case "home", "g":
			m.idx = 0
		case "end", "G":
			m.idx = max(len(m.rows)-1, 0)
		case " ":
			m.playing = !m.playing
			if m.playing {
				return m, m.tickCmd()
			}
		}
	case TickMsg:
		if !m.playing {
			return m, nil
		}
		if m.idx >= len(m.rows)-1 {
			m.playing = false
			return m, nil
		}
		m.step(1)
		return m, m.tickCmd()
	}
	return m, nil
}

func (m *Model) step(d int) {
	m.idx = min(max(m.idx+d, 0), max(len(m.rows)-1, 0))
}

func (m Model) View() string {
	if len(m.rows) == 0 {
		return "No turns recorded.\n\nPress q to quit.\n"
	}
	row := m.rows[m.idx]
	var b strings.Builder
	fmt.Fprintf(&b, "Match %s  turn %d (%d/%d)\n", row.MatchID, row.Turn, m.idx+1, len(m.rows))
	fmt.Fprintf(&b, "Matter %d vs %d  bias %s  threshold %d", row.MyMatter, row.OppMatter, row.Bias, row.Threshold)
	if row.AttackMode {
		b.WriteString("  ATTACK")
	}
	if row.Truncated {
		b.WriteString("  TRUNCATED")
	}
	b.WriteString("\n\n")

	g, err := row.Grid()
	if err != nil {
		fmt.Fprintf(&b, "bad row: %v\n", err)
	} else {
		b.WriteString(Render(g))
	}

	b.WriteString("\nActions:\n")
	if len(row.Actions) == 0 {
		b.WriteString("  WAIT\n")
	}
	for _, a := range row.Actions {
		b.WriteString("  " + a + "\n")
	}
	fmt.Fprintf(&b, "\nPlanned in %.2fms (move %.2f, build %.2f, spawn %.2f), matter left %d\n",
		float64(row.MoveMicros+row.BuildMicros+row.SpawnMicros)/1000,
		float64(row.MoveMicros)/1000, float64(row.BuildMicros)/1000, float64(row.SpawnMicros)/1000,
		row.MatterLeft)

	b.WriteString("\n←/→ step  home/end jump  space play  q quit\n")
	return b.String()
}

// Render draws g with two characters per cell: owner then unit count.
//
//	##  grass        .   neutral
//	m3  3 of ours    f1  1 of theirs
//	RR  our recycler rr  their recycler
func Render(g *game.Grid) string {
	var b strings.Builder
	for y := 0; y < g.Height; y++ {
		for x := 0; x < g.Width; x++ {
			if x > 0 {
				b.WriteByte(' ')
			}
			b.WriteString(cell(g.At(game.Point{X: x, Y: y})))
		}
		b.WriteByte('\n')
	}
	return b.String()
}

func cell(c game.Cell) string {
	switch {
	case c.Recycler && c.Owner == game.Mine:
		return "RR"
	case c.Recycler:
		return "rr"
	case c.Scrap == 0:
		return "##"
	}
	var owner byte
	switch c.Owner {
	case game.Mine:
		owner = 'm'
	case game.Foe:
		owner = 'f'
	default:
		return " ."
	}
	switch {
	case c.Units == 0:
		return " " + string(owner)
	case c.Units > 9:
		return string(owner) + "+"
	default:
		return string(owner) + fmt.Sprint(c.Units)
	}
}
