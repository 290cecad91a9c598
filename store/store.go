// Package store archives played matches as parquet files, one row per turn.
package store

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/parquet-go/parquet-go"

	"github.com/brensch/offgrass/game"
	"github.com/brensch/offgrass/planner"
)

// Cell flag bits in TurnRow.Flags.
const (
	FlagRecycler int32 = 1 << iota
	FlagCanBuild
	FlagCanSpawn
	FlagInRange
)

// TurnRow is the archived snapshot and decision for one turn.
//
// The grid is flattened row-major into parallel columns so that a match
// compresses well: most cells change little from turn to turn.
type TurnRow struct {
	MatchID   string `parquet:"match_id,dict"`
	Turn      int32  `parquet:"turn"`
	Width     int32  `parquet:"width"`
	Height    int32  `parquet:"height"`
	MyMatter  int32  `parquet:"my_matter"`
	OppMatter int32  `parquet:"opp_matter"`

	Scrap []int32 `parquet:"scrap"`
	Owner []int32 `parquet:"owner"`
	Units []int32 `parquet:"units"`
	Flags []int32 `parquet:"flags"`

	Bias       string   `parquet:"bias,dict"`
	Actions    []string `parquet:"actions"`
	Threshold  int32    `parquet:"threshold"`
	AttackMode bool     `parquet:"attack_mode"`
	MatterLeft int32    `parquet:"matter_left"`
	Truncated  bool     `parquet:"truncated"`

	MoveMicros  int64 `parquet:"move_us"`
	BuildMicros int64 `parquet:"build_us"`
	SpawnMicros int64 `parquet:"spawn_us"`
}

// NewTurnRow flattens the snapshot g and the decision t taken on it.
func NewTurnRow(matchID string, g *game.Grid, bias game.Bias, t *planner.Turn) TurnRow {
	n := len(g.Cells)
	row := TurnRow{
		MatchID:     matchID,
		Turn:        int32(t.Number),
		Width:       int32(g.Width),
		Height:      int32(g.Height),
		MyMatter:    int32(g.MyMatter),
		OppMatter:   int32(g.OppMatter),
		Scrap:       make([]int32, n),
		Owner:       make([]int32, n),
		Units:       make([]int32, n),
		Flags:       make([]int32, n),
		Bias:        bias.String(),
		Actions:     make([]string, len(t.Actions)),
		Threshold:   int32(t.Threshold),
		AttackMode:  t.AttackMode,
		MatterLeft:  int32(t.MatterLeft),
		Truncated:   t.Truncated,
		MoveMicros:  t.Timings.Move.Microseconds(),
		BuildMicros: t.Timings.Build.Microseconds(),
		SpawnMicros: t.Timings.Spawn.Microseconds(),
	}
	for i, c := range g.Cells {
		row.Scrap[i] = int32(c.Scrap)
		row.Owner[i] = int32(c.Owner)
		row.Units[i] = int32(c.Units)
		row.Flags[i] = flags(c)
	}
	for i, a := range t.Actions {
		row.Actions[i] = a.String()
	}
	return row
}

func flags(c game.Cell) int32 {
	var f int32
	if c.Recycler {
		f |= FlagRecycler
	}
	if c.CanBuild {
		f |= FlagCanBuild
	}
	if c.CanSpawn {
		f |= FlagCanSpawn
	}
	if c.InRangeOfRecycle {
		f |= FlagInRange
	}
	return f
}

// Grid rebuilds the archived snapshot.
func (r TurnRow) Grid() (*game.Grid, error) {
	w, h := int(r.Width), int(r.Height)
	n := w * h
	if w <= 0 || h <= 0 || len(r.Scrap) != n || len(r.Owner) != n || len(r.Units) != n || len(r.Flags) != n {
		return nil, fmt.Errorf("turn %d: %dx%d grid with %d/%d/%d/%d cell values", r.Turn, w, h,
			len(r.Scrap), len(r.Owner), len(r.Units), len(r.Flags))
	}
	g := game.NewGrid(w, h)
	g.MyMatter, g.OppMatter = int(r.MyMatter), int(r.OppMatter)
	for i := range g.Cells {
		f := r.Flags[i]
		g.Cells[i] = game.Cell{
			Scrap:            int(r.Scrap[i]),
			Owner:            game.Owner(r.Owner[i]),
			Units:            int(r.Units[i]),
			Recycler:         f&FlagRecycler != 0,
			CanBuild:         f&FlagCanBuild != 0,
			CanSpawn:         f&FlagCanSpawn != 0,
			InRangeOfRecycle: f&FlagInRange != 0,
		}
	}
	return g, nil
}

// ReadMatch loads every turn of an archived match, in turn order.
func ReadMatch(path string) ([]TurnRow, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	stat, err := f.Stat()
	if err != nil {
		return nil, err
	}
	pf, err := parquet.OpenFile(f, stat.Size())
	if err != nil {
		return nil, fmt.Errorf("open parquet %s: %w", path, err)
	}

	reader := parquet.NewGenericReader[TurnRow](pf)
	defer reader.Close()

	rows := make([]TurnRow, 0, int(reader.NumRows()))
	for {
		// Fresh buffer each time: the reader reuses slice capacity it finds.
		buf := make([]TurnRow, 64)
		n, err := reader.Read(buf)
		rows = append(rows, buf[:n]...)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
	}
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].Turn < rows[j].Turn })
	return rows, nil
}

// ListMatches returns the finished match archives in dir, newest name last.
func ListMatches(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var out []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".parquet") {
			continue
		}
		out = append(out, filepath.Join(dir, e.Name()))
	}
	sort.Strings(out)
	return out, nil
}
