package store

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/parquet-go/parquet-go"
	"github.com/parquet-go/parquet-go/compress/zstd"

	"github.com/brensch/offgrass/game"
	"github.com/brensch/offgrass/planner"
)

// Recorder writes one match to <dir>/tmp and moves it into dir on Finalize,
// so readers of dir never see a half-written file.
type Recorder struct {
	matchID string
	tmpPath string
	outPath string

	file   *os.File
	writer *parquet.GenericWriter[TurnRow]
	rows   int
}

func NewRecorder(dir string) (*Recorder, error) {
	if dir == "" {
		return nil, fmt.Errorf("record dir is required")
	}
	absDir, err := filepath.Abs(dir)
	if err != nil {
		absDir = dir
	}
	tmpDir := filepath.Join(absDir, "tmp")
	if err := os.MkdirAll(tmpDir, 0o755); err != nil {
		return nil, fmt.Errorf("create tmp dir: %w", err)
	}

	id := uuid.NewString()
	name := fmt.Sprintf("match_%s_%s.parquet", time.Now().UTC().Format("20060102T150405"), id)
	tmpPath := filepath.Join(tmpDir, name)

	f, err := os.OpenFile(tmpPath, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open tmp parquet: %w", err)
	}
	w := parquet.NewGenericWriter[TurnRow](
		f,
		parquet.Compression(&zstd.Codec{Level: zstd.SpeedBetterCompression}),
	)
	w.SetKeyValueMetadata("schema", "turn_row_v1")
	w.SetKeyValueMetadata("match_id", id)

	return &Recorder{
		matchID: id,
		tmpPath: tmpPath,
		outPath: filepath.Join(absDir, name),
		file:    f,
		writer:  w,
	}, nil
}

func (r *Recorder) MatchID() string { return r.matchID }
func (r *Recorder) OutPath() string { return r.outPath }
func (r *Recorder) Rows() int       { return r.rows }

// Record archives the snapshot g and the turn planned from it.
func (r *Recorder) Record(g *game.Grid, bias game.Bias, t *planner.Turn) error {
	if r.writer == nil {
		return fmt.Errorf("recorder for match %s is closed", r.matchID)
	}
	if _, err := r.writer.Write([]TurnRow{NewTurnRow(r.matchID, g, bias, t)}); err != nil {
		return fmt.Errorf("write turn %d: %w", t.Number, err)
	}
	r.rows++
	return nil
}

// Finalize closes the file and moves it out of tmp/. A match with no turns is
// discarded and outPath is empty. Calling Finalize again is a no-op.
func (r *Recorder) Finalize() (outPath string, rows int, err error) {
	if r.writer == nil && r.file == nil {
		return "", 0, nil
	}

	var closeErr, fileErr error
	if r.writer != nil {
		closeErr = r.writer.Close()
		r.writer = nil
	}
	if r.file != nil {
		_ = r.file.Sync()
		fileErr = r.file.Close()
		r.file = nil
	}
	if closeErr != nil {
		return "", 0, fmt.Errorf("close parquet writer: %w", closeErr)
	}
	if fileErr != nil {
		return "", 0, fmt.Errorf("close parquet file: %w", fileErr)
	}

	if r.rows == 0 {
		_ = os.Remove(r.tmpPath)
		return "", 0, nil
	}
	if err := os.Rename(r.tmpPath, r.outPath); err != nil {
		return "", 0, fmt.Errorf("rename parquet: %w", err)
	}
	return r.outPath, r.rows, nil
}
