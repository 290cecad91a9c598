// Package protocol reads referee input lines into grids and writes turn
// commands back.
//
// Input is a header line "width height" followed, every turn, by
// "my_matter opp_matter" and width*height cell lines in row-major order:
//
//	scrap owner units recycler can_build can_spawn in_range_of_recycler
//
// Output is one line per turn: every action terminated by ';', "WAIT;" when
// there are none, then "MESSAGE <text>".
package protocol

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/brensch/offgrass/game"
)

// ErrShape reports input that does not match the expected line format.
var ErrShape = errors.New("malformed input")

const cellFields = 7

// Reader parses referee input. It tracks line numbers for error context.
type Reader struct {
	sc   *bufio.Scanner
	line int
}

func NewReader(r io.Reader) *Reader {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 4096), 1<<20)
	return &Reader{sc: sc}
}

// Line returns the number of lines consumed so far.
func (r *Reader) Line() int { return r.line }

// next returns the fields of the next line. It returns io.EOF only when the
// input ends cleanly.
func (r *Reader) next() ([]string, error) {
	if !r.sc.Scan() {
		if err := r.sc.Err(); err != nil {
			return nil, fmt.Errorf("line %d: %w", r.line+1, err)
		}
		return nil, io.EOF
	}
	r.line++
	return strings.Fields(r.sc.Text()), nil
}

func (r *Reader) ints(want int) ([]int, error) {
	fields, err := r.next()
	if err != nil {
		return nil, err
	}
	if len(fields) != want {
		return nil, fmt.Errorf("line %d: got %d fields, want %d: %w", r.line, len(fields), want, ErrShape)
	}
	out := make([]int, want)
	for i, f := range fields {
		n, err := strconv.Atoi(f)
		if err != nil {
			return nil, fmt.Errorf("line %d: field %d %q: %w", r.line, i+1, f, ErrShape)
		}
		out[i] = n
	}
	return out, nil
}

// Dimensions reads the header line.
func (r *Reader) Dimensions() (width, height int, err error) {
	v, err := r.ints(2)
	if errors.Is(err, io.EOF) {
		return 0, 0, fmt.Errorf("missing header: %w", ErrShape)
	}
	if err != nil {
		return 0, 0, err
	}
	if v[0] <= 0 || v[1] <= 0 {
		return 0, 0, fmt.Errorf("line %d: dimensions %dx%d: %w", r.line, v[0], v[1], ErrShape)
	}
	return v[0], v[1], nil
}

// Turn reads one turn's snapshot. It returns io.EOF when the input ends
// before the turn starts; input ending part way through a turn is ErrShape.
func (r *Reader) Turn(width, height int) (*game.Grid, error) {
	matter, err := r.ints(2)
	if err != nil {
		return nil, err
	}
	g := game.NewGrid(width, height)
	g.MyMatter, g.OppMatter = matter[0], matter[1]

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			v, err := r.ints(cellFields)
			if errors.Is(err, io.EOF) {
				return nil, fmt.Errorf("turn ended after %d of %d cells: %w", y*width+x, width*height, ErrShape)
			}
			if err != nil {
				return nil, err
			}
			c, err := parseCell(v)
			if err != nil {
				return nil, fmt.Errorf("line %d: cell (%d,%d): %w", r.line, x, y, err)
			}
			g.Set(game.Point{X: x, Y: y}, c)
		}
	}
	return g, nil
}

func parseCell(v []int) (game.Cell, error) {
	owner := game.Owner(v[1])
	if int(owner) != v[1] || !owner.Valid() {
		return game.Cell{}, fmt.Errorf("owner %d: %w", v[1], ErrShape)
	}
	if v[0] < 0 || v[2] < 0 {
		return game.Cell{}, fmt.Errorf("negative scrap or units: %w", ErrShape)
	}
	flags := make([]bool, 4)
	for i, f := range v[3:] {
		switch f {
		case 0:
		case 1:
			flags[i] = true
		default:
			return game.Cell{}, fmt.Errorf("flag %d is %d, want 0 or 1: %w", i+4, f, ErrShape)
		}
	}
	return game.Cell{
		Scrap:            v[0],
		Owner:            owner,
		Units:            v[2],
		Recycler:         flags[0],
		CanBuild:         flags[1],
		CanSpawn:         flags[2],
		InRangeOfRecycle: flags[3],
	}, nil
}

// FormatTurn renders the command line for one turn, without the newline.
func FormatTurn(actions []game.Action, message string) string {
	var b strings.Builder
	for _, a := range actions {
		b.WriteString(a.String())
		b.WriteByte(';')
	}
	if len(actions) == 0 {
		b.WriteString(game.Wait().String())
		b.WriteByte(';')
	}
	b.WriteString(game.Message(message).String())
	return b.String()
}

// WriteTurn writes the command line for one turn.
func WriteTurn(w io.Writer, actions []game.Action, message string) error {
	_, err := io.WriteString(w, FormatTurn(actions, message)+"\n")
	return err
}

// WriteSnapshot writes g in referee input format, header excluded. It is the
// inverse of Reader.Turn.
func WriteSnapshot(w io.Writer, g *game.Grid) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "%d %d\n", g.MyMatter, g.OppMatter)
	for _, c := range g.Cells {
		fmt.Fprintf(bw, "%d %d %d %d %d %d %d\n",
			c.Scrap, int(c.Owner), c.Units, b2i(c.Recycler), b2i(c.CanBuild), b2i(c.CanSpawn), b2i(c.InRangeOfRecycle))
	}
	return bw.Flush()
}

func b2i(b bool) int {
	if b {
		return 1
	}
	return 0
}
