// Command replay steps through an archived match in the terminal.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/brensch/offgrass/replay"
	"github.com/brensch/offgrass/store"
)

func main() {
	fs := flag.NewFlagSet("replay", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	dir := fs.String("dir", "data/matches", "Match archive directory; the newest match is shown when -file is empty")
	file := fs.String("file", "", "Match parquet file to replay")
	speed := fs.Duration("speed", 300*time.Millisecond, "Autoplay delay between turns")
	if err := fs.Parse(os.Args[1:]); err != nil {
		log.Fatalf("flag parse: %v", err)
	}

	path := *file
	if path == "" {
		matches, err := store.ListMatches(*dir)
		if err != nil {
			log.Fatalf("list matches: %v", err)
		}
		if len(matches) == 0 {
			log.Fatalf("no matches in %s", *dir)
		}
		path = matches[len(matches)-1]
	}

	rows, err := store.ReadMatch(path)
	if err != nil {
		log.Fatalf("read match: %v", err)
	}
	fmt.Fprintf(os.Stderr, "replaying %s (%d turns)\n", path, len(rows))

	p := tea.NewProgram(replay.NewModel(rows, *speed), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		log.Fatal(err)
	}
}
