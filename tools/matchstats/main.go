// Command matchstats prints a one-line summary of every archived match.
package main

import (
	"flag"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/brensch/offgrass/store"
)

func main() {
	dir := flag.String("dir", "data/matches", "Directory containing match parquet archives")
	flag.Parse()

	absDir, err := filepath.Abs(*dir)
	if err != nil {
		die("abs dir: %v", err)
	}

	inputs := make([]string, 0, 64)
	if err := filepath.WalkDir(absDir, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return nil
		}
		if d.IsDir() {
			// Matches still being written live in tmp/.
			if d.Name() == "tmp" {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.HasSuffix(strings.ToLower(d.Name()), ".parquet") {
			inputs = append(inputs, path)
		}
		return nil
	}); err != nil {
		die("walk dir: %v", err)
	}
	if len(inputs) == 0 {
		die("no match archives found in %s", absDir)
	}

	failed := 0
	var turns, truncated int
	for _, path := range inputs {
		rows, err := store.ReadMatch(path)
		if err != nil {
			failed++
			fmt.Fprintf(os.Stderr, "read %s: %v\n", path, err)
			continue
		}
		s := store.Summarize(rows)
		turns += s.Turns
		truncated += s.TruncatedTurns
		fmt.Println(s)
	}

	fmt.Fprintf(os.Stderr, "done: matches=%d failed=%d turns=%d truncated=%d\n", len(inputs)-failed, failed, turns, truncated)
	if failed > 0 {
		os.Exit(1)
	}
}

func die(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(2)
}
