// Command bot plays the territory game against a referee.
//
// By default it speaks the referee protocol on stdin/stdout. With -ws it
// connects to a websocket referee instead. Logs always go to stderr.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/brensch/offgrass/bot"
	"github.com/brensch/offgrass/config"
	"github.com/brensch/offgrass/logging"
	"github.com/brensch/offgrass/store"
	"github.com/brensch/offgrass/transport"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "bot: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	fs := flag.NewFlagSet("bot", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	configPath := fs.String("config", "", "YAML config file (defaults are used when empty)")
	wsURL := fs.String("ws", "", "Websocket referee URL; stdin/stdout when empty")
	recordDir := fs.String("record-dir", "", "Directory to archive matches to as parquet")
	logLevel := fs.String("log-level", "", "Log level: debug, info, warn, error")
	pretty := fs.Bool("pretty", false, "Indent JSON logs")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("flag parse: %w", err)
	}

	cfg := config.Default()
	if *configPath != "" {
		var err error
		if cfg, err = config.Load(*configPath); err != nil {
			return err
		}
	}
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "record-dir":
			cfg.Record.Dir = *recordDir
		case "log-level":
			cfg.Log.Level = *logLevel
		case "pretty":
			cfg.Log.Pretty = *pretty
		}
	})

	logger, err := logging.New(os.Stderr, cfg.Log.Level, cfg.Log.Pretty)
	if err != nil {
		return err
	}
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var in io.Reader = os.Stdin
	var out io.Writer = os.Stdout
	if *wsURL != "" {
		conn, err := transport.Dial(ctx, *wsURL, transport.Options{HandshakeTimeout: 10 * time.Second})
		if err != nil {
			return err
		}
		defer conn.Close()
		in, out = conn, conn
		logger.Info("connected to referee", "url", *wsURL)
	}

	var rec bot.Recorder
	if cfg.Record.Dir != "" {
		r, err := store.NewRecorder(cfg.Record.Dir)
		if err != nil {
			return err
		}
		defer func() {
			path, rows, err := r.Finalize()
			if err != nil {
				logger.Error("failed to finalize match archive", "path", r.OutPath(), "err", err)
				return
			}
			if path != "" {
				logger.Info("match archived", "path", path, "turns", rows, "match", r.MatchID())
			}
		}()
		rec = r
		logger = logger.With("match", r.MatchID())
	}

	return bot.New(cfg, rec, logger).Run(ctx, in, out)
}
