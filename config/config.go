// Package config holds the bot's tunables and loads them from YAML.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/brensch/offgrass/logging"
	"github.com/brensch/offgrass/planner"
)

type Config struct {
	Heuristics planner.Params `yaml:"heuristics"`
	Timing     Timing         `yaml:"timing"`
	// Message is sent with every turn's commands.
	Message string `yaml:"message"`
	Log     Log    `yaml:"log"`
	Record  Record `yaml:"record"`
}

// Timing bounds how long a turn may plan for. The referee allows more time on
// the first turn.
type Timing struct {
	FirstTurnBudget time.Duration `yaml:"first_turn_budget"`
	TurnBudget      time.Duration `yaml:"turn_budget"`
}

type Log struct {
	Level  string `yaml:"level"`
	Pretty bool   `yaml:"pretty"`
}

// Record controls match archiving. An empty Dir disables it.
type Record struct {
	Dir string `yaml:"dir"`
}

func Default() Config {
	return Config{
		Heuristics: planner.DefaultParams(),
		Timing: Timing{
			FirstTurnBudget: 950 * time.Millisecond,
			TurnBudget:      45 * time.Millisecond,
		},
		Message: "Yeet",
		Log:     Log{Level: "info"},
	}
}

// Budget returns the planning budget for the given 1-based turn number.
func (t Timing) Budget(turn int) time.Duration {
	if turn <= 1 {
		return t.FirstTurnBudget
	}
	return t.TurnBudget
}

// Load reads a YAML file over the defaults. Keys missing from the file keep
// their default value; unknown keys are an error.
func Load(path string) (Config, error) {
	cfg := Default()
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	dec := yaml.NewDecoder(bytes.NewReader(b))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if err := c.Heuristics.Validate(); err != nil {
		return fmt.Errorf("heuristics: %w", err)
	}
	if c.Timing.FirstTurnBudget <= 0 || c.Timing.TurnBudget <= 0 {
		return fmt.Errorf("timing: budgets must be positive, got %s and %s", c.Timing.FirstTurnBudget, c.Timing.TurnBudget)
	}
	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("log: %w", err)
	}
	return nil
}
