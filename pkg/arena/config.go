package arena

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// EngineConfig names a program and the parameters it is started with.
type EngineConfig struct {
	Name   string `json:"name"`
	Params []any  `json:"params"`
}

// Engine converts the entry into a descriptor.
func (c EngineConfig) Engine() Engine {
	return NewEngine(c.Name, c.Params...)
}

// VariantConfig describes a parameter sweep over one program.
type VariantConfig struct {
	Name  string  `json:"name"`
	Sweep [][]any `json:"sweep"`
}

// Config is the tournament configuration file.
type Config struct {
	EnginesDir  string            `json:"engines_dir"`
	Baseline    EngineConfig      `json:"baseline"`
	Variant     VariantConfig     `json:"variant"`
	Opponents   []EngineConfig    `json:"opponents"`
	Games       int               `json:"games"`
	Millis      int               `json:"millis"`
	GraceMillis int               `json:"grace_millis"`
	Processes   int               `json:"processes"`
	StartFEN    string            `json:"start_fen"`
	Options     map[string]string `json:"options"`
	Log         string            `json:"log"`
	Records     string            `json:"records"`
	DB          string            `json:"db"`
}

// MoveTime is the time limit per move.
func (c Config) MoveTime() time.Duration {
	return time.Duration(c.Millis) * time.Millisecond
}

// Roster returns the opponents of the baseline: every combination of the
// variant sweep followed by the explicitly listed opponents.
func (c Config) Roster() []Engine {
	var roster []Engine
	if c.Variant.Name != "" {
		roster = append(roster, Sweep(c.Variant.Name, c.Variant.Sweep)...)
	}
	for _, o := range c.Opponents {
		roster = append(roster, o.Engine())
	}
	return roster
}

// Validate checks the fields a tournament cannot run without.
func (c Config) Validate() error {
	if c.Baseline.Name == "" {
		return errors.New("baseline engine is required")
	}
	if c.Variant.Name == "" && len(c.Opponents) == 0 {
		return errors.New("a variant sweep or at least one opponent is required")
	}
	if c.Games <= 0 {
		return fmt.Errorf("games must be > 0, got %d", c.Games)
	}
	if c.Millis <= 0 {
		return fmt.Errorf("millis must be > 0, got %d", c.Millis)
	}
	return nil
}

func FindConfigPath() (string, string, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return "", "", err
	}
	dir := cwd
	for {
		path := filepath.Join(dir, "config.json")
		if _, err := os.Stat(path); err == nil {
			return path, filepath.Dir(path), nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", "", fmt.Errorf("config.json not found from %s", cwd)
}

// LoadConfig reads a config file. Relative paths in it are resolved against
// the file's directory and unset fields get their defaults.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	cfg := Config{EnginesDir: "engines"}
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse %s: %w", path, err)
	}
	root := filepath.Dir(path)
	for _, p := range []*string{&cfg.EnginesDir, &cfg.Log, &cfg.Records, &cfg.DB} {
		if *p != "" && !filepath.IsAbs(*p) {
			*p = filepath.Join(root, *p)
		}
	}
	if cfg.Processes <= 0 {
		cfg.Processes = DefaultProcesses()
	}
	return cfg, nil
}
