// Package config loads the REPL settings file
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"strings"

	"github.com/BurntSushi/toml"
)

type Config struct {
	Prompt         string   `toml:"prompt"`
	ContinuePrompt string   `toml:"continue_prompt"`
	HistoryFile    string   `toml:"history_file"`
	LogLevel       string   `toml:"log_level"`
	Preload        []string `toml:"preload"`
}

func Default() Config {
	return Config{
		Prompt:         "glisp> ",
		ContinuePrompt: "  ...> ",
		HistoryFile:    ".glisp_history",
		LogLevel:       "warn",
	}
}

// Load overlays the TOML file at path on the defaults. A missing file is not
// an error.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Default(), nil
		}
		return Default(), fmt.Errorf("config %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Default(), fmt.Errorf("config %s: unknown keys %s", path, strings.Join(keys, ", "))
	}
	if _, err := cfg.Level(); err != nil {
		return Default(), fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Level parses LogLevel
func (c Config) Level() (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("invalid log_level %q", c.LogLevel)
	}
	return l, nil
}
