// SPDX-License-Identifier: MIT
// Package: lvsparse/cmd/lvsparse
//
// config.go — TOML configuration, flag overrides and the zap logger.
//
// Resolution order (later wins):
//  1. built-in defaults (defaultConfig)
//  2. the TOML file named by --config
//  3. explicit persistent flags (--levels, --value, --db, --log-level, ...)

package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/katalvlaran/lvsparse/engine"
	"github.com/katalvlaran/lvsparse/sparse"
)

// Config is the on-disk configuration. Every field is optional.
type Config struct {
	// Levels is a comma separated level list ("d,c"). Empty means dense
	// outermost dimension, compressed below it.
	Levels   string `toml:"levels"`
	Value    string `toml:"value"`
	Pointer  string `toml:"pointer"`
	Index    string `toml:"index"`
	DB       string `toml:"db"`
	LogLevel string `toml:"log_level"`
	Seed     int64  `toml:"seed"`
}

const (
	defaultDB       = "lvsparse.db"
	defaultLogLevel = "warn"
	defaultSeed     = 1
)

// errBadConfig marks configuration values that cannot be interpreted.
var errBadConfig = errors.New("lvsparse: invalid configuration")

func defaultConfig() Config {
	return Config{
		Value:    "f64",
		Pointer:  "index",
		Index:    "index",
		DB:       defaultDB,
		LogLevel: defaultLogLevel,
		Seed:     defaultSeed,
	}
}

// loadConfig merges the TOML file at path over the defaults. An empty path
// returns the defaults. Unknown keys are rejected.
func loadConfig(path string) (Config, error) {
	cfg := defaultConfig()
	if path == "" {
		return cfg, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return cfg, fmt.Errorf("config: %w", err)
	}
	defer f.Close()

	dec := toml.NewDecoder(f).DisallowUnknownFields()
	if err = dec.Decode(&cfg); err != nil {
		return cfg, fmt.Errorf("config %s: %w: %w", path, errBadConfig, err)
	}

	return cfg, nil
}

// kind resolves the configured (pointer, index, value) instantiation.
func (c Config) kind() (sparse.Kind, error) {
	p, err := sparse.ParseOverheadType(c.Pointer)
	if err != nil {
		return sparse.Kind{}, fmt.Errorf("pointer: %w", err)
	}
	i, err := sparse.ParseOverheadType(c.Index)
	if err != nil {
		return sparse.Kind{}, fmt.Errorf("index: %w", err)
	}
	v, err := sparse.ParsePrimaryType(c.Value)
	if err != nil {
		return sparse.Kind{}, fmt.Errorf("value: %w", err)
	}
	k := sparse.Kind{Pointer: p, Index: i, Value: v}
	if !sparse.Supported(k) {
		return sparse.Kind{}, fmt.Errorf("kind %s: %w", k, sparse.ErrUnsupportedKind)
	}

	return k, nil
}

// levels returns the configured level list for a tensor of the given rank.
func (c Config) levels(rank int) ([]sparse.DimLevelType, error) {
	if strings.TrimSpace(c.Levels) == "" {
		out := make([]sparse.DimLevelType, rank)
		for d := 1; d < rank; d++ {
			out[d] = sparse.LevelCompressed
		}

		return out, nil
	}
	out, err := sparse.ParseLevels(c.Levels)
	if err != nil {
		return nil, err
	}
	if len(out) != rank {
		return nil, fmt.Errorf("levels %q for rank %d: %w", c.Levels, rank, sparse.ErrRankMismatch)
	}

	return out, nil
}

// request builds the engine request that packs path with the configured kind.
func (c Config) request(path string, rank int) (engine.Request, error) {
	k, err := c.kind()
	if err != nil {
		return engine.Request{}, err
	}
	levels, err := c.levels(rank)
	if err != nil {
		return engine.Request{}, err
	}

	return engine.Request{
		Levels:  levels,
		Pointer: k.Pointer,
		Index:   k.Index,
		Value:   k.Value,
		Action:  engine.ActionFromFile,
		Path:    path,
	}, nil
}

// newLogger builds a console logger at level. "debug" selects the
// development preset; every other level uses the production preset.
func newLogger(level string) (*zap.SugaredLogger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("log level %q: %w: %w", level, errBadConfig, err)
	}
	zc := zap.NewProductionConfig()
	if lvl == zapcore.DebugLevel {
		zc = zap.NewDevelopmentConfig()
	}
	zc.Level = zap.NewAtomicLevelAt(lvl)
	zc.Encoding = "console"
	zc.OutputPaths = []string{"stderr"}
	l, err := zc.Build()
	if err != nil {
		return nil, err
	}

	return l.Sugar(), nil
}
