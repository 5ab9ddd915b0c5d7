package minsweeper

import (
	"runtime"
	"time"

	"github.com/rs/zerolog"
)

const defaultProgressEvery = 1000

// Config tunes game generation and hooks. The zero value is usable.
type Config struct {
	// Solver, when set, makes RandomGame generate boards the solver can win
	// from the first click without guessing.
	Solver Solver
	OnWin  func()
	OnLose func()

	// Workers is the number of goroutines generating candidate boards.
	Workers int
	// MaxAttempts bounds how many candidate boards are tried. 0 means no limit.
	MaxAttempts int
	// Seed for the random source. 0 seeds from the clock.
	Seed int64
	// ProgressEvery logs generation progress every n attempts.
	ProgressEvery int

	Logger *zerolog.Logger
}

func (cfg *Config) applyDefaults() {
	if cfg.Workers <= 0 {
		cfg.Workers = runtime.NumCPU()
	}

	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}

	if cfg.ProgressEvery <= 0 {
		cfg.ProgressEvery = defaultProgressEvery
	}

	if cfg.Logger == nil {
		l := zerolog.Nop()
		cfg.Logger = &l
	}
}

func resolveConfig(cfgs []*Config) *Config {
	cfg := &Config{}
	if len(cfgs) > 0 && cfgs[0] != nil {
		c := *cfgs[0]
		cfg = &c
	}

	cfg.applyDefaults()
	return cfg
}
