// Package config loads the settings shared by the minsweeper commands from
// defaults, a TOML file and MINSWEEPER_* environment variables.
package config

import (
	"time"

	"github.com/cristalhq/aconfig"
	"github.com/cristalhq/aconfig/aconfigtoml"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

const DefaultFile = "minsweeper.toml"

var ErrInvalidConfig = errors.New("invalid config")

type Config struct {
	Log struct {
		Level string `default:"info" usage:"debug, info, warn or error"`
		JSON  bool   `default:"false" usage:"Output JSON lines instead of console messages"`
	}
	Generation struct {
		Workers     int           `default:"0" usage:"Goroutines generating boards, 0 for one per CPU"`
		MaxAttempts int           `default:"100000" usage:"Boards tried before giving up"`
		Timeout     time.Duration `default:"10s" usage:"Time allowed to generate a board"`
	}
	Hint struct {
		CacheBytes uint64 `default:"0" usage:"Hint cache size, 0 sizes it from the machine memory"`
		Disabled   bool   `default:"false"`
	}
	Store struct {
		Dir string `usage:"Directory of the game database, empty keeps games in memory"`
	}
	HTTP struct {
		Address      string        `default:"127.0.0.1:8080" usage:"Address to listen on"`
		ReadTimeout  time.Duration `default:"15s"`
		WriteTimeout time.Duration `default:"15s"`
		Development  bool          `default:"false"`
	}
}

var logLevels = map[string]zerolog.Level{
	"trace":   zerolog.TraceLevel,
	"debug":   zerolog.DebugLevel,
	"info":    zerolog.InfoLevel,
	"warn":    zerolog.WarnLevel,
	"warning": zerolog.WarnLevel,
	"error":   zerolog.ErrorLevel,
}

// Load reads the config. Missing files are skipped. Flags are left to the
// commands.
func Load(files ...string) (*Config, error) {
	if len(files) == 0 {
		files = []string{DefaultFile}
	}

	cfg := &Config{}
	loader := aconfig.LoaderFor(cfg, aconfig.Config{
		SkipFlags: true,
		EnvPrefix: "MINSWEEPER",
		Files:     files,
		FileDecoders: map[string]aconfig.FileDecoder{
			".toml": aconfigtoml.New(),
		},
	})

	if err := loader.Load(); err != nil {
		return nil, errors.Wrap(err, "could not load config")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (cfg *Config) Validate() error {
	if _, ok := logLevels[cfg.Log.Level]; !ok {
		return errors.Wrapf(ErrInvalidConfig, "log.level %q", cfg.Log.Level)
	}

	if cfg.Generation.Workers < 0 {
		return errors.Wrapf(ErrInvalidConfig, "generation.workers %d", cfg.Generation.Workers)
	}

	if cfg.Generation.MaxAttempts < 0 {
		return errors.Wrapf(ErrInvalidConfig, "generation.max_attempts %d", cfg.Generation.MaxAttempts)
	}

	if cfg.HTTP.Address == "" {
		return errors.Wrap(ErrInvalidConfig, "http.address is empty")
	}

	return nil
}

func (cfg *Config) LogLevel() zerolog.Level {
	return logLevels[cfg.Log.Level]
}
