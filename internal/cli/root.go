// Package cli holds the minsweeper commands.
package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/denismitr/minsweeper/internal/config"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

type app struct {
	configFile string
	logLevel   string

	cfg    *config.Config
	logger zerolog.Logger
}

func NewRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "minsweeper",
		Short: "Minesweeper games, solvers and a game server",
		Long: `Play minesweeper in the terminal, ask solvers for the next move,
benchmark them on random games or serve games over HTTP.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd.ErrOrStderr())
		},
	}

	root.PersistentFlags().StringVarP(&a.configFile, "config", "c", config.DefaultFile, "TOML config file")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "Overrides log.level of the config")

	root.AddCommand(newPlayCmd(a), newSolveCmd(a), newBenchCmd(a), newServeCmd(a))
	return root
}

func Execute() {
	cobra.CheckErr(NewRootCmd().Execute())
}

func (a *app) setup(stderr io.Writer) error {
	cfg, err := config.Load(a.configFile)
	if err != nil {
		return err
	}

	if a.logLevel != "" {
		cfg.Log.Level = a.logLevel
		if err := cfg.Validate(); err != nil {
			return err
		}
	}

	var out io.Writer = stderr
	if !cfg.Log.JSON {
		out = consoleWriter(stderr)
	}

	a.cfg = cfg
	a.logger = zerolog.New(out).Level(cfg.LogLevel()).With().Timestamp().Logger()
	return nil
}

func consoleWriter(out io.Writer) zerolog.ConsoleWriter {
	writer := zerolog.ConsoleWriter{Out: out}
	writer.TimeFormat = "15:04:05"
	writer.PartsOrder = []string{
		zerolog.TimestampFieldName,
		"req",
		zerolog.LevelFieldName,
		zerolog.MessageFieldName,
	}
	writer.FormatFieldValue = func(value interface{}) string {
		if value == nil {
			return ""
		}
		return fmt.Sprintf("%v", value)
	}
	return writer
}

var errBadPoint = errors.New("expected a cell as x,y")

// parsePoint reads "x,y" or "x y".
func parsePoint(s string) (int, int, error) {
	parts := strings.FieldsFunc(s, func(r rune) bool { return r == ',' || r == ' ' })
	if len(parts) != 2 {
		return 0, 0, errors.Wrapf(errBadPoint, "%q", s)
	}

	x, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, errors.Wrapf(errBadPoint, "%q", s)
	}

	y, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, 0, errors.Wrapf(errBadPoint, "%q", s)
	}

	return x, y, nil
}
