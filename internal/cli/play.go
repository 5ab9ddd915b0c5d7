package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/denismitr/minsweeper"
	"github.com/denismitr/minsweeper/hint"
	"github.com/denismitr/minsweeper/internal/snapshot"
	"github.com/denismitr/minsweeper/internal/solvers"
	"github.com/spf13/cobra"
)

const playHelp = `commands:
  l x,y   reveal a cell, or chord a revealed number
  r x,y   toggle a flag
  c x,y   chord a revealed number
  h       ask for a hint
  s file  save the game
  q       quit
`

type playOptions struct {
	size      string
	generator string
	hinter    string
	load      string
}

type playable interface {
	minsweeper.Minsweeper
	Unhidden() (minsweeper.GameState, bool)
}

func newPlayCmd(a *app) *cobra.Command {
	var opts playOptions

	cmd := &cobra.Command{
		Use:   "play",
		Short: "Play a game in the terminal",
		Long:  "Play a game in the terminal.\n\n" + playHelp,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.play(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout(), opts)
		},
	}

	cmd.Flags().StringVarP(&opts.size, "size", "s", string(minsweeper.Beginner), "beginner, intermediate or expert")
	cmd.Flags().StringVarP(&opts.generator, "generator", "g", "safe-start", "Solver the board must be solvable by, or none")
	cmd.Flags().StringVar(&opts.hinter, "hint-solver", solvers.DefaultName, "Solver giving hints")
	cmd.Flags().StringVar(&opts.load, "load", "", "Resume a saved game")
	return cmd
}

func (a *app) play(ctx context.Context, in io.Reader, out io.Writer, opts playOptions) error {
	if ctx == nil {
		ctx = context.Background()
	}

	g, mines, err := a.newPlayable(opts)
	if err != nil {
		return err
	}

	hinter, err := solvers.Get(opts.hinter)
	if err != nil {
		return err
	}

	hints, err := hint.NewService(hint.Config{Disabled: true, Logger: &a.logger})
	if err != nil {
		return err
	}

	state := g.GameState()
	printState(out, state)

	scanner := bufio.NewScanner(in)
	for state.Status == minsweeper.Playing {
		fmt.Fprint(out, "> ")
		if !scanner.Scan() {
			return scanner.Err()
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		verb, rest := line[:1], strings.TrimSpace(line[1:])
		switch verb {
		case "q":
			return nil
		case "h":
			h, err := hints.Hint(hinter, state)
			if err != nil {
				return err
			}
			printHint(out, h)
			continue
		case "s":
			st, laid := g.Unhidden()
			s := snapshot.New(st, mines)
			s.Laid = laid
			if err := snapshot.WriteFile(rest, s); err != nil {
				return err
			}
			fmt.Fprintf(out, "saved to %s\n", rest)
			continue
		}

		x, y, err := parsePoint(rest)
		if err != nil {
			fmt.Fprintln(out, err)
			fmt.Fprint(out, playHelp)
			continue
		}

		switch verb {
		case "l":
			state, err = leftClick(ctx, g, x, y, a.cfg.Generation.Timeout)
			if err != nil {
				return err
			}
		case "r":
			state = g.RightClick(x, y)
		case "c":
			state = g.ClearAround(x, y)
		default:
			fmt.Fprint(out, playHelp)
			continue
		}

		printState(out, state)
	}

	if state.Status == minsweeper.Won {
		fmt.Fprintln(out, "You won!")
	} else {
		fmt.Fprintln(out, "Boom! You lost.")
	}

	return nil
}

func (a *app) newPlayable(opts playOptions) (playable, int, error) {
	cfg := a.gameConfig()

	if opts.load != "" {
		s, err := snapshot.ReadFile(opts.load)
		if err != nil {
			return nil, 0, err
		}

		if !s.Laid {
			g, err := minsweeper.NewRandomGame(s.Size(), cfg)
			if err != nil {
				return nil, 0, err
			}
			_, err = g.Start()
			return g, s.Mines, err
		}

		state, err := s.Minefield()
		if err != nil {
			return nil, 0, err
		}
		return minsweeper.NewSetGame(state, cfg), s.Mines, nil
	}

	size, err := minsweeper.ParseConventionalSize(opts.size)
	if err != nil {
		return nil, 0, err
	}

	generator, err := solvers.Lookup(opts.generator)
	if err != nil {
		return nil, 0, err
	}

	cfg.Solver = generator
	g, err := minsweeper.NewConventionalGame(size, cfg)
	if err != nil {
		return nil, 0, err
	}

	_, err = g.Start()
	return g, size.Size().Mines, err
}

// leftClick bounds the generation of a fresh game by timeout.
func leftClick(ctx context.Context, g playable, x, y int, timeout time.Duration) (minsweeper.GameState, error) {
	rg, ok := g.(*minsweeper.RandomGame)
	if !ok {
		return g.LeftClick(x, y), nil
	}

	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	return rg.LeftClickContext(ctx, x, y)
}

func (a *app) gameConfig() *minsweeper.Config {
	return &minsweeper.Config{
		Workers:     a.cfg.Generation.Workers,
		MaxAttempts: a.cfg.Generation.MaxAttempts,
		Logger:      &a.logger,
	}
}

func printState(out io.Writer, state minsweeper.GameState) {
	fmt.Fprintf(out, "%s, %d mines left\n%s", state.Status, state.RemainingMines, state.Board)
}

func printHint(out io.Writer, h *hint.Hint) {
	if h == nil {
		fmt.Fprintln(out, "no certain move, you will have to guess")
		return
	}

	for _, c := range h.Clicks {
		fmt.Fprintf(out, "%s %d,%d\n", c.Action, c.Point.X, c.Point.Y)
	}
	if h.Description != "" {
		fmt.Fprintf(out, "because %s\n", h.Description)
	}
}
