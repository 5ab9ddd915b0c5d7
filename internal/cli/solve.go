package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/denismitr/minsweeper"
	"github.com/denismitr/minsweeper/hint"
	"github.com/denismitr/minsweeper/internal/snapshot"
	"github.com/denismitr/minsweeper/internal/solvers"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

type solveOptions struct {
	solver    string
	remaining int
	minefield bool
	start     string
}

func newSolveCmd(a *app) *cobra.Command {
	var opts solveOptions

	cmd := &cobra.Command{
		Use:   "solve file",
		Short: "Show the next certain move of a board, or play a minefield through",
		Long: `Reads a board drawn one row per line, or a saved game (.json), and prints
the next move the solver is certain about.

With --minefield the file marks mines with '*' and every other cell is safe.
The solver then plays the whole game from --start and every move is printed.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := solvers.Get(opts.solver)
			if err != nil {
				return err
			}

			if opts.minefield {
				return a.playMinefield(cmd.OutOrStdout(), s, args[0], opts.start)
			}

			state, err := readState(args[0], opts.remaining)
			if err != nil {
				return err
			}

			hints, err := hint.NewService(hint.Config{Disabled: true, Logger: &a.logger})
			if err != nil {
				return err
			}

			h, err := hints.Hint(s, state)
			if err != nil {
				return err
			}

			printHint(cmd.OutOrStdout(), h)
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.solver, "solver", solvers.DefaultName, "Solver to use")
	cmd.Flags().IntVar(&opts.remaining, "remaining", -1, "Mines left to find, defaults to the mines drawn minus the flags")
	cmd.Flags().BoolVar(&opts.minefield, "minefield", false, "The file is a full minefield to play through")
	cmd.Flags().StringVar(&opts.start, "start", "0,0", "First cell revealed on a minefield")
	return cmd
}

func readState(path string, remaining int) (minsweeper.GameState, error) {
	if filepath.Ext(path) == ".json" {
		s, err := snapshot.ReadFile(path)
		if err != nil {
			return minsweeper.GameState{}, err
		}
		return s.State()
	}

	b, err := readBoard(path, minsweeper.ParseBoard)
	if err != nil {
		return minsweeper.GameState{}, err
	}

	if remaining < 0 {
		remaining = b.Mines() - b.Flags()
	}
	if remaining < 0 {
		remaining = 0
	}

	return minsweeper.NewGameState(minsweeper.Playing, b, remaining), nil
}

func readBoard(path string, parse func(string) (*minsweeper.Board, error)) (*minsweeper.Board, error) {
	text, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "could not read board %s", path)
	}

	return parse(string(text))
}

func (a *app) playMinefield(out io.Writer, s minsweeper.Solver, path, start string) error {
	b, err := readBoard(path, minsweeper.ParseMinefield)
	if err != nil {
		return err
	}

	x, y, err := parsePoint(start)
	if err != nil {
		return err
	}

	g := minsweeper.NewSetGame(minsweeper.NewGameState(minsweeper.Playing, b, b.Size().Mines), a.gameConfig())
	state := g.Reveal(x, y)

	var result minsweeper.Result
	if _, ok := s.(minsweeper.Player); ok {
		result = minsweeper.Run(s, g)
		state = g.GameState()
	} else {
		for state.Status == minsweeper.Playing {
			m := s.Solve(state)
			if m == nil || len(m.Clicks) == 0 {
				break
			}
			fmt.Fprintln(out, m)
			state = minsweeper.Apply(g, m)
		}
		result = minsweeper.ResultOf(state.Status)
	}

	fmt.Fprintf(out, "%s%s\n", state.Board, result)
	return nil
}
