package cli

import (
	"context"
	"fmt"
	"io"
	"sync/atomic"
	"time"

	"github.com/denismitr/minsweeper"
	"github.com/denismitr/minsweeper/internal/solvers"
	"github.com/pkg/errors"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

type benchOptions struct {
	games     int
	size      string
	solver    string
	generator string
	workers   int
	seed      int64
	quiet     bool
}

type benchResult struct {
	won, lost, resigned int64
	took                time.Duration
}

func (r benchResult) String() string {
	total := r.won + r.lost + r.resigned
	rate := 0.0
	if total > 0 {
		rate = float64(r.won) * 100 / float64(total)
	}
	return fmt.Sprintf("won %d/%d (%.1f%%), lost %d, resigned %d in %s",
		r.won, total, rate, r.lost, r.resigned, r.took.Round(time.Millisecond))
}

func newBenchCmd(a *app) *cobra.Command {
	var opts benchOptions

	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Play random games with a solver and report how often it wins",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}

			res, err := a.bench(ctx, cmd.ErrOrStderr(), opts)
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), res)
			return nil
		},
	}

	cmd.Flags().IntVarP(&opts.games, "games", "n", 100, "Games to play")
	cmd.Flags().StringVarP(&opts.size, "size", "s", string(minsweeper.Beginner), "beginner, intermediate or expert")
	cmd.Flags().StringVar(&opts.solver, "solver", solvers.DefaultName, "Solver playing the games")
	cmd.Flags().StringVarP(&opts.generator, "generator", "g", "safe-start", "Solver the boards must be solvable by, or none")
	cmd.Flags().IntVarP(&opts.workers, "workers", "w", 0, "Games played at once, defaults to generation.workers")
	cmd.Flags().Int64Var(&opts.seed, "seed", 0, "Seed of the first game, 0 for random games")
	cmd.Flags().BoolVarP(&opts.quiet, "quiet", "q", false, "Hide the progress bar")
	return cmd
}

// bench plays the games on a fixed pool of workers. Every game starts with a
// click in the middle of the board.
func (a *app) bench(ctx context.Context, progress io.Writer, opts benchOptions) (benchResult, error) {
	var res benchResult
	if opts.games <= 0 {
		return res, errors.Errorf("games must be positive, got %d", opts.games)
	}

	size, err := minsweeper.ParseConventionalSize(opts.size)
	if err != nil {
		return res, err
	}

	solver, err := solvers.Get(opts.solver)
	if err != nil {
		return res, err
	}

	generator, err := solvers.Lookup(opts.generator)
	if err != nil {
		return res, err
	}

	workers := opts.workers
	if workers <= 0 {
		workers = a.cfg.Generation.Workers
	}
	if workers <= 0 {
		workers = 4
	}

	bar := progressbar.NewOptions(opts.games,
		progressbar.OptionSetWriter(progress),
		progressbar.OptionSetDescription(solver.Name()),
		progressbar.OptionShowCount(),
		progressbar.OptionSetVisibility(!opts.quiet),
	)

	started := time.Now()
	games := make(chan int)
	eg, ctx := errgroup.WithContext(ctx)

	eg.Go(func() error {
		defer close(games)
		for i := 0; i < opts.games; i++ {
			select {
			case games <- i:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		return nil
	})

	for w := 0; w < workers; w++ {
		eg.Go(func() error {
			for i := range games {
				var seed int64
				if opts.seed != 0 {
					seed = opts.seed + int64(i)
				}

				result, err := a.benchGame(ctx, size.Size(), solver, generator, seed)
				if err != nil {
					return errors.Wrapf(err, "game %d", i)
				}

				switch result {
				case minsweeper.Solved:
					atomic.AddInt64(&res.won, 1)
				case minsweeper.Failed:
					atomic.AddInt64(&res.lost, 1)
				default:
					atomic.AddInt64(&res.resigned, 1)
				}

				_ = bar.Add(1)
			}
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return res, err
	}

	_ = bar.Finish()
	res.took = time.Since(started)

	a.logger.Debug().Str("solver", solver.Name()).Int("games", opts.games).Msg(res.String())
	return res, nil
}

func (a *app) benchGame(ctx context.Context, size minsweeper.BoardSize, solver, generator minsweeper.Solver, seed int64) (minsweeper.Result, error) {
	cfg := a.gameConfig()
	cfg.Solver = generator
	cfg.Seed = seed
	cfg.Workers = 1

	g, err := minsweeper.NewRandomGame(size, cfg)
	if err != nil {
		return minsweeper.Resigned, err
	}

	if _, err := g.Start(); err != nil {
		return minsweeper.Resigned, err
	}

	if _, err := g.RevealContext(ctx, size.Width/2, size.Height/2); err != nil {
		return minsweeper.Resigned, err
	}

	return minsweeper.Run(solver, g), nil
}
