package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/denismitr/minsweeper/hint"
	"github.com/denismitr/minsweeper/server"
	"github.com/denismitr/minsweeper/store"
	"github.com/spf13/cobra"
)

func newServeCmd(a *app) *cobra.Command {
	var address string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve games over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			if address != "" {
				a.cfg.HTTP.Address = address
			}

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}

			ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
			defer stop()

			return a.serve(ctx)
		},
	}

	cmd.Flags().StringVarP(&address, "address", "a", "", "Overrides http.address of the config")
	return cmd
}

func (a *app) serve(ctx context.Context) error {
	st, err := store.Open(store.Options{Dir: a.cfg.Store.Dir, Logger: &a.logger})
	if err != nil {
		return err
	}
	defer func() {
		if err := st.Close(); err != nil {
			a.logger.Error().Err(err).Msg("could not close the game store")
		}
	}()

	hints, err := hint.NewService(hint.Config{
		MaxBytes: a.cfg.Hint.CacheBytes,
		Disabled: a.cfg.Hint.Disabled,
		Logger:   &a.logger,
	})
	if err != nil {
		return err
	}

	games := server.NewGames(st, hints, server.GamesConfig{
		MaxAttempts:       a.cfg.Generation.MaxAttempts,
		GenerationTimeout: a.cfg.Generation.Timeout,
		Workers:           a.cfg.Generation.Workers,
		Logger:            &a.logger,
	})

	srv := server.New(games, server.Config{
		Address:      a.cfg.HTTP.Address,
		ReadTimeout:  a.cfg.HTTP.ReadTimeout,
		WriteTimeout: a.cfg.HTTP.WriteTimeout,
		Development:  a.cfg.HTTP.Development,
		Logger:       &a.logger,
	})

	err = srv.ListenAndServe(ctx)

	stats := hints.Stats()
	a.logger.Info().
		Int64("hits", stats.Hits).
		Int64("misses", stats.Misses).
		Int("entries", stats.Entries).
		Uint64("bytes", stats.Bytes).
		Msg("hint cache")

	return err
}
