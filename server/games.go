package server

import (
	"context"
	"sync"
	"time"

	"github.com/denismitr/minsweeper"
	"github.com/denismitr/minsweeper/hint"
	"github.com/denismitr/minsweeper/internal/snapshot"
	"github.com/denismitr/minsweeper/internal/solvers"
	"github.com/denismitr/minsweeper/store"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

// DefaultGenerator guarantees a safe first click without making generation
// expensive.
const DefaultGenerator = "safe-start"

var ErrOutOfBounds = errors.New("cell is off the board")

type GamesConfig struct {
	// MaxAttempts bounds how many boards are tried when generating a game.
	MaxAttempts int
	// GenerationTimeout bounds the first reveal of a game.
	GenerationTimeout time.Duration
	Workers           int
	Logger            *zerolog.Logger
}

func (cfg *GamesConfig) applyDefaults() {
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 100000
	}

	if cfg.GenerationTimeout <= 0 {
		cfg.GenerationTimeout = 10 * time.Second
	}

	if cfg.Logger == nil {
		l := zerolog.Nop()
		cfg.Logger = &l
	}
}

type NewGame struct {
	Size   string `json:"size"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Mines  int    `json:"mines"`
	// Solver the board must be solvable by, "none" for a plain random board.
	Solver string `json:"solver"`
}

func (ng NewGame) boardSize() (minsweeper.BoardSize, error) {
	if ng.Size != "" {
		c, err := minsweeper.ParseConventionalSize(ng.Size)
		if err != nil {
			return minsweeper.BoardSize{}, err
		}
		return c.Size(), nil
	}

	return minsweeper.NewBoardSize(ng.Width, ng.Height, ng.Mines)
}

// View is what a player gets to see of a game.
type View struct {
	ID     string            `json:"id"`
	Solver string            `json:"solver"`
	Game   snapshot.Snapshot `json:"game"`
}

type savable interface {
	minsweeper.Minsweeper
	Unhidden() (minsweeper.GameState, bool)
}

// Games plays stored games. Every change is a load, play and save of the
// record under one lock.
type Games struct {
	mu    sync.Mutex
	store *store.Store
	hints *hint.Service
	cfg   GamesConfig
}

func NewGames(st *store.Store, hints *hint.Service, cfg GamesConfig) *Games {
	cfg.applyDefaults()
	return &Games{store: st, hints: hints, cfg: cfg}
}

func (gs *Games) Create(ng NewGame) (View, error) {
	size, err := ng.boardSize()
	if err != nil {
		return View{}, err
	}

	if ng.Solver == "" {
		ng.Solver = DefaultGenerator
	}

	generator, err := solvers.Lookup(ng.Solver)
	if err != nil {
		return View{}, err
	}

	g, err := minsweeper.NewRandomGame(size, gs.config(generator))
	if err != nil {
		return View{}, err
	}

	if _, err := g.Start(); err != nil {
		return View{}, errors.Wrap(err, "could not start game")
	}

	rec := &store.Record{Solver: ng.Solver, Snapshot: unhidden(g, size.Mines)}

	gs.mu.Lock()
	defer gs.mu.Unlock()

	if err := gs.store.Create(rec); err != nil {
		return View{}, err
	}

	gs.cfg.Logger.Info().Str("id", rec.ID).Str("solver", rec.Solver).Msg("game created")
	return view(rec, g), nil
}

func (gs *Games) Get(id string) (View, error) {
	gs.mu.Lock()
	defer gs.mu.Unlock()

	rec, g, err := gs.loadUnderLock(id)
	if err != nil {
		return View{}, err
	}

	return view(rec, g), nil
}

func (gs *Games) Delete(id string) error {
	gs.mu.Lock()
	defer gs.mu.Unlock()

	if err := gs.store.Delete(id); err != nil {
		return err
	}

	gs.cfg.Logger.Info().Str("id", id).Msg("game deleted")
	return nil
}

func (gs *Games) List(status string) ([]store.Summary, error) {
	return gs.store.List(status)
}

// Click plays a left or right click. The first left click of a game lays its
// mines, which is bounded by ctx and the generation timeout.
func (gs *Games) Click(ctx context.Context, id string, p minsweeper.Point, action minsweeper.Action) (View, error) {
	return gs.play(id, p, func(g savable) error {
		if action == minsweeper.Right {
			g.RightClick(p.X, p.Y)
			return nil
		}

		rg, ok := g.(*minsweeper.RandomGame)
		if !ok {
			g.LeftClick(p.X, p.Y)
			return nil
		}

		ctx, cancel := context.WithTimeout(ctx, gs.cfg.GenerationTimeout)
		defer cancel()

		_, err := rg.LeftClickContext(ctx, p.X, p.Y)
		return err
	})
}

func (gs *Games) Flag(id string, p minsweeper.Point, flagged bool) (View, error) {
	return gs.play(id, p, func(g savable) error {
		g.SetFlagged(p.X, p.Y, flagged)
		return nil
	})
}

// Hint asks solver for the next move of a game. An empty solver key uses
// the default solver.
func (gs *Games) Hint(id, solver string) (*hint.Hint, error) {
	s, err := solvers.Get(solver)
	if err != nil {
		return nil, err
	}

	gs.mu.Lock()
	_, g, err := gs.loadUnderLock(id)
	gs.mu.Unlock()
	if err != nil {
		return nil, err
	}

	return gs.hints.Hint(s, g.GameState())
}

func (gs *Games) play(id string, p minsweeper.Point, fn func(g savable) error) (View, error) {
	gs.mu.Lock()
	defer gs.mu.Unlock()

	rec, g, err := gs.loadUnderLock(id)
	if err != nil {
		return View{}, err
	}

	if size := rec.Snapshot.Size(); p.X < 0 || p.Y < 0 || p.X >= size.Width || p.Y >= size.Height {
		return View{}, errors.Wrapf(ErrOutOfBounds, "%d,%d", p.X, p.Y)
	}

	if err := fn(g); err != nil {
		return View{}, err
	}

	rec.Snapshot = unhidden(g, rec.Snapshot.Mines)
	if err := gs.store.Save(rec); err != nil {
		return View{}, err
	}

	return view(rec, g), nil
}

func (gs *Games) loadUnderLock(id string) (*store.Record, savable, error) {
	rec, err := gs.store.Get(id)
	if err != nil {
		return nil, nil, err
	}

	generator, err := solvers.Lookup(rec.Solver)
	if err != nil {
		return nil, nil, errors.Wrapf(store.ErrInvalidRecord, "game %s: %v", id, err)
	}

	cfg := gs.config(generator)
	if !rec.Snapshot.Laid {
		g, err := minsweeper.NewRandomGame(rec.Snapshot.Size(), cfg)
		if err != nil {
			return nil, nil, errors.Wrapf(store.ErrInvalidRecord, "game %s: %v", id, err)
		}
		if _, err := g.Start(); err != nil {
			return nil, nil, err
		}
		return rec, g, nil
	}

	state, err := rec.Snapshot.Minefield()
	if err != nil {
		return nil, nil, errors.Wrapf(store.ErrInvalidRecord, "game %s: %v", id, err)
	}

	return rec, minsweeper.NewSetGame(state, cfg), nil
}

func (gs *Games) config(generator minsweeper.Solver) *minsweeper.Config {
	return &minsweeper.Config{
		Solver:      generator,
		Workers:     gs.cfg.Workers,
		MaxAttempts: gs.cfg.MaxAttempts,
		Logger:      gs.cfg.Logger,
	}
}

func unhidden(g savable, mines int) snapshot.Snapshot {
	state, laid := g.Unhidden()
	s := snapshot.New(state, mines)
	s.Laid = laid
	return s
}

func view(rec *store.Record, g savable) View {
	_, laid := g.Unhidden()
	s := snapshot.New(g.GameState(), rec.Snapshot.Mines)
	s.Laid = laid
	return View{ID: rec.ID, Solver: rec.Solver, Game: s}
}
