package minsweeper

import (
	"context"
	"math/rand"
	"sync/atomic"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
)

var ErrGenerationInterrupted = errors.New("game generation interrupted")
var ErrGenerationExhausted = errors.New("game generation attempts exhausted")

// RandomGame places mines at random when the first cell is revealed. With a
// Config.Solver it keeps generating boards until the solver can win one from
// that first click, which gives games that never require a guess.
//
// The solver is shared between the generation workers and must be safe for
// concurrent use.
type RandomGame struct {
	*engine
	cfg   *Config
	seeds int64
}

func NewRandomGame(size BoardSize, cfg ...*Config) (*RandomGame, error) {
	if err := size.Validate(); err != nil {
		return nil, err
	}

	c := resolveConfig(cfg)
	g := &RandomGame{engine: newEngine(size, c), cfg: c}
	g.engine.generate = g.generate

	return g, nil
}

// NewConventionalGame is NewRandomGame for one of the classic presets.
func NewConventionalGame(size ConventionalSize, cfg ...*Config) (*RandomGame, error) {
	return NewRandomGame(size.Size(), cfg...)
}

// Start begins a new game on a covered board. No flag can be placed before
// the first reveal, which is when the mines are laid.
func (g *RandomGame) Start() (GameState, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.state = NewGameState(Playing, NewBoard(g.size), g.size.Mines)
	g.first = true

	return g.viewUnderLock(), nil
}

// StartWith replaces the generation solver and starts a new game.
func (g *RandomGame) StartWith(s Solver) (GameState, error) {
	g.mu.Lock()
	g.cfg.Solver = s
	g.mu.Unlock()

	return g.Start()
}

func (g *RandomGame) Solver() Solver {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.cfg.Solver
}

func (g *RandomGame) generate(ctx context.Context, x, y int, strict bool) (GameState, error) {
	if g.cfg.Solver == nil {
		return g.randomState(g.newRand()), nil
	}

	st, err := g.generateSolvable(ctx, g.cfg.Solver, x, y)
	if err == nil {
		return st, nil
	}

	if !strict && errors.Is(err, ErrGenerationExhausted) {
		g.log.Warn().Err(err).Str("solver", g.cfg.Solver.Name()).Msg("falling back to a random board")
		return g.randomState(g.newRand()), nil
	}

	return GameState{}, err
}

func (g *RandomGame) generateSolvable(parent context.Context, s Solver, x, y int) (GameState, error) {
	ctx, cancel := context.WithCancel(parent)
	defer cancel()

	grp, ctx := errgroup.WithContext(ctx)
	found := make(chan GameState, 1)
	var attempts int64

	for i := 0; i < g.cfg.Workers; i++ {
		rng := g.newRand()
		grp.Go(func() error {
			for ctx.Err() == nil {
				n := atomic.AddInt64(&attempts, 1)
				if g.cfg.MaxAttempts > 0 && n > int64(g.cfg.MaxAttempts) {
					return ErrGenerationExhausted
				}

				if n%int64(g.cfg.ProgressEvery) == 0 {
					g.log.Debug().Int64("attempts", n).Str("solver", s.Name()).Msg("still generating")
				}

				candidate := g.randomState(rng)
				if solvableFrom(s, candidate, x, y) {
					select {
					case found <- candidate:
					default:
					}
					cancel()
					return nil
				}
			}

			return nil
		})
	}

	err := grp.Wait()

	select {
	case st := <-found:
		g.log.Debug().
			Int64("attempts", atomic.LoadInt64(&attempts)).
			Str("solver", s.Name()).
			Msg("generated solvable board")
		return st, nil
	default:
	}

	if err != nil {
		return GameState{}, errors.Wrapf(err, "solver %s", s.Name())
	}

	if parent.Err() != nil {
		return GameState{}, errors.Wrap(ErrGenerationInterrupted, parent.Err().Error())
	}

	return GameState{}, ErrGenerationInterrupted
}

func (g *RandomGame) newRand() *rand.Rand {
	n := atomic.AddInt64(&g.seeds, 1)
	return rand.New(rand.NewSource(g.cfg.Seed + n))
}

func (g *RandomGame) randomState(rng *rand.Rand) GameState {
	return NewGameState(Playing, randomBoard(g.size, rng), g.size.Mines)
}

// randomBoard lays size.Mines mines uniformly at random.
func randomBoard(size BoardSize, rng *rand.Rand) *Board {
	b := NewBoard(size)
	for _, i := range rng.Perm(size.Cells())[:size.Mines] {
		b.cells[i] = Cell{Type: Mine, State: Covered}
	}

	b.FillNumbers()
	return b
}

var quiet = resolveConfig(nil)

// solvableFrom replays the first click on a copy of the candidate and lets
// the solver play the rest.
func solvableFrom(s Solver, candidate GameState, x, y int) bool {
	game := newSetGame(candidate.Clone(), quiet)
	game.Reveal(x, y)

	return Run(s, game) == Solved
}
