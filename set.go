package minsweeper

import "github.com/pkg/errors"

var ErrStartUnsupported = errors.New("start is unsupported for a set game")

// SetGame plays a predetermined state. Mines stay hidden while it is played.
type SetGame struct {
	*engine
}

func NewSetGame(state GameState, cfg ...*Config) *SetGame {
	return newSetGame(state.Clone(), resolveConfig(cfg))
}

func newSetGame(state GameState, cfg *Config) *SetGame {
	e := newEngine(state.Board.Size(), cfg)
	e.state = state

	return &SetGame{engine: e}
}

func (g *SetGame) Start() (GameState, error) {
	return g.GameState(), ErrStartUnsupported
}
