package minsweeper

import (
	"context"
	"sync"

	"github.com/rs/zerolog"
)

// Minsweeper is a playable game. Every operation returns the state the
// player is allowed to see and is a no-op while the game is not Playing or
// when the coordinates are off the board.
type Minsweeper interface {
	Start() (GameState, error)
	GameState() GameState
	Reveal(x, y int) GameState
	ClearAround(x, y int) GameState
	SetFlagged(x, y int, flagged bool) GameState
	ToggleFlag(x, y int) GameState
	LeftClick(x, y int) GameState
	RightClick(x, y int) GameState
}

type outcome int8

const (
	noOutcome outcome = iota
	winOutcome
	loseOutcome
)

type generator func(ctx context.Context, x, y int, strict bool) (GameState, error)

// engine holds the rules shared by every game implementation.
type engine struct {
	mu     sync.Mutex
	size   BoardSize
	state  GameState
	hiding bool
	first  bool

	generate generator
	onWin    func()
	onLose   func()
	log      *zerolog.Logger
}

func newEngine(size BoardSize, cfg *Config) *engine {
	return &engine{
		size:   size,
		state:  NewGameState(Never, NewBoard(size), 0),
		hiding: true,
		onWin:  cfg.OnWin,
		onLose: cfg.OnLose,
		log:    cfg.Logger,
	}
}

// GameState returns a copy of the current state. While the game is being
// played the types of unrevealed cells are hidden.
func (e *engine) GameState() GameState {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.viewUnderLock()
}

// Unhidden returns a copy of the state with every cell type visible, for
// saving a game. laid is false while a generated game still waits for the
// first reveal to place its mines.
func (e *engine) Unhidden() (state GameState, laid bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.state.Clone(), e.generate == nil || (!e.first && e.state.Status != Never)
}

func (e *engine) viewUnderLock() GameState {
	if e.hiding && e.state.Status == Playing {
		return e.state.HideMines()
	}
	return e.state.Clone()
}

func (e *engine) playableUnderLock(x, y int) bool {
	return e.state.Status == Playing && e.state.Board != nil && e.state.Board.InBounds(x, y)
}

func (e *engine) Reveal(x, y int) GameState {
	st, err := e.reveal(context.Background(), x, y, false)
	if err != nil {
		e.log.Error().Err(err).Int("x", x).Int("y", y).Msg("reveal failed")
	}
	return st
}

// RevealContext reveals a cell. When the reveal is the first one of a
// generated game the board is generated first and ctx bounds that work.
func (e *engine) RevealContext(ctx context.Context, x, y int) (GameState, error) {
	return e.reveal(ctx, x, y, true)
}

func (e *engine) reveal(ctx context.Context, x, y int, strict bool) (GameState, error) {
	e.mu.Lock()
	if !e.playableUnderLock(x, y) {
		defer e.mu.Unlock()
		return e.viewUnderLock(), nil
	}

	if err := e.prepareUnderLock(ctx, x, y, strict); err != nil {
		defer e.mu.Unlock()
		return e.viewUnderLock(), err
	}

	board := e.state.Board.Clone()
	safe := revealCell(board, x, y)
	st, out := e.settleUnderLock(board, safe)
	e.mu.Unlock()

	e.fire(out)
	return st, nil
}

func (e *engine) prepareUnderLock(ctx context.Context, x, y int, strict bool) error {
	if !e.first {
		return nil
	}

	if e.generate != nil {
		st, err := e.generate(ctx, x, y, strict)
		if err != nil {
			return err
		}
		e.state = st
	}

	e.first = false
	return nil
}

// ClearAround reveals every covered cell around a revealed number once the
// flags around it account for that number.
func (e *engine) ClearAround(x, y int) GameState {
	e.mu.Lock()
	if !e.playableUnderLock(x, y) {
		defer e.mu.Unlock()
		return e.viewUnderLock()
	}

	board := e.state.Board.Clone()
	number, ok := board.Get(x, y).Number()
	if !ok {
		defer e.mu.Unlock()
		return e.viewUnderLock()
	}

	flags := board.CountAround(x, y, func(c Cell) bool { return c.State == Flagged })

	safe := true
	if flags == number {
		for _, p := range board.Around(x, y) {
			safe = revealCell(board, p.X, p.Y) && safe
		}
	}

	st, out := e.settleUnderLock(board, safe)
	e.mu.Unlock()

	e.fire(out)
	return st
}

func (e *engine) SetFlagged(x, y int, flagged bool) GameState {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.setFlaggedUnderLock(x, y, flagged)
}

func (e *engine) setFlaggedUnderLock(x, y int, flagged bool) GameState {
	if !e.playableUnderLock(x, y) || e.first {
		return e.viewUnderLock()
	}

	cell := e.state.Board.Get(x, y)
	if cell.State == Revealed {
		return e.viewUnderLock()
	}

	remaining := e.state.RemainingMines
	if flagged != (cell.State == Flagged) {
		if flagged {
			remaining--
		} else {
			remaining++
		}
	}

	board := e.state.Board.Clone()
	cell.State = Covered
	if flagged {
		cell.State = Flagged
	}
	board.Set(x, y, cell)

	e.state = e.state.withBoard(board).withRemainingMines(remaining)
	return e.viewUnderLock()
}

func (e *engine) ToggleFlag(x, y int) GameState {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.playableUnderLock(x, y) {
		return e.viewUnderLock()
	}

	switch e.state.Board.Get(x, y).State {
	case Covered:
		return e.setFlaggedUnderLock(x, y, true)
	case Flagged:
		return e.setFlaggedUnderLock(x, y, false)
	}

	return e.viewUnderLock()
}

// LeftClick chords on revealed cells, ignores flagged ones and reveals the rest.
func (e *engine) LeftClick(x, y int) GameState {
	st, err := e.leftClick(context.Background(), x, y, false)
	if err != nil {
		e.log.Error().Err(err).Int("x", x).Int("y", y).Msg("left click failed")
	}
	return st
}

func (e *engine) LeftClickContext(ctx context.Context, x, y int) (GameState, error) {
	return e.leftClick(ctx, x, y, true)
}

func (e *engine) leftClick(ctx context.Context, x, y int, strict bool) (GameState, error) {
	e.mu.Lock()
	if !e.playableUnderLock(x, y) {
		defer e.mu.Unlock()
		return e.viewUnderLock(), nil
	}
	state := e.state.Board.Get(x, y).State
	e.mu.Unlock()

	switch state {
	case Revealed:
		return e.ClearAround(x, y), nil
	case Flagged:
		return e.GameState(), nil
	}

	return e.reveal(ctx, x, y, strict)
}

func (e *engine) RightClick(x, y int) GameState {
	return e.ToggleFlag(x, y)
}

func (e *engine) settleUnderLock(board *Board, safe bool) (GameState, outcome) {
	e.state = e.state.withBoard(board)

	if !safe {
		e.state = e.state.withStatus(Lost)
		return e.viewUnderLock(), loseOutcome
	}

	if board.HasWon() {
		e.state = e.state.withStatus(Won)
		return e.viewUnderLock(), winOutcome
	}

	return e.viewUnderLock(), noOutcome
}

func (e *engine) fire(out outcome) {
	switch out {
	case winOutcome:
		if e.onWin != nil {
			e.onWin()
		}
	case loseOutcome:
		if e.onLose != nil {
			e.onLose()
		}
	}
}

// revealCell uncovers (x, y) and reports false when it was a mine.
func revealCell(board *Board, x, y int) bool {
	cell := board.Get(x, y)
	if cell.State != Covered {
		return true
	}

	switch {
	case cell.Type.IsMine():
		board.Set(x, y, Cell{Type: Mine, State: Revealed})
		return false
	case cell.Type.IsSafe():
		if n, _ := cell.Type.Number(); n == 0 {
			floodReveal(board, x, y)
		} else {
			board.Set(x, y, Cell{Type: cell.Type, State: Revealed})
		}
	}

	return true
}

// floodReveal uncovers the connected region of empty cells starting at
// (x, y) together with the numbered cells bordering it.
func floodReveal(board *Board, x, y int) {
	stack := []Point{{X: x, Y: y}}
	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		c := board.At(p)
		if c.State != Covered || c.Type != Empty {
			continue
		}
		board.Set(p.X, p.Y, Cell{Type: Empty, State: Revealed})

		for _, n := range board.Neighbours(p.X, p.Y) {
			nc := board.At(n)
			if nc.State != Covered || !nc.Type.IsSafe() {
				continue
			}
			if nc.Type == Empty {
				stack = append(stack, n)
			} else {
				board.Set(n.X, n.Y, Cell{Type: nc.Type, State: Revealed})
			}
		}
	}
}
