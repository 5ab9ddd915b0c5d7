// Package snapshot converts game states to and from their JSON wire form,
// where the board is drawn one row of glyphs per string.
package snapshot

import (
	"strings"

	"github.com/denismitr/minsweeper"
	"github.com/pkg/errors"
)

var ErrInvalidSnapshot = errors.New("invalid snapshot")

type Snapshot struct {
	Width          int      `json:"width"`
	Height         int      `json:"height"`
	Mines          int      `json:"mines"`
	Status         string   `json:"status"`
	RemainingMines int      `json:"remainingMines"`
	Rows           []string `json:"rows"`
	// Laid is false for a generated game whose mines are not placed yet.
	Laid bool `json:"laid"`
}

// New draws gs. mines is the total for the board since a hidden board does
// not show them.
func New(gs minsweeper.GameState, mines int) Snapshot {
	s := Snapshot{
		Mines:          mines,
		Status:         gs.Status.String(),
		RemainingMines: gs.RemainingMines,
		Laid:           true,
	}

	if gs.Board != nil {
		s.Width, s.Height = gs.Board.Width(), gs.Board.Height()
		s.Rows = strings.Split(strings.TrimSuffix(gs.Board.String(), "\n"), "\n")
	}

	return s
}

// Size is the board size the snapshot was taken from.
func (s Snapshot) Size() minsweeper.BoardSize {
	return minsweeper.BoardSize{Width: s.Width, Height: s.Height, Mines: s.Mines}
}

// State parses the rows back into a game state.
func (s Snapshot) State() (minsweeper.GameState, error) {
	status := minsweeper.ParseGameStatus(s.Status)
	if status.String() != s.Status {
		return minsweeper.GameState{}, errors.Wrapf(ErrInvalidSnapshot, "unknown status %q", s.Status)
	}

	b, err := minsweeper.ParseBoard(strings.Join(s.Rows, "\n"))
	if err != nil {
		return minsweeper.GameState{}, errors.Wrap(err, "could not parse snapshot rows")
	}

	if b.Width() != s.Width || b.Height() != s.Height {
		return minsweeper.GameState{}, errors.Wrapf(
			ErrInvalidSnapshot,
			"board is %dx%d, expected %dx%d", b.Width(), b.Height(), s.Width, s.Height,
		)
	}

	return minsweeper.NewGameState(status, b, s.RemainingMines), nil
}

// Minefield is State for a snapshot taken with mines visible: the covered
// cells that are not mines get their numbers back.
func (s Snapshot) Minefield() (minsweeper.GameState, error) {
	if !s.Laid {
		return minsweeper.GameState{}, errors.Wrap(ErrInvalidSnapshot, "mines are not laid")
	}

	gs, err := s.State()
	if err != nil {
		return gs, err
	}

	gs.Board.FillNumbers()
	return gs, nil
}
