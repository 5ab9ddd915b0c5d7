package minsweeper_test

import (
	"context"
	"testing"
	"time"

	"github.com/denismitr/minsweeper"
	"github.com/denismitr/minsweeper/solver/start"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

// mines at (0,0) and (3,3)
const field = `
*...
....
....
...*
`

type setGameTestSuite struct {
	suite.Suite
	game  *minsweeper.SetGame
	wins  int
	loses int
}

func (s *setGameTestSuite) SetupTest() {
	b, err := minsweeper.ParseMinefield(field)
	s.Require().NoError(err)

	s.wins, s.loses = 0, 0
	s.game = minsweeper.NewSetGame(
		minsweeper.NewGameState(minsweeper.Playing, b, b.Size().Mines),
		&minsweeper.Config{
			OnWin:  func() { s.wins++ },
			OnLose: func() { s.loses++ },
		},
	)
}

func (s *setGameTestSuite) TestStartIsUnsupported() {
	st, err := s.game.Start()
	s.Require().Error(err)
	s.Assert().True(errors.Is(err, minsweeper.ErrStartUnsupported))
	s.Assert().Equal(minsweeper.Playing, st.Status)
}

func (s *setGameTestSuite) TestMinesAreHiddenWhilePlaying() {
	st := s.game.GameState()
	s.Assert().Equal("####\n####\n####\n####\n", st.Board.String())
	s.Assert().Equal(2, st.RemainingMines)
}

func (s *setGameTestSuite) TestRevealNumber() {
	st := s.game.Reveal(1, 1)
	s.Assert().Equal(minsweeper.Playing, st.Status)

	n, ok := st.Board.Get(1, 1).Number()
	s.Require().True(ok)
	s.Assert().Equal(1, n)
	s.Assert().Equal(minsweeper.Covered, st.Board.Get(2, 2).State)
}

func (s *setGameTestSuite) TestRevealZeroFloodsAndWins() {
	st := s.game.Reveal(3, 0)

	s.Assert().Equal(minsweeper.Won, st.Status)
	s.Assert().Equal("*1..\n11..\n..11\n..1*\n", st.Board.String())
	s.Assert().Equal(1, s.wins)
	s.Assert().Equal(0, s.loses)
}

func (s *setGameTestSuite) TestRevealMineLoses() {
	st := s.game.Reveal(0, 0)

	s.Assert().Equal(minsweeper.Lost, st.Status)
	s.Assert().Equal(minsweeper.Cell{Type: minsweeper.Mine, State: minsweeper.Revealed}, st.Board.Get(0, 0))
	s.Assert().Equal(1, s.loses)

	// nothing changes once the game is over
	after := s.game.Reveal(3, 0)
	s.Assert().Equal(minsweeper.Lost, after.Status)
	s.Assert().Equal(minsweeper.Covered, after.Board.Get(3, 0).State)
	s.Assert().Equal(1, s.loses)
}

func (s *setGameTestSuite) TestCallbacksSeeTheFinishedGame() {
	tt := []struct {
		x, y int
		want minsweeper.GameStatus
	}{
		{x: 3, y: 0, want: minsweeper.Won},
		{x: 0, y: 0, want: minsweeper.Lost},
	}

	for _, tc := range tt {
		b, err := minsweeper.ParseMinefield(field)
		s.Require().NoError(err)

		var g *minsweeper.SetGame
		seen := make(chan minsweeper.GameStatus, 1)
		report := func() { seen <- g.GameState().Status }
		g = minsweeper.NewSetGame(
			minsweeper.NewGameState(minsweeper.Playing, b, b.Size().Mines),
			&minsweeper.Config{OnWin: report, OnLose: report},
		)

		go g.Reveal(tc.x, tc.y)

		select {
		case status := <-seen:
			s.Assert().Equal(tc.want, status)
		case <-time.After(5 * time.Second):
			s.Failf("callback blocked", "reveal %d,%d", tc.x, tc.y)
		}
	}
}

func (s *setGameTestSuite) TestFlags() {
	st := s.game.SetFlagged(0, 0, true)
	s.Assert().Equal(minsweeper.Flagged, st.Board.Get(0, 0).State)
	s.Assert().Equal(1, st.RemainingMines)

	st = s.game.SetFlagged(0, 0, true)
	s.Assert().Equal(1, st.RemainingMines, "flagging twice counts once")

	st = s.game.ToggleFlag(0, 0)
	s.Assert().Equal(minsweeper.Covered, st.Board.Get(0, 0).State)
	s.Assert().Equal(2, st.RemainingMines)

	st = s.game.RightClick(2, 2)
	s.Assert().Equal(minsweeper.Flagged, st.Board.Get(2, 2).State)
	s.Assert().Equal(1, st.RemainingMines)

	st = s.game.LeftClick(2, 2)
	s.Assert().Equal(minsweeper.Flagged, st.Board.Get(2, 2).State, "left click on a flag does nothing")

	s.game.Reveal(1, 1)
	st = s.game.SetFlagged(1, 1, true)
	s.Assert().Equal(minsweeper.Revealed, st.Board.Get(1, 1).State, "revealed cells can not be flagged")
}

func (s *setGameTestSuite) TestChord() {
	s.game.Reveal(1, 1)
	s.game.SetFlagged(0, 0, true)

	// the chord opens an empty cell whose flood clears the board
	st := s.game.LeftClick(1, 1)
	s.Assert().Equal(minsweeper.Won, st.Status)
	s.Assert().Equal(minsweeper.Revealed, st.Board.Get(2, 2).State)
	s.Assert().Equal(minsweeper.Revealed, st.Board.Get(0, 1).State)
	s.Assert().Equal(minsweeper.Flagged, st.Board.Get(0, 0).State)
	s.Assert().Equal(1, s.wins)
}

func (s *setGameTestSuite) TestChordWithoutEnoughFlags() {
	s.game.Reveal(1, 1)

	st := s.game.ClearAround(1, 1)
	s.Assert().Equal(minsweeper.Covered, st.Board.Get(2, 2).State)
}

func (s *setGameTestSuite) TestChordOnWrongFlagLoses() {
	s.game.Reveal(1, 1)
	s.game.SetFlagged(1, 0, true)

	st := s.game.ClearAround(1, 1)
	s.Assert().Equal(minsweeper.Lost, st.Status)
	s.Assert().Equal(minsweeper.Revealed, st.Board.Get(0, 0).State)
	s.Assert().Equal(1, s.loses)
}

func (s *setGameTestSuite) TestOutOfBoundsIsIgnored() {
	before := s.game.GameState()

	s.Assert().Equal(before, s.game.Reveal(-1, 0))
	s.Assert().Equal(before, s.game.LeftClick(4, 0))
	s.Assert().Equal(before, s.game.RightClick(0, 4))
	s.Assert().Equal(before, s.game.ClearAround(9, 9))
}

func TestSetGame(t *testing.T) {
	suite.Run(t, &setGameTestSuite{})
}

func TestRandomGame(t *testing.T) {
	size := minsweeper.BoardSize{Width: 8, Height: 8, Mines: 10}

	t.Run("invalid size", func(t *testing.T) {
		_, err := minsweeper.NewRandomGame(minsweeper.BoardSize{Width: 2, Height: 2, Mines: 4})
		assert.True(t, errors.Is(err, minsweeper.ErrTooManyMines))
	})

	t.Run("not started", func(t *testing.T) {
		g, err := minsweeper.NewRandomGame(size)
		require.NoError(t, err)

		st := g.Reveal(0, 0)
		assert.Equal(t, minsweeper.Never, st.Status)
		assert.Equal(t, minsweeper.Resigned, minsweeper.Run(resigner{}, g))
	})

	t.Run("start gives a covered board", func(t *testing.T) {
		g, err := minsweeper.NewConventionalGame(minsweeper.Beginner)
		require.NoError(t, err)

		st, err := g.Start()
		require.NoError(t, err)
		assert.Equal(t, minsweeper.Playing, st.Status)
		assert.Equal(t, 10, st.RemainingMines)
		assert.Equal(t, 0, st.Board.Flags())
		assert.Equal(t, minsweeper.Cell{Type: minsweeper.Unknown, State: minsweeper.Covered}, st.Board.Get(4, 4))
	})

	t.Run("flags are refused before the first reveal", func(t *testing.T) {
		g, err := minsweeper.NewRandomGame(size)
		require.NoError(t, err)
		_, err = g.Start()
		require.NoError(t, err)

		st := g.RightClick(1, 1)
		assert.Equal(t, minsweeper.Covered, st.Board.Get(1, 1).State)
		assert.Equal(t, 10, st.RemainingMines)
	})

	t.Run("first reveal lays the mines", func(t *testing.T) {
		var lost bool
		g, err := minsweeper.NewRandomGame(size, &minsweeper.Config{Seed: 7, OnLose: func() { lost = true }})
		require.NoError(t, err)
		_, err = g.Start()
		require.NoError(t, err)

		st := g.Reveal(3, 3)
		if st.Status == minsweeper.Lost {
			assert.True(t, lost)
			assert.Equal(t, 10, st.Board.Mines())
			return
		}

		assert.Equal(t, minsweeper.Revealed, st.Board.Get(3, 3).State)
		if st.Status == minsweeper.Won {
			return
		}

		var covered minsweeper.Point
		st.Board.Each(func(p minsweeper.Point, c minsweeper.Cell) bool {
			covered = p
			return c.State != minsweeper.Covered
		})

		st = g.RightClick(covered.X, covered.Y)
		assert.Equal(t, minsweeper.Flagged, st.Board.At(covered).State)
		assert.Equal(t, 9, st.RemainingMines)
	})

	t.Run("same seed gives the same board", func(t *testing.T) {
		boards := make([]string, 2)
		for i := range boards {
			g, err := minsweeper.NewRandomGame(size, &minsweeper.Config{Seed: 42, Workers: 1})
			require.NoError(t, err)
			_, err = g.Start()
			require.NoError(t, err)

			g.Reveal(0, 0)
			g.Reveal(7, 7)
			boards[i] = g.GameState().Board.String()
		}

		assert.Equal(t, boards[0], boards[1])
	})

	t.Run("generated board is safe for the first click", func(t *testing.T) {
		for seed := int64(1); seed <= 20; seed++ {
			g, err := minsweeper.NewRandomGame(size, &minsweeper.Config{Solver: start.SafeStart{}, Seed: seed})
			require.NoError(t, err)
			_, err = g.Start()
			require.NoError(t, err)

			st, err := g.RevealContext(context.Background(), 0, 0)
			require.NoError(t, err)
			assert.NotEqual(t, minsweeper.Lost, st.Status)
		}
	})

	t.Run("start with a solver", func(t *testing.T) {
		g, err := minsweeper.NewRandomGame(size, &minsweeper.Config{Seed: 3})
		require.NoError(t, err)
		assert.Nil(t, g.Solver())

		_, err = g.StartWith(start.ZeroStart{})
		require.NoError(t, err)
		assert.Equal(t, "Zero Start", g.Solver().Name())

		st := g.LeftClick(4, 4)
		n, ok := st.Board.Get(4, 4).Number()
		require.True(t, ok)
		assert.Equal(t, 0, n)
	})
}

// resigner never wins a game.
type resigner struct{}

func (resigner) Solve(minsweeper.GameState) *minsweeper.Move { return nil }
func (resigner) Name() string                                 { return "resigner" }
func (resigner) Description() string                          { return "never makes a move" }

func (resigner) Play(g minsweeper.Minsweeper) minsweeper.Result {
	return minsweeper.ResultOf(minsweeper.Never)
}

func TestRandomGame_GenerationFailures(t *testing.T) {
	size := minsweeper.BoardSize{Width: 8, Height: 8, Mines: 10}

	t.Run("exhausted attempts are reported", func(t *testing.T) {
		g, err := minsweeper.NewRandomGame(size, &minsweeper.Config{Solver: resigner{}, MaxAttempts: 20, Workers: 2})
		require.NoError(t, err)
		_, err = g.Start()
		require.NoError(t, err)

		st, err := g.RevealContext(context.Background(), 0, 0)
		require.Error(t, err)
		assert.True(t, errors.Is(err, minsweeper.ErrGenerationExhausted))
		assert.Equal(t, minsweeper.Playing, st.Status)
		assert.Equal(t, minsweeper.Covered, st.Board.Get(0, 0).State)
	})

	t.Run("exhausted attempts fall back to a random board", func(t *testing.T) {
		g, err := minsweeper.NewRandomGame(size, &minsweeper.Config{Solver: resigner{}, MaxAttempts: 20, Workers: 2})
		require.NoError(t, err)
		_, err = g.Start()
		require.NoError(t, err)

		st := g.Reveal(0, 0)
		assert.NotEqual(t, minsweeper.Covered, st.Board.Get(0, 0).State)
	})

	t.Run("cancelled generation is interrupted", func(t *testing.T) {
		g, err := minsweeper.NewRandomGame(size, &minsweeper.Config{Solver: resigner{}})
		require.NoError(t, err)
		_, err = g.Start()
		require.NoError(t, err)

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err = g.LeftClickContext(ctx, 0, 0)
		require.Error(t, err)
		assert.True(t, errors.Is(err, minsweeper.ErrGenerationInterrupted))
	})
}
