package mia

import (
	"math/rand"
	"testing"

	"github.com/denismitr/minsweeper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func playing(t *testing.T, text string, remaining int) minsweeper.GameState {
	t.Helper()
	b, err := minsweeper.ParseBoard(text)
	require.NoError(t, err)
	return minsweeper.NewGameState(minsweeper.Playing, b, remaining)
}

func left(x, y int) minsweeper.Click {
	return minsweeper.Click{Point: minsweeper.Pt(x, y), Action: minsweeper.Left}
}

func right(x, y int) minsweeper.Click {
	return minsweeper.Click{Point: minsweeper.Pt(x, y), Action: minsweeper.Right}
}

func logicOf(t *testing.T, m *minsweeper.Move) Logic {
	t.Helper()
	require.NotNil(t, m)
	require.NotNil(t, m.Reason)
	l, ok := m.Reason.Logic.(Logic)
	require.True(t, ok)
	return l
}

// setGame starts a predetermined game from a minefield and makes the first
// reveal at (x, y).
func setGame(t *testing.T, minefield string, x, y int) *minsweeper.SetGame {
	t.Helper()
	b, err := minsweeper.ParseMinefield(minefield)
	require.NoError(t, err)

	g := minsweeper.NewSetGame(minsweeper.NewGameState(minsweeper.Playing, b, b.Size().Mines))
	g.Reveal(x, y)
	return g
}

func TestBeginner(t *testing.T) {
	t.Run("chords when the flags match the number", func(t *testing.T) {
		m := Beginner{}.Solve(playing(t, "1!\n##", 0))
		require.NotNil(t, m)
		assert.Equal(t, []minsweeper.Click{left(0, 0)}, m.Clicks)
		assert.Equal(t, Chord, logicOf(t, m))
		assert.Equal(t, []minsweeper.Point{minsweeper.Pt(1, 0)}, m.Reason.Related)
	})

	t.Run("flags the only covered neighbour", func(t *testing.T) {
		m := Beginner{}.Solve(playing(t, "1#\n11", 1))
		require.NotNil(t, m)
		assert.Equal(t, []minsweeper.Click{right(1, 0)}, m.Clicks)
		assert.Equal(t, FlagChord, logicOf(t, m))
	})

	t.Run("removes a flag from an over flagged number", func(t *testing.T) {
		m := Beginner{}.Solve(playing(t, "1!\n!1", 0))
		require.NotNil(t, m)
		assert.Equal(t, []minsweeper.Click{right(1, 0)}, m.Clicks)
		assert.Nil(t, m.Reason)
	})

	t.Run("gives up without a certain move", func(t *testing.T) {
		assert.Nil(t, Beginner{}.Solve(playing(t, "1#\n##", 1)))
	})

	t.Run("does nothing on a finished game", func(t *testing.T) {
		st := playing(t, "1!\n##", 0)
		st.Status = minsweeper.Lost
		assert.Nil(t, Beginner{}.Solve(st))
	})
}

func TestIntermediate(t *testing.T) {
	t.Run("the 1-2-1 pattern forces a mine", func(t *testing.T) {
		m := Intermediate{}.Solve(playing(t, "###\n121\n...", 2))
		require.NotNil(t, m)
		assert.Equal(t, []minsweeper.Click{right(2, 0)}, m.Clicks)
		assert.Equal(t, MultiFlagFlag, logicOf(t, m))
		assert.Equal(t, []minsweeper.Point{minsweeper.Pt(0, 0), minsweeper.Pt(1, 0)}, m.Reason.Related)
	})

	t.Run("a shared region leaves the rest safe", func(t *testing.T) {
		m := Intermediate{}.Solve(playing(t, "###\n111\n...", 1))
		require.NotNil(t, m)
		assert.Equal(t, []minsweeper.Click{left(2, 0)}, m.Clicks)
		assert.Equal(t, MultiFlagReveal, logicOf(t, m))
	})

	t.Run("reveals one cell once no mine is left", func(t *testing.T) {
		m := Intermediate{}.Solve(playing(t, "##\n##", 0))
		require.NotNil(t, m)
		assert.Equal(t, []minsweeper.Click{left(0, 0)}, m.Clicks)
		assert.Equal(t, ZeroMinesRemaining, logicOf(t, m))
	})
}

func TestExpert(t *testing.T) {
	t.Run("exhausting the mine count clears the interior", func(t *testing.T) {
		m := Expert{}.Solve(playing(t, "#1##", 1))
		require.NotNil(t, m)
		assert.Equal(t, []minsweeper.Click{left(3, 0)}, m.Clicks)
		assert.Equal(t, BruteForceExhaustion, logicOf(t, m))
	})

	t.Run("frontiers at the limit are not enumerated", func(t *testing.T) {
		st := playing(t, "#1##", 1)
		assert.Nil(t, bruteForceMove(st, 2))
	})
}

func TestBruteForceMove(t *testing.T) {
	m := bruteForceMove(playing(t, "###\n121\n...", 2), BruteForceLimit)
	require.NotNil(t, m)
	assert.Equal(t, []minsweeper.Click{right(0, 0), left(1, 0), right(2, 0)}, m.Clicks)
	assert.Equal(t, BruteForce, logicOf(t, m))
}

func TestFrontier_Enumerate(t *testing.T) {
	t.Run("single unique solution", func(t *testing.T) {
		f := newFrontier(playing(t, "###\n121\n...", 2).Board)
		require.Len(t, f.cells, 3)
		require.Empty(t, f.interior)

		tl := f.enumerate(2)
		assert.Equal(t, 1, tl.solutions)
		assert.Equal(t, []int{1, 0, 1}, tl.mines)
		assert.True(t, tl.exhaustive)
	})

	t.Run("the mine counter limits solutions", func(t *testing.T) {
		f := newFrontier(playing(t, "###\n121\n...", 1).Board)
		tl := f.enumerate(1)
		assert.Equal(t, 0, tl.solutions)
	})

	t.Run("solutions that leave too many mines for the interior are dropped", func(t *testing.T) {
		f := newFrontier(playing(t, "#1##\n####", 4).Board)
		// the frontier holds 5 cells with one mine, the two interior cells can
		// not take the other three
		require.Len(t, f.cells, 5)
		require.Len(t, f.interior, 2)

		tl := f.enumerate(4)
		assert.Equal(t, 0, tl.solutions)
	})
}

func TestSolver(t *testing.T) {
	t.Run("flags every covered neighbour at once", func(t *testing.T) {
		m := Solver{}.Solve(playing(t, "2#\n#.", 2))
		require.NotNil(t, m)
		assert.Equal(t, []minsweeper.Click{right(1, 0), right(0, 1)}, m.Clicks)
		assert.Equal(t, FlagChord, logicOf(t, m))
	})

	t.Run("removes every flag of an over flagged number", func(t *testing.T) {
		m := Solver{}.Solve(playing(t, "1!\n!1", 0))
		require.NotNil(t, m)
		assert.Equal(t, []minsweeper.Click{right(1, 0), right(0, 1)}, m.Clicks)
	})

	t.Run("region inside another forces a mine", func(t *testing.T) {
		m := Solver{}.Solve(playing(t, "###\n121\n...", 2))
		require.NotNil(t, m)
		assert.Equal(t, []minsweeper.Click{right(2, 0)}, m.Clicks)
		assert.Equal(t, RegionDeductionFlag, logicOf(t, m))
	})

	t.Run("region inside another with the same count leaves the rest safe", func(t *testing.T) {
		m := Solver{}.Solve(playing(t, "###\n111\n...", 1))
		require.NotNil(t, m)
		assert.Equal(t, []minsweeper.Click{left(2, 0)}, m.Clicks)
		assert.Equal(t, RegionDeductionReveal, logicOf(t, m))
	})

	t.Run("reveals everything once no mine is left", func(t *testing.T) {
		m := Solver{}.Solve(playing(t, "##\n##", 0))
		require.NotNil(t, m)
		assert.Len(t, m.Clicks, 4)
		assert.Equal(t, ZeroMinesRemaining, logicOf(t, m))
	})
}

func TestRun(t *testing.T) {
	// the mine in the middle splits the row, flagging it and counting the
	// mines is what opens the right half
	const row = "...*..."

	tt := []struct {
		name   string
		solver minsweeper.Solver
		result minsweeper.Result
	}{
		{name: "beginner", solver: Beginner{}, result: minsweeper.Resigned},
		{name: "intermediate", solver: Intermediate{}, result: minsweeper.Solved},
		{name: "expert", solver: Expert{}, result: minsweeper.Solved},
		{name: "mia", solver: Default(), result: minsweeper.Solved},
		{name: "intermediate only", solver: IntermediateOnly(), result: minsweeper.Solved},
		{name: "expert only", solver: ExpertOnly(), result: minsweeper.Resigned},
	}

	for _, tc := range tt {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			g := setGame(t, row, 0, 0)
			assert.Equal(t, tc.result, minsweeper.Run(tc.solver, g))
		})
	}

	t.Run("only brute force opens the board", func(t *testing.T) {
		assert.Equal(t, minsweeper.Solved, minsweeper.Run(ExpertOnly(), setGame(t, "*...", 1, 0)))
		assert.Equal(t, minsweeper.Resigned, minsweeper.Run(IntermediateOnly(), setGame(t, "*...", 1, 0)))
		assert.Equal(t, minsweeper.Solved, minsweeper.Run(Default(), setGame(t, "*...", 1, 0)))
	})
}

func TestSolvers_NeverLose(t *testing.T) {
	size := minsweeper.Beginner.Size()
	solvers := []minsweeper.Solver{Beginner{}, Intermediate{}, Expert{}, Default()}

	for seed := int64(1); seed <= 40; seed++ {
		rng := rand.New(rand.NewSource(seed))
		b := minsweeper.NewBoard(size)
		for _, i := range rng.Perm(size.Cells())[:size.Mines] {
			b.Set(i%size.Width, i/size.Width, minsweeper.Cell{Type: minsweeper.Mine})
		}
		minefield := b.String()

		for _, s := range solvers {
			field, err := minsweeper.ParseMinefield(minefield)
			require.NoError(t, err)

			// start on a safe cell, as a generated game would
			var start minsweeper.Point
			field.Each(func(p minsweeper.Point, c minsweeper.Cell) bool {
				start = p
				return c.Type.IsMine()
			})

			g := minsweeper.NewSetGame(minsweeper.NewGameState(minsweeper.Playing, field, size.Mines))
			g.Reveal(start.X, start.Y)

			assert.NotEqualf(t, minsweeper.Failed, minsweeper.Run(s, g), "%s lost seed %d", s.Name(), seed)
		}
	}
}

func TestLogic(t *testing.T) {
	assert.Equal(t, "brute_force_exhaustion", BruteForceExhaustion.String())
	assert.NotEmpty(t, RegionDeductionFlag.Description())
	assert.True(t, BruteForce.bruteForce())
	assert.False(t, Chord.bruteForce())
	assert.True(t, ZeroMinesRemaining.regional())
	assert.Equal(t, "unknown", Logic(99).String())
}
