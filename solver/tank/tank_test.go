package tank

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

func TestSolver_Solve(t *testing.T) {
	t.Run("number satisfied by flags opens a neighbour", func(t *testing.T) {
		m := New().Solve(playing(t, "1!\n##", 0))
		require.NotNil(t, m)
		assert.Equal(t, minsweeper.Click{Point: minsweeper.Pt(0, 1), Action: minsweeper.Left}, m.Clicks[0])
		assert.Equal(t, SafeNeighbours, m.Reason.Logic)
	})

	t.Run("number needing every neighbour flags one", func(t *testing.T) {
		m := New().Solve(playing(t, "1#\n11", 1))
		require.NotNil(t, m)
		assert.Equal(t, minsweeper.Click{Point: minsweeper.Pt(1, 0), Action: minsweeper.Right}, m.Clicks[0])
		assert.Equal(t, MinedNeighbours, m.Reason.Logic)
	})

	t.Run("segment with a single arrangement", func(t *testing.T) {
		m := New().Solve(playing(t, "###\n121\n...", 2))
		require.NotNil(t, m)
		assert.Equal(t, minsweeper.Click{Point: minsweeper.Pt(0, 0), Action: minsweeper.Right}, m.Clicks[0])
		assert.Equal(t, SegmentMine, m.Reason.Logic)
		assert.Len(t, m.Reason.Related, 3)
	})

	t.Run("shared cells leave the rest safe", func(t *testing.T) {
		m := New().Solve(playing(t, "###\n111\n...", 1))
		require.NotNil(t, m)
		assert.Equal(t, minsweeper.Click{Point: minsweeper.Pt(0, 0), Action: minsweeper.Left}, m.Clicks[0])
		assert.Equal(t, SegmentSafe, m.Reason.Logic)
	})

	t.Run("segments over the limit are skipped", func(t *testing.T) {
		assert.Nil(t, Solver{MaxSegment: 2}.Solve(playing(t, "###\n121\n...", 2)))
	})

	t.Run("ambiguous frontier has no move", func(t *testing.T) {
		assert.Nil(t, New().Solve(playing(t, "#1#", 1)))
	})
}

func TestSegments(t *testing.T) {
	b, err := minsweeper.ParseBoard(`
##....##
22....22
`)
	require.NoError(t, err)

	segs := segments(b)
	require.Len(t, segs, 2)
	assert.Equal(t, []minsweeper.Point{minsweeper.Pt(0, 0), minsweeper.Pt(1, 0)}, segs[0].unknowns)
	assert.Equal(t, []minsweeper.Point{minsweeper.Pt(6, 0), minsweeper.Pt(7, 0)}, segs[1].unknowns)

	solutions, counts := segs[0].solve()
	assert.Equal(t, 1, solutions)
	assert.Equal(t, []int{1, 1}, counts)
}

func TestSolver_NeverLoses(t *testing.T) {
	size := minsweeper.Beginner.Size()
	for seed := int64(1); seed <= 30; seed++ {
		rng := rand.New(rand.NewSource(seed))
		b := minsweeper.NewBoard(size)
		for _, i := range rng.Perm(size.Cells())[:size.Mines] {
			b.Set(i%size.Width, i/size.Width, minsweeper.Cell{Type: minsweeper.Mine})
		}

		field, err := minsweeper.ParseMinefield(b.String())
		require.NoError(t, err)

		var start minsweeper.Point
		field.Each(func(p minsweeper.Point, c minsweeper.Cell) bool {
			start = p
			return c.Type.IsMine()
		})

		g := minsweeper.NewSetGame(minsweeper.NewGameState(minsweeper.Playing, field, size.Mines))
		g.Reveal(start.X, start.Y)

		assert.NotEqualf(t, minsweeper.Failed, minsweeper.Run(New(), g), "seed %d", seed)
	}
}
