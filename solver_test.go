package minsweeper_test

import (
	"encoding/json"
	"testing"

	"github.com/denismitr/minsweeper"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type logic string

func (l logic) Description() string { return string(l) }

func TestMove(t *testing.T) {
	m := &minsweeper.Move{Clicks: []minsweeper.Click{
		{Point: minsweeper.Pt(2, 1), Action: minsweeper.Left},
		{Point: minsweeper.Pt(0, 1), Action: minsweeper.Right},
		{Point: minsweeper.Pt(3, 0), Action: minsweeper.Left},
	}}

	m.SortClicks().Because(logic("it is obvious"), minsweeper.Pt(1, 1))

	assert.Equal(t, "left(3,0), right(0,1), left(2,1): it is obvious", m.String())
	assert.Equal(t, []minsweeper.Point{minsweeper.Pt(1, 1)}, m.Reason.Related)
	assert.Equal(t, "right(4,5)", minsweeper.NewMove(4, 5, minsweeper.Right).String())
}

func TestAction_Text(t *testing.T) {
	raw, err := json.Marshal(minsweeper.Click{Point: minsweeper.Pt(1, 2), Action: minsweeper.Right})
	require.NoError(t, err)
	assert.JSONEq(t, `{"point":{"x":1,"y":2},"action":"right"}`, string(raw))

	var c minsweeper.Click
	require.NoError(t, json.Unmarshal([]byte(`{"point":{"x":3,"y":4},"action":"LEFT"}`), &c))
	assert.Equal(t, minsweeper.Click{Point: minsweeper.Pt(3, 4), Action: minsweeper.Left}, c)

	err = json.Unmarshal([]byte(`{"action":"middle"}`), &c)
	assert.True(t, errors.Is(err, minsweeper.ErrUnknownAction))
}

func TestResultOf(t *testing.T) {
	assert.Equal(t, minsweeper.Solved, minsweeper.ResultOf(minsweeper.Won))
	assert.Equal(t, minsweeper.Failed, minsweeper.ResultOf(minsweeper.Lost))
	assert.Equal(t, minsweeper.Resigned, minsweeper.ResultOf(minsweeper.Playing))
	assert.Equal(t, minsweeper.Resigned, minsweeper.ResultOf(minsweeper.Never))
	assert.Equal(t, "won", minsweeper.Solved.String())
	assert.Equal(t, "resigned", minsweeper.Resigned.String())
}

func TestApply(t *testing.T) {
	b, err := minsweeper.ParseMinefield("*.\n..")
	require.NoError(t, err)

	t.Run("clicks are played in order", func(t *testing.T) {
		g := minsweeper.NewSetGame(minsweeper.NewGameState(minsweeper.Playing, b, 1))
		m := &minsweeper.Move{Clicks: []minsweeper.Click{
			{Point: minsweeper.Pt(0, 0), Action: minsweeper.Right},
			{Point: minsweeper.Pt(1, 0), Action: minsweeper.Left},
			{Point: minsweeper.Pt(0, 1), Action: minsweeper.Left},
			{Point: minsweeper.Pt(1, 1), Action: minsweeper.Left},
		}}

		st := minsweeper.Apply(g, m)
		assert.Equal(t, minsweeper.Won, st.Status)
		assert.Equal(t, 0, st.RemainingMines)
	})

	t.Run("clicks stop once the game is over", func(t *testing.T) {
		lost := 0
		g := minsweeper.NewSetGame(
			minsweeper.NewGameState(minsweeper.Playing, b, 1),
			&minsweeper.Config{OnLose: func() { lost++ }},
		)
		m := &minsweeper.Move{Clicks: []minsweeper.Click{
			{Point: minsweeper.Pt(0, 0), Action: minsweeper.Left},
			{Point: minsweeper.Pt(1, 0), Action: minsweeper.Left},
		}}

		st := minsweeper.Apply(g, m)
		assert.Equal(t, minsweeper.Lost, st.Status)
		assert.Equal(t, minsweeper.Covered, st.Board.Get(1, 0).State)
		assert.Equal(t, 1, lost)
	})
}
