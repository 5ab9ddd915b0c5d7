package mia

import (
	"github.com/denismitr/minsweeper"
)

// Beginner chords, flags the covered cells around a number when they are all
// needed, and removes flags from numbers that have too many.
type Beginner struct{}

func (Beginner) Name() string {
	return "Beginner Solver"
}

func (Beginner) Description() string {
	return "solver that only knows how to flag all neighbours and chord"
}

func (Beginner) Solve(state minsweeper.GameState) *minsweeper.Move {
	if state.Board == nil || state.Status != minsweeper.Playing {
		return nil
	}

	var move *minsweeper.Move
	eachNumber(state.Board, func(p minsweeper.Point, number int) bool {
		move = beginnerMove(state.Board, p, number)
		return move == nil
	})
	return move
}

func beginnerMove(b *minsweeper.Board, p minsweeper.Point, number int) *minsweeper.Move {
	flagged, covered := surroundings(b, p)

	switch {
	case number == len(flagged) && len(covered) > 0:
		return minsweeper.NewMove(p.X, p.Y, minsweeper.Left).Because(Chord, flagged...)
	case number == len(flagged)+len(covered) && len(covered) > 0:
		related := append(append(flagged, covered...), p)
		return clickAt(covered[0], minsweeper.Right).Because(FlagChord, related...)
	case number < len(flagged):
		return clickAt(flagged[0], minsweeper.Right)
	}

	return nil
}

// eachNumber visits revealed numbered cells row by row until fn returns false.
func eachNumber(b *minsweeper.Board, fn func(p minsweeper.Point, number int) bool) {
	b.Each(func(p minsweeper.Point, c minsweeper.Cell) bool {
		n, ok := c.Number()
		if !ok {
			return true
		}
		return fn(p, n)
	})
}

// surroundings splits the flagged and plain covered cells around p.
func surroundings(b *minsweeper.Board, p minsweeper.Point) (flagged, covered []minsweeper.Point) {
	for _, n := range b.Neighbours(p.X, p.Y) {
		switch b.At(n).State {
		case minsweeper.Flagged:
			flagged = append(flagged, n)
		case minsweeper.Covered:
			covered = append(covered, n)
		}
	}
	return
}

func clickAt(p minsweeper.Point, action minsweeper.Action) *minsweeper.Move {
	return minsweeper.NewMove(p.X, p.Y, action)
}

func clicksAt(points []minsweeper.Point, action minsweeper.Action) *minsweeper.Move {
	m := &minsweeper.Move{Clicks: make([]minsweeper.Click, 0, len(points))}
	for _, p := range points {
		m.Clicks = append(m.Clicks, minsweeper.Click{Point: p, Action: action})
	}
	return m
}
