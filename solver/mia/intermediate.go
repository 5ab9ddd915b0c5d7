package mia

import (
	"github.com/denismitr/minsweeper"
	"github.com/denismitr/minsweeper/internal/pointset"
)

// Intermediate plays like Beginner and then compares the unsatisfied region
// of each number with the numbers up to two cells away.
type Intermediate struct{}

func (Intermediate) Name() string {
	return "Intermediate Solver"
}

func (Intermediate) Description() string {
	return "solver that can keep track of the amount of mines in individual regions and make logical deductions"
}

func (Intermediate) Solve(state minsweeper.GameState) *minsweeper.Move {
	if m := (Beginner{}).Solve(state); m != nil {
		return m
	}
	if state.Board == nil || state.Status != minsweeper.Playing {
		return nil
	}

	if m := pairwiseMove(state.Board); m != nil {
		return m
	}

	return zeroRemainingMove(state, false)
}

func pairwiseMove(b *minsweeper.Board) *minsweeper.Move {
	var move *minsweeper.Move
	eachNumber(b, func(p minsweeper.Point, number int) bool {
		if number <= 0 {
			return true
		}

		flagged, covered := surroundings(b, p)
		if len(flagged) >= number || len(covered) == 0 {
			return true
		}

		region := pointset.New(covered...)
		mines := number - len(flagged)
		for _, q := range b.Window(p.X, p.Y, 2) {
			if move = overlapMove(b, q, mines, region); move != nil {
				return false
			}
		}
		return true
	})
	return move
}

// overlapMove looks at the number at q knowing that region holds exactly
// mines mines. When region lies entirely around q and accounts for the rest of
// q's number, the other covered cells around q are safe. When region plus
// every other covered cell is still just enough for q, those cells are mines.
func overlapMove(b *minsweeper.Board, q minsweeper.Point, mines int, region *pointset.Set) *minsweeper.Move {
	number, ok := b.At(q).Number()
	if !ok {
		return nil
	}

	claimed, flagged := 0, 0
	var outside []minsweeper.Point
	for _, n := range b.Neighbours(q.X, q.Y) {
		if region.Has(n) {
			claimed++
			continue
		}
		switch b.At(n).State {
		case minsweeper.Flagged:
			flagged++
		case minsweeper.Covered:
			outside = append(outside, n)
		}
	}

	if len(outside) == 0 {
		return nil
	}

	switch {
	case claimed == region.Len() && flagged+mines == number:
		return clickAt(outside[0], minsweeper.Left).Because(MultiFlagReveal, region.Points()...)
	case flagged+mines+len(outside) == number:
		return clickAt(outside[0], minsweeper.Right).Because(MultiFlagFlag, region.Points()...)
	}

	return nil
}

// zeroRemainingMove reveals covered cells once every mine is flagged. With
// all set it reveals them in one move, otherwise only the first.
func zeroRemainingMove(state minsweeper.GameState, all bool) *minsweeper.Move {
	if state.RemainingMines != 0 {
		return nil
	}

	var covered []minsweeper.Point
	state.Board.Each(func(p minsweeper.Point, c minsweeper.Cell) bool {
		if c.State == minsweeper.Covered {
			covered = append(covered, p)
		}
		return all || len(covered) == 0
	})

	if len(covered) == 0 {
		return nil
	}

	return clicksAt(covered, minsweeper.Left).Because(ZeroMinesRemaining)
}
