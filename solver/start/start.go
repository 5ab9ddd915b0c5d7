// Package start holds solvers that make no moves. Given to a RandomGame they
// only decide what the first click may land on.
package start

import "github.com/denismitr/minsweeper"

// SafeStart accepts any board where the first click is safe.
type SafeStart struct{}

func (SafeStart) Name() string {
	return "Safe Start"
}

func (SafeStart) Description() string {
	return "fake solver that only ensures the first move is safe"
}

func (SafeStart) Solve(minsweeper.GameState) *minsweeper.Move {
	return nil
}

func (SafeStart) Play(g minsweeper.Minsweeper) minsweeper.Result {
	if g.GameState().Status == minsweeper.Lost {
		return minsweeper.Failed
	}
	return minsweeper.Solved
}

// ZeroStart accepts any board where the first click opens an empty cell.
type ZeroStart struct{}

func (ZeroStart) Name() string {
	return "Zero Start"
}

func (ZeroStart) Description() string {
	return "fake solver that only ensures the first move is a 0"
}

func (ZeroStart) Solve(minsweeper.GameState) *minsweeper.Move {
	return nil
}

func (ZeroStart) Play(g minsweeper.Minsweeper) minsweeper.Result {
	state := g.GameState()
	switch state.Status {
	case minsweeper.Lost:
		return minsweeper.Failed
	case minsweeper.Won:
		return minsweeper.Solved
	case minsweeper.Playing:
		if hasRevealedEmpty(state.Board) {
			return minsweeper.Solved
		}
	}
	return minsweeper.Resigned
}

func hasRevealedEmpty(b *minsweeper.Board) bool {
	found := false
	b.Each(func(p minsweeper.Point, c minsweeper.Cell) bool {
		n, ok := c.Number()
		found = ok && n == 0
		return !found
	})
	return found
}
