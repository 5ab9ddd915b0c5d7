package mia

import "github.com/denismitr/minsweeper"

// ExpertBruteForceLimit bounds the frontier size Expert will enumerate.
const ExpertBruteForceLimit = 20

// Expert plays like Intermediate and falls back to brute force.
type Expert struct{}

func (Expert) Name() string {
	return "Expert Solver"
}

func (Expert) Description() string {
	return "solver that can brute force through all possible mine configurations within reasonable time constraints"
}

func (Expert) Solve(state minsweeper.GameState) *minsweeper.Move {
	if m := (Intermediate{}).Solve(state); m != nil {
		return m
	}
	if state.Board == nil || state.Status != minsweeper.Playing {
		return nil
	}

	return bruteForceMove(state, ExpertBruteForceLimit)
}
