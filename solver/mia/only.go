package mia

import "github.com/denismitr/minsweeper"

// only plays like its base solver but resigns a game it could win without
// ever using the logic that distinguishes it from the level below. It is
// meant for generating games of a precise difficulty.
type only struct {
	minsweeper.Solver
	name        string
	description string
	needs       func(Logic) bool
}

// IntermediateOnly resigns games Beginner could have solved.
func IntermediateOnly() minsweeper.Solver {
	return only{
		Solver:      Intermediate{},
		name:        "Intermediate Only Solver",
		description: "Intermediate Solver that resigns if a game is so easy Beginner Solver could've solved it",
		needs:       Logic.regional,
	}
}

// ExpertOnly resigns games Intermediate could have solved.
func ExpertOnly() minsweeper.Solver {
	return only{
		Solver:      Expert{},
		name:        "Expert Only Solver",
		description: "Expert Solver that resigns if a game is so easy Intermediate Solver could've solved it",
		needs:       Logic.bruteForce,
	}
}

func (s only) Name() string {
	return s.name
}

func (s only) Description() string {
	return s.description
}

func (s only) Play(g minsweeper.Minsweeper) minsweeper.Result {
	used := false
	state := g.GameState()
	for state.Status == minsweeper.Playing {
		move := s.Solve(state)
		if move == nil || len(move.Clicks) == 0 {
			break
		}
		if move.Reason != nil {
			if l, ok := move.Reason.Logic.(Logic); ok && s.needs(l) {
				used = true
			}
		}
		state = minsweeper.Apply(g, move)
	}

	if !used {
		return minsweeper.Resigned
	}
	return minsweeper.ResultOf(state.Status)
}
