// Package mia holds a family of solvers of increasing skill. Every move they
// make carries a Reason naming one of the Logic values below.
//
// Beginner only chords and flags. Intermediate adds deductions over pairs of
// overlapping regions. Expert adds brute force over small frontiers. Solver
// is the strongest of them and is what Default returns.
package mia

type Logic int

const (
	Chord Logic = iota
	FlagChord
	MultiFlagReveal
	MultiFlagFlag
	ZeroMinesRemaining
	RegionDeductionReveal
	RegionDeductionFlag
	BruteForceReveal
	BruteForceFlag
	BruteForce
	BruteForceExhaustion
)

var logicNames = map[Logic]string{
	Chord:                 "chord",
	FlagChord:             "flag_chord",
	MultiFlagReveal:       "multi_flag_reveal",
	MultiFlagFlag:         "multi_flag_flag",
	ZeroMinesRemaining:    "zero_mines_remaining",
	RegionDeductionReveal: "region_deduction_reveal",
	RegionDeductionFlag:   "region_deduction_flag",
	BruteForceReveal:      "brute_force_reveal",
	BruteForceFlag:        "brute_force_flag",
	BruteForce:            "brute_force",
	BruteForceExhaustion:  "brute_force_exhaustion",
}

var logicDescriptions = map[Logic]string{
	Chord:                 "the amount of flags around the cell matches its number",
	FlagChord:             "the amount of flaggable cells around the cell matches its number",
	MultiFlagReveal:       "the surrounding cells force the cells to be safe",
	MultiFlagFlag:         "the surrounding cells force the cells to be a mine",
	ZeroMinesRemaining:    "0 mines remaining, all unknown cells must be safe",
	RegionDeductionReveal: "the mines of a region are all accounted for by a region inside it",
	RegionDeductionFlag:   "the cells left outside an overlapping region must all be mines",
	BruteForceReveal:      "in no possible mine configuration is this cell a mine",
	BruteForceFlag:        "in every possible mine configuration this cell is a mine",
	BruteForce:            "in every possible mine configuration the cells are safe or mines",
	BruteForceExhaustion:  "every possible mine configuration uses all remaining mines, so the other cells are safe",
}

func (l Logic) String() string {
	if n, ok := logicNames[l]; ok {
		return n
	}
	return "unknown"
}

func (l Logic) Description() string {
	return logicDescriptions[l]
}

func (l Logic) bruteForce() bool {
	switch l {
	case BruteForceReveal, BruteForceFlag, BruteForce, BruteForceExhaustion:
		return true
	}
	return false
}

func (l Logic) regional() bool {
	switch l {
	case MultiFlagReveal, MultiFlagFlag, ZeroMinesRemaining, RegionDeductionReveal, RegionDeductionFlag:
		return true
	}
	return false
}
