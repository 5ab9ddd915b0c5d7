// Package minsweeper is a minesweeper engine: boards, games that hide their
// mines from the player, and the contract solvers implement to play them.
//
// RandomGame lays its mines on the first reveal. Given a Solver it only
// accepts boards that solver wins from the first click, which gives games
// that never need a guess. SetGame plays a board that is known up front.
//
// Solvers live in the solver/ packages.
package minsweeper

// Version of the library release.
const Version = "1.1.2"
