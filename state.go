package minsweeper

type GameStatus int8

const (
	Never GameStatus = iota
	Playing
	Won
	Lost
)

func (s GameStatus) String() string {
	switch s {
	case Playing:
		return "playing"
	case Won:
		return "won"
	case Lost:
		return "lost"
	default:
		return "never"
	}
}

// ParseGameStatus is the inverse of GameStatus.String; unknown names yield Never.
func ParseGameStatus(s string) GameStatus {
	switch s {
	case "playing":
		return Playing
	case "won":
		return Won
	case "lost":
		return Lost
	default:
		return Never
	}
}

// GameState is a snapshot of a game. RemainingMines is the number of mines
// minus the number of flags placed and can go negative.
type GameState struct {
	Status         GameStatus
	Board          *Board
	RemainingMines int
}

func NewGameState(status GameStatus, board *Board, remainingMines int) GameState {
	return GameState{Status: status, Board: board, RemainingMines: remainingMines}
}

func (gs GameState) Clone() GameState {
	if gs.Board != nil {
		gs.Board = gs.Board.Clone()
	}
	return gs
}

func (gs GameState) HideMines() GameState {
	if gs.Board != nil {
		gs.Board = gs.Board.HideMines()
	}
	return gs
}

func (gs GameState) withStatus(status GameStatus) GameState {
	gs.Status = status
	return gs
}

func (gs GameState) withBoard(b *Board) GameState {
	gs.Board = b
	return gs
}

func (gs GameState) withRemainingMines(remaining int) GameState {
	gs.RemainingMines = remaining
	return gs
}
