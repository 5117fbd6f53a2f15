package searcher

import (
	"errors"
	"fmt"
	"math"

	"tictactoe/game"
)

const Draw = 0

// Bounds for the alpha-beta window at the root.
const (
	NegInf = math.MinInt
	PosInf = math.MaxInt
)

// MaxOpenSquares bounds the empty squares of a searchable position. The tree
// grows factorially: 3x3 from empty is about half a million positions, an
// empty 4x4 board does not finish.
const MaxOpenSquares = 10

var (
	ErrTerminalPosition = errors.New("position is already terminal")
	ErrTooLarge         = errors.New("position is too large to search exhaustively")
)

// Outcome is a minimax value and the move that achieves it. Move is
// game.NoMove when the searched position was terminal.
type Outcome struct {
	Score int       `json:"score"`
	Move  game.Move `json:"move"`
}

func (o Outcome) HasMove() bool {
	return o.Move != game.NoMove
}

// IsWin reports whether the score is a forced win for the maximizer.
func (o Outcome) IsWin() bool {
	return o.Score > Draw
}

func (o Outcome) IsLoss() bool {
	return o.Score < Draw
}

// MinWinScore is the smallest valid win constant K for a board of side n.
// K must exceed the deepest possible search, which is n*n plies.
func MinWinScore(n int) int {
	return n*n + 1
}

// CheckSearchable reports ErrTooLarge when board has more than MaxOpenSquares
// empty squares.
func CheckSearchable(board *game.Board) error {
	if open := board.Count(game.Empty); open > MaxOpenSquares {
		return fmt.Errorf("%w: %d open squares, at most %d", ErrTooLarge, open, MaxOpenSquares)
	}
	return nil
}
