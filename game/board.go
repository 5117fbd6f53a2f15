package game

import (
	"errors"
	"fmt"
)

// MaxSize bounds the side length of a board. Boards this large can be stored
// and played but not searched exhaustively from empty.
const MaxSize = 8

var (
	ErrInvalidMove  = errors.New("invalid move")
	ErrOutOfBounds  = errors.New("out of bounds")
	ErrOccupied     = errors.New("cell occupied")
	ErrInvalidBoard = errors.New("invalid board")
)

// Board is a square grid of cells stored row-major. A line of Size identical
// player cells along a row, column or diagonal wins.
type Board struct {
	size  int
	cells []Cell
}

// NewBoard returns an empty board with the given side length.
func NewBoard(size int) *Board {
	if size < 1 || size > MaxSize {
		panic(fmt.Sprintf("board size must be between 1 and %d, got %d", MaxSize, size))
	}
	return &Board{
		size:  size,
		cells: make([]Cell, size*size),
	}
}

func (b *Board) Size() int {
	return b.size
}

func (b *Board) inBounds(m Move) bool {
	return m.Row >= 0 && m.Row < b.size && m.Col >= 0 && m.Col < b.size
}

func (b *Board) index(m Move) int {
	return m.Row*b.size + m.Col
}

// At returns the cell at m, or Empty when m is out of bounds.
func (b *Board) At(m Move) Cell {
	if !b.inBounds(m) {
		return Empty
	}
	return b.cells[b.index(m)]
}

// LegalMoves lists every empty square in row-major order. Search tie-breaks
// depend on this order.
func (b *Board) LegalMoves() []Move {
	moves := make([]Move, 0, len(b.cells))
	for i, c := range b.cells {
		if c == Empty {
			moves = append(moves, Move{Row: i / b.size, Col: i % b.size})
		}
	}
	return moves
}

// Apply marks the square for player. The board is left untouched on error.
func (b *Board) Apply(m Move, player Player) error {
	if !player.IsPlayer() {
		return fmt.Errorf("%w: %v is not a player", ErrInvalidMove, player)
	}
	if !b.inBounds(m) {
		return fmt.Errorf("%w %v: %w", ErrInvalidMove, m, ErrOutOfBounds)
	}
	i := b.index(m)
	if b.cells[i] != Empty {
		return fmt.Errorf("%w %v: %w", ErrInvalidMove, m, ErrOccupied)
	}
	b.cells[i] = player
	return nil
}

// Clear resets a square to Empty. It undoes a speculative Apply.
func (b *Board) Clear(m Move) {
	if b.inBounds(m) {
		b.cells[b.index(m)] = Empty
	}
}

// Winner returns the owner of a complete line. Rows are checked first, then
// columns, then the main and anti diagonals.
func (b *Board) Winner() (Player, bool) {
	n := b.size
	for r := 0; r < n; r++ {
		if p, ok := b.line(r*n, 1); ok {
			return p, true
		}
	}
	for c := 0; c < n; c++ {
		if p, ok := b.line(c, n); ok {
			return p, true
		}
	}
	if p, ok := b.line(0, n+1); ok {
		return p, true
	}
	if p, ok := b.line(n-1, n-1); ok {
		return p, true
	}
	return Empty, false
}

// owns reports whether p has at least one complete line.
func (b *Board) owns(p Player) bool {
	n := b.size
	for i := 0; i < n; i++ {
		if owner, ok := b.line(i*n, 1); ok && owner == p {
			return true
		}
		if owner, ok := b.line(i, n); ok && owner == p {
			return true
		}
	}
	if owner, ok := b.line(0, n+1); ok && owner == p {
		return true
	}
	owner, ok := b.line(n-1, n-1)
	return ok && owner == p
}

// line checks the n cells starting at start and advancing by step.
func (b *Board) line(start, step int) (Player, bool) {
	first := b.cells[start]
	if first == Empty {
		return Empty, false
	}
	for i := 1; i < b.size; i++ {
		if b.cells[start+i*step] != first {
			return Empty, false
		}
	}
	return first, true
}

func (b *Board) IsFull() bool {
	for _, c := range b.cells {
		if c == Empty {
			return false
		}
	}
	return true
}

func (b *Board) IsTerminal() bool {
	if _, ok := b.Winner(); ok {
		return true
	}
	return b.IsFull()
}

// Count returns the number of cells equal to c.
func (b *Board) Count(c Cell) int {
	count := 0
	for _, cell := range b.cells {
		if cell == c {
			count++
		}
	}
	return count
}

// Turn returns the player to move. Players alternate and PlayerA starts, so
// equal counts mean PlayerA is on turn.
func (b *Board) Turn() Player {
	if b.Count(PlayerA) == b.Count(PlayerB) {
		return PlayerA
	}
	return PlayerB
}

// Validate checks that the board could have been reached by alternating play
// that stops at the first win: at most one player owns a line, and that
// player made the last move.
func (b *Board) Validate() error {
	diff := b.Count(PlayerA) - b.Count(PlayerB)
	if diff != 0 && diff != 1 {
		return fmt.Errorf("%w: PlayerA has %d more marks than PlayerB", ErrInvalidBoard, diff)
	}
	aWins, bWins := b.owns(PlayerA), b.owns(PlayerB)
	switch {
	case aWins && bWins:
		return fmt.Errorf("%w: both players have a line", ErrInvalidBoard)
	case aWins && diff != 1:
		return fmt.Errorf("%w: %v has a line but %v moved last", ErrInvalidBoard, PlayerA, PlayerB)
	case bWins && diff != 0:
		return fmt.Errorf("%w: %v has a line but %v moved last", ErrInvalidBoard, PlayerB, PlayerA)
	}
	return nil
}

func (b *Board) Copy() *Board {
	cells := make([]Cell, len(b.cells))
	copy(cells, b.cells)
	return &Board{
		size:  b.size,
		cells: cells,
	}
}

func (b *Board) Equal(other *Board) bool {
	if other == nil || b.size != other.size {
		return false
	}
	for i, c := range b.cells {
		if other.cells[i] != c {
			return false
		}
	}
	return true
}
