package game

import "fmt"

// Cell is the occupancy of a single board square.
type Cell uint8

const (
	Empty Cell = iota
	PlayerA
	PlayerB
)

// Player is a Cell that belongs to one of the two sides. PlayerA moves first.
type Player = Cell

var symbols = [...]byte{Empty: '.', PlayerA: 'X', PlayerB: 'O'}

// IsPlayer reports whether c is PlayerA or PlayerB.
func (c Cell) IsPlayer() bool {
	return c == PlayerA || c == PlayerB
}

// Opponent returns the other player. Empty has no opponent and maps to itself.
func (c Cell) Opponent() Cell {
	switch c {
	case PlayerA:
		return PlayerB
	case PlayerB:
		return PlayerA
	default:
		return Empty
	}
}

func (c Cell) String() string {
	if int(c) < len(symbols) {
		return string(symbols[c])
	}
	return fmt.Sprintf("Cell(%d)", uint8(c))
}

// ParseCell maps a board symbol back to a Cell. Lower case player symbols
// and '-' or '_' for empty squares are accepted too.
func ParseCell(r rune) (Cell, error) {
	switch r {
	case '.', '-', '_':
		return Empty, nil
	case 'X', 'x':
		return PlayerA, nil
	case 'O', 'o':
		return PlayerB, nil
	}
	return Empty, fmt.Errorf("%w: unknown cell symbol %q", ErrInvalidBoard, r)
}

// ParsePlayer parses "X" or "O" (case insensitive).
func ParsePlayer(s string) (Player, error) {
	if len(s) == 1 {
		if c, err := ParseCell(rune(s[0])); err == nil && c.IsPlayer() {
			return c, nil
		}
	}
	return Empty, fmt.Errorf("unknown player %q", s)
}
