package game

import (
	"fmt"
	"strings"
)

// String encodes the board as rows of cell symbols separated by '/',
// e.g. "XX./OO./...". ParseBoard reverses it.
func (b *Board) String() string {
	var sb strings.Builder
	sb.Grow(len(b.cells) + b.size)
	for i, c := range b.cells {
		if i > 0 && i%b.size == 0 {
			sb.WriteByte('/')
		}
		sb.WriteString(c.String())
	}
	return sb.String()
}

// ParseBoard decodes a board from rows separated by '/' or newlines. Every
// row must have as many cells as there are rows.
func ParseBoard(s string) (*Board, error) {
	s = strings.TrimSpace(strings.ReplaceAll(s, "\r", ""))
	if s == "" {
		return nil, fmt.Errorf("%w: empty input", ErrInvalidBoard)
	}
	rows := strings.FieldsFunc(s, func(r rune) bool { return r == '/' || r == '\n' })
	size := len(rows)
	if size > MaxSize {
		return nil, fmt.Errorf("%w: %d rows exceeds the maximum of %d", ErrInvalidBoard, size, MaxSize)
	}

	b := NewBoard(size)
	for r, row := range rows {
		row = strings.TrimSpace(row)
		symbols := []rune(row)
		if len(symbols) != size {
			return nil, fmt.Errorf("%w: row %d has %d cells, want %d", ErrInvalidBoard, r, len(symbols), size)
		}
		for c, sym := range symbols {
			cell, err := ParseCell(sym)
			if err != nil {
				return nil, err
			}
			b.cells[r*size+c] = cell
		}
	}
	return b, nil
}

func (b *Board) MarshalText() ([]byte, error) {
	return []byte(b.String()), nil
}

func (b *Board) UnmarshalText(text []byte) error {
	parsed, err := ParseBoard(string(text))
	if err != nil {
		return err
	}
	*b = *parsed
	return nil
}

// Pretty renders the board as a grid with row and column labels for terminals.
func (b *Board) Pretty() string {
	var sb strings.Builder
	sb.WriteString("  ")
	for c := 0; c < b.size; c++ {
		fmt.Fprintf(&sb, " %d", c)
	}
	sb.WriteByte('\n')
	for r := 0; r < b.size; r++ {
		fmt.Fprintf(&sb, "%d ", r)
		for c := 0; c < b.size; c++ {
			sb.WriteByte(' ')
			sb.WriteString(b.cells[r*b.size+c].String())
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
