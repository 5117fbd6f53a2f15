package game

import "fmt"

// Move addresses a board square, 0-indexed.
type Move struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// NoMove is returned where a search or agent has no move to offer.
var NoMove = Move{Row: -1, Col: -1}

func (m Move) String() string {
	return fmt.Sprintf("(%d,%d)", m.Row, m.Col)
}
