package agent

import (
	"tictactoe/experiments/metrics"
	"tictactoe/game"
)

type Agent interface {
	// FindMove returns the move player makes on board, and search metrics if
	// the agent collects them. The board must not be mutated by anyone else
	// while FindMove runs; agents restore it before returning.
	FindMove(board *game.Board, player game.Player) (game.Move, metrics.SearchMetric, error)
}
