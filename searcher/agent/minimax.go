package agent

import (
	"tictactoe/experiments/metrics"
	"tictactoe/game"
	"tictactoe/searcher"
)

type minimaxAgent struct {
	minimax *searcher.Minimax
}

// NewMinimaxAgent returns an agent that always plays the optimal move.
func NewMinimaxAgent(minimax *searcher.Minimax) Agent {
	return minimaxAgent{minimax: minimax}
}

func (a minimaxAgent) FindMove(board *game.Board, player game.Player) (game.Move, metrics.SearchMetric, error) {
	if board.IsTerminal() {
		move, err := a.minimax.BestMove(board, player)
		return move, metrics.SearchMetric{}, err
	}
	if err := searcher.CheckSearchable(board); err != nil {
		return game.NoMove, metrics.SearchMetric{}, err
	}
	outcome, metric := a.minimax.Analyze(board, player)
	return outcome.Move, metric, nil
}
