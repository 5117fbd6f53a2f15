package agent

import (
	"fmt"
	"sync"
	"time"

	"tictactoe/experiments/metrics"
	"tictactoe/game"
	"tictactoe/searcher"

	"golang.org/x/exp/rand"
)

type randomAgent struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewRandomAgent returns a baseline agent that picks uniformly among the
// legal moves. Equal seeds replay the same choices.
func NewRandomAgent(seed uint64) Agent {
	return &randomAgent{rng: rand.New(rand.NewSource(seed))}
}

func (a *randomAgent) FindMove(board *game.Board, player game.Player) (game.Move, metrics.SearchMetric, error) {
	start := time.Now()
	if board.IsTerminal() {
		return game.NoMove, metrics.SearchMetric{}, fmt.Errorf("%w: %s", searcher.ErrTerminalPosition, board)
	}

	moves := board.LegalMoves()
	a.mu.Lock()
	move := moves[a.rng.Intn(len(moves))]
	a.mu.Unlock()

	return move, metrics.SearchMetric{Duration: time.Since(start), Nodes: 1}, nil
}
