package searcher

import (
	"fmt"

	"tictactoe/experiments/metrics"
	"tictactoe/game"

	"github.com/rs/zerolog/log"
)

type Option func(m *Minimax)

// Minimax searches the full game tree. It keeps no state between calls, so a
// single value may serve concurrent callers provided each call owns its board.
type Minimax struct {
	pruning     bool
	winScore    int
	withMetrics bool
}

// WithoutPruning disables alpha-beta cutoffs. Results are unchanged, only the
// number of visited positions grows.
func WithoutPruning() Option {
	return func(m *Minimax) {
		m.pruning = false
	}
}

// WithWinScore sets the win constant K. Values that do not exceed the number
// of squares on the searched board are ignored in favour of MinWinScore.
func WithWinScore(k int) Option {
	return func(m *Minimax) {
		if k > 0 {
			m.winScore = k
		}
	}
}

func WithMetrics() Option {
	return func(m *Minimax) {
		m.withMetrics = true
	}
}

func NewMinimax(options ...Option) *Minimax {
	m := &Minimax{ // Default values
		pruning: true,
	}
	for _, option := range options {
		option(m)
	}
	return m
}

func (m *Minimax) Pruning() bool {
	return m.pruning
}

// WinScore returns the K used on a board of side n.
func (m *Minimax) WinScore(n int) int {
	if floor := MinWinScore(n); m.winScore < floor {
		return floor
	}
	return m.winScore
}

func (m *Minimax) newCollector() metrics.Collector {
	if m.withMetrics {
		return metrics.NewCollector()
	}
	return metrics.NewDummyCollector()
}

// Search evaluates board for maximizer, who is on turn when maximizing is
// true. Wins score K-depth, losses depth-K and draws 0, so faster wins and
// slower losses are preferred. Ties keep the first move in LegalMoves order.
// The board is restored before Search returns.
func (m *Minimax) Search(board *game.Board, maximizer game.Player, depth, alpha, beta int, maximizing bool) Outcome {
	return m.search(board, maximizer, m.WinScore(board.Size()), depth, alpha, beta, maximizing, metrics.NewDummyCollector())
}

func (m *Minimax) search(board *game.Board, maximizer game.Player, k, depth, alpha, beta int, maximizing bool, c metrics.Collector) Outcome {
	c.AddNode()

	if winner, ok := board.Winner(); ok {
		c.AddLeaf()
		if winner == maximizer {
			return Outcome{Score: k - depth, Move: game.NoMove}
		}
		return Outcome{Score: depth - k, Move: game.NoMove}
	}
	if board.IsFull() {
		c.AddLeaf()
		return Outcome{Score: Draw, Move: game.NoMove}
	}

	mover := maximizer
	best := Outcome{Score: NegInf, Move: game.NoMove}
	if !maximizing {
		mover = maximizer.Opponent()
		best.Score = PosInf
	}

	for _, move := range board.LegalMoves() {
		score := m.explore(board, move, mover, maximizer, k, depth, alpha, beta, maximizing, c)

		if maximizing {
			// Strictly greater: the first of equal moves wins
			if score > best.Score {
				best = Outcome{Score: score, Move: move}
			}
			alpha = max(alpha, score)
		} else {
			if score < best.Score {
				best = Outcome{Score: score, Move: move}
			}
			beta = min(beta, score)
		}

		if m.pruning && beta <= alpha {
			c.AddCutoff()
			break
		}
	}
	return best
}

// explore plays move for mover, searches the child position and takes the
// move back on every exit path.
func (m *Minimax) explore(board *game.Board, move game.Move, mover, maximizer game.Player, k, depth, alpha, beta int, maximizing bool, c metrics.Collector) int {
	if err := board.Apply(move, mover); err != nil {
		panic(fmt.Sprintf("legal move rejected: %v", err))
	}
	defer board.Clear(move)

	return m.search(board, maximizer, k, depth+1, alpha, beta, !maximizing, c).Score
}

// Analyze searches board from player's perspective with player on turn. It
// does not bound the search; callers facing untrusted boards check
// CheckSearchable first.
func (m *Minimax) Analyze(board *game.Board, player game.Player) (Outcome, metrics.SearchMetric) {
	if !player.IsPlayer() {
		panic(fmt.Sprintf("cannot search for %v", player))
	}

	c := m.newCollector()
	c.Start(m.pruning)
	outcome := m.search(board, player, m.WinScore(board.Size()), 0, NegInf, PosInf, true, c)
	metric := c.Complete(outcome.Score)

	log.Debug().
		Str("board", board.String()).
		Str("player", player.String()).
		Str("move", outcome.Move.String()).
		Int("score", outcome.Score).
		Int("nodes", metric.Nodes).
		Dur("duration", metric.Duration).
		Msg("search complete")

	return outcome, metric
}

// BestMove returns the optimal move for player. Calling it on a terminal
// board is a caller bug: the first legal move (or game.NoMove) is returned
// together with ErrTerminalPosition. Boards failing CheckSearchable get the
// same fallback with ErrTooLarge.
func (m *Minimax) BestMove(board *game.Board, player game.Player) (game.Move, error) {
	if board.IsTerminal() {
		fallback := firstLegal(board)
		log.Warn().Msgf("best move requested on terminal board %s, falling back to %v", board, fallback)
		return fallback, fmt.Errorf("%w: %s", ErrTerminalPosition, board)
	}
	if err := CheckSearchable(board); err != nil {
		fallback := firstLegal(board)
		log.Warn().Err(err).Msgf("refusing to search board %s, falling back to %v", board, fallback)
		return fallback, err
	}

	outcome, _ := m.Analyze(board, player)
	if !outcome.HasMove() {
		return firstLegal(board), nil
	}
	return outcome.Move, nil
}

func firstLegal(board *game.Board) game.Move {
	if moves := board.LegalMoves(); len(moves) > 0 {
		return moves[0]
	}
	return game.NoMove
}
