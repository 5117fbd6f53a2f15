package gamemaster

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"tictactoe/game"
	"tictactoe/searcher/agent"

	"github.com/rs/zerolog/log"
)

var (
	ErrGameOver    = errors.New("game is over - no moves allowed")
	ErrNotYourTurn = errors.New("not your turn")
	ErrThinking    = errors.New("engine is still thinking")
)

// Result reports an engine move once it has been applied to the board.
type Result struct {
	Move    game.Move
	Player  game.Player
	Elapsed time.Duration
	Err     error
}

type searchResult struct {
	move game.Move
	err  error
}

// Session is a game between a human and an engine agent. It owns the
// authoritative board: the engine only ever searches a private copy, and no
// move is accepted while the engine is thinking.
type Session struct {
	mu       sync.Mutex
	size     int
	board    *game.Board
	human    game.Player
	engine   agent.Agent
	thinking bool
}

func NewSession(size int, human game.Player, engine agent.Agent) *Session {
	if !human.IsPlayer() {
		panic(fmt.Sprintf("human must be a player, got %v", human))
	}
	return &Session{
		size:   size,
		board:  game.NewBoard(size),
		human:  human,
		engine: engine,
	}
}

func (s *Session) Human() game.Player {
	return s.human
}

func (s *Session) Engine() game.Player {
	return s.human.Opponent()
}

// Board returns a copy of the current board.
func (s *Session) Board() *game.Board {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.board.Copy()
}

func (s *Session) Turn() game.Player {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.board.Turn()
}

// Status reports whether the game is over and who won. The winner is
// game.Empty on a draw or while the game is running.
func (s *Session) Status() (over bool, winner game.Player) {
	s.mu.Lock()
	defer s.mu.Unlock()
	winner, _ = s.board.Winner()
	return s.board.IsTerminal(), winner
}

// Play applies the human's move.
func (s *Session) Play(move game.Move) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.board.IsTerminal() {
		return ErrGameOver
	}
	if s.thinking {
		return ErrThinking
	}
	if s.board.Turn() != s.human {
		return ErrNotYourTurn
	}
	return s.board.Apply(move, s.human)
}

// EngineMove computes the engine's move in the background and applies it.
// When ctx is done first, ctx.Err() is reported right away and the session
// accepts commands again. The search itself cannot be interrupted; its late
// result is discarded and never reaches the board.
func (s *Session) EngineMove(ctx context.Context) <-chan Result {
	results := make(chan Result, 1)

	s.mu.Lock()
	player := s.human.Opponent()
	var err error
	switch {
	case s.board.IsTerminal():
		err = ErrGameOver
	case s.thinking:
		err = ErrThinking
	case s.board.Turn() != player:
		err = ErrNotYourTurn
	}
	if err != nil {
		s.mu.Unlock()
		results <- Result{Move: game.NoMove, Player: player, Err: err}
		close(results)
		return results
	}
	s.thinking = true
	private := s.board.Copy()
	s.mu.Unlock()

	go func() {
		defer close(results)
		start := time.Now()
		searched := make(chan searchResult, 1)
		go func() {
			move, _, err := s.engine.FindMove(private, player)
			searched <- searchResult{move: move, err: err}
		}()

		var move game.Move
		var err error
		select {
		case <-ctx.Done():
		case res := <-searched:
			move, err = res.move, res.err
		}
		elapsed := time.Since(start)

		s.mu.Lock()
		defer s.mu.Unlock()
		s.thinking = false

		if ctxErr := ctx.Err(); ctxErr != nil {
			log.Debug().Msgf("engine move cancelled after %s", elapsed)
			results <- Result{Move: game.NoMove, Player: player, Elapsed: elapsed, Err: ctxErr}
			return
		}
		if err == nil {
			err = s.board.Apply(move, player)
		}
		if err != nil {
			results <- Result{Move: game.NoMove, Player: player, Elapsed: elapsed, Err: fmt.Errorf("engine move failed: %w", err)}
			return
		}
		log.Debug().Msgf("engine played %v in %s", move, elapsed)
		results <- Result{Move: move, Player: player, Elapsed: elapsed}
	}()
	return results
}

// Reset starts a new game. It fails while the engine is thinking.
func (s *Session) Reset() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.thinking {
		return ErrThinking
	}
	s.board = game.NewBoard(s.size)
	return nil
}
