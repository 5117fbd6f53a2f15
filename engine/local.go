package engine

import (
	"time"

	"tictactoe/experiments/metrics"
	"tictactoe/game"
	"tictactoe/searcher/agent"
	"tictactoe/utils"

	"github.com/rs/zerolog/log"
)

type Local struct {
	Board  *game.Board
	Agents [2]agent.Agent // Indexed by player: PlayerA first
}

func LocalEngine(size int, agents [2]agent.Agent) *Local {
	if agents[0] == nil || agents[1] == nil {
		panic("need an agent for each player")
	}
	return &Local{
		Board:  game.NewBoard(size),
		Agents: agents,
	}
}

func agentIndex(player game.Player) int {
	if player == game.PlayerA {
		return 0
	}
	return 1
}

// Run executes the game loop until a player wins or the board is full. Each
// agent searches a private copy of the board; only the engine mutates the
// authoritative one.
func (e *Local) Run() (game.Player, metrics.GameMetric, []metrics.MoveMetric) {
	gameMetric := metrics.GameMetric{
		StartingPlayer: e.Board.Turn().String(),
		StartTime:      time.Now(),
	}
	var moveMetrics []metrics.MoveMetric

	log.Debug().Msgf("player %v is starting", e.Board.Turn())

	step := 1
	for !e.Board.IsTerminal() {
		player := e.Board.Turn()
		move, metric := e.findMove(player)

		if err := e.Board.Apply(move, player); err != nil {
			// findMove only returns legal moves
			panic(err)
		}
		moveMetrics = append(moveMetrics, metrics.MoveMetric{
			Step:         step,
			Player:       player.String(),
			Move:         move.String(),
			SearchMetric: metric,
		})
		log.Debug().Msgf("step %d: player %v played %v", step, player, move)
		step++
	}

	winner, _ := e.Board.Winner()
	gameMetric.EndTime = time.Now()
	gameMetric.Duration = gameMetric.EndTime.Sub(gameMetric.StartTime)
	gameMetric.TotalMoves = len(moveMetrics)
	gameMetric.FinalBoard = e.Board.String()
	if winner != game.Empty {
		gameMetric.Winner = winner.String()
		log.Debug().Msgf("game ended with winner %v: %s", winner, e.Board)
	} else {
		log.Debug().Msgf("game ended in a draw: %s", e.Board)
	}

	return winner, gameMetric, moveMetrics
}

// findMove asks the player's agent for a move and falls back to the first
// legal move when the agent fails or answers with an illegal one.
func (e *Local) findMove(player game.Player) (game.Move, metrics.SearchMetric) {
	legal := e.Board.LegalMoves()
	move, metric, err := e.Agents[agentIndex(player)].FindMove(e.Board.Copy(), player)
	if err != nil {
		log.Warn().Err(err).Msgf("agent for %v failed, forcing %v", player, legal[0])
		return legal[0], metric
	}
	if !utils.Contains(legal, move) {
		log.Warn().Msgf("agent for %v returned illegal move %v, forcing %v", player, move, legal[0])
		return legal[0], metric
	}
	return move, metric
}
