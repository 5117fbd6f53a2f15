package experiments

import (
	"context"
	"fmt"

	"tictactoe/engine"
	"tictactoe/experiments/metrics"
	"tictactoe/game"
	"tictactoe/searcher"
	"tictactoe/searcher/agent"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

type MatchUp [2]metrics.AgentConfig

type Experiment struct {
	Name     string
	Size     int
	NumGames int // Per match up; the starting agent alternates
	Configs  []metrics.AgentConfig
	MatchUps []MatchUp
}

type Summary struct {
	Agent1 int // AgentConfig.ID
	Agent2 int
	Wins1  int
	Wins2  int
	Draws  int
}

type Result struct {
	Summaries   []Summary
	GameRecords []metrics.GameRecord
	MoveRecords []metrics.MoveRecord
}

var (
	minimaxPruned = metrics.AgentConfig{ID: 1, Kind: metrics.MinimaxAgent, Pruning: true}
	minimaxFull   = metrics.AgentConfig{ID: 2, Kind: metrics.MinimaxAgent, Pruning: false}
	randomPlayer  = metrics.AgentConfig{ID: 3, Kind: metrics.RandomAgent, Seed: 1}
)

// Baseline pits the pruned minimax agent against random play and itself.
func Baseline(numGames int) Experiment {
	return Experiment{
		Name:     "baseline",
		Size:     3,
		NumGames: numGames,
		Configs:  []metrics.AgentConfig{minimaxPruned, randomPlayer},
		MatchUps: []MatchUp{
			{minimaxPruned, randomPlayer},
			{minimaxPruned, minimaxPruned},
		},
	}
}

// Pruning compares the search cost of alpha-beta against plain minimax.
// Both agents play identically, so every game is a draw.
func Pruning(numGames int) Experiment {
	return Experiment{
		Name:     "pruning",
		Size:     3,
		NumGames: numGames,
		Configs:  []metrics.AgentConfig{minimaxPruned, minimaxFull},
		MatchUps: []MatchUp{{minimaxPruned, minimaxFull}},
	}
}

func Lookup(name string, numGames int) (Experiment, error) {
	switch name {
	case "baseline":
		return Baseline(numGames), nil
	case "pruning":
		return Pruning(numGames), nil
	}
	return Experiment{}, fmt.Errorf("unknown experiment %q", name)
}

// NewAgent builds a fresh agent for one game. Random agents derive their seed
// from the game so that games differ but runs are reproducible.
func NewAgent(config metrics.AgentConfig, gameID int) (agent.Agent, error) {
	switch config.Kind {
	case metrics.MinimaxAgent:
		options := []searcher.Option{searcher.WithMetrics()}
		if !config.Pruning {
			options = append(options, searcher.WithoutPruning())
		}
		return agent.NewMinimaxAgent(searcher.NewMinimax(options...)), nil
	case metrics.RandomAgent:
		return agent.NewRandomAgent(config.Seed + uint64(gameID)), nil
	}
	return nil, fmt.Errorf("unknown agent kind %q", config.Kind)
}

type gameResult struct {
	record metrics.GameRecord
	moves  []metrics.MoveMetric
	swap   bool // matchup[1] played PlayerA
}

// Run plays every match up with at most limit games in flight.
func Run(ctx context.Context, exp Experiment, limit int) (Result, error) {
	if exp.NumGames <= 0 {
		return Result{}, fmt.Errorf("experiment %s needs at least one game per match up", exp.Name)
	}
	if exp.Size < 1 || exp.Size > game.MaxSize {
		return Result{}, fmt.Errorf("experiment %s has invalid board size %d", exp.Name, exp.Size)
	}
	if err := searcher.CheckSearchable(game.NewBoard(exp.Size)); err != nil {
		return Result{}, fmt.Errorf("experiment %s: %w", exp.Name, err)
	}
	if limit <= 0 {
		limit = 1
	}

	log.Info().Msgf("starting %s experiment...", exp.Name)

	total := len(exp.MatchUps) * exp.NumGames
	results := make([]gameResult, total)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for mi, matchUp := range exp.MatchUps {
		for i := 0; i < exp.NumGames; i++ {
			id := mi*exp.NumGames + i
			g.Go(func() error {
				if err := ctx.Err(); err != nil {
					return err
				}
				res, err := playGame(exp.Size, matchUp, id, i%2 == 1)
				if err != nil {
					return err
				}
				results[id] = res
				log.Debug().Msgf("completed matchup %d of %d game %d with winner %q", mi+1, len(exp.MatchUps), i+1, res.record.Winner)
				return nil
			})
		}
	}
	if err := g.Wait(); err != nil {
		return Result{}, fmt.Errorf("experiment %s failed: %w", exp.Name, err)
	}

	out := Result{Summaries: make([]Summary, len(exp.MatchUps))}
	for mi, matchUp := range exp.MatchUps {
		out.Summaries[mi] = Summary{Agent1: matchUp[0].ID, Agent2: matchUp[1].ID}
	}
	for id, res := range results {
		summary := &out.Summaries[id/exp.NumGames]
		switch {
		case res.record.Winner == "":
			summary.Draws++
		case (res.record.Winner == game.PlayerA.String()) != res.swap:
			summary.Wins1++
		default:
			summary.Wins2++
		}
		out.GameRecords = append(out.GameRecords, res.record)
		for _, mm := range res.moves {
			out.MoveRecords = append(out.MoveRecords, metrics.MoveRecord{Game: res.record.ID, MoveMetric: mm})
		}
	}

	for _, s := range out.Summaries {
		log.Info().Msgf("agent %d vs agent %d: %d-%d with %d draws", s.Agent1, s.Agent2, s.Wins1, s.Wins2, s.Draws)
	}
	log.Info().Msgf("completed %s experiment", exp.Name)
	return out, nil
}

func playGame(size int, matchUp MatchUp, id int, swap bool) (gameResult, error) {
	first, second := matchUp[0], matchUp[1]
	if swap {
		first, second = second, first
	}
	a1, err := NewAgent(first, id)
	if err != nil {
		return gameResult{}, err
	}
	a2, err := NewAgent(second, id)
	if err != nil {
		return gameResult{}, err
	}

	_, gameMetric, moveMetrics := engine.LocalEngine(size, [2]agent.Agent{a1, a2}).Run()
	return gameResult{
		record: metrics.GameRecord{
			ID:         id + 1,
			Agent1:     first.ID,
			Agent2:     second.ID,
			GameMetric: gameMetric,
		},
		moves: moveMetrics,
		swap:  swap,
	}, nil
}

// Store writes the experiment configuration and records under baseDir.
func Store(baseDir string, exp Experiment, result Result) (string, error) {
	writer, err := metrics.NewWriter(baseDir, exp.Name)
	if err != nil {
		return "", fmt.Errorf("failed to create experiment writer: %w", err)
	}
	if err := writer.WriteAgentConfigs(exp.Configs); err != nil {
		return "", fmt.Errorf("failed to store agent configs: %w", err)
	}
	log.Info().Msg("stored agent configs")
	if err := writer.WriteGameRecords(result.GameRecords); err != nil {
		return "", fmt.Errorf("failed to write game records: %w", err)
	}
	log.Info().Msg("stored game records")
	if err := writer.WriteMoveRecords(result.MoveRecords); err != nil {
		return "", fmt.Errorf("failed to write move records: %w", err)
	}
	log.Info().Msg("stored move records")
	return writer.Dir(), nil
}
