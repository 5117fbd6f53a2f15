package agent

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"tictactoe/experiments/metrics"
	"tictactoe/game"
)

type remoteAgent struct {
	url    string
	client *http.Client
}

// NewRemoteAgent returns an agent that asks an agent server at url for moves.
// A nil client uses a client with a 30 second timeout.
func NewRemoteAgent(url string, client *http.Client) Agent {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	return remoteAgent{url: url, client: client}
}

// FindMove encodes the board and player as JSON and posts them to /findmove.
func (a remoteAgent) FindMove(board *game.Board, player game.Player) (game.Move, metrics.SearchMetric, error) {
	start := time.Now()
	bodyBytes, err := json.Marshal(findMoveRequest{Board: board, Player: player.String()})
	if err != nil {
		return game.NoMove, metrics.SearchMetric{}, fmt.Errorf("failed to encode request: %w", err)
	}

	resp, err := a.client.Post(a.url+"/findmove", "application/json", bytes.NewReader(bodyBytes))
	if err != nil {
		return game.NoMove, metrics.SearchMetric{}, fmt.Errorf("failed to reach agent: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		out, _ := io.ReadAll(resp.Body)
		return game.NoMove, metrics.SearchMetric{}, fmt.Errorf("agent returned status %d: %s", resp.StatusCode, bytes.TrimSpace(out))
	}

	var move game.Move
	if err := json.NewDecoder(resp.Body).Decode(&move); err != nil {
		return game.NoMove, metrics.SearchMetric{}, fmt.Errorf("failed to decode move: %w", err)
	}
	return move, metrics.SearchMetric{Duration: time.Since(start)}, nil
}
