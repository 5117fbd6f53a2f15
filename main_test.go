package main

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"tictactoe/game"
	"tictactoe/meta"
	"tictactoe/searcher"

	"github.com/stretchr/testify/require"
)

func TestParseMove(t *testing.T) {
	for _, line := range []string{"1 2", "1,2", " 1 , 2 ", "1\t2"} {
		move, err := parseMove(line)
		require.NoError(t, err, "Should parse %q", line)
		require.Equal(t, game.Move{Row: 1, Col: 2}, move)
	}
	for _, line := range []string{"", "1", "1 2 3", "a 2", "1 b"} {
		_, err := parseMove(line)
		require.Error(t, err, "Should reject %q", line)
	}
}

func TestAnalyze(t *testing.T) {
	t.Run("reports the best move", func(t *testing.T) {
		var out bytes.Buffer
		cfg := &meta.Config{Size: 3, Pruning: true, Board: "XX./OO./..."}

		require.NoError(t, analyze(cfg, &out))

		require.Contains(t, out.String(), "X to move: best move (0,2), score 9")
	})

	t.Run("reports finished games", func(t *testing.T) {
		var out bytes.Buffer
		cfg := &meta.Config{Size: 3, Pruning: true, Board: "XXX/OO./..."}

		require.NoError(t, analyze(cfg, &out))

		require.Contains(t, out.String(), "X has won")
	})

	t.Run("refuses boards too large to search", func(t *testing.T) {
		cfg := &meta.Config{Size: 3, Pruning: true, Board: "..../..../..../...."}

		err := analyze(cfg, &bytes.Buffer{})

		require.ErrorIs(t, err, searcher.ErrTooLarge)
	})

	t.Run("rejects bad boards", func(t *testing.T) {
		for _, board := range []string{"", "XX./.../...", "XQ./.../..."} {
			err := analyze(&meta.Config{Size: 3, Board: board}, &bytes.Buffer{})
			require.Error(t, err, "Should reject %q", board)
		}
	})
}

func TestPlayStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	in, w := io.Pipe()
	defer w.Close()
	cfg := &meta.Config{Size: 3, Human: "X", Pruning: true}

	err := play(ctx, cfg, in, &bytes.Buffer{})

	require.ErrorIs(t, err, context.Canceled, "Waiting for input should not outlive the context")
}

func TestPlay(t *testing.T) {
	var out bytes.Buffer
	cfg := &meta.Config{Size: 3, Human: "O", Pruning: true}
	in := strings.NewReader("nonsense\n0 0\n1 1\n")

	require.NoError(t, play(context.Background(), cfg, in, &out))

	output := out.String()
	require.Contains(t, output, "You play O")
	require.Contains(t, output, "Engine played (0,0)")
	require.Contains(t, output, "Invalid move: expected a row and a column")
	require.Contains(t, output, "Invalid move: invalid move (0,0)")
}
