package meta

import (
	"os"
	"path/filepath"
	"testing"

	"tictactoe/game"

	"github.com/stretchr/testify/require"
)

func TestSetup(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		cfg, err := Setup("", nil)

		require.NoError(t, err)
		require.Equal(t, DEFAULT_SIZE, cfg.Size)
		require.Equal(t, game.PlayerA, cfg.HumanPlayer())
		require.True(t, cfg.Pruning)
		require.Equal(t, DEFAULT_ADDR, cfg.Addr)
		require.Equal(t, ARENA_GAMES, cfg.Games)
		require.Equal(t, GO_ROUTINES, cfg.Limit)
	})

	t.Run("file, environment and flags in increasing precedence", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yaml")
		content := "size: 4\nhuman: O\nwin_score: 50\naddr: \":9000\"\n"
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
		t.Setenv("TICTACTOE_WIN_SCORE", "60")
		t.Setenv("TICTACTOE_ADDR", ":9100")

		flags := Flags("test")
		require.NoError(t, flags.Parse([]string{"--addr", ":9200", "--pruning=false"}))

		cfg, err := Setup(path, flags)

		require.NoError(t, err)
		require.Equal(t, 4, cfg.Size, "Size should come from the file")
		require.Equal(t, game.PlayerB, cfg.HumanPlayer())
		require.Equal(t, 60, cfg.WinScore, "Environment should override the file")
		require.Equal(t, ":9200", cfg.Addr, "Flags should override the environment")
		require.False(t, cfg.Pruning)
	})

	t.Run("unset flags keep lower sources", func(t *testing.T) {
		t.Setenv("TICTACTOE_GAMES", "3")
		flags := Flags("test")
		require.NoError(t, flags.Parse(nil))

		cfg, err := Setup("", flags)

		require.NoError(t, err)
		require.Equal(t, 3, cfg.Games)
	})

	t.Run("rejects invalid values", func(t *testing.T) {
		for _, args := range [][]string{
			{"--size", "9"},
			{"--size", "4"},
			{"--size", "0"},
			{"--human", "Z"},
			{"--games", "0"},
			{"--limit", "-1"},
		} {
			flags := Flags("test")
			require.NoError(t, flags.Parse(args))

			_, err := Setup("", flags)

			require.Error(t, err, "Should reject %v", args)
		}
	})

	t.Run("missing config file", func(t *testing.T) {
		_, err := Setup(filepath.Join(t.TempDir(), "nope.yaml"), nil)
		require.Error(t, err)
	})
}
