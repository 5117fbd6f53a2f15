package game

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func mustParse(t *testing.T, s string) *Board {
	t.Helper()
	b, err := ParseBoard(s)
	require.NoError(t, err)
	return b
}

func TestNewBoard(t *testing.T) {
	t.Run("empty board of the requested size", func(t *testing.T) {
		b := NewBoard(3)

		require.Equal(t, 3, b.Size())
		require.Len(t, b.LegalMoves(), 9, "Every square should be open")
		require.False(t, b.IsFull())
		require.False(t, b.IsTerminal())
		require.Equal(t, PlayerA, b.Turn(), "PlayerA should move first")
	})

	t.Run("panics on invalid size", func(t *testing.T) {
		require.Panics(t, func() { NewBoard(0) }, "Should panic for a zero sized board")
		require.Panics(t, func() { NewBoard(MaxSize + 1) }, "Should panic above the maximum size")
	})
}

func TestLegalMoves(t *testing.T) {
	t.Run("row-major ascending order", func(t *testing.T) {
		b := mustParse(t, "X.O/.X./O..")

		got := b.LegalMoves()

		require.Equal(t, []Move{{0, 1}, {1, 0}, {1, 2}, {2, 1}, {2, 2}}, got)
	})

	t.Run("full board has no moves", func(t *testing.T) {
		b := mustParse(t, "XOX/XOO/OXX")

		require.Empty(t, b.LegalMoves())
	})
}

func TestApply(t *testing.T) {
	t.Run("marks an empty square", func(t *testing.T) {
		b := NewBoard(3)

		err := b.Apply(Move{1, 1}, PlayerA)

		require.NoError(t, err)
		require.Equal(t, PlayerA, b.At(Move{1, 1}))
		require.Equal(t, PlayerB, b.Turn())
	})

	t.Run("rejects an occupied square and leaves the board unchanged", func(t *testing.T) {
		b := mustParse(t, "X../.../...")
		before := b.Copy()

		err := b.Apply(Move{0, 0}, PlayerB)

		require.ErrorIs(t, err, ErrInvalidMove)
		require.ErrorIs(t, err, ErrOccupied)
		require.True(t, before.Equal(b), "Board should not change on a rejected move")
	})

	t.Run("rejects out of bounds moves", func(t *testing.T) {
		b := NewBoard(3)
		for _, m := range []Move{{-1, 0}, {0, -1}, {3, 0}, {0, 3}, {5, 5}} {
			err := b.Apply(m, PlayerA)

			require.ErrorIs(t, err, ErrInvalidMove, "move %v", m)
			require.ErrorIs(t, err, ErrOutOfBounds, "move %v", m)
		}
		require.Equal(t, 0, b.Count(PlayerA))
	})

	t.Run("rejects a non-player mark", func(t *testing.T) {
		b := NewBoard(3)

		err := b.Apply(Move{0, 0}, Empty)

		require.ErrorIs(t, err, ErrInvalidMove)
		require.Equal(t, Empty, b.At(Move{0, 0}))
	})
}

func TestClear(t *testing.T) {
	b := NewBoard(3)
	before := b.Copy()
	require.NoError(t, b.Apply(Move{2, 1}, PlayerA))

	b.Clear(Move{2, 1})

	require.True(t, before.Equal(b), "Clear should undo Apply")
	require.NotPanics(t, func() { b.Clear(Move{9, 9}) }, "Clearing out of bounds should be a no-op")
}

func TestWinner(t *testing.T) {
	lines := map[string]string{
		"row 0":         "XXX/OO./...",
		"row 1":         "OO./XXX/...",
		"row 2":         "OO./.../XXX",
		"column 0":      "XO./XO./X..",
		"column 1":      "OX./.XO/.X.",
		"column 2":      "O.X/O.X/..X",
		"main diagonal": "XOO/.X./..X",
		"anti diagonal": "OOX/.X./X..",
	}
	for name, s := range lines {
		t.Run(name, func(t *testing.T) {
			b := mustParse(t, s)

			winner, ok := b.Winner()

			require.True(t, ok)
			require.Equal(t, PlayerA, winner)
			require.True(t, b.IsTerminal())
		})
	}

	t.Run("PlayerB line", func(t *testing.T) {
		b := mustParse(t, "XX./OOO/X..")

		winner, ok := b.Winner()

		require.True(t, ok)
		require.Equal(t, PlayerB, winner)
	})

	t.Run("no winner in progress", func(t *testing.T) {
		b := mustParse(t, "XX./OO./...")

		_, ok := b.Winner()

		require.False(t, ok)
		require.False(t, b.IsTerminal())
	})

	t.Run("draw is full without winner", func(t *testing.T) {
		b := mustParse(t, "XOX/XOO/OXX")

		_, ok := b.Winner()

		require.False(t, ok)
		require.True(t, b.IsFull())
		require.True(t, b.IsTerminal())
	})

	t.Run("larger boards need a full line", func(t *testing.T) {
		b := mustParse(t, "XXX./OOO./..../....")

		_, ok := b.Winner()

		require.False(t, ok, "Three in a row should not win on a 4x4 board")

		require.NoError(t, b.Apply(Move{0, 3}, PlayerA))
		winner, ok := b.Winner()
		require.True(t, ok)
		require.Equal(t, PlayerA, winner)
	})
}

func TestValidate(t *testing.T) {
	require.NoError(t, mustParse(t, "X../.../...").Validate())
	require.NoError(t, mustParse(t, "XO./.../...").Validate())
	require.ErrorIs(t, mustParse(t, "XX./.../...").Validate(), ErrInvalidBoard)
	require.ErrorIs(t, mustParse(t, "O../.../...").Validate(), ErrInvalidBoard)

	t.Run("wins must be consistent with the last mover", func(t *testing.T) {
		for _, s := range []string{"XXX/OO./...", "OOO/XX./X..", "XO./.X./O.X", "XXX/OXO/OXO"} {
			require.NoError(t, mustParse(t, s).Validate(), "%s is reachable", s)
		}
		for _, s := range []string{
			"XXX/OOO/...", // both players have a line
			"XXX/OOO/X..",
			"XXX/OO./O..", // X won but O moved after
			"OOO/XX./XX.", // O won but X moved after
			"OOO/XXX/XO.",
		} {
			require.ErrorIs(t, mustParse(t, s).Validate(), ErrInvalidBoard, "%s is unreachable", s)
		}
	})
}

func TestCopy(t *testing.T) {
	b := mustParse(t, "X../.O./...")

	c := b.Copy()
	require.NoError(t, c.Apply(Move{2, 2}, PlayerA))

	require.Equal(t, Empty, b.At(Move{2, 2}), "Copy should not share cells with the original")
	require.False(t, b.Equal(c))
}
