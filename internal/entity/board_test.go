package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBoard_Mark(t *testing.T) {
	t.Run("Marks an empty cell and changes only that cell", func(t *testing.T) {
		// Given: an empty board
		var board Board

		// When: player X marks the center
		ok := board.Mark(1, 1, PlayerX)

		// Then: the mark succeeds and no other cell changes
		require.True(t, ok)
		assert.Equal(t, "---/-X-/---", board.String())
		assert.Equal(t, 1, board.Count(PlayerX))
		assert.Equal(t, 0, board.Count(PlayerO))
	})

	t.Run("Every empty cell of every row accepts a mark", func(t *testing.T) {
		for row := range Size {
			for col := range Size {
				// Given: an empty board
				var board Board

				// When: marking the cell
				ok := board.Mark(row, col, PlayerO)

				// Then: it succeeds and holds the mark
				require.True(t, ok)
				assert.Equal(t, PlayerO, board.At(row, col))
				assert.Equal(t, 1, board.Count(PlayerO))
			}
		}
	})

	t.Run("Marking an occupied cell returns false and leaves the board unchanged", func(t *testing.T) {
		// Given: a board where X holds the top-left corner
		board := MustParseBoard("X--/-O-/---")
		before := board

		// When: O tries to mark the same cell
		ok := board.Mark(0, 0, PlayerO)

		// Then: the mark is rejected and the board is unchanged
		assert.False(t, ok)
		assert.Equal(t, before, board)
	})
}

func TestBoard_IsAvailable(t *testing.T) {
	// Given: a board with one mark
	board := MustParseBoard("---/-X-/---")

	// Then: only the marked cell is unavailable
	assert.False(t, board.IsAvailable(1, 1))
	assert.True(t, board.IsAvailable(0, 0))
	assert.True(t, board.IsAvailable(2, 2))

	// When: the mark is cleared
	board.Clear(1, 1)

	// Then: the cell is available again
	assert.True(t, board.IsAvailable(1, 1))
}

func TestBoard_IsFull(t *testing.T) {
	t.Run("Empty board is not full", func(t *testing.T) {
		var board Board
		assert.False(t, board.IsFull())
	})

	t.Run("Board with one empty cell is not full", func(t *testing.T) {
		board := MustParseBoard("XOX/XOO/OX-")
		assert.False(t, board.IsFull())
	})

	t.Run("Board with every cell marked is full", func(t *testing.T) {
		board := MustParseBoard("XOX/XOO/OXX")
		assert.True(t, board.IsFull())
	})

	t.Run("IsFull is idempotent", func(t *testing.T) {
		board := MustParseBoard("XOX/XOO/OX-")
		assert.Equal(t, board.IsFull(), board.IsFull())
	})
}

func TestBoard_Winner(t *testing.T) {
	tests := []struct {
		name     string
		board    string
		player   Cell
		expected WinningLine
	}{
		{"left column", "X--/XO-/XO-", PlayerX, WinningLine{Start: Move{0, 0}, End: Move{2, 0}}},
		{"middle column", "-O-/XO-/XO-", PlayerO, WinningLine{Start: Move{0, 1}, End: Move{2, 1}}},
		{"right column", "-OX/-OX/O-X", PlayerX, WinningLine{Start: Move{0, 2}, End: Move{2, 2}}},
		{"top row", "OOO/XX-/X--", PlayerO, WinningLine{Start: Move{0, 0}, End: Move{0, 2}}},
		{"middle row", "O-O/XXX/---", PlayerX, WinningLine{Start: Move{1, 0}, End: Move{1, 2}}},
		{"bottom row", "XX-/---/OOO", PlayerO, WinningLine{Start: Move{2, 0}, End: Move{2, 2}}},
		{"main diagonal", "XO-/OX-/--X", PlayerX, WinningLine{Start: Move{0, 0}, End: Move{2, 2}}},
		{"anti-diagonal", "XXO/-O-/O-X", PlayerO, WinningLine{Start: Move{0, 2}, End: Move{2, 0}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Given: a board where the player completed a line
			board := MustParseBoard(tt.board)

			// When: asking for the winning line
			line, ok := board.Winner(tt.player)

			// Then: the line endpoints are reported
			require.True(t, ok)
			assert.Equal(t, tt.expected, line)
			assert.True(t, board.HasWon(tt.player))
			assert.False(t, board.HasWon(tt.player.Opponent()))
		})
	}

	t.Run("Columns are reported before rows", func(t *testing.T) {
		// Given: X completed both the left column and the top row
		board := MustParseBoard("XXX/XOO/XOO")

		// When: asking for the winning line
		line, ok := board.Winner(PlayerX)

		// Then: the column comes first in scan order
		require.True(t, ok)
		assert.Equal(t, WinningLine{Start: Move{0, 0}, End: Move{2, 0}}, line)
	})

	t.Run("Rows are reported before diagonals", func(t *testing.T) {
		// Given: O completed the bottom row and the anti-diagonal
		board := MustParseBoard("XXO/XO-/OOO")

		// When: asking for the winning line
		line, ok := board.Winner(PlayerO)

		// Then: the row comes first in scan order
		require.True(t, ok)
		assert.Equal(t, WinningLine{Start: Move{2, 0}, End: Move{2, 2}}, line)
	})

	t.Run("No line returns false and is idempotent", func(t *testing.T) {
		// Given: a board with no completed line
		board := MustParseBoard("XO-/-X-/O--")

		// When: asking twice without mutation
		first, ok1 := board.Winner(PlayerX)
		second, ok2 := board.Winner(PlayerX)

		// Then: both answers agree
		assert.False(t, ok1)
		assert.Equal(t, ok1, ok2)
		assert.Equal(t, first, second)
	})
}

func TestBoard_Reset(t *testing.T) {
	// Given: a full board
	board := MustParseBoard("XOX/XOO/OXX")

	// When: it is reset
	board.Reset()

	// Then: every cell is empty
	assert.Equal(t, Board{}, board)
	assert.Equal(t, "---/---/---", board.String())
}

func TestParseBoard(t *testing.T) {
	t.Run("Round trips through String", func(t *testing.T) {
		board, err := ParseBoard("xo-/.X./--O")
		require.NoError(t, err)
		assert.Equal(t, "XO-/-X-/--O", board.String())
	})

	t.Run("Rejects wrong number of rows", func(t *testing.T) {
		_, err := ParseBoard("XO-/---")
		assert.ErrorIs(t, err, ErrInvalidBoard)
	})

	t.Run("Rejects short rows", func(t *testing.T) {
		_, err := ParseBoard("XO/---/---")
		assert.ErrorIs(t, err, ErrInvalidBoard)
	})

	t.Run("Rejects unknown marks", func(t *testing.T) {
		_, err := ParseBoard("XZ-/---/---")
		assert.ErrorIs(t, err, ErrInvalidBoard)
	})
}

func TestCell(t *testing.T) {
	assert.Equal(t, PlayerO, PlayerX.Opponent())
	assert.Equal(t, PlayerX, PlayerO.Opponent())
	assert.Equal(t, Empty, Empty.Opponent())
	assert.False(t, Empty.IsPlayer())

	mark, err := ParseCell(" o ")
	require.NoError(t, err)
	assert.Equal(t, PlayerO, mark)

	_, err = ParseCell("-")
	assert.ErrorIs(t, err, ErrInvalidBoard)
}
