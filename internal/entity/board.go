package entity

import (
	"errors"
	"fmt"
	"strings"

	"github.com/samber/lo"
)

// Size is the side length of the board.
const Size = 3

type Cell uint8

const (
	Empty Cell = iota
	PlayerX
	PlayerO
)

var ErrInvalidBoard = errors.New("invalid board notation")

func (that Cell) String() string {
	switch that {
	case PlayerX:
		return "X"
	case PlayerO:
		return "O"
	default:
		return "-"
	}
}

// Opponent returns the other player's mark, Empty stays Empty.
func (that Cell) Opponent() Cell {
	switch that {
	case PlayerX:
		return PlayerO
	case PlayerO:
		return PlayerX
	default:
		return Empty
	}
}

// IsPlayer reports whether the cell value is one of the two player marks.
func (that Cell) IsPlayer() bool {
	return that == PlayerX || that == PlayerO
}

// ParseCell converts "X", "O" (any case) into a player mark.
func ParseCell(mark string) (Cell, error) {
	switch strings.ToUpper(strings.TrimSpace(mark)) {
	case "X":
		return PlayerX, nil
	case "O":
		return PlayerO, nil
	default:
		return Empty, fmt.Errorf("%w: unknown mark %q", ErrInvalidBoard, mark)
	}
}

type Move struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// InBounds reports whether the move addresses a cell of the board.
func (that Move) InBounds() bool {
	return that.Row >= 0 && that.Row < Size && that.Col >= 0 && that.Col < Size
}

// WinningLine holds the endpoints of a completed column, row or diagonal.
type WinningLine struct {
	Start Move `json:"start"`
	End   Move `json:"end"`
}

// winLines is the scan order used by Winner: columns left to right,
// rows top to bottom, the main diagonal, then the anti-diagonal.
var winLines = [8][Size]Move{
	{{0, 0}, {1, 0}, {2, 0}},
	{{0, 1}, {1, 1}, {2, 1}},
	{{0, 2}, {1, 2}, {2, 2}},
	{{0, 0}, {0, 1}, {0, 2}},
	{{1, 0}, {1, 1}, {1, 2}},
	{{2, 0}, {2, 1}, {2, 2}},
	{{0, 0}, {1, 1}, {2, 2}},
	{{0, 2}, {1, 1}, {2, 0}},
}

// Board is a 3x3 grid of cells. It is a value type: assigning a Board copies it.
type Board struct {
	cells [Size][Size]Cell
}

// Mark places player on the cell and reports whether the cell was empty.
// An occupied cell is left untouched.
func (that *Board) Mark(row, col int, player Cell) bool {
	if that.cells[row][col] != Empty {
		return false
	}

	that.cells[row][col] = player

	return true
}

// Clear empties the cell. It is the undo step of Mark.
func (that *Board) Clear(row, col int) {
	that.cells[row][col] = Empty
}

func (that *Board) At(row, col int) Cell {
	return that.cells[row][col]
}

func (that *Board) IsAvailable(row, col int) bool {
	return that.cells[row][col] == Empty
}

func (that *Board) IsFull() bool {
	for row := range Size {
		for col := range Size {
			if that.cells[row][col] == Empty {
				return false
			}
		}
	}

	return true
}

// Winner returns the first line fully occupied by player.
func (that *Board) Winner(player Cell) (WinningLine, bool) {
	for _, line := range winLines {
		if that.cells[line[0].Row][line[0].Col] == player &&
			that.cells[line[1].Row][line[1].Col] == player &&
			that.cells[line[2].Row][line[2].Col] == player {
			return WinningLine{Start: line[0], End: line[Size-1]}, true
		}
	}

	return WinningLine{}, false
}

func (that *Board) HasWon(player Cell) bool {
	_, ok := that.Winner(player)
	return ok
}

func (that *Board) Reset() {
	that.cells = [Size][Size]Cell{}
}

// Count returns how many cells hold player.
func (that *Board) Count(player Cell) int {
	count := 0
	for row := range Size {
		for col := range Size {
			if that.cells[row][col] == player {
				count++
			}
		}
	}

	return count
}

// Rows renders every row as a string such as "XO-".
func (that *Board) Rows() []string {
	return lo.Map(that.cells[:], func(row [Size]Cell, _ int) string {
		var sb strings.Builder
		for _, cell := range row {
			sb.WriteString(cell.String())
		}
		return sb.String()
	})
}

// String returns the board as "XO-/---/--O".
func (that Board) String() string {
	return strings.Join(that.Rows(), "/")
}

// ParseBoard reads the notation produced by Board.String.
func ParseBoard(notation string) (Board, error) {
	var board Board

	rows := strings.Split(strings.TrimSpace(notation), "/")
	if len(rows) != Size {
		return board, fmt.Errorf("%w: want %d rows, got %d", ErrInvalidBoard, Size, len(rows))
	}

	for row, line := range rows {
		if len(line) != Size {
			return board, fmt.Errorf("%w: row %d has %d cells", ErrInvalidBoard, row, len(line))
		}

		for col, r := range line {
			switch r {
			case 'X', 'x':
				board.cells[row][col] = PlayerX
			case 'O', 'o':
				board.cells[row][col] = PlayerO
			case '-', '.', ' ':
				board.cells[row][col] = Empty
			default:
				return board, fmt.Errorf("%w: unexpected %q at %d,%d", ErrInvalidBoard, r, row, col)
			}
		}
	}

	return board, nil
}

// MustParseBoard is ParseBoard for fixtures; it panics on malformed input.
func MustParseBoard(notation string) Board {
	board, err := ParseBoard(notation)
	if err != nil {
		panic(err)
	}

	return board
}
