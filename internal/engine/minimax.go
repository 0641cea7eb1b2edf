package engine

import (
	"github.com/rocketscienceinc/tictactoe-ai/internal/entity"
)

const (
	// WinScore is the value of a won position before depth adjustment.
	WinScore = 1_000_000
	// Infinity bounds every reachable score, depth never exceeds 9.
	Infinity = WinScore + 1_000
)

// Evaluate scores board from ai's point of view with minimax and alpha-beta pruning.
// Wins count WinScore-depth so a faster win and a slower loss score higher.
// The board is mutated while searching and restored before returning.
func Evaluate(board *entity.Board, ai entity.Cell, depth int, maximizing bool, alpha, beta int) int {
	human := ai.Opponent()

	switch {
	case board.HasWon(ai):
		return WinScore - depth
	case board.HasWon(human):
		return -WinScore + depth
	case board.IsFull():
		return 0
	}

	if maximizing {
		best := -Infinity
		for row := range entity.Size {
			for col := range entity.Size {
				if !board.IsAvailable(row, col) {
					continue
				}

				board.Mark(row, col, ai)
				score := Evaluate(board, ai, depth+1, false, alpha, beta)
				board.Clear(row, col)

				best = max(best, score)
				alpha = max(alpha, score)
				if beta <= alpha {
					return best
				}
			}
		}

		return best
	}

	best := Infinity
	for row := range entity.Size {
		for col := range entity.Size {
			if !board.IsAvailable(row, col) {
				continue
			}

			board.Mark(row, col, human)
			score := Evaluate(board, ai, depth+1, true, alpha, beta)
			board.Clear(row, col)

			best = min(best, score)
			beta = min(beta, score)
			if beta <= alpha {
				return best
			}
		}
	}

	return best
}

// BestMove returns the optimal move for ai, scanning empty cells in row-major order.
// Ties keep the first cell found. The caller's board is not modified.
// It returns false when the board has no empty cell.
func BestMove(board entity.Board, ai entity.Cell) (entity.Move, bool) {
	var (
		bestMove  entity.Move
		bestScore = -Infinity
		found     bool
	)

	for row := range entity.Size {
		for col := range entity.Size {
			if !board.IsAvailable(row, col) {
				continue
			}

			board.Mark(row, col, ai)
			score := Evaluate(&board, ai, 0, false, -Infinity, Infinity)
			board.Clear(row, col)

			if !found || score > bestScore {
				bestScore = score
				bestMove = entity.Move{Row: row, Col: col}
				found = true
			}
		}
	}

	return bestMove, found
}
