package engine

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/rocketscienceinc/tictactoe-ai/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-ai/internal/entity"
)

type moveCache interface {
	Get(ctx context.Context, ai entity.Cell, board entity.Board) (entity.Move, bool, error)
	Set(ctx context.Context, ai entity.Cell, board entity.Board, move entity.Move) error
}

// Engine picks AI moves for a session. It memoizes results in the optional cache
// and runs each search on its own goroutine so callers can bound it with a context.
type Engine struct {
	logger  *slog.Logger
	cache   moveCache
	timeout time.Duration
}

type searchResult struct {
	move entity.Move
	ok   bool
}

// NewEngine - cache may be nil, a zero timeout leaves the search bounded only by ctx.
func NewEngine(logger *slog.Logger, cache moveCache, timeout time.Duration) *Engine {
	return &Engine{
		logger:  logger.With("component", "engine"),
		cache:   cache,
		timeout: timeout,
	}
}

// BestMove returns the AI move for board. The board is copied, the caller keeps ownership.
func (that *Engine) BestMove(ctx context.Context, board entity.Board, ai entity.Cell) (entity.Move, error) {
	log := that.logger.With("method", "BestMove", "board", board.String(), "ai", ai.String())

	if board.IsFull() {
		return entity.Move{}, apperror.ErrNoAvailableMoves
	}

	if move, ok := that.cachedMove(ctx, log, board, ai); ok {
		log.Debug("best move served from cache", "row", move.Row, "col", move.Col)
		return move, nil
	}

	if that.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, that.timeout)
		defer cancel()
	}

	if err := ctx.Err(); err != nil {
		return entity.Move{}, fmt.Errorf("search aborted: %w", err)
	}

	started := time.Now()
	resultCh := make(chan searchResult, 1)

	go func(snapshot entity.Board) {
		move, ok := BestMove(snapshot, ai)
		resultCh <- searchResult{move: move, ok: ok}
	}(board)

	var result searchResult
	select {
	case <-ctx.Done():
		return entity.Move{}, fmt.Errorf("search aborted: %w", ctx.Err())
	case result = <-resultCh:
	}

	if !result.ok {
		return entity.Move{}, apperror.ErrNoAvailableMoves
	}

	log.Debug("best move found", "row", result.move.Row, "col", result.move.Col, "elapsed", time.Since(started))

	if that.cache != nil {
		if err := that.cache.Set(ctx, ai, board, result.move); err != nil {
			log.Warn("failed to cache best move", "error", err)
		}
	}

	return result.move, nil
}

func (that *Engine) cachedMove(ctx context.Context, log *slog.Logger, board entity.Board, ai entity.Cell) (entity.Move, bool) {
	if that.cache == nil {
		return entity.Move{}, false
	}

	move, ok, err := that.cache.Get(ctx, ai, board)
	if err != nil {
		log.Warn("failed to read move cache", "error", err)
		return entity.Move{}, false
	}

	// a stale or corrupted entry must never place a mark on an occupied cell
	if !ok || !move.InBounds() || !board.IsAvailable(move.Row, move.Col) {
		return entity.Move{}, false
	}

	return move, true
}
