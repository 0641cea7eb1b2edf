package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"sync"
	"time"

	"github.com/rocketscienceinc/tictactoe-ai/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-ai/internal/entity"
)

var ErrInvalidMarks = errors.New("human and AI marks must be X and O")

type moveSearcher interface {
	BestMove(ctx context.Context, board entity.Board, ai entity.Cell) (entity.Move, error)
}

type SessionOptions struct {
	HumanMark        entity.Cell
	AIMark           entity.Cell
	AIFirst          bool
	AutoRestartDelay time.Duration
}

// GameSession owns the one board of a human-versus-AI game.
// All methods are safe for concurrent use.
type GameSession struct {
	logger   *slog.Logger
	searcher moveSearcher
	opts     SessionOptions
	now      func() time.Time

	mu            sync.Mutex
	board         entity.Board
	turn          entity.Cell
	finishedAt    time.Time
	restartTimer  *time.Timer
	generation    uint64
	onAutoRestart func(*entity.Game)
}

func NewGameSession(logger *slog.Logger, searcher moveSearcher, opts SessionOptions) (*GameSession, error) {
	if !opts.HumanMark.IsPlayer() || opts.AIMark != opts.HumanMark.Opponent() {
		return nil, fmt.Errorf("%w: human %s, ai %s", ErrInvalidMarks, opts.HumanMark, opts.AIMark)
	}

	session := &GameSession{
		logger:   logger.With("component", "game_session"),
		searcher: searcher,
		opts:     opts,
		now:      time.Now,
		turn:     opts.HumanMark,
	}

	if opts.AIFirst {
		session.turn = opts.AIMark
	}

	return session, nil
}

// OnAutoRestart registers fn to receive the state after a timer-driven restart.
func (that *GameSession) OnAutoRestart(fn func(*entity.Game)) {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.onAutoRestart = fn
}

func (that *GameSession) State() *entity.Game {
	that.mu.Lock()
	defer that.mu.Unlock()

	return that.snapshot()
}

// MarkHuman places the human mark. The turn passes to the AI only when the mark landed.
func (that *GameSession) MarkHuman(_ context.Context, row, col int) (*entity.Game, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	log := that.logger.With("method", "MarkHuman", "row", row, "col", col)

	if !(entity.Move{Row: row, Col: col}).InBounds() {
		return that.snapshot(), fmt.Errorf("%w: %d,%d", apperror.ErrInvalidCell, row, col)
	}

	if err := that.confirmTurn(that.opts.HumanMark); err != nil {
		return that.snapshot(), err
	}

	if !that.board.Mark(row, col, that.opts.HumanMark) {
		return that.snapshot(), fmt.Errorf("%w: %d,%d", apperror.ErrCellOccupied, row, col)
	}

	log.Debug("human marked cell")

	that.advance(that.opts.HumanMark)

	return that.snapshot(), nil
}

// PlayAI asks the searcher for the AI move and applies it to the board.
// The lock is held while searching, so the board cannot change under the search.
func (that *GameSession) PlayAI(ctx context.Context) (*entity.Game, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	if err := that.playAI(ctx); err != nil {
		return that.snapshot(), err
	}

	return that.snapshot(), nil
}

// MakeTurn plays the human mark and, when the game goes on, the AI reply.
func (that *GameSession) MakeTurn(ctx context.Context, row, col int) (*entity.Game, error) {
	game, err := that.MarkHuman(ctx, row, col)
	if err != nil {
		return game, fmt.Errorf("failed to mark cell: %w", err)
	}

	if game.IsFinished() {
		return game, nil
	}

	game, err = that.PlayAI(ctx)
	if err != nil {
		return game, fmt.Errorf("failed to play AI turn: %w", err)
	}

	return game, nil
}

// Restart clears the board and cancels a pending auto restart.
func (that *GameSession) Restart(ctx context.Context) (*entity.Game, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	if err := that.restart(ctx); err != nil {
		return that.snapshot(), err
	}

	return that.snapshot(), nil
}

// Close stops the auto restart timer.
func (that *GameSession) Close() {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.stopTimer()
	that.generation++
}

func (that *GameSession) confirmTurn(player entity.Cell) error {
	if that.board.Result().IsOver() {
		return apperror.ErrGameFinished
	}

	if that.turn != player {
		return apperror.ErrNotYourTurn
	}

	return nil
}

func (that *GameSession) playAI(ctx context.Context) error {
	log := that.logger.With("method", "playAI")

	if err := that.confirmTurn(that.opts.AIMark); err != nil {
		return err
	}

	move, err := that.searcher.BestMove(ctx, that.board, that.opts.AIMark)
	if err != nil {
		return fmt.Errorf("failed to find AI move: %w", err)
	}

	if !that.board.Mark(move.Row, move.Col, that.opts.AIMark) {
		return fmt.Errorf("%w: AI chose %d,%d", apperror.ErrCellOccupied, move.Row, move.Col)
	}

	log.Debug("AI marked cell", "row", move.Row, "col", move.Col)

	that.advance(that.opts.AIMark)

	return nil
}

// advance hands the turn to the opponent or finishes the game.
func (that *GameSession) advance(player entity.Cell) {
	result := that.board.Result()
	if !result.IsOver() {
		that.turn = player.Opponent()
		return
	}

	that.turn = entity.Empty
	that.finishedAt = that.now()

	that.logger.Info("game finished", "status", result.Status, "winner", result.Winner.String(), "board", that.board.String())

	if that.opts.AutoRestartDelay <= 0 {
		return
	}

	generation := that.generation
	that.restartTimer = time.AfterFunc(that.opts.AutoRestartDelay, func() {
		that.autoRestart(generation)
	})
}

func (that *GameSession) autoRestart(generation uint64) {
	that.mu.Lock()

	// a manual restart already replaced the finished game
	if generation != that.generation {
		that.mu.Unlock()
		return
	}

	err := that.restart(context.Background())
	game := that.snapshot()
	listener := that.onAutoRestart

	that.mu.Unlock()

	if err != nil {
		that.logger.Error("failed to auto restart", "error", err)
		return
	}

	that.logger.Info("game restarted automatically")

	if listener != nil {
		listener(game)
	}
}

func (that *GameSession) restart(ctx context.Context) error {
	that.stopTimer()
	that.generation++

	that.board.Reset()
	that.finishedAt = time.Time{}
	that.turn = that.opts.HumanMark

	if !that.opts.AIFirst {
		return nil
	}

	that.turn = that.opts.AIMark
	if err := that.playAI(ctx); err != nil {
		return fmt.Errorf("failed to play opening move: %w", err)
	}

	return nil
}

func (that *GameSession) stopTimer() {
	if that.restartTimer != nil {
		that.restartTimer.Stop()
		that.restartTimer = nil
	}
}

func (that *GameSession) snapshot() *entity.Game {
	game := entity.NewGameSnapshot(that.board, that.turn, that.opts.HumanMark, that.opts.AIMark)

	if game.IsFinished() && that.opts.AutoRestartDelay > 0 && !that.finishedAt.IsZero() {
		left := that.opts.AutoRestartDelay - that.now().Sub(that.finishedAt)
		game.RestartIn = int(math.Ceil(max(left, 0).Seconds()))
	}

	return game
}
