package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rocketscienceinc/tictactoe-ai/internal/entity"
)

const moveKeyPrefix = "bestmove:"

// MoveCache memoizes engine answers per position. The search is deterministic,
// so a stored move is exactly what a fresh search would return.
type MoveCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewMoveCache - ttl of zero keeps entries forever.
func NewMoveCache(client *redis.Client, ttl time.Duration) *MoveCache {
	return &MoveCache{
		client: client,
		ttl:    ttl,
	}
}

func moveKey(ai entity.Cell, board entity.Board) string {
	return moveKeyPrefix + ai.String() + ":" + board.String()
}

func (that *MoveCache) Set(ctx context.Context, ai entity.Cell, board entity.Board, move entity.Move) error {
	moveJSON, err := json.Marshal(move)
	if err != nil {
		return fmt.Errorf("could not marshal move: %w", err)
	}

	if err = that.client.Set(ctx, moveKey(ai, board), moveJSON, that.ttl).Err(); err != nil {
		return fmt.Errorf("failed to set move: %w", err)
	}

	return nil
}

// Get reports false on a miss.
func (that *MoveCache) Get(ctx context.Context, ai entity.Cell, board entity.Board) (entity.Move, bool, error) {
	response, err := that.client.Get(ctx, moveKey(ai, board)).Bytes()
	if errors.Is(err, redis.Nil) {
		return entity.Move{}, false, nil
	}

	if err != nil {
		return entity.Move{}, false, fmt.Errorf("failed to get move: %w", err)
	}

	var move entity.Move
	if err = json.Unmarshal(response, &move); err != nil {
		return entity.Move{}, false, fmt.Errorf("failed to unmarshal move: %w", err)
	}

	return move, true, nil
}

// Purge drops every cached move and returns how many entries were removed.
func (that *MoveCache) Purge(ctx context.Context) (int, error) {
	var (
		cursor  uint64
		removed int
	)

	for {
		keys, next, err := that.client.Scan(ctx, cursor, moveKeyPrefix+"*", 100).Result()
		if err != nil {
			return removed, fmt.Errorf("failed to scan moves: %w", err)
		}

		if len(keys) > 0 {
			deleted, err := that.client.Del(ctx, keys...).Result()
			if err != nil {
				return removed, fmt.Errorf("failed to delete moves: %w", err)
			}
			removed += int(deleted)
		}

		if next == 0 {
			return removed, nil
		}
		cursor = next
	}
}
