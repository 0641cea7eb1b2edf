package application

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/tictactoe-ai/internal/config"
	"github.com/rocketscienceinc/tictactoe-ai/internal/entity"
)

func TestSessionOptions(t *testing.T) {
	t.Run("Parses marks", func(t *testing.T) {
		opts, err := sessionOptions(&config.Game{HumanMark: "o", AIMark: "X", AIFirst: true, AutoRestartDelay: time.Second})

		require.NoError(t, err)
		assert.Equal(t, entity.PlayerO, opts.HumanMark)
		assert.Equal(t, entity.PlayerX, opts.AIMark)
		assert.True(t, opts.AIFirst)
		assert.Equal(t, time.Second, opts.AutoRestartDelay)
	})

	t.Run("Rejects unknown mark", func(t *testing.T) {
		_, err := sessionOptions(&config.Game{HumanMark: "Z", AIMark: "O"})

		require.ErrorIs(t, err, entity.ErrInvalidBoard)
	})
}

func TestOpenMoveCache(t *testing.T) {
	ctx := context.Background()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	t.Run("Purges stale moves on start", func(t *testing.T) {
		// Given: a redis holding a cached move and an unrelated key
		mr := miniredis.RunT(t)
		require.NoError(t, mr.Set("bestmove:O:---/---/---", `{"row":2,"col":2}`))
		require.NoError(t, mr.Set("other", "value"))

		// When: the cache is opened with purging enabled
		moveCache, closeCache, err := openMoveCache(ctx, log, &config.Redis{
			Host:         mr.Host(),
			Port:         mr.Port(),
			PurgeOnStart: true,
		})
		require.NoError(t, err)
		defer closeCache()

		// Then: only the move keys are gone
		_, ok, err := moveCache.Get(ctx, entity.PlayerO, entity.Board{})
		require.NoError(t, err)
		assert.False(t, ok)
		assert.True(t, mr.Exists("other"))
	})

	t.Run("Fails when redis is unreachable", func(t *testing.T) {
		mr, err := miniredis.Run()
		require.NoError(t, err)
		host, port := mr.Host(), mr.Port()
		mr.Close()

		_, _, err = openMoveCache(ctx, log, &config.Redis{Host: host, Port: port})

		require.Error(t, err)
	})
}
