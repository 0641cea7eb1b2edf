package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/rocketscienceinc/tictactoe-ai/internal/config"
	"github.com/rocketscienceinc/tictactoe-ai/internal/engine"
	"github.com/rocketscienceinc/tictactoe-ai/internal/entity"
	"github.com/rocketscienceinc/tictactoe-ai/internal/repository"
	"github.com/rocketscienceinc/tictactoe-ai/internal/repository/storage"
	"github.com/rocketscienceinc/tictactoe-ai/internal/usecase"
	"github.com/rocketscienceinc/tictactoe-ai/transport/rest"
	"github.com/rocketscienceinc/tictactoe-ai/transport/websocket"
)

var ErrAddrNotFound = errors.New("redis address string is empty")

// RunApp - runs the application.
func RunApp(logger *slog.Logger, conf *config.Config) error {
	log := logger.With("component", "app")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	searcher := engine.NewEngine(logger, nil, conf.Game.SearchTimeout)

	if conf.Redis.Enabled {
		moveCache, closeCache, err := openMoveCache(ctx, log, &conf.Redis)
		if err != nil {
			return err
		}
		defer closeCache()

		searcher = engine.NewEngine(logger, moveCache, conf.Game.SearchTimeout)
	}

	opts, err := sessionOptions(&conf.Game)
	if err != nil {
		return err
	}

	session, err := usecase.NewGameSession(logger, searcher, opts)
	if err != nil {
		return fmt.Errorf("failed to create game session: %w", err)
	}
	defer session.Close()

	if _, err = session.Restart(ctx); err != nil {
		return fmt.Errorf("failed to start game: %w", err)
	}

	restServer := rest.New(logger, session)
	wsServer := websocket.New(logger, session, conf.Game.AIMoveDelay)
	session.OnAutoRestart(wsServer.NotifyRestart)

	group, groupCtx := errgroup.WithContext(ctx)

	group.Go(func() error {
		log.Info("Starting HTTP server", "port", conf.HTTPPort)
		if httpErr := restServer.Start(groupCtx, conf.HTTPPort); httpErr != nil {
			return fmt.Errorf("HTTP server error: %w", httpErr)
		}

		return nil
	})

	group.Go(func() error {
		log.Info("Starting WebSocket server", "port", conf.SocketPort)
		if wsErr := wsServer.Start(groupCtx, conf.SocketPort); wsErr != nil {
			return fmt.Errorf("WebSocket server error: %w", wsErr)
		}

		return nil
	})

	go func() {
		<-groupCtx.Done()
		log.Info("Application context canceled, shutting down")
	}()

	return group.Wait()
}

func openMoveCache(ctx context.Context, log *slog.Logger, conf *config.Redis) (*repository.MoveCache, func(), error) {
	redisAddrString := conf.GetRedisAddr()
	if redisAddrString == "" {
		return nil, nil, ErrAddrNotFound
	}

	redisStorage, err := storage.New(ctx, redisAddrString)
	if err != nil {
		return nil, nil, fmt.Errorf("could not connect to redis storage: %w", err)
	}

	closeStorage := func() {
		if err := redisStorage.Close(); err != nil {
			log.Error("could not close redis storage", "error", err)
		}
	}

	moveCache := repository.NewMoveCache(redisStorage, conf.TTL)

	if conf.PurgeOnStart {
		purged, err := moveCache.Purge(ctx)
		if err != nil {
			closeStorage()
			return nil, nil, fmt.Errorf("could not purge move cache: %w", err)
		}

		log.Info("move cache purged", "keys", purged)
	}

	return moveCache, closeStorage, nil
}

func sessionOptions(conf *config.Game) (usecase.SessionOptions, error) {
	human, err := entity.ParseCell(conf.HumanMark)
	if err != nil {
		return usecase.SessionOptions{}, fmt.Errorf("invalid human mark: %w", err)
	}

	ai, err := entity.ParseCell(conf.AIMark)
	if err != nil {
		return usecase.SessionOptions{}, fmt.Errorf("invalid AI mark: %w", err)
	}

	return usecase.SessionOptions{
		HumanMark:        human,
		AIMark:           ai,
		AIFirst:          conf.AIFirst,
		AutoRestartDelay: conf.AutoRestartDelay,
	}, nil
}
