package rest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/rocketscienceinc/tictactoe-ai/internal/entity"
)

const shutdownTimeout = 5 * time.Second

type gameSession interface {
	State() *entity.Game
	MakeTurn(ctx context.Context, row, col int) (*entity.Game, error)
	Restart(ctx context.Context) (*entity.Game, error)
}

type Server struct {
	logger  *slog.Logger
	session gameSession
}

func New(logger *slog.Logger, session gameSession) *Server {
	return &Server{
		logger:  logger.With("component", "rest"),
		session: session,
	}
}

// Handler - routes of the REST API.
func (that *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /ping", pingHandler)
	mux.HandleFunc("GET /game", that.handleGetGame)
	mux.HandleFunc("POST /game/turn", that.handleTurn)
	mux.HandleFunc("POST /game/restart", that.handleRestart)

	return mux
}

// Start - serves the REST API until ctx is cancelled.
func (that *Server) Start(ctx context.Context, port string) error {
	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      that.Handler(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  30 * time.Second,
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			that.logger.Error("failed to shutdown server", "error", err)
		}
	}()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}
