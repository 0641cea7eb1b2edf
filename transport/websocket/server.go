package websocket

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"nhooyr.io/websocket"
	"nhooyr.io/websocket/wsjson"

	"github.com/rocketscienceinc/tictactoe-ai/internal/entity"
)

const (
	writeTimeout    = 5 * time.Second
	shutdownTimeout = 5 * time.Second
)

type gameSession interface {
	State() *entity.Game
	MarkHuman(ctx context.Context, row, col int) (*entity.Game, error)
	PlayAI(ctx context.Context) (*entity.Game, error)
	Restart(ctx context.Context) (*entity.Game, error)
}

// client is one renderer connection. Writes are serialized, wsjson.Write is not safe for concurrent use.
type client struct {
	id   string
	conn *websocket.Conn

	writeMutex sync.Mutex
}

func (that *client) send(ctx context.Context, msg Message) error {
	that.writeMutex.Lock()
	defer that.writeMutex.Unlock()

	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()

	return wsjson.Write(ctx, that.conn, msg)
}

type Server struct {
	logger      *slog.Logger
	session     gameSession
	aiMoveDelay time.Duration

	connectionsMutex sync.RWMutex
	connections      map[string]*client

	handlers map[string]func(ctx context.Context, msg *Message, sender *client) error
}

func New(logger *slog.Logger, session gameSession, aiMoveDelay time.Duration) *Server {
	server := &Server{
		logger:      logger.With("component", "websocket"),
		session:     session,
		aiMoveDelay: aiMoveDelay,

		connections: make(map[string]*client),
		handlers:    make(map[string]func(context.Context, *Message, *client) error),
	}

	server.handlers[actionGameState] = server.handleGameState
	server.handlers[actionGameTurn] = server.handleGameTurn
	server.handlers[actionGameRestart] = server.handleGameRestart

	return server
}

// Handler - the WebSocket endpoint.
func (that *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /ws", that.handleUpgrade)

	return mux
}

// Start - starts WebSocket server, connections are closed when ctx is cancelled.
func (that *Server) Start(ctx context.Context, port string) error {
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           that.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()

		that.closeAll()

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

// NotifyRestart pushes a restarted game to every renderer.
func (that *Server) NotifyRestart(game *entity.Game) {
	that.broadcast(context.Background(), actionGameRestart, Payload{Game: game})
}

func (that *Server) handleUpgrade(w http.ResponseWriter, r *http.Request) {
	log := that.logger.With("method", "handleUpgrade")

	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: []string{"*"},
	})
	if err != nil {
		log.Error("failed to accept connection", "error", err)
		return
	}

	c := &client{id: uuid.NewString(), conn: conn}

	that.connectionsMutex.Lock()
	that.connections[c.id] = c
	that.connectionsMutex.Unlock()

	log = log.With("clientID", c.id)
	log.Info("WebSocket connection established")

	defer that.disconnect(c)

	if err = that.sendPayload(r.Context(), c, actionGameState, Payload{Game: that.session.State()}); err != nil {
		log.Error("failed to send initial state", "error", err)
		return
	}

	if err = that.handleMessages(r.Context(), c); err != nil {
		log.Error("error handling messages", "error", err)
	}
}

// handleMessages - processes messages from the client until it goes away.
func (that *Server) handleMessages(ctx context.Context, c *client) error {
	log := that.logger.With("method", "handleMessages", "clientID", c.id)

	for {
		var message Message
		if err := wsjson.Read(ctx, c.conn, &message); err != nil {
			if isClosed(err) {
				return nil
			}

			return fmt.Errorf("failed to read message: %w", err)
		}

		handler, ok := that.handlers[message.Action]
		if !ok {
			log.Warn("unknown action", "action", message.Action)

			if err := that.sendError(ctx, c, message.Action, "unknown action", nil); err != nil {
				log.Error("failed to send error", "error", err)
			}

			continue
		}

		if err := handler(ctx, &message, c); err != nil {
			log.Error("error processing message", "action", message.Action, "error", err)
		}
	}
}

func (that *Server) disconnect(c *client) {
	that.connectionsMutex.Lock()
	delete(that.connections, c.id)
	that.connectionsMutex.Unlock()

	_ = c.conn.CloseNow()

	that.logger.Info("client disconnected", "clientID", c.id)
}

func (that *Server) closeAll() {
	that.connectionsMutex.RLock()
	clients := lo.Values(that.connections)
	that.connectionsMutex.RUnlock()

	for _, c := range clients {
		_ = c.conn.Close(websocket.StatusGoingAway, "server shutting down")
	}
}

func (that *Server) broadcast(ctx context.Context, action string, payload Payload) {
	log := that.logger.With("method", "broadcast", "action", action)

	msg, err := newMessage(action, payload)
	if err != nil {
		log.Error("failed to build message", "error", err)
		return
	}

	that.connectionsMutex.RLock()
	clients := lo.Values(that.connections)
	that.connectionsMutex.RUnlock()

	for _, c := range clients {
		if err = c.send(ctx, msg); err != nil {
			log.Warn("failed to send game update", "clientID", c.id, "error", err)
		}
	}
}

func (that *Server) sendPayload(ctx context.Context, c *client, action string, payload Payload) error {
	msg, err := newMessage(action, payload)
	if err != nil {
		return fmt.Errorf("failed to build message: %w", err)
	}

	if err = c.send(ctx, msg); err != nil {
		return fmt.Errorf("failed to send message: %w", err)
	}

	return nil
}

func (that *Server) sendError(ctx context.Context, c *client, action, errorMsg string, game *entity.Game) error {
	if err := that.sendPayload(ctx, c, action, Payload{Game: game, Error: errorMsg}); err != nil {
		return fmt.Errorf("failed to send error response: %w", err)
	}

	return nil
}

func isClosed(err error) bool {
	status := websocket.CloseStatus(err)

	return status == websocket.StatusNormalClosure || status == websocket.StatusGoingAway ||
		errors.Is(err, context.Canceled)
}
