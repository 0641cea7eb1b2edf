package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/rocketscienceinc/tictactoe-ai/internal/apperror"
)

func (that *Server) handleGameState(ctx context.Context, msg *Message, sender *client) error {
	return that.sendPayload(ctx, sender, msg.Action, Payload{Game: that.session.State()})
}

// handleGameTurn marks the human cell, shows it to everyone, then plays the AI reply after a pause.
func (that *Server) handleGameTurn(ctx context.Context, msg *Message, sender *client) error {
	log := that.logger.With("method", "handleGameTurn", "clientID", sender.id)

	var payloadReq turnPayload
	if err := json.Unmarshal(msg.Payload, &payloadReq); err != nil {
		return that.sendError(ctx, sender, msg.Action, "invalid payload", nil)
	}

	if payloadReq.Row == nil || payloadReq.Col == nil {
		return that.sendError(ctx, sender, msg.Action, "row and col are required", nil)
	}

	game, err := that.session.MarkHuman(ctx, *payloadReq.Row, *payloadReq.Col)
	if err != nil {
		return that.sendError(ctx, sender, msg.Action, err.Error(), game)
	}

	that.broadcast(ctx, msg.Action, Payload{Game: game})

	if game.IsFinished() {
		log.Info("game finished by human move", "status", game.Status)
		return nil
	}

	if err = sleep(ctx, that.aiMoveDelay); err != nil {
		return fmt.Errorf("AI move cancelled: %w", err)
	}

	game, err = that.session.PlayAI(ctx)
	if errors.Is(err, apperror.ErrGameFinished) || errors.Is(err, apperror.ErrNotYourTurn) {
		// restarted during the pause, the restart was already broadcast
		log.Debug("skipping AI move", "reason", err)
		return nil
	}

	if err != nil {
		log.Error("failed to play AI turn", "error", err)
		return that.sendError(ctx, sender, msg.Action, "failed to play AI turn", game)
	}

	that.broadcast(ctx, msg.Action, Payload{Game: game})

	return nil
}

func (that *Server) handleGameRestart(ctx context.Context, msg *Message, sender *client) error {
	game, err := that.session.Restart(ctx)
	if err != nil {
		that.logger.Error("failed to restart game", "method", "handleGameRestart", "error", err)
		return that.sendError(ctx, sender, msg.Action, "failed to restart game", game)
	}

	that.broadcast(ctx, msg.Action, Payload{Game: game})

	return nil
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
