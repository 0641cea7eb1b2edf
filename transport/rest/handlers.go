package rest

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rocketscienceinc/tictactoe-ai/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-ai/internal/entity"
)

type turnRequest struct {
	Row *int `json:"row"`
	Col *int `json:"col"`
}

type errorResponse struct {
	Error string       `json:"error"`
	Game  *entity.Game `json:"game,omitempty"`
}

func (that *Server) handleGetGame(w http.ResponseWriter, _ *http.Request) {
	that.writeJSON(w, http.StatusOK, that.session.State())
}

func (that *Server) handleTurn(w http.ResponseWriter, r *http.Request) {
	log := that.logger.With("method", "handleTurn")

	var req turnRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		that.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	if req.Row == nil || req.Col == nil {
		that.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "row and col are required"})
		return
	}

	game, err := that.session.MakeTurn(r.Context(), *req.Row, *req.Col)
	if err != nil {
		status := statusFromError(err)
		if status == http.StatusInternalServerError {
			log.Error("failed to make turn", "error", err)
		}

		that.writeJSON(w, status, errorResponse{Error: err.Error(), Game: game})
		return
	}

	that.writeJSON(w, http.StatusOK, game)
}

func (that *Server) handleRestart(w http.ResponseWriter, r *http.Request) {
	game, err := that.session.Restart(r.Context())
	if err != nil {
		that.logger.Error("failed to restart game", "method", "handleRestart", "error", err)
		that.writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error(), Game: game})
		return
	}

	that.writeJSON(w, http.StatusOK, game)
}

func statusFromError(err error) int {
	switch {
	case errors.Is(err, apperror.ErrInvalidCell):
		return http.StatusBadRequest
	case errors.Is(err, apperror.ErrCellOccupied),
		errors.Is(err, apperror.ErrNotYourTurn),
		errors.Is(err, apperror.ErrGameFinished):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func (that *Server) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		that.logger.Error("failed to write response", "error", err)
	}
}
