package websocket

import (
	"encoding/json"

	"github.com/rocketscienceinc/tictactoe-ai/internal/entity"
)

const (
	actionGameState   = "game:state"
	actionGameTurn    = "game:turn"
	actionGameRestart = "game:restart"
)

// Message represents a WebSocket message with an action type and a payload.
type Message struct {
	Action  string          `json:"action"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Payload is the body of every message the server sends.
type Payload struct {
	Game  *entity.Game `json:"game,omitempty"`
	Error string       `json:"error,omitempty"`
}

type turnPayload struct {
	Row *int `json:"row"`
	Col *int `json:"col"`
}

func newMessage(action string, payload Payload) (Message, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return Message{}, err
	}

	return Message{Action: action, Payload: body}, nil
}
