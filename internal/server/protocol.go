package server

import (
	"encoding/json"
	"errors"
	"fmt"
)

var (
	// ErrUnknownMessage is returned for client frames with an unsupported type.
	ErrUnknownMessage = errors.New("unknown message type")
	// ErrUnknownAction is returned for input frames with an unsupported action.
	ErrUnknownAction = errors.New("unknown input action")
)

// Frame types that are not bus events.
const (
	frameSnapshot = "snapshot"
	frameError    = "error"
)

const msgInput = "input"

// Action is a player input carried by an input frame.
type Action string

const (
	ActionUp      Action = "up"
	ActionDown    Action = "down"
	ActionPause   Action = "pause"
	ActionResume  Action = "resume"
	ActionToggle  Action = "toggle_pause"
	ActionRestart Action = "restart"
)

// clientMessage is a frame sent by the browser.
type clientMessage struct {
	Type   string `json:"type"`
	Action Action `json:"action"`
}

// envelope wraps every frame sent to the browser.
type envelope struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

type errorData struct {
	Message string `json:"message"`
}

func encodeFrame(frameType string, data any) ([]byte, error) {
	b, err := json.Marshal(envelope{Type: frameType, Data: data})
	if err != nil {
		return nil, fmt.Errorf("encoding %s frame: %w", frameType, err)
	}
	return b, nil
}

func decodeMessage(data []byte) (clientMessage, error) {
	var msg clientMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return msg, fmt.Errorf("decoding client message: %w", err)
	}
	return msg, nil
}
