package ws

import "time"

// MessageType represents the type of WebSocket message
type MessageType string

// Client → Server message types
const (
	MsgJoin  MessageType = "join"
	MsgGuess MessageType = "guess"
	MsgPing  MessageType = "ping"
)

// Server → Client message types produced by this layer. Game events carry
// their own types (joined, leaderboard, game_start, next_item, reveal,
// game_over, reset) and are forwarded as-is from the session.
const (
	MsgError MessageType = "error"
	MsgPong  MessageType = "pong"
)

// ClientMessage represents a message from client to server
type ClientMessage struct {
	Type    MessageType `json:"type"`
	Payload interface{} `json:"payload,omitempty"`
}

// ServerMessage represents a transport-level message from server to client
type ServerMessage struct {
	Type      MessageType `json:"type"`
	Payload   interface{} `json:"payload,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

// NewServerMessage creates a new server message with current timestamp
func NewServerMessage(msgType MessageType, payload interface{}) *ServerMessage {
	return &ServerMessage{
		Type:      msgType,
		Payload:   payload,
		Timestamp: time.Now().UTC(),
	}
}

// JoinPayload is the payload for a join message
type JoinPayload struct {
	Name string `json:"name"`
}

// GuessPayload is the payload for a guess message. Value may arrive as a
// JSON number or a numeric string.
type GuessPayload struct {
	Value interface{} `json:"value"`
}

// ErrorPayload is the payload for an error message
type ErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error codes
const (
	ErrCodeInvalidMessage = "INVALID_MESSAGE"
)
