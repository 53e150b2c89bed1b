package domain

import "time"

// EventType represents the type of game event
type EventType string

const (
	EventJoined      EventType = "joined"
	EventLeaderboard EventType = "leaderboard"
	EventGameStart   EventType = "game_start"
	EventNextItem    EventType = "next_item"
	EventReveal      EventType = "reveal"
	EventGameOver    EventType = "game_over"
	EventReset       EventType = "reset"
)

// GameEvent is a state change to be delivered to connected players.
// PlayerID, when set, makes the event a unicast to that player; otherwise
// the event is broadcast to everyone.
type GameEvent struct {
	Type      EventType   `json:"type"`
	PlayerID  string      `json:"-"`
	Payload   interface{} `json:"payload,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

// NewEvent creates a new broadcast event
func NewEvent(eventType EventType, payload interface{}) *GameEvent {
	return &GameEvent{
		Type:      eventType,
		Payload:   payload,
		Timestamp: time.Now(),
	}
}

// NewPlayerEvent creates a new event addressed to a single player
func NewPlayerEvent(eventType EventType, playerID string, payload interface{}) *GameEvent {
	return &GameEvent{
		Type:      eventType,
		PlayerID:  playerID,
		Payload:   payload,
		Timestamp: time.Now(),
	}
}

// Payload types for the different events

// JoinedPayload is sent to the joining player only
type JoinedPayload struct {
	Name        string             `json:"name"`
	Leaderboard []LeaderboardEntry `json:"leaderboard"`
}

// LeaderboardPayload is broadcast whenever scores or membership change
type LeaderboardPayload struct {
	Leaderboard []LeaderboardEntry `json:"leaderboard"`
}

// ItemPayload carries the next item to guess; the price is withheld
type ItemPayload struct {
	Item *PublicItem `json:"item"`
}

// RevealPayload discloses the answer for the round just closed.
// Prize fields say only whether each slot was claimed, never by whom.
type RevealPayload struct {
	ItemName         string  `json:"itemName"`
	ItemImage        string  `json:"itemImage"`
	CorrectPrice     float64 `json:"correctPrice"`
	FirstExact       bool    `json:"firstExact"`
	FirstWithinRange bool    `json:"firstWithinRange"`
}

// GameOverPayload carries the final standings
type GameOverPayload struct {
	Leaderboard []LeaderboardEntry `json:"leaderboard"`
}
