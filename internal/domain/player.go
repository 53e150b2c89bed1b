package domain

import (
	"strings"
	"time"
)

const (
	// DefaultPlayerName is used when a player joins with an empty name
	DefaultPlayerName = "Player"

	// MaxNameLength is the maximum number of characters kept from a display name
	MaxNameLength = 30
)

// Player represents a registered participant
type Player struct {
	ID       string    `json:"id"`
	Name     string    `json:"name"`
	Score    int       `json:"score"`
	JoinedAt time.Time `json:"joinedAt"`

	// joinSeq orders players by arrival for stable leaderboard tie-breaks
	joinSeq int
}

// NewPlayer creates a new player with the given ID and sanitized display name
func NewPlayer(id, rawName string, seq int) *Player {
	return &Player{
		ID:       id,
		Name:     SanitizeName(rawName),
		Score:    0,
		JoinedAt: time.Now(),
		joinSeq:  seq,
	}
}

// SanitizeName trims whitespace and truncates to MaxNameLength characters.
// Empty or whitespace-only input yields DefaultPlayerName.
func SanitizeName(raw string) string {
	name := strings.TrimSpace(raw)
	if name == "" {
		return DefaultPlayerName
	}
	runes := []rune(name)
	if len(runes) > MaxNameLength {
		name = string(runes[:MaxNameLength])
	}
	return name
}

// LeaderboardEntry is a player's row in the score table
type LeaderboardEntry struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Score int    `json:"score"`
}

// ToEntry converts a Player to its leaderboard row
func (p *Player) ToEntry() LeaderboardEntry {
	return LeaderboardEntry{
		ID:    p.ID,
		Name:  p.Name,
		Score: p.Score,
	}
}
