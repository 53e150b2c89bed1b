package domain

import "time"

// Submission records one guess made during the current round.
// The log is append-only and cleared when a new round begins. A player may
// appear more than once; later entries still count toward the auto-advance
// denominator but cannot win a prize slot already taken.
type Submission struct {
	PlayerID    string    `json:"playerId"`
	Guess       float64   `json:"guess"`
	Timestamp   time.Time `json:"timestamp"`
	WithinRange bool      `json:"withinRange"`
	Exact       bool      `json:"exact"`
}

// NewSubmission creates a new submission with the given score result
func NewSubmission(playerID string, guess float64, result ScoreResult) *Submission {
	return &Submission{
		PlayerID:    playerID,
		Guess:       guess,
		Timestamp:   time.Now(),
		WithinRange: result.WithinRange,
		Exact:       result.Exact,
	}
}
