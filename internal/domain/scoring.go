package domain

import "math"

// DefaultTolerancePercent is the width of the winning band around the price
const DefaultTolerancePercent = 10.0

// ScoreResult classifies a single guess against the reference price
type ScoreResult struct {
	WithinRange bool `json:"withinRange"`
	Exact       bool `json:"exact"`
}

// Scorer classifies guesses against a reference price
type Scorer struct {
	TolerancePercent float64
}

// NewScorer creates a scorer with the given tolerance percentage
func NewScorer(tolerancePercent float64) Scorer {
	return Scorer{TolerancePercent: tolerancePercent}
}

// Classify scores a guess against the reference price. A guess is within
// range when it lies inside price ± tolerance, bounds included. It is exact
// when it is within range and matches the price to the nearest integer.
func (s Scorer) Classify(guess, price float64) ScoreResult {
	low := price * (1 - s.TolerancePercent/100)
	high := price * (1 + s.TolerancePercent/100)

	if guess < low || guess > high {
		return ScoreResult{}
	}

	return ScoreResult{
		WithinRange: true,
		Exact:       math.Round(guess) == math.Round(price),
	}
}

// ValidGuess reports whether a raw value is acceptable as a guess:
// a finite, non-negative number. Anything else is dropped upstream.
func ValidGuess(value float64) bool {
	return !math.IsNaN(value) && !math.IsInf(value, 0) && value >= 0
}
