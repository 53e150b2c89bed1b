package domain

import "errors"

// Domain errors
var (
	ErrInvalidPhase   = errors.New("invalid action for current phase")
	ErrPlayerNotFound = errors.New("player not found")
	ErrInvalidGuess   = errors.New("guess must be a finite non-negative number")
	ErrNoCurrentItem  = errors.New("no current item")
	ErrEmptyCatalog   = errors.New("item catalog is empty")
)
