package domain

// Phase represents the current phase of the game
type Phase string

const (
	PhaseLobby   Phase = "lobby"   // Waiting for the host to start; leaderboard visible
	PhasePlaying Phase = "playing" // An item is revealed, guesses accepted
	PhaseReveal  Phase = "reveal"  // Answer shown, countdown to next item running
)

// String returns the string representation of the phase
func (p Phase) String() string {
	return string(p)
}

// CanTransitionTo checks if a transition from current phase to target phase is valid.
// Host start and reset are valid from every phase and bypass this table.
func (p Phase) CanTransitionTo(target Phase) bool {
	validTransitions := map[Phase][]Phase{
		PhaseLobby:   {PhasePlaying},
		PhasePlaying: {PhaseReveal, PhaseLobby},
		PhaseReveal:  {PhasePlaying, PhaseLobby},
	}

	allowed, ok := validTransitions[p]
	if !ok {
		return false
	}

	for _, phase := range allowed {
		if phase == target {
			return true
		}
	}
	return false
}
