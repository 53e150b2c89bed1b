package app

import (
	"log/slog"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"priceparty/internal/domain"
)

// ClientConnection represents a connected client
type ClientConnection interface {
	Send(message interface{}) error
	GetPlayerID() string
	Close() error
}

// GameSession wraps the single room's game with concurrency control, client
// management and the auto-advance timer. Every state transition runs under
// one mutex, so guesses, host commands and the timer callback never
// interleave.
type GameSession struct {
	game *domain.Game
	mu   sync.Mutex

	clients   map[string]ClientConnection // playerID -> client
	clientsMu sync.RWMutex

	logger       *slog.Logger
	clock        clockwork.Clock
	advanceDelay time.Duration

	// advanceTimer is non-nil only while phase == reveal. timerGen guards
	// against a stale timer that fired before its cancellation took the lock.
	advanceTimer clockwork.Timer
	timerGen     uint64

	// Event channel for broadcasting
	events    chan *domain.GameEvent
	done      chan struct{}
	closeOnce sync.Once
}

// NewGameSession creates a session over the given game using the real clock
func NewGameSession(game *domain.Game, advanceDelay time.Duration, logger *slog.Logger) *GameSession {
	return NewGameSessionWithClock(game, advanceDelay, logger, clockwork.NewRealClock())
}

// NewGameSessionWithClock creates a session with an injected clock.
// Tests pass a clockwork.FakeClock to drive the auto-advance timer.
func NewGameSessionWithClock(game *domain.Game, advanceDelay time.Duration, logger *slog.Logger, clock clockwork.Clock) *GameSession {
	session := &GameSession{
		game:         game,
		clients:      make(map[string]ClientConnection),
		logger:       logger,
		clock:        clock,
		advanceDelay: advanceDelay,
		events:       make(chan *domain.GameEvent, 100),
		done:         make(chan struct{}),
	}

	// Start event broadcaster
	go session.eventLoop()

	return session
}

// GetPlayerCount returns the number of registered players
func (s *GameSession) GetPlayerCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.game.Players)
}

// GetPhase returns the current game phase
func (s *GameSession) GetPhase() domain.Phase {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.game.Phase
}

// GetSnapshot returns the state-query view of the game
func (s *GameSession) GetSnapshot() *domain.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.game.GetSnapshot()
}

// RegisterClient registers a client connection for a player
func (s *GameSession) RegisterClient(playerID string, client ClientConnection) {
	s.clientsMu.Lock()
	defer s.clientsMu.Unlock()
	s.clients[playerID] = client
}

// UnregisterClient removes a client connection
func (s *GameSession) UnregisterClient(playerID string) {
	s.clientsMu.Lock()
	defer s.clientsMu.Unlock()
	delete(s.clients, playerID)
}

// Join registers a player, confirms to them and updates everyone else
func (s *GameSession) Join(playerID, rawName string) *domain.Player {
	s.mu.Lock()
	defer s.mu.Unlock()

	player := s.game.Join(playerID, rawName)
	leaderboard := s.game.Leaderboard()

	s.queueEvent(domain.NewPlayerEvent(domain.EventJoined, playerID, &domain.JoinedPayload{
		Name:        player.Name,
		Leaderboard: leaderboard,
	}))
	s.queueEvent(domain.NewEvent(domain.EventLeaderboard, &domain.LeaderboardPayload{Leaderboard: leaderboard}))

	s.logger.Info("player joined", "playerID", playerID, "name", player.Name)

	return player
}

// Leave removes a player. Points already awarded this round stay on the
// board until the next start; the auto-advance denominator shrinks.
func (s *GameSession) Leave(playerID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.game.Leave(playerID) {
		return
	}

	s.queueEvent(domain.NewEvent(domain.EventLeaderboard, &domain.LeaderboardPayload{Leaderboard: s.game.Leaderboard()}))
	s.logger.Info("player left", "playerID", playerID)
}

// SubmitGuess scores a guess. Invalid guesses, guesses outside the playing
// phase and guesses from unknown connections are dropped without reply.
func (s *GameSession) SubmitGuess(playerID string, value float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	outcome, err := s.game.SubmitGuess(playerID, value)
	if err != nil {
		s.logger.Debug("guess dropped", "playerID", playerID, "error", err)
		return err
	}

	s.logger.Info("guess accepted",
		"playerID", playerID,
		"withinRange", outcome.Result.WithinRange,
		"exact", outcome.Result.Exact,
		"points", outcome.Points,
	)

	s.queueEvent(domain.NewEvent(domain.EventLeaderboard, &domain.LeaderboardPayload{Leaderboard: s.game.Leaderboard()}))

	if outcome.AutoAdvance {
		s.revealLocked()
	}

	return nil
}

// Start begins a fresh game (host command, valid from any phase)
func (s *GameSession) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cancelAdvanceLocked()

	item, err := s.game.Start()
	if err != nil {
		return err
	}

	s.queueEvent(domain.NewEvent(domain.EventGameStart, &domain.ItemPayload{Item: item}))
	s.logger.Info("game started", "item", item.ID)

	return nil
}

// Next is the host override: while playing it forces the reveal, while
// revealing it skips the countdown and advances. In the lobby it is a no-op.
func (s *GameSession) Next() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cancelAdvanceLocked()

	switch s.game.Phase {
	case domain.PhasePlaying:
		s.revealLocked()
	case domain.PhaseReveal:
		s.advanceLocked()
	}
}

// Reset returns to the lobby keeping scores and membership (host command)
func (s *GameSession) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cancelAdvanceLocked()
	s.game.Reset()

	s.queueEvent(domain.NewEvent(domain.EventReset, nil))
	s.logger.Info("game reset")
}

// revealLocked closes the round, publishes the answer and schedules the
// deferred advance. Caller holds s.mu.
func (s *GameSession) revealLocked() {
	s.cancelAdvanceLocked()

	payload, err := s.game.Reveal()
	if err != nil {
		s.logger.Debug("reveal skipped", "error", err)
		return
	}

	s.queueEvent(domain.NewEvent(domain.EventReveal, payload))
	s.logger.Info("round revealed",
		"item", payload.ItemName,
		"firstExact", payload.FirstExact,
		"firstWithinRange", payload.FirstWithinRange,
	)

	s.scheduleAdvanceLocked()
}

// advanceLocked moves past the reveal into the next round or game over.
// Caller holds s.mu.
func (s *GameSession) advanceLocked() {
	outcome, err := s.game.AdvanceAfterReveal()
	if err != nil {
		s.logger.Debug("advance skipped", "error", err)
		return
	}

	if outcome.GameOver {
		s.queueEvent(domain.NewEvent(domain.EventGameOver, &domain.GameOverPayload{Leaderboard: outcome.Leaderboard}))
		s.logger.Info("game over")
		return
	}

	s.queueEvent(domain.NewEvent(domain.EventNextItem, &domain.ItemPayload{Item: outcome.Item}))
	s.logger.Info("next item", "item", outcome.Item.ID)
}

// scheduleAdvanceLocked arms the auto-advance timer. Caller holds s.mu and
// has already canceled any previous timer.
func (s *GameSession) scheduleAdvanceLocked() {
	s.timerGen++
	gen := s.timerGen
	timer := s.clock.NewTimer(s.advanceDelay)
	s.advanceTimer = timer

	go func() {
		select {
		case <-timer.Chan():
			s.onAdvanceTimer(gen)
		case <-s.done:
			stopAndDrainTimer(timer)
		}
	}()

	s.logger.Debug("auto-advance scheduled", "delay", s.advanceDelay)
}

// onAdvanceTimer runs when the auto-advance timer fires. A generation check
// drops callbacks from timers that were canceled after firing.
func (s *GameSession) onAdvanceTimer(gen uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if gen != s.timerGen {
		s.logger.Debug("stale auto-advance timer ignored")
		return
	}

	s.advanceTimer = nil
	s.advanceLocked()
}

// cancelAdvanceLocked stops a pending auto-advance timer, if any. Bumping
// the generation invalidates a timer that fired but has not run yet.
// Caller holds s.mu.
func (s *GameSession) cancelAdvanceLocked() {
	s.timerGen++
	if s.advanceTimer == nil {
		return
	}
	stopAndDrainTimer(s.advanceTimer)
	s.advanceTimer = nil
	s.logger.Debug("auto-advance canceled")
}

// stopAndDrainTimer safely stops a timer and drains its channel, following
// the pattern from the time.Timer.Stop documentation
func stopAndDrainTimer(timer clockwork.Timer) {
	if !timer.Stop() {
		select {
		case <-timer.Chan():
		default:
		}
	}
}

// queueEvent adds an event to the broadcast queue
func (s *GameSession) queueEvent(event *domain.GameEvent) {
	select {
	case s.events <- event:
	default:
		s.logger.Warn("event queue full, dropping event", "type", event.Type)
	}
}

// eventLoop processes events and broadcasts to clients. A single goroutine
// drains the queue, so every connection observes events in emit order.
func (s *GameSession) eventLoop() {
	for {
		select {
		case <-s.done:
			return
		case event := <-s.events:
			s.broadcastEvent(event)
		}
	}
}

// broadcastEvent sends an event to the addressed client, or to everyone
func (s *GameSession) broadcastEvent(event *domain.GameEvent) {
	s.clientsMu.RLock()
	defer s.clientsMu.RUnlock()

	if event.PlayerID != "" {
		if client, ok := s.clients[event.PlayerID]; ok {
			if err := client.Send(event); err != nil {
				s.logger.Debug("failed to send to client", "playerID", event.PlayerID, "error", err)
			}
		}
		return
	}

	for playerID, client := range s.clients {
		if err := client.Send(event); err != nil {
			s.logger.Debug("failed to send to client", "playerID", playerID, "error", err)
		}
	}
}

// Close shuts down the session
func (s *GameSession) Close() {
	s.closeOnce.Do(func() {
		close(s.done)

		s.mu.Lock()
		s.cancelAdvanceLocked()
		s.mu.Unlock()

		s.clientsMu.Lock()
		for _, client := range s.clients {
			client.Close()
		}
		s.clients = make(map[string]ClientConnection)
		s.clientsMu.Unlock()
	})
}
