package app

import (
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"

	"priceparty/internal/domain"
)

const testAdvanceDelay = 5 * time.Second

// fakeClient records every event sent to it
type fakeClient struct {
	playerID string
	mu       sync.Mutex
	events   []*domain.GameEvent
}

func (c *fakeClient) Send(message interface{}) error {
	event, ok := message.(*domain.GameEvent)
	if !ok {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, event)
	return nil
}

func (c *fakeClient) GetPlayerID() string { return c.playerID }
func (c *fakeClient) Close() error        { return nil }

func (c *fakeClient) eventTypes() []domain.EventType {
	c.mu.Lock()
	defer c.mu.Unlock()
	types := make([]domain.EventType, 0, len(c.events))
	for _, e := range c.events {
		types = append(types, e.Type)
	}
	return types
}

func (c *fakeClient) countEvents(eventType domain.EventType) int {
	count := 0
	for _, et := range c.eventTypes() {
		if et == eventType {
			count++
		}
	}
	return count
}

func testItems() []domain.Item {
	return []domain.Item{
		{ID: "a", Name: "Stroller", Price: 100},
		{ID: "b", Name: "Crib", Price: 50},
	}
}

func newTestSession(t *testing.T, clock clockwork.Clock) *GameSession {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	game := domain.NewGame(testItems(), domain.NewScorer(domain.DefaultTolerancePercent))
	session := NewGameSessionWithClock(game, testAdvanceDelay, logger, clock)
	t.Cleanup(session.Close)
	return session
}

// waitForPhase polls until the session reaches the phase or the deadline hits
func waitForPhase(t *testing.T, s *GameSession, phase domain.Phase) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if s.GetPhase() == phase {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatalf("phase = %s, want %s", s.GetPhase(), phase)
}

// settle waits for the queued events to drain through the event loop
func settle() {
	time.Sleep(20 * time.Millisecond)
}

func TestAutoAdvanceTimerFires(t *testing.T) {
	clock := clockwork.NewFakeClock()
	s := newTestSession(t, clock)

	s.Join("ann", "Ann")
	if err := s.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}

	// The only player guesses: reveal happens immediately
	s.SubmitGuess("ann", 100)
	if got := s.GetPhase(); got != domain.PhaseReveal {
		t.Fatalf("phase = %s, want reveal", got)
	}

	// Nothing moves before the delay elapses
	clock.Advance(testAdvanceDelay - time.Millisecond)
	time.Sleep(20 * time.Millisecond)
	if got := s.GetPhase(); got != domain.PhaseReveal {
		t.Fatalf("timer fired early, phase = %s", got)
	}

	clock.Advance(time.Millisecond)
	waitForPhase(t, s, domain.PhasePlaying)

	if got := s.GetSnapshot().CurrentItemIndex; got != 1 {
		t.Errorf("item index = %d, want 1", got)
	}
}

func TestAutoAdvanceIntoGameOver(t *testing.T) {
	clock := clockwork.NewFakeClock()
	s := newTestSession(t, clock)

	client := &fakeClient{playerID: "ann"}
	s.RegisterClient("ann", client)
	s.Join("ann", "Ann")
	s.Start()

	// Burn through both items
	s.SubmitGuess("ann", 100)
	clock.Advance(testAdvanceDelay)
	waitForPhase(t, s, domain.PhasePlaying)

	s.SubmitGuess("ann", 50)
	clock.Advance(testAdvanceDelay)
	waitForPhase(t, s, domain.PhaseLobby)

	settle()
	if client.countEvents(domain.EventGameOver) != 1 {
		t.Errorf("game_over events = %d, want 1", client.countEvents(domain.EventGameOver))
	}
	if got := s.GetSnapshot().CurrentItemIndex; got != 0 {
		t.Errorf("item index after game over = %d, want 0", got)
	}
}

func TestHostNextCancelsPendingTimer(t *testing.T) {
	clock := clockwork.NewFakeClock()
	s := newTestSession(t, clock)

	s.Join("ann", "Ann")
	s.Start()
	s.SubmitGuess("ann", 100) // -> reveal, timer armed

	// Host skips the countdown
	s.Next()
	waitForPhase(t, s, domain.PhasePlaying)

	// The canceled timer must not fire a second advance: the game is now on
	// item b; a stale advance would reveal it without any guessing.
	clock.Advance(2 * testAdvanceDelay)
	time.Sleep(20 * time.Millisecond)

	if got := s.GetPhase(); got != domain.PhasePlaying {
		t.Errorf("stale timer advanced the game, phase = %s", got)
	}
	if got := s.GetSnapshot().CurrentItemIndex; got != 1 {
		t.Errorf("item index = %d, want 1", got)
	}
}

func TestHostNextWhilePlayingReveals(t *testing.T) {
	clock := clockwork.NewFakeClock()
	s := newTestSession(t, clock)

	s.Join("ann", "Ann")
	s.Join("bob", "Bob")
	s.Start()

	s.Next()
	if got := s.GetPhase(); got != domain.PhaseReveal {
		t.Fatalf("phase = %s, want reveal", got)
	}

	// The forced reveal still schedules the deferred advance
	clock.Advance(testAdvanceDelay)
	waitForPhase(t, s, domain.PhasePlaying)
}

func TestHostNextInLobbyIsNoop(t *testing.T) {
	clock := clockwork.NewFakeClock()
	s := newTestSession(t, clock)

	s.Join("ann", "Ann")
	s.Next()

	if got := s.GetPhase(); got != domain.PhaseLobby {
		t.Errorf("phase = %s, want lobby", got)
	}
}

func TestResetCancelsPendingTimer(t *testing.T) {
	clock := clockwork.NewFakeClock()
	s := newTestSession(t, clock)

	s.Join("ann", "Ann")
	s.Start()
	s.SubmitGuess("ann", 100) // -> reveal, timer armed

	s.Reset()
	if got := s.GetPhase(); got != domain.PhaseLobby {
		t.Fatalf("phase = %s, want lobby", got)
	}

	clock.Advance(2 * testAdvanceDelay)
	time.Sleep(20 * time.Millisecond)

	if got := s.GetPhase(); got != domain.PhaseLobby {
		t.Errorf("stale timer fired after reset, phase = %s", got)
	}
}

func TestStartCancelsPendingTimer(t *testing.T) {
	clock := clockwork.NewFakeClock()
	s := newTestSession(t, clock)

	s.Join("ann", "Ann")
	s.Start()
	s.SubmitGuess("ann", 100) // -> reveal, timer armed

	s.Start() // restart from item zero
	if got := s.GetSnapshot().CurrentItemIndex; got != 0 {
		t.Fatalf("item index = %d, want 0", got)
	}

	clock.Advance(2 * testAdvanceDelay)
	time.Sleep(20 * time.Millisecond)

	// A stale advance would have revealed item a with no guesses
	if got := s.GetPhase(); got != domain.PhasePlaying {
		t.Errorf("stale timer fired after restart, phase = %s", got)
	}
}

func TestGuessDuringRevealIsDropped(t *testing.T) {
	clock := clockwork.NewFakeClock()
	s := newTestSession(t, clock)

	s.Join("ann", "Ann")
	s.Start()
	s.SubmitGuess("ann", 100) // -> reveal

	if err := s.SubmitGuess("ann", 100); err != domain.ErrInvalidPhase {
		t.Errorf("guess during reveal: err = %v, want ErrInvalidPhase", err)
	}
}

func TestJoinEventsAndOrdering(t *testing.T) {
	clock := clockwork.NewFakeClock()
	s := newTestSession(t, clock)

	ann := &fakeClient{playerID: "ann"}
	s.RegisterClient("ann", ann)
	s.Join("ann", "Ann")
	settle()

	types := ann.eventTypes()
	if len(types) != 2 || types[0] != domain.EventJoined || types[1] != domain.EventLeaderboard {
		t.Errorf("event order = %v, want [joined leaderboard]", types)
	}
}

func TestLeaderboardBroadcastOnGuess(t *testing.T) {
	clock := clockwork.NewFakeClock()
	s := newTestSession(t, clock)

	ann := &fakeClient{playerID: "ann"}
	bob := &fakeClient{playerID: "bob"}
	s.RegisterClient("ann", ann)
	s.RegisterClient("bob", bob)
	s.Join("ann", "Ann")
	s.Join("bob", "Bob")
	s.Start()

	s.SubmitGuess("ann", 95)
	settle()

	// Bob sees the leaderboard update but never Ann's joined confirmation
	if bob.countEvents(domain.EventJoined) != 1 {
		t.Errorf("bob joined events = %d, want 1 (his own)", bob.countEvents(domain.EventJoined))
	}
	if bob.countEvents(domain.EventLeaderboard) < 3 {
		t.Errorf("bob leaderboard events = %d, want at least 3", bob.countEvents(domain.EventLeaderboard))
	}
}

func TestConcurrentGuesses(t *testing.T) {
	clock := clockwork.NewFakeClock()
	s := newTestSession(t, clock)

	const n = 20
	ids := make([]string, n)
	for i := range ids {
		ids[i] = string(rune('a' + i))
		s.Join(ids[i], "P")
	}
	s.Start()

	var wg sync.WaitGroup
	for _, id := range ids {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			s.SubmitGuess(id, 100)
		}(id)
	}
	wg.Wait()

	// Exactly one player got the exact slot's 2 points, one the range slot's 1
	board := s.GetSnapshot().Leaderboard
	twos, ones := 0, 0
	for _, e := range board {
		switch e.Score {
		case 2:
			twos++
		case 1:
			ones++
		case 0:
		default:
			t.Errorf("unexpected score %d", e.Score)
		}
	}
	if twos != 1 || ones != 1 {
		t.Errorf("prize distribution: %d twos, %d ones, want 1 and 1", twos, ones)
	}

	// Everyone submitted, so the round auto-advanced
	if got := s.GetPhase(); got != domain.PhaseReveal {
		t.Errorf("phase = %s, want reveal", got)
	}
}
