package domain

import "sort"

// Game holds the state of the single room: registered players, the catalog,
// the current phase and item, and the submission log for the round in
// progress. Methods do no locking; the session layer serializes every call.
type Game struct {
	Items            []Item
	Phase            Phase
	CurrentItemIndex int
	Players          map[string]*Player
	Submissions      []*Submission
	FirstExact       string // player ID, empty while the slot is open
	FirstWithinRange string // player ID, empty while the slot is open
	Scorer           Scorer

	nextJoinSeq int
}

// NewGame creates a new game in the lobby phase over the given item catalog
func NewGame(items []Item, scorer Scorer) *Game {
	return &Game{
		Items:       items,
		Phase:       PhaseLobby,
		Players:     make(map[string]*Player),
		Submissions: make([]*Submission, 0),
		Scorer:      scorer,
	}
}

// Join registers a player under the given connection ID. Re-joining with an
// existing ID replaces the player with a fresh zero score.
func (g *Game) Join(playerID, rawName string) *Player {
	g.nextJoinSeq++
	player := NewPlayer(playerID, rawName, g.nextJoinSeq)
	g.Players[playerID] = player
	return player
}

// Leave removes a player. Already-recorded submissions and awarded points for
// the round stay untouched; only future auto-advance counts change.
func (g *Game) Leave(playerID string) bool {
	if _, ok := g.Players[playerID]; !ok {
		return false
	}
	delete(g.Players, playerID)
	return true
}

// GetPlayer returns a player by connection ID
func (g *Game) GetPlayer(playerID string) (*Player, error) {
	player, ok := g.Players[playerID]
	if !ok {
		return nil, ErrPlayerNotFound
	}
	return player, nil
}

// Leaderboard returns all players sorted by score descending. Players with
// equal scores keep their join order.
func (g *Game) Leaderboard() []LeaderboardEntry {
	players := make([]*Player, 0, len(g.Players))
	for _, p := range g.Players {
		players = append(players, p)
	}

	sort.Slice(players, func(i, j int) bool {
		if players[i].Score != players[j].Score {
			return players[i].Score > players[j].Score
		}
		return players[i].joinSeq < players[j].joinSeq
	})

	entries := make([]LeaderboardEntry, 0, len(players))
	for _, p := range players {
		entries = append(entries, p.ToEntry())
	}
	return entries
}

// CurrentItem returns the item currently in play, or nil past the end
func (g *Game) CurrentItem() *Item {
	if g.CurrentItemIndex < 0 || g.CurrentItemIndex >= len(g.Items) {
		return nil
	}
	return &g.Items[g.CurrentItemIndex]
}

// resetRound clears the submission log and both prize slots
func (g *Game) resetRound() {
	g.Submissions = g.Submissions[:0]
	g.FirstExact = ""
	g.FirstWithinRange = ""
}

// Start begins a fresh game: every score back to zero, item index back to the
// first item, round state cleared, phase set to playing. Valid from any phase.
// Returns the first item's public view.
func (g *Game) Start() (*PublicItem, error) {
	if len(g.Items) == 0 {
		return nil, ErrEmptyCatalog
	}

	for _, p := range g.Players {
		p.Score = 0
	}
	g.CurrentItemIndex = 0
	g.resetRound()
	g.Phase = PhasePlaying

	pub := g.Items[0].ToPublic()
	return &pub, nil
}

// GuessOutcome describes what an accepted guess did
type GuessOutcome struct {
	Result      ScoreResult
	Points      int
	AutoAdvance bool
}

// SubmitGuess scores a guess for the current item and awards first-arrival
// prizes: 2 points for the first exact guess, 1 point for the first guess
// within the tolerance band. A player never takes both slots in one round.
// AutoAdvance is set when every registered player has now submitted at least
// once this round.
func (g *Game) SubmitGuess(playerID string, guess float64) (*GuessOutcome, error) {
	if g.Phase != PhasePlaying {
		return nil, ErrInvalidPhase
	}

	player, ok := g.Players[playerID]
	if !ok {
		return nil, ErrPlayerNotFound
	}

	if !ValidGuess(guess) {
		return nil, ErrInvalidGuess
	}

	item := g.CurrentItem()
	if item == nil {
		return nil, ErrNoCurrentItem
	}

	result := g.Scorer.Classify(guess, item.Price)
	g.Submissions = append(g.Submissions, NewSubmission(playerID, guess, result))

	points := 0
	if result.Exact && g.FirstExact == "" {
		g.FirstExact = playerID
		player.Score += 2
		points = 2
	}
	if result.WithinRange && g.FirstWithinRange == "" && g.FirstExact != playerID {
		g.FirstWithinRange = playerID
		player.Score++
		points = 1
	}

	return &GuessOutcome{
		Result:      result,
		Points:      points,
		AutoAdvance: g.shouldAutoAdvance(),
	}, nil
}

// shouldAutoAdvance reports whether every registered player has submitted at
// least one guess this round
func (g *Game) shouldAutoAdvance() bool {
	if g.Phase != PhasePlaying || len(g.Players) == 0 {
		return false
	}

	submitters := make(map[string]struct{}, len(g.Players))
	for _, s := range g.Submissions {
		submitters[s.PlayerID] = struct{}{}
	}
	return len(submitters) >= len(g.Players)
}

// Reveal closes the round: publishes the answer and which prize slots were
// claimed, advances the item index, and enters the reveal phase. Valid only
// while playing.
func (g *Game) Reveal() (*RevealPayload, error) {
	if !g.Phase.CanTransitionTo(PhaseReveal) {
		return nil, ErrInvalidPhase
	}

	item := g.CurrentItem()
	if item == nil {
		return nil, ErrNoCurrentItem
	}

	payload := &RevealPayload{
		ItemName:         item.Name,
		ItemImage:        item.Image,
		CorrectPrice:     item.Price,
		FirstExact:       g.FirstExact != "",
		FirstWithinRange: g.FirstWithinRange != "",
	}

	g.Phase = PhaseReveal
	g.CurrentItemIndex++

	return payload, nil
}

// AdvanceOutcome describes where the game went after a reveal
type AdvanceOutcome struct {
	GameOver    bool
	Item        *PublicItem        // next item when the game continues
	Leaderboard []LeaderboardEntry // final standings when the game is over
}

// AdvanceAfterReveal leaves the reveal phase: either into the next round, or
// into the lobby with final standings when the catalog is exhausted.
func (g *Game) AdvanceAfterReveal() (*AdvanceOutcome, error) {
	if g.Phase != PhaseReveal {
		return nil, ErrInvalidPhase
	}

	if g.CurrentItemIndex >= len(g.Items) {
		g.Phase = PhaseLobby
		g.CurrentItemIndex = 0
		return &AdvanceOutcome{
			GameOver:    true,
			Leaderboard: g.Leaderboard(),
		}, nil
	}

	g.resetRound()
	g.Phase = PhasePlaying
	pub := g.Items[g.CurrentItemIndex].ToPublic()
	return &AdvanceOutcome{Item: &pub}, nil
}

// Reset returns to the lobby without touching scores or membership.
// Valid from any phase.
func (g *Game) Reset() {
	g.Phase = PhaseLobby
	g.CurrentItemIndex = 0
	g.resetRound()
}

// Snapshot is the state-query view of the game
type Snapshot struct {
	Phase            Phase              `json:"phase"`
	CurrentItemIndex int                `json:"currentItemIndex"`
	CurrentItem      *PublicItem        `json:"currentItem"`
	Leaderboard      []LeaderboardEntry `json:"leaderboard"`
	SubmissionsCount int                `json:"submissionsCount"`
}

// GetSnapshot returns the current state for the host's state query
func (g *Game) GetSnapshot() *Snapshot {
	snap := &Snapshot{
		Phase:            g.Phase,
		CurrentItemIndex: g.CurrentItemIndex,
		Leaderboard:      g.Leaderboard(),
		SubmissionsCount: len(g.Submissions),
	}
	if item := g.CurrentItem(); item != nil {
		pub := item.ToPublic()
		snap.CurrentItem = &pub
	}
	return snap
}
