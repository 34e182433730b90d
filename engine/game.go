// Package engine implements the rules of Race Card: the card catalog and
// deck, the per-player state machine, single-hand play including hazards,
// remedies, safeties and the Coup Fourré, and multi-hand games scored to
// 5000 points. The engine is deterministic for a given seed and free of
// I/O; callers own serialization and transport.
package engine

import "github.com/google/uuid"

// Game-level limits and targets.
const (
	MinPlayers   = 2
	MaxPlayers   = 6
	GameWinScore = 5000
)

// GamePhase tracks the game lifecycle.
type GamePhase uint8

const (
	// GameNotBegun: players may still join.
	GameNotBegun GamePhase = iota
	// GameRunning: hands are being played.
	GameRunning
	// GameCompleted: a player reached the game target.
	GameCompleted
)

// String returns the phase name.
func (p GamePhase) String() string {
	switch p {
	case GameNotBegun:
		return "NotBegun"
	case GameRunning:
		return "Running"
	case GameCompleted:
		return "Completed"
	}
	return "Unknown"
}

// seat carries the per-player data that outlives a single hand: the running
// game total and the hand-sorting preference.
type seat struct {
	total    int
	sortHand bool
}

// Score is one player's line in a score report: the most recent hand's
// breakdown plus the game running total.
type Score struct {
	Hand  ScoreCard `json:"hand"`
	Total int       `json:"total"`
}

// Game runs a full game to 5000: it registers players, fixes the turn
// order, and plays hands until someone crosses the target. All hand-level
// commands are forwarded to the current hand, with completion checked
// after every play that can end one.
type Game struct {
	phase     GamePhase
	seats     map[uuid.UUID]*seat
	joinOrder []uuid.UUID
	turnOrder []uuid.UUID
	hands     []*Hand
	winnerID  uuid.UUID
	rng       *rng
}

// NewGame creates an empty game. Every shuffle in the game derives from
// the one seed, so a seed fully determines the game.
func NewGame(seed uint64) *Game {
	return &Game{
		seats: make(map[uuid.UUID]*seat),
		rng:   newRNG(seed),
	}
}

// ---------------------------------------------------------------------------
// Internal helpers
// ---------------------------------------------------------------------------

func (g *Game) ensureRunning() error {
	switch g.phase {
	case GameNotBegun:
		return ErrNotBegun
	case GameCompleted:
		return ErrGameAlreadyCompleted
	}
	return nil
}

func (g *Game) currentHand() *Hand {
	return g.hands[len(g.hands)-1]
}

// rotate moves the previous hand's opener to the back, so the deal passes
// around the table between hands.
func (g *Game) rotate() {
	first := g.turnOrder[0]
	copy(g.turnOrder, g.turnOrder[1:])
	g.turnOrder[len(g.turnOrder)-1] = first
}

// applyTotals folds a completed hand's score cards into the game totals and
// completes the game if someone crossed the target.
func (g *Game) applyTotals(h *Hand) {
	for id, p := range h.players {
		g.seats[id].total += p.scoreCard.Total
		g.seats[id].sortHand = p.SortEnabled()
	}
	for _, s := range g.seats {
		if s.total >= GameWinScore {
			g.phase = GameCompleted
			g.winnerID = g.decideWinner(h)
			return
		}
	}
}

// decideWinner picks the game winner: highest total, then the higher final
// hand score, then the earlier seat in the final hand's turn order.
func (g *Game) decideWinner(final *Hand) uuid.UUID {
	best := uuid.Nil
	for _, id := range final.order {
		if best == uuid.Nil {
			best = id
			continue
		}
		a, b := g.seats[id], g.seats[best]
		switch {
		case a.total > b.total:
			best = id
		case a.total == b.total &&
			final.players[id].scoreCard.Total > final.players[best].scoreCard.Total:
			best = id
		}
	}
	return best
}

// checkCompletion settles a hand that just ended: it books the totals and
// finishes the game if someone crossed the target. A completed hand stays
// current, so its scores stay readable, until the caller asks for the next
// deal. The hand rejects all further commands once completed, so the
// totals are booked exactly once.
func (g *Game) checkCompletion(h *Hand) {
	if !h.IsCompleted() {
		return
	}
	g.applyTotals(h)
}

// ---------------------------------------------------------------------------
// Lifecycle
// ---------------------------------------------------------------------------

// AddPlayer registers a player before the game begins and returns their id.
func (g *Game) AddPlayer() (uuid.UUID, error) {
	if g.phase != GameNotBegun {
		return uuid.Nil, ErrGameAlreadyBegun
	}
	if len(g.joinOrder) >= MaxPlayers {
		return uuid.Nil, ErrTooManyPlayers
	}
	id := uuid.New()
	g.seats[id] = &seat{}
	g.joinOrder = append(g.joinOrder, id)
	return id, nil
}

// Begin locks the roster, shuffles the turn order and deals the first hand.
func (g *Game) Begin() error {
	if g.phase != GameNotBegun {
		return ErrGameAlreadyBegun
	}
	if len(g.joinOrder) < MinPlayers {
		return ErrInsufficientPlayers
	}
	g.turnOrder = append([]uuid.UUID(nil), g.joinOrder...)
	for i := 0; i < NumShuffles; i++ {
		g.rng.shuffle(len(g.turnOrder), func(a, b int) {
			g.turnOrder[a], g.turnOrder[b] = g.turnOrder[b], g.turnOrder[a]
		})
	}
	g.phase = GameRunning
	g.hands = append(g.hands, NewHand(g.turnOrder, g.rng.next()))
	return nil
}

// NextHand deals the next hand after the current one completes. The deal
// rotates around the table and each player's sorting preference carries
// over.
func (g *Game) NextHand() error {
	if err := g.ensureRunning(); err != nil {
		return err
	}
	if !g.currentHand().IsCompleted() {
		return ErrHandInProgress
	}
	g.rotate()
	h := NewHand(g.turnOrder, g.rng.next())
	for id, s := range g.seats {
		if s.sortHand {
			_ = h.ToggleSort(id)
		}
	}
	g.hands = append(g.hands, h)
	return nil
}

// ---------------------------------------------------------------------------
// Queries
// ---------------------------------------------------------------------------

// Phase returns the game lifecycle phase.
func (g *Game) Phase() GamePhase { return g.phase }

// PlayerIDs returns the registered player ids in join order.
func (g *Game) PlayerIDs() []uuid.UUID {
	return append([]uuid.UUID(nil), g.joinOrder...)
}

// TurnOrder returns the current hand's turn order.
func (g *Game) TurnOrder() ([]uuid.UUID, error) {
	if g.phase == GameNotBegun {
		return nil, ErrNotBegun
	}
	return append([]uuid.UUID(nil), g.turnOrder...), nil
}

// HandNumber returns the 1-based index of the current hand.
func (g *Game) HandNumber() (int, error) {
	if g.phase == GameNotBegun {
		return 0, ErrNotBegun
	}
	return len(g.hands), nil
}

// CurrentPlayerID returns whose turn it is in the current hand.
func (g *Game) CurrentPlayerID() (uuid.UUID, error) {
	if err := g.ensureRunning(); err != nil {
		return uuid.Nil, err
	}
	return g.currentHand().CurrentPlayerID(), nil
}

// RoundNumber returns the current hand's round number.
func (g *Game) RoundNumber() (int, error) {
	if err := g.ensureRunning(); err != nil {
		return 0, err
	}
	return g.currentHand().RoundNumber(), nil
}

// IsCompleted reports whether the game has finished.
func (g *Game) IsCompleted() bool { return g.phase == GameCompleted }

// IsHandCompleted reports whether the current hand has finished. A
// completed hand stays readable until NextHand deals the following one.
func (g *Game) IsHandCompleted() (bool, error) {
	if g.phase == GameNotBegun {
		return false, ErrNotBegun
	}
	return g.currentHand().IsCompleted(), nil
}

// HandWinnerID returns the winner of the most recent completed hand, or
// uuid.Nil if it completed with no winner.
func (g *Game) HandWinnerID() (uuid.UUID, error) {
	if g.phase == GameNotBegun {
		return uuid.Nil, ErrNotBegun
	}
	h := g.currentHand()
	if !h.IsCompleted() {
		if len(g.hands) < 2 {
			return uuid.Nil, ErrHandInProgress
		}
		h = g.hands[len(g.hands)-2]
	}
	return h.WinnerID(), nil
}

// WinnerID returns the game winner once the game has completed.
func (g *Game) WinnerID() (uuid.UUID, error) {
	if g.phase != GameCompleted {
		return uuid.Nil, ErrGameNotCompleted
	}
	return g.winnerID, nil
}

// WinScore returns the current hand's distance target.
func (g *Game) WinScore() (int, error) {
	if err := g.ensureRunning(); err != nil {
		return 0, err
	}
	return g.currentHand().WinScore(), nil
}

// CardsRemaining returns the current hand's draw pile size.
func (g *Game) CardsRemaining() (int, error) {
	if err := g.ensureRunning(); err != nil {
		return 0, err
	}
	return g.currentHand().CardsRemaining(), nil
}

// TopDiscarded peeks at the current hand's discard pile.
func (g *Game) TopDiscarded() (Card, error) {
	if err := g.ensureRunning(); err != nil {
		return Card{}, err
	}
	return g.currentHand().TopDiscarded()
}

// PlayerState returns the display state of the given player in the current
// hand, including their running game total.
func (g *Game) PlayerState(id uuid.UUID) (PlayerState, error) {
	if g.phase == GameNotBegun {
		return PlayerState{}, ErrNotBegun
	}
	state, err := g.currentHand().PlayerState(id)
	if err != nil {
		return PlayerState{}, err
	}
	state.RunningTotal = g.seats[id].total
	return state, nil
}

// HandScores returns each player's most recent completed hand breakdown and
// game total. It fails while the first hand is still in play.
func (g *Game) HandScores() (map[uuid.UUID]Score, error) {
	if g.phase == GameNotBegun {
		return nil, ErrNotBegun
	}
	h := g.currentHand()
	if !h.IsCompleted() {
		// Between hands the previous hand is the most recent completed one.
		if len(g.hands) < 2 {
			return nil, ErrHandInProgress
		}
		h = g.hands[len(g.hands)-2]
	}
	scores := make(map[uuid.UUID]Score, len(h.players))
	for id, p := range h.players {
		scores[id] = Score{Hand: *p.scoreCard, Total: g.seats[id].total}
	}
	return scores, nil
}

// GameScores returns each player's component-wise totals across all hands,
// once the game has completed.
func (g *Game) GameScores() (map[uuid.UUID]ScoreCard, error) {
	if g.phase != GameCompleted {
		return nil, ErrGameNotCompleted
	}
	scores := make(map[uuid.UUID]ScoreCard, len(g.seats))
	for id := range g.seats {
		var total ScoreCard
		for _, h := range g.hands {
			total.add(*h.players[id].scoreCard)
		}
		scores[id] = total
	}
	return scores, nil
}

// ---------------------------------------------------------------------------
// Hand commands
// ---------------------------------------------------------------------------

// Draw forwards to the current hand.
func (g *Game) Draw(playerID uuid.UUID, fromDiscard bool) error {
	if err := g.ensureRunning(); err != nil {
		return err
	}
	return g.currentHand().Draw(playerID, fromDiscard)
}

// Play forwards to the current hand and settles the hand if the play
// completed it.
func (g *Game) Play(playerID uuid.UUID, cardIndex int, targetID *uuid.UUID) (PlayResult, error) {
	if err := g.ensureRunning(); err != nil {
		return 0, err
	}
	h := g.currentHand()
	result, err := h.Play(playerID, cardIndex, targetID)
	if err != nil {
		return 0, err
	}
	g.checkCompletion(h)
	return result, nil
}

// DiscardCard forwards to the current hand. A discard can end the hand by
// exhausting the last playable card.
func (g *Game) DiscardCard(playerID uuid.UUID, cardIndex int, force bool) (PlayResult, error) {
	if err := g.ensureRunning(); err != nil {
		return 0, err
	}
	h := g.currentHand()
	result, err := h.DiscardCard(playerID, cardIndex, force)
	if err != nil {
		return 0, err
	}
	g.checkCompletion(h)
	return result, nil
}

// CoupFourre forwards to the current hand.
func (g *Game) CoupFourre(playerID uuid.UUID) error {
	if err := g.ensureRunning(); err != nil {
		return err
	}
	return g.currentHand().CoupFourre(playerID)
}

// Extension forwards to the current hand.
func (g *Game) Extension(playerID uuid.UUID) error {
	if err := g.ensureRunning(); err != nil {
		return err
	}
	return g.currentHand().Extension(playerID)
}

// NoExtension forwards to the current hand and settles it.
func (g *Game) NoExtension(playerID uuid.UUID) error {
	if err := g.ensureRunning(); err != nil {
		return err
	}
	h := g.currentHand()
	if err := h.NoExtension(playerID); err != nil {
		return err
	}
	g.checkCompletion(h)
	return nil
}

// ToggleSort forwards to the current hand and records the preference so it
// carries into later hands.
func (g *Game) ToggleSort(playerID uuid.UUID) error {
	if err := g.ensureRunning(); err != nil {
		return err
	}
	if err := g.currentHand().ToggleSort(playerID); err != nil {
		return err
	}
	s, ok := g.seats[playerID]
	if ok {
		s.sortHand = !s.sortHand
	}
	return nil
}
