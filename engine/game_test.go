package engine

import (
	"errors"
	"testing"

	"github.com/google/uuid"
)

func newStartedGame(t *testing.T, players int) *Game {
	t.Helper()
	g := NewGame(42)
	for i := 0; i < players; i++ {
		if _, err := g.AddPlayer(); err != nil {
			t.Fatalf("AddPlayer: %v", err)
		}
	}
	if err := g.Begin(); err != nil {
		t.Fatalf("Begin: %v", err)
	}
	return g
}

// winCurrentHand rigs the current player to win the current hand on their
// next play and plays it, declining any extension.
func winCurrentHand(t *testing.T, g *Game) uuid.UUID {
	t.Helper()
	h := g.currentHand()
	winner := h.CurrentPlayerID()
	rigRolling(h.players[winner], fullHand(D100)...)
	h.players[winner].distancePile = nil
	for h.players[winner].Total()+100 < h.WinScore() {
		h.players[winner].distancePile = append(h.players[winner].distancePile, CardOf(D100))
	}

	result, err := g.Play(winner, 0, nil)
	if err != nil {
		t.Fatalf("winning play: %v", err)
	}
	if result == ResultWinCanExtend {
		if err := g.NoExtension(winner); err != nil {
			t.Fatalf("NoExtension: %v", err)
		}
	}
	return winner
}

// TestGameLifecycleGates verifies registration and begin-once rules.
func TestGameLifecycleGates(t *testing.T) {
	g := NewGame(1)

	if err := g.Begin(); !errors.Is(err, ErrInsufficientPlayers) {
		t.Fatalf("Begin with no players: got %v, want ErrInsufficientPlayers", err)
	}
	if _, err := g.CurrentPlayerID(); !errors.Is(err, ErrNotBegun) {
		t.Fatalf("query before begin: got %v, want ErrNotBegun", err)
	}

	for i := 0; i < MaxPlayers; i++ {
		if _, err := g.AddPlayer(); err != nil {
			t.Fatalf("AddPlayer %d: %v", i, err)
		}
	}
	if _, err := g.AddPlayer(); !errors.Is(err, ErrTooManyPlayers) {
		t.Fatalf("7th player: got %v, want ErrTooManyPlayers", err)
	}

	if err := g.Begin(); err != nil {
		t.Fatalf("Begin: %v", err)
	}
	if err := g.Begin(); !errors.Is(err, ErrGameAlreadyBegun) {
		t.Fatalf("second Begin: got %v, want ErrGameAlreadyBegun", err)
	}
	if _, err := g.AddPlayer(); !errors.Is(err, ErrGameAlreadyBegun) {
		t.Fatalf("join after begin: got %v, want ErrGameAlreadyBegun", err)
	}
	if g.Phase() != GameRunning {
		t.Errorf("Phase = %s, want Running", g.Phase())
	}
}

// TestBeginShufflesJoinOrder verifies the turn order is a permutation of
// the joined players, deterministic per seed.
func TestBeginShufflesJoinOrder(t *testing.T) {
	g := newStartedGame(t, 4)

	order, err := g.TurnOrder()
	if err != nil {
		t.Fatalf("TurnOrder: %v", err)
	}
	joined := make(map[uuid.UUID]bool)
	for _, id := range g.PlayerIDs() {
		joined[id] = true
	}
	if len(order) != 4 {
		t.Fatalf("order has %d players, want 4", len(order))
	}
	for _, id := range order {
		if !joined[id] {
			t.Errorf("unknown id %s in turn order", id)
		}
	}
}

// TestNextHandRotation verifies explicit hand sequencing: no next deal
// mid-hand, rotation of the order, and sort preferences carried over.
func TestNextHandRotation(t *testing.T) {
	g := newStartedGame(t, 2)

	if err := g.NextHand(); !errors.Is(err, ErrHandInProgress) {
		t.Fatalf("NextHand mid-hand: got %v, want ErrHandInProgress", err)
	}

	before, _ := g.TurnOrder()
	sorter := before[1]
	if err := g.ToggleSort(sorter); err != nil {
		t.Fatalf("ToggleSort: %v", err)
	}

	winCurrentHand(t, g)
	if n, _ := g.HandNumber(); n != 1 {
		t.Fatalf("HandNumber = %d before next deal, want 1", n)
	}
	if err := g.NextHand(); err != nil {
		t.Fatalf("NextHand: %v", err)
	}
	if n, _ := g.HandNumber(); n != 2 {
		t.Errorf("HandNumber = %d, want 2", n)
	}

	after, _ := g.TurnOrder()
	if after[0] != before[1] || after[1] != before[0] {
		t.Error("turn order did not rotate between hands")
	}
	if !g.currentHand().players[sorter].SortEnabled() {
		t.Error("sort preference lost between hands")
	}
}

// TestHandScoresBetweenHands verifies score reporting: blocked during the
// first hand, then the completed hand's breakdown plus running totals.
func TestHandScoresBetweenHands(t *testing.T) {
	g := newStartedGame(t, 2)

	if _, err := g.HandScores(); !errors.Is(err, ErrHandInProgress) {
		t.Fatalf("HandScores mid-hand: got %v, want ErrHandInProgress", err)
	}

	winner := winCurrentHand(t, g)
	scores, err := g.HandScores()
	if err != nil {
		t.Fatalf("HandScores: %v", err)
	}
	if len(scores) != 2 {
		t.Fatalf("scores for %d players, want 2", len(scores))
	}
	ws := scores[winner]
	if ws.Hand.TripCompleted != TripCompletedScore {
		t.Errorf("winner TripCompleted = %d, want %d", ws.Hand.TripCompleted, TripCompletedScore)
	}
	if ws.Total != ws.Hand.Total {
		t.Errorf("Total = %d after one hand, want %d", ws.Total, ws.Hand.Total)
	}

	// Scores stay readable after the next deal.
	if err := g.NextHand(); err != nil {
		t.Fatalf("NextHand: %v", err)
	}
	if _, err := g.HandScores(); err != nil {
		t.Errorf("HandScores after next deal: %v", err)
	}
}

// TestGameCompletion verifies the 5000-point finish: the game closes, the
// winner is reported, totals sum component-wise, and commands are refused.
func TestGameCompletion(t *testing.T) {
	g := newStartedGame(t, 2)

	// Put the about-to-win player at the threshold.
	almost := g.currentHand().CurrentPlayerID()
	g.seats[almost].total = GameWinScore - 100

	winner := winCurrentHand(t, g)
	if winner != almost {
		t.Fatalf("rigged winner mismatch")
	}

	if g.Phase() != GameCompleted || !g.IsCompleted() {
		t.Fatalf("Phase = %s, want Completed", g.Phase())
	}
	got, err := g.WinnerID()
	if err != nil || got != winner {
		t.Errorf("WinnerID = %s, %v; want %s", got, err, winner)
	}

	totals, err := g.GameScores()
	if err != nil {
		t.Fatalf("GameScores: %v", err)
	}
	final := g.currentHand().players[winner].ScoreCard()
	if totals[winner].Distance != final.Distance {
		t.Errorf("summed distance = %d, want %d", totals[winner].Distance, final.Distance)
	}

	if err := g.NextHand(); !errors.Is(err, ErrGameAlreadyCompleted) {
		t.Errorf("NextHand after completion: got %v, want ErrGameAlreadyCompleted", err)
	}
	if err := g.Draw(winner, false); !errors.Is(err, ErrGameAlreadyCompleted) {
		t.Errorf("Draw after completion: got %v, want ErrGameAlreadyCompleted", err)
	}
}

// TestGameScoresGated verifies game totals are unavailable mid-game.
func TestGameScoresGated(t *testing.T) {
	g := newStartedGame(t, 2)
	if _, err := g.GameScores(); !errors.Is(err, ErrGameNotCompleted) {
		t.Fatalf("GameScores mid-game: got %v, want ErrGameNotCompleted", err)
	}
	if _, err := g.WinnerID(); !errors.Is(err, ErrGameNotCompleted) {
		t.Fatalf("WinnerID mid-game: got %v, want ErrGameNotCompleted", err)
	}
}

// TestTieBreak verifies the deterministic winner rule: highest total wins,
// ties fall to the higher final-hand score, then to the earlier seat in
// the final hand's turn order.
func TestTieBreak(t *testing.T) {
	g := newStartedGame(t, 2)
	h := g.currentHand()
	a, b := h.order[0], h.order[1]

	h.players[a].scoreCard = &ScoreCard{Distance: 700, Total: 700}
	h.players[b].scoreCard = &ScoreCard{Distance: 500, Total: 500}
	g.seats[a].total = 5200
	g.seats[b].total = 5200
	if got := g.decideWinner(h); got != a {
		t.Errorf("equal totals: winner = %s, want higher final-hand score %s", got, a)
	}

	h.players[b].scoreCard.Total = 700
	if got := g.decideWinner(h); got != a {
		t.Errorf("full tie: winner = %s, want earlier seat %s", got, a)
	}

	g.seats[b].total = 5400
	if got := g.decideWinner(h); got != b {
		t.Errorf("higher total: winner = %s, want %s", got, b)
	}
}

// TestPlayerStateCarriesGameTotal verifies the snapshot surfaces the
// cross-hand running total.
func TestPlayerStateCarriesGameTotal(t *testing.T) {
	g := newStartedGame(t, 2)
	id := g.currentHand().CurrentPlayerID()
	g.seats[id].total = 1200

	state, err := g.PlayerState(id)
	if err != nil {
		t.Fatalf("PlayerState: %v", err)
	}
	if state.RunningTotal != 1200 {
		t.Errorf("RunningTotal = %d, want 1200", state.RunningTotal)
	}
	if len(state.Hand) != DealtCards {
		t.Errorf("snapshot hand = %d cards, want %d", len(state.Hand), DealtCards)
	}
	if state.Phase != PhaseStopped.String() {
		t.Errorf("Phase = %q, want %q", state.Phase, PhaseStopped.String())
	}
}
