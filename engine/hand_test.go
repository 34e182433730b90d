package engine

import (
	"errors"
	"testing"

	"github.com/google/uuid"
)

func newTestHand(players int) *Hand {
	ids := make([]uuid.UUID, players)
	for i := range ids {
		ids[i] = uuid.New()
	}
	return NewHand(ids, 42)
}

// rig replaces a player's hand with exactly the given cards and puts them
// in the Rolling phase.
func rigRolling(p *Player, types ...CardType) {
	p.hand = handOf(types...)
	p.battlePile = handOf(Roll)
	p.phase = PhaseRolling
}

// fullHand pads a list of card types to the post-draw hand size with 25s.
func fullHand(types ...CardType) []CardType {
	for len(types) < MaxHandCards {
		types = append(types, D25)
	}
	return types
}

// TestNewHandDeal verifies deck sizing, the opening deal, and the win
// target for small and large hands.
func TestNewHandDeal(t *testing.T) {
	small := newTestHand(2)
	if !small.IsSmallDeck() || small.WinScore() != SmallWinScore {
		t.Errorf("2 players: small=%v target=%d, want small deck to 700", small.IsSmallDeck(), small.WinScore())
	}
	if want := deckSize(true) - 2*DealtCards; small.CardsRemaining() != want {
		t.Errorf("CardsRemaining = %d, want %d", small.CardsRemaining(), want)
	}
	for _, p := range small.players {
		if len(p.hand) != DealtCards {
			t.Errorf("dealt %d cards, want %d", len(p.hand), DealtCards)
		}
		if p.Phase() != PhaseStopped {
			t.Errorf("dealt player in phase %s, want Stopped", p.Phase())
		}
	}

	large := newTestHand(4)
	if large.IsSmallDeck() || large.WinScore() != LargeWinScore {
		t.Errorf("4 players: small=%v target=%d, want large deck to 1000", large.IsSmallDeck(), large.WinScore())
	}
}

// TestCardConservation verifies every card stays in exactly one place
// through a stretch of draws and discards.
func TestCardConservation(t *testing.T) {
	h := newTestHand(2)
	count := func() int {
		n := h.tray.CardsRemaining() + len(h.tray.discardPile)
		for _, p := range h.players {
			n += len(p.hand) + len(p.safetiesPile) + len(p.battlePile) +
				len(p.speedPile) + len(p.distancePile)
		}
		return n
	}

	want := deckSize(true)
	if count() != want {
		t.Fatalf("cards after deal = %d, want %d", count(), want)
	}
	for i := 0; i < 10 && !h.IsCompleted(); i++ {
		current := h.CurrentPlayerID()
		if err := h.Draw(current, false); err != nil {
			t.Fatalf("Draw: %v", err)
		}
		if _, err := h.DiscardCard(current, 0, true); err != nil {
			t.Fatalf("DiscardCard: %v", err)
		}
		if count() != want {
			t.Fatalf("cards after turn %d = %d, want %d", i, count(), want)
		}
	}
}

// TestDrawGating verifies the draw-then-play turn shape: plays before
// drawing are rejected, and a full hand cannot draw again.
func TestDrawGating(t *testing.T) {
	h := newTestHand(2)
	current := h.CurrentPlayerID()

	if _, err := h.Play(current, 0, nil); !errors.Is(err, ErrMustDraw) {
		t.Fatalf("play before drawing: got %v, want ErrMustDraw", err)
	}
	if err := h.Draw(current, false); err != nil {
		t.Fatalf("Draw: %v", err)
	}
	if err := h.Draw(current, false); !errors.Is(err, ErrCannotDraw) {
		t.Fatalf("second draw: got %v, want ErrCannotDraw", err)
	}

	other := h.order[1]
	if err := h.Draw(other, false); !errors.Is(err, ErrOutOfTurn) {
		t.Fatalf("draw out of turn: got %v, want ErrOutOfTurn", err)
	}
}

// TestHazardAutoTarget verifies the 2-player convenience: a hazard with no
// explicit target hits the sole opponent, and the turn advances.
func TestHazardAutoTarget(t *testing.T) {
	h := newTestHand(2)
	attacker, victim := h.order[0], h.order[1]
	rigRolling(h.players[attacker], fullHand(Stop)...)
	rigRolling(h.players[victim], fullHand()...)

	result, err := h.Play(attacker, 0, nil)
	if err != nil {
		t.Fatalf("Play: %v", err)
	}
	if result != ResultOK {
		t.Errorf("result = %s, want OK", result)
	}
	if h.players[victim].Phase() != PhaseStopped {
		t.Errorf("victim phase = %s, want Stopped", h.players[victim].Phase())
	}
	if h.CurrentPlayerID() != victim {
		t.Error("turn did not advance after the hazard")
	}
}

// TestHazardTargetValidation verifies explicit-target rules: 3+ player
// hands require a target, and self-targeting is rejected.
func TestHazardTargetValidation(t *testing.T) {
	h := newTestHand(3)
	attacker := h.order[0]
	rigRolling(h.players[attacker], fullHand(Stop)...)

	if _, err := h.Play(attacker, 0, nil); !errors.Is(err, ErrAmbiguousTarget) {
		t.Fatalf("untargeted hazard: got %v, want ErrAmbiguousTarget", err)
	}
	if _, err := h.Play(attacker, 0, &attacker); !errors.Is(err, ErrInvalidTarget) {
		t.Fatalf("self-target: got %v, want ErrInvalidTarget", err)
	}
	stranger := uuid.New()
	if _, err := h.Play(attacker, 0, &stranger); !errors.Is(err, ErrInvalidTarget) {
		t.Fatalf("unknown target: got %v, want ErrInvalidTarget", err)
	}
}

// TestHazardRollback verifies a rejected hazard returns to the attacker's
// hand with the turn unspent.
func TestHazardRollback(t *testing.T) {
	h := newTestHand(2)
	attacker, victim := h.order[0], h.order[1]
	rigRolling(h.players[attacker], fullHand(Accident)...)
	// Victim still Stopped: battle hazards need a Rolling target.

	if _, err := h.Play(attacker, 0, &victim); !errors.Is(err, ErrInvalidPlay) {
		t.Fatalf("hazard on stopped victim: got %v, want ErrInvalidPlay", err)
	}
	if n := len(h.players[attacker].hand); n != MaxHandCards {
		t.Errorf("attacker hand = %d cards after rollback, want %d", n, MaxHandCards)
	}
	if h.CurrentPlayerID() != attacker {
		t.Error("turn advanced on a failed play")
	}
}

// TestSafetyExtraAction verifies a safety play keeps the turn.
func TestSafetyExtraAction(t *testing.T) {
	h := newTestHand(2)
	current := h.CurrentPlayerID()
	rigRolling(h.players[current], fullHand(ExtraTank)...)

	result, err := h.Play(current, 0, nil)
	if err != nil {
		t.Fatalf("Play: %v", err)
	}
	if result != ResultOK {
		t.Errorf("result = %s, want OK", result)
	}
	if h.CurrentPlayerID() != current {
		t.Error("safety play should grant an extra action")
	}
	// The extra action starts with a fresh draw.
	if err := h.Draw(current, false); err != nil {
		t.Errorf("draw for extra action: %v", err)
	}
}

// TestCoupFourreFlow verifies the full counter: only the hazard's target
// may claim it, the discards land on the tray, and the turn resets to the
// coup player.
func TestCoupFourreFlow(t *testing.T) {
	h := newTestHand(3)
	attacker, bystander, victim := h.order[0], h.order[1], h.order[2]
	rigRolling(h.players[attacker], fullHand(FlatTire)...)
	rigRolling(h.players[victim], fullHand(PunctureProof)...)

	result, err := h.Play(attacker, 0, &victim)
	if err != nil {
		t.Fatalf("Play: %v", err)
	}
	if result != ResultCanCoupFourre {
		t.Fatalf("result = %s, want CAN_COUP_FOURRE", result)
	}
	if h.CurrentPlayerID() != bystander {
		t.Fatal("turn should advance normally while the coup is pending")
	}

	if err := h.CoupFourre(bystander); !errors.Is(err, ErrCannotCoupFourre) {
		t.Fatalf("bystander coup: got %v, want ErrCannotCoupFourre", err)
	}
	if err := h.CoupFourre(victim); err != nil {
		t.Fatalf("CoupFourre: %v", err)
	}
	if h.CurrentPlayerID() != victim {
		t.Error("turn did not reset to the coup player")
	}
	if top, err := h.TopDiscarded(); err != nil || top.Type != FlatTire {
		t.Errorf("discard top = %v, %v; want the countered Flat Tire", top, err)
	}
	if h.players[victim].Phase() != PhaseRolling {
		t.Errorf("victim phase = %s, want Rolling", h.players[victim].Phase())
	}
}

// TestCoupFourreVoidedByNextPlay verifies a pending coup dies as soon as
// another play lands.
func TestCoupFourreVoidedByNextPlay(t *testing.T) {
	h := newTestHand(2)
	attacker, victim := h.order[0], h.order[1]
	rigRolling(h.players[attacker], fullHand(Stop)...)
	rigRolling(h.players[victim], fullHand(RightOfWay)...)
	// Put a plain card at index 0 so the victim has something to discard.
	h.players[victim].hand[0] = CardOf(D50)
	h.players[victim].hand[1] = CardOf(RightOfWay)

	if _, err := h.Play(attacker, 0, nil); err != nil {
		t.Fatalf("Play: %v", err)
	}
	// Victim plays something else instead of claiming the coup.
	if _, err := h.DiscardCard(victim, 0, false); err != nil {
		t.Fatalf("DiscardCard: %v", err)
	}
	if err := h.CoupFourre(victim); !errors.Is(err, ErrCannotCoupFourre) {
		t.Errorf("stale coup: got %v, want ErrCannotCoupFourre", err)
	}
}

// TestWinAndExtensionFlow verifies the small-deck win decision point:
// the turn freezes on the winner until they extend or decline.
func TestWinAndExtensionFlow(t *testing.T) {
	h := newTestHand(2)
	winner, other := h.order[0], h.order[1]
	rigRolling(h.players[winner], fullHand(D50)...)
	h.players[winner].distancePile = handOf(D200, D200, D100, D100, D50) // 650

	result, err := h.Play(winner, 0, nil)
	if err != nil {
		t.Fatalf("Play: %v", err)
	}
	if result != ResultWinCanExtend {
		t.Fatalf("result = %s, want WIN_CAN_EXTEND", result)
	}
	if h.IsCompleted() {
		t.Fatal("hand completed before the extension decision")
	}
	if err := h.Draw(other, false); !errors.Is(err, ErrOutOfTurn) {
		t.Fatalf("opponent acting during the decision: got %v, want ErrOutOfTurn", err)
	}
	if err := h.Extension(other); !errors.Is(err, ErrOutOfTurn) {
		t.Fatalf("opponent extending: got %v, want ErrOutOfTurn", err)
	}

	if err := h.Extension(winner); err != nil {
		t.Fatalf("Extension: %v", err)
	}
	if h.WinScore() != LargeWinScore {
		t.Errorf("WinScore = %d after extension, want %d", h.WinScore(), LargeWinScore)
	}
	if !h.IsExtended() {
		t.Error("IsExtended = false after extension")
	}
	if h.players[winner].Phase() != PhaseRolling || h.players[winner].IsWinner() {
		t.Error("extension should roll the win back")
	}
	if h.CurrentPlayerID() != other {
		t.Error("turn should pass after the extension")
	}
}

// TestNoExtensionFinalizes verifies declining the extension ends the hand
// with scores computed, and seals it against further commands.
func TestNoExtensionFinalizes(t *testing.T) {
	h := newTestHand(2)
	winner, other := h.order[0], h.order[1]
	rigRolling(h.players[winner], fullHand(D50)...)
	h.players[winner].distancePile = handOf(D200, D200, D100, D100, D50)

	if _, err := h.Play(winner, 0, nil); err != nil {
		t.Fatalf("Play: %v", err)
	}
	if err := h.NoExtension(winner); err != nil {
		t.Fatalf("NoExtension: %v", err)
	}

	if !h.IsCompleted() || h.WinnerID() != winner {
		t.Fatalf("completed=%v winner=%s, want completion by %s", h.IsCompleted(), h.WinnerID(), winner)
	}
	if h.players[winner].ScoreCard() == nil || h.players[other].ScoreCard() == nil {
		t.Error("score cards not computed at completion")
	}
	if h.players[other].Phase() != PhaseCompleted {
		t.Error("loser not moved to Completed")
	}
	if err := h.Draw(winner, false); !errors.Is(err, ErrHandCompleted) {
		t.Errorf("draw after completion: got %v, want ErrHandCompleted", err)
	}
}

// TestLargeHandWinEndsImmediately verifies there is no extension outside
// the small deck.
func TestLargeHandWinEndsImmediately(t *testing.T) {
	h := newTestHand(4)
	winner := h.CurrentPlayerID()
	rigRolling(h.players[winner], fullHand(D100)...)
	h.players[winner].distancePile = handOf(D200, D200, D100, D100, D100, D100, D100) // 900

	result, err := h.Play(winner, 0, nil)
	if err != nil {
		t.Fatalf("Play: %v", err)
	}
	if result != ResultWinCannotExtend {
		t.Fatalf("result = %s, want WIN_CANNOT_EXTEND", result)
	}
	if !h.IsCompleted() {
		t.Error("hand should complete on a large-deck win")
	}
	if err := h.Extension(winner); !errors.Is(err, ErrHandCompleted) {
		t.Errorf("Extension: got %v, want ErrHandCompleted", err)
	}
}

// TestExhaustionCompletesWithNoWinner verifies the no-more-cards ending:
// empty draw pile and empty hands end the hand with no winner.
func TestExhaustionCompletesWithNoWinner(t *testing.T) {
	h := newTestHand(2)
	a, b := h.order[0], h.order[1]
	h.tray.drawPile = nil
	h.players[a].hand = handOf(D25)
	h.players[b].hand = nil

	result, err := h.DiscardCard(a, 0, false)
	if err != nil {
		t.Fatalf("DiscardCard: %v", err)
	}
	if result != ResultCompletedNoWinner {
		t.Fatalf("result = %s, want COMPLETED_NO_WINNER", result)
	}
	if !h.IsCompleted() || h.WinnerID() != uuid.Nil {
		t.Errorf("completed=%v winner=%s, want winnerless completion", h.IsCompleted(), h.WinnerID())
	}
	if h.players[a].ScoreCard() == nil {
		t.Error("score cards not computed at exhaustion")
	}
}
