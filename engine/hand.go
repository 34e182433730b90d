package engine

import "github.com/google/uuid"

// Win targets. A hand played with the small (2-player) deck races to 700;
// large games and extended hands race to 1000.
const (
	SmallWinScore = 700
	LargeWinScore = 1000
)

// LargeDeckPlayers is the player count at which the large deck is used.
const LargeDeckPlayers = 4

// PlayResult describes the outcome of a successful play or discard.
type PlayResult uint8

const (
	// ResultOK: the play succeeded and the turn advanced (a safety play
	// also reports OK but keeps the turn).
	ResultOK PlayResult = iota
	// ResultCanCoupFourre: the hazard landed, and its target holds the
	// matching safety.
	ResultCanCoupFourre
	// ResultWinCanExtend: the player reached the target exactly and may
	// call an extension; the turn does not advance until they decide.
	ResultWinCanExtend
	// ResultWinCannotExtend: the player won and the hand is completed.
	ResultWinCannotExtend
	// ResultCompletedNoWinner: every hand and the draw pile are empty;
	// the hand is over with no winner.
	ResultCompletedNoWinner
)

// String returns the result name.
func (r PlayResult) String() string {
	switch r {
	case ResultOK:
		return "OK"
	case ResultCanCoupFourre:
		return "CAN_COUP_FOURRE"
	case ResultWinCanExtend:
		return "WIN_CAN_EXTEND"
	case ResultWinCannotExtend:
		return "WIN_CANNOT_EXTEND"
	case ResultCompletedNoWinner:
		return "COMPLETED_NO_WINNER"
	}
	return "Unknown"
}

// Hand runs one hand of the game: it owns the tray, one Player per
// registered id, the fixed turn order, and the single pending Coup Fourré
// opportunity. Hands are single-threaded; the caller serializes access.
type Hand struct {
	roundNumber int
	turnIndex   int
	order       []uuid.UUID
	players     map[uuid.UUID]*Player

	tray      *Tray
	smallDeck bool
	winScore  int
	extended  bool
	completed bool
	winnerID  uuid.UUID

	// lastTarget is the one player currently allowed to Coup Fourré: the
	// target of the most recent hazard. Any other play clears it, so a
	// stale opportunity cannot be claimed.
	lastTarget *Player
}

// NewHand deals a new hand for the given players, in turn order. The deck
// size and win target follow the player count; the seed drives the shuffle.
func NewHand(playerIDsInTurnOrder []uuid.UUID, seed uint64) *Hand {
	h := &Hand{
		roundNumber: 1,
		order:       append([]uuid.UUID(nil), playerIDsInTurnOrder...),
		players:     make(map[uuid.UUID]*Player, len(playerIDsInTurnOrder)),
	}
	h.smallDeck = len(h.order) < LargeDeckPlayers
	h.winScore = LargeWinScore
	if h.smallDeck {
		h.winScore = SmallWinScore
	}
	h.tray = NewTray(NewDeck(h.smallDeck, seed))
	for _, id := range h.order {
		h.players[id] = NewPlayer()
	}
	h.dealCards()
	return h
}

// dealCards distributes the opening hands, one card at a time around the
// table. The fresh deck always holds enough cards, so draws cannot fail.
func (h *Hand) dealCards() {
	for i := 0; i < DealtCards; i++ {
		for _, id := range h.order {
			card, _ := h.tray.Draw()
			_ = h.players[id].ReceiveCard(card)
		}
	}
}

// ---------------------------------------------------------------------------
// Internal helpers
// ---------------------------------------------------------------------------

func (h *Hand) ensureNotCompleted() error {
	if h.completed {
		return ErrHandCompleted
	}
	return nil
}

func (h *Hand) player(id uuid.UUID) (*Player, error) {
	p, ok := h.players[id]
	if !ok {
		return nil, InvalidPlayerError{ID: id}
	}
	return p, nil
}

func (h *Hand) ensurePlayerTurn(id uuid.UUID) error {
	if id != h.CurrentPlayerID() {
		return ErrOutOfTurn
	}
	return nil
}

// ensureHandFull checks that the player has drawn (or that there is nothing
// left to draw) before acting.
func (h *Hand) ensureHandFull(p *Player) error {
	if !p.IsHandFull() && h.CardsRemaining() > 0 {
		return ErrMustDraw
	}
	return nil
}

// ensureCanDraw checks that the player may draw at all: a full hand never
// draws, and once the draw pile is exhausted play continues without drawing.
func (h *Hand) ensureCanDraw(p *Player) error {
	if p.IsHandFull() || h.CardsRemaining() == 0 {
		return ErrCannotDraw
	}
	return nil
}

// resolveTarget picks the hazard target: explicit when given, inferred as
// the sole opponent in a 2-player hand, ambiguous otherwise.
func (h *Hand) resolveTarget(playerID uuid.UUID, targetID *uuid.UUID) (*Player, error) {
	if targetID == nil {
		if len(h.order) > 2 {
			return nil, ErrAmbiguousTarget
		}
		for _, id := range h.order {
			if id != playerID {
				return h.players[id], nil
			}
		}
		return nil, ErrAmbiguousTarget
	}
	if *targetID == playerID {
		return nil, ErrInvalidTarget
	}
	target, ok := h.players[*targetID]
	if !ok {
		return nil, ErrInvalidTarget
	}
	return target, nil
}

func (h *Hand) nextTurn() {
	h.turnIndex++
	if h.turnIndex >= len(h.order) {
		h.turnIndex = 0
		h.roundNumber++
	}
}

// noMoreCards reports whether play has become impossible: every hand and
// the draw pile are simultaneously empty.
func (h *Hand) noMoreCards() bool {
	if h.completed || h.tray.CardsRemaining() > 0 {
		return false
	}
	for _, p := range h.players {
		if !p.IsHandEmpty() {
			return false
		}
	}
	return true
}

// complete finishes the hand, forcing losers to Completed and computing
// every player's score card.
func (h *Hand) complete(withWinner bool) {
	h.winnerID = uuid.Nil
	if withWinner {
		h.winnerID = h.CurrentPlayerID()
	}
	shutOut := true
	for id, p := range h.players {
		if id == h.winnerID {
			continue
		}
		p.Lost()
		if !p.IsShutOut() {
			shutOut = false
		}
	}
	drawEmpty := h.tray.CardsRemaining() == 0
	for _, p := range h.players {
		_, _ = p.CalcScore(drawEmpty, h.extended, shutOut)
	}
	h.completed = true
}

// checkNoMoreCards forces completion with no winner when nothing is left to
// play; otherwise it advances the turn (unless the play keeps it) and
// passes the handler's result through.
func (h *Hand) checkNoMoreCards(result PlayResult, advance bool) PlayResult {
	if h.noMoreCards() {
		h.complete(false)
		return ResultCompletedNoWinner
	}
	if advance && !h.completed {
		h.nextTurn()
	}
	return result
}

func (h *Hand) canExtend() bool {
	return h.smallDeck && !h.extended
}

// ---------------------------------------------------------------------------
// Queries
// ---------------------------------------------------------------------------

// CurrentPlayerID returns the id of the player whose turn it is.
func (h *Hand) CurrentPlayerID() uuid.UUID { return h.order[h.turnIndex] }

// RoundNumber returns the current round (one round = one turn per player).
func (h *Hand) RoundNumber() int { return h.roundNumber }

// IsCompleted reports whether the hand is over.
func (h *Hand) IsCompleted() bool { return h.completed }

// IsExtended reports whether an extension was called this hand.
func (h *Hand) IsExtended() bool { return h.extended }

// WinnerID returns the hand winner's id, or uuid.Nil if there is none (the
// hand is still running, or it completed with no winner).
func (h *Hand) WinnerID() uuid.UUID { return h.winnerID }

// IsSmallDeck reports whether this hand uses the 2-player deck.
func (h *Hand) IsSmallDeck() bool { return h.smallDeck }

// WinScore returns the current distance target.
func (h *Hand) WinScore() int { return h.winScore }

// CardsRemaining returns the number of cards left in the draw pile.
func (h *Hand) CardsRemaining() int { return h.tray.CardsRemaining() }

// TopDiscarded peeks at the top of the discard pile.
func (h *Hand) TopDiscarded() (Card, error) { return h.tray.TopDiscarded() }

// PlayerState returns the display state of the given player.
func (h *Hand) PlayerState(id uuid.UUID) (PlayerState, error) {
	p, err := h.player(id)
	if err != nil {
		return PlayerState{}, err
	}
	return p.State(), nil
}

// ---------------------------------------------------------------------------
// Commands
// ---------------------------------------------------------------------------

// Draw gives the current player the top card of the draw pile, or of the
// discard pile when fromDiscard is set.
func (h *Hand) Draw(playerID uuid.UUID, fromDiscard bool) error {
	if err := h.ensureNotCompleted(); err != nil {
		return err
	}
	p, err := h.player(playerID)
	if err != nil {
		return err
	}
	if err := h.ensurePlayerTurn(playerID); err != nil {
		return err
	}
	if err := h.ensureCanDraw(p); err != nil {
		return err
	}
	var card Card
	if fromDiscard {
		card, err = h.tray.DrawFromDiscard()
	} else {
		card, err = h.tray.Draw()
	}
	if err != nil {
		return err
	}
	return p.ReceiveCard(card)
}

// Play dispatches a card play by category and returns the result. targetID
// applies only to hazards and may be nil in a 2-player hand, where the sole
// opponent is targeted automatically.
func (h *Hand) Play(playerID uuid.UUID, cardIndex int, targetID *uuid.UUID) (PlayResult, error) {
	if err := h.ensureNotCompleted(); err != nil {
		return 0, err
	}
	p, err := h.player(playerID)
	if err != nil {
		return 0, err
	}
	if err := h.ensurePlayerTurn(playerID); err != nil {
		return 0, err
	}
	if err := h.ensureHandFull(p); err != nil {
		return 0, err
	}
	category, err := p.CardCategory(cardIndex)
	if err != nil {
		return 0, err
	}

	var target *Player
	if category == CategoryHazard {
		if target, err = h.resolveTarget(playerID, targetID); err != nil {
			return 0, err
		}
	} else if targetID != nil && *targetID != playerID {
		return 0, ErrInvalidTarget
	}

	// Any new play voids a stale Coup Fourré opportunity.
	h.lastTarget = nil

	result := ResultOK
	switch category {
	case CategorySafety:
		if err := p.PlaySafety(cardIndex); err != nil {
			return 0, err
		}
	case CategoryRemedy:
		if err := p.PlayRemedy(cardIndex); err != nil {
			return 0, err
		}
	case CategoryHazard:
		result, err = h.playHazard(p, cardIndex, target)
		if err != nil {
			return 0, err
		}
	case CategoryDistance:
		result, err = h.playDistance(p, cardIndex)
		if err != nil {
			return 0, err
		}
	}

	// A safety play grants an extra action, and a winning-but-extendable
	// play waits for the extension decision before the turn moves on.
	advance := category != CategorySafety && result != ResultWinCanExtend
	return h.checkNoMoreCards(result, advance), nil
}

// playHazard moves the hazard from the attacker to the target, returning it
// to the attacker's hand if the target may not legally receive it.
func (h *Hand) playHazard(p *Player, cardIndex int, target *Player) (PlayResult, error) {
	card, err := p.PlayHazard(cardIndex)
	if err != nil {
		return 0, err
	}
	if err := target.ReceiveHazard(card); err != nil {
		_ = p.ReceiveCard(card) // restore; the play never happened
		return 0, err
	}
	if target.CanCoupFourre() {
		h.lastTarget = target
		return ResultCanCoupFourre, nil
	}
	return ResultOK, nil
}

func (h *Hand) playDistance(p *Player, cardIndex int) (PlayResult, error) {
	won, err := p.PlayDistance(cardIndex, h.winScore)
	if err != nil {
		return 0, err
	}
	if !won {
		return ResultOK, nil
	}
	if h.canExtend() {
		return ResultWinCanExtend, nil
	}
	h.complete(true)
	return ResultWinCannotExtend, nil
}

// DiscardCard discards from the current player's hand to the tray.
// Discarding a safety requires force (see Player.Discard).
func (h *Hand) DiscardCard(playerID uuid.UUID, cardIndex int, force bool) (PlayResult, error) {
	if err := h.ensureNotCompleted(); err != nil {
		return 0, err
	}
	p, err := h.player(playerID)
	if err != nil {
		return 0, err
	}
	if err := h.ensurePlayerTurn(playerID); err != nil {
		return 0, err
	}
	if err := h.ensureHandFull(p); err != nil {
		return 0, err
	}
	card, err := p.Discard(cardIndex, force)
	if err != nil {
		return 0, err
	}
	h.tray.Discard(card)
	h.lastTarget = nil
	return h.checkNoMoreCards(ResultOK, true), nil
}

// CoupFourre triggers a Coup Fourré. Even if several players hold safeties,
// only the target of the most recent hazard may claim it, and doing so
// hands the turn back to them.
func (h *Hand) CoupFourre(playerID uuid.UUID) error {
	if err := h.ensureNotCompleted(); err != nil {
		return err
	}
	p, err := h.player(playerID)
	if err != nil {
		return err
	}
	if p != h.lastTarget {
		return ErrCannotCoupFourre
	}
	discards, err := p.CoupFourre()
	if err != nil {
		return err
	}
	for _, card := range discards {
		h.tray.Discard(card)
	}
	h.lastTarget = nil
	for i, id := range h.order {
		if id == playerID {
			h.turnIndex = i
			break
		}
	}
	return nil
}

// Extension lets the winner of a small-deck hand keep playing to the large
// win target instead of ending the hand.
func (h *Hand) Extension(playerID uuid.UUID) error {
	if err := h.ensureNotCompleted(); err != nil {
		return err
	}
	p, err := h.player(playerID)
	if err != nil {
		return err
	}
	if err := h.ensurePlayerTurn(playerID); err != nil {
		return err
	}
	if h.extended {
		return ErrAlreadyExtended
	}
	if !h.canExtend() || !p.IsWinner() {
		return ErrCannotExtend
	}
	p.Extension()
	h.winScore = LargeWinScore
	h.extended = true
	h.nextTurn()
	return nil
}

// NoExtension finalizes the hand with the current winner after they decline
// the extension.
func (h *Hand) NoExtension(playerID uuid.UUID) error {
	if err := h.ensureNotCompleted(); err != nil {
		return err
	}
	p, err := h.player(playerID)
	if err != nil {
		return err
	}
	if err := h.ensurePlayerTurn(playerID); err != nil {
		return err
	}
	if !h.canExtend() || !p.IsWinner() {
		return ErrCannotExtend
	}
	h.complete(true)
	return nil
}

// ToggleSort flips hand auto-sorting for the given player.
func (h *Hand) ToggleSort(playerID uuid.UUID) error {
	if err := h.ensureNotCompleted(); err != nil {
		return err
	}
	p, err := h.player(playerID)
	if err != nil {
		return err
	}
	return p.ToggleSort()
}
