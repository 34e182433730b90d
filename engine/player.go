package engine

import "sort"

// MaxHandCards is the hand-size ceiling: hold 6, draw 1.
const MaxHandCards = 7

// DealtCards is how many cards each player is dealt at the start of a hand.
const DealtCards = MaxHandCards - 1

// PlayerPhase is a state of the per-player finite state machine.
type PlayerPhase uint8

const (
	PhaseStopped PlayerPhase = iota
	PhaseRolling
	PhaseBroken
	PhaseCompleted
)

// String returns the phase name.
func (p PlayerPhase) String() string {
	switch p {
	case PhaseStopped:
		return "Stopped"
	case PhaseRolling:
		return "Rolling"
	case PhaseBroken:
		return "Broken"
	case PhaseCompleted:
		return "Completed"
	}
	return "Unknown"
}

// PlayerState is the read-only view of a player exposed to callers.
// Card names are ordered; hand indices are 0-based here, front-ends
// conventionally renumber from 1 for display.
type PlayerState struct {
	Phase        string     `json:"state"`
	Winner       bool       `json:"winner"`
	Hand         []string   `json:"hand"`
	SafetiesPile []string   `json:"safeties_pile"`
	BattlePile   []string   `json:"battle_pile"`
	SpeedPile    []string   `json:"speed_pile"`
	DistancePile []string   `json:"distance_pile"`
	CoupsFourres int        `json:"coups_fourres"`
	SortHand     bool       `json:"sort_hand"`
	RunningTotal int        `json:"running_total"`
	ScoreCard    *ScoreCard `json:"score_card,omitempty"`
}

// Player is the finite state machine tracking one player's phase and the
// five piles they own. All operations validate fully before mutating, so a
// failed call leaves the player unchanged.
type Player struct {
	phase        PlayerPhase
	hand         []Card
	safetiesPile []Card
	battlePile   []Card
	speedPile    []Card
	distancePile []Card

	coupFourres int
	// lastHazard marks the hazard just received, enabling a Coup Fourré
	// until the next play clears it.
	lastHazard *Card

	winner    bool
	sortHand  bool
	scoreCard *ScoreCard
}

// NewPlayer creates a player at the start of a hand, before any cards are
// dealt. Players start in the Stopped phase.
func NewPlayer() *Player {
	return &Player{phase: PhaseStopped}
}

// ---------------------------------------------------------------------------
// Internal helpers
// ---------------------------------------------------------------------------

func (p *Player) ensureNotCompleted() error {
	if p.phase == PhaseCompleted {
		return ErrHandCompleted
	}
	return nil
}

func (p *Player) cardAt(index int) (Card, error) {
	if index < 0 || index >= len(p.hand) {
		return Card{}, ErrInvalidCardIndex
	}
	return p.hand[index], nil
}

// removeFromHand removes and returns the card at index, then re-sorts if the
// player has auto-sort enabled.
func (p *Player) removeFromHand(index int) Card {
	card := p.hand[index]
	p.hand = append(p.hand[:index], p.hand[index+1:]...)
	p.maybeSortHand()
	return card
}

// findCard returns the index of the first card of the given type in pile,
// or -1 if absent.
func findCard(pile []Card, t CardType) int {
	for i, c := range pile {
		if c.Type == t {
			return i
		}
	}
	return -1
}

func topCard(pile []Card) (Card, bool) {
	if len(pile) == 0 {
		return Card{}, false
	}
	return pile[len(pile)-1], true
}

func (p *Player) hasRightOfWay() bool {
	return findCard(p.safetiesPile, RightOfWay) >= 0
}

// isLimited reports whether a Speed Limit is in effect: the speed pile is
// topped by one, not yet remedied, and the player lacks Right Of Way.
func (p *Player) isLimited() bool {
	if p.hasRightOfWay() {
		return false
	}
	top, ok := topCard(p.speedPile)
	return ok && top.Type == SpeedLimit
}

func (p *Player) clearLastHazard() {
	p.lastHazard = nil
}

func (p *Player) maybeSortHand() {
	if !p.sortHand {
		return
	}
	sort.SliceStable(p.hand, func(i, j int) bool {
		return p.hand[i].Weight() > p.hand[j].Weight()
	})
}

func (p *Player) countD200() int {
	n := 0
	for _, c := range p.distancePile {
		if c.Type == D200 {
			n++
		}
	}
	return n
}

// ---------------------------------------------------------------------------
// Queries
// ---------------------------------------------------------------------------

// Phase returns the player's current FSM phase.
func (p *Player) Phase() PlayerPhase { return p.phase }

// IsHandFull reports whether the player's hand holds the full 7 cards.
func (p *Player) IsHandFull() bool { return len(p.hand) >= MaxHandCards }

// IsHandEmpty reports whether the player's hand is empty.
func (p *Player) IsHandEmpty() bool { return len(p.hand) == 0 }

// IsWinner reports whether this player won the hand.
func (p *Player) IsWinner() bool { return p.winner }

// IsShutOut reports whether the player has played no distance cards at all.
func (p *Player) IsShutOut() bool { return len(p.distancePile) == 0 }

// Total returns the distance accumulated so far this hand.
func (p *Player) Total() int {
	total := 0
	for _, c := range p.distancePile {
		total += c.Value()
	}
	return total
}

// CardCategory returns the category of the hand card at the given index.
func (p *Player) CardCategory(index int) (Category, error) {
	if err := p.ensureNotCompleted(); err != nil {
		return 0, err
	}
	card, err := p.cardAt(index)
	if err != nil {
		return 0, err
	}
	return card.Category, nil
}

// CanCoupFourre reports whether a Coup Fourré is currently possible: a
// hazard was just received and the hand holds the matching safety.
func (p *Player) CanCoupFourre() bool {
	if p.phase == PhaseCompleted || p.lastHazard == nil {
		return false
	}
	prevented, ok := p.lastHazard.PreventedBy()
	if !ok {
		return false
	}
	return findCard(p.hand, prevented) >= 0
}

// ---------------------------------------------------------------------------
// Plays
// ---------------------------------------------------------------------------

// ReceiveCard appends a drawn (or returned) card to the hand. Receiving a
// card cancels any pending Coup Fourré opportunity against this player.
func (p *Player) ReceiveCard(card Card) error {
	if err := p.ensureNotCompleted(); err != nil {
		return err
	}
	p.clearLastHazard()
	p.hand = append(p.hand, card)
	p.maybeSortHand()
	return nil
}

// PlayDistance plays a distance card and returns true if it wins the hand.
// Legal only while Rolling; a Speed Limit restricts plays to small cards;
// the running total may never exceed winScore and at most two 200s may be
// played per hand.
func (p *Player) PlayDistance(index, winScore int) (bool, error) {
	if err := p.ensureNotCompleted(); err != nil {
		return false, err
	}
	card, err := p.cardAt(index)
	if err != nil {
		return false, err
	}
	if card.Category != CategoryDistance {
		return false, ErrInvalidCardType
	}
	if p.phase != PhaseRolling {
		return false, ErrInvalidPlay
	}
	if p.isLimited() && card.Value() > SpeedLimitMax {
		return false, ErrInvalidPlay
	}
	if p.Total()+card.Value() > winScore {
		return false, ErrInvalidPlay
	}
	if card.Type == D200 && p.countD200() >= 2 {
		return false, ErrInvalidPlay
	}

	p.clearLastHazard()
	p.distancePile = append(p.distancePile, p.removeFromHand(index))
	if p.Total() == winScore {
		p.phase = PhaseCompleted
		p.winner = true
		return true, nil
	}
	return false, nil
}

// PlaySafety moves a safety from the hand to the safeties pile. If the
// safety prevents the hazard currently blocking the player, the block is
// lifted immediately.
func (p *Player) PlaySafety(index int) error {
	if err := p.ensureNotCompleted(); err != nil {
		return err
	}
	card, err := p.cardAt(index)
	if err != nil {
		return err
	}
	if card.Category != CategorySafety {
		return ErrInvalidCardType
	}

	p.clearLastHazard()
	p.safetiesPile = append(p.safetiesPile, p.removeFromHand(index))
	switch p.phase {
	case PhaseStopped:
		if card.Type == RightOfWay {
			p.phase = PhaseRolling
		}
	case PhaseBroken:
		top, _ := topCard(p.battlePile)
		if prevented, ok := top.PreventedBy(); ok && card.Type == prevented {
			p.phase = PhaseStopped
			if p.hasRightOfWay() {
				p.phase = PhaseRolling
			}
		}
	}
	return nil
}

// PlayHazard removes and returns the hazard at the given index so the hand
// orchestrator can apply it to an opponent. One player's state machine
// cannot mutate another's.
func (p *Player) PlayHazard(index int) (Card, error) {
	if err := p.ensureNotCompleted(); err != nil {
		return Card{}, err
	}
	card, err := p.cardAt(index)
	if err != nil {
		return Card{}, err
	}
	if card.Category != CategoryHazard {
		return Card{}, ErrInvalidCardType
	}
	p.clearLastHazard()
	return p.removeFromHand(index), nil
}

// ReceiveHazard applies an opponent's hazard to this player. Battle hazards
// require the target to be strictly Rolling (no stacking hazards on top of
// hazards or remedies); a Speed Limit cannot stack on another. The hazard
// is recorded so the target may immediately Coup Fourré against it.
func (p *Player) ReceiveHazard(card Card) error {
	if err := p.ensureNotCompleted(); err != nil {
		return err
	}
	if card.Category != CategoryHazard {
		return ErrInvalidCardType
	}
	if prevented, ok := card.PreventedBy(); ok && findCard(p.safetiesPile, prevented) >= 0 {
		return ErrInvalidPlay
	}
	if card.Pile == PileBattle {
		if p.phase != PhaseRolling {
			return ErrInvalidPlay
		}
		p.battlePile = append(p.battlePile, card)
		if card.Type == Stop {
			p.phase = PhaseStopped
		} else {
			p.phase = PhaseBroken
		}
	} else { // Must be a Speed Limit then.
		if p.isLimited() {
			return ErrInvalidPlay
		}
		p.speedPile = append(p.speedPile, card)
	}
	hazard := card
	p.lastHazard = &hazard
	return nil
}

// CoupFourre counters the hazard just received with the matching safety
// held in hand, out of normal turn order. The blocking hazard card(s) are
// returned for the orchestrator to discard, and the player resumes Rolling
// without passing through Stopped.
func (p *Player) CoupFourre() ([]Card, error) {
	if err := p.ensureNotCompleted(); err != nil {
		return nil, err
	}
	if p.lastHazard == nil {
		return nil, ErrCannotCoupFourre
	}
	prevented, ok := p.lastHazard.PreventedBy()
	if !ok {
		return nil, ErrCannotCoupFourre
	}
	safetyIndex := findCard(p.hand, prevented)
	if safetyIndex < 0 {
		return nil, ErrCannotCoupFourre
	}

	safety := p.hand[safetyIndex]
	var discards []Card
	if top, found := topCard(p.battlePile); found && top.Category == CategoryHazard {
		if prevented, ok := top.PreventedBy(); ok && safety.Type == prevented {
			p.battlePile = p.battlePile[:len(p.battlePile)-1]
			discards = append(discards, top)
			p.phase = PhaseRolling
		}
	}
	if top, found := topCard(p.speedPile); found && top.Category == CategoryHazard {
		if prevented, ok := top.PreventedBy(); ok && safety.Type == prevented {
			p.speedPile = p.speedPile[:len(p.speedPile)-1]
			discards = append(discards, top)
		}
	}
	p.safetiesPile = append(p.safetiesPile, p.removeFromHand(safetyIndex))
	p.clearLastHazard()
	p.coupFourres++
	return discards, nil
}

// PlayRemedy plays a remedy card. Roll is legal only while Stopped; other
// battle remedies only while Broken and only over the hazard they cure;
// End Of Limit only while speed-limited. A Right Of Way holder resumes
// Rolling directly instead of landing on Stopped.
func (p *Player) PlayRemedy(index int) error {
	if err := p.ensureNotCompleted(); err != nil {
		return err
	}
	card, err := p.cardAt(index)
	if err != nil {
		return err
	}
	if card.Category != CategoryRemedy {
		return ErrInvalidCardType
	}

	if p.phase == PhaseStopped && card.Type == Roll {
		p.clearLastHazard()
		p.battlePile = append(p.battlePile, p.removeFromHand(index))
		p.phase = PhaseRolling
		return nil
	}
	if card.Pile == PileBattle {
		if p.phase != PhaseBroken {
			return ErrInvalidPlay
		}
		top, _ := topCard(p.battlePile)
		if !card.AppliesTo(top.Type) {
			return ErrInvalidPlay
		}
		p.clearLastHazard()
		p.battlePile = append(p.battlePile, p.removeFromHand(index))
		p.phase = PhaseStopped
		if p.hasRightOfWay() {
			p.phase = PhaseRolling
		}
		return nil
	}
	// Speed-pile remedy: End Of Limit.
	if !p.isLimited() {
		return ErrInvalidPlay
	}
	p.clearLastHazard()
	p.speedPile = append(p.speedPile, p.removeFromHand(index))
	return nil
}

// Discard removes and returns the card at the given index. Discarding a
// safety requires force; without it the hand is left unchanged and
// ErrDiscardSafetyWarning is returned for the caller to confirm.
func (p *Player) Discard(index int, force bool) (Card, error) {
	if err := p.ensureNotCompleted(); err != nil {
		return Card{}, err
	}
	card, err := p.cardAt(index)
	if err != nil {
		return Card{}, err
	}
	if card.Category == CategorySafety && !force {
		return Card{}, ErrDiscardSafetyWarning
	}
	return p.removeFromHand(index), nil
}

// Lost forces the player to Completed when the hand ends without them
// winning.
func (p *Player) Lost() {
	p.winner = false
	p.phase = PhaseCompleted
}

// Extension reacts to the winner calling an extension: the win is rolled
// back and play continues toward the higher target.
func (p *Player) Extension() {
	if p.winner {
		p.phase = PhaseRolling
		p.winner = false
	}
}

// ToggleSort flips whether the hand is kept sorted by card weight.
func (p *Player) ToggleSort() error {
	if err := p.ensureNotCompleted(); err != nil {
		return err
	}
	p.sortHand = !p.sortHand
	p.maybeSortHand()
	return nil
}

// SortEnabled reports whether hand auto-sorting is on.
func (p *Player) SortEnabled() bool { return p.sortHand }

// CalcScore computes (once) and returns the player's score card. Valid only
// after the player has completed the hand; repeat calls return the cached
// card.
func (p *Player) CalcScore(drawPileEmpty, extended, shutOut bool) (*ScoreCard, error) {
	if p.phase != PhaseCompleted {
		return nil, ErrHandInProgress
	}
	if p.scoreCard != nil {
		return p.scoreCard, nil
	}

	card := &ScoreCard{}
	card.Distance = p.Total()
	card.Safeties = SafetyScore * len(p.safetiesPile)
	if len(p.safetiesPile) == TotalSafeties {
		card.AllSafeties = AllSafetiesScore
	}
	card.CoupsFourres = CoupFourreScore * p.coupFourres
	if p.winner {
		card.TripCompleted = TripCompletedScore
		if drawPileEmpty {
			card.DelayedAction = DelayedActionScore
		}
		if p.countD200() == 0 {
			card.SafeTrip = SafeTripScore
		}
		if shutOut {
			card.ShutOut = ShutOutScore
		}
		if extended {
			card.Extension = ExtensionScore
		}
	}
	card.sum()
	p.scoreCard = card
	return card, nil
}

// ScoreCard returns the cached score card, or nil while the hand is still
// in progress.
func (p *Player) ScoreCard() *ScoreCard { return p.scoreCard }

// State returns a display representation of the player.
func (p *Player) State() PlayerState {
	return PlayerState{
		Phase:        p.phase.String(),
		Winner:       p.winner,
		Hand:         cardNames(p.hand),
		SafetiesPile: cardNames(p.safetiesPile),
		BattlePile:   cardNames(p.battlePile),
		SpeedPile:    cardNames(p.speedPile),
		DistancePile: cardNames(p.distancePile),
		CoupsFourres: p.coupFourres,
		SortHand:     p.sortHand,
		RunningTotal: p.Total(),
		ScoreCard:    p.scoreCard,
	}
}

func cardNames(pile []Card) []string {
	names := make([]string, len(pile))
	for i, c := range pile {
		names[i] = c.Name()
	}
	return names
}
