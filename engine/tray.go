package engine

// Tray holds the two shared LIFO stacks of a hand: the draw pile and the
// discard pile. The top of each pile is the last element.
type Tray struct {
	drawPile    []Card
	discardPile []Card
}

// NewTray creates a tray whose draw pile is the given (already shuffled) deck.
func NewTray(deck []Card) *Tray {
	return &Tray{drawPile: deck}
}

// CardsRemaining returns the number of cards left in the draw pile.
func (t *Tray) CardsRemaining() int { return len(t.drawPile) }

// Draw pops and returns the top card of the draw pile.
func (t *Tray) Draw() (Card, error) {
	if len(t.drawPile) == 0 {
		return Card{}, EmptyPileError{Draw: true}
	}
	card := t.drawPile[len(t.drawPile)-1]
	t.drawPile = t.drawPile[:len(t.drawPile)-1]
	return card, nil
}

// DrawFromDiscard pops and returns the top card of the discard pile.
func (t *Tray) DrawFromDiscard() (Card, error) {
	if len(t.discardPile) == 0 {
		return Card{}, EmptyPileError{}
	}
	card := t.discardPile[len(t.discardPile)-1]
	t.discardPile = t.discardPile[:len(t.discardPile)-1]
	return card, nil
}

// Discard pushes a card onto the discard pile. It always succeeds.
func (t *Tray) Discard(card Card) {
	t.discardPile = append(t.discardPile, card)
}

// TopDiscarded peeks at the top card of the discard pile without removing it.
func (t *Tray) TopDiscarded() (Card, error) {
	if len(t.discardPile) == 0 {
		return Card{}, EmptyPileError{}
	}
	return t.discardPile[len(t.discardPile)-1], nil
}
