package engine

// NumShuffles is how many Fisher-Yates passes a new deck (and the game's
// turn order) receives. One uniform pass suffices for correctness; the
// original table rules call for three.
const NumShuffles = 3

// deckEntry pairs a card type with its count in the deck composition.
type deckEntry struct {
	t CardType
	n int
}

// baseComposition is the player-count-independent part of every deck.
var baseComposition = []deckEntry{
	{Repairs, 6},
	{Gasoline, 6},
	{SpareTire, 6},
	{Roll, 14},
	{EndOfLimit, 6},

	{DrivingAce, 1},
	{ExtraTank, 1},
	{PunctureProof, 1},
	{RightOfWay, 1},

	{D25, 10},
	{D50, 10},
	{D75, 10},
	{D100, 12},
	{D200, 4},
}

// smallHazards is the hazard allotment for a 2-player game. Large games
// (3-4 players) add one of each.
var smallHazards = []deckEntry{
	{Accident, 2},
	{OutOfGas, 2},
	{FlatTire, 2},
	{Stop, 4},
	{SpeedLimit, 3},
}

// NewDeck builds and shuffles a deck for a small (2-player) or large game.
// The composition is deterministic; the order is a uniform permutation
// drawn from the given seed. It always succeeds.
func NewDeck(small bool, seed uint64) []Card {
	extra := 0
	if !small {
		extra = 1
	}

	deck := make([]Card, 0, deckSize(small))
	for _, e := range baseComposition {
		for i := 0; i < e.n; i++ {
			deck = append(deck, CardOf(e.t))
		}
	}
	for _, e := range smallHazards {
		for i := 0; i < e.n+extra; i++ {
			deck = append(deck, CardOf(e.t))
		}
	}

	r := newRNG(seed)
	for pass := 0; pass < NumShuffles; pass++ {
		r.shuffle(len(deck), func(i, j int) {
			deck[i], deck[j] = deck[j], deck[i]
		})
	}
	return deck
}

// deckSize returns the total card count for the given deck size.
func deckSize(small bool) int {
	n := 0
	for _, e := range baseComposition {
		n += e.n
	}
	for _, e := range smallHazards {
		n += e.n
		if !small {
			n++
		}
	}
	return n
}
