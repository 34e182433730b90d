package engine

// Category discriminates the four kinds of cards in the deck.
type Category uint8

const (
	CategoryHazard Category = iota
	CategoryRemedy
	CategorySafety
	CategoryDistance
)

// String returns the category name.
func (c Category) String() string {
	switch c {
	case CategoryHazard:
		return "Hazard"
	case CategoryRemedy:
		return "Remedy"
	case CategorySafety:
		return "Safety"
	case CategoryDistance:
		return "Distance"
	}
	return "Unknown"
}

// Pile identifies the pile a card is played onto.
type Pile uint8

const (
	PileBattle Pile = iota
	PileSpeed
	PileSafety
	PileDistance
)

// CardType identifies a concrete card. The zero-based values index the
// catalog table below.
type CardType uint8

const (
	Accident CardType = iota
	OutOfGas
	FlatTire
	Stop
	SpeedLimit
	Repairs
	Gasoline
	SpareTire
	Roll
	EndOfLimit
	DrivingAce
	ExtraTank
	PunctureProof
	RightOfWay
	D25
	D50
	D75
	D100
	D200

	numCardTypes
)

// noCard marks an absent relation in the catalog table.
const noCard CardType = numCardTypes

// SpeedLimitMax is the highest distance value playable while speed-limited.
const SpeedLimitMax = 50

// Card is an immutable value identified by category, concrete type, and
// target pile. Cards are interned by type: two cards of the same type
// compare equal and no per-instance state exists.
type Card struct {
	Category Category
	Type     CardType
	Pile     Pile
}

// cardSpec is one row of the static relation table backing the catalog.
type cardSpec struct {
	category Category
	pile     Pile
	name     string
	weight   int
	value    int // distance cards only

	remediedBy   CardType   // hazards: the remedy that cures this
	preventedBy  CardType   // hazards and large distance cards: the blocking/preventing counterpart
	appliesTo    []CardType // remedies: what this may be played over
	supersededBy CardType   // remedies: the safety that makes this unnecessary
	prevents     []CardType // safeties: the hazards this prevents
	supersedes   CardType   // safeties: the remedy this supersedes
}

// catalog holds one row per card type. Sort weights follow the original
// table: distance 10-14, remedies 20-24, hazards 30-34, safeties 40-43,
// higher sorts first.
var catalog = [numCardTypes]cardSpec{
	Accident: {
		category: CategoryHazard, pile: PileBattle, name: "Accident", weight: 34,
		remediedBy: Repairs, preventedBy: DrivingAce, appliesTo: nil, supersededBy: noCard, supersedes: noCard,
	},
	OutOfGas: {
		category: CategoryHazard, pile: PileBattle, name: "Out Of Gas", weight: 32,
		remediedBy: Gasoline, preventedBy: ExtraTank, supersededBy: noCard, supersedes: noCard,
	},
	FlatTire: {
		category: CategoryHazard, pile: PileBattle, name: "Flat Tire", weight: 33,
		remediedBy: SpareTire, preventedBy: PunctureProof, supersededBy: noCard, supersedes: noCard,
	},
	Stop: {
		category: CategoryHazard, pile: PileBattle, name: "Stop", weight: 31,
		remediedBy: Roll, preventedBy: RightOfWay, supersededBy: noCard, supersedes: noCard,
	},
	SpeedLimit: {
		category: CategoryHazard, pile: PileSpeed, name: "Speed Limit", weight: 30,
		remediedBy: EndOfLimit, preventedBy: RightOfWay, supersededBy: noCard, supersedes: noCard,
	},

	Repairs: {
		category: CategoryRemedy, pile: PileBattle, name: "Repairs", weight: 22,
		appliesTo: []CardType{Accident}, supersededBy: DrivingAce,
		remediedBy: noCard, preventedBy: noCard, supersedes: noCard,
	},
	Gasoline: {
		category: CategoryRemedy, pile: PileBattle, name: "Gasoline", weight: 23,
		appliesTo: []CardType{OutOfGas}, supersededBy: ExtraTank,
		remediedBy: noCard, preventedBy: noCard, supersedes: noCard,
	},
	SpareTire: {
		category: CategoryRemedy, pile: PileBattle, name: "Spare Tire", weight: 21,
		appliesTo: []CardType{FlatTire}, supersededBy: PunctureProof,
		remediedBy: noCard, preventedBy: noCard, supersedes: noCard,
	},
	Roll: {
		category: CategoryRemedy, pile: PileBattle, name: "Roll", weight: 24,
		// Roll goes on top of being Stopped, or over any other battle remedy.
		appliesTo:    []CardType{Stop, Repairs, Gasoline, SpareTire, EndOfLimit},
		supersededBy: RightOfWay,
		remediedBy:   noCard, preventedBy: noCard, supersedes: noCard,
	},
	EndOfLimit: {
		category: CategoryRemedy, pile: PileSpeed, name: "End Of Limit", weight: 20,
		appliesTo: []CardType{SpeedLimit}, supersededBy: RightOfWay,
		remediedBy: noCard, preventedBy: noCard, supersedes: noCard,
	},

	DrivingAce: {
		category: CategorySafety, pile: PileSafety, name: "Driving Ace", weight: 40,
		prevents: []CardType{Accident}, supersedes: Repairs,
		remediedBy: noCard, preventedBy: noCard, supersededBy: noCard,
	},
	ExtraTank: {
		category: CategorySafety, pile: PileSafety, name: "Extra Tank", weight: 41,
		prevents: []CardType{OutOfGas}, supersedes: Gasoline,
		remediedBy: noCard, preventedBy: noCard, supersededBy: noCard,
	},
	PunctureProof: {
		category: CategorySafety, pile: PileSafety, name: "Puncture Proof", weight: 42,
		prevents: []CardType{FlatTire}, supersedes: SpareTire,
		remediedBy: noCard, preventedBy: noCard, supersededBy: noCard,
	},
	RightOfWay: {
		// The only safety that prevents two hazard types. Its holder never
		// needs to play Roll.
		category: CategorySafety, pile: PileSafety, name: "Right Of Way", weight: 43,
		prevents: []CardType{Stop, SpeedLimit}, supersedes: Roll,
		remediedBy: noCard, preventedBy: noCard, supersededBy: noCard,
	},

	D25: {
		category: CategoryDistance, pile: PileDistance, name: "25", weight: 10, value: 25,
		remediedBy: noCard, preventedBy: noCard, supersededBy: noCard, supersedes: noCard,
	},
	D50: {
		category: CategoryDistance, pile: PileDistance, name: "50", weight: 11, value: 50,
		remediedBy: noCard, preventedBy: noCard, supersededBy: noCard, supersedes: noCard,
	},
	D75: {
		category: CategoryDistance, pile: PileDistance, name: "75", weight: 12, value: 75,
		remediedBy: noCard, preventedBy: SpeedLimit, supersededBy: noCard, supersedes: noCard,
	},
	D100: {
		category: CategoryDistance, pile: PileDistance, name: "100", weight: 13, value: 100,
		remediedBy: noCard, preventedBy: SpeedLimit, supersededBy: noCard, supersedes: noCard,
	},
	D200: {
		category: CategoryDistance, pile: PileDistance, name: "200", weight: 14, value: 200,
		remediedBy: noCard, preventedBy: SpeedLimit, supersededBy: noCard, supersedes: noCard,
	},
}

// CardOf returns the canonical card for the given type.
func CardOf(t CardType) Card {
	spec := &catalog[t]
	return Card{Category: spec.category, Type: t, Pile: spec.pile}
}

// Name returns the card's human display name.
func (c Card) Name() string { return catalog[c.Type].name }

// String returns the display name.
func (c Card) String() string { return c.Name() }

// Weight returns the card's sort weight. Higher weights sort first.
func (c Card) Weight() int { return catalog[c.Type].weight }

// Value returns the distance value of a distance card, 0 for any other card.
func (c Card) Value() int { return catalog[c.Type].value }

// RemediedBy returns the remedy type that cures this hazard.
// Only meaningful for hazard cards.
func (c Card) RemediedBy() CardType { return catalog[c.Type].remediedBy }

// PreventedBy returns the type that forbids or prevents this card: the
// counterpart safety for a hazard, or SpeedLimit for a large distance card.
// ok is false when the card has no preventing counterpart.
func (c Card) PreventedBy() (CardType, bool) {
	t := catalog[c.Type].preventedBy
	return t, t != noCard
}

// AppliesTo reports whether this remedy may be played over a pile topped by
// the given card type.
func (c Card) AppliesTo(top CardType) bool {
	for _, t := range catalog[c.Type].appliesTo {
		if t == top {
			return true
		}
	}
	return false
}

// SupersededBy returns the safety that makes this remedy unnecessary.
func (c Card) SupersededBy() (CardType, bool) {
	t := catalog[c.Type].supersededBy
	return t, t != noCard
}

// Prevents reports whether this safety prevents the given hazard type.
func (c Card) Prevents(hazard CardType) bool {
	for _, t := range catalog[c.Type].prevents {
		if t == hazard {
			return true
		}
	}
	return false
}

// Supersedes returns the remedy this safety supersedes.
func (c Card) Supersedes() (CardType, bool) {
	t := catalog[c.Type].supersedes
	return t, t != noCard
}

// AllCardTypes returns every concrete card type, in catalog order.
func AllCardTypes() []CardType {
	types := make([]CardType, 0, numCardTypes)
	for t := CardType(0); t < numCardTypes; t++ {
		types = append(types, t)
	}
	return types
}

// SafetyTypes returns the four safety card types.
func SafetyTypes() []CardType {
	return []CardType{DrivingAce, ExtraTank, PunctureProof, RightOfWay}
}

// HazardTypes returns the five hazard card types.
func HazardTypes() []CardType {
	return []CardType{Accident, OutOfGas, FlatTire, Stop, SpeedLimit}
}
