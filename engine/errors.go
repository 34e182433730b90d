package engine

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// All engine errors are expected, recoverable rule violations. Every public
// operation either succeeds and mutates state exactly once, or fails with
// one of these and leaves state unchanged.

// Game state errors.
var (
	ErrNotBegun             = errors.New("game has not yet begun")
	ErrGameAlreadyBegun     = errors.New("game has already begun")
	ErrGameAlreadyCompleted = errors.New("game is already completed")
	ErrGameNotCompleted     = errors.New("game is not yet completed")
	ErrHandInProgress       = errors.New("hand is still in progress")
	ErrHandCompleted        = errors.New("hand is completed, no further plays allowed")
	ErrTooManyPlayers       = errors.New("game is full, no more players can join")
	ErrInsufficientPlayers  = errors.New("not enough players have joined this game")
)

// Turn errors.
var (
	ErrOutOfTurn       = errors.New("not your turn")
	ErrInvalidTarget   = errors.New("card cannot be played on that player")
	ErrAmbiguousTarget = errors.New("multiple target choices, a target player must be specified")
)

// Card errors.
var (
	ErrInvalidCardIndex = errors.New("invalid card index")
	ErrInvalidCardType  = errors.New("card is not of the required type")
	ErrInvalidPlay      = errors.New("cannot play card at this time")
)

// Draw errors.
var (
	ErrMustDraw   = errors.New("must draw a card first")
	ErrCannotDraw = errors.New("cannot draw: hand is full or no cards are left")
)

// Coup Fourré and extension errors.
var (
	ErrCannotCoupFourre = errors.New("coup fourré is not possible")
	ErrCannotExtend     = errors.New("extension is not allowed")
	ErrAlreadyExtended  = errors.New("hand is already extended")
)

// ErrDiscardSafetyWarning is a soft warning, not a hard failure: the discard
// did not happen, and the caller is expected to re-invoke with force set
// rather than treat this as terminal.
var ErrDiscardSafetyWarning = errors.New("discarding a safety card, use force to confirm")

// EmptyPileError reports a draw or peek from an exhausted tray pile.
type EmptyPileError struct {
	Draw bool // true for the draw pile, false for the discard pile
}

func (e EmptyPileError) Error() string {
	if e.Draw {
		return "draw pile is empty"
	}
	return "discard pile is empty"
}

// InvalidPlayerError reports an id that does not belong to this hand or game.
type InvalidPlayerError struct {
	ID uuid.UUID
}

func (e InvalidPlayerError) Error() string {
	return fmt.Sprintf("invalid player id %s", e.ID)
}
