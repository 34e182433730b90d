// Package host runs engine games for a process: it creates and tracks live
// games, serializes concurrent commands per game, and logs command
// outcomes. Transport, persistence and rendering belong to callers.
package host

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/justkrys/racecard/engine"
)

// ErrGameNotFound is returned when a command names an unknown game id.
var ErrGameNotFound = errors.New("host: game not found")

// HostedGame wraps one engine game behind a mutex. The engine itself is
// single-threaded; all access goes through Do.
type HostedGame struct {
	ID uuid.UUID

	mu   sync.Mutex
	game *engine.Game
}

// Do runs fn with exclusive access to the underlying game.
func (h *HostedGame) Do(fn func(g *engine.Game) error) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	return fn(h.game)
}

// Manager creates and drives hosted games. All commands are keyed by game
// id and serialized per game.
type Manager struct {
	repo Repository
	log  *logrus.Logger

	// seedFn produces the seed for each new game. The default is the
	// clock; a fixed seed makes every hosted game reproducible.
	seedFn func() uint64
}

// NewManager builds a manager on the given repository. seedOverride, when
// nonzero, seeds every created game with that value.
func NewManager(repo Repository, log *logrus.Logger, seedOverride uint64) *Manager {
	seedFn := func() uint64 { return uint64(time.Now().UnixNano()) }
	if seedOverride != 0 {
		seedFn = func() uint64 { return seedOverride }
	}
	return &Manager{repo: repo, log: log, seedFn: seedFn}
}

// CreateGame registers a fresh game and returns its id.
func (m *Manager) CreateGame() uuid.UUID {
	hosted := &HostedGame{
		ID:   uuid.New(),
		game: engine.NewGame(m.seedFn()),
	}
	m.repo.Put(hosted)
	m.log.WithField("game_id", hosted.ID).Info("game created")
	return hosted.ID
}

// RemoveGame drops a game from the repository.
func (m *Manager) RemoveGame(id uuid.UUID) {
	m.repo.Delete(id)
	m.log.WithField("game_id", id).Info("game removed")
}

// GameIDs lists the ids of all live games.
func (m *Manager) GameIDs() []uuid.UUID { return m.repo.IDs() }

func (m *Manager) hosted(id uuid.UUID) (*HostedGame, error) {
	h, ok := m.repo.Get(id)
	if !ok {
		return nil, ErrGameNotFound
	}
	return h, nil
}

// do locates the game, runs fn under its lock, and logs the outcome. The
// safety-discard warning is logged as such, not as a failure.
func (m *Manager) do(gameID uuid.UUID, command string, fields logrus.Fields, fn func(g *engine.Game) error) error {
	h, err := m.hosted(gameID)
	if err != nil {
		m.log.WithField("game_id", gameID).WithField("command", command).Warn("unknown game")
		return err
	}
	err = h.Do(fn)
	entry := m.log.WithField("game_id", gameID).WithField("command", command).WithFields(fields)
	switch {
	case err == nil:
		entry.Info("command applied")
	case errors.Is(err, engine.ErrDiscardSafetyWarning):
		entry.Warn("discard needs confirmation")
	default:
		entry.WithError(err).Warn("command rejected")
	}
	return err
}

// ---------------------------------------------------------------------------
// Lifecycle commands
// ---------------------------------------------------------------------------

// AddPlayer adds a player to a game that has not begun.
func (m *Manager) AddPlayer(gameID uuid.UUID) (uuid.UUID, error) {
	var playerID uuid.UUID
	err := m.do(gameID, "add_player", nil, func(g *engine.Game) error {
		var err error
		playerID, err = g.AddPlayer()
		return err
	})
	return playerID, err
}

// Begin starts the game.
func (m *Manager) Begin(gameID uuid.UUID) error {
	return m.do(gameID, "begin", nil, func(g *engine.Game) error {
		return g.Begin()
	})
}

// NextHand deals the next hand once the current one has completed.
func (m *Manager) NextHand(gameID uuid.UUID) error {
	return m.do(gameID, "next_hand", nil, func(g *engine.Game) error {
		return g.NextHand()
	})
}

// ---------------------------------------------------------------------------
// Play commands
// ---------------------------------------------------------------------------

// Draw draws a card for the player, from the discard pile when fromDiscard
// is set.
func (m *Manager) Draw(gameID, playerID uuid.UUID, fromDiscard bool) error {
	fields := logrus.Fields{"player_id": playerID, "from_discard": fromDiscard}
	return m.do(gameID, "draw", fields, func(g *engine.Game) error {
		return g.Draw(playerID, fromDiscard)
	})
}

// Play plays the card at cardIndex, optionally at a target.
func (m *Manager) Play(gameID, playerID uuid.UUID, cardIndex int, targetID *uuid.UUID) (engine.PlayResult, error) {
	fields := logrus.Fields{"player_id": playerID, "card_index": cardIndex}
	if targetID != nil {
		fields["target_id"] = *targetID
	}
	var result engine.PlayResult
	err := m.do(gameID, "play", fields, func(g *engine.Game) error {
		var err error
		result, err = g.Play(playerID, cardIndex, targetID)
		return err
	})
	return result, err
}

// Discard discards the card at cardIndex. Discarding a safety requires
// force; otherwise the engine's warning is passed through for the caller
// to confirm.
func (m *Manager) Discard(gameID, playerID uuid.UUID, cardIndex int, force bool) (engine.PlayResult, error) {
	fields := logrus.Fields{"player_id": playerID, "card_index": cardIndex, "force": force}
	var result engine.PlayResult
	err := m.do(gameID, "discard", fields, func(g *engine.Game) error {
		var err error
		result, err = g.DiscardCard(playerID, cardIndex, force)
		return err
	})
	return result, err
}

// CoupFourre triggers the player's Coup Fourré.
func (m *Manager) CoupFourre(gameID, playerID uuid.UUID) error {
	return m.do(gameID, "coup_fourre", logrus.Fields{"player_id": playerID}, func(g *engine.Game) error {
		return g.CoupFourre(playerID)
	})
}

// Extension accepts the winner's extension.
func (m *Manager) Extension(gameID, playerID uuid.UUID) error {
	return m.do(gameID, "extension", logrus.Fields{"player_id": playerID}, func(g *engine.Game) error {
		return g.Extension(playerID)
	})
}

// NoExtension declines the extension and finalizes the hand.
func (m *Manager) NoExtension(gameID, playerID uuid.UUID) error {
	return m.do(gameID, "no_extension", logrus.Fields{"player_id": playerID}, func(g *engine.Game) error {
		return g.NoExtension(playerID)
	})
}

// ToggleSort flips the player's hand-sorting preference.
func (m *Manager) ToggleSort(gameID, playerID uuid.UUID) error {
	return m.do(gameID, "toggle_sort", logrus.Fields{"player_id": playerID}, func(g *engine.Game) error {
		return g.ToggleSort(playerID)
	})
}

// ---------------------------------------------------------------------------
// Queries
// ---------------------------------------------------------------------------

// PlayerState returns the player's view in the given game.
func (m *Manager) PlayerState(gameID, playerID uuid.UUID) (engine.PlayerState, error) {
	h, err := m.hosted(gameID)
	if err != nil {
		return engine.PlayerState{}, err
	}
	var state engine.PlayerState
	err = h.Do(func(g *engine.Game) error {
		var err error
		state, err = g.PlayerState(playerID)
		return err
	})
	return state, err
}

// HandScores returns the most recent completed hand's scores.
func (m *Manager) HandScores(gameID uuid.UUID) (map[uuid.UUID]engine.Score, error) {
	h, err := m.hosted(gameID)
	if err != nil {
		return nil, err
	}
	var scores map[uuid.UUID]engine.Score
	err = h.Do(func(g *engine.Game) error {
		var err error
		scores, err = g.HandScores()
		return err
	})
	return scores, err
}

// GameScores returns the completed game's totals.
func (m *Manager) GameScores(gameID uuid.UUID) (map[uuid.UUID]engine.ScoreCard, error) {
	h, err := m.hosted(gameID)
	if err != nil {
		return nil, err
	}
	var scores map[uuid.UUID]engine.ScoreCard
	err = h.Do(func(g *engine.Game) error {
		var err error
		scores, err = g.GameScores()
		return err
	})
	return scores, err
}

// Winner returns the game winner once the game completes.
func (m *Manager) Winner(gameID uuid.UUID) (uuid.UUID, error) {
	h, err := m.hosted(gameID)
	if err != nil {
		return uuid.Nil, err
	}
	var winner uuid.UUID
	err = h.Do(func(g *engine.Game) error {
		var err error
		winner, err = g.WinnerID()
		return err
	})
	return winner, err
}
