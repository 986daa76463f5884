package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/eviterin/thegate/internal/config"
	"github.com/eviterin/thegate/internal/constants"
	"github.com/eviterin/thegate/internal/engine"
	"github.com/eviterin/thegate/internal/game"
	"github.com/eviterin/thegate/internal/keys"
	"github.com/eviterin/thegate/internal/logging"
	"github.com/eviterin/thegate/internal/storage"
)

// StartEncounter performs all server-side initialization when a player
// starts a fight: validates the deck (the encounter's default when deck is
// empty), shuffles it, draws the opening hand and rolls the first enemy
// intents. A player with an encounter still in progress gets
// ErrEncounterInProgress.
func (a *Authority) StartEncounter(ctx context.Context, playerID, key string, deck []int) (game.Snapshot, error) {
	if !keys.ValidPlayerID(playerID) {
		return game.Snapshot{}, ErrInvalidPlayerID
	}
	def, ok := a.cfg.Encounter(key)
	if !ok {
		return game.Snapshot{}, fmt.Errorf("%w: %q", ErrUnknownEncounter, key)
	}
	if len(deck) == 0 {
		deck = def.Deck
	}
	if err := config.ValidateDeck(a.catalog, deck); err != nil {
		return game.Snapshot{}, err
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	existing, err := a.repo.GetEncounter(playerID)
	switch {
	case errors.Is(err, storage.ErrNotFound):
		existing = nil
	case err != nil:
		return game.Snapshot{}, err
	case existing.Snapshot.Status == game.StatusInProgress:
		return existing.Snapshot.Clone(), ErrEncounterInProgress
	}

	n := len(def.Enemies)
	e := &game.Encounter{
		PlayerID:     playerID,
		EncounterKey: def.Key,
		DrawPile:     a.shuffled(deck),
		HandSize:     def.HandSize,
		IntentPools:  make([][]int, n),
		LastBlock:    a.block,
	}
	if existing != nil {
		e.ID = existing.ID
		e.CreatedAt = existing.CreatedAt
	}

	s := game.Snapshot{
		EnemyHealth:    make([]int, n),
		EnemyBlock:     make([]int, n),
		EnemyMaxHealth: make([]int, n),
		EnemyBuffs:     make([]int, n),
		HeroHealth:     def.HeroMaxHealth,
		HeroMaxHealth:  def.HeroMaxHealth,
		MaxMana:        def.MaxMana,
	}
	for i, en := range def.Enemies {
		s.EnemyHealth[i] = en.MaxHealth
		s.EnemyMaxHealth[i] = en.MaxHealth
		e.IntentPools[i] = append([]int(nil), en.Intents...)
	}
	// The first turn begins like any other: fresh hand, full mana, new intents.
	s.Turn = 0
	s.EnemyIntents = make([]int, n)
	s = engine.BeginPlayerTurn(s, a.draw(e, e.HandSize), a.rollIntents(e, s))
	s.ResolvedIntents = nil
	e.Snapshot = s

	if err := a.repo.SaveEncounter(e); err != nil {
		return game.Snapshot{}, err
	}
	logging.Info("encounter started", logging.Fields{constants.LogFieldPlayerID: playerID, constants.LogFieldEncounter: def.Key, constants.LogFieldCount: len(deck)})
	return s.Clone(), nil
}
