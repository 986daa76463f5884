package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/eviterin/thegate/internal/game"
	"github.com/eviterin/thegate/internal/keys"
)

const (
	DefaultServerAddress = ":8080"

	MinDeckSize = 5
	MaxDeckSize = 30
)

type rawConfig struct {
	CardList      []game.CardDefinition      `json:"card_list"`
	EncounterList []game.EncounterDefinition `json:"encounter_list"`
	Server        *struct {
		Address string `json:"address"`
	} `json:"server"`
}

// LoadedConfig contains the card catalog, the encounters a player can start
// and the server address to bind to.
type LoadedConfig struct {
	Cards         []game.CardDefinition
	Encounters    []game.EncounterDefinition
	ServerAddress string
}

// Catalog indexes the configured cards by id.
func (c *LoadedConfig) Catalog() game.Catalog {
	return game.NewCatalog(c.Cards)
}

// Encounter returns the encounter definition with key.
func (c *LoadedConfig) Encounter(key string) (game.EncounterDefinition, bool) {
	k := keys.Normalize(key)
	for _, e := range c.Encounters {
		if e.Key == k {
			return e, true
		}
	}
	return game.EncounterDefinition{}, false
}

// Defaults returns the built-in cards and encounters.
func Defaults() *LoadedConfig {
	return &LoadedConfig{
		Cards:         game.DefaultCards(),
		Encounters:    DefaultEncounters(),
		ServerAddress: DefaultServerAddress,
	}
}

// LoadConfig reads the content file at path. A missing file yields the
// built-in defaults; a present but invalid file is an error. Either list may
// be omitted to keep its defaults.
func LoadConfig(path string) (*LoadedConfig, error) {
	b, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Defaults(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	var rc rawConfig
	if err := json.Unmarshal(b, &rc); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	out := Defaults()
	if len(rc.CardList) > 0 {
		out.Cards = rc.CardList
	}
	if len(rc.EncounterList) > 0 {
		out.Encounters = rc.EncounterList
	}
	if rc.Server != nil && rc.Server.Address != "" {
		out.ServerAddress = rc.Server.Address
	}
	if err := out.Validate(); err != nil {
		return nil, fmt.Errorf("config file %s: %w", path, err)
	}
	return out, nil
}

// Validate normalizes encounter keys and checks cross-entry constraints:
// unique card ids and names (case-insensitive), known effects, non-negative
// costs, unique encounter keys, playable decks and enemies with a positive
// max health and a non-empty pool of recognized intents.
func (c *LoadedConfig) Validate() error {
	ids := make(map[int]struct{}, len(c.Cards))
	names := make(map[string]struct{}, len(c.Cards))
	for _, card := range c.Cards {
		if _, exists := ids[card.ID]; exists {
			return fmt.Errorf("duplicate card id %d", card.ID)
		}
		ids[card.ID] = struct{}{}
		ln := strings.ToLower(strings.TrimSpace(card.Name))
		if ln == "" {
			return fmt.Errorf("card %d missing 'name'", card.ID)
		}
		if _, exists := names[ln]; exists {
			return fmt.Errorf("duplicate card name '%s'", card.Name)
		}
		names[ln] = struct{}{}
		if !card.Effect.Known() || card.Effect == game.EffectUnknown {
			return fmt.Errorf("card '%s' has unknown effect '%s'", card.Name, card.Effect)
		}
		if card.ManaCost < 0 || card.Amount < 0 {
			return fmt.Errorf("card '%s' has a negative cost or amount", card.Name)
		}
	}

	catalog := game.NewCatalog(c.Cards)
	encKeys := make(map[string]struct{}, len(c.Encounters))
	for i := range c.Encounters {
		e := &c.Encounters[i]
		e.Key = keys.EncounterKey(e.Key, e.Name)
		if e.Key == "" {
			return fmt.Errorf("encounter %d missing 'key' and 'name'", i)
		}
		if _, exists := encKeys[e.Key]; exists {
			return fmt.Errorf("duplicate encounter key '%s'", e.Key)
		}
		encKeys[e.Key] = struct{}{}
		if e.HeroMaxHealth <= 0 || e.MaxMana <= 0 || e.HandSize <= 0 {
			return fmt.Errorf("encounter '%s' needs positive hero_max_health, max_mana and hand_size", e.Key)
		}
		if err := ValidateDeck(catalog, e.Deck); err != nil {
			return fmt.Errorf("encounter '%s': %w", e.Key, err)
		}
		if len(e.Enemies) == 0 || len(e.Enemies) > game.MaxEnemySlots {
			return fmt.Errorf("encounter '%s' must have 1 to %d enemies", e.Key, game.MaxEnemySlots)
		}
		for j, en := range e.Enemies {
			if en.MaxHealth <= 0 {
				return fmt.Errorf("encounter '%s' enemy %d needs positive max_health", e.Key, j)
			}
			if len(en.Intents) == 0 {
				return fmt.Errorf("encounter '%s' enemy %d has no intents", e.Key, j)
			}
			for _, in := range en.Intents {
				if !game.EnemyIntent(in).Recognized() {
					return fmt.Errorf("encounter '%s' enemy %d has unrecognized intent %d", e.Key, j, in)
				}
			}
		}
	}
	return nil
}

var ErrInvalidDeck = errors.New("invalid deck")

// ValidateDeck checks deck size and that every card is in the catalog.
func ValidateDeck(catalog game.Catalog, deck []int) error {
	if len(deck) < MinDeckSize || len(deck) > MaxDeckSize {
		return fmt.Errorf("%w: %d cards (want %d-%d)", ErrInvalidDeck, len(deck), MinDeckSize, MaxDeckSize)
	}
	for _, id := range deck {
		if _, known := catalog.Lookup(id); !known {
			return fmt.Errorf("%w: unknown card %d", ErrInvalidDeck, id)
		}
	}
	return nil
}
