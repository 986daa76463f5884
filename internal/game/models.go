package game

import (
	"time"

	"gorm.io/gorm"
)

// Play is one card play inside a batch: the hand slot as it was when the play
// was declared and the enemy slot it targets (ignored for untargeted cards).
type Play struct {
	CardIndex   int `json:"card_index"`
	TargetIndex int `json:"target_index"`
}

// EnemyDefinition describes one enemy slot of an encounter. Intents is the
// pool the authority draws the enemy's next intent from.
type EnemyDefinition struct {
	Name      string `json:"name"`
	MaxHealth int    `json:"max_health"`
	Intents   []int  `json:"intents"`
}

// EncounterDefinition is a configured fight a player can start.
type EncounterDefinition struct {
	Key           string            `json:"key"`
	Name          string            `json:"name"`
	HeroMaxHealth int               `json:"hero_max_health"`
	MaxMana       int               `json:"max_mana"`
	HandSize      int               `json:"hand_size"`
	Deck          []int             `json:"deck"`
	Enemies       []EnemyDefinition `json:"enemies"`
}

// Encounter is the authoritative, persisted state of one player's fight.
// Only one encounter per player is active at a time.
type Encounter struct {
	gorm.Model
	PlayerID     string `json:"player_id" gorm:"uniqueIndex"`
	EncounterKey string `json:"encounter_key"`
	// Snapshot is stored as a JSON column; the authority is the only writer.
	Snapshot    Snapshot `json:"snapshot" gorm:"serializer:json"`
	DrawPile    []int    `json:"-" gorm:"serializer:json"`
	DiscardPile []int    `json:"-" gorm:"serializer:json"`
	HandSize    int      `json:"hand_size"`
	IntentPools [][]int  `json:"-" gorm:"serializer:json"`
	// LastBlock is the number of the block that last changed this encounter.
	LastBlock uint64 `json:"last_block"`
}

// Store encounters in a dedicated table name for clarity
func (Encounter) TableName() string { return "player_encounters" }

// TransactionKind distinguishes the two kinds of authoritative requests.
type TransactionKind string

const (
	TxCardPlays TransactionKind = "card_plays"
	TxEndTurn   TransactionKind = "end_turn"
)

// TransactionStatus is the lifecycle of a submitted transaction.
type TransactionStatus string

const (
	TxPending   TransactionStatus = "pending"
	TxConfirmed TransactionStatus = "confirmed"
	TxReverted  TransactionStatus = "reverted"
)

// Transaction is a submitted request waiting for, or already given, an
// authoritative result.
type Transaction struct {
	ID        uint              `json:"-" gorm:"primarykey"`
	TxID      string            `json:"tx_id" gorm:"uniqueIndex"`
	PlayerID  string            `json:"player_id" gorm:"index"`
	Kind      TransactionKind   `json:"kind"`
	Plays     []Play            `json:"plays,omitempty" gorm:"serializer:json"`
	Status    TransactionStatus `json:"status" gorm:"index"`
	Reason    string            `json:"reason,omitempty"`
	Block     uint64            `json:"block"`
	Result    *Snapshot         `json:"result,omitempty" gorm:"serializer:json"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
}

func (Transaction) TableName() string { return "transactions" }
