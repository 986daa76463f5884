package storage

import (
	"errors"

	"github.com/eviterin/thegate/internal/game"
)

var ErrNotFound = errors.New("record not found")

type Repository interface {
	// GetEncounter returns the player's encounter or ErrNotFound.
	GetEncounter(playerID string) (*game.Encounter, error)
	// SaveEncounter inserts the encounter or replaces the player's existing one.
	SaveEncounter(e *game.Encounter) error

	CreateTransaction(tx *game.Transaction) error
	// GetTransaction looks a transaction up by its public id.
	GetTransaction(txID string) (*game.Transaction, error)
	// PendingTransactions returns up to limit pending transactions in
	// submission order.
	PendingTransactions(limit int) ([]game.Transaction, error)
	UpdateTransaction(tx *game.Transaction) error
	// ApplyTransaction stores the new encounter state and the settled
	// transaction atomically.
	ApplyTransaction(e *game.Encounter, tx *game.Transaction) error
	// LatestBlock returns the highest block number recorded so far.
	LatestBlock() (uint64, error)
}
