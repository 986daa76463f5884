// Package authority defines the boundary to the system of record for game
// state. Implementations live in internal/service (in-process) and
// internal/authclient (over HTTP).
package authority

import (
	"context"
	"errors"

	"github.com/eviterin/thegate/internal/game"
)

var (
	// ErrReverted is wrapped with the revert reason when a transaction was
	// rejected by the authority.
	ErrReverted           = errors.New("transaction reverted")
	ErrUnknownTransaction = errors.New("unknown transaction")
	ErrNoEncounter        = errors.New("no active encounter")
)

// TxHandle identifies a submitted transaction.
type TxHandle struct {
	TxID     string               `json:"tx_id"`
	PlayerID string               `json:"player_id"`
	Kind     game.TransactionKind `json:"kind"`
}

// Receipt is the outcome of a transaction once the authority settled it.
// Snapshot is the authoritative state right after the transaction applied;
// it is nil for reverted transactions.
type Receipt struct {
	TxID     string                 `json:"tx_id"`
	Kind     game.TransactionKind   `json:"kind"`
	Status   game.TransactionStatus `json:"status"`
	Reason   string                 `json:"reason,omitempty"`
	Block    uint64                 `json:"block"`
	Snapshot *game.Snapshot         `json:"snapshot,omitempty"`
}

// Authority is the request/response contract of the system of record.
type Authority interface {
	// GetState is a read-only, idempotent read of the player's snapshot.
	GetState(ctx context.Context, playerID string) (game.Snapshot, error)
	// SubmitCardPlays submits a batch as a single transaction.
	SubmitCardPlays(ctx context.Context, playerID string, plays []game.Play) (TxHandle, error)
	// SubmitEndTurn ends the player turn; the enemy turn resolves
	// authority-side and new enemy intents are declared.
	SubmitEndTurn(ctx context.Context, playerID string) (TxHandle, error)
	// AwaitConfirmation blocks until the transaction is confirmed or
	// reverted. A revert is returned as an error wrapping ErrReverted.
	AwaitConfirmation(ctx context.Context, h TxHandle) (Receipt, error)
	// Catalog returns the static card table.
	Catalog(ctx context.Context) (game.Catalog, error)
}

// ReceiptFor builds the receipt of a settled transaction.
func ReceiptFor(tx *game.Transaction) Receipt {
	return Receipt{
		TxID:     tx.TxID,
		Kind:     tx.Kind,
		Status:   tx.Status,
		Reason:   tx.Reason,
		Block:    tx.Block,
		Snapshot: tx.Result,
	}
}
