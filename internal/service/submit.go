package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/eviterin/thegate/internal/authority"
	"github.com/eviterin/thegate/internal/constants"
	"github.com/eviterin/thegate/internal/game"
	"github.com/eviterin/thegate/internal/logging"
	"github.com/eviterin/thegate/internal/storage"
)

// GetState returns the player's authoritative snapshot.
func (a *Authority) GetState(ctx context.Context, playerID string) (game.Snapshot, error) {
	e, err := a.repo.GetEncounter(playerID)
	if errors.Is(err, storage.ErrNotFound) {
		return game.Snapshot{}, authority.ErrNoEncounter
	}
	if err != nil {
		return game.Snapshot{}, err
	}
	return e.Snapshot.Clone(), nil
}

// SubmitCardPlays stores the batch as a pending transaction. Validation
// happens when the transaction is applied; an invalid batch is reverted.
func (a *Authority) SubmitCardPlays(ctx context.Context, playerID string, plays []game.Play) (authority.TxHandle, error) {
	if len(plays) == 0 {
		return authority.TxHandle{}, ErrEmptyBatch
	}
	return a.submit(playerID, game.TxCardPlays, plays)
}

// SubmitEndTurn stores an end-turn request as a pending transaction.
func (a *Authority) SubmitEndTurn(ctx context.Context, playerID string) (authority.TxHandle, error) {
	return a.submit(playerID, game.TxEndTurn, nil)
}

func (a *Authority) submit(playerID string, kind game.TransactionKind, plays []game.Play) (authority.TxHandle, error) {
	if _, err := a.repo.GetEncounter(playerID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return authority.TxHandle{}, authority.ErrNoEncounter
		}
		return authority.TxHandle{}, err
	}
	tx := &game.Transaction{
		TxID:     uuid.NewString(),
		PlayerID: playerID,
		Kind:     kind,
		Plays:    append([]game.Play(nil), plays...),
		Status:   game.TxPending,
	}
	if err := a.repo.CreateTransaction(tx); err != nil {
		return authority.TxHandle{}, err
	}
	logging.Info("transaction submitted", logging.Fields{constants.LogFieldPlayerID: playerID, constants.LogFieldTxID: tx.TxID, constants.LogFieldKind: string(kind), constants.LogFieldCount: len(plays)})
	return authority.TxHandle{TxID: tx.TxID, PlayerID: playerID, Kind: kind}, nil
}

// GetTransaction returns the current receipt of a transaction, pending or
// settled.
func (a *Authority) GetTransaction(ctx context.Context, txID string) (authority.Receipt, error) {
	tx, err := a.repo.GetTransaction(txID)
	if errors.Is(err, storage.ErrNotFound) {
		return authority.Receipt{}, authority.ErrUnknownTransaction
	}
	if err != nil {
		return authority.Receipt{}, err
	}
	return authority.ReceiptFor(tx), nil
}

// AwaitConfirmation re-reads the transaction until it settles or ctx ends.
func (a *Authority) AwaitConfirmation(ctx context.Context, h authority.TxHandle) (authority.Receipt, error) {
	ticker := time.NewTicker(a.opts.ConfirmPoll)
	defer ticker.Stop()
	for {
		rc, err := a.GetTransaction(ctx, h.TxID)
		if err != nil {
			return rc, err
		}
		switch rc.Status {
		case game.TxConfirmed:
			return rc, nil
		case game.TxReverted:
			return rc, fmt.Errorf("%w: %s", authority.ErrReverted, rc.Reason)
		}
		select {
		case <-ctx.Done():
			return rc, ctx.Err()
		case <-ticker.C:
		}
	}
}
