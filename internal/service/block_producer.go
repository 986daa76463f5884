package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/eviterin/thegate/internal/authority"
	"github.com/eviterin/thegate/internal/constants"
	"github.com/eviterin/thegate/internal/engine"
	"github.com/eviterin/thegate/internal/game"
	"github.com/eviterin/thegate/internal/logging"
	"github.com/eviterin/thegate/internal/storage"
)

// Revert reasons stored on rejected transactions.
var (
	errRevertNotInProgress = errors.New("encounter is not in progress")
	errRevertManaOverdraft = errors.New("mana overdraft")
	errRevertInvalidTarget = errors.New("target is not a living enemy")
)

// Run produces a block every BlockTime until ctx is done.
func (a *Authority) Run(ctx context.Context) {
	ticker := time.NewTicker(a.opts.BlockTime)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := a.ProduceBlock(ctx); err != nil {
				logging.Error("block producer failed", err, nil)
			}
		}
	}
}

// ProduceBlock applies pending transactions in submission order under a new
// block number. It returns how many transactions settled. A block is only
// produced when something is pending.
func (a *Authority) ProduceBlock(ctx context.Context) (int, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	pending, err := a.repo.PendingTransactions(a.opts.BlockLimit)
	if err != nil {
		return 0, err
	}
	if len(pending) == 0 {
		return 0, nil
	}
	a.block++

	settled := 0
	for i := range pending {
		tx := &pending[i]
		if err := a.applyLocked(tx); err != nil {
			logging.Error("failed to apply transaction", err, logging.Fields{constants.LogFieldTxID: tx.TxID, constants.LogFieldBlock: a.block})
			continue
		}
		settled++
		if a.opts.Notifier != nil {
			a.opts.Notifier.Notify(tx.PlayerID, authority.ReceiptFor(tx))
		}
	}
	return settled, nil
}

// applyLocked settles one transaction. A validation failure reverts the
// transaction and leaves the encounter untouched; the returned error is
// only for storage failures.
func (a *Authority) applyLocked(tx *game.Transaction) error {
	tx.Block = a.block
	e, err := a.repo.GetEncounter(tx.PlayerID)
	switch {
	case errors.Is(err, storage.ErrNotFound):
		return a.revert(tx, authority.ErrNoEncounter)
	case err != nil:
		return err
	}

	var next game.Snapshot
	switch tx.Kind {
	case game.TxCardPlays:
		next, err = a.applyCardPlays(e, tx.Plays)
	case game.TxEndTurn:
		next, err = a.applyEndTurn(e)
	default:
		err = fmt.Errorf("unknown transaction kind %q", tx.Kind)
	}
	if err != nil {
		return a.revert(tx, err)
	}

	e.Snapshot = next
	e.LastBlock = a.block
	tx.Status = game.TxConfirmed
	tx.Result = &next
	if err := a.repo.ApplyTransaction(e, tx); err != nil {
		return err
	}
	logging.Info("transaction confirmed", logging.Fields{
		constants.LogFieldPlayerID: tx.PlayerID,
		constants.LogFieldTxID:     tx.TxID,
		constants.LogFieldKind:     string(tx.Kind),
		constants.LogFieldBlock:    a.block,
		constants.LogFieldTurn:     next.Turn,
		constants.LogFieldStatus:   next.Status,
	})
	return nil
}

func (a *Authority) revert(tx *game.Transaction, reason error) error {
	tx.Status = game.TxReverted
	tx.Reason = reason.Error()
	logging.Info("transaction reverted", logging.Fields{constants.LogFieldPlayerID: tx.PlayerID, constants.LogFieldTxID: tx.TxID, constants.LogFieldReason: tx.Reason})
	return a.repo.UpdateTransaction(tx)
}

// validatePlays checks a batch against the pre-batch snapshot: encounter in
// progress, distinct in-range hand slots, living targets for targeted cards
// and total cost within the available mana.
func (a *Authority) validatePlays(s game.Snapshot, plays []game.Play) error {
	if s.Status != game.StatusInProgress {
		return errRevertNotInProgress
	}
	if len(plays) == 0 {
		return ErrEmptyBatch
	}
	if _, err := engine.EffectiveIndices(plays); err != nil {
		return err
	}
	cost := 0
	for _, p := range plays {
		if p.CardIndex < 0 || p.CardIndex >= len(s.Hand) {
			return fmt.Errorf("%w: %d", engine.ErrCardIndexOutOfRange, p.CardIndex)
		}
		def, _ := a.catalog.Lookup(s.Hand[p.CardIndex])
		if def.Targeted && !s.EnemyAlive(p.TargetIndex) {
			return fmt.Errorf("%w: enemy %d", errRevertInvalidTarget, p.TargetIndex)
		}
		cost += def.ManaCost
	}
	if cost > s.Mana {
		return fmt.Errorf("%w: need %d, have %d", errRevertManaOverdraft, cost, s.Mana)
	}
	return nil
}

func (a *Authority) applyCardPlays(e *game.Encounter, plays []game.Play) (game.Snapshot, error) {
	s := e.Snapshot
	if err := a.validatePlays(s, plays); err != nil {
		return s, err
	}
	next, _, err := engine.ResolveBatch(s, a.catalog, plays)
	if err != nil {
		return s, err
	}
	for _, p := range plays {
		e.DiscardPile = append(e.DiscardPile, s.Hand[p.CardIndex])
	}
	next.Status = engine.Outcome(next)
	return next, nil
}

// applyEndTurn resolves the declared enemy intents, then starts the next
// player turn: the rest of the hand is discarded, a new hand drawn and new
// intents rolled. A finished encounter keeps its final state.
func (a *Authority) applyEndTurn(e *game.Encounter) (game.Snapshot, error) {
	s := e.Snapshot
	if s.Status != game.StatusInProgress {
		return s, errRevertNotInProgress
	}
	after, _, err := engine.SimulateEnemyTurn(s, s.EnemyIntents)
	if err != nil {
		return s, err
	}
	e.DiscardPile = append(e.DiscardPile, after.Hand...)

	if status := engine.Outcome(after); status != game.StatusInProgress {
		after.ResolvedIntents = append([]int(nil), s.EnemyIntents...)
		after.Hand = nil
		after.HeroBlock = 0
		after.Status = status
		return after, nil
	}
	after.Hand = nil
	return engine.BeginPlayerTurn(after, a.draw(e, e.HandSize), a.rollIntents(e, after)), nil
}
