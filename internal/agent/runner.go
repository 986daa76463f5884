package agent

import (
	"context"
	"errors"
	"fmt"

	"github.com/eviterin/thegate/internal/constants"
	"github.com/eviterin/thegate/internal/game"
	"github.com/eviterin/thegate/internal/intent"
	"github.com/eviterin/thegate/internal/logging"
	"github.com/eviterin/thegate/internal/protocol"
)

var ErrTurnLimit = errors.New("turn limit reached")

// maxFailures is how many commits in a row may fail before the runner
// gives up.
const maxFailures = 3

// Table is the part of the commit protocol the runner drives.
type Table interface {
	Stage(cardSlot, target int) (intent.Intent, error)
	ClearQueue()
	Commit(ctx context.Context) (game.Snapshot, error)
	EndTurn(ctx context.Context) (game.Snapshot, error)
	Catalog() game.Catalog
}

// StateReader is the part of the mirror the runner reads.
type StateReader interface {
	Current() (game.Snapshot, bool)
	Refresh(ctx context.Context) (bool, error)
}

// Runner plays an encounter to the end: plan, stage, commit, repeat.
type Runner struct {
	Table    Table
	State    StateReader
	PlayerID string
	// MaxTurns stops the runner once the authority reaches this turn; 0
	// means no limit.
	MaxTurns int
}

// Run returns the final snapshot once the encounter is won or lost.
func (r *Runner) Run(ctx context.Context) (game.Snapshot, error) {
	failures := 0
	for {
		if err := ctx.Err(); err != nil {
			s, _ := r.State.Current()
			return s, err
		}
		if _, err := r.State.Refresh(ctx); err != nil {
			return game.Snapshot{}, fmt.Errorf("refresh state: %w", err)
		}
		s, ok := r.State.Current()
		if !ok {
			return game.Snapshot{}, protocol.ErrNoState
		}
		if s.Status != game.StatusInProgress {
			logging.Info("encounter finished", logging.Fields{constants.LogFieldPlayerID: r.PlayerID, constants.LogFieldStatus: s.Status, constants.LogFieldTurn: s.Turn})
			return s, nil
		}
		if r.MaxTurns > 0 && s.Turn > r.MaxTurns {
			return s, ErrTurnLimit
		}

		staged := r.stage(s)
		var err error
		if staged > 0 {
			_, err = r.Table.Commit(ctx)
		} else {
			_, err = r.Table.EndTurn(ctx)
		}
		switch {
		case err == nil:
			failures = 0
		case errors.Is(err, protocol.ErrEncounterOver):
			// The next refresh sees the final status.
		default:
			failures++
			logging.Error("turn failed", err, logging.Fields{constants.LogFieldPlayerID: r.PlayerID, constants.LogFieldAttempts: failures})
			if failures >= maxFailures {
				return s, err
			}
		}
	}
}

// stage queues the planned plays and returns how many were accepted.
func (r *Runner) stage(s game.Snapshot) int {
	r.Table.ClearQueue()
	staged := 0
	for _, p := range Plan(s, r.Table.Catalog()) {
		if _, err := r.Table.Stage(p.CardIndex, p.TargetIndex); err != nil {
			logging.Warn("planned play rejected", logging.Fields{constants.LogFieldCardIndex: p.CardIndex, constants.LogFieldTarget: p.TargetIndex, "error": err.Error()})
			break
		}
		staged++
	}
	return staged
}
