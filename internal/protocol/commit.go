package protocol

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/eviterin/thegate/internal/authority"
	"github.com/eviterin/thegate/internal/constants"
	"github.com/eviterin/thegate/internal/engine"
	"github.com/eviterin/thegate/internal/game"
	"github.com/eviterin/thegate/internal/logging"
)

type submission struct {
	handle authority.TxHandle
	err    error
}

// Commit submits the staged batch and animates it locally while the
// transaction is in flight. The commit runs to completion or failure even
// if ctx is cancelled; the wait for the authority is bounded by
// ConfirmTimeout. With AutoEndTurn the turn is ended afterwards.
func (p *Protocol) Commit(ctx context.Context) (game.Snapshot, error) {
	ctx = context.WithoutCancel(ctx)
	confirmed, err := p.commit(ctx)
	if err != nil {
		return confirmed, err
	}
	if p.cfg.AutoEndTurn && confirmed.Status == game.StatusInProgress {
		return p.EndTurn(ctx)
	}
	return confirmed, nil
}

func (p *Protocol) commit(ctx context.Context) (game.Snapshot, error) {
	if !p.committing.CompareAndSwap(false, true) {
		return game.Snapshot{}, ErrCommitInProgress
	}
	defer p.committing.Store(false)

	if p.State() != TurnPlayer {
		return game.Snapshot{}, ErrNotPlayerTurn
	}
	plays := p.queue.Plays()
	if len(plays) == 0 {
		return game.Snapshot{}, ErrEmptyQueue
	}

	baseline, err := p.mirror.Freeze()
	if err != nil {
		return game.Snapshot{}, err
	}
	if baseline.Status != game.StatusInProgress {
		p.mirror.Unfreeze(nil)
		return baseline, ErrEncounterOver
	}
	p.setState(TurnCommitting)

	sub := make(chan submission, 1)
	go func() {
		h, err := p.auth.SubmitCardPlays(ctx, p.playerID, plays)
		sub <- submission{handle: h, err: err}
	}()

	if err := p.emit(ctx, Event{Kind: EventCommitStarted, Snapshot: baseline}); err != nil {
		return p.abort(ctx, sub, baseline, err)
	}
	predicted, err := p.animateBatch(ctx, baseline, plays)
	if err != nil {
		return p.abort(ctx, sub, baseline, err)
	}

	rc, err := p.await(ctx, sub)
	if err != nil {
		return p.failUnsettled(ctx, err)
	}
	confirmed, degraded := p.pollUntilStable(ctx, baseline, rc)

	p.mirror.Unfreeze(&confirmed)
	p.queue.Clear()
	p.setDisplay(nil)
	p.setState(TurnPlayer)

	ev := Event{
		Kind:     EventReconciled,
		Snapshot: confirmed,
		Sound:    outcomeCue(confirmed),
		TxID:     rc.TxID,
		Diverged: !predicted.Equal(confirmed),
		Degraded: degraded,
	}
	if ev.Diverged {
		logging.Warn("prediction diverged from authority", logging.Fields{constants.LogFieldPlayerID: p.playerID, constants.LogFieldTxID: rc.TxID})
	}
	if err := p.emit(ctx, ev); err != nil {
		logging.Error("sink failed after reconciliation", err, logging.Fields{constants.LogFieldPlayerID: p.playerID})
	}
	return confirmed, nil
}

// animateBatch walks the plays through the engine from baseline, one event
// per card with CardDelay between cards.
func (p *Protocol) animateBatch(ctx context.Context, baseline game.Snapshot, plays []game.Play) (game.Snapshot, error) {
	b, err := engine.NewBatch(baseline, p.catalog, plays)
	if err != nil {
		return baseline, err
	}
	for i := 0; ; i++ {
		if i > 0 && b.Remaining() > 0 {
			if err := sleep(ctx, p.cfg.CardDelay); err != nil {
				return baseline, err
			}
		}
		res, ok, err := b.Next()
		if err != nil {
			return baseline, err
		}
		if !ok {
			break
		}
		s := b.Snapshot()
		p.setDisplay(&s)
		cue, target := cardCue(res)
		if err := p.emit(ctx, Event{Kind: EventCardResolved, Snapshot: s, Card: &res, Sound: cue, Target: target}); err != nil {
			return baseline, err
		}
	}
	out := b.Snapshot()
	out.Status = engine.Outcome(out)
	return out, nil
}

// EndTurn submits the end of the player turn and animates the enemy turn
// using the intents the authority confirmed.
func (p *Protocol) EndTurn(ctx context.Context) (game.Snapshot, error) {
	ctx = context.WithoutCancel(ctx)
	if !p.committing.CompareAndSwap(false, true) {
		return game.Snapshot{}, ErrCommitInProgress
	}
	defer p.committing.Store(false)

	if p.State() != TurnPlayer {
		return game.Snapshot{}, ErrNotPlayerTurn
	}
	baseline, err := p.mirror.Freeze()
	if err != nil {
		return game.Snapshot{}, err
	}
	if baseline.Status != game.StatusInProgress {
		p.mirror.Unfreeze(nil)
		return baseline, ErrEncounterOver
	}
	p.setState(TurnTransitioning)

	sub := make(chan submission, 1)
	go func() {
		h, err := p.auth.SubmitEndTurn(ctx, p.playerID)
		sub <- submission{handle: h, err: err}
	}()

	if err := p.emit(ctx, Event{Kind: EventEndTurnStarted, Snapshot: baseline}); err != nil {
		return p.abort(ctx, sub, baseline, err)
	}
	rc, err := p.await(ctx, sub)
	if err != nil {
		return p.failUnsettled(ctx, err)
	}
	confirmed, degraded := p.pollUntilStable(ctx, baseline, rc)

	p.setState(TurnEnemy)
	intents := confirmed.ResolvedIntents
	if len(intents) != baseline.EnemyCount() {
		logging.Warn("confirmed state carries no resolved intents; using declared intents", logging.Fields{constants.LogFieldPlayerID: p.playerID, constants.LogFieldTxID: rc.TxID})
		intents = baseline.EnemyIntents
	}
	simulated, err := p.animateEnemyTurn(ctx, baseline, intents)
	if err != nil {
		p.queue.Clear()
		return p.fail(ctx, &confirmed, err)
	}

	p.mirror.Unfreeze(&confirmed)
	p.queue.Clear()
	p.setDisplay(nil)
	p.setState(TurnPlayer)

	ev := Event{
		Kind:     EventTurnStarted,
		Snapshot: confirmed,
		Sound:    outcomeCue(confirmed),
		TxID:     rc.TxID,
		Diverged: simulated.HeroHealth != confirmed.HeroHealth || !slices.Equal(simulated.EnemyHealth, confirmed.EnemyHealth),
		Degraded: degraded,
	}
	if err := p.emit(ctx, ev); err != nil {
		logging.Error("sink failed after end turn", err, logging.Fields{constants.LogFieldPlayerID: p.playerID})
	}
	return confirmed, nil
}

func (p *Protocol) animateEnemyTurn(ctx context.Context, baseline game.Snapshot, intents []int) (game.Snapshot, error) {
	t, err := engine.NewEnemyTurn(baseline, intents)
	if err != nil {
		return baseline, err
	}
	for i := 0; ; i++ {
		act, ok, err := t.Next()
		if err != nil {
			return baseline, err
		}
		if !ok {
			break
		}
		if i > 0 {
			if err := sleep(ctx, p.cfg.EnemyDelay); err != nil {
				return baseline, err
			}
		}
		s := t.Snapshot()
		p.setDisplay(&s)
		cue, target := enemyCue(act)
		if err := p.emit(ctx, Event{Kind: EventEnemyActed, Snapshot: s, Enemy: &act, Sound: cue, Target: target}); err != nil {
			return baseline, err
		}
	}
	return t.Snapshot(), nil
}

// await waits for the submission and then its confirmation, both within
// ConfirmTimeout.
func (p *Protocol) await(ctx context.Context, sub <-chan submission) (authority.Receipt, error) {
	if p.cfg.ConfirmTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.cfg.ConfirmTimeout)
		defer cancel()
	}

	var s submission
	select {
	case s = <-sub:
	case <-ctx.Done():
		return authority.Receipt{}, fmt.Errorf("%w: waiting for submission: %w", ErrConfirmTimeout, ctx.Err())
	}
	if s.err != nil {
		return authority.Receipt{}, fmt.Errorf("%w: %w", ErrSubmissionFailed, s.err)
	}

	rc, err := p.auth.AwaitConfirmation(ctx, s.handle)
	switch {
	case err == nil:
		return rc, nil
	case errors.Is(err, context.DeadlineExceeded):
		return rc, fmt.Errorf("%w: tx %s: %w", ErrConfirmTimeout, s.handle.TxID, err)
	default:
		return rc, fmt.Errorf("%w: tx %s: %w", ErrSubmissionFailed, s.handle.TxID, err)
	}
}

// pollUntilStable reads the authority until its snapshot differs from the
// baseline or two consecutive reads agree, at most RetryCount reads. When
// the reads never settle the last one seen is accepted and the result is
// reported as degraded.
func (p *Protocol) pollUntilStable(ctx context.Context, baseline game.Snapshot, rc authority.Receipt) (game.Snapshot, bool) {
	var last *game.Snapshot
	for attempt := 1; attempt <= p.cfg.RetryCount; attempt++ {
		if attempt > 1 {
			_ = sleep(ctx, p.cfg.RetryDelay)
		}
		s, err := p.mirror.Fetch(ctx)
		if err != nil {
			logging.Error("reconciliation read failed", err, logging.Fields{constants.LogFieldPlayerID: p.playerID, constants.LogFieldAttempts: attempt})
			continue
		}
		if !s.Equal(baseline) || (last != nil && last.Equal(s)) {
			return s, false
		}
		last = &s
	}

	fields := logging.Fields{constants.LogFieldPlayerID: p.playerID, constants.LogFieldTxID: rc.TxID, constants.LogFieldAttempts: p.cfg.RetryCount}
	switch {
	case last != nil:
		logging.Warn("reconciliation did not stabilize; accepting last read", fields)
		return *last, true
	case rc.Snapshot != nil:
		logging.Warn("reconciliation reads failed; accepting receipt snapshot", fields)
		return rc.Snapshot.Clone(), true
	default:
		logging.Warn("reconciliation reads failed; keeping baseline", fields)
		return baseline, true
	}
}

// fail is the common failure path: unfreeze with the last authoritative
// snapshot (the baseline when restore is nil), drop the prediction,
// revalidate whatever is left of the queue against a fresh read, and
// surface the error.
func (p *Protocol) fail(ctx context.Context, restore *game.Snapshot, cause error) (game.Snapshot, error) {
	p.mirror.Unfreeze(restore)
	p.setDisplay(nil)

	if _, err := p.mirror.Refresh(ctx); err != nil {
		logging.Error("refresh after failure failed", err, logging.Fields{constants.LogFieldPlayerID: p.playerID})
	}
	s, _ := p.mirror.Current()
	if dropped := p.queue.Revalidate(s); len(dropped) > 0 {
		logging.Info("dropped stale staged plays", logging.Fields{constants.LogFieldPlayerID: p.playerID, constants.LogFieldCount: len(dropped)})
	}
	p.setState(TurnPlayer)

	logging.Error("commit failed", cause, logging.Fields{constants.LogFieldPlayerID: p.playerID})
	if err := p.emit(ctx, Event{Kind: EventFailed, Snapshot: s, Sound: SoundError, Err: cause}); err != nil {
		logging.Error("sink failed on failure event", err, logging.Fields{constants.LogFieldPlayerID: p.playerID})
	}
	return s, cause
}

// abort handles a local failure (animation or sink) while the submission is
// still in flight. The transaction's outcome decides what survives: once it
// confirmed, the staged slots refer to a hand that no longer exists, so the
// queue is dropped and the confirmed snapshot shown.
func (p *Protocol) abort(ctx context.Context, sub <-chan submission, baseline game.Snapshot, cause error) (game.Snapshot, error) {
	rc, err := p.await(ctx, sub)
	if err != nil {
		logging.Warn("transaction did not confirm after local failure", logging.Fields{constants.LogFieldPlayerID: p.playerID, "error": err.Error()})
		if errors.Is(err, ErrConfirmTimeout) {
			p.queue.Clear()
		}
		return p.fail(ctx, nil, cause)
	}
	confirmed, _ := p.pollUntilStable(ctx, baseline, rc)
	p.queue.Clear()
	return p.fail(ctx, &confirmed, cause)
}

// failUnsettled fails a commit whose transaction did not confirm. A timeout
// leaves the outcome unknown and the authority may still apply the batch,
// so the queue only survives a rejection or a revert.
func (p *Protocol) failUnsettled(ctx context.Context, cause error) (game.Snapshot, error) {
	if errors.Is(cause, ErrConfirmTimeout) {
		p.queue.Clear()
	}
	return p.fail(ctx, nil, cause)
}

func (p *Protocol) emit(ctx context.Context, ev Event) error {
	ev.State = p.State()
	return p.sink.Handle(ctx, ev)
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
