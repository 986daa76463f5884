package protocol

import (
	"context"
	"fmt"

	"github.com/eviterin/thegate/internal/constants"
	"github.com/eviterin/thegate/internal/engine"
	"github.com/eviterin/thegate/internal/game"
	"github.com/eviterin/thegate/internal/logging"
)

type EventKind string

const (
	EventCommitStarted  EventKind = "commit_started"
	EventCardResolved   EventKind = "card_resolved"
	EventEndTurnStarted EventKind = "end_turn_started"
	EventEnemyActed     EventKind = "enemy_acted"
	EventReconciled     EventKind = "reconciled"
	EventTurnStarted    EventKind = "turn_started"
	EventFailed         EventKind = "failed"
)

// SoundCue names the sound a presentation layer should play for an event.
type SoundCue string

const (
	SoundNone        SoundCue = ""
	SoundAttack      SoundCue = "attack"
	SoundBlock       SoundCue = "block"
	SoundHeal        SoundCue = "heal"
	SoundEnemyAttack SoundCue = "enemy_attack"
	SoundEnemyBlock  SoundCue = "enemy_block"
	SoundEnemyHeal   SoundCue = "enemy_heal"
	SoundEnemyBuff   SoundCue = "enemy_buff"
	SoundVictory     SoundCue = "victory"
	SoundDefeat      SoundCue = "defeat"
	SoundError       SoundCue = "error"
)

// Animation targets.
const (
	TargetHero    = "hero"
	TargetEnemies = "enemies"
)

// TargetEnemy returns the animation target of enemy slot i.
func TargetEnemy(i int) string { return fmt.Sprintf("enemy:%d", i) }

// Event is emitted in causal order for every observable protocol step.
// Snapshot is the state the UI should show once the event is handled.
type Event struct {
	Kind     EventKind
	State    TurnState
	Snapshot game.Snapshot

	Card  *engine.CardResult
	Enemy *engine.EnemyAction

	Sound  SoundCue
	Target string

	TxID     string
	Diverged bool
	Degraded bool
	Err      error
}

// Sink receives protocol events. It stands in for sound, animation and UI.
// A non-nil error aborts the running sequence and enters the failure path.
type Sink interface {
	Handle(ctx context.Context, ev Event) error
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(ctx context.Context, ev Event) error

func (f SinkFunc) Handle(ctx context.Context, ev Event) error { return f(ctx, ev) }

// LogSink logs every event.
type LogSink struct {
	PlayerID string
}

func (l LogSink) Handle(_ context.Context, ev Event) error {
	fields := logging.Fields{
		constants.LogFieldPlayerID: l.PlayerID,
		constants.LogFieldEvent:    string(ev.Kind),
		constants.LogFieldState:    ev.State.String(),
		"hero_health":              ev.Snapshot.HeroHealth,
		"enemy_health":             ev.Snapshot.EnemyHealth,
	}
	if ev.TxID != "" {
		fields[constants.LogFieldTxID] = ev.TxID
	}
	switch {
	case ev.Card != nil:
		fields[constants.LogFieldCardID] = ev.Card.CardID
		fields["summary"] = ev.Card.Summary
	case ev.Enemy != nil:
		fields[constants.LogFieldEnemy] = ev.Enemy.EnemyIndex
		fields[constants.LogFieldIntent] = ev.Enemy.Intent.String()
		fields["summary"] = ev.Enemy.Summary
	}
	if ev.Kind == EventFailed {
		logging.Error("protocol event", ev.Err, fields)
		return nil
	}
	if ev.Diverged {
		fields["diverged"] = true
	}
	if ev.Degraded {
		fields["degraded"] = true
	}
	logging.Info("protocol event", fields)
	return nil
}

func cardCue(r engine.CardResult) (SoundCue, string) {
	switch r.Effect {
	case game.EffectDamageAll:
		return SoundAttack, TargetEnemies
	case game.EffectDamage, game.EffectDirectDamage, game.EffectDamageIfHandSize, game.EffectDamageIfFullHealth:
		return SoundAttack, TargetEnemy(r.TargetIndex)
	case game.EffectHeal:
		return SoundHeal, TargetHero
	default:
		return SoundBlock, TargetHero
	}
}

func enemyCue(a engine.EnemyAction) (SoundCue, string) {
	switch {
	case a.Intent.IsAttack(), a.Intent == game.IntentBlockAndAttack, a.Intent == game.IntentVampiricBite:
		return SoundEnemyAttack, TargetHero
	case a.Intent == game.IntentAttackBuff:
		return SoundEnemyBuff, TargetEnemy(a.EnemyIndex)
	case a.Intent == game.IntentHeal, a.Intent == game.IntentHealAll:
		return SoundEnemyHeal, TargetEnemy(a.EnemyIndex)
	default:
		return SoundEnemyBlock, TargetEnemy(a.EnemyIndex)
	}
}

func outcomeCue(s game.Snapshot) SoundCue {
	switch s.Status {
	case game.StatusWon:
		return SoundVictory
	case game.StatusLost:
		return SoundDefeat
	}
	return SoundNone
}
