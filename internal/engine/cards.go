package engine

import (
	"fmt"
	"slices"

	"github.com/eviterin/thegate/internal/game"
)

// CardResult is the side-channel outcome of resolving one card.
type CardResult struct {
	CardID         int             `json:"card_id"`
	CardName       string          `json:"card_name"`
	CardIndex      int             `json:"card_index"`
	EffectiveIndex int             `json:"effective_index"`
	TargetIndex    int             `json:"target_index"`
	Targeted       bool            `json:"targeted"`
	Effect         game.EffectKind `json:"effect"`
	ManaSpent      int             `json:"mana_spent"`
	DamageDealt    int             `json:"damage_dealt"`
	BlockGained    int             `json:"block_gained"`
	Healed         int             `json:"healed"`
	EnemyDied      bool            `json:"enemy_died"`
	// Fallback is set when the card id was not in the catalog and the
	// default unknown-card effect was applied.
	Fallback bool   `json:"fallback"`
	Summary  string `json:"summary"`
}

// ResolveCard computes the effect of playing the card at cardIndex against
// target. The card leaves the hand and its cost is deducted; affordability is
// not checked here. Conditional predicates read the snapshot as it was before
// this play.
func ResolveCard(s game.Snapshot, catalog game.Catalog, cardIndex, target int) (game.Snapshot, CardResult, error) {
	return resolveCard(s, catalog, cardIndex, target, len(s.Hand))
}

// resolveCard resolves the card at hand position idx. handSize is the hand
// size used by hand-size predicates.
func resolveCard(s game.Snapshot, catalog game.Catalog, idx, target, handSize int) (game.Snapshot, CardResult, error) {
	if idx < 0 || idx >= len(s.Hand) {
		return s, CardResult{}, fmt.Errorf("%w: %d (hand size %d)", ErrCardIndexOutOfRange, idx, len(s.Hand))
	}
	id := s.Hand[idx]
	def, known := catalog.Lookup(id)
	if def.Targeted && (target < 0 || target >= s.EnemyCount()) {
		return s, CardResult{}, fmt.Errorf("%w: %d (%d enemies)", ErrTargetOutOfRange, target, s.EnemyCount())
	}

	res := CardResult{
		CardID:         id,
		CardName:       def.Name,
		CardIndex:      idx,
		EffectiveIndex: idx,
		TargetIndex:    target,
		Targeted:       def.Targeted,
		Effect:         def.Effect,
		ManaSpent:      def.ManaCost,
		Fallback:       !known,
	}
	sm := &summary{}

	// Predicates are evaluated before anything below mutates the copy.
	targetFull := def.Targeted && s.EnemyAlive(target) && s.EnemyHealth[target] == s.EnemyMaxHealth[target]

	out := s.Clone()
	out.Hand = slices.Delete(out.Hand, idx, idx+1)
	out.Mana = Clamp(out.Mana, -def.ManaCost, out.MaxMana)

	switch def.Effect {
	case game.EffectDamage:
		hitEnemy(&out, target, def.Amount, false, &res, sm, def.Name)
	case game.EffectDirectDamage:
		hitEnemy(&out, target, def.Amount, true, &res, sm, def.Name)
	case game.EffectDamageAll:
		for _, i := range out.LivingEnemies() {
			hitEnemy(&out, i, def.Amount, false, &res, sm, def.Name)
		}
	case game.EffectBlock:
		out.HeroBlock = AddBlock(out.HeroBlock, def.Amount)
		res.BlockGained = def.Amount
		sm.add("%s grants %d block (hero block %d)", def.Name, def.Amount, out.HeroBlock)
	case game.EffectHeal:
		before := out.HeroHealth
		out.HeroHealth = Clamp(out.HeroHealth, def.Amount, out.HeroMaxHealth)
		res.Healed = out.HeroHealth - before
		sm.add("%s heals the hero for %d (hero health %d/%d)", def.Name, res.Healed, out.HeroHealth, out.HeroMaxHealth)
	case game.EffectDamageIfHandSize:
		dmg := def.Amount
		if handSize >= def.Threshold {
			dmg *= 2
			sm.add("%s doubles: hand holds %d cards", def.Name, handSize)
		}
		hitEnemy(&out, target, dmg, false, &res, sm, def.Name)
	case game.EffectDamageIfFullHealth:
		dmg := def.Amount
		if targetFull {
			dmg *= 2
			sm.add("%s doubles: target at full health", def.Name)
		}
		hitEnemy(&out, target, dmg, false, &res, sm, def.Name)
	case game.EffectUnknown:
		out.HeroBlock = AddBlock(out.HeroBlock, def.Amount)
		res.BlockGained = def.Amount
		sm.add("unknown card %d falls back to %d block", id, def.Amount)
	default:
		return s, CardResult{}, fmt.Errorf("%w: card %d effect %q", ErrUnhandledEffect, id, def.Effect)
	}

	res.Summary = sm.join()
	return out, res, nil
}

// hitEnemy applies damage to enemy slot i. Dead enemies are skipped.
func hitEnemy(s *game.Snapshot, i, damage int, direct bool, res *CardResult, sm *summary, name string) {
	if !s.EnemyAlive(i) {
		sm.add("%s: enemy %d is already dead", name, i)
		return
	}
	var o DamageOutcome
	if direct {
		o = CalculateDirectDamage(damage, s.EnemyBlock[i], s.EnemyHealth[i])
	} else {
		o = CalculateDamageToEnemy(damage, s.EnemyBlock[i], s.EnemyHealth[i])
	}
	s.EnemyBlock[i] = o.Block
	s.EnemyHealth[i] = o.Health
	res.DamageDealt += o.HealthLost
	if o.IsDead {
		res.EnemyDied = true
	}
	if o.Absorbed > 0 {
		sm.add("%s hits enemy %d for %d (%d absorbed by block)", name, i, o.HealthLost, o.Absorbed)
	} else {
		sm.add("%s hits enemy %d for %d", name, i, o.HealthLost)
	}
	if o.IsDead {
		sm.add("enemy %d is defeated!", i)
	}
}
