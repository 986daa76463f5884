// Package agent picks card plays for the headless client.
package agent

import (
	"github.com/eviterin/thegate/internal/engine"
	"github.com/eviterin/thegate/internal/game"
)

// healWeight discounts healing against damage and needed block.
const healWeight = 0.5

// IncomingDamage sums the damage the living enemies declared for their next
// turn, attack buffs included.
func IncomingDamage(s game.Snapshot) int {
	total := 0
	for i, in := range s.EnemyIntents {
		if !s.EnemyAlive(i) {
			continue
		}
		intent := game.EnemyIntent(in)
		switch {
		case intent.IsAttack():
			total += in
			if i < len(s.EnemyBuffs) {
				total += s.EnemyBuffs[i]
			}
		case intent == game.IntentBlockAndAttack:
			total += game.IntentBlockAndAttackDamage
		case intent == game.IntentVampiricBite:
			total += game.IntentVampiricBiteAmount
		}
	}
	return total
}

// Plan greedily builds a batch for s. Every step simulates each affordable
// card against each living target; a play that wins the encounter is taken
// at once, otherwise the best value per mana is. Block only scores while the
// declared enemy damage exceeds the hero's block. Plays carry the hand slots
// of s, ready to be staged in order.
func Plan(s game.Snapshot, catalog game.Catalog) []game.Play {
	if s.Status != game.StatusInProgress {
		return nil
	}
	incoming := IncomingDamage(s)
	var plays []game.Play
	used := make(map[int]bool)
	mana := s.Mana

	for {
		base, _, err := engine.ResolveBatch(s, catalog, plays)
		if err != nil || engine.Outcome(base) != game.StatusInProgress {
			return plays
		}

		best, bestScore, found := game.Play{}, 0.0, false
		for slot, id := range s.Hand {
			if used[slot] {
				continue
			}
			def, _ := catalog.Lookup(id)
			if def.ManaCost > mana {
				continue
			}
			for _, target := range targets(base, def) {
				p := game.Play{CardIndex: slot, TargetIndex: target}
				after, results, err := engine.ResolveBatch(s, catalog, append(append([]game.Play(nil), plays...), p))
				if err != nil {
					continue
				}
				if engine.Outcome(after) == game.StatusWon {
					return append(plays, p)
				}
				score := value(results[len(results)-1], base, incoming)
				if def.ManaCost > 0 {
					score /= float64(def.ManaCost)
				} else {
					score *= 2
				}
				if score > bestScore {
					best, bestScore, found = p, score, true
				}
			}
		}
		if !found {
			return plays
		}
		plays = append(plays, best)
		used[best.CardIndex] = true
		mana -= catalog.ManaCost(s.Hand[best.CardIndex])
	}
}

func targets(s game.Snapshot, def game.CardDefinition) []int {
	if !def.Targeted {
		return []int{0}
	}
	return s.LivingEnemies()
}

// value scores one resolved card against the state it was played on.
func value(r engine.CardResult, before game.Snapshot, incoming int) float64 {
	v := float64(r.DamageDealt)
	if r.EnemyDied {
		v += 5
	}
	if need := incoming - before.HeroBlock; need > 0 && r.BlockGained > 0 {
		v += float64(min(r.BlockGained, need))
	}
	v += healWeight * float64(r.Healed)
	return v
}
