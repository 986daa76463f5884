package engine

import "github.com/eviterin/thegate/internal/game"

// Outcome derives the encounter status from a snapshot: lost when the hero
// has no health, won when every enemy is dead, otherwise in progress.
func Outcome(s game.Snapshot) string {
	if s.HeroHealth <= 0 {
		return game.StatusLost
	}
	if len(s.LivingEnemies()) == 0 {
		return game.StatusWon
	}
	return game.StatusInProgress
}

// BeginPlayerTurn rolls the snapshot over to a new player turn: the intents
// just resolved move to ResolvedIntents, the next intents are declared, hero
// block resets, mana refills and the new hand replaces the old one.
func BeginPlayerTurn(s game.Snapshot, hand []int, nextIntents []int) game.Snapshot {
	out := s.Clone()
	out.ResolvedIntents = append([]int(nil), s.EnemyIntents...)
	out.EnemyIntents = append([]int(nil), nextIntents...)
	out.HeroBlock = 0
	out.Mana = out.MaxMana
	out.Hand = append([]int(nil), hand...)
	out.Turn++
	out.Status = Outcome(out)
	return out
}
