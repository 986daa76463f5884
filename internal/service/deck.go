package service

import "github.com/eviterin/thegate/internal/game"

// The helpers below use a.rng and must run with a.mu held.

func (a *Authority) shuffled(cards []int) []int {
	out := append([]int(nil), cards...)
	a.rng.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	return out
}

// draw takes up to n cards from the draw pile, reshuffling the discard pile
// into it when it runs out.
func (a *Authority) draw(e *game.Encounter, n int) []int {
	hand := make([]int, 0, n)
	for len(hand) < n {
		if len(e.DrawPile) == 0 {
			if len(e.DiscardPile) == 0 {
				break
			}
			e.DrawPile = a.shuffled(e.DiscardPile)
			e.DiscardPile = nil
		}
		hand = append(hand, e.DrawPile[0])
		e.DrawPile = e.DrawPile[1:]
	}
	return hand
}

// rollIntents picks the next intent of every living enemy from its pool.
// Dead slots declare 0.
func (a *Authority) rollIntents(e *game.Encounter, s game.Snapshot) []int {
	out := make([]int, s.EnemyCount())
	for i := range out {
		if !s.EnemyAlive(i) || i >= len(e.IntentPools) || len(e.IntentPools[i]) == 0 {
			continue
		}
		pool := e.IntentPools[i]
		out[i] = pool[a.rng.Intn(len(pool))]
	}
	return out
}
