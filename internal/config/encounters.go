package config

import "github.com/eviterin/thegate/internal/game"

// DefaultDeck is the starting deck used by the built-in encounters.
var DefaultDeck = []int{
	game.CardSmite, game.CardSmite, game.CardSmite,
	game.CardShieldOfFaith, game.CardShieldOfFaith,
	game.CardJudgment, game.CardPreach, game.CardMend,
	game.CardUnfoldTruth, game.CardReadScripture,
}

// DefaultEncounters returns the built-in encounters.
func DefaultEncounters() []game.EncounterDefinition {
	deck := func() []int { return append([]int(nil), DefaultDeck...) }
	return []game.EncounterDefinition{
		{
			Key: "gate", Name: "The Gate", HeroMaxHealth: 21, MaxMana: 3, HandSize: 5, Deck: deck(),
			Enemies: []game.EnemyDefinition{
				{Name: "Gatekeeper", MaxHealth: 20, Intents: []int{5, 7, int(game.IntentBlock), int(game.IntentBlockAndAttack)}},
			},
		},
		{
			Key: "crypt", Name: "Sunken Crypt", HeroMaxHealth: 21, MaxMana: 3, HandSize: 5, Deck: deck(),
			Enemies: []game.EnemyDefinition{
				{Name: "Ghoul", MaxHealth: 12, Intents: []int{4, 6, int(game.IntentVampiricBite)}},
				{Name: "Acolyte", MaxHealth: 10, Intents: []int{3, int(game.IntentHealAll), int(game.IntentBlockAndHeal)}},
			},
		},
		{
			Key: "warband", Name: "Warband", HeroMaxHealth: 25, MaxMana: 3, HandSize: 5, Deck: deck(),
			Enemies: []game.EnemyDefinition{
				{Name: "Brute", MaxHealth: 18, Intents: []int{8, int(game.IntentAttackBuff), int(game.IntentBlockAndAttack)}},
				{Name: "Archer", MaxHealth: 8, Intents: []int{4, 5}},
				{Name: "Shaman", MaxHealth: 9, Intents: []int{int(game.IntentHeal), int(game.IntentHealAll), 2}},
			},
		},
	}
}
