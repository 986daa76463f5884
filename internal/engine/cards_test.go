package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eviterin/thegate/internal/game"
)

func combatSnapshot(hand ...int) game.Snapshot {
	return game.Snapshot{
		EnemyHealth:    []int{10, 12},
		EnemyBlock:     []int{0, 0},
		EnemyMaxHealth: []int{10, 12},
		EnemyIntents:   []int{6, 1000},
		EnemyBuffs:     []int{0, 0},
		HeroHealth:     21,
		HeroMaxHealth:  21,
		Mana:           3,
		MaxMana:        3,
		Hand:           hand,
		Turn:           1,
		Status:         game.StatusInProgress,
	}
}

func TestResolveCard_SmiteThroughBlock(t *testing.T) {
	s := combatSnapshot(game.CardSmite)
	s.EnemyBlock[0] = 5

	out, res, err := ResolveCard(s, game.DefaultCatalog(), 0, 0)
	require.NoError(t, err)
	assert.Equal(t, 0, out.EnemyBlock[0])
	assert.Equal(t, 9, out.EnemyHealth[0])
	assert.False(t, res.EnemyDied)
	assert.Equal(t, 1, res.ManaSpent)
	assert.Equal(t, 2, out.Mana)
	assert.Empty(t, out.Hand)
	// input must not be mutated
	assert.Equal(t, 5, s.EnemyBlock[0])
	assert.Equal(t, []int{game.CardSmite}, s.Hand)
}

func TestResolveCard_PreachHitsAllLiving(t *testing.T) {
	s := combatSnapshot(game.CardPreach)
	s.EnemyHealth = []int{5, 12}

	out, res, err := ResolveCard(s, game.DefaultCatalog(), 0, 0)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 4}, out.EnemyHealth)
	assert.True(t, res.EnemyDied)
	assert.Equal(t, 13, res.DamageDealt)
}

func TestResolveCard_PreachSkipsDeadEnemies(t *testing.T) {
	s := combatSnapshot(game.CardPreach)
	s.EnemyHealth = []int{0, 12}
	s.EnemyBlock = []int{3, 0}

	out, res, err := ResolveCard(s, game.DefaultCatalog(), 0, 0)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 4}, out.EnemyHealth)
	assert.Equal(t, 3, out.EnemyBlock[0], "dead enemy block must be untouched")
	assert.False(t, res.EnemyDied)
}

func TestResolveCard_DirectDamageIgnoresBlock(t *testing.T) {
	s := combatSnapshot(game.CardJudgment)
	s.EnemyBlock[1] = 5

	out, _, err := ResolveCard(s, game.DefaultCatalog(), 0, 1)
	require.NoError(t, err)
	assert.Equal(t, 5, out.EnemyBlock[1])
	assert.Equal(t, 3, out.EnemyHealth[1])
	assert.Equal(t, 1, out.Mana)
}

func TestResolveCard_BlockAccumulatesWithoutCap(t *testing.T) {
	s := combatSnapshot(game.CardDivineAegis, game.CardDivineAegis)
	s.Mana, s.MaxMana = 6, 6

	out, res, err := ResolveCard(s, game.DefaultCatalog(), 0, 0)
	require.NoError(t, err)
	out, _, err = ResolveCard(out, game.DefaultCatalog(), 0, 0)
	require.NoError(t, err)
	assert.Equal(t, 200, out.HeroBlock)
	assert.Equal(t, 100, res.BlockGained)
}

func TestResolveCard_HealClampsAtMax(t *testing.T) {
	s := combatSnapshot(game.CardMend)
	s.HeroHealth = 18

	out, res, err := ResolveCard(s, game.DefaultCatalog(), 0, 0)
	require.NoError(t, err)
	assert.Equal(t, 21, out.HeroHealth)
	assert.Equal(t, 3, res.Healed)
}

func TestResolveCard_ConditionalHandSize(t *testing.T) {
	cat := game.DefaultCatalog()

	// Four cards in hand before the play: doubled.
	s := combatSnapshot(game.CardUnfoldTruth, game.CardMend, game.CardMend, game.CardMend)
	out, _, err := ResolveCard(s, cat, 0, 1)
	require.NoError(t, err)
	assert.Equal(t, 2, out.EnemyHealth[1])

	// Three cards: base damage.
	s = combatSnapshot(game.CardUnfoldTruth, game.CardMend, game.CardMend)
	out, _, err = ResolveCard(s, cat, 0, 1)
	require.NoError(t, err)
	assert.Equal(t, 7, out.EnemyHealth[1])
}

func TestResolveCard_ConditionalFullHealth(t *testing.T) {
	cat := game.DefaultCatalog()

	s := combatSnapshot(game.CardReadScripture)
	out, res, err := ResolveCard(s, cat, 0, 1)
	require.NoError(t, err)
	assert.Equal(t, 0, out.EnemyHealth[1])
	assert.True(t, res.EnemyDied)

	s = combatSnapshot(game.CardReadScripture)
	s.EnemyHealth[1] = 11
	out, _, err = ResolveCard(s, cat, 0, 1)
	require.NoError(t, err)
	assert.Equal(t, 4, out.EnemyHealth[1])
}

func TestResolveCard_UnknownCardFallsBack(t *testing.T) {
	s := combatSnapshot(999)

	out, res, err := ResolveCard(s, game.DefaultCatalog(), 0, 0)
	require.NoError(t, err)
	assert.True(t, res.Fallback)
	assert.Equal(t, game.EffectUnknown, res.Effect)
	assert.Equal(t, 6, out.HeroBlock)
	assert.Equal(t, 2, out.Mana)
}

func TestResolveCard_DoesNotEnforceAffordability(t *testing.T) {
	s := combatSnapshot(game.CardDivineAegis)
	s.Mana = 1

	out, res, err := ResolveCard(s, game.DefaultCatalog(), 0, 0)
	require.NoError(t, err)
	assert.Equal(t, 0, out.Mana)
	assert.Equal(t, 3, res.ManaSpent)
}

func TestResolveCard_StructuralErrors(t *testing.T) {
	s := combatSnapshot(game.CardSmite)

	_, _, err := ResolveCard(s, game.DefaultCatalog(), 1, 0)
	assert.ErrorIs(t, err, ErrCardIndexOutOfRange)

	_, _, err = ResolveCard(s, game.DefaultCatalog(), 0, 2)
	assert.ErrorIs(t, err, ErrTargetOutOfRange)

	// Untargeted cards ignore the target index.
	s = combatSnapshot(game.CardShieldOfFaith)
	_, _, err = ResolveCard(s, game.DefaultCatalog(), 0, 7)
	assert.NoError(t, err)
}

func TestResolveCard_UnhandledEffect(t *testing.T) {
	cat := game.NewCatalog([]game.CardDefinition{{ID: 50, Name: "Broken", Effect: "teleport"}})
	_, _, err := ResolveCard(combatSnapshot(50), cat, 0, 0)
	assert.ErrorIs(t, err, ErrUnhandledEffect)
}
