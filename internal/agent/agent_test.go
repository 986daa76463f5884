package agent

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/eviterin/thegate/internal/game"
)

func snapshot(health []int, intents []int, mana int, hand ...int) game.Snapshot {
	n := len(health)
	max := make([]int, n)
	for i := range max {
		max[i] = 40
	}
	return game.Snapshot{
		EnemyHealth:    append([]int(nil), health...),
		EnemyBlock:     make([]int, n),
		EnemyMaxHealth: max,
		EnemyIntents:   append([]int(nil), intents...),
		EnemyBuffs:     make([]int, n),
		HeroHealth:     21,
		HeroMaxHealth:  21,
		Mana:           mana,
		MaxMana:        3,
		Hand:           hand,
		Turn:           1,
		Status:         game.StatusInProgress,
	}
}

func TestIncomingDamage(t *testing.T) {
	s := snapshot([]int{10, 10, 0, 10}, []int{4, int(game.IntentBlockAndAttack), 7, int(game.IntentVampiricBite)}, 3)
	s.EnemyBuffs[0] = 2
	assert.Equal(t, 6+6+7, IncomingDamage(s))

	s = snapshot([]int{10}, []int{int(game.IntentHeal)}, 3)
	assert.Equal(t, 0, IncomingDamage(s))
}

func TestPlan_TakesLethal(t *testing.T) {
	s := snapshot([]int{5}, []int{3}, 3, game.CardJudgment, game.CardSmite)
	plays := Plan(s, game.DefaultCatalog())
	assert.Equal(t, []game.Play{{CardIndex: 0, TargetIndex: 0}}, plays)
}

func TestPlan_FinishesWoundedEnemy(t *testing.T) {
	s := snapshot([]int{20, 6}, []int{int(game.IntentBlock), int(game.IntentBlock)}, 1, game.CardSmite)
	plays := Plan(s, game.DefaultCatalog())
	assert.Equal(t, []game.Play{{CardIndex: 0, TargetIndex: 1}}, plays)
}

func TestPlan_BlocksOnlyWhenThreatened(t *testing.T) {
	cat := game.DefaultCatalog()

	threatened := snapshot([]int{30}, []int{10}, 1, game.CardShieldOfFaith, game.CardMend)
	assert.Equal(t, []game.Play{{CardIndex: 0, TargetIndex: 0}}, Plan(threatened, cat))

	calm := snapshot([]int{30}, []int{int(game.IntentBlock)}, 1, game.CardShieldOfFaith, game.CardSmite)
	assert.Equal(t, []game.Play{{CardIndex: 1, TargetIndex: 0}}, Plan(calm, cat))
}

func TestPlan_PrefersDamagePerManaWithinBudget(t *testing.T) {
	cat := game.DefaultCatalog()
	s := snapshot([]int{40}, []int{int(game.IntentBlock)}, 3, game.CardJudgment, game.CardSmite, game.CardSmite)

	plays := Plan(s, cat)
	assert.Equal(t, []game.Play{{CardIndex: 1, TargetIndex: 0}, {CardIndex: 2, TargetIndex: 0}}, plays)

	cost := 0
	for _, p := range plays {
		cost += cat.ManaCost(s.Hand[p.CardIndex])
	}
	assert.LessOrEqual(t, cost, s.Mana)
}

func TestPlan_NothingToDo(t *testing.T) {
	cat := game.DefaultCatalog()

	over := snapshot([]int{0}, []int{0}, 3, game.CardSmite)
	over.Status = game.StatusWon
	assert.Nil(t, Plan(over, cat))

	broke := snapshot([]int{30}, []int{5}, 0, game.CardSmite)
	assert.Empty(t, Plan(broke, cat))
}
