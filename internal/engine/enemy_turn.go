package engine

import (
	"fmt"

	"github.com/eviterin/thegate/internal/game"
)

// EnemyAction records what one enemy did during the enemy turn, in the order
// the actions must be animated.
type EnemyAction struct {
	EnemyIndex        int              `json:"enemy_index"`
	Intent            game.EnemyIntent `json:"intent"`
	DamageDealtToHero int              `json:"damage_dealt_to_hero"`
	BlockAbsorbed     int              `json:"block_absorbed"`
	Healed            int              `json:"healed"`
	BlockSet          bool             `json:"block_set"`
	BuffGained        int              `json:"buff_gained"`
	HeroDied          bool             `json:"hero_died"`
	Summary           string           `json:"summary"`
}

// EnemyTurn folds each living enemy's intent, in ascending slot order, into
// a running snapshot. Dead enemies neither act nor receive HEAL_ALL healing.
type EnemyTurn struct {
	cur     game.Snapshot
	intents []int
	slot    int
}

// NewEnemyTurn prepares the enemy turn. intents must have one entry per
// enemy slot.
func NewEnemyTurn(s game.Snapshot, intents []int) (*EnemyTurn, error) {
	if len(intents) != s.EnemyCount() {
		return nil, fmt.Errorf("%w: %d intents for %d enemies", ErrIntentCountMismatch, len(intents), s.EnemyCount())
	}
	cur := s.Clone()
	if len(cur.EnemyBuffs) != cur.EnemyCount() {
		cur.EnemyBuffs = make([]int, cur.EnemyCount())
	}
	return &EnemyTurn{cur: cur, intents: append([]int(nil), intents...)}, nil
}

// Next resolves the next living enemy's intent. ok is false when every slot
// has been visited. An unrecognized intent is a hard error and leaves the
// running snapshot as it was before that enemy.
func (t *EnemyTurn) Next() (act EnemyAction, ok bool, err error) {
	for t.slot < len(t.intents) && !t.cur.EnemyAlive(t.slot) {
		t.slot++
	}
	if t.slot >= len(t.intents) {
		return EnemyAction{}, false, nil
	}
	i := t.slot
	out, act, err := resolveIntent(t.cur, i, game.EnemyIntent(t.intents[i]))
	if err != nil {
		return EnemyAction{}, false, err
	}
	t.cur = out
	t.slot++
	return act, true, nil
}

// Snapshot returns the state after the enemies resolved so far.
func (t *EnemyTurn) Snapshot() game.Snapshot { return t.cur.Clone() }

// SimulateEnemyTurn runs a whole enemy turn.
func SimulateEnemyTurn(s game.Snapshot, intents []int) (game.Snapshot, []EnemyAction, error) {
	t, err := NewEnemyTurn(s, intents)
	if err != nil {
		return s, nil, err
	}
	actions := make([]EnemyAction, 0, len(intents))
	for {
		act, ok, err := t.Next()
		if err != nil {
			return s, actions, err
		}
		if !ok {
			break
		}
		actions = append(actions, act)
	}
	return t.cur, actions, nil
}

func resolveIntent(s game.Snapshot, i int, intent game.EnemyIntent) (game.Snapshot, EnemyAction, error) {
	if !intent.Recognized() {
		return s, EnemyAction{}, fmt.Errorf("%w: enemy %d declared %d", ErrUnrecognizedIntent, i, int(intent))
	}
	out := s.Clone()
	act := EnemyAction{EnemyIndex: i, Intent: intent}
	sm := &summary{}

	switch {
	case intent.IsAttack():
		dmg := int(intent) + out.EnemyBuffs[i]
		attackHero(&out, dmg, &act, sm, i)
	case intent == game.IntentBlock:
		setEnemyBlock(&out, i, &act, sm)
	case intent == game.IntentBlockAndAttack:
		setEnemyBlock(&out, i, &act, sm)
		attackHero(&out, game.IntentBlockAndAttackDamage, &act, sm, i)
	case intent == game.IntentHeal:
		act.Healed = healEnemy(&out, i, game.IntentHealAmount)
		sm.add("enemy %d heals %d", i, act.Healed)
	case intent == game.IntentHealAll:
		act.Healed = healEnemy(&out, i, game.IntentHealAmount)
		sm.add("enemy %d heals %d", i, act.Healed)
		for _, j := range out.LivingEnemies() {
			if j == i {
				continue
			}
			h := healEnemy(&out, j, game.IntentHealAmount)
			sm.add("enemy %d heals ally %d for %d", i, j, h)
		}
	case intent == game.IntentAttackBuff:
		out.EnemyBuffs[i] += game.IntentAttackBuffAmount
		act.BuffGained = game.IntentAttackBuffAmount
		sm.add("enemy %d grows stronger (+%d attack, total %d)", i, game.IntentAttackBuffAmount, out.EnemyBuffs[i])
	case intent == game.IntentBlockAndHeal:
		setEnemyBlock(&out, i, &act, sm)
		act.Healed = healEnemy(&out, i, game.IntentHealAmount)
		sm.add("enemy %d heals %d", i, act.Healed)
	case intent == game.IntentVampiricBite:
		attackHero(&out, game.IntentVampiricBiteAmount, &act, sm, i)
		// The heal is fixed and does not depend on what the hero's block absorbed.
		act.Healed = healEnemy(&out, i, game.IntentVampiricBiteAmount)
		sm.add("enemy %d drains %d health", i, act.Healed)
	default:
		return s, EnemyAction{}, fmt.Errorf("%w: enemy %d declared %d", ErrUnrecognizedIntent, i, int(intent))
	}

	act.Summary = sm.join()
	return out, act, nil
}

func attackHero(s *game.Snapshot, dmg int, act *EnemyAction, sm *summary, i int) {
	o := CalculateDamageToEnemy(dmg, s.HeroBlock, s.HeroHealth)
	s.HeroBlock = o.Block
	s.HeroHealth = o.Health
	act.DamageDealtToHero += o.HealthLost
	act.BlockAbsorbed += o.Absorbed
	if o.IsDead {
		act.HeroDied = true
	}
	sm.add("enemy %d attacks for %d: %d blocked, hero takes %d (hero health %d)", i, dmg, o.Absorbed, o.HealthLost, s.HeroHealth)
}

// setEnemyBlock sets block to the fixed amount. It is not additive.
func setEnemyBlock(s *game.Snapshot, i int, act *EnemyAction, sm *summary) {
	s.EnemyBlock[i] = game.IntentBlockAmount
	act.BlockSet = true
	sm.add("enemy %d raises block to %d", i, game.IntentBlockAmount)
}

func healEnemy(s *game.Snapshot, i, amount int) int {
	before := s.EnemyHealth[i]
	s.EnemyHealth[i] = Clamp(before, amount, s.EnemyMaxHealth[i])
	return s.EnemyHealth[i] - before
}
