package game

// EnemyIntent is an authority-declared enemy action. Values below
// IntentNamedBase are raw attacks for that many damage; values from
// IntentNamedBase up are named effects.
type EnemyIntent int

const IntentNamedBase = 1000

const (
	IntentBlock          EnemyIntent = 1000
	IntentBlockAndAttack EnemyIntent = 1001
	IntentHeal           EnemyIntent = 1002
	IntentHealAll        EnemyIntent = 1003
	IntentAttackBuff     EnemyIntent = 1004
	IntentBlockAndHeal   EnemyIntent = 1005
	IntentVampiricBite   EnemyIntent = 1006
)

// Fixed magnitudes of the named intents.
const (
	IntentBlockAmount          = 5
	IntentBlockAndAttackDamage = 6
	IntentHealAmount           = 5
	IntentAttackBuffAmount     = 2
	IntentVampiricBiteAmount   = 7
)

// IsAttack reports whether the intent is a raw attack.
func (i EnemyIntent) IsAttack() bool { return i >= 0 && i < IntentNamedBase }

// Recognized reports whether the intent belongs to the closed enumeration.
func (i EnemyIntent) Recognized() bool {
	if i.IsAttack() {
		return true
	}
	switch i {
	case IntentBlock, IntentBlockAndAttack, IntentHeal, IntentHealAll,
		IntentAttackBuff, IntentBlockAndHeal, IntentVampiricBite:
		return true
	}
	return false
}

func (i EnemyIntent) String() string {
	switch i {
	case IntentBlock:
		return "block"
	case IntentBlockAndAttack:
		return "block_and_attack"
	case IntentHeal:
		return "heal"
	case IntentHealAll:
		return "heal_all"
	case IntentAttackBuff:
		return "attack_buff"
	case IntentBlockAndHeal:
		return "block_and_heal"
	case IntentVampiricBite:
		return "vampiric_bite"
	}
	if i.IsAttack() {
		return "attack"
	}
	return "unrecognized"
}
