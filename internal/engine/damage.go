package engine

// DamageOutcome is the result of applying damage to a block/health pair.
type DamageOutcome struct {
	Block      int  `json:"block"`
	Health     int  `json:"health"`
	Absorbed   int  `json:"absorbed"`
	HealthLost int  `json:"health_lost"`
	IsDead     bool `json:"is_dead"`
}

// CalculateDamageToEnemy applies damage to block first and the remainder to
// health, flooring health at zero. IsDead is set only when health drops to
// exactly zero from a positive value. Negative damage is treated as zero.
func CalculateDamageToEnemy(damage, block, health int) DamageOutcome {
	damage = maxInt(damage, 0)
	block = maxInt(block, 0)
	health = maxInt(health, 0)
	if block >= damage {
		return DamageOutcome{Block: block - damage, Health: health, Absorbed: damage}
	}
	remaining := damage - block
	newHealth := maxInt(health-remaining, 0)
	return DamageOutcome{
		Block:      0,
		Health:     newHealth,
		Absorbed:   block,
		HealthLost: health - newHealth,
		IsDead:     health > 0 && newHealth == 0,
	}
}

// CalculateDirectDamage applies damage straight to health; block is returned
// untouched.
func CalculateDirectDamage(damage, block, health int) DamageOutcome {
	damage = maxInt(damage, 0)
	health = maxInt(health, 0)
	newHealth := maxInt(health-damage, 0)
	return DamageOutcome{
		Block:      block,
		Health:     newHealth,
		HealthLost: health - newHealth,
		IsDead:     health > 0 && newHealth == 0,
	}
}
