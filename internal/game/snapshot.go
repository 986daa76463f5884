package game

import (
	"errors"
	"fmt"
	"slices"
)

// Encounter status values shared by snapshots and persisted encounters.
const (
	StatusInProgress = "in_progress"
	StatusWon        = "won"
	StatusLost       = "lost"
)

// MaxEnemySlots is the largest number of enemy slots an encounter may have.
const MaxEnemySlots = 5

var ErrInvalidSnapshot = errors.New("invalid snapshot")

// Snapshot is a complete, consistent combat state at one instant. Enemy
// slices are parallel arrays indexed by enemy slot; their length is fixed for
// the lifetime of an encounter.
type Snapshot struct {
	EnemyHealth    []int `json:"enemy_health"`
	EnemyBlock     []int `json:"enemy_block"`
	EnemyMaxHealth []int `json:"enemy_max_health"`
	// EnemyIntents holds the intent each enemy declared for the coming enemy
	// turn. EnemyBuffs is the persistent attack bonus per enemy.
	EnemyIntents []int `json:"enemy_intents"`
	EnemyBuffs   []int `json:"enemy_buffs"`
	// ResolvedIntents are the intents resolved during the last enemy turn.
	ResolvedIntents []int `json:"resolved_intents"`

	HeroHealth    int `json:"hero_health"`
	HeroMaxHealth int `json:"hero_max_health"`
	HeroBlock     int `json:"hero_block"`
	Mana          int `json:"mana"`
	MaxMana       int `json:"max_mana"`

	Hand []int `json:"hand"`

	Turn   int    `json:"turn"`
	Status string `json:"status"`
}

// Clone returns a deep copy so the result can be mutated freely.
func (s Snapshot) Clone() Snapshot {
	out := s
	out.EnemyHealth = slices.Clone(s.EnemyHealth)
	out.EnemyBlock = slices.Clone(s.EnemyBlock)
	out.EnemyMaxHealth = slices.Clone(s.EnemyMaxHealth)
	out.EnemyIntents = slices.Clone(s.EnemyIntents)
	out.EnemyBuffs = slices.Clone(s.EnemyBuffs)
	out.ResolvedIntents = slices.Clone(s.ResolvedIntents)
	out.Hand = slices.Clone(s.Hand)
	return out
}

// Equal reports structural equality. Nil and empty slices compare equal.
func (s Snapshot) Equal(o Snapshot) bool {
	return s.HeroHealth == o.HeroHealth &&
		s.HeroMaxHealth == o.HeroMaxHealth &&
		s.HeroBlock == o.HeroBlock &&
		s.Mana == o.Mana &&
		s.MaxMana == o.MaxMana &&
		s.Turn == o.Turn &&
		s.Status == o.Status &&
		slices.Equal(s.EnemyHealth, o.EnemyHealth) &&
		slices.Equal(s.EnemyBlock, o.EnemyBlock) &&
		slices.Equal(s.EnemyMaxHealth, o.EnemyMaxHealth) &&
		slices.Equal(s.EnemyIntents, o.EnemyIntents) &&
		slices.Equal(s.EnemyBuffs, o.EnemyBuffs) &&
		slices.Equal(s.ResolvedIntents, o.ResolvedIntents) &&
		slices.Equal(s.Hand, o.Hand)
}

// EnemyCount returns the number of enemy slots.
func (s Snapshot) EnemyCount() int { return len(s.EnemyHealth) }

// EnemyAlive reports whether slot i exists and has health left.
func (s Snapshot) EnemyAlive(i int) bool {
	return i >= 0 && i < len(s.EnemyHealth) && s.EnemyHealth[i] > 0
}

// LivingEnemies returns the indices of living enemies in ascending order.
func (s Snapshot) LivingEnemies() []int {
	out := make([]int, 0, len(s.EnemyHealth))
	for i, h := range s.EnemyHealth {
		if h > 0 {
			out = append(out, i)
		}
	}
	return out
}

// Validate checks the resource invariants and the shape of the parallel arrays.
func (s Snapshot) Validate() error {
	n := len(s.EnemyHealth)
	if n > MaxEnemySlots {
		return fmt.Errorf("%w: %d enemy slots (max %d)", ErrInvalidSnapshot, n, MaxEnemySlots)
	}
	if len(s.EnemyBlock) != n || len(s.EnemyMaxHealth) != n {
		return fmt.Errorf("%w: enemy arrays have mismatched lengths", ErrInvalidSnapshot)
	}
	if s.EnemyIntents != nil && len(s.EnemyIntents) != n {
		return fmt.Errorf("%w: enemy intents length %d, want %d", ErrInvalidSnapshot, len(s.EnemyIntents), n)
	}
	if s.EnemyBuffs != nil && len(s.EnemyBuffs) != n {
		return fmt.Errorf("%w: enemy buffs length %d, want %d", ErrInvalidSnapshot, len(s.EnemyBuffs), n)
	}
	for i := 0; i < n; i++ {
		if s.EnemyHealth[i] < 0 || s.EnemyHealth[i] > s.EnemyMaxHealth[i] {
			return fmt.Errorf("%w: enemy %d health %d outside [0,%d]", ErrInvalidSnapshot, i, s.EnemyHealth[i], s.EnemyMaxHealth[i])
		}
		if s.EnemyBlock[i] < 0 {
			return fmt.Errorf("%w: enemy %d block %d is negative", ErrInvalidSnapshot, i, s.EnemyBlock[i])
		}
	}
	if s.HeroHealth < 0 || s.HeroHealth > s.HeroMaxHealth {
		return fmt.Errorf("%w: hero health %d outside [0,%d]", ErrInvalidSnapshot, s.HeroHealth, s.HeroMaxHealth)
	}
	if s.HeroBlock < 0 {
		return fmt.Errorf("%w: hero block %d is negative", ErrInvalidSnapshot, s.HeroBlock)
	}
	if s.Mana < 0 || s.Mana > s.MaxMana {
		return fmt.Errorf("%w: mana %d outside [0,%d]", ErrInvalidSnapshot, s.Mana, s.MaxMana)
	}
	return nil
}
