package game

import "sort"

// EffectKind selects the resolution logic of a card. The set is closed: the
// engine handles every kind explicitly and adding one means adding a case.
type EffectKind string

const (
	// EffectDamage hits one enemy, block first.
	EffectDamage EffectKind = "damage"
	// EffectDirectDamage hits one enemy's health, ignoring block.
	EffectDirectDamage EffectKind = "direct_damage"
	// EffectDamageAll applies EffectDamage to every living enemy.
	EffectDamageAll EffectKind = "damage_all"
	// EffectBlock adds block to the hero.
	EffectBlock EffectKind = "block"
	// EffectHeal restores hero health up to the maximum.
	EffectHeal EffectKind = "heal"
	// EffectDamageIfHandSize doubles damage when the hand holds at least
	// Threshold cards.
	EffectDamageIfHandSize EffectKind = "damage_if_hand_size"
	// EffectDamageIfFullHealth doubles damage when the target is at full health.
	EffectDamageIfFullHealth EffectKind = "damage_if_full_health"
	// EffectUnknown is the fallback for card ids missing from the catalog.
	EffectUnknown EffectKind = "unknown"
)

// Known reports whether k is one of the defined effect kinds.
func (k EffectKind) Known() bool {
	switch k {
	case EffectDamage, EffectDirectDamage, EffectDamageAll, EffectBlock, EffectHeal,
		EffectDamageIfHandSize, EffectDamageIfFullHealth, EffectUnknown:
		return true
	}
	return false
}

// CardDefinition is an immutable catalog entry.
type CardDefinition struct {
	ID        int        `json:"id"`
	Name      string     `json:"name"`
	ManaCost  int        `json:"mana_cost"`
	Targeted  bool       `json:"targeted"`
	Effect    EffectKind `json:"effect"`
	Amount    int        `json:"amount"`
	Threshold int        `json:"threshold,omitempty"`
}

// Unknown card fallback values. The authority applies the same default to ids
// it does not know, so the client keeps it for parity.
const (
	UnknownCardManaCost = 1
	UnknownCardBlock    = 6
)

// UnknownCard returns the tagged fallback definition for an unmapped id.
func UnknownCard(id int) CardDefinition {
	return CardDefinition{
		ID:       id,
		Name:     "Unknown",
		ManaCost: UnknownCardManaCost,
		Effect:   EffectUnknown,
		Amount:   UnknownCardBlock,
	}
}

// Catalog is the static card table keyed by numeric id. It is fetched once
// per session and never mutated afterwards.
type Catalog map[int]CardDefinition

// NewCatalog indexes a list of definitions by id.
func NewCatalog(cards []CardDefinition) Catalog {
	c := make(Catalog, len(cards))
	for _, d := range cards {
		c[d.ID] = d
	}
	return c
}

// Lookup returns the definition for id, or the UnknownCard fallback with
// known=false.
func (c Catalog) Lookup(id int) (def CardDefinition, known bool) {
	if d, ok := c[id]; ok {
		return d, true
	}
	return UnknownCard(id), false
}

// ManaCost returns the cost of id, including the fallback cost.
func (c Catalog) ManaCost(id int) int {
	d, _ := c.Lookup(id)
	return d.ManaCost
}

// Cards returns the definitions ordered by id.
func (c Catalog) Cards() []CardDefinition {
	out := make([]CardDefinition, 0, len(c))
	for _, d := range c {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Default card ids.
const (
	CardSmite         = 1
	CardShieldOfFaith = 2
	CardJudgment      = 3
	CardPreach        = 4
	CardMend          = 5
	CardUnfoldTruth   = 6
	CardReadScripture = 7
	CardDivineAegis   = 8
)

// DefaultCards is the built-in card list used when the content file does not
// provide one.
func DefaultCards() []CardDefinition {
	return []CardDefinition{
		{ID: CardSmite, Name: "Smite", ManaCost: 1, Targeted: true, Effect: EffectDamage, Amount: 6},
		{ID: CardShieldOfFaith, Name: "Shield of Faith", ManaCost: 1, Effect: EffectBlock, Amount: 5},
		{ID: CardJudgment, Name: "Judgment", ManaCost: 2, Targeted: true, Effect: EffectDirectDamage, Amount: 9},
		{ID: CardPreach, Name: "Preach", ManaCost: 2, Effect: EffectDamageAll, Amount: 8},
		{ID: CardMend, Name: "Mend", ManaCost: 1, Effect: EffectHeal, Amount: 6},
		{ID: CardUnfoldTruth, Name: "Unfold Truth", ManaCost: 1, Targeted: true, Effect: EffectDamageIfHandSize, Amount: 5, Threshold: 4},
		{ID: CardReadScripture, Name: "Read Scripture", ManaCost: 2, Targeted: true, Effect: EffectDamageIfFullHealth, Amount: 7},
		{ID: CardDivineAegis, Name: "Divine Aegis", ManaCost: 3, Effect: EffectBlock, Amount: 100},
	}
}

// DefaultCatalog returns the built-in catalog.
func DefaultCatalog() Catalog {
	return NewCatalog(DefaultCards())
}
