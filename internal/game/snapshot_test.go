package game

import (
	"errors"
	"testing"
)

func sampleSnapshot() Snapshot {
	return Snapshot{
		EnemyHealth:    []int{10, 0},
		EnemyBlock:     []int{0, 0},
		EnemyMaxHealth: []int{10, 12},
		EnemyIntents:   []int{5, 1000},
		EnemyBuffs:     []int{0, 0},
		HeroHealth:     21,
		HeroMaxHealth:  21,
		Mana:           3,
		MaxMana:        3,
		Hand:           []int{1, 2, 3},
		Turn:           1,
		Status:         StatusInProgress,
	}
}

func TestSnapshotCloneIsDeep(t *testing.T) {
	s := sampleSnapshot()
	c := s.Clone()
	c.EnemyHealth[0] = 1
	c.Hand[0] = 9
	if s.EnemyHealth[0] != 10 || s.Hand[0] != 1 {
		t.Fatalf("clone shares backing arrays with original")
	}
	if !s.Equal(s.Clone()) {
		t.Fatalf("clone should equal original")
	}
}

func TestSnapshotEqualTreatsNilAsEmpty(t *testing.T) {
	a := sampleSnapshot()
	b := a.Clone()
	a.ResolvedIntents = nil
	b.ResolvedIntents = []int{}
	if !a.Equal(b) {
		t.Fatalf("nil and empty slices should compare equal")
	}
	b.Mana = 2
	if a.Equal(b) {
		t.Fatalf("different mana should not compare equal")
	}
}

func TestSnapshotLivingEnemies(t *testing.T) {
	s := sampleSnapshot()
	if got := s.LivingEnemies(); len(got) != 1 || got[0] != 0 {
		t.Fatalf("living enemies = %v, want [0]", got)
	}
	if s.EnemyAlive(1) || s.EnemyAlive(5) || s.EnemyAlive(-1) {
		t.Fatalf("dead or out-of-range slots must not be alive")
	}
}

func TestSnapshotValidate(t *testing.T) {
	if err := sampleSnapshot().Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	bad := []func(*Snapshot){
		func(s *Snapshot) { s.EnemyBlock = []int{0} },
		func(s *Snapshot) { s.EnemyHealth[0] = 11 },
		func(s *Snapshot) { s.EnemyBlock[1] = -1 },
		func(s *Snapshot) { s.HeroHealth = 22 },
		func(s *Snapshot) { s.HeroBlock = -1 },
		func(s *Snapshot) { s.Mana = 4 },
		func(s *Snapshot) { s.EnemyIntents = []int{1} },
		func(s *Snapshot) {
			s.EnemyHealth = make([]int, 6)
			s.EnemyBlock = make([]int, 6)
			s.EnemyMaxHealth = make([]int, 6)
			s.EnemyIntents = nil
			s.EnemyBuffs = nil
		},
	}
	for i, mutate := range bad {
		s := sampleSnapshot()
		mutate(&s)
		if err := s.Validate(); !errors.Is(err, ErrInvalidSnapshot) {
			t.Fatalf("case %d: expected ErrInvalidSnapshot, got %v", i, err)
		}
	}
}

func TestCatalogLookupFallback(t *testing.T) {
	c := DefaultCatalog()
	d, known := c.Lookup(CardSmite)
	if !known || d.Name != "Smite" || d.ManaCost != 1 || !d.Targeted {
		t.Fatalf("unexpected smite definition: %+v known=%v", d, known)
	}
	d, known = c.Lookup(404)
	if known || d.Effect != EffectUnknown || d.ManaCost != UnknownCardManaCost {
		t.Fatalf("expected unknown fallback, got %+v known=%v", d, known)
	}
	if c.ManaCost(CardDivineAegis) != 3 {
		t.Fatalf("divine aegis should cost 3")
	}
	cards := c.Cards()
	for i := 1; i < len(cards); i++ {
		if cards[i-1].ID >= cards[i].ID {
			t.Fatalf("cards not ordered by id: %v", cards)
		}
	}
}

func TestEnemyIntentClassification(t *testing.T) {
	cases := []struct {
		in         EnemyIntent
		attack     bool
		recognized bool
	}{
		{0, true, true},
		{999, true, true},
		{IntentBlock, false, true},
		{IntentVampiricBite, false, true},
		{1007, false, false},
		{-3, false, false},
	}
	for _, tc := range cases {
		if tc.in.IsAttack() != tc.attack || tc.in.Recognized() != tc.recognized {
			t.Fatalf("intent %d: attack=%v recognized=%v", tc.in, tc.in.IsAttack(), tc.in.Recognized())
		}
	}
	if IntentHealAll.String() != "heal_all" {
		t.Fatalf("unexpected name %q", IntentHealAll.String())
	}
}
