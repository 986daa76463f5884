package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eviterin/thegate/internal/game"
)

func TestEffectiveIndices(t *testing.T) {
	cases := []struct {
		name  string
		plays []game.Play
		want  []int
	}{
		{"ascending shifts later plays", []game.Play{{CardIndex: 0}, {CardIndex: 2}}, []int{0, 1}},
		{"descending leaves indices", []game.Play{{CardIndex: 2}, {CardIndex: 0}}, []int{2, 0}},
		{"mixed", []game.Play{{CardIndex: 1}, {CardIndex: 3}, {CardIndex: 0}}, []int{1, 2, 0}},
		{"empty", nil, []int{}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := EffectiveIndices(tc.plays)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestEffectiveIndices_Duplicate(t *testing.T) {
	_, err := EffectiveIndices([]game.Play{{CardIndex: 1}, {CardIndex: 1}})
	assert.ErrorIs(t, err, ErrDuplicateCardIndex)
}

func TestResolveBatch_DescendingPlaysHitDeclaredCards(t *testing.T) {
	// hand: Smite, Mend, Shield of Faith
	s := combatSnapshot(game.CardSmite, game.CardMend, game.CardShieldOfFaith)
	s.HeroHealth = 10

	out, results, err := ResolveBatch(s, game.DefaultCatalog(), []game.Play{
		{CardIndex: 2, TargetIndex: 0},
		{CardIndex: 0, TargetIndex: 0},
	})
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, game.CardShieldOfFaith, results[0].CardID)
	assert.Equal(t, game.CardSmite, results[1].CardID)
	assert.Equal(t, []int{game.CardMend}, out.Hand)
	assert.Equal(t, 5, out.HeroBlock)
	assert.Equal(t, 4, out.EnemyHealth[0])
	assert.Equal(t, 1, out.Mana)
}

func TestResolveBatch_AscendingPlaysAreShifted(t *testing.T) {
	s := combatSnapshot(game.CardSmite, game.CardMend, game.CardShieldOfFaith)

	out, results, err := ResolveBatch(s, game.DefaultCatalog(), []game.Play{
		{CardIndex: 0, TargetIndex: 1},
		{CardIndex: 2, TargetIndex: 0},
	})
	require.NoError(t, err)
	assert.Equal(t, game.CardSmite, results[0].CardID)
	assert.Equal(t, game.CardShieldOfFaith, results[1].CardID)
	assert.Equal(t, 2, results[1].CardIndex)
	assert.Equal(t, 1, results[1].EffectiveIndex)
	assert.Equal(t, []int{game.CardMend}, out.Hand)
}

func TestResolveBatch_HandSizeSampledBeforeBatch(t *testing.T) {
	// Four cards before the batch; Unfold Truth is played second when the
	// hand already holds three, but it still doubles.
	s := combatSnapshot(game.CardMend, game.CardUnfoldTruth, game.CardShieldOfFaith, game.CardShieldOfFaith)
	s.HeroHealth = 15

	out, _, err := ResolveBatch(s, game.DefaultCatalog(), []game.Play{
		{CardIndex: 0},
		{CardIndex: 1, TargetIndex: 1},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, out.EnemyHealth[1])
}

func TestResolveBatch_ErrorKeepsInput(t *testing.T) {
	s := combatSnapshot(game.CardSmite)

	out, _, err := ResolveBatch(s, game.DefaultCatalog(), []game.Play{
		{CardIndex: 0, TargetIndex: 0},
		{CardIndex: 1, TargetIndex: 0},
	})
	assert.ErrorIs(t, err, ErrCardIndexOutOfRange)
	assert.True(t, out.Equal(s))
}

func TestBatch_Stepping(t *testing.T) {
	s := combatSnapshot(game.CardSmite, game.CardSmite)
	b, err := NewBatch(s, game.DefaultCatalog(), []game.Play{{CardIndex: 1}, {CardIndex: 0}})
	require.NoError(t, err)
	assert.Equal(t, 2, b.Remaining())

	_, ok, err := b.Next()
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 4, b.Snapshot().EnemyHealth[0])
	assert.Equal(t, 1, b.Remaining())

	_, ok, _ = b.Next()
	assert.True(t, ok)
	_, ok, _ = b.Next()
	assert.False(t, ok)
	assert.Equal(t, 0, b.Snapshot().EnemyHealth[0])
}
