package mirror

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eviterin/thegate/internal/game"
)

type fakeSource struct {
	mu    sync.Mutex
	state game.Snapshot
	err   error
	calls atomic.Int32
	gate  chan struct{}
}

func (f *fakeSource) GetState(ctx context.Context, playerID string) (game.Snapshot, error) {
	f.calls.Add(1)
	if f.gate != nil {
		<-f.gate
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state.Clone(), f.err
}

func (f *fakeSource) set(s game.Snapshot) {
	f.mu.Lock()
	f.state = s
	f.mu.Unlock()
}

func snap(heroHealth int) game.Snapshot {
	return game.Snapshot{
		EnemyHealth:    []int{10},
		EnemyBlock:     []int{0},
		EnemyMaxHealth: []int{10},
		HeroHealth:     heroHealth,
		HeroMaxHealth:  21,
		MaxMana:        3,
		Mana:           3,
		Turn:           1,
		Status:         game.StatusInProgress,
	}
}

func TestRefresh_DetectsChanges(t *testing.T) {
	src := &fakeSource{state: snap(21)}
	m := New(src, "p1", time.Second)
	var seen []int
	m.OnChange(func(s game.Snapshot) { seen = append(seen, s.HeroHealth) })

	changed, err := m.Refresh(context.Background())
	require.NoError(t, err)
	assert.True(t, changed)

	changed, err = m.Refresh(context.Background())
	require.NoError(t, err)
	assert.False(t, changed)

	src.set(snap(15))
	changed, _ = m.Refresh(context.Background())
	assert.True(t, changed)
	assert.Equal(t, []int{21, 15}, seen)

	cur, ok := m.Current()
	require.True(t, ok)
	assert.Equal(t, 15, cur.HeroHealth)
}

func TestRefresh_NoopWhileFrozen(t *testing.T) {
	src := &fakeSource{state: snap(21)}
	m := New(src, "p1", time.Second)
	_, err := m.Refresh(context.Background())
	require.NoError(t, err)

	base, err := m.Freeze()
	require.NoError(t, err)
	assert.Equal(t, 21, base.HeroHealth)
	calls := src.calls.Load()

	src.set(snap(10))
	changed, err := m.Refresh(context.Background())
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Equal(t, calls, src.calls.Load(), "frozen refresh must not fetch")

	cur, _ := m.Current()
	assert.Equal(t, 21, cur.HeroHealth)
}

func TestRefresh_FreezeDuringFetchDiscardsResult(t *testing.T) {
	src := &fakeSource{state: snap(21)}
	m := New(src, "p1", time.Second)
	_, _ = m.Refresh(context.Background())

	src.set(snap(5))
	src.gate = make(chan struct{})
	done := make(chan bool)
	go func() {
		changed, _ := m.Refresh(context.Background())
		done <- changed
	}()
	require.Eventually(t, func() bool { return src.calls.Load() == 2 }, time.Second, time.Millisecond)

	_, err := m.Freeze()
	require.NoError(t, err)
	close(src.gate)

	assert.False(t, <-done)
	cur, _ := m.Current()
	assert.Equal(t, 21, cur.HeroHealth)
}

func TestRefresh_ReadSpanningFreezeCycleIsDropped(t *testing.T) {
	src := &fakeSource{state: snap(21)}
	m := New(src, "p1", time.Second)
	_, _ = m.Refresh(context.Background())

	src.gate = make(chan struct{})
	done := make(chan bool)
	go func() {
		changed, _ := m.Refresh(context.Background())
		done <- changed
	}()
	require.Eventually(t, func() bool { return src.calls.Load() == 2 }, time.Second, time.Millisecond)

	_, err := m.Freeze()
	require.NoError(t, err)
	confirmed := snap(15)
	m.Unfreeze(&confirmed)
	close(src.gate)

	assert.False(t, <-done)
	cur, _ := m.Current()
	assert.Equal(t, 15, cur.HeroHealth)
}

func TestFreeze_Errors(t *testing.T) {
	m := New(&fakeSource{state: snap(21)}, "p1", time.Second)
	_, err := m.Freeze()
	assert.ErrorIs(t, err, ErrNoSnapshot)

	_, _ = m.Refresh(context.Background())
	_, err = m.Freeze()
	require.NoError(t, err)
	_, err = m.Freeze()
	assert.ErrorIs(t, err, ErrAlreadyFrozen)
}

func TestUnfreeze_AppliesConfirmed(t *testing.T) {
	src := &fakeSource{state: snap(21)}
	m := New(src, "p1", time.Second)
	_, _ = m.Refresh(context.Background())
	_, _ = m.Freeze()

	confirmed := snap(9)
	m.Unfreeze(&confirmed)
	assert.False(t, m.Frozen())
	cur, _ := m.Current()
	assert.Equal(t, 9, cur.HeroHealth)

	_, _ = m.Freeze()
	m.Unfreeze(nil)
	cur, _ = m.Current()
	assert.Equal(t, 9, cur.HeroHealth)
}

func TestFetch_DoesNotApply(t *testing.T) {
	src := &fakeSource{state: snap(21)}
	m := New(src, "p1", time.Second)
	_, _ = m.Refresh(context.Background())
	_, _ = m.Freeze()

	src.set(snap(3))
	s, err := m.Fetch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, s.HeroHealth)
	cur, _ := m.Current()
	assert.Equal(t, 21, cur.HeroHealth)
}

func TestRefresh_PropagatesError(t *testing.T) {
	boom := errors.New("boom")
	m := New(&fakeSource{err: boom}, "p1", time.Second)
	_, err := m.Refresh(context.Background())
	assert.ErrorIs(t, err, boom)
	_, ok := m.Current()
	assert.False(t, ok)
}

func TestRun_PollsAndHonoursNudges(t *testing.T) {
	src := &fakeSource{state: snap(21)}
	m := New(src, "p1", time.Hour)
	nudges := make(chan struct{})
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	stopped := make(chan struct{})
	go func() {
		m.Run(ctx, nudges)
		close(stopped)
	}()
	require.Eventually(t, func() bool { _, ok := m.Current(); return ok }, time.Second, time.Millisecond)

	src.set(snap(12))
	nudges <- struct{}{}
	require.Eventually(t, func() bool {
		cur, _ := m.Current()
		return cur.HeroHealth == 12
	}, time.Second, time.Millisecond)

	cancel()
	<-stopped
}
