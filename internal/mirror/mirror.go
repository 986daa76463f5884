// Package mirror keeps the client's copy of the authoritative snapshot. It
// polls the authority and stops applying reads while an animation sequence
// holds it frozen, so a poll never observes a half-applied combat step.
package mirror

import (
	"context"
	"errors"
	"slices"
	"strconv"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/eviterin/thegate/internal/constants"
	"github.com/eviterin/thegate/internal/game"
	"github.com/eviterin/thegate/internal/logging"
)

var (
	ErrAlreadyFrozen = errors.New("mirror already frozen")
	ErrNoSnapshot    = errors.New("mirror has no snapshot yet")
)

// Source is the read side of the authority.
type Source interface {
	GetState(ctx context.Context, playerID string) (game.Snapshot, error)
}

// Mirror owns the last-fetched authoritative snapshot.
type Mirror struct {
	source   Source
	playerID string
	interval time.Duration

	// fetches deduplicates concurrent reads (ticker, nudges, reconciliation).
	fetches singleflight.Group

	mu       sync.Mutex
	current  *game.Snapshot
	previous *game.Snapshot
	frozen   bool
	// gen counts Freeze and Unfreeze calls. A read is applied only if no
	// freeze cycle happened while it was in flight.
	gen      uint64
	onChange []func(game.Snapshot)
}

// New returns a mirror for playerID that polls every interval once Run starts.
func New(source Source, playerID string, interval time.Duration) *Mirror {
	return &Mirror{source: source, playerID: playerID, interval: interval}
}

// OnChange registers fn to run after every applied snapshot that differs from
// the previous one. fn runs outside the mirror's lock.
func (m *Mirror) OnChange(fn func(game.Snapshot)) {
	m.mu.Lock()
	m.onChange = append(m.onChange, fn)
	m.mu.Unlock()
}

// Fetch reads the authority without applying the result. Concurrent calls
// share one request.
func (m *Mirror) Fetch(ctx context.Context) (game.Snapshot, error) {
	m.mu.Lock()
	gen := m.gen
	m.mu.Unlock()
	return m.fetch(ctx, gen)
}

// fetch shares one request per generation, so a read that started before a
// freeze cycle is never handed to a caller that started after it.
func (m *Mirror) fetch(ctx context.Context, gen uint64) (game.Snapshot, error) {
	key := m.playerID + "/" + strconv.FormatUint(gen, 10)
	v, err, _ := m.fetches.Do(key, func() (interface{}, error) {
		return m.source.GetState(ctx, m.playerID)
	})
	if err != nil {
		return game.Snapshot{}, err
	}
	return v.(game.Snapshot).Clone(), nil
}

// Refresh fetches and applies the authoritative snapshot. It is a no-op
// while frozen, and the result is dropped when the mirror was frozen (or
// frozen and released) while the read was in flight. It reports whether the
// applied snapshot changed.
func (m *Mirror) Refresh(ctx context.Context) (bool, error) {
	m.mu.Lock()
	if m.frozen {
		m.mu.Unlock()
		return false, nil
	}
	gen := m.gen
	m.mu.Unlock()

	s, err := m.fetch(ctx, gen)
	if err != nil {
		return false, err
	}

	m.mu.Lock()
	if m.frozen || m.gen != gen {
		m.mu.Unlock()
		return false, nil
	}
	changed, listeners := m.applyLocked(s)
	m.mu.Unlock()

	if changed {
		notify(listeners, s)
	}
	return changed, nil
}

// applyLocked stores s as current and compares it with the previous
// snapshot. Caller holds m.mu.
func (m *Mirror) applyLocked(s game.Snapshot) (bool, []func(game.Snapshot)) {
	cur := s.Clone()
	m.current = &cur
	changed := m.previous == nil || !m.previous.Equal(s)
	if changed {
		fields := logging.Fields{constants.LogFieldPlayerID: m.playerID, constants.LogFieldTurn: s.Turn, constants.LogFieldStatus: s.Status}
		if m.previous != nil {
			fields["hero_health"] = s.HeroHealth
			fields["enemy_health"] = s.EnemyHealth
		}
		logging.Debug("mirror state changed", fields)
		prev := s.Clone()
		m.previous = &prev
	}
	return changed, slices.Clone(m.onChange)
}

func notify(listeners []func(game.Snapshot), s game.Snapshot) {
	for _, fn := range listeners {
		fn(s.Clone())
	}
}

// Current returns the last applied snapshot.
func (m *Mirror) Current() (game.Snapshot, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.current == nil {
		return game.Snapshot{}, false
	}
	return m.current.Clone(), true
}

// Frozen reports whether an animation sequence holds the mirror.
func (m *Mirror) Frozen() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.frozen
}

// Freeze stops polling from applying reads and returns the current snapshot
// as the animation baseline.
func (m *Mirror) Freeze() (game.Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.frozen {
		return game.Snapshot{}, ErrAlreadyFrozen
	}
	if m.current == nil {
		return game.Snapshot{}, ErrNoSnapshot
	}
	m.frozen = true
	m.gen++
	return m.current.Clone(), nil
}

// Unfreeze resumes polling. When confirmed is non-nil it becomes the
// current snapshot; otherwise the baseline stays in place.
func (m *Mirror) Unfreeze(confirmed *game.Snapshot) {
	m.mu.Lock()
	m.frozen = false
	m.gen++
	if confirmed == nil {
		m.mu.Unlock()
		return
	}
	changed, listeners := m.applyLocked(*confirmed)
	m.mu.Unlock()
	if changed {
		notify(listeners, *confirmed)
	}
}

// Run polls every interval and whenever nudges delivers, until ctx is done.
// nudges may be nil.
func (m *Mirror) Run(ctx context.Context, nudges <-chan struct{}) {
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	m.refreshAndLog(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.refreshAndLog(ctx)
		case _, ok := <-nudges:
			if !ok {
				nudges = nil
				continue
			}
			m.refreshAndLog(ctx)
		}
	}
}

func (m *Mirror) refreshAndLog(ctx context.Context) {
	if _, err := m.Refresh(ctx); err != nil && ctx.Err() == nil {
		logging.Error("mirror refresh failed", err, logging.Fields{constants.LogFieldPlayerID: m.playerID})
	}
}
