// Package protocol stages card plays, commits them to the authority as one
// transaction, animates the predicted result while the transaction is in
// flight, and reconciles the prediction with the confirmed state.
package protocol

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"github.com/eviterin/thegate/internal/authority"
	"github.com/eviterin/thegate/internal/engine"
	"github.com/eviterin/thegate/internal/game"
	"github.com/eviterin/thegate/internal/intent"
)

var (
	ErrCommitInProgress = errors.New("commit already in progress")
	ErrEmptyQueue       = errors.New("no staged plays")
	ErrNotPlayerTurn    = errors.New("not the player turn")
	ErrEncounterOver    = errors.New("encounter is over")
	ErrNoState          = errors.New("no authoritative state yet")
	ErrSubmissionFailed = errors.New("submission failed")
	ErrConfirmTimeout   = errors.New("confirmation timed out")
)

// Mirror is the part of the state mirror the protocol needs.
type Mirror interface {
	Current() (game.Snapshot, bool)
	Refresh(ctx context.Context) (bool, error)
	Fetch(ctx context.Context) (game.Snapshot, error)
	Freeze() (game.Snapshot, error)
	Unfreeze(confirmed *game.Snapshot)
}

// Protocol drives one player's session.
type Protocol struct {
	auth     authority.Authority
	mirror   Mirror
	catalog  game.Catalog
	playerID string
	cfg      Config
	sink     Sink
	queue    *intent.Queue

	// committing is the isCommitting guard; only one commit or end turn
	// runs at a time.
	committing atomic.Bool

	mu      sync.Mutex
	state   TurnState
	display *game.Snapshot
}

// New builds a protocol. A nil sink discards events.
func New(auth authority.Authority, m Mirror, catalog game.Catalog, playerID string, cfg Config, sink Sink) *Protocol {
	if sink == nil {
		sink = SinkFunc(func(context.Context, Event) error { return nil })
	}
	return &Protocol{
		auth:     auth,
		mirror:   m,
		catalog:  catalog,
		playerID: playerID,
		cfg:      cfg,
		sink:     sink,
		queue:    intent.New(),
	}
}

// State returns the current turn state.
func (p *Protocol) State() TurnState {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

func (p *Protocol) setState(s TurnState) {
	p.mu.Lock()
	p.state = s
	p.mu.Unlock()
}

// Display returns what the UI should show: the predicted snapshot while an
// animation runs, the mirror's snapshot otherwise.
func (p *Protocol) Display() (game.Snapshot, bool) {
	p.mu.Lock()
	if p.display != nil {
		s := p.display.Clone()
		p.mu.Unlock()
		return s, true
	}
	p.mu.Unlock()
	return p.mirror.Current()
}

func (p *Protocol) setDisplay(s *game.Snapshot) {
	p.mu.Lock()
	p.display = s
	p.mu.Unlock()
}

// Catalog returns the session's card catalog.
func (p *Protocol) Catalog() game.Catalog { return p.catalog }

// Queue returns the staged intents in order.
func (p *Protocol) Queue() []intent.Intent { return p.queue.Intents() }

// QueuedMana returns the mana committed by staged intents.
func (p *Protocol) QueuedMana() int { return p.queue.QueuedMana() }

// Stage queues the card in cardSlot against target, checked against the
// mirror's live snapshot.
func (p *Protocol) Stage(cardSlot, target int) (intent.Intent, error) {
	if p.State() != TurnPlayer || p.committing.Load() {
		return intent.Intent{}, ErrNotPlayerTurn
	}
	s, ok := p.mirror.Current()
	if !ok {
		return intent.Intent{}, ErrNoState
	}
	if s.Status != game.StatusInProgress {
		return intent.Intent{}, ErrEncounterOver
	}
	return p.queue.Add(s, p.catalog, cardSlot, target)
}

// Unstage removes a staged intent.
func (p *Protocol) Unstage(id string) bool { return p.queue.Remove(id) }

// Reorder moves a staged intent.
func (p *Protocol) Reorder(from, to int) error { return p.queue.Reorder(from, to) }

// ClearQueue drops every staged intent.
func (p *Protocol) ClearQueue() { p.queue.Clear() }

// Preview predicts the snapshot after the staged batch resolves.
func (p *Protocol) Preview() (game.Snapshot, []engine.CardResult, error) {
	s, ok := p.mirror.Current()
	if !ok {
		return game.Snapshot{}, nil, ErrNoState
	}
	out, results, err := engine.ResolveBatch(s, p.catalog, p.queue.Plays())
	if err != nil {
		return s, results, err
	}
	out.Status = engine.Outcome(out)
	return out, results, nil
}
