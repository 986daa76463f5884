// Package intent holds the client-side queue of staged card plays.
package intent

import (
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/eviterin/thegate/internal/game"
)

var (
	ErrInsufficientMana   = errors.New("insufficient mana")
	ErrCardAlreadyQueued  = errors.New("card already queued")
	ErrCardSlotOutOfRange = errors.New("card slot out of range")
	ErrInvalidTarget      = errors.New("invalid target")
	ErrPositionOutOfRange = errors.New("queue position out of range")
)

// Intent is one staged play. CardIndex is the hand slot at declaration time.
type Intent struct {
	ID          string `json:"id"`
	CardIndex   int    `json:"card_index"`
	CardID      int    `json:"card_id"`
	TargetIndex int    `json:"target_index"`
	ManaCost    int    `json:"mana_cost"`
	Targeted    bool   `json:"targeted"`
}

// Queue is an ordered list of intents. The sum of queued mana costs never
// exceeds the mana of the snapshot the last Add was checked against.
type Queue struct {
	mu      sync.Mutex
	intents []Intent
}

// New returns an empty queue.
func New() *Queue { return &Queue{} }

// Add stages the card in cardSlot of s.Hand against target. Mana is checked
// against s.Mana, the live value, every time. On error the queue is unchanged.
func (q *Queue) Add(s game.Snapshot, catalog game.Catalog, cardSlot, target int) (Intent, error) {
	if cardSlot < 0 || cardSlot >= len(s.Hand) {
		return Intent{}, fmt.Errorf("%w: slot %d, hand has %d cards", ErrCardSlotOutOfRange, cardSlot, len(s.Hand))
	}
	def, _ := catalog.Lookup(s.Hand[cardSlot])
	if def.Targeted {
		if !s.EnemyAlive(target) {
			return Intent{}, fmt.Errorf("%w: enemy %d", ErrInvalidTarget, target)
		}
	} else {
		target = 0
	}

	q.mu.Lock()
	defer q.mu.Unlock()

	for _, it := range q.intents {
		if it.CardIndex == cardSlot {
			return Intent{}, fmt.Errorf("%w: slot %d", ErrCardAlreadyQueued, cardSlot)
		}
	}
	if q.queuedManaLocked()+def.ManaCost > s.Mana {
		return Intent{}, fmt.Errorf("%w: need %d, have %d", ErrInsufficientMana, q.queuedManaLocked()+def.ManaCost, s.Mana)
	}

	it := Intent{
		ID:          uuid.NewString(),
		CardIndex:   cardSlot,
		CardID:      def.ID,
		TargetIndex: target,
		ManaCost:    def.ManaCost,
		Targeted:    def.Targeted,
	}
	q.intents = append(q.intents, it)
	return it, nil
}

// Remove drops the intent with id. It reports whether one was found.
func (q *Queue) Remove(id string) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	for i, it := range q.intents {
		if it.ID == id {
			q.intents = append(q.intents[:i], q.intents[i+1:]...)
			return true
		}
	}
	return false
}

// Reorder moves the intent at position from to position to.
func (q *Queue) Reorder(from, to int) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	n := len(q.intents)
	if from < 0 || from >= n || to < 0 || to >= n {
		return fmt.Errorf("%w: %d -> %d (len %d)", ErrPositionOutOfRange, from, to, n)
	}
	if from == to {
		return nil
	}
	it := q.intents[from]
	q.intents = append(q.intents[:from], q.intents[from+1:]...)
	q.intents = append(q.intents[:to], append([]Intent{it}, q.intents[to:]...)...)
	return nil
}

// Clear empties the queue.
func (q *Queue) Clear() {
	q.mu.Lock()
	q.intents = nil
	q.mu.Unlock()
}

// Intents returns a copy of the queued intents in order.
func (q *Queue) Intents() []Intent {
	q.mu.Lock()
	defer q.mu.Unlock()
	return append([]Intent(nil), q.intents...)
}

// Len returns the number of queued intents.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.intents)
}

// QueuedMana is the sum of the mana costs of all queued intents.
func (q *Queue) QueuedMana() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.queuedManaLocked()
}

func (q *Queue) queuedManaLocked() int {
	total := 0
	for _, it := range q.intents {
		total += it.ManaCost
	}
	return total
}

// Remaining returns the mana left after the queued intents are paid for.
func (q *Queue) Remaining(mana int) int {
	return mana - q.QueuedMana()
}

// Plays converts the queue into the batch submitted to the authority.
func (q *Queue) Plays() []game.Play {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := make([]game.Play, len(q.intents))
	for i, it := range q.intents {
		out[i] = game.Play{CardIndex: it.CardIndex, TargetIndex: it.TargetIndex}
	}
	return out
}

// Revalidate drops intents that no longer hold against s: the slot no longer
// holds the same card, the target died, or the running mana total would
// exceed s.Mana. It returns the dropped intents.
func (q *Queue) Revalidate(s game.Snapshot) []Intent {
	q.mu.Lock()
	defer q.mu.Unlock()
	kept := q.intents[:0:0]
	var dropped []Intent
	spent := 0
	for _, it := range q.intents {
		switch {
		case it.CardIndex >= len(s.Hand) || s.Hand[it.CardIndex] != it.CardID:
			dropped = append(dropped, it)
		case it.Targeted && !s.EnemyAlive(it.TargetIndex):
			dropped = append(dropped, it)
		case spent+it.ManaCost > s.Mana:
			dropped = append(dropped, it)
		default:
			spent += it.ManaCost
			kept = append(kept, it)
		}
	}
	q.intents = kept
	return dropped
}
