package engine

import (
	"fmt"

	"github.com/eviterin/thegate/internal/game"
)

// EffectiveIndices maps every play's declared hand slot to the slot it
// occupies when its turn in the batch comes: the declared index minus the
// number of earlier plays whose declared index was smaller.
func EffectiveIndices(plays []game.Play) ([]int, error) {
	out := make([]int, len(plays))
	for k, p := range plays {
		shift := 0
		for j := 0; j < k; j++ {
			if plays[j].CardIndex == p.CardIndex {
				return nil, fmt.Errorf("%w: slot %d at plays %d and %d", ErrDuplicateCardIndex, p.CardIndex, j, k)
			}
			if plays[j].CardIndex < p.CardIndex {
				shift++
			}
		}
		out[k] = p.CardIndex - shift
	}
	return out, nil
}

// Batch resolves a list of plays one step at a time so callers can animate
// each step. The hand size seen by hand-size predicates is sampled once,
// before the first play.
type Batch struct {
	catalog  game.Catalog
	plays    []game.Play
	indices  []int
	handSize int
	cur      game.Snapshot
	next     int
}

// NewBatch prepares plays against s. It fails when two plays name the same
// hand slot.
func NewBatch(s game.Snapshot, catalog game.Catalog, plays []game.Play) (*Batch, error) {
	idx, err := EffectiveIndices(plays)
	if err != nil {
		return nil, err
	}
	return &Batch{
		catalog:  catalog,
		plays:    append([]game.Play(nil), plays...),
		indices:  idx,
		handSize: len(s.Hand),
		cur:      s.Clone(),
	}, nil
}

// Next resolves the next play. ok is false once every play has resolved.
// After an error the batch stays at the last good snapshot.
func (b *Batch) Next() (res CardResult, ok bool, err error) {
	if b.next >= len(b.plays) {
		return CardResult{}, false, nil
	}
	k := b.next
	p := b.plays[k]
	out, res, err := resolveCard(b.cur, b.catalog, b.indices[k], p.TargetIndex, b.handSize)
	if err != nil {
		return CardResult{}, false, fmt.Errorf("play %d (slot %d): %w", k, p.CardIndex, err)
	}
	res.CardIndex = p.CardIndex
	res.EffectiveIndex = b.indices[k]
	b.cur = out
	b.next++
	return res, true, nil
}

// Snapshot returns the state after the plays resolved so far.
func (b *Batch) Snapshot() game.Snapshot { return b.cur.Clone() }

// Remaining returns how many plays have not resolved yet.
func (b *Batch) Remaining() int { return len(b.plays) - b.next }

// ResolveBatch applies plays sequentially in order, each step's output being
// the next step's input.
func ResolveBatch(s game.Snapshot, catalog game.Catalog, plays []game.Play) (game.Snapshot, []CardResult, error) {
	b, err := NewBatch(s, catalog, plays)
	if err != nil {
		return s, nil, err
	}
	results := make([]CardResult, 0, len(plays))
	for {
		res, ok, err := b.Next()
		if err != nil {
			return s, results, err
		}
		if !ok {
			break
		}
		results = append(results, res)
	}
	return b.cur, results, nil
}
