package service

import (
	"context"
	"errors"
	"math/rand"
	"sync"
	"time"

	"github.com/eviterin/thegate/internal/authority"
	"github.com/eviterin/thegate/internal/config"
	"github.com/eviterin/thegate/internal/game"
)

var (
	ErrUnknownEncounter    = errors.New("unknown encounter")
	ErrEncounterInProgress = errors.New("encounter already in progress")
	ErrNotInProgress       = errors.New("encounter is not in progress")
	ErrEmptyBatch          = errors.New("batch has no plays")
	ErrInvalidPlayerID     = errors.New("invalid player id")
)

// Repo is the minimal repository interface required by the authority.
type Repo interface {
	GetEncounter(playerID string) (*game.Encounter, error)
	SaveEncounter(e *game.Encounter) error
	CreateTransaction(tx *game.Transaction) error
	GetTransaction(txID string) (*game.Transaction, error)
	PendingTransactions(limit int) ([]game.Transaction, error)
	UpdateTransaction(tx *game.Transaction) error
	ApplyTransaction(e *game.Encounter, tx *game.Transaction) error
	LatestBlock() (uint64, error)
}

// Notifier is told about every settled transaction.
type Notifier interface {
	Notify(playerID string, rc authority.Receipt)
}

// Options tunes the authority.
type Options struct {
	// Seed feeds the RNG for shuffles and enemy intents; 0 picks a
	// time-based seed.
	Seed int64
	// BlockTime is the block producer's interval.
	BlockTime time.Duration
	// ConfirmPoll is how often AwaitConfirmation re-reads a pending
	// transaction.
	ConfirmPoll time.Duration
	// BlockLimit caps the transactions applied per block.
	BlockLimit int
	Notifier   Notifier
}

// Authority is the in-process system of record. Submissions are stored as
// pending transactions and applied in submission order by ProduceBlock.
type Authority struct {
	repo    Repo
	cfg     *config.LoadedConfig
	catalog game.Catalog
	opts    Options

	// mu serializes block production and encounter writes; rng is only
	// used while it is held.
	mu    sync.Mutex
	rng   *rand.Rand
	block uint64
}

var _ authority.Authority = (*Authority)(nil)

// New builds the authority and resumes the block counter from storage.
func New(repo Repo, cfg *config.LoadedConfig, opts Options) (*Authority, error) {
	if opts.Seed == 0 {
		opts.Seed = time.Now().UnixNano()
	}
	if opts.BlockTime <= 0 {
		opts.BlockTime = time.Second
	}
	if opts.ConfirmPoll <= 0 {
		opts.ConfirmPoll = 50 * time.Millisecond
	}
	if opts.BlockLimit <= 0 {
		opts.BlockLimit = 100
	}
	last, err := repo.LatestBlock()
	if err != nil {
		return nil, err
	}
	return &Authority{
		repo:    repo,
		cfg:     cfg,
		catalog: cfg.Catalog(),
		opts:    opts,
		rng:     rand.New(rand.NewSource(opts.Seed)),
		block:   last,
	}, nil
}

// Catalog returns the static card table.
func (a *Authority) Catalog(ctx context.Context) (game.Catalog, error) {
	return a.catalog, nil
}

// Encounters lists the encounters a player can start.
func (a *Authority) Encounters() []game.EncounterDefinition {
	return a.cfg.Encounters
}

// Block returns the number of the last produced block.
func (a *Authority) Block() uint64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.block
}
