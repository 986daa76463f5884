package storage

import (
	"errors"

	"github.com/eviterin/thegate/internal/game"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type sqliteRepository struct {
	db *gorm.DB
}

func NewSQLiteRepository(db *gorm.DB) Repository {
	return &sqliteRepository{db: db}
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}

func (r *sqliteRepository) GetEncounter(playerID string) (*game.Encounter, error) {
	var e game.Encounter
	if err := r.db.Where("player_id = ?", playerID).First(&e).Error; err != nil {
		return nil, notFound(err)
	}
	return &e, nil
}

func (r *sqliteRepository) SaveEncounter(e *game.Encounter) error {
	if e.ID != 0 {
		return r.db.Save(e).Error
	}
	// A player restarting an encounter replaces the previous row instead of
	// failing on the unique player_id index.
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "player_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"updated_at", "deleted_at", "encounter_key", "snapshot", "draw_pile", "discard_pile", "hand_size", "intent_pools", "last_block"}),
	}).Create(e).Error
}

func (r *sqliteRepository) CreateTransaction(tx *game.Transaction) error {
	return r.db.Create(tx).Error
}

func (r *sqliteRepository) GetTransaction(txID string) (*game.Transaction, error) {
	var t game.Transaction
	if err := r.db.Where("tx_id = ?", txID).First(&t).Error; err != nil {
		return nil, notFound(err)
	}
	return &t, nil
}

func (r *sqliteRepository) PendingTransactions(limit int) ([]game.Transaction, error) {
	if limit <= 0 {
		limit = 100
	}
	var txs []game.Transaction
	if err := r.db.Where("status = ?", game.TxPending).
		Order("id ASC").
		Limit(limit).
		Find(&txs).Error; err != nil {
		return nil, err
	}
	return txs, nil
}

func (r *sqliteRepository) UpdateTransaction(tx *game.Transaction) error {
	return r.db.Save(tx).Error
}

func (r *sqliteRepository) ApplyTransaction(e *game.Encounter, tx *game.Transaction) error {
	return r.db.Transaction(func(db *gorm.DB) error {
		if err := db.Save(e).Error; err != nil {
			return err
		}
		return db.Save(tx).Error
	})
}

func (r *sqliteRepository) LatestBlock() (uint64, error) {
	var n uint64
	if err := r.db.Model(&game.Transaction{}).Select("COALESCE(MAX(block), 0)").Scan(&n).Error; err != nil {
		return 0, err
	}
	return n, nil
}
