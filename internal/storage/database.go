package storage

import (
	"github.com/eviterin/thegate/internal/game"
	"github.com/eviterin/thegate/internal/logging"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// OpenAndMigrate opens the SQLite database and keeps the schema updated via
// AutoMigrate.
func OpenAndMigrate(dataSourceName string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(dataSourceName), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}

	if err := db.AutoMigrate(&game.Encounter{}, &game.Transaction{}); err != nil {
		return nil, err
	}

	// Speeds up the block producer's pending scan.
	if execErr := db.Exec("CREATE INDEX IF NOT EXISTS idx_transactions_status_id ON transactions(status, id);").Error; execErr != nil {
		return nil, execErr
	}
	logging.Info("database ready", logging.Fields{"dsn": dataSourceName})
	return db, nil
}
