package main

import (
	"os"
	"path/filepath"

	"github.com/eviterin/thegate/internal/config"
	"github.com/eviterin/thegate/internal/logging"
	"github.com/eviterin/thegate/internal/storage"
)

func loadConfigOrExit(path string) *config.LoadedConfig {
	cfg, err := config.LoadConfig(path)
	if err != nil {
		logging.Fatal("Missing or invalid thegate configuration", err, logging.Fields{"config_path": path, "hint": "card_list entries need id,name,mana_cost,effect,amount; encounter_list entries need key,hero_max_health,max_mana,hand_size,deck,enemies"})
	}
	return cfg
}

func createRepositoryOrExit(dbPath string) storage.Repository {
	if dir := filepath.Dir(dbPath); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			logging.Fatal("Failed to create database directory", err, logging.Fields{"dir": dir})
		}
	}
	db, err := storage.OpenAndMigrate(dbPath)
	if err != nil {
		logging.Fatal("Failed to initialize database", err, nil)
	}
	return storage.NewSQLiteRepository(db)
}
