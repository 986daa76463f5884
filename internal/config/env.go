package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// ServerEnv holds the authority server's runtime settings.
type ServerEnv struct {
	Address    string        `env:"THEGATE_ADDRESS"`
	DBPath     string        `env:"THEGATE_DB"          envDefault:"./data/thegate.db"`
	ConfigPath string        `env:"THEGATE_CONFIG"      envDefault:"./thegate_config.json"`
	BlockTime  time.Duration `env:"THEGATE_BLOCK_TIME"  envDefault:"1s"`
	Seed       int64         `env:"THEGATE_SEED"`
	LogLevel   string        `env:"THEGATE_LOG_LEVEL"   envDefault:"info"`
	LogFormat  string        `env:"THEGATE_LOG_FORMAT"  envDefault:"json"`
}

// ClientEnv holds the bot client's runtime settings.
type ClientEnv struct {
	AuthorityURL   string        `env:"THEGATE_AUTHORITY_URL"   envDefault:"http://127.0.0.1:8080"`
	PlayerID       string        `env:"THEGATE_PLAYER_ID"       envDefault:"bot"`
	Encounter      string        `env:"THEGATE_ENCOUNTER"       envDefault:"gate"`
	PollInterval   time.Duration `env:"THEGATE_POLL_INTERVAL"   envDefault:"2s"`
	CardDelay      time.Duration `env:"THEGATE_CARD_DELAY"      envDefault:"600ms"`
	EnemyDelay     time.Duration `env:"THEGATE_ENEMY_DELAY"     envDefault:"800ms"`
	ConfirmTimeout time.Duration `env:"THEGATE_CONFIRM_TIMEOUT" envDefault:"30s"`
	RetryCount     int           `env:"THEGATE_RETRY_COUNT"     envDefault:"5"`
	RetryDelay     time.Duration `env:"THEGATE_RETRY_DELAY"     envDefault:"500ms"`
	AutoEndTurn    bool          `env:"THEGATE_AUTO_END_TURN"   envDefault:"true"`
	MaxTurns       int           `env:"THEGATE_MAX_TURNS"       envDefault:"50"`
	LogLevel       string        `env:"THEGATE_LOG_LEVEL"       envDefault:"info"`
	LogFormat      string        `env:"THEGATE_LOG_FORMAT"      envDefault:"text"`
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}
