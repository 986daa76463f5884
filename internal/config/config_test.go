package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "thegate_config.json")
	if err := os.WriteFile(p, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return p
}

func TestLoadConfig_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.json"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cfg.Cards) != 8 || cfg.ServerAddress != DefaultServerAddress {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if err := Defaults().Validate(); err != nil {
		t.Fatalf("defaults must validate: %v", err)
	}
	if _, ok := cfg.Encounter("Crypt"); !ok {
		t.Fatalf("expected built-in crypt encounter")
	}
}

func TestLoadConfig_OverridesAndNormalizesKeys(t *testing.T) {
	p := writeConfig(t, `{
		"server": {"address": ":9090"},
		"encounter_list": [{
			"name": "Bone Pit", "hero_max_health": 30, "max_mana": 4, "hand_size": 6,
			"deck": [1,1,2,2,5],
			"enemies": [{"name": "Skeleton", "max_health": 9, "intents": [3, 1000]}]
		}]
	}`)
	cfg, err := LoadConfig(p)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.ServerAddress != ":9090" {
		t.Fatalf("address = %q", cfg.ServerAddress)
	}
	e, ok := cfg.Encounter("bone_pit")
	if !ok || e.HandSize != 6 {
		t.Fatalf("encounter not loaded: %+v", cfg.Encounters)
	}
	if len(cfg.Cards) != 8 {
		t.Fatalf("cards should keep defaults")
	}
}

func TestLoadConfig_Rejects(t *testing.T) {
	cases := map[string]string{
		"duplicate card name": `{"card_list": [
			{"id": 1, "name": "Smite", "effect": "damage", "amount": 6},
			{"id": 2, "name": "smite", "effect": "block", "amount": 5}]}`,
		"unknown effect": `{"card_list": [{"id": 1, "name": "Zap", "effect": "zap"}]}`,
		"unrecognized intent": `{"encounter_list": [{"key": "x", "hero_max_health": 1, "max_mana": 1, "hand_size": 1,
			"deck": [1,1,1,1,1], "enemies": [{"max_health": 5, "intents": [1500]}]}]}`,
		"small deck": `{"encounter_list": [{"key": "x", "hero_max_health": 1, "max_mana": 1, "hand_size": 1,
			"deck": [1], "enemies": [{"max_health": 5, "intents": [3]}]}]}`,
		"bad json": `{`,
	}
	for name, body := range cases {
		if _, err := LoadConfig(writeConfig(t, body)); err == nil {
			t.Fatalf("%s: expected error", name)
		}
	}
}

func TestValidateDeck(t *testing.T) {
	cat := Defaults().Catalog()
	if err := ValidateDeck(cat, DefaultDeck); err != nil {
		t.Fatalf("default deck: %v", err)
	}
	err := ValidateDeck(cat, []int{1, 1, 1, 1, 99})
	if !errors.Is(err, ErrInvalidDeck) || !strings.Contains(err.Error(), "99") {
		t.Fatalf("expected unknown card error, got %v", err)
	}
}

func TestParseEnv(t *testing.T) {
	t.Setenv("THEGATE_BLOCK_TIME", "250ms")
	t.Setenv("THEGATE_RETRY_COUNT", "9")

	var s ServerEnv
	if err := ParseEnv(&s); err != nil {
		t.Fatalf("server env: %v", err)
	}
	if s.BlockTime != 250*time.Millisecond || s.DBPath == "" {
		t.Fatalf("unexpected server env: %+v", s)
	}

	var c ClientEnv
	if err := ParseEnv(&c); err != nil {
		t.Fatalf("client env: %v", err)
	}
	if c.RetryCount != 9 || !c.AutoEndTurn {
		t.Fatalf("unexpected client env: %+v", c)
	}

	t.Setenv("THEGATE_RETRY_COUNT", "many")
	if err := ParseEnv(&c); err == nil {
		t.Fatalf("expected parse error")
	}
}
