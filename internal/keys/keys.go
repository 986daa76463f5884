package keys

import (
	"strings"
)

const maxPlayerIDLen = 64

// Normalize produces a canonical key for a display name.
// Behavior: trims, lower-cases and replaces spaces with underscores.
// Suitable for stable DB keys.
func Normalize(name string) string {
	s := strings.TrimSpace(name)
	return strings.ToLower(strings.ReplaceAll(s, " ", "_"))
}

// EncounterKey returns key normalized, or the normalized name when key is
// empty.
func EncounterKey(key, name string) string {
	if k := Normalize(key); k != "" {
		return k
	}
	return Normalize(name)
}

// ValidPlayerID reports whether id is usable as a player id: 1 to 64
// characters from [A-Za-z0-9_-] and '.'.
func ValidPlayerID(id string) bool {
	if id == "" || len(id) > maxPlayerIDLen {
		return false
	}
	for _, r := range id {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		case r == '-', r == '_', r == '.':
		default:
			return false
		}
	}
	return true
}
