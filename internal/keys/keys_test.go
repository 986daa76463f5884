package keys

import "testing"

func TestEncounterKey(t *testing.T) {
	if got := EncounterKey("", "  Sunken Crypt "); got != "sunken_crypt" {
		t.Fatalf("unexpected key %q", got)
	}
	if got := EncounterKey("Crypt", "Sunken Crypt"); got != "crypt" {
		t.Fatalf("explicit key should win, got %q", got)
	}
}

func TestValidPlayerID(t *testing.T) {
	for _, ok := range []string{"p1", "0xAbC", "player.one_2-x"} {
		if !ValidPlayerID(ok) {
			t.Fatalf("%q should be valid", ok)
		}
	}
	long := make([]byte, 65)
	for i := range long {
		long[i] = 'a'
	}
	for _, bad := range []string{"", "has space", "semi;colon", string(long)} {
		if ValidPlayerID(bad) {
			t.Fatalf("%q should be invalid", bad)
		}
	}
}
