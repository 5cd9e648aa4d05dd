package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	for _, k := range []string{"PORT", "DB_PATH", "PUZZLE_CACHE_TTL", "SESSION_DAYS", "ROUND_PACING_SCALE", "POCKETBASE_COLLECTION"} {
		t.Setenv(k, "")
	}
	c := Load()
	if c.Port != "5175" || c.DBPath != "./data/connections.db" {
		t.Fatalf("unexpected defaults: %+v", c)
	}
	if c.CacheTTL != 24*time.Hour || c.SessionDays != 180 || c.PacingScale != 1.0 {
		t.Fatalf("unexpected defaults: %+v", c)
	}
	if c.PocketBaseCollection != "puzzles" {
		t.Fatalf("unexpected collection %q", c.PocketBaseCollection)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "8080")
	t.Setenv("DB_PATH", MemoryDB)
	t.Setenv("PUZZLE_CACHE_TTL", "36h")
	t.Setenv("SESSION_DAYS", "7")
	t.Setenv("ROUND_PACING_SCALE", "0")
	t.Setenv("FETCH_TIMEOUT", "soon")

	c := Load()
	if c.Port != "8080" || c.DBPath != MemoryDB {
		t.Fatalf("unexpected overrides: %+v", c)
	}
	if c.CacheTTL != 36*time.Hour || c.SessionDays != 7 || c.PacingScale != 0 {
		t.Fatalf("unexpected overrides: %+v", c)
	}
	if c.FetchTimeout != 10*time.Second {
		t.Fatalf("expected default for an invalid duration, got %v", c.FetchTimeout)
	}
}
