package main

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/robalobadob/connections/assets"
	"github.com/robalobadob/connections/internal/config"
	"github.com/robalobadob/connections/internal/kv"
)

func TestMigrateIsIdempotent(t *testing.T) {
	db, err := openDB(filepath.Join(t.TempDir(), "nested", "test.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer db.Close()

	migrations, err := assets.Migrations()
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 2; i++ {
		if err := migrate(db, migrations); err != nil {
			t.Fatalf("migrate run %d: %v", i, err)
		}
	}

	var n int
	if err := db.QueryRow(`SELECT COUNT(*) FROM _migrations`).Scan(&n); err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Fatalf("expected 1 recorded migration, got %d", n)
	}

	store := kv.NewSQLite(db)
	if err := store.Put(context.Background(), "k", []byte("v")); err != nil {
		t.Fatalf("kv table missing: %v", err)
	}
}

func TestOpenKVMemory(t *testing.T) {
	s, closeFn, err := openKV(config.MemoryDB)
	if err != nil {
		t.Fatal(err)
	}
	defer closeFn()
	if err := s.Put(context.Background(), "k", []byte("v")); err != nil {
		t.Fatal(err)
	}
}

func TestPuzzleSourceSelection(t *testing.T) {
	tests := []struct {
		cfg  config.Config
		want string
	}{
		{config.Config{PuzzlesFile: "p.json", PocketBaseURL: "http://pb"}, "file"},
		{config.Config{PocketBaseURL: "http://pb", PocketBaseCollection: "puzzles"}, "pocketbase"},
		{config.Config{}, "http"},
	}
	for _, tc := range tests {
		if got := puzzleSource(tc.cfg).Name(); got != tc.want {
			t.Errorf("source for %+v = %s, want %s", tc.cfg, got, tc.want)
		}
	}
}
