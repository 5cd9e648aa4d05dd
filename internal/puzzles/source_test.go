package puzzles

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/robalobadob/connections/internal/puzzle"
)

const samplePayload = `[{"id":1,"date":"2024-05-01","answers":[
 {"level":0,"group":"FISH","members":["BASS","SOLE","PIKE","CARP"]},
 {"level":1,"group":"KEYS","members":["SHIFT","TAB","ESCAPE","RETURN"]},
 {"level":2,"group":"CARD GAMES","members":["SNAP","RUMMY","BRIDGE","POKER"]},
 {"level":3,"group":"___BALL","members":["FOOT","BASKET","HAND","SNOW"]}]}]`

func TestHTTPSource(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr error
	}{
		{name: "ok", status: http.StatusOK, body: samplePayload},
		{name: "server error", status: http.StatusBadGateway, body: "nope", wantErr: ErrNetwork},
		{name: "bad json", status: http.StatusOK, body: "{", wantErr: ErrParse},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				_, _ = w.Write([]byte(tc.body))
			}))
			defer srv.Close()

			list, err := NewHTTPSource(srv.URL, time.Second).Fetch(context.Background())
			if tc.wantErr != nil {
				if !errors.Is(err, tc.wantErr) {
					t.Fatalf("expected %v, got %v", tc.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("fetch: %v", err)
			}
			if len(list) != 1 || list[0].Validate() != nil {
				t.Fatalf("unexpected list: %+v", list)
			}
		})
	}
}

func TestHTTPSourceUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	if _, err := NewHTTPSource(url, time.Second).Fetch(context.Background()); !errors.Is(err, ErrNetwork) {
		t.Fatalf("expected ErrNetwork, got %v", err)
	}
}

func TestFileSource(t *testing.T) {
	path := filepath.Join(t.TempDir(), "puzzles.json")
	if err := os.WriteFile(path, []byte(samplePayload), 0o644); err != nil {
		t.Fatal(err)
	}
	list, err := NewFileSource(path).Fetch(context.Background())
	if err != nil || len(list) != 1 {
		t.Fatalf("fetch: %v %+v", err, list)
	}
	if _, err := NewFileSource(path + ".missing").Fetch(context.Background()); !errors.Is(err, ErrNetwork) {
		t.Fatalf("expected ErrNetwork for a missing file, got %v", err)
	}
}

func TestRecordToPuzzle(t *testing.T) {
	item := map[string]any{
		"id":     "r8s7k2",
		"number": 12,
		"date":   "2024-05-01 00:00:00.000Z",
		"answers": []any{
			map[string]any{"level": 0, "group": "A", "members": []any{"a", "b", "c", "d"}},
		},
	}
	p, err := recordToPuzzle(item)
	if err != nil {
		t.Fatal(err)
	}
	if p.ID != 12 || p.Date != "2024-05-01" || len(p.Groups) != 1 || p.Groups[0].Label != "A" {
		t.Fatalf("unexpected puzzle: %+v", p)
	}

	if _, err := recordToPuzzle(map[string]any{"number": "twelve"}); !errors.Is(err, ErrParse) {
		t.Fatalf("expected ErrParse, got %v", err)
	}
}

func TestBundled(t *testing.T) {
	list, err := Bundled()
	if err != nil {
		t.Fatal(err)
	}
	ok, errs := puzzle.Filter(list)
	if len(errs) != 0 || len(ok) == 0 {
		t.Fatalf("bundled list has invalid puzzles: %v", errs)
	}
}
