package httpserver

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/robalobadob/connections/internal/round"
)

func TestHubPublish(t *testing.T) {
	h := NewHub("http://localhost:5173")
	a := h.Subscribe("alice")
	b := h.Subscribe("bob")

	h.Publish("alice", round.Event{Kind: round.EventGuessJudged})
	select {
	case e := <-a.ch:
		if e.Kind != round.EventGuessJudged {
			t.Fatalf("unexpected event %v", e.Kind)
		}
	default:
		t.Fatal("expected alice to receive the event")
	}
	select {
	case e := <-b.ch:
		t.Fatalf("bob received alice's event %v", e.Kind)
	default:
	}

	// A full buffer drops instead of blocking.
	for i := 0; i < eventBuffer+5; i++ {
		h.Publish("alice", round.Event{Kind: round.EventGroupRevealed})
	}
	if len(a.ch) != eventBuffer {
		t.Fatalf("expected a full buffer, got %d", len(a.ch))
	}

	if h.Count("alice") != 1 {
		t.Fatalf("expected one stream for alice, got %d", h.Count("alice"))
	}
	h.Unsubscribe(a)
	h.Unsubscribe(a)
	if h.Count("alice") != 0 {
		t.Fatal("expected alice unsubscribed")
	}
	// Publishing after the channel is closed must not panic.
	h.Publish("alice", round.Event{Kind: round.EventGameOver})
}

func TestEventStream(t *testing.T) {
	srv := newTestServer(t)
	ts := httptest.NewServer(srv.Router())
	defer ts.Close()

	// Mint a session.
	req, _ := http.NewRequest(http.MethodGet, ts.URL+"/puzzles", nil)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	token := resp.Header.Get(sessionHeader)
	playerID, err := srv.sessions.parse(token)
	if err != nil {
		t.Fatalf("session: %v", err)
	}

	hdr := http.Header{}
	hdr.Set("Authorization", "Bearer "+token)
	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(ts.URL, "http")+"/round/events", hdr)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	deadline := time.Now().Add(2 * time.Second)
	for srv.hub.Count(playerID) == 0 {
		if time.Now().After(deadline) {
			t.Fatal("stream never subscribed")
		}
		time.Sleep(5 * time.Millisecond)
	}

	post := func(path, body string) {
		req, _ := http.NewRequest(http.MethodPost, ts.URL+path, strings.NewReader(body))
		req.Header.Set("Authorization", "Bearer "+token)
		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			t.Fatal(err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("%s: status %d", path, resp.StatusCode)
		}
	}
	post("/round/new", `{}`)
	for _, id := range []string{"4", "5", "6", "7"} {
		post("/round/select", `{"cellId":`+id+`}`)
	}
	post("/round/submit", "")

	want := []round.EventKind{round.EventGuessJudged, round.EventGroupRelocated, round.EventGroupRevealed}
	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	for i, kind := range want {
		var e round.Event
		if err := conn.ReadJSON(&e); err != nil {
			t.Fatalf("read event %d: %v", i, err)
		}
		if e.Kind != kind {
			t.Fatalf("event %d: expected %s, got %s", i, kind, e.Kind)
		}
		if kind == round.EventGroupRevealed && (e.Group == nil || e.Group.Level != 1) {
			t.Fatalf("expected level 1 revealed, got %+v", e.Group)
		}
	}
}

func TestEventStreamRejectsForeignOrigin(t *testing.T) {
	ts := httptest.NewServer(newTestServer(t).Router())
	defer ts.Close()

	hdr := http.Header{}
	hdr.Set("Origin", "http://evil.example")
	_, resp, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(ts.URL, "http")+"/round/events", hdr)
	if err == nil {
		t.Fatal("expected the upgrade to be refused")
	}
	if resp == nil || resp.StatusCode != http.StatusForbidden {
		t.Fatalf("expected 403, got %v", resp)
	}
}
