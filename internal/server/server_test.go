package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"warrior-server/internal/engine"
	"warrior-server/internal/infrastructure/storage"
	"warrior-server/pkg/api"
	"warrior-server/pkg/content"
	"warrior-server/pkg/logger"

	"github.com/gorilla/websocket"
)

func TestMain(m *testing.M) {
	logger.Init()
	os.Exit(m.Run())
}

func newTestServer(t *testing.T, saves SlotLister) (*httptest.Server, *engine.ArenaService) {
	t.Helper()
	reg, err := content.Default()
	if err != nil {
		t.Fatal(err)
	}
	cfg := engine.NewConfig()
	cfg.Seed = 1

	svc := engine.NewService(cfg, reg, nil)
	ctx, cancel := context.WithCancel(context.Background())
	go svc.Run(ctx)

	ts := httptest.NewServer(New(svc, saves, "0").Router())
	t.Cleanup(func() {
		ts.Close()
		cancel()
	})
	return ts, svc
}

func post(t *testing.T, url, body string) *http.Response {
	t.Helper()
	resp, err := http.Post(url, "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestPublicRoutes(t *testing.T) {
	ts, _ := newTestServer(t, nil)

	tests := []struct {
		path   string
		status int
		ctype  string
		cors   bool
	}{
		{"/health", http.StatusOK, "", true},
		{"/version", http.StatusOK, "application/json", true},
		{"/debug/state", http.StatusOK, "application/json", true},
		{"/debug/saves", http.StatusNotFound, "", true},
		// middleware mux не вызывается для несовпавших маршрутов
		{"/nope", http.StatusNotFound, "", false},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			resp, err := http.Get(ts.URL + tt.path)
			if err != nil {
				t.Fatal(err)
			}
			defer resp.Body.Close()
			if resp.StatusCode != tt.status {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.status)
			}
			if tt.ctype != "" && resp.Header.Get("Content-Type") != tt.ctype {
				t.Errorf("content type = %q", resp.Header.Get("Content-Type"))
			}
			if tt.cors && resp.Header.Get("Access-Control-Allow-Origin") != "*" {
				t.Error("CORS header missing")
			}
		})
	}
}

func TestDebugState(t *testing.T) {
	ts, _ := newTestServer(t, nil)

	resp, err := http.Get(ts.URL + "/debug/state")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	var snap api.ServerResponse
	if err := json.NewDecoder(resp.Body).Decode(&snap); err != nil {
		t.Fatal(err)
	}
	if snap.Type != "SNAPSHOT" || snap.Player.Name == "" {
		t.Errorf("unexpected snapshot %+v", snap)
	}
}

func TestDebugCommands(t *testing.T) {
	ts, _ := newTestServer(t, nil)

	tests := []struct {
		name   string
		action string
		body   string
		status int
	}{
		{"UnknownAction", "dance", "", http.StatusNotFound},
		{"BrokenBody", "train", "{oops", http.StatusBadRequest},
		{"InvalidPayload", "quality", `{"quality":500}`, http.StatusConflict},
		{"SaveWithoutStore", "save", "", http.StatusConflict},
		{"AbortNothing", "abort", "", http.StatusConflict},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := post(t, ts.URL+"/debug/commands/"+tt.action, tt.body)
			if resp.StatusCode != tt.status {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.status)
			}
		})
	}

	resp, err := http.Get(ts.URL + "/debug/commands/abort")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusMethodNotAllowed {
		t.Errorf("GET on a command must be rejected, got %d", resp.StatusCode)
	}
}

func TestDebugCombatOnlyDuringFight(t *testing.T) {
	ts, _ := newTestServer(t, nil)

	resp, err := http.Get(ts.URL + "/debug/combat")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("expected 404 outside combat, got %d", resp.StatusCode)
	}
}

func TestDebugSaves(t *testing.T) {
	store, err := storage.Open(filepath.Join(t.TempDir(), "saves.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()
	if err := store.Save(context.Background(), "alpha", []byte(`{}`)); err != nil {
		t.Fatal(err)
	}

	ts, _ := newTestServer(t, store)
	resp, err := http.Get(ts.URL + "/debug/saves")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	var slots []storage.SlotInfo
	if err := json.NewDecoder(resp.Body).Decode(&slots); err != nil {
		t.Fatal(err)
	}
	if len(slots) != 1 || slots[0].Slot != "alpha" {
		t.Errorf("unexpected slots %+v", slots)
	}
}

func TestSpectatorStream(t *testing.T) {
	ts, svc := newTestServer(t, nil)

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer conn.Close()

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var first, next api.ServerResponse
	if err := conn.ReadJSON(&first); err != nil {
		t.Fatal(err)
	}
	if err := conn.ReadJSON(&next); err != nil {
		t.Fatal(err)
	}
	if next.Tick < first.Tick {
		t.Errorf("ticks must not go back: %d then %d", first.Tick, next.Tick)
	}
	if svc.Hub.SubscriberCount() != 1 {
		t.Errorf("expected one spectator, got %d", svc.Hub.SubscriberCount())
	}
}
