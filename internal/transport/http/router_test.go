package httptransport

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"blackjack-server/internal/config"
	"blackjack-server/internal/registry"
	"blackjack-server/internal/store"
	"blackjack-server/internal/table"
)

type downPinger struct{}

func (downPinger) Ping(context.Context) error { return errors.New("down") }

func newTestRouter(t *testing.T, cfg config.ServerConfig) (http.Handler, *registry.Registry) {
	t.Helper()
	fs, err := store.NewFileStore(t.TempDir(), "login.txt", "scoreboard.txt")
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	reg, err := registry.New(context.Background(), fs, nil, registry.Options{
		Table: table.Options{Tick: time.Second},
	})
	if err != nil {
		t.Fatalf("registry.New: %v", err)
	}
	t.Cleanup(reg.Close)
	return NewRouter(reg, fs, cfg), reg
}

func getJSON(t *testing.T, h http.Handler, path string, header map[string]string) (int, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for k, v := range header {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("%s: decode %q: %v", path, rec.Body.String(), err)
	}
	return rec.Code, body
}

func TestHealth(t *testing.T) {
	h, _ := newTestRouter(t, config.ServerConfig{})
	code, body := getJSON(t, h, "/healthz", nil)
	if code != http.StatusOK || body["ok"] != true {
		t.Fatalf("healthz = %d %v", code, body)
	}

	down := NewRouter(nil, downPinger{}, config.ServerConfig{})
	code, body = getJSON(t, down, "/healthz", nil)
	if code != http.StatusServiceUnavailable || body["store"] != "down" {
		t.Fatalf("healthz down = %d %v", code, body)
	}
}

func TestPublicEndpoints(t *testing.T) {
	ctx := context.Background()
	h, reg := newTestRouter(t, config.ServerConfig{})
	for _, u := range []string{"alice", "bob"} {
		if err := reg.Register(ctx, u, "pw"); err != nil {
			t.Fatalf("Register: %v", err)
		}
	}
	if err := reg.Authenticate(ctx, "bob", "pw"); err != nil {
		t.Fatalf("Authenticate: %v", err)
	}
	if err := reg.AddRoom(ctx, "lobby", 1, 0); err != nil {
		t.Fatalf("AddRoom: %v", err)
	}
	if err := reg.AddRoom(ctx, "t1", 0, 1); err != nil {
		t.Fatalf("AddRoom: %v", err)
	}
	if err := reg.JoinRoom(ctx, "t1", "alice"); err != nil {
		t.Fatalf("JoinRoom: %v", err)
	}
	if err := reg.StartGame(ctx, "t1"); err != nil {
		t.Fatalf("StartGame: %v", err)
	}

	_, body := getJSON(t, h, "/api/public/scoreboard?limit=1", nil)
	items := body["items"].([]any)
	if body["total"] != float64(2) || len(items) != 1 {
		t.Fatalf("scoreboard = %v", body)
	}
	if first := items[0].(map[string]any); first["username"] != "alice" || first["rank"] != float64(1) {
		t.Fatalf("scoreboard first = %v", first)
	}

	_, body = getJSON(t, h, "/api/public/rooms", nil)
	rooms := body["items"].([]any)
	if len(rooms) != 1 {
		t.Fatalf("rooms = %v", body)
	}
	room := rooms[0].(map[string]any)
	players := room["players"].([]any)
	if room["name"] != "lobby" || len(players) != 1 || players[0].(map[string]any)["policy"] != "simple" {
		t.Fatalf("room = %v", room)
	}

	_, body = getJSON(t, h, "/api/public/tables", nil)
	tables := body["items"].([]any)
	if len(tables) != 1 {
		t.Fatalf("tables = %v", body)
	}
	tbl := tables[0].(map[string]any)
	if tbl["name"] != "t1" || tbl["phase"] != "betting" || tbl["humans"] != float64(1) || len(tbl["players"].([]any)) != 2 {
		t.Fatalf("table = %v", tbl)
	}

	_, body = getJSON(t, h, "/api/public/users", nil)
	if users := body["items"].([]any); len(users) != 1 || users[0] != "bob" {
		t.Fatalf("users = %v", body)
	}
}

func TestDebugVarsRequiresAdminKey(t *testing.T) {
	h, _ := newTestRouter(t, config.ServerConfig{AdminAPIKey: "secret"})
	code, _ := getJSON(t, h, "/api/debug/vars", nil)
	if code != http.StatusUnauthorized {
		t.Fatalf("unauthenticated vars = %d", code)
	}
	code, body := getJSON(t, h, "/api/debug/vars", map[string]string{"X-Admin-Key": "secret"})
	if code != http.StatusOK {
		t.Fatalf("vars = %d", code)
	}
	if _, ok := body["public_query_total"]; !ok {
		t.Fatalf("vars missing public_query_total")
	}
	code, _ = getJSON(t, h, "/api/debug/vars", map[string]string{"Authorization": "Bearer secret"})
	if code != http.StatusOK {
		t.Fatalf("bearer vars = %d", code)
	}
}

func TestParsePagination(t *testing.T) {
	cases := []struct {
		query         string
		limit, offset int
	}{
		{"", 50, 0},
		{"?limit=10&offset=20", 10, 20},
		{"?limit=0&offset=-3", 1, 0},
		{"?limit=9999", 500, 0},
		{"?limit=x", 50, 0},
	}
	for _, tc := range cases {
		req := httptest.NewRequest(http.MethodGet, "/api/public/scoreboard"+tc.query, nil)
		limit, offset := ParsePagination(req)
		if limit != tc.limit || offset != tc.offset {
			t.Fatalf("%q = %d,%d want %d,%d", tc.query, limit, offset, tc.limit, tc.offset)
		}
	}
}
