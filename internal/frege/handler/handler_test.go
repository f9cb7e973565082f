package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/websocket"

	mdwlog "github.com/msto63/mAF/foundation/core/log"
	"github.com/msto63/mAF/internal/frege/service"
	"github.com/msto63/mAF/internal/frege/store"
	"github.com/msto63/mAF/pkg/core/health"
	"github.com/msto63/mAF/pkg/core/logging"
)

type fixture struct {
	server   *httptest.Server
	store    *store.MemoryStore
	registry *health.Registry
}

func setup(t *testing.T) *fixture {
	t.Helper()

	logger := logging.Wrap("test", mdwlog.Discard())
	mem := store.NewMemoryStore()
	svc, err := service.NewService(service.Config{MaxInputLength: 32, Store: mem, Logger: logger})
	if err != nil {
		t.Fatalf("NewService() error = %v", err)
	}

	registry := health.NewRegistry("frege", "test")
	svc.RegisterHealth(registry)

	srv := httptest.NewServer(NewRouter(svc, registry, logger))
	t.Cleanup(srv.Close)

	return &fixture{server: srv, store: mem, registry: registry}
}

func (f *fixture) dial(t *testing.T) *websocket.Conn {
	t.Helper()

	url := "ws" + strings.TrimPrefix(f.server.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("Dial() error = %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

// rawResponse keeps Data undecoded so each test picks its own shape
type rawResponse struct {
	Type    string          `json:"type"`
	ID      string          `json:"id"`
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *WSError        `json:"error"`
}

func roundTrip(t *testing.T, conn *websocket.Conn, msg WSMessage) rawResponse {
	t.Helper()

	if err := conn.WriteJSON(msg); err != nil {
		t.Fatalf("WriteJSON() error = %v", err)
	}
	var resp rawResponse
	if err := conn.ReadJSON(&resp); err != nil {
		t.Fatalf("ReadJSON() error = %v", err)
	}
	return resp
}

func TestWebSocket_Frames(t *testing.T) {
	f := setup(t)
	conn := f.dial(t)

	tests := []struct {
		name    string
		msg     WSMessage
		typ     string
		success bool
		errCode string
		check   func(t *testing.T, data json.RawMessage)
	}{
		{
			name:    "ping",
			msg:     WSMessage{Type: "ping", ID: "1"},
			typ:     "pong",
			success: true,
		},
		{
			name:    "tokenize",
			msg:     WSMessage{Type: "tokenize", ID: "2", Input: "!= 5"},
			typ:     "tokenize",
			success: true,
			check: func(t *testing.T, data json.RawMessage) {
				var result service.TokenizeResult
				if err := json.Unmarshal(data, &result); err != nil {
					t.Fatal(err)
				}
				if len(result.Tokens) != 3 || result.Tokens[0].Kind != "NOT_EQ" {
					t.Errorf("tokens = %+v", result.Tokens)
				}
			},
		},
		{
			name:    "parse",
			msg:     WSMessage{Type: "parse", ID: "3", Input: "return a < b;"},
			typ:     "parse",
			success: true,
			check: func(t *testing.T, data json.RawMessage) {
				var result service.ParseResult
				if err := json.Unmarshal(data, &result); err != nil {
					t.Fatal(err)
				}
				if result.Program != "return (a < b);" || len(result.Errors) != 0 {
					t.Errorf("result = %+v", result)
				}
			},
		},
		{
			name:    "parse with syntax errors still succeeds",
			msg:     WSMessage{Type: "parse", ID: "4", Input: "let x 1;"},
			typ:     "parse",
			success: true,
			check: func(t *testing.T, data json.RawMessage) {
				var result service.ParseResult
				json.Unmarshal(data, &result)
				if len(result.Errors) != 1 {
					t.Errorf("errors = %v", result.Errors)
				}
			},
		},
		{
			name:    "input too long",
			msg:     WSMessage{Type: "parse", ID: "5", Input: strings.Repeat("x", 40)},
			typ:     "parse",
			errCode: "INVALID_INPUT",
		},
		{
			name:    "unknown type",
			msg:     WSMessage{Type: "eval", ID: "6"},
			typ:     "error",
			errCode: "unknown_type",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := roundTrip(t, conn, tt.msg)

			if resp.Type != tt.typ || resp.ID != tt.msg.ID || resp.Success != tt.success {
				t.Errorf("response = %+v", resp)
			}
			if tt.errCode != "" {
				if resp.Error == nil || resp.Error.Code != tt.errCode {
					t.Errorf("error = %+v, want code %s", resp.Error, tt.errCode)
				}
			}
			if tt.check != nil {
				tt.check(t, resp.Data)
			}
		})
	}
}

func TestWebSocket_SessionPerConnection(t *testing.T) {
	f := setup(t)

	for i := 0; i < 2; i++ {
		conn := f.dial(t)
		roundTrip(t, conn, WSMessage{Type: "tokenize", Input: "x"})
	}

	entries, err := f.store.Query(context.Background(), store.Filter{})
	if err != nil || len(entries) != 2 {
		t.Fatalf("entries = %v, %v", entries, err)
	}
	if entries[0].SessionID == "" || entries[0].SessionID == entries[1].SessionID {
		t.Errorf("session ids = %q, %q", entries[0].SessionID, entries[1].SessionID)
	}
}

func TestHealthHandler(t *testing.T) {
	f := setup(t)

	resp, err := http.Get(f.server.URL + "/health")
	if err != nil {
		t.Fatalf("GET /health error = %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want 200", resp.StatusCode)
	}

	var report health.Report
	if err := json.NewDecoder(resp.Body).Decode(&report); err != nil {
		t.Fatalf("decode error = %v", err)
	}
	if report.Component != "frege" || report.Status != health.StatusHealthy || len(report.Checks) != 2 {
		t.Errorf("report = %+v", report)
	}
}

func TestHealthHandler_Unhealthy(t *testing.T) {
	f := setup(t)
	f.registry.Add("broken", health.Ping(func(ctx context.Context) error {
		return errors.New("down")
	}))

	resp, err := http.Get(f.server.URL + "/health")
	if err != nil {
		t.Fatalf("GET /health error = %v", err)
	}
	resp.Body.Close()

	if resp.StatusCode != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503", resp.StatusCode)
	}
}

func TestHealthHandler_MethodNotAllowed(t *testing.T) {
	rec := httptest.NewRecorder()
	NewHealthHandler(health.NewRegistry("frege", "test")).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/health", nil))

	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want 405", rec.Code)
	}
}
