package server

import (
	"context"
	"errors"
	"net"
	"strings"
	"testing"

	mdwlog "github.com/msto63/mAF/foundation/core/log"
	"github.com/msto63/mAF/internal/frege/service"
	"github.com/msto63/mAF/internal/frege/store"
	coreGrpc "github.com/msto63/mAF/pkg/core/grpc"
	"github.com/msto63/mAF/pkg/core/health"
	"github.com/msto63/mAF/pkg/core/logging"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
)

type fixture struct {
	srv    *Server
	client *Client
	conn   *grpc.ClientConn
	store  *store.MemoryStore
}

func setup(t *testing.T, maxInput int) *fixture {
	t.Helper()

	logger := logging.Wrap("test", mdwlog.Discard())
	mem := store.NewMemoryStore()

	svc, err := service.NewService(service.Config{MaxInputLength: maxInput, Store: mem, Logger: logger})
	if err != nil {
		t.Fatalf("NewService() error = %v", err)
	}

	cfg := DefaultConfig()
	cfg.Logger = logger
	srv, err := New(cfg, svc)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	lis := bufconn.Listen(1024 * 1024)
	go srv.GRPC().Serve(lis)
	t.Cleanup(func() { srv.Stop(context.Background()) })

	conn, err := coreGrpc.Dial(coreGrpc.DefaultClientConfig("passthrough:///bufnet"),
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
	)
	if err != nil {
		t.Fatalf("Dial() error = %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	return &fixture{srv: srv, client: NewClient(conn), conn: conn, store: mem}
}

func TestNew_RequiresService(t *testing.T) {
	if _, err := New(DefaultConfig(), nil); err == nil {
		t.Error("New() with nil service should fail")
	}
}

func TestServer_Tokenize(t *testing.T) {
	f := setup(t, 0)

	resp, err := f.client.Tokenize(context.Background(), "x == 10")
	if err != nil {
		t.Fatalf("Tokenize() error = %v", err)
	}

	tokens := resp.Fields["tokens"].GetListValue().GetValues()
	expected := []string{"IDENT", "EQ", "INT", "EOF"}
	if len(tokens) != len(expected) {
		t.Fatalf("len(tokens) = %d, want %d", len(tokens), len(expected))
	}
	for i, v := range tokens {
		kind := v.GetStructValue().Fields["kind"].GetStringValue()
		if kind != expected[i] {
			t.Errorf("tokens[%d].kind = %q, want %q", i, kind, expected[i])
		}
	}

	second := tokens[1].GetStructValue().Fields
	if second["literal"].GetStringValue() != "==" || second["column"].GetNumberValue() != 3 {
		t.Errorf("tokens[1] = %v", second)
	}
}

func TestServer_Parse(t *testing.T) {
	f := setup(t, 0)

	tests := []struct {
		name    string
		input   string
		program string
		errors  []string
	}{
		{"infix", "a + b * c", "(a + (b * c))", nil},
		{"grouped", "(a + b) * c", "((a + b) * c)", nil},
		{"let", "let x = !true;", "let x = (!true);", nil},
		{"errors in body", "let 5;", "", []string{"expected next token to be IDENT, got INT"}},
		{"fn unsupported", "fn", "", []string{"no prefix parse function for token FUNCTION"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := f.client.Parse(context.Background(), tt.input)
			if err != nil {
				t.Fatalf("Parse() error = %v", err)
			}

			if got := resp.Fields["program"].GetStringValue(); got != tt.program {
				t.Errorf("program = %q, want %q", got, tt.program)
			}

			var errs []string
			for _, v := range resp.Fields["errors"].GetListValue().GetValues() {
				errs = append(errs, v.GetStringValue())
			}
			if strings.Join(errs, "|") != strings.Join(tt.errors, "|") {
				t.Errorf("errors = %v, want %v", errs, tt.errors)
			}

			if resp.Fields["tree"].GetStructValue().Fields["type"].GetStringValue() != "Program" {
				t.Errorf("tree = %v", resp.Fields["tree"])
			}
		})
	}
}

func TestServer_InputTooLong(t *testing.T) {
	f := setup(t, 4)

	_, err := f.client.Parse(context.Background(), "let x = 1;")
	if status.Code(err) != codes.InvalidArgument {
		t.Errorf("code = %v, want InvalidArgument", status.Code(err))
	}
}

func TestServer_SessionHeader(t *testing.T) {
	f := setup(t, 0)

	ctx := metadata.AppendToOutgoingContext(context.Background(), SessionHeader, "cli-7")
	if _, err := f.client.Parse(ctx, "1"); err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	entries, _ := f.store.Query(context.Background(), store.Filter{SessionID: "cli-7"})
	if len(entries) != 1 || entries[0].Mode != store.ModeParse {
		t.Errorf("entries = %v", entries)
	}
}

func TestServer_RequestIDHeader(t *testing.T) {
	f := setup(t, 0)

	var header metadata.MD
	ctx := metadata.AppendToOutgoingContext(context.Background(), coreGrpc.RequestIDHeader, "req-1")
	if _, err := f.client.Tokenize(ctx, "1", grpc.Header(&header)); err != nil {
		t.Fatalf("Tokenize() error = %v", err)
	}

	if got := header.Get(coreGrpc.RequestIDHeader); len(got) != 1 || got[0] != "req-1" {
		t.Errorf("x-request-id header = %v", got)
	}

	// without a session header the request id groups the history
	entries, _ := f.store.Query(context.Background(), store.Filter{SessionID: "req-1"})
	if len(entries) != 1 {
		t.Errorf("entries for req-1 = %d, want 1", len(entries))
	}
}

func TestServer_HealthService(t *testing.T) {
	f := setup(t, 0)

	resp, err := healthpb.NewHealthClient(f.conn).Check(context.Background(), &healthpb.HealthCheckRequest{Service: ServiceName})
	if err != nil {
		t.Fatalf("Check() error = %v", err)
	}
	if resp.Status != healthpb.HealthCheckResponse_SERVING {
		t.Errorf("status = %v, want SERVING", resp.Status)
	}
}

func TestServer_SyncHealth(t *testing.T) {
	f := setup(t, 0)
	healthClient := healthpb.NewHealthClient(f.conn)

	check := func() healthpb.HealthCheckResponse_ServingStatus {
		t.Helper()
		resp, err := healthClient.Check(context.Background(), &healthpb.HealthCheckRequest{Service: ServiceName})
		if err != nil {
			t.Fatalf("Check() error = %v", err)
		}
		return resp.Status
	}

	if !f.srv.syncHealth(context.Background()) {
		t.Fatal("syncHealth() = false with a working parser and store")
	}

	f.srv.Health().Add("history", health.Ping(func(ctx context.Context) error {
		return errors.New("database is closed")
	}))
	if f.srv.syncHealth(context.Background()) {
		t.Error("syncHealth() = true with a failing check")
	}
	if got := check(); got != healthpb.HealthCheckResponse_NOT_SERVING {
		t.Errorf("status = %v, want NOT_SERVING", got)
	}

	f.srv.Health().Remove("history")
	f.srv.syncHealth(context.Background())
	if got := check(); got != healthpb.HealthCheckResponse_SERVING {
		t.Errorf("status = %v, want SERVING", got)
	}
}
