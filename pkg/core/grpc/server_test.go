package grpc

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net"
	"testing"

	mdwerror "github.com/msto63/mAF/foundation/core/error"
	mdwlog "github.com/msto63/mAF/foundation/core/log"
	"github.com/msto63/mAF/pkg/core/logging"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
)

func quietLogger() *logging.Logger {
	return logging.Wrap("test", mdwlog.Discard())
}

func startBufconn(t *testing.T, srv *Server) *grpc.ClientConn {
	t.Helper()

	lis := bufconn.Listen(1024 * 1024)
	go srv.Serve(lis)
	t.Cleanup(srv.Stop)

	conn, err := Dial(DefaultClientConfig("passthrough:///bufnet"),
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
	)
	if err != nil {
		t.Fatalf("Dial() error = %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	return conn
}

func TestDefaultServerConfig(t *testing.T) {
	cfg := DefaultServerConfig()

	if cfg.Port != 9500 {
		t.Errorf("Port = %d, want 9500", cfg.Port)
	}
	if !cfg.EnableReflection {
		t.Error("EnableReflection should default to true")
	}

	srv := NewServer(cfg)
	if srv.Address() != "localhost:9500" {
		t.Errorf("Address() = %q before start", srv.Address())
	}
}

func TestServer_Health(t *testing.T) {
	cfg := DefaultServerConfig()
	cfg.Logger = quietLogger()
	srv := NewServer(cfg)
	srv.SetServing("frege.v1.FregeService", true)

	conn := startBufconn(t, srv)
	client := healthpb.NewHealthClient(conn)

	tests := []struct {
		name     string
		service  string
		serving  *bool
		expected healthpb.HealthCheckResponse_ServingStatus
	}{
		{"overall", "", nil, healthpb.HealthCheckResponse_SERVING},
		{"registered service", "frege.v1.FregeService", nil, healthpb.HealthCheckResponse_SERVING},
		{"marked down", "frege.v1.FregeService", new(bool), healthpb.HealthCheckResponse_NOT_SERVING},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.serving != nil {
				srv.SetServing(tt.service, *tt.serving)
			}

			resp, err := client.Check(context.Background(), &healthpb.HealthCheckRequest{Service: tt.service})
			if err != nil {
				t.Fatalf("Check() error = %v", err)
			}
			if resp.Status != tt.expected {
				t.Errorf("Status = %v, want %v", resp.Status, tt.expected)
			}
		})
	}
}

func TestRequestIDInterceptor(t *testing.T) {
	interceptor := RequestIDInterceptor()
	info := &grpc.UnaryServerInfo{FullMethod: "/test/Method"}

	t.Run("generates id", func(t *testing.T) {
		var seen string
		_, err := interceptor(context.Background(), nil, info, func(ctx context.Context, req interface{}) (interface{}, error) {
			seen = GetRequestID(ctx)
			return nil, nil
		})
		if err != nil {
			t.Fatalf("interceptor error = %v", err)
		}
		if len(seen) != 36 {
			t.Errorf("request id = %q, want a UUID", seen)
		}
	})

	t.Run("keeps incoming id", func(t *testing.T) {
		ctx := metadata.NewIncomingContext(context.Background(), metadata.Pairs(RequestIDHeader, "req-42"))

		var seen string
		interceptor(ctx, nil, info, func(ctx context.Context, req interface{}) (interface{}, error) {
			seen = GetRequestID(ctx)
			return nil, nil
		})
		if seen != "req-42" {
			t.Errorf("request id = %q, want req-42", seen)
		}
	})
}

func TestRecoveryInterceptor(t *testing.T) {
	interceptor := RecoveryInterceptor(quietLogger())
	info := &grpc.UnaryServerInfo{FullMethod: "/test/Panic"}

	_, err := interceptor(context.Background(), nil, info, func(ctx context.Context, req interface{}) (interface{}, error) {
		panic("boom")
	})

	if status.Code(err) != codes.Internal {
		t.Errorf("code = %v, want Internal", status.Code(err))
	}
}

func TestLoggingInterceptor_PassesThrough(t *testing.T) {
	interceptor := LoggingInterceptor(quietLogger())
	info := &grpc.UnaryServerInfo{FullMethod: "/test/Echo"}

	resp, err := interceptor(context.Background(), "in", info, func(ctx context.Context, req interface{}) (interface{}, error) {
		return req, status.Error(codes.InvalidArgument, "bad")
	})

	if resp != "in" || status.Code(err) != codes.InvalidArgument {
		t.Errorf("resp = %v, err = %v", resp, err)
	}
}

func TestLoggingInterceptor_Levels(t *testing.T) {
	tests := []struct {
		name  string
		err   error
		level string
	}{
		{"ok", nil, "debug"},
		{"invalid argument", status.Error(codes.InvalidArgument, "bad"), "info"},
		{"internal", status.Error(codes.Internal, "boom"), "warn"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			base := mdwlog.New().WithOutput(&buf).WithLevel(mdwlog.LevelDebug)
			interceptor := LoggingInterceptor(logging.Wrap("test", base))
			info := &grpc.UnaryServerInfo{FullMethod: "/test/Echo"}

			_, _ = interceptor(context.Background(), "in", info, func(ctx context.Context, req interface{}) (interface{}, error) {
				return nil, tt.err
			})

			var entry map[string]interface{}
			if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
				t.Fatalf("log output %q: %v", buf.String(), err)
			}
			if entry["level"] != tt.level {
				t.Errorf("level = %v, want %s", entry["level"], tt.level)
			}
		})
	}
}

func TestToStatus(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected codes.Code
	}{
		{"nil", nil, codes.OK},
		{"invalid input", mdwerror.New("too long").WithCode(mdwerror.CodeInvalidInput), codes.InvalidArgument},
		{"syntax", mdwerror.New("bad").WithCode(mdwerror.CodeMonkeySyntax), codes.InvalidArgument},
		{"not found", mdwerror.New("gone").WithCode(mdwerror.CodeNotFound), codes.NotFound},
		{"unavailable", mdwerror.New("down").WithCode(mdwerror.CodeServiceUnavailable), codes.Unavailable},
		{"database", mdwerror.New("locked").WithCode(mdwerror.CodeDatabaseError), codes.Internal},
		{"plain", errors.New("plain"), codes.Internal},
		{"already status", status.Error(codes.Canceled, "stop"), codes.Canceled},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := status.Code(ToStatus(tt.err)); got != tt.expected {
				t.Errorf("ToStatus() code = %v, want %v", got, tt.expected)
			}
		})
	}
}
