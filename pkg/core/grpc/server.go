// ============================================================================
// meinAFFE (mAF) - Monkey-Sprachwerkzeuge
// ============================================================================
//
// Package:     grpc
// Description: gRPC server with keepalive, interceptors, health and reflection
// Author:      msto63
// Created:     2026-10-19
// License:     MIT
// ============================================================================

package grpc

import (
	"context"
	"net"
	"strconv"
	"time"

	mdwerror "github.com/msto63/mAF/foundation/core/error"
	"github.com/msto63/mAF/pkg/core/logging"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/keepalive"
	"google.golang.org/grpc/reflection"
)

// ServerConfig holds gRPC server configuration
type ServerConfig struct {
	Host              string
	Port              int
	MaxRecvMsgSize    int
	MaxSendMsgSize    int
	EnableReflection  bool
	KeepaliveInterval time.Duration
	KeepaliveTimeout  time.Duration
	Logger            *logging.Logger
}

func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		Host:              "localhost",
		Port:              9500,
		MaxRecvMsgSize:    defaultMsgSize,
		MaxSendMsgSize:    defaultMsgSize,
		EnableReflection:  true,
		KeepaliveInterval: 30 * time.Second,
		KeepaliveTimeout:  10 * time.Second,
	}
}

func (c ServerConfig) address() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// serverOptions puts recovery first so a panic in any later interceptor
// is still turned into codes.Internal.
func (c ServerConfig) serverOptions(logger *logging.Logger) []grpc.ServerOption {
	return []grpc.ServerOption{
		grpc.MaxRecvMsgSize(c.MaxRecvMsgSize),
		grpc.MaxSendMsgSize(c.MaxSendMsgSize),
		grpc.KeepaliveParams(keepalive.ServerParameters{
			Time:    c.KeepaliveInterval,
			Timeout: c.KeepaliveTimeout,
		}),
		grpc.KeepaliveEnforcementPolicy(keepalive.EnforcementPolicy{
			MinTime:             5 * time.Second,
			PermitWithoutStream: true,
		}),
		grpc.ChainUnaryInterceptor(
			RecoveryInterceptor(logger),
			RequestIDInterceptor(),
			LoggingInterceptor(logger),
		),
	}
}

// Server is a grpc.Server with the standard health service registered
type Server struct {
	server   *grpc.Server
	health   *health.Server
	config   ServerConfig
	listener net.Listener
	logger   *logging.Logger
}

// NewServer builds the server; opts are appended to the config's options
func NewServer(cfg ServerConfig, opts ...grpc.ServerOption) *Server {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.New("grpc-server")
	}

	server := grpc.NewServer(append(cfg.serverOptions(logger), opts...)...)
	healthServer := health.NewServer()
	healthpb.RegisterHealthServer(server, healthServer)
	if cfg.EnableReflection {
		reflection.Register(server)
	}

	return &Server{server: server, health: healthServer, config: cfg, logger: logger}
}

// GRPCServer is the registrar for service implementations
func (s *Server) GRPCServer() *grpc.Server {
	return s.server
}

// SetServing reports service as SERVING or NOT_SERVING through the health
// service. An empty name is the overall server status.
func (s *Server) SetServing(service string, serving bool) {
	status := healthpb.HealthCheckResponse_NOT_SERVING
	if serving {
		status = healthpb.HealthCheckResponse_SERVING
	}
	s.health.SetServingStatus(service, status)
}

// Start binds the configured address and serves in the background. Bind
// errors are returned; errors after that are logged.
func (s *Server) Start() error {
	addr := s.config.address()
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return mdwerror.Wrap(err, "failed to listen").
			WithCode(mdwerror.CodeServiceUnavailable).
			WithOperation("grpc.Start").
			WithDetail("address", addr)
	}

	s.listener = listener
	go func() {
		if err := s.server.Serve(listener); err != nil {
			s.logger.Error("gRPC server error", "error", err)
		}
	}()
	return nil
}

// Serve blocks serving on listener, e.g. an in-memory one in tests
func (s *Server) Serve(listener net.Listener) error {
	s.listener = listener
	return s.server.Serve(listener)
}

// Stop drains running calls and stops
func (s *Server) Stop() {
	s.health.Shutdown()
	s.server.GracefulStop()
}

// StopWithTimeout is Stop, cut short by a hard stop when ctx expires
func (s *Server) StopWithTimeout(ctx context.Context) {
	s.health.Shutdown()

	done := make(chan struct{})
	go func() {
		s.server.GracefulStop()
		close(done)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		s.server.Stop()
	}
}

// Address is the bound address once serving, the configured one before
func (s *Server) Address() string {
	if s.listener != nil {
		return s.listener.Addr().String()
	}
	return s.config.address()
}
