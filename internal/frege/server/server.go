// ============================================================================
// meinAFFE (mAF) - Monkey-Sprachwerkzeuge
// ============================================================================
//
// Package:     server
// Description: gRPC surface of the Frege service
// Author:      msto63
// Created:     2026-10-19
// License:     MIT
// ============================================================================

package server

import (
	"context"
	"time"

	mdwerror "github.com/msto63/mAF/foundation/core/error"
	"github.com/msto63/mAF/internal/frege/service"
	coreGrpc "github.com/msto63/mAF/pkg/core/grpc"
	"github.com/msto63/mAF/pkg/core/health"
	"github.com/msto63/mAF/pkg/core/logging"
	"github.com/msto63/mAF/pkg/core/version"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// SessionHeader groups history entries of one client
const SessionHeader = "x-session-id"

// Ensure Server implements FregeServiceServer
var _ FregeServiceServer = (*Server)(nil)

// Server is the Frege gRPC server
type Server struct {
	service   *service.Service
	grpc      *coreGrpc.Server
	health    *health.Registry
	logger    *logging.Logger
	startTime time.Time
}

// Config holds server configuration
type Config struct {
	Host             string
	Port             int
	EnableReflection bool
	Logger           *logging.Logger
}

// DefaultConfig returns default server configuration
func DefaultConfig() Config {
	return Config{
		Host:             "localhost",
		Port:             9500,
		EnableReflection: true,
	}
}

// New creates a Frege server around svc
func New(cfg Config, svc *service.Service) (*Server, error) {
	if svc == nil {
		return nil, mdwerror.New("service is required").
			WithCode(mdwerror.CodeInvalidInput).
			WithOperation("server.New")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = logging.New("frege-server")
	}

	grpcCfg := coreGrpc.DefaultServerConfig()
	grpcCfg.Host = cfg.Host
	grpcCfg.Port = cfg.Port
	grpcCfg.EnableReflection = cfg.EnableReflection
	grpcCfg.Logger = logger

	grpcServer := coreGrpc.NewServer(grpcCfg)

	healthRegistry := health.NewRegistry("frege", version.Frege)
	svc.RegisterHealth(healthRegistry)

	server := &Server{
		service:   svc,
		grpc:      grpcServer,
		health:    healthRegistry,
		logger:    logger,
		startTime: time.Now(),
	}

	RegisterFregeServiceServer(grpcServer.GRPCServer(), server)
	grpcServer.SetServing(ServiceName, true)

	return server, nil
}

// Tokenize implements FregeServiceServer.Tokenize
func (s *Server) Tokenize(ctx context.Context, req *wrapperspb.StringValue) (*structpb.Struct, error) {
	result, err := s.service.Tokenize(s.sessionContext(ctx), req.GetValue())
	if err != nil {
		s.logger.LogError(err)
		return nil, coreGrpc.ToStatus(err)
	}
	return s.toStruct(tokenizeResultMap(result))
}

// Parse implements FregeServiceServer.Parse. Syntax errors are returned
// inside the response, not as a gRPC status.
func (s *Server) Parse(ctx context.Context, req *wrapperspb.StringValue) (*structpb.Struct, error) {
	result, err := s.service.Parse(s.sessionContext(ctx), req.GetValue())
	if err != nil {
		s.logger.LogError(err)
		return nil, coreGrpc.ToStatus(err)
	}
	return s.toStruct(parseResultMap(result))
}

// Health returns the health registry shared with the HTTP surface
func (s *Server) Health() *health.Registry {
	return s.health
}

// Uptime returns how long the server has been running
func (s *Server) Uptime() time.Duration {
	return time.Since(s.startTime)
}

// GRPC returns the underlying core server
func (s *Server) GRPC() *coreGrpc.Server {
	return s.grpc
}

// Start starts the gRPC server in the background
func (s *Server) Start() error {
	if err := s.grpc.Start(); err != nil {
		return err
	}
	s.logger.Info("Frege gRPC server started", "address", s.grpc.Address())
	return nil
}

// Stop stops the server, forcing it when ctx expires
func (s *Server) Stop(ctx context.Context) {
	s.grpc.StopWithTimeout(ctx)
	s.logger.Info("Frege gRPC server stopped", "uptime", s.Uptime().Round(time.Second))
}

// MonitorHealth runs the health registry every interval and mirrors the
// outcome into the gRPC health service until ctx ends
func (s *Server) MonitorHealth(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		s.syncHealth(ctx)
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// syncHealth reports whether the service is still serving
func (s *Server) syncHealth(ctx context.Context) bool {
	report := s.health.Run(ctx)
	serving := report.Healthy()
	s.grpc.SetServing(ServiceName, serving)
	if !serving {
		s.logger.Warn("health check failing", "failing", report.Failing())
	}
	return serving
}

func (s *Server) sessionContext(ctx context.Context) context.Context {
	sessionID := coreGrpc.IncomingValue(ctx, SessionHeader)
	if sessionID == "" {
		sessionID = coreGrpc.GetRequestID(ctx)
	}
	return service.WithSession(ctx, sessionID)
}

func (s *Server) toStruct(m map[string]interface{}) (*structpb.Struct, error) {
	out, err := structpb.NewStruct(m)
	if err != nil {
		return nil, coreGrpc.ToStatus(mdwerror.Wrap(err, "failed to encode response").
			WithCode(mdwerror.CodeInternal).
			WithOperation("server.toStruct"))
	}
	return out, nil
}
