// ============================================================================
// meinAFFE (mAF) - Monkey-Sprachwerkzeuge
// ============================================================================
//
// Package:     grpc
// Description: Recovery, logging and request-id interceptors
// Author:      msto63
// Created:     2026-10-19
// License:     MIT
// ============================================================================

package grpc

import (
	"context"
	"runtime/debug"
	"time"

	"github.com/google/uuid"
	"github.com/msto63/mAF/pkg/core/logging"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

type contextKey string

const (
	RequestIDKey    contextKey = "request_id"
	RequestIDHeader string     = "x-request-id"
)

// RecoveryInterceptor turns a handler panic into codes.Internal
func RecoveryInterceptor(logger *logging.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (resp interface{}, err error) {
		defer func() {
			if r := recover(); r != nil {
				logger.Error("gRPC panic recovered",
					"method", info.FullMethod,
					"request_id", GetRequestID(ctx),
					"panic", r,
					"stack", string(debug.Stack()),
				)
				err = status.Error(codes.Internal, "internal server error")
			}
		}()
		return handler(ctx, req)
	}
}

// LoggingInterceptor logs each unary call. Successful calls and caller
// mistakes (bad input, oversized programs) go to debug and info, anything
// else that fails to warn.
func LoggingInterceptor(logger *logging.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
		start := time.Now()
		resp, err := handler(ctx, req)

		code := status.Code(err)
		kv := []interface{}{
			"request_id", GetRequestID(ctx),
			"method", info.FullMethod,
			"code", code.String(),
			"duration", time.Since(start),
		}

		switch code {
		case codes.OK:
			logger.Debug("gRPC request", kv...)
		case codes.InvalidArgument, codes.Canceled, codes.NotFound:
			logger.Info("gRPC request rejected", append(kv, "error", err)...)
		default:
			logger.Warn("gRPC request failed", append(kv, "error", err)...)
		}
		return resp, err
	}
}

// RequestIDInterceptor takes the caller's x-request-id or makes a new one,
// stores it in the context and echoes it as a response header.
func RequestIDInterceptor() grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
		id := metadataValue(ctx, metadata.FromIncomingContext, RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}

		ctx = WithRequestID(ctx, id)
		_ = grpc.SetHeader(ctx, metadata.Pairs(RequestIDHeader, id))

		return handler(ctx, req)
	}
}

// ClientRequestIDInterceptor sends the context's request ID, or a new one,
// unless the caller already set the header.
func ClientRequestIDInterceptor() grpc.UnaryClientInterceptor {
	return func(ctx context.Context, method string, req, reply interface{}, cc *grpc.ClientConn, invoker grpc.UnaryInvoker, opts ...grpc.CallOption) error {
		if metadataValue(ctx, metadata.FromOutgoingContext, RequestIDHeader) == "" {
			id := GetRequestID(ctx)
			if id == "" {
				id = uuid.NewString()
			}
			ctx = metadata.AppendToOutgoingContext(ctx, RequestIDHeader, id)
		}
		return invoker(ctx, method, req, reply, cc, opts...)
	}
}

// GetRequestID returns the request ID from the context, falling back to
// the incoming metadata
func GetRequestID(ctx context.Context) string {
	if id, ok := ctx.Value(RequestIDKey).(string); ok {
		return id
	}
	return metadataValue(ctx, metadata.FromIncomingContext, RequestIDHeader)
}

// WithRequestID adds a request ID to the context
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, RequestIDKey, requestID)
}

// IncomingValue returns the first value of key in the incoming metadata
func IncomingValue(ctx context.Context, key string) string {
	return metadataValue(ctx, metadata.FromIncomingContext, key)
}

func metadataValue(ctx context.Context, from func(context.Context) (metadata.MD, bool), key string) string {
	md, ok := from(ctx)
	if !ok {
		return ""
	}
	if values := md.Get(key); len(values) > 0 {
		return values[0]
	}
	return ""
}
