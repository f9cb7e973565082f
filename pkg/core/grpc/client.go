// ============================================================================
// meinAFFE (mAF) - Monkey-Sprachwerkzeuge
// ============================================================================
//
// Package:     grpc
// Description: Client connections to a running frege server
// Author:      msto63
// Created:     2026-10-19
// License:     MIT
// ============================================================================

package grpc

import (
	"time"

	mdwerror "github.com/msto63/mAF/foundation/core/error"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/keepalive"
)

const defaultMsgSize = 4 << 20

// ClientConfig describes how `maf --remote` reaches a frege server. Zero
// sizes and intervals fall back to the defaults.
type ClientConfig struct {
	Target            string
	MaxRecvMsgSize    int
	MaxSendMsgSize    int
	KeepaliveInterval time.Duration
	KeepaliveTimeout  time.Duration
}

func DefaultClientConfig(target string) ClientConfig {
	return ClientConfig{
		Target:            target,
		MaxRecvMsgSize:    defaultMsgSize,
		MaxSendMsgSize:    defaultMsgSize,
		KeepaliveInterval: 30 * time.Second,
		KeepaliveTimeout:  10 * time.Second,
	}
}

func (c ClientConfig) withDefaults() ClientConfig {
	d := DefaultClientConfig(c.Target)
	if c.MaxRecvMsgSize <= 0 {
		c.MaxRecvMsgSize = d.MaxRecvMsgSize
	}
	if c.MaxSendMsgSize <= 0 {
		c.MaxSendMsgSize = d.MaxSendMsgSize
	}
	if c.KeepaliveInterval <= 0 {
		c.KeepaliveInterval = d.KeepaliveInterval
	}
	if c.KeepaliveTimeout <= 0 {
		c.KeepaliveTimeout = d.KeepaliveTimeout
	}
	return c
}

func (c ClientConfig) dialOptions() []grpc.DialOption {
	return []grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithDefaultCallOptions(
			grpc.MaxCallRecvMsgSize(c.MaxRecvMsgSize),
			grpc.MaxCallSendMsgSize(c.MaxSendMsgSize),
		),
		grpc.WithKeepaliveParams(keepalive.ClientParameters{
			Time:                c.KeepaliveInterval,
			Timeout:             c.KeepaliveTimeout,
			PermitWithoutStream: true,
		}),
		grpc.WithChainUnaryInterceptor(ClientRequestIDInterceptor()),
	}
}

// Dial creates a client connection; opts are applied after the config's
// own options. The connection is lazy, so an unreachable server only
// shows up on the first call.
func Dial(cfg ClientConfig, opts ...grpc.DialOption) (*grpc.ClientConn, error) {
	cfg = cfg.withDefaults()

	conn, err := grpc.NewClient(cfg.Target, append(cfg.dialOptions(), opts...)...)
	if err != nil {
		return nil, mdwerror.Wrap(err, "failed to create client").
			WithCode(mdwerror.CodeServiceUnavailable).
			WithOperation("grpc.Dial").
			WithDetail("target", cfg.Target)
	}
	return conn, nil
}

// DialSimple dials target with DefaultClientConfig
func DialSimple(target string) (*grpc.ClientConn, error) {
	return Dial(DefaultClientConfig(target))
}
