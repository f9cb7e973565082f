package cmd

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/msto63/mAF/internal/frege/server"
	coreGrpc "github.com/msto63/mAF/pkg/core/grpc"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"
)

const remoteTimeout = 10 * time.Second

type remoteCall func(ctx context.Context, client *server.Client) (*structpb.Struct, error)

// callRemote runs call against a Frege service at addr and prints the
// response as indented JSON.
func callRemote(addr string, out io.Writer, call remoteCall) (*structpb.Struct, error) {
	conn, err := coreGrpc.DialSimple(addr)
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	ctx, cancel := context.WithTimeout(context.Background(), remoteTimeout)
	defer cancel()

	resp, err := call(ctx, server.NewClient(conn))
	if err != nil {
		return nil, err
	}

	data, err := protojson.MarshalOptions{Multiline: true, Indent: "  "}.Marshal(resp)
	if err != nil {
		return nil, err
	}
	fmt.Fprintln(out, string(data))

	return resp, nil
}
