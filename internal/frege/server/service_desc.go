package server

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// ServiceName is the fully qualified gRPC service name
const ServiceName = "frege.v1.FregeService"

const (
	tokenizeMethod = "/" + ServiceName + "/Tokenize"
	parseMethod    = "/" + ServiceName + "/Parse"
)

// FregeServiceServer is the server API for the Frege service. Requests
// carry the Monkey source as a StringValue; responses are generic Structs
// so no generated code is needed.
type FregeServiceServer interface {
	Tokenize(ctx context.Context, req *wrapperspb.StringValue) (*structpb.Struct, error)
	Parse(ctx context.Context, req *wrapperspb.StringValue) (*structpb.Struct, error)
}

// RegisterFregeServiceServer registers srv with s
func RegisterFregeServiceServer(s grpc.ServiceRegistrar, srv FregeServiceServer) {
	s.RegisterService(&fregeServiceDesc, srv)
}

var fregeServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*FregeServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Tokenize", Handler: tokenizeHandler},
		{MethodName: "Parse", Handler: parseHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "frege/v1/frege.proto",
}

func tokenizeHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(wrapperspb.StringValue)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(FregeServiceServer).Tokenize(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: tokenizeMethod}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(FregeServiceServer).Tokenize(ctx, req.(*wrapperspb.StringValue))
	}
	return interceptor(ctx, in, info, handler)
}

func parseHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(wrapperspb.StringValue)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(FregeServiceServer).Parse(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: parseMethod}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(FregeServiceServer).Parse(ctx, req.(*wrapperspb.StringValue))
	}
	return interceptor(ctx, in, info, handler)
}

// Client calls a remote Frege service
type Client struct {
	cc grpc.ClientConnInterface
}

// NewClient wraps an existing connection
func NewClient(cc grpc.ClientConnInterface) *Client {
	return &Client{cc: cc}
}

// Tokenize calls FregeService.Tokenize
func (c *Client) Tokenize(ctx context.Context, input string, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, tokenizeMethod, wrapperspb.String(input), out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

// Parse calls FregeService.Parse
func (c *Client) Parse(ctx context.Context, input string, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, parseMethod, wrapperspb.String(input), out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}
