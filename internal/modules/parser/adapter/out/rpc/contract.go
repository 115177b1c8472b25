package rpc

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hashicorp/go-plugin"
	"google.golang.org/grpc"
	"google.golang.org/grpc/encoding"
)

const (
	PluginMapKey        = "leaflog"
	serviceName         = "leaflog.parser.v1.ParserPlugin"
	jsonCodecName       = "json"
	methodGetInfo       = "/" + serviceName + "/GetInfo"
	methodParseChapters = "/" + serviceName + "/ParseChapters"
)

var HandshakeConfig = plugin.HandshakeConfig{
	ProtocolVersion:  1,
	MagicCookieKey:   "LEAFLOG_PARSER",
	MagicCookieValue: "leaflog",
}

type jsonCodec struct{}

func (jsonCodec) Marshal(v any) ([]byte, error) {
	return json.Marshal(v)
}

func (jsonCodec) Unmarshal(data []byte, v any) error {
	return json.Unmarshal(data, v)
}

func (jsonCodec) Name() string {
	return jsonCodecName
}

func init() {
	encoding.RegisterCodec(jsonCodec{})
}

type Empty struct{}

type Info struct {
	Name    string   `json:"name"`
	Version string   `json:"version"`
	Formats []string `json:"formats"`
}

type Chapter struct {
	Index   int    `json:"index"`
	Title   string `json:"title"`
	Content string `json:"content"`
}

type ParseRequest struct {
	FilePath string `json:"file_path"`
	Format   string `json:"format"`
}

type ParseResponse struct {
	Chapters []Chapter `json:"chapters"`
}

type ParserPluginServer interface {
	GetInfo(ctx context.Context, in *Empty) (*Info, error)
	ParseChapters(ctx context.Context, in *ParseRequest) (*ParseResponse, error)
}

type ParserPluginClient interface {
	GetInfo(ctx context.Context) (*Info, error)
	ParseChapters(ctx context.Context, in *ParseRequest) (*ParseResponse, error)
}

type parserPluginClient struct {
	conn *grpc.ClientConn
}

func NewParserPluginClient(conn *grpc.ClientConn) ParserPluginClient {
	return &parserPluginClient{conn: conn}
}

func (c *parserPluginClient) GetInfo(ctx context.Context) (*Info, error) {
	out := &Info{}
	if err := c.conn.Invoke(ctx, methodGetInfo, &Empty{}, out, grpc.CallContentSubtype(jsonCodecName)); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *parserPluginClient) ParseChapters(ctx context.Context, in *ParseRequest) (*ParseResponse, error) {
	out := &ParseResponse{}
	if err := c.conn.Invoke(ctx, methodParseChapters, in, out, grpc.CallContentSubtype(jsonCodecName)); err != nil {
		return nil, err
	}
	return out, nil
}

func RegisterParserPluginServer(server grpc.ServiceRegistrar, impl ParserPluginServer) {
	server.RegisterService(&grpc.ServiceDesc{
		ServiceName: serviceName,
		HandlerType: (*ParserPluginServer)(nil),
		Methods: []grpc.MethodDesc{
			{
				MethodName: "GetInfo",
				Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
					in := &Empty{}
					if err := dec(in); err != nil {
						return nil, err
					}
					if interceptor == nil {
						return impl.GetInfo(ctx, in)
					}
					info := &grpc.UnaryServerInfo{Server: srv, FullMethod: methodGetInfo}
					handler := func(ctx context.Context, req any) (any, error) {
						empty, ok := req.(*Empty)
						if !ok {
							return nil, fmt.Errorf("invalid request type")
						}
						return impl.GetInfo(ctx, empty)
					}
					return interceptor(ctx, in, info, handler)
				},
			},
			{
				MethodName: "ParseChapters",
				Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
					in := &ParseRequest{}
					if err := dec(in); err != nil {
						return nil, err
					}
					if interceptor == nil {
						return impl.ParseChapters(ctx, in)
					}
					info := &grpc.UnaryServerInfo{Server: srv, FullMethod: methodParseChapters}
					handler := func(ctx context.Context, req any) (any, error) {
						inReq, ok := req.(*ParseRequest)
						if !ok {
							return nil, fmt.Errorf("invalid request type")
						}
						return impl.ParseChapters(ctx, inReq)
					}
					return interceptor(ctx, in, info, handler)
				},
			},
		},
		Streams:  []grpc.StreamDesc{},
		Metadata: "schemas/parser-rpc-v1.proto",
	}, impl)
}

type GRPCPlugin struct {
	plugin.NetRPCUnsupportedPlugin
	Impl ParserPluginServer
}

func (p *GRPCPlugin) GRPCServer(_ *plugin.GRPCBroker, server *grpc.Server) error {
	RegisterParserPluginServer(server, p.Impl)
	return nil
}

func (p *GRPCPlugin) GRPCClient(_ context.Context, _ *plugin.GRPCBroker, conn *grpc.ClientConn) (any, error) {
	return NewParserPluginClient(conn), nil
}

func PluginMap(impl ParserPluginServer) map[string]plugin.Plugin {
	return map[string]plugin.Plugin{
		PluginMapKey: &GRPCPlugin{Impl: impl},
	}
}
