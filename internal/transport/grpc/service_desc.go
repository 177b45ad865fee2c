package grpcx

import (
	"context"

	"google.golang.org/grpc"

	"github.com/cwrk-planet/roomcast/internal/service"
)

var serviceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*CoordinatorServer)(nil),
	Methods: []grpc.MethodDesc{
		unary("ListRooms", CoordinatorServer.ListRooms),
		unary("CreateUser", CoordinatorServer.CreateUser),
		unary("CreateRoom", CoordinatorServer.CreateRoom),
		unary("JoinRoom", CoordinatorServer.JoinRoom),
		unary("SendMessage", CoordinatorServer.SendMessage),
		unary("RoomMessages", CoordinatorServer.RoomMessages),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "roomcast/v1/coordinator.json",
}

func fullMethod(name string) string {
	return "/" + ServiceName + "/" + name
}

func unary[Req, Resp any](name string, call func(CoordinatorServer, context.Context, *Req) (*Resp, error)) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: name,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(Req)
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return call(srv.(CoordinatorServer), ctx, in)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod(name)}
			handler := func(ctx context.Context, req any) (any, error) {
				return call(srv.(CoordinatorServer), ctx, req.(*Req))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}

// Client calls roomcast.v1.Coordinator with the json codec.
type Client struct {
	cc grpc.ClientConnInterface
}

func NewClient(cc grpc.ClientConnInterface) *Client {
	return &Client{cc: cc}
}

func invoke[Resp any](ctx context.Context, c *Client, name string, in any, opts []grpc.CallOption) (*Resp, error) {
	out := new(Resp)
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(codecName)}, opts...)
	if err := c.cc.Invoke(ctx, fullMethod(name), in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) ListRooms(ctx context.Context, in *service.ListRoomsRequest, opts ...grpc.CallOption) (*ListRoomsResponse, error) {
	return invoke[ListRoomsResponse](ctx, c, "ListRooms", in, opts)
}

func (c *Client) CreateUser(ctx context.Context, in *service.CreateUserRequest, opts ...grpc.CallOption) (*service.CreateUserResponse, error) {
	return invoke[service.CreateUserResponse](ctx, c, "CreateUser", in, opts)
}

func (c *Client) CreateRoom(ctx context.Context, in *service.CreateRoomRequest, opts ...grpc.CallOption) (*service.CreateRoomResponse, error) {
	return invoke[service.CreateRoomResponse](ctx, c, "CreateRoom", in, opts)
}

func (c *Client) JoinRoom(ctx context.Context, in *service.JoinRoomRequest, opts ...grpc.CallOption) (*service.JoinRoomResponse, error) {
	return invoke[service.JoinRoomResponse](ctx, c, "JoinRoom", in, opts)
}

func (c *Client) SendMessage(ctx context.Context, in *service.SendMessageRequest, opts ...grpc.CallOption) (*service.SendMessageResponse, error) {
	return invoke[service.SendMessageResponse](ctx, c, "SendMessage", in, opts)
}

func (c *Client) RoomMessages(ctx context.Context, in *service.RoomMessagesRequest, opts ...grpc.CallOption) (*service.RoomMessagesResponse, error) {
	return invoke[service.RoomMessagesResponse](ctx, c, "RoomMessages", in, opts)
}
