package grpcx

import (
	"context"
	"strings"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/metadata"

	"github.com/cwrk-planet/roomcast/internal/domain"
	"github.com/cwrk-planet/roomcast/internal/fanout"
	"github.com/cwrk-planet/roomcast/internal/service"
)

const (
	ServiceName = "roomcast.v1.Coordinator"

	// mdAPIKey is read when the request body has no api key.
	mdAPIKey = "x-api-key"
)

type Coordinator interface {
	ListRooms(ctx context.Context, req service.ListRoomsRequest) ([]domain.RoomSummary, error)
	CreateUser(ctx context.Context, req service.CreateUserRequest) (service.CreateUserResponse, error)
	CreateRoom(ctx context.Context, req service.CreateRoomRequest) (service.CreateRoomResponse, error)
	JoinRoom(ctx context.Context, req service.JoinRoomRequest, sub fanout.Subscriber) (service.JoinRoomResponse, error)
	SendMessage(ctx context.Context, req service.SendMessageRequest) (service.SendMessageResponse, error)
	RoomMessages(ctx context.Context, req service.RoomMessagesRequest) (service.RoomMessagesResponse, error)
}

type ListRoomsResponse struct {
	Rooms []domain.RoomSummary `json:"rooms"`
}

// CoordinatorServer is the handler side of roomcast.v1.Coordinator.
type CoordinatorServer interface {
	ListRooms(context.Context, *service.ListRoomsRequest) (*ListRoomsResponse, error)
	CreateUser(context.Context, *service.CreateUserRequest) (*service.CreateUserResponse, error)
	CreateRoom(context.Context, *service.CreateRoomRequest) (*service.CreateRoomResponse, error)
	JoinRoom(context.Context, *service.JoinRoomRequest) (*service.JoinRoomResponse, error)
	SendMessage(context.Context, *service.SendMessageRequest) (*service.SendMessageResponse, error)
	RoomMessages(context.Context, *service.RoomMessagesRequest) (*service.RoomMessagesResponse, error)
}

// Server adapts the coordinator to gRPC. Callers have no event channel:
// JoinRoom records membership without subscribing anybody.
type Server struct {
	coord Coordinator
}

func NewServer(coord Coordinator) *Server {
	return &Server{coord: coord}
}

// NewGRPCServer builds a grpc.Server with the logging and recovery chain.
func NewGRPCServer(opts ...grpc.ServerOption) *grpc.Server {
	opts = append([]grpc.ServerOption{
		grpc.ChainUnaryInterceptor(UnaryServerInterceptor()),
		grpc.ChainStreamInterceptor(StreamServerInterceptor()),
	}, opts...)
	return grpc.NewServer(opts...)
}

// Register installs the coordinator and the health service. The returned
// health server reports SERVING until Shutdown is called on it.
func Register(gs *grpc.Server, s *Server) *health.Server {
	gs.RegisterService(&serviceDesc, s)

	hs := health.NewServer()
	hs.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	hs.SetServingStatus(ServiceName, healthpb.HealthCheckResponse_SERVING)
	healthpb.RegisterHealthServer(gs, hs)
	return hs
}

func (s *Server) ListRooms(ctx context.Context, in *service.ListRoomsRequest) (*ListRoomsResponse, error) {
	in.APIKey = apiKey(ctx, in.APIKey)
	rooms, err := s.coord.ListRooms(ctx, *in)
	if err != nil {
		return nil, toStatus(ctx, err)
	}
	return &ListRoomsResponse{Rooms: rooms}, nil
}

func (s *Server) CreateUser(ctx context.Context, in *service.CreateUserRequest) (*service.CreateUserResponse, error) {
	in.APIKey = apiKey(ctx, in.APIKey)
	out, err := s.coord.CreateUser(ctx, *in)
	if err != nil {
		return nil, toStatus(ctx, err)
	}
	return &out, nil
}

func (s *Server) CreateRoom(ctx context.Context, in *service.CreateRoomRequest) (*service.CreateRoomResponse, error) {
	in.APIKey = apiKey(ctx, in.APIKey)
	out, err := s.coord.CreateRoom(ctx, *in)
	if err != nil {
		return nil, toStatus(ctx, err)
	}
	return &out, nil
}

func (s *Server) JoinRoom(ctx context.Context, in *service.JoinRoomRequest) (*service.JoinRoomResponse, error) {
	in.APIKey = apiKey(ctx, in.APIKey)
	out, err := s.coord.JoinRoom(ctx, *in, nil)
	if err != nil {
		return nil, toStatus(ctx, err)
	}
	return &out, nil
}

func (s *Server) SendMessage(ctx context.Context, in *service.SendMessageRequest) (*service.SendMessageResponse, error) {
	in.APIKey = apiKey(ctx, in.APIKey)
	out, err := s.coord.SendMessage(ctx, *in)
	if err != nil {
		return nil, toStatus(ctx, err)
	}
	return &out, nil
}

func (s *Server) RoomMessages(ctx context.Context, in *service.RoomMessagesRequest) (*service.RoomMessagesResponse, error) {
	in.APIKey = apiKey(ctx, in.APIKey)
	out, err := s.coord.RoomMessages(ctx, *in)
	if err != nil {
		return nil, toStatus(ctx, err)
	}
	return &out, nil
}

// -------- helpers --------

func apiKey(ctx context.Context, fromBody string) string {
	if fromBody != "" {
		return fromBody
	}
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return ""
	}
	if v := md.Get(mdAPIKey); len(v) > 0 {
		return strings.TrimSpace(v[0])
	}
	return ""
}
