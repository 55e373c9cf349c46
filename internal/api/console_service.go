package api

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"labtrack/internal/domain"
	"labtrack/internal/models"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

const (
	consoleServiceName = "labtrack.console.v1.ConsoleService"

	consoleMethodListItems        = "/" + consoleServiceName + "/ListItems"
	consoleMethodListBookings     = "/" + consoleServiceName + "/ListBookings"
	consoleMethodListMovements    = "/" + consoleServiceName + "/ListMovements"
	consoleMethodRegisterMovement = "/" + consoleServiceName + "/RegisterMovement"
	consoleMethodGetDashboard     = "/" + consoleServiceName + "/GetDashboard"
)

// ConsoleServer is the gRPC surface of the console. Requests and responses
// are JSON-shaped structs using the same field names as the HTTP API.
type ConsoleServer interface {
	ListItems(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	ListBookings(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	ListMovements(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	RegisterMovement(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	GetDashboard(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
}

var consoleServiceDesc = grpc.ServiceDesc{
	ServiceName: consoleServiceName,
	HandlerType: (*ConsoleServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "ListItems", Handler: unaryHandler(consoleMethodListItems, ConsoleServer.ListItems)},
		{MethodName: "ListBookings", Handler: unaryHandler(consoleMethodListBookings, ConsoleServer.ListBookings)},
		{MethodName: "ListMovements", Handler: unaryHandler(consoleMethodListMovements, ConsoleServer.ListMovements)},
		{MethodName: "RegisterMovement", Handler: unaryHandler(consoleMethodRegisterMovement, ConsoleServer.RegisterMovement)},
		{MethodName: "GetDashboard", Handler: unaryHandler(consoleMethodGetDashboard, ConsoleServer.GetDashboard)},
	},
	Streams: []grpc.StreamDesc{},
}

func RegisterConsoleServer(s grpc.ServiceRegistrar, srv ConsoleServer) {
	s.RegisterService(&consoleServiceDesc, srv)
}

type consoleCall func(ConsoleServer, context.Context, *structpb.Struct) (*structpb.Struct, error)

func unaryHandler(fullMethod string, call consoleCall) grpc.MethodHandler {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(structpb.Struct)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(ConsoleServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(ConsoleServer), ctx, req.(*structpb.Struct))
		}
		return interceptor(ctx, in, info, handler)
	}
}

// ConsoleService adapts the domain services to ConsoleServer.
type ConsoleService struct {
	svc Services
}

func NewConsoleService(svc Services) *ConsoleService {
	return &ConsoleService{svc: svc}
}

type bookingsRequest struct {
	Search string `json:"search"`
	Date   string `json:"date"`
}

type movementsRequest struct {
	Search      string `json:"search"`
	Tipo        string `json:"tipo"`
	FechaInicio string `json:"fechaInicio"`
	FechaFin    string `json:"fechaFin"`
}

func (c *ConsoleService) ListItems(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	var filter models.FilterState
	if err := fromStruct(req, &filter); err != nil {
		return nil, grpcError(err)
	}
	page, err := c.svc.Inventory.Page(ctx, filter)
	if err != nil {
		return nil, grpcError(err)
	}
	return respond(page)
}

func (c *ConsoleService) ListBookings(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	var in bookingsRequest
	if err := fromStruct(req, &in); err != nil {
		return nil, grpcError(err)
	}
	date, err := parseDate(in.Date, "date", c.location())
	if err != nil {
		return nil, grpcError(err)
	}
	bookings, err := c.svc.Bookings.ListBookings(ctx, domain.BookingFilters{Search: in.Search, Date: date})
	if err != nil {
		return nil, grpcError(err)
	}
	return respond(map[string]any{"bookings": bookings})
}

func (c *ConsoleService) ListMovements(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	var in movementsRequest
	if err := fromStruct(req, &in); err != nil {
		return nil, grpcError(err)
	}
	from, err := parseDate(in.FechaInicio, "fechaInicio", c.location())
	if err != nil {
		return nil, grpcError(err)
	}
	to, err := parseDate(in.FechaFin, "fechaFin", c.location())
	if err != nil {
		return nil, grpcError(err)
	}
	movements, err := c.svc.Movements.ListMovements(ctx, domain.MovementFilters{
		Search:      in.Search,
		Tipo:        models.MovementType(in.Tipo),
		FechaInicio: from,
		FechaFin:    to,
	})
	if err != nil {
		return nil, grpcError(err)
	}
	return respond(map[string]any{"movements": movements})
}

func (c *ConsoleService) RegisterMovement(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	var movement models.Movement
	if err := fromStruct(req, &movement); err != nil {
		return nil, grpcError(err)
	}
	registered, err := c.svc.Movements.RegisterMovement(ctx, movement)
	if err != nil {
		return nil, grpcError(err)
	}
	return respond(registered)
}

func (c *ConsoleService) GetDashboard(ctx context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	dashboard, err := c.svc.Dashboard.Dashboard(ctx)
	if err != nil {
		return nil, grpcError(err)
	}
	return respond(dashboard)
}

func (c *ConsoleService) location() *time.Location {
	if c.svc.Location == nil {
		return time.Local
	}
	return c.svc.Location
}

func fromStruct(s *structpb.Struct, dst any) error {
	if s == nil {
		return nil
	}
	raw, err := json.Marshal(s.AsMap())
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return &models.ValidationError{Field: "request", Message: err.Error()}
	}
	return nil
}

func toStruct(v any) (*structpb.Struct, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode response: %w", err)
	}
	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return structpb.NewStruct(m)
}

func respond(v any) (*structpb.Struct, error) {
	out, err := toStruct(v)
	if err != nil {
		return nil, grpcError(err)
	}
	return out, nil
}

// ConsoleClient calls ConsoleServer over a client connection.
type ConsoleClient struct {
	cc grpc.ClientConnInterface
}

func NewConsoleClient(cc grpc.ClientConnInterface) *ConsoleClient {
	return &ConsoleClient{cc: cc}
}

func (c *ConsoleClient) ListItems(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, consoleMethodListItems, in, opts...)
}

func (c *ConsoleClient) ListBookings(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, consoleMethodListBookings, in, opts...)
}

func (c *ConsoleClient) ListMovements(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, consoleMethodListMovements, in, opts...)
}

func (c *ConsoleClient) RegisterMovement(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, consoleMethodRegisterMovement, in, opts...)
}

func (c *ConsoleClient) GetDashboard(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, consoleMethodGetDashboard, in, opts...)
}

func (c *ConsoleClient) invoke(ctx context.Context, method string, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	if in == nil {
		in = &structpb.Struct{}
	}
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, method, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}
