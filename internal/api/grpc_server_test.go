package api

import (
	"context"
	"net"
	"testing"

	"labtrack/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
	"google.golang.org/protobuf/types/known/structpb"
)

func startConsole(t *testing.T, cfg *config.APIConfig) *grpc.ClientConn {
	t.Helper()

	lis := bufconn.Listen(1 << 20)
	srv, err := NewGRPCServerWithListener(cfg, lis, newTestServices(t), nil)
	require.NoError(t, err)
	go func() { _ = srv.Serve() }()
	t.Cleanup(func() { srv.Shutdown(context.Background()) })

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func mustStruct(t *testing.T, m map[string]any) *structpb.Struct {
	t.Helper()
	s, err := structpb.NewStruct(m)
	require.NoError(t, err)
	return s
}

func TestConsoleService(t *testing.T) {
	cfg := &config.APIConfig{Enabled: true}
	client := NewConsoleClient(startConsole(t, cfg))
	ctx := context.Background()

	t.Run("ListItems", func(t *testing.T) {
		resp, err := client.ListItems(ctx, mustStruct(t, map[string]any{"campus": "Campus Sur"}))
		require.NoError(t, err)
		items := resp.GetFields()["items"].GetListValue().GetValues()
		assert.Len(t, items, 2)
		options := resp.GetFields()["buildingOptions"].GetListValue().GetValues()
		require.Len(t, options, 2)
		assert.Equal(t, "Ciencias", options[0].GetStringValue())
	})

	t.Run("ListItems rejects unknown estado", func(t *testing.T) {
		_, err := client.ListItems(ctx, mustStruct(t, map[string]any{"estado": "Perdido"}))
		assert.Equal(t, codes.InvalidArgument, status.Code(err))
	})

	t.Run("ListBookings", func(t *testing.T) {
		resp, err := client.ListBookings(ctx, mustStruct(t, map[string]any{"search": "ana"}))
		require.NoError(t, err)
		bookings := resp.GetFields()["bookings"].GetListValue().GetValues()
		require.Len(t, bookings, 1)
		assert.Equal(t, "BV-001", bookings[0].GetStructValue().GetFields()["id"].GetStringValue())
	})

	t.Run("RegisterMovement and ListMovements", func(t *testing.T) {
		resp, err := client.RegisterMovement(ctx, mustStruct(t, map[string]any{
			"itemId":      "INV-0003",
			"tipo":        "Baja",
			"responsable": "Ana López",
			"motivo":      "Corrosión",
		}))
		require.NoError(t, err)
		assert.Equal(t, "Campana de Extracción", resp.GetFields()["itemNombre"].GetStringValue())

		list, err := client.ListMovements(ctx, mustStruct(t, map[string]any{"tipo": "Baja"}))
		require.NoError(t, err)
		assert.Len(t, list.GetFields()["movements"].GetListValue().GetValues(), 1)
	})

	t.Run("RegisterMovement conflict", func(t *testing.T) {
		_, err := client.RegisterMovement(ctx, mustStruct(t, map[string]any{
			"itemId":      "INV-0008",
			"tipo":        "Baja",
			"responsable": "Ana López",
		}))
		assert.Equal(t, codes.FailedPrecondition, status.Code(err))
	})

	t.Run("GetDashboard", func(t *testing.T) {
		resp, err := client.GetDashboard(ctx, nil)
		require.NoError(t, err)
		kpis := resp.GetFields()["kpis"].GetStructValue()
		assert.EqualValues(t, 8, kpis.GetFields()["totalActivos"].GetNumberValue())
	})
}

func TestConsoleServiceAuth(t *testing.T) {
	cfg := &config.APIConfig{
		Enabled: true,
		Auth: config.APIAuthConfig{
			Enabled: true,
			APIKeys: []config.APIClientKey{
				{Name: "dash", Key: "k1", Extra: "e1", Permissions: []string{permReadDashboard}},
			},
		},
	}
	conn := startConsole(t, cfg)
	client := NewConsoleClient(conn)

	_, err := client.GetDashboard(context.Background(), nil)
	assert.Equal(t, codes.Unauthenticated, status.Code(err))

	authed := metadata.AppendToOutgoingContext(context.Background(), "x-api-key", "k1", "x-api-extra", "e1")
	_, err = client.GetDashboard(authed, nil)
	assert.NoError(t, err)

	_, err = client.ListItems(authed, nil)
	assert.Equal(t, codes.PermissionDenied, status.Code(err))

	health, err := healthpb.NewHealthClient(conn).Check(context.Background(), &healthpb.HealthCheckRequest{Service: consoleServiceName})
	require.NoError(t, err)
	assert.Equal(t, healthpb.HealthCheckResponse_SERVING, health.GetStatus())
}

func TestRequiredPermission(t *testing.T) {
	assert.Equal(t, permReadInventory, requiredPermission(consoleMethodListItems))
	assert.Equal(t, permWriteMovements, requiredPermission(consoleMethodRegisterMovement))
	assert.Equal(t, "", requiredPermission("/other.Service/Call"))
}

func TestGRPCCode(t *testing.T) {
	assert.Equal(t, codes.Internal, grpcCode(assert.AnError))
	assert.Equal(t, codes.Internal, status.Code(grpcError(assert.AnError)))
}
