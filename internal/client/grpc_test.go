package client

import (
	"context"
	"net"
	"testing"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/test/bufconn"
)

func TestGRPCHealthClient(t *testing.T) {
	lis := bufconn.Listen(1 << 20)
	srv := grpc.NewServer()
	hs := health.NewServer()
	hs.SetServingStatus("potties.v1.Potties", healthpb.HealthCheckResponse_SERVING)
	healthpb.RegisterHealthServer(srv, hs)
	go func() { _ = srv.Serve(lis) }()
	t.Cleanup(srv.Stop)

	c, err := NewGRPCHealthClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
	)
	if err != nil {
		t.Fatalf("NewGRPCHealthClient: %v", err)
	}
	t.Cleanup(func() { c.Close() })

	got, err := c.Check(context.Background(), "potties.v1.Potties")
	if err != nil {
		t.Fatalf("Check: %v", err)
	}
	if got != "SERVING" {
		t.Fatalf("status = %q, want SERVING", got)
	}

	if _, err := c.Check(context.Background(), "unknown.Service"); err == nil {
		t.Fatal("expected NotFound for unknown service")
	}
}
