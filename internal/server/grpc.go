package server

import (
	"log/slog"

	grpcprom "github.com/grpc-ecosystem/go-grpc-middleware/providers/prometheus"
	"github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors/logging"
	"github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors/recovery"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	"github.com/alfredjeanlab/potties/internal/metrics"
)

// HealthServiceName is the service name reported by the gRPC health server in
// addition to the overall ("") status.
const HealthServiceName = "potties.v1.Potties"

// NewGRPCServer creates a gRPC server with recovery, logging and (when m is
// non-nil) prometheus interceptors, and registers the standard health service
// and reflection. Both health entries start as SERVING.
func NewGRPCServer(logger *slog.Logger, m *metrics.Metrics) (*grpc.Server, *health.Server) {
	if logger == nil {
		logger = slog.Default()
	}

	interceptors := []grpc.UnaryServerInterceptor{}
	var srvMetrics *grpcprom.ServerMetrics
	if m != nil {
		srvMetrics = grpcprom.NewServerMetrics()
		m.Registry().MustRegister(srvMetrics)
		interceptors = append(interceptors, srvMetrics.UnaryServerInterceptor())
	}
	interceptors = append(interceptors,
		logging.UnaryServerInterceptor(InterceptorLogger(logger),
			logging.WithLogOnEvents(logging.FinishCall)),
		recovery.UnaryServerInterceptor(
			recovery.WithRecoveryHandlerContext(recoveryHandler(logger, m))),
	)

	srv := grpc.NewServer(grpc.ChainUnaryInterceptor(interceptors...))

	hs := health.NewServer()
	hs.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	hs.SetServingStatus(HealthServiceName, healthpb.HealthCheckResponse_SERVING)
	healthpb.RegisterHealthServer(srv, hs)
	reflection.Register(srv)

	if srvMetrics != nil {
		srvMetrics.InitializeMetrics(srv)
	}
	return srv, hs
}
