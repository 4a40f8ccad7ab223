package server

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"

	"github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors/logging"
	"github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors/recovery"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/alfredjeanlab/potties/internal/metrics"
)

// InterceptorLogger adapts a slog.Logger to the go-grpc-middleware logging API.
func InterceptorLogger(l *slog.Logger) logging.Logger {
	return logging.LoggerFunc(func(ctx context.Context, lvl logging.Level, msg string, fields ...any) {
		l.Log(ctx, slog.Level(lvl), msg, fields...)
	})
}

// recoveryHandler logs a recovered panic with its stack and converts it to
// codes.Internal.
func recoveryHandler(l *slog.Logger, m *metrics.Metrics) recovery.RecoveryHandlerFuncContext {
	return func(ctx context.Context, p any) error {
		if m != nil {
			m.PanicsRecovered.Inc()
		}
		l.ErrorContext(ctx, "panic recovered in gRPC handler",
			"panic", fmt.Sprintf("%v", p),
			"stack", string(debug.Stack()),
		)
		return status.Error(codes.Internal, "internal server error")
	}
}
