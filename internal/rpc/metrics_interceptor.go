package rpc

import (
	"context"
	"strings"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/status"

	"github.com/systmms/secretcore/internal/observability"
)

// MetricsInterceptor records per-method RPC latency into C12's Prometheus
// histogram, splitting the method's full name into service/method labels
// the way the gRPC wire format itself does ("/service/method").
func MetricsInterceptor(metrics *observability.Metrics) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
		start := time.Now()
		resp, err := handler(ctx, req)

		service, method := splitFullMethod(info.FullMethod)
		metrics.RecordRPC(service, method, status.Code(err).String(), time.Since(start).Seconds())
		return resp, err
	}
}

func splitFullMethod(fullMethod string) (service, method string) {
	trimmed := strings.TrimPrefix(fullMethod, "/")
	idx := strings.LastIndex(trimmed, "/")
	if idx < 0 {
		return trimmed, ""
	}
	return trimmed[:idx], trimmed[idx+1:]
}
