package rpc

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/systmms/secretcore/internal/observability"
)

func TestSplitFullMethodSeparatesServiceAndMethod(t *testing.T) {
	service, method := splitFullMethod("/secretcore.v1.SecretService/Create")
	assert.Equal(t, "secretcore.v1.SecretService", service)
	assert.Equal(t, "Create", method)
}

func TestSplitFullMethodHandlesMissingSlash(t *testing.T) {
	service, method := splitFullMethod("Create")
	assert.Equal(t, "Create", service)
	assert.Equal(t, "", method)
}

func TestMetricsInterceptorPassesThroughResponseAndError(t *testing.T) {
	observability.InitMetrics()
	interceptor := MetricsInterceptor(observability.New())

	info := &grpc.UnaryServerInfo{FullMethod: "/secretcore.v1.SecretService/Create"}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return "ok", nil
	}
	resp, err := interceptor(context.Background(), struct{}{}, info, handler)
	assert.NoError(t, err)
	assert.Equal(t, "ok", resp)

	failHandler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return nil, status.Error(codes.NotFound, "not found")
	}
	_, err = interceptor(context.Background(), struct{}{}, info, failHandler)
	assert.Error(t, err)
}
