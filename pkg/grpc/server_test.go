package grpc_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/health/grpc_health_v1"

	shopgrpc "github.com/shashiranjanraj/kashvi-shop/pkg/grpc"
)

func TestHealthFollowsStore(t *testing.T) {
	ctx := context.Background()

	var down error
	h := shopgrpc.NewHealthServer(shopgrpc.PingFunc(func(context.Context) error { return down }))

	res, err := h.Check(ctx, &grpc_health_v1.HealthCheckRequest{})
	require.NoError(t, err)
	assert.Equal(t, grpc_health_v1.HealthCheckResponse_SERVING, res.Status)

	down = errors.New("no primary")
	res, err = h.Check(ctx, &grpc_health_v1.HealthCheckRequest{})
	require.NoError(t, err)
	assert.Equal(t, grpc_health_v1.HealthCheckResponse_NOT_SERVING, res.Status)
}

func TestServerStartStop(t *testing.T) {
	srv := shopgrpc.NewServer(nil)
	require.NoError(t, srv.Start("127.0.0.1:0"))
	assert.NotNil(t, srv.Addr())
	srv.Stop()
}
