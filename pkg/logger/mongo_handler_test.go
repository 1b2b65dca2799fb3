package logger_test

import (
	"context"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/shashiranjanraj/kashvi-shop/pkg/logger"
)

type fakeInserter struct {
	mu   sync.Mutex
	docs []logger.LogDocument
}

func (f *fakeInserter) InsertMany(_ context.Context, docs []interface{}, _ ...*options.InsertManyOptions) (*mongo.InsertManyResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, d := range docs {
		f.docs = append(f.docs, d.(logger.LogDocument))
	}
	return &mongo.InsertManyResult{}, nil
}

func TestMongoHandler_FlushesOnClose(t *testing.T) {
	sink := &fakeInserter{}
	h := logger.NewMongoHandler(sink)

	log := slog.New(h).With("request_id", "req-1")
	log.Info("order created", "order_id", "abc")
	log.WithGroup("cart").Warn("merge", "slots", 2)

	h.Close()
	h.Close()

	sink.mu.Lock()
	defer sink.mu.Unlock()
	require.Len(t, sink.docs, 2)
	assert.Equal(t, "order created", sink.docs[0].Msg)
	assert.Equal(t, "req-1", sink.docs[0].RequestID)
	assert.Equal(t, "abc", sink.docs[0].Attrs["order_id"])
	assert.Equal(t, "WARN", sink.docs[1].Level)
	assert.EqualValues(t, 2, sink.docs[1].Attrs["cart.slots"])
}

func TestWithCtx_FallsBackToBase(t *testing.T) {
	assert.Same(t, logger.L, logger.WithCtx(context.Background()))

	custom := slog.New(slog.NewTextHandler(nil, nil))
	ctx := logger.InjectLogger(context.Background(), custom)
	assert.Same(t, custom, logger.WithCtx(ctx))
}
