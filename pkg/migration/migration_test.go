package migration_test

import (
	"bytes"
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/shashiranjanraj/kashvi-shop/pkg/migration"
)

type memLedger struct {
	mu   sync.Mutex
	recs []migration.Record
}

func (l *memLedger) Records(context.Context) ([]migration.Record, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]migration.Record(nil), l.recs...), nil
}

func (l *memLedger) Add(_ context.Context, rec migration.Record) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.recs = append(l.recs, rec)
	return nil
}

func (l *memLedger) Remove(_ context.Context, name string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	for i, r := range l.recs {
		if r.Name == name {
			l.recs = append(l.recs[:i], l.recs[i+1:]...)
			break
		}
	}
	return nil
}

type step struct {
	name string
	log  *[]string
}

func (s step) Up(context.Context, *mongo.Database) error {
	*s.log = append(*s.log, "up:"+s.name)
	return nil
}

func (s step) Down(context.Context, *mongo.Database) error {
	*s.log = append(*s.log, "down:"+s.name)
	return nil
}

func TestRunnerBatches(t *testing.T) {
	ctx := context.Background()
	var log []string

	migration.Register("29990101000001_test_b", step{"b", &log})
	migration.Register("29990101000000_test_a", step{"a", &log})

	ledger := &memLedger{}
	var out bytes.Buffer
	r := migration.NewWithLedger(nil, ledger, &out)

	require.NoError(t, r.Run(ctx))
	pending, err := r.Pending(ctx)
	require.NoError(t, err)
	assert.Empty(t, pending)

	migration.Register("29990101000002_test_c", step{"c", &log})
	require.NoError(t, r.Run(ctx))

	recs, _ := ledger.Records(ctx)
	batches := map[string]int{}
	for _, rec := range recs {
		batches[rec.Name] = rec.Batch
	}
	assert.Equal(t, 1, batches["29990101000000_test_a"])
	assert.Equal(t, 1, batches["29990101000001_test_b"])
	assert.Equal(t, 2, batches["29990101000002_test_c"])

	require.NoError(t, r.Rollback(ctx))
	require.NoError(t, r.Rollback(ctx))

	assert.Equal(t, []string{"up:a", "up:b", "up:c", "down:c", "down:b", "down:a"}, log)

	out.Reset()
	require.NoError(t, r.Status(ctx))
	assert.Contains(t, out.String(), "29990101000000_test_a")
	assert.Contains(t, out.String(), "Pending")
}
