package queue

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	"github.com/shashiranjanraj/kashvi-shop/pkg/logger"
)

// failedJobRecord is the document persisted to the failed_jobs collection.
type failedJobRecord struct {
	JobType  string    `bson:"jobType"`
	Payload  string    `bson:"payload"`
	Error    string    `bson:"error"`
	Attempts int       `bson:"attempts"`
	FailedAt time.Time `bson:"failedAt"`
}

// MongoFailedStore writes failed jobs to a collection.
type MongoFailedStore struct {
	col *mongo.Collection
}

// NewMongoFailedStore persists to col, typically db.Collection("failed_jobs").
func NewMongoFailedStore(col *mongo.Collection) *MongoFailedStore {
	return &MongoFailedStore{col: col}
}

func (s *MongoFailedStore) Record(ctx context.Context, f FailedJob) error {
	_, err := s.col.InsertOne(ctx, failedJobRecord{
		JobType:  f.Type,
		Payload:  string(f.Payload),
		Error:    f.Err,
		Attempts: f.Attempts,
		FailedAt: f.FailedAt,
	})
	return err
}

// persistFailed appends to the in-memory list and, when configured, to the
// failed store.
func (m *Manager) persistFailed(ctx context.Context, f FailedJob) {
	m.mu.Lock()
	m.failed = append(m.failed, f)
	store := m.store
	m.mu.Unlock()

	if store == nil {
		return
	}
	if err := store.Record(context.WithoutCancel(ctx), f); err != nil {
		logger.Error("queue: failed to persist failed job", "type", f.Type, "error", err)
	}
}
