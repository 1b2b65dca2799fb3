// Package migration runs versioned changes against the document store:
// index creation, backfills, collection options.
//
//	func init() {
//	    migration.Register("20260101000000_users_email_unique", &UsersEmailUnique{})
//	}
//
//	kashvi-shop migrate             // run all pending
//	kashvi-shop migrate:rollback    // roll back the last batch
package migration

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/shashiranjanraj/kashvi-shop/pkg/logger"
)

// Migration is the interface every migration must implement.
type Migration interface {
	Up(ctx context.Context, db *mongo.Database) error
	Down(ctx context.Context, db *mongo.Database) error
}

// Record is one applied migration.
type Record struct {
	Name  string    `bson:"name"`
	Batch int       `bson:"batch"`
	RunAt time.Time `bson:"runAt"`
}

// Ledger persists which migrations ran.
type Ledger interface {
	Records(ctx context.Context) ([]Record, error)
	Add(ctx context.Context, rec Record) error
	Remove(ctx context.Context, name string) error
}

// ------------------- Registry -------------------

type registeredMigration struct {
	name string
	m    Migration
}

var (
	regMu    sync.Mutex
	registry []registeredMigration
)

// Register adds a migration. name should be timestamp-prefixed so that
// lexical order is chronological order.
func Register(name string, m Migration) {
	regMu.Lock()
	defer regMu.Unlock()
	registry = append(registry, registeredMigration{name: name, m: m})
}

func registered() []registeredMigration {
	regMu.Lock()
	defer regMu.Unlock()
	out := append([]registeredMigration(nil), registry...)
	sort.Slice(out, func(i, j int) bool { return out[i].name < out[j].name })
	return out
}

// ErrNoMigrations is returned when Run is called but no migrations are registered.
var ErrNoMigrations = errors.New("migration: no migrations registered")

// ------------------- Runner -------------------

// Runner executes and tracks migrations.
type Runner struct {
	db     *mongo.Database
	ledger Ledger
	out    io.Writer
}

// New creates a Runner that records progress in the "migrations" collection.
func New(db *mongo.Database, out io.Writer) *Runner {
	return NewWithLedger(db, &mongoLedger{col: db.Collection("migrations")}, out)
}

// NewWithLedger creates a Runner with a custom ledger.
func NewWithLedger(db *mongo.Database, ledger Ledger, out io.Writer) *Runner {
	if out == nil {
		out = io.Discard
	}
	return &Runner{db: db, ledger: ledger, out: out}
}

// Pending returns the names of migrations that have not yet been run.
func (r *Runner) Pending(ctx context.Context) ([]string, error) {
	regs, err := r.pending(ctx)
	if err != nil {
		return nil, err
	}
	names := make([]string, len(regs))
	for i, reg := range regs {
		names[i] = reg.name
	}
	return names, nil
}

func (r *Runner) pending(ctx context.Context) ([]registeredMigration, error) {
	ran, err := r.ledger.Records(ctx)
	if err != nil {
		return nil, fmt.Errorf("migration: fetch records: %w", err)
	}
	ranSet := make(map[string]bool, len(ran))
	for _, rec := range ran {
		ranSet[rec.Name] = true
	}

	var pending []registeredMigration
	for _, reg := range registered() {
		if !ranSet[reg.name] {
			pending = append(pending, reg)
		}
	}
	return pending, nil
}

// Run executes all pending migrations in a single batch.
func (r *Runner) Run(ctx context.Context) error {
	if len(registered()) == 0 {
		return ErrNoMigrations
	}

	pending, err := r.pending(ctx)
	if err != nil {
		return err
	}
	if len(pending) == 0 {
		fmt.Fprintln(r.out, "Nothing to migrate.")
		return nil
	}

	batch, err := r.nextBatch(ctx)
	if err != nil {
		return err
	}

	for _, reg := range pending {
		logger.Info("migration: running", "name", reg.name)
		fmt.Fprintf(r.out, "  ▶ Migrating: %s\n", reg.name)

		if err := reg.m.Up(ctx, r.db); err != nil {
			return fmt.Errorf("migration: %s up: %w", reg.name, err)
		}
		if err := r.ledger.Add(ctx, Record{Name: reg.name, Batch: batch, RunAt: time.Now().UTC()}); err != nil {
			return fmt.Errorf("migration: record %s: %w", reg.name, err)
		}

		fmt.Fprintf(r.out, "  ✅ Migrated:  %s\n", reg.name)
	}

	logger.Info("migration: done", "ran", len(pending), "batch", batch)
	return nil
}

// Rollback reverses every migration of the most recent batch, newest first.
func (r *Runner) Rollback(ctx context.Context) error {
	ran, err := r.ledger.Records(ctx)
	if err != nil {
		return fmt.Errorf("migration: fetch records: %w", err)
	}

	last := 0
	for _, rec := range ran {
		if rec.Batch > last {
			last = rec.Batch
		}
	}
	if last == 0 {
		fmt.Fprintln(r.out, "Nothing to roll back.")
		return nil
	}

	var batch []Record
	for _, rec := range ran {
		if rec.Batch == last {
			batch = append(batch, rec)
		}
	}
	sort.Slice(batch, func(i, j int) bool { return batch[i].Name > batch[j].Name })

	regMap := make(map[string]Migration)
	for _, reg := range registered() {
		regMap[reg.name] = reg.m
	}

	for _, rec := range batch {
		m, ok := regMap[rec.Name]
		if !ok {
			return fmt.Errorf("migration: cannot roll back %s: not registered", rec.Name)
		}

		fmt.Fprintf(r.out, "  ◀ Rolling back: %s\n", rec.Name)
		logger.Info("migration: rolling back", "name", rec.Name)

		if err := m.Down(ctx, r.db); err != nil {
			return fmt.Errorf("migration: %s down: %w", rec.Name, err)
		}
		if err := r.ledger.Remove(ctx, rec.Name); err != nil {
			return fmt.Errorf("migration: forget %s: %w", rec.Name, err)
		}

		fmt.Fprintf(r.out, "  ✅ Rolled back:  %s\n", rec.Name)
	}
	return nil
}

// Status prints every registered migration and whether it ran.
func (r *Runner) Status(ctx context.Context) error {
	ran, err := r.ledger.Records(ctx)
	if err != nil {
		return fmt.Errorf("migration: fetch records: %w", err)
	}
	ranMap := make(map[string]Record, len(ran))
	for _, rec := range ran {
		ranMap[rec.Name] = rec
	}

	fmt.Fprintf(r.out, "%-60s  %-8s  %s\n", "Migration", "Status", "Batch")
	for _, reg := range registered() {
		if rec, ok := ranMap[reg.name]; ok {
			fmt.Fprintf(r.out, "%-60s  %-8s  %d\n", reg.name, "Ran", rec.Batch)
		} else {
			fmt.Fprintf(r.out, "%-60s  %-8s  -\n", reg.name, "Pending")
		}
	}
	return nil
}

func (r *Runner) nextBatch(ctx context.Context) (int, error) {
	ran, err := r.ledger.Records(ctx)
	if err != nil {
		return 0, fmt.Errorf("migration: fetch records: %w", err)
	}
	last := 0
	for _, rec := range ran {
		if rec.Batch > last {
			last = rec.Batch
		}
	}
	return last + 1, nil
}

// ------------------- Mongo ledger -------------------

type mongoLedger struct {
	col *mongo.Collection
}

func (l *mongoLedger) Records(ctx context.Context) ([]Record, error) {
	cur, err := l.col.Find(ctx, bson.D{}, options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		return nil, err
	}
	var out []Record
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (l *mongoLedger) Add(ctx context.Context, rec Record) error {
	_, err := l.col.InsertOne(ctx, rec)
	return err
}

func (l *mongoLedger) Remove(ctx context.Context, name string) error {
	_, err := l.col.DeleteOne(ctx, bson.M{"name": name})
	return err
}

// ------------------- Helpers -------------------

// UniqueIndex is a Migration that creates a unique index on one field.
type UniqueIndex struct {
	Collection string
	Field      string
}

func (u UniqueIndex) indexName() string { return u.Field + "_unique" }

func (u UniqueIndex) Up(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection(u.Collection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: u.Field, Value: 1}},
		Options: options.Index().SetUnique(true).SetName(u.indexName()),
	})
	return err
}

func (u UniqueIndex) Down(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection(u.Collection).Indexes().DropOne(ctx, u.indexName())
	return err
}
