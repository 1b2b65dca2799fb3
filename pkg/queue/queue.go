// Package queue runs background jobs.
//
// Usage:
//
//	type VerifyOrderProducts struct{ OrderID string }
//	func (VerifyOrderProducts) Name() string { return "orders.verify_products" }
//	func (j *VerifyOrderProducts) Handle(ctx context.Context) error { ... }
//
//	q := queue.New(queue.NewMemoryDriver())
//	q.Register("orders.verify_products", func() queue.Job { return &VerifyOrderProducts{} })
//	q.Dispatch(ctx, &VerifyOrderProducts{OrderID: id})
//	go q.Run(ctx, 2)
package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/shashiranjanraj/kashvi-shop/pkg/logger"
	"github.com/shashiranjanraj/kashvi-shop/pkg/metrics"
)

// Job is the interface every queued job must satisfy. Jobs are JSON-encoded
// on dispatch, so exported fields carry their state.
type Job interface {
	Name() string
	// Handle executes the job. Return a non-nil error to signal failure.
	Handle(ctx context.Context) error
}

// FailedJob holds information about a job that exhausted its retries.
type FailedJob struct {
	Type     string
	Payload  json.RawMessage
	Err      string
	FailedAt time.Time
	Attempts int
}

// Driver is the queue storage backend.
type Driver interface {
	Push(ctx context.Context, payload []byte) error
	// Pop blocks until a payload is available. A nil payload with a nil error
	// means the wait timed out.
	Pop(ctx context.Context) ([]byte, error)
}

// Delayer is implemented by drivers that can schedule payloads themselves.
type Delayer interface {
	PushDelayed(ctx context.Context, payload []byte, delay time.Duration) error
}

// FailedStore persists failed jobs beyond the in-memory list.
type FailedStore interface {
	Record(ctx context.Context, f FailedJob) error
}

// ------------------- Manager -------------------

// Manager is the central queue hub.
type Manager struct {
	mu       sync.RWMutex
	driver   Driver
	registry map[string]func() Job
	failed   []FailedJob
	store    FailedStore
	maxRetry int
	backoff  func(attempt int) time.Duration
}

// Option configures a Manager.
type Option func(*Manager)

// WithMaxRetry sets how many times a failing job is attempted.
func WithMaxRetry(n int) Option {
	return func(m *Manager) {
		if n > 0 {
			m.maxRetry = n
		}
	}
}

// WithBackoff sets the pause before retry number attempt+1.
func WithBackoff(f func(attempt int) time.Duration) Option {
	return func(m *Manager) { m.backoff = f }
}

// WithFailedStore persists exhausted jobs to s.
func WithFailedStore(s FailedStore) Option {
	return func(m *Manager) { m.store = s }
}

// New creates a Manager on driver.
func New(driver Driver, opts ...Option) *Manager {
	m := &Manager{
		driver:   driver,
		registry: map[string]func() Job{},
		maxRetry: 3,
		backoff:  func(attempt int) time.Duration { return time.Duration(attempt) * time.Second },
	}
	for _, o := range opts {
		o(m)
	}
	return m
}

// Register makes a job type available for decoding by name.
// Call this once at boot for every job type.
func (m *Manager) Register(name string, factory func() Job) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.registry[name] = factory
}

// ------------------- Dispatch -------------------

type envelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// Dispatch pushes job onto the queue immediately.
func (m *Manager) Dispatch(ctx context.Context, job Job) error {
	env, err := encode(job)
	if err != nil {
		return err
	}
	return m.driver.Push(ctx, env)
}

// DispatchAfter pushes job onto the queue after delay. Drivers without
// native scheduling fall back to an in-process timer.
func (m *Manager) DispatchAfter(ctx context.Context, job Job, delay time.Duration) error {
	env, err := encode(job)
	if err != nil {
		return err
	}
	if d, ok := m.driver.(Delayer); ok {
		return d.PushDelayed(ctx, env, delay)
	}
	time.AfterFunc(delay, func() {
		if err := m.driver.Push(context.Background(), env); err != nil {
			logger.Error("queue: delayed dispatch failed", "type", job.Name(), "error", err)
		}
	})
	return nil
}

func encode(job Job) ([]byte, error) {
	payload, err := json.Marshal(job)
	if err != nil {
		return nil, fmt.Errorf("queue: marshal job %s: %w", job.Name(), err)
	}
	env, err := json.Marshal(envelope{Type: job.Name(), Payload: payload})
	if err != nil {
		return nil, fmt.Errorf("queue: marshal envelope: %w", err)
	}
	return env, nil
}

// ------------------- Worker -------------------

// Run processes jobs with n concurrent workers until ctx is cancelled, then
// waits for in-flight jobs to finish.
func (m *Manager) Run(ctx context.Context, n int) {
	if n < 1 {
		n = 1
	}
	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func() {
			defer wg.Done()
			m.work(ctx)
		}()
	}
	logger.Info("queue: workers started", "count", n)
	wg.Wait()
	logger.Info("queue: workers stopped")
}

func (m *Manager) work(ctx context.Context) {
	for {
		raw, err := m.driver.Pop(ctx)
		if ctx.Err() != nil {
			return
		}
		if err != nil {
			logger.Warn("queue: pop failed", "error", err)
			if !sleep(ctx, 500*time.Millisecond) {
				return
			}
			continue
		}
		if raw == nil {
			continue
		}
		m.process(ctx, raw)
	}
}

func (m *Manager) process(ctx context.Context, raw []byte) {
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		logger.Error("queue: bad envelope", "error", err)
		return
	}

	m.mu.RLock()
	factory, ok := m.registry[env.Type]
	m.mu.RUnlock()

	if !ok {
		logger.Warn("queue: unregistered job type", "type", env.Type)
		return
	}

	job := factory()
	if err := json.Unmarshal(env.Payload, job); err != nil {
		logger.Error("queue: unmarshal payload", "type", env.Type, "error", err)
		return
	}

	m.runWithRetry(ctx, job, env)
}

func (m *Manager) runWithRetry(ctx context.Context, job Job, env envelope) {
	start := time.Now()
	var lastErr error
	for attempt := 1; attempt <= m.maxRetry; attempt++ {
		if err := job.Handle(ctx); err != nil {
			lastErr = err
			logger.Warn("queue: job failed, retrying",
				"type", env.Type, "attempt", attempt, "error", err)
			if attempt < m.maxRetry && !sleep(ctx, m.backoff(attempt)) {
				break
			}
			continue
		}
		metrics.RecordQueueJob(env.Type, "processed", start)
		logger.Debug("queue: job processed", "type", env.Type)
		return
	}

	metrics.RecordQueueJob(env.Type, "failed", start)
	m.persistFailed(ctx, FailedJob{
		Type:     env.Type,
		Payload:  env.Payload,
		Err:      lastErr.Error(),
		FailedAt: time.Now().UTC(),
		Attempts: m.maxRetry,
	})
	logger.Error("queue: job exhausted retries", "type", env.Type, "error", lastErr)
}

// FailedJobs returns a snapshot of jobs that exhausted their retries.
func (m *Manager) FailedJobs() []FailedJob {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]FailedJob, len(m.failed))
	copy(out, m.failed)
	return out
}

// sleep waits for d or until ctx ends; it reports whether d elapsed.
func sleep(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
