package queue_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/kashvi-shop/pkg/queue"
)

var handled sync.Map

type echoJob struct {
	Val string `json:"val"`
}

func (echoJob) Name() string { return "test.echo" }

func (j *echoJob) Handle(context.Context) error {
	handled.Store(j.Val, true)
	return nil
}

var failAttempts atomic.Int32

type failJob struct{}

func (failJob) Name() string { return "test.fail" }

func (*failJob) Handle(context.Context) error {
	failAttempts.Add(1)
	return errors.New("always fails")
}

type recordingStore struct {
	mu   sync.Mutex
	jobs []queue.FailedJob
}

func (s *recordingStore) Record(_ context.Context, f queue.FailedJob) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs = append(s.jobs, f)
	return nil
}

func (s *recordingStore) len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.jobs)
}

func newManager(opts ...queue.Option) *queue.Manager {
	opts = append([]queue.Option{queue.WithBackoff(func(int) time.Duration { return time.Millisecond })}, opts...)
	m := queue.New(queue.NewMemoryDriver(), opts...)
	m.Register("test.echo", func() queue.Job { return &echoJob{} })
	m.Register("test.fail", func() queue.Job { return &failJob{} })
	return m
}

func TestDispatchAndProcess(t *testing.T) {
	m := newManager()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() { m.Run(ctx, 2); close(done) }()

	require.NoError(t, m.Dispatch(ctx, &echoJob{Val: "hello"}))
	assert.Eventually(t, func() bool {
		_, ok := handled.Load("hello")
		return ok
	}, time.Second, 5*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("workers did not stop")
	}
}

func TestFailedJobRetry(t *testing.T) {
	store := &recordingStore{}
	m := newManager(queue.WithMaxRetry(2), queue.WithFailedStore(store))
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go m.Run(ctx, 1)

	before := failAttempts.Load()
	require.NoError(t, m.Dispatch(ctx, &failJob{}))

	assert.Eventually(t, func() bool { return len(m.FailedJobs()) == 1 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, int32(2), failAttempts.Load()-before)
	assert.Equal(t, 1, store.len())

	f := m.FailedJobs()[0]
	assert.Equal(t, "test.fail", f.Type)
	assert.Equal(t, "always fails", f.Err)
	assert.Equal(t, 2, f.Attempts)
}

func TestDispatchAfter(t *testing.T) {
	m := newManager()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go m.Run(ctx, 1)

	require.NoError(t, m.DispatchAfter(ctx, &echoJob{Val: "later"}, 20*time.Millisecond))
	assert.Eventually(t, func() bool {
		_, ok := handled.Load("later")
		return ok
	}, time.Second, 5*time.Millisecond)
}

func TestDispatchConcurrent(t *testing.T) {
	m := newManager()
	ctx := context.Background()

	var wg sync.WaitGroup
	wg.Add(20)
	for i := 0; i < 20; i++ {
		go func() {
			defer wg.Done()
			assert.NoError(t, m.Dispatch(ctx, &echoJob{Val: "c"}))
		}()
	}
	wg.Wait()
}
