package schedule_test

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/kashvi-shop/pkg/schedule"
)

func TestEveryRunsRepeatedly(t *testing.T) {
	s := schedule.New().WithTick(5 * time.Millisecond)
	var n atomic.Int32
	s.Every(10 * time.Millisecond).Name("count").Run(func(context.Context) { n.Add(1) })

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() { s.Start(ctx); close(done) }()

	require.Eventually(t, func() bool { return n.Load() >= 3 }, time.Second, 5*time.Millisecond)
	cancel()
	<-done
}

func TestWithoutOverlappingSkipsBusyTask(t *testing.T) {
	s := schedule.New().WithTick(2 * time.Millisecond)
	var running, maxRunning atomic.Int32
	release := make(chan struct{})
	s.Every(time.Millisecond).WithoutOverlapping().Run(func(context.Context) {
		cur := running.Add(1)
		if cur > maxRunning.Load() {
			maxRunning.Store(cur)
		}
		<-release
		running.Add(-1)
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() { s.Start(ctx); close(done) }()

	time.Sleep(30 * time.Millisecond)
	close(release)
	cancel()
	<-done
	assert.Equal(t, int32(1), maxRunning.Load())
}

func TestPanickingTaskKeepsScheduling(t *testing.T) {
	s := schedule.New().WithTick(2 * time.Millisecond)
	var n atomic.Int32
	s.Every(time.Millisecond).Run(func(context.Context) {
		n.Add(1)
		panic("boom")
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() { s.Start(ctx); close(done) }()

	require.Eventually(t, func() bool { return n.Load() >= 2 }, time.Second, 2*time.Millisecond)
	cancel()
	<-done
}

func TestList(t *testing.T) {
	s := schedule.New()
	s.Every(time.Minute).Name("limiter.sweep").Run(func(context.Context) {})
	s.Every(time.Hour).Run(func(context.Context) {})
	assert.Equal(t, []string{"limiter.sweep  [1m0s]", "task-2  [1h0m0s]"}, s.List())
}
