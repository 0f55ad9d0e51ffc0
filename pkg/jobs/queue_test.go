package jobs

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueueProcessesJobs(t *testing.T) {
	done := make(chan string, 1)
	q := NewQueue("test", func(_ context.Context, job Job) error {
		done <- job.Payload.(string)
		return nil
	}, QueueConfig{Workers: 2})
	q.Start(context.Background())
	defer q.Stop()

	require.NoError(t, q.Enqueue(Job{ID: "1", Type: "issue", Payload: "c-1"}))

	select {
	case got := <-done:
		assert.Equal(t, "c-1", got)
	case <-time.After(2 * time.Second):
		t.Fatal("job not processed")
	}
}

func TestQueueRetriesUntilSuccess(t *testing.T) {
	var calls int32
	done := make(chan int, 1)
	q := NewQueue("test", func(_ context.Context, job Job) error {
		if atomic.AddInt32(&calls, 1) < 3 {
			return errors.New("transient")
		}
		done <- job.Attempt
		return nil
	}, QueueConfig{MaxRetries: 3, RetryDelay: time.Millisecond})
	q.Start(context.Background())
	defer q.Stop()

	require.NoError(t, q.Enqueue(Job{ID: "1"}))

	select {
	case attempt := <-done:
		assert.Equal(t, 2, attempt)
	case <-time.After(2 * time.Second):
		t.Fatal("job never succeeded")
	}
}

func TestQueueCallsOnExhausted(t *testing.T) {
	exhausted := make(chan Job, 1)
	q := NewQueue("test", func(context.Context, Job) error {
		return errors.New("permanent")
	}, QueueConfig{
		MaxRetries:  1,
		RetryDelay:  time.Millisecond,
		OnExhausted: func(job Job, _ error) { exhausted <- job },
	})
	q.Start(context.Background())
	defer q.Stop()

	require.NoError(t, q.Enqueue(Job{ID: "1"}))

	select {
	case job := <-exhausted:
		assert.Equal(t, 2, job.Attempt)
	case <-time.After(2 * time.Second):
		t.Fatal("job never exhausted")
	}
}

func TestQueueEnqueueBeforeStart(t *testing.T) {
	q := NewQueue("test", func(context.Context, Job) error { return nil }, QueueConfig{})
	require.ErrorIs(t, q.Enqueue(Job{ID: "1"}), ErrQueueStopped)
}

func TestQueueStopDrainsBufferedJobs(t *testing.T) {
	release := make(chan struct{})
	var handled int32
	q := NewQueue("test", func(_ context.Context, job Job) error {
		if job.ID == "1" {
			<-release
		}
		atomic.AddInt32(&handled, 1)
		return nil
	}, QueueConfig{Workers: 1})
	q.Start(context.Background())

	for _, id := range []string{"1", "2", "3"} {
		require.NoError(t, q.Enqueue(Job{ID: id}))
	}

	stopped := make(chan struct{})
	go func() {
		q.Stop()
		close(stopped)
	}()

	require.Eventually(t, func() bool {
		return errors.Is(q.Enqueue(Job{ID: "late"}), ErrQueueStopped)
	}, time.Second, time.Millisecond)
	close(release)

	select {
	case <-stopped:
	case <-time.After(2 * time.Second):
		t.Fatal("stop never returned")
	}
	assert.EqualValues(t, 3, atomic.LoadInt32(&handled))
}

func TestQueueRejectsJobsOnceParentContextIsCancelled(t *testing.T) {
	var handled int32
	ctx, cancel := context.WithCancel(context.Background())
	q := NewQueue("test", func(context.Context, Job) error {
		atomic.AddInt32(&handled, 1)
		return nil
	}, QueueConfig{})
	q.Start(ctx)
	defer q.Stop()

	cancel()
	err := q.Enqueue(Job{ID: "1"})
	require.ErrorIs(t, err, ErrQueueStopped)
	assert.Zero(t, atomic.LoadInt32(&handled))
}

func TestQueueBackoffIsCapped(t *testing.T) {
	q := NewQueue("test", nil, QueueConfig{RetryDelay: time.Second, MaxRetryDelay: 5 * time.Second})
	assert.Equal(t, time.Second, q.backoff(1))
	assert.Equal(t, 2*time.Second, q.backoff(2))
	assert.Equal(t, 4*time.Second, q.backoff(3))
	assert.Equal(t, 5*time.Second, q.backoff(4))
}
