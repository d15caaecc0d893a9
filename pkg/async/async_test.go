package async_test

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/authenticator/pkg/async"
)

func TestAsync(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	f := async.Async(ctx, 42, func(ctx context.Context, n int) (string, error) {
		time.Sleep(20 * time.Millisecond)
		return fmt.Sprintf("n=%d", n), nil
	})

	got, err := f.Await()
	require.NoError(t, err)
	assert.Equal(t, "n=42", got)
	assert.True(t, f.IsComplete())
}

func TestAsync_CancelledContext(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var called atomic.Bool
	f := async.Async(ctx, 1, func(ctx context.Context, n int) (int, error) {
		called.Store(true)
		return n, nil
	})

	_, err := f.Await()
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, called.Load())
}

func TestAsync_ErrorPropagation(t *testing.T) {
	t.Parallel()
	boom := errors.New("boom")

	f := async.Async(context.Background(), 0, func(ctx context.Context, _ int) (int, error) {
		return 0, boom
	})

	_, err := f.Await()
	assert.ErrorIs(t, err, boom)
}

func TestAwaitWithTimeout(t *testing.T) {
	t.Parallel()
	release := make(chan struct{})
	defer close(release)

	slow := async.Async(context.Background(), 0, func(ctx context.Context, _ int) (int, error) {
		<-release
		return 1, nil
	})

	_, err := slow.AwaitWithTimeout(10 * time.Millisecond)
	assert.ErrorIs(t, err, async.ErrTimeout)
	assert.False(t, slow.IsComplete())

	fast := async.Async(context.Background(), 7, func(ctx context.Context, n int) (int, error) {
		return n, nil
	})
	got, err := fast.AwaitWithTimeout(time.Second)
	require.NoError(t, err)
	assert.Equal(t, 7, got)
}

func TestWaitAll(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	boom := errors.New("boom")

	square := func(ctx context.Context, n int) (int, error) {
		if n == 3 {
			return 0, boom
		}
		return n * n, nil
	}

	futures := []*async.Future[int]{
		async.Async(ctx, 1, square),
		async.Async(ctx, 2, square),
		async.Async(ctx, 3, square),
		async.Async(ctx, 4, square),
	}

	results, err := async.WaitAll(futures...)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, []int{1, 4, 0, 16}, results, "every future is awaited")
}

func TestMap_OrderAndIsolation(t *testing.T) {
	t.Parallel()
	boom := errors.New("boom")

	items := []int{5, 4, 3, 2, 1}
	results := async.Map(context.Background(), items, 0, func(ctx context.Context, n int) (int, error) {
		time.Sleep(time.Duration(n) * time.Millisecond)
		if n == 3 {
			return 0, boom
		}
		return n * 10, nil
	})

	require.Len(t, results, len(items))
	assert.Equal(t, 50, results[0].Value)
	assert.Equal(t, 40, results[1].Value)
	assert.ErrorIs(t, results[2].Err, boom)
	assert.Equal(t, 20, results[3].Value)
	assert.Equal(t, 10, results[4].Value)
	assert.NoError(t, results[4].Err)
}

func TestMap_Limit(t *testing.T) {
	t.Parallel()

	var running, peak atomic.Int32
	items := make([]int, 20)

	async.Map(context.Background(), items, 3, func(ctx context.Context, _ int) (struct{}, error) {
		n := running.Add(1)
		for {
			p := peak.Load()
			if n <= p || peak.CompareAndSwap(p, n) {
				break
			}
		}
		time.Sleep(5 * time.Millisecond)
		running.Add(-1)
		return struct{}{}, nil
	})

	assert.LessOrEqual(t, peak.Load(), int32(3))
	assert.Positive(t, peak.Load())
}

func TestMap_Empty(t *testing.T) {
	t.Parallel()
	results := async.Map(context.Background(), []int(nil), 4, func(ctx context.Context, n int) (int, error) {
		return n, nil
	})
	assert.Empty(t, results)
}
