package relay

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWorkerKV_ConcurrentCallersGetTheirOwnReplies(t *testing.T) {
	t.Parallel()
	require := require.New(t)
	ctx := context.Background()

	kv := newWorkerKV()
	defer kv.close()

	const callers = 50
	var wg sync.WaitGroup
	errs := make(chan error, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			key := fmt.Sprintf("key-%d", i)
			want := fmt.Sprintf("value-%d", i)
			if err := kv.set(ctx, key, want); err != nil {
				errs <- err
				return
			}
			got, err := kv.get(ctx, key)
			if err != nil {
				errs <- err
				return
			}
			if got != want {
				errs <- fmt.Errorf("got %q for %s, want %q", got, key, want)
			}
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(err)
	}
}

func TestWorkerKV_DeleteAndAbsent(t *testing.T) {
	t.Parallel()
	assert, require := assert.New(t), require.New(t)
	ctx := context.Background()

	kv := newWorkerKV()
	defer kv.close()

	got, err := kv.get(ctx, "missing")
	require.NoError(err)
	assert.Empty(got)

	require.NoError(kv.set(ctx, "k", "v"))
	require.NoError(kv.delete(ctx, "k"))
	got, err = kv.get(ctx, "k")
	require.NoError(err)
	assert.Empty(got)

	// deleting an absent key is not an error
	require.NoError(kv.delete(ctx, "k"))
}

func TestWorkerKV_Close(t *testing.T) {
	t.Parallel()
	assert, require := assert.New(t), require.New(t)
	ctx := context.Background()

	kv := newWorkerKV()
	require.NoError(kv.set(ctx, "k", "v"))

	kv.close()
	kv.close() // idempotent

	err := kv.set(ctx, "k", "v")
	require.Error(err)
	assert.ErrorIs(err, ErrStoreClosed)

	_, err = kv.get(ctx, "k")
	require.Error(err)
	assert.ErrorIs(err, ErrStoreClosed)
}

func TestWorkerKV_ContextCanceled(t *testing.T) {
	t.Parallel()
	assert, require := assert.New(t), require.New(t)

	// no worker goroutine, so the request send blocks until the context
	// cancellation is observed
	kv := &workerKV{
		requests: make(chan workerRequest),
		replies:  make(chan workerReply),
		done:     make(chan struct{}),
		pending:  map[string]chan workerReply{},
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := kv.get(ctx, "k")
	require.Error(err)
	assert.ErrorIs(err, context.Canceled)

	kv.mu.Lock()
	assert.Empty(kv.pending, "abandoned requests must not leak")
	kv.mu.Unlock()
}
