package processor

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoreBuildsOnceUnderConcurrency(t *testing.T) {
	var calls atomic.Int32
	store := NewStore(BuilderFunc(func(ctx context.Context) (*Dataset, error) {
		calls.Add(1)
		time.Sleep(20 * time.Millisecond)
		return NewDataset(delayed(3, 2023, "X")), nil
	}))
	assert.False(t, store.Loaded())

	const workers = 32
	results := make([]*Dataset, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			ds, err := store.Get(context.Background())
			assert.NoError(t, err)
			results[i] = ds
		}(i)
	}
	wg.Wait()

	assert.Equal(t, int32(1), calls.Load())
	assert.True(t, store.Loaded())
	for _, ds := range results {
		require.NotNil(t, ds)
		assert.Same(t, results[0], ds)
	}
	assert.Equal(t, 3, results[0].Len())
}

func TestStoreCachesError(t *testing.T) {
	var calls atomic.Int32
	boom := errors.New("boom")
	store := NewStore(BuilderFunc(func(ctx context.Context) (*Dataset, error) {
		calls.Add(1)
		return nil, boom
	}))

	ds, err := store.Get(context.Background())
	assert.ErrorIs(t, err, boom)
	require.NotNil(t, ds)
	assert.Zero(t, ds.Len())

	_, err = store.Get(context.Background())
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, int32(1), calls.Load())
}

func TestStoreIgnoresCallerCancel(t *testing.T) {
	store := NewStore(BuilderFunc(func(ctx context.Context) (*Dataset, error) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		return NewDataset(delayed(1, 2023, "X")), nil
	}))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	ds, err := store.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, ds.Len())
}
