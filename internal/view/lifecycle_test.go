package view

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestControllerStates(t *testing.T) {
	t.Run("zero value is loading", func(t *testing.T) {
		var ctrl Controller[int]
		state, items, err := ctrl.Snapshot()
		assert.Equal(t, StateLoading, state)
		assert.Nil(t, items)
		assert.NoError(t, err)
	})

	t.Run("successful fetch is ready", func(t *testing.T) {
		var ctrl Controller[int]
		ctrl.Load(context.Background(), func(context.Context) ([]int, error) {
			return []int{1, 2, 3}, nil
		})
		state, items, err := ctrl.Snapshot()
		assert.Equal(t, StateReady, state)
		assert.Equal(t, []int{1, 2, 3}, items)
		assert.NoError(t, err)
	})

	t.Run("no rows is empty, not error", func(t *testing.T) {
		var ctrl Controller[int]
		ctrl.Load(context.Background(), func(context.Context) ([]int, error) {
			return nil, nil
		})
		state, _, err := ctrl.Snapshot()
		assert.Equal(t, StateEmpty, state)
		assert.NoError(t, err)
	})

	t.Run("fetch failure is error", func(t *testing.T) {
		boom := errors.New("boom")
		var ctrl Controller[int]
		ctrl.Load(context.Background(), func(context.Context) ([]int, error) {
			return nil, boom
		})
		state, items, err := ctrl.Snapshot()
		assert.Equal(t, StateError, state)
		assert.Nil(t, items)
		assert.ErrorIs(t, err, boom)
	})
}

func TestControllerCancellationIsNotAnError(t *testing.T) {
	var ctrl Controller[int]
	ctrl.Load(context.Background(), func(ctx context.Context) ([]int, error) {
		return nil, context.Canceled
	})

	state, _, err := ctrl.Snapshot()
	assert.Equal(t, StateLoading, state)
	assert.NoError(t, err)
}

func TestControllerStaleResponseSuppressed(t *testing.T) {
	var ctrl Controller[string]

	firstStarted := make(chan struct{})
	release := make(chan struct{})

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		ctrl.Load(context.Background(), func(ctx context.Context) ([]string, error) {
			close(firstStarted)
			<-release
			// the transport delivered a late success for the superseded load
			return []string{"stale"}, nil
		})
	}()

	<-firstStarted

	// a second load supersedes the first
	ctrl.Load(context.Background(), func(context.Context) ([]string, error) {
		return []string{"fresh"}, nil
	})

	close(release)
	wg.Wait()

	state, items, err := ctrl.Snapshot()
	require.NoError(t, err)
	assert.Equal(t, StateReady, state)
	assert.Equal(t, []string{"fresh"}, items)
}

func TestControllerTeardownDiscardsInFlight(t *testing.T) {
	var ctrl Controller[int]

	started := make(chan struct{})
	release := make(chan struct{})

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		ctrl.Load(context.Background(), func(ctx context.Context) ([]int, error) {
			close(started)
			<-release
			return []int{42}, nil
		})
	}()

	<-started
	ctrl.Teardown()
	close(release)
	wg.Wait()

	state, items, _ := ctrl.Snapshot()
	assert.Equal(t, StateLoading, state)
	assert.Nil(t, items)
}

func TestLoaderBeginCancelsPrior(t *testing.T) {
	var l Loader

	ctx1, gen1 := l.Begin(context.Background())
	ctx2, gen2 := l.Begin(context.Background())

	assert.Error(t, ctx1.Err())
	assert.NoError(t, ctx2.Err())
	assert.False(t, l.Alive(gen1))
	assert.True(t, l.Alive(gen2))
}
