package main

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// runStore starts the loop and returns a function stopping it.
func runStore(s *Store) func() {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = s.Run(ctx)
	}()
	return func() {
		cancel()
		<-done
	}
}

func TestStore_AppliesActionsInOrder(t *testing.T) {
	s := NewStore(zap.NewNop(), 4)
	recorder := &actionsRecorder{}
	s.Register(recorder)
	stop := runStore(s)
	defer stop()

	require.NoError(t, s.Dispatch(LoadBooks{}))
	require.NoError(t, s.Dispatch(LoadBooksSuccess{Books: []Book{{ID: 1}}}))
	require.NoError(t, s.Dispatch(AddBookSuccess{Book: Book{ID: 2}}))
	require.NoError(t, s.Dispatch(DeleteBookSuccess{ID: 1}))

	assert.Eventually(t, func() bool { return len(recorder.Types()) == 4 }, waitFor, tick)
	assert.Equal(t, []ActionType{LoadBooksType, LoadBooksSuccessType, AddBookSuccessType, DeleteBookSuccessType}, recorder.Types())
	assert.Equal(t, []int{2}, s.State().Collection.IDs())
	assert.False(t, s.State().Loading)
}

func TestStore_DispatchScoped(t *testing.T) {
	s := NewStore(zap.NewNop(), 4)
	recorder := &actionsRecorder{}
	s.Register(recorder)

	cancelled, cancel := context.WithCancel(context.Background())
	cancel()
	require.NoError(t, s.DispatchScoped(cancelled, AddBookSuccess{Book: Book{ID: 7}}))
	require.NoError(t, s.DispatchScoped(context.Background(), AddBookSuccess{Book: Book{ID: 8}}))

	stop := runStore(s)
	defer stop()

	assert.Eventually(t, func() bool { return len(recorder.Types()) == 1 }, waitFor, tick)
	assert.Equal(t, []int{8}, s.State().Collection.IDs())
}

func TestStore_Closed(t *testing.T) {
	s := NewStore(zap.NewNop(), 1)
	stop := runStore(s)
	stop()

	assert.ErrorIs(t, s.Dispatch(LoadBooks{}), ErrStoreClosed)
	assert.ErrorIs(t, s.DispatchScoped(context.Background(), LoadBooks{}), ErrStoreClosed)
}

func TestStore_DispatchUnblocksOnClose(t *testing.T) {
	s := NewStore(zap.NewNop(), 1)
	require.NoError(t, s.Dispatch(LoadBooks{}))

	errc := make(chan error, 1)
	go func() { errc <- s.Dispatch(LoadBooks{}) }()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.NoError(t, s.Run(ctx))

	select {
	case err := <-errc:
		// the loop may have taken the first action before noticing the cancellation.
		if err != nil {
			assert.ErrorIs(t, err, ErrStoreClosed)
		}
	case <-time.After(waitFor):
		t.Fatal("dispatch still blocked after the store stopped")
	}
}

func TestStore_ReactorFunc(t *testing.T) {
	s := NewStore(zap.NewNop(), 1)
	seen := make(chan ActionType, 1)
	s.Register(ReactorFunc(func(a Action) { seen <- a.Type() }))
	stop := runStore(s)
	defer stop()

	require.NoError(t, s.Dispatch(LoadBooks{}))
	select {
	case at := <-seen:
		assert.Equal(t, LoadBooksType, at)
	case <-time.After(waitFor):
		t.Fatal("reactor not called")
	}
}
