package main

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"
)

var ErrStoreClosed = errors.New("store is closed")

// Dispatcher is what the effects need to feed outcomes back into the store.
type Dispatcher interface {
	Dispatch(action Action) error
	DispatchScoped(scope context.Context, action Action) error
}

// Reactor observes every action right after it was reduced. React is called
// from the store loop so it must never block.
type Reactor interface {
	React(action Action)
}

// ReactorFunc adapts a function into a Reactor.
type ReactorFunc func(action Action)

func (f ReactorFunc) React(action Action) {
	f(action)
}

// envelope is a queued action. When scope is set and already cancelled at
// the time the loop picks it up, the action is discarded.
type envelope struct {
	action Action
	scope  context.Context
}

// Store owns the books state. All reductions happen on the goroutine
// running Run, one action at a time, in dispatch order.
type Store struct {
	logger   *zap.Logger
	queue    chan envelope
	done     chan struct{}
	state    atomic.Pointer[State]
	mu       sync.RWMutex
	reactors []Reactor
	stopOnce sync.Once
}

// NewStore provides a store holding the initial state.
func NewStore(logger *zap.Logger, queueSize int) *Store {
	if queueSize <= 0 {
		queueSize = 1
	}
	s := &Store{
		logger: logger,
		queue:  make(chan envelope, queueSize),
		done:   make(chan struct{}),
	}
	s.state.Store(NewState())
	return s
}

// State returns the current state. The returned value must not be modified.
func (s *Store) State() *State {
	return s.state.Load()
}

// Register adds a reactor observing all reduced actions.
func (s *Store) Register(reactors ...Reactor) {
	s.mu.Lock()
	s.reactors = append(s.reactors, reactors...)
	s.mu.Unlock()
}

// Dispatch enqueues an action. It blocks only while the queue is full.
func (s *Store) Dispatch(action Action) error {
	return s.enqueue(envelope{action: action})
}

// DispatchScoped enqueues an action which is dropped if scope gets
// cancelled before the store loop applies it.
func (s *Store) DispatchScoped(scope context.Context, action Action) error {
	return s.enqueue(envelope{action: action, scope: scope})
}

func (s *Store) enqueue(env envelope) error {
	select {
	case <-s.done:
		return ErrStoreClosed
	default:
	}

	select {
	case s.queue <- env:
		return nil
	case <-s.done:
		return ErrStoreClosed
	}
}

// Run is the store loop. It applies queued actions until ctx is done.
func (s *Store) Run(ctx context.Context) error {
	defer s.stop()
	s.logger.Info("store: loop started")
	for {
		select {
		case <-ctx.Done():
			s.logger.Info("store: loop stopped", zap.String("reason", ctx.Err().Error()))
			return nil
		case env := <-s.queue:
			s.apply(env)
		}
	}
}

func (s *Store) stop() {
	s.stopOnce.Do(func() { close(s.done) })
}

func (s *Store) apply(env envelope) {
	if env.scope != nil && env.scope.Err() != nil {
		s.logger.Debug("store: discarded superseded action", zap.String("action", string(env.action.Type())))
		return
	}

	s.state.Store(Reduce(s.state.Load(), env.action))
	s.logger.Debug("store: action applied",
		zap.String("action", string(env.action.Type())),
		zap.String("kind", string(env.action.Kind())),
	)

	s.mu.RLock()
	reactors := s.reactors
	s.mu.RUnlock()
	for _, r := range reactors {
		r.React(env.action)
	}
}
