package main

import "sync"

// Selector is a pure projection of the store state.
type Selector[T any] func(state *State) T

// CreateSelector builds a memoized selector. The projection only runs again
// when the value returned by input differs from the previous call. Inputs are
// expected to be pointers or plain values so that equality means identity.
func CreateSelector[In comparable, Out any](input func(state *State) In, project func(in In) Out) Selector[Out] {
	var (
		mu     sync.Mutex
		cached bool
		last   In
		value  Out
	)
	return func(state *State) Out {
		in := input(state)
		mu.Lock()
		defer mu.Unlock()
		if cached && in == last {
			return value
		}
		value = project(in)
		last = in
		cached = true
		return value
	}
}

func selectBookCollection(state *State) *BookCollection {
	return state.Collection
}

// BookSelectors groups the derived views read by the presentation layer.
// The books slice returned by AllBooks is shared between callers and
// must be treated as read-only.
type BookSelectors struct {
	AllBooks Selector[[]Book]
	Loading  Selector[bool]
}

// NewBookSelectors provides a fresh set of memoized selectors.
func NewBookSelectors() *BookSelectors {
	return &BookSelectors{
		AllBooks: CreateSelector(selectBookCollection, func(c *BookCollection) []Book {
			return c.All()
		}),
		Loading: func(state *State) bool {
			return state.Loading
		},
	}
}
