package main

import "fmt"

// State is the whole content of the store. A state value is never
// modified once published, the reducer always builds a new one.
type State struct {
	Collection *BookCollection `json:"-"`
	Loading    bool            `json:"loading"`
	Error      *string         `json:"error"`
}

// NewState returns the initial state: empty collection, not loading, no error.
func NewState() *State {
	return &State{Collection: NewBookCollection()}
}

// Reduce folds an action into the state. It is pure and returns the given
// state pointer untouched when the action does not change anything.
func Reduce(state *State, action Action) *State {
	switch a := action.(type) {
	case LoadBooks:
		next := *state
		next.Loading = true
		next.Error = nil
		return &next

	case LoadBooksSuccess:
		next := *state
		next.Collection = state.Collection.SetAll(a.Books)
		next.Loading = false
		return &next

	case LoadBooksFailure:
		next := *state
		next.Loading = false
		next.Error = &a.Reason
		return &next

	case AddBookSuccess:
		next := *state
		next.Collection = state.Collection.UpsertOne(a.Book)
		return &next

	case UpdateBookSuccess:
		collection := state.Collection.UpdateOne(a.Book)
		if collection == state.Collection {
			return state
		}
		next := *state
		next.Collection = collection
		return &next

	case DeleteBookSuccess:
		collection := state.Collection.RemoveOne(a.ID)
		if collection == state.Collection {
			return state
		}
		next := *state
		next.Collection = collection
		return &next

	case AddBookFailure:
		return withError(state, a.Reason)

	case UpdateBookFailure:
		return withError(state, a.Reason)

	case DeleteBookFailure:
		return withError(state, a.Reason)

	case AddBook, UpdateBook, DeleteBook, ToggleBookReadStatus:
		// handled by the effects.
		return state

	default:
		panic(fmt.Sprintf("reducer: unhandled action %T", action))
	}
}

func withError(state *State, reason string) *State {
	next := *state
	next.Error = &reason
	return &next
}
