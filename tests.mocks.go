package main

import (
	"context"
	"sync"
	"time"
)

// This file contains mocks definitions needed to perform unit tests.

type MockBookRepository struct {
	GetAllFunc  func(ctx context.Context) ([]Book, error)
	GetByIDFunc func(ctx context.Context, id int) (Book, error)
	CreateFunc  func(ctx context.Context, draft BookDraft) (Book, error)
	UpdateFunc  func(ctx context.Context, id int, changes BookChanges) (Book, error)
	DeleteFunc  func(ctx context.Context, id int) error
}

// GetAll mocks the behavior of retrieving all books by the repository.
func (m *MockBookRepository) GetAll(ctx context.Context) ([]Book, error) {
	return m.GetAllFunc(ctx)
}

// GetByID mocks the behavior of retrieving a book by the repository.
func (m *MockBookRepository) GetByID(ctx context.Context, id int) (Book, error) {
	return m.GetByIDFunc(ctx, id)
}

// Create mocks the behavior of book creation by the repository.
func (m *MockBookRepository) Create(ctx context.Context, draft BookDraft) (Book, error) {
	return m.CreateFunc(ctx, draft)
}

// Update mocks the behavior of updating a book by the repository.
func (m *MockBookRepository) Update(ctx context.Context, id int, changes BookChanges) (Book, error) {
	return m.UpdateFunc(ctx, id, changes)
}

// Delete mocks the behavior of deleting a book by the repository.
func (m *MockBookRepository) Delete(ctx context.Context, id int) error {
	return m.DeleteFunc(ctx, id)
}

// MockNotifier records every shown message.
type MockNotifier struct {
	mu       sync.Mutex
	messages []string
}

func (mn *MockNotifier) Show(message string) {
	mn.mu.Lock()
	mn.messages = append(mn.messages, message)
	mn.mu.Unlock()
}

// Messages returns a copy of the recorded messages.
func (mn *MockNotifier) Messages() []string {
	mn.mu.Lock()
	defer mn.mu.Unlock()
	return append([]string(nil), mn.messages...)
}

// MockDispatcher records dispatched actions instead of reducing them.
type MockDispatcher struct {
	mu         sync.Mutex
	actions    []Action
	Err        error
	StateValue *State
}

func (md *MockDispatcher) Dispatch(action Action) error {
	return md.record(action)
}

func (md *MockDispatcher) DispatchScoped(_ context.Context, action Action) error {
	return md.record(action)
}

func (md *MockDispatcher) record(action Action) error {
	if md.Err != nil {
		return md.Err
	}
	md.mu.Lock()
	md.actions = append(md.actions, action)
	md.mu.Unlock()
	return nil
}

// State returns the configured state or the initial one.
func (md *MockDispatcher) State() *State {
	if md.StateValue == nil {
		return NewState()
	}
	return md.StateValue
}

// Actions returns a copy of the recorded actions.
func (md *MockDispatcher) Actions() []Action {
	md.mu.Lock()
	defer md.mu.Unlock()
	return append([]Action(nil), md.actions...)
}

// MockQueuer serves predefined messages then blocks until the context is done.
type MockQueuer struct {
	PushFunc func(ctx context.Context, qid string, msg IntentMessage) error
	messages chan IntentMessage
}

func NewMockQueuer(msgs ...IntentMessage) *MockQueuer {
	q := &MockQueuer{messages: make(chan IntentMessage, len(msgs))}
	for _, msg := range msgs {
		q.messages <- msg
	}
	return q
}

func (mq *MockQueuer) Push(ctx context.Context, qid string, msg IntentMessage) error {
	return mq.PushFunc(ctx, qid, msg)
}

func (mq *MockQueuer) Pop(ctx context.Context, qids ...string) (string, IntentMessage, error) {
	select {
	case msg := <-mq.messages:
		return qids[0], msg, nil
	case <-ctx.Done():
		return "", IntentMessage{}, ctx.Err()
	}
}

// MockClocker implements a fake Clocker.
type MockClocker struct {
	MockNow time.Time
}

// NewMockClocker returns a mocked instance with fixed time.
func NewMockClocker() *MockClocker {
	return &MockClocker{time.Date(2023, 0o7, 0o2, 0o0, 0o0, 0o0, 0o00000000, time.UTC)}
}

// Now returns an already defined time to be used as mock. This
// equals to `Sun, 02 Jul 2023 00:00:00 UTC` in time.RFC1123 format.
func (mck *MockClocker) Now() time.Time {
	return mck.MockNow
}

// MockUIDHandler implements a fake UIDHandler.
type MockUIDHandler struct {
	MockedUID string
}

// NewMockUIDHandler returns a mocked instance with predictable id.
func NewMockUIDHandler(id string) *MockUIDHandler {
	return &MockUIDHandler{MockedUID: id}
}

// Generate constructs a predictable id to be used as mock.
func (muid *MockUIDHandler) Generate(prefix string) string {
	return prefix + ":" + muid.MockedUID
}
