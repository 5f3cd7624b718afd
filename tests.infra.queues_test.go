package main

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestActionFromMessage(t *testing.T) {
	title := "New title"
	testCases := []struct {
		name     string
		msg      IntentMessage
		expected Action
		err      string
	}{
		{
			name:     "load books",
			msg:      IntentMessage{Type: LoadBooksIntent},
			expected: LoadBooks{},
		},
		{
			name:     "add book",
			msg:      IntentMessage{Type: AddBookIntent, Payload: []byte(`{"book":{"title":"T","author":"A","year":2000}}`)},
			expected: AddBook{Book: BookDraft{Title: "T", Author: "A", Year: 2000}},
		},
		{
			name: "add book without year",
			msg:  IntentMessage{Type: AddBookIntent, Payload: []byte(`{"book":{"title":"T","author":"A"}}`)},
			err:  "year is required",
		},
		{
			name:     "update book",
			msg:      IntentMessage{Type: UpdateBookIntent, Payload: []byte(`{"id":2,"changes":{"title":"New title"}}`)},
			expected: UpdateBook{ID: 2, Changes: BookChanges{Title: &title}},
		},
		{
			name: "update book without id",
			msg:  IntentMessage{Type: UpdateBookIntent, Payload: []byte(`{"changes":{"title":"New title"}}`)},
			err:  "id is invalid",
		},
		{
			name:     "delete book",
			msg:      IntentMessage{Type: DeleteBookIntent, Payload: []byte(`{"id":3}`)},
			expected: DeleteBook{ID: 3},
		},
		{
			name:     "toggle book",
			msg:      IntentMessage{Type: ToggleBookReadStatusIntent, Payload: []byte(`{"id":4}`)},
			expected: ToggleBookReadStatus{ID: 4},
		},
		{
			name: "delete without payload",
			msg:  IntentMessage{Type: DeleteBookIntent},
			err:  "payload is required",
		},
		{
			name: "malformed payload",
			msg:  IntentMessage{Type: DeleteBookIntent, Payload: []byte(`{"id":"x"}`)},
			err:  "invalid DeleteBook payload",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			action, err := ActionFromMessage(tc.msg)
			if tc.err != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tc.err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expected, action)
			assert.Equal(t, IntentKind, action.Kind())
		})
	}

	t.Run("outcomes are rejected", func(t *testing.T) {
		_, err := ActionFromMessage(IntentMessage{Type: "LoadBooksSuccess", Payload: []byte(`{}`)})
		assert.True(t, errors.Is(err, ErrUnknownIntent))
	})
}

func TestIntentsConsumer(t *testing.T) {
	queue := NewMockQueuer(
		IntentMessage{Type: LoadBooksIntent},
		IntentMessage{Type: "Unknown"},
		IntentMessage{Type: DeleteBookIntent, Payload: []byte(`{"id":7}`)},
	)
	dispatcher := &MockDispatcher{}
	consumer := NewIntentsConsumer(zap.NewNop(), queue, dispatcher)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- consumer.Consume(ctx, DefaultIntentsQueue) }()

	assert.Eventually(t, func() bool { return len(dispatcher.Actions()) == 2 }, time.Second, 5*time.Millisecond)
	cancel()
	assert.NoError(t, <-done)
	assert.Equal(t, []Action{LoadBooks{}, DeleteBook{ID: 7}}, dispatcher.Actions())
}

func TestIntentsConsumer_StopsWhenStoreIsClosed(t *testing.T) {
	queue := NewMockQueuer(IntentMessage{Type: LoadBooksIntent})
	consumer := NewIntentsConsumer(zap.NewNop(), queue, &MockDispatcher{Err: ErrStoreClosed})
	assert.NoError(t, consumer.Consume(context.Background(), DefaultIntentsQueue))
}
