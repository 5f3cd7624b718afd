package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/redis/go-redis/v9"
)

const DefaultIntentsQueue = "books:intents"

// Intent names accepted on the queue.
const (
	LoadBooksIntent            = "LoadBooks"
	AddBookIntent              = "AddBook"
	UpdateBookIntent           = "UpdateBook"
	DeleteBookIntent           = "DeleteBook"
	ToggleBookReadStatusIntent = "ToggleBookReadStatus"
)

var (
	ErrUnknownIntent = errors.New("unknown intent type")

	// Ensure *redisQueue implements Queuer.
	_ Queuer = (*redisQueue)(nil)
)

// IntentMessage is the wire format of an intent pushed by a remote producer.
type IntentMessage struct {
	Type    string              `json:"type"`
	Payload jsoniter.RawMessage `json:"payload,omitempty"`
}

type idPayload struct {
	ID int `json:"id"`
}

type addBookPayload struct {
	Book BookDraft `json:"book"`
}

type updateBookPayload struct {
	ID      int         `json:"id"`
	Changes BookChanges `json:"changes"`
}

// ActionFromMessage decodes a queued message into the matching intent.
// Outcomes can not be produced from the outside.
func ActionFromMessage(msg IntentMessage) (Action, error) {
	switch msg.Type {
	case LoadBooksIntent:
		return LoadBooks{}, nil

	case AddBookIntent:
		var p addBookPayload
		if err := decodePayload(msg, &p); err != nil {
			return nil, err
		}
		if err := ValidateBookDraft(p.Book); err != nil {
			return nil, err
		}
		return AddBook{Book: p.Book}, nil

	case UpdateBookIntent:
		var p updateBookPayload
		if err := decodePayload(msg, &p); err != nil {
			return nil, err
		}
		if p.ID <= 0 {
			return nil, invalidFieldError("id")
		}
		if err := ValidateBookChanges(p.Changes); err != nil {
			return nil, err
		}
		return UpdateBook{ID: p.ID, Changes: p.Changes}, nil

	case DeleteBookIntent, ToggleBookReadStatusIntent:
		var p idPayload
		if err := decodePayload(msg, &p); err != nil {
			return nil, err
		}
		if p.ID <= 0 {
			return nil, invalidFieldError("id")
		}
		if msg.Type == DeleteBookIntent {
			return DeleteBook{ID: p.ID}, nil
		}
		return ToggleBookReadStatus{ID: p.ID}, nil
	}

	return nil, fmt.Errorf("%w: %q", ErrUnknownIntent, msg.Type)
}

func decodePayload(msg IntentMessage, v any) error {
	if len(msg.Payload) == 0 {
		return missingFieldError("payload")
	}
	if err := jsonAPI.Unmarshal(msg.Payload, v); err != nil {
		return fmt.Errorf("invalid %s payload: %w", msg.Type, err)
	}
	return nil
}

// Queuer describes a queue of intents.
type Queuer interface {
	Push(ctx context.Context, qid string, msg IntentMessage) error
	Pop(ctx context.Context, qids ...string) (string, IntentMessage, error)
}

// redisQueue represents a queue which implements the Queuer interface.
type redisQueue struct {
	client *redis.Client
}

func NewRedisQueue(client *redis.Client) Queuer {
	return &redisQueue{client: client}
}

// Push enqueues an intent message onto the queue identified by qid.
func (q *redisQueue) Push(ctx context.Context, qid string, msg IntentMessage) error {
	msgBytes, err := jsonAPI.Marshal(msg)
	if err != nil {
		return err
	}
	return q.client.RPush(ctx, qid, msgBytes).Err()
}

// Pop returns the first dequeued message from the list of queue ids.
func (q *redisQueue) Pop(ctx context.Context, qids ...string) (string, IntentMessage, error) {
	var msg IntentMessage
	var qid string
	infos, err := q.client.BLPop(ctx, 0*time.Second, qids...).Result()
	if err != nil {
		return qid, msg, err
	}

	if err = jsonAPI.Unmarshal([]byte(infos[1]), &msg); err != nil {
		return qid, msg, err
	}
	qid = infos[0]
	return qid, msg, nil
}
