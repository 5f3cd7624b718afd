package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	HBooks       string = "books"
	KBooksSeq    string = "books:seq"
	redisRepoTag string = "redis"
)

var _ BookRepository = (*redisBookRepository)(nil) // ensure redisBookRepository implements BookRepository.

type redisBookRepository struct {
	logger *zap.Logger
	client *redis.Client
}

// NewRedisBookRepository provides an instance of redis-based book repository.
func NewRedisBookRepository(logger *zap.Logger, client *redis.Client) BookRepository {
	return &redisBookRepository{
		logger: logger,
		client: client,
	}
}

// GetRedisClient provides a ready to use redis client.
func GetRedisClient(config *Config) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         fmt.Sprintf("%s:%s", config.Redis.Host, config.Redis.Port),
		DialTimeout:  config.Redis.DialTimeout,
		ReadTimeout:  config.Redis.ReadTimeout,
		WriteTimeout: config.Redis.WriteTimeout,
		PoolSize:     config.Redis.PoolSize,
		PoolTimeout:  config.Redis.PoolTimeout,
		Password:     config.Redis.Password,
		Username:     config.Redis.Username,
		DB:           config.Redis.DatabaseIndex,
	})

	// test connection.
	if pong, err := client.Ping(context.Background()).Result(); pong != "PONG" || err != nil {
		return client, fmt.Errorf("test connection failed: %v", err)
	}
	return client, nil
}

// GetAll retrieves the list of all books stored in the redis database.
func (rs *redisBookRepository) GetAll(ctx context.Context) ([]Book, error) {
	values, err := rs.client.HVals(ctx, HBooks).Result()
	if err != nil {
		return nil, NewRepositoryError(redisRepoTag+".getAll", err)
	}
	books := make([]Book, 0, len(values))
	for _, bookJSONString := range values {
		var book Book
		if err = jsonAPI.Unmarshal([]byte(bookJSONString), &book); err != nil {
			return nil, NewRepositoryError(redisRepoTag+".getAll", err)
		}
		books = append(books, book)
	}
	return books, nil
}

// GetByID retrieves a book record based on its ID.
func (rs *redisBookRepository) GetByID(ctx context.Context, id int) (Book, error) {
	book, err := rs.get(ctx, id)
	return book, NewRepositoryError(redisRepoTag+".getById", err)
}

// Create assigns the next id from the sequence then stores the book.
func (rs *redisBookRepository) Create(ctx context.Context, draft BookDraft) (Book, error) {
	if err := ValidateBookDraft(draft); err != nil {
		return Book{}, NewRepositoryError(redisRepoTag+".create", err)
	}
	id, err := rs.client.Incr(ctx, KBooksSeq).Result()
	if err != nil {
		return Book{}, NewRepositoryError(redisRepoTag+".create", err)
	}
	book := draft.WithID(int(id))
	if err = rs.put(ctx, book); err != nil {
		return Book{}, NewRepositoryError(redisRepoTag+".create", err)
	}
	return book, nil
}

// Update merges the changes into the existing book record.
func (rs *redisBookRepository) Update(ctx context.Context, id int, changes BookChanges) (Book, error) {
	if err := ValidateBookChanges(changes); err != nil {
		return Book{}, NewRepositoryError(redisRepoTag+".update", err)
	}
	book, err := rs.get(ctx, id)
	if err != nil {
		return Book{}, NewRepositoryError(redisRepoTag+".update", err)
	}
	book = changes.Apply(book)
	if err = rs.put(ctx, book); err != nil {
		return Book{}, NewRepositoryError(redisRepoTag+".update", err)
	}
	return book, nil
}

// Delete removes a book record based on its ID.
func (rs *redisBookRepository) Delete(ctx context.Context, id int) error {
	n, err := rs.client.HDel(ctx, HBooks, strconv.Itoa(id)).Result()
	if err != nil {
		return NewRepositoryError(redisRepoTag+".delete", err)
	}
	if n == 0 {
		return NewRepositoryError(redisRepoTag+".delete", ErrBookNotFound)
	}
	return nil
}

func (rs *redisBookRepository) get(ctx context.Context, id int) (Book, error) {
	var book Book
	bookJSONString, err := rs.client.HGet(ctx, HBooks, strconv.Itoa(id)).Result()
	if err == redis.Nil {
		return book, ErrBookNotFound
	}
	if err != nil {
		return book, err
	}
	err = jsonAPI.Unmarshal([]byte(bookJSONString), &book)
	return book, err
}

func (rs *redisBookRepository) put(ctx context.Context, book Book) error {
	bookBytes, err := jsonAPI.Marshal(book)
	if err != nil {
		return err
	}
	return rs.client.HSet(ctx, HBooks, strconv.Itoa(book.ID), bookBytes).Err()
}
