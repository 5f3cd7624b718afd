package main

import (
	"context"
	"encoding/binary"
	"fmt"

	"github.com/boltdb/bolt"
	"go.uber.org/zap"
)

const boltRepoTag string = "bolt"

var _ BookRepository = (*boltBookRepository)(nil) // ensure boltBookRepository implements BookRepository.

type boltBookRepository struct {
	logger *zap.Logger
	client *bolt.DB
	config *BoltDBConfig
}

// GetBoltDBClient setup the database and the bucket then provides a ready to use client.
func GetBoltDBClient(config *Config) (*bolt.DB, error) {
	db, err := bolt.Open(config.BoltDB.FilePath, 0o600, &bolt.Options{Timeout: config.BoltDB.Timeout})
	if err != nil {
		return nil, fmt.Errorf("failed to open the database, %v", err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		if _, errB := tx.CreateBucketIfNotExists([]byte(config.BoltDB.BucketName)); errB != nil {
			return fmt.Errorf("failed to create %s bucket: %v", config.BoltDB.BucketName, errB)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to set up bucket: %v", err)
	}
	return db, nil
}

// NewBoltBookRepository provides an instance of bolt-based book repository.
func NewBoltBookRepository(logger *zap.Logger, boltConfig *BoltDBConfig, client *bolt.DB) BookRepository {
	return &boltBookRepository{
		logger: logger,
		client: client,
		config: boltConfig,
	}
}

// Close shuts down the bolt-based book repository.
func (bs *boltBookRepository) Close() error {
	return bs.client.Close()
}

// GetAll retrieves the list of all books stored in the bolt database.
func (bs *boltBookRepository) GetAll(_ context.Context) ([]Book, error) {
	tx, err := bs.client.Begin(false)
	if err != nil {
		return nil, NewRepositoryError(boltRepoTag+".getAll", err)
	}
	defer tx.Rollback()

	// Create a cursor on the books' bucket.
	c := tx.Bucket([]byte(bs.config.BucketName)).Cursor()

	books := []Book{}
	for k, v := c.First(); k != nil; k, v = c.Next() {
		var book Book
		if err = jsonAPI.Unmarshal(v, &book); err != nil {
			return nil, NewRepositoryError(boltRepoTag+".getAll", err)
		}
		books = append(books, book)
	}
	return books, nil
}

// GetByID retrieves a book record based on its ID from boltdb store.
func (bs *boltBookRepository) GetByID(_ context.Context, id int) (Book, error) {
	var book Book
	err := bs.client.View(func(tx *bolt.Tx) error {
		var err error
		book, err = bs.get(tx, id)
		return err
	})
	return book, NewRepositoryError(boltRepoTag+".getById", err)
}

// Create takes the next bucket sequence as id and stores the book.
func (bs *boltBookRepository) Create(_ context.Context, draft BookDraft) (Book, error) {
	if err := ValidateBookDraft(draft); err != nil {
		return Book{}, NewRepositoryError(boltRepoTag+".create", err)
	}
	var book Book
	err := bs.client.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bs.config.BucketName))
		seq, err := b.NextSequence()
		if err != nil {
			return err
		}
		book = draft.WithID(int(seq))
		return bs.put(tx, book)
	})
	if err != nil {
		return Book{}, NewRepositoryError(boltRepoTag+".create", err)
	}
	return book, nil
}

// Update merges the changes into the existing book record.
func (bs *boltBookRepository) Update(_ context.Context, id int, changes BookChanges) (Book, error) {
	if err := ValidateBookChanges(changes); err != nil {
		return Book{}, NewRepositoryError(boltRepoTag+".update", err)
	}
	var book Book
	err := bs.client.Update(func(tx *bolt.Tx) error {
		current, err := bs.get(tx, id)
		if err != nil {
			return err
		}
		book = changes.Apply(current)
		return bs.put(tx, book)
	})
	if err != nil {
		return Book{}, NewRepositoryError(boltRepoTag+".update", err)
	}
	return book, nil
}

// Delete removes a book record based on its ID from boltdb store.
func (bs *boltBookRepository) Delete(_ context.Context, id int) error {
	err := bs.client.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bs.config.BucketName))
		if b.Get(itob(id)) == nil {
			return ErrBookNotFound
		}
		return b.Delete(itob(id))
	})
	return NewRepositoryError(boltRepoTag+".delete", err)
}

func (bs *boltBookRepository) get(tx *bolt.Tx, id int) (Book, error) {
	var book Book
	result := tx.Bucket([]byte(bs.config.BucketName)).Get(itob(id))
	if result == nil {
		return book, ErrBookNotFound
	}
	err := jsonAPI.Unmarshal(result, &book)
	return book, err
}

func (bs *boltBookRepository) put(tx *bolt.Tx, book Book) error {
	bookBytes, err := jsonAPI.Marshal(book)
	if err != nil {
		return err
	}
	return tx.Bucket([]byte(bs.config.BucketName)).Put(itob(book.ID), bookBytes)
}

// itob returns an 8-byte big endian representation of id.
func itob(id int) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, uint64(id))
	return b
}
