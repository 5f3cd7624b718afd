package main

import (
	"context"
	"errors"
	"strings"
)

var ErrBookNotFound = errors.New("book not found")

// Book represents a book entity. The ID is assigned by the remote
// collection and never changes once the book was created.
type Book struct {
	ID     int    `json:"id"`
	Title  string `json:"title"`
	Author string `json:"author"`
	Year   int    `json:"year"`
	IsRead bool   `json:"isRead"`
}

// BookDraft is a book which was not yet created, so without an ID.
type BookDraft struct {
	Title  string `json:"title"`
	Author string `json:"author"`
	Year   int    `json:"year"`
	IsRead bool   `json:"isRead"`
}

// BookChanges describes a partial update. Nil fields are left untouched.
type BookChanges struct {
	Title  *string `json:"title,omitempty"`
	Author *string `json:"author,omitempty"`
	Year   *int    `json:"year,omitempty"`
	IsRead *bool   `json:"isRead,omitempty"`
}

// WithID builds the book record the draft becomes once created.
func (d BookDraft) WithID(id int) Book {
	return Book{ID: id, Title: d.Title, Author: d.Author, Year: d.Year, IsRead: d.IsRead}
}

// Apply returns a copy of the book with the provided changes merged in.
func (c BookChanges) Apply(book Book) Book {
	if c.Title != nil {
		book.Title = *c.Title
	}
	if c.Author != nil {
		book.Author = *c.Author
	}
	if c.Year != nil {
		book.Year = *c.Year
	}
	if c.IsRead != nil {
		book.IsRead = *c.IsRead
	}
	return book
}

// IsEmpty reports whether no field is set.
func (c BookChanges) IsEmpty() bool {
	return c.Title == nil && c.Author == nil && c.Year == nil && c.IsRead == nil
}

// BookRepository is the remote collection resource the store is kept in sync with.
// Every failure is reported as a *RepositoryError.
type BookRepository interface {
	GetAll(ctx context.Context) ([]Book, error)
	GetByID(ctx context.Context, id int) (Book, error)
	Create(ctx context.Context, draft BookDraft) (Book, error)
	Update(ctx context.Context, id int, changes BookChanges) (Book, error)
	Delete(ctx context.Context, id int) error
}

// Notifier shows a message to the user. It is fire-and-forget.
type Notifier interface {
	Show(message string)
}

// RepositoryError is the single failure kind raised by a BookRepository.
// Op names the failed operation and is only meant for logging.
type RepositoryError struct {
	Op  string
	Err error
}

// NewRepositoryError wraps err unless it already is a *RepositoryError.
func NewRepositoryError(op string, err error) error {
	if err == nil {
		return nil
	}
	var rerr *RepositoryError
	if errors.As(err, &rerr) {
		return err
	}
	return &RepositoryError{Op: op, Err: err}
}

func (e *RepositoryError) Error() string {
	return e.Err.Error()
}

func (e *RepositoryError) Unwrap() error {
	return e.Err
}

const (
	MinBookYear = 1000
	MaxBookYear = 9999
)

type invalidFieldError string

func (i invalidFieldError) Error() string {
	return string(i) + " is invalid"
}

// ValidateBookDraft checks that a book creation request is complete.
func ValidateBookDraft(draft BookDraft) error {
	if len(strings.TrimSpace(draft.Title)) == 0 {
		return missingFieldError("title")
	}

	if len(strings.TrimSpace(draft.Author)) == 0 {
		return missingFieldError("author")
	}

	if draft.Year == 0 {
		return missingFieldError("year")
	}

	if draft.Year < MinBookYear || draft.Year > MaxBookYear {
		return invalidFieldError("year")
	}

	return nil
}

// ValidateBookChanges checks only the fields present in the update.
func ValidateBookChanges(changes BookChanges) error {
	if changes.Title != nil && len(strings.TrimSpace(*changes.Title)) == 0 {
		return missingFieldError("title")
	}

	if changes.Author != nil && len(strings.TrimSpace(*changes.Author)) == 0 {
		return missingFieldError("author")
	}

	if changes.Year != nil && (*changes.Year < MinBookYear || *changes.Year > MaxBookYear) {
		return invalidFieldError("year")
	}

	return nil
}
