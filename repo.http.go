package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	jsoniter "github.com/json-iterator/go"
	"go.uber.org/zap"
)

const httpRepoTag string = "http"

var (
	_ BookRepository = (*httpBookRepository)(nil) // ensure httpBookRepository implements BookRepository.

	jsonAPI = jsoniter.ConfigCompatibleWithStandardLibrary
)

// httpBookRepository talks to a remote REST collection exposing
// `GET|POST /books` and `GET|PATCH|DELETE /books/{id}`.
type httpBookRepository struct {
	logger  *zap.Logger
	client  *http.Client
	baseURL string
}

// NewHTTPBookRepository provides an instance of the REST-based book repository.
func NewHTTPBookRepository(logger *zap.Logger, config *RemoteConfig, client *http.Client) BookRepository {
	if client == nil {
		client = &http.Client{Timeout: config.Timeout}
	}
	return &httpBookRepository{
		logger:  logger,
		client:  client,
		baseURL: strings.TrimSuffix(config.BaseURL, "/") + "/books",
	}
}

// GetAll fetches the whole remote collection.
func (hr *httpBookRepository) GetAll(ctx context.Context) ([]Book, error) {
	books := []Book{}
	err := hr.do(ctx, http.MethodGet, hr.baseURL, nil, &books)
	if err != nil {
		return nil, NewRepositoryError(httpRepoTag+".getAll", err)
	}
	return books, nil
}

// GetByID fetches a single book.
func (hr *httpBookRepository) GetByID(ctx context.Context, id int) (Book, error) {
	var book Book
	err := hr.do(ctx, http.MethodGet, hr.bookURL(id), nil, &book)
	return book, NewRepositoryError(httpRepoTag+".getById", err)
}

// Create posts the draft and returns the created book with its id.
func (hr *httpBookRepository) Create(ctx context.Context, draft BookDraft) (Book, error) {
	var book Book
	err := hr.do(ctx, http.MethodPost, hr.baseURL, draft, &book)
	return book, NewRepositoryError(httpRepoTag+".create", err)
}

// Update patches the book and returns the full updated record.
func (hr *httpBookRepository) Update(ctx context.Context, id int, changes BookChanges) (Book, error) {
	var book Book
	err := hr.do(ctx, http.MethodPatch, hr.bookURL(id), changes, &book)
	return book, NewRepositoryError(httpRepoTag+".update", err)
}

// Delete removes the remote book.
func (hr *httpBookRepository) Delete(ctx context.Context, id int) error {
	return NewRepositoryError(httpRepoTag+".delete", hr.do(ctx, http.MethodDelete, hr.bookURL(id), nil, nil))
}

func (hr *httpBookRepository) bookURL(id int) string {
	return hr.baseURL + "/" + strconv.Itoa(id)
}

// do sends the request and decodes the response body into out when provided.
// Any non-2xx status is turned into an error carrying the response message.
func (hr *httpBookRepository) do(ctx context.Context, method, url string, in, out any) error {
	var body io.Reader
	if in != nil {
		payload, err := jsonAPI.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json; charset=UTF-8")
	}

	resp, err := hr.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return ErrBookNotFound
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%s %s failed with status %d: %s", method, url, resp.StatusCode, readErrorMessage(resp.Body))
	}

	if out == nil {
		return nil
	}
	return jsonAPI.NewDecoder(resp.Body).Decode(out)
}

// readErrorMessage extracts the `message` field of a json error body,
// falling back to the raw body text.
func readErrorMessage(r io.Reader) string {
	data, err := io.ReadAll(io.LimitReader(r, 4096))
	if err != nil || len(data) == 0 {
		return "no details"
	}
	if msg := jsonAPI.Get(data, "message").ToString(); msg != "" {
		return msg
	}
	return strings.TrimSpace(string(data))
}
