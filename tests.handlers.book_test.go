package main

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/julienschmidt/httprouter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestAPIHandler(store BooksStore) *APIHandler {
	return NewAPIHandler(zap.NewNop(), &Config{}, &Statistics{started: NewMockClocker().Now()}, NewMockClocker(), NewMockUIDHandler("abc"), store)
}

// TestStatusHandler ensures api handler can provides its status.
func TestStatusHandler(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/status", nil)
	w := httptest.NewRecorder()
	api := newTestAPIHandler(&MockDispatcher{})
	api.Status(w, req, httprouter.Params{})
	res := w.Result()
	defer res.Body.Close()
	data, err := io.ReadAll(res.Body)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, "application/json; charset=UTF-8", res.Header.Get("Content-Type"))
	m := make(map[string]interface{})
	err = jsonAPI.Unmarshal(data, &m)
	assert.NoError(t, err)

	_, ok := m["requestid"]
	assert.True(t, ok)

	v, ok := m["status"]
	assert.True(t, ok)
	assert.Equal(t, "up & running since 0 mins", v)

	v, ok = m["message"]
	assert.True(t, ok)
	assert.Equal(t, "Hello. Books store is available. Enjoy :)", v)
}

// TestGetAllBooksHandler ensures the listing reflects the store state.
func TestGetAllBooksHandler(t *testing.T) {
	state := stateWith(Book{ID: 1, Title: "A", Author: "X", Year: 2000}, Book{ID: 2, Title: "B", Author: "Y", Year: 2010, IsRead: true})
	state.Loading = true
	api := newTestAPIHandler(&MockDispatcher{StateValue: state})

	req := httptest.NewRequest(http.MethodGet, "/v1/books", nil)
	w := httptest.NewRecorder()
	api.GetAllBooks(w, req, httprouter.Params{})
	res := w.Result()
	defer res.Body.Close()
	assert.Equal(t, http.StatusOK, res.StatusCode)
	data, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	expected := `{"requestid":"", "status":200, "message":"All books fetched successfully.", "total":2,
		"data":{"loading":true, "books":[
			{"id":2, "title":"B", "author":"Y", "year":2010, "isRead":true},
			{"id":1, "title":"A", "author":"X", "year":2000, "isRead":false}]}}`
	assert.JSONEq(t, expected, string(data))
}

// TestCreateBookHandler ensures api handler dispatches a valid book creation.
//
//nolint:funlen
func TestCreateBookHandler(t *testing.T) {
	t.Run("should pass: valid payload", func(t *testing.T) {
		store := &MockDispatcher{}
		api := newTestAPIHandler(store)
		payload := []byte(`{"title":"Test book title", "author":"Jerome Amon", "year":2023}`)
		req := httptest.NewRequest(http.MethodPost, "/v1/books", bytes.NewBuffer(payload))
		w := httptest.NewRecorder()
		api.CreateBook(w, req, httprouter.Params{})
		res := w.Result()
		defer res.Body.Close()
		data, err := io.ReadAll(res.Body)
		assert.NoError(t, err)
		assert.Equal(t, http.StatusAccepted, res.StatusCode)
		assert.Equal(t, "application/json; charset=UTF-8", res.Header.Get("Content-Type"))
		expected := `{"requestid":"", "status":202, "message":"Book creation requested.",
			"data":{"title":"Test book title", "author":"Jerome Amon", "year":2023, "isRead":false}}`
		assert.JSONEq(t, expected, string(data))

		require.Len(t, store.Actions(), 1)
		assert.Equal(t, AddBook{Book: BookDraft{Title: "Test book title", Author: "Jerome Amon", Year: 2023}}, store.Actions()[0])
	})

	t.Run("should fail: store closed", func(t *testing.T) {
		api := newTestAPIHandler(&MockDispatcher{Err: ErrStoreClosed})
		payload := []byte(`{"title":"Test book title", "author":"Jerome Amon", "year":2023}`)
		req := httptest.NewRequest(http.MethodPost, "/v1/books", bytes.NewBuffer(payload))
		w := httptest.NewRecorder()
		api.CreateBook(w, req, httprouter.Params{})
		res := w.Result()
		defer res.Body.Close()
		assert.Equal(t, http.StatusServiceUnavailable, res.StatusCode)
		data, err := io.ReadAll(res.Body)
		assert.NoError(t, err)
		assert.JSONEq(t, `{"requestid":"", "status":503, "message":"books store is not available", "data":{}}`, string(data))
	})

	t.Run("should fail: invalid payload", func(t *testing.T) {
		store := &MockDispatcher{}
		api := newTestAPIHandler(store)
		jsonStringPayload := `{"title":1, "author":"Jerome Amon", "year":2023}`
		req := httptest.NewRequest(http.MethodPost, "/v1/books", bytes.NewBuffer([]byte(jsonStringPayload)))
		w := httptest.NewRecorder()
		api.CreateBook(w, req, httprouter.Params{})
		res := w.Result()
		defer res.Body.Close()
		assert.Equal(t, http.StatusBadRequest, res.StatusCode)
		assert.Equal(t, "application/json; charset=UTF-8", res.Header.Get("Content-Type"))
		assert.Empty(t, store.Actions())
	})

	t.Run("should fail: required field in payload", func(t *testing.T) {
		testCases := []struct {
			name     string
			payload  []byte
			status   int
			expected string
		}{
			{
				name:     "empty title",
				payload:  []byte(`{"title":"", "author":"Jerome Amon", "year":2023}`),
				status:   http.StatusBadRequest,
				expected: `{"requestid":"", "status":400, "message":"failed to create the book", "data":"title is required"}`,
			},
			{
				name:     "missing author",
				payload:  []byte(`{"title":"Test book title", "year":2023}`),
				status:   http.StatusBadRequest,
				expected: `{"requestid":"", "status":400, "message":"failed to create the book", "data":"author is required"}`,
			},
			{
				name:     "missing year",
				payload:  []byte(`{"title":"Test book title", "author":"Jerome Amon"}`),
				status:   http.StatusBadRequest,
				expected: `{"requestid":"", "status":400, "message":"failed to create the book", "data":"year is required"}`,
			},
			{
				name:     "out of range year",
				payload:  []byte(`{"title":"Test book title", "author":"Jerome Amon", "year":123}`),
				status:   http.StatusBadRequest,
				expected: `{"requestid":"", "status":400, "message":"failed to create the book", "data":"year is invalid"}`,
			},
		}

		store := &MockDispatcher{}
		api := newTestAPIHandler(store)
		for _, tc := range testCases {
			t.Run(tc.name, func(t *testing.T) {
				req := httptest.NewRequest(http.MethodPost, "/v1/books", bytes.NewBuffer(tc.payload))
				w := httptest.NewRecorder()
				api.CreateBook(w, req, httprouter.Params{})
				res := w.Result()
				defer res.Body.Close()
				assert.Equal(t, tc.status, res.StatusCode)
				assert.Equal(t, "application/json; charset=UTF-8", res.Header.Get("Content-Type"))
				data, err := io.ReadAll(res.Body)
				assert.NoError(t, err)
				assert.JSONEq(t, tc.expected, string(data))
			})
		}
		assert.Empty(t, store.Actions())
	})
}

func TestUpdateBookHandler(t *testing.T) {
	testCases := []struct {
		name     string
		id       string
		payload  string
		status   int
		expected string
	}{
		{
			name:     "invalid id",
			id:       "abc",
			payload:  `{"title":"x"}`,
			status:   http.StatusBadRequest,
			expected: `{"requestid":"", "status":400, "message":"book id provided is not valid", "data":{}}`,
		},
		{
			name:     "no changes",
			id:       "1",
			payload:  `{}`,
			status:   http.StatusBadRequest,
			expected: `{"requestid":"", "status":400, "message":"failed to update the book", "data":"no changes provided"}`,
		},
		{
			name:     "invalid year",
			id:       "1",
			payload:  `{"year":20000}`,
			status:   http.StatusBadRequest,
			expected: `{"requestid":"", "status":400, "message":"failed to update the book", "data":"year is invalid"}`,
		},
		{
			name:     "valid changes",
			id:       "1",
			payload:  `{"isRead":true}`,
			status:   http.StatusAccepted,
			expected: `{"requestid":"", "status":202, "message":"Book update requested.", "data":{"isRead":true}}`,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			store := &MockDispatcher{}
			api := newTestAPIHandler(store)
			req := httptest.NewRequest(http.MethodPatch, "/v1/books/"+tc.id, bytes.NewBufferString(tc.payload))
			w := httptest.NewRecorder()
			api.UpdateBook(w, req, httprouter.Params{{Key: "id", Value: tc.id}})
			res := w.Result()
			defer res.Body.Close()
			assert.Equal(t, tc.status, res.StatusCode)
			data, err := io.ReadAll(res.Body)
			assert.NoError(t, err)
			assert.JSONEq(t, tc.expected, string(data))
			if tc.status == http.StatusAccepted {
				require.Len(t, store.Actions(), 1)
				update, ok := store.Actions()[0].(UpdateBook)
				require.True(t, ok)
				assert.Equal(t, 1, update.ID)
				require.NotNil(t, update.Changes.IsRead)
				assert.True(t, *update.Changes.IsRead)
			} else {
				assert.Empty(t, store.Actions())
			}
		})
	}
}

func TestIntentHandlers(t *testing.T) {
	testCases := []struct {
		name    string
		handler func(api *APIHandler) httprouter.Handle
		params  httprouter.Params
		message string
		action  Action
	}{
		{
			name:    "refresh",
			handler: func(api *APIHandler) httprouter.Handle { return api.RefreshBooks },
			message: "Books refresh requested.",
			action:  LoadBooks{},
		},
		{
			name:    "delete",
			handler: func(api *APIHandler) httprouter.Handle { return api.DeleteBook },
			params:  httprouter.Params{{Key: "id", Value: "4"}},
			message: "Book deletion requested.",
			action:  DeleteBook{ID: 4},
		},
		{
			name:    "toggle",
			handler: func(api *APIHandler) httprouter.Handle { return api.ToggleBookReadStatus },
			params:  httprouter.Params{{Key: "id", Value: "9"}},
			message: "Book read status toggle requested.",
			action:  ToggleBookReadStatus{ID: 9},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			store := &MockDispatcher{}
			api := newTestAPIHandler(store)
			w := httptest.NewRecorder()
			tc.handler(api)(w, httptest.NewRequest(http.MethodPost, "/", nil), tc.params)
			res := w.Result()
			defer res.Body.Close()
			assert.Equal(t, http.StatusAccepted, res.StatusCode)
			data, err := io.ReadAll(res.Body)
			require.NoError(t, err)
			assert.Contains(t, string(data), tc.message)
			assert.Equal(t, []Action{tc.action}, store.Actions())
		})
	}

	t.Run("negative id", func(t *testing.T) {
		store := &MockDispatcher{}
		api := newTestAPIHandler(store)
		w := httptest.NewRecorder()
		api.DeleteBook(w, httptest.NewRequest(http.MethodDelete, "/v1/books/-1", nil), httprouter.Params{{Key: "id", Value: "-1"}})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Empty(t, store.Actions())
	})
}

// TestWriteResponse_CancelledRequest ensures a cancelled request gets the non standard 499 status.
func TestWriteResponse_CancelledRequest(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	w := httptest.NewRecorder()
	err := WriteResponse(ctx, w, GenericResponse("", http.StatusOK, "ok", nil, EmptyData))
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 499, w.Code)

	tctx, tcancel := context.WithTimeout(context.Background(), time.Nanosecond)
	defer tcancel()
	<-tctx.Done()
	w = httptest.NewRecorder()
	err = WriteErrorResponse(tctx, w, NewAPIError("", http.StatusBadRequest, "bad", EmptyData))
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, http.StatusGatewayTimeout, w.Code)
}
