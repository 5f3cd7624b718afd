package main

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/julienschmidt/httprouter"
	"github.com/stretchr/testify/assert"
)

// TestSetupBookRoutes ensures all expected book endpoints are implemented.
func TestSetupBookRoutes(t *testing.T) {
	testCases := []struct {
		name        string
		request     *http.Request
		implemented bool
	}{
		{
			"index endpoint",
			httptest.NewRequest(http.MethodGet, "/", nil),
			true,
		},
		{
			"status endpoint",
			httptest.NewRequest(http.MethodGet, "/status", nil),
			true,
		},
		{
			"refresh books endpoint",
			httptest.NewRequest(http.MethodPost, "/v1/refresh", nil),
			true,
		},
		{
			"create book endpoint",
			httptest.NewRequest(http.MethodPost, "/v1/books", nil),
			true,
		},
		{
			"fetch all books endpoint",
			httptest.NewRequest(http.MethodGet, "/v1/books", nil),
			true,
		},
		{
			"fetch all books endpoint with slash",
			httptest.NewRequest(http.MethodGet, "/v1/books/", nil),
			true,
		},
		{
			"update book endpoint",
			httptest.NewRequest(http.MethodPatch, "/v1/books/1", nil),
			true,
		},
		{
			"delete book endpoint",
			httptest.NewRequest(http.MethodDelete, "/v1/books/1", nil),
			true,
		},
		{
			"toggle book read status endpoint",
			httptest.NewRequest(http.MethodPost, "/v1/books/1/toggle", nil),
			true,
		},
		{
			"invalid api endpoint",
			httptest.NewRequest(http.MethodGet, "/v1", nil),
			false,
		},
		{
			"invalid books endpoint",
			httptest.NewRequest(http.MethodGet, "/books", nil),
			false,
		},
	}

	api := newTestAPIHandler(&MockDispatcher{})
	router := httprouter.New()
	m := &MiddlewareMap{public: (&Middlewares{}).Chain, ops: (&Middlewares{}).Chain}
	api.SetupBookRoutes(router, m)

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			router.ServeHTTP(w, tc.request)
			if tc.implemented {
				assert.NotEqual(t, 404, w.Code)
			} else {
				assert.Equal(t, 404, w.Code)
			}
		})
	}
}

// TestSetupOpsRoutes ensures all expected operations endpoints are implemented.
func TestSetupOpsRoutes(t *testing.T) {
	testCases := []struct {
		name        string
		request     *http.Request
		implemented bool
	}{
		{
			"fetch configs endpoint",
			httptest.NewRequest(http.MethodGet, "/ops/configs", nil),
			true,
		},
		{
			"fetch stats endpoint",
			httptest.NewRequest(http.MethodGet, "/ops/stats", nil),
			true,
		},
		{
			"fetch state endpoint",
			httptest.NewRequest(http.MethodGet, "/ops/state", nil),
			true,
		},
		{
			"invalid ops endpoint",
			httptest.NewRequest(http.MethodGet, "/ops", nil),
			false,
		},
		{
			"unknown ops endpoint",
			httptest.NewRequest(http.MethodGet, "/ops/unknown", nil),
			false,
		},
	}

	api := newTestAPIHandler(&MockDispatcher{})
	router := httprouter.New()
	m := &MiddlewareMap{public: (&Middlewares{}).Chain, ops: (&Middlewares{}).Chain}
	api.SetupOpsRoutes(router, m)

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			router.ServeHTTP(w, tc.request)
			if tc.implemented {
				assert.NotEqual(t, 404, w.Code)
			} else {
				assert.Equal(t, 404, w.Code)
			}
		})
	}
}

// TestSetupRoutes ensures ops endpoints are only exposed when enabled.
func TestSetupRoutes(t *testing.T) {
	testCases := []struct {
		name               string
		OpsEndpointsEnable bool
		request            *http.Request
		implemented        bool
	}{
		{
			"ops disable:fetch configs endpoint",
			false,
			httptest.NewRequest(http.MethodGet, "/ops/configs", nil),
			false,
		},
		{
			"ops enable:fetch configs endpoint",
			true,
			httptest.NewRequest(http.MethodGet, "/ops/configs", nil),
			true,
		},
		{
			"ops disable:create book endpoint",
			false,
			httptest.NewRequest(http.MethodPost, "/v1/books", nil),
			true,
		},
		{
			"ops enable:create book endpoint",
			true,
			httptest.NewRequest(http.MethodPost, "/v1/books", nil),
			true,
		},
		{
			"invalid ops endpoint",
			false,
			httptest.NewRequest(http.MethodGet, "/ops/", nil),
			false,
		},
		{
			"invalid book endpoint",
			false,
			httptest.NewRequest(http.MethodGet, "/books/", nil),
			false,
		},
	}

	api := newTestAPIHandler(&MockDispatcher{})
	m := &MiddlewareMap{public: (&Middlewares{}).Chain, ops: (&Middlewares{}).Chain}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			router := httprouter.New()
			api.config.OpsEndpointsEnable = tc.OpsEndpointsEnable
			api.SetupRoutes(router, m)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, tc.request)
			if tc.implemented {
				assert.NotEqual(t, 404, w.Code)
			} else {
				assert.Equal(t, 404, w.Code)
			}
		})
	}
}

// TestGetStateHandler ensures the ops state exposes the last error.
func TestGetStateHandler(t *testing.T) {
	state := Reduce(stateWith(Book{ID: 1}, Book{ID: 4}), DeleteBookFailure{Reason: "Book not found"})
	api := newTestAPIHandler(&MockDispatcher{StateValue: state})
	w := httptest.NewRecorder()
	api.GetState(w, httptest.NewRequest(http.MethodGet, "/ops/state", nil), nil)
	assert.Equal(t, http.StatusOK, w.Code)
	expected := `{"requestid":"", "status":200, "message":"Store state fetched successfully.",
		"data":{"loading":false, "error":"Book not found", "total":2, "ids":[4,1]}}`
	assert.JSONEq(t, expected, w.Body.String())
}
