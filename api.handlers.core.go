package main

import (
	"time"

	"go.uber.org/zap"
)

// BooksStore is the part of the store used by the api: reading state and dispatching intents.
type BooksStore interface {
	Dispatcher
	State() *State
}

// Statistics holds app stats for ops.
type Statistics struct {
	version   string
	container bool
	runtime   string
	platform  string
	called    uint64
	started   time.Time
}

// APIHandler defines the API handler.
type APIHandler struct {
	logger     *zap.Logger
	config     *Config
	stats      *Statistics
	clock      Clocker
	idsHandler UIDHandler
	store      BooksStore
	selectors  *BookSelectors
}

// NewAPIHandler provides a new instance of APIHandler.
func NewAPIHandler(logger *zap.Logger, config *Config, stats *Statistics, clock Clocker, idsHandler UIDHandler, store BooksStore) *APIHandler {
	return &APIHandler{
		logger:     logger,
		config:     config,
		stats:      stats,
		clock:      clock,
		idsHandler: idsHandler,
		store:      store,
		selectors:  NewBookSelectors(),
	}
}
