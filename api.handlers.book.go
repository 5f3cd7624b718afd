package main

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/julienschmidt/httprouter"
	"go.uber.org/zap"
)

// Index provides same details like `Status` handler by redirecting the request.
func (api *APIHandler) Index(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	http.Redirect(w, r, "/status", http.StatusSeeOther)
}

// Status provides basics details about the application to the public users.
func (api *APIHandler) Status(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	requestID := GetValueFromContext(r.Context(), ContextRequestID)
	w.Header().Set("Content-Type", "application/json; charset=UTF-8")
	if err := jsonAPI.NewEncoder(w).Encode(
		map[string]interface{}{
			"requestid": requestID,
			"status":    fmt.Sprintf("up & running since %.0f mins", api.clock.Now().Sub(api.stats.started).Minutes()),
			"message":   "Hello. Books store is available. Enjoy :)",
		},
	); err != nil {
		api.logger.Error("failed to send status response", zap.String("request.id", requestID), zap.Error(err))
	}
}

// GetAllBooks returns the current derived view of the store: the books
// in display order and whether a refresh is in progress.
func (api *APIHandler) GetAllBooks(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	requestID := GetValueFromContext(r.Context(), ContextRequestID)
	state := api.store.State()
	books := api.selectors.AllBooks(state)
	total := len(books)
	resp := GenericResponse(requestID, http.StatusOK, "All books fetched successfully.", &total,
		BooksView{Loading: api.selectors.Loading(state), Books: books})
	if err := WriteResponse(r.Context(), w, resp); err != nil {
		api.logger.Error("failed to send response", zap.String("request.id", requestID), zap.Error(err))
	}
}

// RefreshBooks requests a full reload of the collection.
func (api *APIHandler) RefreshBooks(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	api.dispatchIntent(w, r, LoadBooks{}, "Books refresh requested.", EmptyData)
}

func (api *APIHandler) CreateBook(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var draft BookDraft
	if err := DecodeRequestBody(r, &draft); err != nil {
		api.sendError(w, r, http.StatusBadRequest, "failed to create the book", draft, err)
		return
	}

	if err := ValidateBookDraft(draft); err != nil {
		api.sendError(w, r, http.StatusBadRequest, "failed to create the book", err.Error(), err)
		return
	}

	api.dispatchIntent(w, r, AddBook{Book: draft}, "Book creation requested.", draft)
}

func (api *APIHandler) UpdateBook(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id, err := GetBookIDFromParams(ps)
	if err != nil {
		api.sendError(w, r, http.StatusBadRequest, "book id provided is not valid", EmptyData, err)
		return
	}

	var changes BookChanges
	if err = DecodeRequestBody(r, &changes); err != nil {
		api.sendError(w, r, http.StatusBadRequest, "failed to update the book", EmptyData, err)
		return
	}

	if changes.IsEmpty() {
		err = errors.New("no changes provided")
		api.sendError(w, r, http.StatusBadRequest, "failed to update the book", err.Error(), err)
		return
	}

	if err = ValidateBookChanges(changes); err != nil {
		api.sendError(w, r, http.StatusBadRequest, "failed to update the book", err.Error(), err)
		return
	}

	api.dispatchIntent(w, r, UpdateBook{ID: id, Changes: changes}, "Book update requested.", changes)
}

func (api *APIHandler) DeleteBook(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id, err := GetBookIDFromParams(ps)
	if err != nil {
		api.sendError(w, r, http.StatusBadRequest, "book id provided is not valid", EmptyData, err)
		return
	}
	api.dispatchIntent(w, r, DeleteBook{ID: id}, "Book deletion requested.", map[string]int{"id": id})
}

func (api *APIHandler) ToggleBookReadStatus(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id, err := GetBookIDFromParams(ps)
	if err != nil {
		api.sendError(w, r, http.StatusBadRequest, "book id provided is not valid", EmptyData, err)
		return
	}
	api.dispatchIntent(w, r, ToggleBookReadStatus{ID: id}, "Book read status toggle requested.", map[string]int{"id": id})
}

// dispatchIntent hands the intent to the store and answers 202 since the
// outcome is only known once the remote call settles.
func (api *APIHandler) dispatchIntent(w http.ResponseWriter, r *http.Request, intent Action, message string, data interface{}) {
	requestID := GetValueFromContext(r.Context(), ContextRequestID)
	if err := api.store.Dispatch(intent); err != nil {
		api.sendError(w, r, http.StatusServiceUnavailable, "books store is not available", EmptyData, err)
		return
	}
	api.GetLoggerFromContext(r.Context()).Info("intent dispatched", zap.String("action", string(intent.Type())))
	resp := GenericResponse(requestID, http.StatusAccepted, message, nil, data)
	if err := WriteResponse(r.Context(), w, resp); err != nil {
		api.logger.Error("failed to send response", zap.String("request.id", requestID), zap.Error(err))
	}
}

func (api *APIHandler) sendError(w http.ResponseWriter, r *http.Request, status int, message string, data interface{}, cause error) {
	requestID := GetValueFromContext(r.Context(), ContextRequestID)
	api.GetLoggerFromContext(r.Context()).Error(message, zap.String("request.id", requestID), zap.Error(cause))
	errResp := NewAPIError(requestID, status, message, data)
	if err := WriteErrorResponse(r.Context(), w, errResp); err != nil {
		api.logger.Error("failed to send error response", zap.String("request.id", requestID), zap.Error(err))
	}
}
