package main

import (
	"net/http"
	"sync/atomic"

	"github.com/julienschmidt/httprouter"
	"go.uber.org/zap"
)

// StateSnapshot exposes the raw store state, error included, for operators.
type StateSnapshot struct {
	Loading bool    `json:"loading"`
	Error   *string `json:"error"`
	Total   int     `json:"total"`
	IDs     []int   `json:"ids"`
}

// GetState returns the full store state including the last recorded error
// which the public selectors do not expose.
func (api *APIHandler) GetState(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	requestID := GetValueFromContext(r.Context(), ContextRequestID)
	state := api.store.State()
	snapshot := StateSnapshot{
		Loading: state.Loading,
		Error:   state.Error,
		Total:   state.Collection.Len(),
		IDs:     state.Collection.IDs(),
	}
	resp := GenericResponse(requestID, http.StatusOK, "Store state fetched successfully.", nil, snapshot)
	if err := WriteResponse(r.Context(), w, resp); err != nil {
		api.logger.Error("failed to send response", zap.String("request.id", requestID), zap.Error(err))
	}
}

// GetStatistics provides basic runtime statistics.
func (api *APIHandler) GetStatistics(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	requestID := GetValueFromContext(r.Context(), ContextRequestID)
	stats := map[string]interface{}{
		"version":   api.stats.version,
		"container": api.stats.container,
		"runtime":   api.stats.runtime,
		"platform":  api.stats.platform,
		"requests":  atomic.LoadUint64(&api.stats.called),
		"started":   api.stats.started.Format("2006-01-02 15:04:05"),
		"uptime":    api.clock.Now().Sub(api.stats.started).String(),
	}
	resp := GenericResponse(requestID, http.StatusOK, "Statistics fetched successfully.", nil, stats)
	if err := WriteResponse(r.Context(), w, resp); err != nil {
		api.logger.Error("failed to send response", zap.String("request.id", requestID), zap.Error(err))
	}
}

// GetConfigs returns the non sensitive part of the running configuration.
func (api *APIHandler) GetConfigs(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	requestID := GetValueFromContext(r.Context(), ContextRequestID)
	configs := map[string]interface{}{
		"git_commit":     api.config.GitCommit,
		"git_tag":        api.config.GitTag,
		"build_time":     api.config.BuildTime,
		"is_production":  api.config.IsProduction,
		"log_level":      api.config.LogLevel.String(),
		"repository":     api.config.Store.Repository,
		"queue_size":     api.config.Store.QueueSize,
		"remote_url":     api.config.Remote.BaseURL,
		"intents_queue":  api.config.Intents.QueueEnable,
		"redis_notifier": api.config.Notifications.RedisEnable,
	}
	resp := GenericResponse(requestID, http.StatusOK, "Configs fetched successfully.", nil, configs)
	if err := WriteResponse(r.Context(), w, resp); err != nil {
		api.logger.Error("failed to send response", zap.String("request.id", requestID), zap.Error(err))
	}
}
