package main

import (
	"github.com/julienschmidt/httprouter"
)

// MiddlewareMap contains middlwares chain to
// use for public-facing and ops requests.
type MiddlewareMap struct {
	public func(httprouter.Handle) httprouter.Handle
	ops    func(httprouter.Handle) httprouter.Handle
}

// SetupRoutes injects book and ops related endpoints if required.
func (api *APIHandler) SetupRoutes(router *httprouter.Router, m *MiddlewareMap) *httprouter.Router {
	router.RedirectTrailingSlash = true
	api.SetupBookRoutes(router, m)
	if api.config != nil && api.config.OpsEndpointsEnable {
		api.SetupOpsRoutes(router, m)
	}
	return router
}

// SetupBookRoutes injects book related endpoints. Reads are served from the
// store selectors, writes only dispatch intents.
func (api *APIHandler) SetupBookRoutes(router *httprouter.Router, m *MiddlewareMap) *httprouter.Router {
	router.GET("/", m.public(api.Index))
	router.GET("/status", m.public(api.Status))
	router.POST("/v1/refresh", m.public(api.RefreshBooks))
	router.GET("/v1/books", m.public(api.GetAllBooks))
	router.POST("/v1/books", m.public(api.CreateBook))
	router.PATCH("/v1/books/:id", m.public(api.UpdateBook))
	router.DELETE("/v1/books/:id", m.public(api.DeleteBook))
	router.POST("/v1/books/:id/toggle", m.public(api.ToggleBookReadStatus))
	return router
}

// SetupOpsRoutes injects internal operations related endpoints.
func (api *APIHandler) SetupOpsRoutes(router *httprouter.Router, m *MiddlewareMap) *httprouter.Router {
	router.GET("/ops/state", m.ops(api.GetState))
	router.GET("/ops/stats", m.ops(api.GetStatistics))
	router.GET("/ops/configs", m.ops(api.GetConfigs))
	return router
}
