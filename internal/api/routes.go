package api

import (
	"net/http"
)

// RegisterRoutes регистрирует все маршруты API.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	// Middleware chain
	chain := Chain(
		Recovery(h.logger),
		Logging(h.logger),
		Auth(h.token),
	)

	// Deploys
	mux.Handle("POST /api/v1/deploys", chain(http.HandlerFunc(h.CreateDeploy)))
	mux.Handle("GET /api/v1/deploys", chain(http.HandlerFunc(h.ListDeploys)))
	mux.Handle("GET /api/v1/deploys/{id}", chain(http.HandlerFunc(h.GetDeploy)))
}
