package httpapi

import (
	"net/http"

	"github.com/gorilla/mux"
)

// SetupRouter wires the journal routes.
func (h *Handler) SetupRouter() *mux.Router {
	r := mux.NewRouter()
	r.Use(RequestIDMiddleware, h.LoggingMiddleware)

	r.HandleFunc("/health", h.HandleHealth).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()
	api.Use(h.AuthMiddleware)

	api.HandleFunc("/trades/upload", h.HandleUploadTrades).Methods(http.MethodPost)
	api.HandleFunc("/trades", h.HandleListTrades).Methods(http.MethodGet)
	api.HandleFunc("/trades", h.HandleCreateTrade).Methods(http.MethodPost)
	api.HandleFunc("/trades/{id:[0-9]+}", h.HandleGetTrade).Methods(http.MethodGet)
	api.HandleFunc("/dashboard/metrics", h.HandleDashboardMetrics).Methods(http.MethodGet)

	return r
}

// HandleHealth reports service liveness.
func (h *Handler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	h.respondSuccess(w, http.StatusOK, "OK", map[string]string{"status": "healthy"})
}
