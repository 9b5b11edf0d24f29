// Package httpapi is the HTTP transport for the trade journal.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"tradeJournal/internal/analytics"
	"tradeJournal/internal/app"
	"tradeJournal/internal/domain"
	"tradeJournal/internal/ports"
)

// Journal is the application surface the handlers depend on.
type Journal interface {
	ImportTrades(ctx context.Context, userID int64, file io.Reader) (*app.ImportResult, error)
	CreateTrade(ctx context.Context, cmd domain.TradeCommand) (*domain.Trade, error)
	ListTrades(ctx context.Context, userID int64) ([]domain.Trade, error)
	GetTrade(ctx context.Context, id, userID int64) (*domain.Trade, error)
	Dashboard(ctx context.Context, userID int64) (*analytics.Dashboard, error)
}

// Handler serves the journal API.
type Handler struct {
	journal        Journal
	tokens         *TokenService
	logger         ports.Logger
	maxUploadBytes int64
}

// New creates a Handler. maxUploadBytes bounds multipart upload bodies.
func New(journal Journal, tokens *TokenService, logger ports.Logger, maxUploadBytes int64) *Handler {
	if maxUploadBytes <= 0 {
		maxUploadBytes = 10 << 20
	}
	return &Handler{
		journal:        journal,
		tokens:         tokens,
		logger:         logger,
		maxUploadBytes: maxUploadBytes,
	}
}

// Response is the JSON envelope of every API reply.
type Response struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

func (h *Handler) respondJSON(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(data)
}

func (h *Handler) respondError(w http.ResponseWriter, statusCode int, message string) {
	h.respondJSON(w, statusCode, Response{Success: false, Message: message})
}

func (h *Handler) respondSuccess(w http.ResponseWriter, statusCode int, message string, data any) {
	h.respondJSON(w, statusCode, Response{Success: true, Message: message, Data: data})
}

// respondServiceError maps journal errors onto HTTP statuses.
func (h *Handler) respondServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, ports.ErrNoFile),
		errors.Is(err, ports.ErrMissingHeader),
		errors.Is(err, ports.ErrNoValidTrades),
		errors.Is(err, ports.ErrUnreadableFile),
		errors.Is(err, ports.ErrInvalidRequest):
		h.respondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, ports.ErrNotFound):
		h.respondError(w, http.StatusNotFound, "Trade not found")
	default:
		h.logger.Error(r.Context(), err, "Request failed", map[string]interface{}{
			"requestID": RequestID(r.Context()),
			"path":      r.URL.Path,
		})
		h.respondError(w, http.StatusInternalServerError, "Internal server error")
	}
}
