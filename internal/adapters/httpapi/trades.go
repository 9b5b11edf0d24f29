package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"tradeJournal/internal/domain"
	"tradeJournal/internal/ports"
)

const uploadField = "file"

// createTradeRequest is the body of POST /api/trades.
type createTradeRequest struct {
	Symbol     string     `json:"symbol"`
	Direction  string     `json:"direction"`
	Size       float64    `json:"size"`
	EntryPrice float64    `json:"entryPrice"`
	ExitPrice  float64    `json:"exitPrice"`
	Notes      string     `json:"notes"`
	TradeDate  *time.Time `json:"tradeDate"`
	Tags       []string   `json:"tags"`
	Sentiment  string     `json:"sentiment"`
}

func (req createTradeRequest) command(userID int64) domain.TradeCommand {
	return domain.TradeCommand{
		UserID:     userID,
		Symbol:     req.Symbol,
		Direction:  domain.Direction(req.Direction),
		Size:       req.Size,
		EntryPrice: req.EntryPrice,
		ExitPrice:  req.ExitPrice,
		Notes:      req.Notes,
		TradeDate:  req.TradeDate,
		Tags:       req.Tags,
		Sentiment:  req.Sentiment,
	}
}

// HandleUploadTrades imports a CSV sent as multipart field "file".
func (h *Handler) HandleUploadTrades(w http.ResponseWriter, r *http.Request) {
	userID, ok := UserID(r.Context())
	if !ok {
		h.respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	if r.ContentLength > h.maxUploadBytes {
		h.respondError(w, http.StatusRequestEntityTooLarge, fmt.Sprintf("Upload exceeds %d bytes.", h.maxUploadBytes))
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)
	if err := r.ParseMultipartForm(h.maxUploadBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.respondError(w, http.StatusRequestEntityTooLarge, fmt.Sprintf("Upload exceeds %d bytes.", tooLarge.Limit))
			return
		}
		h.respondServiceError(w, r, ports.ErrNoFile)
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile(uploadField)
	if err != nil {
		h.respondServiceError(w, r, ports.ErrNoFile)
		return
	}
	defer file.Close()

	h.logger.Debug(r.Context(), "Received trade upload", map[string]interface{}{
		"requestID": RequestID(r.Context()),
		"filename":  header.Filename,
		"bytes":     header.Size,
	})

	result, err := h.journal.ImportTrades(r.Context(), userID, file)
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	h.respondSuccess(w, http.StatusCreated, result.Message(), result)
}

// HandleListTrades returns the caller's trades, newest first.
func (h *Handler) HandleListTrades(w http.ResponseWriter, r *http.Request) {
	userID, ok := UserID(r.Context())
	if !ok {
		h.respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	trades, err := h.journal.ListTrades(r.Context(), userID)
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	h.respondSuccess(w, http.StatusOK, "", trades)
}

// HandleCreateTrade stores a single trade from a JSON body.
func (h *Handler) HandleCreateTrade(w http.ResponseWriter, r *http.Request) {
	userID, ok := UserID(r.Context())
	if !ok {
		h.respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req createTradeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	trade, err := h.journal.CreateTrade(r.Context(), req.command(userID))
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	h.respondSuccess(w, http.StatusCreated, "Trade created.", trade)
}

// HandleGetTrade returns one of the caller's trades.
func (h *Handler) HandleGetTrade(w http.ResponseWriter, r *http.Request) {
	userID, ok := UserID(r.Context())
	if !ok {
		h.respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid trade id")
		return
	}

	trade, err := h.journal.GetTrade(r.Context(), id, userID)
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	h.respondSuccess(w, http.StatusOK, "", trade)
}

// HandleDashboardMetrics returns {metrics, recentTrades} for the caller.
func (h *Handler) HandleDashboardMetrics(w http.ResponseWriter, r *http.Request) {
	userID, ok := UserID(r.Context())
	if !ok {
		h.respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	dashboard, err := h.journal.Dashboard(r.Context(), userID)
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	h.respondSuccess(w, http.StatusOK, "", dashboard)
}
