package http

import (
	"net/http"
	"strconv"

	"github.com/light-bringer/order-service/internal/app/order/contracts"
	"github.com/light-bringer/order-service/internal/app/order/queries/list_outbox"
)

// OutboxHandler exposes the outbox for operator inspection.
type OutboxHandler struct {
	listEntries *list_outbox.Query
}

// NewOutboxHandler creates a new HTTP outbox handler.
func NewOutboxHandler(listEntries *list_outbox.Query) *OutboxHandler {
	return &OutboxHandler{
		listEntries: listEntries,
	}
}

// Register mounts the outbox routes on mux.
func (h *OutboxHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("/api/v1/outbox/entries", h.handleList)
}

// OutboxEntryView represents an outbox entry in the HTTP response.
type OutboxEntryView struct {
	EntryID       string  `json:"entry_id"`
	OrderID       string  `json:"order_id"`
	Payload       string  `json:"payload"`
	Status        string  `json:"status"`
	Attempts      int64   `json:"attempts"`
	CreatedAt     string  `json:"created_at"`
	LastAttemptAt *string `json:"last_attempt_at,omitempty"`
	PublishedAt   *string `json:"published_at,omitempty"`
	ErrorMessage  string  `json:"error_message,omitempty"`
}

// ListOutboxResponse represents the HTTP response for listing entries.
type ListOutboxResponse struct {
	Entries    []OutboxEntryView `json:"entries"`
	TotalCount int64             `json:"total_count"`
}

// handleList handles GET /api/v1/outbox/entries requests.
func (h *OutboxHandler) handleList(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	query := r.URL.Query()
	req := &list_outbox.Request{
		Limit: 100,
	}

	if orderID := query.Get("order_id"); orderID != "" {
		req.OrderID = &orderID
	}

	if status := query.Get("status"); status != "" {
		req.Status = &status
	}

	if limitStr := query.Get("limit"); limitStr != "" {
		if limit, err := strconv.ParseInt(limitStr, 10, 64); err == nil && limit > 0 {
			req.Limit = limit
		}
	}

	entries, total, err := h.listEntries.Execute(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}

	views := make([]OutboxEntryView, 0, len(entries))
	for _, entry := range entries {
		views = append(views, toEntryView(entry))
	}

	writeJSON(w, http.StatusOK, ListOutboxResponse{
		Entries:    views,
		TotalCount: total,
	})
}

func toEntryView(entry *contracts.OutboxEntry) OutboxEntryView {
	const timeLayout = "2006-01-02T15:04:05Z07:00"

	view := OutboxEntryView{
		EntryID:      entry.EntryID,
		OrderID:      entry.OrderID,
		Payload:      entry.Payload,
		Status:       entry.Status,
		Attempts:     entry.Attempts,
		CreatedAt:    entry.CreatedAt.UTC().Format(timeLayout),
		ErrorMessage: entry.ErrorMessage,
	}
	if entry.LastAttemptAt != nil {
		s := entry.LastAttemptAt.UTC().Format(timeLayout)
		view.LastAttemptAt = &s
	}
	if entry.PublishedAt != nil {
		s := entry.PublishedAt.UTC().Format(timeLayout)
		view.PublishedAt = &s
	}
	return view
}
