package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/light-bringer/order-service/internal/app/order/queries/get_order"
	"github.com/light-bringer/order-service/internal/app/order/usecases/create_order"
)

// OrdersHandler handles HTTP requests for orders.
type OrdersHandler struct {
	createOrder *create_order.Interactor
	getOrder    *get_order.Query
	logger      *slog.Logger
}

// NewOrdersHandler creates a new HTTP orders handler.
func NewOrdersHandler(createOrder *create_order.Interactor, getOrder *get_order.Query, logger *slog.Logger) *OrdersHandler {
	return &OrdersHandler{
		createOrder: createOrder,
		getOrder:    getOrder,
		logger:      logger,
	}
}

// Register mounts the order routes on mux.
func (h *OrdersHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("/api/v1/orders", h.handleOrders)
	mux.HandleFunc("/api/v1/orders/", h.handleOrderByID)
}

// CreateOrderRequest is the JSON body for POST /api/v1/orders.
type CreateOrderRequest struct {
	CustomerID string `json:"customer_id"`
}

// CreateOrderResponse is returned once the order is durable.
type CreateOrderResponse struct {
	ID         string `json:"id"`
	CustomerID string `json:"customer_id"`
}

// GetOrderResponse is the read-side view of an order.
type GetOrderResponse struct {
	ID         string `json:"id"`
	CustomerID string `json:"customer_id"`
	CreatedAt  string `json:"created_at"`
}

// handleOrders dispatches POST /api/v1/orders.
func (h *OrdersHandler) handleOrders(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req CreateOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON body"})
		return
	}

	resp, err := h.createOrder.Execute(r.Context(), &create_order.Request{
		CustomerID: req.CustomerID,
	})
	if err != nil {
		h.logger.Warn("create order failed", "err", err)
		writeError(w, err)
		return
	}

	h.logger.Info("order created", "order_id", resp.OrderID)

	writeJSON(w, http.StatusCreated, CreateOrderResponse{
		ID:         resp.OrderID,
		CustomerID: resp.CustomerID,
	})
}

// handleOrderByID dispatches GET /api/v1/orders/{id}.
func (h *OrdersHandler) handleOrderByID(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	orderID := strings.TrimPrefix(r.URL.Path, "/api/v1/orders/")
	if orderID == "" || strings.Contains(orderID, "/") {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "order id is required"})
		return
	}

	resp, err := h.getOrder.Execute(r.Context(), &get_order.Request{OrderID: orderID})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, GetOrderResponse{
		ID:         resp.OrderID,
		CustomerID: resp.CustomerID,
		CreatedAt:  resp.CreatedAt.UTC().Format("2006-01-02T15:04:05Z07:00"),
	})
}
