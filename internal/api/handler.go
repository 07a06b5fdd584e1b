// Package api exposes the POS operations over a small JSON HTTP API: menu
// browsing, order building, discount management, checkout and reporting.
package api

import (
	"net/http"

	"github.com/mesapos/mesa/internal/catalog"
	"github.com/mesapos/mesa/internal/order"
	"github.com/mesapos/mesa/internal/transaction"
)

// Handler serves the POS API, delegating business logic to the order
// service and its collaborators.
type Handler struct {
	menu         catalog.Repository
	orders       *order.Service
	store        *order.Store
	transactions transaction.Repository
	availability order.AvailabilityFunc
}

// NewHandler constructs a Handler with the required dependencies.
// availability may be nil to skip stock checks.
func NewHandler(
	menu catalog.Repository,
	orders *order.Service,
	store *order.Store,
	transactions transaction.Repository,
	availability order.AvailabilityFunc,
) *Handler {
	return &Handler{
		menu:         menu,
		orders:       orders,
		store:        store,
		transactions: transactions,
		availability: availability,
	}
}

// Routes registers all API endpoints on the mux.
func (h *Handler) Routes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/menu", h.listMenu)
	mux.HandleFunc("GET /api/orders", h.listOrders)
	mux.HandleFunc("POST /api/orders", h.createOrder)
	mux.HandleFunc("GET /api/orders/{id}", h.getOrder)
	mux.HandleFunc("POST /api/orders/{id}/items", h.addItems)
	mux.HandleFunc("POST /api/orders/{id}/discounts", h.applyDiscount)
	mux.HandleFunc("DELETE /api/orders/{id}/discounts/{index}", h.removeDiscount)
	mux.HandleFunc("POST /api/orders/{id}/promo", h.applyPromo)
	mux.HandleFunc("POST /api/orders/{id}/checkout", h.checkout)
	mux.HandleFunc("DELETE /api/orders/{id}", h.cancelOrder)
	mux.HandleFunc("GET /api/reports/daily", h.dailyReport)
}
