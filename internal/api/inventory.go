package api

import (
	"errors"
	"net/http"

	"github.com/jmoiron/sqlx"

	"github.com/erazemk/trgovina/internal/model"
	"github.com/erazemk/trgovina/internal/store"
)

// InventoryHandler handles the inventory view and stock adjustments.
type InventoryHandler struct {
	DB *sqlx.DB
}

type adjustRequest struct {
	ProductID      int64   `json:"product_id"`
	AdjustmentType string  `json:"adjustmentType"`
	Quantity       int     `json:"quantity"`
	Reason         *string `json:"reason"`
}

// List handles GET /api/inventory.
func (h *InventoryHandler) List(w http.ResponseWriter, r *http.Request) {
	page, pageSize := pageParams(r)
	items, total, err := store.ListInventory(r.Context(), h.DB, store.InventoryFilter{
		Search:      r.URL.Query().Get("keyword"),
		Category:    r.URL.Query().Get("category"),
		StockStatus: r.URL.Query().Get("status"),
		Page:        page,
		PageSize:    pageSize,
	})
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to list inventory")
		return
	}
	if items == nil {
		items = []model.InventoryItem{}
	}
	jsonPage(w, http.StatusOK, items, page, pageSize, total)
}

// Adjust handles POST /api/inventory. The adjustment and its movement row
// are written together.
func (h *InventoryHandler) Adjust(w http.ResponseWriter, r *http.Request) {
	var req adjustRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.ProductID == 0 {
		jsonError(w, http.StatusBadRequest, "product_id required")
		return
	}
	switch req.AdjustmentType {
	case store.AdjustSet, store.AdjustAdd, store.AdjustSubtract:
	default:
		jsonError(w, http.StatusBadRequest, "adjustmentType must be set, add, or subtract")
		return
	}
	if req.Quantity < 0 {
		jsonError(w, http.StatusBadRequest, "quantity cannot be negative")
		return
	}

	product, err := store.AdjustStock(r.Context(), h.DB, req.ProductID, req.AdjustmentType, req.Quantity, req.Reason)
	if errors.Is(err, store.ErrNegativeStock) {
		jsonError(w, http.StatusBadRequest, "adjustment would make stock negative")
		return
	}
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to adjust stock")
		return
	}
	if product == nil {
		jsonError(w, http.StatusNotFound, "product not found")
		return
	}
	jsonData(w, http.StatusOK, product)
}
