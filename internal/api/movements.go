package api

import (
	"errors"
	"net/http"

	"github.com/jmoiron/sqlx"

	"github.com/erazemk/trgovina/internal/model"
	"github.com/erazemk/trgovina/internal/store"
)

// MovementsHandler handles the stock movement ledger endpoints.
type MovementsHandler struct {
	DB *sqlx.DB
}

type movementRequest struct {
	ProductID int64   `json:"product_id"`
	Type      string  `json:"type"`
	Quantity  int     `json:"quantity"`
	Reason    *string `json:"reason"`
}

// List handles GET /api/stock-movements.
func (h *MovementsHandler) List(w http.ResponseWriter, r *http.Request) {
	page, pageSize := pageParams(r)
	movements, total, err := store.ListMovements(r.Context(), h.DB, store.MovementFilter{
		Search:   r.URL.Query().Get("keyword"),
		Type:     r.URL.Query().Get("type"),
		OrderNo:  r.URL.Query().Get("orderNo"),
		DateFrom: r.URL.Query().Get("dateFrom"),
		DateTo:   r.URL.Query().Get("dateTo"),
		Page:     page,
		PageSize: pageSize,
	})
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to list stock movements")
		return
	}
	if movements == nil {
		movements = []model.StockMovement{}
	}
	jsonPage(w, http.StatusOK, movements, page, pageSize, total)
}

// Create handles POST /api/stock-movements. Only ADJUST movements change
// stock; other types are recorded for the audit trail.
func (h *MovementsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req movementRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.ProductID == 0 {
		jsonError(w, http.StatusBadRequest, "product_id required")
		return
	}
	if !model.ValidMovementType(req.Type) {
		jsonError(w, http.StatusBadRequest, "invalid movement type")
		return
	}
	if req.Quantity == 0 {
		jsonError(w, http.StatusBadRequest, "quantity required")
		return
	}

	product, err := store.GetProduct(r.Context(), h.DB, req.ProductID)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if product == nil {
		jsonError(w, http.StatusBadRequest, "product not found")
		return
	}

	movement, err := store.CreateMovement(r.Context(), h.DB, req.ProductID, req.Type, req.Quantity, req.Reason)
	if errors.Is(err, store.ErrNegativeStock) {
		jsonError(w, http.StatusBadRequest, "adjustment would make stock negative")
		return
	}
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to create stock movement")
		return
	}
	jsonData(w, http.StatusCreated, movement)
}
