package api

import (
	"database/sql"
	"errors"
	"net/http"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"github.com/erazemk/trgovina/internal/model"
	"github.com/erazemk/trgovina/internal/store"
)

// OrdersHandler handles purchase, sale, and return order endpoints.
type OrdersHandler struct {
	DB *sqlx.DB
}

type orderItemRequest struct {
	ProductID int64           `json:"product_id"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

type createOrderRequest struct {
	OrderNo    string             `json:"order_no"`
	Type       string             `json:"type"`
	Status     string             `json:"status"`
	SupplierID *int64             `json:"supplier_id"`
	CustomerID *int64             `json:"customer_id"`
	MemberID   *int64             `json:"member_id"`
	PaidAmount decimal.Decimal    `json:"paid_amount"`
	OrderDate  *string            `json:"order_date"`
	Notes      *string            `json:"notes"`
	Items      []orderItemRequest `json:"items"`
}

type updateOrderRequest struct {
	ID         int64           `json:"id"`
	OrderNo    string          `json:"order_no"`
	Status     string          `json:"status"`
	SupplierID *int64          `json:"supplier_id"`
	CustomerID *int64          `json:"customer_id"`
	MemberID   *int64          `json:"member_id"`
	PaidAmount decimal.Decimal `json:"paid_amount"`
	OrderDate  *string         `json:"order_date"`
	Notes      *string         `json:"notes"`
}

// List handles GET /api/orders.
func (h *OrdersHandler) List(w http.ResponseWriter, r *http.Request) {
	page, pageSize := pageParams(r)
	orders, total, err := store.ListOrders(r.Context(), h.DB, store.OrderFilter{
		Type:     r.URL.Query().Get("type"),
		Status:   r.URL.Query().Get("status"),
		Keyword:  r.URL.Query().Get("keyword"),
		DateFrom: r.URL.Query().Get("dateFrom"),
		DateTo:   r.URL.Query().Get("dateTo"),
		Page:     page,
		PageSize: pageSize,
	})
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to list orders")
		return
	}
	if orders == nil {
		orders = []model.Order{}
	}
	jsonPage(w, http.StatusOK, orders, page, pageSize, total)
}

// Create handles POST /api/orders. The order total is computed from the
// items, and the creating user is the authenticated caller. When the initial
// status already crosses the fulfillment threshold, stock moves in the same
// transaction.
func (h *OrdersHandler) Create(w http.ResponseWriter, r *http.Request) {
	claims := GetClaims(r.Context())
	if claims == nil {
		jsonError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req createOrderRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if !model.ValidOrderType(req.Type) {
		jsonError(w, http.StatusBadRequest, "invalid order type")
		return
	}
	if req.Status != "" && !model.ValidOrderStatus(req.Type, req.Status) {
		jsonError(w, http.StatusBadRequest, "invalid order status")
		return
	}
	if len(req.Items) == 0 {
		jsonError(w, http.StatusBadRequest, "order needs at least one item")
		return
	}

	items := make([]store.OrderItemParams, 0, len(req.Items))
	for _, item := range req.Items {
		if item.Quantity <= 0 {
			jsonError(w, http.StatusBadRequest, "item quantity must be positive")
			return
		}
		if item.UnitPrice.IsNegative() {
			jsonError(w, http.StatusBadRequest, "item unit price cannot be negative")
			return
		}
		product, err := store.GetProduct(r.Context(), h.DB, item.ProductID)
		if err != nil {
			jsonError(w, http.StatusInternalServerError, "internal error")
			return
		}
		if product == nil {
			jsonError(w, http.StatusBadRequest, "product not found")
			return
		}
		items = append(items, store.OrderItemParams{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
		})
	}

	if ok := h.checkCounterparties(w, r, req.SupplierID, req.CustomerID, req.MemberID); !ok {
		return
	}

	orderDate := time.Now()
	if req.OrderDate != nil && *req.OrderDate != "" {
		t, err := parseDate(*req.OrderDate)
		if err != nil {
			jsonError(w, http.StatusBadRequest, "invalid order_date")
			return
		}
		orderDate = t
	}

	order, err := store.CreateOrder(r.Context(), h.DB, store.CreateOrderParams{
		OrderNo:    req.OrderNo,
		Type:       req.Type,
		Status:     req.Status,
		SupplierID: req.SupplierID,
		CustomerID: req.CustomerID,
		MemberID:   req.MemberID,
		PaidAmount: req.PaidAmount,
		OrderDate:  orderDate,
		UserID:     claims.UserID,
		Notes:      req.Notes,
		Items:      items,
	})
	if err != nil {
		h.writeOrderError(w, err, "failed to create order")
		return
	}
	jsonData(w, http.StatusCreated, order)
}

// Get handles GET /api/orders/{id}.
func (h *OrdersHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid order id")
		return
	}

	order, err := store.GetOrder(r.Context(), h.DB, id)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to get order")
		return
	}
	if order == nil {
		jsonError(w, http.StatusNotFound, "order not found")
		return
	}
	jsonData(w, http.StatusOK, order)
}

// Update handles PUT /api/orders. The target order ID is carried in the
// body. Items never change after creation; a status change across the
// fulfillment threshold applies or reverses stock in the same transaction.
func (h *OrdersHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req updateOrderRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.ID == 0 {
		jsonError(w, http.StatusBadRequest, "id required")
		return
	}

	existing, err := store.GetOrder(r.Context(), h.DB, req.ID)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if existing == nil {
		jsonError(w, http.StatusNotFound, "order not found")
		return
	}
	if !model.ValidOrderStatus(existing.Type, req.Status) {
		jsonError(w, http.StatusBadRequest, "invalid order status")
		return
	}

	if ok := h.checkCounterparties(w, r, req.SupplierID, req.CustomerID, req.MemberID); !ok {
		return
	}

	orderDate := time.Now()
	if req.OrderDate != nil && *req.OrderDate != "" {
		t, err := parseDate(*req.OrderDate)
		if err != nil {
			jsonError(w, http.StatusBadRequest, "invalid order_date")
			return
		}
		orderDate = t
	}

	order, err := store.UpdateOrder(r.Context(), h.DB, req.ID, store.UpdateOrderParams{
		OrderNo:    req.OrderNo,
		Status:     req.Status,
		SupplierID: req.SupplierID,
		CustomerID: req.CustomerID,
		MemberID:   req.MemberID,
		PaidAmount: req.PaidAmount,
		OrderDate:  orderDate,
		Notes:      req.Notes,
	})
	if err != nil {
		h.writeOrderError(w, err, "failed to update order")
		return
	}
	if order == nil {
		jsonError(w, http.StatusNotFound, "order not found")
		return
	}
	jsonData(w, http.StatusOK, order)
}

// Delete handles DELETE /api/orders?id=. Orders that have affected inventory
// are refused.
func (h *OrdersHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := queryInt64(r, "id")
	if id == 0 {
		jsonError(w, http.StatusBadRequest, "id required")
		return
	}

	err := store.DeleteOrder(r.Context(), h.DB, id)
	if errors.Is(err, sql.ErrNoRows) {
		jsonError(w, http.StatusNotFound, "order not found")
		return
	}
	if errors.Is(err, store.ErrOrderFulfilled) {
		jsonError(w, http.StatusBadRequest, "order has affected inventory and cannot be deleted")
		return
	}
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to delete order")
		return
	}
	jsonMessage(w, http.StatusOK, "order deleted")
}

// checkCounterparties verifies that every referenced counterparty exists.
// It writes an error response and returns false on failure.
func (h *OrdersHandler) checkCounterparties(w http.ResponseWriter, r *http.Request, supplierID, customerID, memberID *int64) bool {
	if supplierID != nil {
		supplier, err := store.GetSupplier(r.Context(), h.DB, *supplierID)
		if err != nil {
			jsonError(w, http.StatusInternalServerError, "internal error")
			return false
		}
		if supplier == nil {
			jsonError(w, http.StatusBadRequest, "supplier not found")
			return false
		}
	}
	if customerID != nil {
		customer, err := store.GetCustomer(r.Context(), h.DB, *customerID)
		if err != nil {
			jsonError(w, http.StatusInternalServerError, "internal error")
			return false
		}
		if customer == nil {
			jsonError(w, http.StatusBadRequest, "customer not found")
			return false
		}
	}
	if memberID != nil {
		member, err := store.GetMember(r.Context(), h.DB, *memberID)
		if err != nil {
			jsonError(w, http.StatusInternalServerError, "internal error")
			return false
		}
		if member == nil {
			jsonError(w, http.StatusBadRequest, "member not found")
			return false
		}
	}
	return true
}

// writeOrderError maps store errors from order writes to responses. Stock
// shortages surface with the exact shortfall message.
func (h *OrdersHandler) writeOrderError(w http.ResponseWriter, err error, fallback string) {
	var stockErr *store.InsufficientStockError
	switch {
	case errors.As(err, &stockErr):
		jsonError(w, http.StatusBadRequest, stockErr.Error())
	case errors.Is(err, store.ErrDuplicateOrderNo):
		jsonError(w, http.StatusBadRequest, "order number already exists")
	default:
		jsonError(w, http.StatusInternalServerError, fallback)
	}
}
