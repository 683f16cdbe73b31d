package api

import (
	"net/http"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"github.com/erazemk/trgovina/internal/model"
	"github.com/erazemk/trgovina/internal/store"
)

// FinanceHandler handles income and expense record endpoints.
type FinanceHandler struct {
	DB *sqlx.DB
}

type financeRequest struct {
	Type        string          `json:"type"`
	Category    string          `json:"category"`
	Amount      decimal.Decimal `json:"amount"`
	Description *string         `json:"description"`
	OrderID     *int64          `json:"order_id"`
	RecordDate  *string         `json:"record_date"`
}

func (req *financeRequest) validate() string {
	if req.Type != model.FinanceIncome && req.Type != model.FinanceExpense {
		return "type must be INCOME or EXPENSE"
	}
	if req.Category == "" {
		return "category required"
	}
	if req.Amount.IsNegative() || req.Amount.IsZero() {
		return "amount must be positive"
	}
	return ""
}

// List handles GET /api/finance-records.
func (h *FinanceHandler) List(w http.ResponseWriter, r *http.Request) {
	page, pageSize := pageParams(r)
	records, total, err := store.ListFinanceRecords(r.Context(), h.DB, store.FinanceFilter{
		Search:   r.URL.Query().Get("keyword"),
		Type:     r.URL.Query().Get("type"),
		Category: r.URL.Query().Get("category"),
		DateFrom: r.URL.Query().Get("dateFrom"),
		DateTo:   r.URL.Query().Get("dateTo"),
		Page:     page,
		PageSize: pageSize,
	})
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to list finance records")
		return
	}
	if records == nil {
		records = []model.FinanceRecord{}
	}
	jsonPage(w, http.StatusOK, records, page, pageSize, total)
}

// Create handles POST /api/finance-records.
func (h *FinanceHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req financeRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if msg := req.validate(); msg != "" {
		jsonError(w, http.StatusBadRequest, msg)
		return
	}

	recordDate := time.Now()
	if req.RecordDate != nil && *req.RecordDate != "" {
		t, err := parseDate(*req.RecordDate)
		if err != nil {
			jsonError(w, http.StatusBadRequest, "invalid record_date")
			return
		}
		recordDate = t
	}

	if req.OrderID != nil {
		order, err := store.GetOrder(r.Context(), h.DB, *req.OrderID)
		if err != nil {
			jsonError(w, http.StatusInternalServerError, "internal error")
			return
		}
		if order == nil {
			jsonError(w, http.StatusBadRequest, "order not found")
			return
		}
	}

	record, err := store.CreateFinanceRecord(r.Context(), h.DB, &model.FinanceRecord{
		Type:        req.Type,
		Category:    req.Category,
		Amount:      req.Amount,
		Description: req.Description,
		OrderID:     req.OrderID,
		RecordDate:  recordDate,
	})
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to create finance record")
		return
	}
	jsonData(w, http.StatusCreated, record)
}

// Get handles GET /api/finance-records/{id}.
func (h *FinanceHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid record id")
		return
	}

	record, err := store.GetFinanceRecord(r.Context(), h.DB, id)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to get finance record")
		return
	}
	if record == nil {
		jsonError(w, http.StatusNotFound, "finance record not found")
		return
	}
	jsonData(w, http.StatusOK, record)
}

// Update handles PUT /api/finance-records/{id}.
func (h *FinanceHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid record id")
		return
	}

	var req financeRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if msg := req.validate(); msg != "" {
		jsonError(w, http.StatusBadRequest, msg)
		return
	}

	record, err := store.GetFinanceRecord(r.Context(), h.DB, id)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if record == nil {
		jsonError(w, http.StatusNotFound, "finance record not found")
		return
	}

	record.Type = req.Type
	record.Category = req.Category
	record.Amount = req.Amount
	record.Description = req.Description
	record.OrderID = req.OrderID
	if req.RecordDate != nil && *req.RecordDate != "" {
		t, err := parseDate(*req.RecordDate)
		if err != nil {
			jsonError(w, http.StatusBadRequest, "invalid record_date")
			return
		}
		record.RecordDate = t
	}

	if err := store.UpdateFinanceRecord(r.Context(), h.DB, record); err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to update finance record")
		return
	}

	updated, err := store.GetFinanceRecord(r.Context(), h.DB, id)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "internal error")
		return
	}
	jsonData(w, http.StatusOK, updated)
}

// Delete handles DELETE /api/finance-records/{id}.
func (h *FinanceHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid record id")
		return
	}

	record, err := store.GetFinanceRecord(r.Context(), h.DB, id)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if record == nil {
		jsonError(w, http.StatusNotFound, "finance record not found")
		return
	}

	if err := store.DeleteFinanceRecord(r.Context(), h.DB, id); err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to delete finance record")
		return
	}
	jsonMessage(w, http.StatusOK, "finance record deleted")
}

// Report handles GET /api/finance-reports.
func (h *FinanceHandler) Report(w http.ResponseWriter, r *http.Request) {
	report, err := store.GetFinanceReport(r.Context(), h.DB,
		r.URL.Query().Get("dateFrom"), r.URL.Query().Get("dateTo"))
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to build finance report")
		return
	}
	jsonData(w, http.StatusOK, report)
}
