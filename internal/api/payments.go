package api

import (
	"net/http"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"github.com/erazemk/trgovina/internal/model"
	"github.com/erazemk/trgovina/internal/store"
)

// PaymentsHandler handles membership-fee payment endpoints.
type PaymentsHandler struct {
	DB *sqlx.DB
}

type paymentRequest struct {
	MemberID    int64           `json:"member_id"`
	Amount      decimal.Decimal `json:"amount"`
	Method      string          `json:"method"`
	PeriodYears int             `json:"period_years"`
	StartDate   *string         `json:"start_date"`
	EndDate     *string         `json:"end_date"`
	Notes       *string         `json:"notes"`
}

// List handles GET /api/membership-payments.
func (h *PaymentsHandler) List(w http.ResponseWriter, r *http.Request) {
	page, pageSize := pageParams(r)
	payments, total, err := store.ListPayments(r.Context(), h.DB, store.PaymentFilter{
		MemberID: queryInt64(r, "memberId"),
		Page:     page,
		PageSize: pageSize,
	})
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to list payments")
		return
	}
	if payments == nil {
		payments = []model.MembershipPayment{}
	}
	jsonPage(w, http.StatusOK, payments, page, pageSize, total)
}

// Create handles POST /api/membership-payments. The payment extends the
// member's membership in the same transaction.
func (h *PaymentsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req paymentRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.MemberID == 0 {
		jsonError(w, http.StatusBadRequest, "member_id required")
		return
	}
	if req.Amount.IsNegative() || req.Amount.IsZero() {
		jsonError(w, http.StatusBadRequest, "amount must be positive")
		return
	}
	if !model.ValidPaymentMethod(req.Method) {
		jsonError(w, http.StatusBadRequest, "invalid payment method")
		return
	}

	member, err := store.GetMember(r.Context(), h.DB, req.MemberID)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if member == nil {
		jsonError(w, http.StatusBadRequest, "member not found")
		return
	}

	var start, end *time.Time
	if req.StartDate != nil && *req.StartDate != "" {
		t, err := parseDate(*req.StartDate)
		if err != nil {
			jsonError(w, http.StatusBadRequest, "invalid start_date")
			return
		}
		start = &t
	}
	if req.EndDate != nil && *req.EndDate != "" {
		t, err := parseDate(*req.EndDate)
		if err != nil {
			jsonError(w, http.StatusBadRequest, "invalid end_date")
			return
		}
		end = &t
	}
	if (start == nil) != (end == nil) {
		jsonError(w, http.StatusBadRequest, "start_date and end_date must be given together")
		return
	}
	if start != nil && !end.After(*start) {
		jsonError(w, http.StatusBadRequest, "end_date must be after start_date")
		return
	}

	payment, err := store.CreatePayment(r.Context(), h.DB, store.CreatePaymentParams{
		MemberID:    req.MemberID,
		Amount:      req.Amount,
		Method:      req.Method,
		PeriodYears: req.PeriodYears,
		StartDate:   start,
		EndDate:     end,
		Notes:       req.Notes,
	})
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to record payment")
		return
	}
	jsonData(w, http.StatusCreated, payment)
}

// Get handles GET /api/membership-payments/{id}.
func (h *PaymentsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid payment id")
		return
	}

	payment, err := store.GetPayment(r.Context(), h.DB, id)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to get payment")
		return
	}
	if payment == nil {
		jsonError(w, http.StatusNotFound, "payment not found")
		return
	}
	jsonData(w, http.StatusOK, payment)
}
