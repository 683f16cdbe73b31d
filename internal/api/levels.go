package api

import (
	"net/http"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"github.com/erazemk/trgovina/internal/model"
	"github.com/erazemk/trgovina/internal/store"
)

// LevelsHandler handles membership tier endpoints.
type LevelsHandler struct {
	DB *sqlx.DB
}

type levelRequest struct {
	Name          string              `json:"name"`
	Description   *string             `json:"description"`
	MinSpent      decimal.Decimal     `json:"min_spent"`
	Discount      decimal.Decimal     `json:"discount"`
	MembershipFee decimal.NullDecimal `json:"membership_fee"`
}

func (req *levelRequest) validate() string {
	if req.Name == "" {
		return "name required"
	}
	if req.MinSpent.IsNegative() {
		return "min_spent cannot be negative"
	}
	if req.Discount.IsNegative() || req.Discount.GreaterThan(decimal.NewFromInt(1)) {
		return "discount must be between 0 and 1"
	}
	return ""
}

// List handles GET /api/member-levels.
func (h *LevelsHandler) List(w http.ResponseWriter, r *http.Request) {
	levels, err := store.ListMemberLevels(r.Context(), h.DB)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to list member levels")
		return
	}
	if levels == nil {
		levels = []model.MemberLevel{}
	}
	jsonData(w, http.StatusOK, levels)
}

// Create handles POST /api/member-levels.
func (h *LevelsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req levelRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if msg := req.validate(); msg != "" {
		jsonError(w, http.StatusBadRequest, msg)
		return
	}

	level, err := store.CreateMemberLevel(r.Context(), h.DB, &model.MemberLevel{
		Name:          req.Name,
		Description:   req.Description,
		MinSpent:      req.MinSpent,
		Discount:      req.Discount,
		MembershipFee: req.MembershipFee,
	})
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to create member level")
		return
	}
	jsonData(w, http.StatusCreated, level)
}

// Get handles GET /api/member-levels/{id}.
func (h *LevelsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid level id")
		return
	}

	level, err := store.GetMemberLevel(r.Context(), h.DB, id)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to get member level")
		return
	}
	if level == nil {
		jsonError(w, http.StatusNotFound, "member level not found")
		return
	}
	jsonData(w, http.StatusOK, level)
}

// Update handles PUT /api/member-levels/{id}.
func (h *LevelsHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid level id")
		return
	}

	var req levelRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if msg := req.validate(); msg != "" {
		jsonError(w, http.StatusBadRequest, msg)
		return
	}

	level, err := store.GetMemberLevel(r.Context(), h.DB, id)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if level == nil {
		jsonError(w, http.StatusNotFound, "member level not found")
		return
	}

	level.Name = req.Name
	level.Description = req.Description
	level.MinSpent = req.MinSpent
	level.Discount = req.Discount
	level.MembershipFee = req.MembershipFee

	if err := store.UpdateMemberLevel(r.Context(), h.DB, level); err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to update member level")
		return
	}

	updated, err := store.GetMemberLevel(r.Context(), h.DB, id)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "internal error")
		return
	}
	jsonData(w, http.StatusOK, updated)
}

// Delete handles DELETE /api/member-levels/{id}. Tiers with members are
// refused.
func (h *LevelsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid level id")
		return
	}

	level, err := store.GetMemberLevel(r.Context(), h.DB, id)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if level == nil {
		jsonError(w, http.StatusNotFound, "member level not found")
		return
	}

	members, err := store.CountLevelMembers(r.Context(), h.DB, id)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if members > 0 {
		jsonError(w, http.StatusBadRequest, "member level has members")
		return
	}

	if err := store.DeleteMemberLevel(r.Context(), h.DB, id); err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to delete member level")
		return
	}
	jsonMessage(w, http.StatusOK, "member level deleted")
}
