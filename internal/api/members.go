package api

import (
	"net/http"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/erazemk/trgovina/internal/model"
	"github.com/erazemk/trgovina/internal/store"
)

// MembersHandler handles member CRUD endpoints.
type MembersHandler struct {
	DB *sqlx.DB
}

type memberRequest struct {
	Name     string  `json:"name"`
	Phone    *string `json:"phone"`
	Email    *string `json:"email"`
	Gender   *string `json:"gender"`
	Birthday *string `json:"birthday"`
	Address  *string `json:"address"`
	LevelID  int64   `json:"level_id"`
	Status   string  `json:"status"`
}

// parseDate accepts a plain date or an RFC 3339 timestamp.
func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
}

// List handles GET /api/members.
func (h *MembersHandler) List(w http.ResponseWriter, r *http.Request) {
	page, pageSize := pageParams(r)
	members, total, err := store.ListMembers(r.Context(), h.DB, store.MemberFilter{
		Search:   r.URL.Query().Get("keyword"),
		LevelID:  queryInt64(r, "levelId"),
		Status:   r.URL.Query().Get("status"),
		Page:     page,
		PageSize: pageSize,
	})
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to list members")
		return
	}
	if members == nil {
		members = []model.Member{}
	}
	jsonPage(w, http.StatusOK, members, page, pageSize, total)
}

// Create handles POST /api/members. The member number is assigned by the
// store, and the registering user is taken from the authenticated caller.
func (h *MembersHandler) Create(w http.ResponseWriter, r *http.Request) {
	claims := GetClaims(r.Context())
	if claims == nil {
		jsonError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req memberRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Name == "" || req.LevelID == 0 {
		jsonError(w, http.StatusBadRequest, "name and level_id required")
		return
	}

	level, err := store.GetMemberLevel(r.Context(), h.DB, req.LevelID)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if level == nil {
		jsonError(w, http.StatusBadRequest, "member level not found")
		return
	}

	if req.Phone != nil && *req.Phone != "" {
		existing, err := store.GetMemberByPhone(r.Context(), h.DB, *req.Phone)
		if err != nil {
			jsonError(w, http.StatusInternalServerError, "internal error")
			return
		}
		if existing != nil {
			jsonError(w, http.StatusBadRequest, "phone number already registered")
			return
		}
	}

	var birthday *time.Time
	if req.Birthday != nil && *req.Birthday != "" {
		t, err := parseDate(*req.Birthday)
		if err != nil {
			jsonError(w, http.StatusBadRequest, "invalid birthday")
			return
		}
		birthday = &t
	}

	status := req.Status
	if status == "" {
		status = model.MemberStatusActive
	}

	member, err := store.CreateMember(r.Context(), h.DB, &model.Member{
		Name:         req.Name,
		Phone:        req.Phone,
		Email:        req.Email,
		Gender:       req.Gender,
		Birthday:     birthday,
		Address:      req.Address,
		LevelID:      req.LevelID,
		Status:       status,
		RegisteredBy: claims.UserID,
	})
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to create member")
		return
	}
	jsonData(w, http.StatusCreated, member)
}

// Get handles GET /api/members/{id}.
func (h *MembersHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid member id")
		return
	}

	member, err := store.GetMember(r.Context(), h.DB, id)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to get member")
		return
	}
	if member == nil {
		jsonError(w, http.StatusNotFound, "member not found")
		return
	}
	jsonData(w, http.StatusOK, member)
}

// Update handles PUT /api/members/{id}. The member number and registering
// user never change.
func (h *MembersHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid member id")
		return
	}

	var req memberRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Name == "" || req.LevelID == 0 {
		jsonError(w, http.StatusBadRequest, "name and level_id required")
		return
	}

	member, err := store.GetMember(r.Context(), h.DB, id)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if member == nil {
		jsonError(w, http.StatusNotFound, "member not found")
		return
	}

	level, err := store.GetMemberLevel(r.Context(), h.DB, req.LevelID)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if level == nil {
		jsonError(w, http.StatusBadRequest, "member level not found")
		return
	}

	if req.Phone != nil && *req.Phone != "" {
		existing, err := store.GetMemberByPhone(r.Context(), h.DB, *req.Phone)
		if err != nil {
			jsonError(w, http.StatusInternalServerError, "internal error")
			return
		}
		if existing != nil && existing.ID != id {
			jsonError(w, http.StatusBadRequest, "phone number already registered")
			return
		}
	}

	var birthday *time.Time
	if req.Birthday != nil && *req.Birthday != "" {
		t, err := parseDate(*req.Birthday)
		if err != nil {
			jsonError(w, http.StatusBadRequest, "invalid birthday")
			return
		}
		birthday = &t
	}

	member.Name = req.Name
	member.Phone = req.Phone
	member.Email = req.Email
	member.Gender = req.Gender
	member.Birthday = birthday
	member.Address = req.Address
	member.LevelID = req.LevelID
	if req.Status != "" {
		member.Status = req.Status
	}

	if err := store.UpdateMember(r.Context(), h.DB, member); err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to update member")
		return
	}

	updated, err := store.GetMember(r.Context(), h.DB, id)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "internal error")
		return
	}
	jsonData(w, http.StatusOK, updated)
}

// Delete handles DELETE /api/members/{id}. Members with order history are
// refused; payment history is deleted along with the member.
func (h *MembersHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid member id")
		return
	}

	member, err := store.GetMember(r.Context(), h.DB, id)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if member == nil {
		jsonError(w, http.StatusNotFound, "member not found")
		return
	}

	orders, err := store.CountMemberOrders(r.Context(), h.DB, id)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if orders > 0 {
		jsonError(w, http.StatusBadRequest, "member has orders")
		return
	}

	if err := store.DeleteMember(r.Context(), h.DB, id); err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to delete member")
		return
	}
	jsonMessage(w, http.StatusOK, "member deleted")
}
