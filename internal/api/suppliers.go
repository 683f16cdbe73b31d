package api

import (
	"net/http"

	"github.com/jmoiron/sqlx"

	"github.com/erazemk/trgovina/internal/model"
	"github.com/erazemk/trgovina/internal/store"
)

// SuppliersHandler handles supplier CRUD endpoints.
type SuppliersHandler struct {
	DB *sqlx.DB
}

type supplierRequest struct {
	Name        string  `json:"name"`
	ContactName *string `json:"contact_name"`
	Phone       *string `json:"phone"`
	Email       *string `json:"email"`
	Address     *string `json:"address"`
}

// List handles GET /api/suppliers.
func (h *SuppliersHandler) List(w http.ResponseWriter, r *http.Request) {
	page, pageSize := pageParams(r)
	suppliers, total, err := store.ListSuppliers(r.Context(), h.DB, store.PartnerFilter{
		Search:   r.URL.Query().Get("keyword"),
		Page:     page,
		PageSize: pageSize,
	})
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to list suppliers")
		return
	}
	if suppliers == nil {
		suppliers = []model.Supplier{}
	}
	jsonPage(w, http.StatusOK, suppliers, page, pageSize, total)
}

// Create handles POST /api/suppliers.
func (h *SuppliersHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req supplierRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Name == "" {
		jsonError(w, http.StatusBadRequest, "name required")
		return
	}

	supplier, err := store.CreateSupplier(r.Context(), h.DB, &model.Supplier{
		Name:        req.Name,
		ContactName: req.ContactName,
		Phone:       req.Phone,
		Email:       req.Email,
		Address:     req.Address,
	})
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to create supplier")
		return
	}
	jsonData(w, http.StatusCreated, supplier)
}

// Get handles GET /api/suppliers/{id}.
func (h *SuppliersHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid supplier id")
		return
	}

	supplier, err := store.GetSupplier(r.Context(), h.DB, id)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to get supplier")
		return
	}
	if supplier == nil {
		jsonError(w, http.StatusNotFound, "supplier not found")
		return
	}
	jsonData(w, http.StatusOK, supplier)
}

// Update handles PUT /api/suppliers/{id}.
func (h *SuppliersHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid supplier id")
		return
	}

	var req supplierRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Name == "" {
		jsonError(w, http.StatusBadRequest, "name required")
		return
	}

	supplier, err := store.GetSupplier(r.Context(), h.DB, id)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if supplier == nil {
		jsonError(w, http.StatusNotFound, "supplier not found")
		return
	}

	supplier.Name = req.Name
	supplier.ContactName = req.ContactName
	supplier.Phone = req.Phone
	supplier.Email = req.Email
	supplier.Address = req.Address

	if err := store.UpdateSupplier(r.Context(), h.DB, supplier); err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to update supplier")
		return
	}

	updated, err := store.GetSupplier(r.Context(), h.DB, id)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "internal error")
		return
	}
	jsonData(w, http.StatusOK, updated)
}

// Delete handles DELETE /api/suppliers/{id}. Suppliers with orders are
// refused.
func (h *SuppliersHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid supplier id")
		return
	}

	supplier, err := store.GetSupplier(r.Context(), h.DB, id)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if supplier == nil {
		jsonError(w, http.StatusNotFound, "supplier not found")
		return
	}

	orders, err := store.CountSupplierOrders(r.Context(), h.DB, id)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if orders > 0 {
		jsonError(w, http.StatusBadRequest, "supplier has orders")
		return
	}

	if err := store.DeleteSupplier(r.Context(), h.DB, id); err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to delete supplier")
		return
	}
	jsonMessage(w, http.StatusOK, "supplier deleted")
}
