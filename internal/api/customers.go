package api

import (
	"net/http"

	"github.com/jmoiron/sqlx"

	"github.com/erazemk/trgovina/internal/model"
	"github.com/erazemk/trgovina/internal/store"
)

// CustomersHandler handles customer CRUD endpoints.
type CustomersHandler struct {
	DB *sqlx.DB
}

type customerRequest struct {
	Name        string  `json:"name"`
	ContactName *string `json:"contact_name"`
	Phone       *string `json:"phone"`
	Email       *string `json:"email"`
	Address     *string `json:"address"`
}

// List handles GET /api/customers.
func (h *CustomersHandler) List(w http.ResponseWriter, r *http.Request) {
	page, pageSize := pageParams(r)
	customers, total, err := store.ListCustomers(r.Context(), h.DB, store.PartnerFilter{
		Search:   r.URL.Query().Get("keyword"),
		Page:     page,
		PageSize: pageSize,
	})
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to list customers")
		return
	}
	if customers == nil {
		customers = []model.Customer{}
	}
	jsonPage(w, http.StatusOK, customers, page, pageSize, total)
}

// Create handles POST /api/customers.
func (h *CustomersHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req customerRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Name == "" {
		jsonError(w, http.StatusBadRequest, "name required")
		return
	}

	customer, err := store.CreateCustomer(r.Context(), h.DB, &model.Customer{
		Name:        req.Name,
		ContactName: req.ContactName,
		Phone:       req.Phone,
		Email:       req.Email,
		Address:     req.Address,
	})
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to create customer")
		return
	}
	jsonData(w, http.StatusCreated, customer)
}

// Get handles GET /api/customers/{id}.
func (h *CustomersHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid customer id")
		return
	}

	customer, err := store.GetCustomer(r.Context(), h.DB, id)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to get customer")
		return
	}
	if customer == nil {
		jsonError(w, http.StatusNotFound, "customer not found")
		return
	}
	jsonData(w, http.StatusOK, customer)
}

// Update handles PUT /api/customers/{id}.
func (h *CustomersHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid customer id")
		return
	}

	var req customerRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Name == "" {
		jsonError(w, http.StatusBadRequest, "name required")
		return
	}

	customer, err := store.GetCustomer(r.Context(), h.DB, id)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if customer == nil {
		jsonError(w, http.StatusNotFound, "customer not found")
		return
	}

	customer.Name = req.Name
	customer.ContactName = req.ContactName
	customer.Phone = req.Phone
	customer.Email = req.Email
	customer.Address = req.Address

	if err := store.UpdateCustomer(r.Context(), h.DB, customer); err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to update customer")
		return
	}

	updated, err := store.GetCustomer(r.Context(), h.DB, id)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "internal error")
		return
	}
	jsonData(w, http.StatusOK, updated)
}

// Delete handles DELETE /api/customers/{id}. Customers with orders are
// refused.
func (h *CustomersHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid customer id")
		return
	}

	customer, err := store.GetCustomer(r.Context(), h.DB, id)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if customer == nil {
		jsonError(w, http.StatusNotFound, "customer not found")
		return
	}

	orders, err := store.CountCustomerOrders(r.Context(), h.DB, id)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if orders > 0 {
		jsonError(w, http.StatusBadRequest, "customer has orders")
		return
	}

	if err := store.DeleteCustomer(r.Context(), h.DB, id); err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to delete customer")
		return
	}
	jsonMessage(w, http.StatusOK, "customer deleted")
}
