package api

import (
	"net/http"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"github.com/erazemk/trgovina/internal/model"
	"github.com/erazemk/trgovina/internal/store"
)

// ProductsHandler handles product CRUD endpoints.
type ProductsHandler struct {
	DB *sqlx.DB
}

type productRequest struct {
	SKU          string              `json:"sku"`
	Name         string              `json:"name"`
	Description  *string             `json:"description"`
	Barcode      *string             `json:"barcode"`
	CategoryID   int64               `json:"category_id"`
	CostPrice    decimal.Decimal     `json:"cost_price"`
	SellingPrice decimal.Decimal     `json:"selling_price"`
	MemberPrice  decimal.NullDecimal `json:"member_price"`
	Stock        int                 `json:"stock"`
	MinStock     int                 `json:"min_stock"`
	MaxStock     *int                `json:"max_stock"`
	Status       string              `json:"status"`
}

func (req *productRequest) validate() string {
	switch {
	case req.SKU == "":
		return "sku required"
	case req.Name == "":
		return "name required"
	case req.CategoryID == 0:
		return "category required"
	case req.CostPrice.IsNegative() || req.SellingPrice.IsNegative():
		return "prices cannot be negative"
	case req.Status != "" && !model.ValidProductStatus(req.Status):
		return "invalid status"
	}
	return ""
}

// List handles GET /api/products.
func (h *ProductsHandler) List(w http.ResponseWriter, r *http.Request) {
	page, pageSize := pageParams(r)
	products, total, err := store.ListProducts(r.Context(), h.DB, store.ProductFilter{
		Search:     r.URL.Query().Get("keyword"),
		CategoryID: queryInt64(r, "categoryId"),
		Status:     r.URL.Query().Get("status"),
		Page:       page,
		PageSize:   pageSize,
	})
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to list products")
		return
	}
	if products == nil {
		products = []model.Product{}
	}
	jsonPage(w, http.StatusOK, products, page, pageSize, total)
}

// Create handles POST /api/products.
func (h *ProductsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req productRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if msg := req.validate(); msg != "" {
		jsonError(w, http.StatusBadRequest, msg)
		return
	}

	category, err := store.GetCategory(r.Context(), h.DB, req.CategoryID)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if category == nil {
		jsonError(w, http.StatusBadRequest, "category not found")
		return
	}

	existing, err := store.GetProductBySKU(r.Context(), h.DB, req.SKU)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if existing != nil {
		jsonError(w, http.StatusBadRequest, "sku already in use")
		return
	}

	status := req.Status
	if status == "" {
		status = model.ProductStatusActive
	}

	product, err := store.CreateProduct(r.Context(), h.DB, &model.Product{
		SKU:          req.SKU,
		Name:         req.Name,
		Description:  req.Description,
		Barcode:      req.Barcode,
		CategoryID:   req.CategoryID,
		CostPrice:    req.CostPrice,
		SellingPrice: req.SellingPrice,
		MemberPrice:  req.MemberPrice,
		Stock:        req.Stock,
		MinStock:     req.MinStock,
		MaxStock:     req.MaxStock,
		Status:       status,
	})
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to create product")
		return
	}
	jsonData(w, http.StatusCreated, product)
}

// Get handles GET /api/products/{id}.
func (h *ProductsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid product id")
		return
	}

	product, err := store.GetProduct(r.Context(), h.DB, id)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to get product")
		return
	}
	if product == nil {
		jsonError(w, http.StatusNotFound, "product not found")
		return
	}
	jsonData(w, http.StatusOK, product)
}

// Update handles PUT /api/products/{id}.
func (h *ProductsHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid product id")
		return
	}

	var req productRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if msg := req.validate(); msg != "" {
		jsonError(w, http.StatusBadRequest, msg)
		return
	}

	product, err := store.GetProduct(r.Context(), h.DB, id)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if product == nil {
		jsonError(w, http.StatusNotFound, "product not found")
		return
	}

	if req.SKU != product.SKU {
		existing, err := store.GetProductBySKU(r.Context(), h.DB, req.SKU)
		if err != nil {
			jsonError(w, http.StatusInternalServerError, "internal error")
			return
		}
		if existing != nil {
			jsonError(w, http.StatusBadRequest, "sku already in use")
			return
		}
	}

	category, err := store.GetCategory(r.Context(), h.DB, req.CategoryID)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if category == nil {
		jsonError(w, http.StatusBadRequest, "category not found")
		return
	}

	product.SKU = req.SKU
	product.Name = req.Name
	product.Description = req.Description
	product.Barcode = req.Barcode
	product.CategoryID = req.CategoryID
	product.CostPrice = req.CostPrice
	product.SellingPrice = req.SellingPrice
	product.MemberPrice = req.MemberPrice
	product.MinStock = req.MinStock
	product.MaxStock = req.MaxStock
	if req.Status != "" {
		product.Status = req.Status
	}

	if err := store.UpdateProduct(r.Context(), h.DB, product); err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to update product")
		return
	}

	updated, err := store.GetProduct(r.Context(), h.DB, id)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "internal error")
		return
	}
	jsonData(w, http.StatusOK, updated)
}

// Delete handles DELETE /api/products/{id}. Products referenced by orders
// are refused.
func (h *ProductsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid product id")
		return
	}

	product, err := store.GetProduct(r.Context(), h.DB, id)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if product == nil {
		jsonError(w, http.StatusNotFound, "product not found")
		return
	}

	refs, err := store.CountProductOrderItems(r.Context(), h.DB, id)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if refs > 0 {
		jsonError(w, http.StatusBadRequest, "product is referenced by orders")
		return
	}

	if err := store.DeleteProduct(r.Context(), h.DB, id); err != nil {
		jsonError(w, http.StatusBadRequest, "product has stock movement history")
		return
	}
	jsonMessage(w, http.StatusOK, "product deleted")
}
