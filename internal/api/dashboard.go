package api

import (
	"net/http"

	"github.com/jmoiron/sqlx"

	"github.com/erazemk/trgovina/internal/store"
)

// DashboardHandler handles the dashboard and analytics endpoints.
type DashboardHandler struct {
	DB *sqlx.DB
}

// Stats handles GET /api/dashboard/stats.
func (h *DashboardHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := store.GetDashboardStats(r.Context(), h.DB)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to build dashboard stats")
		return
	}
	jsonData(w, http.StatusOK, stats)
}

// Sales handles GET /api/analytics/sales.
func (h *DashboardHandler) Sales(w http.ResponseWriter, r *http.Request) {
	analytics, err := store.GetSalesAnalytics(r.Context(), h.DB,
		r.URL.Query().Get("dateFrom"), r.URL.Query().Get("dateTo"))
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to build sales analytics")
		return
	}
	jsonData(w, http.StatusOK, analytics)
}

// Members handles GET /api/analytics/members.
func (h *DashboardHandler) Members(w http.ResponseWriter, r *http.Request) {
	analytics, err := store.GetMemberAnalytics(r.Context(), h.DB,
		r.URL.Query().Get("dateFrom"), r.URL.Query().Get("dateTo"))
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to build member analytics")
		return
	}
	jsonData(w, http.StatusOK, analytics)
}

// Inventory handles GET /api/analytics/inventory.
func (h *DashboardHandler) Inventory(w http.ResponseWriter, r *http.Request) {
	analytics, err := store.GetInventoryAnalytics(r.Context(), h.DB)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to build inventory analytics")
		return
	}
	jsonData(w, http.StatusOK, analytics)
}
