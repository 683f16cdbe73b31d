package web

import (
	"log/slog"
	"net/http"

	"github.com/erazemk/trgovina/internal/model"
	"github.com/erazemk/trgovina/internal/store"
)

// Dashboard handles GET /.
func (s *Server) Dashboard(w http.ResponseWriter, r *http.Request) {
	claims := GetWebClaims(r.Context())

	stats, err := store.GetDashboardStats(r.Context(), s.DB)
	if err != nil {
		slog.Error("failed to build dashboard stats", "error", err)
		stats = &store.DashboardStats{}
	}

	orders, _, err := store.ListOrders(r.Context(), s.DB, store.OrderFilter{PageSize: 10})
	if err != nil {
		slog.Error("failed to list orders for dashboard", "error", err)
	}

	s.Templates.Render(w, "dashboard.html", &struct {
		PageData
		Stats        *store.DashboardStats
		RecentOrders []model.Order
	}{
		PageData:     PageData{Title: "Dashboard", User: claims},
		Stats:        stats,
		RecentOrders: orders,
	})
}
