package api

import (
	"net/http"

	"github.com/jmoiron/sqlx"

	"github.com/erazemk/trgovina/internal/model"
)

// NewRouter creates the API router with all endpoints registered.
func NewRouter(db *sqlx.DB, jwtSecret string) http.Handler {
	mux := http.NewServeMux()

	authHandler := &AuthHandler{DB: db, JWTSecret: jwtSecret}
	usersHandler := &UsersHandler{DB: db}
	categoriesHandler := &CategoriesHandler{DB: db}
	productsHandler := &ProductsHandler{DB: db}
	suppliersHandler := &SuppliersHandler{DB: db}
	customersHandler := &CustomersHandler{DB: db}
	levelsHandler := &LevelsHandler{DB: db}
	membersHandler := &MembersHandler{DB: db}
	paymentsHandler := &PaymentsHandler{DB: db}
	ordersHandler := &OrdersHandler{DB: db}
	inventoryHandler := &InventoryHandler{DB: db}
	movementsHandler := &MovementsHandler{DB: db}
	financeHandler := &FinanceHandler{DB: db}
	dashboardHandler := &DashboardHandler{DB: db}

	authMW := AuthMiddleware(jwtSecret, db)
	requireAdmin := RequireRole(model.RoleAdmin)
	requireManager := RequireRole(model.RoleManager)

	// Public: login.
	mux.HandleFunc("POST /api/auth/login", authHandler.Login)

	// Authenticated routes.
	mux.Handle("GET /api/auth/profile", authMW(http.HandlerFunc(authHandler.Profile)))
	mux.Handle("PUT /api/auth/password", authMW(http.HandlerFunc(authHandler.ChangePassword)))
	mux.Handle("POST /api/auth/logout", authMW(http.HandlerFunc(authHandler.Logout)))

	// Users (admin only).
	mux.Handle("GET /api/users", authMW(requireAdmin(http.HandlerFunc(usersHandler.List))))
	mux.Handle("POST /api/users", authMW(requireAdmin(http.HandlerFunc(usersHandler.Create))))
	mux.Handle("GET /api/users/{id}", authMW(requireAdmin(http.HandlerFunc(usersHandler.Get))))
	mux.Handle("PUT /api/users/{id}", authMW(requireAdmin(http.HandlerFunc(usersHandler.Update))))
	mux.Handle("PUT /api/users/{id}/password", authMW(requireAdmin(http.HandlerFunc(usersHandler.ResetPassword))))
	mux.Handle("DELETE /api/users/{id}", authMW(requireAdmin(http.HandlerFunc(usersHandler.Delete))))

	// Categories: read (all roles), write (manager+).
	mux.Handle("GET /api/categories", authMW(http.HandlerFunc(categoriesHandler.List)))
	mux.Handle("POST /api/categories", authMW(requireManager(http.HandlerFunc(categoriesHandler.Create))))
	mux.Handle("GET /api/categories/{id}", authMW(http.HandlerFunc(categoriesHandler.Get)))
	mux.Handle("PUT /api/categories/{id}", authMW(requireManager(http.HandlerFunc(categoriesHandler.Update))))
	mux.Handle("DELETE /api/categories/{id}", authMW(requireManager(http.HandlerFunc(categoriesHandler.Delete))))

	// Products: read (all roles), write (manager+).
	mux.Handle("GET /api/products", authMW(http.HandlerFunc(productsHandler.List)))
	mux.Handle("POST /api/products", authMW(requireManager(http.HandlerFunc(productsHandler.Create))))
	mux.Handle("GET /api/products/{id}", authMW(http.HandlerFunc(productsHandler.Get)))
	mux.Handle("PUT /api/products/{id}", authMW(requireManager(http.HandlerFunc(productsHandler.Update))))
	mux.Handle("DELETE /api/products/{id}", authMW(requireManager(http.HandlerFunc(productsHandler.Delete))))

	// Suppliers: read (all roles), write (manager+).
	mux.Handle("GET /api/suppliers", authMW(http.HandlerFunc(suppliersHandler.List)))
	mux.Handle("POST /api/suppliers", authMW(requireManager(http.HandlerFunc(suppliersHandler.Create))))
	mux.Handle("GET /api/suppliers/{id}", authMW(http.HandlerFunc(suppliersHandler.Get)))
	mux.Handle("PUT /api/suppliers/{id}", authMW(requireManager(http.HandlerFunc(suppliersHandler.Update))))
	mux.Handle("DELETE /api/suppliers/{id}", authMW(requireManager(http.HandlerFunc(suppliersHandler.Delete))))

	// Customers: read (all roles), write (manager+).
	mux.Handle("GET /api/customers", authMW(http.HandlerFunc(customersHandler.List)))
	mux.Handle("POST /api/customers", authMW(requireManager(http.HandlerFunc(customersHandler.Create))))
	mux.Handle("GET /api/customers/{id}", authMW(http.HandlerFunc(customersHandler.Get)))
	mux.Handle("PUT /api/customers/{id}", authMW(requireManager(http.HandlerFunc(customersHandler.Update))))
	mux.Handle("DELETE /api/customers/{id}", authMW(requireManager(http.HandlerFunc(customersHandler.Delete))))

	// Member levels: read (all roles), write (manager+).
	mux.Handle("GET /api/member-levels", authMW(http.HandlerFunc(levelsHandler.List)))
	mux.Handle("POST /api/member-levels", authMW(requireManager(http.HandlerFunc(levelsHandler.Create))))
	mux.Handle("GET /api/member-levels/{id}", authMW(http.HandlerFunc(levelsHandler.Get)))
	mux.Handle("PUT /api/member-levels/{id}", authMW(requireManager(http.HandlerFunc(levelsHandler.Update))))
	mux.Handle("DELETE /api/member-levels/{id}", authMW(requireManager(http.HandlerFunc(levelsHandler.Delete))))

	// Members: registration and updates by any role, deletion manager+.
	mux.Handle("GET /api/members", authMW(http.HandlerFunc(membersHandler.List)))
	mux.Handle("POST /api/members", authMW(http.HandlerFunc(membersHandler.Create)))
	mux.Handle("GET /api/members/{id}", authMW(http.HandlerFunc(membersHandler.Get)))
	mux.Handle("PUT /api/members/{id}", authMW(http.HandlerFunc(membersHandler.Update)))
	mux.Handle("DELETE /api/members/{id}", authMW(requireManager(http.HandlerFunc(membersHandler.Delete))))

	// Membership payments (all roles).
	mux.Handle("GET /api/membership-payments", authMW(http.HandlerFunc(paymentsHandler.List)))
	mux.Handle("POST /api/membership-payments", authMW(http.HandlerFunc(paymentsHandler.Create)))
	mux.Handle("GET /api/membership-payments/{id}", authMW(http.HandlerFunc(paymentsHandler.Get)))

	// Orders: creation and updates by any role, deletion manager+. The
	// update target rides in the body and the delete target in the query.
	mux.Handle("GET /api/orders", authMW(http.HandlerFunc(ordersHandler.List)))
	mux.Handle("POST /api/orders", authMW(http.HandlerFunc(ordersHandler.Create)))
	mux.Handle("GET /api/orders/{id}", authMW(http.HandlerFunc(ordersHandler.Get)))
	mux.Handle("PUT /api/orders", authMW(http.HandlerFunc(ordersHandler.Update)))
	mux.Handle("DELETE /api/orders", authMW(requireManager(http.HandlerFunc(ordersHandler.Delete))))

	// Inventory: read (all), adjust (manager+).
	mux.Handle("GET /api/inventory", authMW(http.HandlerFunc(inventoryHandler.List)))
	mux.Handle("POST /api/inventory", authMW(requireManager(http.HandlerFunc(inventoryHandler.Adjust))))

	// Stock movements: read (all), manual entries (manager+).
	mux.Handle("GET /api/stock-movements", authMW(http.HandlerFunc(movementsHandler.List)))
	mux.Handle("POST /api/stock-movements", authMW(requireManager(http.HandlerFunc(movementsHandler.Create))))

	// Finance: read (all roles), write (manager+).
	mux.Handle("GET /api/finance-records", authMW(http.HandlerFunc(financeHandler.List)))
	mux.Handle("POST /api/finance-records", authMW(requireManager(http.HandlerFunc(financeHandler.Create))))
	mux.Handle("GET /api/finance-records/{id}", authMW(http.HandlerFunc(financeHandler.Get)))
	mux.Handle("PUT /api/finance-records/{id}", authMW(requireManager(http.HandlerFunc(financeHandler.Update))))
	mux.Handle("DELETE /api/finance-records/{id}", authMW(requireManager(http.HandlerFunc(financeHandler.Delete))))
	mux.Handle("GET /api/finance-reports", authMW(http.HandlerFunc(financeHandler.Report)))

	// Dashboard and analytics.
	mux.Handle("GET /api/dashboard/stats", authMW(http.HandlerFunc(dashboardHandler.Stats)))
	mux.Handle("GET /api/analytics/sales", authMW(http.HandlerFunc(dashboardHandler.Sales)))
	mux.Handle("GET /api/analytics/members", authMW(http.HandlerFunc(dashboardHandler.Members)))
	mux.Handle("GET /api/analytics/inventory", authMW(http.HandlerFunc(dashboardHandler.Inventory)))

	return mux
}
