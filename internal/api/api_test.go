package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/erazemk/trgovina/internal/auth"
	"github.com/erazemk/trgovina/internal/db"
	"github.com/erazemk/trgovina/internal/model"
	"github.com/erazemk/trgovina/internal/store"
)

const testJWTSecret = "test-secret"

type testEnvelope struct {
	Success    bool            `json:"success"`
	Data       json.RawMessage `json:"data"`
	Message    string          `json:"message"`
	Pagination *pagination     `json:"pagination"`
}

func setupTestServer(t *testing.T) (*httptest.Server, string) {
	t.Helper()
	database := db.NewTestDB(t)
	server := httptest.NewServer(NewRouter(database, testJWTSecret))
	t.Cleanup(server.Close)

	ctx := context.Background()
	hash, err := bcrypt.GenerateFromPassword([]byte("password"), bcrypt.MinCost)
	require.NoError(t, err)
	_, err = store.CreateUser(ctx, database, "admin@example.com", string(hash), "Admin", model.RoleAdmin)
	require.NoError(t, err)

	body, _ := json.Marshal(map[string]string{"email": "admin@example.com", "password": "password"})
	resp, err := http.Post(server.URL+"/api/auth/login", "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var env testEnvelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	var login struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &login))
	require.NotEmpty(t, login.Token)

	return server, login.Token
}

func authRequest(t *testing.T, method, url, token string, body any) *http.Request {
	t.Helper()
	var data []byte
	if body != nil {
		var err error
		data, err = json.Marshal(body)
		require.NoError(t, err)
	}
	req, err := http.NewRequest(method, url, bytes.NewReader(data))
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")
	return req
}

// doJSON runs a request and decodes the response envelope.
func doJSON(t *testing.T, req *http.Request) (int, testEnvelope) {
	t.Helper()
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var env testEnvelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	return resp.StatusCode, env
}

func TestLoginEndpoint(t *testing.T) {
	server, _ := setupTestServer(t)

	body, _ := json.Marshal(map[string]string{"email": "admin@example.com", "password": "wrong"})
	resp, err := http.Post(server.URL+"/api/auth/login", "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestUnauthenticatedAccess(t *testing.T) {
	database := db.NewTestDB(t)
	server := httptest.NewServer(NewRouter(database, testJWTSecret))
	t.Cleanup(server.Close)

	resp, err := http.Get(server.URL + "/api/products")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestRoleBasedAccess(t *testing.T) {
	server, _ := setupTestServer(t)

	userToken, err := auth.GenerateToken(testJWTSecret, 99, "clerk@example.com", "Clerk", model.RoleUser)
	require.NoError(t, err)

	// Writes need manager or above.
	req := authRequest(t, "POST", server.URL+"/api/products", userToken, map[string]any{
		"sku": "X", "name": "X", "category_id": 1,
	})
	status, _ := doJSON(t, req)
	assert.Equal(t, http.StatusForbidden, status)

	// User management needs admin.
	req = authRequest(t, "GET", server.URL+"/api/users", userToken, nil)
	status, _ = doJSON(t, req)
	assert.Equal(t, http.StatusForbidden, status)
}

// createProduct creates a category and a product over the API, returning the
// product ID.
func createProduct(t *testing.T, server *httptest.Server, token, sku string, stock int) int64 {
	t.Helper()

	req := authRequest(t, "POST", server.URL+"/api/categories", token, map[string]any{
		"name": "Category " + sku,
	})
	status, env := doJSON(t, req)
	require.Equal(t, http.StatusCreated, status)
	var category model.Category
	require.NoError(t, json.Unmarshal(env.Data, &category))

	req = authRequest(t, "POST", server.URL+"/api/products", token, map[string]any{
		"sku":           sku,
		"name":          "Product " + sku,
		"category_id":   category.ID,
		"cost_price":    "5.00",
		"selling_price": "10.00",
		"stock":         stock,
		"min_stock":     2,
	})
	status, env = doJSON(t, req)
	require.Equal(t, http.StatusCreated, status)
	var product model.Product
	require.NoError(t, json.Unmarshal(env.Data, &product))
	require.Equal(t, stock, product.Stock)
	return product.ID
}

func TestPurchaseOrderFlow(t *testing.T) {
	server, token := setupTestServer(t)
	productID := createProduct(t, server, token, "SKU-001", 0)

	req := authRequest(t, "POST", server.URL+"/api/suppliers", token, map[string]any{
		"name": "Acme Wholesale",
	})
	status, env := doJSON(t, req)
	require.Equal(t, http.StatusCreated, status)
	var supplier model.Supplier
	require.NoError(t, json.Unmarshal(env.Data, &supplier))

	req = authRequest(t, "POST", server.URL+"/api/orders", token, map[string]any{
		"type":        model.OrderTypePurchase,
		"status":      model.OrderStatusReceived,
		"supplier_id": supplier.ID,
		"items": []map[string]any{
			{"product_id": productID, "quantity": 10, "unit_price": "5.00"},
		},
	})
	status, env = doJSON(t, req)
	require.Equal(t, http.StatusCreated, status)

	var order model.Order
	require.NoError(t, json.Unmarshal(env.Data, &order))
	assert.Regexp(t, `^PO\d+$`, order.OrderNo)
	assert.Equal(t, "50", order.TotalAmount.String())
	require.Len(t, order.Items, 1)

	// Fulfilled purchase raises stock.
	req = authRequest(t, "GET", fmt.Sprintf("%s/api/products/%d", server.URL, productID), token, nil)
	status, env = doJSON(t, req)
	require.Equal(t, http.StatusOK, status)
	var product model.Product
	require.NoError(t, json.Unmarshal(env.Data, &product))
	assert.Equal(t, 10, product.Stock)

	// Fulfilled orders cannot be deleted.
	req = authRequest(t, "DELETE", fmt.Sprintf("%s/api/orders?id=%d", server.URL, order.ID), token, nil)
	status, env = doJSON(t, req)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.False(t, env.Success)
}

func TestSaleOrderInsufficientStock(t *testing.T) {
	server, token := setupTestServer(t)
	productID := createProduct(t, server, token, "SKU-002", 3)

	req := authRequest(t, "POST", server.URL+"/api/orders", token, map[string]any{
		"type":   model.OrderTypeSale,
		"status": model.OrderStatusCompleted,
		"items": []map[string]any{
			{"product_id": productID, "quantity": 5, "unit_price": "10.00"},
		},
	})
	status, env := doJSON(t, req)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.False(t, env.Success)
	assert.Contains(t, env.Message, "库存不足")
	assert.Contains(t, env.Message, "当前库存: 3")

	// The failed sale left no orders behind.
	req = authRequest(t, "GET", server.URL+"/api/orders", token, nil)
	status, env = doJSON(t, req)
	require.Equal(t, http.StatusOK, status)
	require.NotNil(t, env.Pagination)
	assert.Equal(t, 0, env.Pagination.Total)
}

func TestOrderUpdateByBodyAndDeleteByQuery(t *testing.T) {
	server, token := setupTestServer(t)
	productID := createProduct(t, server, token, "SKU-003", 20)

	req := authRequest(t, "POST", server.URL+"/api/orders", token, map[string]any{
		"type": model.OrderTypeSale,
		"items": []map[string]any{
			{"product_id": productID, "quantity": 4, "unit_price": "10.00"},
		},
	})
	status, env := doJSON(t, req)
	require.Equal(t, http.StatusCreated, status)
	var order model.Order
	require.NoError(t, json.Unmarshal(env.Data, &order))

	// Completing the sale over PUT moves stock.
	req = authRequest(t, "PUT", server.URL+"/api/orders", token, map[string]any{
		"id":     order.ID,
		"status": model.OrderStatusCompleted,
	})
	status, env = doJSON(t, req)
	require.Equal(t, http.StatusOK, status)
	var updated model.Order
	require.NoError(t, json.Unmarshal(env.Data, &updated))
	assert.Equal(t, model.OrderStatusCompleted, updated.Status)

	req = authRequest(t, "GET", fmt.Sprintf("%s/api/products/%d", server.URL, productID), token, nil)
	_, env = doJSON(t, req)
	var product model.Product
	require.NoError(t, json.Unmarshal(env.Data, &product))
	assert.Equal(t, 16, product.Stock)

	// Cancelling restores it.
	req = authRequest(t, "PUT", server.URL+"/api/orders", token, map[string]any{
		"id":     order.ID,
		"status": model.OrderStatusCancelled,
	})
	status, _ = doJSON(t, req)
	require.Equal(t, http.StatusOK, status)

	req = authRequest(t, "DELETE", fmt.Sprintf("%s/api/orders?id=%d", server.URL, order.ID), token, nil)
	status, _ = doJSON(t, req)
	assert.Equal(t, http.StatusOK, status)

	req = authRequest(t, "DELETE", fmt.Sprintf("%s/api/orders?id=%d", server.URL, order.ID), token, nil)
	status, _ = doJSON(t, req)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestMemberRegistrationAttribution(t *testing.T) {
	server, token := setupTestServer(t)

	req := authRequest(t, "POST", server.URL+"/api/member-levels", token, map[string]any{
		"name":      "Silver",
		"min_spent": "0",
		"discount":  "0.05",
	})
	status, env := doJSON(t, req)
	require.Equal(t, http.StatusCreated, status)
	var level model.MemberLevel
	require.NoError(t, json.Unmarshal(env.Data, &level))

	req = authRequest(t, "POST", server.URL+"/api/members", token, map[string]any{
		"name":     "Alice",
		"phone":    "555-0100",
		"level_id": level.ID,
	})
	status, env = doJSON(t, req)
	require.Equal(t, http.StatusCreated, status)
	var member model.Member
	require.NoError(t, json.Unmarshal(env.Data, &member))
	assert.Regexp(t, `^M\d{6}$`, member.MemberNo)
	assert.Equal(t, int64(1), member.RegisteredBy)

	// Duplicate phone is refused.
	req = authRequest(t, "POST", server.URL+"/api/members", token, map[string]any{
		"name":     "Bob",
		"phone":    "555-0100",
		"level_id": level.ID,
	})
	status, _ = doJSON(t, req)
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestInventoryAdjustEndpoint(t *testing.T) {
	server, token := setupTestServer(t)
	productID := createProduct(t, server, token, "SKU-004", 8)

	req := authRequest(t, "POST", server.URL+"/api/inventory", token, map[string]any{
		"product_id":     productID,
		"adjustmentType": "set",
		"quantity":       15,
	})
	status, env := doJSON(t, req)
	require.Equal(t, http.StatusOK, status)
	var product model.Product
	require.NoError(t, json.Unmarshal(env.Data, &product))
	assert.Equal(t, 15, product.Stock)

	// Subtracting below zero is refused.
	req = authRequest(t, "POST", server.URL+"/api/inventory", token, map[string]any{
		"product_id":     productID,
		"adjustmentType": "subtract",
		"quantity":       100,
	})
	status, _ = doJSON(t, req)
	assert.Equal(t, http.StatusBadRequest, status)

	// The inventory view reports the derived status.
	req = authRequest(t, "GET", server.URL+"/api/inventory?status=normal", token, nil)
	status, env = doJSON(t, req)
	require.Equal(t, http.StatusOK, status)
	var items []model.InventoryItem
	require.NoError(t, json.Unmarshal(env.Data, &items))
	require.Len(t, items, 1)
	assert.Equal(t, "normal", items[0].StockStatusValue)
	assert.Equal(t, "75", items[0].TotalValue.String())
}

func TestStockMovementAdjustCannotGoNegative(t *testing.T) {
	server, token := setupTestServer(t)
	productID := createProduct(t, server, token, "SKU-005", 2)

	req := authRequest(t, "POST", server.URL+"/api/stock-movements", token, map[string]any{
		"product_id": productID,
		"type":       model.MovementAdjust,
		"quantity":   -5,
	})
	status, env := doJSON(t, req)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, env.Message, "negative")

	req = authRequest(t, "GET", fmt.Sprintf("%s/api/products/%d", server.URL, productID), token, nil)
	_, env = doJSON(t, req)
	var product model.Product
	require.NoError(t, json.Unmarshal(env.Data, &product))
	assert.Equal(t, 2, product.Stock)
}

func TestLogoutRevokesToken(t *testing.T) {
	server, token := setupTestServer(t)

	req := authRequest(t, "POST", server.URL+"/api/auth/logout", token, nil)
	status, _ := doJSON(t, req)
	require.Equal(t, http.StatusOK, status)

	req = authRequest(t, "GET", server.URL+"/api/auth/profile", token, nil)
	status, _ = doJSON(t, req)
	assert.Equal(t, http.StatusUnauthorized, status)
}
