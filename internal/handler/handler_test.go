package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/Pahari47/parkson-assignment/internal/config"
	"github.com/Pahari47/parkson-assignment/internal/infra"
	"github.com/Pahari47/parkson-assignment/internal/middleware"
	"github.com/Pahari47/parkson-assignment/internal/repository"
	"github.com/Pahari47/parkson-assignment/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func init() { gin.SetMode(gin.TestMode) }

// ── Helpers ───────────────────────────────────────────────────────────────────

type testServer struct {
	db     *gorm.DB
	engine *gin.Engine
	role   string
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	db, err := infra.NewDatabase("sqlite", "file::memory:?_pragma=foreign_keys(1)")
	require.NoError(t, err)

	cfg := &config.Config{JWTSecret: "test_jwt_secret_32_chars_minimum!", JWTExpirationHours: 1, JWTRefreshHours: 2}
	settings := service.LedgerSettings{Threshold: decimal.NewFromInt(10)}

	productRepo := repository.NewProductRepository(db)
	transactionRepo := repository.NewTransactionRepository(db)
	detailRepo := repository.NewStockDetailRepository(db)
	transactionSvc := service.NewTransactionService(transactionRepo, detailRepo, productRepo, settings)

	products := NewProductsHandler(service.NewProductService(productRepo, detailRepo, settings))
	transactions := NewTransactionsHandler(transactionSvc)
	details := NewStockDetailsHandler(transactionSvc)
	inventory := NewInventoryHandler(service.NewInventoryService(productRepo, transactionRepo, detailRepo, settings))
	auth := NewAuthHandler(service.NewAuthService(repository.NewUserRepository(db), cfg))

	ts := &testServer{db: db, role: service.RoleStaff}
	r := gin.New()
	r.Use(middleware.ErrorHandler())

	r.POST("/api/auth/register", auth.Register)
	r.POST("/api/auth/login", auth.Login)

	api := r.Group("/api", func(c *gin.Context) {
		c.Set(middleware.ClaimsKey, &middleware.JWTClaims{UserID: 1, Username: "tester", Role: ts.role, Type: "access"})
		c.Next()
	})
	api.POST("/products", products.Create)
	api.GET("/products", products.List)
	api.GET("/products/:id", products.GetByID)
	api.DELETE("/products/:id", products.Delete)
	api.PUT("/products/:id/threshold", products.SetThreshold)
	api.GET("/products/:id/stock-movements", products.StockMovements)
	api.POST("/transactions", transactions.Create)
	api.GET("/transactions", transactions.List)
	api.DELETE("/transactions/:id", transactions.Delete)
	api.GET("/stock-details", details.List)
	api.GET("/inventory-summary", inventory.Summary)
	api.GET("/dashboard-stats", inventory.Dashboard)

	ts.engine = r
	return ts
}

func (ts *testServer) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf *bytes.Buffer
	switch b := body.(type) {
	case nil:
		buf = &bytes.Buffer{}
	case string:
		buf = bytes.NewBufferString(b)
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		buf = bytes.NewBuffer(raw)
	}
	req := httptest.NewRequest(method, path, buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	ts.engine.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func (ts *testServer) createProduct(t *testing.T, code string) int64 {
	t.Helper()
	w := ts.do(t, http.MethodPost, "/api/products", gin.H{"product_code": code, "product_name": "Item " + code, "unit_price": "2.50"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return int64(decodeBody(t, w)["product_id"].(float64))
}

// ── Tests ─────────────────────────────────────────────────────────────────────

func TestProducts_StatusMapping(t *testing.T) {
	ts := newTestServer(t)
	id := ts.createProduct(t, "P-1")

	w := ts.do(t, http.MethodPost, "/api/products", `{"product_code": "P-2",`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = ts.do(t, http.MethodPost, "/api/products", gin.H{"product_code": "P-2", "unit_price": "-1"})
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	fields := decodeBody(t, w)["fields"].(map[string]any)
	assert.Contains(t, fields, "product_name")
	assert.Contains(t, fields, "unit_price")

	w = ts.do(t, http.MethodPost, "/api/products", gin.H{"product_code": "P-1", "product_name": "Dup"})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = ts.do(t, http.MethodGet, "/api/products/999", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.NotEmpty(t, decodeBody(t, w)["detail"])

	w = ts.do(t, http.MethodGet, "/api/products/abc", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = ts.do(t, http.MethodGet, "/api/products?limit=500", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	w = ts.do(t, http.MethodGet, "/api/products/"+itoa(id), nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, "P-1", body["product_code"])
	assert.Equal(t, "0", body["current_stock"])
}

func TestProducts_DeleteSoftAndHard(t *testing.T) {
	ts := newTestServer(t)
	id := ts.createProduct(t, "P-1")

	w := ts.do(t, http.MethodDelete, "/api/products/"+itoa(id)+"?hard=true", nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = ts.do(t, http.MethodDelete, "/api/products/"+itoa(id), nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	w = ts.do(t, http.MethodGet, "/api/products/"+itoa(id), nil)
	assert.Equal(t, false, decodeBody(t, w)["is_active"])

	ts.role = service.RoleAdmin
	w = ts.do(t, http.MethodDelete, "/api/products/"+itoa(id)+"?hard=true", nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	w = ts.do(t, http.MethodGet, "/api/products/"+itoa(id), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestTransactions_CreateAndDerive(t *testing.T) {
	ts := newTestServer(t)
	id := ts.createProduct(t, "P-1")

	w := ts.do(t, http.MethodPost, "/api/transactions", gin.H{"transaction_type": "IN", "details": []any{}})
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, decodeBody(t, w)["fields"], "details")

	w = ts.do(t, http.MethodPost, "/api/transactions", gin.H{
		"transaction_type": "IN",
		"details":          []gin.H{{"product_id": id, "quantity": "0", "unit_price": "1"}},
	})
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, decodeBody(t, w)["fields"], "details[0].quantity")

	w = ts.do(t, http.MethodPost, "/api/transactions", gin.H{
		"transaction_type": "IN",
		"details":          []gin.H{{"product_id": 999, "quantity": "1", "unit_price": "1"}},
	})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = ts.do(t, http.MethodPost, "/api/transactions", gin.H{
		"transaction_code": "IN-1",
		"transaction_type": "IN",
		"details":          []gin.H{{"product_id": id, "quantity": "20", "unit_price": "2.50"}},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = ts.do(t, http.MethodPost, "/api/transactions", gin.H{
		"transaction_code": "OUT-1",
		"transaction_type": "OUT",
		"details":          []gin.H{{"product_id": id, "quantity": "5", "unit_price": "2.50"}},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	out := decodeBody(t, w)
	line := out["details"].([]any)[0].(map[string]any)
	assert.Equal(t, "-5", line["quantity"])
	assert.Equal(t, "OUT", line["movement_type"])

	w = ts.do(t, http.MethodGet, "/api/stock-details?movement_type=OUT", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 1, decodeBody(t, w)["total"])

	w = ts.do(t, http.MethodGet, "/api/inventory-summary", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var rows []map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &rows))
	require.Len(t, rows, 1)
	assert.Equal(t, "15", rows[0]["current_stock"])
	assert.Equal(t, "37.5", rows[0]["total_value"])

	w = ts.do(t, http.MethodGet, "/api/inventory-summary?sort_by=price", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	w = ts.do(t, http.MethodDelete, "/api/transactions/"+itoa(int64(out["transaction_id"].(float64))), nil)
	assert.Equal(t, http.StatusConflict, w.Code, "restrict policy keeps lines")
}

func TestAuth_StatusMapping(t *testing.T) {
	ts := newTestServer(t)

	w := ts.do(t, http.MethodPost, "/api/auth/register", gin.H{"username": "ops", "email": "not-an-email", "password": "password1"})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	w = ts.do(t, http.MethodPost, "/api/auth/register", gin.H{"username": "ops", "email": "ops@example.com", "password": "password1"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = ts.do(t, http.MethodPost, "/api/auth/register", gin.H{"username": "ops", "email": "ops2@example.com", "password": "password1"})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = ts.do(t, http.MethodPost, "/api/auth/login", gin.H{"username": "ops", "password": "wrong-one"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = ts.do(t, http.MethodPost, "/api/auth/login", gin.H{"username": "ops@example.com", "password": "password1"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, decodeBody(t, w)["access_token"])
}

func TestInternalErrorIsGeneric(t *testing.T) {
	ts := newTestServer(t)
	sqlDB, err := ts.db.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())

	w := ts.do(t, http.MethodGet, "/api/dashboard-stats", nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "Internal server error", decodeBody(t, w)["detail"])
}

func itoa(id int64) string { return strconv.FormatInt(id, 10) }
