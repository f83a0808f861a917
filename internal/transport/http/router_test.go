package httpserver

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/undersea/storefront/internal/config"
	"github.com/undersea/storefront/internal/handlers"
	authmw "github.com/undersea/storefront/internal/middleware/auth"
	"github.com/undersea/storefront/internal/models"
	"github.com/undersea/storefront/internal/repo"
	"github.com/undersea/storefront/internal/service"
)

var testSecret = []byte("test-jwt-secret")

type testEnv struct {
	E  *echo.Echo
	DB *gorm.DB
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, config.Migrate(db))

	deps := &Deps{
		Gate:  authmw.NewGate(repo.NewUserRepository(db), testSecret),
		Order: &handlers.OrderHandler{Svc: service.NewOrderService(db)},
		Reset: &handlers.ResetHandler{
			Svc: service.NewPasswordResetService(db, nil, "https://shop.example.com", 30*time.Minute),
		},
		Product:     &handlers.ProductHandler{Svc: service.NewProductService(db, nil)},
		FrontendURL: "https://shop.example.com",
	}

	e := echo.New()
	Register(e, deps)

	return &testEnv{E: e, DB: db}
}

func (env *testEnv) seedUser(t *testing.T, id, email, role string) {
	t.Helper()
	require.NoError(t, env.DB.Create(&models.User{
		ID: id, Email: email, Name: "Test", Role: role, PasswordHash: "x",
	}).Error)
}

func signToken(t *testing.T, sub string) string {
	t.Helper()
	claims := jwt.RegisteredClaims{
		Subject:   sub,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(15 * time.Minute)),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(testSecret)
	require.NoError(t, err)
	return token
}

func (env *testEnv) post(t *testing.T, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	env.E.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestRoleGate(t *testing.T) {
	env := newTestEnv(t)
	env.seedUser(t, "admin-1", "admin@example.com", models.RoleAdmin)
	env.seedUser(t, "user-1", "ana@example.com", models.RoleCustomer)

	body := map[string]string{"orderId": "whatever"}

	rec := env.post(t, "/functions/v1/confirm-order", "", body)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Unauthorized", decodeBody(t, rec)["error"])

	rec = env.post(t, "/functions/v1/confirm-order", "not-a-jwt", body)
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	// A valid credential whose subject has no stored profile carries
	// no role, so it is refused like any non-admin.
	rec = env.post(t, "/functions/v1/confirm-order", signToken(t, "ghost"), body)
	require.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "Forbidden", decodeBody(t, rec)["error"])

	rec = env.post(t, "/functions/v1/confirm-order", signToken(t, "user-1"), body)
	require.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "Forbidden", decodeBody(t, rec)["error"])

	rec = env.post(t, "/functions/v1/confirm-order", signToken(t, "admin-1"), body)
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Order not found", decodeBody(t, rec)["error"])
}

func TestOrderFlow(t *testing.T) {
	env := newTestEnv(t)
	env.seedUser(t, "admin-1", "admin@example.com", models.RoleAdmin)
	env.seedUser(t, "user-1", "ana@example.com", models.RoleCustomer)
	require.NoError(t, env.DB.Create(&models.Product{ID: "p1", Name: "Camiseta", Price: 25}).Error)
	require.NoError(t, env.DB.Create(&models.InventoryItem{
		ProductID: "p1", Color: "Negro", Size: "M", Stock: 5,
	}).Error)

	rec := env.post(t, "/functions/v1/create-order", signToken(t, "user-1"), map[string]interface{}{
		"items": []map[string]interface{}{
			{"producto_id": "p1", "color": "Negro", "talla": "M", "quantity": 2},
		},
	})
	require.Equal(t, http.StatusOK, rec.Code)
	created := decodeBody(t, rec)
	assert.Equal(t, true, created["ok"])
	orderID, _ := created["orderId"].(string)
	require.NotEmpty(t, orderID)

	var order models.Order
	require.NoError(t, env.DB.Where("id = ?", orderID).First(&order).Error)
	assert.Equal(t, 50.0, order.Total)

	confirm := map[string]string{"orderId": orderID}
	rec = env.post(t, "/functions/v1/confirm-order", signToken(t, "admin-1"), confirm)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, decodeBody(t, rec)["ok"])

	var slot models.InventoryItem
	require.NoError(t, env.DB.Where("producto_id = ?", "p1").First(&slot).Error)
	assert.Equal(t, 3, slot.Stock)

	// Confirming again is a no-op success.
	rec = env.post(t, "/functions/v1/confirm-order", signToken(t, "admin-1"), confirm)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, env.DB.Where("producto_id = ?", "p1").First(&slot).Error)
	assert.Equal(t, 3, slot.Stock)

	// Unconfirming a paid order is refused.
	rec = env.post(t, "/functions/v1/mark-order-unconfirmed", signToken(t, "admin-1"), confirm)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Order is already confirmed", decodeBody(t, rec)["error"])
}

func TestConfirmInsufficientStock(t *testing.T) {
	env := newTestEnv(t)
	env.seedUser(t, "admin-1", "admin@example.com", models.RoleAdmin)
	env.seedUser(t, "user-1", "ana@example.com", models.RoleCustomer)
	require.NoError(t, env.DB.Create(&models.Product{ID: "p1", Name: "Camiseta", Price: 25}).Error)
	require.NoError(t, env.DB.Create(&models.InventoryItem{
		ProductID: "p1", Color: "Negro", Size: "M", Stock: 1,
	}).Error)

	rec := env.post(t, "/functions/v1/create-order", signToken(t, "user-1"), map[string]interface{}{
		"items": []map[string]interface{}{
			{"producto_id": "p1", "color": "Negro", "talla": "M", "cantidad": 2},
		},
	})
	require.Equal(t, http.StatusOK, rec.Code)
	orderID := decodeBody(t, rec)["orderId"].(string)

	rec = env.post(t, "/functions/v1/confirm-order", signToken(t, "admin-1"), map[string]string{"orderId": orderID})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Insufficient stock", decodeBody(t, rec)["error"])

	var slot models.InventoryItem
	require.NoError(t, env.DB.Where("producto_id = ?", "p1").First(&slot).Error)
	assert.Equal(t, 1, slot.Stock)
}

func TestCreateOrderValidation(t *testing.T) {
	env := newTestEnv(t)
	env.seedUser(t, "user-1", "ana@example.com", models.RoleCustomer)

	rec := env.post(t, "/functions/v1/create-order", signToken(t, "user-1"), map[string]interface{}{})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Items are required", decodeBody(t, rec)["error"])

	rec = env.post(t, "/functions/v1/create-order", signToken(t, "user-1"), map[string]interface{}{
		"items": []map[string]interface{}{
			{"producto_id": "", "color": "", "talla": "", "quantity": 0},
		},
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Items are invalid", decodeBody(t, rec)["error"])
}

func TestPasswordResetEnumerationResistance(t *testing.T) {
	env := newTestEnv(t)
	env.seedUser(t, "u1", "known@example.com", models.RoleCustomer)

	known := env.post(t, "/functions/v1/request-password-reset", "", map[string]string{"email": "known@example.com"})
	unknown := env.post(t, "/functions/v1/request-password-reset", "", map[string]string{"email": "unknown@example.com"})

	require.Equal(t, http.StatusOK, known.Code)
	require.Equal(t, http.StatusOK, unknown.Code)
	assert.Equal(t, known.Body.String(), unknown.Body.String())

	rec := env.post(t, "/functions/v1/request-password-reset", "", map[string]string{})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Email is required", decodeBody(t, rec)["error"])
}

func TestResetPasswordValidation(t *testing.T) {
	env := newTestEnv(t)

	rec := env.post(t, "/functions/v1/reset-password-with-token", "", map[string]string{"newPassword": "long-enough"})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Token is required", decodeBody(t, rec)["error"])

	rec = env.post(t, "/functions/v1/reset-password-with-token", "", map[string]string{"token": "abc", "newPassword": "short"})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Password must be at least 6 characters", decodeBody(t, rec)["error"])

	rec = env.post(t, "/functions/v1/reset-password-with-token", "", map[string]string{"token": "abc", "newPassword": "long-enough"})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid or expired token", decodeBody(t, rec)["error"])
}

func TestDeleteProduct(t *testing.T) {
	env := newTestEnv(t)
	env.seedUser(t, "admin-1", "admin@example.com", models.RoleAdmin)
	require.NoError(t, env.DB.Create(&models.Product{ID: "p1", Name: "Camiseta", Price: 25}).Error)

	rec := env.post(t, "/functions/v1/delete-product", signToken(t, "admin-1"), map[string]string{"productId": "p1"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, decodeBody(t, rec)["ok"])

	var n int64
	require.NoError(t, env.DB.Model(&models.Product{}).Where("id = ?", "p1").Count(&n).Error)
	assert.Zero(t, n)

	rec = env.post(t, "/functions/v1/delete-product", signToken(t, "admin-1"), map[string]string{})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Product ID is required", decodeBody(t, rec)["error"])
}

func TestWrongMethodAndUnknownPath(t *testing.T) {
	env := newTestEnv(t)

	req := httptest.NewRequest(http.MethodGet, "/functions/v1/create-order", nil)
	rec := httptest.NewRecorder()
	env.E.ServeHTTP(rec, req)
	require.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.Equal(t, "Method Not Allowed", decodeBody(t, rec)["error"])

	rec = env.post(t, "/functions/v1/no-such-function", "", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Not Found", decodeBody(t, rec)["error"])
}

func TestCORSPreflight(t *testing.T) {
	env := newTestEnv(t)

	req := httptest.NewRequest(http.MethodOptions, "/functions/v1/create-order", nil)
	req.Header.Set(echo.HeaderOrigin, "http://localhost:5173")
	req.Header.Set(echo.HeaderAccessControlRequestMethod, http.MethodPost)
	rec := httptest.NewRecorder()
	env.E.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "http://localhost:5173", rec.Header().Get(echo.HeaderAccessControlAllowOrigin))
}

func TestAllowedOrigins(t *testing.T) {
	t.Parallel()

	origins := AllowedOrigins("https://shop.example.com/")
	assert.Equal(t, "https://shop.example.com", origins[0])
	assert.Contains(t, origins, "http://localhost:5173")
	assert.Contains(t, origins, "http://127.0.0.1:5174")

	assert.Len(t, AllowedOrigins(""), 4)
}
