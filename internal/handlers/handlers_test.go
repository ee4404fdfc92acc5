package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"greenfields-backend/internal/middleware"
	"greenfields-backend/internal/models"
	"greenfields-backend/internal/repository"
	"greenfields-backend/internal/service"
	"greenfields-backend/internal/store"
	"greenfields-backend/internal/utils"
)

const testSecret = "test-secret"

type apiFixture struct {
	router *gin.Engine
	orders *repository.OrderRepository
}

// newAPIFixture wires the handlers over in-memory collections, mirroring the
// route groups the server registers.
func newAPIFixture(t *testing.T) *apiFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	productRepo := repository.NewProductRepository(store.NewMemory())
	userRepo := repository.NewUserRepository(store.NewMemory())
	orderRepo := repository.NewOrderRepository(store.NewMemory())
	reconRepo := repository.NewReconciliationRepository(store.NewMemory())

	orderSvc := service.NewOrderService(orderRepo, userRepo, productRepo, reconRepo, zap.NewNop())
	authSvc := service.NewAuthService(userRepo, testSecret, time.Hour, bcrypt.MinCost)

	products := NewProductHandler(productRepo)
	orders := NewOrderHandler(orderSvc, orderRepo, reconRepo)
	auth := NewAuthHandler(authSvc)

	authed := middleware.RequireAuth(testSecret)
	admin := middleware.RequireRole(models.RoleAdmin)

	router := gin.New()
	api := router.Group("/api")
	api.POST("/auth/register", auth.Register)
	api.POST("/auth/login", auth.Login)
	api.GET("/products", products.List)
	api.GET("/products/:id", products.Get)
	api.POST("/products", authed, admin, products.Create)
	api.POST("/orders", orders.Create)
	api.GET("/orders/track", orders.Track)
	api.GET("/orders/my", authed, orders.ListMine)
	api.GET("/orders/:id", authed, orders.Get)

	return &apiFixture{router: router, orders: orderRepo}
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
}

func (f *apiFixture) do(t *testing.T, method, path, token string, body interface{}) (int, envelope) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)

	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return w.Code, env
}

func adminToken(t *testing.T) string {
	t.Helper()
	token, err := utils.NewAccessToken(testSecret, "admin-1", models.RoleAdmin, time.Hour)
	require.NoError(t, err)
	return token
}

func TestProductCreateAndGet(t *testing.T) {
	f := newAPIFixture(t)

	code, env := f.do(t, http.MethodPost, "/api/products", adminToken(t), gin.H{
		"name":     "OG Kush",
		"category": "flower",
		"price":    45.0,
		"stock":    10,
	})
	require.Equal(t, http.StatusCreated, code)
	require.True(t, env.Success)

	var created models.Product
	require.NoError(t, json.Unmarshal(env.Data, &created))
	assert.NotEmpty(t, created.ID)
	assert.True(t, created.InStock)

	code, env = f.do(t, http.MethodGet, "/api/products/"+created.ID, "", nil)
	assert.Equal(t, http.StatusOK, code)
	assert.True(t, env.Success)

	code, env = f.do(t, http.MethodGet, "/api/products/missing", "", nil)
	assert.Equal(t, http.StatusNotFound, code)
	assert.False(t, env.Success)
	assert.NotEmpty(t, env.Error)
}

func TestProductCreateRequiresAdmin(t *testing.T) {
	f := newAPIFixture(t)

	code, env := f.do(t, http.MethodPost, "/api/products", "", gin.H{"name": "OG Kush"})
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.False(t, env.Success)

	customer, err := utils.NewAccessToken(testSecret, "cust-1", models.RoleCustomer, time.Hour)
	require.NoError(t, err)
	code, env = f.do(t, http.MethodPost, "/api/products", customer, gin.H{"name": "OG Kush"})
	assert.Equal(t, http.StatusForbidden, code)
	assert.False(t, env.Success)
}

func TestOrderTrack(t *testing.T) {
	f := newAPIFixture(t)

	order := models.Order{
		Customer: models.OrderCustomer{Email: "Jane@Example.com"},
		Items:    []models.OrderItem{{Quantity: 1, Price: 45}},
		Total:    45,
	}
	require.NoError(t, f.orders.Create(context.Background(), &order))

	code, env := f.do(t, http.MethodGet, "/api/orders/track?orderNumber="+order.ID+"&email=JANE@example.com", "", nil)
	assert.Equal(t, http.StatusOK, code)
	assert.True(t, env.Success)

	code, env = f.do(t, http.MethodGet, "/api/orders/track?orderNumber="+order.ID+"&email=other@example.com", "", nil)
	assert.Equal(t, http.StatusNotFound, code)
	assert.False(t, env.Success)

	code, env = f.do(t, http.MethodGet, "/api/orders/track?orderNumber="+order.ID, "", nil)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.False(t, env.Success)
}

func TestOrderGetOwnership(t *testing.T) {
	f := newAPIFixture(t)

	order := models.Order{
		Customer: models.OrderCustomer{ID: "cust-a", Email: "a@example.com"},
		Items:    []models.OrderItem{{Quantity: 1, Price: 45}},
		Total:    45,
	}
	require.NoError(t, f.orders.Create(context.Background(), &order))

	owner, err := utils.NewAccessToken(testSecret, "cust-a", models.RoleCustomer, time.Hour)
	require.NoError(t, err)
	other, err := utils.NewAccessToken(testSecret, "cust-b", models.RoleCustomer, time.Hour)
	require.NoError(t, err)

	code, env := f.do(t, http.MethodGet, "/api/orders/"+order.ID, owner, nil)
	assert.Equal(t, http.StatusOK, code)
	assert.True(t, env.Success)

	// Another customer's token gets the same response as a missing order.
	code, env = f.do(t, http.MethodGet, "/api/orders/"+order.ID, other, nil)
	assert.Equal(t, http.StatusNotFound, code)
	assert.False(t, env.Success)

	code, env = f.do(t, http.MethodGet, "/api/orders/"+order.ID, adminToken(t), nil)
	assert.Equal(t, http.StatusOK, code)
	assert.True(t, env.Success)
}

func TestRegisterLoginAndListMine(t *testing.T) {
	f := newAPIFixture(t)

	code, env := f.do(t, http.MethodPost, "/api/auth/register", "", gin.H{
		"name":     "Jane",
		"email":    "jane@example.com",
		"password": "hunter222",
	})
	require.Equal(t, http.StatusCreated, code)
	require.True(t, env.Success)

	var user models.User
	require.NoError(t, json.Unmarshal(env.Data, &user))

	code, env = f.do(t, http.MethodPost, "/api/auth/login", "", gin.H{
		"email":    "jane@example.com",
		"password": "hunter222",
	})
	require.Equal(t, http.StatusOK, code)
	var login struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &login))
	require.NotEmpty(t, login.Token)

	order := models.Order{
		Customer: models.OrderCustomer{ID: user.ID, Email: user.Email},
		Total:    45,
	}
	require.NoError(t, f.orders.Create(context.Background(), &order))

	code, env = f.do(t, http.MethodGet, "/api/orders/my", login.Token, nil)
	require.Equal(t, http.StatusOK, code)
	var mine []*models.Order
	require.NoError(t, json.Unmarshal(env.Data, &mine))
	require.Len(t, mine, 1)
	assert.Equal(t, order.ID, mine[0].ID)

	code, env = f.do(t, http.MethodPost, "/api/auth/register", "", gin.H{
		"name":     "Other Jane",
		"email":    "jane@example.com",
		"password": "different1",
	})
	assert.Equal(t, http.StatusConflict, code)
	assert.False(t, env.Success)
}
