package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/example/herbal-backoffice/internal/auth"
	"github.com/example/herbal-backoffice/internal/command"
	"github.com/example/herbal-backoffice/internal/idempotency"
	"github.com/example/herbal-backoffice/internal/infrastructure/store"
	"github.com/example/herbal-backoffice/internal/projection"
	"github.com/example/herbal-backoffice/internal/query"
	"github.com/example/herbal-backoffice/internal/seed"
	"github.com/example/herbal-backoffice/internal/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	adminEmail        = "admin@herbalcrm.com"
	adminPassword     = "admin-secret"
	inventoryEmail    = "inventory@herbalcrm.com"
	inventoryPassword = "inventory-secret"
	supportEmail      = "support@herbalcrm.com"
	supportPassword   = "support-secret"
)

type testServer struct {
	router http.Handler
	jwt    *auth.JWTService
}

// newTestServer loads the demo data through an inline projector and gives
// three seeded employees a password.
func newTestServer(t *testing.T) *testServer {
	t.Helper()
	return newTestServerWithSessions(t, session.NewMemoryStore())
}

func newTestServerWithSessions(t *testing.T, sessions session.Store) *testServer {
	t.Helper()
	ctx := context.Background()

	readStore := store.NewReadStore()
	eventStore := store.NewEventStore(projection.NewInlinePublisher(projection.NewProjector(readStore).Quiet()))
	cmdHandler := command.NewHandler(command.NewServices(eventStore), readStore)
	queryHandler := query.NewHandler(readStore)

	fixture, err := seed.Demo()
	require.NoError(t, err)
	require.NoError(t, seed.Apply(ctx, cmdHandler, fixture))

	for email, password := range map[string]string{
		adminEmail:     adminPassword,
		inventoryEmail: inventoryPassword,
		supportEmail:   supportPassword,
	} {
		_, _, err := cmdHandler.BootstrapAdmin(ctx, "", email, password)
		require.NoError(t, err)
	}

	jwtService := auth.NewJWTService("test-secret-key-that-is-long-enough", 15*time.Minute, 7*24*time.Hour)
	router := NewRouter(RouterConfig{
		Handlers:     NewHandlers(cmdHandler, queryHandler, idempotency.NewMemoryStore()),
		AuthHandlers: NewAuthHandlers(cmdHandler, jwtService, sessions),
		JWTService:   jwtService,
	})
	return &testServer{router: router, jwt: jwtService}
}

func (s *testServer) do(t *testing.T, method, path, token string, body any, cookies ...*http.Cookie) *httptest.ResponseRecorder {
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
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func (s *testServer) login(t *testing.T, email, password string) (string, []*http.Cookie) {
	t.Helper()
	rec := s.do(t, http.MethodPost, "/api/auth/login", "", LoginRequest{Email: email, Password: password})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp AuthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp.AccessToken, rec.Result().Cookies()
}

func cookieNamed(cookies []*http.Cookie, name string) *http.Cookie {
	for _, c := range cookies {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func TestHealthz(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodGet, "/healthz", "", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
}

// ============================================
// Auth Tests
// ============================================

func TestLogin_SetsCookiesAndHidesHash(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodPost, "/api/auth/login", "", LoginRequest{Email: "ADMIN@herbalcrm.com ", Password: adminPassword})

	require.Equal(t, http.StatusOK, rec.Code)
	cookies := rec.Result().Cookies()
	require.NotNil(t, cookieNamed(cookies, "access_token"))
	refresh := cookieNamed(cookies, "refresh_token")
	require.NotNil(t, refresh)
	assert.Equal(t, "/api/auth/refresh", refresh.Path)
	assert.True(t, refresh.HttpOnly)
	require.NotNil(t, cookieNamed(cookies, "session_id"))
	assert.NotContains(t, rec.Body.String(), "password_hash")

	resp := decode[AuthResponse](t, rec)
	assert.Equal(t, "1", resp.User.ID)
	assert.Equal(t, "Admin", resp.User.Role)
}

func TestLogin_Failures(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		name     string
		email    string
		password string
		want     int
	}{
		{"wrong password", adminEmail, "nope", http.StatusUnauthorized},
		{"unknown email", "ghost@herbalcrm.com", "whatever", http.StatusUnauthorized},
		{"no password set", "sales@herbalcrm.com", "whatever", http.StatusUnauthorized},
		{"inactive employee", supportEmail, supportPassword, http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := s.do(t, http.MethodPost, "/api/auth/login", "", LoginRequest{Email: tt.email, Password: tt.password})
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

func TestMe_ReturnsSignedInEmployee(t *testing.T) {
	s := newTestServer(t)
	token, _ := s.login(t, inventoryEmail, inventoryPassword)

	rec := s.do(t, http.MethodGet, "/api/auth/me", token, nil)

	require.Equal(t, http.StatusOK, rec.Code)
	body := decode[map[string]any](t, rec)
	assert.Equal(t, inventoryEmail, body["email"])
	assert.NotContains(t, body, "password_hash")
}

func TestRefresh_RotatesSession(t *testing.T) {
	s := newTestServer(t)
	_, cookies := s.login(t, adminEmail, adminPassword)
	refresh := cookieNamed(cookies, "refresh_token")
	sess := cookieNamed(cookies, "session_id")

	rec := s.do(t, http.MethodPost, "/api/auth/refresh", "", nil, refresh, sess)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	resp := decode[AuthResponse](t, rec)
	assert.NotEmpty(t, resp.AccessToken)

	// The old session is gone once rotated
	rec = s.do(t, http.MethodPost, "/api/auth/refresh", "", nil, refresh, sess)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

// failingDeleteSessions loses its backend for single-session deletes
type failingDeleteSessions struct {
	*session.MemoryStore
}

func (f failingDeleteSessions) Delete(context.Context, string) error {
	return errors.New("connection refused")
}

func TestRefresh_FailsWhenOldSessionCannotBeRevoked(t *testing.T) {
	s := newTestServerWithSessions(t, failingDeleteSessions{session.NewMemoryStore()})
	_, cookies := s.login(t, adminEmail, adminPassword)

	rec := s.do(t, http.MethodPost, "/api/auth/refresh", "", nil,
		cookieNamed(cookies, "refresh_token"), cookieNamed(cookies, "session_id"))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Nil(t, cookieNamed(rec.Result().Cookies(), "refresh_token"))
	assert.Nil(t, cookieNamed(rec.Result().Cookies(), "session_id"))
}

func TestRefresh_MissingCookies(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodPost, "/api/auth/refresh", "", nil)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestLogout_DropsAllSessions(t *testing.T) {
	s := newTestServer(t)
	token, first := s.login(t, adminEmail, adminPassword)
	_, second := s.login(t, adminEmail, adminPassword)

	rec := s.do(t, http.MethodPost, "/api/auth/logout", token, nil, cookieNamed(first, "session_id"))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(t, http.MethodPost, "/api/auth/refresh", "", nil,
		cookieNamed(second, "refresh_token"), cookieNamed(second, "session_id"))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

// ============================================
// Permission Tests
// ============================================

func TestRoutes_RequireAuthentication(t *testing.T) {
	s := newTestServer(t)

	for _, path := range []string{"/api/dashboard", "/api/categories", "/api/orders", "/api/profile"} {
		rec := s.do(t, http.MethodGet, path, "", nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, path)
	}
}

func TestRoutes_PermissionTags(t *testing.T) {
	s := newTestServer(t)
	token, _ := s.login(t, inventoryEmail, inventoryPassword)

	tests := []struct {
		path string
		want int
	}{
		{"/api/dashboard", http.StatusOK},
		{"/api/products", http.StatusOK},
		{"/api/discounts", http.StatusOK},
		{"/api/categories", http.StatusForbidden},
		{"/api/customers", http.StatusForbidden},
		{"/api/orders", http.StatusForbidden},
		{"/api/employees", http.StatusForbidden},
		{"/api/profile", http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			rec := s.do(t, http.MethodGet, tt.path, token, nil)
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

// ============================================
// Resource Tests
// ============================================

func TestCategories_CRUD(t *testing.T) {
	s := newTestServer(t)
	token, _ := s.login(t, adminEmail, adminPassword)

	rec := s.do(t, http.MethodGet, "/api/categories?q=tea", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	found := decode[[]map[string]any](t, rec)
	require.Len(t, found, 1)
	assert.Equal(t, "Herbal Teas", found[0]["name"])

	rec = s.do(t, http.MethodPost, "/api/categories", token, command.CreateCategory{Name: "Tinctures"})
	require.Equal(t, http.StatusCreated, rec.Code)
	created := decode[map[string]any](t, rec)
	assert.Equal(t, "6", created["id"])

	rec = s.do(t, http.MethodPut, "/api/categories/6", token, command.UpdateCategory{Name: "Tinctures & Extracts", Active: true})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(t, http.MethodGet, "/api/categories/6", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Tinctures & Extracts", decode[map[string]any](t, rec)["name"])

	rec = s.do(t, http.MethodDelete, "/api/categories/6", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(t, http.MethodGet, "/api/categories", token, nil)
	assert.Len(t, decode[[]map[string]any](t, rec), 5)
}

func TestCategories_Errors(t *testing.T) {
	s := newTestServer(t)
	token, _ := s.login(t, adminEmail, adminPassword)

	rec := s.do(t, http.MethodPost, "/api/categories", token, command.CreateCategory{Name: "  "})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "error")

	rec = s.do(t, http.MethodGet, "/api/categories/99", token, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = s.do(t, http.MethodDelete, "/api/categories/99", token, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestProducts_DuplicateIDConflicts(t *testing.T) {
	s := newTestServer(t)
	token, _ := s.login(t, inventoryEmail, inventoryPassword)

	rec := s.do(t, http.MethodPost, "/api/products", token, command.CreateProduct{
		ProductID: "PRD001", Name: "Peppermint Tea", Category: "Herbal Teas", SellingPrice: 1299, Stock: 40,
	})

	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestProducts_AdjustStock(t *testing.T) {
	s := newTestServer(t)
	token, _ := s.login(t, inventoryEmail, inventoryPassword)

	rec := s.do(t, http.MethodPost, "/api/products/PRD005/stock", token, command.AdjustStock{Delta: 5, Reason: "restock"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = s.do(t, http.MethodGet, "/api/products/PRD005", token, nil)
	body := decode[map[string]any](t, rec)
	assert.Equal(t, float64(5), body["stock"])
	assert.Equal(t, "Low Stock", body["status"])

	rec = s.do(t, http.MethodPost, "/api/products/PRD005/stock", token, command.AdjustStock{Delta: -50})
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestDiscounts_ProductDiscountPerProduct(t *testing.T) {
	s := newTestServer(t)
	token, _ := s.login(t, adminEmail, adminPassword)

	rec := s.do(t, http.MethodPost, "/api/discounts", token, command.CreateDiscount{
		Name: "Winter Wellness", Type: "product", ProductIDs: []string{"PRD001", "PRD003"},
		Value: 10, StartDate: "2023-12-01", EndDate: "2023-12-31",
	})

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decode[[]map[string]any](t, rec)
	require.Len(t, created, 2)
	assert.Equal(t, "5", created[0]["id"])
	assert.Equal(t, "6", created[1]["id"])
}

func TestEmployees_EmailTaken(t *testing.T) {
	s := newTestServer(t)
	token, _ := s.login(t, adminEmail, adminPassword)

	rec := s.do(t, http.MethodPost, "/api/employees", token, command.CreateEmployee{
		Name: "Second Admin", Email: adminEmail, Role: "Admin",
	})

	assert.Equal(t, http.StatusConflict, rec.Code)
}

// ============================================
// Order Tests
// ============================================

func TestOrders_CreateGuard(t *testing.T) {
	s := newTestServer(t)
	token, _ := s.login(t, adminEmail, adminPassword)

	rec := s.do(t, http.MethodPost, "/api/orders", token, command.CreateOrder{CustomerID: "1"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(t, http.MethodPost, "/api/orders", token, command.CreateOrder{
		Items: []command.OrderItem{{ProductID: "PRD001", Quantity: 1}},
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(t, http.MethodGet, "/api/orders", token, nil)
	assert.Len(t, decode[[]map[string]any](t, rec), 5)
}

func TestOrders_IdempotencyKey(t *testing.T) {
	s := newTestServer(t)
	token, _ := s.login(t, adminEmail, adminPassword)
	body := command.CreateOrder{
		CustomerID: "2",
		Items:      []command.OrderItem{{ProductID: "PRD002", Quantity: 2}},
	}

	post := func() *httptest.ResponseRecorder {
		var buf bytes.Buffer
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
		req := httptest.NewRequest(http.MethodPost, "/api/orders", &buf)
		req.Header.Set("Authorization", "Bearer "+token)
		req.Header.Set(idempotency.Header, "checkout-42")
		rec := httptest.NewRecorder()
		s.router.ServeHTTP(rec, req)
		return rec
	}

	first := post()
	require.Equal(t, http.StatusCreated, first.Code, first.Body.String())
	second := post()
	require.Equal(t, http.StatusOK, second.Code)

	assert.Equal(t, decode[map[string]any](t, first)["id"], decode[map[string]any](t, second)["id"])
	assert.Equal(t, float64(4998), decode[map[string]any](t, first)["total"])

	rec := s.do(t, http.MethodGet, "/api/orders", token, nil)
	assert.Len(t, decode[[]map[string]any](t, rec), 6)
}

func TestOrders_StatusAndInvoice(t *testing.T) {
	s := newTestServer(t)
	token, _ := s.login(t, adminEmail, adminPassword)

	rec := s.do(t, http.MethodPut, "/api/orders/ORD003/status", token, command.UpdateOrderStatus{Status: "Shipped"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(t, http.MethodPut, "/api/orders/ORD003/status", token, command.UpdateOrderStatus{Status: "Completed"})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(t, http.MethodGet, "/api/orders/ORD001/invoice", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	inv := decode[query.Invoice](t, rec)
	assert.Equal(t, "ORD001", inv.OrderID)
	assert.Equal(t, "John Smith", inv.BillTo.Name)
	assert.Equal(t, 4497, inv.Subtotal)
	assert.Equal(t, 8, inv.TaxRate)
	assert.Len(t, inv.Lines, 2)

	rec = s.do(t, http.MethodGet, "/api/orders/ORD999/invoice", token, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestOrders_DeleteLeavesOthers(t *testing.T) {
	s := newTestServer(t)
	token, _ := s.login(t, adminEmail, adminPassword)

	rec := s.do(t, http.MethodDelete, "/api/orders/ORD002", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(t, http.MethodGet, "/api/orders", token, nil)
	orders := decode[[]map[string]any](t, rec)
	require.Len(t, orders, 4)
	for _, o := range orders {
		assert.NotEqual(t, "ORD002", o["id"])
	}
}

func TestDashboard(t *testing.T) {
	s := newTestServer(t)
	token, _ := s.login(t, adminEmail, adminPassword)

	rec := s.do(t, http.MethodGet, "/api/dashboard", token, nil)

	require.Equal(t, http.StatusOK, rec.Code)
	d := decode[query.Dashboard](t, rec)
	assert.Equal(t, 5, d.Categories)
	assert.Equal(t, 5, d.Products)
	assert.Equal(t, 5, d.Orders)
	assert.Equal(t, 12044, d.Revenue)
	assert.Equal(t, 1, d.OutOfStock)
	assert.Len(t, d.RecentOrders, 5)
}

// ============================================
// Profile Tests
// ============================================

func TestProfile_UpdateAndChangePassword(t *testing.T) {
	s := newTestServer(t)
	token, _ := s.login(t, inventoryEmail, inventoryPassword)

	rec := s.do(t, http.MethodPut, "/api/profile", token, command.UpdateProfile{
		Name: "Inventory Lead", Email: inventoryEmail, Bio: "Keeps the shelves full",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = s.do(t, http.MethodGet, "/api/profile", token, nil)
	assert.Equal(t, "Inventory Lead", decode[map[string]any](t, rec)["name"])

	rec = s.do(t, http.MethodPost, "/api/profile/password", token, command.ChangePassword{
		CurrentPassword: inventoryPassword, NewPassword: "fresh-secret", ConfirmPassword: "other-secret",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "New passwords don't match")

	rec = s.do(t, http.MethodPost, "/api/profile/password", token, command.ChangePassword{
		CurrentPassword: inventoryPassword, NewPassword: "fresh-secret", ConfirmPassword: "fresh-secret",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	s.login(t, inventoryEmail, "fresh-secret")
}

func TestProfile_EmailTaken(t *testing.T) {
	s := newTestServer(t)
	token, _ := s.login(t, inventoryEmail, inventoryPassword)

	rec := s.do(t, http.MethodPut, "/api/profile", token, command.UpdateProfile{Name: "Inventory", Email: adminEmail})

	assert.Equal(t, http.StatusConflict, rec.Code)
}
