package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/AhmedAmineBejaoui/E-commerce/internal/domain"
	"github.com/AhmedAmineBejaoui/E-commerce/internal/mocks"
	"github.com/AhmedAmineBejaoui/E-commerce/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const (
	cookieName    = "test_session"
	customerToken = "customer-token"
	adminToken    = "admin-token"
)

type testServer struct {
	router   *gin.Engine
	store    *mocks.MockStore
	sessions *mocks.MockSessionStore
	pub      *mocks.MockPublisher
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := mocks.NewMockStore()
	sessions := new(mocks.MockSessionStore)
	pub := new(mocks.MockPublisher)

	sessions.On("Lookup", mock.Anything, customerToken).Return(domain.Identity{UserID: 1}, nil).Maybe()
	sessions.On("Lookup", mock.Anything, adminToken).Return(domain.Identity{UserID: 99, IsAdmin: true}, nil).Maybe()
	sessions.On("Lookup", mock.Anything, "expired").Return(domain.Identity{}, domain.ErrUnauthorized).Maybe()

	h := NewHandler(
		services.NewUserService(store.UserRepo),
		services.NewCatalogService(store, nil),
		services.NewCartService(store),
		services.NewOrderService(store, pub),
		sessions,
		CookieConfig{Name: cookieName},
	)

	r := gin.New()
	r.Use(RequestLogger())
	h.RegisterRoutes(r)

	return &testServer{router: r, store: store, sessions: sessions, pub: pub}
}

func (s *testServer) do(method, path, token string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.AddCookie(&http.Cookie{Name: cookieName, Value: token})
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func product(id uint64, price string, discount string) *domain.Product {
	p := &domain.Product{ID: id, Name: "p", Slug: "p", Price: decimal.RequireFromString(price), Stock: 10, CategoryID: 1}
	if discount != "" {
		p.DiscountPrice = decimal.NewNullDecimal(decimal.RequireFromString(discount))
	}
	return p
}

func TestGetCart(t *testing.T) {
	s := newTestServer(t)
	s.store.CartRepo.On("ListByUser", mock.Anything, uint64(1)).Return([]domain.CartItem{
		{ID: 1, UserID: 1, ProductID: 1, Quantity: 2, Product: product(1, "24.99", "")},
		{ID: 2, UserID: 1, ProductID: 2, Quantity: 1, Product: product(2, "29.99", "19.99")},
	}, nil)

	w := s.do(http.MethodGet, "/api/cart", customerToken, nil)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	body := decode(t, w)
	assert.Equal(t, "69.97", body["cartTotal"])
	assert.Equal(t, float64(3), body["cartCount"])
	assert.Len(t, body["items"], 2)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestCartRequiresSession(t *testing.T) {
	s := newTestServer(t)

	w := s.do(http.MethodGet, "/api/cart", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = s.do(http.MethodGet, "/api/cart", "expired", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Header().Get("Set-Cookie"), cookieName+"=;")
}

func TestAddToCartDefaultsQuantity(t *testing.T) {
	s := newTestServer(t)
	s.store.ProductRepo.On("FindByID", mock.Anything, uint64(5)).Return(product(5, "10.00", ""), nil)
	s.store.CartRepo.On("AddOrIncrement", mock.Anything, uint64(1), uint64(5), int64(1)).Return(nil)
	s.store.CartRepo.On("FindByUserAndProduct", mock.Anything, uint64(1), uint64(5)).
		Return(&domain.CartItem{ID: 4, UserID: 1, ProductID: 5, Quantity: 1}, nil)

	w := s.do(http.MethodPost, "/api/cart", customerToken, gin.H{"productId": 5})

	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	body := decode(t, w)
	assert.Equal(t, float64(1), body["quantity"])
	assert.NotNil(t, body["product"])
	s.store.AssertAll(t)
}

func TestAddToCartRejectsZeroQuantity(t *testing.T) {
	s := newTestServer(t)

	w := s.do(http.MethodPost, "/api/cart", customerToken, gin.H{"productId": 5, "quantity": 0})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRemoveCartItem(t *testing.T) {
	s := newTestServer(t)
	s.store.CartRepo.On("FindByID", mock.Anything, uint64(3)).Return(nil, nil)
	s.store.CartRepo.On("FindByID", mock.Anything, uint64(4)).Return(&domain.CartItem{ID: 4, UserID: 2}, nil)

	assert.Equal(t, http.StatusNotFound, s.do(http.MethodDelete, "/api/cart/3", customerToken, nil).Code)
	assert.Equal(t, http.StatusForbidden, s.do(http.MethodDelete, "/api/cart/4", customerToken, nil).Code)
	assert.Equal(t, http.StatusBadRequest, s.do(http.MethodDelete, "/api/cart/abc", customerToken, nil).Code)
}

func TestPlaceOrderErrors(t *testing.T) {
	shipping := gin.H{"shippingAddress": "1 rue", "city": "Tunis", "postalCode": "1000", "phone": "123"}

	tests := []struct {
		name       string
		body       gin.H
		setupMocks func(*mocks.MockStore)
		status     int
	}{
		{
			name:       "missing shipping",
			body:       gin.H{"city": "Tunis"},
			setupMocks: func(s *mocks.MockStore) {},
			status:     http.StatusBadRequest,
		},
		{
			name: "empty cart",
			body: shipping,
			setupMocks: func(s *mocks.MockStore) {
				s.On("WithinTransaction", mock.Anything).Return(nil)
				s.CartRepo.On("ListByUser", mock.Anything, uint64(1)).Return([]domain.CartItem{}, nil)
			},
			status: http.StatusBadRequest,
		},
		{
			name: "insufficient stock",
			body: shipping,
			setupMocks: func(s *mocks.MockStore) {
				s.On("WithinTransaction", mock.Anything).Return(nil)
				s.CartRepo.On("ListByUser", mock.Anything, uint64(1)).Return([]domain.CartItem{
					{ID: 1, UserID: 1, ProductID: 1, Quantity: 20, Product: product(1, "5.00", "")},
				}, nil)
				s.OrderRepo.On("Create", mock.Anything, mock.Anything).Return(nil)
				s.OrderRepo.On("CreateItem", mock.Anything, mock.Anything).Return(nil)
				s.ProductRepo.On("DecrementStock", mock.Anything, uint64(1), int64(20)).Return(domain.ErrInsufficientStock)
			},
			status: http.StatusConflict,
		},
		{
			name: "database down",
			body: shipping,
			setupMocks: func(s *mocks.MockStore) {
				s.On("WithinTransaction", mock.Anything).Return(errors.New("dial tcp: refused"))
			},
			status: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer(t)
			tt.setupMocks(s.store)

			w := s.do(http.MethodPost, "/api/orders", customerToken, tt.body)

			assert.Equal(t, tt.status, w.Code, w.Body.String())
			assert.NotEmpty(t, decode(t, w)["error"])
			if tt.status == http.StatusInternalServerError {
				assert.NotContains(t, w.Body.String(), "refused")
			}
			s.store.AssertAll(t)
		})
	}
}

func TestUpdateOrderStatus(t *testing.T) {
	s := newTestServer(t)
	s.store.OrderRepo.On("FindByID", mock.Anything, uint64(5)).Return(&domain.Order{ID: 5, Status: domain.StatusPending}, nil)
	s.store.OrderRepo.On("UpdateStatus", mock.Anything, uint64(5), domain.StatusShipped).Return(nil)
	s.pub.On("Publish", mock.Anything, domain.EventOrderStatusChanged, mock.Anything).Return(nil).Maybe()

	w := s.do(http.MethodPatch, "/api/admin/orders/5", customerToken, gin.H{"status": "shipped"})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = s.do(http.MethodPatch, "/api/admin/orders/5", adminToken, gin.H{"status": "teleported"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(http.MethodPatch, "/api/admin/orders/5", adminToken, gin.H{"status": "shipped"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "shipped", decode(t, w)["status"])
}

func TestLoginSetsSessionCookie(t *testing.T) {
	s := newTestServer(t)
	hash, err := services.HashPassword("user123")
	require.NoError(t, err)
	s.store.UserRepo.On("FindByUsername", mock.Anything, "user").Return(&domain.User{ID: 1, Username: "user", PasswordHash: hash}, nil)
	s.sessions.On("Create", mock.Anything, domain.Identity{UserID: 1}).Return("new-token", nil)

	w := s.do(http.MethodPost, "/api/login", "", gin.H{"username": "user", "password": "user123"})

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Header().Get("Set-Cookie"), cookieName+"=new-token")
	assert.NotContains(t, w.Body.String(), hash)

	w = s.do(http.MethodPost, "/api/login", "", gin.H{"username": "user", "password": "nope"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestLogout(t *testing.T) {
	s := newTestServer(t)
	s.sessions.On("Destroy", mock.Anything, customerToken).Return(nil)

	w := s.do(http.MethodPost, "/api/logout", customerToken, nil)

	assert.Equal(t, http.StatusOK, w.Code)
	s.sessions.AssertCalled(t, "Destroy", mock.Anything, customerToken)
}

func TestPromoProducts(t *testing.T) {
	s := newTestServer(t)
	s.store.ProductRepo.On("List", mock.Anything, domain.ProductFilter{Promo: true}).
		Return([]domain.Product{*product(2, "29.99", "19.99")}, nil)

	w := s.do(http.MethodGet, "/api/products/promo", "", nil)

	require.Equal(t, http.StatusOK, w.Code)
	var products []map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &products))
	require.Len(t, products, 1)
	assert.Equal(t, "19.99", products[0]["discountPrice"])
}

func TestExportProducts(t *testing.T) {
	s := newTestServer(t)
	s.store.ProductRepo.On("List", mock.Anything, domain.ProductFilter{}).Return([]domain.Product{*product(1, "9.99", "")}, nil)

	w := s.do(http.MethodGet, "/api/admin/products/export", adminToken, nil)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, xlsxContentType, w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "products.xlsx")
	assert.NotZero(t, w.Body.Len())
}

func TestStatusFor(t *testing.T) {
	assert.Equal(t, http.StatusNotFound, statusFor(domain.NotFoundf("order 1")))
	assert.Equal(t, http.StatusBadRequest, statusFor(domain.ErrEmptyCart))
	assert.Equal(t, http.StatusConflict, statusFor(domain.ErrInsufficientStock))
	assert.Equal(t, http.StatusForbidden, statusFor(domain.ErrForbidden))
	assert.Equal(t, http.StatusUnauthorized, statusFor(domain.ErrUnauthorized))
	assert.Equal(t, http.StatusInternalServerError, statusFor(context.DeadlineExceeded))
}
