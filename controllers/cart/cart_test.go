package cartControllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/priyalorha/shopping-cart/models"
	cartService "github.com/priyalorha/shopping-cart/services/cart"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubService returns canned answers so the handlers' status mapping can be
// exercised without a database.
type stubService struct {
	cart  *models.Cart
	items []models.CartItem
	add   *cartService.AddItemResult
	bill  *cartService.BillResult
	err   error
}

func (s *stubService) OpenCart(ctx context.Context, userID string) (*models.Cart, error) {
	return s.cart, s.err
}

func (s *stubService) GetOpenCart(ctx context.Context, userID string) (*models.Cart, error) {
	return s.cart, s.err
}

func (s *stubService) GetItems(ctx context.Context, userID string, cartID uint) ([]models.CartItem, error) {
	return s.items, s.err
}

func (s *stubService) AddItem(ctx context.Context, userID string, cartID uint, itemName string) (*cartService.AddItemResult, error) {
	return s.add, s.err
}

func (s *stubService) Bill(ctx context.Context, userID string) (*cartService.BillResult, error) {
	return s.bill, s.err
}

func (s *stubService) ClearCart(ctx context.Context, userID string, cartID uint) (*models.Cart, error) {
	return s.cart, s.err
}

func newRouter(svc CartService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	authed := func(c *gin.Context) {
		c.Set("user_id", "u1")
		c.Next()
	}
	group := r.Group("/user/cart", authed)
	group.POST("/", OpenCart(svc))
	group.GET("/", GetOpenCart(svc))
	group.POST("/bill", Bill(svc))
	group.GET("/:cart_id", GetItems(svc))
	group.POST("/:cart_id/items", AddItem(svc))
	group.DELETE("/:cart_id", ClearCart(svc))
	return r
}

func TestOpenCartCreated(t *testing.T) {
	svc := &stubService{cart: &models.Cart{CartID: 1, UserID: "u1", Status: models.CartStatusOpen}}
	r := newRouter(svc)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/user/cart/", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestAddItemReturnsItemsAndCart(t *testing.T) {
	svc := &stubService{add: &cartService.AddItemResult{
		Cart: models.Cart{CartID: 7, Total: decimal.RequireFromString("3.00"), Quantity: 2},
		Items: []models.CartItem{
			{Name: "apple", Quantity: 2, OfferType: models.OfferBOGO},
		},
	}}
	r := newRouter(svc)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/user/cart/7/items", strings.NewReader(`{"item":"apple"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code)

	var body struct {
		Message string            `json:"message"`
		Items   []models.CartItem `json:"items"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "1 items added to cart", body.Message)
	require.Len(t, body.Items, 1)
	assert.Equal(t, "apple", body.Items[0].Name)
}

func TestAddItemRequiresBody(t *testing.T) {
	r := newRouter(&stubService{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/user/cart/7/items", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestInvalidCartIDParam(t *testing.T) {
	r := newRouter(&stubService{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/user/cart/abc/items", strings.NewReader(`{"item":"apple"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetItemsFlattensQuantities(t *testing.T) {
	svc := &stubService{items: []models.CartItem{
		{Name: "apple", Quantity: 2},
		{Name: "lime", Quantity: 1},
	}}
	r := newRouter(svc)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/user/cart/7", nil)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var units []string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &units))
	assert.Equal(t, []string{"apple", "apple", "lime"}, units)
}

func TestErrorStatusMapping(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"validation", cartService.ErrInvalidItem, http.StatusBadRequest},
		{"not found", cartService.ErrCartNotFound, http.StatusNotFound},
		{"conflict", cartService.ErrCartConflict, http.StatusConflict},
		{"invalid state", cartService.ErrCartClosed, http.StatusUnprocessableEntity},
		{"pricing down", cartService.ErrPricingUnavailable, http.StatusBadGateway},
		{"pricing invalid", cartService.ErrPricingInvalid, http.StatusBadGateway},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newRouter(&stubService{err: tt.err})

			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/user/cart/7/items", strings.NewReader(`{"item":"apple"}`))
			req.Header.Set("Content-Type", "application/json")
			r.ServeHTTP(w, req)

			assert.Equal(t, tt.want, w.Code)
		})
	}
}

func TestMissingIdentityIsUnauthorized(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/user/cart/", OpenCart(&stubService{}))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/user/cart/", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
