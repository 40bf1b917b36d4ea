package cartControllers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/priyalorha/shopping-cart/models"
	cartService "github.com/priyalorha/shopping-cart/services/cart"
)

type AddItemInput struct {
	Item string `json:"item" binding:"required"`
}

// CartService is the slice of the cart engine the HTTP surface needs.
type CartService interface {
	OpenCart(ctx context.Context, userID string) (*models.Cart, error)
	GetOpenCart(ctx context.Context, userID string) (*models.Cart, error)
	GetItems(ctx context.Context, userID string, cartID uint) ([]models.CartItem, error)
	AddItem(ctx context.Context, userID string, cartID uint, itemName string) (*cartService.AddItemResult, error)
	Bill(ctx context.Context, userID string) (*cartService.BillResult, error)
	ClearCart(ctx context.Context, userID string, cartID uint) (*models.Cart, error)
}

// POST /user/cart
func OpenCart(svc CartService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := callerID(c)
		if !ok {
			return
		}

		cart, err := svc.OpenCart(c.Request.Context(), userID)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, cart)
	}
}

// GET /user/cart
func GetOpenCart(svc CartService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := callerID(c)
		if !ok {
			return
		}

		cart, err := svc.GetOpenCart(c.Request.Context(), userID)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, cart)
	}
}

// GET /user/cart/:cart_id
// Responds with the cart contents flattened to individual units, the same
// shape the pricing service consumes.
func GetItems(svc CartService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := callerID(c)
		if !ok {
			return
		}
		cartID, ok := cartIDParam(c)
		if !ok {
			return
		}

		items, err := svc.GetItems(c.Request.Context(), userID, cartID)
		if err != nil {
			respondError(c, err)
			return
		}
		units := models.FlattenItems(items)
		if units == nil {
			units = []string{}
		}
		c.JSON(http.StatusOK, units)
	}
}

// POST /user/cart/:cart_id/items
func AddItem(svc CartService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := callerID(c)
		if !ok {
			return
		}
		cartID, ok := cartIDParam(c)
		if !ok {
			return
		}

		var input AddItemInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		result, err := svc.AddItem(c.Request.Context(), userID, cartID, input.Item)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, gin.H{
			"message": fmt.Sprintf("%d items added to cart", len(result.Items)),
			"items":   result.Items,
			"cart": gin.H{
				"id":       result.Cart.CartID,
				"total":    result.Cart.Total,
				"quantity": result.Cart.Quantity,
			},
		})
	}
}

// POST /user/cart/bill
func Bill(svc CartService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := callerID(c)
		if !ok {
			return
		}

		result, err := svc.Bill(c.Request.Context(), userID)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"bill_ref":       result.Cart.BillRef,
			"items":          result.Items,
			"grand_total":    result.GrandTotal,
			"total_quantity": result.TotalQuantity,
		})
	}
}

// DELETE /user/cart/:cart_id
func ClearCart(svc CartService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := callerID(c)
		if !ok {
			return
		}
		cartID, ok := cartIDParam(c)
		if !ok {
			return
		}

		cart, err := svc.ClearCart(c.Request.Context(), userID, cartID)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"message": "Cart cleared",
			"cart": gin.H{
				"id":       cart.CartID,
				"total":    cart.Total,
				"quantity": cart.Quantity,
			},
		})
	}
}

func callerID(c *gin.Context) (string, bool) {
	userIDVal, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return "", false
	}
	userID, ok := userIDVal.(string)
	if !ok || userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return "", false
	}
	return userID, true
}

func cartIDParam(c *gin.Context) (uint, bool) {
	raw := c.Param("cart_id")
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid cart id"})
		return 0, false
	}
	return uint(id), true
}

// respondError maps engine errors onto HTTP statuses. Pricing failures get a
// 502 so clients can distinguish "retry later" from their own bad request.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, cartService.ErrInvalidItem):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, cartService.ErrCartNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, cartService.ErrCartConflict):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, cartService.ErrCartClosed):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	case errors.Is(err, cartService.ErrPricingUnavailable), errors.Is(err, cartService.ErrPricingInvalid):
		c.JSON(http.StatusBadGateway, gin.H{"error": "Pricing service unavailable, please retry"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
