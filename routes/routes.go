package routes

import (
	"github.com/gin-gonic/gin"
	cartControllers "github.com/priyalorha/shopping-cart/controllers/cart"
	"github.com/priyalorha/shopping-cart/middleware"
)

// SetupRoutes wires up every route group.
func SetupRoutes(r *gin.Engine, svc cartControllers.CartService) {
	SetupCartRoutes(r, svc)
}

// SetupCartRoutes registers all "/user/cart" endpoints. Requires JWT
// middleware: the identity provider has already authenticated the caller.
func SetupCartRoutes(r *gin.Engine, svc cartControllers.CartService) {
	cartGroup := r.Group("/user/cart")
	cartGroup.Use(middleware.ValidateToken)
	cartGroup.Use(middleware.RequireCustomer)
	{
		cartGroup.POST("/", cartControllers.OpenCart(svc))              // POST   /user/cart
		cartGroup.GET("/", cartControllers.GetOpenCart(svc))            // GET    /user/cart
		cartGroup.POST("/bill", cartControllers.Bill(svc))              // POST   /user/cart/bill
		cartGroup.GET("/:cart_id", cartControllers.GetItems(svc))       // GET    /user/cart/:cart_id
		cartGroup.POST("/:cart_id/items", cartControllers.AddItem(svc)) // POST /user/cart/:cart_id/items
		cartGroup.DELETE("/:cart_id", cartControllers.ClearCart(svc))   // DELETE /user/cart/:cart_id
	}
}
