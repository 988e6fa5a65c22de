package httpserver

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
)

// buildRouter wires routes for the API.
func buildRouter(db *pgxpool.Pool, deps Deps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:    []string{"Origin", "Content-Type", "Authorization"},
	}))

	router.GET("/healthz", healthHandler)
	router.GET("/readyz", readyHandler(db))

	api := router.Group("/api")

	public := api.Group("/public")
	public.GET("/menu/:qrIdentifier", publicMenuHandler(deps))

	customer := api.Group("", requireCustomer(deps.Identities))
	customer.GET("/cart", getCartHandler(deps))
	customer.POST("/cart", addCartLineHandler(deps))
	customer.DELETE("/cart/items/:menuItemId", removeCartLineHandler(deps))
	customer.POST("/orders", placeOrderHandler(deps))
	customer.GET("/orders", myOrdersHandler(deps))
	customer.GET("/orders/:orderId", getOrderHandler(deps))
	customer.POST("/waiter-call", waiterCallHandler(deps))
	customer.GET("/realtime/customer", customerStreamHandler(deps))

	vendor := api.Group("/vendor", requireVendor(deps.Identities))
	vendor.GET("/shops/:shopId/orders", shopOrdersHandler(deps))
	vendor.PATCH("/orders/:orderId/status", updateOrderStatusHandler(deps))
	vendor.GET("/tables/:tableId/qr", tableQRHandler(deps))

	api.GET("/realtime/shops/:shopId", requireVendor(deps.Identities), shopStreamHandler(deps))

	return router
}
