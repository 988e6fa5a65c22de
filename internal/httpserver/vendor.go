package httpserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"menumate/internal/domain"
)

func shopOrdersHandler(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		orders, err := deps.Orders.ListShopOrders(
			c.Request.Context(),
			currentVendor(c),
			c.Param("shopId"),
			c.Query("status"),
		)
		if err != nil {
			respondError(c, deps.Log, err)
			return
		}
		if orders == nil {
			orders = []domain.Order{}
		}
		respondOK(c, "", orders)
	}
}

type statusUpdateRequest struct {
	Status string `json:"status"`
}

func updateOrderStatusHandler(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in statusUpdateRequest
		if err := c.ShouldBindJSON(&in); err != nil {
			respondError(c, deps.Log, domain.Validationf("invalid request body"))
			return
		}
		order, err := deps.Orders.UpdateStatus(c.Request.Context(), currentVendor(c), c.Param("orderId"), in.Status)
		if err != nil {
			respondError(c, deps.Log, err)
			return
		}
		respondOK(c, "Order status updated", order)
	}
}

// tableQRHandler renders the table's menu link as a PNG for printing.
func tableQRHandler(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		png, err := deps.Public.TableQRPNG(c.Request.Context(), currentVendor(c), c.Param("tableId"))
		if err != nil {
			respondError(c, deps.Log, err)
			return
		}
		c.Data(http.StatusOK, "image/png", png)
	}
}
