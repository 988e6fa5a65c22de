package httpserver

import (
	"github.com/gin-gonic/gin"

	"menumate/internal/domain"
	ordersvc "menumate/internal/service/order"
)

func placeOrderHandler(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in ordersvc.PlaceInput
		if err := c.ShouldBindJSON(&in); err != nil {
			respondError(c, deps.Log, domain.Validationf("invalid request body"))
			return
		}
		result, err := deps.Orders.Place(c.Request.Context(), currentCustomer(c), in)
		if err != nil {
			respondError(c, deps.Log, err)
			return
		}
		respondCreated(c, "Order placed successfully!", result)
	}
}

func myOrdersHandler(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		orders, err := deps.Orders.MyOrders(c.Request.Context(), currentCustomer(c).ID)
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

func getOrderHandler(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		order, err := deps.Orders.GetOrder(c.Request.Context(), currentCustomer(c).ID, c.Param("orderId"))
		if err != nil {
			respondError(c, deps.Log, err)
			return
		}
		respondOK(c, "", order)
	}
}

func waiterCallHandler(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in ordersvc.WaiterCallInput
		if err := c.ShouldBindJSON(&in); err != nil {
			respondError(c, deps.Log, domain.Validationf("invalid request body"))
			return
		}
		if err := deps.Orders.CallWaiter(c.Request.Context(), currentCustomer(c), in); err != nil {
			respondError(c, deps.Log, err)
			return
		}
		respondOK(c, "Waiter has been called", nil)
	}
}
