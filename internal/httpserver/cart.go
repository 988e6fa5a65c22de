package httpserver

import (
	"github.com/gin-gonic/gin"

	"menumate/internal/domain"
	cartsvc "menumate/internal/service/cart"
)

// cartPayload is the wire shape of a cart. An absent cart serializes as an
// empty one so clients never branch on null.
type cartPayload struct {
	ID            string            `json:"id,omitempty"`
	ShopID        *string           `json:"shopId,omitempty"`
	FoodCourtID   *string           `json:"foodCourtId,omitempty"`
	Lines         []domain.CartLine `json:"items"`
	SubtotalCents int64             `json:"subtotalCents"`
}

func toCartPayload(cart *domain.Cart) cartPayload {
	if cart == nil {
		return cartPayload{Lines: []domain.CartLine{}}
	}
	lines := cart.Lines
	if lines == nil {
		lines = []domain.CartLine{}
	}
	return cartPayload{
		ID:            cart.ID,
		ShopID:        cart.ShopID,
		FoodCourtID:   cart.FoodCourtID,
		Lines:         lines,
		SubtotalCents: cart.SubtotalCents(),
	}
}

func getCartHandler(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		cart, err := deps.Carts.Get(c.Request.Context(), currentCustomer(c).ID)
		if err != nil {
			respondError(c, deps.Log, err)
			return
		}
		respondOK(c, "", toCartPayload(cart))
	}
}

func addCartLineHandler(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in cartsvc.AddLineInput
		if err := c.ShouldBindJSON(&in); err != nil {
			respondError(c, deps.Log, domain.Validationf("invalid request body"))
			return
		}
		cart, err := deps.Carts.AddLine(c.Request.Context(), currentCustomer(c).ID, in)
		if err != nil {
			respondError(c, deps.Log, err)
			return
		}
		respondOK(c, "Item added to cart", toCartPayload(cart))
	}
}

func removeCartLineHandler(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		cart, err := deps.Carts.RemoveLine(c.Request.Context(), currentCustomer(c).ID, c.Param("menuItemId"))
		if err != nil {
			respondError(c, deps.Log, err)
			return
		}
		respondOK(c, "Item removed from cart", toCartPayload(cart))
	}
}
