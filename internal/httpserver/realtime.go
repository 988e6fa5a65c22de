package httpserver

import (
	"encoding/json"
	"io"

	"github.com/gin-gonic/gin"

	"menumate/internal/bus"
	"menumate/internal/domain"
)

// streamRoom serves one room's events as SSE until the client disconnects.
// Missed events are not replayed; clients refetch state over the read
// endpoints after reconnecting.
func streamRoom(c *gin.Context, hub *bus.Hub, room string) {
	sub := hub.Subscribe(room)
	defer hub.Unsubscribe(sub)

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")

	c.Stream(func(w io.Writer) bool {
		select {
		case ev, ok := <-sub.C():
			if !ok {
				return false
			}
			data, err := json.Marshal(ev.Payload)
			if err != nil {
				return true
			}
			c.SSEvent(string(ev.Type), string(data))
			return true
		case <-c.Request.Context().Done():
			return false
		}
	})
}

func customerStreamHandler(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		streamRoom(c, deps.Hub, domain.CustomerRoom(currentCustomer(c).ID))
	}
}

// shopStreamHandler joins the shop's room after an ownership check, so a
// vendor cannot listen in on another shop's orders.
func shopStreamHandler(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		shopID := c.Param("shopId")
		if err := deps.Public.CheckShopOwnership(c.Request.Context(), currentVendor(c), shopID); err != nil {
			respondError(c, deps.Log, err)
			return
		}
		streamRoom(c, deps.Hub, domain.ShopRoom(shopID))
	}
}
