package httpserver

import (
	"github.com/gin-gonic/gin"
)

// publicMenuHandler serves the menu reached by scanning a table's QR code.
// No authentication; the QR identifier is the only input.
func publicMenuHandler(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		menu, err := deps.Public.MenuByQR(c.Request.Context(), c.Param("qrIdentifier"))
		if err != nil {
			respondError(c, deps.Log, err)
			return
		}
		respondOK(c, "", menu)
	}
}
