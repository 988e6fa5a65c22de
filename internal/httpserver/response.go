package httpserver

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"menumate/internal/domain"
	"menumate/internal/logger"
)

type apiResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

func respondOK(c *gin.Context, message string, data any) {
	c.JSON(http.StatusOK, apiResponse{Success: true, Message: message, Data: data})
}

func respondCreated(c *gin.Context, message string, data any) {
	c.JSON(http.StatusCreated, apiResponse{Success: true, Message: message, Data: data})
}

// respondError maps domain errors to HTTP statuses in one place. Unknown
// errors log with detail but return a generic message; internals never
// leak to clients.
func respondError(c *gin.Context, log *logger.Logger, err error) {
	var placement *domain.PlacementError
	if errors.As(err, &placement) {
		c.JSON(http.StatusBadRequest, apiResponse{Success: false, Message: placement.Error()})
		return
	}

	switch {
	case errors.Is(err, domain.ErrValidation):
		c.JSON(http.StatusBadRequest, apiResponse{Success: false, Message: err.Error()})
	case errors.Is(err, domain.ErrNotFound):
		c.JSON(http.StatusNotFound, apiResponse{Success: false, Message: "not found"})
	case errors.Is(err, domain.ErrAccessDenied):
		c.JSON(http.StatusForbidden, apiResponse{Success: false, Message: "access denied"})
	case errors.Is(err, domain.ErrAlreadyExists):
		c.JSON(http.StatusConflict, apiResponse{Success: false, Message: "already exists"})
	default:
		log.Err("internal error", err, "path", c.FullPath())
		c.JSON(http.StatusInternalServerError, apiResponse{Success: false, Message: "internal server error"})
	}
}
