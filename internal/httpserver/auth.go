package httpserver

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"menumate/internal/domain"
)

const (
	customerKey = "principal.customer"
	vendorKey   = "principal.vendor"
)

type identityRepo interface {
	CustomerByToken(ctx context.Context, token string) (*domain.Customer, error)
	VendorByToken(ctx context.Context, token string) (*domain.Vendor, error)
}

func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if header == "" {
		// EventSource cannot set headers, so realtime endpoints accept the
		// token as a query parameter.
		return c.Query("token")
	}
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return ""
	}
	return strings.TrimPrefix(header, prefix)
}

// requireCustomer resolves the bearer token to a customer principal and
// aborts with 401 when it cannot.
func requireCustomer(identities identityRepo) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, apiResponse{Success: false, Message: "authentication required"})
			return
		}
		customer, err := identities.CustomerByToken(c.Request.Context(), token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, apiResponse{Success: false, Message: "invalid or expired token"})
			return
		}
		c.Set(customerKey, customer)
		c.Next()
	}
}

func requireVendor(identities identityRepo) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, apiResponse{Success: false, Message: "authentication required"})
			return
		}
		vendor, err := identities.VendorByToken(c.Request.Context(), token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, apiResponse{Success: false, Message: "invalid or expired token"})
			return
		}
		c.Set(vendorKey, vendor)
		c.Next()
	}
}

func currentCustomer(c *gin.Context) domain.Customer {
	v, _ := c.Get(customerKey)
	customer, _ := v.(*domain.Customer)
	if customer == nil {
		return domain.Customer{}
	}
	return *customer
}

func currentVendor(c *gin.Context) domain.Vendor {
	v, _ := c.Get(vendorKey)
	vendor, _ := v.(*domain.Vendor)
	if vendor == nil {
		return domain.Vendor{}
	}
	return *vendor
}
