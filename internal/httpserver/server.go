package httpserver

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	"menumate/internal/bus"
	"menumate/internal/logger"
	cartsvc "menumate/internal/service/cart"
	ordersvc "menumate/internal/service/order"
	publicsvc "menumate/internal/service/public"
)

// Deps bundles everything the router needs.
type Deps struct {
	Carts      *cartsvc.Service
	Orders     *ordersvc.Service
	Public     *publicsvc.Service
	Hub        *bus.Hub
	Identities identityRepo
	Log        *logger.Logger
}

// Server wraps the HTTP server setup.
type Server struct {
	httpServer *http.Server
	log        *logger.Logger
	db         *pgxpool.Pool
}

// New builds a Server with all API routes wired.
func New(addr string, db *pgxpool.Pool, deps Deps) *Server {
	router := buildRouter(db, deps)

	httpSrv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	return &Server{
		httpServer: httpSrv,
		log:        deps.Log,
		db:         db,
	}
}

// ListenAndServe starts the HTTP server.
func (s *Server) ListenAndServe() error {
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully stops the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

func healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func readyHandler(db *pgxpool.Pool) gin.HandlerFunc {
	return func(c *gin.Context) {
		if db == nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "reason": "db not configured"})
			return
		}
		ctx, cancel := context.WithTimeout(c.Request.Context(), time.Second)
		defer cancel()
		if err := db.Ping(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "reason": "db not reachable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	}
}
