// Package api serves the preorder HTTP surface: catalog CRUD and the
// order workflow.
package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"github.com/example/preorder/pkg/models"
	"github.com/example/preorder/pkg/ordering"
	"github.com/example/preorder/pkg/repository"
)

// Cache holds full orders keyed by id; implemented by repository.RedisCache.
type Cache interface {
	CacheOrder(ctx context.Context, o *models.Order) error
	GetOrder(ctx context.Context, id uint) (*models.Order, error)
	InvalidateOrder(ctx context.Context, id uint) error
}

// Auditor records order mutations; implemented by repository.MongoAudit.
type Auditor interface {
	Log(ctx context.Context, action string, orderID uint, data map[string]interface{}) error
	Recent(ctx context.Context, orderID uint, limit int64) ([]repository.AuditEntry, error)
}

type Server struct {
	store  repository.Store
	cache  Cache
	audit  Auditor
	logger *zap.Logger
	router *gin.Engine

	// now is the clock for lead-time checks; tests pin it.
	now func() time.Time
}

// NewServer wires the routes. cache and audit may be nil; the order flow
// then skips caching and audit logging.
func NewServer(store repository.Store, cache Cache, audit Auditor, logger *zap.Logger) *Server {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(loggerMiddleware(logger))

	s := &Server{
		store:  store,
		cache:  cache,
		audit:  audit,
		logger: logger,
		router: router,
		now:    time.Now,
	}
	s.setupRoutes()
	return s
}

func (s *Server) Router() *gin.Engine {
	return s.router
}

func (s *Server) setupRoutes() {
	// Health check
	s.router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	categories := s.router.Group("/categories")
	{
		categories.POST("", s.createCategory)
		categories.GET("", s.listCategories)
	}

	menuItems := s.router.Group("/menu-items")
	{
		menuItems.POST("", s.createMenuItem)
		menuItems.GET("", s.listMenuItems)
		menuItems.GET("/:id", s.getMenuItem)
		menuItems.PATCH("/:id", s.updateMenuItem)
		menuItems.DELETE("/:id", s.deleteMenuItem)
	}

	orders := s.router.Group("/orders")
	{
		orders.POST("", s.createOrder)
		orders.GET("", s.listOrders)
		orders.GET("/:id", s.getOrder)
		orders.PATCH("/:id", s.updateOrder)
		orders.POST("/:id/cancel", s.cancelOrder)
		orders.GET("/:id/audit", s.orderAudit)
	}

	// Swagger
	s.router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}

// domainError maps calculator and store failures for the order routes:
// validation problems are client errors, unknown ids are not found.
func (s *Server) domainError(c *gin.Context, err error, notFoundMsg string) {
	var verr *ordering.ValidationError
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, gin.H{"error": verr.Error()})
	case errors.Is(err, repository.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": notFoundMsg})
	default:
		s.logger.Error("request failed",
			zap.String("path", c.Request.URL.Path),
			zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

func parseID(raw string) (uint, error) {
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		return 0, ordering.Invalidf("invalid id %q", raw)
	}
	return uint(id), nil
}

func loggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery

		c.Next()

		logger.Info("HTTP request",
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.String("query", query),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
		)
	}
}
