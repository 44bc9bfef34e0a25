package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/example/preorder/pkg/models"
	"github.com/example/preorder/pkg/ordering"
	"github.com/example/preorder/pkg/repository"
)

type orderLineReq struct {
	ItemID   uint `json:"item_id" binding:"required"`
	Quantity int  `json:"quantity" binding:"required,gt=0"`
}

type createOrderReq struct {
	CustomerName string         `json:"customer_name" binding:"required,max=100"`
	Phone        string         `json:"phone" binding:"required,max=32"`
	PickupTime   time.Time      `json:"pickup_time" binding:"required"`
	PrepMinutes  int            `json:"prep_minutes" binding:"omitempty,gt=0"`
	Items        []orderLineReq `json:"items" binding:"required,min=1,dive"`
}

func (s *Server) createOrder(c *gin.Context) {
	var req createOrderReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	now := s.now()
	sendTime, err := ordering.ValidateAndDeriveSendTime(req.PickupTime, req.PrepMinutes, now)
	if err != nil {
		s.domainError(c, err, "order not found")
		return
	}

	ctx := c.Request.Context()
	lines := make([]ordering.LineRequest, len(req.Items))
	for i, it := range req.Items {
		lines[i] = ordering.LineRequest{ItemID: it.ItemID, Quantity: it.Quantity}
	}
	resolved, total, err := ordering.ComputeOrderTotals(lines, func(itemID uint) (float64, error) {
		item, err := s.store.GetMenuItem(ctx, itemID)
		if err != nil {
			return 0, err
		}
		return item.Price, nil
	})
	if err != nil {
		s.domainError(c, err, "order not found")
		return
	}

	prepMinutes := req.PrepMinutes
	if prepMinutes <= 0 {
		prepMinutes = ordering.DefaultPrepMinutes
	}

	order := &models.Order{
		CustomerName: req.CustomerName,
		Phone:        req.Phone,
		PickupTime:   req.PickupTime,
		SendTime:     sendTime,
		PrepMinutes:  prepMinutes,
		Status:       models.StatusPending,
		TotalAmount:  total,
		CreatedAt:    now,
		Items:        make([]models.OrderItem, len(resolved)),
	}
	for i, line := range resolved {
		order.Items[i] = models.OrderItem{
			ItemID:    line.ItemID,
			Quantity:  line.Quantity,
			UnitPrice: line.UnitPrice,
			Subtotal:  line.Subtotal,
		}
	}

	// Header and lines land in one transaction.
	if err := s.store.CreateOrder(ctx, order); err != nil {
		s.domainError(c, err, "order not found")
		return
	}

	s.cacheOrder(ctx, order)
	s.auditAsync("create_order", order.ID, map[string]interface{}{
		"customer_name": order.CustomerName,
		"total_amount":  order.TotalAmount,
		"pickup_time":   order.PickupTime,
	})

	c.JSON(http.StatusCreated, order)
}

func (s *Server) listOrders(c *gin.Context) {
	var filter repository.OrderFilter
	if raw := c.Query("status"); raw != "" {
		status := models.OrderStatus(raw)
		if !status.Valid() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid status " + raw})
			return
		}
		filter.Status = status
	}

	orders, err := s.store.ListOrders(c.Request.Context(), filter)
	if err != nil {
		s.domainError(c, err, "order not found")
		return
	}
	c.JSON(http.StatusOK, orders)
}

func (s *Server) getOrder(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
		return
	}

	ctx := c.Request.Context()
	if s.cache != nil {
		if cached, err := s.cache.GetOrder(ctx, id); err == nil {
			c.JSON(http.StatusOK, cached)
			return
		}
	}

	order, err := s.store.GetOrder(ctx, id)
	if err != nil {
		s.domainError(c, err, "order not found")
		return
	}
	s.cacheOrder(ctx, order)
	c.JSON(http.StatusOK, order)
}

// updateOrderReq carries partial-update fields: nil means unchanged.
type updateOrderReq struct {
	PickupTime *time.Time `json:"pickup_time"`
	Status     *string    `json:"status"`
}

func (s *Server) updateOrder(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
		return
	}

	var req updateOrderReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx := c.Request.Context()
	if req.PickupTime == nil && req.Status == nil {
		// Nothing to change; no write.
		order, err := s.store.GetOrder(ctx, id)
		if err != nil {
			s.domainError(c, err, "order not found")
			return
		}
		c.JSON(http.StatusOK, order)
		return
	}

	now := s.now()
	order, err := s.store.UpdateOrder(ctx, id, func(o *models.Order) error {
		if req.PickupTime != nil {
			sendTime, err := ordering.ValidateAndDeriveSendTime(*req.PickupTime, o.PrepMinutes, now)
			if err != nil {
				return err
			}
			o.PickupTime = *req.PickupTime
			o.SendTime = sendTime
		}
		if req.Status != nil {
			status := models.OrderStatus(*req.Status)
			if !status.Valid() {
				return ordering.Invalidf("invalid status %q", *req.Status)
			}
			o.Status = status
		}
		return nil
	})
	if err != nil {
		s.domainError(c, err, "order not found")
		return
	}

	s.invalidateOrder(ctx, id)
	s.auditAsync("update_order", id, map[string]interface{}{
		"pickup_time": order.PickupTime,
		"status":      order.Status,
	})

	c.JSON(http.StatusOK, order)
}

func (s *Server) cancelOrder(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
		return
	}

	ctx := c.Request.Context()
	order, err := s.store.UpdateOrder(ctx, id, func(o *models.Order) error {
		if o.Status == models.StatusPickedUp {
			return ordering.Invalidf("order already picked up")
		}
		// Cancelling a cancelled order is a no-op, not an error.
		o.Status = models.StatusCancelled
		return nil
	})
	if err != nil {
		s.domainError(c, err, "order not found")
		return
	}

	s.invalidateOrder(ctx, id)
	s.auditAsync("cancel_order", id, map[string]interface{}{
		"status": order.Status,
	})

	c.JSON(http.StatusOK, order)
}

func (s *Server) orderAudit(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
		return
	}
	if s.audit == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "audit log unavailable"})
		return
	}

	ctx := c.Request.Context()
	if _, err := s.store.GetOrder(ctx, id); err != nil {
		s.domainError(c, err, "order not found")
		return
	}

	entries, err := s.audit.Recent(ctx, id, 20)
	if err != nil {
		s.domainError(c, err, "order not found")
		return
	}
	c.JSON(http.StatusOK, entries)
}

func (s *Server) cacheOrder(ctx context.Context, o *models.Order) {
	if s.cache == nil {
		return
	}
	if err := s.cache.CacheOrder(ctx, o); err != nil {
		s.logger.Warn("order cache write failed", zap.Uint("order_id", o.ID), zap.Error(err))
	}
}

func (s *Server) invalidateOrder(ctx context.Context, id uint) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateOrder(ctx, id); err != nil {
		s.logger.Warn("order cache invalidation failed", zap.Uint("order_id", id), zap.Error(err))
	}
}

func (s *Server) auditAsync(action string, orderID uint, data map[string]interface{}) {
	if s.audit == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.audit.Log(ctx, action, orderID, data); err != nil {
			s.logger.Warn("audit log write failed",
				zap.String("action", action),
				zap.Uint("order_id", orderID),
				zap.Error(err))
		}
	}()
}
