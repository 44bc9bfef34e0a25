package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/example/preorder/pkg/models"
	"github.com/example/preorder/pkg/repository"
)

type createCategoryReq struct {
	Name string `json:"name" binding:"required,min=1,max=100"`
}

func (s *Server) createCategory(c *gin.Context) {
	var req createCategoryReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	category := &models.Category{Name: req.Name}
	if err := s.store.CreateCategory(c.Request.Context(), category); err != nil {
		s.domainError(c, err, "category not found")
		return
	}
	c.JSON(http.StatusCreated, category)
}

func (s *Server) listCategories(c *gin.Context) {
	categories, err := s.store.ListCategories(c.Request.Context())
	if err != nil {
		s.domainError(c, err, "category not found")
		return
	}
	c.JSON(http.StatusOK, categories)
}

type createMenuItemReq struct {
	Name       string  `json:"name" binding:"required,min=1,max=120"`
	Price      float64 `json:"price" binding:"required,gt=0"`
	CategoryID *uint   `json:"category_id"`
}

func (s *Server) createMenuItem(c *gin.Context) {
	var req createMenuItemReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	item := &models.MenuItem{
		Name:       req.Name,
		Price:      req.Price,
		CategoryID: req.CategoryID,
	}
	if err := s.store.CreateMenuItem(c.Request.Context(), item); err != nil {
		s.domainError(c, err, "menu item not found")
		return
	}
	c.JSON(http.StatusCreated, item)
}

func (s *Server) listMenuItems(c *gin.Context) {
	items, err := s.store.ListMenuItems(c.Request.Context())
	if err != nil {
		s.domainError(c, err, "menu item not found")
		return
	}
	c.JSON(http.StatusOK, items)
}

func (s *Server) getMenuItem(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "menu item not found"})
		return
	}
	item, err := s.store.GetMenuItem(c.Request.Context(), id)
	if err != nil {
		s.domainError(c, err, "menu item not found")
		return
	}
	c.JSON(http.StatusOK, item)
}

// updateMenuItemReq carries partial-update fields: nil means unchanged.
// JSON null is not distinguished from an absent field.
type updateMenuItemReq struct {
	Name       *string  `json:"name" binding:"omitempty,min=1,max=120"`
	Price      *float64 `json:"price" binding:"omitempty,gt=0"`
	CategoryID *uint    `json:"category_id"`
}

func (s *Server) updateMenuItem(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "menu item not found"})
		return
	}

	var req updateMenuItemReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	ctx := c.Request.Context()
	item, err := s.store.GetMenuItem(ctx, id)
	if err != nil {
		s.domainError(c, err, "menu item not found")
		return
	}

	changed := false
	if req.Name != nil {
		item.Name = *req.Name
		changed = true
	}
	if req.Price != nil {
		item.Price = *req.Price
		changed = true
	}
	if req.CategoryID != nil {
		item.CategoryID = req.CategoryID
		changed = true
	}
	if changed {
		if err := s.store.UpdateMenuItem(ctx, item); err != nil {
			s.domainError(c, err, "menu item not found")
			return
		}
	}
	c.JSON(http.StatusOK, item)
}

func (s *Server) deleteMenuItem(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "menu item not found"})
		return
	}
	if err := s.store.DeleteMenuItem(c.Request.Context(), id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "menu item not found"})
			return
		}
		s.domainError(c, err, "menu item not found")
		return
	}
	c.Status(http.StatusNoContent)
}
