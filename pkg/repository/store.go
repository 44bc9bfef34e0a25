package repository

import (
	"context"
	"errors"

	"github.com/example/preorder/pkg/models"
)

// ErrNotFound is returned when the requested entity does not exist.
var ErrNotFound = errors.New("not found")

// OrderFilter narrows order listings. A zero filter matches everything.
type OrderFilter struct {
	Status models.OrderStatus
}

// Store is the persistence boundary for the catalog and orders.
//
// CreateOrder must persist the order header and all of its lines as a single
// atomic unit. UpdateOrder must run mutate as an atomic read-modify-write:
// the order passed to mutate is current, and the write is not interleaved
// with concurrent updates of the same order.
type Store interface {
	CreateCategory(ctx context.Context, c *models.Category) error
	ListCategories(ctx context.Context) ([]models.Category, error)

	CreateMenuItem(ctx context.Context, item *models.MenuItem) error
	ListMenuItems(ctx context.Context) ([]models.MenuItem, error)
	GetMenuItem(ctx context.Context, id uint) (*models.MenuItem, error)
	UpdateMenuItem(ctx context.Context, item *models.MenuItem) error
	DeleteMenuItem(ctx context.Context, id uint) error

	CreateOrder(ctx context.Context, o *models.Order) error
	ListOrders(ctx context.Context, f OrderFilter) ([]models.Order, error)
	GetOrder(ctx context.Context, id uint) (*models.Order, error)
	UpdateOrder(ctx context.Context, id uint, mutate func(*models.Order) error) (*models.Order, error)
}
