package repository

import (
	"context"
	"sort"
	"sync"

	"github.com/example/preorder/pkg/models"
)

// MemoryStore is an in-memory Store used by tests. The single mutex gives
// every operation, including UpdateOrder's read-modify-write, the same
// atomicity the MySQL store gets from transactions.
type MemoryStore struct {
	mu sync.Mutex

	categories map[uint]models.Category
	menuItems  map[uint]models.MenuItem
	orders     map[uint]models.Order

	nextCategoryID  uint
	nextMenuItemID  uint
	nextOrderID     uint
	nextOrderItemID uint
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		categories: make(map[uint]models.Category),
		menuItems:  make(map[uint]models.MenuItem),
		orders:     make(map[uint]models.Order),
	}
}

func (m *MemoryStore) CreateCategory(_ context.Context, c *models.Category) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextCategoryID++
	c.ID = m.nextCategoryID
	m.categories[c.ID] = *c
	return nil
}

func (m *MemoryStore) ListCategories(_ context.Context) ([]models.Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.Category, 0, len(m.categories))
	for _, c := range m.categories {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *MemoryStore) CreateMenuItem(_ context.Context, item *models.MenuItem) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextMenuItemID++
	item.ID = m.nextMenuItemID
	m.menuItems[item.ID] = *item
	return nil
}

func (m *MemoryStore) ListMenuItems(_ context.Context) ([]models.MenuItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.MenuItem, 0, len(m.menuItems))
	for _, item := range m.menuItems {
		out = append(out, item)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *MemoryStore) GetMenuItem(_ context.Context, id uint) (*models.MenuItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	item, ok := m.menuItems[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &item, nil
}

func (m *MemoryStore) UpdateMenuItem(_ context.Context, item *models.MenuItem) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.menuItems[item.ID]; !ok {
		return ErrNotFound
	}
	m.menuItems[item.ID] = *item
	return nil
}

func (m *MemoryStore) DeleteMenuItem(_ context.Context, id uint) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.menuItems[id]; !ok {
		return ErrNotFound
	}
	delete(m.menuItems, id)
	return nil
}

func (m *MemoryStore) CreateOrder(_ context.Context, o *models.Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextOrderID++
	o.ID = m.nextOrderID
	for i := range o.Items {
		m.nextOrderItemID++
		o.Items[i].ID = m.nextOrderItemID
		o.Items[i].OrderID = o.ID
	}
	m.orders[o.ID] = cloneOrder(*o)
	return nil
}

func (m *MemoryStore) ListOrders(_ context.Context, f OrderFilter) ([]models.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.Order, 0, len(m.orders))
	for _, o := range m.orders {
		if f.Status != "" && o.Status != f.Status {
			continue
		}
		out = append(out, cloneOrder(o))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *MemoryStore) GetOrder(_ context.Context, id uint) (*models.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.orders[id]
	if !ok {
		return nil, ErrNotFound
	}
	copied := cloneOrder(o)
	return &copied, nil
}

func (m *MemoryStore) UpdateOrder(_ context.Context, id uint, mutate func(*models.Order) error) (*models.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.orders[id]
	if !ok {
		return nil, ErrNotFound
	}
	working := cloneOrder(o)
	if err := mutate(&working); err != nil {
		return nil, err
	}
	m.orders[id] = cloneOrder(working)
	return &working, nil
}

func cloneOrder(o models.Order) models.Order {
	items := make([]models.OrderItem, len(o.Items))
	copy(items, o.Items)
	o.Items = items
	return o
}
