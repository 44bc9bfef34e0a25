package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/example/preorder/pkg/config"
	"github.com/example/preorder/pkg/models"
)

// MySQLStore implements Store on top of gorm.
type MySQLStore struct {
	db *gorm.DB
}

func NewMySQLStore(cfg *config.MySQLConfig) (*MySQLStore, error) {
	db, err := gorm.Open(mysql.Open(cfg.DSN()), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MySQL: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to access connection pool: %w", err)
	}
	if cfg.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	}

	// Auto migrate
	if err := db.AutoMigrate(
		&models.Category{},
		&models.MenuItem{},
		&models.Order{},
		&models.OrderItem{},
	); err != nil {
		return nil, fmt.Errorf("failed to migrate: %w", err)
	}

	return &MySQLStore{db: db}, nil
}

func (s *MySQLStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (s *MySQLStore) CreateCategory(ctx context.Context, c *models.Category) error {
	return s.db.WithContext(ctx).Create(c).Error
}

func (s *MySQLStore) ListCategories(ctx context.Context) ([]models.Category, error) {
	var categories []models.Category
	if err := s.db.WithContext(ctx).Order("id").Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

func (s *MySQLStore) CreateMenuItem(ctx context.Context, item *models.MenuItem) error {
	return s.db.WithContext(ctx).Create(item).Error
}

func (s *MySQLStore) ListMenuItems(ctx context.Context) ([]models.MenuItem, error) {
	var items []models.MenuItem
	if err := s.db.WithContext(ctx).Order("id").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (s *MySQLStore) GetMenuItem(ctx context.Context, id uint) (*models.MenuItem, error) {
	var item models.MenuItem
	if err := s.db.WithContext(ctx).First(&item, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &item, nil
}

func (s *MySQLStore) UpdateMenuItem(ctx context.Context, item *models.MenuItem) error {
	return s.db.WithContext(ctx).Save(item).Error
}

func (s *MySQLStore) DeleteMenuItem(ctx context.Context, id uint) error {
	res := s.db.WithContext(ctx).Delete(&models.MenuItem{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// CreateOrder persists the header and every line in one transaction; gorm
// inserts the Items association together with the order.
func (s *MySQLStore) CreateOrder(ctx context.Context, o *models.Order) error {
	return s.db.WithContext(ctx).Create(o).Error
}

func (s *MySQLStore) ListOrders(ctx context.Context, f OrderFilter) ([]models.Order, error) {
	query := s.db.WithContext(ctx).Preload("Items").Order("id")
	if f.Status != "" {
		query = query.Where("status = ?", f.Status)
	}
	var orders []models.Order
	if err := query.Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

func (s *MySQLStore) GetOrder(ctx context.Context, id uint) (*models.Order, error) {
	var o models.Order
	if err := s.db.WithContext(ctx).Preload("Items").First(&o, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &o, nil
}

// UpdateOrder locks the order row for the duration of the transaction so a
// concurrent update cannot interleave between the read and the write.
func (s *MySQLStore) UpdateOrder(ctx context.Context, id uint, mutate func(*models.Order) error) (*models.Order, error) {
	var out *models.Order
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var o models.Order
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&o, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if err := tx.Where("order_id = ?", id).Order("id").Find(&o.Items).Error; err != nil {
			return err
		}
		if err := mutate(&o); err != nil {
			return err
		}
		// Lines are immutable; only the header is written back.
		if err := tx.Omit(clause.Associations).Save(&o).Error; err != nil {
			return err
		}
		out = &o
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
