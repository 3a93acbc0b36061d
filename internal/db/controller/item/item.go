// Package item provides database access to inventory item records.
package item

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/gudangku/gudangku/internal/db/models"
)

// Controller provides read and write access to item records.
type Controller struct {
	db *gorm.DB
}

// New creates a new item controller.
func New(db *gorm.DB) *Controller {
	return &Controller{db: db}
}

// List returns items, optionally filtered by a case-insensitive name match.
func (c *Controller) List(ctx context.Context, name string) ([]models.Item, error) {
	var items []models.Item

	q := c.db.WithContext(ctx)
	if name != "" {
		q = q.Where("name LIKE ?", "%"+name+"%")
	}

	if err := q.Order("name").Find(&items).Error; err != nil {
		return nil, fmt.Errorf("failed to list items: %w", err)
	}

	return items, nil
}

// ByID resolves an item by its id; a missing record yields (nil, nil).
func (c *Controller) ByID(ctx context.Context, id string) (*models.Item, error) {
	var it models.Item

	err := c.db.WithContext(ctx).Where("id = ?", id).First(&it).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}

		return nil, fmt.Errorf("failed to query item by id: %w", err)
	}

	return &it, nil
}

// Insert stores a single new item record.
func (c *Controller) Insert(ctx context.Context, it *models.Item) error {
	if err := c.db.WithContext(ctx).Create(it).Error; err != nil {
		return fmt.Errorf("failed to create item: %w", err)
	}

	return nil
}

// InsertBatch stores a set of item records in one transaction so a
// partial sync never leaves half the batch behind.
func (c *Controller) InsertBatch(ctx context.Context, items []models.Item) error {
	if len(items) == 0 {
		return nil
	}

	err := c.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i := range items {
			if err := tx.Create(&items[i]).Error; err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to sync items: %w", err)
	}

	return nil
}
