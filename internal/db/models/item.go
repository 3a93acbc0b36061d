package models

import "time"

// Item represents an inventory item record.
type Item struct {
	// ID is the unique identifier for the item (uuid v4).
	ID string `gorm:"primaryKey;size:36"`
	// Name is the item name.
	Name string `gorm:"size:255;not null;index"`
	// Price is the unit price in the smallest currency denomination.
	Price int `gorm:"not null"`
	// Stock is the current stock count.
	Stock int `gorm:"not null"`
	// ExpiredAt is the optional expiry date of the stock.
	ExpiredAt *time.Time
	// CreatedAt is the timestamp when the item was created (managed by GORM).
	CreatedAt time.Time
	// UpdatedAt is the timestamp when the item was last updated (managed by GORM).
	UpdatedAt time.Time
}

// TableName specifies the database table name for the Item model.
func (Item) TableName() string {
	return "items"
}
