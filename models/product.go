package models

import (
	"time"
)

// OptionChoice is a selectable choice within a product option group.
type OptionChoice struct {
	Name          string  `json:"name"`
	PriceModifier float64 `json:"priceModifier"` // may be negative
}

// ProductOption is a configurable option group on a product, e.g. size or spice level.
type ProductOption struct {
	Name    string         `json:"name"`
	Choices []OptionChoice `json:"choices"`
}

// Product represents a catalog item.
type Product struct {
	ID              uint            `gorm:"primaryKey" json:"id"`
	Name            string          `gorm:"not null" json:"name"`
	Description     string          `json:"description,omitempty"`
	Price           float64         `gorm:"not null" json:"price"`
	OriginalPrice   *float64        `json:"original_price,omitempty"`
	CategoryID      uint            `gorm:"not null;index" json:"category_id"`
	Category        *Category       `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	Image           string          `json:"image,omitempty"`
	SKU             *string         `gorm:"uniqueIndex" json:"sku,omitempty"`
	Stock           int             `gorm:"not null;default:0" json:"stock"`
	IsAvailable     bool            `gorm:"not null" json:"is_available"`
	IsActive        bool            `gorm:"not null" json:"is_active"`
	Options         []ProductOption `gorm:"serializer:json" json:"options,omitempty"`
	PreparationTime int             `gorm:"not null;default:15" json:"preparation_time"` // minutes
	Tags            []string        `gorm:"serializer:json" json:"tags,omitempty"`
	RatingAverage   float64         `gorm:"not null;default:0" json:"rating_average"`
	RatingCount     int             `gorm:"not null;default:0" json:"rating_count"`
	SoldCount       int             `gorm:"not null;default:0" json:"sold_count"` // incremented on delivery completion
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// TableName specifies the table name for the Product model
func (Product) TableName() string {
	return "products"
}

// Category groups products in the catalog.
type Category struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"uniqueIndex;not null" json:"name"`
	Description string    `json:"description,omitempty"`
	Image       string    `json:"image,omitempty"`
	SortOrder   int       `gorm:"not null;default:0" json:"sort_order"`
	IsActive    bool      `gorm:"not null" json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TableName specifies the table name for the Category model
func (Category) TableName() string {
	return "categories"
}
