package models

import (
	"time"
)

// ZoneArea is a postal area covered by a delivery zone.
type ZoneArea struct {
	District    string `json:"district,omitempty"`
	SubDistrict string `json:"subDistrict,omitempty"`
	PostalCode  string `json:"postalCode"`
}

// DeliveryZone is a geographic grouping of postal-code areas with its
// own delivery fee and free-delivery threshold.
type DeliveryZone struct {
	ID                  uint       `gorm:"primaryKey" json:"id"`
	Name                string     `gorm:"uniqueIndex;not null" json:"name"`
	Description         string     `json:"description,omitempty"`
	Areas               []ZoneArea `gorm:"serializer:json" json:"areas"`
	DeliveryFee         float64    `gorm:"not null" json:"delivery_fee"`
	FreeDeliveryMinimum *float64   `json:"free_delivery_minimum,omitempty"` // subtotal at which the fee drops to zero
	MinOrderAmount      float64    `gorm:"not null;default:0" json:"min_order_amount"`
	EstimatedMinMinutes int        `gorm:"not null;default:20" json:"estimated_min_minutes"`
	EstimatedMaxMinutes int        `gorm:"not null;default:45" json:"estimated_max_minutes"`
	IsActive            bool       `gorm:"not null" json:"is_active"`
	MaxConcurrentOrders int        `gorm:"not null;default:50" json:"max_concurrent_orders"`
	CreatedAt           time.Time  `json:"created_at"`
	UpdatedAt           time.Time  `json:"updated_at"`
}

// TableName specifies the table name for the DeliveryZone model
func (DeliveryZone) TableName() string {
	return "delivery_zones"
}

// Covers reports whether the zone's area list contains the postal code.
func (z *DeliveryZone) Covers(postalCode string) bool {
	for _, area := range z.Areas {
		if area.PostalCode == postalCode {
			return true
		}
	}
	return false
}
