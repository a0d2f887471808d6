package services

import (
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/fooddrop/delivery-api/apperr"
	"github.com/fooddrop/delivery-api/models"
)

const (
	// DefaultDeliveryFee applies when no active zone covers the address.
	DefaultDeliveryFee = 40.0

	// PreparationWindow is added to the creation time to estimate delivery.
	PreparationWindow = 45 * time.Minute
)

// QuoteItem is one requested order line before pricing.
type QuoteItem struct {
	ProductID           uint                    `json:"product" binding:"required"`
	Quantity            int                     `json:"quantity" binding:"required,gte=1"`
	Options             []models.SelectedOption `json:"options"`
	SpecialInstructions string                  `json:"special_instructions"`
}

// Quote is the priced result of a checkout request.
type Quote struct {
	Items                 []models.OrderItem
	Pricing               models.Pricing
	ZoneID                *uint
	EstimatedDeliveryTime time.Time
}

// PricingService computes order pricing from the catalog and zone
// configuration. It performs no writes.
type PricingService struct {
	db *gorm.DB
}

// NewPricingService creates a PricingService backed by the given database handle.
func NewPricingService(db *gorm.DB) *PricingService {
	return &PricingService{db: db}
}

// Quote prices the requested items and delivery address.
//
// Each line is snapshotted: unit price = product base price plus the
// selected option modifiers (which may be negative), line subtotal =
// unit price x quantity. The delivery fee comes from the active zone
// covering the address's postal code, zeroed when the subtotal reaches
// the zone's free-delivery minimum; without a matching zone the default
// fee applies. Discount and tax are taken as supplied.
func (s *PricingService) Quote(items []QuoteItem, address models.Address, discount, tax float64, now time.Time) (*Quote, error) {
	if len(items) == 0 {
		return nil, apperr.New(apperr.Validation, "Order must contain at least one item")
	}

	var subtotal float64
	orderItems := make([]models.OrderItem, 0, len(items))

	for _, item := range items {
		if item.Quantity < 1 {
			return nil, apperr.New(apperr.Validation, "Item quantity must be at least 1")
		}

		var product models.Product
		if err := s.db.First(&product, item.ProductID).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return nil, apperr.New(apperr.NotFound, fmt.Sprintf("Product %d not found", item.ProductID))
			}
			return nil, apperr.Wrap(apperr.Internal, "Failed to load product", err)
		}
		if !product.IsAvailable {
			return nil, apperr.New(apperr.InvalidState, fmt.Sprintf("Product %s is not available", product.Name))
		}

		unitPrice := product.Price
		for _, opt := range item.Options {
			unitPrice += opt.PriceModifier
		}

		lineSubtotal := unitPrice * float64(item.Quantity)
		subtotal += lineSubtotal

		orderItems = append(orderItems, models.OrderItem{
			ProductID:           product.ID,
			Name:                product.Name,
			Price:               unitPrice,
			Quantity:            item.Quantity,
			Options:             item.Options,
			SpecialInstructions: item.SpecialInstructions,
			Subtotal:            lineSubtotal,
		})
	}

	deliveryFee := DefaultDeliveryFee
	var zoneID *uint

	if address.PostalCode != "" {
		zone, err := s.FindZone(address.PostalCode)
		if err != nil {
			return nil, err
		}
		if zone != nil {
			zoneID = &zone.ID
			deliveryFee = zone.DeliveryFee
			if zone.FreeDeliveryMinimum != nil && subtotal >= *zone.FreeDeliveryMinimum {
				deliveryFee = 0
			}
		}
	}

	return &Quote{
		Items: orderItems,
		Pricing: models.Pricing{
			Subtotal:    subtotal,
			DeliveryFee: deliveryFee,
			Discount:    discount,
			Tax:         tax,
			Total:       subtotal + deliveryFee - discount + tax,
		},
		ZoneID:                zoneID,
		EstimatedDeliveryTime: now.Add(PreparationWindow),
	}, nil
}

// FindZone returns the active zone whose area list contains the postal
// code, or nil when no zone covers it. Zone areas are stored as JSON,
// so coverage is checked in memory.
func (s *PricingService) FindZone(postalCode string) (*models.DeliveryZone, error) {
	var zones []models.DeliveryZone
	if err := s.db.Where("is_active = ?", true).Find(&zones).Error; err != nil {
		return nil, apperr.Wrap(apperr.Internal, "Failed to load delivery zones", err)
	}
	for i := range zones {
		if zones[i].Covers(postalCode) {
			return &zones[i], nil
		}
	}
	return nil, nil
}
