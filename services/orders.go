package services

import (
	"time"

	"gorm.io/gorm"

	"github.com/fooddrop/delivery-api/apperr"
	"github.com/fooddrop/delivery-api/models"
)

// CreateOrderInput is the checkout request after binding.
type CreateOrderInput struct {
	Items           []QuoteItem
	DeliveryAddress models.Address
	PaymentMethod   string
	Notes           string
	ScheduledFor    *time.Time
}

// OrderService creates orders: pricing, order-number reservation,
// snapshot persistence and the initial history entry happen in one
// transaction.
type OrderService struct {
	db      *gorm.DB
	pricing *PricingService
}

// NewOrderService creates an OrderService.
func NewOrderService(db *gorm.DB, pricing *PricingService) *OrderService {
	return &OrderService{db: db, pricing: pricing}
}

// Create prices the requested items and persists a new pending order.
// The order number is reserved from the per-day counter inside the same
// transaction, so concurrent checkouts get distinct numbers.
func (s *OrderService) Create(customerID uint, input CreateOrderInput) (*models.Order, error) {
	now := time.Now()

	quote, err := s.pricing.Quote(input.Items, input.DeliveryAddress, 0, 0, now)
	if err != nil {
		return nil, err
	}

	method := input.PaymentMethod
	if method == "" {
		method = "cash"
	}

	order := &models.Order{
		CustomerID:      customerID,
		Items:           quote.Items,
		DeliveryAddress: input.DeliveryAddress,
		Pricing:         quote.Pricing,
		Payment: models.Payment{
			Method: method,
			Status: "pending",
		},
		Status:                models.OrderPending,
		ZoneID:                quote.ZoneID,
		EstimatedDeliveryTime: &quote.EstimatedDeliveryTime,
		ScheduledFor:          input.ScheduledFor,
		Notes:                 input.Notes,
	}
	err = s.db.Transaction(func(tx *gorm.DB) error {
		number, err := NextOrderNumber(tx, now)
		if err != nil {
			return apperr.Wrap(apperr.Internal, "Failed to generate order number", err)
		}
		order.OrderNumber = number

		if err := tx.Create(order).Error; err != nil {
			return apperr.Wrap(apperr.Internal, "Failed to create order", err)
		}

		// The initial status assignment appends a history entry like
		// every later one.
		actor := Actor{ID: customerID, Kind: models.ActorUser, Role: "customer"}
		if err := appendHistory(tx, order.ID, models.OrderPending, "", actor, now); err != nil {
			return apperr.Wrap(apperr.Internal, "Failed to append status history", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return order, nil
}
