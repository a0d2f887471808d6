package models

import (
	"time"
)

// SelectedOption is an option choice captured on an order line.
type SelectedOption struct {
	Name          string  `json:"name"`
	Choice        string  `json:"choice"`
	PriceModifier float64 `json:"priceModifier"`
}

// OrderItem is a snapshotted product purchase within an order. Name and
// price are captured at order time, independent of later catalog changes.
type OrderItem struct {
	ID                  uint             `gorm:"primaryKey" json:"id"`
	OrderID             uint             `gorm:"not null;index" json:"-"`
	ProductID           uint             `gorm:"not null;index" json:"product_id"`
	Name                string           `gorm:"not null" json:"name"`
	Price               float64          `gorm:"not null" json:"price"` // unit price incl. option modifiers
	Quantity            int              `gorm:"not null" json:"quantity"`
	Options             []SelectedOption `gorm:"serializer:json" json:"options,omitempty"`
	SpecialInstructions string           `json:"special_instructions,omitempty"`
	Subtotal            float64          `gorm:"not null" json:"subtotal"`
}

// TableName specifies the table name for the OrderItem model
func (OrderItem) TableName() string {
	return "order_items"
}

// OrderStatusHistory is one append-only entry in an order's status log.
// Rows are never updated, reordered or pruned.
type OrderStatusHistory struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	OrderID   uint      `gorm:"not null;index" json:"-"`
	Status    string    `gorm:"not null" json:"status"`
	Timestamp time.Time `gorm:"not null" json:"timestamp"`
	Note      string    `json:"note,omitempty"`
	ActorID   uint      `json:"actor_id,omitempty"`
	ActorKind string    `json:"actor_kind,omitempty"` // user or driver
}

// TableName specifies the table name for the OrderStatusHistory model
func (OrderStatusHistory) TableName() string {
	return "order_status_history"
}

// Pricing is the breakdown computed once at order creation. It is not
// recomputed on later mutations.
type Pricing struct {
	Subtotal     float64 `json:"subtotal"`
	DeliveryFee  float64 `json:"deliveryFee"`
	Discount     float64 `json:"discount"`
	DiscountCode string  `json:"discountCode,omitempty"`
	Tax          float64 `json:"tax"`
	Total        float64 `json:"total"` // subtotal + deliveryFee - discount + tax
}

// Payment is the stored payment sub-record. Payment is not processed by
// this system; status is a stored field.
type Payment struct {
	Method        string     `json:"method"` // cash, credit_card, bank_transfer, promptpay, wallet
	Status        string     `json:"status"` // pending, paid, failed, refunded
	TransactionID string     `json:"transactionId,omitempty"`
	PaidAt        *time.Time `json:"paidAt,omitempty"`
}

// OrderRating is the post-delivery rating, settable at most once.
type OrderRating struct {
	Food     int       `json:"food,omitempty"`     // 1-5
	Delivery int       `json:"delivery,omitempty"` // 1-5
	Comment  string    `json:"comment,omitempty"`
	RatedAt  time.Time `json:"ratedAt"`
}

// Order represents a customer order and its embedded lifecycle state.
//
// OrderNumber is unique and immutable once set. Every assignment of
// Status, including the initial one, appends exactly one history entry.
// Orders are never hard-deleted.
type Order struct {
	ID                    uint                 `gorm:"primaryKey" json:"id"`
	OrderNumber           string               `gorm:"uniqueIndex;not null" json:"order_number"`
	CustomerID            uint                 `gorm:"not null;index" json:"customer_id"`
	Customer              *User                `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`
	Items                 []OrderItem          `gorm:"foreignKey:OrderID" json:"items"`
	DeliveryAddress       Address              `gorm:"serializer:json" json:"delivery_address"`
	Pricing               Pricing              `gorm:"serializer:json" json:"pricing"`
	Payment               Payment              `gorm:"serializer:json" json:"payment"`
	Status                string               `gorm:"not null;default:'pending';index" json:"status"`
	StatusHistory         []OrderStatusHistory `gorm:"foreignKey:OrderID" json:"status_history,omitempty"`
	DriverID              *uint                `gorm:"index" json:"driver_id,omitempty"`
	Driver                *Driver              `gorm:"foreignKey:DriverID" json:"driver,omitempty"`
	DriverAssignedAt      *time.Time           `json:"driver_assigned_at,omitempty"`
	ZoneID                *uint                `json:"zone_id,omitempty"`
	EstimatedDeliveryTime *time.Time           `json:"estimated_delivery_time,omitempty"`
	ActualDeliveryTime    *time.Time           `json:"actual_delivery_time,omitempty"`
	ScheduledFor          *time.Time           `json:"scheduled_for,omitempty"`
	Notes                 string               `json:"notes,omitempty"`
	CancelReason          string               `json:"cancel_reason,omitempty"`
	CancelledByID         *uint                `json:"cancelled_by_id,omitempty"`
	CancelledByKind       string               `json:"cancelled_by_kind,omitempty"`
	Rating                *OrderRating         `gorm:"serializer:json" json:"rating,omitempty"`
	CreatedAt             time.Time            `json:"created_at"`
	UpdatedAt             time.Time            `json:"updated_at"`
}

// TableName specifies the table name for the Order model
func (Order) TableName() string {
	return "orders"
}

// OrderCounter holds the daily sequence used for order numbers. One row
// per calendar day, keyed by the YYYYMMDD date string; the row is
// upserted inside the order-creation transaction so concurrent creates
// serialize on it.
type OrderCounter struct {
	ID   uint   `gorm:"primaryKey"`
	Date string `gorm:"uniqueIndex;not null;size:8"`
	Seq  int    `gorm:"not null;default:0"`
}

// TableName specifies the table name for the OrderCounter model
func (OrderCounter) TableName() string {
	return "order_counters"
}
