package models

// Order statuses. The forward path runs top to bottom; cancelled and
// refunded are side branches reachable from the status-update endpoint.
const (
	OrderPending        = "pending"
	OrderConfirmed      = "confirmed"
	OrderPreparing      = "preparing"
	OrderReadyForPickup = "ready_for_pickup"
	OrderDriverAssigned = "driver_assigned"
	OrderPickedUp       = "picked_up"
	OrderOutForDelivery = "out_for_delivery"
	OrderDelivered      = "delivered"
	OrderCancelled      = "cancelled"
	OrderRefunded       = "refunded"
)

// Driver statuses.
const (
	DriverAvailable = "available"
	DriverBusy      = "busy"
	DriverOffline   = "offline"
	DriverSuspended = "suspended"
)

// Actor kinds recorded in status history and cancellation metadata.
const (
	ActorUser   = "user"
	ActorDriver = "driver"
)

var orderStatuses = map[string]bool{
	OrderPending:        true,
	OrderConfirmed:      true,
	OrderPreparing:      true,
	OrderReadyForPickup: true,
	OrderDriverAssigned: true,
	OrderPickedUp:       true,
	OrderOutForDelivery: true,
	OrderDelivered:      true,
	OrderCancelled:      true,
	OrderRefunded:       true,
}

// ValidOrderStatus reports whether s is one of the ten known order statuses.
func ValidOrderStatus(s string) bool {
	return orderStatuses[s]
}

// AssignableStatuses are the order statuses from which a driver may be assigned.
var AssignableStatuses = []string{OrderConfirmed, OrderPreparing, OrderReadyForPickup}

// CancelableStatuses are the order statuses from which the cancel endpoint may act.
var CancelableStatuses = []string{OrderPending, OrderConfirmed}
