package services

import (
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/fooddrop/delivery-api/apperr"
	"github.com/fooddrop/delivery-api/models"
)

// Actor identifies who performed a mutation, recorded in status history
// and cancellation metadata.
type Actor struct {
	ID   uint
	Kind string // models.ActorUser or models.ActorDriver
	Role string // customer, admin, manager, driver
}

// LifecycleService owns the order state machine: status transitions and
// their side effects on driver and product records. It holds explicit
// handles to both stores instead of triggering hidden writes from
// persistence hooks.
type LifecycleService struct {
	db  *gorm.DB
	log *zap.SugaredLogger
}

// NewLifecycleService creates a LifecycleService.
func NewLifecycleService(db *gorm.DB, log *zap.SugaredLogger) *LifecycleService {
	return &LifecycleService{db: db, log: log}
}

// appendHistory records one status-history row. Every status
// assignment, including the initial one at creation, goes through here
// exactly once.
func appendHistory(tx *gorm.DB, orderID uint, status, note string, actor Actor, at time.Time) error {
	return tx.Create(&models.OrderStatusHistory{
		OrderID:   orderID,
		Status:    status,
		Timestamp: at,
		Note:      note,
		ActorID:   actor.ID,
		ActorKind: actor.Kind,
	}).Error
}

// SetStatus transitions an order to newStatus and applies the side
// effects tied to the target status.
//
// Any of the ten known statuses may be written; the transition function
// does not enforce forward adjacency. This mirrors the permissive
// behavior of the admin/driver status endpoint; the stricter rules for
// cancellation and assignment live on their dedicated entry points.
//
// The status write, history append and driver-stat side effects commit
// as one transaction. Product sold-count increments for a delivered
// order run after commit, best effort per item: a failing item is
// logged and reported in the returned warnings but does not undo the
// transition or the other items' increments.
func (s *LifecycleService) SetStatus(orderID uint, newStatus string, actor Actor, note string) (*models.Order, []string, error) {
	if !models.ValidOrderStatus(newStatus) {
		return nil, nil, apperr.New(apperr.Validation, "Invalid status")
	}

	now := time.Now()
	var order models.Order

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Preload("Items").First(&order, orderID).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return apperr.New(apperr.NotFound, "Order not found")
			}
			return apperr.Wrap(apperr.Internal, "Failed to load order", err)
		}

		updates := map[string]interface{}{"status": newStatus}

		if newStatus == models.OrderDelivered {
			updates["actual_delivery_time"] = now
		}

		if err := tx.Model(&order).Updates(updates).Error; err != nil {
			return apperr.Wrap(apperr.Internal, "Failed to update order", err)
		}
		if err := appendHistory(tx, order.ID, newStatus, note, actor, now); err != nil {
			return apperr.Wrap(apperr.Internal, "Failed to append status history", err)
		}

		if order.DriverID != nil {
			switch newStatus {
			case models.OrderDelivered:
				if err := RecordDelivered(tx, *order.DriverID, order.Pricing.DeliveryFee); err != nil {
					return apperr.Wrap(apperr.Internal, "Failed to update driver stats", err)
				}
			case models.OrderCancelled:
				if err := RecordCancelled(tx, *order.DriverID); err != nil {
					return apperr.Wrap(apperr.Internal, "Failed to update driver stats", err)
				}
			}
		}

		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	var warnings []string
	if newStatus == models.OrderDelivered {
		warnings = s.incrementSoldCounts(&order)
	}

	order.Status = newStatus
	if newStatus == models.OrderDelivered {
		order.ActualDeliveryTime = &now
	}
	return &order, warnings, nil
}

// incrementSoldCounts applies the per-item sold-count side effect of a
// delivered order. Failures are collected, not rolled back.
func (s *LifecycleService) incrementSoldCounts(order *models.Order) []string {
	var warnings []string
	for _, item := range order.Items {
		err := s.db.Model(&models.Product{}).Where("id = ?", item.ProductID).
			Update("sold_count", gorm.Expr("sold_count + ?", item.Quantity)).Error
		if err != nil {
			s.log.Errorw("failed to increment product sold count",
				"order", order.OrderNumber, "product", item.ProductID, "error", err)
			warnings = append(warnings, fmt.Sprintf("failed to update sold count for product %d", item.ProductID))
		}
	}
	return warnings
}

// CancelOrder cancels an order on behalf of a customer, driver or
// admin. Only pending and confirmed orders may be cancelled here; a
// customer may cancel only their own order. An assigned driver is
// released back to the available pool.
func (s *LifecycleService) CancelOrder(orderID uint, reason string, actor Actor) (*models.Order, error) {
	now := time.Now()
	var order models.Order

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&order, orderID).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return apperr.New(apperr.NotFound, "Order not found")
			}
			return apperr.Wrap(apperr.Internal, "Failed to load order", err)
		}

		cancelable := false
		for _, status := range models.CancelableStatuses {
			if order.Status == status {
				cancelable = true
				break
			}
		}
		if !cancelable {
			return apperr.New(apperr.InvalidState, "Order can no longer be cancelled")
		}

		if actor.Role == "customer" && order.CustomerID != actor.ID {
			return apperr.New(apperr.PermissionDenied, "You do not have permission to cancel this order")
		}

		updates := map[string]interface{}{
			"status":            models.OrderCancelled,
			"cancel_reason":     reason,
			"cancelled_by_id":   actor.ID,
			"cancelled_by_kind": actor.Kind,
		}
		if err := tx.Model(&order).Updates(updates).Error; err != nil {
			return apperr.Wrap(apperr.Internal, "Failed to cancel order", err)
		}
		if err := appendHistory(tx, order.ID, models.OrderCancelled, reason, actor, now); err != nil {
			return apperr.Wrap(apperr.Internal, "Failed to append status history", err)
		}

		if order.DriverID != nil {
			if err := RecordCancelled(tx, *order.DriverID); err != nil {
				return apperr.Wrap(apperr.Internal, "Failed to update driver stats", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	order.Status = models.OrderCancelled
	order.CancelReason = reason
	return &order, nil
}

// RateOrder stores the post-delivery rating. Permitted only for the
// owning customer, only once, and only when the order is delivered. A
// delivery score also feeds the assigned driver's running average.
func (s *LifecycleService) RateOrder(orderID uint, food, delivery int, comment string, actor Actor) (*models.Order, error) {
	if food < 1 || food > 5 || (delivery != 0 && (delivery < 1 || delivery > 5)) {
		return nil, apperr.New(apperr.Validation, "Scores must be between 1 and 5")
	}

	now := time.Now()
	var order models.Order

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&order, orderID).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return apperr.New(apperr.NotFound, "Order not found")
			}
			return apperr.Wrap(apperr.Internal, "Failed to load order", err)
		}

		if actor.Kind != models.ActorUser || order.CustomerID != actor.ID {
			return apperr.New(apperr.PermissionDenied, "You do not have permission to rate this order")
		}
		if order.Status != models.OrderDelivered {
			return apperr.New(apperr.InvalidState, "Only delivered orders can be rated")
		}
		if order.Rating != nil {
			return apperr.New(apperr.Conflict, "This order has already been rated")
		}

		rating := &models.OrderRating{Food: food, Delivery: delivery, Comment: comment, RatedAt: now}
		if err := tx.Model(&order).Select("Rating").Updates(&models.Order{Rating: rating}).Error; err != nil {
			return apperr.Wrap(apperr.Internal, "Failed to store rating", err)
		}
		order.Rating = rating

		if order.DriverID != nil && delivery > 0 {
			if err := RecordRating(tx, *order.DriverID, delivery); err != nil {
				return apperr.Wrap(apperr.Internal, "Failed to update driver rating", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &order, nil
}
