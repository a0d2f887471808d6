package services

import (
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/fooddrop/delivery-api/apperr"
	"github.com/fooddrop/delivery-api/models"
)

// AssignmentService matches a ready order to an available driver,
// updating both records in one transaction so readers never observe a
// half-linked pair.
type AssignmentService struct {
	db *gorm.DB
}

// NewAssignmentService creates an AssignmentService.
func NewAssignmentService(db *gorm.DB) *AssignmentService {
	return &AssignmentService{db: db}
}

// AssignDriver links the order to the driver and flips the order to
// driver_assigned.
//
// The order must be confirmed, preparing or ready for pickup; the
// driver must exist and be claimed while still available. The claim is
// a conditional update, so a concurrent assignment attempt for the
// same driver fails instead of double-booking.
func (s *AssignmentService) AssignDriver(orderID, driverID uint, actor Actor) (*models.Order, error) {
	now := time.Now()
	var order models.Order

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&order, orderID).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return apperr.New(apperr.NotFound, "Order not found")
			}
			return apperr.Wrap(apperr.Internal, "Failed to load order", err)
		}

		assignable := false
		for _, status := range models.AssignableStatuses {
			if order.Status == status {
				assignable = true
				break
			}
		}
		if !assignable {
			return apperr.New(apperr.InvalidState, "Order cannot be assigned in its current status")
		}

		var driver models.Driver
		if err := tx.First(&driver, driverID).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return apperr.New(apperr.NotFound, "Driver not found")
			}
			return apperr.Wrap(apperr.Internal, "Failed to load driver", err)
		}

		if err := ClaimDriver(tx, driverID, orderID); err != nil {
			return err
		}

		// Re-check the order status as part of the update so two
		// concurrent assignments of the same order cannot both land.
		result := tx.Model(&models.Order{}).
			Where("id = ? AND status IN ?", orderID, models.AssignableStatuses).
			Updates(map[string]interface{}{
				"status":             models.OrderDriverAssigned,
				"driver_id":          driverID,
				"driver_assigned_at": now,
			})
		if result.Error != nil {
			return apperr.Wrap(apperr.Internal, "Failed to update order", result.Error)
		}
		if result.RowsAffected == 0 {
			return apperr.New(apperr.InvalidState, "Order cannot be assigned in its current status")
		}

		note := fmt.Sprintf("Assigned %s", driver.Name)
		if err := appendHistory(tx, order.ID, models.OrderDriverAssigned, note, actor, now); err != nil {
			return apperr.Wrap(apperr.Internal, "Failed to append status history", err)
		}

		order.Status = models.OrderDriverAssigned
		order.DriverID = &driverID
		order.DriverAssignedAt = &now
		order.Driver = &driver
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &order, nil
}
