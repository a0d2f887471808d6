package services

import (
	"time"

	"gorm.io/gorm"

	"github.com/fooddrop/delivery-api/apperr"
	"github.com/fooddrop/delivery-api/models"
)

// Driver registry mutations. Each of these is a single UPDATE so that
// column expressions evaluate over the pre-update row values and
// concurrent mutations on the same driver serialize on the row;
// read-modify-write in Go would lose updates under concurrency.

// RecordDelivered credits a completed delivery to the driver: bumps
// completed deliveries and earnings, clears the current order and
// returns the driver to the available pool.
func RecordDelivered(db *gorm.DB, driverID uint, deliveryFee float64) error {
	return db.Model(&models.Driver{}).Where("id = ?", driverID).Updates(map[string]interface{}{
		"completed_deliveries": gorm.Expr("completed_deliveries + 1"),
		"total_earnings":       gorm.Expr("total_earnings + ?", deliveryFee),
		"current_order_id":     nil,
		"status":               models.DriverAvailable,
	}).Error
}

// RecordCancelled counts a cancelled delivery against the driver and
// releases them back to the available pool.
func RecordCancelled(db *gorm.DB, driverID uint) error {
	return db.Model(&models.Driver{}).Where("id = ?", driverID).Updates(map[string]interface{}{
		"cancelled_deliveries": gorm.Expr("cancelled_deliveries + 1"),
		"current_order_id":     nil,
		"status":               models.DriverAvailable,
	}).Error
}

// RecordRating folds a delivery score into the driver's running
// average, rounded to one decimal place. The whole read-modify-write
// happens in the UPDATE expression, so concurrent ratings for the same
// driver cannot corrupt the average.
func RecordRating(db *gorm.DB, driverID uint, deliveryScore int) error {
	return db.Model(&models.Driver{}).Where("id = ?", driverID).Updates(map[string]interface{}{
		"rating_average": gorm.Expr("round((rating_average * rating_count + ?) * 10.0 / (rating_count + 1)) / 10.0", deliveryScore),
		"rating_count":   gorm.Expr("rating_count + 1"),
	}).Error
}

// ClaimDriver conditionally moves an available driver to busy and binds
// the order to them. The availability re-check is part of the UPDATE's
// WHERE clause, so of two concurrent assignment attempts for the same
// driver exactly one succeeds; suspended, inactive and unverified
// drivers never match.
func ClaimDriver(db *gorm.DB, driverID, orderID uint) error {
	result := db.Model(&models.Driver{}).
		Where("id = ? AND status = ? AND is_active = ? AND is_verified = ?",
			driverID, models.DriverAvailable, true, true).
		Updates(map[string]interface{}{
			"status":           models.DriverBusy,
			"current_order_id": orderID,
		})
	if result.Error != nil {
		return apperr.Wrap(apperr.Internal, "Failed to update driver", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperr.New(apperr.InvalidState, "Driver is not available")
	}
	return nil
}

// UpdateDriverStatus is the driver self-service status change. Drivers
// may set available, busy or offline; suspension is admin-only.
func UpdateDriverStatus(db *gorm.DB, driverID uint, status string) (*models.Driver, error) {
	switch status {
	case models.DriverAvailable, models.DriverBusy, models.DriverOffline:
	default:
		return nil, apperr.New(apperr.Validation, "Invalid status")
	}

	var driver models.Driver
	if err := db.First(&driver, driverID).Error; err != nil {
		return nil, apperr.New(apperr.NotFound, "Driver not found")
	}
	if driver.Status == models.DriverSuspended {
		return nil, apperr.New(apperr.InvalidState, "Driver is suspended")
	}

	if err := db.Model(&driver).Update("status", status).Error; err != nil {
		return nil, apperr.Wrap(apperr.Internal, "Failed to update driver status", err)
	}
	return &driver, nil
}

// UpdateDriverLocation stores the driver's reported position.
func UpdateDriverLocation(db *gorm.DB, driverID uint, lat, lng float64, now time.Time) (*models.DriverLocation, error) {
	location := &models.DriverLocation{Lat: lat, Lng: lng, UpdatedAt: now}
	err := db.Model(&models.Driver{}).Where("id = ?", driverID).
		Select("CurrentLocation").Updates(&models.Driver{CurrentLocation: location}).Error
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "Failed to update driver location", err)
	}
	return location, nil
}
