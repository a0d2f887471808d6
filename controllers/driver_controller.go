package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/fooddrop/delivery-api/middleware"
	"github.com/fooddrop/delivery-api/models"
	"github.com/fooddrop/delivery-api/services"
	"github.com/fooddrop/delivery-api/utils"
)

// DriverController serves the admin driver registry and the driver
// self-service endpoints.
type DriverController struct {
	db *gorm.DB
}

// NewDriverController wires a DriverController onto the given handle.
func NewDriverController(db *gorm.DB) *DriverController {
	return &DriverController{db: db}
}

// List handles GET /api/drivers - admin listing with filters.
func (ctrl *DriverController) List(c *gin.Context) {
	page := utils.ParsePagination(c, 20)

	query := ctrl.db.Model(&models.Driver{})
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	if zone := c.Query("zone"); zone != "" {
		query = query.Where("zone_id = ?", zone)
	}
	if verified := c.Query("isVerified"); verified != "" {
		query = query.Where("is_verified = ?", verified == "true")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		respondError(c, err)
		return
	}

	var drivers []models.Driver
	err := query.Preload("Zone").Order("created_at DESC").
		Offset(page.Offset()).Limit(page.Limit).Find(&drivers).Error
	if err != nil {
		respondError(c, err)
		return
	}

	respondList(c, len(drivers), total, page.Pages(total), drivers)
}

// Available handles GET /api/drivers/available - verified, active
// drivers currently in the available pool, for the assignment picker.
func (ctrl *DriverController) Available(c *gin.Context) {
	query := ctrl.db.Model(&models.Driver{}).
		Where("status = ? AND is_active = ? AND is_verified = ?", models.DriverAvailable, true, true)
	if zone := c.Query("zone"); zone != "" {
		query = query.Where("zone_id = ?", zone)
	}

	var drivers []models.Driver
	if err := query.Order("rating_average DESC").Find(&drivers).Error; err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"count":   len(drivers),
		"data":    drivers,
	})
}

// Get handles GET /api/drivers/:id.
func (ctrl *DriverController) Get(c *gin.Context) {
	var driver models.Driver
	err := ctrl.db.Preload("Zone").Preload("CurrentOrder").First(&driver, c.Param("id")).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			respondMessage(c, http.StatusNotFound, "Driver not found")
			return
		}
		respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, driver)
}

// CreateDriverRequest is the admin driver registration body.
type CreateDriverRequest struct {
	Name          string `json:"name" binding:"required"`
	Email         string `json:"email" binding:"required,email"`
	Password      string `json:"password" binding:"required,min=6"`
	Phone         string `json:"phone" binding:"required"`
	IDCardNumber  string `json:"id_card_number" binding:"required"`
	LicenseNumber string `json:"license_number" binding:"required"`
	VehicleType   string `json:"vehicle_type"`
	VehiclePlate  string `json:"vehicle_plate" binding:"required"`
	VehicleColor  string `json:"vehicle_color"`
	ZoneID        *uint  `json:"zone_id"`
}

// Create handles POST /api/drivers - admin driver registration. New
// drivers start offline and unverified.
func (ctrl *DriverController) Create(c *gin.Context) {
	var req CreateDriverRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondMessage(c, http.StatusBadRequest, "Invalid request data")
		return
	}

	var existing models.Driver
	if err := ctrl.db.Where("email = ?", req.Email).First(&existing).Error; err == nil {
		respondMessage(c, http.StatusBadRequest, "Email already registered")
		return
	}

	vehicleType := req.VehicleType
	if vehicleType == "" {
		vehicleType = "motorcycle"
	}

	driver := models.Driver{
		Name:          req.Name,
		Email:         req.Email,
		Password:      req.Password,
		Phone:         req.Phone,
		IDCardNumber:  req.IDCardNumber,
		LicenseNumber: req.LicenseNumber,
		VehicleType:   vehicleType,
		VehiclePlate:  req.VehiclePlate,
		VehicleColor:  req.VehicleColor,
		Status:        models.DriverOffline,
		ZoneID:        req.ZoneID,
		IsActive:      true,
	}
	if err := ctrl.db.Create(&driver).Error; err != nil {
		respondError(c, err)
		return
	}

	respondData(c, http.StatusCreated, driver)
}

// UpdateDriverRequest is the admin driver update body. All fields
// optional; identity and stats columns are not writable here.
type UpdateDriverRequest struct {
	Name         *string `json:"name"`
	Phone        *string `json:"phone"`
	VehicleType  *string `json:"vehicle_type"`
	VehiclePlate *string `json:"vehicle_plate"`
	VehicleColor *string `json:"vehicle_color"`
	ZoneID       *uint   `json:"zone_id"`
	IsActive     *bool   `json:"is_active"`
}

// Update handles PUT /api/drivers/:id - admin profile update.
func (ctrl *DriverController) Update(c *gin.Context) {
	var req UpdateDriverRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondMessage(c, http.StatusBadRequest, "Invalid request data")
		return
	}

	var driver models.Driver
	if err := ctrl.db.First(&driver, c.Param("id")).Error; err != nil {
		respondMessage(c, http.StatusNotFound, "Driver not found")
		return
	}

	updates := map[string]interface{}{}
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Phone != nil {
		updates["phone"] = *req.Phone
	}
	if req.VehicleType != nil {
		updates["vehicle_type"] = *req.VehicleType
	}
	if req.VehiclePlate != nil {
		updates["vehicle_plate"] = *req.VehiclePlate
	}
	if req.VehicleColor != nil {
		updates["vehicle_color"] = *req.VehicleColor
	}
	if req.ZoneID != nil {
		updates["zone_id"] = *req.ZoneID
	}
	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
	}

	if len(updates) > 0 {
		if err := ctrl.db.Model(&driver).Updates(updates).Error; err != nil {
			respondError(c, err)
			return
		}
	}

	respondData(c, http.StatusOK, driver)
}

// Delete handles DELETE /api/drivers/:id. A driver holding an active
// order cannot be removed.
func (ctrl *DriverController) Delete(c *gin.Context) {
	var driver models.Driver
	if err := ctrl.db.First(&driver, c.Param("id")).Error; err != nil {
		respondMessage(c, http.StatusNotFound, "Driver not found")
		return
	}

	if driver.CurrentOrderID != nil {
		respondMessage(c, http.StatusBadRequest, "Cannot delete a driver with an active order")
		return
	}

	if err := ctrl.db.Delete(&driver).Error; err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, gin.H{})
}

// Verify handles PATCH /api/drivers/:id/verify - admin approval.
func (ctrl *DriverController) Verify(c *gin.Context) {
	var driver models.Driver
	if err := ctrl.db.First(&driver, c.Param("id")).Error; err != nil {
		respondMessage(c, http.StatusNotFound, "Driver not found")
		return
	}

	if err := ctrl.db.Model(&driver).Update("is_verified", true).Error; err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, driver)
}

// Suspend handles PATCH /api/drivers/:id/suspend - toggles between
// suspended and offline.
func (ctrl *DriverController) Suspend(c *gin.Context) {
	var driver models.Driver
	if err := ctrl.db.First(&driver, c.Param("id")).Error; err != nil {
		respondMessage(c, http.StatusNotFound, "Driver not found")
		return
	}

	next := models.DriverSuspended
	if driver.Status == models.DriverSuspended {
		next = models.DriverOffline
	}

	if err := ctrl.db.Model(&driver).Update("status", next).Error; err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, driver)
}

// Stats handles GET /api/drivers/:id/stats - delivery counters, rating
// and earnings.
func (ctrl *DriverController) Stats(c *gin.Context) {
	var driver models.Driver
	if err := ctrl.db.First(&driver, c.Param("id")).Error; err != nil {
		respondMessage(c, http.StatusNotFound, "Driver not found")
		return
	}

	respondData(c, http.StatusOK, gin.H{
		"total_deliveries":     driver.TotalDeliveries,
		"completed_deliveries": driver.CompletedDeliveries,
		"cancelled_deliveries": driver.CancelledDeliveries,
		"total_earnings":       driver.TotalEarnings,
		"rating_average":       driver.RatingAverage,
		"rating_count":         driver.RatingCount,
		"status":               driver.Status,
	})
}

// DriverStatusRequest is the driver self-service status body.
type DriverStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// UpdateStatus handles PATCH /api/drivers/status - driver self-service.
func (ctrl *DriverController) UpdateStatus(c *gin.Context) {
	principal, _ := middleware.GetPrincipal(c)

	var req DriverStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondMessage(c, http.StatusBadRequest, "Invalid request data")
		return
	}

	driver, err := services.UpdateDriverStatus(ctrl.db, principal.ID, req.Status)
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, driver)
}

// LocationRequest is the driver position report body.
type LocationRequest struct {
	Lat float64 `json:"lat" binding:"required"`
	Lng float64 `json:"lng" binding:"required"`
}

// UpdateLocation handles PATCH /api/drivers/location.
func (ctrl *DriverController) UpdateLocation(c *gin.Context) {
	principal, _ := middleware.GetPrincipal(c)

	var req LocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondMessage(c, http.StatusBadRequest, "Invalid location data")
		return
	}

	location, err := services.UpdateDriverLocation(ctrl.db, principal.ID, req.Lat, req.Lng, time.Now())
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, location)
}

// CurrentOrder handles GET /api/drivers/current-order - the order the
// driver is working on, if any.
func (ctrl *DriverController) CurrentOrder(c *gin.Context) {
	principal, _ := middleware.GetPrincipal(c)

	var driver models.Driver
	if err := ctrl.db.First(&driver, principal.ID).Error; err != nil {
		respondMessage(c, http.StatusNotFound, "Driver not found")
		return
	}
	if driver.CurrentOrderID == nil {
		respondData(c, http.StatusOK, nil)
		return
	}

	var order models.Order
	err := ctrl.db.Preload("Customer").Preload("Items").First(&order, *driver.CurrentOrderID).Error
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, order)
}

// Orders handles GET /api/drivers/orders - the driver's delivery
// history.
func (ctrl *DriverController) Orders(c *gin.Context) {
	principal, _ := middleware.GetPrincipal(c)
	page := utils.ParsePagination(c, 10)

	query := ctrl.db.Model(&models.Order{}).Where("driver_id = ?", principal.ID)
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		respondError(c, err)
		return
	}

	var orders []models.Order
	err := query.Preload("Items").Order("created_at DESC").
		Offset(page.Offset()).Limit(page.Limit).Find(&orders).Error
	if err != nil {
		respondError(c, err)
		return
	}

	respondList(c, len(orders), total, page.Pages(total), orders)
}
