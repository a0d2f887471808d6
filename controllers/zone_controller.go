package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/fooddrop/delivery-api/models"
	"github.com/fooddrop/delivery-api/services"
)

// ZoneController serves the delivery zone endpoints: coverage checks
// and fee quotes for the storefront, CRUD for the back office.
type ZoneController struct {
	db      *gorm.DB
	pricing *services.PricingService
}

// NewZoneController wires a ZoneController onto the given handle.
func NewZoneController(db *gorm.DB) *ZoneController {
	return &ZoneController{db: db, pricing: services.NewPricingService(db)}
}

// List handles GET /api/zones.
func (ctrl *ZoneController) List(c *gin.Context) {
	query := ctrl.db.Model(&models.DeliveryZone{})
	if c.Query("all") != "true" {
		query = query.Where("is_active = ?", true)
	}

	var zones []models.DeliveryZone
	if err := query.Order("name ASC").Find(&zones).Error; err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"count":   len(zones),
		"data":    zones,
	})
}

// Get handles GET /api/zones/:id.
func (ctrl *ZoneController) Get(c *gin.Context) {
	var zone models.DeliveryZone
	if err := ctrl.db.First(&zone, c.Param("id")).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			respondMessage(c, http.StatusNotFound, "Zone not found")
			return
		}
		respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, zone)
}

// Check handles GET /api/zones/check/:postalCode - public coverage
// lookup for the storefront.
func (ctrl *ZoneController) Check(c *gin.Context) {
	zone, err := ctrl.pricing.FindZone(c.Param("postalCode"))
	if err != nil {
		respondError(c, err)
		return
	}

	if zone == nil {
		c.JSON(http.StatusOK, gin.H{
			"success":      true,
			"deliverable":  false,
			"delivery_fee": services.DefaultDeliveryFee,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":     true,
		"deliverable": true,
		"data":        zone,
	})
}

// CalculateFeeRequest is the fee quote body.
type CalculateFeeRequest struct {
	PostalCode string  `json:"postalCode" binding:"required"`
	Subtotal   float64 `json:"subtotal"`
}

// CalculateFee handles POST /api/zones/calculate-fee - quotes the
// delivery fee for a cart subtotal, applying the zone's free-delivery
// threshold.
func (ctrl *ZoneController) CalculateFee(c *gin.Context) {
	var req CalculateFeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondMessage(c, http.StatusBadRequest, "Postal code is required")
		return
	}

	zone, err := ctrl.pricing.FindZone(req.PostalCode)
	if err != nil {
		respondError(c, err)
		return
	}

	fee := services.DefaultDeliveryFee
	var zoneID *uint
	freeDelivery := false
	if zone != nil {
		zoneID = &zone.ID
		fee = zone.DeliveryFee
		if zone.FreeDeliveryMinimum != nil && req.Subtotal >= *zone.FreeDeliveryMinimum {
			fee = 0
			freeDelivery = true
		}
	}

	respondData(c, http.StatusOK, gin.H{
		"delivery_fee":  fee,
		"free_delivery": freeDelivery,
		"zone_id":       zoneID,
	})
}

// ZoneRequest is the admin zone create/update body.
type ZoneRequest struct {
	Name                string            `json:"name" binding:"required"`
	Description         string            `json:"description"`
	Areas               []models.ZoneArea `json:"areas"`
	DeliveryFee         *float64          `json:"delivery_fee" binding:"required"`
	FreeDeliveryMinimum *float64          `json:"free_delivery_minimum"`
	MinOrderAmount      float64           `json:"min_order_amount"`
	EstimatedMinMinutes int               `json:"estimated_min_minutes"`
	EstimatedMaxMinutes int               `json:"estimated_max_minutes"`
	IsActive            *bool             `json:"is_active"`
	MaxConcurrentOrders int               `json:"max_concurrent_orders"`
}

// Create handles POST /api/zones - admin only.
func (ctrl *ZoneController) Create(c *gin.Context) {
	var req ZoneRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondMessage(c, http.StatusBadRequest, "Invalid request data")
		return
	}

	var existing models.DeliveryZone
	if err := ctrl.db.Where("name = ?", req.Name).First(&existing).Error; err == nil {
		respondMessage(c, http.StatusBadRequest, "Zone name already exists")
		return
	}

	zone := models.DeliveryZone{
		Name:                req.Name,
		Description:         req.Description,
		Areas:               req.Areas,
		DeliveryFee:         *req.DeliveryFee,
		FreeDeliveryMinimum: req.FreeDeliveryMinimum,
		MinOrderAmount:      req.MinOrderAmount,
		EstimatedMinMinutes: defaultInt(req.EstimatedMinMinutes, 20),
		EstimatedMaxMinutes: defaultInt(req.EstimatedMaxMinutes, 45),
		IsActive:            true,
		MaxConcurrentOrders: defaultInt(req.MaxConcurrentOrders, 50),
	}
	if req.IsActive != nil {
		zone.IsActive = *req.IsActive
	}

	if err := ctrl.db.Create(&zone).Error; err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusCreated, zone)
}

// Update handles PUT /api/zones/:id - admin only.
func (ctrl *ZoneController) Update(c *gin.Context) {
	var req ZoneRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondMessage(c, http.StatusBadRequest, "Invalid request data")
		return
	}

	var zone models.DeliveryZone
	if err := ctrl.db.First(&zone, c.Param("id")).Error; err != nil {
		respondMessage(c, http.StatusNotFound, "Zone not found")
		return
	}

	// The field list is explicit so zero values still write, and a struct
	// update runs the JSON serializer for the areas column.
	zone.Name = req.Name
	zone.Description = req.Description
	zone.Areas = req.Areas
	zone.DeliveryFee = *req.DeliveryFee
	zone.FreeDeliveryMinimum = req.FreeDeliveryMinimum
	zone.MinOrderAmount = req.MinOrderAmount
	fields := []string{"Name", "Description", "Areas", "DeliveryFee", "FreeDeliveryMinimum", "MinOrderAmount"}
	if req.EstimatedMinMinutes > 0 {
		zone.EstimatedMinMinutes = req.EstimatedMinMinutes
		fields = append(fields, "EstimatedMinMinutes")
	}
	if req.EstimatedMaxMinutes > 0 {
		zone.EstimatedMaxMinutes = req.EstimatedMaxMinutes
		fields = append(fields, "EstimatedMaxMinutes")
	}
	if req.MaxConcurrentOrders > 0 {
		zone.MaxConcurrentOrders = req.MaxConcurrentOrders
		fields = append(fields, "MaxConcurrentOrders")
	}
	if req.IsActive != nil {
		zone.IsActive = *req.IsActive
		fields = append(fields, "IsActive")
	}

	if err := ctrl.db.Model(&zone).Select(fields).Updates(&zone).Error; err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, zone)
}

// Delete handles DELETE /api/zones/:id - soft delete via is_active so
// existing orders keep their zone reference.
func (ctrl *ZoneController) Delete(c *gin.Context) {
	var zone models.DeliveryZone
	if err := ctrl.db.First(&zone, c.Param("id")).Error; err != nil {
		respondMessage(c, http.StatusNotFound, "Zone not found")
		return
	}

	if err := ctrl.db.Model(&zone).Update("is_active", false).Error; err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, gin.H{})
}

func defaultInt(value, fallback int) int {
	if value > 0 {
		return value
	}
	return fallback
}
