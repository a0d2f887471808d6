package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/fooddrop/delivery-api/models"
)

// DashboardController serves the back-office overview endpoints.
type DashboardController struct {
	db *gorm.DB
}

// NewDashboardController wires a DashboardController onto the given handle.
func NewDashboardController(db *gorm.DB) *DashboardController {
	return &DashboardController{db: db}
}

// Overview handles GET /api/dashboard - headline counts and today's
// revenue.
func (ctrl *DashboardController) Overview(c *gin.Context) {
	now := time.Now()
	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	var totalOrders, todayOrders, activeOrders int64
	var totalCustomers, totalDrivers, availableDrivers int64

	steps := []error{
		ctrl.db.Model(&models.Order{}).Count(&totalOrders).Error,
		ctrl.db.Model(&models.Order{}).Where("created_at >= ?", startOfDay).Count(&todayOrders).Error,
		ctrl.db.Model(&models.Order{}).Where("status NOT IN ?", []string{
			models.OrderDelivered, models.OrderCancelled, models.OrderRefunded,
		}).Count(&activeOrders).Error,
		ctrl.db.Model(&models.User{}).Where("role = ?", "customer").Count(&totalCustomers).Error,
		ctrl.db.Model(&models.Driver{}).Where("is_active = ?", true).Count(&totalDrivers).Error,
		ctrl.db.Model(&models.Driver{}).
			Where("status = ? AND is_active = ? AND is_verified = ?", models.DriverAvailable, true, true).
			Count(&availableDrivers).Error,
	}
	for _, err := range steps {
		if err != nil {
			respondError(c, err)
			return
		}
	}

	// Pricing is a JSON column, so revenue is summed in memory.
	var deliveredToday []models.Order
	err := ctrl.db.Select("pricing").
		Where("status = ? AND created_at >= ?", models.OrderDelivered, startOfDay).
		Find(&deliveredToday).Error
	if err != nil {
		respondError(c, err)
		return
	}
	var todayRevenue float64
	for _, order := range deliveredToday {
		todayRevenue += order.Pricing.Total
	}

	respondData(c, http.StatusOK, gin.H{
		"total_orders":      totalOrders,
		"today_orders":      todayOrders,
		"active_orders":     activeOrders,
		"today_revenue":     todayRevenue,
		"total_customers":   totalCustomers,
		"total_drivers":     totalDrivers,
		"available_drivers": availableDrivers,
	})
}

// RecentOrders handles GET /api/dashboard/recent-orders.
func (ctrl *DashboardController) RecentOrders(c *gin.Context) {
	var orders []models.Order
	err := ctrl.db.Preload("Customer").Preload("Driver").
		Order("created_at DESC").Limit(10).Find(&orders).Error
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"count":   len(orders),
		"data":    orders,
	})
}

// TopProducts handles GET /api/dashboard/top-products - best sellers by
// delivered volume.
func (ctrl *DashboardController) TopProducts(c *gin.Context) {
	var products []models.Product
	err := ctrl.db.Where("is_active = ?", true).
		Order("sold_count DESC").Limit(10).Find(&products).Error
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"count":   len(products),
		"data":    products,
	})
}
