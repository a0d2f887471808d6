package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/fooddrop/delivery-api/middleware"
	"github.com/fooddrop/delivery-api/models"
	"github.com/fooddrop/delivery-api/services"
	"github.com/fooddrop/delivery-api/utils"
)

// OrderController serves the order endpoints. Creation goes through the
// pricing and order services; status mutations go through the lifecycle
// and assignment services.
type OrderController struct {
	db         *gorm.DB
	orders     *services.OrderService
	lifecycle  *services.LifecycleService
	assignment *services.AssignmentService
}

// NewOrderController wires an OrderController onto the given handles.
func NewOrderController(db *gorm.DB, log *zap.SugaredLogger) *OrderController {
	pricing := services.NewPricingService(db)
	return &OrderController{
		db:         db,
		orders:     services.NewOrderService(db, pricing),
		lifecycle:  services.NewLifecycleService(db, log),
		assignment: services.NewAssignmentService(db),
	}
}

func actorFrom(p middleware.Principal) services.Actor {
	return services.Actor{ID: p.ID, Kind: p.ActorKind(), Role: p.Role}
}

// CreateOrderRequest is the checkout request body.
type CreateOrderRequest struct {
	Items           []services.QuoteItem `json:"items" binding:"required,min=1,dive"`
	DeliveryAddress models.Address       `json:"delivery_address" binding:"required"`
	Payment         struct {
		Method string `json:"method"`
	} `json:"payment"`
	Notes        string     `json:"notes"`
	ScheduledFor *time.Time `json:"scheduled_for"`
}

// Create handles POST /api/orders - customer checkout.
func (ctrl *OrderController) Create(c *gin.Context) {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		respondMessage(c, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondMessage(c, http.StatusBadRequest, "Invalid request data")
		return
	}
	if req.DeliveryAddress.Address == "" {
		respondMessage(c, http.StatusBadRequest, "Delivery address is required")
		return
	}

	order, err := ctrl.orders.Create(principal.ID, services.CreateOrderInput{
		Items:           req.Items,
		DeliveryAddress: req.DeliveryAddress,
		PaymentMethod:   req.Payment.Method,
		Notes:           req.Notes,
		ScheduledFor:    req.ScheduledFor,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	var created models.Order
	if err := ctrl.db.Preload("Customer").Preload("Items").Preload("StatusHistory").
		First(&created, order.ID).Error; err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusCreated, created)
}

// List handles GET /api/orders - admin listing with filters.
func (ctrl *OrderController) List(c *gin.Context) {
	page := utils.ParsePagination(c, 20)

	query := ctrl.db.Model(&models.Order{})

	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	if driver := c.Query("driver"); driver != "" {
		query = query.Where("driver_id = ?", driver)
	}
	if customer := c.Query("customer"); customer != "" {
		query = query.Where("customer_id = ?", customer)
	}
	if paymentStatus := c.Query("paymentStatus"); paymentStatus != "" {
		// Payment is a JSON column; a substring match keeps the filter
		// portable across postgres and sqlite.
		query = query.Where("payment LIKE ?", `%"status":"`+paymentStatus+`"%`)
	}
	if from := parseDate(c.Query("fromDate")); from != nil {
		query = query.Where("created_at >= ?", from)
	}
	if to := parseDate(c.Query("toDate")); to != nil {
		query = query.Where("created_at <= ?", to)
	}

	order := "created_at DESC"
	if c.Query("sort") == "oldest" {
		order = "created_at ASC"
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		respondError(c, err)
		return
	}

	var orders []models.Order
	err := query.Preload("Customer").Preload("Driver").Preload("Items").
		Order(order).Offset(page.Offset()).Limit(page.Limit).Find(&orders).Error
	if err != nil {
		respondError(c, err)
		return
	}

	respondList(c, len(orders), total, page.Pages(total), orders)
}

// MyOrders handles GET /api/orders/my-orders - the caller's own orders.
func (ctrl *OrderController) MyOrders(c *gin.Context) {
	principal, _ := middleware.GetPrincipal(c)
	page := utils.ParsePagination(c, 10)

	query := ctrl.db.Model(&models.Order{}).Where("customer_id = ?", principal.ID)
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		respondError(c, err)
		return
	}

	var orders []models.Order
	err := query.Preload("Driver").Preload("Items").
		Order("created_at DESC").Offset(page.Offset()).Limit(page.Limit).Find(&orders).Error
	if err != nil {
		respondError(c, err)
		return
	}

	respondList(c, len(orders), total, page.Pages(total), orders)
}

// Get handles GET /api/orders/:id. Customers may only fetch their own orders.
func (ctrl *OrderController) Get(c *gin.Context) {
	principal, _ := middleware.GetPrincipal(c)

	var order models.Order
	err := ctrl.db.Preload("Customer").Preload("Driver").Preload("Items").
		Preload("StatusHistory", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		First(&order, c.Param("id")).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			respondMessage(c, http.StatusNotFound, "Order not found")
			return
		}
		respondError(c, err)
		return
	}

	if principal.Role == "customer" && order.CustomerID != principal.ID {
		respondMessage(c, http.StatusForbidden, "You do not have permission to access this order")
		return
	}

	respondData(c, http.StatusOK, order)
}

// Track handles GET /api/orders/track/:orderNumber - public tracking:
// status, driver position and ETA only.
func (ctrl *OrderController) Track(c *gin.Context) {
	var order models.Order
	err := ctrl.db.Preload("Driver").
		Preload("StatusHistory", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		Where("order_number = ?", c.Param("orderNumber")).First(&order).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			respondMessage(c, http.StatusNotFound, "Order not found")
			return
		}
		respondError(c, err)
		return
	}

	tracking := gin.H{
		"order_number":            order.OrderNumber,
		"status":                  order.Status,
		"status_history":          order.StatusHistory,
		"estimated_delivery_time": order.EstimatedDeliveryTime,
		"delivery_address":        order.DeliveryAddress,
	}
	if order.Driver != nil {
		tracking["driver"] = gin.H{
			"name":             order.Driver.Name,
			"phone":            order.Driver.Phone,
			"vehicle_plate":    order.Driver.VehiclePlate,
			"current_location": order.Driver.CurrentLocation,
		}
	}

	respondData(c, http.StatusOK, tracking)
}

// UpdateStatusRequest is the body for the status transition endpoint.
type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required"`
	Note   string `json:"note"`
}

// UpdateStatus handles PATCH /api/orders/:id/status - admin/driver
// lifecycle transition.
func (ctrl *OrderController) UpdateStatus(c *gin.Context) {
	principal, _ := middleware.GetPrincipal(c)

	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondMessage(c, http.StatusBadRequest, "Invalid request data")
		return
	}

	orderID, ok := parseID(c)
	if !ok {
		return
	}

	order, warnings, err := ctrl.lifecycle.SetStatus(orderID, req.Status, actorFrom(principal), req.Note)
	if err != nil {
		respondError(c, err)
		return
	}

	var updated models.Order
	if err := ctrl.db.Preload("Customer").Preload("Driver").Preload("Items").
		First(&updated, order.ID).Error; err != nil {
		respondError(c, err)
		return
	}

	response := gin.H{
		"success": true,
		"data":    updated,
	}
	if len(warnings) > 0 {
		response["message"] = "Status updated with warnings"
		response["warnings"] = warnings
	}
	c.JSON(http.StatusOK, response)
}

// AssignDriverRequest is the body for the driver assignment endpoint.
type AssignDriverRequest struct {
	DriverID uint `json:"driverId" binding:"required"`
}

// AssignDriver handles PATCH /api/orders/:id/assign-driver - admin only.
func (ctrl *OrderController) AssignDriver(c *gin.Context) {
	principal, _ := middleware.GetPrincipal(c)

	var req AssignDriverRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondMessage(c, http.StatusBadRequest, "Invalid request data")
		return
	}

	orderID, ok := parseID(c)
	if !ok {
		return
	}

	order, err := ctrl.assignment.AssignDriver(orderID, req.DriverID, actorFrom(principal))
	if err != nil {
		respondError(c, err)
		return
	}

	var updated models.Order
	if err := ctrl.db.Preload("Customer").Preload("Driver").Preload("Items").
		First(&updated, order.ID).Error; err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, updated)
}

// CancelRequest is the body for the cancellation endpoint.
type CancelRequest struct {
	Reason string `json:"reason"`
}

// Cancel handles PATCH /api/orders/:id/cancel.
func (ctrl *OrderController) Cancel(c *gin.Context) {
	principal, _ := middleware.GetPrincipal(c)

	var req CancelRequest
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		respondMessage(c, http.StatusBadRequest, "Invalid request data")
		return
	}

	orderID, ok := parseID(c)
	if !ok {
		return
	}

	order, err := ctrl.lifecycle.CancelOrder(orderID, req.Reason, actorFrom(principal))
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, order)
}

// RateRequest is the body for the post-delivery rating endpoint.
type RateRequest struct {
	Food     int    `json:"food"`
	Delivery int    `json:"delivery"`
	Comment  string `json:"comment"`
}

// Rate handles POST /api/orders/:id/rate - owning customer only.
func (ctrl *OrderController) Rate(c *gin.Context) {
	principal, _ := middleware.GetPrincipal(c)

	var req RateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondMessage(c, http.StatusBadRequest, "Invalid request data")
		return
	}

	orderID, ok := parseID(c)
	if !ok {
		return
	}

	order, err := ctrl.lifecycle.RateOrder(orderID, req.Food, req.Delivery, req.Comment, actorFrom(principal))
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, order)
}

// PendingCount handles GET /api/orders/pending-count - active order
// counts by status for the admin dashboard.
func (ctrl *OrderController) PendingCount(c *gin.Context) {
	counts := gin.H{
		models.OrderPending:        0,
		models.OrderConfirmed:      0,
		models.OrderPreparing:      0,
		models.OrderReadyForPickup: 0,
	}

	type row struct {
		Status string
		Count  int64
	}
	var rows []row
	err := ctrl.db.Model(&models.Order{}).
		Select("status, count(*) as count").
		Where("status IN ?", []string{
			models.OrderPending, models.OrderConfirmed,
			models.OrderPreparing, models.OrderReadyForPickup,
		}).
		Group("status").Scan(&rows).Error
	if err != nil {
		respondError(c, err)
		return
	}
	for _, r := range rows {
		counts[r.Status] = r.Count
	}

	respondData(c, http.StatusOK, counts)
}

func parseDate(value string) *time.Time {
	if value == "" {
		return nil
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, value); err == nil {
			return &t
		}
	}
	return nil
}
