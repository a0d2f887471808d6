package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/fooddrop/delivery-api/models"
	"github.com/fooddrop/delivery-api/utils"
)

// CustomerController serves the back-office customer registry.
type CustomerController struct {
	db *gorm.DB
}

// NewCustomerController wires a CustomerController onto the given handle.
func NewCustomerController(db *gorm.DB) *CustomerController {
	return &CustomerController{db: db}
}

// List handles GET /api/customers - admin listing with search.
func (ctrl *CustomerController) List(c *gin.Context) {
	page := utils.ParsePagination(c, 20)

	query := ctrl.db.Model(&models.User{}).Where("role = ?", "customer")
	if search := c.Query("search"); search != "" {
		like := "%" + search + "%"
		query = query.Where("name LIKE ? OR email LIKE ? OR phone LIKE ?", like, like, like)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		respondError(c, err)
		return
	}

	var customers []models.User
	err := query.Order("created_at DESC").
		Offset(page.Offset()).Limit(page.Limit).Find(&customers).Error
	if err != nil {
		respondError(c, err)
		return
	}

	respondList(c, len(customers), total, page.Pages(total), customers)
}

// Get handles GET /api/customers/:id - the customer record plus basic
// order stats.
func (ctrl *CustomerController) Get(c *gin.Context) {
	var customer models.User
	err := ctrl.db.Where("role = ?", "customer").First(&customer, c.Param("id")).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			respondMessage(c, http.StatusNotFound, "Customer not found")
			return
		}
		respondError(c, err)
		return
	}

	var totalOrders int64
	if err := ctrl.db.Model(&models.Order{}).
		Where("customer_id = ?", customer.ID).Count(&totalOrders).Error; err != nil {
		respondError(c, err)
		return
	}

	// Pricing is a JSON column, so the spend total is summed in memory.
	var delivered []models.Order
	err = ctrl.db.Select("pricing").
		Where("customer_id = ? AND status = ?", customer.ID, models.OrderDelivered).
		Find(&delivered).Error
	if err != nil {
		respondError(c, err)
		return
	}
	var totalSpent float64
	for _, order := range delivered {
		totalSpent += order.Pricing.Total
	}

	respondData(c, http.StatusOK, gin.H{
		"customer": customer,
		"stats": gin.H{
			"total_orders":     totalOrders,
			"completed_orders": len(delivered),
			"total_spent":      totalSpent,
		},
	})
}

// UpdateCustomerRequest is the back-office profile edit body. Password
// and role are not writable here.
type UpdateCustomerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	IsActive *bool  `json:"is_active"`
}

// Update handles PUT /api/customers/:id.
func (ctrl *CustomerController) Update(c *gin.Context) {
	var req UpdateCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondMessage(c, http.StatusBadRequest, "Invalid request data")
		return
	}

	var customer models.User
	err := ctrl.db.Where("role = ?", "customer").First(&customer, c.Param("id")).Error
	if err != nil {
		respondMessage(c, http.StatusNotFound, "Customer not found")
		return
	}

	updates := map[string]interface{}{}
	if req.Name != "" {
		updates["name"] = req.Name
	}
	if req.Email != "" {
		updates["email"] = req.Email
	}
	if req.Phone != "" {
		updates["phone"] = req.Phone
	}
	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
	}
	if len(updates) > 0 {
		if err := ctrl.db.Model(&customer).Updates(updates).Error; err != nil {
			respondError(c, err)
			return
		}
	}
	respondData(c, http.StatusOK, customer)
}

// Deactivate handles PATCH /api/customers/:id/deactivate - blocks a
// customer account.
func (ctrl *CustomerController) Deactivate(c *gin.Context) {
	ctrl.setActive(c, false)
}

// Activate handles PATCH /api/customers/:id/activate.
func (ctrl *CustomerController) Activate(c *gin.Context) {
	ctrl.setActive(c, true)
}

func (ctrl *CustomerController) setActive(c *gin.Context, active bool) {
	var customer models.User
	err := ctrl.db.Where("role = ?", "customer").First(&customer, c.Param("id")).Error
	if err != nil {
		respondMessage(c, http.StatusNotFound, "Customer not found")
		return
	}

	if err := ctrl.db.Model(&customer).Update("is_active", active).Error; err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, customer)
}

// Delete handles DELETE /api/customers/:id - hard delete, refused while
// the customer still has orders in flight.
func (ctrl *CustomerController) Delete(c *gin.Context) {
	var customer models.User
	err := ctrl.db.Where("role = ?", "customer").First(&customer, c.Param("id")).Error
	if err != nil {
		respondMessage(c, http.StatusNotFound, "Customer not found")
		return
	}

	var activeOrders int64
	err = ctrl.db.Model(&models.Order{}).
		Where("customer_id = ? AND status NOT IN ?", customer.ID,
			[]string{models.OrderDelivered, models.OrderCancelled, models.OrderRefunded}).
		Count(&activeOrders).Error
	if err != nil {
		respondError(c, err)
		return
	}
	if activeOrders > 0 {
		respondMessage(c, http.StatusBadRequest, "Cannot delete a customer with active orders")
		return
	}

	if err := ctrl.db.Delete(&customer).Error; err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, gin.H{})
}

// Orders handles GET /api/customers/:id/orders - a customer's order
// history for the back office.
func (ctrl *CustomerController) Orders(c *gin.Context) {
	var customer models.User
	err := ctrl.db.Where("role = ?", "customer").First(&customer, c.Param("id")).Error
	if err != nil {
		respondMessage(c, http.StatusNotFound, "Customer not found")
		return
	}

	page := utils.ParsePagination(c, 10)

	query := ctrl.db.Model(&models.Order{}).Where("customer_id = ?", customer.ID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		respondError(c, err)
		return
	}

	var orders []models.Order
	err = query.Preload("Items").Preload("Driver").Order("created_at DESC").
		Offset(page.Offset()).Limit(page.Limit).Find(&orders).Error
	if err != nil {
		respondError(c, err)
		return
	}

	respondList(c, len(orders), total, page.Pages(total), orders)
}
