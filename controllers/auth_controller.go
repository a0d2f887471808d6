package controllers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/fooddrop/delivery-api/config"
	"github.com/fooddrop/delivery-api/middleware"
	"github.com/fooddrop/delivery-api/models"
)

// AuthController serves registration, login and profile endpoints for
// customers, staff and drivers.
type AuthController struct {
	db  *gorm.DB
	cfg *config.Config
}

// NewAuthController wires an AuthController onto the given handles.
func NewAuthController(db *gorm.DB, cfg *config.Config) *AuthController {
	return &AuthController{db: db, cfg: cfg}
}

// RegisterRequest is the customer signup body.
type RegisterRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	Phone    string `json:"phone" binding:"required"`
}

// LoginRequest is the shared login body.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

func (ctrl *AuthController) sendToken(c *gin.Context, status int, id uint, role string, account interface{}) {
	token, err := middleware.SignToken(ctrl.cfg, id, role)
	if err != nil {
		respondMessage(c, http.StatusInternalServerError, "Something went wrong")
		return
	}
	c.JSON(status, gin.H{
		"success": true,
		"token":   token,
		"data":    account,
	})
}

// Register handles POST /api/auth/register - customer signup.
func (ctrl *AuthController) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondMessage(c, http.StatusBadRequest, "Invalid request data")
		return
	}

	var existing models.User
	if err := ctrl.db.Where("email = ?", req.Email).First(&existing).Error; err == nil {
		respondMessage(c, http.StatusBadRequest, "Email already registered")
		return
	}

	user := models.User{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Phone:    req.Phone,
		Role:     "customer",
		IsActive: true,
	}
	if err := ctrl.db.Create(&user).Error; err != nil {
		respondError(c, err)
		return
	}

	ctrl.sendToken(c, http.StatusCreated, user.ID, user.Role, user)
}

// Login handles POST /api/auth/login - customer login.
func (ctrl *AuthController) Login(c *gin.Context) {
	ctrl.userLogin(c, false)
}

// AdminLogin handles POST /api/auth/admin/login - staff only.
func (ctrl *AuthController) AdminLogin(c *gin.Context) {
	ctrl.userLogin(c, true)
}

func (ctrl *AuthController) userLogin(c *gin.Context, staffOnly bool) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondMessage(c, http.StatusBadRequest, "Please provide an email and password")
		return
	}

	var user models.User
	if err := ctrl.db.Where("email = ?", req.Email).First(&user).Error; err != nil {
		respondMessage(c, http.StatusUnauthorized, "Invalid credentials")
		return
	}
	if !user.MatchPassword(req.Password) {
		respondMessage(c, http.StatusUnauthorized, "Invalid credentials")
		return
	}
	if !user.IsActive {
		respondMessage(c, http.StatusUnauthorized, "Account is disabled")
		return
	}
	if staffOnly && user.Role != "admin" && user.Role != "manager" {
		respondMessage(c, http.StatusForbidden, "Not authorized to access admin panel")
		return
	}

	now := time.Now()
	ctrl.db.Model(&user).Update("last_login", now)

	ctrl.sendToken(c, http.StatusOK, user.ID, user.Role, user)
}

// DriverLogin handles POST /api/auth/driver/login.
func (ctrl *AuthController) DriverLogin(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondMessage(c, http.StatusBadRequest, "Please provide an email and password")
		return
	}

	var driver models.Driver
	if err := ctrl.db.Where("email = ?", req.Email).First(&driver).Error; err != nil {
		respondMessage(c, http.StatusUnauthorized, "Invalid credentials")
		return
	}
	if !driver.MatchPassword(req.Password) {
		respondMessage(c, http.StatusUnauthorized, "Invalid credentials")
		return
	}
	if !driver.IsActive {
		respondMessage(c, http.StatusUnauthorized, "Account is disabled")
		return
	}
	if !driver.IsVerified {
		respondMessage(c, http.StatusUnauthorized, "Account is pending verification")
		return
	}

	ctrl.sendToken(c, http.StatusOK, driver.ID, "driver", driver)
}

// Me handles GET /api/auth/me - the caller's own account record.
func (ctrl *AuthController) Me(c *gin.Context) {
	principal, _ := middleware.GetPrincipal(c)

	if principal.Role == "driver" {
		var driver models.Driver
		if err := ctrl.db.Preload("Zone").First(&driver, principal.ID).Error; err != nil {
			respondMessage(c, http.StatusNotFound, "Account not found")
			return
		}
		respondData(c, http.StatusOK, driver)
		return
	}

	var user models.User
	if err := ctrl.db.First(&user, principal.ID).Error; err != nil {
		respondMessage(c, http.StatusNotFound, "Account not found")
		return
	}
	respondData(c, http.StatusOK, user)
}

// UpdateDetailsRequest is the profile update body. All fields optional.
type UpdateDetailsRequest struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

// UpdateDetails handles PUT /api/auth/updatedetails.
func (ctrl *AuthController) UpdateDetails(c *gin.Context) {
	principal, _ := middleware.GetPrincipal(c)

	var req UpdateDetailsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondMessage(c, http.StatusBadRequest, "Invalid request data")
		return
	}

	updates := map[string]interface{}{}
	if req.Name != "" {
		updates["name"] = req.Name
	}
	if req.Phone != "" {
		updates["phone"] = req.Phone
	}

	var user models.User
	if err := ctrl.db.First(&user, principal.ID).Error; err != nil {
		respondMessage(c, http.StatusNotFound, "Account not found")
		return
	}
	if len(updates) > 0 {
		if err := ctrl.db.Model(&user).Updates(updates).Error; err != nil {
			respondError(c, err)
			return
		}
	}

	respondData(c, http.StatusOK, user)
}

// UpdatePasswordRequest is the password change body.
type UpdatePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" binding:"required"`
	NewPassword     string `json:"newPassword" binding:"required,min=6"`
}

// UpdatePassword handles PUT /api/auth/updatepassword. The current
// password must match before the new one is accepted.
func (ctrl *AuthController) UpdatePassword(c *gin.Context) {
	principal, _ := middleware.GetPrincipal(c)

	var req UpdatePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondMessage(c, http.StatusBadRequest, "Invalid request data")
		return
	}

	var user models.User
	if err := ctrl.db.First(&user, principal.ID).Error; err != nil {
		respondMessage(c, http.StatusNotFound, "Account not found")
		return
	}
	if !user.MatchPassword(req.CurrentPassword) {
		respondMessage(c, http.StatusUnauthorized, "Current password is incorrect")
		return
	}

	user.Password = req.NewPassword
	if err := ctrl.db.Save(&user).Error; err != nil {
		respondError(c, err)
		return
	}

	ctrl.sendToken(c, http.StatusOK, user.ID, user.Role, user)
}

// AddAddress handles POST /api/auth/addresses.
func (ctrl *AuthController) AddAddress(c *gin.Context) {
	principal, _ := middleware.GetPrincipal(c)

	var address models.Address
	if err := c.ShouldBindJSON(&address); err != nil || address.Address == "" {
		respondMessage(c, http.StatusBadRequest, "Invalid address data")
		return
	}

	var user models.User
	if err := ctrl.db.First(&user, principal.ID).Error; err != nil {
		respondMessage(c, http.StatusNotFound, "Account not found")
		return
	}

	if address.IsDefault {
		for i := range user.Addresses {
			user.Addresses[i].IsDefault = false
		}
	}
	user.Addresses = append(user.Addresses, address)

	if err := ctrl.db.Model(&user).Select("Addresses").Updates(&models.User{Addresses: user.Addresses}).Error; err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, user.Addresses)
}

// UpdateAddress handles PUT /api/auth/addresses/:index.
func (ctrl *AuthController) UpdateAddress(c *gin.Context) {
	principal, _ := middleware.GetPrincipal(c)

	var address models.Address
	if err := c.ShouldBindJSON(&address); err != nil || address.Address == "" {
		respondMessage(c, http.StatusBadRequest, "Invalid address data")
		return
	}

	var user models.User
	if err := ctrl.db.First(&user, principal.ID).Error; err != nil {
		respondMessage(c, http.StatusNotFound, "Account not found")
		return
	}

	index, ok := addressIndex(c, user.Addresses)
	if !ok {
		return
	}

	if address.IsDefault {
		for i := range user.Addresses {
			user.Addresses[i].IsDefault = false
		}
	}
	user.Addresses[index] = address

	if err := ctrl.db.Model(&user).Select("Addresses").Updates(&models.User{Addresses: user.Addresses}).Error; err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, user.Addresses)
}

// DeleteAddress handles DELETE /api/auth/addresses/:index.
func (ctrl *AuthController) DeleteAddress(c *gin.Context) {
	principal, _ := middleware.GetPrincipal(c)

	var user models.User
	if err := ctrl.db.First(&user, principal.ID).Error; err != nil {
		respondMessage(c, http.StatusNotFound, "Account not found")
		return
	}

	index, ok := addressIndex(c, user.Addresses)
	if !ok {
		return
	}

	user.Addresses = append(user.Addresses[:index], user.Addresses[index+1:]...)

	if err := ctrl.db.Model(&user).Select("Addresses").Updates(&models.User{Addresses: user.Addresses}).Error; err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, user.Addresses)
}

func addressIndex(c *gin.Context, addresses []models.Address) (int, bool) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil || index < 0 || index >= len(addresses) {
		respondMessage(c, http.StatusNotFound, "Address not found")
		return 0, false
	}
	return index, true
}
