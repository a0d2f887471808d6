package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/fooddrop/delivery-api/models"
)

// CategoryController serves the catalog category endpoints.
type CategoryController struct {
	db *gorm.DB
}

// NewCategoryController wires a CategoryController onto the given handle.
func NewCategoryController(db *gorm.DB) *CategoryController {
	return &CategoryController{db: db}
}

// List handles GET /api/categories - active categories in sort order.
func (ctrl *CategoryController) List(c *gin.Context) {
	query := ctrl.db.Model(&models.Category{})
	if c.Query("all") != "true" {
		query = query.Where("is_active = ?", true)
	}

	var categories []models.Category
	if err := query.Order("sort_order ASC, name ASC").Find(&categories).Error; err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"count":   len(categories),
		"data":    categories,
	})
}

// Get handles GET /api/categories/:id.
func (ctrl *CategoryController) Get(c *gin.Context) {
	var category models.Category
	if err := ctrl.db.First(&category, c.Param("id")).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			respondMessage(c, http.StatusNotFound, "Category not found")
			return
		}
		respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, category)
}

// CategoryRequest is the admin category create/update body.
type CategoryRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	Image       string `json:"image"`
	SortOrder   int    `json:"sort_order"`
	IsActive    *bool  `json:"is_active"`
}

// Create handles POST /api/categories - admin only.
func (ctrl *CategoryController) Create(c *gin.Context) {
	var req CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondMessage(c, http.StatusBadRequest, "Invalid request data")
		return
	}

	var existing models.Category
	if err := ctrl.db.Where("name = ?", req.Name).First(&existing).Error; err == nil {
		respondMessage(c, http.StatusBadRequest, "Category name already exists")
		return
	}

	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}

	category := models.Category{
		Name:        req.Name,
		Description: req.Description,
		Image:       req.Image,
		SortOrder:   req.SortOrder,
		IsActive:    active,
	}
	if err := ctrl.db.Create(&category).Error; err != nil {
		respondError(c, err)
		return
	}

	respondData(c, http.StatusCreated, category)
}

// Update handles PUT /api/categories/:id - admin only.
func (ctrl *CategoryController) Update(c *gin.Context) {
	var req CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondMessage(c, http.StatusBadRequest, "Invalid request data")
		return
	}

	var category models.Category
	if err := ctrl.db.First(&category, c.Param("id")).Error; err != nil {
		respondMessage(c, http.StatusNotFound, "Category not found")
		return
	}

	updates := map[string]interface{}{
		"name":        req.Name,
		"description": req.Description,
		"image":       req.Image,
		"sort_order":  req.SortOrder,
	}
	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
	}

	if err := ctrl.db.Model(&category).Updates(updates).Error; err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, category)
}

// Delete handles DELETE /api/categories/:id. A category still holding
// products cannot be removed.
func (ctrl *CategoryController) Delete(c *gin.Context) {
	var category models.Category
	if err := ctrl.db.First(&category, c.Param("id")).Error; err != nil {
		respondMessage(c, http.StatusNotFound, "Category not found")
		return
	}

	var count int64
	if err := ctrl.db.Model(&models.Product{}).
		Where("category_id = ? AND is_active = ?", category.ID, true).
		Count(&count).Error; err != nil {
		respondError(c, err)
		return
	}
	if count > 0 {
		respondMessage(c, http.StatusBadRequest, "Cannot delete a category that still has products")
		return
	}

	if err := ctrl.db.Delete(&category).Error; err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, gin.H{})
}
