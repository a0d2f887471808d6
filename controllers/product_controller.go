package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/fooddrop/delivery-api/models"
	"github.com/fooddrop/delivery-api/utils"
)

// ProductController serves the public catalog reads and the admin
// catalog writes.
type ProductController struct {
	db *gorm.DB
}

// NewProductController wires a ProductController onto the given handle.
func NewProductController(db *gorm.DB) *ProductController {
	return &ProductController{db: db}
}

// List handles GET /api/products - public catalog listing.
func (ctrl *ProductController) List(c *gin.Context) {
	page := utils.ParsePagination(c, 20)

	query := ctrl.db.Model(&models.Product{}).Where("is_active = ?", true)
	if category := c.Query("category"); category != "" {
		query = query.Where("category_id = ?", category)
	}
	if search := c.Query("search"); search != "" {
		query = query.Where("name LIKE ?", "%"+search+"%")
	}
	if available := c.Query("available"); available != "" {
		query = query.Where("is_available = ?", available == "true")
	}

	order := "created_at DESC"
	switch c.Query("sort") {
	case "price_asc":
		order = "price ASC"
	case "price_desc":
		order = "price DESC"
	case "popular":
		order = "sold_count DESC"
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		respondError(c, err)
		return
	}

	var products []models.Product
	err := query.Preload("Category").Order(order).
		Offset(page.Offset()).Limit(page.Limit).Find(&products).Error
	if err != nil {
		respondError(c, err)
		return
	}

	respondList(c, len(products), total, page.Pages(total), products)
}

// Get handles GET /api/products/:id.
func (ctrl *ProductController) Get(c *gin.Context) {
	var product models.Product
	err := ctrl.db.Preload("Category").First(&product, c.Param("id")).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			respondMessage(c, http.StatusNotFound, "Product not found")
			return
		}
		respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, product)
}

// CreateProductRequest is the admin product creation body.
type CreateProductRequest struct {
	Name            string                 `json:"name" binding:"required"`
	Description     string                 `json:"description"`
	Price           float64                `json:"price" binding:"required,gt=0"`
	OriginalPrice   *float64               `json:"original_price"`
	CategoryID      uint                   `json:"category_id" binding:"required"`
	Image           string                 `json:"image"`
	SKU             *string                `json:"sku"`
	Stock           int                    `json:"stock"`
	IsAvailable     *bool                  `json:"is_available"`
	Options         []models.ProductOption `json:"options"`
	PreparationTime int                    `json:"preparation_time"`
	Tags            []string               `json:"tags"`
}

// Create handles POST /api/products - admin only.
func (ctrl *ProductController) Create(c *gin.Context) {
	var req CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondMessage(c, http.StatusBadRequest, "Invalid request data")
		return
	}

	var category models.Category
	if err := ctrl.db.First(&category, req.CategoryID).Error; err != nil {
		respondMessage(c, http.StatusBadRequest, "Category not found")
		return
	}

	available := true
	if req.IsAvailable != nil {
		available = *req.IsAvailable
	}
	prep := req.PreparationTime
	if prep == 0 {
		prep = 15
	}

	product := models.Product{
		Name:            req.Name,
		Description:     req.Description,
		Price:           req.Price,
		OriginalPrice:   req.OriginalPrice,
		CategoryID:      req.CategoryID,
		Image:           req.Image,
		SKU:             req.SKU,
		Stock:           req.Stock,
		IsAvailable:     available,
		IsActive:        true,
		Options:         req.Options,
		PreparationTime: prep,
		Tags:            req.Tags,
	}
	if err := ctrl.db.Create(&product).Error; err != nil {
		respondError(c, err)
		return
	}

	respondData(c, http.StatusCreated, product)
}

// UpdateProductRequest is the admin product update body.
type UpdateProductRequest struct {
	Name            *string                 `json:"name"`
	Description     *string                 `json:"description"`
	Price           *float64                `json:"price"`
	OriginalPrice   *float64                `json:"original_price"`
	CategoryID      *uint                   `json:"category_id"`
	Image           *string                 `json:"image"`
	Stock           *int                    `json:"stock"`
	IsAvailable     *bool                   `json:"is_available"`
	Options         *[]models.ProductOption `json:"options"`
	PreparationTime *int                    `json:"preparation_time"`
	Tags            *[]string               `json:"tags"`
}

// Update handles PUT /api/products/:id - admin only.
func (ctrl *ProductController) Update(c *gin.Context) {
	var req UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondMessage(c, http.StatusBadRequest, "Invalid request data")
		return
	}

	var product models.Product
	if err := ctrl.db.First(&product, c.Param("id")).Error; err != nil {
		respondMessage(c, http.StatusNotFound, "Product not found")
		return
	}

	// Changed fields are applied to the loaded record and written with an
	// explicit field list; a struct update runs the JSON serializer for
	// the options and tags columns, which a map update would bypass.
	var fields []string
	if req.Name != nil {
		product.Name = *req.Name
		fields = append(fields, "Name")
	}
	if req.Description != nil {
		product.Description = *req.Description
		fields = append(fields, "Description")
	}
	if req.Price != nil {
		if *req.Price <= 0 {
			respondMessage(c, http.StatusBadRequest, "Price must be greater than zero")
			return
		}
		product.Price = *req.Price
		fields = append(fields, "Price")
	}
	if req.OriginalPrice != nil {
		product.OriginalPrice = req.OriginalPrice
		fields = append(fields, "OriginalPrice")
	}
	if req.CategoryID != nil {
		var category models.Category
		if err := ctrl.db.First(&category, *req.CategoryID).Error; err != nil {
			respondMessage(c, http.StatusBadRequest, "Category not found")
			return
		}
		product.CategoryID = *req.CategoryID
		fields = append(fields, "CategoryID")
	}
	if req.Image != nil {
		product.Image = *req.Image
		fields = append(fields, "Image")
	}
	if req.Stock != nil {
		product.Stock = *req.Stock
		fields = append(fields, "Stock")
	}
	if req.IsAvailable != nil {
		product.IsAvailable = *req.IsAvailable
		fields = append(fields, "IsAvailable")
	}
	if req.Options != nil {
		product.Options = *req.Options
		fields = append(fields, "Options")
	}
	if req.PreparationTime != nil {
		product.PreparationTime = *req.PreparationTime
		fields = append(fields, "PreparationTime")
	}
	if req.Tags != nil {
		product.Tags = *req.Tags
		fields = append(fields, "Tags")
	}

	if len(fields) > 0 {
		if err := ctrl.db.Model(&product).Select(fields).Updates(&product).Error; err != nil {
			respondError(c, err)
			return
		}
	}

	respondData(c, http.StatusOK, product)
}

// Delete handles DELETE /api/products/:id - soft delete via is_active
// so historical order items keep a valid product reference.
func (ctrl *ProductController) Delete(c *gin.Context) {
	var product models.Product
	if err := ctrl.db.First(&product, c.Param("id")).Error; err != nil {
		respondMessage(c, http.StatusNotFound, "Product not found")
		return
	}

	err := ctrl.db.Model(&product).Updates(map[string]interface{}{
		"is_active":    false,
		"is_available": false,
	}).Error
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, gin.H{})
}

// UpdateStockRequest is the stock adjustment body.
type UpdateStockRequest struct {
	Stock *int `json:"stock" binding:"required"`
}

// UpdateStock handles PATCH /api/products/:id/stock.
func (ctrl *ProductController) UpdateStock(c *gin.Context) {
	var req UpdateStockRequest
	if err := c.ShouldBindJSON(&req); err != nil || *req.Stock < 0 {
		respondMessage(c, http.StatusBadRequest, "Invalid stock value")
		return
	}

	var product models.Product
	if err := ctrl.db.First(&product, c.Param("id")).Error; err != nil {
		respondMessage(c, http.StatusNotFound, "Product not found")
		return
	}

	if err := ctrl.db.Model(&product).Update("stock", *req.Stock).Error; err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, product)
}

// ToggleAvailability handles PATCH /api/products/:id/availability.
func (ctrl *ProductController) ToggleAvailability(c *gin.Context) {
	var product models.Product
	if err := ctrl.db.First(&product, c.Param("id")).Error; err != nil {
		respondMessage(c, http.StatusNotFound, "Product not found")
		return
	}

	if err := ctrl.db.Model(&product).Update("is_available", !product.IsAvailable).Error; err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, product)
}
