package main

import (
	"log"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/fooddrop/delivery-api/config"
	"github.com/fooddrop/delivery-api/controllers"
	"github.com/fooddrop/delivery-api/middleware"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger, err := newLogger(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()
	sugar := logger.Sugar()

	db, err := config.ConnectDatabase(cfg)
	if err != nil {
		sugar.Fatalf("Failed to connect to database: %v", err)
	}
	if err := config.Migrate(db); err != nil {
		sugar.Fatalf("Failed to migrate database: %v", err)
	}
	sugar.Info("Database migration completed")

	router := setupRouter(cfg, db, sugar)

	sugar.Infof("Server listening on port %s", cfg.Port)
	if err := router.Run(":" + cfg.Port); err != nil {
		sugar.Fatalf("Failed to start server: %v", err)
	}
}

func newLogger(cfg *config.Config) (*zap.Logger, error) {
	if cfg.IsProduction() {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}

// setupRouter builds the gin engine with all middleware and routes.
func setupRouter(cfg *config.Config, db *gorm.DB, sugar *zap.SugaredLogger) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.Default()
	router.Use(middleware.RequestID())
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"X-Request-ID"},
		AllowCredentials: false,
	}))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"message": "Delivery API is running",
		})
	})

	authCtrl := controllers.NewAuthController(db, cfg)
	orderCtrl := controllers.NewOrderController(db, sugar)
	driverCtrl := controllers.NewDriverController(db)
	productCtrl := controllers.NewProductController(db)
	categoryCtrl := controllers.NewCategoryController(db)
	zoneCtrl := controllers.NewZoneController(db)
	customerCtrl := controllers.NewCustomerController(db)
	dashboardCtrl := controllers.NewDashboardController(db)

	authRequired := middleware.RequireAuth(cfg, db)
	staffOnly := middleware.RequireRoles("admin", "manager")
	adminOnly := middleware.RequireRoles("admin")
	driverOnly := middleware.RequireRoles("driver")

	auth := router.Group("/api/auth")
	{
		auth.POST("/register", authCtrl.Register)
		auth.POST("/login", authCtrl.Login)
		auth.POST("/admin/login", authCtrl.AdminLogin)
		auth.POST("/driver/login", authCtrl.DriverLogin)

		auth.GET("/me", authRequired, authCtrl.Me)
		auth.PUT("/updatedetails", authRequired, authCtrl.UpdateDetails)
		auth.PUT("/updatepassword", authRequired, authCtrl.UpdatePassword)
		auth.POST("/addresses", authRequired, authCtrl.AddAddress)
		auth.PUT("/addresses/:index", authRequired, authCtrl.UpdateAddress)
		auth.DELETE("/addresses/:index", authRequired, authCtrl.DeleteAddress)
	}

	orders := router.Group("/api/orders")
	{
		orders.GET("/track/:orderNumber", orderCtrl.Track)

		orders.POST("", authRequired, orderCtrl.Create)
		orders.GET("/my-orders", authRequired, orderCtrl.MyOrders)
		orders.GET("/pending-count", authRequired, staffOnly, orderCtrl.PendingCount)
		orders.GET("", authRequired, staffOnly, orderCtrl.List)
		orders.GET("/:id", authRequired, orderCtrl.Get)
		orders.PATCH("/:id/status", authRequired, middleware.RequireRoles("admin", "manager", "driver"), orderCtrl.UpdateStatus)
		orders.PATCH("/:id/assign-driver", authRequired, staffOnly, orderCtrl.AssignDriver)
		orders.PATCH("/:id/cancel", authRequired, orderCtrl.Cancel)
		orders.POST("/:id/rate", authRequired, orderCtrl.Rate)
	}

	drivers := router.Group("/api/drivers")
	{
		// Driver self-service.
		drivers.PATCH("/status", authRequired, driverOnly, driverCtrl.UpdateStatus)
		drivers.PATCH("/location", authRequired, driverOnly, driverCtrl.UpdateLocation)
		drivers.GET("/current-order", authRequired, driverOnly, driverCtrl.CurrentOrder)
		drivers.GET("/orders", authRequired, driverOnly, driverCtrl.Orders)

		// Back office.
		drivers.GET("", authRequired, staffOnly, driverCtrl.List)
		drivers.GET("/available", authRequired, staffOnly, driverCtrl.Available)
		drivers.POST("", authRequired, adminOnly, driverCtrl.Create)
		drivers.GET("/:id", authRequired, staffOnly, driverCtrl.Get)
		drivers.PUT("/:id", authRequired, adminOnly, driverCtrl.Update)
		drivers.DELETE("/:id", authRequired, adminOnly, driverCtrl.Delete)
		drivers.PATCH("/:id/verify", authRequired, adminOnly, driverCtrl.Verify)
		drivers.PATCH("/:id/suspend", authRequired, adminOnly, driverCtrl.Suspend)
		drivers.GET("/:id/stats", authRequired, staffOnly, driverCtrl.Stats)
	}

	products := router.Group("/api/products")
	{
		products.GET("", productCtrl.List)
		products.GET("/:id", productCtrl.Get)

		products.POST("", authRequired, staffOnly, productCtrl.Create)
		products.PUT("/:id", authRequired, staffOnly, productCtrl.Update)
		products.DELETE("/:id", authRequired, staffOnly, productCtrl.Delete)
		products.PATCH("/:id/availability", authRequired, staffOnly, productCtrl.ToggleAvailability)
		products.PATCH("/:id/stock", authRequired, staffOnly, productCtrl.UpdateStock)
	}

	categories := router.Group("/api/categories")
	{
		categories.GET("", categoryCtrl.List)
		categories.GET("/:id", categoryCtrl.Get)

		categories.POST("", authRequired, staffOnly, categoryCtrl.Create)
		categories.PUT("/:id", authRequired, staffOnly, categoryCtrl.Update)
		categories.DELETE("/:id", authRequired, staffOnly, categoryCtrl.Delete)
	}

	zones := router.Group("/api/zones")
	{
		zones.GET("", zoneCtrl.List)
		zones.GET("/check/:postalCode", zoneCtrl.Check)
		zones.POST("/calculate-fee", zoneCtrl.CalculateFee)
		zones.GET("/:id", zoneCtrl.Get)

		zones.POST("", authRequired, staffOnly, zoneCtrl.Create)
		zones.PUT("/:id", authRequired, staffOnly, zoneCtrl.Update)
		zones.DELETE("/:id", authRequired, staffOnly, zoneCtrl.Delete)
	}

	customers := router.Group("/api/customers", authRequired, staffOnly)
	{
		customers.GET("", customerCtrl.List)
		customers.GET("/:id", customerCtrl.Get)
		customers.GET("/:id/orders", customerCtrl.Orders)
		customers.PUT("/:id", customerCtrl.Update)
		customers.PATCH("/:id/deactivate", customerCtrl.Deactivate)
		customers.PATCH("/:id/activate", customerCtrl.Activate)
		customers.DELETE("/:id", adminOnly, customerCtrl.Delete)
	}

	dashboard := router.Group("/api/dashboard", authRequired, staffOnly)
	{
		dashboard.GET("/overview", dashboardCtrl.Overview)
		dashboard.GET("/recent-orders", dashboardCtrl.RecentOrders)
		dashboard.GET("/top-products", dashboardCtrl.TopProducts)
	}

	return router
}
