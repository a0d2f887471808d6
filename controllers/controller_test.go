package controllers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/fooddrop/delivery-api/config"
	"github.com/fooddrop/delivery-api/middleware"
	"github.com/fooddrop/delivery-api/models"
)

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("Failed to get database handle: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	err = db.AutoMigrate(
		&models.User{},
		&models.Driver{},
		&models.Category{},
		&models.Product{},
		&models.DeliveryZone{},
		&models.Order{},
		&models.OrderItem{},
		&models.OrderStatusHistory{},
		&models.OrderCounter{},
	)
	if err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}
	return db
}

func setupTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	return gin.New()
}

func testConfig() *config.Config {
	return &config.Config{
		JWTSecret: "test-secret",
		JWTExpire: time.Hour,
		GoEnv:     "test",
	}
}

// mockAuthMiddleware injects a principal directly, bypassing token
// verification. Token handling itself is covered in the middleware tests.
func mockAuthMiddleware(p middleware.Principal) gin.HandlerFunc {
	return func(c *gin.Context) {
		middleware.SetPrincipal(c, p)
		c.Next()
	}
}

func testLogger() *zap.SugaredLogger {
	return zap.NewNop().Sugar()
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body interface{}) (*httptest.ResponseRecorder, map[string]interface{}) {
	var reader *bytes.Buffer
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("Failed to marshal request body: %v", err)
		}
		reader = bytes.NewBuffer(raw)
	} else {
		reader = bytes.NewBuffer(nil)
	}

	req, _ := http.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var response map[string]interface{}
	if len(w.Body.Bytes()) > 0 {
		if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
			t.Fatalf("Failed to parse response %q: %v", w.Body.String(), err)
		}
	}
	return w, response
}

func seedTestCustomer(t *testing.T, db *gorm.DB, email string) models.User {
	customer := models.User{
		Name:     "Test Customer",
		Email:    email,
		Password: "password123",
		Phone:    "0812345678",
		Role:     "customer",
		IsActive: true,
	}
	if err := db.Create(&customer).Error; err != nil {
		t.Fatalf("Failed to seed customer: %v", err)
	}
	return customer
}

func seedTestProduct(t *testing.T, db *gorm.DB, name string, price float64) models.Product {
	category := models.Category{Name: "Category for " + name, IsActive: true}
	if err := db.Create(&category).Error; err != nil {
		t.Fatalf("Failed to seed category: %v", err)
	}
	product := models.Product{
		Name:        name,
		Price:       price,
		CategoryID:  category.ID,
		IsAvailable: true,
		IsActive:    true,
	}
	if err := db.Create(&product).Error; err != nil {
		t.Fatalf("Failed to seed product: %v", err)
	}
	return product
}

func customerPrincipal(u models.User) middleware.Principal {
	return middleware.Principal{ID: u.ID, Role: u.Role, Name: u.Name}
}

func adminPrincipal() middleware.Principal {
	return middleware.Principal{ID: 999, Role: "admin", Name: "Admin"}
}
