package services

import (
	"fmt"
	"sync/atomic"
	"testing"

	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/fooddrop/delivery-api/models"
)

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}

	// A single shared connection keeps every goroutine on the same
	// in-memory database.
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

func testLifecycle(db *gorm.DB) *LifecycleService {
	return NewLifecycleService(db, zap.NewNop().Sugar())
}

func seedCustomer(t *testing.T, db *gorm.DB) models.User {
	customer := models.User{
		Name:     "Test Customer",
		Email:    "customer@example.com",
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

var seedDriverSeq uint32

func seedDriver(t *testing.T, db *gorm.DB, status string) models.Driver {
	n := atomic.AddUint32(&seedDriverSeq, 1)
	driver := models.Driver{
		Name:          "Test Driver",
		Email:         fmt.Sprintf("driver%d@example.com", n),
		Password:      "password123",
		Phone:         "0898765432",
		IDCardNumber:  "1234567890123",
		LicenseNumber: "DL-001",
		VehicleType:   "motorcycle",
		VehiclePlate:  "AB-1234",
		Status:        status,
		IsActive:      true,
		IsVerified:    true,
	}
	if err := db.Create(&driver).Error; err != nil {
		t.Fatalf("Failed to seed driver: %v", err)
	}
	return driver
}

func seedProduct(t *testing.T, db *gorm.DB, name string, price float64) models.Product {
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

var seedOrderSeq uint32

func seedOrder(t *testing.T, db *gorm.DB, customerID uint, status string, mutate func(*models.Order)) models.Order {
	order := models.Order{
		OrderNumber: fmt.Sprintf("ORD20260101%04d", atomic.AddUint32(&seedOrderSeq, 1)),
		CustomerID:  customerID,
		Status:      status,
		Pricing: models.Pricing{
			Subtotal:    100,
			DeliveryFee: 40,
			Total:       140,
		},
		Payment: models.Payment{Method: "cash", Status: "pending"},
		DeliveryAddress: models.Address{
			Address:    "1 Test Road",
			PostalCode: "10110",
		},
	}
	if mutate != nil {
		mutate(&order)
	}
	if err := db.Create(&order).Error; err != nil {
		t.Fatalf("Failed to seed order: %v", err)
	}
	return order
}
