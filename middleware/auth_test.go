package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/fooddrop/delivery-api/config"
	"github.com/fooddrop/delivery-api/models"
)

func setupAuthTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}, &models.Driver{}); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}
	return db
}

func authTestConfig() *config.Config {
	return &config.Config{JWTSecret: "test-secret", JWTExpire: time.Hour}
}

func protectedRouter(cfg *config.Config, db *gorm.DB, extra ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	handlers := append([]gin.HandlerFunc{RequireAuth(cfg, db)}, extra...)
	handlers = append(handlers, func(c *gin.Context) {
		principal, _ := GetPrincipal(c)
		c.JSON(http.StatusOK, gin.H{"id": principal.ID, "role": principal.Role, "name": principal.Name})
	})
	router.GET("/protected", handlers...)
	return router
}

func doAuthed(router *gin.Engine, token string) *httptest.ResponseRecorder {
	req, _ := http.NewRequest(http.MethodGet, "/protected", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestRequireAuth_UserToken(t *testing.T) {
	db := setupAuthTestDB(t)
	cfg := authTestConfig()

	user := models.User{
		Name: "Auth User", Email: "auth@example.com", Password: "password123",
		Phone: "0812345678", Role: "manager", IsActive: true,
	}
	assert.NoError(t, db.Create(&user).Error)

	token, err := SignToken(cfg, user.ID, user.Role)
	assert.NoError(t, err)

	w := doAuthed(protectedRouter(cfg, db), token)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"role":"manager"`)
	assert.Contains(t, w.Body.String(), `"name":"Auth User"`)
}

func TestRequireAuth_DriverToken(t *testing.T) {
	db := setupAuthTestDB(t)
	cfg := authTestConfig()

	driver := models.Driver{
		Name: "Auth Driver", Email: "driver@example.com", Password: "password123",
		Phone: "0898765432", IDCardNumber: "1234567890123", LicenseNumber: "DL-001",
		VehicleType: "motorcycle", VehiclePlate: "AB-1234",
		Status: models.DriverOffline, IsActive: true, IsVerified: true,
	}
	assert.NoError(t, db.Create(&driver).Error)

	token, err := SignToken(cfg, driver.ID, "driver")
	assert.NoError(t, err)

	w := doAuthed(protectedRouter(cfg, db), token)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"role":"driver"`)
}

func TestRequireAuth_Rejections(t *testing.T) {
	db := setupAuthTestDB(t)
	cfg := authTestConfig()
	router := protectedRouter(cfg, db)

	t.Run("missing header", func(t *testing.T) {
		w := doAuthed(router, "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("garbage token", func(t *testing.T) {
		w := doAuthed(router, "not.a.token")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("wrong secret", func(t *testing.T) {
		other := &config.Config{JWTSecret: "other-secret", JWTExpire: time.Hour}
		token, err := SignToken(other, 1, "customer")
		assert.NoError(t, err)
		w := doAuthed(router, token)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("expired token", func(t *testing.T) {
		expired := &config.Config{JWTSecret: cfg.JWTSecret, JWTExpire: -time.Hour}
		token, err := SignToken(expired, 1, "customer")
		assert.NoError(t, err)
		w := doAuthed(router, token)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("account deleted after token issued", func(t *testing.T) {
		token, err := SignToken(cfg, 4242, "customer")
		assert.NoError(t, err)
		w := doAuthed(router, token)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestRequireRoles(t *testing.T) {
	db := setupAuthTestDB(t)
	cfg := authTestConfig()

	customer := models.User{
		Name: "Customer", Email: "customer@example.com", Password: "password123",
		Phone: "0812345678", Role: "customer", IsActive: true,
	}
	assert.NoError(t, db.Create(&customer).Error)

	admin := models.User{
		Name: "Admin", Email: "admin@example.com", Password: "password123",
		Phone: "0811111111", Role: "admin", IsActive: true,
	}
	assert.NoError(t, db.Create(&admin).Error)

	router := protectedRouter(cfg, db, RequireRoles("admin", "manager"))

	customerToken, _ := SignToken(cfg, customer.ID, customer.Role)
	adminToken, _ := SignToken(cfg, admin.ID, admin.Role)

	w := doAuthed(router, customerToken)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = doAuthed(router, adminToken)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(RequestID())
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"request_id": GetRequestID(c)})
	})

	// A fresh id is generated when the client sends none.
	req, _ := http.NewRequest(http.MethodGet, "/ping", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))

	// A client-supplied id is honored and echoed back.
	req, _ = http.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("X-Request-ID", "trace-123")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, "trace-123", w.Header().Get("X-Request-ID"))
	assert.Contains(t, w.Body.String(), "trace-123")
}
