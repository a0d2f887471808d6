package controllers

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/fooddrop/delivery-api/middleware"
	"github.com/fooddrop/delivery-api/models"
)

func TestCreateOrderEndpoint(t *testing.T) {
	db := setupTestDB(t)
	ctrl := NewOrderController(db, testLogger())

	customer := seedTestCustomer(t, db, "customer@example.com")
	product := seedTestProduct(t, db, "Pad Thai", 80)

	tests := []struct {
		name           string
		body           map[string]interface{}
		expectedStatus int
	}{
		{
			name: "successful checkout",
			body: map[string]interface{}{
				"items": []map[string]interface{}{
					{"product": product.ID, "quantity": 2},
				},
				"delivery_address": map[string]interface{}{
					"address":    "1 Test Road",
					"postalCode": "10110",
				},
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name: "missing items",
			body: map[string]interface{}{
				"delivery_address": map[string]interface{}{"address": "1 Test Road"},
			},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "missing address",
			body: map[string]interface{}{
				"items": []map[string]interface{}{
					{"product": product.ID, "quantity": 1},
				},
				"delivery_address": map[string]interface{}{},
			},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "unknown product",
			body: map[string]interface{}{
				"items": []map[string]interface{}{
					{"product": 9999, "quantity": 1},
				},
				"delivery_address": map[string]interface{}{"address": "1 Test Road"},
			},
			expectedStatus: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := setupTestRouter()
			router.POST("/orders", mockAuthMiddleware(customerPrincipal(customer)), ctrl.Create)

			w, response := doJSON(t, router, http.MethodPost, "/orders", tt.body)
			assert.Equal(t, tt.expectedStatus, w.Code)

			if tt.expectedStatus == http.StatusCreated {
				assert.True(t, response["success"].(bool))
				data := response["data"].(map[string]interface{})
				assert.Contains(t, data["order_number"], "ORD")
				assert.Equal(t, "pending", data["status"])
				assert.Equal(t, float64(customer.ID), data["customer_id"])

				pricing := data["pricing"].(map[string]interface{})
				assert.Equal(t, 160.0, pricing["subtotal"])
			} else {
				assert.False(t, response["success"].(bool))
			}
		})
	}
}

func TestCreateOrderEndpoint_IgnoresClientPricingFields(t *testing.T) {
	db := setupTestDB(t)
	ctrl := NewOrderController(db, testLogger())

	customer := seedTestCustomer(t, db, "pricing@example.com")
	product := seedTestProduct(t, db, "Green Curry", 120)

	router := setupTestRouter()
	router.POST("/orders", mockAuthMiddleware(customerPrincipal(customer)), ctrl.Create)

	// Discount and tax sent by the client must not change the total.
	w, response := doJSON(t, router, http.MethodPost, "/orders", map[string]interface{}{
		"items": []map[string]interface{}{
			{"product": product.ID, "quantity": 1},
		},
		"delivery_address": map[string]interface{}{
			"address":    "1 Test Road",
			"postalCode": "10110",
		},
		"discount": 120.0,
		"tax":      -50.0,
	})
	assert.Equal(t, http.StatusCreated, w.Code)

	pricing := response["data"].(map[string]interface{})["pricing"].(map[string]interface{})
	assert.Equal(t, 120.0, pricing["subtotal"])
	assert.Equal(t, 0.0, pricing["discount"])
	assert.Equal(t, 0.0, pricing["tax"])
	assert.Equal(t, pricing["subtotal"].(float64)+pricing["deliveryFee"].(float64), pricing["total"])
}

func TestGetOrderEndpoint_Ownership(t *testing.T) {
	db := setupTestDB(t)
	ctrl := NewOrderController(db, testLogger())

	owner := seedTestCustomer(t, db, "owner@example.com")
	other := seedTestCustomer(t, db, "other@example.com")

	order := models.Order{
		OrderNumber: "ORD202603150001",
		CustomerID:  owner.ID,
		Status:      models.OrderPending,
		Payment:     models.Payment{Method: "cash", Status: "pending"},
	}
	assert.NoError(t, db.Create(&order).Error)

	tests := []struct {
		name           string
		principal      middleware.Principal
		expectedStatus int
	}{
		{"owner can read", customerPrincipal(owner), http.StatusOK},
		{"other customer forbidden", customerPrincipal(other), http.StatusForbidden},
		{"admin can read", adminPrincipal(), http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := setupTestRouter()
			router.GET("/orders/:id", mockAuthMiddleware(tt.principal), ctrl.Get)

			w, response := doJSON(t, router, http.MethodGet, "/orders/1", nil)
			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedStatus == http.StatusOK {
				data := response["data"].(map[string]interface{})
				assert.Equal(t, "ORD202603150001", data["order_number"])
			}
		})
	}
}

func TestTrackOrderEndpoint(t *testing.T) {
	db := setupTestDB(t)
	ctrl := NewOrderController(db, testLogger())

	customer := seedTestCustomer(t, db, "customer@example.com")
	driver := models.Driver{
		Name: "Track Driver", Email: "track@example.com", Password: "password123",
		Phone: "0899999999", IDCardNumber: "1111111111111", LicenseNumber: "DL-009",
		VehicleType: "motorcycle", VehiclePlate: "TR-0001",
		Status: models.DriverBusy, IsActive: true, IsVerified: true,
	}
	assert.NoError(t, db.Create(&driver).Error)

	order := models.Order{
		OrderNumber: "ORD202603150002",
		CustomerID:  customer.ID,
		Status:      models.OrderOutForDelivery,
		DriverID:    &driver.ID,
		Payment:     models.Payment{Method: "cash", Status: "pending"},
	}
	assert.NoError(t, db.Create(&order).Error)

	router := setupTestRouter()
	router.GET("/orders/track/:orderNumber", ctrl.Track)

	w, response := doJSON(t, router, http.MethodGet, "/orders/track/ORD202603150002", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	data := response["data"].(map[string]interface{})
	assert.Equal(t, "out_for_delivery", data["status"])

	driverData := data["driver"].(map[string]interface{})
	assert.Equal(t, "Track Driver", driverData["name"])
	assert.Equal(t, "TR-0001", driverData["vehicle_plate"])
	// The tracking payload never exposes driver identity documents.
	assert.NotContains(t, driverData, "id_card_number")

	w, _ = doJSON(t, router, http.MethodGet, "/orders/track/ORD000000000000", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUpdateOrderStatusEndpoint(t *testing.T) {
	db := setupTestDB(t)
	ctrl := NewOrderController(db, testLogger())

	customer := seedTestCustomer(t, db, "customer@example.com")
	order := models.Order{
		OrderNumber: "ORD202603150003",
		CustomerID:  customer.ID,
		Status:      models.OrderPending,
		Payment:     models.Payment{Method: "cash", Status: "pending"},
	}
	assert.NoError(t, db.Create(&order).Error)

	router := setupTestRouter()
	router.PATCH("/orders/:id/status", mockAuthMiddleware(adminPrincipal()), ctrl.UpdateStatus)

	w, response := doJSON(t, router, http.MethodPatch, "/orders/1/status",
		map[string]interface{}{"status": "confirmed"})
	assert.Equal(t, http.StatusOK, w.Code)
	data := response["data"].(map[string]interface{})
	assert.Equal(t, "confirmed", data["status"])

	w, _ = doJSON(t, router, http.MethodPatch, "/orders/1/status",
		map[string]interface{}{"status": "warp_speed"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = doJSON(t, router, http.MethodPatch, "/orders/9999/status",
		map[string]interface{}{"status": "confirmed"})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCancelOrderEndpoint(t *testing.T) {
	db := setupTestDB(t)
	ctrl := NewOrderController(db, testLogger())

	customer := seedTestCustomer(t, db, "customer@example.com")

	pending := models.Order{
		OrderNumber: "ORD202603150004",
		CustomerID:  customer.ID,
		Status:      models.OrderPending,
		Payment:     models.Payment{Method: "cash", Status: "pending"},
	}
	assert.NoError(t, db.Create(&pending).Error)

	delivered := models.Order{
		OrderNumber: "ORD202603150005",
		CustomerID:  customer.ID,
		Status:      models.OrderDelivered,
		Payment:     models.Payment{Method: "cash", Status: "paid"},
	}
	assert.NoError(t, db.Create(&delivered).Error)

	router := setupTestRouter()
	router.PATCH("/orders/:id/cancel", mockAuthMiddleware(customerPrincipal(customer)), ctrl.Cancel)

	w, response := doJSON(t, router, http.MethodPatch, "/orders/1/cancel",
		map[string]interface{}{"reason": "changed my mind"})
	assert.Equal(t, http.StatusOK, w.Code)
	data := response["data"].(map[string]interface{})
	assert.Equal(t, "cancelled", data["status"])

	w, _ = doJSON(t, router, http.MethodPatch, "/orders/2/cancel",
		map[string]interface{}{"reason": "too late"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRateOrderEndpoint(t *testing.T) {
	db := setupTestDB(t)
	ctrl := NewOrderController(db, testLogger())

	customer := seedTestCustomer(t, db, "customer@example.com")

	order := models.Order{
		OrderNumber: "ORD202603150006",
		CustomerID:  customer.ID,
		Status:      models.OrderDelivered,
		Payment:     models.Payment{Method: "cash", Status: "paid"},
	}
	assert.NoError(t, db.Create(&order).Error)

	router := setupTestRouter()
	router.POST("/orders/:id/rate", mockAuthMiddleware(customerPrincipal(customer)), ctrl.Rate)

	body := map[string]interface{}{"food": 5, "delivery": 4, "comment": "great"}

	w, response := doJSON(t, router, http.MethodPost, "/orders/1/rate", body)
	assert.Equal(t, http.StatusOK, w.Code)
	data := response["data"].(map[string]interface{})
	rating := data["rating"].(map[string]interface{})
	assert.Equal(t, float64(5), rating["food"])
	assert.Equal(t, float64(4), rating["delivery"])

	// Second rating conflicts.
	w, _ = doJSON(t, router, http.MethodPost, "/orders/1/rate", body)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestListOrdersEndpoint_Filters(t *testing.T) {
	db := setupTestDB(t)
	ctrl := NewOrderController(db, testLogger())

	customer := seedTestCustomer(t, db, "customer@example.com")
	for i, status := range []string{"pending", "pending", "delivered"} {
		order := models.Order{
			OrderNumber: "ORD20260315100" + string(rune('1'+i)),
			CustomerID:  customer.ID,
			Status:      status,
			Payment:     models.Payment{Method: "cash", Status: "pending"},
		}
		assert.NoError(t, db.Create(&order).Error)
	}

	router := setupTestRouter()
	router.GET("/orders", mockAuthMiddleware(adminPrincipal()), ctrl.List)

	w, response := doJSON(t, router, http.MethodGet, "/orders?status=pending", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(2), response["total"])
	assert.Len(t, response["data"], 2)

	w, response = doJSON(t, router, http.MethodGet, "/orders?limit=1&page=2", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(3), response["total"])
	assert.Equal(t, float64(3), response["pages"])
	assert.Len(t, response["data"], 1)
}

func TestMyOrdersEndpoint(t *testing.T) {
	db := setupTestDB(t)
	ctrl := NewOrderController(db, testLogger())

	mine := seedTestCustomer(t, db, "mine@example.com")
	other := seedTestCustomer(t, db, "other@example.com")

	for i, customerID := range []uint{mine.ID, mine.ID, other.ID} {
		order := models.Order{
			OrderNumber: "ORD20260315200" + string(rune('1'+i)),
			CustomerID:  customerID,
			Status:      models.OrderPending,
			Payment:     models.Payment{Method: "cash", Status: "pending"},
		}
		assert.NoError(t, db.Create(&order).Error)
	}

	router := setupTestRouter()
	router.GET("/orders/my-orders", mockAuthMiddleware(customerPrincipal(mine)), ctrl.MyOrders)

	w, response := doJSON(t, router, http.MethodGet, "/orders/my-orders", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(2), response["total"])
	for _, raw := range response["data"].([]interface{}) {
		order := raw.(map[string]interface{})
		assert.Equal(t, float64(mine.ID), order["customer_id"])
	}
}

func TestPendingCountEndpoint(t *testing.T) {
	db := setupTestDB(t)
	ctrl := NewOrderController(db, testLogger())

	customer := seedTestCustomer(t, db, "customer@example.com")
	for i, status := range []string{"pending", "pending", "confirmed", "delivered"} {
		order := models.Order{
			OrderNumber: "ORD20260315300" + string(rune('1'+i)),
			CustomerID:  customer.ID,
			Status:      status,
			Payment:     models.Payment{Method: "cash", Status: "pending"},
		}
		assert.NoError(t, db.Create(&order).Error)
	}

	router := setupTestRouter()
	router.GET("/orders/pending-count", mockAuthMiddleware(adminPrincipal()), ctrl.PendingCount)

	w, response := doJSON(t, router, http.MethodGet, "/orders/pending-count", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	data := response["data"].(map[string]interface{})
	assert.Equal(t, float64(2), data["pending"])
	assert.Equal(t, float64(1), data["confirmed"])
	assert.Equal(t, float64(0), data["preparing"])
}

func TestAssignDriverEndpoint(t *testing.T) {
	db := setupTestDB(t)
	ctrl := NewOrderController(db, testLogger())

	customer := seedTestCustomer(t, db, "customer2@example.com")
	driver := seedTestDriver(t, db, "assign@example.com", models.DriverAvailable)

	order := models.Order{
		OrderNumber: "ORD202603158001",
		CustomerID:  customer.ID,
		Status:      models.OrderConfirmed,
		Payment:     models.Payment{Method: "cash", Status: "pending"},
	}
	assert.NoError(t, db.Create(&order).Error)

	router := setupTestRouter()
	router.PATCH("/orders/:id/assign-driver", mockAuthMiddleware(adminPrincipal()), ctrl.AssignDriver)

	w, response := doJSON(t, router, http.MethodPatch, "/orders/1/assign-driver",
		map[string]interface{}{"driverId": driver.ID})
	assert.Equal(t, http.StatusOK, w.Code)

	data := response["data"].(map[string]interface{})
	assert.Equal(t, "driver_assigned", data["status"])
	assert.Equal(t, float64(driver.ID), data["driver_id"])

	// The driver is busy now, so a second order cannot get them.
	second := models.Order{
		OrderNumber: "ORD202603158002",
		CustomerID:  customer.ID,
		Status:      models.OrderConfirmed,
		Payment:     models.Payment{Method: "cash", Status: "pending"},
	}
	assert.NoError(t, db.Create(&second).Error)

	w, _ = doJSON(t, router, http.MethodPatch, "/orders/2/assign-driver",
		map[string]interface{}{"driverId": driver.ID})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
