package services

import (
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/fooddrop/delivery-api/apperr"
	"github.com/fooddrop/delivery-api/models"
)

func TestCreateOrder(t *testing.T) {
	db := setupTestDB(t)
	svc := NewOrderService(db, NewPricingService(db))

	customer := seedCustomer(t, db)
	product := seedProduct(t, db, "Pad Thai", 80)

	order, err := svc.Create(customer.ID, CreateOrderInput{
		Items: []QuoteItem{{ProductID: product.ID, Quantity: 2}},
		DeliveryAddress: models.Address{
			Address:    "1 Test Road",
			PostalCode: "10110",
		},
		Notes: "no peanuts",
	})
	assert.NoError(t, err)
	assert.True(t, strings.HasPrefix(order.OrderNumber, "ORD"))
	assert.Equal(t, models.OrderPending, order.Status)
	assert.Equal(t, customer.ID, order.CustomerID)
	assert.Equal(t, "cash", order.Payment.Method)
	assert.Equal(t, "pending", order.Payment.Status)
	assert.Equal(t, 160.0, order.Pricing.Subtotal)
	assert.Equal(t, DefaultDeliveryFee, order.Pricing.DeliveryFee)
	assert.NotNil(t, order.EstimatedDeliveryTime)

	// Creation writes the initial history entry.
	var history []models.OrderStatusHistory
	assert.NoError(t, db.Where("order_id = ?", order.ID).Find(&history).Error)
	assert.Len(t, history, 1)
	assert.Equal(t, models.OrderPending, history[0].Status)
	assert.Equal(t, customer.ID, history[0].ActorID)

	// Items are snapshotted rows.
	var items []models.OrderItem
	assert.NoError(t, db.Where("order_id = ?", order.ID).Find(&items).Error)
	assert.Len(t, items, 1)
	assert.Equal(t, "Pad Thai", items[0].Name)
	assert.Equal(t, 160.0, items[0].Subtotal)
}

func TestCreateOrder_EstimatedDeliveryWindow(t *testing.T) {
	db := setupTestDB(t)
	svc := NewOrderService(db, NewPricingService(db))

	customer := seedCustomer(t, db)
	product := seedProduct(t, db, "Green Curry", 120)

	before := time.Now()
	order, err := svc.Create(customer.ID, CreateOrderInput{
		Items:           []QuoteItem{{ProductID: product.ID, Quantity: 1}},
		DeliveryAddress: models.Address{Address: "1 Test Road"},
	})
	assert.NoError(t, err)

	eta := *order.EstimatedDeliveryTime
	assert.False(t, eta.Before(before.Add(PreparationWindow)))
	assert.False(t, eta.After(time.Now().Add(PreparationWindow)))
}

func TestCreateOrder_FailedPricingCreatesNothing(t *testing.T) {
	db := setupTestDB(t)
	svc := NewOrderService(db, NewPricingService(db))

	customer := seedCustomer(t, db)

	_, err := svc.Create(customer.ID, CreateOrderInput{
		Items:           []QuoteItem{{ProductID: 9999, Quantity: 1}},
		DeliveryAddress: models.Address{Address: "1 Test Road"},
	})
	assert.Error(t, err)
	assert.Equal(t, apperr.NotFound, apperr.KindOf(err))

	var orders, counters int64
	db.Model(&models.Order{}).Count(&orders)
	db.Model(&models.OrderCounter{}).Count(&counters)
	assert.Equal(t, int64(0), orders)
	assert.Equal(t, int64(0), counters)
}

func TestCreateOrder_ConcurrentNumbersDistinct(t *testing.T) {
	db := setupTestDB(t)
	svc := NewOrderService(db, NewPricingService(db))

	customer := seedCustomer(t, db)
	product := seedProduct(t, db, "Fried Rice", 100)

	const workers = 10
	var mu sync.Mutex
	numbers := make(map[string]bool)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			order, err := svc.Create(customer.ID, CreateOrderInput{
				Items:           []QuoteItem{{ProductID: product.ID, Quantity: 1}},
				DeliveryAddress: models.Address{Address: "1 Test Road"},
			})
			assert.NoError(t, err)
			mu.Lock()
			numbers[order.OrderNumber] = true
			mu.Unlock()
		}()
	}
	wg.Wait()

	assert.Len(t, numbers, workers)
}
