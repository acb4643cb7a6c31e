package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/hibiken/asynq"
	"gorm.io/gorm"

	"github.com/veloshop-next/internal/config"
	"github.com/veloshop-next/internal/constants"
	"github.com/veloshop-next/internal/models"
	"github.com/veloshop-next/internal/queue"
	"github.com/veloshop-next/internal/repository"
	"github.com/veloshop-next/internal/service"
)

func setupConsumerTest(t *testing.T, webhookURL string) (*Consumer, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:worker_consumer_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.Order{}, &models.OrderItem{}, &models.TrackingUpdate{}); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}

	pricing := service.NewPricingService(repository.NewGormProductRepository(db), repository.NewGormComboOfferRepository(db))
	orders := service.NewOrderService(db,
		repository.NewGormOrderRepository(db),
		repository.NewGormCartRepository(db),
		pricing,
		service.NewCouponService(repository.NewGormCouponRepository(db)),
		queue.NewClient(config.QueueConfig{Enabled: false}))
	notifier := service.NewNotificationService(config.NotifyConfig{WebhookURL: webhookURL})
	return NewConsumer(orders, notifier), db
}

func TestHandleOrderCreatedNotifiesWebhook(t *testing.T) {
	received := make(chan map[string]interface{}, 1)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]interface{}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode webhook body failed: %v", err)
		}
		received <- body
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	consumer, db := setupConsumerTest(t, server.URL)
	order := models.Order{
		OrderNo:             "VS20260901000001",
		OwnerID:             "user:1",
		Status:              constants.OrderStatusPending,
		PaymentStatus:       constants.PaymentStatusUnpaid,
		ShippingAddressJSON: models.JSON{"city": "Portland"},
	}
	if err := db.Create(&order).Error; err != nil {
		t.Fatalf("create order failed: %v", err)
	}

	payload, _ := json.Marshal(queue.OrderCreatedPayload{OrderID: order.ID})
	task := asynq.NewTask(constants.TaskOrderCreated, payload)
	if err := consumer.handleOrderCreated(context.Background(), task); err != nil {
		t.Fatalf("handle order created failed: %v", err)
	}

	select {
	case body := <-received:
		if body["event"] != "order.created" {
			t.Fatalf("event want order.created got %v", body["event"])
		}
		if body["order_no"] != order.OrderNo {
			t.Fatalf("order_no want %s got %v", order.OrderNo, body["order_no"])
		}
	case <-time.After(time.Second):
		t.Fatalf("webhook was not called")
	}
}

func TestHandleOrderCreatedSkipsMissingOrder(t *testing.T) {
	consumer, _ := setupConsumerTest(t, "")

	payload, _ := json.Marshal(queue.OrderCreatedPayload{OrderID: 9999})
	task := asynq.NewTask(constants.TaskOrderCreated, payload)
	err := consumer.handleOrderCreated(context.Background(), task)
	if !errors.Is(err, asynq.SkipRetry) {
		t.Fatalf("expected SkipRetry for missing order, got %v", err)
	}
}

func TestHandleOrderStatusChangedSkipsBadPayload(t *testing.T) {
	consumer, _ := setupConsumerTest(t, "")

	task := asynq.NewTask(constants.TaskOrderStatusChanged, []byte("not-json"))
	err := consumer.handleOrderStatusChanged(context.Background(), task)
	if !errors.Is(err, asynq.SkipRetry) {
		t.Fatalf("expected SkipRetry for bad payload, got %v", err)
	}
}
