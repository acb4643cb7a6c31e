package service

import (
	"errors"
	"testing"

	"github.com/veloshop-next/internal/constants"
	"github.com/veloshop-next/internal/models"
)

func createPendingOrder(t *testing.T, env orderTestEnv, slug string) *models.Order {
	t.Helper()
	product := createTestProduct(t, env.db, slug, "20.00", "", 50)
	if _, err := env.carts.AddItem("user:1", product.ID, 0, 0, 1); err != nil {
		t.Fatalf("add to cart failed: %v", err)
	}
	order, err := env.orders.CreateOrder(CreateOrderInput{
		OwnerID:         "user:1",
		ShippingAddress: testShippingAddress(),
	})
	if err != nil {
		t.Fatalf("create order failed: %v", err)
	}
	return order
}

func TestTransitionHappyPath(t *testing.T) {
	env := setupOrderTest(t)
	order := createPendingOrder(t, env, "ship-me")

	order, err := env.orders.Transition(order.ID, TransitionInput{ToStatus: constants.OrderStatusProcessing})
	if err != nil {
		t.Fatalf("pending -> processing failed: %v", err)
	}
	if order.Status != constants.OrderStatusProcessing {
		t.Fatalf("expected processing, got %s", order.Status)
	}

	order, err = env.orders.Transition(order.ID, TransitionInput{
		ToStatus:       constants.OrderStatusShipped,
		TrackingNumber: "TRK-0001",
	})
	if err != nil {
		t.Fatalf("processing -> shipped failed: %v", err)
	}
	if order.TrackingNumber != "TRK-0001" {
		t.Fatalf("expected tracking number persisted, got %q", order.TrackingNumber)
	}

	order, err = env.orders.Transition(order.ID, TransitionInput{ToStatus: constants.OrderStatusDelivered})
	if err != nil {
		t.Fatalf("shipped -> delivered failed: %v", err)
	}
	if order.Status != constants.OrderStatusDelivered {
		t.Fatalf("expected delivered, got %s", order.Status)
	}
}

func TestTransitionRejectsSkippedAndBackwardMoves(t *testing.T) {
	env := setupOrderTest(t)
	order := createPendingOrder(t, env, "no-shortcut")

	// 不允许跳过 processing 直接发货
	if _, err := env.orders.Transition(order.ID, TransitionInput{
		ToStatus:       constants.OrderStatusShipped,
		TrackingNumber: "TRK-0002",
	}); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition for pending -> shipped, got %v", err)
	}

	if _, err := env.orders.Transition(order.ID, TransitionInput{ToStatus: constants.OrderStatusProcessing}); err != nil {
		t.Fatalf("pending -> processing failed: %v", err)
	}
	if _, err := env.orders.Transition(order.ID, TransitionInput{
		ToStatus:       constants.OrderStatusShipped,
		TrackingNumber: "TRK-0002",
	}); err != nil {
		t.Fatalf("processing -> shipped failed: %v", err)
	}

	// 已发货不可取消,也不可回退
	if _, err := env.orders.Transition(order.ID, TransitionInput{ToStatus: constants.OrderStatusCancelled}); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition for shipped -> cancelled, got %v", err)
	}
	if _, err := env.orders.Transition(order.ID, TransitionInput{ToStatus: constants.OrderStatusPending}); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition for shipped -> pending, got %v", err)
	}
}

func TestTransitionTerminalStatesAreFinal(t *testing.T) {
	env := setupOrderTest(t)
	order := createPendingOrder(t, env, "finality")

	order, err := env.orders.Transition(order.ID, TransitionInput{ToStatus: constants.OrderStatusCancelled})
	if err != nil {
		t.Fatalf("pending -> cancelled failed: %v", err)
	}
	if order.CancelledAt == nil {
		t.Fatalf("expected cancelled_at to be set")
	}

	for _, to := range []string{
		constants.OrderStatusPending,
		constants.OrderStatusProcessing,
		constants.OrderStatusShipped,
		constants.OrderStatusDelivered,
	} {
		if _, err := env.orders.Transition(order.ID, TransitionInput{ToStatus: to, TrackingNumber: "TRK-0003"}); !errors.Is(err, ErrInvalidTransition) {
			t.Fatalf("expected ErrInvalidTransition for cancelled -> %s, got %v", to, err)
		}
	}
}

func TestTransitionShippedRequiresTrackingNumber(t *testing.T) {
	env := setupOrderTest(t)
	order := createPendingOrder(t, env, "needs-tracking")

	if _, err := env.orders.Transition(order.ID, TransitionInput{ToStatus: constants.OrderStatusProcessing}); err != nil {
		t.Fatalf("pending -> processing failed: %v", err)
	}
	if _, err := env.orders.Transition(order.ID, TransitionInput{ToStatus: constants.OrderStatusShipped}); !errors.Is(err, ErrTrackingNumberRequired) {
		t.Fatalf("expected ErrTrackingNumberRequired, got %v", err)
	}

	// 校验失败不得改变订单状态
	reloaded, err := env.orders.GetByID(order.ID)
	if err != nil {
		t.Fatalf("reload order failed: %v", err)
	}
	if reloaded.Status != constants.OrderStatusProcessing {
		t.Fatalf("expected processing after rejected ship, got %s", reloaded.Status)
	}
}

func TestAddTrackingUpdate(t *testing.T) {
	env := setupOrderTest(t)
	order := createPendingOrder(t, env, "trackable")

	if _, err := env.orders.AddTrackingUpdate(order.ID, models.TrackingUpdate{Status: "picked_up"}); !errors.Is(err, ErrTrackingUpdateInvalid) {
		t.Fatalf("expected ErrTrackingUpdateInvalid for missing date, got %v", err)
	}
	if _, err := env.orders.AddTrackingUpdate(order.ID, models.TrackingUpdate{Date: "2026-09-01"}); !errors.Is(err, ErrTrackingUpdateInvalid) {
		t.Fatalf("expected ErrTrackingUpdateInvalid for missing status, got %v", err)
	}

	order, err := env.orders.AddTrackingUpdate(order.ID, models.TrackingUpdate{
		Date:     "2026-09-01",
		Status:   "picked_up",
		Location: "Portland Hub",
	})
	if err != nil {
		t.Fatalf("add tracking update failed: %v", err)
	}
	order, err = env.orders.AddTrackingUpdate(order.ID, models.TrackingUpdate{
		Date:   "2026-09-02",
		Status: "in_transit",
	})
	if err != nil {
		t.Fatalf("add second tracking update failed: %v", err)
	}

	if len(order.TrackingUpdates) != 2 {
		t.Fatalf("expected 2 tracking updates, got %d", len(order.TrackingUpdates))
	}
	if order.TrackingUpdates[0].Status != "picked_up" || order.TrackingUpdates[1].Status != "in_transit" {
		t.Fatalf("unexpected tracking update order: %+v", order.TrackingUpdates)
	}
	if order.TrackingStatus != "in_transit" {
		t.Fatalf("expected tracking_status in_transit, got %s", order.TrackingStatus)
	}
}
