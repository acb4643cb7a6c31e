package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/hibiken/asynq"

	"github.com/veloshop-next/internal/constants"
	"github.com/veloshop-next/internal/logger"
	"github.com/veloshop-next/internal/queue"
	"github.com/veloshop-next/internal/service"
)

// 订单事件对外通知的事件名
const (
	eventOrderCreated       = "order.created"
	eventOrderStatusChanged = "order.status_changed"
)

// Consumer 订单事件消费者,负责把队列任务转成外发通知
type Consumer struct {
	orders   *service.OrderService
	notifier *service.NotificationService
}

func NewConsumer(orders *service.OrderService, notifier *service.NotificationService) *Consumer {
	return &Consumer{orders: orders, notifier: notifier}
}

// Register 注册任务处理器
func (c *Consumer) Register(mux *asynq.ServeMux) {
	mux.HandleFunc(constants.TaskOrderCreated, c.handleOrderCreated)
	mux.HandleFunc(constants.TaskOrderStatusChanged, c.handleOrderStatusChanged)
}

func (c *Consumer) handleOrderCreated(ctx context.Context, task *asynq.Task) error {
	var payload queue.OrderCreatedPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return fmt.Errorf("decode order created payload: %w", asynq.SkipRetry)
	}
	return c.notify(ctx, eventOrderCreated, payload.OrderID)
}

func (c *Consumer) handleOrderStatusChanged(ctx context.Context, task *asynq.Task) error {
	var payload queue.OrderStatusChangedPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return fmt.Errorf("decode order status payload: %w", asynq.SkipRetry)
	}
	return c.notify(ctx, eventOrderStatusChanged, payload.OrderID)
}

// notify 加载订单并外发。订单已不存在时丢弃任务不重试。
func (c *Consumer) notify(ctx context.Context, event string, orderID uint) error {
	order, err := c.orders.GetByID(orderID)
	if errors.Is(err, service.ErrOrderNotFound) {
		logger.Warnw("worker_order_missing", "event", event, "order_id", orderID)
		return fmt.Errorf("order %d missing: %w", orderID, asynq.SkipRetry)
	}
	if err != nil {
		return err
	}
	return c.notifier.NotifyOrderEvent(ctx, event, order)
}
