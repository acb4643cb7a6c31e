package service

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/veloshop-next/internal/config"
	"github.com/veloshop-next/internal/logger"
	"github.com/veloshop-next/internal/models"
)

// NotificationService 订单事件外发通知。
// 通知是尽力而为:失败只记日志,不影响订单主流程。
type NotificationService struct {
	webhookURL string
	client     *http.Client
}

func NewNotificationService(cfg config.NotifyConfig) *NotificationService {
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &NotificationService{
		webhookURL: cfg.WebhookURL,
		client:     &http.Client{Timeout: timeout},
	}
}

// Enabled 是否配置了外发地址
func (s *NotificationService) Enabled() bool {
	return s != nil && s.webhookURL != ""
}

// NotifyOrderEvent 推送订单事件到配置的回调地址
func (s *NotificationService) NotifyOrderEvent(ctx context.Context, event string, order *models.Order) error {
	if !s.Enabled() {
		return nil
	}

	payload := map[string]interface{}{
		"event":          event,
		"order_no":       order.OrderNo,
		"status":         order.Status,
		"payment_status": order.PaymentStatus,
		"total_amount":   order.TotalAmount.String(),
		"occurred_at":    time.Now().Format(time.RFC3339),
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.webhookURL, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		logger.Warnw("order_notify_failed", "event", event, "order_no", order.OrderNo, "error", err.Error())
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		logger.Warnw("order_notify_rejected",
			"event", event,
			"order_no", order.OrderNo,
			"status_code", resp.StatusCode,
		)
	}
	return nil
}
