package service

import (
	"time"

	"github.com/veloshop-next/internal/constants"
	"github.com/veloshop-next/internal/logger"
	"github.com/veloshop-next/internal/models"
)

// allowedTransitions 订单状态迁移表,表外迁移一律拒绝
var allowedTransitions = map[string]map[string]bool{
	constants.OrderStatusPending: {
		constants.OrderStatusProcessing: true,
		constants.OrderStatusCancelled:  true,
	},
	constants.OrderStatusProcessing: {
		constants.OrderStatusShipped:   true,
		constants.OrderStatusCancelled: true,
	},
	constants.OrderStatusShipped: {
		constants.OrderStatusDelivered: true,
	},
}

// TransitionInput 状态迁移入参
type TransitionInput struct {
	ToStatus       string
	TrackingNumber string
}

// CanTransition 判断迁移是否在允许表内
func CanTransition(fromStatus, toStatus string) bool {
	return allowedTransitions[fromStatus][toStatus]
}

// Transition 执行订单状态迁移。
// 更新以当前状态为条件,并发修改导致条件失配时按非法迁移处理。
func (s *OrderService) Transition(orderID uint, input TransitionInput) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	if !CanTransition(order.Status, input.ToStatus) {
		return nil, ErrInvalidTransition
	}

	updates := map[string]interface{}{"status": input.ToStatus}
	switch input.ToStatus {
	case constants.OrderStatusShipped:
		if input.TrackingNumber == "" {
			return nil, ErrTrackingNumberRequired
		}
		updates["tracking_number"] = input.TrackingNumber
	case constants.OrderStatusCancelled:
		updates["cancelled_at"] = time.Now()
	}

	rows, err := s.orderRepo.UpdateStatusGuarded(orderID, order.Status, updates)
	if err != nil {
		return nil, err
	}
	if rows == 0 {
		return nil, ErrInvalidTransition
	}

	logger.Infow("order_status_changed",
		"order_no", order.OrderNo,
		"from_status", order.Status,
		"to_status", input.ToStatus,
	)
	s.queueClient.EnqueueOrderStatusChanged(orderID, input.ToStatus)
	return s.GetByID(orderID)
}

// AddTrackingUpdate 追加物流事件并刷新最近物流状态。
// 物流事件不受订单状态机限制,任何状态都可追加。
func (s *OrderService) AddTrackingUpdate(orderID uint, update models.TrackingUpdate) (*models.Order, error) {
	if update.Date == "" || update.Status == "" {
		return nil, ErrTrackingUpdateInvalid
	}

	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}

	if err := s.orderRepo.AppendTrackingUpdate(orderID, &update); err != nil {
		return nil, err
	}
	rows, err := s.orderRepo.UpdateStatusGuarded(orderID, order.Status, map[string]interface{}{
		"tracking_status": update.Status,
	})
	if err != nil {
		return nil, err
	}
	if rows == 0 {
		logger.Warnw("order_tracking_status_skip", "order_id", orderID)
	}
	return s.GetByID(orderID)
}
