package admin

import (
	"errors"
	"strconv"

	"github.com/veloshop-next/internal/http/handlers/shared"
	"github.com/veloshop-next/internal/http/response"
	"github.com/veloshop-next/internal/models"
	"github.com/veloshop-next/internal/repository"
	"github.com/veloshop-next/internal/service"

	"github.com/gin-gonic/gin"
)

// UpdateOrderStatusRequest 状态迁移请求
type UpdateOrderStatusRequest struct {
	Status         string `json:"status" binding:"required"`
	TrackingNumber string `json:"tracking_number"`
}

// AddTrackingUpdateRequest 物流事件请求
type AddTrackingUpdateRequest struct {
	Date        string `json:"date" binding:"required"`
	Status      string `json:"status" binding:"required"`
	Location    string `json:"location"`
	Description string `json:"description"`
}

// ListOrders 管理端订单列表
func (h *Handler) ListOrders(c *gin.Context) {
	page, pageSize := shared.ParsePagination(c)

	orders, total, err := h.OrderService.ListAdmin(repository.OrderListFilter{
		Status:        c.Query("status"),
		PaymentStatus: c.Query("payment_status"),
		Keyword:       c.Query("keyword"),
		Page:          page,
		PageSize:      pageSize,
	})
	if err != nil {
		respondError(c, response.CodeInternal, "error.order_fetch_failed", err)
		return
	}
	response.SuccessWithPage(c, orders, response.NewPagination(page, pageSize, total))
}

// GetOrder 管理端订单明细
func (h *Handler) GetOrder(c *gin.Context) {
	orderID, ok := parseOrderID(c)
	if !ok {
		return
	}

	order, err := h.OrderService.GetByID(orderID)
	if err != nil {
		if errors.Is(err, service.ErrOrderNotFound) {
			respondError(c, response.CodeNotFound, "error.order_not_found", nil)
			return
		}
		respondError(c, response.CodeInternal, "error.order_fetch_failed", err)
		return
	}
	response.Success(c, order)
}

// UpdateOrderStatus 执行订单状态迁移
func (h *Handler) UpdateOrderStatus(c *gin.Context) {
	orderID, ok := parseOrderID(c)
	if !ok {
		return
	}

	var req UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}

	order, err := h.OrderService.Transition(orderID, service.TransitionInput{
		ToStatus:       req.Status,
		TrackingNumber: req.TrackingNumber,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrOrderNotFound):
			respondError(c, response.CodeNotFound, "error.order_not_found", nil)
		case errors.Is(err, service.ErrInvalidTransition):
			respondError(c, response.CodeBadRequest, "error.transition_invalid", nil)
		case errors.Is(err, service.ErrTrackingNumberRequired):
			respondError(c, response.CodeBadRequest, "error.tracking_number_required", nil)
		default:
			respondError(c, response.CodeInternal, "error.order_update_failed", err)
		}
		return
	}
	response.Success(c, order)
}

// AddTrackingUpdate 追加物流事件
func (h *Handler) AddTrackingUpdate(c *gin.Context) {
	orderID, ok := parseOrderID(c)
	if !ok {
		return
	}

	var req AddTrackingUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.tracking_update_invalid", nil)
		return
	}

	order, err := h.OrderService.AddTrackingUpdate(orderID, models.TrackingUpdate{
		Date:        req.Date,
		Status:      req.Status,
		Location:    req.Location,
		Description: req.Description,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrOrderNotFound):
			respondError(c, response.CodeNotFound, "error.order_not_found", nil)
		case errors.Is(err, service.ErrTrackingUpdateInvalid):
			respondError(c, response.CodeBadRequest, "error.tracking_update_invalid", nil)
		default:
			respondError(c, response.CodeInternal, "error.order_update_failed", err)
		}
		return
	}
	response.Success(c, order)
}

func parseOrderID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return 0, false
	}
	return uint(id), true
}
