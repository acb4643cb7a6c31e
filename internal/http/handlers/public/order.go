package public

import (
	"errors"

	"github.com/veloshop-next/internal/http/handlers/shared"
	"github.com/veloshop-next/internal/http/response"
	"github.com/veloshop-next/internal/service"

	"github.com/gin-gonic/gin"
)

// ListMyOrders 归属订单分页列表
func (h *Handler) ListMyOrders(c *gin.Context) {
	ownerID, ok := getOwnerID(c)
	if !ok {
		return
	}
	page, pageSize := shared.ParsePagination(c)

	orders, total, err := h.OrderService.ListForOwner(ownerID, page, pageSize)
	if err != nil {
		respondError(c, response.CodeInternal, "error.order_fetch_failed", err)
		return
	}
	response.SuccessWithPage(c, orders, response.NewPagination(page, pageSize, total))
}

// GetMyOrder 归属订单明细(按订单号)
func (h *Handler) GetMyOrder(c *gin.Context) {
	ownerID, ok := getOwnerID(c)
	if !ok {
		return
	}

	order, err := h.OrderService.GetByOrderNoForOwner(c.Param("order_no"), ownerID)
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
