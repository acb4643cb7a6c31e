package public

import (
	"github.com/veloshop-next/internal/http/response"
	"github.com/veloshop-next/internal/models"
	"github.com/veloshop-next/internal/service"

	"github.com/gin-gonic/gin"
)

// CheckoutRequest 结算请求
type CheckoutRequest struct {
	ShippingAddress models.JSON `json:"shipping_address" binding:"required"`
	PaymentMethod   string      `json:"payment_method"`
	PaymentStatus   string      `json:"payment_status"`
	CouponCode      string      `json:"coupon_code"`
}

// Checkout 从购物车结算下单
func (h *Handler) Checkout(c *gin.Context) {
	ownerID, ok := getOwnerID(c)
	if !ok {
		return
	}

	var req CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}

	order, err := h.OrderService.CreateOrder(service.CreateOrderInput{
		OwnerID:         ownerID,
		ShippingAddress: req.ShippingAddress,
		PaymentMethod:   req.PaymentMethod,
		PaymentStatus:   req.PaymentStatus,
		CouponCode:      req.CouponCode,
	})
	if err != nil {
		respondWithMappedError(c, err, checkoutErrorRules, response.CodeInternal, "error.order_create_failed")
		return
	}
	response.Success(c, order)
}
