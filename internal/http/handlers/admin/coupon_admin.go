package admin

import (
	"errors"
	"strconv"
	"time"

	"github.com/veloshop-next/internal/http/handlers/shared"
	"github.com/veloshop-next/internal/http/response"
	"github.com/veloshop-next/internal/models"
	"github.com/veloshop-next/internal/repository"
	"github.com/veloshop-next/internal/service"

	"github.com/gin-gonic/gin"
)

// CouponCreateRequest 创建优惠券请求
type CouponCreateRequest struct {
	Code         string       `json:"code" binding:"required"`
	Type         string       `json:"type" binding:"required"`
	Amount       models.Money `json:"amount" binding:"required"`
	MinCartTotal models.Money `json:"min_cart_total"`
	MaxUses      int          `json:"max_uses"`
	ExpiresAt    *time.Time   `json:"expires_at"`
	IsActive     *bool        `json:"is_active"`
}

// CouponUpdateRequest 更新优惠券请求
type CouponUpdateRequest struct {
	Amount       *models.Money `json:"amount"`
	MinCartTotal *models.Money `json:"min_cart_total"`
	MaxUses      *int          `json:"max_uses"`
	ExpiresAt    *time.Time    `json:"expires_at"`
	ClearExpires bool          `json:"clear_expires"`
	IsActive     *bool         `json:"is_active"`
}

// ListCoupons 优惠券分页列表
func (h *Handler) ListCoupons(c *gin.Context) {
	page, pageSize := shared.ParsePagination(c)

	coupons, total, err := h.CouponService.List(repository.CouponListFilter{
		Keyword:  c.Query("keyword"),
		Page:     page,
		PageSize: pageSize,
	})
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	response.SuccessWithPage(c, coupons, response.NewPagination(page, pageSize, total))
}

// CreateCoupon 创建优惠券
func (h *Handler) CreateCoupon(c *gin.Context) {
	var req CouponCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}

	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}
	coupon, err := h.CouponService.Create(service.CouponCreateInput{
		Code:         req.Code,
		Type:         req.Type,
		Amount:       req.Amount,
		MinCartTotal: req.MinCartTotal,
		MaxUses:      req.MaxUses,
		ExpiresAt:    req.ExpiresAt,
		IsActive:     isActive,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrCouponCodeExists):
			respondError(c, response.CodeBadRequest, "error.coupon_code_exists", nil)
		case errors.Is(err, service.ErrCouponInvalid):
			respondError(c, response.CodeBadRequest, "error.coupon_invalid", nil)
		default:
			respondError(c, response.CodeInternal, "error.internal", err)
		}
		return
	}
	response.Success(c, coupon)
}

// UpdateCoupon 更新优惠券
func (h *Handler) UpdateCoupon(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}

	var req CouponUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}

	coupon, err := h.CouponService.Update(uint(id), service.CouponUpdateInput{
		Amount:       req.Amount,
		MinCartTotal: req.MinCartTotal,
		MaxUses:      req.MaxUses,
		ExpiresAt:    req.ExpiresAt,
		ClearExpires: req.ClearExpires,
		IsActive:     req.IsActive,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrCouponNotFound):
			respondError(c, response.CodeNotFound, "error.coupon_not_found", nil)
		case errors.Is(err, service.ErrCouponInvalid):
			respondError(c, response.CodeBadRequest, "error.coupon_invalid", nil)
		default:
			respondError(c, response.CodeInternal, "error.internal", err)
		}
		return
	}
	response.Success(c, coupon)
}
