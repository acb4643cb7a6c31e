package public

import (
	"strconv"

	"github.com/veloshop-next/internal/http/response"

	"github.com/gin-gonic/gin"
)

// AddCartLineRequest 加购请求,省略数量按 1 件处理
type AddCartLineRequest struct {
	ProductID    uint `json:"product_id"`
	VariantID    uint `json:"variant_id"`
	ComboOfferID uint `json:"combo_offer_id"`
	Quantity     int  `json:"quantity" binding:"omitempty,min=1"`
}

// UpdateCartLineRequest 改数量请求
type UpdateCartLineRequest struct {
	Quantity int `json:"quantity" binding:"required"`
}

// GetCart 获取购物车快照
func (h *Handler) GetCart(c *gin.Context) {
	ownerID, ok := getOwnerID(c)
	if !ok {
		return
	}

	snapshot, err := h.CartService.Snapshot(ownerID)
	if err != nil {
		respondWithMappedError(c, err, cartCommonErrorRules, response.CodeInternal, "error.cart_fetch_failed")
		return
	}
	response.Success(c, snapshot)
}

// AddCartLine 加购,返回重算后的购物车快照
func (h *Handler) AddCartLine(c *gin.Context) {
	ownerID, ok := getOwnerID(c)
	if !ok {
		return
	}

	var req AddCartLineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}

	snapshot, err := h.CartService.AddItem(ownerID, req.ProductID, req.VariantID, req.ComboOfferID, req.Quantity)
	if err != nil {
		respondWithMappedError(c, err, cartCommonErrorRules, response.CodeInternal, "error.cart_update_failed")
		return
	}
	response.Success(c, snapshot)
}

// UpdateCartLine 覆盖式修改行数量
func (h *Handler) UpdateCartLine(c *gin.Context) {
	ownerID, ok := getOwnerID(c)
	if !ok {
		return
	}
	lineID, ok := parseLineID(c)
	if !ok {
		return
	}

	var req UpdateCartLineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}

	snapshot, err := h.CartService.UpdateQuantity(ownerID, lineID, req.Quantity)
	if err != nil {
		respondWithMappedError(c, err, cartCommonErrorRules, response.CodeInternal, "error.cart_update_failed")
		return
	}
	response.Success(c, snapshot)
}

// DeleteCartLine 删除行,幂等
func (h *Handler) DeleteCartLine(c *gin.Context) {
	ownerID, ok := getOwnerID(c)
	if !ok {
		return
	}
	lineID, ok := parseLineID(c)
	if !ok {
		return
	}

	snapshot, err := h.CartService.RemoveLine(ownerID, lineID)
	if err != nil {
		respondWithMappedError(c, err, cartCommonErrorRules, response.CodeInternal, "error.cart_update_failed")
		return
	}
	response.Success(c, snapshot)
}

// ClearCart 清空购物车
func (h *Handler) ClearCart(c *gin.Context) {
	ownerID, ok := getOwnerID(c)
	if !ok {
		return
	}

	snapshot, err := h.CartService.Clear(ownerID)
	if err != nil {
		respondWithMappedError(c, err, cartCommonErrorRules, response.CodeInternal, "error.cart_update_failed")
		return
	}
	response.Success(c, snapshot)
}

func parseLineID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return 0, false
	}
	return uint(id), true
}
