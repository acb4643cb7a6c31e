package service

import "errors"

// 业务错误定义,处理器按 errors.Is 映射为响应码与多语言文案
var (
	ErrLoginFailed = errors.New("login failed")

	ErrProductNotAvailable  = errors.New("product not available")
	ErrVariantNotFound      = errors.New("variant not found")
	ErrComboOfferNotFound   = errors.New("combo offer not found")
	ErrCartLineNotFound     = errors.New("cart line not found")
	ErrInvalidQuantity      = errors.New("invalid quantity")
	ErrLineSelectionInvalid = errors.New("line selection invalid")
	ErrOutOfStock           = errors.New("out of stock")
	ErrEmptyCart            = errors.New("cart is empty")

	ErrCouponNotFound      = errors.New("coupon not found")
	ErrCouponExpired       = errors.New("coupon expired")
	ErrCouponExhausted     = errors.New("coupon exhausted")
	ErrCouponMinimumNotMet = errors.New("coupon minimum not met")
	ErrCouponInvalid       = errors.New("coupon invalid")
	ErrCouponCodeExists    = errors.New("coupon code exists")

	ErrOrderNotFound           = errors.New("order not found")
	ErrInvalidTransition       = errors.New("invalid status transition")
	ErrTrackingNumberRequired  = errors.New("tracking number required")
	ErrTrackingUpdateInvalid   = errors.New("tracking update invalid")
	ErrShippingAddressRequired = errors.New("shipping address required")
)
