package public

import (
	"errors"

	"github.com/veloshop-next/internal/http/response"
	"github.com/veloshop-next/internal/service"

	"github.com/gin-gonic/gin"
)

// mappedHandlerError 定义业务错误到接口错误响应的映射关系。
type mappedHandlerError struct {
	target error
	code   int
	key    string
}

func respondWithMappedError(c *gin.Context, err error, rules []mappedHandlerError, fallbackCode int, fallbackKey string) {
	for _, rule := range rules {
		if errors.Is(err, rule.target) {
			respondError(c, rule.code, rule.key, nil)
			return
		}
	}
	respondError(c, fallbackCode, fallbackKey, err)
}

func concatMappedHandlerErrors(groups ...[]mappedHandlerError) []mappedHandlerError {
	total := 0
	for _, group := range groups {
		total += len(group)
	}
	result := make([]mappedHandlerError, 0, total)
	for _, group := range groups {
		result = append(result, group...)
	}
	return result
}

var cartCommonErrorRules = []mappedHandlerError{
	{target: service.ErrProductNotAvailable, code: response.CodeBadRequest, key: "error.product_not_available"},
	{target: service.ErrVariantNotFound, code: response.CodeBadRequest, key: "error.variant_not_found"},
	{target: service.ErrComboOfferNotFound, code: response.CodeBadRequest, key: "error.combo_offer_not_found"},
	{target: service.ErrLineSelectionInvalid, code: response.CodeBadRequest, key: "error.line_selection_invalid"},
	{target: service.ErrInvalidQuantity, code: response.CodeBadRequest, key: "error.quantity_invalid"},
	{target: service.ErrOutOfStock, code: response.CodeBadRequest, key: "error.out_of_stock"},
	{target: service.ErrCartLineNotFound, code: response.CodeNotFound, key: "error.cart_line_not_found"},
}

var checkoutErrorRules = concatMappedHandlerErrors(
	cartCommonErrorRules,
	[]mappedHandlerError{
		{target: service.ErrEmptyCart, code: response.CodeBadRequest, key: "error.cart_empty"},
		{target: service.ErrShippingAddressRequired, code: response.CodeBadRequest, key: "error.shipping_address_required"},
		{target: service.ErrCouponNotFound, code: response.CodeBadRequest, key: "error.coupon_not_found"},
		{target: service.ErrCouponExpired, code: response.CodeBadRequest, key: "error.coupon_expired"},
		{target: service.ErrCouponExhausted, code: response.CodeBadRequest, key: "error.coupon_exhausted"},
		{target: service.ErrCouponMinimumNotMet, code: response.CodeBadRequest, key: "error.coupon_minimum_not_met"},
		{target: service.ErrCouponInvalid, code: response.CodeBadRequest, key: "error.coupon_invalid"},
	},
)
