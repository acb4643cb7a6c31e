package i18n

import (
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	// DefaultLocale 默认语言
	DefaultLocale = "en-US"

	localeQueryKey = "locale"
	localeHeader   = "Accept-Language"
)

var supportedLocales = map[string]bool{
	"en-US": true,
	"zh-CN": true,
}

// ResolveLocale 从请求解析语言（query 优先于 Accept-Language）
func ResolveLocale(c *gin.Context) string {
	if c == nil {
		return DefaultLocale
	}
	if locale := normalizeLocale(c.Query(localeQueryKey)); locale != "" {
		return locale
	}
	header := c.GetHeader(localeHeader)
	for _, part := range strings.Split(header, ",") {
		tag := strings.TrimSpace(strings.SplitN(part, ";", 2)[0])
		if locale := normalizeLocale(tag); locale != "" {
			return locale
		}
	}
	return DefaultLocale
}

// T 按语言翻译消息 key，缺失时回退默认语言，再缺失时原样返回 key
func T(locale, key string) string {
	if messages, ok := catalog[locale]; ok {
		if msg, ok := messages[key]; ok {
			return msg
		}
	}
	if msg, ok := catalog[DefaultLocale][key]; ok {
		return msg
	}
	return key
}

func normalizeLocale(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}
	if supportedLocales[trimmed] {
		return trimmed
	}
	lower := strings.ToLower(trimmed)
	switch {
	case strings.HasPrefix(lower, "zh"):
		return "zh-CN"
	case strings.HasPrefix(lower, "en"):
		return "en-US"
	}
	return ""
}

var catalog = map[string]map[string]string{
	"en-US": {
		"error.bad_request":              "invalid request",
		"error.unauthorized":             "unauthorized",
		"error.forbidden":                "permission denied",
		"error.internal":                 "internal error",
		"error.owner_required":           "cart owner identity required",
		"error.auth_header_missing":      "authorization header missing",
		"error.auth_header_invalid":      "authorization header invalid",
		"error.jwt_secret_missing":       "jwt secret not configured",
		"error.token_invalid":            "token invalid",
		"error.login_failed":             "username or password incorrect",
		"error.login_too_many":           "too many login attempts, try again later",
		"error.checkout_too_many":        "too many checkout attempts, try again later",
		"error.product_not_available":    "product not found or unavailable",
		"error.variant_not_found":        "product variant not found",
		"error.combo_offer_not_found":    "combo offer not found or inactive",
		"error.cart_line_not_found":      "cart line not found",
		"error.order_not_found":          "order not found",
		"error.quantity_invalid":         "quantity must be at least 1",
		"error.line_selection_invalid":   "a cart line must reference a product or a combo offer",
		"error.out_of_stock":             "insufficient stock",
		"error.cart_empty":               "cart is empty",
		"error.coupon_not_found":         "coupon not found or inactive",
		"error.coupon_expired":           "coupon expired",
		"error.coupon_exhausted":         "coupon usage limit reached",
		"error.coupon_minimum_not_met":   "cart total below coupon minimum",
		"error.coupon_invalid":           "coupon invalid",
		"error.coupon_code_exists":       "coupon code already exists",
		"error.transition_invalid":       "illegal order status transition",
		"error.tracking_number_required": "tracking number required for shipped status",
		"error.tracking_update_invalid":  "tracking update invalid",
		"error.shipping_address_required": "shipping address required",
		"error.cart_fetch_failed":        "failed to load cart",
		"error.cart_update_failed":       "failed to update cart",
		"error.order_create_failed":      "failed to create order",
		"error.order_fetch_failed":       "failed to load order",
		"error.order_update_failed":      "failed to update order",
		"error.catalog_fetch_failed":     "failed to load catalog",
	},
	"zh-CN": {
		"error.bad_request":              "请求参数无效",
		"error.unauthorized":             "未登录或凭证失效",
		"error.forbidden":                "没有操作权限",
		"error.internal":                 "服务内部错误",
		"error.owner_required":           "缺少购物车归属身份",
		"error.auth_header_missing":      "缺少认证头",
		"error.auth_header_invalid":      "认证头格式错误",
		"error.jwt_secret_missing":       "JWT 密钥未配置",
		"error.token_invalid":            "凭证无效",
		"error.login_failed":             "用户名或密码错误",
		"error.login_too_many":           "登录尝试过于频繁，请稍后再试",
		"error.checkout_too_many":        "下单过于频繁，请稍后再试",
		"error.product_not_available":    "商品不存在或已下架",
		"error.variant_not_found":        "商品规格不存在",
		"error.combo_offer_not_found":    "套餐不存在或未启用",
		"error.cart_line_not_found":      "购物车条目不存在",
		"error.order_not_found":          "订单不存在",
		"error.quantity_invalid":         "数量必须大于等于 1",
		"error.line_selection_invalid":   "条目必须指定商品或套餐",
		"error.out_of_stock":             "库存不足",
		"error.cart_empty":               "购物车为空",
		"error.coupon_not_found":         "优惠码不存在或未启用",
		"error.coupon_expired":           "优惠码已过期",
		"error.coupon_exhausted":         "优惠码已达使用上限",
		"error.coupon_minimum_not_met":   "未达到优惠码使用门槛",
		"error.coupon_invalid":           "优惠码无效",
		"error.coupon_code_exists":       "优惠码已存在",
		"error.transition_invalid":       "订单状态流转不合法",
		"error.tracking_number_required": "发货必须填写运单号",
		"error.tracking_update_invalid":  "物流事件无效",
		"error.shipping_address_required": "收货地址不能为空",
		"error.cart_fetch_failed":        "获取购物车失败",
		"error.cart_update_failed":       "更新购物车失败",
		"error.order_create_failed":      "创建订单失败",
		"error.order_fetch_failed":       "获取订单失败",
		"error.order_update_failed":      "更新订单失败",
		"error.catalog_fetch_failed":     "获取商品信息失败",
	},
}
