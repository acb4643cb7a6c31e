package constants

// 订单状态常量
const (
	OrderStatusPending    = "pending"
	OrderStatusProcessing = "processing"
	OrderStatusShipped    = "shipped"
	OrderStatusDelivered  = "delivered"
	OrderStatusCancelled  = "cancelled"
)

// 支付状态常量（由外部支付协作方提供，核心只记录）
const (
	PaymentStatusUnpaid   = "unpaid"
	PaymentStatusPaid     = "paid"
	PaymentStatusRefunded = "refunded"
)

// 优惠券类型常量
const (
	CouponTypePercentage = "percentage"
	CouponTypeFixed      = "fixed"
)

// 队列与任务常量
const (
	QueueDefault           = "default"
	TaskOrderCreated       = "order:created"
	TaskOrderStatusChanged = "order:status_changed"
)

// 购物车归属身份前缀常量
const (
	OwnerPrefixUser  = "user:"
	OwnerPrefixGuest = "guest:"
)
