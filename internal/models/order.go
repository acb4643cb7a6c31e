package models

import (
	"time"

	"gorm.io/gorm"
)

// Order 订单表
// 创建后除 status 与物流字段外不可变：条目价格为下单时快照，
// 后续目录调价不回写订单。
type Order struct {
	ID                  uint           `gorm:"primarykey" json:"id"`                                          // 主键
	OrderNo             string         `gorm:"uniqueIndex;not null" json:"order_no"`                          // 订单编号
	OwnerID             string         `gorm:"type:varchar(100);index;not null" json:"-"`                     // 归属身份
	Status              string         `gorm:"index;not null" json:"status"`                                  // 订单状态
	PaymentStatus       string         `gorm:"not null" json:"payment_status"`                                // 支付状态（外部支付协作方提供）
	PaymentMethod       string         `gorm:"type:varchar(100)" json:"payment_method,omitempty"`             // 支付方式令牌（不透明）
	ShippingAddressJSON JSON           `gorm:"type:json;not null" json:"shipping_address"`                    // 收货地址快照
	Subtotal            Money          `gorm:"type:decimal(20,2);not null;default:0" json:"subtotal"`         // 折前小计
	DiscountAmount      Money          `gorm:"type:decimal(20,2);not null;default:0" json:"discount_amount"`  // 优惠金额
	TotalAmount         Money          `gorm:"type:decimal(20,2);not null;default:0" json:"total_amount"`     // 实付金额
	CouponID            *uint          `gorm:"index" json:"coupon_id,omitempty"`                              // 优惠券ID
	CouponCode          string         `gorm:"type:varchar(50)" json:"coupon_code,omitempty"`                 // 优惠码快照
	TrackingNumber      string         `gorm:"type:varchar(100)" json:"tracking_number,omitempty"`            // 运单号（不透明字符串）
	TrackingStatus      string         `gorm:"type:varchar(50)" json:"tracking_status,omitempty"`             // 最近物流状态
	CancelledAt         *time.Time     `gorm:"index" json:"cancelled_at,omitempty"`                           // 取消时间
	CreatedAt           time.Time      `gorm:"index" json:"created_at"`                                       // 创建时间
	UpdatedAt           time.Time      `gorm:"index" json:"updated_at"`                                       // 更新时间
	DeletedAt           gorm.DeletedAt `gorm:"index" json:"-"`                                                // 软删除时间

	Items           []OrderItem      `gorm:"foreignKey:OrderID" json:"items,omitempty"`            // 订单项快照
	TrackingUpdates []TrackingUpdate `gorm:"foreignKey:OrderID" json:"tracking_updates,omitempty"` // 物流事件（追加写）
}

// TableName 指定表名
func (Order) TableName() string {
	return "orders"
}
