package models

import (
	"time"

	"gorm.io/gorm"
)

// Coupon 优惠券表
type Coupon struct {
	ID           uint           `gorm:"primarykey" json:"id"`                                        // 主键
	Code         string         `gorm:"uniqueIndex;not null" json:"code"`                            // 优惠码（统一存大写）
	Type         string         `gorm:"not null" json:"type"`                                        // 类型（percentage/fixed）
	Amount       Money          `gorm:"type:decimal(20,2);not null" json:"amount"`                   // 数值（百分比 0-100 或固定金额）
	MinCartTotal Money          `gorm:"type:decimal(20,2);not null;default:0" json:"min_cart_total"` // 使用门槛（0 表示不限制）
	MaxUses      int            `gorm:"not null;default:0" json:"max_uses"`                          // 总使用上限（0 表示不限制）
	UsedCount    int            `gorm:"not null;default:0" json:"used_count"`                        // 已使用次数（仅在下单成功时递增）
	ExpiresAt    *time.Time     `gorm:"index" json:"expires_at"`                                     // 失效时间
	IsActive     bool           `gorm:"not null" json:"is_active"`                                   // 是否启用（不设列默认值,零值 false 才能落库）
	CreatedAt    time.Time      `gorm:"index" json:"created_at"`                                     // 创建时间
	UpdatedAt    time.Time      `gorm:"index" json:"updated_at"`                                     // 更新时间
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`                                              // 软删除时间
}

// TableName 指定表名
func (Coupon) TableName() string {
	return "coupons"
}
