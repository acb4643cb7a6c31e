package models

import (
	"time"
)

// CartLine 购物车条目表
// 同一归属下 (product_id, variant_id, combo_offer_id) 组合唯一，
// 重复加购走数量累加而不是新建条目；variant_id/combo_offer_id 为 0 表示未选择。
// 删除为物理删除,软删除的残留行会占住行键唯一索引。
type CartLine struct {
	ID           uint           `gorm:"primarykey" json:"id"`                                                  // 主键
	OwnerID      string         `gorm:"type:varchar(100);not null;uniqueIndex:idx_cart_owner_key" json:"-"`    // 归属身份（用户或游客会话）
	ProductID    uint           `gorm:"not null;uniqueIndex:idx_cart_owner_key" json:"product_id"`             // 商品ID
	VariantID    uint           `gorm:"not null;default:0;uniqueIndex:idx_cart_owner_key" json:"variant_id"`   // 规格ID（0 表示未选择）
	ComboOfferID uint           `gorm:"not null;default:0;uniqueIndex:idx_cart_owner_key" json:"combo_offer_id"` // 套餐ID（0 表示未选择）
	Quantity     int            `gorm:"not null" json:"quantity"`                                              // 数量（恒 >= 1）
	CreatedAt    time.Time      `gorm:"index" json:"created_at"`                                               // 创建时间
	UpdatedAt    time.Time      `gorm:"index" json:"updated_at"`                                               // 更新时间

	Product *Product `gorm:"foreignKey:ProductID" json:"product,omitempty"` // 关联商品
}

// TableName 指定表名
func (CartLine) TableName() string {
	return "cart_lines"
}
