package models

import (
	"time"

	"gorm.io/gorm"
)

// OrderItem 订单项表（下单时冻结的条目快照）
type OrderItem struct {
	ID           uint           `gorm:"primarykey" json:"id"`                                     // 主键
	OrderID      uint           `gorm:"index;not null" json:"order_id"`                           // 订单ID
	ProductID    uint           `gorm:"index;not null" json:"product_id"`                         // 商品ID
	VariantID    uint           `gorm:"not null;default:0" json:"variant_id"`                     // 规格ID（0 表示未选择）
	ComboOfferID uint           `gorm:"not null;default:0" json:"combo_offer_id"`                 // 套餐ID（0 表示未选择）
	Title        string         `gorm:"type:varchar(200);not null" json:"title"`                  // 标题快照
	Image        string         `gorm:"type:varchar(500)" json:"image,omitempty"`                 // 图片快照
	UnitPrice    Money          `gorm:"type:decimal(20,2);not null;default:0" json:"unit_price"`  // 下单时单价
	Quantity     int            `gorm:"not null" json:"quantity"`                                 // 数量
	TotalPrice   Money          `gorm:"type:decimal(20,2);not null;default:0" json:"total_price"` // 小计
	CreatedAt    time.Time      `gorm:"index" json:"created_at"`                                  // 创建时间
	UpdatedAt    time.Time      `json:"updated_at"`                                               // 更新时间
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`                                           // 软删除时间
}

// TableName 指定表名
func (OrderItem) TableName() string {
	return "order_items"
}
