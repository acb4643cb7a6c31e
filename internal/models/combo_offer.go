package models

import (
	"time"

	"gorm.io/gorm"
)

// ComboOffer 套餐表（固定价捆绑多个商品）
type ComboOffer struct {
	ID          uint           `gorm:"primarykey" json:"id"`                                      // 主键
	Title       string         `gorm:"type:varchar(200);not null" json:"title"`                   // 套餐标题
	ProductIDs  UintArray      `gorm:"type:json;not null" json:"product_ids"`                     // 引用商品ID集合
	BundlePrice Money          `gorm:"type:decimal(20,2);not null;default:0" json:"bundle_price"` // 套餐价
	Image       string         `gorm:"type:varchar(500)" json:"image"`                            // 套餐图
	IsActive    bool           `gorm:"default:true;index" json:"is_active"`                       // 是否启用
	CreatedAt   time.Time      `gorm:"index" json:"created_at"`                                   // 创建时间
	UpdatedAt   time.Time      `json:"updated_at"`                                                // 更新时间
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`                                            // 软删除时间
}

// TableName 指定表名
func (ComboOffer) TableName() string {
	return "combo_offers"
}
