package models

import (
	"time"

	"gorm.io/gorm"
)

// Product 商品表（目录投影，核心只读）
type Product struct {
	ID        uint           `gorm:"primarykey" json:"id"`                                    // 主键
	Slug      string         `gorm:"uniqueIndex;not null" json:"slug"`                        // 唯一标识
	Title     string         `gorm:"type:varchar(200);not null" json:"title"`                 // 商品标题
	BasePrice Money          `gorm:"type:decimal(20,2);not null;default:0" json:"base_price"` // 原价
	SalePrice *Money         `gorm:"type:decimal(20,2)" json:"sale_price,omitempty"`          // 促销价（须低于原价）
	Stock     int            `gorm:"not null;default:0" json:"stock"`                         // 库存
	Images    StringArray    `gorm:"type:json" json:"images"`                                 // 图片数组
	IsActive  bool           `gorm:"default:true;index" json:"is_active"`                     // 是否上架
	SortOrder int            `gorm:"default:0;index" json:"sort_order"`                       // 排序权重
	CreatedAt time.Time      `gorm:"index" json:"created_at"`                                 // 创建时间
	UpdatedAt time.Time      `json:"updated_at"`                                              // 更新时间
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`                                          // 软删除时间

	Variants []ProductVariant `gorm:"foreignKey:ProductID" json:"variants,omitempty"` // 规格列表
}

// TableName 指定表名
func (Product) TableName() string {
	return "products"
}

// FirstImage 返回首图（订单快照使用）
func (p *Product) FirstImage() string {
	if p == nil || len(p.Images) == 0 {
		return ""
	}
	return p.Images[0]
}
