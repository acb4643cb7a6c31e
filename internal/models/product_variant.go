package models

import (
	"time"

	"gorm.io/gorm"
)

// ProductVariant 商品规格表（价格/库存可覆盖父商品）
type ProductVariant struct {
	ID            uint           `gorm:"primarykey" json:"id"`                               // 主键
	ProductID     uint           `gorm:"not null;index" json:"product_id"`                   // 商品ID
	OptionName    string         `gorm:"type:varchar(100);not null" json:"option_name"`      // 规格名（如颜色）
	OptionValue   string         `gorm:"type:varchar(100);not null" json:"option_value"`     // 规格值（如红色）
	PriceOverride *Money         `gorm:"type:decimal(20,2)" json:"price_override,omitempty"` // 价格覆盖（空则回落商品价）
	StockOverride *int           `json:"stock_override,omitempty"`                           // 库存覆盖（空则回落商品库存）
	IsActive      bool           `gorm:"default:true;index" json:"is_active"`                // 是否启用
	CreatedAt     time.Time      `gorm:"index" json:"created_at"`                            // 创建时间
	UpdatedAt     time.Time      `json:"updated_at"`                                         // 更新时间
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`                                     // 软删除时间

	Product *Product `gorm:"foreignKey:ProductID" json:"product,omitempty"` // 关联商品
}

// TableName 指定表名
func (ProductVariant) TableName() string {
	return "product_variants"
}
