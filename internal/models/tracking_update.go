package models

import (
	"time"
)

// TrackingUpdate 物流事件表
// 只追加不修改；字段名 {date,status,location,description} 需在存储与
// API 响应间原样往返，外部物流展示依赖该形状。
type TrackingUpdate struct {
	ID          uint      `gorm:"primarykey" json:"-"`                            // 主键
	OrderID     uint      `gorm:"index;not null" json:"-"`                        // 订单ID
	Date        string    `gorm:"type:varchar(50);index;not null" json:"date"`    // 事件时间（承运方原样字符串）
	Status      string    `gorm:"type:varchar(100);not null" json:"status"`       // 事件状态
	Location    string    `gorm:"type:varchar(200)" json:"location,omitempty"`    // 地点
	Description string    `gorm:"type:varchar(500)" json:"description,omitempty"` // 描述
	CreatedAt   time.Time `gorm:"index" json:"-"`                                 // 入库时间
}

// TableName 指定表名
func (TrackingUpdate) TableName() string {
	return "tracking_updates"
}
