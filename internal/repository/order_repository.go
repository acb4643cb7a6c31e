package repository

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/veloshop-next/internal/models"
)

// OrderListFilter 订单列表过滤条件
type OrderListFilter struct {
	OwnerID       string
	Status        string
	PaymentStatus string
	Keyword       string
	Page          int
	PageSize      int
}

// OrderRepository 订单数据访问接口
type OrderRepository interface {
	Create(order *models.Order) error
	GetByID(id uint) (*models.Order, error)
	GetByOrderNo(orderNo string) (*models.Order, error)
	GetByOrderNoAndOwner(orderNo, ownerID string) (*models.Order, error)
	List(filter OrderListFilter) ([]models.Order, int64, error)
	UpdateStatusGuarded(id uint, fromStatus string, updates map[string]interface{}) (int64, error)
	AppendTrackingUpdate(orderID uint, update *models.TrackingUpdate) error
	WithTx(tx *gorm.DB) OrderRepository
}

// GormOrderRepository 基于 GORM 的订单仓储实现
type GormOrderRepository struct {
	db *gorm.DB
}

func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

func (r *GormOrderRepository) WithTx(tx *gorm.DB) OrderRepository {
	if tx == nil {
		return r
	}
	return &GormOrderRepository{db: tx}
}

func (r *GormOrderRepository) Create(order *models.Order) error {
	return r.db.Create(order).Error
}

func (r *GormOrderRepository) GetByID(id uint) (*models.Order, error) {
	var order models.Order
	err := r.preloadQuery().First(&order, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *GormOrderRepository) GetByOrderNo(orderNo string) (*models.Order, error) {
	var order models.Order
	err := r.preloadQuery().Where("order_no = ?", orderNo).First(&order).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *GormOrderRepository) GetByOrderNoAndOwner(orderNo, ownerID string) (*models.Order, error) {
	var order models.Order
	err := r.preloadQuery().
		Where("order_no = ? AND owner_id = ?", orderNo, ownerID).
		First(&order).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *GormOrderRepository) List(filter OrderListFilter) ([]models.Order, int64, error) {
	query := r.db.Model(&models.Order{})
	if filter.OwnerID != "" {
		query = query.Where("owner_id = ?", filter.OwnerID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.PaymentStatus != "" {
		query = query.Where("payment_status = ?", filter.PaymentStatus)
	}
	if filter.Keyword != "" {
		query = query.Where("order_no LIKE ?", "%"+filter.Keyword+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var orders []models.Order
	err := applyPagination(query, filter.Page, filter.PageSize).
		Preload("Items").
		Order("id DESC").
		Find(&orders).Error
	if err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}

// UpdateStatusGuarded 以当前状态为条件原子更新,返回受影响行数。
// 返回 0 表示状态已被并发修改,调用方按非法迁移处理。
func (r *GormOrderRepository) UpdateStatusGuarded(id uint, fromStatus string, updates map[string]interface{}) (int64, error) {
	updates["updated_at"] = time.Now()
	result := r.db.Model(&models.Order{}).
		Where("id = ? AND status = ?", id, fromStatus).
		Updates(updates)
	return result.RowsAffected, result.Error
}

func (r *GormOrderRepository) AppendTrackingUpdate(orderID uint, update *models.TrackingUpdate) error {
	update.OrderID = orderID
	return r.db.Create(update).Error
}

func (r *GormOrderRepository) preloadQuery() *gorm.DB {
	return r.db.Preload("Items").
		Preload("TrackingUpdates", func(db *gorm.DB) *gorm.DB {
			return db.Order("id ASC")
		})
}
