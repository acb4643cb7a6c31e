package repository

import (
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/veloshop-next/internal/models"
)

// CartRepository 购物车数据访问接口
type CartRepository interface {
	ListByOwner(ownerID string) ([]models.CartLine, error)
	GetByIDAndOwner(id uint, ownerID string) (*models.CartLine, error)
	GetByKeyForUpdate(ownerID string, productID, variantID, comboOfferID uint) (*models.CartLine, error)
	Create(line *models.CartLine) error
	IncrementQuantity(id uint, delta int) (int64, error)
	UpdateQuantity(id uint, ownerID string, quantity int) (int64, error)
	DeleteByIDAndOwner(id uint, ownerID string) error
	ClearByOwner(ownerID string) error
	WithTx(tx *gorm.DB) CartRepository
}

// GormCartRepository 基于 GORM 的购物车仓储实现
type GormCartRepository struct {
	db *gorm.DB
}

func NewGormCartRepository(db *gorm.DB) *GormCartRepository {
	return &GormCartRepository{db: db}
}

func (r *GormCartRepository) WithTx(tx *gorm.DB) CartRepository {
	if tx == nil {
		return r
	}
	return &GormCartRepository{db: tx}
}

func (r *GormCartRepository) ListByOwner(ownerID string) ([]models.CartLine, error) {
	var lines []models.CartLine
	err := r.db.Preload("Product").
		Where("owner_id = ?", ownerID).
		Order("id ASC").
		Find(&lines).Error
	if err != nil {
		return nil, err
	}
	return lines, nil
}

func (r *GormCartRepository) GetByIDAndOwner(id uint, ownerID string) (*models.CartLine, error) {
	var line models.CartLine
	err := r.db.Where("id = ? AND owner_id = ?", id, ownerID).First(&line).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &line, nil
}

// GetByKeyForUpdate 按行键加锁读取,在事务内用于合并重复添加
func (r *GormCartRepository) GetByKeyForUpdate(ownerID string, productID, variantID, comboOfferID uint) (*models.CartLine, error) {
	var line models.CartLine
	err := r.db.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("owner_id = ? AND product_id = ? AND variant_id = ? AND combo_offer_id = ?",
			ownerID, productID, variantID, comboOfferID).
		First(&line).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &line, nil
}

func (r *GormCartRepository) Create(line *models.CartLine) error {
	return r.db.Create(line).Error
}

// IncrementQuantity 原子累加行数量
func (r *GormCartRepository) IncrementQuantity(id uint, delta int) (int64, error) {
	result := r.db.Model(&models.CartLine{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"quantity":   gorm.Expr("quantity + ?", delta),
			"updated_at": time.Now(),
		})
	return result.RowsAffected, result.Error
}

func (r *GormCartRepository) UpdateQuantity(id uint, ownerID string, quantity int) (int64, error) {
	result := r.db.Model(&models.CartLine{}).
		Where("id = ? AND owner_id = ?", id, ownerID).
		Updates(map[string]interface{}{
			"quantity":   quantity,
			"updated_at": time.Now(),
		})
	return result.RowsAffected, result.Error
}

func (r *GormCartRepository) DeleteByIDAndOwner(id uint, ownerID string) error {
	return r.db.Where("id = ? AND owner_id = ?", id, ownerID).
		Delete(&models.CartLine{}).Error
}

func (r *GormCartRepository) ClearByOwner(ownerID string) error {
	return r.db.Where("owner_id = ?", ownerID).Delete(&models.CartLine{}).Error
}
