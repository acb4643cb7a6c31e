package repository

import (
	"errors"

	"gorm.io/gorm"

	"github.com/veloshop-next/internal/models"
)

// ComboOfferRepository 套装优惠数据访问接口
type ComboOfferRepository interface {
	GetByID(id uint) (*models.ComboOffer, error)
	ListActive() ([]models.ComboOffer, error)
	WithTx(tx *gorm.DB) ComboOfferRepository
}

// GormComboOfferRepository 基于 GORM 的套装优惠仓储实现
type GormComboOfferRepository struct {
	db *gorm.DB
}

func NewGormComboOfferRepository(db *gorm.DB) *GormComboOfferRepository {
	return &GormComboOfferRepository{db: db}
}

func (r *GormComboOfferRepository) WithTx(tx *gorm.DB) ComboOfferRepository {
	if tx == nil {
		return r
	}
	return &GormComboOfferRepository{db: tx}
}

func (r *GormComboOfferRepository) GetByID(id uint) (*models.ComboOffer, error) {
	var offer models.ComboOffer
	err := r.db.First(&offer, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &offer, nil
}

func (r *GormComboOfferRepository) ListActive() ([]models.ComboOffer, error) {
	var offers []models.ComboOffer
	err := r.db.Where("is_active = ?", true).Order("id DESC").Find(&offers).Error
	if err != nil {
		return nil, err
	}
	return offers, nil
}
