package service

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/veloshop-next/internal/constants"
	"github.com/veloshop-next/internal/models"
	"github.com/veloshop-next/internal/repository"
)

var percentBase = decimal.NewFromInt(100)

// CouponCreateInput 创建优惠券入参
type CouponCreateInput struct {
	Code         string
	Type         string
	Amount       models.Money
	MinCartTotal models.Money
	MaxUses      int
	ExpiresAt    *time.Time
	IsActive     bool
}

// CouponUpdateInput 更新优惠券入参,nil 字段不变
type CouponUpdateInput struct {
	Amount       *models.Money
	MinCartTotal *models.Money
	MaxUses      *int
	ExpiresAt    *time.Time
	ClearExpires bool
	IsActive     *bool
}

// CouponService 优惠券服务。
// 校验只读不占用次数,占用只发生在下单事务内的原子核销。
type CouponService struct {
	couponRepo repository.CouponRepository
}

func NewCouponService(couponRepo repository.CouponRepository) *CouponService {
	return &CouponService{couponRepo: couponRepo}
}

// WithTx 返回使用指定事务的服务实例
func (s *CouponService) WithTx(tx *gorm.DB) *CouponService {
	if tx == nil {
		return s
	}
	return &CouponService{couponRepo: s.couponRepo.WithTx(tx)}
}

// Validate 按固定顺序校验优惠码并计算折扣金额。
// 校验顺序:存在性与启用 > 效期 > 余量 > 门槛。
func (s *CouponService) Validate(code string, subtotal models.Money) (*models.Coupon, models.Money, error) {
	var zero models.Money
	normalized := NormalizeCouponCode(code)
	if normalized == "" {
		return nil, zero, ErrCouponNotFound
	}

	coupon, err := s.couponRepo.GetByCode(normalized)
	if err != nil {
		return nil, zero, err
	}
	if coupon == nil || !coupon.IsActive {
		return nil, zero, ErrCouponNotFound
	}
	if coupon.ExpiresAt != nil && coupon.ExpiresAt.Before(time.Now()) {
		return nil, zero, ErrCouponExpired
	}
	if coupon.MaxUses > 0 && coupon.UsedCount >= coupon.MaxUses {
		return nil, zero, ErrCouponExhausted
	}
	if coupon.MinCartTotal.Decimal.IsPositive() && subtotal.Decimal.LessThan(coupon.MinCartTotal.Decimal) {
		return nil, zero, ErrCouponMinimumNotMet
	}

	discount, err := CouponDiscount(coupon, subtotal)
	if err != nil {
		return nil, zero, err
	}
	return coupon, discount, nil
}

// Redeem 原子占用一次使用次数。
// 余量已被并发耗尽时返回 ErrCouponExhausted,由外层事务回滚整单。
func (s *CouponService) Redeem(couponID uint) error {
	rows, err := s.couponRepo.RedeemOnce(couponID)
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrCouponExhausted
	}
	return nil
}

// Create 创建优惠券,优惠码统一转大写存储
func (s *CouponService) Create(input CouponCreateInput) (*models.Coupon, error) {
	code := NormalizeCouponCode(input.Code)
	if code == "" {
		return nil, ErrCouponInvalid
	}
	if input.Type != constants.CouponTypePercentage && input.Type != constants.CouponTypeFixed {
		return nil, ErrCouponInvalid
	}
	if input.Type == constants.CouponTypePercentage &&
		(input.Amount.Decimal.IsNegative() || input.Amount.Decimal.GreaterThan(percentBase)) {
		return nil, ErrCouponInvalid
	}
	if input.Amount.Decimal.IsNegative() || input.MinCartTotal.Decimal.IsNegative() || input.MaxUses < 0 {
		return nil, ErrCouponInvalid
	}

	existing, err := s.couponRepo.GetByCode(code)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrCouponCodeExists
	}

	coupon := &models.Coupon{
		Code:         code,
		Type:         input.Type,
		Amount:       input.Amount,
		MinCartTotal: input.MinCartTotal,
		MaxUses:      input.MaxUses,
		ExpiresAt:    input.ExpiresAt,
		IsActive:     input.IsActive,
	}
	if err := s.couponRepo.Create(coupon); err != nil {
		return nil, err
	}
	return coupon, nil
}

// Update 更新优惠券可变字段,类型与优惠码创建后不可改
func (s *CouponService) Update(id uint, input CouponUpdateInput) (*models.Coupon, error) {
	coupon, err := s.couponRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if coupon == nil {
		return nil, ErrCouponNotFound
	}

	updates := map[string]interface{}{}
	if input.Amount != nil {
		if input.Amount.Decimal.IsNegative() ||
			(coupon.Type == constants.CouponTypePercentage && input.Amount.Decimal.GreaterThan(percentBase)) {
			return nil, ErrCouponInvalid
		}
		updates["amount"] = *input.Amount
	}
	if input.MinCartTotal != nil {
		if input.MinCartTotal.Decimal.IsNegative() {
			return nil, ErrCouponInvalid
		}
		updates["min_cart_total"] = *input.MinCartTotal
	}
	if input.MaxUses != nil {
		if *input.MaxUses < 0 {
			return nil, ErrCouponInvalid
		}
		updates["max_uses"] = *input.MaxUses
	}
	if input.ClearExpires {
		updates["expires_at"] = nil
	} else if input.ExpiresAt != nil {
		updates["expires_at"] = *input.ExpiresAt
	}
	if input.IsActive != nil {
		updates["is_active"] = *input.IsActive
	}

	if err := s.couponRepo.Update(id, updates); err != nil {
		return nil, err
	}
	return s.couponRepo.GetByID(id)
}

// List 管理端分页查询
func (s *CouponService) List(filter repository.CouponListFilter) ([]models.Coupon, int64, error) {
	return s.couponRepo.List(filter)
}

// CouponDiscount 计算折扣金额:
// percentage 按小计乘百分比,fixed 取面额与小计的较小值。
func CouponDiscount(coupon *models.Coupon, subtotal models.Money) (models.Money, error) {
	var zero models.Money
	switch coupon.Type {
	case constants.CouponTypePercentage:
		discount := subtotal.Decimal.Mul(coupon.Amount.Decimal).Div(percentBase)
		return models.NewMoneyFromDecimal(discount), nil
	case constants.CouponTypeFixed:
		if coupon.Amount.Decimal.GreaterThan(subtotal.Decimal) {
			return models.NewMoneyFromDecimal(subtotal.Decimal), nil
		}
		return models.NewMoneyFromDecimal(coupon.Amount.Decimal), nil
	default:
		return zero, ErrCouponInvalid
	}
}

// NormalizeCouponCode 规范化优惠码(去空白并转大写)
func NormalizeCouponCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
