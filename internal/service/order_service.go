package service

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/veloshop-next/internal/constants"
	"github.com/veloshop-next/internal/logger"
	"github.com/veloshop-next/internal/models"
	"github.com/veloshop-next/internal/queue"
	"github.com/veloshop-next/internal/repository"
)

// CreateOrderInput 下单入参。
// PaymentStatus 由支付协作方给出,留空按未支付处理。
type CreateOrderInput struct {
	OwnerID         string
	ShippingAddress models.JSON
	PaymentMethod   string
	PaymentStatus   string
	CouponCode      string
}

// OrderService 订单服务。
// 下单是单事务:冻结快照、核销优惠券、生成订单、清空购物车,
// 任一步失败则整体回滚,购物车与券余量保持原状。
type OrderService struct {
	db          *gorm.DB
	orderRepo   repository.OrderRepository
	cartRepo    repository.CartRepository
	pricing     *PricingService
	coupons     *CouponService
	queueClient *queue.Client
}

func NewOrderService(
	db *gorm.DB,
	orderRepo repository.OrderRepository,
	cartRepo repository.CartRepository,
	pricing *PricingService,
	coupons *CouponService,
	queueClient *queue.Client,
) *OrderService {
	return &OrderService{
		db:          db,
		orderRepo:   orderRepo,
		cartRepo:    cartRepo,
		pricing:     pricing,
		coupons:     coupons,
		queueClient: queueClient,
	}
}

// CreateOrder 从购物车结算生成订单。
// 价格在此刻冻结为订单快照,之后目录调价不影响已建订单。
func (s *OrderService) CreateOrder(input CreateOrderInput) (*models.Order, error) {
	if len(input.ShippingAddress) == 0 {
		return nil, ErrShippingAddressRequired
	}
	paymentStatus := input.PaymentStatus
	if paymentStatus == "" {
		paymentStatus = constants.PaymentStatusUnpaid
	}

	var order *models.Order
	err := s.db.Transaction(func(tx *gorm.DB) error {
		cartRepo := s.cartRepo.WithTx(tx)
		pricing := s.pricing.WithTx(tx)

		lines, err := cartRepo.ListByOwner(input.OwnerID)
		if err != nil {
			return err
		}
		if len(lines) == 0 {
			return ErrEmptyCart
		}

		subtotal := decimal.Zero
		items := make([]models.OrderItem, 0, len(lines))
		for _, line := range lines {
			resolved, err := pricing.Resolve(line.ProductID, line.VariantID, line.ComboOfferID)
			if err != nil {
				return err
			}
			if resolved.Stock < line.Quantity {
				return ErrOutOfStock
			}
			lineTotal := resolved.UnitPrice.Decimal.Mul(decimal.NewFromInt(int64(line.Quantity)))
			subtotal = subtotal.Add(lineTotal)
			items = append(items, models.OrderItem{
				ProductID:    line.ProductID,
				VariantID:    line.VariantID,
				ComboOfferID: line.ComboOfferID,
				Title:        resolved.Title,
				Image:        resolved.Image,
				UnitPrice:    resolved.UnitPrice,
				Quantity:     line.Quantity,
				TotalPrice:   models.NewMoneyFromDecimal(lineTotal),
			})
		}

		subtotalMoney := models.NewMoneyFromDecimal(subtotal)
		discount := decimal.Zero
		var couponID *uint
		var couponCode string
		if input.CouponCode != "" {
			couponSvc := s.coupons.WithTx(tx)
			coupon, discountMoney, err := couponSvc.Validate(input.CouponCode, subtotalMoney)
			if err != nil {
				return err
			}
			if err := couponSvc.Redeem(coupon.ID); err != nil {
				return err
			}
			discount = discountMoney.Decimal
			couponID = &coupon.ID
			couponCode = coupon.Code
		}

		total := subtotal.Sub(discount)
		if total.IsNegative() {
			total = decimal.Zero
		}

		order = &models.Order{
			OrderNo:             generateOrderNo(),
			OwnerID:             input.OwnerID,
			Status:              constants.OrderStatusPending,
			PaymentStatus:       paymentStatus,
			PaymentMethod:       input.PaymentMethod,
			ShippingAddressJSON: input.ShippingAddress,
			Subtotal:            subtotalMoney,
			DiscountAmount:      models.NewMoneyFromDecimal(discount),
			TotalAmount:         models.NewMoneyFromDecimal(total),
			CouponID:            couponID,
			CouponCode:          couponCode,
			Items:               items,
		}
		if err := s.orderRepo.WithTx(tx).Create(order); err != nil {
			return err
		}

		return cartRepo.ClearByOwner(input.OwnerID)
	})
	if err != nil {
		return nil, err
	}

	logger.Infow("order_created",
		"order_no", order.OrderNo,
		"owner_id", input.OwnerID,
		"total_amount", order.TotalAmount.String(),
	)
	s.queueClient.EnqueueOrderCreated(order.ID)
	return order, nil
}

// GetByOrderNoForOwner 按归属查询订单明细
func (s *OrderService) GetByOrderNoForOwner(orderNo, ownerID string) (*models.Order, error) {
	order, err := s.orderRepo.GetByOrderNoAndOwner(orderNo, ownerID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	return order, nil
}

// ListForOwner 按归属分页查询订单
func (s *OrderService) ListForOwner(ownerID string, page, pageSize int) ([]models.Order, int64, error) {
	return s.orderRepo.List(repository.OrderListFilter{
		OwnerID:  ownerID,
		Page:     page,
		PageSize: pageSize,
	})
}

// GetByID 管理端按主键查询订单明细
func (s *OrderService) GetByID(id uint) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	return order, nil
}

// ListAdmin 管理端分页查询订单
func (s *OrderService) ListAdmin(filter repository.OrderListFilter) ([]models.Order, int64, error) {
	return s.orderRepo.List(filter)
}

// generateOrderNo 生成订单号(VS + 时间戳 + 6 位随机数),唯一索引兜底
func generateOrderNo() string {
	suffix, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return fmt.Sprintf("VS%s%06d", time.Now().Format("20060102150405"), time.Now().UnixNano()%1000000)
	}
	return fmt.Sprintf("VS%s%06d", time.Now().Format("20060102150405"), suffix.Int64())
}
