package service

import (
	"errors"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/veloshop-next/internal/logger"
	"github.com/veloshop-next/internal/models"
	"github.com/veloshop-next/internal/repository"
)

// CartLineView 购物车行即时视图
type CartLineView struct {
	ID           uint         `json:"id"`
	ProductID    uint         `json:"product_id,omitempty"`
	VariantID    uint         `json:"variant_id,omitempty"`
	ComboOfferID uint         `json:"combo_offer_id,omitempty"`
	Title        string       `json:"title"`
	Image        string       `json:"image,omitempty"`
	UnitPrice    models.Money `json:"unit_price"`
	Quantity     int          `json:"quantity"`
	LineTotal    models.Money `json:"line_total"`
	Available    bool         `json:"available"`
}

// CartSnapshot 购物车快照。
// 金额永远按当前目录价即时重算,不落库存储。
type CartSnapshot struct {
	Lines     []CartLineView `json:"lines"`
	ItemCount int            `json:"item_count"`
	Subtotal  models.Money   `json:"subtotal"`
}

// CartService 购物车服务
type CartService struct {
	db       *gorm.DB
	cartRepo repository.CartRepository
	pricing  *PricingService
}

func NewCartService(db *gorm.DB, cartRepo repository.CartRepository, pricing *PricingService) *CartService {
	return &CartService{db: db, cartRepo: cartRepo, pricing: pricing}
}

// Snapshot 读取归属购物车并按当前价重算
func (s *CartService) Snapshot(ownerID string) (*CartSnapshot, error) {
	lines, err := s.cartRepo.ListByOwner(ownerID)
	if err != nil {
		return nil, err
	}
	return s.buildSnapshot(lines)
}

// AddItem 加购。同键条目走数量累加,返回重算后的快照。
// 数量传 0 视为省略,按 1 件处理。
func (s *CartService) AddItem(ownerID string, productID, variantID, comboOfferID uint, quantity int) (*CartSnapshot, error) {
	if quantity == 0 {
		quantity = 1
	}
	if quantity < 0 {
		return nil, ErrInvalidQuantity
	}

	resolved, err := s.pricing.Resolve(productID, variantID, comboOfferID)
	if err != nil {
		return nil, err
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		cartRepo := s.cartRepo.WithTx(tx)
		existing, err := cartRepo.GetByKeyForUpdate(ownerID, productID, variantID, comboOfferID)
		if err != nil {
			return err
		}
		if existing != nil {
			if resolved.Stock < existing.Quantity+quantity {
				return ErrOutOfStock
			}
			_, err = cartRepo.IncrementQuantity(existing.ID, quantity)
			return err
		}

		if resolved.Stock < quantity {
			return ErrOutOfStock
		}
		line := &models.CartLine{
			OwnerID:      ownerID,
			ProductID:    productID,
			VariantID:    variantID,
			ComboOfferID: comboOfferID,
			Quantity:     quantity,
		}
		if err := cartRepo.Create(line); err != nil {
			// 并发加购撞唯一键时回退为累加
			raced, lookupErr := cartRepo.GetByKeyForUpdate(ownerID, productID, variantID, comboOfferID)
			if lookupErr != nil || raced == nil {
				return err
			}
			logger.Debugw("cart_add_merge_on_conflict", "owner_id", ownerID, "line_id", raced.ID)
			_, err = cartRepo.IncrementQuantity(raced.ID, quantity)
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.Snapshot(ownerID)
}

// UpdateQuantity 覆盖式改数量,数量非法时购物车保持不变
func (s *CartService) UpdateQuantity(ownerID string, lineID uint, quantity int) (*CartSnapshot, error) {
	if quantity < 1 {
		return nil, ErrInvalidQuantity
	}
	line, err := s.cartRepo.GetByIDAndOwner(lineID, ownerID)
	if err != nil {
		return nil, err
	}
	if line == nil {
		return nil, ErrCartLineNotFound
	}

	resolved, err := s.pricing.Resolve(line.ProductID, line.VariantID, line.ComboOfferID)
	if err != nil {
		return nil, err
	}
	if resolved.Stock < quantity {
		return nil, ErrOutOfStock
	}

	if _, err := s.cartRepo.UpdateQuantity(lineID, ownerID, quantity); err != nil {
		return nil, err
	}
	return s.Snapshot(ownerID)
}

// RemoveLine 删除条目,重复删除视为成功
func (s *CartService) RemoveLine(ownerID string, lineID uint) (*CartSnapshot, error) {
	if err := s.cartRepo.DeleteByIDAndOwner(lineID, ownerID); err != nil {
		return nil, err
	}
	return s.Snapshot(ownerID)
}

// Clear 清空购物车
func (s *CartService) Clear(ownerID string) (*CartSnapshot, error) {
	if err := s.cartRepo.ClearByOwner(ownerID); err != nil {
		return nil, err
	}
	return s.Snapshot(ownerID)
}

// buildSnapshot 逐行解析当前价并汇总。
// 行引用的商品或套餐已不可售时保留行但标记不可用,不计入小计。
func (s *CartService) buildSnapshot(lines []models.CartLine) (*CartSnapshot, error) {
	snapshot := &CartSnapshot{
		Lines:    make([]CartLineView, 0, len(lines)),
		Subtotal: models.NewMoneyFromDecimal(decimal.Zero),
	}
	for _, line := range lines {
		view := CartLineView{
			ID:           line.ID,
			ProductID:    line.ProductID,
			VariantID:    line.VariantID,
			ComboOfferID: line.ComboOfferID,
			Quantity:     line.Quantity,
		}
		resolved, err := s.pricing.Resolve(line.ProductID, line.VariantID, line.ComboOfferID)
		if err != nil {
			if !isLineResolveError(err) {
				return nil, err
			}
			if line.Product != nil {
				view.Title = line.Product.Title
				view.Image = line.Product.FirstImage()
			}
			snapshot.Lines = append(snapshot.Lines, view)
			continue
		}

		view.Title = resolved.Title
		view.Image = resolved.Image
		view.UnitPrice = resolved.UnitPrice
		view.LineTotal = models.NewMoneyFromDecimal(
			resolved.UnitPrice.Decimal.Mul(decimal.NewFromInt(int64(line.Quantity))))
		view.Available = true

		snapshot.Lines = append(snapshot.Lines, view)
		snapshot.ItemCount += line.Quantity
		snapshot.Subtotal = models.NewMoneyFromDecimal(
			snapshot.Subtotal.Decimal.Add(view.LineTotal.Decimal))
	}
	return snapshot, nil
}

func isLineResolveError(err error) bool {
	return errors.Is(err, ErrProductNotAvailable) ||
		errors.Is(err, ErrVariantNotFound) ||
		errors.Is(err, ErrComboOfferNotFound) ||
		errors.Is(err, ErrLineSelectionInvalid)
}
