package service

import (
	"gorm.io/gorm"

	"github.com/veloshop-next/internal/models"
	"github.com/veloshop-next/internal/repository"
)

// ResolvedLine 行价格解析结果(快照来源)
type ResolvedLine struct {
	ProductID    uint
	VariantID    uint
	ComboOfferID uint
	Title        string
	Image        string
	UnitPrice    models.Money
	Stock        int
}

// PricingService 报价服务。
// 单价优先级:套餐价 > 规格加价 > 促销价(须低于原价) > 原价。
type PricingService struct {
	productRepo repository.ProductRepository
	comboRepo   repository.ComboOfferRepository
}

func NewPricingService(productRepo repository.ProductRepository, comboRepo repository.ComboOfferRepository) *PricingService {
	return &PricingService{productRepo: productRepo, comboRepo: comboRepo}
}

// WithTx 返回使用指定事务的服务实例
func (s *PricingService) WithTx(tx *gorm.DB) *PricingService {
	if tx == nil {
		return s
	}
	return &PricingService{
		productRepo: s.productRepo.WithTx(tx),
		comboRepo:   s.comboRepo.WithTx(tx),
	}
}

// Resolve 解析一条行选择的当前单价与可用库存。
// 指定套餐时套餐价优先,商品与规格仅在未指定套餐时参与定价。
func (s *PricingService) Resolve(productID, variantID, comboOfferID uint) (*ResolvedLine, error) {
	if comboOfferID != 0 {
		return s.resolveCombo(comboOfferID)
	}
	if productID == 0 {
		return nil, ErrLineSelectionInvalid
	}
	return s.resolveProduct(productID, variantID)
}

func (s *PricingService) resolveProduct(productID, variantID uint) (*ResolvedLine, error) {
	product, err := s.productRepo.GetByID(productID)
	if err != nil {
		return nil, err
	}
	if product == nil || !product.IsActive {
		return nil, ErrProductNotAvailable
	}

	line := &ResolvedLine{
		ProductID: product.ID,
		Title:     product.Title,
		Image:     product.FirstImage(),
		UnitPrice: EffectivePrice(product),
		Stock:     product.Stock,
	}
	if variantID == 0 {
		return line, nil
	}

	variant, err := s.productRepo.GetVariant(variantID)
	if err != nil {
		return nil, err
	}
	if variant == nil || variant.ProductID != product.ID || !variant.IsActive {
		return nil, ErrVariantNotFound
	}
	line.VariantID = variant.ID
	line.Title = product.Title + " " + variant.OptionValue
	if variant.PriceOverride != nil {
		line.UnitPrice = *variant.PriceOverride
	}
	if variant.StockOverride != nil {
		line.Stock = *variant.StockOverride
	}
	return line, nil
}

// resolveCombo 解析套餐价,可用库存取引用商品库存的最小值
func (s *PricingService) resolveCombo(comboOfferID uint) (*ResolvedLine, error) {
	offer, err := s.comboRepo.GetByID(comboOfferID)
	if err != nil {
		return nil, err
	}
	if offer == nil || !offer.IsActive {
		return nil, ErrComboOfferNotFound
	}

	stock := 0
	for i, productID := range offer.ProductIDs {
		product, err := s.productRepo.GetByID(productID)
		if err != nil {
			return nil, err
		}
		if product == nil || !product.IsActive {
			return nil, ErrComboOfferNotFound
		}
		if i == 0 || product.Stock < stock {
			stock = product.Stock
		}
	}
	return &ResolvedLine{
		ComboOfferID: offer.ID,
		Title:        offer.Title,
		Image:        offer.Image,
		UnitPrice:    offer.BundlePrice,
		Stock:        stock,
	}, nil
}

// EffectivePrice 返回商品生效价:促销价低于原价时取促销价,否则取原价
func EffectivePrice(product *models.Product) models.Money {
	if product.SalePrice != nil && product.SalePrice.Decimal.LessThan(product.BasePrice.Decimal) {
		return *product.SalePrice
	}
	return product.BasePrice
}
