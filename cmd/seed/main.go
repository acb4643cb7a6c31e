package main

import (
	"time"

	"github.com/veloshop-next/internal/config"
	"github.com/veloshop-next/internal/constants"
	"github.com/veloshop-next/internal/logger"
	"github.com/veloshop-next/internal/models"

	"github.com/shopspring/decimal"
)

func main() {
	// 连接数据库
	cfg := config.Load()
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	stdLog := logger.StdLogger()
	if err := models.InitDB(cfg.Database.Driver, cfg.Database.DSN, models.DBPoolConfig{
		MaxOpenConns:           cfg.Database.Pool.MaxOpenConns,
		MaxIdleConns:           cfg.Database.Pool.MaxIdleConns,
		ConnMaxLifetimeSeconds: cfg.Database.Pool.ConnMaxLifetimeSeconds,
		ConnMaxIdleTimeSeconds: cfg.Database.Pool.ConnMaxIdleTimeSeconds,
	}); err != nil {
		stdLog.Fatalf("Failed to connect database: %v", err)
	}

	// 自动迁移
	if err := models.AutoMigrate(); err != nil {
		stdLog.Fatalf("Failed to migrate database: %v", err)
	}

	// 添加商品
	salePrice := models.NewMoneyFromDecimal(decimal.NewFromFloat(79.99))
	products := []models.Product{
		{
			Slug:      "trail-runner-shoes",
			Title:     "Trail Runner Shoes",
			BasePrice: models.NewMoneyFromDecimal(decimal.NewFromFloat(99.99)),
			SalePrice: &salePrice,
			Stock:     120,
			Images: models.StringArray([]string{
				"https://images.unsplash.com/photo-1542291026-7eec264c27ff?w=800",
			}),
			IsActive:  true,
			SortOrder: 1,
		},
		{
			Slug:      "merino-running-socks",
			Title:     "Merino Running Socks",
			BasePrice: models.NewMoneyFromDecimal(decimal.NewFromFloat(14.50)),
			Stock:     500,
			Images: models.StringArray([]string{
				"https://images.unsplash.com/photo-1586350977771-b3b0abd50c82?w=800",
			}),
			IsActive:  true,
			SortOrder: 2,
		},
		{
			Slug:      "hydration-vest",
			Title:     "Hydration Vest 5L",
			BasePrice: models.NewMoneyFromDecimal(decimal.NewFromFloat(59.00)),
			Stock:     80,
			Images: models.StringArray([]string{
				"https://images.unsplash.com/photo-1508609349937-5ec4ae374ebf?w=800",
			}),
			IsActive:  true,
			SortOrder: 3,
		},
	}

	productIDs := map[string]uint{}
	for _, product := range products {
		var existing models.Product
		if err := models.DB.Where("slug = ?", product.Slug).First(&existing).Error; err != nil {
			if err := models.DB.Create(&product).Error; err != nil {
				stdLog.Printf("Failed to create product %s: %v", product.Slug, err)
				continue
			}
			stdLog.Printf("Created product: %s", product.Slug)
			productIDs[product.Slug] = product.ID
		} else {
			stdLog.Printf("Product already exists: %s", existing.Slug)
			productIDs[existing.Slug] = existing.ID
		}
	}

	// 添加规格
	if shoeID := productIDs["trail-runner-shoes"]; shoeID != 0 {
		sizeUpPrice := models.NewMoneyFromDecimal(decimal.NewFromFloat(84.99))
		lowStock := 6
		variants := []models.ProductVariant{
			{ProductID: shoeID, OptionName: "size", OptionValue: "42", IsActive: true},
			{ProductID: shoeID, OptionName: "size", OptionValue: "43", IsActive: true},
			{ProductID: shoeID, OptionName: "size", OptionValue: "46", PriceOverride: &sizeUpPrice, StockOverride: &lowStock, IsActive: true},
		}
		for _, variant := range variants {
			var existing models.ProductVariant
			err := models.DB.Where("product_id = ? AND option_name = ? AND option_value = ?",
				variant.ProductID, variant.OptionName, variant.OptionValue).First(&existing).Error
			if err != nil {
				if err := models.DB.Create(&variant).Error; err != nil {
					stdLog.Printf("Failed to create variant %s=%s: %v", variant.OptionName, variant.OptionValue, err)
				} else {
					stdLog.Printf("Created variant: %s=%s", variant.OptionName, variant.OptionValue)
				}
			}
		}
	}

	// 添加套餐
	if productIDs["trail-runner-shoes"] != 0 && productIDs["merino-running-socks"] != 0 {
		offer := models.ComboOffer{
			Title:       "Race Day Bundle",
			ProductIDs:  models.UintArray{productIDs["trail-runner-shoes"], productIDs["merino-running-socks"]},
			BundlePrice: models.NewMoneyFromDecimal(decimal.NewFromFloat(89.00)),
			IsActive:    true,
		}
		var existing models.ComboOffer
		if err := models.DB.Where("title = ?", offer.Title).First(&existing).Error; err != nil {
			if err := models.DB.Create(&offer).Error; err != nil {
				stdLog.Printf("Failed to create combo offer: %v", err)
			} else {
				stdLog.Printf("Created combo offer: %s", offer.Title)
			}
		}
	}

	// 添加优惠券
	expires := time.Now().AddDate(0, 3, 0)
	coupons := []models.Coupon{
		{
			Code:     "SAVE10",
			Type:     constants.CouponTypePercentage,
			Amount:   models.NewMoneyFromDecimal(decimal.NewFromInt(10)),
			IsActive: true,
		},
		{
			Code:         "WELCOME5",
			Type:         constants.CouponTypeFixed,
			Amount:       models.NewMoneyFromDecimal(decimal.NewFromInt(5)),
			MinCartTotal: models.NewMoneyFromDecimal(decimal.NewFromInt(30)),
			MaxUses:      1000,
			ExpiresAt:    &expires,
			IsActive:     true,
		},
	}
	for _, coupon := range coupons {
		var existing models.Coupon
		if err := models.DB.Where("code = ?", coupon.Code).First(&existing).Error; err != nil {
			if err := models.DB.Create(&coupon).Error; err != nil {
				stdLog.Printf("Failed to create coupon %s: %v", coupon.Code, err)
			} else {
				stdLog.Printf("Created coupon: %s", coupon.Code)
			}
		} else {
			stdLog.Printf("Coupon already exists: %s", existing.Code)
		}
	}

	stdLog.Printf("Seed finished")
}
