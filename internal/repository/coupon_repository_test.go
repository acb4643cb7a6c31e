package repository

import (
	"fmt"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/veloshop-next/internal/constants"
	"github.com/veloshop-next/internal/models"
)

func setupCouponRepositoryTest(t *testing.T) *GormCouponRepository {
	t.Helper()
	dsn := fmt.Sprintf("file:coupon_repo_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.Coupon{}); err != nil {
		t.Fatalf("migrate coupon failed: %v", err)
	}
	return NewGormCouponRepository(db)
}

func TestRedeemOnceGuardsMaxUses(t *testing.T) {
	repo := setupCouponRepositoryTest(t)
	coupon := &models.Coupon{
		Code:     "LIMITED",
		Type:     constants.CouponTypeFixed,
		Amount:   models.NewMoneyFromDecimal(decimal.NewFromInt(5)),
		MaxUses:  2,
		IsActive: true,
	}
	if err := repo.Create(coupon); err != nil {
		t.Fatalf("create coupon failed: %v", err)
	}

	for i := 0; i < 2; i++ {
		rows, err := repo.RedeemOnce(coupon.ID)
		if err != nil {
			t.Fatalf("redeem %d failed: %v", i+1, err)
		}
		if rows != 1 {
			t.Fatalf("redeem %d affected want 1 got %d", i+1, rows)
		}
	}

	// 超出上限后更新条件失配,归零行数而非报错
	rows, err := repo.RedeemOnce(coupon.ID)
	if err != nil {
		t.Fatalf("redeem over limit errored: %v", err)
	}
	if rows != 0 {
		t.Fatalf("redeem over limit affected want 0 got %d", rows)
	}

	reloaded, err := repo.GetByID(coupon.ID)
	if err != nil {
		t.Fatalf("reload coupon failed: %v", err)
	}
	if reloaded.UsedCount != 2 {
		t.Fatalf("used count want 2 got %d", reloaded.UsedCount)
	}
}

func TestRedeemOnceUnlimited(t *testing.T) {
	repo := setupCouponRepositoryTest(t)
	coupon := &models.Coupon{
		Code:     "FOREVER",
		Type:     constants.CouponTypePercentage,
		Amount:   models.NewMoneyFromDecimal(decimal.NewFromInt(10)),
		MaxUses:  0,
		IsActive: true,
	}
	if err := repo.Create(coupon); err != nil {
		t.Fatalf("create coupon failed: %v", err)
	}

	for i := 0; i < 5; i++ {
		rows, err := repo.RedeemOnce(coupon.ID)
		if err != nil {
			t.Fatalf("redeem %d failed: %v", i+1, err)
		}
		if rows != 1 {
			t.Fatalf("redeem %d affected want 1 got %d", i+1, rows)
		}
	}

	reloaded, err := repo.GetByID(coupon.ID)
	if err != nil {
		t.Fatalf("reload coupon failed: %v", err)
	}
	if reloaded.UsedCount != 5 {
		t.Fatalf("used count want 5 got %d", reloaded.UsedCount)
	}
}

func TestGetByCodeMissingReturnsNil(t *testing.T) {
	repo := setupCouponRepositoryTest(t)

	coupon, err := repo.GetByCode("NOPE")
	if err != nil {
		t.Fatalf("get missing coupon errored: %v", err)
	}
	if coupon != nil {
		t.Fatalf("expected nil for missing coupon, got %+v", coupon)
	}
}
