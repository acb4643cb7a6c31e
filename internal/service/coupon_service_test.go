package service

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"

	"github.com/veloshop-next/internal/constants"
	"github.com/veloshop-next/internal/models"
	"github.com/veloshop-next/internal/repository"
)

func setupCouponTest(t *testing.T) (*CouponService, *gorm.DB) {
	t.Helper()

	dsn := fmt.Sprintf("file:coupon_service_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.Coupon{}); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	return NewCouponService(repository.NewGormCouponRepository(db)), db
}

func createTestCoupon(t *testing.T, db *gorm.DB, coupon models.Coupon) models.Coupon {
	t.Helper()
	if err := db.Create(&coupon).Error; err != nil {
		t.Fatalf("create coupon failed: %v", err)
	}
	return coupon
}

func TestValidatePercentageDiscount(t *testing.T) {
	svc, db := setupCouponTest(t)
	createTestCoupon(t, db, models.Coupon{
		Code:     "SAVE10",
		Type:     constants.CouponTypePercentage,
		Amount:   money(t, "10"),
		IsActive: true,
	})

	// 优惠码大小写不敏感
	coupon, discount, err := svc.Validate("save10", money(t, "50.00"))
	if err != nil {
		t.Fatalf("validate failed: %v", err)
	}
	if coupon.Code != "SAVE10" {
		t.Fatalf("expected normalized code SAVE10, got %s", coupon.Code)
	}
	if discount.String() != "5.00" {
		t.Fatalf("expected discount 5.00, got %s", discount)
	}
}

func TestValidateFixedDiscountCappedAtSubtotal(t *testing.T) {
	svc, db := setupCouponTest(t)
	createTestCoupon(t, db, models.Coupon{
		Code:     "TAKE20",
		Type:     constants.CouponTypeFixed,
		Amount:   money(t, "20.00"),
		IsActive: true,
	})

	_, discount, err := svc.Validate("TAKE20", money(t, "12.50"))
	if err != nil {
		t.Fatalf("validate failed: %v", err)
	}
	if discount.String() != "12.50" {
		t.Fatalf("expected capped discount 12.50, got %s", discount)
	}
}

func TestValidateRejectionOrder(t *testing.T) {
	svc, db := setupCouponTest(t)

	if _, _, err := svc.Validate("MISSING", money(t, "50.00")); !errors.Is(err, ErrCouponNotFound) {
		t.Fatalf("expected ErrCouponNotFound, got %v", err)
	}

	createTestCoupon(t, db, models.Coupon{
		Code:     "DISABLED",
		Type:     constants.CouponTypeFixed,
		Amount:   money(t, "5.00"),
		IsActive: false,
	})
	if _, _, err := svc.Validate("DISABLED", money(t, "50.00")); !errors.Is(err, ErrCouponNotFound) {
		t.Fatalf("expected disabled coupon treated as not found, got %v", err)
	}

	past := time.Now().Add(-time.Hour)
	createTestCoupon(t, db, models.Coupon{
		Code:         "EXPIRED",
		Type:         constants.CouponTypeFixed,
		Amount:       money(t, "5.00"),
		MinCartTotal: money(t, "100.00"),
		ExpiresAt:    &past,
		IsActive:     true,
	})
	// 效期检查先于门槛检查
	if _, _, err := svc.Validate("EXPIRED", money(t, "50.00")); !errors.Is(err, ErrCouponExpired) {
		t.Fatalf("expected ErrCouponExpired, got %v", err)
	}

	createTestCoupon(t, db, models.Coupon{
		Code:      "USEDUP",
		Type:      constants.CouponTypeFixed,
		Amount:    money(t, "5.00"),
		MaxUses:   2,
		UsedCount: 2,
		IsActive:  true,
	})
	if _, _, err := svc.Validate("USEDUP", money(t, "50.00")); !errors.Is(err, ErrCouponExhausted) {
		t.Fatalf("expected ErrCouponExhausted, got %v", err)
	}

	createTestCoupon(t, db, models.Coupon{
		Code:         "MIN100",
		Type:         constants.CouponTypeFixed,
		Amount:       money(t, "5.00"),
		MinCartTotal: money(t, "100.00"),
		IsActive:     true,
	})
	if _, _, err := svc.Validate("MIN100", money(t, "99.99")); !errors.Is(err, ErrCouponMinimumNotMet) {
		t.Fatalf("expected ErrCouponMinimumNotMet, got %v", err)
	}
}

func TestRedeemStopsAtMaxUses(t *testing.T) {
	svc, db := setupCouponTest(t)
	coupon := createTestCoupon(t, db, models.Coupon{
		Code:     "SINGLE",
		Type:     constants.CouponTypeFixed,
		Amount:   money(t, "5.00"),
		MaxUses:  1,
		IsActive: true,
	})

	if err := svc.Redeem(coupon.ID); err != nil {
		t.Fatalf("first redeem failed: %v", err)
	}
	if err := svc.Redeem(coupon.ID); !errors.Is(err, ErrCouponExhausted) {
		t.Fatalf("expected ErrCouponExhausted on second redeem, got %v", err)
	}

	var reloaded models.Coupon
	if err := db.First(&reloaded, coupon.ID).Error; err != nil {
		t.Fatalf("reload coupon failed: %v", err)
	}
	if reloaded.UsedCount != 1 {
		t.Fatalf("expected used count stay at 1, got %d", reloaded.UsedCount)
	}
}

func TestRedeemUnlimitedWhenMaxUsesZero(t *testing.T) {
	svc, db := setupCouponTest(t)
	coupon := createTestCoupon(t, db, models.Coupon{
		Code:     "FOREVER",
		Type:     constants.CouponTypeFixed,
		Amount:   money(t, "5.00"),
		IsActive: true,
	})

	for i := 0; i < 3; i++ {
		if err := svc.Redeem(coupon.ID); err != nil {
			t.Fatalf("redeem %d failed: %v", i, err)
		}
	}
}

func TestCreateNormalizesCodeAndRejectsDuplicates(t *testing.T) {
	svc, _ := setupCouponTest(t)

	coupon, err := svc.Create(CouponCreateInput{
		Code:     " spring24 ",
		Type:     constants.CouponTypePercentage,
		Amount:   money(t, "15"),
		IsActive: true,
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if coupon.Code != "SPRING24" {
		t.Fatalf("expected code stored upper, got %s", coupon.Code)
	}

	if _, err := svc.Create(CouponCreateInput{
		Code:     "SPRING24",
		Type:     constants.CouponTypeFixed,
		Amount:   money(t, "5"),
		IsActive: true,
	}); !errors.Is(err, ErrCouponCodeExists) {
		t.Fatalf("expected ErrCouponCodeExists, got %v", err)
	}

	if _, err := svc.Create(CouponCreateInput{
		Code:     "TOOBIG",
		Type:     constants.CouponTypePercentage,
		Amount:   money(t, "120"),
		IsActive: true,
	}); !errors.Is(err, ErrCouponInvalid) {
		t.Fatalf("expected ErrCouponInvalid for percentage over 100, got %v", err)
	}
}

func TestCreateDisabledCouponStaysDisabled(t *testing.T) {
	svc, db := setupCouponTest(t)

	if _, err := svc.Create(CouponCreateInput{
		Code:     "PAUSED",
		Type:     constants.CouponTypeFixed,
		Amount:   money(t, "5.00"),
		IsActive: false,
	}); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	// 落库值必须是 false,而非被列默认值覆盖
	var stored models.Coupon
	if err := db.Where("code = ?", "PAUSED").First(&stored).Error; err != nil {
		t.Fatalf("load coupon failed: %v", err)
	}
	if stored.IsActive {
		t.Fatalf("expected coupon persisted as disabled")
	}

	if _, _, err := svc.Validate("PAUSED", money(t, "50.00")); !errors.Is(err, ErrCouponNotFound) {
		t.Fatalf("expected disabled coupon treated as not found, got %v", err)
	}
}
