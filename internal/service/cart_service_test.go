package service

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"

	"github.com/veloshop-next/internal/models"
	"github.com/veloshop-next/internal/repository"
)

func setupCartTest(t *testing.T) (*CartService, *gorm.DB) {
	t.Helper()

	dsn := fmt.Sprintf("file:cart_service_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.Product{}, &models.ProductVariant{}, &models.ComboOffer{}, &models.CartLine{}); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}

	pricing := NewPricingService(repository.NewGormProductRepository(db), repository.NewGormComboOfferRepository(db))
	return NewCartService(db, repository.NewGormCartRepository(db), pricing), db
}

func TestAddItemMergesDuplicateSelection(t *testing.T) {
	svc, db := setupCartTest(t)
	product := createTestProduct(t, db, "merge-target", "25.00", "", 50)

	if _, err := svc.AddItem("user:1", product.ID, 0, 0, 2); err != nil {
		t.Fatalf("first add failed: %v", err)
	}
	snapshot, err := svc.AddItem("user:1", product.ID, 0, 0, 3)
	if err != nil {
		t.Fatalf("second add failed: %v", err)
	}

	if len(snapshot.Lines) != 1 {
		t.Fatalf("expected merged single line, got %d", len(snapshot.Lines))
	}
	if snapshot.Lines[0].Quantity != 5 {
		t.Fatalf("expected merged quantity 5, got %d", snapshot.Lines[0].Quantity)
	}
	if snapshot.ItemCount != 5 {
		t.Fatalf("expected item count 5, got %d", snapshot.ItemCount)
	}
	if snapshot.Subtotal.String() != "125.00" {
		t.Fatalf("expected subtotal 125.00, got %s", snapshot.Subtotal)
	}
}

func TestAddItemKeepsDistinctVariantLines(t *testing.T) {
	svc, db := setupCartTest(t)
	product := createTestProduct(t, db, "variant-split", "25.00", "", 50)
	variant := models.ProductVariant{ProductID: product.ID, OptionName: "size", OptionValue: "43", IsActive: true}
	if err := db.Create(&variant).Error; err != nil {
		t.Fatalf("create variant failed: %v", err)
	}

	if _, err := svc.AddItem("user:1", product.ID, 0, 0, 1); err != nil {
		t.Fatalf("add base line failed: %v", err)
	}
	snapshot, err := svc.AddItem("user:1", product.ID, variant.ID, 0, 1)
	if err != nil {
		t.Fatalf("add variant line failed: %v", err)
	}
	if len(snapshot.Lines) != 2 {
		t.Fatalf("expected two distinct lines, got %d", len(snapshot.Lines))
	}
}

func TestAddItemRejectsInvalidQuantity(t *testing.T) {
	svc, db := setupCartTest(t)
	product := createTestProduct(t, db, "qty-check", "10.00", "", 50)

	if _, err := svc.AddItem("user:1", product.ID, 0, 0, -1); !errors.Is(err, ErrInvalidQuantity) {
		t.Fatalf("expected ErrInvalidQuantity, got %v", err)
	}

	snapshot, err := svc.Snapshot("user:1")
	if err != nil {
		t.Fatalf("snapshot failed: %v", err)
	}
	if len(snapshot.Lines) != 0 {
		t.Fatalf("expected cart unchanged, got %d lines", len(snapshot.Lines))
	}
}

func TestAddItemDefaultsQuantityToOne(t *testing.T) {
	svc, db := setupCartTest(t)
	product := createTestProduct(t, db, "qty-default", "10.00", "", 50)

	snapshot, err := svc.AddItem("user:1", product.ID, 0, 0, 0)
	if err != nil {
		t.Fatalf("add with omitted quantity failed: %v", err)
	}
	if len(snapshot.Lines) != 1 || snapshot.Lines[0].Quantity != 1 {
		t.Fatalf("expected single line with quantity 1, got %+v", snapshot.Lines)
	}
}

func TestAddItemRejectsInsufficientStock(t *testing.T) {
	svc, db := setupCartTest(t)
	product := createTestProduct(t, db, "low-stock", "10.00", "", 3)

	if _, err := svc.AddItem("user:1", product.ID, 0, 0, 2); err != nil {
		t.Fatalf("add within stock failed: %v", err)
	}
	// 累计数量超过库存时拒绝
	if _, err := svc.AddItem("user:1", product.ID, 0, 0, 2); !errors.Is(err, ErrOutOfStock) {
		t.Fatalf("expected ErrOutOfStock, got %v", err)
	}
}

func TestUpdateQuantityValidatesLineAndOwner(t *testing.T) {
	svc, db := setupCartTest(t)
	product := createTestProduct(t, db, "owner-check", "10.00", "", 50)

	snapshot, err := svc.AddItem("user:1", product.ID, 0, 0, 1)
	if err != nil {
		t.Fatalf("add failed: %v", err)
	}
	lineID := snapshot.Lines[0].ID

	if _, err := svc.UpdateQuantity("user:1", lineID, 0); !errors.Is(err, ErrInvalidQuantity) {
		t.Fatalf("expected ErrInvalidQuantity, got %v", err)
	}
	if _, err := svc.UpdateQuantity("user:2", lineID, 2); !errors.Is(err, ErrCartLineNotFound) {
		t.Fatalf("expected ErrCartLineNotFound for foreign owner, got %v", err)
	}

	updated, err := svc.UpdateQuantity("user:1", lineID, 4)
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if updated.Lines[0].Quantity != 4 {
		t.Fatalf("expected quantity 4, got %d", updated.Lines[0].Quantity)
	}
}

func TestSnapshotRecomputesAfterCatalogPriceChange(t *testing.T) {
	svc, db := setupCartTest(t)
	product := createTestProduct(t, db, "reprice", "40.00", "", 50)

	snapshot, err := svc.AddItem("user:1", product.ID, 0, 0, 2)
	if err != nil {
		t.Fatalf("add failed: %v", err)
	}
	if snapshot.Subtotal.String() != "80.00" {
		t.Fatalf("expected subtotal 80.00, got %s", snapshot.Subtotal)
	}

	salePrice := money(t, "30.00")
	if err := db.Model(&models.Product{}).Where("id = ?", product.ID).Update("sale_price", salePrice).Error; err != nil {
		t.Fatalf("update price failed: %v", err)
	}

	snapshot, err = svc.Snapshot("user:1")
	if err != nil {
		t.Fatalf("snapshot failed: %v", err)
	}
	if snapshot.Subtotal.String() != "60.00" {
		t.Fatalf("expected recomputed subtotal 60.00, got %s", snapshot.Subtotal)
	}
}

func TestSnapshotMarksUnavailableLines(t *testing.T) {
	svc, db := setupCartTest(t)
	product := createTestProduct(t, db, "goes-offline", "40.00", "", 50)

	if _, err := svc.AddItem("user:1", product.ID, 0, 0, 1); err != nil {
		t.Fatalf("add failed: %v", err)
	}
	if err := db.Model(&models.Product{}).Where("id = ?", product.ID).Update("is_active", false).Error; err != nil {
		t.Fatalf("deactivate failed: %v", err)
	}

	snapshot, err := svc.Snapshot("user:1")
	if err != nil {
		t.Fatalf("snapshot failed: %v", err)
	}
	if len(snapshot.Lines) != 1 {
		t.Fatalf("expected line kept, got %d", len(snapshot.Lines))
	}
	if snapshot.Lines[0].Available {
		t.Fatalf("expected line marked unavailable")
	}
	if !snapshot.Subtotal.Decimal.IsZero() {
		t.Fatalf("expected unavailable line excluded from subtotal, got %s", snapshot.Subtotal)
	}
}

func TestRemoveLineIsIdempotent(t *testing.T) {
	svc, db := setupCartTest(t)
	product := createTestProduct(t, db, "remove-twice", "10.00", "", 50)

	snapshot, err := svc.AddItem("user:1", product.ID, 0, 0, 1)
	if err != nil {
		t.Fatalf("add failed: %v", err)
	}
	lineID := snapshot.Lines[0].ID

	if _, err := svc.RemoveLine("user:1", lineID); err != nil {
		t.Fatalf("first remove failed: %v", err)
	}
	snapshot, err = svc.RemoveLine("user:1", lineID)
	if err != nil {
		t.Fatalf("repeated remove failed: %v", err)
	}
	if len(snapshot.Lines) != 0 {
		t.Fatalf("expected empty cart, got %d lines", len(snapshot.Lines))
	}
}
