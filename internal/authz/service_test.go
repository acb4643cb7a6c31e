package authz

import (
	"fmt"
	"strings"
	"testing"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func setupAuthzServiceTest(t *testing.T) *Service {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	svc, err := NewService(db)
	if err != nil {
		t.Fatalf("new authz service failed: %v", err)
	}
	return svc
}

func TestEnforceAdminWithRolePolicy(t *testing.T) {
	svc := setupAuthzServiceTest(t)
	if err := svc.GrantRolePolicy("ops", "/admin/orders/:id", "GET"); err != nil {
		t.Fatalf("grant role policy failed: %v", err)
	}
	if err := svc.SetAdminRoles(1, []string{"ops"}); err != nil {
		t.Fatalf("set admin roles failed: %v", err)
	}

	allow, err := svc.EnforceAdmin(1, "/api/v1/admin/orders/42", "get")
	if err != nil {
		t.Fatalf("enforce allow failed: %v", err)
	}
	if !allow {
		t.Fatalf("expected allow=true")
	}

	allow, err = svc.EnforceAdmin(1, "/api/v1/admin/orders/42", "PATCH")
	if err != nil {
		t.Fatalf("enforce deny failed: %v", err)
	}
	if allow {
		t.Fatalf("expected allow=false")
	}
}

func TestSetAdminRolesOverride(t *testing.T) {
	svc := setupAuthzServiceTest(t)
	if err := svc.GrantRolePolicy("support", "/admin/orders", "GET"); err != nil {
		t.Fatalf("grant support policy failed: %v", err)
	}
	if err := svc.GrantRolePolicy("marketing", "/admin/coupons", "GET"); err != nil {
		t.Fatalf("grant marketing policy failed: %v", err)
	}

	if err := svc.SetAdminRoles(2, []string{"support"}); err != nil {
		t.Fatalf("set first role failed: %v", err)
	}
	roles, err := svc.GetAdminRoles(2)
	if err != nil {
		t.Fatalf("get roles failed: %v", err)
	}
	if len(roles) != 1 || roles[0] != "role:support" {
		t.Fatalf("roles want [role:support], got=%v", roles)
	}

	if err := svc.SetAdminRoles(2, []string{"marketing"}); err != nil {
		t.Fatalf("set second role failed: %v", err)
	}
	roles, err = svc.GetAdminRoles(2)
	if err != nil {
		t.Fatalf("get roles failed: %v", err)
	}
	if len(roles) != 1 || roles[0] != "role:marketing" {
		t.Fatalf("roles want [role:marketing], got=%v", roles)
	}
}

func TestBootstrapBuiltinRolesInheritance(t *testing.T) {
	svc := setupAuthzServiceTest(t)
	if err := svc.BootstrapBuiltinRoles(); err != nil {
		t.Fatalf("bootstrap builtin roles failed: %v", err)
	}
	if err := svc.SetAdminRoles(3, []string{"marketing"}); err != nil {
		t.Fatalf("set admin roles failed: %v", err)
	}

	// marketing 可写优惠券,且继承只读审计的 GET 权限
	allow, err := svc.EnforceAdmin(3, "/api/v1/admin/coupons/7", "PATCH")
	if err != nil {
		t.Fatalf("enforce coupon write failed: %v", err)
	}
	if !allow {
		t.Fatalf("expected marketing to update coupons")
	}
	allow, err = svc.EnforceAdmin(3, "/api/v1/admin/orders", "GET")
	if err != nil {
		t.Fatalf("enforce inherited read failed: %v", err)
	}
	if !allow {
		t.Fatalf("expected inherited read access")
	}
	allow, err = svc.EnforceAdmin(3, "/api/v1/admin/orders/7/status", "PATCH")
	if err != nil {
		t.Fatalf("enforce order write failed: %v", err)
	}
	if allow {
		t.Fatalf("marketing must not change order status")
	}
}

func TestNormalizeObjectAndAction(t *testing.T) {
	if got := NormalizeObject("/api/v1/admin/orders"); got != "/admin/orders" {
		t.Fatalf("object want /admin/orders got %s", got)
	}
	if got := NormalizeObject("admin/coupons"); got != "/admin/coupons" {
		t.Fatalf("object want /admin/coupons got %s", got)
	}
	if got := NormalizeAction(" get "); got != "GET" {
		t.Fatalf("action want GET got %s", got)
	}
}
