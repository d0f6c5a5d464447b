package db

import (
	"testing"

	"github.com/covergrid/insurance-api/internal/models"
)

func TestSeed_Idempotent(t *testing.T) {
	conn, errOpen := Open("file:seed_test?mode=memory&cache=shared")
	if errOpen != nil {
		t.Fatalf("open db: %v", errOpen)
	}
	if errMigrate := Migrate(conn); errMigrate != nil {
		t.Fatalf("migrate: %v", errMigrate)
	}

	for i := 0; i < 2; i++ {
		if errSeed := Seed(conn); errSeed != nil {
			t.Fatalf("seed run %d: %v", i+1, errSeed)
		}
	}

	counts := []struct {
		name  string
		model any
		want  int64
	}{
		{"categories", &models.ProductCategory{}, 2},
		{"products", &models.Product{}, 4},
		{"users", &models.User{}, 3},
		{"wallets", &models.Wallet{}, 3},
	}
	for _, tc := range counts {
		var got int64
		if errCount := conn.Model(tc.model).Count(&got).Error; errCount != nil {
			t.Fatalf("count %s: %v", tc.name, errCount)
		}
		if got != tc.want {
			t.Fatalf("expected %d %s, got %d", tc.want, tc.name, got)
		}
	}

	var user models.User
	if errFind := conn.Preload("Wallet").Where("email = ?", "john.doe@example.com").First(&user).Error; errFind != nil {
		t.Fatalf("load seeded user: %v", errFind)
	}
	if user.Wallet == nil || user.Wallet.Balance != 100000 {
		t.Fatalf("expected John Doe wallet balance 100000, got %+v", user.Wallet)
	}
}

func TestOpen_DialectSelection(t *testing.T) {
	conn, errOpen := Open("file:dialect_test?mode=memory&cache=shared")
	if errOpen != nil {
		t.Fatalf("open db: %v", errOpen)
	}
	if !IsSQLite(conn) {
		t.Fatalf("expected sqlite dialect, got %q", DialectName(conn))
	}
	if expr := CaseInsensitiveLikeExpr(conn, "name"); expr != "LOWER(name) LIKE ?" {
		t.Fatalf("unexpected like expr %q", expr)
	}
	if pattern := NormalizeLikePattern(conn, "%Optimal%"); pattern != "%optimal%" {
		t.Fatalf("unexpected pattern %q", pattern)
	}

	if _, errEmpty := Open("  "); errEmpty == nil {
		t.Fatalf("expected error for empty dsn")
	}
}
