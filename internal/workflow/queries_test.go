package workflow

import (
	"context"
	"errors"
	"testing"

	"github.com/covergrid/insurance-api/internal/models"
)

func TestQueries_NotFoundConventions(t *testing.T) {
	conn := openTestDB(t, "queries_not_found")
	seedFixtures(t, conn, 50000, 10000)
	q := NewQueries(conn)

	if _, errFind := q.PlanByID(context.Background(), 999); !errors.Is(errFind, ErrPlanNotFound) {
		t.Fatalf("expected ErrPlanNotFound, got %v", errFind)
	}
	if _, errFind := q.PolicyByID(context.Background(), 999); !errors.Is(errFind, ErrPolicyNotFound) {
		t.Fatalf("expected ErrPolicyNotFound, got %v", errFind)
	}
	if _, errFind := q.ProductByID(context.Background(), 999); !errors.Is(errFind, ErrProductNotFound) {
		t.Fatalf("expected ErrProductNotFound, got %v", errFind)
	}
	if _, errFind := q.PendingPolicyByID(context.Background(), 999); !errors.Is(errFind, ErrSlotNotFound) {
		t.Fatalf("expected ErrSlotNotFound, got %v", errFind)
	}

	plans, errList := q.PlansByUser(context.Background(), 999)
	if errList != nil {
		t.Fatalf("list plans: %v", errList)
	}
	if len(plans) != 0 {
		t.Fatalf("expected empty plan list, got %d", len(plans))
	}
}

func TestQueries_PoliciesFilterByPlan(t *testing.T) {
	conn := openTestDB(t, "queries_policy_filter")
	fx := seedFixtures(t, conn, 50000, 10000)
	planID, slotIDs := purchasePlan(t, conn, fx, 1)
	if _, errActivate := NewActivationService(conn).Activate(context.Background(), slotIDs[0], nil); errActivate != nil {
		t.Fatalf("activate: %v", errActivate)
	}
	q := NewQueries(conn)

	all, errAll := q.Policies(context.Background(), nil)
	if errAll != nil {
		t.Fatalf("list policies: %v", errAll)
	}
	if len(all) != 1 {
		t.Fatalf("expected 1 policy, got %d", len(all))
	}
	if all[0].User.Name != "John Doe" || all[0].Product.Category.Name != "Health" {
		t.Fatalf("expected hydrated policy, got %+v", all[0])
	}

	filtered, errFiltered := q.Policies(context.Background(), &planID)
	if errFiltered != nil {
		t.Fatalf("list filtered policies: %v", errFiltered)
	}
	if len(filtered) != 1 {
		t.Fatalf("expected 1 policy for plan %d, got %d", planID, len(filtered))
	}

	otherPlan := planID + 99
	empty, errEmpty := q.Policies(context.Background(), &otherPlan)
	if errEmpty != nil {
		t.Fatalf("list empty policies: %v", errEmpty)
	}
	if len(empty) != 0 {
		t.Fatalf("expected no policies, got %d", len(empty))
	}
}

func TestQueries_ProductSearch(t *testing.T) {
	conn := openTestDB(t, "queries_product_search")
	fx := seedFixtures(t, conn, 50000, 10000)
	extra := models.Product{Name: "Comprehensive", Price: 15000, CategoryID: fx.product.CategoryID}
	if errCreate := conn.Create(&extra).Error; errCreate != nil {
		t.Fatalf("create product: %v", errCreate)
	}
	q := NewQueries(conn)

	all, errAll := q.Products(context.Background(), "")
	if errAll != nil {
		t.Fatalf("list products: %v", errAll)
	}
	if len(all) != 2 {
		t.Fatalf("expected 2 products, got %d", len(all))
	}
	if all[0].Category.Name != "Health" {
		t.Fatalf("expected joined category, got %q", all[0].Category.Name)
	}

	matched, errMatched := q.Products(context.Background(), "optimal")
	if errMatched != nil {
		t.Fatalf("search products: %v", errMatched)
	}
	if len(matched) != 1 || matched[0].Name != "Optimal Care Mini" {
		t.Fatalf("expected Optimal Care Mini, got %+v", matched)
	}
}
