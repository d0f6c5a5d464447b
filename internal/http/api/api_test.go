package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"regexp"
	"testing"

	"github.com/covergrid/insurance-api/internal/config"
	dbutil "github.com/covergrid/insurance-api/internal/db"
	"github.com/covergrid/insurance-api/internal/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// newTestServer builds an engine over an isolated in-memory database.
func newTestServer(t *testing.T, name string, cfg config.ServerConfig) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	conn, errOpen := dbutil.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", name))
	if errOpen != nil {
		t.Fatalf("open db: %v", errOpen)
	}
	if errMigrate := dbutil.Migrate(conn); errMigrate != nil {
		t.Fatalf("migrate: %v", errMigrate)
	}

	engine := gin.New()
	engine.Use(RequestLogger())
	RegisterRoutes(engine, conn, cfg)
	return engine, conn
}

// envelope mirrors the success response body.
type envelope struct {
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
}

func doJSON(t *testing.T, engine *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		payload, errMarshal := json.Marshal(body)
		if errMarshal != nil {
			t.Fatalf("marshal body: %v", errMarshal)
		}
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	return rec
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	if errDecode := json.Unmarshal(rec.Body.Bytes(), &env); errDecode != nil {
		t.Fatalf("decode envelope: %v (%s)", errDecode, rec.Body.String())
	}
	return env
}

func seedAPIFixtures(t *testing.T, conn *gorm.DB, balance float64) (models.User, models.Product) {
	t.Helper()
	category := models.ProductCategory{Name: "Health", Description: "Health insurance products"}
	if errCreate := conn.Create(&category).Error; errCreate != nil {
		t.Fatalf("create category: %v", errCreate)
	}
	product := models.Product{Name: "Optimal Care Mini", Price: 10000, CategoryID: category.ID}
	if errCreate := conn.Create(&product).Error; errCreate != nil {
		t.Fatalf("create product: %v", errCreate)
	}
	user := models.User{Name: "John Doe", Email: "john.doe@example.com"}
	if errCreate := conn.Create(&user).Error; errCreate != nil {
		t.Fatalf("create user: %v", errCreate)
	}
	wallet := models.Wallet{UserID: user.ID, Balance: balance}
	if errCreate := conn.Create(&wallet).Error; errCreate != nil {
		t.Fatalf("create wallet: %v", errCreate)
	}
	return user, product
}

func TestPlanEndpoints(t *testing.T) {
	engine, conn := newTestServer(t, "api_plans", config.ServerConfig{})
	user, product := seedAPIFixtures(t, conn, 50000)

	rec := doJSON(t, engine, http.MethodPost, "/v1/plans", gin.H{
		"user_id":    user.ID,
		"product_id": product.ID,
		"quantity":   2,
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d (%s)", rec.Code, rec.Body.String())
	}
	env := decodeEnvelope(t, rec)
	if env.Message != "Insurance plan created successfully" {
		t.Fatalf("unexpected message %q", env.Message)
	}

	// plan mirrors the fields asserted from the purchase response.
	var plan struct {
		ID          uint64  `json:"id"`
		TotalAmount float64 `json:"total_amount"`
		User        struct {
			WalletBalance float64 `json:"wallet_balance"`
		} `json:"user"`
	}
	if errDecode := json.Unmarshal(env.Data, &plan); errDecode != nil {
		t.Fatalf("decode plan: %v", errDecode)
	}
	if plan.TotalAmount != 20000 {
		t.Fatalf("expected total_amount=20000, got %v", plan.TotalAmount)
	}
	if plan.User.WalletBalance != 30000 {
		t.Fatalf("expected wallet_balance=30000, got %v", plan.User.WalletBalance)
	}

	if rec := doJSON(t, engine, http.MethodGet, fmt.Sprintf("/v1/plans/%d", plan.ID), nil); rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if rec := doJSON(t, engine, http.MethodGet, "/v1/plans/9999", nil); rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}

	listRec := doJSON(t, engine, http.MethodGet, fmt.Sprintf("/v1/plans/user/%d", user.ID), nil)
	if listRec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", listRec.Code)
	}
	var plans []json.RawMessage
	if errDecode := json.Unmarshal(decodeEnvelope(t, listRec).Data, &plans); errDecode != nil {
		t.Fatalf("decode plans: %v", errDecode)
	}
	if len(plans) != 1 {
		t.Fatalf("expected 1 plan, got %d", len(plans))
	}

	// Spending the rest and retrying must fail without touching the wallet.
	rec = doJSON(t, engine, http.MethodPost, "/v1/plans", gin.H{
		"user_id":    user.ID,
		"product_id": product.ID,
		"quantity":   4,
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d (%s)", rec.Code, rec.Body.String())
	}
	var errBody struct {
		Error string `json:"error"`
	}
	if errDecode := json.Unmarshal(rec.Body.Bytes(), &errBody); errDecode != nil {
		t.Fatalf("decode error body: %v", errDecode)
	}
	if errBody.Error == "" {
		t.Fatalf("expected error message, got %s", rec.Body.String())
	}
}

func TestActivationEndpoints(t *testing.T) {
	engine, conn := newTestServer(t, "api_activation", config.ServerConfig{})
	user, product := seedAPIFixtures(t, conn, 50000)

	rec := doJSON(t, engine, http.MethodPost, "/v1/plans", gin.H{
		"user_id":    user.ID,
		"product_id": product.ID,
		"quantity":   1,
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("purchase failed: %d (%s)", rec.Code, rec.Body.String())
	}
	var plan struct {
		ID uint64 `json:"id"`
	}
	if errDecode := json.Unmarshal(decodeEnvelope(t, rec).Data, &plan); errDecode != nil {
		t.Fatalf("decode plan: %v", errDecode)
	}

	unusedRec := doJSON(t, engine, http.MethodGet, fmt.Sprintf("/v1/plans/%d/pending-policies/unused", plan.ID), nil)
	if unusedRec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", unusedRec.Code)
	}
	var slots []struct {
		ID     uint64 `json:"id"`
		Status string `json:"status"`
	}
	if errDecode := json.Unmarshal(decodeEnvelope(t, unusedRec).Data, &slots); errDecode != nil {
		t.Fatalf("decode slots: %v", errDecode)
	}
	if len(slots) != 1 || slots[0].Status != "unused" {
		t.Fatalf("expected 1 unused slot, got %+v", slots)
	}

	activateRec := doJSON(t, engine, http.MethodPost, "/v1/policies/activate", gin.H{
		"pending_policy_id": slots[0].ID,
	})
	if activateRec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d (%s)", activateRec.Code, activateRec.Body.String())
	}
	var policy struct {
		ID           uint64 `json:"id"`
		PolicyNumber string `json:"policy_number"`
	}
	if errDecode := json.Unmarshal(decodeEnvelope(t, activateRec).Data, &policy); errDecode != nil {
		t.Fatalf("decode policy: %v", errDecode)
	}
	if !regexp.MustCompile(`^POL-OPT-\d+-[0-9A-Z]{6}$`).MatchString(policy.PolicyNumber) {
		t.Fatalf("unexpected policy number %q", policy.PolicyNumber)
	}

	// Replay is rejected, and the slot now reports used in the full listing.
	replayRec := doJSON(t, engine, http.MethodPost, "/v1/policies/activate", gin.H{
		"pending_policy_id": slots[0].ID,
	})
	if replayRec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 on replay, got %d", replayRec.Code)
	}

	allRec := doJSON(t, engine, http.MethodGet, fmt.Sprintf("/v1/plans/%d/pending-policies", plan.ID), nil)
	var allSlots []struct {
		Status string `json:"status"`
	}
	if errDecode := json.Unmarshal(decodeEnvelope(t, allRec).Data, &allSlots); errDecode != nil {
		t.Fatalf("decode slots: %v", errDecode)
	}
	if len(allSlots) != 1 || allSlots[0].Status != "used" {
		t.Fatalf("expected used slot in full listing, got %+v", allSlots)
	}

	filterRec := doJSON(t, engine, http.MethodGet, fmt.Sprintf("/v1/policies?plan_id=%d", plan.ID), nil)
	var policies []json.RawMessage
	if errDecode := json.Unmarshal(decodeEnvelope(t, filterRec).Data, &policies); errDecode != nil {
		t.Fatalf("decode policies: %v", errDecode)
	}
	if len(policies) != 1 {
		t.Fatalf("expected 1 policy, got %d", len(policies))
	}

	if rec := doJSON(t, engine, http.MethodGet, "/v1/policies/9999", nil); rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestCatalogEndpointsAndHealth(t *testing.T) {
	engine, conn := newTestServer(t, "api_catalog", config.ServerConfig{})
	if errSeed := dbutil.Seed(conn); errSeed != nil {
		t.Fatalf("seed: %v", errSeed)
	}

	productsRec := doJSON(t, engine, http.MethodGet, "/v1/products", nil)
	if productsRec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", productsRec.Code)
	}
	var products []struct {
		ID       uint64   `json:"id"`
		Name     string   `json:"name"`
		Benefits []string `json:"benefits"`
		Category struct {
			Name string `json:"name"`
		} `json:"category"`
	}
	if errDecode := json.Unmarshal(decodeEnvelope(t, productsRec).Data, &products); errDecode != nil {
		t.Fatalf("decode products: %v", errDecode)
	}
	if len(products) != 4 {
		t.Fatalf("expected 4 products, got %d", len(products))
	}
	if products[0].Category.Name == "" {
		t.Fatalf("expected joined category, got %+v", products[0])
	}

	categoriesRec := doJSON(t, engine, http.MethodGet, "/v1/products/categories", nil)
	var categories []json.RawMessage
	if errDecode := json.Unmarshal(decodeEnvelope(t, categoriesRec).Data, &categories); errDecode != nil {
		t.Fatalf("decode categories: %v", errDecode)
	}
	if len(categories) != 2 {
		t.Fatalf("expected 2 categories, got %d", len(categories))
	}

	if rec := doJSON(t, engine, http.MethodGet, fmt.Sprintf("/v1/products/%d", products[0].ID), nil); rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if rec := doJSON(t, engine, http.MethodGet, "/v1/products/9999", nil); rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}

	healthRec := doJSON(t, engine, http.MethodGet, "/healthz", nil)
	if healthRec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", healthRec.Code)
	}
	if got := healthRec.Header().Get("X-Request-ID"); got == "" {
		t.Fatalf("expected request id header")
	}
}
