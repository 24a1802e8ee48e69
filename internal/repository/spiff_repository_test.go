package repository

import (
	"testing"
	"time"

	"github.com/dealerdesk/internal/constants"
	"github.com/dealerdesk/internal/models"
)

func TestSpiffTransitionGuardsSourceStatus(t *testing.T) {
	db := openPayrollTestDB(t)
	repo := NewSpiffRepository(db)

	spiff := &models.Spiff{
		SalespersonID: 1,
		Amount:        money("125"),
		Reason:        "month end",
		SpiffDate:     time.Date(2025, 4, 2, 0, 0, 0, 0, time.UTC),
		Status:        constants.SpiffStatusPending,
	}
	if err := repo.Create(spiff); err != nil {
		t.Fatalf("create spiff failed: %v", err)
	}

	now := time.Now()
	updated, err := repo.Transition(spiff.ID, []string{constants.SpiffStatusPending}, map[string]interface{}{
		"status":      constants.SpiffStatusApproved,
		"approved_at": now,
	})
	if err != nil {
		t.Fatalf("transition failed: %v", err)
	}
	if updated == nil || updated.Status != constants.SpiffStatusApproved || updated.ApprovedAt == nil {
		t.Fatalf("unexpected transition result: %+v", updated)
	}

	again, err := repo.Transition(spiff.ID, []string{constants.SpiffStatusPending}, map[string]interface{}{
		"status": constants.SpiffStatusApproved,
	})
	if err != nil {
		t.Fatalf("second transition errored: %v", err)
	}
	if again != nil {
		t.Fatalf("transition from stale status should not apply")
	}
}

func TestDealRepositoryUpdateReplacesProducts(t *testing.T) {
	db := openPayrollTestDB(t)
	repo := NewDealRepository(db)

	person := &models.Salesperson{Name: "Cara", PayPlan: "bmw", IsActive: true}
	if err := db.Create(person).Error; err != nil {
		t.Fatalf("create salesperson failed: %v", err)
	}
	deal := createTestDeal(t, db, models.Deal{
		DealNumber:    "UP-1",
		DealDate:      time.Date(2025, 4, 2, 0, 0, 0, 0, time.UTC),
		Brand:         "bmw",
		SalespersonID: person.ID,
		Products: []models.DealProduct{
			{Product: "vsc", Mode: "direct", Amount: money("900")},
			{Product: "gap", Mode: "direct", Amount: money("300")},
		},
	})

	loaded, err := repo.GetByID(deal.ID)
	if err != nil || loaded == nil {
		t.Fatalf("get deal failed: %v", err)
	}
	if len(loaded.Products) != 2 || loaded.Salesperson == nil {
		t.Fatalf("relations not preloaded: %+v", loaded)
	}

	loaded.Products = []models.DealProduct{{Product: "ppf", Mode: "calculated", Price: money("1500"), Cost: money("600"), Amount: money("900")}}
	loaded.FEGross = money("2100")
	if err := repo.Update(loaded); err != nil {
		t.Fatalf("update deal failed: %v", err)
	}

	reloaded, err := repo.GetByID(deal.ID)
	if err != nil || reloaded == nil {
		t.Fatalf("reload deal failed: %v", err)
	}
	if len(reloaded.Products) != 1 || reloaded.Products[0].Product != "ppf" {
		t.Fatalf("products should be replaced, got %+v", reloaded.Products)
	}
	if reloaded.FEGross.String() != "2100.00" {
		t.Fatalf("fe gross not updated: %s", reloaded.FEGross.String())
	}

	items, total, err := repo.List(DealListFilter{Page: 1, PageSize: 10, Search: "UP-"})
	if err != nil {
		t.Fatalf("list deals failed: %v", err)
	}
	if total != 1 || len(items) != 1 {
		t.Fatalf("unexpected list result total=%d len=%d", total, len(items))
	}
}
