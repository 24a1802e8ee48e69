package repository

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/dealerdesk/internal/constants"
	"github.com/dealerdesk/internal/models"
	"github.com/dealerdesk/internal/payroll"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func openPayrollTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(
		&models.Salesperson{},
		&models.FinanceManager{},
		&models.Deal{},
		&models.DealProduct{},
		&models.Spiff{},
	); err != nil {
		t.Fatalf("migrate payroll models failed: %v", err)
	}
	return db
}

func money(value string) models.Money {
	return models.NewMoneyFromDecimal(decimal.RequireFromString(value))
}

func createTestDeal(t *testing.T, db *gorm.DB, deal models.Deal) *models.Deal {
	t.Helper()
	if deal.Status == "" {
		deal.Status = constants.DealStatusActive
	}
	if deal.VehicleCondition == "" {
		deal.VehicleCondition = constants.VehicleConditionNew
	}
	if deal.AVPMode == "" {
		deal.AVPMode = string(payroll.EntryModeDirect)
	}
	if err := db.Create(&deal).Error; err != nil {
		t.Fatalf("create deal %s failed: %v", deal.DealNumber, err)
	}
	return &deal
}

func TestAggregateSalesPeriod(t *testing.T) {
	db := openPayrollTestDB(t)
	repo := NewSalesAggregateRepository(db)

	alice := &models.Salesperson{Name: "Alice", PayPlan: string(payroll.PlanBMW), DemoEligible: true, IsActive: true}
	bob := &models.Salesperson{Name: "Bob", PayPlan: string(payroll.PlanMINI), IsActive: true}
	gone := &models.Salesperson{Name: "Zed", PayPlan: string(payroll.PlanMINI), IsActive: false}
	for _, person := range []*models.Salesperson{alice, bob, gone} {
		if err := db.Create(person).Error; err != nil {
			t.Fatalf("create salesperson failed: %v", err)
		}
	}
	if err := db.Model(gone).Update("is_active", false).Error; err != nil {
		t.Fatalf("deactivate salesperson failed: %v", err)
	}

	start := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, 0)

	for i := 0; i < 6; i++ {
		deal := models.Deal{
			DealNumber:    fmt.Sprintf("B-%d", i),
			DealDate:      start.AddDate(0, 0, i),
			Brand:         string(payroll.BrandBMW),
			SalespersonID: alice.ID,
			FEGross:       money("1000.10"),
			BEGross:       money("500"),
		}
		if i == 0 {
			deal.Products = []models.DealProduct{
				{Product: string(payroll.ProductVSC), Mode: string(payroll.EntryModeDirect), Amount: money("4500")},
				{Product: string(payroll.ProductGAP), Mode: string(payroll.EntryModeDirect), Amount: money("0")},
			}
			deal.RewardsUpgradeBonus = money("100")
		}
		createTestDeal(t, db, deal)
	}
	for i := 0; i < 3; i++ {
		createTestDeal(t, db, models.Deal{
			DealNumber:    fmt.Sprintf("M-%d", i),
			DealDate:      start.AddDate(0, 0, 10+i),
			Brand:         string(payroll.BrandMINI),
			SalespersonID: alice.ID,
		})
	}
	// 退单、周期外、周期右边界与软删除的成交均不计入
	createTestDeal(t, db, models.Deal{DealNumber: "U-1", DealDate: start.AddDate(0, 0, 2), Brand: "bmw", SalespersonID: alice.ID, Status: constants.DealStatusUnwound})
	createTestDeal(t, db, models.Deal{DealNumber: "O-1", DealDate: start.AddDate(0, 0, -1), Brand: "bmw", SalespersonID: alice.ID})
	createTestDeal(t, db, models.Deal{DealNumber: "O-2", DealDate: end, Brand: "bmw", SalespersonID: alice.ID})
	deleted := createTestDeal(t, db, models.Deal{DealNumber: "D-1", DealDate: start.AddDate(0, 0, 3), Brand: "bmw", SalespersonID: alice.ID})
	if err := db.Delete(&models.Deal{}, deleted.ID).Error; err != nil {
		t.Fatalf("delete deal failed: %v", err)
	}

	spiffs := []models.Spiff{
		{SalespersonID: alice.ID, Amount: money("100"), Reason: "weekend push", SpiffDate: start.AddDate(0, 0, 5), Status: constants.SpiffStatusApproved},
		{SalespersonID: alice.ID, Amount: money("50"), Reason: "cpo", SpiffDate: start.AddDate(0, 0, 6), Status: constants.SpiffStatusApproved},
		{SalespersonID: alice.ID, Amount: money("75"), Reason: "paid", SpiffDate: start.AddDate(0, 0, 7), Status: constants.SpiffStatusPaid},
		{SalespersonID: alice.ID, Amount: money("999"), Reason: "draft", SpiffDate: start.AddDate(0, 0, 7), Status: constants.SpiffStatusDraft},
		{SalespersonID: alice.ID, Amount: money("999"), Reason: "late", SpiffDate: end, Status: constants.SpiffStatusApproved},
	}
	for i := range spiffs {
		if err := db.Create(&spiffs[i]).Error; err != nil {
			t.Fatalf("create spiff failed: %v", err)
		}
	}

	rows, err := repo.AggregateSalesPeriod(start, end, nil)
	if err != nil {
		t.Fatalf("aggregate failed: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected active salespeople only, got %d rows", len(rows))
	}

	aliceTotals, err := payroll.TotalsFromAggregate(rows[0])
	if err != nil {
		t.Fatalf("normalize alice failed: %v", err)
	}
	if aliceTotals.SalespersonID != alice.ID || aliceTotals.BMWUnits != 6 || aliceTotals.MINIUnits != 3 {
		t.Fatalf("unexpected alice units: %+v", aliceTotals)
	}
	if !aliceTotals.FEGross.Equal(decimal.RequireFromString("6000.6")) || !aliceTotals.BEGross.Equal(decimal.NewFromInt(3000)) {
		t.Fatalf("unexpected gross: fe=%s be=%s", aliceTotals.FEGross, aliceTotals.BEGross)
	}
	if !aliceTotals.ProductTotals[payroll.ProductVSC].Equal(decimal.NewFromInt(4500)) {
		t.Fatalf("unexpected vsc total: %s", aliceTotals.ProductTotals[payroll.ProductVSC])
	}
	if aliceTotals.ApprovedSpiffCount != 2 || !aliceTotals.ApprovedSpiffAmount.Equal(decimal.NewFromInt(150)) {
		t.Fatalf("unexpected approved spiffs: %d %s", aliceTotals.ApprovedSpiffCount, aliceTotals.ApprovedSpiffAmount)
	}
	if aliceTotals.PaidSpiffCount != 1 || !aliceTotals.PaidSpiffAmount.Equal(decimal.NewFromInt(75)) {
		t.Fatalf("unexpected paid spiffs: %d %s", aliceTotals.PaidSpiffCount, aliceTotals.PaidSpiffAmount)
	}

	breakdown, err := payroll.DefaultCalculator().BuildBreakdown(aliceTotals)
	if err != nil {
		t.Fatalf("build breakdown failed: %v", err)
	}
	if !breakdown.TotalPay.Equal(decimal.NewFromInt(3525)) {
		t.Fatalf("alice total pay want 3525 got %s", breakdown.TotalPay)
	}

	bobTotals, err := payroll.TotalsFromAggregate(rows[1])
	if err != nil {
		t.Fatalf("normalize bob failed: %v", err)
	}
	if bobTotals.TotalUnits() != 0 || !bobTotals.FEGross.IsZero() || bobTotals.PayPlan != payroll.PlanMINI {
		t.Fatalf("bob should have zero totals: %+v", bobTotals)
	}

	scoped, err := repo.AggregateSalesPeriod(start, end, []uint{gone.ID})
	if err != nil {
		t.Fatalf("aggregate scoped failed: %v", err)
	}
	if len(scoped) != 1 {
		t.Fatalf("explicit ids should include inactive salesperson, got %d", len(scoped))
	}
}

func TestAggregateSalesPeriodProductTotalsStayDecimal(t *testing.T) {
	db := openPayrollTestDB(t)
	repo := NewSalesAggregateRepository(db)

	person := &models.Salesperson{Name: "Cara", PayPlan: string(payroll.PlanBMW), IsActive: true}
	if err := db.Create(person).Error; err != nil {
		t.Fatalf("create salesperson failed: %v", err)
	}
	start := time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)
	for i, amount := range []string{"0.10", "0.20", "1999.99"} {
		createTestDeal(t, db, models.Deal{
			DealNumber:    fmt.Sprintf("P-%d", i),
			DealDate:      start.AddDate(0, 0, i),
			Brand:         string(payroll.BrandBMW),
			SalespersonID: person.ID,
			Products: []models.DealProduct{
				{Product: string(payroll.ProductVSC), Mode: string(payroll.EntryModeDirect), Amount: money(amount)},
			},
		})
	}

	rows, err := repo.AggregateSalesPeriod(start, start.AddDate(0, 1, 0), nil)
	if err != nil {
		t.Fatalf("aggregate failed: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(rows))
	}
	raw, ok := rows[0][payroll.ProductColumn(payroll.ProductVSC)].(decimal.Decimal)
	if !ok {
		t.Fatalf("product total should be decimal, got %T", rows[0][payroll.ProductColumn(payroll.ProductVSC)])
	}
	if !raw.Equal(decimal.RequireFromString("2000.29")) {
		t.Fatalf("vsc total want 2000.29 got %s", raw)
	}
}
