package payroll

import (
	"encoding/json"
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
)

func TestBuildBreakdownBMWScenario(t *testing.T) {
	calc := DefaultCalculator()
	totals := SalesPeriodTotals{
		SalespersonID: 7,
		PayPlan:       PlanBMW,
		DemoEligible:  true,
		BMWUnits:      6,
		MINIUnits:     3,
		ProductTotals: map[Product]decimal.Decimal{
			ProductVSC: d("4500"),
			ProductGAP: d("0"),
		},
		RewardsUpgradeBonus: d("100"),
		ApprovedSpiffAmount: d("150"),
		PaidSpiffAmount:     d("75"),
		PaidSpiffCount:      1,
	}

	got, err := calc.BuildBreakdown(totals)
	if err != nil {
		t.Fatalf("build breakdown failed: %v", err)
	}
	checks := map[string][2]decimal.Decimal{
		"commission_rate":        {got.CommissionRate, d("325")},
		"unit_commission":        {got.UnitCommission, d("2925")},
		"product_bonus":          {got.ProductBonus, d("50")},
		"demo_vehicle_allowance": {got.DemoVehicleAllowance, d("300")},
		"total_pay":              {got.TotalPay, d("3525")},
		"paid_spiff_amount":      {got.PaidSpiffAmount, d("75")},
	}
	for name, pair := range checks {
		if !pair[0].Equal(pair[1]) {
			t.Fatalf("%s want %s got %s", name, pair[1], pair[0])
		}
	}
	if got.TotalUnits != 9 {
		t.Fatalf("total units want 9 got %d", got.TotalUnits)
	}
}

func TestBuildBreakdownMINIZeroUnits(t *testing.T) {
	calc := DefaultCalculator()
	got, err := calc.BuildBreakdown(SalesPeriodTotals{
		PayPlan:             PlanMINI,
		DemoEligible:        true,
		RewardsUpgradeBonus: d("40"),
		ApprovedSpiffAmount: d("25"),
	})
	if err != nil {
		t.Fatalf("build breakdown failed: %v", err)
	}
	if !got.UnitCommission.IsZero() || !got.ProductBonus.IsZero() || !got.DemoVehicleAllowance.IsZero() {
		t.Fatalf("zero-unit breakdown should have zero computed fields, got %+v", got)
	}
	if !got.TotalPay.Equal(d("65")) {
		t.Fatalf("total pay should pass through rewards + spiffs, want 65 got %s", got.TotalPay)
	}
}

func TestBuildBreakdownTotalIdentity(t *testing.T) {
	calc := DefaultCalculator()
	for units := 0; units <= 14; units++ {
		for _, plan := range []PayPlan{PlanBMW, PlanMINI} {
			got, err := calc.BuildBreakdown(SalesPeriodTotals{
				PayPlan:             plan,
				DemoEligible:        units%2 == 0,
				BMWUnits:            units,
				ProductTotals:       map[Product]decimal.Decimal{ProductCilajet: d("12.5"), ProductExcess: d("3")},
				RewardsUpgradeBonus: d("19.99"),
				ApprovedSpiffAmount: d("100.01"),
				PaidSpiffAmount:     d("500"),
			})
			if err != nil {
				t.Fatalf("plan=%s units=%d unexpected error: %v", plan, units, err)
			}
			want := got.UnitCommission.Add(got.RewardsUpgradeBonus).Add(got.ProductBonus).Add(got.DemoVehicleAllowance).Add(got.ApprovedSpiffAmount)
			if !got.TotalPay.Equal(want) {
				t.Fatalf("plan=%s units=%d total pay identity broken: want %s got %s", plan, units, want, got.TotalPay)
			}
		}
	}
}

func TestBuildBreakdownIdempotent(t *testing.T) {
	calc := DefaultCalculator()
	totals := SalesPeriodTotals{
		PayPlan:       PlanMINI,
		MINIUnits:     11,
		DemoEligible:  true,
		ProductTotals: map[Product]decimal.Decimal{ProductMaintenance: d("80")},
	}
	first, err := calc.BuildBreakdown(totals)
	if err != nil {
		t.Fatalf("first build failed: %v", err)
	}
	second, err := calc.BuildBreakdown(totals)
	if err != nil {
		t.Fatalf("second build failed: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("breakdown should be identical for identical input")
	}
}

func TestBuildBreakdownUnknownPlan(t *testing.T) {
	calc := DefaultCalculator()
	_, err := calc.BuildBreakdown(SalesPeriodTotals{PayPlan: PayPlan("lease"), BMWUnits: 1})
	if !errors.Is(err, ErrConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
}

func TestPayrollBreakdownJSONUsesNumbers(t *testing.T) {
	calc := DefaultCalculator()
	got, err := calc.BuildBreakdown(SalesPeriodTotals{PayPlan: PlanBMW, BMWUnits: 1})
	if err != nil {
		t.Fatalf("build breakdown failed: %v", err)
	}
	body, err := json.Marshal(got)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	text := string(body)
	if !strings.Contains(text, `"total_pay":200.00`) {
		t.Fatalf("total_pay should be a number, got %s", text)
	}
	if !strings.Contains(text, `"vsc":0.00`) {
		t.Fatalf("product bonuses should be numeric, got %s", text)
	}
}
