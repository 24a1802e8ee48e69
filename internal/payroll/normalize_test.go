package payroll

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func TestCoerceDecimal(t *testing.T) {
	cases := []struct {
		name  string
		input interface{}
		want  string
	}{
		{"nil", nil, "0"},
		{"int64", int64(12), "12"},
		{"float", 12.5, "12.5"},
		{"string", " 1200.25 ", "1200.25"},
		{"currency", "$1,200.50", "1200.5"},
		{"accounting negative", "($45.10)", "-45.1"},
		{"signed", "-3", "-3"},
		{"bytes", []byte("88.8"), "88.8"},
		{"json number", json.Number("7"), "7"},
		{"garbage", "n/a", "0"},
		{"empty", "", "0"},
		{"bool", true, "0"},
		{"decimal", decimal.RequireFromString("9.99"), "9.99"},
	}
	for _, item := range cases {
		got := CoerceDecimal(item.input)
		if !got.Equal(d(item.want)) {
			t.Fatalf("%s: want %s got %s", item.name, item.want, got)
		}
	}
}

func TestCoerceBool(t *testing.T) {
	if !CoerceBool(int64(1)) || CoerceBool(int64(0)) {
		t.Fatalf("integer booleans should coerce")
	}
	if !CoerceBool("true") || CoerceBool("false") || CoerceBool(nil) {
		t.Fatalf("string booleans should coerce")
	}
}

func TestTotalsFromAggregate(t *testing.T) {
	row := map[string]interface{}{
		ColumnSalespersonID:            int64(3),
		ColumnPayPlan:                  "MINI",
		ColumnDemoEligible:             int64(1),
		ColumnBMWUnits:                 "2",
		ColumnMINIUnits:                float64(6),
		ColumnFEGross:                  "$12,000.00",
		ColumnBEGross:                  []byte("3400.5"),
		ProductColumn(ProductVSC):      "1500",
		ProductColumn(ProductExcess):   nil,
		ColumnApprovedSpiffAmount:      "250",
		ColumnApprovedSpiffCount:       int64(2),
		ColumnPaidSpiffAmount:          nil,
		ColumnRewardsUpgradeBonus:      nil,
	}
	totals, err := TotalsFromAggregate(row)
	if err != nil {
		t.Fatalf("totals from aggregate failed: %v", err)
	}
	if totals.PayPlan != PlanMINI || !totals.DemoEligible || totals.SalespersonID != 3 {
		t.Fatalf("identity fields not parsed: %+v", totals)
	}
	if totals.TotalUnits() != 8 {
		t.Fatalf("total units want 8 got %d", totals.TotalUnits())
	}
	if !totals.FEGross.Equal(d("12000")) || !totals.BEGross.Equal(d("3400.5")) {
		t.Fatalf("gross not parsed: fe=%s be=%s", totals.FEGross, totals.BEGross)
	}
	if !totals.ProductTotals[ProductVSC].Equal(d("1500")) || !totals.ProductTotals[ProductExcess].IsZero() {
		t.Fatalf("product totals not parsed: %v", totals.ProductTotals)
	}
	if !totals.PaidSpiffAmount.IsZero() || !totals.RewardsUpgradeBonus.IsZero() {
		t.Fatalf("missing values should be zero")
	}

	breakdown, err := DefaultCalculator().BuildBreakdown(totals)
	if err != nil {
		t.Fatalf("build breakdown failed: %v", err)
	}
	if !breakdown.TotalPay.Equal(d("2800")) {
		t.Fatalf("total pay want 2800 got %s", breakdown.TotalPay)
	}
}

func TestTotalsFromAggregateUnknownPlan(t *testing.T) {
	_, err := TotalsFromAggregate(map[string]interface{}{ColumnPayPlan: "lease"})
	if !errors.Is(err, ErrConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
}

func TestParseProductAliases(t *testing.T) {
	cases := map[string]Product{
		"VSC":          ProductVSC,
		"Key/LoJack":   ProductKeyLoJack,
		"Wheel&Tire":   ProductWheelTire,
		"Tire & Wheel": ProductWheelTire,
		"wheel_tire":   ProductWheelTire,
		"PPF":          ProductPPF,
	}
	for raw, want := range cases {
		got, ok := ParseProduct(raw)
		if !ok || got != want {
			t.Fatalf("parse %q want %s got %s ok=%v", raw, want, got, ok)
		}
	}
	if _, ok := ParseProduct("undercoat"); ok {
		t.Fatalf("unknown product should not parse")
	}
}
