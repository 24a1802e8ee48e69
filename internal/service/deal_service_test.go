package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dealerdesk/internal/constants"
	"github.com/dealerdesk/internal/payroll"

	"github.com/shopspring/decimal"
)

func baseDealInput(salespersonID uint, number string) DealInput {
	return DealInput{
		DealNumber:    number,
		DealDate:      time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC),
		Brand:         "BMW",
		SalespersonID: salespersonID,
		MSRP:          dec("60000"),
		AVPMode:       "direct",
		AVPAmount:     dec("1200"),
		FEGross:       dec("1500"),
	}
}

func TestDealServiceCreateCalculatedAVPAndProducts(t *testing.T) {
	env := setupPayrollTestEnv(t)
	person := env.createSalesperson(t, "Alice", "bmw", false)

	input := baseDealInput(person.ID, "D-1001")
	input.AVPMode = "calculated"
	input.AVPAmount = dec("999")
	input.VehicleCondition = "CPO"
	input.Products = []DealProductInput{
		{Product: "VSC", Mode: "direct", Amount: dec("1200.50")},
		{Product: "wheel & tire", Mode: "calculated", Price: dec("900"), Cost: dec("350")},
	}

	deal, err := env.deals.Create(context.Background(), input)
	if err != nil {
		t.Fatalf("create deal failed: %v", err)
	}
	// (60000 - 1175) * 0.05
	assertDecimal(t, "avp", deal.AVPAmount.Decimal, "2941.25")
	if deal.AVPMode != string(payroll.EntryModeCalculated) {
		t.Fatalf("unexpected avp mode: %s", deal.AVPMode)
	}
	if deal.Brand != string(payroll.BrandBMW) || deal.VehicleCondition != constants.VehicleConditionCPO {
		t.Fatalf("unexpected brand/condition: %s %s", deal.Brand, deal.VehicleCondition)
	}
	if len(deal.Products) != 2 {
		t.Fatalf("expected 2 products, got %d", len(deal.Products))
	}
	// BEGross 未录入时取产品毛利合计
	assertDecimal(t, "be gross", deal.BEGross.Decimal, "1750.50")

	for _, item := range deal.Products {
		if item.Product == string(payroll.ProductWheelTire) {
			assertDecimal(t, "wheel tire gross", item.Amount.Decimal, "550")
		}
	}
}

func TestDealServiceCreateExplicitBEGross(t *testing.T) {
	env := setupPayrollTestEnv(t)
	person := env.createSalesperson(t, "Alice", "bmw", false)

	input := baseDealInput(person.ID, "D-1002")
	beGross := dec("2100.456")
	input.BEGross = &beGross
	input.Products = []DealProductInput{{Product: "gap", Amount: dec("700")}}

	deal, err := env.deals.Create(context.Background(), input)
	if err != nil {
		t.Fatalf("create deal failed: %v", err)
	}
	assertDecimal(t, "be gross", deal.BEGross.Decimal, "2100.46")
	assertDecimal(t, "avp", deal.AVPAmount.Decimal, "1200")
}

func TestDealServiceCreateRejectsInvalidInput(t *testing.T) {
	env := setupPayrollTestEnv(t)
	person := env.createSalesperson(t, "Alice", "bmw", false)

	cases := []struct {
		name   string
		mutate func(*DealInput)
		want   error
	}{
		{name: "empty number", mutate: func(in *DealInput) { in.DealNumber = " " }, want: ErrDealInvalid},
		{name: "unknown brand", mutate: func(in *DealInput) { in.Brand = "audi" }, want: ErrBrandInvalid},
		{name: "unknown condition", mutate: func(in *DealInput) { in.VehicleCondition = "demo" }, want: ErrVehicleConditionInvalid},
		{name: "unknown avp mode", mutate: func(in *DealInput) { in.AVPMode = "guess" }, want: ErrEntryModeInvalid},
		{name: "missing salesperson", mutate: func(in *DealInput) { in.SalespersonID = 9999 }, want: ErrSalespersonNotFound},
		{name: "missing finance manager", mutate: func(in *DealInput) {
			id := uint(9999)
			in.FinanceManagerID = &id
		}, want: ErrFinanceManagerNotFound},
		{name: "unknown product", mutate: func(in *DealInput) {
			in.Products = []DealProductInput{{Product: "tint", Amount: dec("10")}}
		}, want: ErrDealProductInvalid},
		{name: "duplicate product", mutate: func(in *DealInput) {
			in.Products = []DealProductInput{
				{Product: "VSC", Amount: dec("10")},
				{Product: "vsc", Amount: dec("20")},
			}
		}, want: ErrDealProductDuplicate},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			input := baseDealInput(person.ID, "D-INVALID")
			tc.mutate(&input)
			_, err := env.deals.Create(context.Background(), input)
			if !errors.Is(err, tc.want) {
				t.Fatalf("want %v got %v", tc.want, err)
			}
		})
	}
}

func TestDealServiceDealNumberConflict(t *testing.T) {
	env := setupPayrollTestEnv(t)
	person := env.createSalesperson(t, "Alice", "bmw", false)

	first, err := env.deals.Create(context.Background(), baseDealInput(person.ID, "D-2001"))
	if err != nil {
		t.Fatalf("create deal failed: %v", err)
	}
	if _, err := env.deals.Create(context.Background(), baseDealInput(person.ID, "D-2001")); !errors.Is(err, ErrDealNumberExists) {
		t.Fatalf("want ErrDealNumberExists got %v", err)
	}

	// 更新自身保留原编号允许
	update := baseDealInput(person.ID, "D-2001")
	update.FEGross = dec("1800")
	updated, err := env.deals.Update(context.Background(), first.ID, update)
	if err != nil {
		t.Fatalf("update deal failed: %v", err)
	}
	assertDecimal(t, "fe gross", updated.FEGross.Decimal, "1800")
}

func TestDealServiceDeletedDealNumberStaysReserved(t *testing.T) {
	env := setupPayrollTestEnv(t)
	person := env.createSalesperson(t, "Alice", "bmw", false)

	deal, err := env.deals.Create(context.Background(), baseDealInput(person.ID, "D-9"))
	if err != nil {
		t.Fatalf("create deal failed: %v", err)
	}
	if err := env.deals.Delete(context.Background(), deal.ID); err != nil {
		t.Fatalf("delete deal failed: %v", err)
	}
	if _, err := env.deals.Create(context.Background(), baseDealInput(person.ID, "D-9")); !errors.Is(err, ErrDealNumberExists) {
		t.Fatalf("want ErrDealNumberExists got %v", err)
	}
	if _, err := env.deals.Create(context.Background(), baseDealInput(person.ID, "D-10")); err != nil {
		t.Fatalf("create deal with fresh number failed: %v", err)
	}
}

func TestDealServiceUpdateReplacesProducts(t *testing.T) {
	env := setupPayrollTestEnv(t)
	person := env.createSalesperson(t, "Alice", "bmw", false)

	input := baseDealInput(person.ID, "D-3001")
	input.Products = []DealProductInput{
		{Product: "vsc", Amount: dec("500")},
		{Product: "gap", Amount: dec("300")},
	}
	deal, err := env.deals.Create(context.Background(), input)
	if err != nil {
		t.Fatalf("create deal failed: %v", err)
	}

	input.Products = []DealProductInput{{Product: "ppf", Amount: dec("250")}}
	updated, err := env.deals.Update(context.Background(), deal.ID, input)
	if err != nil {
		t.Fatalf("update deal failed: %v", err)
	}
	if len(updated.Products) != 1 || updated.Products[0].Product != string(payroll.ProductPPF) {
		t.Fatalf("unexpected products after update: %+v", updated.Products)
	}
	assertDecimal(t, "be gross", updated.BEGross.Decimal, "250")
}

func TestDealServiceUnwindAndDelete(t *testing.T) {
	env := setupPayrollTestEnv(t)
	person := env.createSalesperson(t, "Alice", "bmw", false)

	deal, err := env.deals.Create(context.Background(), baseDealInput(person.ID, "D-4001"))
	if err != nil {
		t.Fatalf("create deal failed: %v", err)
	}
	unwound, err := env.deals.Unwind(context.Background(), deal.ID)
	if err != nil {
		t.Fatalf("unwind deal failed: %v", err)
	}
	if unwound.Status != constants.DealStatusUnwound {
		t.Fatalf("expected unwound status, got %s", unwound.Status)
	}
	if _, err := env.deals.Unwind(context.Background(), deal.ID); !errors.Is(err, ErrDealAlreadyUnwound) {
		t.Fatalf("want ErrDealAlreadyUnwound got %v", err)
	}

	if err := env.deals.Delete(context.Background(), deal.ID); err != nil {
		t.Fatalf("delete deal failed: %v", err)
	}
	if _, err := env.deals.GetByID(deal.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("want ErrNotFound got %v", err)
	}
}

func TestDealServiceUsesConfiguredAVPRate(t *testing.T) {
	env := setupPayrollTestEnv(t)
	person := env.createSalesperson(t, "Mia", "mini", false)

	if _, err := env.settings.UpdatePayrollRules(map[string]interface{}{
		"avp_rates": map[string]interface{}{"mini": "0.10"},
	}); err != nil {
		t.Fatalf("update payroll rules failed: %v", err)
	}

	input := baseDealInput(person.ID, "M-1")
	input.Brand = "mini"
	input.AVPMode = "calculated"
	input.MSRP = dec("31175")
	deal, err := env.deals.Create(context.Background(), input)
	if err != nil {
		t.Fatalf("create deal failed: %v", err)
	}
	assertDecimal(t, "avp", deal.AVPAmount.Decimal, decimal.NewFromInt(3000).String())
}
