package service

import (
	"errors"
	"testing"

	"github.com/dealerdesk/internal/config"
	"github.com/dealerdesk/internal/constants"
	"github.com/dealerdesk/internal/payroll"

	"github.com/shopspring/decimal"
)

func TestGetPayrollRulesFallbackWhenMissing(t *testing.T) {
	svc := NewSettingService(newMockSettingRepo())

	rules, err := svc.GetPayrollRules()
	if err != nil {
		t.Fatalf("get payroll rules failed: %v", err)
	}
	if len(rules.Tiers[payroll.PlanBMW]) != 8 {
		t.Fatalf("expected 8 bmw tiers, got %d", len(rules.Tiers[payroll.PlanBMW]))
	}
	if !rules.DemoAllowanceAmount.Equal(decimal.NewFromInt(300)) {
		t.Fatalf("unexpected demo allowance: %s", rules.DemoAllowanceAmount)
	}
}

func TestPayrollRulesFromConfig(t *testing.T) {
	rules, err := PayrollRulesFromConfig(config.PayrollConfig{
		Tiers: map[string][]config.PayrollTierConfig{
			"Hybrid": {
				{UnitThreshold: 10, RatePerUnit: 250},
				{UnitThreshold: 1, RatePerUnit: 150},
			},
		},
		DemoUnitThreshold: 10,
		AVPRates:          map[string]float64{"mini": 0.03},
	})
	if err != nil {
		t.Fatalf("rules from config failed: %v", err)
	}

	hybrid := rules.Tiers[payroll.PlanHybrid]
	if len(hybrid) != 2 || hybrid[0].UnitThreshold != 1 || !hybrid[1].RatePerUnit.Equal(decimal.NewFromInt(250)) {
		t.Fatalf("unexpected hybrid tiers: %+v", hybrid)
	}
	if rules.DemoUnitThreshold != 10 {
		t.Fatalf("expected demo threshold 10, got %d", rules.DemoUnitThreshold)
	}
	if !rules.AVPRates[payroll.BrandMINI].Equal(decimal.RequireFromString("0.03")) {
		t.Fatalf("unexpected mini avp rate: %s", rules.AVPRates[payroll.BrandMINI])
	}
	if !rules.ProductBonusAmount.Equal(decimal.NewFromInt(50)) {
		t.Fatalf("expected default product bonus, got %s", rules.ProductBonusAmount)
	}
}

func TestPayrollRulesFromConfigRejectsInvalid(t *testing.T) {
	cases := map[string]config.PayrollConfig{
		"unknown plan": {Tiers: map[string][]config.PayrollTierConfig{"audi": {{UnitThreshold: 1, RatePerUnit: 1}}}},
		"tiers not from one": {Tiers: map[string][]config.PayrollTierConfig{"bmw": {{UnitThreshold: 2, RatePerUnit: 200}}}},
		"decreasing rate": {Tiers: map[string][]config.PayrollTierConfig{"mini": {
			{UnitThreshold: 1, RatePerUnit: 300},
			{UnitThreshold: 5, RatePerUnit: 100},
		}}},
		"unknown brand":   {AVPRates: map[string]float64{"audi": 0.05}},
		"unknown product": {BonusProducts: []config.PayrollBonusProductConfig{{Product: "tint"}}},
		"unknown restriction plan": {BonusProducts: []config.PayrollBonusProductConfig{
			{Product: "excess", Plans: []string{"lease"}},
		}},
	}
	for name, cfg := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := PayrollRulesFromConfig(cfg)
			if !errors.Is(err, ErrPayrollConfigInvalid) {
				t.Fatalf("expected ErrPayrollConfigInvalid, got %v", err)
			}
		})
	}
}

func TestUpdatePayrollRulesPartial(t *testing.T) {
	repo := newMockSettingRepo()
	svc := NewSettingService(repo)

	updated, err := svc.UpdatePayrollRules(map[string]interface{}{
		"demo_allowance_amount": "400",
		"tiers": map[string]interface{}{
			"hybrid": []interface{}{
				map[string]interface{}{"unit_threshold": float64(1), "rate_per_unit": "150"},
			},
		},
	})
	if err != nil {
		t.Fatalf("update payroll rules failed: %v", err)
	}
	if !updated.DemoAllowanceAmount.Equal(decimal.NewFromInt(400)) {
		t.Fatalf("unexpected demo allowance: %s", updated.DemoAllowanceAmount)
	}

	rules, err := svc.GetPayrollRules()
	if err != nil {
		t.Fatalf("get payroll rules failed: %v", err)
	}
	if len(rules.Tiers[payroll.PlanBMW]) != 8 {
		t.Fatalf("bmw tiers should be kept, got %d", len(rules.Tiers[payroll.PlanBMW]))
	}
	if len(rules.Tiers[payroll.PlanHybrid]) != 1 {
		t.Fatalf("expected hybrid tier saved, got %+v", rules.Tiers[payroll.PlanHybrid])
	}
	if !rules.DemoAllowanceAmount.Equal(decimal.NewFromInt(400)) {
		t.Fatalf("unexpected stored demo allowance: %s", rules.DemoAllowanceAmount)
	}

	calc, err := payroll.NewCalculator(rules)
	if err != nil {
		t.Fatalf("new calculator failed: %v", err)
	}
	_, commission, err := calc.UnitCommission(payroll.PlanHybrid, 4)
	if err != nil {
		t.Fatalf("hybrid commission failed: %v", err)
	}
	if !commission.Equal(decimal.NewFromInt(600)) {
		t.Fatalf("expected hybrid commission 600, got %s", commission)
	}
}

func TestUpdatePayrollRulesRejectsInvalid(t *testing.T) {
	cases := []struct {
		name  string
		value map[string]interface{}
	}{
		{
			name: "decreasing rate",
			value: map[string]interface{}{
				"tiers": map[string]interface{}{
					"bmw": []interface{}{
						map[string]interface{}{"unit_threshold": 1, "rate_per_unit": 300},
						map[string]interface{}{"unit_threshold": 5, "rate_per_unit": 200},
					},
				},
			},
		},
		{
			name: "first threshold not one",
			value: map[string]interface{}{
				"tiers": map[string]interface{}{
					"mini": []interface{}{
						map[string]interface{}{"unit_threshold": 2, "rate_per_unit": 300},
					},
				},
			},
		},
		{
			name:  "unknown plan",
			value: map[string]interface{}{"tiers": map[string]interface{}{"audi": []interface{}{}}},
		},
		{
			name:  "unknown product",
			value: map[string]interface{}{"bonus_products": []interface{}{"floor_mats"}},
		},
		{
			name:  "negative bonus",
			value: map[string]interface{}{"product_bonus_amount": -5},
		},
		{
			name:  "bad demo threshold",
			value: map[string]interface{}{"demo_unit_threshold": 0},
		},
		{
			name:  "avp rate above one",
			value: map[string]interface{}{"avp_rates": map[string]interface{}{"bmw": "1.5"}},
		},
		{
			name:  "non numeric amount",
			value: map[string]interface{}{"avp_offset": "abc"},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			repo := newMockSettingRepo()
			svc := NewSettingService(repo)
			if _, err := svc.UpdatePayrollRules(tc.value); !errors.Is(err, ErrPayrollConfigInvalid) {
				t.Fatalf("expected ErrPayrollConfigInvalid, got %v", err)
			}
			if _, ok := repo.store[constants.SettingKeyPayrollConfig]; ok {
				t.Fatalf("invalid rules must not be stored")
			}
		})
	}
}

func TestStoredInvalidPayrollRulesKeepConfigurationChain(t *testing.T) {
	repo := newMockSettingRepo()
	repo.store[constants.SettingKeyPayrollConfig] = map[string]interface{}{
		"tiers": map[string]interface{}{
			"bmw": []interface{}{map[string]interface{}{"unit_threshold": float64(2), "rate_per_unit": "200"}},
		},
	}
	svc := NewSettingService(repo)

	_, err := svc.GetPayrollRules()
	if !errors.Is(err, ErrPayrollConfigInvalid) {
		t.Fatalf("expected ErrPayrollConfigInvalid, got %v", err)
	}
	if !errors.Is(err, payroll.ErrConfiguration) {
		t.Fatalf("expected payroll.ErrConfiguration in chain, got %v", err)
	}
	var cfgErr *payroll.ConfigurationError
	if !errors.As(err, &cfgErr) || cfgErr.Field != "tiers" {
		t.Fatalf("expected tiers configuration error, got %v", err)
	}
}

func TestUpdatePayrollSettingThroughGenericUpdate(t *testing.T) {
	repo := newMockSettingRepo()
	svc := NewSettingService(repo)

	if _, err := svc.Update(constants.SettingKeyPayrollConfig, map[string]interface{}{
		"demo_unit_threshold": -1,
	}); !errors.Is(err, ErrPayrollConfigInvalid) {
		t.Fatalf("expected ErrPayrollConfigInvalid, got %v", err)
	}

	result, err := svc.Update(constants.SettingKeyPayrollConfig, map[string]interface{}{
		"bonus_products": []interface{}{
			"VSC",
			map[string]interface{}{"product": "Maintenance", "plans": []interface{}{"MINI"}},
		},
	})
	if err != nil {
		t.Fatalf("update payroll config failed: %v", err)
	}
	items, ok := result["bonus_products"].([]interface{})
	if !ok || len(items) != 2 {
		t.Fatalf("unexpected bonus products: %#v", result["bonus_products"])
	}
	second := items[1].(map[string]interface{})
	if second["product"] != "maintenance" {
		t.Fatalf("unexpected product: %v", second["product"])
	}
	plans := second["plans"].([]interface{})
	if len(plans) != 1 || plans[0] != "mini" {
		t.Fatalf("unexpected plans: %v", plans)
	}
}

func TestPayrollDefaultsAndReset(t *testing.T) {
	repo := newMockSettingRepo()
	svc := NewSettingService(repo)
	defaults := payroll.DefaultRules()
	defaults.DemoUnitThreshold = 6
	svc.SetPayrollDefaults(defaults)

	if _, err := svc.UpdatePayrollRules(map[string]interface{}{"demo_unit_threshold": 9}); err != nil {
		t.Fatalf("update payroll rules failed: %v", err)
	}
	rules, _ := svc.GetPayrollRules()
	if rules.DemoUnitThreshold != 9 {
		t.Fatalf("expected stored threshold 9, got %d", rules.DemoUnitThreshold)
	}

	reset, err := svc.ResetPayrollRules()
	if err != nil {
		t.Fatalf("reset payroll rules failed: %v", err)
	}
	if reset.DemoUnitThreshold != 6 {
		t.Fatalf("expected reset to config default 6, got %d", reset.DemoUnitThreshold)
	}
	rules, _ = svc.GetPayrollRules()
	if rules.DemoUnitThreshold != 6 {
		t.Fatalf("expected threshold 6 after reset, got %d", rules.DemoUnitThreshold)
	}
}
