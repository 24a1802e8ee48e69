package payroll

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"
)

// CommissionTier 提成阶梯：达到 UnitThreshold 台后每台按 RatePerUnit 计提
type CommissionTier struct {
	UnitThreshold int             `json:"unit_threshold"`
	RatePerUnit   decimal.Decimal `json:"rate_per_unit"`
}

// BonusProduct 可获得产品奖金的产品，Plans 为空表示所有提成方案适用
type BonusProduct struct {
	Product Product   `json:"product"`
	Plans   []PayPlan `json:"plans"`
}

// Rules 薪酬计算规则
type Rules struct {
	Tiers               map[PayPlan][]CommissionTier `json:"tiers"`
	ProductBonusAmount  decimal.Decimal              `json:"product_bonus_amount"`
	BonusProducts       []BonusProduct               `json:"bonus_products"`
	DemoAllowanceAmount decimal.Decimal              `json:"demo_allowance_amount"`
	DemoUnitThreshold   int                          `json:"demo_unit_threshold"`
	AVPOffset           decimal.Decimal              `json:"avp_offset"`
	AVPRates            map[Brand]decimal.Decimal    `json:"avp_rates"`
}

func tiers(pairs ...int64) []CommissionTier {
	result := make([]CommissionTier, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		result = append(result, CommissionTier{
			UnitThreshold: int(pairs[i]),
			RatePerUnit:   decimal.NewFromInt(pairs[i+1]),
		})
	}
	return result
}

// DefaultRules 默认薪酬规则
func DefaultRules() Rules {
	return Rules{
		Tiers: map[PayPlan][]CommissionTier{
			PlanBMW:    tiers(1, 200, 6, 225, 7, 250, 8, 300, 9, 325, 10, 350, 11, 375, 12, 425),
			PlanMINI:   tiers(1, 225, 8, 275, 9, 300, 10, 325, 11, 350, 12, 375),
			PlanHybrid: nil,
		},
		ProductBonusAmount: decimal.NewFromInt(50),
		BonusProducts: []BonusProduct{
			{Product: ProductVSC},
			{Product: ProductCilajet},
			{Product: ProductWheelTire},
			{Product: ProductKeyLoJack},
			{Product: ProductMaintenance, Plans: []PayPlan{PlanMINI}},
			{Product: ProductExcess, Plans: []PayPlan{PlanMINI}},
		},
		DemoAllowanceAmount: decimal.NewFromInt(300),
		DemoUnitThreshold:   8,
		AVPOffset:           decimal.NewFromInt(1175),
		AVPRates: map[Brand]decimal.Decimal{
			BrandBMW:  decimal.RequireFromString("0.05"),
			BrandMINI: decimal.RequireFromString("0.04"),
		},
	}
}

// Clone 深拷贝规则，避免调用方共享底层切片与 map
func (r Rules) Clone() Rules {
	out := r
	out.Tiers = make(map[PayPlan][]CommissionTier, len(r.Tiers))
	for plan, list := range r.Tiers {
		out.Tiers[plan] = append([]CommissionTier(nil), list...)
	}
	out.BonusProducts = make([]BonusProduct, 0, len(r.BonusProducts))
	for _, item := range r.BonusProducts {
		out.BonusProducts = append(out.BonusProducts, BonusProduct{
			Product: item.Product,
			Plans:   append([]PayPlan(nil), item.Plans...),
		})
	}
	out.AVPRates = make(map[Brand]decimal.Decimal, len(r.AVPRates))
	for brand, rate := range r.AVPRates {
		out.AVPRates[brand] = rate
	}
	return out
}

// Validate 校验规则
// 阶梯必须从 1 台开始、门槛严格递增、单价非负且不递减
func (r Rules) Validate() error {
	for plan, list := range r.Tiers {
		if !plan.IsKnown() {
			return unknownPayPlanError(string(plan))
		}
		if len(list) == 0 {
			continue
		}
		if list[0].UnitThreshold != 1 {
			return &ConfigurationError{Field: "tiers", Value: string(plan), Reason: "first threshold must be 1"}
		}
		for i, tier := range list {
			if tier.RatePerUnit.IsNegative() {
				return &ConfigurationError{Field: "tiers", Value: string(plan), Reason: fmt.Sprintf("negative rate at threshold %d", tier.UnitThreshold)}
			}
			if i == 0 {
				continue
			}
			prev := list[i-1]
			if tier.UnitThreshold <= prev.UnitThreshold {
				return &ConfigurationError{Field: "tiers", Value: string(plan), Reason: fmt.Sprintf("threshold %d is not greater than %d", tier.UnitThreshold, prev.UnitThreshold)}
			}
			if tier.RatePerUnit.LessThan(prev.RatePerUnit) {
				return &ConfigurationError{Field: "tiers", Value: string(plan), Reason: fmt.Sprintf("rate decreases at threshold %d", tier.UnitThreshold)}
			}
		}
	}
	if r.ProductBonusAmount.IsNegative() {
		return &ConfigurationError{Field: "product_bonus_amount", Value: r.ProductBonusAmount.String(), Reason: "must not be negative"}
	}
	seen := make(map[Product]struct{}, len(r.BonusProducts))
	for _, item := range r.BonusProducts {
		if _, ok := productLabels[item.Product]; !ok {
			return &ConfigurationError{Field: "bonus_products", Value: string(item.Product), Reason: "unknown product"}
		}
		if _, dup := seen[item.Product]; dup {
			return &ConfigurationError{Field: "bonus_products", Value: string(item.Product), Reason: "duplicate product"}
		}
		seen[item.Product] = struct{}{}
		for _, plan := range item.Plans {
			if !plan.IsKnown() {
				return unknownPayPlanError(string(plan))
			}
		}
	}
	if r.DemoAllowanceAmount.IsNegative() {
		return &ConfigurationError{Field: "demo_allowance_amount", Value: r.DemoAllowanceAmount.String(), Reason: "must not be negative"}
	}
	if r.DemoUnitThreshold < 1 {
		return &ConfigurationError{Field: "demo_unit_threshold", Value: fmt.Sprint(r.DemoUnitThreshold), Reason: "must be at least 1"}
	}
	if r.AVPOffset.IsNegative() {
		return &ConfigurationError{Field: "avp_offset", Value: r.AVPOffset.String(), Reason: "must not be negative"}
	}
	for _, brand := range KnownBrands {
		rate, ok := r.AVPRates[brand]
		if !ok {
			return &ConfigurationError{Field: "avp_rates", Value: string(brand), Reason: "missing rate"}
		}
		if rate.IsNegative() || rate.GreaterThan(decimal.NewFromInt(1)) {
			return &ConfigurationError{Field: "avp_rates", Value: string(brand), Reason: "rate must be between 0 and 1"}
		}
	}
	return nil
}

// SortedTiers 返回按门槛升序排列的阶梯副本
func SortedTiers(list []CommissionTier) []CommissionTier {
	out := append([]CommissionTier(nil), list...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].UnitThreshold < out[j].UnitThreshold
	})
	return out
}
