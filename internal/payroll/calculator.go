package payroll

import "github.com/shopspring/decimal"

// Calculator 薪酬计算器
// 只持有经过校验的规则副本，无其他状态，可并发调用
type Calculator struct {
	rules Rules
}

// NewCalculator 使用给定规则创建计算器
func NewCalculator(rules Rules) (*Calculator, error) {
	if err := rules.Validate(); err != nil {
		return nil, err
	}
	return &Calculator{rules: rules.Clone()}, nil
}

// DefaultCalculator 使用默认规则创建计算器
func DefaultCalculator() *Calculator {
	return &Calculator{rules: DefaultRules()}
}

// Rules 返回规则副本
func (c *Calculator) Rules() Rules {
	return c.rules.Clone()
}

// ResolveCommissionRate 查找单车提成单价
// 取不超过 totalUnits 的最高门槛对应的单价，该单价追溯适用于当期全部车辆
func (c *Calculator) ResolveCommissionRate(plan PayPlan, totalUnits int) (decimal.Decimal, error) {
	if !plan.IsKnown() {
		return decimal.Zero, unknownPayPlanError(string(plan))
	}
	if totalUnits <= 0 {
		return decimal.Zero, nil
	}
	list := c.rules.Tiers[plan]
	if len(list) == 0 {
		return decimal.Zero, unconfiguredPayPlanError(plan)
	}
	rate := decimal.Zero
	for _, tier := range list {
		if tier.UnitThreshold > totalUnits {
			break
		}
		rate = tier.RatePerUnit
	}
	return rate, nil
}

// UnitCommission 计算单车提成总额（totalUnits * 单价）
func (c *Calculator) UnitCommission(plan PayPlan, totalUnits int) (decimal.Decimal, decimal.Decimal, error) {
	rate, err := c.ResolveCommissionRate(plan, totalUnits)
	if err != nil {
		return decimal.Zero, decimal.Zero, err
	}
	if totalUnits <= 0 {
		return rate, decimal.Zero, nil
	}
	return rate, rate.Mul(decimal.NewFromInt(int64(totalUnits))), nil
}

// DemoVehicleAllowance 试驾车补贴：具备资格且当期台数达到门槛时发放固定金额
func (c *Calculator) DemoVehicleAllowance(demoEligible bool, totalUnits int) decimal.Decimal {
	if demoEligible && totalUnits >= c.rules.DemoUnitThreshold {
		return c.rules.DemoAllowanceAmount
	}
	return decimal.Zero
}
