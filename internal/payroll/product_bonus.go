package payroll

import "github.com/shopspring/decimal"

// ProductBonusResult 产品奖金明细
type ProductBonusResult struct {
	PerProduct map[Product]decimal.Decimal
	Total      decimal.Decimal
}

// CalculateProductBonus 计算产品奖金
// 每个可奖励产品当期合计 > 0 时发放一次固定奖金，与金额大小无关；
// 限定方案的产品在其他方案下奖金恒为 0；未知产品忽略
func (c *Calculator) CalculateProductBonus(plan PayPlan, totals map[Product]decimal.Decimal) ProductBonusResult {
	result := ProductBonusResult{
		PerProduct: make(map[Product]decimal.Decimal, len(c.rules.BonusProducts)),
		Total:      decimal.Zero,
	}
	for _, item := range c.rules.BonusProducts {
		bonus := decimal.Zero
		if appliesToPlan(item, plan) && totals[item.Product].IsPositive() {
			bonus = c.rules.ProductBonusAmount
		}
		result.PerProduct[item.Product] = bonus
		result.Total = result.Total.Add(bonus)
	}
	return result
}

func appliesToPlan(item BonusProduct, plan PayPlan) bool {
	if len(item.Plans) == 0 {
		return true
	}
	for _, allowed := range item.Plans {
		if allowed == plan {
			return true
		}
	}
	return false
}
