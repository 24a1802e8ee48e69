package payroll

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// SalesPeriodTotals 销售顾问单个统计周期的聚合数据
type SalesPeriodTotals struct {
	SalespersonID       uint
	PayPlan             PayPlan
	DemoEligible        bool
	BMWUnits            int
	MINIUnits           int
	FEGross             decimal.Decimal
	BEGross             decimal.Decimal
	ProductTotals       map[Product]decimal.Decimal
	RewardsUpgradeBonus decimal.Decimal
	ApprovedSpiffAmount decimal.Decimal
	ApprovedSpiffCount  int
	PaidSpiffAmount     decimal.Decimal
	PaidSpiffCount      int
}

// TotalUnits 当期总台数
func (t SalesPeriodTotals) TotalUnits() int {
	return t.BMWUnits + t.MINIUnits
}

// PayrollBreakdown 薪酬明细（只读视图，不落库）
type PayrollBreakdown struct {
	SalespersonID        uint
	PayPlan              PayPlan
	TotalUnits           int
	CommissionRate       decimal.Decimal
	UnitCommission       decimal.Decimal
	ProductBonuses       map[Product]decimal.Decimal
	ProductBonus         decimal.Decimal
	DemoVehicleAllowance decimal.Decimal
	RewardsUpgradeBonus  decimal.Decimal
	ApprovedSpiffAmount  decimal.Decimal
	ApprovedSpiffCount   int
	PaidSpiffAmount      decimal.Decimal
	PaidSpiffCount       int
	TotalPay             decimal.Decimal
}

// BuildBreakdown 汇总薪酬明细
// totalPay = 单车提成 + 升级奖励 + 产品奖金 + 试驾车补贴 + 已批准 spiff；
// 已支付 spiff 仅展示，不计入 totalPay
func (c *Calculator) BuildBreakdown(totals SalesPeriodTotals) (PayrollBreakdown, error) {
	units := totals.TotalUnits()
	rate, unitCommission, err := c.UnitCommission(totals.PayPlan, units)
	if err != nil {
		return PayrollBreakdown{}, err
	}
	bonus := c.CalculateProductBonus(totals.PayPlan, totals.ProductTotals)
	demo := c.DemoVehicleAllowance(totals.DemoEligible, units)

	total := unitCommission.
		Add(totals.RewardsUpgradeBonus).
		Add(bonus.Total).
		Add(demo).
		Add(totals.ApprovedSpiffAmount)

	return PayrollBreakdown{
		SalespersonID:        totals.SalespersonID,
		PayPlan:              totals.PayPlan,
		TotalUnits:           units,
		CommissionRate:       rate,
		UnitCommission:       unitCommission,
		ProductBonuses:       bonus.PerProduct,
		ProductBonus:         bonus.Total,
		DemoVehicleAllowance: demo,
		RewardsUpgradeBonus:  totals.RewardsUpgradeBonus,
		ApprovedSpiffAmount:  totals.ApprovedSpiffAmount,
		ApprovedSpiffCount:   totals.ApprovedSpiffCount,
		PaidSpiffAmount:      totals.PaidSpiffAmount,
		PaidSpiffCount:       totals.PaidSpiffCount,
		TotalPay:             total,
	}, nil
}

func money(d decimal.Decimal) json.Number {
	return json.Number(d.StringFixed(2))
}

// MarshalJSON 金额字段输出为数值（保留 2 位小数）
func (b PayrollBreakdown) MarshalJSON() ([]byte, error) {
	bonuses := make(map[string]json.Number, len(b.ProductBonuses))
	for product, amount := range b.ProductBonuses {
		bonuses[string(product)] = money(amount)
	}
	return json.Marshal(struct {
		SalespersonID        uint                   `json:"salesperson_id"`
		PayPlan              PayPlan                `json:"pay_plan"`
		TotalUnits           int                    `json:"total_units"`
		CommissionRate       json.Number            `json:"commission_rate"`
		UnitCommission       json.Number            `json:"unit_commission"`
		ProductBonuses       map[string]json.Number `json:"product_bonuses"`
		ProductBonus         json.Number            `json:"product_bonus"`
		DemoVehicleAllowance json.Number            `json:"demo_vehicle_allowance"`
		RewardsUpgradeBonus  json.Number            `json:"rewards_upgrade_bonus"`
		ApprovedSpiffAmount  json.Number            `json:"approved_spiff_amount"`
		ApprovedSpiffCount   int                    `json:"approved_spiff_count"`
		PaidSpiffAmount      json.Number            `json:"paid_spiff_amount"`
		PaidSpiffCount       int                    `json:"paid_spiff_count"`
		TotalPay             json.Number            `json:"total_pay"`
	}{
		SalespersonID:        b.SalespersonID,
		PayPlan:              b.PayPlan,
		TotalUnits:           b.TotalUnits,
		CommissionRate:       money(b.CommissionRate),
		UnitCommission:       money(b.UnitCommission),
		ProductBonuses:       bonuses,
		ProductBonus:         money(b.ProductBonus),
		DemoVehicleAllowance: money(b.DemoVehicleAllowance),
		RewardsUpgradeBonus:  money(b.RewardsUpgradeBonus),
		ApprovedSpiffAmount:  money(b.ApprovedSpiffAmount),
		ApprovedSpiffCount:   b.ApprovedSpiffCount,
		PaidSpiffAmount:      money(b.PaidSpiffAmount),
		PaidSpiffCount:       b.PaidSpiffCount,
		TotalPay:             money(b.TotalPay),
	})
}
