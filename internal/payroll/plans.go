package payroll

import "strings"

// PayPlan 提成方案（决定单车提成阶梯表）
type PayPlan string

// Brand 车辆品牌
type Brand string

const (
	PlanBMW    PayPlan = "bmw"
	PlanMINI   PayPlan = "mini"
	PlanHybrid PayPlan = "hybrid"
)

const (
	BrandBMW  Brand = "bmw"
	BrandMINI Brand = "mini"
)

// KnownPayPlans 已知提成方案
var KnownPayPlans = []PayPlan{PlanBMW, PlanMINI, PlanHybrid}

// KnownBrands 已知品牌
var KnownBrands = []Brand{BrandBMW, BrandMINI}

// ParsePayPlan 解析提成方案（大小写不敏感），未知方案返回配置错误
func ParsePayPlan(raw string) (PayPlan, error) {
	normalized := PayPlan(strings.ToLower(strings.TrimSpace(raw)))
	for _, plan := range KnownPayPlans {
		if plan == normalized {
			return plan, nil
		}
	}
	return "", unknownPayPlanError(raw)
}

// ParseBrand 解析品牌（大小写不敏感），未知品牌返回配置错误
func ParseBrand(raw string) (Brand, error) {
	normalized := Brand(strings.ToLower(strings.TrimSpace(raw)))
	for _, brand := range KnownBrands {
		if brand == normalized {
			return brand, nil
		}
	}
	return "", unknownBrandError(raw)
}

// IsKnown 判断提成方案是否已知
func (p PayPlan) IsKnown() bool {
	for _, plan := range KnownPayPlans {
		if plan == p {
			return true
		}
	}
	return false
}
