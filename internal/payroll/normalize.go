package payroll

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// 聚合查询结果列名
const (
	ColumnSalespersonID       = "salesperson_id"
	ColumnPayPlan             = "pay_plan"
	ColumnDemoEligible        = "demo_eligible"
	ColumnBMWUnits            = "bmw_units"
	ColumnMINIUnits           = "mini_units"
	ColumnFEGross             = "fe_gross"
	ColumnBEGross             = "be_gross"
	ColumnRewardsUpgradeBonus = "rewards_upgrade_bonus"
	ColumnApprovedSpiffAmount = "approved_spiff_amount"
	ColumnApprovedSpiffCount  = "approved_spiff_count"
	ColumnPaidSpiffAmount     = "paid_spiff_amount"
	ColumnPaidSpiffCount      = "paid_spiff_count"
	productColumnPrefix       = "product_"
)

// ProductColumn 产品合计列名
func ProductColumn(product Product) string {
	return productColumnPrefix + string(product)
}

// CoerceDecimal 将聚合层返回的任意数值归一化为 decimal
// 支持 nil / 数字 / 字符串（允许 $ 与千分位逗号）/ []byte，无法解析时返回 0
func CoerceDecimal(value interface{}) decimal.Decimal {
	switch v := value.(type) {
	case nil:
		return decimal.Zero
	case decimal.Decimal:
		return v
	case *decimal.Decimal:
		if v == nil {
			return decimal.Zero
		}
		return *v
	case int:
		return decimal.NewFromInt(int64(v))
	case int8:
		return decimal.NewFromInt(int64(v))
	case int16:
		return decimal.NewFromInt(int64(v))
	case int32:
		return decimal.NewFromInt(int64(v))
	case int64:
		return decimal.NewFromInt(v)
	case uint:
		return decimal.NewFromInt(int64(v))
	case uint8:
		return decimal.NewFromInt(int64(v))
	case uint16:
		return decimal.NewFromInt(int64(v))
	case uint32:
		return decimal.NewFromInt(int64(v))
	case uint64:
		if v > math.MaxInt64 {
			return decimal.Zero
		}
		return decimal.NewFromInt(int64(v))
	case float32:
		return coerceFloat(float64(v))
	case float64:
		return coerceFloat(v)
	case json.Number:
		return coerceString(string(v))
	case string:
		return coerceString(v)
	case []byte:
		return coerceString(string(v))
	default:
		return decimal.Zero
	}
}

func coerceFloat(v float64) decimal.Decimal {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return decimal.Zero
	}
	return decimal.NewFromFloat(v)
}

func coerceString(raw string) decimal.Decimal {
	cleaned := strings.NewReplacer("$", "", ",", "", " ", "").Replace(strings.TrimSpace(raw))
	negative := false
	if strings.HasPrefix(cleaned, "(") && strings.HasSuffix(cleaned, ")") {
		negative = true
		cleaned = strings.TrimSuffix(strings.TrimPrefix(cleaned, "("), ")")
	}
	if cleaned == "" {
		return decimal.Zero
	}
	parsed, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero
	}
	if negative {
		return parsed.Neg()
	}
	return parsed
}

// CoerceInt 归一化为整数（截断小数部分）
func CoerceInt(value interface{}) int {
	return int(CoerceDecimal(value).IntPart())
}

// CoerceBool 归一化布尔值，兼容 sqlite 以整数存储布尔的情况
func CoerceBool(value interface{}) bool {
	switch v := value.(type) {
	case nil:
		return false
	case bool:
		return v
	case string:
		parsed, err := strconv.ParseBool(strings.TrimSpace(v))
		if err == nil {
			return parsed
		}
		return CoerceDecimal(v).IsPositive()
	case []byte:
		return CoerceBool(string(v))
	default:
		return !CoerceDecimal(v).IsZero()
	}
}

func nonNegative(n int) int {
	if n < 0 {
		return 0
	}
	return n
}

// TotalsFromAggregate 将聚合查询的一行原始数据转换为 SalesPeriodTotals
// 缺失列按 0 处理；提成方案无法识别时返回配置错误
func TotalsFromAggregate(row map[string]interface{}) (SalesPeriodTotals, error) {
	rawPlan, _ := row[ColumnPayPlan].(string)
	plan, err := ParsePayPlan(rawPlan)
	if err != nil {
		return SalesPeriodTotals{}, err
	}
	totals := SalesPeriodTotals{
		SalespersonID:       uint(nonNegative(CoerceInt(row[ColumnSalespersonID]))),
		PayPlan:             plan,
		DemoEligible:        CoerceBool(row[ColumnDemoEligible]),
		BMWUnits:            nonNegative(CoerceInt(row[ColumnBMWUnits])),
		MINIUnits:           nonNegative(CoerceInt(row[ColumnMINIUnits])),
		FEGross:             CoerceDecimal(row[ColumnFEGross]),
		BEGross:             CoerceDecimal(row[ColumnBEGross]),
		ProductTotals:       make(map[Product]decimal.Decimal, len(AllProducts)),
		RewardsUpgradeBonus: CoerceDecimal(row[ColumnRewardsUpgradeBonus]),
		ApprovedSpiffAmount: CoerceDecimal(row[ColumnApprovedSpiffAmount]),
		ApprovedSpiffCount:  nonNegative(CoerceInt(row[ColumnApprovedSpiffCount])),
		PaidSpiffAmount:     CoerceDecimal(row[ColumnPaidSpiffAmount]),
		PaidSpiffCount:      nonNegative(CoerceInt(row[ColumnPaidSpiffCount])),
	}
	for _, product := range AllProducts {
		totals.ProductTotals[product] = CoerceDecimal(row[ProductColumn(product)])
	}
	return totals, nil
}
