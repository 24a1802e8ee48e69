package payroll

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// EntryMode 金额录入方式
type EntryMode string

const (
	// EntryModeDirect 直接录入金额
	EntryModeDirect EntryMode = "direct"
	// EntryModeCalculated 由公式计算金额
	EntryModeCalculated EntryMode = "calculated"
)

// ParseEntryMode 解析录入方式，空值按直接录入处理
func ParseEntryMode(raw string) (EntryMode, error) {
	switch EntryMode(strings.ToLower(strings.TrimSpace(raw))) {
	case "", EntryModeDirect:
		return EntryModeDirect, nil
	case EntryModeCalculated:
		return EntryModeCalculated, nil
	default:
		return "", fmt.Errorf("invalid entry mode %q", raw)
	}
}

// AVPEntry AVP 录入
// Direct 模式使用 Amount；Calculated 模式使用 MSRP + Brand
type AVPEntry struct {
	Mode   EntryMode
	Amount decimal.Decimal
	MSRP   decimal.Decimal
	Brand  Brand
}

// CalculateAVP 根据 MSRP 与品牌计算 AVP：(msrp - offset) * rate，结果不小于 0
func (c *Calculator) CalculateAVP(msrp decimal.Decimal, brand Brand) (decimal.Decimal, error) {
	rate, ok := c.rules.AVPRates[brand]
	if !ok {
		return decimal.Zero, unknownBrandError(string(brand))
	}
	base := msrp.Sub(c.rules.AVPOffset)
	if !base.IsPositive() {
		return decimal.Zero, nil
	}
	return base.Mul(rate).Round(2), nil
}

// ResolveAVP 归一化 AVP 录入并返回最终金额
// 切换模式时清空另一模式的输入
func (c *Calculator) ResolveAVP(entry AVPEntry) (AVPEntry, error) {
	switch entry.Mode {
	case EntryModeCalculated:
		amount, err := c.CalculateAVP(entry.MSRP, entry.Brand)
		if err != nil {
			return AVPEntry{}, err
		}
		entry.Amount = amount
		return entry, nil
	case EntryModeDirect, "":
		return AVPEntry{Mode: EntryModeDirect, Amount: entry.Amount.Round(2), Brand: entry.Brand}, nil
	default:
		return AVPEntry{}, fmt.Errorf("invalid entry mode %q", entry.Mode)
	}
}

// GrossLine 产品毛利录入行
// Direct 模式使用 Gross；Calculated 模式使用 Price - Cost
type GrossLine struct {
	Product Product
	Mode    EntryMode
	Gross   decimal.Decimal
	Price   decimal.Decimal
	Cost    decimal.Decimal
}

// ResolveGross 归一化毛利录入行并计算毛利，每行独立计算
func ResolveGross(line GrossLine) (GrossLine, error) {
	switch line.Mode {
	case EntryModeCalculated:
		line.Gross = line.Price.Sub(line.Cost).Round(2)
		return line, nil
	case EntryModeDirect, "":
		return GrossLine{Product: line.Product, Mode: EntryModeDirect, Gross: line.Gross.Round(2)}, nil
	default:
		return GrossLine{}, fmt.Errorf("invalid entry mode %q", line.Mode)
	}
}
