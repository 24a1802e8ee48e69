package service

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/dealerdesk/internal/config"
	"github.com/dealerdesk/internal/constants"
	"github.com/dealerdesk/internal/models"
	"github.com/dealerdesk/internal/payroll"

	"github.com/shopspring/decimal"
)

// PayrollRulesFromConfig 从配置文件构建薪酬规则（未配置项回退内置默认值）
// 未知方案、品牌、产品或校验失败直接返回错误，启动阶段据此拒绝运行
func PayrollRulesFromConfig(cfg config.PayrollConfig) (payroll.Rules, error) {
	rules := payroll.DefaultRules()
	for rawPlan, list := range cfg.Tiers {
		plan, err := payroll.ParsePayPlan(rawPlan)
		if err != nil {
			return payroll.Rules{}, fmt.Errorf("%w: %w", ErrPayrollConfigInvalid, err)
		}
		tiers := make([]payroll.CommissionTier, 0, len(list))
		for _, item := range list {
			tiers = append(tiers, payroll.CommissionTier{
				UnitThreshold: item.UnitThreshold,
				RatePerUnit:   decimal.NewFromFloat(item.RatePerUnit).Round(2),
			})
		}
		rules.Tiers[plan] = payroll.SortedTiers(tiers)
	}
	if cfg.ProductBonusAmount > 0 {
		rules.ProductBonusAmount = decimal.NewFromFloat(cfg.ProductBonusAmount).Round(2)
	}
	if len(cfg.BonusProducts) > 0 {
		items := make([]payroll.BonusProduct, 0, len(cfg.BonusProducts))
		for _, item := range cfg.BonusProducts {
			product, ok := payroll.ParseProduct(item.Product)
			if !ok {
				return payroll.Rules{}, payrollSettingError("bonus_products", fmt.Sprintf("unknown product %q", item.Product))
			}
			bonus := payroll.BonusProduct{Product: product}
			for _, rawPlan := range item.Plans {
				plan, err := payroll.ParsePayPlan(rawPlan)
				if err != nil {
					return payroll.Rules{}, fmt.Errorf("%w: %w", ErrPayrollConfigInvalid, err)
				}
				bonus.Plans = append(bonus.Plans, plan)
			}
			items = append(items, bonus)
		}
		rules.BonusProducts = items
	}
	if cfg.DemoAllowanceAmount > 0 {
		rules.DemoAllowanceAmount = decimal.NewFromFloat(cfg.DemoAllowanceAmount).Round(2)
	}
	if cfg.DemoUnitThreshold > 0 {
		rules.DemoUnitThreshold = cfg.DemoUnitThreshold
	}
	if cfg.AVPOffset > 0 {
		rules.AVPOffset = decimal.NewFromFloat(cfg.AVPOffset).Round(2)
	}
	for rawBrand, rate := range cfg.AVPRates {
		brand, err := payroll.ParseBrand(rawBrand)
		if err != nil {
			return payroll.Rules{}, fmt.Errorf("%w: %w", ErrPayrollConfigInvalid, err)
		}
		rules.AVPRates[brand] = decimal.NewFromFloat(rate)
	}
	if err := rules.Validate(); err != nil {
		return payroll.Rules{}, fmt.Errorf("%w: %w", ErrPayrollConfigInvalid, err)
	}
	return rules, nil
}

// PayrollSettingToMap 将薪酬规则转换为设置存储结构
// 金额以两位小数字符串存储，避免浮点误差
func PayrollSettingToMap(rules payroll.Rules) map[string]interface{} {
	tiers := make(map[string]interface{}, len(payroll.KnownPayPlans))
	for _, plan := range payroll.KnownPayPlans {
		list := payroll.SortedTiers(rules.Tiers[plan])
		items := make([]interface{}, 0, len(list))
		for _, tier := range list {
			items = append(items, map[string]interface{}{
				"unit_threshold": tier.UnitThreshold,
				"rate_per_unit":  tier.RatePerUnit.StringFixed(2),
			})
		}
		tiers[string(plan)] = items
	}

	bonusProducts := make([]interface{}, 0, len(rules.BonusProducts))
	for _, item := range rules.BonusProducts {
		plans := make([]interface{}, 0, len(item.Plans))
		for _, plan := range item.Plans {
			plans = append(plans, string(plan))
		}
		bonusProducts = append(bonusProducts, map[string]interface{}{
			"product": string(item.Product),
			"plans":   plans,
		})
	}

	avpRates := make(map[string]interface{}, len(rules.AVPRates))
	brands := make([]string, 0, len(rules.AVPRates))
	for brand := range rules.AVPRates {
		brands = append(brands, string(brand))
	}
	sort.Strings(brands)
	for _, brand := range brands {
		avpRates[brand] = rules.AVPRates[payroll.Brand(brand)].String()
	}

	return map[string]interface{}{
		"tiers":                 tiers,
		"product_bonus_amount":  rules.ProductBonusAmount.StringFixed(2),
		"bonus_products":        bonusProducts,
		"demo_allowance_amount": rules.DemoAllowanceAmount.StringFixed(2),
		"demo_unit_threshold":   rules.DemoUnitThreshold,
		"avp_offset":            rules.AVPOffset.StringFixed(2),
		"avp_rates":             avpRates,
	}
}

// payrollSettingFromJSON 解析薪酬规则设置，缺失项沿用 fallback
// 与其他设置不同，非法取值直接报错而不是静默回退
func payrollSettingFromJSON(raw models.JSON, fallback payroll.Rules) (payroll.Rules, error) {
	result := fallback.Clone()

	if value, exists := raw["tiers"]; exists {
		tiersRaw, ok := value.(map[string]interface{})
		if !ok {
			return fallback, payrollSettingError("tiers", "must be an object")
		}
		for rawPlan, listRaw := range tiersRaw {
			plan, err := payroll.ParsePayPlan(rawPlan)
			if err != nil {
				return fallback, fmt.Errorf("%w: %w", ErrPayrollConfigInvalid, err)
			}
			tiers, err := parsePayrollTiers(listRaw)
			if err != nil {
				return fallback, err
			}
			result.Tiers[plan] = tiers
		}
	}

	if value, exists := raw["product_bonus_amount"]; exists {
		amount, err := parseSettingDecimal(value)
		if err != nil {
			return fallback, payrollSettingError("product_bonus_amount", err.Error())
		}
		result.ProductBonusAmount = amount.Round(2)
	}

	if value, exists := raw["bonus_products"]; exists {
		items, err := parsePayrollBonusProducts(value)
		if err != nil {
			return fallback, err
		}
		result.BonusProducts = items
	}

	if value, exists := raw["demo_allowance_amount"]; exists {
		amount, err := parseSettingDecimal(value)
		if err != nil {
			return fallback, payrollSettingError("demo_allowance_amount", err.Error())
		}
		result.DemoAllowanceAmount = amount.Round(2)
	}

	if value, exists := raw["demo_unit_threshold"]; exists {
		threshold, err := parseSettingInt(value)
		if err != nil {
			return fallback, payrollSettingError("demo_unit_threshold", err.Error())
		}
		result.DemoUnitThreshold = threshold
	}

	if value, exists := raw["avp_offset"]; exists {
		offset, err := parseSettingDecimal(value)
		if err != nil {
			return fallback, payrollSettingError("avp_offset", err.Error())
		}
		result.AVPOffset = offset.Round(2)
	}

	if value, exists := raw["avp_rates"]; exists {
		ratesRaw, ok := value.(map[string]interface{})
		if !ok {
			return fallback, payrollSettingError("avp_rates", "must be an object")
		}
		for rawBrand, rateRaw := range ratesRaw {
			brand, err := payroll.ParseBrand(rawBrand)
			if err != nil {
				return fallback, fmt.Errorf("%w: %w", ErrPayrollConfigInvalid, err)
			}
			rate, err := parseSettingDecimal(rateRaw)
			if err != nil {
				return fallback, payrollSettingError("avp_rates", err.Error())
			}
			result.AVPRates[brand] = rate
		}
	}

	if err := result.Validate(); err != nil {
		return fallback, fmt.Errorf("%w: %w", ErrPayrollConfigInvalid, err)
	}
	return result, nil
}

func parsePayrollTiers(raw interface{}) ([]payroll.CommissionTier, error) {
	if raw == nil {
		return nil, nil
	}
	listRaw, ok := raw.([]interface{})
	if !ok {
		return nil, payrollSettingError("tiers", "must be a list")
	}
	tiers := make([]payroll.CommissionTier, 0, len(listRaw))
	for _, itemRaw := range listRaw {
		itemMap, ok := itemRaw.(map[string]interface{})
		if !ok {
			return nil, payrollSettingError("tiers", "tier must be an object")
		}
		threshold, err := parseSettingInt(itemMap["unit_threshold"])
		if err != nil {
			return nil, payrollSettingError("tiers.unit_threshold", err.Error())
		}
		rate, err := parseSettingDecimal(itemMap["rate_per_unit"])
		if err != nil {
			return nil, payrollSettingError("tiers.rate_per_unit", err.Error())
		}
		tiers = append(tiers, payroll.CommissionTier{UnitThreshold: threshold, RatePerUnit: rate.Round(2)})
	}
	return payroll.SortedTiers(tiers), nil
}

func parsePayrollBonusProducts(raw interface{}) ([]payroll.BonusProduct, error) {
	listRaw, ok := raw.([]interface{})
	if !ok {
		return nil, payrollSettingError("bonus_products", "must be a list")
	}
	items := make([]payroll.BonusProduct, 0, len(listRaw))
	for _, itemRaw := range listRaw {
		var productRaw interface{}
		var plansRaw interface{}
		switch v := itemRaw.(type) {
		case string:
			productRaw = v
		case map[string]interface{}:
			productRaw = v["product"]
			plansRaw = v["plans"]
		default:
			return nil, payrollSettingError("bonus_products", "item must be a string or an object")
		}
		name := normalizeSettingText(productRaw)
		product, ok := payroll.ParseProduct(name)
		if !ok {
			return nil, payrollSettingError("bonus_products", fmt.Sprintf("unknown product %q", name))
		}
		item := payroll.BonusProduct{Product: product}
		if plansRaw != nil {
			plansList, ok := plansRaw.([]interface{})
			if !ok {
				return nil, payrollSettingError("bonus_products.plans", "must be a list")
			}
			for _, planRaw := range plansList {
				plan, err := payroll.ParsePayPlan(normalizeSettingText(planRaw))
				if err != nil {
					return nil, fmt.Errorf("%w: %w", ErrPayrollConfigInvalid, err)
				}
				item.Plans = append(item.Plans, plan)
			}
		}
		items = append(items, item)
	}
	return items, nil
}

func payrollSettingError(field, reason string) error {
	return fmt.Errorf("%w: %s %s", ErrPayrollConfigInvalid, field, reason)
}

func parseSettingDecimal(value interface{}) (decimal.Decimal, error) {
	switch v := value.(type) {
	case nil:
		return decimal.Zero, fmt.Errorf("missing value")
	case decimal.Decimal:
		return v, nil
	case int:
		return decimal.NewFromInt(int64(v)), nil
	case int64:
		return decimal.NewFromInt(v), nil
	case float64:
		return decimal.NewFromFloat(v), nil
	case json.Number:
		return decimal.NewFromString(v.String())
	case string:
		trimmed := strings.TrimSpace(v)
		if trimmed == "" {
			return decimal.Zero, fmt.Errorf("empty string")
		}
		return decimal.NewFromString(trimmed)
	default:
		return decimal.Zero, fmt.Errorf("unsupported value type")
	}
}

// SetPayrollDefaults 设置薪酬规则回退值（通常来自配置文件）
func (s *SettingService) SetPayrollDefaults(rules payroll.Rules) {
	if s == nil {
		return
	}
	cloned := rules.Clone()
	s.payrollDefaults = &cloned
}

func (s *SettingService) payrollFallback() payroll.Rules {
	if s == nil || s.payrollDefaults == nil {
		return payroll.DefaultRules()
	}
	return s.payrollDefaults.Clone()
}

// GetPayrollRules 获取生效的薪酬规则（优先 settings，空时回退默认）
func (s *SettingService) GetPayrollRules() (payroll.Rules, error) {
	fallback := s.payrollFallback()
	if s == nil {
		return fallback, nil
	}
	value, err := s.GetByKey(constants.SettingKeyPayrollConfig)
	if err != nil {
		return fallback, err
	}
	if value == nil {
		return fallback, nil
	}
	return payrollSettingFromJSON(value, fallback)
}

// UpdatePayrollRules 部分更新薪酬规则，未提交的项保持当前值
func (s *SettingService) UpdatePayrollRules(value map[string]interface{}) (payroll.Rules, error) {
	current, err := s.GetPayrollRules()
	if err != nil {
		return payroll.Rules{}, err
	}
	next, err := payrollSettingFromJSON(models.JSON(value), current)
	if err != nil {
		return payroll.Rules{}, err
	}
	if _, err := s.repo.Upsert(constants.SettingKeyPayrollConfig, models.JSON(PayrollSettingToMap(next))); err != nil {
		return payroll.Rules{}, err
	}
	return next, nil
}

// ResetPayrollRules 清除 settings 中的薪酬规则覆盖，恢复为配置文件默认值
func (s *SettingService) ResetPayrollRules() (payroll.Rules, error) {
	fallback := s.payrollFallback()
	if _, err := s.repo.Upsert(constants.SettingKeyPayrollConfig, models.JSON(PayrollSettingToMap(fallback))); err != nil {
		return payroll.Rules{}, err
	}
	return fallback, nil
}

// PayrollCalculator 使用当前生效规则创建计算器
func (s *SettingService) PayrollCalculator() (*payroll.Calculator, error) {
	rules, err := s.GetPayrollRules()
	if err != nil {
		return nil, err
	}
	return payroll.NewCalculator(rules)
}
