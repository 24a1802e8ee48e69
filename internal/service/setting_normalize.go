package service

import (
	"strings"

	"github.com/dealerdesk/internal/constants"
	"github.com/dealerdesk/internal/models"
)

// normalizeSettingValueByKey 按设置键执行归一化，避免非法值入库。
func (s *SettingService) normalizeSettingValueByKey(key string, value map[string]interface{}) (models.JSON, error) {
	switch key {
	case constants.SettingKeyPayrollConfig:
		current, err := s.GetPayrollRules()
		if err != nil {
			return nil, err
		}
		rules, err := payrollSettingFromJSON(models.JSON(value), current)
		if err != nil {
			return nil, err
		}
		return PayrollSettingToMap(rules), nil
	case constants.SettingKeyReportConfig:
		setting := reportSettingFromJSON(models.JSON(value), ReportDefaultSetting())
		return ReportSettingToMap(setting), nil
	default:
		return models.JSON(value), nil
	}
}

func normalizeSettingText(raw interface{}) string {
	text, ok := raw.(string)
	if !ok {
		return ""
	}
	return strings.TrimSpace(text)
}

func parseSettingBool(raw interface{}) bool {
	switch value := raw.(type) {
	case bool:
		return value
	case int:
		return value != 0
	case int64:
		return value != 0
	case float64:
		return value != 0
	case string:
		normalized := strings.ToLower(strings.TrimSpace(value))
		return normalized == "1" || normalized == "true" || normalized == "yes" || normalized == "on"
	default:
		return false
	}
}
