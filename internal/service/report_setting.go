package service

import (
	"github.com/dealerdesk/internal/constants"
	"github.com/dealerdesk/internal/models"
)

// ReportCacheSetting 报表缓存配置
type ReportCacheSetting struct {
	TTLSeconds int `json:"ttl_seconds"`
}

// ReportRankingSetting 报表排行配置
type ReportRankingSetting struct {
	SalespersonLimit    int `json:"salesperson_limit"`
	FinanceManagerLimit int `json:"finance_manager_limit"`
}

// ReportSetting 报表配置
type ReportSetting struct {
	Cache   ReportCacheSetting   `json:"cache"`
	Ranking ReportRankingSetting `json:"ranking"`
}

// ReportDefaultSetting 默认报表配置
func ReportDefaultSetting() ReportSetting {
	return NormalizeReportSetting(ReportSetting{
		Cache: ReportCacheSetting{
			TTLSeconds: 60,
		},
		Ranking: ReportRankingSetting{
			SalespersonLimit:    10,
			FinanceManagerLimit: 10,
		},
	})
}

// NormalizeReportSetting 归一化报表配置
func NormalizeReportSetting(setting ReportSetting) ReportSetting {
	if setting.Cache.TTLSeconds < 0 || setting.Cache.TTLSeconds > 3600 {
		setting.Cache.TTLSeconds = 60
	}
	if setting.Ranking.SalespersonLimit < 1 || setting.Ranking.SalespersonLimit > 100 {
		setting.Ranking.SalespersonLimit = 10
	}
	if setting.Ranking.FinanceManagerLimit < 1 || setting.Ranking.FinanceManagerLimit > 100 {
		setting.Ranking.FinanceManagerLimit = 10
	}
	return setting
}

// ReportSettingToMap 将报表配置转换为设置存储结构
func ReportSettingToMap(setting ReportSetting) map[string]interface{} {
	normalized := NormalizeReportSetting(setting)
	return map[string]interface{}{
		"cache": map[string]interface{}{
			"ttl_seconds": normalized.Cache.TTLSeconds,
		},
		"ranking": map[string]interface{}{
			"salesperson_limit":     normalized.Ranking.SalespersonLimit,
			"finance_manager_limit": normalized.Ranking.FinanceManagerLimit,
		},
	}
}

func reportSettingFromJSON(raw models.JSON, fallback ReportSetting) ReportSetting {
	result := fallback

	cacheRaw, ok := raw["cache"].(map[string]interface{})
	if ok {
		if value, exists := cacheRaw["ttl_seconds"]; exists {
			if parsed, err := parseSettingInt(value); err == nil {
				result.Cache.TTLSeconds = parsed
			}
		}
	}

	rankingRaw, ok := raw["ranking"].(map[string]interface{})
	if ok {
		if value, exists := rankingRaw["salesperson_limit"]; exists {
			if parsed, err := parseSettingInt(value); err == nil {
				result.Ranking.SalespersonLimit = parsed
			}
		}
		if value, exists := rankingRaw["finance_manager_limit"]; exists {
			if parsed, err := parseSettingInt(value); err == nil {
				result.Ranking.FinanceManagerLimit = parsed
			}
		}
	}

	return NormalizeReportSetting(result)
}

// GetReportSetting 获取报表设置（优先 settings，空时回退默认）
func (s *SettingService) GetReportSetting() (ReportSetting, error) {
	fallback := ReportDefaultSetting()
	if s == nil {
		return fallback, nil
	}
	value, err := s.GetByKey(constants.SettingKeyReportConfig)
	if err != nil {
		return fallback, err
	}
	if value == nil {
		return fallback, nil
	}
	return reportSettingFromJSON(value, fallback), nil
}
