package service

import (
	"testing"

	"github.com/dealerdesk/internal/constants"
)

func TestUpdateReportSettingNormalized(t *testing.T) {
	repo := newMockSettingRepo()
	svc := NewSettingService(repo)

	input := map[string]interface{}{
		"cache": map[string]interface{}{
			"ttl_seconds": 99999,
		},
		"ranking": map[string]interface{}{
			"salesperson_limit":     "25",
			"finance_manager_limit": -1,
		},
	}

	result, err := svc.Update(constants.SettingKeyReportConfig, input)
	if err != nil {
		t.Fatalf("update report config failed: %v", err)
	}

	cacheRaw, ok := result["cache"].(map[string]interface{})
	if !ok {
		t.Fatalf("invalid cache payload type: %T", result["cache"])
	}
	ranking, ok := result["ranking"].(map[string]interface{})
	if !ok {
		t.Fatalf("invalid ranking payload type: %T", result["ranking"])
	}

	assertSettingIntValue(t, cacheRaw, "ttl_seconds", 60)
	assertSettingIntValue(t, ranking, "salesperson_limit", 25)
	assertSettingIntValue(t, ranking, "finance_manager_limit", 10)
}

func TestGetReportSettingFallbackWhenMissing(t *testing.T) {
	svc := NewSettingService(newMockSettingRepo())

	setting, err := svc.GetReportSetting()
	if err != nil {
		t.Fatalf("get report setting failed: %v", err)
	}
	if setting != ReportDefaultSetting() {
		t.Fatalf("expected default report setting, got %+v", setting)
	}
}

func TestGetReportSettingAllowsZeroTTL(t *testing.T) {
	repo := newMockSettingRepo()
	svc := NewSettingService(repo)

	if _, err := svc.Update(constants.SettingKeyReportConfig, map[string]interface{}{
		"cache": map[string]interface{}{"ttl_seconds": 0},
	}); err != nil {
		t.Fatalf("update report config failed: %v", err)
	}
	setting, err := svc.GetReportSetting()
	if err != nil {
		t.Fatalf("get report setting failed: %v", err)
	}
	if setting.Cache.TTLSeconds != 0 {
		t.Fatalf("expected ttl 0 to disable cache, got %d", setting.Cache.TTLSeconds)
	}
}
