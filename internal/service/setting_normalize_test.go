package service

import (
	"testing"

	"github.com/dealerdesk/internal/models"
)

type mockSettingRepo struct {
	store map[string]models.JSON
}

func newMockSettingRepo() *mockSettingRepo {
	return &mockSettingRepo{store: map[string]models.JSON{}}
}

func (m *mockSettingRepo) GetByKey(key string) (*models.Setting, error) {
	value, ok := m.store[key]
	if !ok {
		return nil, nil
	}
	return &models.Setting{Key: key, ValueJSON: value}, nil
}

func (m *mockSettingRepo) Upsert(key string, value models.JSON) (*models.Setting, error) {
	m.store[key] = value
	return &models.Setting{Key: key, ValueJSON: value}, nil
}

func TestUpdateUnknownSettingKeyKeepsValue(t *testing.T) {
	repo := newMockSettingRepo()
	svc := NewSettingService(repo)

	result, err := svc.Update("ui_config", map[string]interface{}{"theme": "dark"})
	if err != nil {
		t.Fatalf("update ui config failed: %v", err)
	}
	if result["theme"] != "dark" {
		t.Fatalf("unexpected theme: %v", result["theme"])
	}
}

func TestParseSettingBool(t *testing.T) {
	cases := []struct {
		raw      interface{}
		expected bool
	}{
		{true, true},
		{false, false},
		{1, true},
		{int64(0), false},
		{float64(2), true},
		{" Yes ", true},
		{"on", true},
		{"off", false},
		{nil, false},
	}
	for _, tc := range cases {
		if got := parseSettingBool(tc.raw); got != tc.expected {
			t.Fatalf("parseSettingBool(%v) expected %v got %v", tc.raw, tc.expected, got)
		}
	}
}

func assertSettingIntValue(t *testing.T, data map[string]interface{}, key string, expected int) {
	t.Helper()
	value, exists := data[key]
	if !exists {
		t.Fatalf("missing key %s", key)
	}
	parsed, err := parseSettingInt(value)
	if err != nil {
		t.Fatalf("parse key %s failed: %v", key, err)
	}
	if parsed != expected {
		t.Fatalf("unexpected value for %s, expected %d got %d", key, expected, parsed)
	}
}
