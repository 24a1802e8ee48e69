package i18n

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestNormalizeLocale(t *testing.T) {
	cases := []struct {
		raw  string
		want string
	}{
		{"", LocaleEN},
		{"zh-CN", LocaleZH},
		{"zh-CN,zh;q=0.9,en;q=0.8", LocaleZH},
		{"en-US,en;q=0.9", LocaleEN},
		{"fr-FR", LocaleEN},
		{";;;", LocaleEN},
	}
	for _, tc := range cases {
		if got := NormalizeLocale(tc.raw); got != tc.want {
			t.Fatalf("NormalizeLocale(%q)=%s want %s", tc.raw, got, tc.want)
		}
	}
}

func TestResolveLocalePrefersHeader(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("GET", "/", nil)
	c.Request.Header.Set("Accept-Language", "en-US")
	c.Request.Header.Set("X-Locale", "zh-CN")

	if got := ResolveLocale(c); got != LocaleZH {
		t.Fatalf("expected zh-CN got %s", got)
	}
	if got := ResolveLocale(nil); got != DefaultLocale {
		t.Fatalf("nil context should use default, got %s", got)
	}
}

func TestTranslateFallback(t *testing.T) {
	if got := T(LocaleZH, "error.unauthorized"); got == "" || got == "error.unauthorized" {
		t.Fatalf("missing zh translation: %q", got)
	}
	if got := T("de-DE", "error.unauthorized"); got != messages[LocaleEN]["error.unauthorized"] {
		t.Fatalf("unknown locale should fall back to english, got %q", got)
	}
	if got := T(LocaleEN, "error.unknown_key"); got != "error.unknown_key" {
		t.Fatalf("unknown key should echo key, got %q", got)
	}
	if got := Sprintf(LocaleEN, "error.password_min_length", 10); got != "Password must be at least 10 characters" {
		t.Fatalf("unexpected formatted message: %q", got)
	}
}

func TestLocalesShareKeys(t *testing.T) {
	for key := range messages[LocaleEN] {
		if _, ok := messages[LocaleZH][key]; !ok {
			t.Fatalf("zh-CN missing key %s", key)
		}
	}
}
