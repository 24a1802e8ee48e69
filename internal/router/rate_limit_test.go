package router

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/dealerdesk/internal/config"

	"github.com/gin-gonic/gin"
)

func TestAdminLoginRateLimitRule(t *testing.T) {
	cfg := &config.Config{}
	cfg.Security.LoginRateLimit = config.LoginRateLimitConfig{WindowSeconds: 300, MaxAttempts: 5, BlockSeconds: 900}

	rule := adminLoginRateLimitRule(cfg)
	if rule.Prefix != "dd:rate:admin_login" {
		t.Fatalf("default prefix want dd:rate:admin_login got %s", rule.Prefix)
	}
	if rule.WindowSeconds != 300 || rule.MaxRequests != 5 || rule.BlockSeconds != 900 {
		t.Fatalf("rule should mirror login rate limit config, got %+v", rule)
	}
	if rule.MessageKey != "error.login_too_many" {
		t.Fatalf("message key want error.login_too_many got %s", rule.MessageKey)
	}

	cfg.Redis.Prefix = " lotdesk "
	if got := adminLoginRateLimitRule(cfg).Prefix; got != "lotdesk:rate:admin_login" {
		t.Fatalf("custom prefix want lotdesk:rate:admin_login got %s", got)
	}
}

func TestLoginKeyByUsernameAndIP(t *testing.T) {
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/api/v1/admin/login", strings.NewReader(`{"username":" Payroll.Admin ","password":"secret"}`))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Request.RemoteAddr = "10.0.0.8:5678"

	key := KeyByIPAndJSONField("username")(c)
	if key != "payroll.admin|10.0.0.8" {
		t.Fatalf("key want payroll.admin|10.0.0.8 got %s", key)
	}

	// 登录处理器仍需读取完整请求体
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		t.Fatalf("read body after key extraction failed: %v", err)
	}
	if !strings.Contains(string(body), `"password":"secret"`) {
		t.Fatalf("request body should be restored, got %s", body)
	}
}

func TestLoginKeyFallsBackToIP(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cases := map[string]string{
		"empty body":       ``,
		"invalid json":     `{"username":`,
		"non string field": `{"username":42}`,
		"blank username":   `{"username":"   "}`,
	}
	for name, payload := range cases {
		t.Run(name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodPost, "/api/v1/admin/login", strings.NewReader(payload))
			c.Request.RemoteAddr = "10.0.0.9:1234"
			if key := KeyByIPAndJSONField("username")(c); key != "10.0.0.9" {
				t.Fatalf("key want 10.0.0.9 got %s", key)
			}
		})
	}
}

func TestRateLimitMiddlewarePassThroughWhenDisabled(t *testing.T) {
	gin.SetMode(gin.TestMode)

	rules := map[string]RateLimitRule{
		"no redis":    {Prefix: "dd:rate:admin_login", WindowSeconds: 60, MaxRequests: 1},
		"zero window": {Prefix: "dd:rate:admin_login", MaxRequests: 1},
	}
	for name, rule := range rules {
		t.Run(name, func(t *testing.T) {
			r := gin.New()
			r.POST("/api/v1/admin/login", RateLimitMiddleware(nil, rule, KeyByIPAndJSONField("username")), func(c *gin.Context) {
				c.JSON(http.StatusOK, gin.H{"status_code": 0})
			})
			for i := 0; i < 3; i++ {
				w := httptest.NewRecorder()
				req := httptest.NewRequest(http.MethodPost, "/api/v1/admin/login", strings.NewReader(`{"username":"desk"}`))
				r.ServeHTTP(w, req)
				if !strings.Contains(w.Body.String(), `"status_code":0`) {
					t.Fatalf("attempt %d should reach login handler, got %s", i, w.Body.String())
				}
			}
		})
	}
}

func TestToInt64RedisReplies(t *testing.T) {
	cases := []struct {
		name  string
		input interface{}
		want  int64
		ok    bool
	}{
		{name: "blocked marker", input: int64(-1), want: -1, ok: true},
		{name: "ttl int", input: int(900), want: 900, ok: true},
		{name: "uint counter", input: uint32(6), want: 6, ok: true},
		{name: "float ttl", input: float64(299.7), want: 299, ok: true},
		{name: "status string", input: "OK", want: 0, ok: false},
		{name: "nil", input: nil, want: 0, ok: false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := toInt64(tc.input)
			if ok != tc.ok || got != tc.want {
				t.Fatalf("want (%d,%v) got (%d,%v)", tc.want, tc.ok, got, ok)
			}
		})
	}
}
