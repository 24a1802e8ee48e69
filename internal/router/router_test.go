package router

import (
	"testing"

	"github.com/gin-gonic/gin"
)

func TestDeriveAdminPermissionModule(t *testing.T) {
	cases := map[string]string{
		"":                            "system",
		"/admin/deals/:id":            "deals",
		"/admin/authz/roles/:role":    "authz",
		"/admin/payroll/exports/:job": "payroll",
		"/metrics":                    "metrics",
	}
	for object, want := range cases {
		if got := deriveAdminPermissionModule(object); got != want {
			t.Fatalf("module for %q want %s got %s", object, want, got)
		}
	}
}

func TestBuildAdminPermissionCatalogSkipsLogin(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	noop := func(c *gin.Context) {}
	r.POST("/api/v1/admin/login", noop)
	r.GET("/api/v1/admin/deals", noop)
	r.POST("/api/v1/admin/deals", noop)
	r.POST("/api/v1/admin/spiffs/:id/transition", noop)
	r.GET("/health", noop)

	items := buildAdminPermissionCatalog(r)
	if len(items) != 3 {
		t.Fatalf("catalog size want 3 got %d: %+v", len(items), items)
	}
	for _, item := range items {
		if item.Object == "/admin/login" {
			t.Fatalf("login route should not be listed")
		}
	}
	if items[0].Module != "deals" || items[0].Method != "GET" {
		t.Fatalf("catalog should be sorted by module/object/method, got %+v", items[0])
	}
	if items[2].Module != "spiffs" {
		t.Fatalf("last module want spiffs got %s", items[2].Module)
	}
}
