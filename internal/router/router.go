package router

import (
	"fmt"
	"sort"
	"strings"

	"github.com/dealerdesk/internal/authz"
	"github.com/dealerdesk/internal/cache"
	"github.com/dealerdesk/internal/config"
	adminhandlers "github.com/dealerdesk/internal/http/handlers/admin"
	"github.com/dealerdesk/internal/http/response"
	"github.com/dealerdesk/internal/logger"
	"github.com/dealerdesk/internal/metrics"
	"github.com/dealerdesk/internal/models"
	"github.com/dealerdesk/internal/provider"

	"github.com/gin-gonic/gin"
)

// SetupRouter 初始化路由
func SetupRouter(cfg *config.Config, c *provider.Container) *gin.Engine {
	log := logger.L
	if log == nil {
		log = logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	}
	r := gin.New()

	adminHandler := adminhandlers.New(c)
	redisClient := cache.Client()
	adminLoginRule := adminLoginRateLimitRule(cfg)

	// 中间件
	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())
	r.Use(LoggerMiddleware(log))
	r.Use(CORSMiddleware(cfg.CORS))
	if cfg.Metrics.Enabled {
		r.Use(metrics.Middleware())
		metricsPath := strings.TrimSpace(cfg.Metrics.Path)
		if metricsPath == "" {
			metricsPath = "/metrics"
		}
		r.GET(metricsPath, metrics.Handler())
	}

	apiV1 := r.Group("/api/v1")
	{
		admin := apiV1.Group("/admin")
		{
			// 登录接口（无需鉴权）
			admin.POST("/login", RateLimitMiddleware(redisClient, adminLoginRule, KeyByIPAndJSONField("username")), adminHandler.AdminLogin)

			authorized := admin.Use(JWTAuthMiddleware(cfg.JWT.SecretKey, c.AdminRepo), AdminRBACMiddleware(c.AuthzService))
			{
				// 当前管理员
				authorized.GET("/me", adminHandler.GetAdminProfile)
				authorized.PUT("/password", adminHandler.UpdateAdminPassword)

				// 销售顾问与金融经理
				authorized.GET("/salespeople", adminHandler.ListSalespeople)
				authorized.GET("/salespeople/:id", adminHandler.GetSalesperson)
				authorized.POST("/salespeople", adminHandler.CreateSalesperson)
				authorized.PUT("/salespeople/:id", adminHandler.UpdateSalesperson)
				authorized.DELETE("/salespeople/:id", adminHandler.DeleteSalesperson)
				authorized.GET("/finance-managers", adminHandler.ListFinanceManagers)
				authorized.GET("/finance-managers/:id", adminHandler.GetFinanceManager)
				authorized.POST("/finance-managers", adminHandler.CreateFinanceManager)
				authorized.PUT("/finance-managers/:id", adminHandler.UpdateFinanceManager)
				authorized.DELETE("/finance-managers/:id", adminHandler.DeleteFinanceManager)

				// 成交
				authorized.GET("/deals", adminHandler.ListDeals)
				authorized.GET("/deals/:id", adminHandler.GetDeal)
				authorized.POST("/deals", adminHandler.CreateDeal)
				authorized.PUT("/deals/:id", adminHandler.UpdateDeal)
				authorized.POST("/deals/:id/unwind", adminHandler.UnwindDeal)
				authorized.DELETE("/deals/:id", adminHandler.DeleteDeal)

				// Spiff
				authorized.GET("/spiffs", adminHandler.ListSpiffs)
				authorized.GET("/spiffs/:id", adminHandler.GetSpiff)
				authorized.POST("/spiffs", adminHandler.CreateSpiff)
				authorized.PUT("/spiffs/:id", adminHandler.UpdateSpiff)
				authorized.DELETE("/spiffs/:id", adminHandler.DeleteSpiff)
				authorized.POST("/spiffs/:id/transition", adminHandler.TransitionSpiff)

				// 薪酬
				authorized.GET("/payroll/statements", adminHandler.ListPayrollStatements)
				authorized.GET("/payroll/statements/:id", adminHandler.GetPayrollStatement)
				authorized.GET("/payroll/workbook", adminHandler.DownloadPayrollWorkbook)
				authorized.POST("/payroll/exports", adminHandler.CreatePayrollExport)
				authorized.GET("/payroll/exports", adminHandler.ListPayrollExports)
				authorized.GET("/payroll/exports/:job_id", adminHandler.GetPayrollExport)
				authorized.GET("/payroll/exports/:job_id/download", adminHandler.DownloadPayrollExport)

				// 试算
				authorized.POST("/calculators/avp", adminHandler.CalculateAVP)
				authorized.POST("/calculators/gross", adminHandler.CalculateGross)
				authorized.POST("/calculators/payroll", adminHandler.PreviewPayroll)

				// 报表
				authorized.GET("/reports/summary", adminHandler.GetReportSummary)
				authorized.GET("/reports/trends", adminHandler.GetReportTrends)
				authorized.GET("/reports/rankings", adminHandler.GetReportRankings)

				// 设置
				authorized.GET("/settings/payroll", adminHandler.GetPayrollSettings)
				authorized.PUT("/settings/payroll", adminHandler.UpdatePayrollSettings)
				authorized.DELETE("/settings/payroll", adminHandler.ResetPayrollSettings)
				authorized.GET("/settings/report", adminHandler.GetReportSettings)
				authorized.PUT("/settings/report", adminHandler.UpdateReportSettings)

				// 审计日志
				authorized.GET("/audit-logs", adminHandler.ListAuditLogs)

				// 权限管理
				authorized.GET("/authz/me", adminHandler.GetAuthzMe)
				authorized.GET("/authz/roles", adminHandler.ListAuthzRoles)
				authorized.GET("/authz/admins", adminHandler.ListAuthzAdmins)
				authorized.POST("/authz/admins", adminHandler.CreateAuthzAdmin)
				authorized.PUT("/authz/admins/:id", adminHandler.UpdateAuthzAdmin)
				authorized.DELETE("/authz/admins/:id", adminHandler.DeleteAuthzAdmin)
				authorized.GET("/authz/permissions/catalog", func(ctx *gin.Context) {
					response.Success(ctx, buildAdminPermissionCatalog(r))
				})
				authorized.POST("/authz/roles", adminHandler.CreateAuthzRole)
				authorized.DELETE("/authz/roles/:role", adminHandler.DeleteAuthzRole)
				authorized.GET("/authz/roles/:role/policies", adminHandler.GetAuthzRolePolicies)
				authorized.POST("/authz/policies", adminHandler.GrantAuthzPolicy)
				authorized.DELETE("/authz/policies", adminHandler.RevokeAuthzPolicy)
				authorized.GET("/authz/admins/:id/roles", adminHandler.GetAuthzAdminRoles)
				authorized.PUT("/authz/admins/:id/roles", adminHandler.SetAuthzAdminRoles)
			}
		}
	}

	// 健康检查
	r.GET("/health", healthHandler)
	r.GET("/healthz", healthHandler)

	return r
}

// adminLoginRateLimitRule 登录限流规则，按 用户名|IP 计数
func adminLoginRateLimitRule(cfg *config.Config) RateLimitRule {
	redisPrefix := strings.TrimSpace(cfg.Redis.Prefix)
	if redisPrefix == "" {
		redisPrefix = "dd"
	}
	return RateLimitRule{
		Prefix:        fmt.Sprintf("%s:rate:admin_login", redisPrefix),
		WindowSeconds: cfg.Security.LoginRateLimit.WindowSeconds,
		MaxRequests:   cfg.Security.LoginRateLimit.MaxAttempts,
		BlockSeconds:  cfg.Security.LoginRateLimit.BlockSeconds,
		MessageKey:    "error.login_too_many",
	}
}

func healthHandler(c *gin.Context) {
	if err := models.Ping(c.Request.Context()); err != nil {
		logger.Warnw("health_check_database_failed", "error", err)
		c.JSON(503, gin.H{"status": "degraded", "database": "unavailable"})
		return
	}
	c.JSON(200, gin.H{"status": "ok", "database": "ok", "cache": cache.Enabled()})
}

type adminPermissionCatalogItem struct {
	Module     string `json:"module"`
	Method     string `json:"method"`
	Object     string `json:"object"`
	Permission string `json:"permission"`
}

func buildAdminPermissionCatalog(engine *gin.Engine) []adminPermissionCatalogItem {
	if engine == nil {
		return []adminPermissionCatalogItem{}
	}

	routes := engine.Routes()
	seen := make(map[string]struct{}, len(routes))
	items := make([]adminPermissionCatalogItem, 0, len(routes))

	for _, item := range routes {
		method := strings.ToUpper(strings.TrimSpace(item.Method))
		if method == "" || method == "OPTIONS" || method == "HEAD" {
			continue
		}
		if !strings.HasPrefix(item.Path, "/api/v1/admin/") {
			continue
		}
		if item.Path == "/api/v1/admin/login" {
			continue
		}
		object := authz.NormalizeObject(item.Path)
		permission := method + ":" + object
		if _, exists := seen[permission]; exists {
			continue
		}
		seen[permission] = struct{}{}
		items = append(items, adminPermissionCatalogItem{
			Module:     deriveAdminPermissionModule(object),
			Method:     method,
			Object:     object,
			Permission: permission,
		})
	}

	sort.Slice(items, func(i, j int) bool {
		if items[i].Module == items[j].Module {
			if items[i].Object == items[j].Object {
				return items[i].Method < items[j].Method
			}
			return items[i].Object < items[j].Object
		}
		return items[i].Module < items[j].Module
	})

	return items
}

func deriveAdminPermissionModule(object string) string {
	normalized := strings.TrimPrefix(strings.TrimSpace(object), "/")
	if normalized == "" {
		return "system"
	}
	segments := strings.Split(normalized, "/")
	if len(segments) <= 1 {
		return segments[0]
	}
	if segments[0] != "admin" {
		return segments[0]
	}
	if segments[1] == "authz" {
		return "authz"
	}
	return segments[1]
}
