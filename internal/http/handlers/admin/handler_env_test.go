package admin

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/dealerdesk/internal/authz"
	"github.com/dealerdesk/internal/config"
	"github.com/dealerdesk/internal/models"
	"github.com/dealerdesk/internal/provider"
	"github.com/dealerdesk/internal/repository"
	"github.com/dealerdesk/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

const testOperatorID uint = 1

type adminTestEnv struct {
	handler *Handler
	engine  *gin.Engine
	db      *gorm.DB
}

type apiResponse struct {
	StatusCode int             `json:"status_code"`
	Msg        string          `json:"msg"`
	Data       json.RawMessage `json:"data"`
	Pagination struct {
		Total int64 `json:"total"`
	} `json:"pagination"`
}

func setupAdminHandlerTest(t *testing.T) *adminTestEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(
		&models.Admin{},
		&models.AuditLog{},
		&models.Setting{},
		&models.Salesperson{},
		&models.FinanceManager{},
		&models.Deal{},
		&models.DealProduct{},
		&models.Spiff{},
		&models.PayrollExport{},
	); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}

	cfg := &config.Config{}
	cfg.JWT.SecretKey = "handler-test-secret-0123456789abcdef"
	cfg.JWT.ExpireHours = 1
	cfg.Export.Dir = t.TempDir()
	cfg.Payroll.Timezone = "UTC"

	authzService, err := authz.NewService(db)
	if err != nil {
		t.Fatalf("new authz service failed: %v", err)
	}

	c := &provider.Container{
		Config:             cfg,
		AdminRepo:          repository.NewAdminRepository(db),
		SettingRepo:        repository.NewSettingRepository(db),
		AuditLogRepo:       repository.NewAuditLogRepository(db),
		SalespersonRepo:    repository.NewSalespersonRepository(db),
		FinanceManagerRepo: repository.NewFinanceManagerRepository(db),
		DealRepo:           repository.NewDealRepository(db),
		SpiffRepo:          repository.NewSpiffRepository(db),
		SalesAggregateRepo: repository.NewSalesAggregateRepository(db),
		ReportRepo:         repository.NewReportRepository(db),
		PayrollExportRepo:  repository.NewPayrollExportRepository(db),
		AuthzService:       authzService,
	}
	c.SettingService = service.NewSettingService(c.SettingRepo)
	c.AuthService = service.NewAuthService(cfg, c.AdminRepo)
	c.AuditService = service.NewAuditService(c.AuditLogRepo)
	c.SalespersonService = service.NewSalespersonService(c.SalespersonRepo, c.DealRepo, c.SpiffRepo)
	c.FinanceManagerService = service.NewFinanceManagerService(c.FinanceManagerRepo, c.DealRepo)
	c.DealService = service.NewDealService(c.DealRepo, c.SalespersonRepo, c.FinanceManagerRepo, c.SettingService)
	c.SpiffService = service.NewSpiffService(c.SpiffRepo, c.SalespersonRepo, c.DealRepo)
	c.PayrollService = service.NewPayrollService(c.SalesAggregateRepo, c.SalespersonRepo, c.SettingService)
	c.PayrollExportService = service.NewPayrollExportService(c.PayrollExportRepo, c.PayrollService, nil, cfg.Export)
	c.ReportService = service.NewReportService(c.ReportRepo, c.SettingService)

	h := New(c)
	r := gin.New()
	r.POST("/admin/login", h.AdminLogin)

	authorized := r.Group("/admin")
	authorized.Use(func(ctx *gin.Context) {
		ctx.Set("admin_id", testOperatorID)
		ctx.Set("username", "tester")
		ctx.Set("request_id", "req-test")
		ctx.Next()
	})
	authorized.GET("/me", h.GetAdminProfile)
	authorized.GET("/salespeople", h.ListSalespeople)
	authorized.POST("/salespeople", h.CreateSalesperson)
	authorized.DELETE("/salespeople/:id", h.DeleteSalesperson)
	authorized.POST("/deals", h.CreateDeal)
	authorized.POST("/deals/:id/unwind", h.UnwindDeal)
	authorized.POST("/spiffs", h.CreateSpiff)
	authorized.POST("/spiffs/:id/transition", h.TransitionSpiff)
	authorized.GET("/payroll/statements", h.ListPayrollStatements)
	authorized.GET("/payroll/statements/:id", h.GetPayrollStatement)
	authorized.POST("/payroll/exports", h.CreatePayrollExport)
	authorized.GET("/payroll/exports/:job_id", h.GetPayrollExport)
	authorized.POST("/calculators/avp", h.CalculateAVP)
	authorized.POST("/calculators/gross", h.CalculateGross)
	authorized.POST("/calculators/payroll", h.PreviewPayroll)
	authorized.PUT("/settings/payroll", h.UpdatePayrollSettings)
	authorized.GET("/audit-logs", h.ListAuditLogs)
	authorized.POST("/authz/admins", h.CreateAuthzAdmin)
	authorized.PUT("/authz/admins/:id", h.UpdateAuthzAdmin)
	authorized.DELETE("/authz/admins/:id", h.DeleteAuthzAdmin)
	authorized.DELETE("/authz/roles/:role", h.DeleteAuthzRole)
	authorized.DELETE("/authz/policies", h.RevokeAuthzPolicy)

	return &adminTestEnv{handler: h, engine: r, db: db}
}

func (env *adminTestEnv) do(t *testing.T, method, path string, body interface{}) apiResponse {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body failed: %v", err)
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	env.engine.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("%s %s http status want 200 got %d", method, path, w.Code)
	}
	var resp apiResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response failed: %v, body=%s", err, w.Body.String())
	}
	return resp
}

func (env *adminTestEnv) createSalesperson(t *testing.T, name, plan string) uint {
	t.Helper()
	resp := env.do(t, http.MethodPost, "/admin/salespeople", gin.H{"name": name, "pay_plan": plan})
	if resp.StatusCode != 0 {
		t.Fatalf("create salesperson status_code want 0 got %d (%s)", resp.StatusCode, resp.Msg)
	}
	var person models.Salesperson
	if err := json.Unmarshal(resp.Data, &person); err != nil {
		t.Fatalf("decode salesperson failed: %v", err)
	}
	return person.ID
}

func countAuditLogs(t *testing.T, db *gorm.DB, action string) int64 {
	t.Helper()
	var count int64
	if err := db.Model(&models.AuditLog{}).Where("action = ?", action).Count(&count).Error; err != nil {
		t.Fatalf("count audit logs failed: %v", err)
	}
	return count
}
