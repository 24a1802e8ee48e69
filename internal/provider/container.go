package provider

import (
	"github.com/dealerdesk/internal/authz"
	"github.com/dealerdesk/internal/cache"
	"github.com/dealerdesk/internal/config"
	"github.com/dealerdesk/internal/logger"
	"github.com/dealerdesk/internal/models"
	"github.com/dealerdesk/internal/queue"
	"github.com/dealerdesk/internal/repository"
	"github.com/dealerdesk/internal/service"
)

// Container 依赖注入容器
type Container struct {
	Config      *config.Config
	QueueClient *queue.Client

	// Repositories
	AdminRepo          repository.AdminRepository
	SettingRepo        repository.SettingRepository
	AuditLogRepo       repository.AuditLogRepository
	SalespersonRepo    repository.SalespersonRepository
	FinanceManagerRepo repository.FinanceManagerRepository
	DealRepo           repository.DealRepository
	SpiffRepo          repository.SpiffRepository
	SalesAggregateRepo repository.SalesAggregateRepository
	ReportRepo         repository.ReportRepository
	PayrollExportRepo  repository.PayrollExportRepository

	// Services
	AuthzService          *authz.Service
	AuthService           *service.AuthService
	SettingService        *service.SettingService
	AuditService          *service.AuditService
	SalespersonService    *service.SalespersonService
	FinanceManagerService *service.FinanceManagerService
	DealService           *service.DealService
	SpiffService          *service.SpiffService
	PayrollService        *service.PayrollService
	PayrollExportService  *service.PayrollExportService
	ReportService         *service.ReportService
}

// NewContainer 初始化容器
func NewContainer(cfg *config.Config) *Container {
	// 初始化缓存
	if err := cache.InitRedis(&cfg.Redis); err != nil {
		logger.Warnw("provider_init_redis_failed", "error", err)
	}

	// 初始化队列客户端
	var queueClient *queue.Client
	if cfg.Queue.Enabled {
		qc, err := queue.NewClient(&cfg.Queue)
		if err != nil {
			logger.Errorw("provider_init_queue_client_failed", "error", err)
		} else {
			queueClient = qc
		}
	}

	c := &Container{
		Config:      cfg,
		QueueClient: queueClient,
	}

	c.initRepositories()
	c.initServices()

	return c
}

func (c *Container) initRepositories() {
	db := models.DB
	c.AdminRepo = repository.NewAdminRepository(db)
	c.SettingRepo = repository.NewSettingRepository(db)
	c.AuditLogRepo = repository.NewAuditLogRepository(db)
	c.SalespersonRepo = repository.NewSalespersonRepository(db)
	c.FinanceManagerRepo = repository.NewFinanceManagerRepository(db)
	c.DealRepo = repository.NewDealRepository(db)
	c.SpiffRepo = repository.NewSpiffRepository(db)
	c.SalesAggregateRepo = repository.NewSalesAggregateRepository(db)
	c.ReportRepo = repository.NewReportRepository(db)
	c.PayrollExportRepo = repository.NewPayrollExportRepository(db)
}

func (c *Container) initServices() {
	authzService, err := authz.NewService(models.DB)
	if err != nil {
		logger.Errorw("provider_init_authz_failed", "error", err)
		panic(err)
	}
	c.AuthzService = authzService
	if err := c.AuthzService.BootstrapBuiltinRoles(); err != nil {
		logger.Errorw("provider_bootstrap_builtin_roles_failed", "error", err)
		panic(err)
	}

	c.SettingService = service.NewSettingService(c.SettingRepo)
	payrollDefaults, err := service.PayrollRulesFromConfig(c.Config.Payroll)
	if err != nil {
		logger.Errorw("provider_payroll_config_invalid", "error", err)
		panic(err)
	}
	c.SettingService.SetPayrollDefaults(payrollDefaults)
	if _, err := c.SettingService.GetPayrollRules(); err != nil {
		// 已保存的规则异常不阻断启动，计算时返回配置错误
		logger.Warnw("provider_load_payroll_rules_failed", "error", err)
	}

	c.AuthService = service.NewAuthService(c.Config, c.AdminRepo)
	c.AuditService = service.NewAuditService(c.AuditLogRepo)
	c.SalespersonService = service.NewSalespersonService(c.SalespersonRepo, c.DealRepo, c.SpiffRepo)
	c.FinanceManagerService = service.NewFinanceManagerService(c.FinanceManagerRepo, c.DealRepo)
	c.DealService = service.NewDealService(c.DealRepo, c.SalespersonRepo, c.FinanceManagerRepo, c.SettingService)
	c.SpiffService = service.NewSpiffService(c.SpiffRepo, c.SalespersonRepo, c.DealRepo)
	c.PayrollService = service.NewPayrollService(c.SalesAggregateRepo, c.SalespersonRepo, c.SettingService)
	c.PayrollExportService = service.NewPayrollExportService(c.PayrollExportRepo, c.PayrollService, c.QueueClient, c.Config.Export)
	c.ReportService = service.NewReportService(c.ReportRepo, c.SettingService)
}
