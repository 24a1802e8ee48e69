package service

import (
	"fmt"
	"strings"
	"testing"

	"github.com/dealerdesk/internal/config"
	"github.com/dealerdesk/internal/models"
	"github.com/dealerdesk/internal/queue"
	"github.com/dealerdesk/internal/repository"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type payrollTestEnv struct {
	db             *gorm.DB
	settings       *SettingService
	salespeople    *SalespersonService
	financeManager *FinanceManagerService
	deals          *DealService
	spiffs         *SpiffService
	payroll        *PayrollService
	exports        *PayrollExportService
	reports        *ReportService
}

func setupPayrollTestEnv(t *testing.T) *payrollTestEnv {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(
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
	models.DB = db

	salespersonRepo := repository.NewSalespersonRepository(db)
	financeManagerRepo := repository.NewFinanceManagerRepository(db)
	dealRepo := repository.NewDealRepository(db)
	spiffRepo := repository.NewSpiffRepository(db)

	settingSvc := NewSettingService(repository.NewSettingRepository(db))
	queueClient, err := queue.NewClient(&config.QueueConfig{Enabled: false})
	if err != nil {
		t.Fatalf("create queue client failed: %v", err)
	}
	payrollSvc := NewPayrollService(repository.NewSalesAggregateRepository(db), salespersonRepo, settingSvc)
	exportSvc := NewPayrollExportService(
		repository.NewPayrollExportRepository(db),
		payrollSvc,
		queueClient,
		config.ExportConfig{Dir: t.TempDir(), RetentionHours: 1},
	)
	return &payrollTestEnv{
		db:             db,
		settings:       settingSvc,
		salespeople:    NewSalespersonService(salespersonRepo, dealRepo, spiffRepo),
		financeManager: NewFinanceManagerService(financeManagerRepo, dealRepo),
		deals:          NewDealService(dealRepo, salespersonRepo, financeManagerRepo, settingSvc),
		spiffs:         NewSpiffService(spiffRepo, salespersonRepo, dealRepo),
		payroll:        payrollSvc,
		exports:        exportSvc,
		reports:        NewReportService(repository.NewReportRepository(db), settingSvc),
	}
}

func (env *payrollTestEnv) createSalesperson(t *testing.T, name, plan string, demoEligible bool) *models.Salesperson {
	t.Helper()
	person, err := env.salespeople.Create(SalespersonInput{
		Name:         name,
		PayPlan:      plan,
		DemoEligible: &demoEligible,
	})
	if err != nil {
		t.Fatalf("create salesperson %s failed: %v", name, err)
	}
	return person
}

func dec(value string) decimal.Decimal {
	return decimal.RequireFromString(value)
}

func assertDecimal(t *testing.T, label string, got decimal.Decimal, want string) {
	t.Helper()
	if !got.Equal(dec(want)) {
		t.Fatalf("%s: want %s got %s", label, want, got.String())
	}
}
