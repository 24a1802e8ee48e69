package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dealerdesk/internal/logger"
	"github.com/dealerdesk/internal/metrics"
	"github.com/dealerdesk/internal/payroll"
	"github.com/dealerdesk/internal/repository"

	"github.com/shopspring/decimal"
)

const aggregateColumnSalespersonName = "salesperson_name"

// PayrollService 薪酬明细服务
// 每次请求实时聚合成交与 spiff 数据并计算，结果不落库
type PayrollService struct {
	aggregateRepo   repository.SalesAggregateRepository
	salespersonRepo repository.SalespersonRepository
	settingService  *SettingService
}

// NewPayrollService 创建薪酬服务
func NewPayrollService(aggregateRepo repository.SalesAggregateRepository, salespersonRepo repository.SalespersonRepository, settingService *SettingService) *PayrollService {
	return &PayrollService{
		aggregateRepo:   aggregateRepo,
		salespersonRepo: salespersonRepo,
		settingService:  settingService,
	}
}

// PayrollStatement 销售顾问单周期薪酬单
type PayrollStatement struct {
	SalespersonID   uint                            `json:"salesperson_id"`
	SalespersonName string                          `json:"salesperson_name"`
	PayPlan         string                          `json:"pay_plan"`
	DemoEligible    bool                            `json:"demo_eligible"`
	BMWUnits        int                             `json:"bmw_units"`
	MINIUnits       int                             `json:"mini_units"`
	TotalUnits      int                             `json:"total_units"`
	FEGross         json.Number                     `json:"fe_gross"`
	BEGross         json.Number                     `json:"be_gross"`
	ProductTotals   map[payroll.Product]json.Number `json:"product_totals"`
	Breakdown       payroll.PayrollBreakdown        `json:"breakdown"`
}

// PayrollStatementSummary 薪酬单合计
type PayrollStatementSummary struct {
	Salespeople         int         `json:"salespeople"`
	TotalUnits          int         `json:"total_units"`
	UnitCommission      json.Number `json:"unit_commission"`
	ProductBonus        json.Number `json:"product_bonus"`
	DemoAllowance       json.Number `json:"demo_vehicle_allowance"`
	RewardsUpgradeBonus json.Number `json:"rewards_upgrade_bonus"`
	ApprovedSpiffAmount json.Number `json:"approved_spiff_amount"`
	PaidSpiffAmount     json.Number `json:"paid_spiff_amount"`
	TotalPay            json.Number `json:"total_pay"`
}

// PayrollStatementList 周期内薪酬单列表
type PayrollStatementList struct {
	Period     Period                  `json:"period"`
	Statements []PayrollStatement      `json:"statements"`
	Summary    PayrollStatementSummary `json:"summary"`
}

// GetStatement 获取单个销售顾问的周期薪酬单（含已停用人员）
func (s *PayrollService) GetStatement(ctx context.Context, salespersonID uint, period Period) (*PayrollStatement, error) {
	salesperson, err := s.salespersonRepo.GetByID(salespersonID)
	if err != nil {
		return nil, err
	}
	if salesperson == nil {
		return nil, ErrSalespersonNotFound
	}
	list, err := s.buildStatements(ctx, period, []uint{salespersonID})
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, ErrSalespersonNotFound
	}
	return &list[0], nil
}

// ListStatements 获取周期内全部在职销售顾问的薪酬单，没有成交的人员返回 0 值明细
// 任何一行计算失败则整体失败，不返回部分结果
func (s *PayrollService) ListStatements(ctx context.Context, period Period) (*PayrollStatementList, error) {
	statements, err := s.buildStatements(ctx, period, nil)
	if err != nil {
		return nil, err
	}
	return &PayrollStatementList{
		Period:     period,
		Statements: statements,
		Summary:    summarizeStatements(statements),
	}, nil
}

func (s *PayrollService) buildStatements(ctx context.Context, period Period, salespersonIDs []uint) ([]PayrollStatement, error) {
	calc, err := s.settingService.PayrollCalculator()
	if err != nil {
		metrics.RecordPayrollError("rules")
		return nil, err
	}
	rows, err := s.aggregateRepo.AggregateSalesPeriod(period.Start, period.End, salespersonIDs)
	if err != nil {
		return nil, err
	}

	statements := make([]PayrollStatement, 0, len(rows))
	for _, row := range rows {
		statement, err := buildPayrollStatement(calc, row)
		if err != nil {
			metrics.RecordPayrollError("configuration")
			logger.C(ctx,
				"salesperson_id", row[payroll.ColumnSalespersonID],
				"period", period.Label,
				"error", err,
			).Warnw("payroll_statement_failed")
			return nil, err
		}
		metrics.RecordPayrollStatement(statement.PayPlan)
		statements = append(statements, statement)
	}
	return statements, nil
}

func buildPayrollStatement(calc *payroll.Calculator, row map[string]interface{}) (PayrollStatement, error) {
	totals, err := payroll.TotalsFromAggregate(row)
	if err != nil {
		return PayrollStatement{}, wrapPayrollError(row, err)
	}
	breakdown, err := calc.BuildBreakdown(totals)
	if err != nil {
		return PayrollStatement{}, wrapPayrollError(row, err)
	}

	productTotals := make(map[payroll.Product]json.Number, len(totals.ProductTotals))
	for product, amount := range totals.ProductTotals {
		productTotals[product] = moneyNumber(amount)
	}
	name, _ := row[aggregateColumnSalespersonName].(string)

	return PayrollStatement{
		SalespersonID:   totals.SalespersonID,
		SalespersonName: name,
		PayPlan:         string(totals.PayPlan),
		DemoEligible:    totals.DemoEligible,
		BMWUnits:        totals.BMWUnits,
		MINIUnits:       totals.MINIUnits,
		TotalUnits:      totals.TotalUnits(),
		FEGross:         moneyNumber(totals.FEGross),
		BEGross:         moneyNumber(totals.BEGross),
		ProductTotals:   productTotals,
		Breakdown:       breakdown,
	}, nil
}

func wrapPayrollError(row map[string]interface{}, err error) error {
	var cfgErr *payroll.ConfigurationError
	if errors.As(err, &cfgErr) {
		return fmt.Errorf("salesperson %v: %w", row[payroll.ColumnSalespersonID], err)
	}
	return err
}

func summarizeStatements(statements []PayrollStatement) PayrollStatementSummary {
	units := 0
	unitCommission := decimal.Zero
	productBonus := decimal.Zero
	demo := decimal.Zero
	rewards := decimal.Zero
	approved := decimal.Zero
	paid := decimal.Zero
	total := decimal.Zero
	for _, item := range statements {
		b := item.Breakdown
		units += b.TotalUnits
		unitCommission = unitCommission.Add(b.UnitCommission)
		productBonus = productBonus.Add(b.ProductBonus)
		demo = demo.Add(b.DemoVehicleAllowance)
		rewards = rewards.Add(b.RewardsUpgradeBonus)
		approved = approved.Add(b.ApprovedSpiffAmount)
		paid = paid.Add(b.PaidSpiffAmount)
		total = total.Add(b.TotalPay)
	}
	return PayrollStatementSummary{
		Salespeople:         len(statements),
		TotalUnits:          units,
		UnitCommission:      moneyNumber(unitCommission),
		ProductBonus:        moneyNumber(productBonus),
		DemoAllowance:       moneyNumber(demo),
		RewardsUpgradeBonus: moneyNumber(rewards),
		ApprovedSpiffAmount: moneyNumber(approved),
		PaidSpiffAmount:     moneyNumber(paid),
		TotalPay:            moneyNumber(total),
	}
}

func moneyNumber(value decimal.Decimal) json.Number {
	return json.Number(value.StringFixed(2))
}
