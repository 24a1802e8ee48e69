package service

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dealerdesk/internal/config"
	"github.com/dealerdesk/internal/constants"
	"github.com/dealerdesk/internal/logger"
	"github.com/dealerdesk/internal/metrics"
	"github.com/dealerdesk/internal/models"
	"github.com/dealerdesk/internal/payroll"
	"github.com/dealerdesk/internal/queue"
	"github.com/dealerdesk/internal/repository"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

const (
	payrollSheetName      = "Payroll"
	payrollProductsSheet  = "Products"
	exportCleanupBatch    = 100
	exportErrorMaxRuneLen = 1000
)

// PayrollExportService 薪酬报表导出服务
// 同步导出直接返回 xlsx 内容；异步导出写入 export.dir/<job_id>.xlsx
type PayrollExportService struct {
	repo           repository.PayrollExportRepository
	payrollService *PayrollService
	queueClient    *queue.Client
	cfg            config.ExportConfig
}

// NewPayrollExportService 创建导出服务
func NewPayrollExportService(repo repository.PayrollExportRepository, payrollService *PayrollService, queueClient *queue.Client, cfg config.ExportConfig) *PayrollExportService {
	if strings.TrimSpace(cfg.Dir) == "" {
		cfg.Dir = "./exports"
	}
	if cfg.RetentionHours <= 0 {
		cfg.RetentionHours = 72
	}
	if cfg.TaskTimeoutSeconds <= 0 {
		cfg.TaskTimeoutSeconds = 120
	}
	if cfg.TaskMaxRetry < 0 {
		cfg.TaskMaxRetry = 0
	}
	return &PayrollExportService{
		repo:           repo,
		payrollService: payrollService,
		queueClient:    queueClient,
		cfg:            cfg,
	}
}

// RenderWorkbook 同步生成薪酬报表
func (s *PayrollExportService) RenderWorkbook(ctx context.Context, period Period) ([]byte, string, error) {
	list, err := s.payrollService.ListStatements(ctx, period)
	if err != nil {
		metrics.RecordPayrollExport("sync", constants.ExportStatusFailed)
		return nil, "", err
	}
	xl, err := BuildPayrollWorkbook(list)
	if err != nil {
		metrics.RecordPayrollExport("sync", constants.ExportStatusFailed)
		return nil, "", err
	}
	defer func() { _ = xl.Close() }()

	buf, err := xl.WriteToBuffer()
	if err != nil {
		metrics.RecordPayrollExport("sync", constants.ExportStatusFailed)
		return nil, "", err
	}
	metrics.RecordPayrollExport("sync", constants.ExportStatusCompleted)
	return buf.Bytes(), payrollExportFilename(period), nil
}

// RequestExport 创建异步导出任务
// 队列未启用时在当前请求内直接生成文件
func (s *PayrollExportService) RequestExport(ctx context.Context, period Period, requestedBy uint) (*models.PayrollExport, error) {
	record := &models.PayrollExport{
		JobID:       uuid.NewString(),
		PeriodStart: period.Start,
		PeriodEnd:   period.End,
		Status:      constants.ExportStatusPending,
		RequestedBy: requestedBy,
	}
	if err := s.repo.Create(record); err != nil {
		return nil, err
	}

	if s.queueClient == nil || !s.queueClient.Enabled() {
		if err := s.ProcessExport(ctx, record.JobID); err != nil {
			logger.C(ctx, "job_id", record.JobID, "error", err).Warnw("payroll_export_inline_failed")
		}
		return s.GetExport(record.JobID)
	}

	err := s.queueClient.EnqueuePayrollExport(
		queue.PayrollExportPayload{JobID: record.JobID},
		asynq.MaxRetry(s.cfg.TaskMaxRetry),
		asynq.Timeout(time.Duration(s.cfg.TaskTimeoutSeconds)*time.Second),
	)
	if err != nil {
		s.markFailed(record.JobID, err)
		logger.C(ctx, "job_id", record.JobID, "error", err).Errorw("payroll_export_enqueue_failed")
		return nil, err
	}
	logger.C(ctx,
		"job_id", record.JobID,
		"period_start", period.Start,
		"period_end", period.End,
		"requested_by", requestedBy,
	).Infow("payroll_export_enqueued")
	return record, nil
}

// ProcessExport 执行导出任务（worker 调用）
// 已完成的任务直接跳过，保证重试幂等
func (s *PayrollExportService) ProcessExport(ctx context.Context, jobID string) error {
	record, err := s.repo.GetByJobID(jobID)
	if err != nil {
		return err
	}
	if record == nil {
		return ErrExportNotFound
	}
	if record.Status == constants.ExportStatusCompleted {
		return nil
	}
	if err := s.repo.UpdateStatus(jobID, map[string]interface{}{
		"status":    constants.ExportStatusProcessing,
		"error_msg": "",
	}); err != nil {
		return err
	}

	period := periodFromRange(record.PeriodStart, record.PeriodEnd)
	list, err := s.payrollService.ListStatements(ctx, period)
	if err != nil {
		s.markFailed(jobID, err)
		return err
	}
	xl, err := BuildPayrollWorkbook(list)
	if err != nil {
		s.markFailed(jobID, err)
		return err
	}
	defer func() { _ = xl.Close() }()

	if err := os.MkdirAll(s.cfg.Dir, 0o755); err != nil {
		s.markFailed(jobID, err)
		return err
	}
	path := filepath.Join(s.cfg.Dir, jobID+".xlsx")
	if err := xl.SaveAs(path); err != nil {
		s.markFailed(jobID, err)
		return err
	}

	now := time.Now()
	if err := s.repo.UpdateStatus(jobID, map[string]interface{}{
		"status":      constants.ExportStatusCompleted,
		"file_path":   path,
		"row_count":   len(list.Statements),
		"finished_at": now,
	}); err != nil {
		return err
	}
	metrics.RecordPayrollExport("async", constants.ExportStatusCompleted)
	logger.C(ctx, "job_id", jobID, "rows", len(list.Statements), "path", path).Infow("payroll_export_completed")
	return nil
}

func (s *PayrollExportService) markFailed(jobID string, cause error) {
	metrics.RecordPayrollExport("async", constants.ExportStatusFailed)
	message := []rune(cause.Error())
	if len(message) > exportErrorMaxRuneLen {
		message = message[:exportErrorMaxRuneLen]
	}
	now := time.Now()
	if err := s.repo.UpdateStatus(jobID, map[string]interface{}{
		"status":      constants.ExportStatusFailed,
		"error_msg":   string(message),
		"finished_at": now,
	}); err != nil {
		logger.Warnw("payroll_export_mark_failed_error", "job_id", jobID, "error", err)
	}
}

// GetExport 获取导出任务
func (s *PayrollExportService) GetExport(jobID string) (*models.PayrollExport, error) {
	record, err := s.repo.GetByJobID(strings.TrimSpace(jobID))
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, ErrExportNotFound
	}
	return record, nil
}

// ListExports 分页查询导出任务
func (s *PayrollExportService) ListExports(filter repository.PayrollExportListFilter) ([]models.PayrollExport, int64, error) {
	return s.repo.List(filter)
}

// OpenExportFile 获取已完成导出的文件路径与下载文件名
func (s *PayrollExportService) OpenExportFile(jobID string) (string, string, error) {
	record, err := s.GetExport(jobID)
	if err != nil {
		return "", "", err
	}
	switch record.Status {
	case constants.ExportStatusCompleted:
	case constants.ExportStatusFailed:
		return "", "", ErrExportFailed
	default:
		return "", "", ErrExportNotReady
	}
	if _, err := os.Stat(record.FilePath); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", "", ErrExportNotFound
		}
		return "", "", err
	}
	return record.FilePath, payrollExportFilename(periodFromRange(record.PeriodStart, record.PeriodEnd)), nil
}

// CleanupExpired 删除超过保留期的导出文件与记录
func (s *PayrollExportService) CleanupExpired(now time.Time) (int, error) {
	before := now.Add(-time.Duration(s.cfg.RetentionHours) * time.Hour)
	removed := 0
	for {
		items, err := s.repo.ListExpired(before, exportCleanupBatch)
		if err != nil {
			return removed, err
		}
		if len(items) == 0 {
			return removed, nil
		}
		for _, item := range items {
			if item.FilePath != "" {
				if err := os.Remove(item.FilePath); err != nil && !errors.Is(err, os.ErrNotExist) {
					logger.Warnw("payroll_export_cleanup_remove_failed", "job_id", item.JobID, "error", err)
				}
			}
			if err := s.repo.Delete(item.ID); err != nil {
				return removed, err
			}
			removed++
		}
		if len(items) < exportCleanupBatch {
			return removed, nil
		}
	}
}

// BuildPayrollWorkbook 生成薪酬报表工作簿
// Payroll 表为每人一行薪酬明细及合计行，Products 表为产品合计与产品奖金
func BuildPayrollWorkbook(list *PayrollStatementList) (*excelize.File, error) {
	if list == nil {
		return nil, errors.New("payroll statement list is nil")
	}
	xl := excelize.NewFile()
	xl.SetSheetName(xl.GetSheetName(0), payrollSheetName)

	headerStyle, err := xl.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		_ = xl.Close()
		return nil, err
	}
	moneyStyle, err := xl.NewStyle(&excelize.Style{NumFmt: 4})
	if err != nil {
		_ = xl.Close()
		return nil, err
	}

	header := []interface{}{
		"Salesperson ID", "Salesperson", "Pay Plan", "BMW Units", "MINI Units", "Total Units",
		"Commission Rate", "Unit Commission", "Product Bonus", "Demo Allowance", "Rewards Upgrade",
		"Approved Spiffs", "Paid Spiffs (info)", "Total Pay", "FE Gross", "BE Gross",
	}
	if err := xl.SetSheetRow(payrollSheetName, "A1", &header); err != nil {
		_ = xl.Close()
		return nil, err
	}

	for i, item := range list.Statements {
		b := item.Breakdown
		row := []interface{}{
			item.SalespersonID,
			item.SalespersonName,
			strings.ToUpper(item.PayPlan),
			item.BMWUnits,
			item.MINIUnits,
			item.TotalUnits,
			excelMoney(b.CommissionRate),
			excelMoney(b.UnitCommission),
			excelMoney(b.ProductBonus),
			excelMoney(b.DemoVehicleAllowance),
			excelMoney(b.RewardsUpgradeBonus),
			excelMoney(b.ApprovedSpiffAmount),
			excelMoney(b.PaidSpiffAmount),
			excelMoney(b.TotalPay),
			excelJSONMoney(item.FEGross),
			excelJSONMoney(item.BEGross),
		}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := xl.SetSheetRow(payrollSheetName, cell, &row); err != nil {
			_ = xl.Close()
			return nil, err
		}
	}

	summaryRow := len(list.Statements) + 2
	summary := list.Summary
	totals := []interface{}{
		"", "TOTAL", "", "", "", summary.TotalUnits, "",
		excelJSONMoney(summary.UnitCommission),
		excelJSONMoney(summary.ProductBonus),
		excelJSONMoney(summary.DemoAllowance),
		excelJSONMoney(summary.RewardsUpgradeBonus),
		excelJSONMoney(summary.ApprovedSpiffAmount),
		excelJSONMoney(summary.PaidSpiffAmount),
		excelJSONMoney(summary.TotalPay),
	}
	summaryCell, _ := excelize.CoordinatesToCellName(1, summaryRow)
	if err := xl.SetSheetRow(payrollSheetName, summaryCell, &totals); err != nil {
		_ = xl.Close()
		return nil, err
	}

	lastHeader, _ := excelize.CoordinatesToCellName(len(header), 1)
	_ = xl.SetCellStyle(payrollSheetName, "A1", lastHeader, headerStyle)
	lastSummary, _ := excelize.CoordinatesToCellName(len(header), summaryRow)
	_ = xl.SetCellStyle(payrollSheetName, summaryCell, lastSummary, headerStyle)
	moneyStart, _ := excelize.CoordinatesToCellName(7, 2)
	moneyEnd, _ := excelize.CoordinatesToCellName(len(header), summaryRow)
	_ = xl.SetCellStyle(payrollSheetName, moneyStart, moneyEnd, moneyStyle)

	if err := writeProductSheet(xl, list, headerStyle); err != nil {
		_ = xl.Close()
		return nil, err
	}
	return xl, nil
}

func writeProductSheet(xl *excelize.File, list *PayrollStatementList, headerStyle int) error {
	if _, err := xl.NewSheet(payrollProductsSheet); err != nil {
		return err
	}
	header := []interface{}{"Salesperson ID", "Salesperson"}
	for _, product := range payroll.AllProducts {
		header = append(header, product.Label())
	}
	for _, product := range payroll.AllProducts {
		header = append(header, product.Label()+" Bonus")
	}
	if err := xl.SetSheetRow(payrollProductsSheet, "A1", &header); err != nil {
		return err
	}
	for i, item := range list.Statements {
		row := []interface{}{item.SalespersonID, item.SalespersonName}
		for _, product := range payroll.AllProducts {
			row = append(row, excelJSONMoney(item.ProductTotals[product]))
		}
		for _, product := range payroll.AllProducts {
			row = append(row, excelMoney(item.Breakdown.ProductBonuses[product]))
		}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := xl.SetSheetRow(payrollProductsSheet, cell, &row); err != nil {
			return err
		}
	}
	lastHeader, _ := excelize.CoordinatesToCellName(len(header), 1)
	return xl.SetCellStyle(payrollProductsSheet, "A1", lastHeader, headerStyle)
}

func excelMoney(value decimal.Decimal) float64 {
	return value.Round(2).InexactFloat64()
}

func excelJSONMoney(value interface{ String() string }) float64 {
	parsed, err := decimal.NewFromString(value.String())
	if err != nil {
		return 0
	}
	return excelMoney(parsed)
}

// periodFromRange 由存储的起止时间还原统计周期
func periodFromRange(start, end time.Time) Period {
	period := Period{Start: start, End: end, Timezone: start.Location().String()}
	if start.Day() == 1 && start.AddDate(0, 1, 0).Equal(end) {
		period.Label = start.Format("2006-01")
		return period
	}
	period.Label = fmt.Sprintf("%s~%s", start.Format(periodDateLayout), period.LastDay().Format(periodDateLayout))
	return period
}

func payrollExportFilename(period Period) string {
	label := strings.NewReplacer("~", "_", "/", "_", " ", "").Replace(period.Label)
	if label == "" {
		label = period.Start.Format("2006-01")
	}
	return fmt.Sprintf("payroll_%s.xlsx", label)
}
