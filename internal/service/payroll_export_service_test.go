package service

import (
	"bytes"
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/dealerdesk/internal/constants"
	"github.com/dealerdesk/internal/models"

	"github.com/xuri/excelize/v2"
)

func TestPayrollExportRenderWorkbook(t *testing.T) {
	env := setupPayrollTestEnv(t)
	seedBMWScenario(t, env)
	env.createSalesperson(t, "Bob", "mini", false)

	content, filename, err := env.exports.RenderWorkbook(context.Background(), march2026(t))
	if err != nil {
		t.Fatalf("render workbook failed: %v", err)
	}
	if filename != "payroll_2026-03.xlsx" {
		t.Fatalf("unexpected filename: %s", filename)
	}

	xl, err := excelize.OpenReader(bytes.NewReader(content))
	if err != nil {
		t.Fatalf("open workbook failed: %v", err)
	}
	defer func() { _ = xl.Close() }()

	rows, err := xl.GetRows(payrollSheetName)
	if err != nil {
		t.Fatalf("read payroll sheet failed: %v", err)
	}
	// 表头 + 2 人 + 合计
	if len(rows) != 4 {
		t.Fatalf("expected 4 rows, got %d", len(rows))
	}
	if rows[1][1] != "Alice" || rows[1][2] != "BMW" || rows[1][5] != "9" {
		t.Fatalf("unexpected alice row: %v", rows[1])
	}
	totalPay, err := xl.GetCellValue(payrollSheetName, "N2", excelize.Options{RawCellValue: true})
	if err != nil {
		t.Fatalf("read total pay failed: %v", err)
	}
	if totalPay != "3525" {
		t.Fatalf("unexpected total pay cell: %s", totalPay)
	}
	if rows[3][1] != "TOTAL" {
		t.Fatalf("unexpected summary row: %v", rows[3])
	}

	productRows, err := xl.GetRows(payrollProductsSheet)
	if err != nil {
		t.Fatalf("read products sheet failed: %v", err)
	}
	if len(productRows) != 3 || productRows[0][2] != "VSC" {
		t.Fatalf("unexpected products sheet: %v", productRows)
	}
}

func TestPayrollExportInlineWhenQueueDisabled(t *testing.T) {
	env := setupPayrollTestEnv(t)
	seedBMWScenario(t, env)

	record, err := env.exports.RequestExport(context.Background(), march2026(t), 1)
	if err != nil {
		t.Fatalf("request export failed: %v", err)
	}
	if record.Status != constants.ExportStatusCompleted || record.RowCount != 1 {
		t.Fatalf("inline export should complete: %+v", record)
	}

	path, filename, err := env.exports.OpenExportFile(record.JobID)
	if err != nil {
		t.Fatalf("open export file failed: %v", err)
	}
	if filename != "payroll_2026-03.xlsx" {
		t.Fatalf("unexpected filename: %s", filename)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("export file missing: %v", err)
	}

	// 已完成任务重复处理为幂等
	if err := env.exports.ProcessExport(context.Background(), record.JobID); err != nil {
		t.Fatalf("reprocess should be noop: %v", err)
	}
}

func TestPayrollExportFailureIsRecorded(t *testing.T) {
	env := setupPayrollTestEnv(t)
	person := env.createSalesperson(t, "Hana", "hybrid", false)
	if _, err := env.deals.Create(context.Background(), baseDealInput(person.ID, "H-1")); err != nil {
		t.Fatalf("create deal failed: %v", err)
	}

	record, err := env.exports.RequestExport(context.Background(), march2026(t), 1)
	if err != nil {
		t.Fatalf("request export failed: %v", err)
	}
	if record.Status != constants.ExportStatusFailed || record.ErrorMsg == "" {
		t.Fatalf("expected failed export with message: %+v", record)
	}
	if _, _, err := env.exports.OpenExportFile(record.JobID); !errors.Is(err, ErrExportFailed) {
		t.Fatalf("want ErrExportFailed got %v", err)
	}
}

func TestPayrollExportOpenStates(t *testing.T) {
	env := setupPayrollTestEnv(t)
	if _, _, err := env.exports.OpenExportFile("missing"); !errors.Is(err, ErrExportNotFound) {
		t.Fatalf("want ErrExportNotFound got %v", err)
	}

	pending := &models.PayrollExport{
		JobID:       "pending-job",
		PeriodStart: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		PeriodEnd:   time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC),
		Status:      constants.ExportStatusPending,
	}
	if err := env.db.Create(pending).Error; err != nil {
		t.Fatalf("create pending export failed: %v", err)
	}
	if _, _, err := env.exports.OpenExportFile("pending-job"); !errors.Is(err, ErrExportNotReady) {
		t.Fatalf("want ErrExportNotReady got %v", err)
	}
}

func TestPayrollExportCleanupExpired(t *testing.T) {
	env := setupPayrollTestEnv(t)
	seedBMWScenario(t, env)

	record, err := env.exports.RequestExport(context.Background(), march2026(t), 1)
	if err != nil {
		t.Fatalf("request export failed: %v", err)
	}
	path, _, err := env.exports.OpenExportFile(record.JobID)
	if err != nil {
		t.Fatalf("open export failed: %v", err)
	}

	removed, err := env.exports.CleanupExpired(time.Now())
	if err != nil {
		t.Fatalf("cleanup failed: %v", err)
	}
	if removed != 0 {
		t.Fatalf("fresh export should be kept, removed %d", removed)
	}

	removed, err = env.exports.CleanupExpired(time.Now().Add(2 * time.Hour))
	if err != nil {
		t.Fatalf("cleanup failed: %v", err)
	}
	if removed != 1 {
		t.Fatalf("expected 1 removed export, got %d", removed)
	}
	if _, err := os.Stat(path); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("export file should be removed, stat err=%v", err)
	}
	if _, err := env.exports.GetExport(record.JobID); !errors.Is(err, ErrExportNotFound) {
		t.Fatalf("want ErrExportNotFound got %v", err)
	}
}

func TestPeriodFromRangeLabels(t *testing.T) {
	month := periodFromRange(time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC))
	if month.Label != "2026-03" {
		t.Fatalf("unexpected month label: %s", month.Label)
	}
	custom := periodFromRange(time.Date(2026, 3, 5, 0, 0, 0, 0, time.UTC), time.Date(2026, 3, 21, 0, 0, 0, 0, time.UTC))
	if custom.Label != "2026-03-05~2026-03-20" {
		t.Fatalf("unexpected custom label: %s", custom.Label)
	}
	if name := payrollExportFilename(custom); name != "payroll_2026-03-05_2026-03-20.xlsx" {
		t.Fatalf("unexpected filename: %s", name)
	}
}
