package worker

import (
	"context"
	"errors"
	"fmt"

	"github.com/dealerdesk/internal/logger"
	"github.com/dealerdesk/internal/payroll"
	"github.com/dealerdesk/internal/provider"
	"github.com/dealerdesk/internal/queue"
	"github.com/dealerdesk/internal/service"

	"github.com/hibiken/asynq"
)

// Consumer 异步任务消费者
type Consumer struct {
	*provider.Container
}

// NewConsumer 创建消费者
func NewConsumer(c *provider.Container) *Consumer {
	return &Consumer{
		Container: c,
	}
}

// Register 注册消费者
func (c *Consumer) Register(mux *asynq.ServeMux) {
	if c == nil || mux == nil {
		logger.Debugw("worker_register_skip_nil", "consumer_nil", c == nil, "mux_nil", mux == nil)
		return
	}
	mux.HandleFunc(queue.TaskPayrollExport, c.handlePayrollExport)
}

func (c *Consumer) handlePayrollExport(ctx context.Context, task *asynq.Task) error {
	if c == nil || c.Container == nil || task == nil {
		logger.Debugw("worker_payroll_export_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	payload, err := queue.ParsePayrollExportPayload(task)
	if err != nil {
		logger.Warnw("worker_payroll_export_unmarshal_failed", "error", err)
		return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
	}
	if payload.JobID == "" {
		logger.Debugw("worker_payroll_export_skip_invalid_payload")
		return nil
	}
	if c.PayrollExportService == nil {
		logger.Warnw("worker_payroll_export_skip_service_nil", "job_id", payload.JobID)
		return nil
	}

	err = c.PayrollExportService.ProcessExport(ctx, payload.JobID)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, service.ErrExportNotFound):
		logger.Debugw("worker_payroll_export_skip_not_found", "job_id", payload.JobID)
		return nil
	case errors.Is(err, payroll.ErrConfiguration), errors.Is(err, service.ErrPayrollConfigInvalid):
		// 规则缺失重试也无法成功，任务已标记为失败
		logger.Warnw("worker_payroll_export_configuration_error", "job_id", payload.JobID, "error", err)
		return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
	default:
		logger.Warnw("worker_payroll_export_failed", "job_id", payload.JobID, "error", err)
		return err
	}
}
