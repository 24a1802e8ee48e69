package queue

import (
	"encoding/json"
	"errors"
	"strings"

	"github.com/dealerdesk/internal/constants"

	"github.com/hibiken/asynq"
)

const (
	// TaskPayrollExport 薪酬报表导出任务
	TaskPayrollExport = constants.TaskPayrollExport
)

// PayrollExportPayload 薪酬报表导出任务载荷
type PayrollExportPayload struct {
	JobID string `json:"job_id"`
}

// NewPayrollExportTask 创建薪酬报表导出任务
func NewPayrollExportTask(payload PayrollExportPayload) (*asynq.Task, error) {
	if strings.TrimSpace(payload.JobID) == "" {
		return nil, errors.New("job id is required")
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskPayrollExport, body), nil
}

// ParsePayrollExportPayload 解析薪酬报表导出任务载荷
func ParsePayrollExportPayload(task *asynq.Task) (PayrollExportPayload, error) {
	var payload PayrollExportPayload
	if task == nil {
		return payload, errors.New("task is nil")
	}
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return payload, err
	}
	payload.JobID = strings.TrimSpace(payload.JobID)
	return payload, nil
}
