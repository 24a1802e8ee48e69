package queue

import (
	"testing"

	"github.com/dealerdesk/internal/config"

	"github.com/hibiken/asynq"
)

func TestPayrollExportTaskRoundTrip(t *testing.T) {
	task, err := NewPayrollExportTask(PayrollExportPayload{JobID: "job-1"})
	if err != nil {
		t.Fatalf("new task failed: %v", err)
	}
	if task.Type() != TaskPayrollExport {
		t.Fatalf("unexpected task type: %s", task.Type())
	}
	payload, err := ParsePayrollExportPayload(task)
	if err != nil {
		t.Fatalf("parse payload failed: %v", err)
	}
	if payload.JobID != "job-1" {
		t.Fatalf("unexpected job id: %s", payload.JobID)
	}
}

func TestPayrollExportTaskRequiresJobID(t *testing.T) {
	if _, err := NewPayrollExportTask(PayrollExportPayload{JobID: "  "}); err == nil {
		t.Fatalf("expected error for empty job id")
	}
	if _, err := ParsePayrollExportPayload(asynq.NewTask(TaskPayrollExport, []byte("{"))); err == nil {
		t.Fatalf("expected error for malformed payload")
	}
}

func TestDisabledClientSkipsEnqueue(t *testing.T) {
	client, err := NewClient(&config.QueueConfig{Enabled: false})
	if err != nil {
		t.Fatalf("new client failed: %v", err)
	}
	if client.Enabled() {
		t.Fatalf("expected disabled client")
	}
	if err := client.EnqueuePayrollExport(PayrollExportPayload{JobID: "job-1"}); err != nil {
		t.Fatalf("disabled enqueue should be noop, got %v", err)
	}
}

func TestBuildServerConfigDefaults(t *testing.T) {
	opt, cfg := BuildServerConfig(&config.QueueConfig{})
	if opt.Addr != "127.0.0.1:6379" {
		t.Fatalf("unexpected addr: %s", opt.Addr)
	}
	if cfg.Concurrency != 10 || cfg.Queues[DefaultQueue] != 1 {
		t.Fatalf("unexpected server config: %+v", cfg)
	}
}
