package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP 请求总数（按方法、路由模板、状态码）
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests processed",
		},
		[]string{"method", "route", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latencies in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"},
	)

	httpInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_inflight_requests",
			Help: "Number of HTTP requests currently being served",
		},
	)

	payrollStatementsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "payroll_statements_total",
			Help: "Payroll statements computed, by pay plan",
		},
		[]string{"pay_plan"},
	)

	payrollErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "payroll_calculation_errors_total",
			Help: "Payroll calculations rejected, by reason",
		},
		[]string{"reason"},
	)

	payrollExportsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "payroll_exports_total",
			Help: "Payroll workbook exports, by mode and status",
		},
		[]string{"mode", "status"},
	)

	dealEventsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "deal_events_total",
			Help: "Deal write operations, by action",
		},
		[]string{"action"},
	)

	spiffTransitionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "spiff_transitions_total",
			Help: "Spiff status transitions, by action",
		},
		[]string{"action"},
	)
)

// RecordPayrollStatement 记录一次薪酬明细计算
func RecordPayrollStatement(payPlan string) {
	payrollStatementsTotal.WithLabelValues(payPlan).Inc()
}

// RecordPayrollError 记录一次薪酬计算失败
func RecordPayrollError(reason string) {
	payrollErrorsTotal.WithLabelValues(reason).Inc()
}

// RecordPayrollExport 记录一次薪酬报表导出
func RecordPayrollExport(mode, status string) {
	payrollExportsTotal.WithLabelValues(mode, status).Inc()
}

// RecordDealEvent 记录成交写操作
func RecordDealEvent(action string) {
	dealEventsTotal.WithLabelValues(action).Inc()
}

// RecordSpiffTransition 记录 spiff 状态流转
func RecordSpiffTransition(action string) {
	spiffTransitionsTotal.WithLabelValues(action).Inc()
}
