package admin

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/dealerdesk/internal/http/response"
	"github.com/dealerdesk/internal/models"
	"github.com/dealerdesk/internal/payroll"
	"github.com/dealerdesk/internal/repository"
	"github.com/dealerdesk/internal/service"

	"github.com/gin-gonic/gin"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// PayrollExportRequest 异步导出请求
type PayrollExportRequest struct {
	Year     int    `json:"year"`
	Month    int    `json:"month"`
	From     string `json:"from"`
	To       string `json:"to"`
	Timezone string `json:"timezone"`
}

// ListPayrollStatements 获取周期内全部销售顾问薪酬单
func (h *Handler) ListPayrollStatements(c *gin.Context) {
	period, err := h.parsePeriodQuery(c)
	if err != nil {
		respondPayrollError(c, err, "error.period_invalid")
		return
	}
	list, err := h.PayrollService.ListStatements(c.Request.Context(), period)
	if err != nil {
		respondPayrollError(c, err, "error.payroll_fetch_failed")
		return
	}
	response.Success(c, list)
}

// GetPayrollStatement 获取单个销售顾问薪酬单
func (h *Handler) GetPayrollStatement(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	period, err := h.parsePeriodQuery(c)
	if err != nil {
		respondPayrollError(c, err, "error.period_invalid")
		return
	}
	statement, err := h.PayrollService.GetStatement(c.Request.Context(), id, period)
	if err != nil {
		respondPayrollError(c, err, "error.payroll_fetch_failed")
		return
	}
	response.Success(c, gin.H{
		"period":    period,
		"statement": statement,
	})
}

// DownloadPayrollWorkbook 同步下载薪酬报表 xlsx
func (h *Handler) DownloadPayrollWorkbook(c *gin.Context) {
	period, err := h.parsePeriodQuery(c)
	if err != nil {
		respondPayrollError(c, err, "error.period_invalid")
		return
	}
	content, filename, err := h.PayrollExportService.RenderWorkbook(c.Request.Context(), period)
	if err != nil {
		respondPayrollError(c, err, "error.export_failed")
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, xlsxContentType, content)
}

// CreatePayrollExport 创建异步导出任务
func (h *Handler) CreatePayrollExport(c *gin.Context) {
	var req PayrollExportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	period, err := h.resolvePeriod(service.PeriodInput{
		Year:     req.Year,
		Month:    req.Month,
		From:     strings.TrimSpace(req.From),
		To:       strings.TrimSpace(req.To),
		Timezone: strings.TrimSpace(req.Timezone),
	})
	if err != nil {
		respondPayrollError(c, err, "error.period_invalid")
		return
	}

	record, err := h.PayrollExportService.RequestExport(c.Request.Context(), period, currentAdminID(c))
	if err != nil {
		respondError(c, response.CodeInternal, "error.export_create_failed", err)
		return
	}
	h.recordAudit(c, service.AuditRecordInput{
		Action:     "payroll_export_request",
		Resource:   auditResourceExport,
		ResourceID: record.JobID,
		Detail: models.JSON{
			"period": period.Label,
		},
	})
	response.Success(c, record)
}

// ListPayrollExports 获取导出任务列表
func (h *Handler) ListPayrollExports(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)
	requestedBy, err := parseQueryUint(c, "requested_by")
	if err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	items, total, err := h.PayrollExportService.ListExports(repository.PayrollExportListFilter{
		Page:        page,
		PageSize:    pageSize,
		Status:      strings.TrimSpace(c.Query("status")),
		RequestedBy: requestedBy,
	})
	if err != nil {
		respondError(c, response.CodeInternal, "error.export_fetch_failed", err)
		return
	}
	response.SuccessWithPage(c, items, buildPagination(page, pageSize, total))
}

// GetPayrollExport 获取导出任务状态
func (h *Handler) GetPayrollExport(c *gin.Context) {
	record, err := h.PayrollExportService.GetExport(strings.TrimSpace(c.Param("job_id")))
	if err != nil {
		respondPayrollError(c, err, "error.export_fetch_failed")
		return
	}
	response.Success(c, record)
}

// DownloadPayrollExport 下载已完成的导出文件
func (h *Handler) DownloadPayrollExport(c *gin.Context) {
	path, filename, err := h.PayrollExportService.OpenExportFile(strings.TrimSpace(c.Param("job_id")))
	if err != nil {
		respondPayrollError(c, err, "error.export_fetch_failed")
		return
	}
	c.Header("Content-Type", xlsxContentType)
	c.FileAttachment(path, filename)
}

func respondPayrollError(c *gin.Context, err error, fallbackKey string) {
	switch {
	case errors.Is(err, service.ErrPeriodInvalid):
		respondErrorWithMsg(c, response.CodeBadRequest, err.Error(), nil)
	case errors.Is(err, payroll.ErrConfiguration):
		respondError(c, response.CodeUnprocessableEntity, "error.payroll_configuration", err)
	case errors.Is(err, service.ErrPayrollConfigInvalid):
		respondError(c, response.CodeUnprocessableEntity, "error.payroll_config_invalid", err)
	case errors.Is(err, service.ErrSalespersonNotFound):
		respondError(c, response.CodeNotFound, "error.salesperson_not_found", nil)
	case errors.Is(err, service.ErrExportNotFound):
		respondError(c, response.CodeNotFound, "error.export_not_found", nil)
	case errors.Is(err, service.ErrExportNotReady):
		respondError(c, response.CodeConflict, "error.export_not_ready", nil)
	case errors.Is(err, service.ErrExportFailed):
		respondError(c, response.CodeUnprocessableEntity, "error.export_failed", nil)
	default:
		respondError(c, response.CodeInternal, fallbackKey, err)
	}
}
