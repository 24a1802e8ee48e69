package admin

import (
	"strconv"
	"strings"

	"github.com/dealerdesk/internal/http/response"
	"github.com/dealerdesk/internal/logger"
	"github.com/dealerdesk/internal/repository"
	"github.com/dealerdesk/internal/service"

	"github.com/gin-gonic/gin"
)

const (
	auditResourceAdmin          = "admin"
	auditResourceRole           = "role"
	auditResourceSpiff          = "spiff"
	auditResourceDeal           = "deal"
	auditResourceSalesperson    = "salesperson"
	auditResourceFinanceManager = "finance_manager"
	auditResourceSetting        = "setting"
	auditResourceExport         = "payroll_export"
)

// ListAuditLogs 获取后台操作审计日志
func (h *Handler) ListAuditLogs(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)

	operatorAdminID, err := parseQueryUint(c, "operator_admin_id")
	if err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	createdFrom, err := parseTimeNullable(strings.TrimSpace(c.Query("created_from")))
	if err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	createdTo, err := parseTimeNullable(strings.TrimSpace(c.Query("created_to")))
	if err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	items, total, err := h.AuditService.ListForAdmin(repository.AuditLogListFilter{
		Page:            page,
		PageSize:        pageSize,
		OperatorAdminID: operatorAdminID,
		Action:          strings.TrimSpace(c.Query("action")),
		Resource:        strings.TrimSpace(c.Query("resource")),
		ResourceID:      strings.TrimSpace(c.Query("resource_id")),
		Role:            strings.TrimSpace(c.Query("role")),
		CreatedFrom:     createdFrom,
		CreatedTo:       createdTo,
	})
	if err != nil {
		respondError(c, response.CodeInternal, "error.audit_log_fetch_failed", err)
		return
	}

	response.SuccessWithPage(c, items, buildPagination(page, pageSize, total))
}

// recordAudit 写入审计日志，失败只记录告警不影响业务响应
func (h *Handler) recordAudit(c *gin.Context, input service.AuditRecordInput) {
	if h == nil || h.Container == nil || h.AuditService == nil {
		return
	}
	if input.OperatorAdminID == 0 {
		input.OperatorAdminID = currentAdminID(c)
	}
	if input.OperatorUsername == "" {
		input.OperatorUsername = currentUsername(c)
	}
	if input.RequestID == "" {
		input.RequestID = currentRequestID(c)
	}
	if input.OperatorAdminID == 0 || strings.TrimSpace(input.Action) == "" {
		return
	}
	if err := h.AuditService.Record(input); err != nil {
		logger.Warnw("admin_audit_record_failed",
			"error", err,
			"action", input.Action,
			"resource", input.Resource,
			"operator_admin_id", input.OperatorAdminID,
		)
	}
}

func formatAuditID(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}
