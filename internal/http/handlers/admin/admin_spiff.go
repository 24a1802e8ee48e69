package admin

import (
	"errors"
	"strconv"
	"strings"

	"github.com/dealerdesk/internal/http/response"
	"github.com/dealerdesk/internal/models"
	"github.com/dealerdesk/internal/repository"
	"github.com/dealerdesk/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// SpiffRequest 创建/更新 spiff 请求
type SpiffRequest struct {
	SalespersonID uint            `json:"salesperson_id" binding:"required"`
	DealID        *uint           `json:"deal_id"`
	Amount        decimal.Decimal `json:"amount"`
	Reason        string          `json:"reason" binding:"required"`
	SpiffDate     string          `json:"spiff_date" binding:"required"`
}

func (r SpiffRequest) toInput() (service.SpiffInput, error) {
	spiffDate, err := parseDateRequired(r.SpiffDate)
	if err != nil {
		return service.SpiffInput{}, err
	}
	return service.SpiffInput{
		SalespersonID: r.SalespersonID,
		DealID:        r.DealID,
		Amount:        r.Amount,
		Reason:        r.Reason,
		SpiffDate:     spiffDate,
	}, nil
}

// SpiffTransitionRequest 状态流转请求
type SpiffTransitionRequest struct {
	Action string `json:"action" binding:"required"`
	Reason string `json:"reason"`
}

// ListSpiffs 获取 spiff 台账
func (h *Handler) ListSpiffs(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)

	salespersonID, err := parseQueryUint(c, "salesperson_id")
	if err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	spiffFrom, err := parseDateNullable(c.Query("spiff_from"))
	if err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	spiffTo, err := parseDateNullable(c.Query("spiff_to"))
	if err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	items, total, err := h.SpiffService.List(repository.SpiffListFilter{
		Page:          page,
		PageSize:      pageSize,
		SalespersonID: salespersonID,
		Status:        c.Query("status"),
		SpiffFrom:     spiffFrom,
		SpiffTo:       spiffTo,
	})
	if err != nil {
		respondError(c, response.CodeInternal, "error.spiff_fetch_failed", err)
		return
	}
	response.SuccessWithPage(c, items, buildPagination(page, pageSize, total))
}

// GetSpiff 获取 spiff 详情
func (h *Handler) GetSpiff(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	spiff, err := h.SpiffService.GetByID(id)
	if err != nil {
		respondSpiffError(c, err, "error.spiff_fetch_failed")
		return
	}
	response.Success(c, spiff)
}

// CreateSpiff 创建草稿 spiff
func (h *Handler) CreateSpiff(c *gin.Context) {
	var req SpiffRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	input, err := req.toInput()
	if err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	spiff, err := h.SpiffService.Create(input, currentAdminID(c))
	if err != nil {
		respondSpiffError(c, err, "error.spiff_save_failed")
		return
	}
	h.recordAudit(c, service.AuditRecordInput{
		Action:     "spiff_create",
		Resource:   auditResourceSpiff,
		ResourceID: formatAuditID(spiff.ID),
		Detail: models.JSON{
			"salesperson_id": spiff.SalespersonID,
			"amount":         spiff.Amount.String(),
		},
	})
	response.Success(c, spiff)
}

// UpdateSpiff 更新草稿 spiff
func (h *Handler) UpdateSpiff(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	var req SpiffRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	input, err := req.toInput()
	if err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	spiff, err := h.SpiffService.Update(id, input)
	if err != nil {
		respondSpiffError(c, err, "error.spiff_save_failed")
		return
	}
	h.recordAudit(c, service.AuditRecordInput{
		Action:     "spiff_update",
		Resource:   auditResourceSpiff,
		ResourceID: formatAuditID(spiff.ID),
	})
	response.Success(c, spiff)
}

// DeleteSpiff 删除草稿 spiff
func (h *Handler) DeleteSpiff(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	if err := h.SpiffService.Delete(id); err != nil {
		respondSpiffError(c, err, "error.spiff_save_failed")
		return
	}
	h.recordAudit(c, service.AuditRecordInput{
		Action:     "spiff_delete",
		Resource:   auditResourceSpiff,
		ResourceID: formatAuditID(id),
	})
	response.Success(c, nil)
}

// TransitionSpiff 执行 spiff 状态流转（submit/return/approve/pay/cancel）
func (h *Handler) TransitionSpiff(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	var req SpiffTransitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	spiff, fromStatus, err := h.SpiffService.Transition(c.Request.Context(), id, service.SpiffTransitionInput{
		Action:     req.Action,
		OperatorID: currentAdminID(c),
		Reason:     req.Reason,
	})
	if err != nil {
		respondSpiffError(c, err, "error.spiff_save_failed")
		return
	}

	h.recordAudit(c, service.AuditRecordInput{
		Action:     "spiff_" + strings.ToLower(strings.TrimSpace(req.Action)),
		Resource:   auditResourceSpiff,
		ResourceID: formatAuditID(spiff.ID),
		Method:     c.Request.Method,
		Detail: models.JSON{
			"action":      req.Action,
			"from_status": fromStatus,
			"to_status":   spiff.Status,
			"reason":      req.Reason,
		},
	})
	response.Success(c, spiff)
}

func respondSpiffError(c *gin.Context, err error, fallbackKey string) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		respondError(c, response.CodeNotFound, "error.spiff_not_found", nil)
	case errors.Is(err, service.ErrSpiffInvalid):
		respondError(c, response.CodeBadRequest, "error.spiff_invalid", nil)
	case errors.Is(err, service.ErrSpiffNotEditable):
		respondError(c, response.CodeConflict, "error.spiff_not_editable", nil)
	case errors.Is(err, service.ErrSpiffTransitionInvalid):
		respondError(c, response.CodeConflict, "error.spiff_transition_invalid", nil)
	case errors.Is(err, service.ErrSalespersonNotFound):
		respondError(c, response.CodeBadRequest, "error.salesperson_not_found", nil)
	default:
		respondError(c, response.CodeInternal, fallbackKey, err)
	}
}
