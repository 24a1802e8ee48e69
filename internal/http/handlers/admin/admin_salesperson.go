package admin

import (
	"errors"
	"strconv"
	"strings"

	"github.com/dealerdesk/internal/http/response"
	"github.com/dealerdesk/internal/service"

	"github.com/gin-gonic/gin"
)

// SalespersonRequest 创建/更新销售顾问请求
type SalespersonRequest struct {
	Name         string `json:"name" binding:"required"`
	Email        string `json:"email"`
	EmployeeCode string `json:"employee_code"`
	PayPlan      string `json:"pay_plan" binding:"required"`
	DemoEligible *bool  `json:"demo_eligible"`
	IsActive     *bool  `json:"is_active"`
	HiredAt      string `json:"hired_at"`
}

func (r SalespersonRequest) toInput() (service.SalespersonInput, error) {
	hiredAt, err := parseDateNullable(r.HiredAt)
	if err != nil {
		return service.SalespersonInput{}, err
	}
	return service.SalespersonInput{
		Name:         r.Name,
		Email:        r.Email,
		EmployeeCode: r.EmployeeCode,
		PayPlan:      r.PayPlan,
		DemoEligible: r.DemoEligible,
		IsActive:     r.IsActive,
		HiredAt:      hiredAt,
	}, nil
}

// ListSalespeople 获取销售顾问列表
func (h *Handler) ListSalespeople(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)
	isActive, err := parseQueryBool(c, "is_active")
	if err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	items, total, err := h.SalespersonService.List(c.Query("search"), c.Query("pay_plan"), isActive, page, pageSize)
	if err != nil {
		if errors.Is(err, service.ErrPayPlanInvalid) {
			respondError(c, response.CodeBadRequest, "error.pay_plan_invalid", nil)
			return
		}
		respondError(c, response.CodeInternal, "error.salesperson_fetch_failed", err)
		return
	}
	response.SuccessWithPage(c, items, buildPagination(page, pageSize, total))
}

// GetSalesperson 获取销售顾问详情
func (h *Handler) GetSalesperson(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	person, err := h.SalespersonService.GetByID(id)
	if err != nil {
		respondSalespersonError(c, err, "error.salesperson_fetch_failed")
		return
	}
	response.Success(c, person)
}

// CreateSalesperson 创建销售顾问
func (h *Handler) CreateSalesperson(c *gin.Context) {
	var req SalespersonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	input, err := req.toInput()
	if err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	person, err := h.SalespersonService.Create(input)
	if err != nil {
		respondSalespersonError(c, err, "error.salesperson_save_failed")
		return
	}
	h.recordAudit(c, service.AuditRecordInput{
		Action:     "salesperson_create",
		Resource:   auditResourceSalesperson,
		ResourceID: formatAuditID(person.ID),
	})
	response.Success(c, person)
}

// UpdateSalesperson 更新销售顾问
func (h *Handler) UpdateSalesperson(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	var req SalespersonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	input, err := req.toInput()
	if err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	person, err := h.SalespersonService.Update(id, input)
	if err != nil {
		respondSalespersonError(c, err, "error.salesperson_save_failed")
		return
	}
	h.recordAudit(c, service.AuditRecordInput{
		Action:     "salesperson_update",
		Resource:   auditResourceSalesperson,
		ResourceID: formatAuditID(person.ID),
	})
	response.Success(c, person)
}

// DeleteSalesperson 删除销售顾问
func (h *Handler) DeleteSalesperson(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	if err := h.SalespersonService.Delete(id); err != nil {
		respondSalespersonError(c, err, "error.salesperson_save_failed")
		return
	}
	h.recordAudit(c, service.AuditRecordInput{
		Action:     "salesperson_delete",
		Resource:   auditResourceSalesperson,
		ResourceID: formatAuditID(id),
	})
	response.Success(c, nil)
}

func respondSalespersonError(c *gin.Context, err error, fallbackKey string) {
	switch {
	case errors.Is(err, service.ErrSalespersonNotFound):
		respondError(c, response.CodeNotFound, "error.salesperson_not_found", nil)
	case errors.Is(err, service.ErrSalespersonInvalid):
		respondError(c, response.CodeBadRequest, "error.salesperson_invalid", nil)
	case errors.Is(err, service.ErrPayPlanInvalid):
		respondError(c, response.CodeBadRequest, "error.pay_plan_invalid", nil)
	case errors.Is(err, service.ErrSalespersonInUse):
		respondError(c, response.CodeConflict, "error.salesperson_in_use", nil)
	default:
		respondError(c, response.CodeInternal, fallbackKey, err)
	}
}

// FinanceManagerRequest 创建/更新金融经理请求
type FinanceManagerRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email"`
	IsActive *bool  `json:"is_active"`
}

func (r FinanceManagerRequest) toInput() service.FinanceManagerInput {
	return service.FinanceManagerInput{
		Name:     strings.TrimSpace(r.Name),
		Email:    r.Email,
		IsActive: r.IsActive,
	}
}

// ListFinanceManagers 获取金融经理列表
func (h *Handler) ListFinanceManagers(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)
	isActive, err := parseQueryBool(c, "is_active")
	if err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	items, total, err := h.FinanceManagerService.List(c.Query("search"), isActive, page, pageSize)
	if err != nil {
		respondError(c, response.CodeInternal, "error.finance_manager_fetch_failed", err)
		return
	}
	response.SuccessWithPage(c, items, buildPagination(page, pageSize, total))
}

// GetFinanceManager 获取金融经理详情
func (h *Handler) GetFinanceManager(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	manager, err := h.FinanceManagerService.GetByID(id)
	if err != nil {
		respondFinanceManagerError(c, err, "error.finance_manager_fetch_failed")
		return
	}
	response.Success(c, manager)
}

// CreateFinanceManager 创建金融经理
func (h *Handler) CreateFinanceManager(c *gin.Context) {
	var req FinanceManagerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	manager, err := h.FinanceManagerService.Create(req.toInput())
	if err != nil {
		respondFinanceManagerError(c, err, "error.finance_manager_save_failed")
		return
	}
	h.recordAudit(c, service.AuditRecordInput{
		Action:     "finance_manager_create",
		Resource:   auditResourceFinanceManager,
		ResourceID: formatAuditID(manager.ID),
	})
	response.Success(c, manager)
}

// UpdateFinanceManager 更新金融经理
func (h *Handler) UpdateFinanceManager(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	var req FinanceManagerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	manager, err := h.FinanceManagerService.Update(id, req.toInput())
	if err != nil {
		respondFinanceManagerError(c, err, "error.finance_manager_save_failed")
		return
	}
	h.recordAudit(c, service.AuditRecordInput{
		Action:     "finance_manager_update",
		Resource:   auditResourceFinanceManager,
		ResourceID: formatAuditID(manager.ID),
	})
	response.Success(c, manager)
}

// DeleteFinanceManager 删除金融经理
func (h *Handler) DeleteFinanceManager(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	if err := h.FinanceManagerService.Delete(id); err != nil {
		respondFinanceManagerError(c, err, "error.finance_manager_save_failed")
		return
	}
	h.recordAudit(c, service.AuditRecordInput{
		Action:     "finance_manager_delete",
		Resource:   auditResourceFinanceManager,
		ResourceID: formatAuditID(id),
	})
	response.Success(c, nil)
}

func respondFinanceManagerError(c *gin.Context, err error, fallbackKey string) {
	switch {
	case errors.Is(err, service.ErrFinanceManagerNotFound):
		respondError(c, response.CodeNotFound, "error.finance_manager_not_found", nil)
	case errors.Is(err, service.ErrFinanceManagerInvalid):
		respondError(c, response.CodeBadRequest, "error.finance_manager_invalid", nil)
	case errors.Is(err, service.ErrFinanceManagerInUse):
		respondError(c, response.CodeConflict, "error.finance_manager_in_use", nil)
	default:
		respondError(c, response.CodeInternal, fallbackKey, err)
	}
}
