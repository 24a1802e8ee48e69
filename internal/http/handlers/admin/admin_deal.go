package admin

import (
	"errors"
	"strconv"

	"github.com/dealerdesk/internal/http/response"
	"github.com/dealerdesk/internal/payroll"
	"github.com/dealerdesk/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// DealProductRequest 产品明细请求
type DealProductRequest struct {
	Product string          `json:"product" binding:"required"`
	Mode    string          `json:"mode"`
	Amount  decimal.Decimal `json:"amount"`
	Price   decimal.Decimal `json:"price"`
	Cost    decimal.Decimal `json:"cost"`
}

// DealRequest 创建/更新成交请求
type DealRequest struct {
	DealNumber          string               `json:"deal_number" binding:"required"`
	DealDate            string               `json:"deal_date" binding:"required"`
	Brand               string               `json:"brand" binding:"required"`
	VehicleCondition    string               `json:"vehicle_condition"`
	StockNumber         string               `json:"stock_number"`
	CustomerName        string               `json:"customer_name"`
	SalespersonID       uint                 `json:"salesperson_id" binding:"required"`
	FinanceManagerID    *uint                `json:"finance_manager_id"`
	MSRP                decimal.Decimal      `json:"msrp"`
	AVPMode             string               `json:"avp_mode"`
	AVPAmount           decimal.Decimal      `json:"avp_amount"`
	FEGross             decimal.Decimal      `json:"fe_gross"`
	BEGross             *decimal.Decimal     `json:"be_gross"`
	RewardsUpgradeBonus decimal.Decimal      `json:"rewards_upgrade_bonus"`
	Products            []DealProductRequest `json:"products"`
	Notes               string               `json:"notes"`
}

func (r DealRequest) toInput() (service.DealInput, error) {
	dealDate, err := parseDateRequired(r.DealDate)
	if err != nil {
		return service.DealInput{}, err
	}
	products := make([]service.DealProductInput, 0, len(r.Products))
	for _, item := range r.Products {
		products = append(products, service.DealProductInput{
			Product: item.Product,
			Mode:    item.Mode,
			Amount:  item.Amount,
			Price:   item.Price,
			Cost:    item.Cost,
		})
	}
	return service.DealInput{
		DealNumber:          r.DealNumber,
		DealDate:            dealDate,
		Brand:               r.Brand,
		VehicleCondition:    r.VehicleCondition,
		StockNumber:         r.StockNumber,
		CustomerName:        r.CustomerName,
		SalespersonID:       r.SalespersonID,
		FinanceManagerID:    r.FinanceManagerID,
		MSRP:                r.MSRP,
		AVPMode:             r.AVPMode,
		AVPAmount:           r.AVPAmount,
		FEGross:             r.FEGross,
		BEGross:             r.BEGross,
		RewardsUpgradeBonus: r.RewardsUpgradeBonus,
		Products:            products,
		Notes:               r.Notes,
	}, nil
}

// ListDeals 获取成交列表
func (h *Handler) ListDeals(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)

	salespersonID, err := parseQueryUint(c, "salesperson_id")
	if err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	financeManagerID, err := parseQueryUint(c, "finance_manager_id")
	if err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	dealFrom, err := parseDateNullable(c.Query("deal_from"))
	if err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	dealTo, err := parseDateNullable(c.Query("deal_to"))
	if err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	deals, total, err := h.DealService.List(service.DealListInput{
		Page:             page,
		PageSize:         pageSize,
		SalespersonID:    salespersonID,
		FinanceManagerID: financeManagerID,
		Status:           c.Query("status"),
		Brand:            c.Query("brand"),
		Search:           c.Query("search"),
		DealFrom:         dealFrom,
		DealTo:           dealTo,
	})
	if err != nil {
		respondDealError(c, err, "error.deal_fetch_failed")
		return
	}
	response.SuccessWithPage(c, deals, buildPagination(page, pageSize, total))
}

// GetDeal 获取成交详情
func (h *Handler) GetDeal(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	deal, err := h.DealService.GetByID(id)
	if err != nil {
		respondDealError(c, err, "error.deal_fetch_failed")
		return
	}
	response.Success(c, deal)
}

// CreateDeal 录入成交
func (h *Handler) CreateDeal(c *gin.Context) {
	var req DealRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	input, err := req.toInput()
	if err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	deal, err := h.DealService.Create(c.Request.Context(), input)
	if err != nil {
		respondDealError(c, err, "error.deal_save_failed")
		return
	}
	h.recordAudit(c, service.AuditRecordInput{
		Action:     "deal_create",
		Resource:   auditResourceDeal,
		ResourceID: formatAuditID(deal.ID),
	})
	response.Success(c, deal)
}

// UpdateDeal 更新成交
func (h *Handler) UpdateDeal(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	var req DealRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	input, err := req.toInput()
	if err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	deal, err := h.DealService.Update(c.Request.Context(), id, input)
	if err != nil {
		respondDealError(c, err, "error.deal_save_failed")
		return
	}
	h.recordAudit(c, service.AuditRecordInput{
		Action:     "deal_update",
		Resource:   auditResourceDeal,
		ResourceID: formatAuditID(deal.ID),
	})
	response.Success(c, deal)
}

// UnwindDeal 撤销成交，撤销后不再计入薪酬与报表
func (h *Handler) UnwindDeal(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	deal, err := h.DealService.Unwind(c.Request.Context(), id)
	if err != nil {
		respondDealError(c, err, "error.deal_save_failed")
		return
	}
	h.recordAudit(c, service.AuditRecordInput{
		Action:     "deal_unwind",
		Resource:   auditResourceDeal,
		ResourceID: formatAuditID(deal.ID),
	})
	response.Success(c, deal)
}

// DeleteDeal 删除成交
func (h *Handler) DeleteDeal(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	if err := h.DealService.Delete(c.Request.Context(), id); err != nil {
		respondDealError(c, err, "error.deal_save_failed")
		return
	}
	h.recordAudit(c, service.AuditRecordInput{
		Action:     "deal_delete",
		Resource:   auditResourceDeal,
		ResourceID: formatAuditID(id),
	})
	response.Success(c, nil)
}

func respondDealError(c *gin.Context, err error, fallbackKey string) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		respondError(c, response.CodeNotFound, "error.deal_not_found", nil)
	case errors.Is(err, service.ErrDealInvalid):
		respondError(c, response.CodeBadRequest, "error.deal_invalid", nil)
	case errors.Is(err, service.ErrDealNumberExists):
		respondError(c, response.CodeConflict, "error.deal_number_exists", nil)
	case errors.Is(err, service.ErrDealProductInvalid):
		respondError(c, response.CodeBadRequest, "error.deal_product_invalid", nil)
	case errors.Is(err, service.ErrDealProductDuplicate):
		respondError(c, response.CodeBadRequest, "error.deal_product_duplicate", nil)
	case errors.Is(err, service.ErrBrandInvalid):
		respondError(c, response.CodeBadRequest, "error.brand_invalid", nil)
	case errors.Is(err, service.ErrEntryModeInvalid):
		respondError(c, response.CodeBadRequest, "error.entry_mode_invalid", nil)
	case errors.Is(err, service.ErrVehicleConditionInvalid):
		respondError(c, response.CodeBadRequest, "error.vehicle_condition_invalid", nil)
	case errors.Is(err, service.ErrDealAlreadyUnwound):
		respondError(c, response.CodeConflict, "error.deal_already_unwound", nil)
	case errors.Is(err, service.ErrSalespersonNotFound):
		respondError(c, response.CodeBadRequest, "error.salesperson_not_found", nil)
	case errors.Is(err, service.ErrFinanceManagerNotFound):
		respondError(c, response.CodeBadRequest, "error.finance_manager_not_found", nil)
	case errors.Is(err, payroll.ErrConfiguration):
		respondError(c, response.CodeUnprocessableEntity, "error.payroll_configuration", err)
	default:
		respondError(c, response.CodeInternal, fallbackKey, err)
	}
}
