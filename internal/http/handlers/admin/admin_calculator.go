package admin

import (
	"errors"
	"fmt"

	"github.com/dealerdesk/internal/http/response"
	"github.com/dealerdesk/internal/payroll"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// AVPCalculatorRequest AVP 试算请求
type AVPCalculatorRequest struct {
	Mode   string          `json:"mode"`
	Amount decimal.Decimal `json:"amount"`
	MSRP   decimal.Decimal `json:"msrp"`
	Brand  string          `json:"brand" binding:"required"`
}

// GrossCalculatorLine 毛利试算行
type GrossCalculatorLine struct {
	Product string          `json:"product" binding:"required"`
	Mode    string          `json:"mode"`
	Gross   decimal.Decimal `json:"gross"`
	Price   decimal.Decimal `json:"price"`
	Cost    decimal.Decimal `json:"cost"`
}

// GrossCalculatorRequest 毛利试算请求
type GrossCalculatorRequest struct {
	Lines []GrossCalculatorLine `json:"lines" binding:"required"`
}

// PayrollPreviewRequest 薪酬试算请求，不读取任何成交数据
type PayrollPreviewRequest struct {
	PayPlan             string                     `json:"pay_plan" binding:"required"`
	DemoEligible        bool                       `json:"demo_eligible"`
	BMWUnits            int                        `json:"bmw_units"`
	MINIUnits           int                        `json:"mini_units"`
	ProductTotals       map[string]decimal.Decimal `json:"product_totals"`
	RewardsUpgradeBonus decimal.Decimal            `json:"rewards_upgrade_bonus"`
	ApprovedSpiffAmount decimal.Decimal            `json:"approved_spiff_amount"`
	PaidSpiffAmount     decimal.Decimal            `json:"paid_spiff_amount"`
}

// CalculateAVP AVP 试算
func (h *Handler) CalculateAVP(c *gin.Context) {
	var req AVPCalculatorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	calc, ok := h.payrollCalculator(c)
	if !ok {
		return
	}
	brand, err := payroll.ParseBrand(req.Brand)
	if err != nil {
		respondError(c, response.CodeBadRequest, "error.brand_invalid", nil)
		return
	}
	mode, err := payroll.ParseEntryMode(req.Mode)
	if err != nil {
		respondError(c, response.CodeBadRequest, "error.entry_mode_invalid", nil)
		return
	}
	entry, err := calc.ResolveAVP(payroll.AVPEntry{Mode: mode, Amount: req.Amount, MSRP: req.MSRP, Brand: brand})
	if err != nil {
		respondCalculatorError(c, err)
		return
	}
	response.Success(c, gin.H{
		"mode":   entry.Mode,
		"brand":  entry.Brand,
		"msrp":   entry.MSRP.StringFixed(2),
		"amount": entry.Amount.StringFixed(2),
	})
}

// CalculateGross 产品毛利试算，每行独立计算
func (h *Handler) CalculateGross(c *gin.Context) {
	var req GrossCalculatorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	lines := make([]gin.H, 0, len(req.Lines))
	total := decimal.Zero
	for _, item := range req.Lines {
		product, ok := payroll.ParseProduct(item.Product)
		if !ok {
			respondError(c, response.CodeBadRequest, "error.deal_product_invalid", nil)
			return
		}
		mode, err := payroll.ParseEntryMode(item.Mode)
		if err != nil {
			respondError(c, response.CodeBadRequest, "error.entry_mode_invalid", nil)
			return
		}
		line, err := payroll.ResolveGross(payroll.GrossLine{
			Product: product,
			Mode:    mode,
			Gross:   item.Gross,
			Price:   item.Price,
			Cost:    item.Cost,
		})
		if err != nil {
			respondCalculatorError(c, err)
			return
		}
		total = total.Add(line.Gross)
		lines = append(lines, gin.H{
			"product": line.Product,
			"label":   line.Product.Label(),
			"mode":    line.Mode,
			"price":   line.Price.StringFixed(2),
			"cost":    line.Cost.StringFixed(2),
			"gross":   line.Gross.StringFixed(2),
		})
	}
	response.Success(c, gin.H{
		"lines": lines,
		"total": total.StringFixed(2),
	})
}

// PreviewPayroll 按当前规则试算薪酬明细
func (h *Handler) PreviewPayroll(c *gin.Context) {
	var req PayrollPreviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	if req.BMWUnits < 0 || req.MINIUnits < 0 {
		respondError(c, response.CodeBadRequest, "error.calculator_invalid", nil)
		return
	}
	plan, err := payroll.ParsePayPlan(req.PayPlan)
	if err != nil {
		respondError(c, response.CodeBadRequest, "error.pay_plan_invalid", nil)
		return
	}
	calc, ok := h.payrollCalculator(c)
	if !ok {
		return
	}

	productTotals := make(map[payroll.Product]decimal.Decimal, len(req.ProductTotals))
	for raw, amount := range req.ProductTotals {
		product, ok := payroll.ParseProduct(raw)
		if !ok {
			respondErrorWithMsg(c, response.CodeBadRequest, fmt.Sprintf("unknown product %q", raw), nil)
			return
		}
		productTotals[product] = productTotals[product].Add(amount)
	}

	breakdown, err := calc.BuildBreakdown(payroll.SalesPeriodTotals{
		PayPlan:             plan,
		DemoEligible:        req.DemoEligible,
		BMWUnits:            req.BMWUnits,
		MINIUnits:           req.MINIUnits,
		ProductTotals:       productTotals,
		RewardsUpgradeBonus: req.RewardsUpgradeBonus,
		ApprovedSpiffAmount: req.ApprovedSpiffAmount,
		PaidSpiffAmount:     req.PaidSpiffAmount,
	})
	if err != nil {
		respondCalculatorError(c, err)
		return
	}
	response.Success(c, breakdown)
}

func (h *Handler) payrollCalculator(c *gin.Context) (*payroll.Calculator, bool) {
	calc, err := h.SettingService.PayrollCalculator()
	if err != nil {
		respondPayrollError(c, err, "error.payroll_fetch_failed")
		return nil, false
	}
	return calc, true
}

func respondCalculatorError(c *gin.Context, err error) {
	if errors.Is(err, payroll.ErrConfiguration) {
		respondErrorWithMsg(c, response.CodeUnprocessableEntity, err.Error(), nil)
		return
	}
	respondError(c, response.CodeBadRequest, "error.calculator_invalid", err)
}
