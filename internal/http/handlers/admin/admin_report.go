package admin

import (
	"strconv"
	"strings"

	"github.com/dealerdesk/internal/http/response"
	"github.com/dealerdesk/internal/service"

	"github.com/gin-gonic/gin"
)

// GetReportSummary 获取销售与金融汇总指标
func (h *Handler) GetReportSummary(c *gin.Context) {
	input, err := h.parseReportQuery(c)
	if err != nil {
		respondPayrollError(c, err, "error.period_invalid")
		return
	}
	data, err := h.ReportService.GetSummary(c.Request.Context(), input)
	if err != nil {
		respondError(c, response.CodeInternal, "error.report_fetch_failed", err)
		return
	}
	response.Success(c, data)
}

// GetReportTrends 获取按月趋势
func (h *Handler) GetReportTrends(c *gin.Context) {
	input, err := h.parseReportQuery(c)
	if err != nil {
		respondPayrollError(c, err, "error.period_invalid")
		return
	}
	data, err := h.ReportService.GetTrends(c.Request.Context(), input)
	if err != nil {
		respondError(c, response.CodeInternal, "error.report_fetch_failed", err)
		return
	}
	response.Success(c, data)
}

// GetReportRankings 获取销售顾问与金融经理排行
func (h *Handler) GetReportRankings(c *gin.Context) {
	input, err := h.parseReportQuery(c)
	if err != nil {
		respondPayrollError(c, err, "error.period_invalid")
		return
	}
	data, err := h.ReportService.GetRankings(c.Request.Context(), input)
	if err != nil {
		respondError(c, response.CodeInternal, "error.report_fetch_failed", err)
		return
	}
	response.Success(c, data)
}

func (h *Handler) parseReportQuery(c *gin.Context) (service.ReportQueryInput, error) {
	period, err := h.parsePeriodQuery(c)
	if err != nil {
		return service.ReportQueryInput{}, err
	}
	forceRefresh, _ := strconv.ParseBool(strings.TrimSpace(c.DefaultQuery("force_refresh", "false")))
	return service.ReportQueryInput{
		Period:       period,
		ForceRefresh: forceRefresh,
	}, nil
}
