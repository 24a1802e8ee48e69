package admin

import (
	"errors"

	"github.com/dealerdesk/internal/cache"
	"github.com/dealerdesk/internal/constants"
	"github.com/dealerdesk/internal/http/response"
	"github.com/dealerdesk/internal/models"
	"github.com/dealerdesk/internal/service"

	"github.com/gin-gonic/gin"
)

// GetPayrollSettings 获取生效的薪酬规则
func (h *Handler) GetPayrollSettings(c *gin.Context) {
	rules, err := h.SettingService.GetPayrollRules()
	if err != nil {
		if errors.Is(err, service.ErrPayrollConfigInvalid) {
			respondError(c, response.CodeUnprocessableEntity, "error.payroll_config_invalid", err)
			return
		}
		respondError(c, response.CodeInternal, "error.settings_fetch_failed", err)
		return
	}
	response.Success(c, service.PayrollSettingToMap(rules))
}

// UpdatePayrollSettings 部分更新薪酬规则
func (h *Handler) UpdatePayrollSettings(c *gin.Context) {
	var req map[string]interface{}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	rules, err := h.SettingService.UpdatePayrollRules(req)
	if err != nil {
		if errors.Is(err, service.ErrPayrollConfigInvalid) {
			respondErrorWithMsg(c, response.CodeBadRequest, err.Error(), nil)
			return
		}
		respondError(c, response.CodeInternal, "error.settings_save_failed", err)
		return
	}
	h.afterSettingChanged(c, constants.SettingKeyPayrollConfig, "setting_update", models.JSON(req))
	response.Success(c, service.PayrollSettingToMap(rules))
}

// ResetPayrollSettings 恢复配置文件中的薪酬规则
func (h *Handler) ResetPayrollSettings(c *gin.Context) {
	rules, err := h.SettingService.ResetPayrollRules()
	if err != nil {
		respondError(c, response.CodeInternal, "error.settings_save_failed", err)
		return
	}
	h.afterSettingChanged(c, constants.SettingKeyPayrollConfig, "setting_reset", nil)
	response.Success(c, service.PayrollSettingToMap(rules))
}

// GetReportSettings 获取报表设置
func (h *Handler) GetReportSettings(c *gin.Context) {
	setting, err := h.SettingService.GetReportSetting()
	if err != nil {
		respondError(c, response.CodeInternal, "error.settings_fetch_failed", err)
		return
	}
	response.Success(c, setting)
}

// UpdateReportSettings 更新报表设置
func (h *Handler) UpdateReportSettings(c *gin.Context) {
	var req map[string]interface{}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	if _, err := h.SettingService.Update(constants.SettingKeyReportConfig, req); err != nil {
		respondError(c, response.CodeInternal, "error.settings_save_failed", err)
		return
	}
	setting, err := h.SettingService.GetReportSetting()
	if err != nil {
		respondError(c, response.CodeInternal, "error.settings_fetch_failed", err)
		return
	}
	h.afterSettingChanged(c, constants.SettingKeyReportConfig, "setting_update", models.JSON(req))
	response.Success(c, setting)
}

// afterSettingChanged 规则变化后使报表缓存失效并记录审计
func (h *Handler) afterSettingChanged(c *gin.Context, key, action string, detail models.JSON) {
	if err := cache.BumpReportVersion(c.Request.Context()); err != nil {
		requestLog(c).Warnw("admin_setting_report_cache_bump_failed", "key", key, "error", err)
	}
	h.recordAudit(c, service.AuditRecordInput{
		Action:     action,
		Resource:   auditResourceSetting,
		ResourceID: key,
		Method:     c.Request.Method,
		Detail:     detail,
	})
	requestLog(c).Infow("admin_setting_updated", "key", key, "action", action)
}
