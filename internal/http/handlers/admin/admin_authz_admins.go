package admin

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/dealerdesk/internal/cache"
	"github.com/dealerdesk/internal/http/response"
	"github.com/dealerdesk/internal/i18n"
	"github.com/dealerdesk/internal/logger"
	"github.com/dealerdesk/internal/models"
	"github.com/dealerdesk/internal/service"

	"github.com/gin-gonic/gin"
)

// authzCreateAdminPayload 新建后台账号，roles 取自角色矩阵（如 sales_manager、payroll_admin）
type authzCreateAdminPayload struct {
	Username string   `json:"username" binding:"required"`
	Password string   `json:"password" binding:"required"`
	IsSuper  bool     `json:"is_super"`
	Roles    []string `json:"roles"`
}

type authzUpdateAdminPayload struct {
	Username *string `json:"username"`
	Password *string `json:"password"`
	IsSuper  *bool   `json:"is_super"`
}

// CreateAuthzAdmin 创建后台账号并分配初始角色
func (h *Handler) CreateAuthzAdmin(c *gin.Context) {
	var req authzCreateAdminPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	username, err := normalizeAdminUsername(req.Username)
	if err != nil {
		respondError(c, response.CodeBadRequest, "error.admin_username_invalid", err)
		return
	}
	if !h.ensureUsernameFree(c, username, 0, "error.admin_create_failed") {
		return
	}

	admin := &models.Admin{Username: username, IsSuper: req.IsSuper}
	if !h.applyAdminPassword(c, admin, req.Password, "error.admin_create_failed") {
		return
	}
	if err := h.AdminRepo.Create(admin); err != nil {
		respondError(c, response.CodeInternal, "error.admin_create_failed", err)
		return
	}
	if len(req.Roles) > 0 {
		if err := h.AuthzService.SetAdminRoles(admin.ID, req.Roles); err != nil {
			respondAuthzError(c, err)
			return
		}
	}
	_ = cache.SetAdminAuthState(c.Request.Context(), cache.BuildAdminAuthState(admin))

	h.recordAudit(c, service.AuditRecordInput{
		OperatorAdminID:  currentAdminID(c),
		OperatorUsername: currentUsername(c),
		Resource:         auditResourceAdmin,
		ResourceID:       formatAuditID(admin.ID),
		Action:           "admin_create",
		RequestID:        currentRequestID(c),
		Detail: models.JSON{
			"target_username": admin.Username,
			"is_super":        admin.IsSuper,
			"roles":           req.Roles,
		},
	})
	logger.Infow("admin_account_created",
		"operator_admin_id", currentAdminID(c),
		"target_admin_id", admin.ID,
		"is_super", admin.IsSuper,
		"roles", req.Roles,
	)

	response.Success(c, admin)
}

// UpdateAuthzAdmin 修改账号名、密码或超级管理员标记
func (h *Handler) UpdateAuthzAdmin(c *gin.Context) {
	adminID, ok := parseAdminIDParam(c)
	if !ok {
		return
	}
	admin, err := h.AdminRepo.GetByID(adminID)
	if err != nil {
		respondError(c, response.CodeInternal, "error.admin_update_failed", err)
		return
	}
	if admin == nil {
		respondError(c, response.CodeBadRequest, "error.admin_id_invalid", nil)
		return
	}

	var req authzUpdateAdminPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	var changed []string
	if req.Username != nil {
		username, err := normalizeAdminUsername(*req.Username)
		if err != nil {
			respondError(c, response.CodeBadRequest, "error.admin_username_invalid", err)
			return
		}
		if username != admin.Username {
			if !h.ensureUsernameFree(c, username, admin.ID, "error.admin_update_failed") {
				return
			}
			admin.Username = username
			changed = append(changed, "username")
		}
	}
	if req.IsSuper != nil && *req.IsSuper != admin.IsSuper {
		if admin.IsSuper && !h.ensureOtherSuperAdmin(c, admin.ID, "error.admin_demote_forbidden", "error.admin_update_failed") {
			return
		}
		admin.IsSuper = *req.IsSuper
		changed = append(changed, "is_super")
	}
	if req.Password != nil {
		if !h.applyAdminPassword(c, admin, *req.Password, "error.admin_update_failed") {
			return
		}
		// 改密后旧 token 全部失效
		now := time.Now()
		admin.TokenVersion++
		admin.TokenInvalidBefore = &now
		changed = append(changed, "password")
	}
	if len(changed) == 0 {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}

	if err := h.AdminRepo.Update(admin); err != nil {
		respondError(c, response.CodeInternal, "error.admin_update_failed", err)
		return
	}
	_ = cache.SetAdminAuthState(c.Request.Context(), cache.BuildAdminAuthState(admin))
	if currentAdminID(c) == admin.ID {
		c.Set("admin_is_super", admin.IsSuper)
	}

	sort.Strings(changed)
	h.recordAudit(c, service.AuditRecordInput{
		OperatorAdminID:  currentAdminID(c),
		OperatorUsername: currentUsername(c),
		Resource:         auditResourceAdmin,
		ResourceID:       formatAuditID(admin.ID),
		Action:           "admin_update",
		RequestID:        currentRequestID(c),
		Detail: models.JSON{
			"target_username": admin.Username,
			"updated_fields":  changed,
			"is_super":        admin.IsSuper,
		},
	})
	logger.Infow("admin_account_updated",
		"operator_admin_id", currentAdminID(c),
		"target_admin_id", admin.ID,
		"updated_fields", changed,
	)

	response.Success(c, admin)
}

// DeleteAuthzAdmin 删除后台账号，保留至少一个超级管理员
func (h *Handler) DeleteAuthzAdmin(c *gin.Context) {
	adminID, ok := parseAdminIDParam(c)
	if !ok {
		return
	}
	admin, err := h.AdminRepo.GetByID(adminID)
	if err != nil {
		respondError(c, response.CodeInternal, "error.admin_delete_failed", err)
		return
	}
	if admin == nil {
		respondError(c, response.CodeBadRequest, "error.admin_id_invalid", nil)
		return
	}
	if currentAdminID(c) == adminID {
		respondError(c, response.CodeBadRequest, "error.admin_delete_self_forbidden", nil)
		return
	}
	if admin.IsSuper && !h.ensureOtherSuperAdmin(c, adminID, "error.admin_delete_last_forbidden", "error.admin_delete_failed") {
		return
	}

	if err := h.AuthzService.SetAdminRoles(adminID, nil); err != nil {
		respondError(c, response.CodeInternal, "error.admin_delete_failed", err)
		return
	}
	if err := h.AdminRepo.Delete(adminID); err != nil {
		respondError(c, response.CodeInternal, "error.admin_delete_failed", err)
		return
	}
	_ = cache.DelAdminAuthState(c.Request.Context(), adminID)

	h.recordAudit(c, service.AuditRecordInput{
		OperatorAdminID:  currentAdminID(c),
		OperatorUsername: currentUsername(c),
		Resource:         auditResourceAdmin,
		ResourceID:       formatAuditID(adminID),
		Action:           "admin_delete",
		RequestID:        currentRequestID(c),
		Detail: models.JSON{
			"target_username": admin.Username,
		},
	})
	logger.Infow("admin_account_deleted",
		"operator_admin_id", currentAdminID(c),
		"target_admin_id", adminID,
	)

	response.Success(c, nil)
}

func (h *Handler) ensureUsernameFree(c *gin.Context, username string, selfID uint, failKey string) bool {
	existing, err := h.AdminRepo.GetByUsername(username)
	if err != nil {
		respondError(c, response.CodeInternal, failKey, err)
		return false
	}
	if existing != nil && existing.ID != selfID {
		respondError(c, response.CodeBadRequest, "error.admin_username_exists", nil)
		return false
	}
	return true
}

// ensureOtherSuperAdmin 确认除 adminID 外仍有超级管理员
func (h *Handler) ensureOtherSuperAdmin(c *gin.Context, adminID uint, deniedKey, failKey string) bool {
	admins, err := h.AdminRepo.List()
	if err != nil {
		respondError(c, response.CodeInternal, failKey, err)
		return false
	}
	for _, item := range admins {
		if item.IsSuper && item.ID != adminID {
			return true
		}
	}
	respondError(c, response.CodeBadRequest, deniedKey, nil)
	return false
}

func (h *Handler) applyAdminPassword(c *gin.Context, admin *models.Admin, raw, failKey string) bool {
	password := strings.TrimSpace(raw)
	if password == "" {
		respondError(c, response.CodeBadRequest, "error.password_weak", nil)
		return false
	}
	if err := h.AuthService.ValidatePassword(password); err != nil {
		if !respondAdminPasswordPolicyError(c, err) {
			respondError(c, response.CodeBadRequest, "error.password_weak", err)
		}
		return false
	}
	hash, err := h.AuthService.HashPassword(password)
	if err != nil {
		respondError(c, response.CodeInternal, failKey, err)
		return false
	}
	admin.PasswordHash = hash
	return true
}

func normalizeAdminUsername(username string) (string, error) {
	trimmed := strings.TrimSpace(username)
	if trimmed == "" {
		return "", fmt.Errorf("username is required")
	}
	if strings.ContainsAny(trimmed, " \t\r\n") {
		return "", fmt.Errorf("username contains whitespace")
	}
	if length := len([]rune(trimmed)); length < 3 || length > 64 {
		return "", fmt.Errorf("username length out of range")
	}
	return trimmed, nil
}

func respondAdminPasswordPolicyError(c *gin.Context, err error) bool {
	if !errors.Is(err, service.ErrWeakPassword) {
		return false
	}
	var perr interface {
		Key() string
		Args() []interface{}
	}
	if errors.As(err, &perr) {
		respondErrorWithMsg(c, response.CodeBadRequest, i18n.Sprintf(i18n.ResolveLocale(c), perr.Key(), perr.Args()...), nil)
		return true
	}
	respondError(c, response.CodeBadRequest, "error.password_weak", nil)
	return true
}
