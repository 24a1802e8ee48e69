package service

import (
	"strings"
	"time"

	"github.com/dealerdesk/internal/models"
	"github.com/dealerdesk/internal/repository"
)

// AuditRecordInput 审计记录输入
type AuditRecordInput struct {
	OperatorAdminID  uint
	OperatorUsername string
	Action           string
	Resource         string
	ResourceID       string
	Role             string
	Object           string
	Method           string
	RequestID        string
	Detail           models.JSON
}

// AuditService 后台操作审计服务
type AuditService struct {
	repo repository.AuditLogRepository
}

// NewAuditService 创建审计服务
func NewAuditService(repo repository.AuditLogRepository) *AuditService {
	return &AuditService{repo: repo}
}

// Record 记录审计日志
func (s *AuditService) Record(input AuditRecordInput) error {
	if s == nil || s.repo == nil {
		return nil
	}
	if input.OperatorAdminID == 0 {
		return nil
	}
	if strings.TrimSpace(input.Action) == "" {
		return nil
	}

	item := &models.AuditLog{
		OperatorAdminID:  input.OperatorAdminID,
		OperatorUsername: strings.TrimSpace(input.OperatorUsername),
		Action:           strings.TrimSpace(input.Action),
		Resource:         strings.TrimSpace(input.Resource),
		ResourceID:       strings.TrimSpace(input.ResourceID),
		Role:             strings.TrimSpace(input.Role),
		Object:           strings.TrimSpace(input.Object),
		Method:           strings.ToUpper(strings.TrimSpace(input.Method)),
		RequestID:        strings.TrimSpace(input.RequestID),
		DetailJSON:       input.Detail,
		CreatedAt:        time.Now(),
	}
	return s.repo.Create(item)
}

// ListForAdmin 管理端查询审计日志
func (s *AuditService) ListForAdmin(filter repository.AuditLogListFilter) ([]models.AuditLog, int64, error) {
	if s == nil || s.repo == nil {
		return []models.AuditLog{}, 0, nil
	}
	return s.repo.ListAdmin(filter)
}
