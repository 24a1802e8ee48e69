package models

import "time"

// AuditLog 后台操作审计日志
// 记录权限策略变更、spiff 状态流转与薪酬规则调整，支持按操作人、资源与时间范围检索。
type AuditLog struct {
	ID               uint      `gorm:"primarykey" json:"id"`
	OperatorAdminID  uint      `gorm:"index;not null" json:"operator_admin_id"`
	OperatorUsername string    `gorm:"type:varchar(100);index;not null;default:''" json:"operator_username"`
	Action           string    `gorm:"type:varchar(100);index;not null" json:"action"`
	Resource         string    `gorm:"type:varchar(50);index;not null;default:''" json:"resource"`
	ResourceID       string    `gorm:"type:varchar(64);index;not null;default:''" json:"resource_id"`
	Role             string    `gorm:"type:varchar(120);index;not null;default:''" json:"role"`
	Object           string    `gorm:"type:varchar(255);not null;default:''" json:"object"`
	Method           string    `gorm:"type:varchar(20);not null;default:''" json:"method"`
	RequestID        string    `gorm:"type:varchar(64);index;not null;default:''" json:"request_id"`
	DetailJSON       JSON      `gorm:"type:json" json:"detail"`
	CreatedAt        time.Time `gorm:"index" json:"created_at"`
}

// TableName 指定表名
func (AuditLog) TableName() string {
	return "audit_logs"
}
