package models

import (
	"time"

	"gorm.io/gorm"
)

// Spiff 销售激励台账
type Spiff struct {
	ID            uint           `gorm:"primarykey" json:"id"`                                          // 主键
	SalespersonID uint           `gorm:"index;not null" json:"salesperson_id"`                          // 销售顾问
	DealID        *uint          `gorm:"index" json:"deal_id,omitempty"`                                // 关联成交（可选）
	Amount        Money          `gorm:"type:decimal(20,2);not null;default:0" json:"amount"`           // 金额
	Reason        string         `gorm:"type:varchar(255);not null" json:"reason"`                      // 事由
	SpiffDate     time.Time      `gorm:"index;not null" json:"spiff_date"`                              // 归属日期
	Status        string         `gorm:"type:varchar(20);index;not null;default:'draft'" json:"status"` // 状态
	SubmittedAt   *time.Time     `json:"submitted_at,omitempty"`                                        // 提交时间
	ApprovedAt    *time.Time     `json:"approved_at,omitempty"`                                         // 审批时间
	PaidAt        *time.Time     `json:"paid_at,omitempty"`                                             // 发放时间
	CancelledAt   *time.Time     `json:"cancelled_at,omitempty"`                                        // 取消时间
	CancelReason  string         `gorm:"type:varchar(255)" json:"cancel_reason"`                        // 取消原因
	CreatedBy     uint           `gorm:"index" json:"created_by"`                                       // 创建人
	ApprovedBy    *uint          `gorm:"index" json:"approved_by,omitempty"`                            // 审批人
	CreatedAt     time.Time      `gorm:"index" json:"created_at"`                                       // 创建时间
	UpdatedAt     time.Time      `gorm:"index" json:"updated_at"`                                       // 更新时间
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`                                                // 软删除时间

	Salesperson *Salesperson `gorm:"foreignKey:SalespersonID" json:"salesperson,omitempty"` // 销售顾问
}

// TableName 指定表名
func (Spiff) TableName() string {
	return "spiffs"
}
