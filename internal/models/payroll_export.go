package models

import "time"

// PayrollExport 薪酬报表导出任务
type PayrollExport struct {
	ID          uint       `gorm:"primarykey" json:"id"`                                            // 主键
	JobID       string     `gorm:"type:varchar(64);uniqueIndex;not null" json:"job_id"`             // 任务标识
	PeriodStart time.Time  `gorm:"not null" json:"period_start"`                                    // 统计开始（含）
	PeriodEnd   time.Time  `gorm:"not null" json:"period_end"`                                      // 统计结束（不含）
	Status      string     `gorm:"type:varchar(20);index;not null;default:'pending'" json:"status"` // 状态
	FilePath    string     `gorm:"type:varchar(500)" json:"-"`                                      // 文件路径
	RowCount    int        `gorm:"not null;default:0" json:"row_count"`                             // 导出行数
	ErrorMsg    string     `gorm:"type:text" json:"error_message,omitempty"`                        // 失败原因
	RequestedBy uint       `gorm:"index" json:"requested_by"`                                       // 发起人
	FinishedAt  *time.Time `json:"finished_at,omitempty"`                                           // 完成时间
	CreatedAt   time.Time  `gorm:"index" json:"created_at"`                                         // 创建时间
	UpdatedAt   time.Time  `json:"updated_at"`                                                      // 更新时间
}

// TableName 指定表名
func (PayrollExport) TableName() string {
	return "payroll_exports"
}
