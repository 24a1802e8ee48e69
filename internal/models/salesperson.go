package models

import (
	"time"

	"gorm.io/gorm"
)

// Salesperson 销售顾问表
type Salesperson struct {
	ID           uint           `gorm:"primarykey" json:"id"`                            // 主键
	Name         string         `gorm:"type:varchar(120);not null;index" json:"name"`    // 姓名
	Email        string         `gorm:"type:varchar(255);index" json:"email"`            // 邮箱
	EmployeeCode string         `gorm:"type:varchar(50);index" json:"employee_code"`     // 工号
	PayPlan      string         `gorm:"type:varchar(20);not null;index" json:"pay_plan"` // 提成方案（bmw/mini/hybrid）
	DemoEligible bool           `gorm:"not null;default:false" json:"demo_eligible"`     // 是否享受试驾车补贴
	IsActive     bool           `gorm:"not null;default:true;index" json:"is_active"`    // 是否在职
	HiredAt      *time.Time     `json:"hired_at"`                                        // 入职日期
	CreatedAt    time.Time      `gorm:"index" json:"created_at"`                         // 创建时间
	UpdatedAt    time.Time      `gorm:"index" json:"updated_at"`                         // 更新时间
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`                                  // 软删除时间
}

// TableName 指定表名
func (Salesperson) TableName() string {
	return "salespeople"
}

// FinanceManager 金融经理表
type FinanceManager struct {
	ID        uint           `gorm:"primarykey" json:"id"`                         // 主键
	Name      string         `gorm:"type:varchar(120);not null;index" json:"name"` // 姓名
	Email     string         `gorm:"type:varchar(255);index" json:"email"`         // 邮箱
	IsActive  bool           `gorm:"not null;default:true;index" json:"is_active"` // 是否在职
	CreatedAt time.Time      `gorm:"index" json:"created_at"`                      // 创建时间
	UpdatedAt time.Time      `gorm:"index" json:"updated_at"`                      // 更新时间
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`                               // 软删除时间
}

// TableName 指定表名
func (FinanceManager) TableName() string {
	return "finance_managers"
}
