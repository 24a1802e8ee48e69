package repository

import "time"

// SalespersonListFilter 查询销售顾问列表的过滤条件
type SalespersonListFilter struct {
	Page     int
	PageSize int
	Search   string
	PayPlan  string
	IsActive *bool
}

// FinanceManagerListFilter 查询金融经理列表的过滤条件
type FinanceManagerListFilter struct {
	Page     int
	PageSize int
	Search   string
	IsActive *bool
}

// DealListFilter 查询成交记录列表的过滤条件
type DealListFilter struct {
	Page             int
	PageSize         int
	SalespersonID    uint
	FinanceManagerID uint
	Status           string
	Brand            string
	Search           string
	DealFrom         *time.Time
	DealTo           *time.Time
}

// SpiffListFilter 查询 spiff 台账列表的过滤条件
type SpiffListFilter struct {
	Page          int
	PageSize      int
	SalespersonID uint
	Status        string
	SpiffFrom     *time.Time
	SpiffTo       *time.Time
}

// AuditLogListFilter 查询审计日志列表的过滤条件
type AuditLogListFilter struct {
	Page            int
	PageSize        int
	OperatorAdminID uint
	Action          string
	Resource        string
	ResourceID      string
	Role            string
	CreatedFrom     *time.Time
	CreatedTo       *time.Time
}

// PayrollExportListFilter 查询导出任务列表的过滤条件
type PayrollExportListFilter struct {
	Page        int
	PageSize    int
	Status      string
	RequestedBy uint
}
