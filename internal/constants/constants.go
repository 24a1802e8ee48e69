package constants

// 成交状态常量
const (
	DealStatusActive  = "active"
	DealStatusUnwound = "unwound"
)

// 车况常量
const (
	VehicleConditionNew  = "new"
	VehicleConditionUsed = "used"
	VehicleConditionCPO  = "cpo"
)

// Spiff 状态常量
const (
	SpiffStatusDraft     = "draft"
	SpiffStatusPending   = "pending"
	SpiffStatusApproved  = "approved"
	SpiffStatusPaid      = "paid"
	SpiffStatusCancelled = "cancelled"
)

// Spiff 状态流转动作常量
const (
	SpiffActionSubmit  = "submit"
	SpiffActionReturn  = "return"
	SpiffActionApprove = "approve"
	SpiffActionPay     = "pay"
	SpiffActionCancel  = "cancel"
)

// 导出任务状态常量
const (
	ExportStatusPending    = "pending"
	ExportStatusProcessing = "processing"
	ExportStatusCompleted  = "completed"
	ExportStatusFailed     = "failed"
)

// 队列常量
const (
	QueueDefault      = "default"
	TaskPayrollExport = "payroll:export"
)

// 缓存默认配置常量
const (
	RedisPrefixDefault = "dd"
)

// 设置键常量
const (
	SettingKeyPayrollConfig = "payroll_config"
	SettingKeyReportConfig  = "report_config"
)
