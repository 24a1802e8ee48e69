package service

import "errors"

// 通用错误
var (
	ErrNotFound       = errors.New("resource not found")
	ErrPeriodInvalid  = errors.New("period is invalid")
	ErrQueueDisabled  = errors.New("queue is disabled")
	ErrAuditLogFailed = errors.New("audit log write failed")
)

// 认证相关错误
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidPassword    = errors.New("invalid password")
	ErrWeakPassword       = errors.New("password does not satisfy policy")
)

// 人员相关错误
var (
	ErrSalespersonInvalid     = errors.New("salesperson is invalid")
	ErrSalespersonNotFound    = errors.New("salesperson not found")
	ErrSalespersonInUse       = errors.New("salesperson has deals or spiffs")
	ErrFinanceManagerInvalid  = errors.New("finance manager is invalid")
	ErrFinanceManagerNotFound = errors.New("finance manager not found")
	ErrFinanceManagerInUse    = errors.New("finance manager has deals")
	ErrPayPlanInvalid         = errors.New("pay plan is invalid")
)

// 成交相关错误
var (
	ErrDealInvalid             = errors.New("deal is invalid")
	ErrDealNumberExists        = errors.New("deal number already exists")
	ErrDealProductInvalid      = errors.New("deal product is invalid")
	ErrDealProductDuplicate    = errors.New("deal product is duplicated")
	ErrBrandInvalid            = errors.New("brand is invalid")
	ErrEntryModeInvalid        = errors.New("entry mode is invalid")
	ErrVehicleConditionInvalid = errors.New("vehicle condition is invalid")
	ErrDealAlreadyUnwound      = errors.New("deal already unwound")
)

// Spiff 相关错误
var (
	ErrSpiffInvalid           = errors.New("spiff is invalid")
	ErrSpiffNotEditable       = errors.New("spiff is not editable")
	ErrSpiffTransitionInvalid = errors.New("spiff status transition is invalid")
)

// 薪酬与导出相关错误
var (
	ErrPayrollConfigInvalid = errors.New("payroll config is invalid")
	ErrReportConfigInvalid  = errors.New("report config is invalid")
	ErrExportNotFound       = errors.New("export not found")
	ErrExportNotReady       = errors.New("export is not ready")
	ErrExportFailed         = errors.New("export failed")
)
