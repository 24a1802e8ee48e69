package i18n

var messages = map[string]map[string]string{
	LocaleEN: {
		"error.bad_request":              "Invalid request parameters",
		"error.unauthorized":             "Unauthorized",
		"error.forbidden":                "Permission denied",
		"error.not_found":                "Resource not found",
		"error.internal":                 "Internal server error",
		"error.auth_header_missing":      "Missing Authorization header",
		"error.auth_header_invalid":      "Invalid Authorization header",
		"error.token_invalid":            "Invalid or expired token",
		"error.token_revoked":            "Token has been revoked, please sign in again",
		"error.jwt_secret_missing":       "JWT secret is not configured",
		"error.rate_limited":             "Too many requests, please try again later",
		"error.rate_limit_unavailable":   "Rate limiter is unavailable",
		"error.login_invalid":            "Invalid username or password",
		"error.login_failed":             "Sign in failed",
		"error.login_too_many":           "Too many failed sign-in attempts, please try again later",
		"error.admin_login_invalid":      "Invalid username or password",
		"error.password_old_invalid":     "Current password is incorrect",
		"error.password_weak":            "Password does not satisfy the password policy",
		"error.password_min_length":      "Password must be at least %d characters",
		"error.password_require_upper":   "Password must contain an uppercase letter",
		"error.password_require_lower":   "Password must contain a lowercase letter",
		"error.password_require_number":  "Password must contain a digit",
		"error.password_require_special": "Password must contain a special character",

		"error.admin_id_invalid":             "Invalid admin id",
		"error.admin_id_type_invalid":        "Invalid admin id type",
		"error.admin_username_invalid":       "Invalid admin username",
		"error.admin_username_exists":        "Admin username already exists",
		"error.admin_create_failed":          "Failed to create admin",
		"error.admin_update_failed":          "Failed to update admin",
		"error.admin_delete_failed":          "Failed to delete admin",
		"error.admin_delete_protected":       "This admin cannot be deleted",
		"error.admin_delete_self_forbidden":  "You cannot delete yourself",
		"error.admin_delete_last_forbidden":  "The last super administrator cannot be deleted",
		"error.admin_demote_forbidden":      "The last super administrator cannot be demoted",
		"error.config_fetch_failed":          "Failed to fetch data",
		"error.settings_fetch_failed":        "Failed to fetch settings",
		"error.settings_save_failed":         "Failed to save settings",
		"error.save_failed":                  "Failed to save",
		"error.audit_log_fetch_failed":       "Failed to fetch audit logs",
		"error.period_invalid":               "Invalid reporting period",
		"error.queue_unavailable":            "Background queue is unavailable",
		"error.payroll_config_invalid":       "Payroll rules are invalid",
		"error.payroll_configuration":        "Payroll rules are not configured for this pay plan or brand",
		"error.payroll_fetch_failed":         "Failed to compute payroll",
		"error.report_config_invalid":        "Report settings are invalid",
		"error.report_fetch_failed":          "Failed to fetch report",
		"error.calculator_invalid":           "Invalid calculator input",
		"error.salesperson_invalid":          "Invalid salesperson",
		"error.salesperson_not_found":        "Salesperson not found",
		"error.salesperson_in_use":           "Salesperson has deals or spiffs, deactivate instead",
		"error.salesperson_fetch_failed":     "Failed to fetch salespeople",
		"error.salesperson_save_failed":      "Failed to save salesperson",
		"error.pay_plan_invalid":             "Unknown pay plan",
		"error.finance_manager_invalid":      "Invalid finance manager",
		"error.finance_manager_not_found":    "Finance manager not found",
		"error.finance_manager_in_use":       "Finance manager has deals, deactivate instead",
		"error.finance_manager_fetch_failed": "Failed to fetch finance managers",
		"error.finance_manager_save_failed":  "Failed to save finance manager",
		"error.deal_invalid":                 "Invalid deal",
		"error.deal_not_found":               "Deal not found",
		"error.deal_number_exists":           "Deal number already exists",
		"error.deal_product_invalid":         "Unknown or invalid product line",
		"error.deal_product_duplicate":       "Product appears more than once on the deal",
		"error.deal_already_unwound":         "Deal is already unwound",
		"error.deal_fetch_failed":            "Failed to fetch deals",
		"error.deal_save_failed":             "Failed to save deal",
		"error.brand_invalid":                "Unknown brand",
		"error.entry_mode_invalid":           "Invalid entry mode",
		"error.vehicle_condition_invalid":    "Invalid vehicle condition",
		"error.spiff_invalid":                "Invalid spiff",
		"error.spiff_not_found":              "Spiff not found",
		"error.spiff_not_editable":           "Only draft spiffs can be changed",
		"error.spiff_transition_invalid":     "This action is not allowed for the current spiff status",
		"error.spiff_fetch_failed":           "Failed to fetch spiffs",
		"error.spiff_save_failed":            "Failed to save spiff",
		"error.export_not_found":             "Export not found",
		"error.export_not_ready":             "Export is still being generated",
		"error.export_failed":                "Export failed",
		"error.export_create_failed":         "Failed to create export",
		"error.export_fetch_failed":          "Failed to fetch exports",
	},
	LocaleZH: {
		"error.bad_request":              "请求参数错误",
		"error.unauthorized":             "未登录或登录已失效",
		"error.forbidden":                "无权限访问",
		"error.not_found":                "资源不存在",
		"error.internal":                 "服务器内部错误",
		"error.auth_header_missing":      "缺少 Authorization 请求头",
		"error.auth_header_invalid":      "Authorization 请求头格式错误",
		"error.token_invalid":            "Token 无效或已过期",
		"error.token_revoked":            "Token 已失效，请重新登录",
		"error.jwt_secret_missing":       "未配置 JWT 密钥",
		"error.rate_limited":             "请求过于频繁，请稍后再试",
		"error.rate_limit_unavailable":   "限流服务不可用",
		"error.login_invalid":            "用户名或密码错误",
		"error.login_failed":             "登录失败",
		"error.login_too_many":           "登录失败次数过多，请稍后再试",
		"error.admin_login_invalid":      "用户名或密码错误",
		"error.password_old_invalid":     "原密码错误",
		"error.password_weak":            "密码不符合安全策略",
		"error.password_min_length":      "密码长度至少为 %d 位",
		"error.password_require_upper":   "密码需包含大写字母",
		"error.password_require_lower":   "密码需包含小写字母",
		"error.password_require_number":  "密码需包含数字",
		"error.password_require_special": "密码需包含特殊字符",

		"error.admin_id_invalid":             "管理员 ID 无效",
		"error.admin_id_type_invalid":        "管理员 ID 类型错误",
		"error.admin_username_invalid":       "管理员用户名无效",
		"error.admin_username_exists":        "管理员用户名已存在",
		"error.admin_create_failed":          "创建管理员失败",
		"error.admin_update_failed":          "更新管理员失败",
		"error.admin_delete_failed":          "删除管理员失败",
		"error.admin_delete_protected":       "该管理员不可删除",
		"error.admin_delete_self_forbidden":  "不能删除自己",
		"error.admin_delete_last_forbidden":  "不能删除最后一个超级管理员",
		"error.admin_demote_forbidden":      "不能取消最后一个超级管理员",
		"error.config_fetch_failed":          "获取数据失败",
		"error.settings_fetch_failed":        "获取设置失败",
		"error.settings_save_failed":         "保存设置失败",
		"error.save_failed":                  "保存失败",
		"error.audit_log_fetch_failed":       "获取审计日志失败",
		"error.period_invalid":               "统计周期无效",
		"error.queue_unavailable":            "后台队列不可用",
		"error.payroll_config_invalid":       "薪酬规则无效",
		"error.payroll_configuration":        "该薪酬方案或品牌未配置规则",
		"error.payroll_fetch_failed":         "计算薪酬失败",
		"error.report_config_invalid":        "报表设置无效",
		"error.report_fetch_failed":          "获取报表失败",
		"error.calculator_invalid":           "计算参数无效",
		"error.salesperson_invalid":          "销售顾问信息无效",
		"error.salesperson_not_found":        "销售顾问不存在",
		"error.salesperson_in_use":           "销售顾问存在成交或 spiff 记录，请改为停用",
		"error.salesperson_fetch_failed":     "获取销售顾问失败",
		"error.salesperson_save_failed":      "保存销售顾问失败",
		"error.pay_plan_invalid":             "未知的薪酬方案",
		"error.finance_manager_invalid":      "金融经理信息无效",
		"error.finance_manager_not_found":    "金融经理不存在",
		"error.finance_manager_in_use":       "金融经理存在成交记录，请改为停用",
		"error.finance_manager_fetch_failed": "获取金融经理失败",
		"error.finance_manager_save_failed":  "保存金融经理失败",
		"error.deal_invalid":                 "成交信息无效",
		"error.deal_not_found":               "成交记录不存在",
		"error.deal_number_exists":           "成交编号已存在",
		"error.deal_product_invalid":         "产品明细无效或产品未知",
		"error.deal_product_duplicate":       "同一产品在成交中重复出现",
		"error.deal_already_unwound":         "成交已撤销",
		"error.deal_fetch_failed":            "获取成交记录失败",
		"error.deal_save_failed":             "保存成交记录失败",
		"error.brand_invalid":                "未知的品牌",
		"error.entry_mode_invalid":           "录入方式无效",
		"error.vehicle_condition_invalid":    "车辆类型无效",
		"error.spiff_invalid":                "spiff 信息无效",
		"error.spiff_not_found":              "spiff 不存在",
		"error.spiff_not_editable":           "仅草稿状态的 spiff 可修改",
		"error.spiff_transition_invalid":     "当前状态不允许该操作",
		"error.spiff_fetch_failed":           "获取 spiff 失败",
		"error.spiff_save_failed":            "保存 spiff 失败",
		"error.export_not_found":             "导出任务不存在",
		"error.export_not_ready":             "导出文件生成中",
		"error.export_failed":                "导出失败",
		"error.export_create_failed":         "创建导出任务失败",
		"error.export_fetch_failed":          "获取导出任务失败",
	},
}
