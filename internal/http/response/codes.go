package response

// 业务状态码（HTTP 状态码恒为 200，错误通过 status_code 区分）
const (
	CodeOK                  = 0
	CodeBadRequest          = 400
	CodeUnauthorized        = 401
	CodeForbidden           = 403
	CodeNotFound            = 404
	CodeConflict            = 409
	CodeUnprocessableEntity = 422
	CodeTooManyRequests     = 429
	CodeInternal            = 500
)
