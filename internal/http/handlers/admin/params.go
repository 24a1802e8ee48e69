package admin

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	handlershared "github.com/dealerdesk/internal/http/handlers/shared"
	"github.com/dealerdesk/internal/http/response"
	"github.com/dealerdesk/internal/service"

	"github.com/gin-gonic/gin"
)

const dateLayout = "2006-01-02"

func normalizePagination(page, pageSize int) (int, int) {
	return handlershared.NormalizePagination(page, pageSize)
}

func buildPagination(page, pageSize int, total int64) response.Pagination {
	return response.Pagination{
		Page:      page,
		PageSize:  pageSize,
		Total:     total,
		TotalPage: (total + int64(pageSize) - 1) / int64(pageSize),
	}
}

func parsePathUint(c *gin.Context, key string) (uint, bool) {
	raw := strings.TrimSpace(c.Param(key))
	if raw == "" {
		return 0, false
	}
	parsed, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || parsed == 0 {
		return 0, false
	}
	return uint(parsed), true
}

// parseIDParam 解析路径 id，失败时直接写入错误响应
func parseIDParam(c *gin.Context) (uint, bool) {
	id, ok := parsePathUint(c, "id")
	if !ok {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return 0, false
	}
	return id, true
}

func parseQueryUint(c *gin.Context, key string) (uint, error) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return 0, nil
	}
	parsed, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return uint(parsed), nil
}

func parseQueryBool(c *gin.Context, key string) (*bool, error) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return nil, nil
	}
	parsed, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid %s: %w", key, err)
	}
	return &parsed, nil
}

func parseTimeNullable(raw string) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	parsed, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil, err
	}
	return &parsed, nil
}

// parseDateNullable 解析 YYYY-MM-DD 或 RFC3339
func parseDateNullable(raw string) (*time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	if parsed, err := time.ParseInLocation(dateLayout, raw, time.UTC); err == nil {
		return &parsed, nil
	}
	return parseTimeNullable(raw)
}

func parseDateRequired(raw string) (time.Time, error) {
	parsed, err := parseDateNullable(raw)
	if err != nil {
		return time.Time{}, err
	}
	if parsed == nil {
		return time.Time{}, fmt.Errorf("date is required")
	}
	return *parsed, nil
}

// parsePeriodQuery 解析 year/month/from/to/timezone 统计周期参数
func (h *Handler) parsePeriodQuery(c *gin.Context) (service.Period, error) {
	input := service.PeriodInput{
		From:     strings.TrimSpace(c.Query("from")),
		To:       strings.TrimSpace(c.Query("to")),
		Timezone: strings.TrimSpace(c.Query("timezone")),
	}
	if raw := strings.TrimSpace(c.Query("year")); raw != "" {
		year, err := strconv.Atoi(raw)
		if err != nil {
			return service.Period{}, fmt.Errorf("%w: year", service.ErrPeriodInvalid)
		}
		input.Year = year
	}
	if raw := strings.TrimSpace(c.Query("month")); raw != "" {
		month, err := strconv.Atoi(raw)
		if err != nil {
			return service.Period{}, fmt.Errorf("%w: month", service.ErrPeriodInvalid)
		}
		input.Month = month
	}

	return h.resolvePeriod(input)
}

// resolvePeriod 补全默认时区并按导出配置限制自定义区间长度
func (h *Handler) resolvePeriod(input service.PeriodInput) (service.Period, error) {
	maxRangeDays := 0
	if h.Container != nil && h.Config != nil {
		maxRangeDays = h.Config.Export.MaxRangeDays
		if input.Timezone == "" {
			input.Timezone = h.Config.Payroll.Timezone
		}
	}
	return service.ResolvePeriod(input, time.Now(), maxRangeDays)
}
