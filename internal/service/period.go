package service

import (
	"fmt"
	"strings"
	"time"
)

const (
	periodDateLayout    = "2006-01-02"
	defaultMaxRangeDays = 366
)

// PeriodInput 统计周期查询输入
// 支持三种形式：year+month（自然月）、year（自然年）、from+to（自定义日期，含首尾两天）；
// 均为空时取当前自然月
type PeriodInput struct {
	Year     int
	Month    int
	From     string
	To       string
	Timezone string
}

// Period 统计周期，[Start, End) 半开区间
type Period struct {
	Start    time.Time `json:"start"`
	End      time.Time `json:"end"`
	Label    string    `json:"label"`
	Timezone string    `json:"timezone"`
}

// LastDay 周期最后一天（含）
func (p Period) LastDay() time.Time {
	return p.End.AddDate(0, 0, -1)
}

// ResolvePeriod 解析统计周期
func ResolvePeriod(input PeriodInput, now time.Time, maxRangeDays int) (Period, error) {
	location, timezone := resolvePeriodLocation(input.Timezone)
	if maxRangeDays <= 0 {
		maxRangeDays = defaultMaxRangeDays
	}

	from := strings.TrimSpace(input.From)
	to := strings.TrimSpace(input.To)
	hasCustom := from != "" || to != ""
	if hasCustom && (input.Year != 0 || input.Month != 0) {
		return Period{}, fmt.Errorf("%w: from/to cannot be combined with year/month", ErrPeriodInvalid)
	}

	localNow := now.In(location)
	period := Period{Timezone: timezone}

	switch {
	case hasCustom:
		if from == "" || to == "" {
			return Period{}, fmt.Errorf("%w: from and to are both required", ErrPeriodInvalid)
		}
		startDay, err := time.ParseInLocation(periodDateLayout, from, location)
		if err != nil {
			return Period{}, fmt.Errorf("%w: invalid from %q", ErrPeriodInvalid, from)
		}
		endDay, err := time.ParseInLocation(periodDateLayout, to, location)
		if err != nil {
			return Period{}, fmt.Errorf("%w: invalid to %q", ErrPeriodInvalid, to)
		}
		if endDay.Before(startDay) {
			return Period{}, fmt.Errorf("%w: to is before from", ErrPeriodInvalid)
		}
		period.Start = startDay
		period.End = endDay.AddDate(0, 0, 1)
		if period.End.Sub(period.Start) > time.Hour*24*time.Duration(maxRangeDays) {
			return Period{}, fmt.Errorf("%w: range exceeds %d days", ErrPeriodInvalid, maxRangeDays)
		}
		period.Label = fmt.Sprintf("%s~%s", from, to)
	case input.Month != 0:
		if input.Month < 1 || input.Month > 12 {
			return Period{}, fmt.Errorf("%w: invalid month %d", ErrPeriodInvalid, input.Month)
		}
		year := input.Year
		if year == 0 {
			year = localNow.Year()
		}
		if year < 1900 || year > 9999 {
			return Period{}, fmt.Errorf("%w: invalid year %d", ErrPeriodInvalid, year)
		}
		period.Start = time.Date(year, time.Month(input.Month), 1, 0, 0, 0, 0, location)
		period.End = period.Start.AddDate(0, 1, 0)
		period.Label = period.Start.Format("2006-01")
	case input.Year != 0:
		if input.Year < 1900 || input.Year > 9999 {
			return Period{}, fmt.Errorf("%w: invalid year %d", ErrPeriodInvalid, input.Year)
		}
		period.Start = time.Date(input.Year, time.January, 1, 0, 0, 0, 0, location)
		period.End = period.Start.AddDate(1, 0, 0)
		period.Label = period.Start.Format("2006")
	default:
		period.Start = time.Date(localNow.Year(), localNow.Month(), 1, 0, 0, 0, 0, location)
		period.End = period.Start.AddDate(0, 1, 0)
		period.Label = period.Start.Format("2006-01")
	}

	return period, nil
}

func resolvePeriodLocation(timezone string) (*time.Location, string) {
	timezone = strings.TrimSpace(timezone)
	if timezone != "" {
		if parsed, err := time.LoadLocation(timezone); err == nil {
			return parsed, timezone
		}
	}
	return time.Local, time.Local.String()
}
