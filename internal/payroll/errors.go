package payroll

import (
	"errors"
	"fmt"
)

// ErrConfiguration 薪酬规则配置错误
var ErrConfiguration = errors.New("payroll configuration error")

// ConfigurationError 薪酬规则配置错误详情
// Field 标识出错的配置项（pay_plan / brand / tiers 等），Value 为触发错误的取值
type ConfigurationError struct {
	Field  string
	Value  string
	Reason string
}

func (e *ConfigurationError) Error() string {
	if e == nil {
		return ErrConfiguration.Error()
	}
	if e.Reason == "" {
		return fmt.Sprintf("%s: %s %q", ErrConfiguration.Error(), e.Field, e.Value)
	}
	return fmt.Sprintf("%s: %s %q: %s", ErrConfiguration.Error(), e.Field, e.Value, e.Reason)
}

// Unwrap 支持 errors.Is(err, ErrConfiguration)
func (e *ConfigurationError) Unwrap() error {
	return ErrConfiguration
}

func unknownPayPlanError(plan string) error {
	return &ConfigurationError{Field: "pay_plan", Value: plan, Reason: "unknown pay plan"}
}

func unconfiguredPayPlanError(plan PayPlan) error {
	return &ConfigurationError{Field: "pay_plan", Value: string(plan), Reason: "no commission tiers configured"}
}

func unknownBrandError(brand string) error {
	return &ConfigurationError{Field: "brand", Value: brand, Reason: "unknown brand"}
}
