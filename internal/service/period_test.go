package service

import (
	"errors"
	"testing"
	"time"
	_ "time/tzdata"
)

func TestResolvePeriod(t *testing.T) {
	now := time.Date(2026, time.March, 15, 10, 0, 0, 0, time.UTC)

	cases := []struct {
		name      string
		input     PeriodInput
		start     string
		end       string
		label     string
		expectErr bool
	}{
		{name: "default current month", input: PeriodInput{Timezone: "UTC"}, start: "2026-03-01", end: "2026-04-01", label: "2026-03"},
		{name: "month", input: PeriodInput{Year: 2025, Month: 12, Timezone: "UTC"}, start: "2025-12-01", end: "2026-01-01", label: "2025-12"},
		{name: "month without year", input: PeriodInput{Month: 2, Timezone: "UTC"}, start: "2026-02-01", end: "2026-03-01", label: "2026-02"},
		{name: "year", input: PeriodInput{Year: 2025, Timezone: "UTC"}, start: "2025-01-01", end: "2026-01-01", label: "2025"},
		{name: "custom inclusive", input: PeriodInput{From: "2026-01-10", To: "2026-01-20", Timezone: "UTC"}, start: "2026-01-10", end: "2026-01-21", label: "2026-01-10~2026-01-20"},
		{name: "single day", input: PeriodInput{From: "2026-01-10", To: "2026-01-10", Timezone: "UTC"}, start: "2026-01-10", end: "2026-01-11", label: "2026-01-10~2026-01-10"},
		{name: "invalid month", input: PeriodInput{Year: 2026, Month: 13}, expectErr: true},
		{name: "to before from", input: PeriodInput{From: "2026-02-01", To: "2026-01-01"}, expectErr: true},
		{name: "missing to", input: PeriodInput{From: "2026-02-01"}, expectErr: true},
		{name: "bad date", input: PeriodInput{From: "2026/02/01", To: "2026-02-03"}, expectErr: true},
		{name: "mixed forms", input: PeriodInput{Year: 2026, From: "2026-02-01", To: "2026-02-03"}, expectErr: true},
		{name: "range too long", input: PeriodInput{From: "2024-01-01", To: "2026-01-01"}, expectErr: true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			period, err := ResolvePeriod(tc.input, now, 0)
			if tc.expectErr {
				if !errors.Is(err, ErrPeriodInvalid) {
					t.Fatalf("expected ErrPeriodInvalid, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("resolve period failed: %v", err)
			}
			if got := period.Start.Format(periodDateLayout); got != tc.start {
				t.Fatalf("unexpected start: %s", got)
			}
			if got := period.End.Format(periodDateLayout); got != tc.end {
				t.Fatalf("unexpected end: %s", got)
			}
			if period.Label != tc.label {
				t.Fatalf("unexpected label: %s", period.Label)
			}
		})
	}
}

func TestResolvePeriodUsesTimezone(t *testing.T) {
	// 2026-04-01 02:00 UTC 在纽约仍是 3 月 31 日
	now := time.Date(2026, time.April, 1, 2, 0, 0, 0, time.UTC)
	period, err := ResolvePeriod(PeriodInput{Timezone: "America/New_York"}, now, 0)
	if err != nil {
		t.Fatalf("resolve period failed: %v", err)
	}
	if period.Label != "2026-03" {
		t.Fatalf("expected 2026-03 in New York, got %s", period.Label)
	}
	if period.Timezone != "America/New_York" {
		t.Fatalf("unexpected timezone: %s", period.Timezone)
	}
	if got := period.LastDay().Format(periodDateLayout); got != "2026-03-31" {
		t.Fatalf("unexpected last day: %s", got)
	}
}

func TestResolvePeriodCustomMaxRange(t *testing.T) {
	now := time.Now()
	if _, err := ResolvePeriod(PeriodInput{From: "2026-01-01", To: "2026-01-31", Timezone: "UTC"}, now, 31); err != nil {
		t.Fatalf("31 day range should pass: %v", err)
	}
	if _, err := ResolvePeriod(PeriodInput{From: "2026-01-01", To: "2026-02-01", Timezone: "UTC"}, now, 31); !errors.Is(err, ErrPeriodInvalid) {
		t.Fatalf("32 day range should fail, got %v", err)
	}
}
