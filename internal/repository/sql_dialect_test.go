package repository

import (
	"strings"
	"testing"
)

func TestBuildLikeConditionByDialect(t *testing.T) {
	condition, argCount := buildLikeConditionByDialect("sqlite", []string{"name", " ", "email"})
	if argCount != 2 {
		t.Fatalf("arg count want 2 got %d", argCount)
	}
	if condition != "name LIKE ? OR email LIKE ?" {
		t.Fatalf("unexpected sqlite condition: %s", condition)
	}

	condition, _ = buildLikeConditionByDialect("postgres", []string{"deal_number"})
	if !strings.Contains(condition, "deal_number ILIKE ?") {
		t.Fatalf("postgres should use ILIKE, got %s", condition)
	}
}

func TestMonthBucketExprByDialect(t *testing.T) {
	if got := monthBucketExprByDialect("sqlite", "deal_date"); got != "strftime('%Y-%m', deal_date)" {
		t.Fatalf("sqlite month expr mismatch: %s", got)
	}
	if got := monthBucketExprByDialect("postgresql", "deal_date"); got != "to_char(deal_date, 'YYYY-MM')" {
		t.Fatalf("postgres month expr mismatch: %s", got)
	}
}

func TestRepeatLikeArgs(t *testing.T) {
	args := repeatLikeArgs("%smith%", 3)
	if len(args) != 3 {
		t.Fatalf("args len want 3 got %d", len(args))
	}
	for idx, arg := range args {
		if arg != "%smith%" {
			t.Fatalf("args[%d] want %%smith%% got %v", idx, arg)
		}
	}
}
