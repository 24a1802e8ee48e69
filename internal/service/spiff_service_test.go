package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dealerdesk/internal/constants"
)

func createDraftSpiff(t *testing.T, env *payrollTestEnv, salespersonID uint, amount string) uint {
	t.Helper()
	spiff, err := env.spiffs.Create(SpiffInput{
		SalespersonID: salespersonID,
		Amount:        dec(amount),
		Reason:        "weekend push",
		SpiffDate:     time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC),
	}, 1)
	if err != nil {
		t.Fatalf("create spiff failed: %v", err)
	}
	if spiff.Status != constants.SpiffStatusDraft {
		t.Fatalf("new spiff should be draft, got %s", spiff.Status)
	}
	return spiff.ID
}

func TestIsSpiffTransitionAllowed(t *testing.T) {
	cases := []struct {
		current string
		action  string
		want    bool
	}{
		{constants.SpiffStatusDraft, constants.SpiffActionSubmit, true},
		{constants.SpiffStatusDraft, constants.SpiffActionApprove, false},
		{constants.SpiffStatusPending, constants.SpiffActionReturn, true},
		{constants.SpiffStatusPending, constants.SpiffActionApprove, true},
		{constants.SpiffStatusApproved, constants.SpiffActionPay, true},
		{constants.SpiffStatusApproved, constants.SpiffActionCancel, true},
		{constants.SpiffStatusPaid, constants.SpiffActionCancel, false},
		{constants.SpiffStatusCancelled, constants.SpiffActionSubmit, false},
		{constants.SpiffStatusDraft, "archive", false},
	}
	for _, tc := range cases {
		if got := IsSpiffTransitionAllowed(tc.current, tc.action); got != tc.want {
			t.Fatalf("%s + %s: want %v got %v", tc.current, tc.action, tc.want, got)
		}
	}
}

func TestSpiffServiceLifecycle(t *testing.T) {
	env := setupPayrollTestEnv(t)
	person := env.createSalesperson(t, "Alice", "bmw", false)
	id := createDraftSpiff(t, env, person.ID, "150")
	ctx := context.Background()

	submitted, from, err := env.spiffs.Transition(ctx, id, SpiffTransitionInput{Action: "submit", OperatorID: 1})
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	if from != constants.SpiffStatusDraft || submitted.Status != constants.SpiffStatusPending || submitted.SubmittedAt == nil {
		t.Fatalf("unexpected submit result: from=%s spiff=%+v", from, submitted)
	}

	// 待审批的 spiff 不可编辑
	if _, err := env.spiffs.Update(id, SpiffInput{
		SalespersonID: person.ID,
		Amount:        dec("200"),
		Reason:        "edit",
		SpiffDate:     time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC),
	}); !errors.Is(err, ErrSpiffNotEditable) {
		t.Fatalf("want ErrSpiffNotEditable got %v", err)
	}

	returned, _, err := env.spiffs.Transition(ctx, id, SpiffTransitionInput{Action: "return", OperatorID: 2})
	if err != nil {
		t.Fatalf("return failed: %v", err)
	}
	if returned.Status != constants.SpiffStatusDraft || returned.SubmittedAt != nil {
		t.Fatalf("unexpected return result: %+v", returned)
	}

	if _, _, err := env.spiffs.Transition(ctx, id, SpiffTransitionInput{Action: "submit", OperatorID: 1}); err != nil {
		t.Fatalf("resubmit failed: %v", err)
	}
	approved, _, err := env.spiffs.Transition(ctx, id, SpiffTransitionInput{Action: "approve", OperatorID: 7})
	if err != nil {
		t.Fatalf("approve failed: %v", err)
	}
	if approved.ApprovedAt == nil || approved.ApprovedBy == nil || *approved.ApprovedBy != 7 {
		t.Fatalf("approve should stamp approver: %+v", approved)
	}

	paid, _, err := env.spiffs.Transition(ctx, id, SpiffTransitionInput{Action: "pay", OperatorID: 7})
	if err != nil {
		t.Fatalf("pay failed: %v", err)
	}
	if paid.Status != constants.SpiffStatusPaid || paid.PaidAt == nil {
		t.Fatalf("unexpected pay result: %+v", paid)
	}

	// paid 为终态
	if _, from, err := env.spiffs.Transition(ctx, id, SpiffTransitionInput{Action: "cancel", Reason: "late"}); !errors.Is(err, ErrSpiffTransitionInvalid) || from != constants.SpiffStatusPaid {
		t.Fatalf("want ErrSpiffTransitionInvalid from paid, got from=%s err=%v", from, err)
	}
	if err := env.spiffs.Delete(id); !errors.Is(err, ErrSpiffNotEditable) {
		t.Fatalf("want ErrSpiffNotEditable got %v", err)
	}
}

func TestSpiffServiceCancelRequiresReason(t *testing.T) {
	env := setupPayrollTestEnv(t)
	person := env.createSalesperson(t, "Alice", "bmw", false)
	id := createDraftSpiff(t, env, person.ID, "80")
	ctx := context.Background()

	if _, _, err := env.spiffs.Transition(ctx, id, SpiffTransitionInput{Action: "cancel"}); !errors.Is(err, ErrSpiffInvalid) {
		t.Fatalf("want ErrSpiffInvalid got %v", err)
	}
	cancelled, _, err := env.spiffs.Transition(ctx, id, SpiffTransitionInput{Action: "cancel", Reason: "duplicate entry"})
	if err != nil {
		t.Fatalf("cancel failed: %v", err)
	}
	if cancelled.Status != constants.SpiffStatusCancelled || cancelled.CancelReason != "duplicate entry" || cancelled.CancelledAt == nil {
		t.Fatalf("unexpected cancel result: %+v", cancelled)
	}
}

func TestSpiffServiceRejectsForeignDeal(t *testing.T) {
	env := setupPayrollTestEnv(t)
	alice := env.createSalesperson(t, "Alice", "bmw", false)
	bob := env.createSalesperson(t, "Bob", "mini", false)

	deal, err := env.deals.Create(context.Background(), baseDealInput(alice.ID, "D-9"))
	if err != nil {
		t.Fatalf("create deal failed: %v", err)
	}
	dealID := deal.ID
	_, err = env.spiffs.Create(SpiffInput{
		SalespersonID: bob.ID,
		DealID:        &dealID,
		Amount:        dec("50"),
		Reason:        "assist",
		SpiffDate:     time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC),
	}, 1)
	if !errors.Is(err, ErrSpiffInvalid) {
		t.Fatalf("want ErrSpiffInvalid got %v", err)
	}

	if _, err := env.spiffs.Create(SpiffInput{
		SalespersonID: alice.ID,
		Amount:        dec("0"),
		Reason:        "zero",
		SpiffDate:     time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC),
	}, 1); !errors.Is(err, ErrSpiffInvalid) {
		t.Fatalf("want ErrSpiffInvalid for zero amount got %v", err)
	}
}

func TestSpiffServiceDraftEditAndDelete(t *testing.T) {
	env := setupPayrollTestEnv(t)
	person := env.createSalesperson(t, "Alice", "bmw", false)
	id := createDraftSpiff(t, env, person.ID, "100")

	updated, err := env.spiffs.Update(id, SpiffInput{
		SalespersonID: person.ID,
		Amount:        dec("125.5"),
		Reason:        "adjusted",
		SpiffDate:     time.Date(2026, 3, 16, 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("update draft failed: %v", err)
	}
	assertDecimal(t, "amount", updated.Amount.Decimal, "125.5")

	if err := env.spiffs.Delete(id); err != nil {
		t.Fatalf("delete draft failed: %v", err)
	}
	if _, err := env.spiffs.GetByID(id); !errors.Is(err, ErrNotFound) {
		t.Fatalf("want ErrNotFound got %v", err)
	}
}
