package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/lunaselene/solace/internal/billing"
	"github.com/lunaselene/solace/internal/models"
)

type trialMarkStoreStub struct {
	marks     map[string]models.TrialMark
	createErr error
}

func newTrialMarkStoreStub() *trialMarkStoreStub {
	return &trialMarkStoreStub{marks: make(map[string]models.TrialMark)}
}

func (stub *trialMarkStoreStub) CreateIfAbsent(mark models.TrialMark) (models.TrialMark, error) {
	if stub.createErr != nil {
		return models.TrialMark{}, stub.createErr
	}
	if existing, found := stub.marks[mark.DeviceID]; found {
		return existing, nil
	}
	stub.marks[mark.DeviceID] = mark
	return mark, nil
}

type entitlementCheckerStub struct {
	status billing.EntitlementStatus
	err    error
	calls  int
}

func (stub *entitlementCheckerStub) Status(ctx context.Context, userID uint) (billing.EntitlementStatus, error) {
	stub.calls++
	if stub.err != nil {
		return billing.EntitlementUnknown, stub.err
	}
	return stub.status, nil
}

func TestComputeTrialState(t *testing.T) {
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name        string
		startedAt   time.Time
		wantElapsed int
		wantLeft    int
		wantExpired bool
	}{
		{name: "started today", startedAt: now, wantElapsed: 0, wantLeft: 5, wantExpired: false},
		{name: "one day in", startedAt: now.AddDate(0, 0, -1), wantElapsed: 1, wantLeft: 4, wantExpired: false},
		{name: "last trial day", startedAt: now.AddDate(0, 0, -4), wantElapsed: 4, wantLeft: 1, wantExpired: false},
		{name: "first expired day", startedAt: now.AddDate(0, 0, -5), wantElapsed: 5, wantLeft: 0, wantExpired: true},
		{name: "long expired", startedAt: now.AddDate(0, 0, -30), wantElapsed: 30, wantLeft: 0, wantExpired: true},
		{name: "clock skew into the future clamps", startedAt: now.AddDate(0, 0, 2), wantElapsed: 0, wantLeft: 5, wantExpired: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			state := ComputeTrialState("device-a", tt.startedAt, now, time.UTC)
			if state.DaysElapsed != tt.wantElapsed || state.DaysLeft != tt.wantLeft || state.Expired != tt.wantExpired {
				t.Fatalf("ComputeTrialState() = {elapsed: %d, left: %d, expired: %v}, want {%d, %d, %v}",
					state.DaysElapsed, state.DaysLeft, state.Expired,
					tt.wantElapsed, tt.wantLeft, tt.wantExpired)
			}
		})
	}
}

func TestComputeTrialStateDayGranular(t *testing.T) {
	// Started late yesterday evening: a few hours of wall time already count
	// as one full elapsed day.
	startedAt := time.Date(2026, 8, 29, 23, 50, 0, 0, time.UTC)
	now := time.Date(2026, 8, 30, 0, 10, 0, 0, time.UTC)

	state := ComputeTrialState("device-a", startedAt, now, time.UTC)
	if state.DaysElapsed != 1 || state.DaysLeft != 4 {
		t.Fatalf("expected {elapsed: 1, left: 4}, got {%d, %d}", state.DaysElapsed, state.DaysLeft)
	}
}

func TestEvaluateFirstRunAnchorsTrial(t *testing.T) {
	marks := newTrialMarkStoreStub()
	gate := NewTrialGate(marks, nil, time.UTC, nil)
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)

	access, err := gate.Evaluate(context.Background(), 1, "device-a", now)
	if err != nil {
		t.Fatalf("Evaluate() error: %v", err)
	}
	if !access.Unlocked || access.Source != AccessSourceTrial {
		t.Fatalf("expected fresh trial unlock, got %+v", access)
	}
	if access.Trial.DaysLeft != TrialWindowDays {
		t.Fatalf("expected full window, got %d days left", access.Trial.DaysLeft)
	}
	if _, found := marks.marks["device-a"]; !found {
		t.Fatal("expected trial mark to be persisted on first evaluation")
	}
}

func TestEvaluateTrialMarkIsImmutable(t *testing.T) {
	marks := newTrialMarkStoreStub()
	gate := NewTrialGate(marks, nil, time.UTC, nil)
	firstRun := time.Date(2026, 8, 24, 12, 0, 0, 0, time.UTC)

	if _, err := gate.Evaluate(context.Background(), 1, "device-a", firstRun); err != nil {
		t.Fatalf("Evaluate() error: %v", err)
	}

	// Re-evaluating later must keep the original anchor, not restart the
	// window.
	later := firstRun.AddDate(0, 0, 6)
	access, err := gate.Evaluate(context.Background(), 1, "device-a", later)
	if err != nil {
		t.Fatalf("Evaluate() error: %v", err)
	}
	if !access.Trial.StartedAt.Equal(firstRun) {
		t.Fatalf("trial anchor moved: got %s, want %s", access.Trial.StartedAt, firstRun)
	}
	if access.Unlocked || access.Source != AccessSourceLocked {
		t.Fatalf("expected locked access after window end, got %+v", access)
	}
}

func TestEvaluateActiveEntitlementOverridesExpiredTrial(t *testing.T) {
	marks := newTrialMarkStoreStub()
	marks.marks["device-a"] = models.TrialMark{
		DeviceID:  "device-a",
		StartedAt: time.Date(2026, 8, 1, 9, 0, 0, 0, time.UTC),
	}
	checker := &entitlementCheckerStub{status: billing.EntitlementActive}
	gate := NewTrialGate(marks, checker, time.UTC, nil)

	access, err := gate.Evaluate(context.Background(), 1, "device-a", time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("Evaluate() error: %v", err)
	}
	if !access.Unlocked || access.Source != AccessSourceSubscription {
		t.Fatalf("expected subscription unlock, got %+v", access)
	}
	if !access.Trial.Expired {
		t.Fatal("trial window should still report expired alongside the subscription")
	}
}

func TestEvaluateEntitlementFailureDegradesToTrial(t *testing.T) {
	marks := newTrialMarkStoreStub()
	checker := &entitlementCheckerStub{err: errors.New("billing api unreachable")}
	gate := NewTrialGate(marks, checker, time.UTC, nil)
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)

	access, err := gate.Evaluate(context.Background(), 1, "device-a", now)
	if err != nil {
		t.Fatalf("expected degraded evaluation to succeed, got %v", err)
	}
	if access.Entitlement != billing.EntitlementUnknown {
		t.Fatalf("expected unknown entitlement, got %s", access.Entitlement)
	}
	if !access.Unlocked || access.Source != AccessSourceTrial {
		t.Fatalf("expected trial unlock despite billing outage, got %+v", access)
	}
}

func TestEvaluateInactiveEntitlementExpiredTrialLocks(t *testing.T) {
	marks := newTrialMarkStoreStub()
	marks.marks["device-a"] = models.TrialMark{
		DeviceID:  "device-a",
		StartedAt: time.Date(2026, 8, 1, 9, 0, 0, 0, time.UTC),
	}
	checker := &entitlementCheckerStub{status: billing.EntitlementInactive}
	gate := NewTrialGate(marks, checker, time.UTC, nil)

	access, err := gate.Evaluate(context.Background(), 1, "device-a", time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("Evaluate() error: %v", err)
	}
	if access.Unlocked || access.Source != AccessSourceLocked {
		t.Fatalf("expected locked access, got %+v", access)
	}
}

func TestEvaluateMarkFailureWithoutSubscription(t *testing.T) {
	marks := newTrialMarkStoreStub()
	marks.createErr = errors.New("database locked")
	gate := NewTrialGate(marks, nil, time.UTC, nil)

	_, err := gate.Evaluate(context.Background(), 1, "device-a", time.Now())
	if !errors.Is(err, ErrTrialMarkFailed) {
		t.Fatalf("expected ErrTrialMarkFailed, got %v", err)
	}
}

func TestEvaluateMarkFailureWithActiveSubscription(t *testing.T) {
	marks := newTrialMarkStoreStub()
	marks.createErr = errors.New("database locked")
	checker := &entitlementCheckerStub{status: billing.EntitlementActive}
	gate := NewTrialGate(marks, checker, time.UTC, nil)

	access, err := gate.Evaluate(context.Background(), 1, "device-a", time.Now())
	if err != nil {
		t.Fatalf("subscription unlock must not depend on the trial mark, got %v", err)
	}
	if !access.Unlocked || access.Source != AccessSourceSubscription {
		t.Fatalf("expected subscription unlock, got %+v", access)
	}
}
