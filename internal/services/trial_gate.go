package services

import (
	"context"
	"errors"
	"time"

	"github.com/lunaselene/solace/internal/billing"
	"github.com/lunaselene/solace/internal/models"
	"go.uber.org/zap"
)

const TrialWindowDays = 5

const (
	AccessSourceSubscription = "subscription"
	AccessSourceTrial        = "trial"
	AccessSourceLocked       = "locked"
)

var ErrTrialMarkFailed = errors.New("persist trial mark failed")

type TrialState struct {
	DeviceID    string    `json:"device_id"`
	StartedAt   time.Time `json:"started_at"`
	DaysElapsed int       `json:"days_elapsed"`
	DaysLeft    int       `json:"days_left"`
	Expired     bool      `json:"expired"`
}

type FeatureAccess struct {
	Unlocked    bool                      `json:"unlocked"`
	Source      string                    `json:"source"`
	Entitlement billing.EntitlementStatus `json:"entitlement"`
	Trial       TrialState                `json:"trial"`
}

type TrialMarkStore interface {
	CreateIfAbsent(mark models.TrialMark) (models.TrialMark, error)
}

type EntitlementChecker interface {
	Status(ctx context.Context, userID uint) (billing.EntitlementStatus, error)
}

// TrialGate decides whether premium-gated features are unlocked. It keeps no
// state of its own: every evaluation recomputes the answer from the immutable
// device trial mark, the wall clock, and the entitlement status, so it is
// safe to re-run on every app foreground and after every purchase attempt.
type TrialGate struct {
	marks        TrialMarkStore
	entitlements EntitlementChecker
	location     *time.Location
	logger       *zap.Logger
}

func NewTrialGate(marks TrialMarkStore, entitlements EntitlementChecker, location *time.Location, logger *zap.Logger) *TrialGate {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TrialGate{
		marks:        marks,
		entitlements: entitlements,
		location:     location,
		logger:       logger,
	}
}

// ComputeTrialState derives the day-granular trial window. Day five after the
// start day is the first expired day: started four days ago leaves one day,
// started five days ago leaves none.
func ComputeTrialState(deviceID string, startedAt time.Time, now time.Time, location *time.Location) TrialState {
	startDay := DateAtLocation(startedAt, location)
	today := DateAtLocation(now, location)

	elapsed := DaysBetween(startDay, today)
	if elapsed < 0 {
		elapsed = 0
	}
	left := TrialWindowDays - elapsed
	if left < 0 {
		left = 0
	}

	return TrialState{
		DeviceID:    deviceID,
		StartedAt:   startedAt,
		DaysElapsed: elapsed,
		DaysLeft:    left,
		Expired:     left == 0,
	}
}

// Evaluate combines the subscription entitlement with the device trial
// window. An active entitlement unlocks regardless of trial state; a failed
// entitlement check degrades to trial-only evaluation and is logged, never
// surfaced. The first evaluation on a device anchors the trial window.
func (gate *TrialGate) Evaluate(ctx context.Context, userID uint, deviceID string, now time.Time) (FeatureAccess, error) {
	status := billing.EntitlementUnknown
	if gate.entitlements != nil {
		checked, err := gate.entitlements.Status(ctx, userID)
		if err != nil {
			gate.logger.Warn("entitlement check failed, degrading to trial evaluation",
				zap.Uint("user_id", userID),
				zap.Error(err))
			checked = billing.EntitlementUnknown
		}
		status = checked
	}

	mark, markErr := gate.marks.CreateIfAbsent(models.TrialMark{DeviceID: deviceID, StartedAt: now})

	if status.Active() {
		access := FeatureAccess{
			Unlocked:    true,
			Source:      AccessSourceSubscription,
			Entitlement: status,
		}
		if markErr == nil {
			access.Trial = ComputeTrialState(deviceID, mark.StartedAt, now, gate.location)
		} else {
			gate.logger.Warn("trial mark persist failed for subscribed user", zap.Error(markErr))
		}
		return access, nil
	}

	if markErr != nil {
		return FeatureAccess{}, ErrTrialMarkFailed
	}

	trial := ComputeTrialState(deviceID, mark.StartedAt, now, gate.location)
	access := FeatureAccess{
		Unlocked:    !trial.Expired,
		Source:      AccessSourceLocked,
		Entitlement: status,
		Trial:       trial,
	}
	if access.Unlocked {
		access.Source = AccessSourceTrial
	}
	return access, nil
}
