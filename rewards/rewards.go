package rewards

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go-wildwatch/types"
)

// Confidence boundaries for the award tiers. Points are only awarded for
// invasive-category labels above the minimum confidence.
const (
	minAwardConfidence  = 0.70
	tierTwoConfidence   = 0.85
	tierThreeConfidence = 0.95

	tierOnePoints   = 10
	tierTwoPoints   = 20
	tierThreePoints = 30
)

// Store applies one award atomically: the idempotency check, the ledger
// append, and the counter/balance updates must commit as a single unit. It
// returns the refreshed user snapshot and whether the award was applied.
// An unknown user returns (nil, false, nil); a duplicate reason returns the
// current snapshot with applied=false. Neither is an error.
type Store interface {
	ApplyAward(ctx context.Context, userID string, entry types.PointsLedgerEntry, verified bool) (*types.UserData, bool, error)
}

// AwardResult is the outcome of one award attempt.
type AwardResult struct {
	PointsAwarded int             `json:"pointsAwarded"`
	User          *types.UserData `json:"updatedUser"`
}

// Service awards contribution points for analysed reports, at most once per
// (user, report) pair.
type Service struct {
	store Store
	now   func() time.Time
}

func NewService(store Store) *Service {
	return &Service{store: store, now: time.Now}
}

// AwardPoints runs the idempotent award transaction for one report. The
// report ID derives the idempotency key, so re-invocations (retries, replays)
// award at most once. A ledger row is appended even for zero-point awards so
// the duplicate guard holds on retries.
func (s *Service) AwardPoints(ctx context.Context, userID, reportID, label string, confidence float64, verified bool) (AwardResult, error) {
	if userID == "" || reportID == "" {
		return AwardResult{}, fmt.Errorf("awardPoints: userID and reportID are required")
	}

	entry := types.PointsLedgerEntry{
		UserID:    userID,
		Amount:    PointsForClassification(label, confidence),
		Reason:    ReasonForReport(reportID),
		Timestamp: s.now().UTC().Format(time.RFC3339),
	}

	user, applied, err := s.store.ApplyAward(ctx, userID, entry, verified)
	if err != nil {
		return AwardResult{}, err
	}
	if !applied {
		return AwardResult{PointsAwarded: 0, User: user}, nil
	}
	return AwardResult{PointsAwarded: entry.Amount, User: user}, nil
}

// ReasonForReport builds the ledger idempotency key for a report.
func ReasonForReport(reportID string) string {
	return "report:" + reportID
}

// PointsForClassification is the award tier: zero unless the label is an
// invasive category and confidence exceeds 0.70, then 10/20/30 by confidence
// band.
func PointsForClassification(label string, confidence float64) int {
	if !IsInvasiveLabel(label) || confidence <= minAwardConfidence {
		return 0
	}
	switch {
	case confidence > tierThreeConfidence:
		return tierThreePoints
	case confidence > tierTwoConfidence:
		return tierTwoPoints
	default:
		return tierOnePoints
	}
}

// IsInvasiveLabel reports whether a classification label is an invasive
// category ("invasive-plant", "invasive-insect", ...).
func IsInvasiveLabel(label string) bool {
	return strings.HasPrefix(strings.ToLower(label), "invasive")
}
