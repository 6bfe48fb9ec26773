package notifier

import (
	"context"
	"time"

	"github.com/nurbek-a/taskline/internal/models"
)

// dedupWindowStart returns the start of the lookback window searched for a
// prior notification of the given type. The second return value is false
// when the type is not deduplicated at all.
//
// Reminders are deliberately not deduplicated: every scan tick that matches
// the reminder window fires again. This at-least-once behavior is a known
// characteristic of the product, not an oversight to patch here.
func dedupWindowStart(notifType string, now time.Time) (time.Time, bool) {
	switch notifType {
	case models.NotificationTaskDue:
		// at most one due-today notification per task per calendar day
		return StartOfDay(now), true
	case models.NotificationTaskOverdue:
		// rolling 24h lookback, not calendar-aligned
		return now.Add(-24 * time.Hour), true
	default:
		return time.Time{}, false
	}
}

// shouldNotify decides whether a notification of the given type may be
// created for the task. Check-then-create: advisory under a single
// scheduling process, not a transactional guarantee.
func (s *Scanner) shouldNotify(ctx context.Context, task models.Task, notifType string, now time.Time) (bool, error) {
	since, checked := dedupWindowStart(notifType, now)
	if !checked {
		return true, nil
	}

	existing, err := s.notifications.FindRecentByTask(ctx, task.UserID, task.ID, notifType, since)
	if err != nil {
		return false, err
	}
	return existing == nil, nil
}
